//go:build debug

package owned

import "fmt"

// assertRefs panics if a release drove the count negative.
// Only enabled with -tags debug.
func assertRefs(method string, refs int32) {
	if refs < 0 {
		panic(fmt.Sprintf("%s: refcount %d < 0", method, refs))
	}
}

// assertRetained panics if a retain found no pinned reference.
// Only enabled with -tags debug.
func assertRetained(method string, refs int32) {
	if refs < 2 {
		panic(fmt.Sprintf("%s: refcount %d < 2", method, refs))
	}
}
