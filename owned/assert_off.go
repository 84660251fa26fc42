//go:build !debug

package owned

// assertRefs is a no-op in production.
// Enable with -tags debug for runtime checks.
func assertRefs(string, int32) {}

// assertRetained is a no-op in production.
// Enable with -tags debug for runtime checks.
func assertRetained(string, int32) {}
