// Package sole provides write-once containers for owned heap values.
//
// A container starts empty and accepts exactly one value from any
// goroutine. From then on it serves borrowed views of the value
// with a single atomic load. The value is released exactly once, by
// the container or by whoever takes it back out.
//
// Two container variants:
//   - Own holds an exclusively owned value (owned.Unique).
//     Duplication copies the value and needs Cloneable.
//   - Ref holds a jointly owned value (owned.Shared).
//     Duplication shares the value and works for any T.
//
// Set races are decided by one compare-and-swap; the losing value
// is released before the loser learns it lost. Misuse panics:
// setting a full or spent container, reading an empty or spent one.
// The Try variants report instead of panicking.
package sole

// Cloneable is satisfied by values that can duplicate themselves.
// CloneOwn requires it; Ref.Clone does not.
type Cloneable[T any] interface {
	Clone() T
}
