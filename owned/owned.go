// Package owned provides the owning handles consumed by sole slots.
//
// A handle owns one heap value, alone (Unique) or jointly (Shared),
// and the value is released exactly once no matter how many handles
// saw it. Handles disarm whenever ownership moves: a released or
// converted handle keeps no path back to the value, and using it
// panics.
//
// IntoRaw and the FromRaw constructors move ownership between a
// handle and a raw cell without touching the value or its count.
// They exist for the sole containers; most callers never need them.
//
// A handle itself is single-owner state, not for concurrent use.
// To share a value across goroutines, move it into a sole container
// and read through that.
package owned
