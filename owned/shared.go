// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package owned

import "github.com/dacapoday/sole/internal/cell"

// Shared is a joint owner of a heap value.
// Each live handle on the same cell holds one reference; the last
// release drops the value.
//
// The zero value owns nothing.
type Shared[T any] struct {
	counted *cell.Counted[T]
}

// NewShared allocates a value with a single reference, owned by the
// returned handle. drop runs when the last reference is released.
// A nil drop means release only forgets the value.
func NewShared[T any](value T, drop func(*T)) *Shared[T] {
	shared := &Shared[T]{counted: &cell.Counted[T]{Value: value, Drop: drop}}
	shared.counted.Refs.Store(1)
	return shared
}

// SharedFromRaw wraps a raw cell in a new owning handle.
// The count does not change: the caller's reference moves into the
// handle.
func SharedFromRaw[T any](raw *cell.Counted[T]) *Shared[T] {
	return &Shared[T]{counted: raw}
}

// RetainRaw adds a reference to a borrowed cell and returns the new
// owning handle. The cell must be pinned by a reference the caller
// does not own, such as the one a sole slot holds.
func RetainRaw[T any](raw *cell.Counted[T]) *Shared[T] {
	refs := raw.Refs.Add(1)
	assertRetained("owned.RetainRaw", refs)
	return &Shared[T]{counted: raw}
}

// Owns reports whether the handle still owns a reference.
// Safe on a nil handle.
func (shared *Shared[T]) Owns() bool {
	return shared != nil && shared.counted != nil
}

// Value returns the shared value.
// The pointer stays valid while the handle owns its reference.
// Panics if the handle owns nothing.
func (shared *Shared[T]) Value() *T {
	if !shared.Owns() {
		panic("owned: Shared.Value: owns nothing")
	}
	return &shared.counted.Value
}

// RefCount returns the number of live references, this handle
// included. Another goroutine may change it at any moment.
// Panics if the handle owns nothing.
func (shared *Shared[T]) RefCount() int32 {
	if !shared.Owns() {
		panic("owned: Shared.RefCount: owns nothing")
	}
	return shared.counted.Refs.Load()
}

// Clone adds a reference and returns the new owning handle.
// Panics if the handle owns nothing.
func (shared *Shared[T]) Clone() *Shared[T] {
	if !shared.Owns() {
		panic("owned: Shared.Clone: owns nothing")
	}
	return RetainRaw(shared.counted)
}

// Release gives up the handle's reference and disarms the handle.
// The release that reaches zero runs the drop hook. No-op if the
// handle owns nothing.
func (shared *Shared[T]) Release() {
	if shared == nil || shared.counted == nil {
		return
	}
	counted := shared.counted
	shared.counted = nil
	refs := counted.Refs.Add(-1)
	assertRefs("owned.Shared.Release", refs)
	if refs == 0 && counted.Drop != nil {
		counted.Drop(&counted.Value)
	}
}

// IntoRaw disarms the handle and returns the raw cell.
// The count does not change: the handle's reference moves to the
// caller. Panics if the handle owns nothing.
func (shared *Shared[T]) IntoRaw() *cell.Counted[T] {
	if !shared.Owns() {
		panic("owned: Shared.IntoRaw: owns nothing")
	}
	counted := shared.counted
	shared.counted = nil
	return counted
}

// Weak returns a non-owning observer of the shared value.
// Panics if the handle owns nothing.
func (shared *Shared[T]) Weak() *Weak[T] {
	if !shared.Owns() {
		panic("owned: Shared.Weak: owns nothing")
	}
	return &Weak[T]{counted: shared.counted}
}
