// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package owned

import "github.com/dacapoday/sole/internal/cell"

// Unique is the sole owner of a heap value.
//
// The zero value owns nothing. So does a handle after Release or
// IntoRaw; Owns tells them apart from a live one.
type Unique[T any] struct {
	box *cell.Box[T]
}

// NewUnique allocates a value owned by the returned handle.
// drop runs exactly once when the value is released. A nil drop
// means release only forgets the value.
func NewUnique[T any](value T, drop func(*T)) *Unique[T] {
	return &Unique[T]{box: &cell.Box[T]{Value: value, Drop: drop}}
}

// UniqueFromRaw wraps a raw cell in a new owning handle.
// The caller gives up its ownership of the cell.
func UniqueFromRaw[T any](raw *cell.Box[T]) *Unique[T] {
	return &Unique[T]{box: raw}
}

// Owns reports whether the handle still owns a value.
// Safe on a nil handle.
func (unique *Unique[T]) Owns() bool {
	return unique != nil && unique.box != nil && !unique.box.Dead()
}

// Value returns the owned value for reading or writing.
// The pointer stays valid until the value is released.
// Panics if the handle owns nothing.
func (unique *Unique[T]) Value() *T {
	if !unique.Owns() {
		panic("owned: Unique.Value: owns nothing")
	}
	return &unique.box.Value
}

// Release drops the owned value and disarms the handle.
// No-op if the handle owns nothing; the drop hook runs at most
// once per value.
func (unique *Unique[T]) Release() {
	if unique == nil || unique.box == nil {
		return
	}
	box := unique.box
	unique.box = nil
	if box.Kill() && box.Drop != nil {
		box.Drop(&box.Value)
	}
}

// IntoRaw disarms the handle and returns the raw cell.
// Ownership moves to the caller. Panics if the handle owns nothing.
func (unique *Unique[T]) IntoRaw() *cell.Box[T] {
	if !unique.Owns() {
		panic("owned: Unique.IntoRaw: owns nothing")
	}
	box := unique.box
	unique.box = nil
	return box
}
