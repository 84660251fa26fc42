// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

// Package cell defines the heap cells behind sole slots and owned handles.
//
// A cell has exactly one owner at a time for Box, or a counted set of
// owners for Counted. Ownership moves by passing the raw cell pointer,
// never by copying the value.
package cell

import "sync/atomic"

// Box holds one value under exclusive ownership.
// A dead cell no longer carries a live value.
type Box[T any] struct {
	Value T
	Drop  func(*T)
	dead  atomic.Bool
}

// Kill marks the cell dead.
// Exactly one caller observes true; that caller runs Drop.
func (box *Box[T]) Kill() bool {
	return box.dead.CompareAndSwap(false, true)
}

// Dead reports whether the value is gone.
func (box *Box[T]) Dead() bool {
	return box.dead.Load()
}

// DeadBox returns a cell that was born dead.
// Slots install it to mark themselves spent.
func DeadBox[T any]() *Box[T] {
	box := new(Box[T])
	box.dead.Store(true)
	return box
}

// Counted holds one value shared by reference-counted owners.
// The value is live while Refs is at least 1; the release that
// drives Refs to 0 runs Drop.
type Counted[T any] struct {
	Value T
	Drop  func(*T)
	Refs  atomic.Int32
}

// Dead reports whether every reference was released.
func (cell *Counted[T]) Dead() bool {
	return cell.Refs.Load() < 1
}

// DeadCounted returns a cell with no references and no value.
// Slots install it to mark themselves spent.
func DeadCounted[T any]() *Counted[T] {
	return new(Counted[T])
}
