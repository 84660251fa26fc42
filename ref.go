package sole

import (
	"sync/atomic"

	"github.com/dacapoday/sole/internal/cell"
	"github.com/dacapoday/sole/owned"
)

// Ref is a write-once container for a jointly owned value.
//
// Same slot discipline as Own over a reference-counted cell: the
// slot itself holds one reference, released by Close or moved out
// by Take. Handles cloned from the slot keep the value alive after
// the slot is gone.
//
// Zero value is an empty slot, ready to use. Must not be copied
// after first use.
type Ref[T any] struct {
	ptr atomic.Pointer[cell.Counted[T]]
}

// RefOf returns a slot holding the handle's reference, or an empty
// slot for a handle that owns nothing. The handle is consumed; the
// count does not change.
func RefOf[T any](shared *owned.Shared[T]) *Ref[T] {
	ref := new(Ref[T])
	if shared.Owns() {
		ref.ptr.Store(shared.IntoRaw())
	}
	return ref
}

// Set publishes the handle's reference into the slot.
// The handle is consumed either way: if the slot already holds or
// held a value, the argument's reference is released first (which
// may drop its value) and then Set panics. Panics as well if the
// handle owns nothing.
func (ref *Ref[T]) Set(shared *owned.Shared[T]) {
	if ref.TrySet(shared) {
		return
	}
	if ref.ptr.Load().Dead() {
		panic("sole: Ref.Set: slot spent")
	}
	panic("sole: Ref.Set: already set")
}

// TrySet publishes the handle's reference and reports whether this
// call won the slot. The handle is consumed either way; on false
// the argument's reference has already been released. Panics if the
// handle owns nothing.
func (ref *Ref[T]) TrySet(shared *owned.Shared[T]) bool {
	raw := shared.IntoRaw()
	if ref.ptr.CompareAndSwap(nil, raw) {
		return true
	}
	owned.SharedFromRaw(raw).Release()
	return false
}

// Get returns a borrowed view of the published value.
// The view is pinned by the slot's own reference, so it stays valid
// until the slot is taken or closed. Panics on an empty or spent
// slot.
func (ref *Ref[T]) Get() *T {
	raw := ref.ptr.Load()
	if raw == nil {
		panic("sole: Ref.Get: not set")
	}
	if raw.Dead() {
		panic("sole: Ref.Get: slot spent")
	}
	return &raw.Value
}

// TryGet returns a borrowed view of the published value, or false
// for an empty or spent slot.
func (ref *Ref[T]) TryGet() (*T, bool) {
	raw := ref.ptr.Load()
	if raw == nil || raw.Dead() {
		return nil, false
	}
	return &raw.Value, true
}

// Take moves the slot's reference out, spending the slot.
// The count does not change. Returns nil if the slot was empty or
// already spent. Needs exclusive access to the slot, like Close.
func (ref *Ref[T]) Take() *owned.Shared[T] {
	raw := ref.ptr.Swap(cell.DeadCounted[T]())
	if raw == nil || raw.Dead() {
		return nil
	}
	return owned.SharedFromRaw(raw)
}

// Close releases the slot's reference, if the slot still owns one,
// and spends the slot. The value is dropped only when this was the
// last reference. Idempotent. Needs exclusive access: no concurrent
// Get may borrow through the slot while its reference goes away.
func (ref *Ref[T]) Close() {
	raw := ref.ptr.Swap(cell.DeadCounted[T]())
	if raw == nil || raw.Dead() {
		return
	}
	owned.SharedFromRaw(raw).Release()
}

// Clone duplicates the slot by sharing its value.
// An empty or spent slot clones to a fresh empty one; otherwise the
// new slot owns a reference of its own (count +1). The source is
// only borrowed, and its reference pins the cell, so Clone needs
// shared access (no concurrent Take or Close).
func (ref *Ref[T]) Clone() *Ref[T] {
	raw := ref.ptr.Load()
	if raw == nil || raw.Dead() {
		return new(Ref[T])
	}
	return RefOf(owned.RetainRaw(raw))
}
