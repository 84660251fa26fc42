package sole

import (
	"sync/atomic"

	"github.com/dacapoday/sole/internal/cell"
	"github.com/dacapoday/sole/owned"
)

// Own is a write-once container for an exclusively owned value.
//
// The slot is a single atomic pointer. It is nil while empty and
// points to a live cell once set; a dead cell marks the slot spent
// (taken or closed). Spent is terminal; the slot never returns to
// empty, so a value can be published at most once per slot
// lifetime.
//
// Zero value is an empty slot, ready to use. Must not be copied
// after first use.
type Own[T any] struct {
	ptr atomic.Pointer[cell.Box[T]]
}

// OwnOf returns a slot holding the handle's value, or an empty slot
// for a handle that owns nothing. The handle is consumed.
func OwnOf[T any](unique *owned.Unique[T]) *Own[T] {
	own := new(Own[T])
	if unique.Owns() {
		own.ptr.Store(unique.IntoRaw())
	}
	return own
}

// Set publishes the handle's value into the slot.
// The handle is consumed either way: if the slot already holds or
// held a value, the argument's value is released first and then
// Set panics. Panics as well if the handle owns nothing.
func (own *Own[T]) Set(unique *owned.Unique[T]) {
	if own.TrySet(unique) {
		return
	}
	if own.ptr.Load().Dead() {
		panic("sole: Own.Set: slot spent")
	}
	panic("sole: Own.Set: already set")
}

// TrySet publishes the handle's value and reports whether this call
// won the slot. The handle is consumed either way; on false the
// argument's value has already been released. Panics if the handle
// owns nothing.
func (own *Own[T]) TrySet(unique *owned.Unique[T]) bool {
	raw := unique.IntoRaw()
	if own.ptr.CompareAndSwap(nil, raw) {
		return true
	}
	owned.UniqueFromRaw(raw).Release()
	return false
}

// Get returns a borrowed view of the published value.
// The view stays valid until the slot is taken or closed; callers
// coordinate that with the slot's owner, not with Get. Panics on an
// empty or spent slot.
func (own *Own[T]) Get() *T {
	raw := own.ptr.Load()
	if raw == nil {
		panic("sole: Own.Get: not set")
	}
	if raw.Dead() {
		panic("sole: Own.Get: slot spent")
	}
	return &raw.Value
}

// TryGet returns a borrowed view of the published value, or false
// for an empty or spent slot.
func (own *Own[T]) TryGet() (*T, bool) {
	raw := own.ptr.Load()
	if raw == nil || raw.Dead() {
		return nil, false
	}
	return &raw.Value, true
}

// Take moves the value out, spending the slot.
// Returns nil if the slot was empty or already spent; the slot is
// spent afterwards in every case, and Close then releases nothing.
// Needs exclusive access to the slot, like Close.
func (own *Own[T]) Take() *owned.Unique[T] {
	raw := own.ptr.Swap(cell.DeadBox[T]())
	if raw == nil || raw.Dead() {
		return nil
	}
	return owned.UniqueFromRaw(raw)
}

// Close releases the published value, if the slot still owns one,
// and spends the slot. Idempotent. Needs exclusive access: no
// concurrent Get may borrow the value while it is released.
func (own *Own[T]) Close() {
	raw := own.ptr.Swap(cell.DeadBox[T]())
	if raw == nil || raw.Dead() {
		return
	}
	owned.UniqueFromRaw(raw).Release()
}

// CloneOwn duplicates a slot by duplicating its value.
// An empty or spent slot clones to a fresh empty one. The new value
// inherits the source's drop hook; the source is only borrowed, so
// the caller needs shared access (no concurrent Take or Close).
//
// A package function rather than a method: the value must know how
// to copy itself, and only a function can demand that of T.
func CloneOwn[T Cloneable[T]](own *Own[T]) *Own[T] {
	raw := own.ptr.Load()
	if raw == nil || raw.Dead() {
		return new(Own[T])
	}
	return OwnOf(owned.NewUnique(raw.Value.Clone(), raw.Drop))
}
