package sole

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dacapoday/sole/owned"
)

// payload is the test value: it knows which counter its drop hook
// bumps, so every test can account for releases exactly.
type payload struct {
	n     int
	drops *atomic.Int32
}

func (p payload) Clone() payload { return p }

func dropPayload(p *payload) { p.drops.Add(1) }

func newPayload(n int, drops *atomic.Int32) *owned.Unique[payload] {
	return owned.NewUnique(payload{n: n, drops: drops}, dropPayload)
}

func expectPanic(t *testing.T, want string, fn func()) {
	t.Helper()
	defer func() {
		if got := recover(); got != want {
			t.Fatalf("panic = %v, want %q", got, want)
		}
	}()
	fn()
}

func TestOwnSet(t *testing.T) {
	var drops atomic.Int32
	var own Own[payload]

	own.Set(newPayload(12345, &drops))
	if drops.Load() != 0 {
		t.Fatalf("drops = %d after set", drops.Load())
	}
	if got := own.Get().n; got != 12345 {
		t.Fatalf("Get = %d, want 12345", got)
	}

	own.Close()
	if drops.Load() != 1 {
		t.Fatalf("drops = %d after close, want 1", drops.Load())
	}
}

func TestOwnSetTwice(t *testing.T) {
	var drops atomic.Int32
	var own Own[payload]

	own.Set(newPayload(5, &drops))
	expectPanic(t, "sole: Own.Set: already set", func() {
		own.Set(newPayload(6, &drops))
	})

	// The loser was released before the panic; the winner stays.
	if drops.Load() != 1 {
		t.Fatalf("drops = %d after losing set, want 1", drops.Load())
	}
	if got := own.Get().n; got != 5 {
		t.Fatalf("Get = %d, want 5", got)
	}

	own.Close()
	if drops.Load() != 2 {
		t.Fatalf("drops = %d after close, want 2", drops.Load())
	}
}

func TestOwnGetUnset(t *testing.T) {
	var own Own[payload]
	expectPanic(t, "sole: Own.Get: not set", func() {
		own.Get()
	})
}

func TestOwnSetNothing(t *testing.T) {
	var own Own[payload]
	expectPanic(t, "owned: Unique.IntoRaw: owns nothing", func() {
		own.Set(nil)
	})
}

func TestOwnTake(t *testing.T) {
	var drops atomic.Int32
	var own Own[payload]

	own.Set(newPayload(23456, &drops))
	taken := own.Take()
	if drops.Load() != 0 {
		t.Fatalf("drops = %d after take", drops.Load())
	}
	if got := taken.Value().n; got != 23456 {
		t.Fatalf("taken value = %d, want 23456", got)
	}

	// The slot no longer owns the value.
	own.Close()
	if drops.Load() != 0 {
		t.Fatalf("drops = %d after closing a taken slot", drops.Load())
	}

	taken.Release()
	if drops.Load() != 1 {
		t.Fatalf("drops = %d after releasing taken, want 1", drops.Load())
	}
}

func TestOwnTakeUnset(t *testing.T) {
	var own Own[payload]
	if taken := own.Take(); taken != nil {
		t.Fatal("Take on empty slot returned a handle")
	}
	if taken := own.Take(); taken != nil {
		t.Fatal("second Take returned a handle")
	}
}

func TestOwnSpent(t *testing.T) {
	var drops atomic.Int32
	var own Own[payload]

	own.Set(newPayload(1, &drops))
	own.Take().Release()

	expectPanic(t, "sole: Own.Get: slot spent", func() {
		own.Get()
	})
	expectPanic(t, "sole: Own.Set: slot spent", func() {
		own.Set(newPayload(2, &drops))
	})

	// Both the taken value and the refused one are gone.
	if drops.Load() != 2 {
		t.Fatalf("drops = %d, want 2", drops.Load())
	}
}

func TestOwnClone(t *testing.T) {
	var ctr1, ctr2 atomic.Int32
	var own Own[payload]

	own.Set(newPayload(15, &ctr1))

	clone := CloneOwn(&own)
	copied := clone.Get()
	copied.n = 16
	copied.drops = &ctr2

	if got := own.Get().n; got != 15 {
		t.Fatalf("source = %d, want 15", got)
	}
	if got := clone.Get().n; got != 16 {
		t.Fatalf("clone = %d, want 16", got)
	}

	own.Close()
	if ctr1.Load() != 1 || ctr2.Load() != 0 {
		t.Fatalf("drops = %d/%d after closing source, want 1/0", ctr1.Load(), ctr2.Load())
	}

	clone.Close()
	if ctr1.Load() != 1 || ctr2.Load() != 1 {
		t.Fatalf("drops = %d/%d after closing clone, want 1/1", ctr1.Load(), ctr2.Load())
	}
}

func TestOwnCloneEmpty(t *testing.T) {
	var drops atomic.Int32
	var own Own[payload]

	clone := CloneOwn(&own)
	if _, ok := clone.TryGet(); ok {
		t.Fatal("clone of empty slot is not empty")
	}

	// The clone is a fresh slot, not a spent one.
	clone.Set(newPayload(1, &drops))
	if got := clone.Get().n; got != 1 {
		t.Fatalf("clone Get = %d, want 1", got)
	}
	clone.Close()
}

func TestOwnCloneSpent(t *testing.T) {
	var drops atomic.Int32
	var own Own[payload]

	own.Set(newPayload(1, &drops))
	own.Close()

	clone := CloneOwn(&own)
	if _, ok := clone.TryGet(); ok {
		t.Fatal("clone of spent slot is not empty")
	}
	if drops.Load() != 1 {
		t.Fatalf("drops = %d, want 1", drops.Load())
	}
}

func TestOwnFromSome(t *testing.T) {
	var drops atomic.Int32

	own := OwnOf(newPayload(34567, &drops))
	if drops.Load() != 0 {
		t.Fatalf("drops = %d after OwnOf", drops.Load())
	}
	if got := own.Get().n; got != 34567 {
		t.Fatalf("Get = %d, want 34567", got)
	}

	own.Close()
	if drops.Load() != 1 {
		t.Fatalf("drops = %d after close, want 1", drops.Load())
	}
}

func TestOwnFromNone(t *testing.T) {
	own := OwnOf[payload](nil)
	if taken := own.Take(); taken != nil {
		t.Fatal("Take on OwnOf(nil) returned a handle")
	}
}

func TestOwnTryGet(t *testing.T) {
	var drops atomic.Int32
	var own Own[payload]

	if _, ok := own.TryGet(); ok {
		t.Fatal("TryGet on empty slot succeeded")
	}

	own.Set(newPayload(7, &drops))
	view, ok := own.TryGet()
	if !ok || view.n != 7 {
		t.Fatalf("TryGet = %v, %v, want 7, true", view, ok)
	}

	own.Close()
	if _, ok := own.TryGet(); ok {
		t.Fatal("TryGet on spent slot succeeded")
	}
}

func TestOwnTrySet(t *testing.T) {
	var drops atomic.Int32
	var own Own[payload]

	if !own.TrySet(newPayload(1, &drops)) {
		t.Fatal("first TrySet lost")
	}
	if own.TrySet(newPayload(2, &drops)) {
		t.Fatal("second TrySet won")
	}
	if drops.Load() != 1 {
		t.Fatalf("drops = %d after losing TrySet, want 1", drops.Load())
	}
	if got := own.Get().n; got != 1 {
		t.Fatalf("Get = %d, want 1", got)
	}
	own.Close()
}

func TestOwnCloseIdempotent(t *testing.T) {
	var drops atomic.Int32
	var own Own[payload]

	own.Set(newPayload(1, &drops))
	own.Close()
	own.Close()
	if drops.Load() != 1 {
		t.Fatalf("drops = %d after double close, want 1", drops.Load())
	}
}

func TestOwnTrySetRace(t *testing.T) {
	const writers = 16

	var drops atomic.Int32
	var own Own[payload]
	var wins atomic.Int32

	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if own.TrySet(newPayload(i, &drops)) {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Fatalf("wins = %d, want 1", wins.Load())
	}
	if drops.Load() != writers-1 {
		t.Fatalf("drops = %d after race, want %d", drops.Load(), writers-1)
	}
	if view, ok := own.TryGet(); !ok || view.n < 0 || view.n >= writers {
		t.Fatalf("winner view = %v, %v", view, ok)
	}

	own.Close()
	if drops.Load() != writers {
		t.Fatalf("drops = %d after close, want %d", drops.Load(), writers)
	}
}

func TestOwnSetRace(t *testing.T) {
	const writers = 8

	var drops atomic.Int32
	var own Own[payload]
	var panics atomic.Int32

	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if recover() != nil {
					panics.Add(1)
				}
			}()
			own.Set(newPayload(i, &drops))
		}()
	}
	wg.Wait()

	if panics.Load() != writers-1 {
		t.Fatalf("panics = %d, want %d", panics.Load(), writers-1)
	}
	if drops.Load() != writers-1 {
		t.Fatalf("drops = %d, want %d", drops.Load(), writers-1)
	}

	own.Close()
	if drops.Load() != writers {
		t.Fatalf("drops = %d after close, want %d", drops.Load(), writers)
	}
}

// publication carries fields written before Set; readers must see
// them complete through the slot, never half-built.
type publication struct {
	a, b uint64
}

func TestOwnPublish(t *testing.T) {
	const readers = 8

	var own Own[publication]
	var wg sync.WaitGroup

	for range readers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				view, ok := own.TryGet()
				if !ok {
					continue
				}
				if view.a != 0xa5a5a5a5 || view.b != 0x5a5a5a5a {
					t.Errorf("torn read: %#x %#x", view.a, view.b)
				}
				return
			}
		}()
	}

	own.Set(owned.NewUnique(publication{a: 0xa5a5a5a5, b: 0x5a5a5a5a}, nil))
	wg.Wait()
	own.Close()
}

func TestOwnGetConcurrent(t *testing.T) {
	const readers = 16

	var drops atomic.Int32
	var own Own[payload]
	own.Set(newPayload(99, &drops))

	var wg sync.WaitGroup
	for range readers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				if own.Get().n != 99 {
					t.Error("Get saw wrong value")
					return
				}
			}
		}()
	}
	wg.Wait()

	own.Close()
	if drops.Load() != 1 {
		t.Fatalf("drops = %d, want 1", drops.Load())
	}
}
