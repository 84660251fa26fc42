// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package owned

import "github.com/dacapoday/sole/internal/cell"

// Weak observes a shared value without owning a reference.
// It does not keep the value alive; its one job is to recover a
// real reference while one still exists.
//
// The zero value upgrades to nothing. A Weak may outlive the value
// and be upgraded from any goroutine.
type Weak[T any] struct {
	counted *cell.Counted[T]
}

// Upgrade attempts to recover an owning handle.
// Fails once the count reached zero; a dropped value is never
// resurrected.
func (weak *Weak[T]) Upgrade() (*Shared[T], bool) {
	if weak == nil || weak.counted == nil {
		return nil, false
	}
	for {
		refs := weak.counted.Refs.Load()
		if refs < 1 {
			return nil, false
		}
		if weak.counted.Refs.CompareAndSwap(refs, refs+1) {
			return &Shared[T]{counted: weak.counted}, true
		}
	}
}
