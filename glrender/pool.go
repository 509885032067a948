// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package glrender

import (
	"fmt"
)

// IndexPool hands out small integer handles. Released handles are
// reused first in first out, so that a handle just released is the last
// one to be handed out again.
type IndexPool struct {
	max   int
	next  int
	free  []int
	inUse []bool
}

// NewIndexPool returns a pool of at most max handles.
func NewIndexPool(max int) *IndexPool {
	return &IndexPool{max: max}
}

// Assign returns the next free handle, or [ErrInsufficientResources]
// if every handle is in use.
func (p *IndexPool) Assign() (Handle, error) {
	if len(p.free) > 0 {
		i := p.free[0]
		p.free = p.free[1:]
		p.inUse[i] = true
		return Handle(i), nil
	}
	if p.next >= p.max {
		return NoHandle, fmt.Errorf("%w: %d render objects", ErrInsufficientResources, p.max)
	}
	i := p.next
	p.next++
	p.inUse = append(p.inUse, true)
	return Handle(i), nil
}

// Release gives the handle back to the pool. It reports whether the
// handle was in use.
func (p *IndexPool) Release(h Handle) bool {
	if !p.InUse(h) {
		return false
	}
	p.inUse[h] = false
	p.free = append(p.free, int(h))
	return true
}

// InUse reports whether the handle is assigned.
func (p *IndexPool) InUse(h Handle) bool {
	return h >= 0 && int(h) < len(p.inUse) && p.inUse[h]
}

// Len returns the number of handles in use.
func (p *IndexPool) Len() int {
	return p.next - len(p.free)
}
