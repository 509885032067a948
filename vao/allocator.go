// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vao

import (
	"fmt"
	"log/slog"
	"math"
	"slices"

	"cogentcore.org/glui/base/errors"
	"cogentcore.org/glui/glbuf"
)

// ErrInsufficientResources is returned when a slot can not be
// allocated within the vertex capacity.
var ErrInsufficientResources = errors.New("vao: insufficient resources")

// DefaultFragmentationThreshold is the number of fragmented vertices
// at which the next allocation compacts the buffers first.
const DefaultFragmentationThreshold = 1024

// Slot is a contiguous run of vertices owned by one draw command.
// Its Offset is updated in place when the buffers are compacted, so
// holders always see the current offset.
type Slot struct {
	Offset int
	Size   int

	live bool
}

// Live reports whether the slot is still allocated.
func (s *Slot) Live() bool {
	return s != nil && s.live
}

func (s *Slot) String() string {
	return fmt.Sprintf("slot[%d+%d]", s.Offset, s.Size)
}

// Allocator hands out vertex slots below a used size high water mark.
// Freed slots below the mark become free chunks that are reused for
// requests of exactly the same size, most recently freed first.
type Allocator struct {

	// FragmentationThreshold is the number of vertices in free chunks
	// at which [Allocator.NeedsCompact] reports true.
	FragmentationThreshold int

	// MaxVertices is the capacity limit of the used size.
	MaxVertices int

	used       int
	fragmented int

	// bySize maps a chunk size to a LIFO stack of chunk offsets.
	bySize map[int][]int

	// byEnd maps the end of a free chunk to the chunk.
	byEnd map[int]glbuf.Chunk

	// live maps slot offsets to slots.
	live map[int]*Slot
}

// NewAllocator returns a new empty [Allocator]. Non-positive
// arguments select the defaults.
func NewAllocator(threshold, maxVertices int) *Allocator {
	if threshold <= 0 {
		threshold = DefaultFragmentationThreshold
	}
	if maxVertices <= 0 {
		maxVertices = math.MaxInt32
	}
	return &Allocator{
		FragmentationThreshold: threshold,
		MaxVertices:            maxVertices,
		bySize:                 map[int][]int{},
		byEnd:                  map[int]glbuf.Chunk{},
		live:                   map[int]*Slot{},
	}
}

// Used returns the used size high water mark.
func (a *Allocator) Used() int {
	return a.used
}

// Fragmented returns the number of vertices in free chunks.
func (a *Allocator) Fragmented() int {
	return a.fragmented
}

// Live returns the number of allocated slots.
func (a *Allocator) Live() int {
	return len(a.live)
}

// NeedsCompact reports whether fragmentation reached the threshold.
func (a *Allocator) NeedsCompact() bool {
	return a.fragmented > 0 && a.fragmented >= a.FragmentationThreshold
}

// Alloc returns a slot of n vertices, reusing the most recently freed
// chunk of exactly n vertices if there is one, and extending the used
// size otherwise.
func (a *Allocator) Alloc(n int) (*Slot, error) {
	if n <= 0 {
		return nil, fmt.Errorf("vao: invalid slot size %d", n)
	}
	if offs := a.bySize[n]; len(offs) > 0 {
		off := offs[len(offs)-1]
		a.removeChunk(glbuf.Chunk{Offset: off, Size: n})
		return a.newSlot(off, n), nil
	}
	if a.used > a.MaxVertices-n {
		return nil, fmt.Errorf("%w: %d + %d vertices exceeds %d", ErrInsufficientResources, a.used, n, a.MaxVertices)
	}
	off := a.used
	a.used += n
	return a.newSlot(off, n), nil
}

func (a *Allocator) newSlot(off, n int) *Slot {
	s := &Slot{Offset: off, Size: n, live: true}
	a.live[off] = s
	return s
}

// Free releases the slot. Freeing the last slot lowers the used size,
// also dropping any free chunks that become trailing; any other slot
// becomes a free chunk.
func (a *Allocator) Free(s *Slot) {
	if !s.Live() || a.live[s.Offset] != s {
		slog.Warn("vao: free of unknown slot", "slot", s)
		return
	}
	delete(a.live, s.Offset)
	s.live = false
	if s.Offset+s.Size != a.used {
		a.addChunk(glbuf.Chunk{Offset: s.Offset, Size: s.Size})
		return
	}
	a.used = s.Offset
	for {
		c, ok := a.byEnd[a.used]
		if !ok {
			break
		}
		a.removeChunk(c)
		a.used = c.Offset
	}
}

func (a *Allocator) addChunk(c glbuf.Chunk) {
	a.bySize[c.Size] = append(a.bySize[c.Size], c.Offset)
	a.byEnd[c.End()] = c
	a.fragmented += c.Size
}

func (a *Allocator) removeChunk(c glbuf.Chunk) {
	offs := a.bySize[c.Size]
	if i := slices.Index(offs, c.Offset); i >= 0 {
		offs = slices.Delete(offs, i, i+1)
	}
	if len(offs) == 0 {
		delete(a.bySize, c.Size)
	} else {
		a.bySize[c.Size] = offs
	}
	delete(a.byEnd, c.End())
	a.fragmented -= c.Size
}

// FreeChunks returns the free chunks sorted by offset.
func (a *Allocator) FreeChunks() []glbuf.Chunk {
	cs := make([]glbuf.Chunk, 0, len(a.byEnd))
	for _, c := range a.byEnd {
		cs = append(cs, c)
	}
	slices.SortFunc(cs, func(x, y glbuf.Chunk) int { return x.Offset - y.Offset })
	return cs
}

// Compact removes all free chunks, moving every live slot down by the
// size of the chunks below it, and returns the removed chunks sorted by
// offset for the buffers to apply the same compaction. It returns nil
// if there is nothing to compact.
func (a *Allocator) Compact() []glbuf.Chunk {
	free := a.FreeChunks()
	if len(free) == 0 {
		return nil
	}
	slots := make([]*Slot, 0, len(a.live))
	for _, s := range a.live {
		slots = append(slots, s)
	}
	slices.SortFunc(slots, func(x, y *Slot) int { return x.Offset - y.Offset })

	live := make(map[int]*Slot, len(slots))
	shift, ci := 0, 0
	for _, s := range slots {
		for ci < len(free) && free[ci].Offset < s.Offset {
			shift += free[ci].Size
			ci++
		}
		s.Offset -= shift
		live[s.Offset] = s
	}
	a.live = live
	a.used -= a.fragmented
	a.fragmented = 0
	clear(a.bySize)
	clear(a.byEnd)
	return free
}
