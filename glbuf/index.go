// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package glbuf

import (
	"encoding/binary"
	"sort"
	"sync"

	"cogentcore.org/glui/gpu"
)

// RestartIndex is the primitive restart index that separates fans.
const RestartIndex = 0xFFFFFFFF

// IndexBuffer is a list of triangle fans, each one a run of vertex
// indexes followed by [RestartIndex].
type IndexBuffer struct {
	usage gpu.Usage

	mu     sync.Mutex
	data   []uint32
	dirty  bool
	handle gpu.Handle
}

// NewIndexBuffer returns a new empty [IndexBuffer].
func NewIndexBuffer(usage gpu.Usage) *IndexBuffer {
	return &IndexBuffer{usage: usage}
}

// Len returns the number of indexes, including restart indexes.
func (ib *IndexBuffer) Len() int {
	return len(ib.data)
}

// Indexes returns the current indexes. The slice must not be modified.
func (ib *IndexBuffer) Indexes() []uint32 {
	return ib.data
}

// Handle returns the device buffer, or 0 before the first upload.
func (ib *IndexBuffer) Handle() gpu.Handle {
	return ib.handle
}

// Clear removes all primitives.
func (ib *IndexBuffer) Clear() {
	if len(ib.data) == 0 {
		return
	}
	ib.data = ib.data[:0]
	ib.dirty = true
}

// AddPrimitive appends a fan over the vertexCount vertices starting
// at firstVertex.
func (ib *IndexBuffer) AddPrimitive(vertexCount, firstVertex int) {
	for i := range vertexCount {
		ib.data = append(ib.data, uint32(firstVertex+i))
	}
	ib.data = append(ib.data, RestartIndex)
	ib.dirty = true
}

// Primitives returns the first vertex of every fan, in order.
func (ib *IndexBuffer) Primitives() []int {
	var firsts []int
	start := true
	for _, v := range ib.data {
		if v == RestartIndex {
			start = true
			continue
		}
		if start {
			firsts = append(firsts, int(v))
			start = false
		}
	}
	return firsts
}

// Defragment rewrites the indexes for the removal of the given free
// chunks, which must be sorted by offset. Fans that reference a freed
// vertex are dropped.
func (ib *IndexBuffer) Defragment(free []Chunk) {
	if len(free) == 0 || len(ib.data) == 0 {
		return
	}
	// shift[i] is the total size of the chunks before and including free[i]
	shift := make([]int, len(free))
	total := 0
	for i, c := range free {
		total += c.Size
		shift[i] = total
	}
	remap := func(v int) (int, bool) {
		i := sort.Search(len(free), func(i int) bool { return free[i].End() > v })
		if i < len(free) && free[i].Offset <= v {
			return 0, false
		}
		if i == 0 {
			return v, true
		}
		return v - shift[i-1], true
	}

	out := ib.data[:0]
	var fan []uint32
	keep := true
	for _, v := range ib.data {
		if v == RestartIndex {
			if keep && len(fan) > 0 {
				out = append(out, fan...)
				out = append(out, RestartIndex)
			}
			fan = fan[:0]
			keep = true
			continue
		}
		nv, ok := remap(int(v))
		if !ok {
			keep = false
		}
		fan = append(fan, uint32(nv))
	}
	ib.data = out
	ib.dirty = true
}

// Upload mirrors the indexes into the device buffer if they changed
// since the last upload, and reports whether it did.
func (ib *IndexBuffer) Upload(dev gpu.Device) bool {
	ib.mu.Lock()
	defer ib.mu.Unlock()
	if ib.handle == 0 {
		ib.handle = dev.CreateBuffer()
		ib.dirty = true
	}
	if !ib.dirty {
		return false
	}
	out := make([]byte, len(ib.data)*4)
	for i, v := range ib.data {
		binary.NativeEndian.PutUint32(out[i*4:], v)
	}
	dev.BufferData(gpu.ElementArrayBuffer, ib.handle, out, ib.usage)
	ib.dirty = false
	return true
}

// Release deletes the device buffer.
func (ib *IndexBuffer) Release(dev gpu.Device) {
	ib.mu.Lock()
	defer ib.mu.Unlock()
	if ib.handle != 0 {
		dev.DeleteBuffer(ib.handle)
		ib.handle = 0
	}
	ib.dirty = true
}
