// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vao

import (
	"math"
	"testing"

	"cogentcore.org/glui/glbuf"
	"cogentcore.org/glui/gpu/headless"
	"cogentcore.org/glui/shaders"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocUnique(t *testing.T) {
	a := NewAllocator(0, 0)
	var slots []*Slot
	for i := range 20 {
		s, err := a.Alloc(3 + i%3)
		require.NoError(t, err)
		slots = append(slots, s)
	}
	for i, s := range slots {
		if i%4 == 1 {
			a.Free(s)
		}
	}
	for range 5 {
		s, err := a.Alloc(4)
		require.NoError(t, err)
		slots = append(slots, s)
	}
	seen := map[int]*Slot{}
	for _, s := range slots {
		if !s.Live() {
			continue
		}
		for v := s.Offset; v < s.Offset+s.Size; v++ {
			assert.Nil(t, seen[v], "vertex %d used twice", v)
			seen[v] = s
		}
	}
}

func TestFreeAtEnd(t *testing.T) {
	a := NewAllocator(0, 0)
	s1, _ := a.Alloc(4)
	s2, _ := a.Alloc(4)
	s3, _ := a.Alloc(4)
	assert.Equal(t, 12, a.Used())

	a.Free(s3)
	assert.Equal(t, 8, a.Used())
	assert.Equal(t, 0, a.Fragmented())

	// s1 becomes a chunk; freeing s2 then cascades through it
	a.Free(s1)
	assert.Equal(t, 8, a.Used())
	assert.Equal(t, 4, a.Fragmented())
	a.Free(s2)
	assert.Equal(t, 0, a.Used())
	assert.Equal(t, 0, a.Fragmented())
	assert.Empty(t, a.FreeChunks())
}

func TestReuseLIFO(t *testing.T) {
	a := NewAllocator(0, 0)
	var slots []*Slot
	for range 6 {
		s, _ := a.Alloc(4)
		slots = append(slots, s)
	}
	odd, _ := a.Alloc(3)
	_, _ = a.Alloc(4)
	used := a.Used()

	a.Free(slots[1])
	a.Free(slots[3])
	a.Free(odd)

	s, err := a.Alloc(4)
	require.NoError(t, err)
	assert.Equal(t, 12, s.Offset, "most recently freed chunk of size 4 first")
	s, _ = a.Alloc(4)
	assert.Equal(t, 4, s.Offset)
	s, _ = a.Alloc(3)
	assert.Equal(t, 24, s.Offset)
	assert.Equal(t, used, a.Used())

	s, _ = a.Alloc(4)
	assert.Equal(t, used, s.Offset, "no free chunk left, the mark grows")
}

func TestCapacity(t *testing.T) {
	a := NewAllocator(0, 10)
	_, err := a.Alloc(8)
	require.NoError(t, err)
	_, err = a.Alloc(3)
	assert.ErrorIs(t, err, ErrInsufficientResources)
	_, err = a.Alloc(0)
	assert.Error(t, err)
}

func TestCompact(t *testing.T) {
	a := NewAllocator(0, 0)
	var slots []*Slot
	for range 5 {
		s, _ := a.Alloc(2)
		slots = append(slots, s)
	}
	a.Free(slots[0])
	a.Free(slots[2])
	free := a.Compact()
	assert.Equal(t, []glbuf.Chunk{{Offset: 0, Size: 2}, {Offset: 4, Size: 2}}, free)
	assert.Equal(t, 6, a.Used())
	assert.Equal(t, 0, slots[1].Offset)
	assert.Equal(t, 2, slots[3].Offset)
	assert.Equal(t, 4, slots[4].Offset)
	assert.Nil(t, a.Compact())

	// compacted slots can still be freed
	a.Free(slots[4])
	assert.Equal(t, 4, a.Used())
}

func newVAO(t *testing.T, opts Options) (*VAO, *headless.Device) {
	dev := headless.New()
	reg, err := shaders.NewRegistry(dev, "")
	require.NoError(t, err)
	return New("test", reg.Get(shaders.Polygon), false, opts), dev
}

func writeSlot(v *VAO, s *Slot, id int16) {
	for i := range s.Size {
		v.Positions().Set(s.Offset+i, id, int16(i))
		v.Colors().Set(s.Offset+i, uint8(id), 0, 0, 255)
		v.Layers().Set(s.Offset+i, uint32(id))
	}
}

func TestFreeWritesSentinels(t *testing.T) {
	v, _ := newVAO(t, DefaultOptions())
	s1, _ := v.Alloc(3)
	s2, _ := v.Alloc(3)
	writeSlot(v, s1, 1)
	writeSlot(v, s2, 2)
	v.Free(s1)
	for i := range 3 {
		assert.Equal(t, []int16{math.MaxInt16, math.MaxInt16}, v.Positions().Get(i))
		assert.Equal(t, []uint8{0, 0, 0, 0}, v.Colors().Get(i))
	}
	assert.Equal(t, []int16{2, 0}, v.Positions().Get(3))
}

func TestDefragmentationTrigger(t *testing.T) {
	opts := DefaultOptions()
	opts.FragmentationThreshold = 16
	v, _ := newVAO(t, opts)
	var slots []*Slot
	for i := range 20 {
		s, err := v.Alloc(4)
		require.NoError(t, err)
		writeSlot(v, s, int16(i))
		slots = append(slots, s)
	}
	v.Indexes().Clear()
	for _, s := range slots {
		v.Indexes().AddPrimitive(s.Size, s.Offset)
	}

	var active int
	for i, s := range slots {
		if i%2 == 0 && i < 19 {
			v.Free(s)
			continue
		}
		active += s.Size
	}
	require.GreaterOrEqual(t, v.Allocator().Fragmented(), 16)

	var compacted []glbuf.Chunk
	v.OnCompact(func(free []glbuf.Chunk) { compacted = free })
	s, err := v.Alloc(5)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Compactions())
	assert.NotEmpty(t, compacted)
	assert.Equal(t, active, s.Offset)
	assert.Equal(t, active+5, v.Allocator().Used())

	// values of the surviving slots are preserved in the same order
	prev := -1
	for i, sl := range slots {
		if !sl.Live() {
			continue
		}
		assert.Equal(t, []int16{int16(i), 0}, v.Positions().Get(sl.Offset))
		assert.Greater(t, sl.Offset, prev)
		prev = sl.Offset
	}
	// the index buffer follows the compaction
	var firsts []int
	for _, sl := range slots {
		if sl.Live() {
			firsts = append(firsts, sl.Offset)
		}
	}
	assert.Equal(t, firsts, v.Indexes().Primitives())
}

func TestCompactNoop(t *testing.T) {
	v, _ := newVAO(t, DefaultOptions())
	s, _ := v.Alloc(4)
	writeSlot(v, s, 7)
	v.Compact()
	assert.Equal(t, 0, v.Compactions())
	assert.Equal(t, 0, s.Offset)
	assert.Equal(t, []int16{7, 0}, v.Positions().Get(0))
}

func TestBind(t *testing.T) {
	v, dev := newVAO(t, DefaultOptions())
	s, _ := v.Alloc(4)
	writeSlot(v, s, 1)
	v.Indexes().AddPrimitive(4, s.Offset)
	v.Bind(dev)

	va := dev.VAOs[v.handle]
	require.NotNil(t, va)
	assert.Len(t, va.Attribs, 3)
	assert.Equal(t, v.Indexes().Handle(), va.Index)
	assert.True(t, dev.DepthTest)
	assert.True(t, dev.DepthWrite)
	assert.False(t, dev.Blend)
	pos := dev.Buffers[v.Positions().Handle()]
	assert.Equal(t, 1, pos.Uploads)
	assert.Len(t, pos.Data, 4*2*2)

	// no changes, no uploads
	v.Bind(dev)
	assert.Equal(t, 1, dev.Uploads(v.Positions().Handle()))

	tv := New("transparent", v.Program(), true, DefaultOptions())
	tv.Bind(dev)
	assert.True(t, dev.DepthTest)
	assert.False(t, dev.DepthWrite)
	assert.True(t, dev.Blend)

	h, ph := v.handle, v.Positions().Handle()
	v.Release(dev)
	assert.NotContains(t, dev.VAOs, h)
	assert.NotContains(t, dev.Buffers, ph)
	assert.Equal(t, 1, len(dev.VAOs), "only the transparent vertex array is left")
}
