// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package glbuf provides typed, growable CPU side vertex attribute and
// index buffers that mirror their contents into device buffers.
//
// A buffer is addressed by logical vertex index; each vertex has a fixed
// number of components. Storage grows geometrically, contents are only
// re-uploaded when they changed, and a buffer can be compacted by
// dropping a sorted list of free chunks.
package glbuf

import (
	"encoding/binary"
	"fmt"
	"slices"
	"sync"

	"cogentcore.org/glui/gpu"
	"golang.org/x/exp/constraints"
)

// Growth is the storage growth policy of a buffer, in elements
// (vertex count times components).
type Growth struct {

	// Initial is the number of elements allocated on first use.
	Initial int

	// DoublingLimit is the size below which storage doubles.
	DoublingLimit int

	// Increment is the number of elements added per step at or
	// above DoublingLimit.
	Increment int
}

// DefaultGrowth returns the default growth policy:
// start at 256 elements, double below 0xffff, then add 1024.
func DefaultGrowth() Growth {
	return Growth{Initial: 256, DoublingLimit: 0xffff, Increment: 1024}
}

// Grow returns the capacity to use to hold at least need elements
// when the current capacity is cur.
func (g Growth) Grow(cur, need int) int {
	if cur <= 0 {
		cur = max(g.Initial, 1)
	}
	for cur < need {
		if cur < g.DoublingLimit {
			cur *= 2
		} else {
			cur += max(g.Increment, 1)
		}
	}
	return cur
}

// Chunk is a contiguous run of vertices.
type Chunk struct {
	Offset int
	Size   int
}

// End returns the vertex index just past the chunk.
func (c Chunk) End() int {
	return c.Offset + c.Size
}

func (c Chunk) String() string {
	return fmt.Sprintf("[%d+%d]", c.Offset, c.Size)
}

// Element is the set of component types a [Buffer] can hold.
type Element interface {
	constraints.Integer
}

// Attribute is the type independent view of a vertex attribute
// [Buffer], as used by vertex arrays.
type Attribute interface {
	// Name returns the shader input name of the attribute.
	Name() string

	// Dim returns the number of components per vertex.
	Dim() int

	// Type returns the component type.
	Type() gpu.AttribType

	// Len returns the number of vertices in use.
	Len() int

	// SetLen sets the number of vertices in use, zero filling any added ones.
	SetLen(n int)

	// Defragment drops the given free chunks and sets the length to newSize.
	Defragment(newSize int, free []Chunk)

	// Upload uploads the contents if they changed since the last upload,
	// and reports whether the device buffer was (re)specified.
	Upload(dev gpu.Device) bool

	// Handle returns the device buffer, or 0 before the first upload.
	Handle() gpu.Handle

	// Release deletes the device buffer.
	Release(dev gpu.Device)
}

// Buffer is a vertex attribute buffer of Dim components of type T
// per vertex.
type Buffer[T Element] struct {
	name   string
	dim    int
	typ    gpu.AttribType
	usage  gpu.Usage
	growth Growth

	// mu guards data during upload and release.
	mu     sync.Mutex
	data   []T
	length int
	dirty  bool
	handle gpu.Handle
}

var _ Attribute = (*Buffer[int16])(nil)

// New returns a new [Buffer] with the given shader input name,
// component count and type.
func New[T Element](name string, dim int, typ gpu.AttribType, usage gpu.Usage, growth Growth) *Buffer[T] {
	if dim <= 0 {
		panic(fmt.Sprintf("glbuf: invalid dimension %d for %q", dim, name))
	}
	return &Buffer[T]{name: name, dim: dim, typ: typ, usage: usage, growth: growth}
}

// NewPositionBuffer returns a buffer of two int16 screen coordinates per vertex.
func NewPositionBuffer(name string, usage gpu.Usage, growth Growth) *Buffer[int16] {
	return New[int16](name, 2, gpu.Short, usage, growth)
}

// NewColorBuffer returns a buffer of four uint8 color channels per vertex.
func NewColorBuffer(name string, usage gpu.Usage, growth Growth) *Buffer[uint8] {
	return New[uint8](name, 4, gpu.UnsignedByte, usage, growth)
}

// NewValueBuffer returns a buffer of one uint32 per vertex.
func NewValueBuffer(name string, usage gpu.Usage, growth Growth) *Buffer[uint32] {
	return New[uint32](name, 1, gpu.UnsignedInt, usage, growth)
}

func (b *Buffer[T]) Name() string         { return b.name }
func (b *Buffer[T]) Dim() int             { return b.dim }
func (b *Buffer[T]) Type() gpu.AttribType { return b.typ }
func (b *Buffer[T]) Len() int             { return b.length }
func (b *Buffer[T]) Handle() gpu.Handle   { return b.handle }

// Cap returns the number of vertices the storage can hold without growing.
func (b *Buffer[T]) Cap() int {
	return len(b.data) / b.dim
}

// Dirty reports whether the contents changed since the last upload.
func (b *Buffer[T]) Dirty() bool {
	return b.dirty
}

func (b *Buffer[T]) ensure(vertices int) {
	need := vertices * b.dim
	if need <= len(b.data) {
		return
	}
	n := b.growth.Grow(len(b.data), need)
	nd := make([]T, n)
	copy(nd, b.data)
	b.data = nd
	b.dirty = true
}

// Set writes the components of the vertex at index, growing the
// storage and the length as needed. It panics unless exactly Dim
// values are given.
func (b *Buffer[T]) Set(index int, values ...T) {
	if len(values) != b.dim {
		panic(fmt.Sprintf("glbuf: %q takes %d components, got %d", b.name, b.dim, len(values)))
	}
	b.ensure(index + 1)
	if index >= b.length {
		b.length = index + 1
		b.dirty = true
	}
	dst := b.data[index*b.dim : (index+1)*b.dim]
	if slices.Equal(dst, values) {
		return
	}
	copy(dst, values)
	b.dirty = true
}

// SetAll writes the same components to n vertices starting at index.
func (b *Buffer[T]) SetAll(index, n int, values ...T) {
	for i := range n {
		b.Set(index+i, values...)
	}
}

// Get returns the components of the vertex at index.
func (b *Buffer[T]) Get(index int) []T {
	if index < 0 || index >= b.length {
		return nil
	}
	return slices.Clone(b.data[index*b.dim : (index+1)*b.dim])
}

// Remove logically frees the vertex at index. Only a trailing vertex
// shortens the buffer; other vertices keep their contents until they
// are overwritten, so callers write a sentinel value to hide them.
func (b *Buffer[T]) Remove(index int) {
	if index == b.length-1 {
		b.length--
		b.dirty = true
	}
}

// SetLen sets the number of vertices in use. Added vertices are zero.
func (b *Buffer[T]) SetLen(n int) {
	if n == b.length {
		return
	}
	if n > b.length {
		b.ensure(n)
		clear(b.data[b.length*b.dim : n*b.dim])
	}
	b.length = n
	b.dirty = true
}

// Defragment rebuilds the buffer without the given free chunks, which
// must be sorted by offset and not overlap. Occupied vertices keep their
// relative order; all previous offsets past the first chunk change.
// The resulting length is newSize.
func (b *Buffer[T]) Defragment(newSize int, free []Chunk) {
	if len(free) == 0 && newSize == b.length {
		return
	}
	nd := make([]T, max(len(b.data), newSize*b.dim))
	src, dst := 0, 0
	copyTo := func(end int) {
		end = min(end, b.length)
		if end > src {
			n := copy(nd[dst*b.dim:], b.data[src*b.dim:end*b.dim])
			dst += n / b.dim
		}
	}
	for _, c := range free {
		copyTo(c.Offset)
		src = max(src, c.End())
	}
	copyTo(b.length)
	b.data = nd
	b.length = newSize
	b.dirty = true
}

// bytes encodes the used part of the buffer in native byte order.
func (b *Buffer[T]) bytes() []byte {
	n := b.length * b.dim
	esz := b.typ.Size()
	out := make([]byte, n*esz)
	for i, v := range b.data[:n] {
		switch esz {
		case 1:
			out[i] = byte(v)
		case 2:
			binary.NativeEndian.PutUint16(out[i*2:], uint16(v))
		default:
			binary.NativeEndian.PutUint32(out[i*4:], uint32(v))
		}
	}
	return out
}

// Upload mirrors the contents into the device buffer if they changed
// since the last upload. It returns true if the device buffer was
// created or respecified, in which case vertex input bindings that use
// it must be refreshed.
func (b *Buffer[T]) Upload(dev gpu.Device) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handle == 0 {
		b.handle = dev.CreateBuffer()
		b.dirty = true
	}
	if !b.dirty {
		return false
	}
	dev.BufferData(gpu.ArrayBuffer, b.handle, b.bytes(), b.usage)
	b.dirty = false
	return true
}

// Release deletes the device buffer; the CPU contents are kept and are
// uploaded again into a new device buffer on the next [Buffer.Upload].
func (b *Buffer[T]) Release(dev gpu.Device) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handle != 0 {
		dev.DeleteBuffer(b.handle)
		b.handle = 0
	}
	b.dirty = true
}
