// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vao provides the vertex array draw targets of the renderer:
// a set of named attribute buffers sharing one vertex slot layout, an
// index buffer of triangle fans, and the slot [Allocator] with its
// defragmentation policy.
package vao

import (
	"fmt"
	"log/slog"
	"math"

	"cogentcore.org/glui/glbuf"
	"cogentcore.org/glui/gpu"
	"cogentcore.org/glui/shaders"
)

// Program is the shader program a [VAO] binds its buffers to.
type Program interface {
	// Handle returns the linked program.
	Handle() gpu.Handle

	// AttribLocation returns the location of the named vertex input, or -1.
	AttribLocation(name string) int32
}

// Options are the allocation and growth policies of a [VAO].
type Options struct {

	// FragmentationThreshold is the number of fragmented vertices
	// that triggers compaction on the next allocation.
	FragmentationThreshold int

	// MaxVertices is the vertex capacity.
	MaxVertices int

	// Growth is the buffer storage growth policy.
	Growth glbuf.Growth
}

// DefaultOptions returns the default [Options].
func DefaultOptions() Options {
	return Options{
		FragmentationThreshold: DefaultFragmentationThreshold,
		MaxVertices:            math.MaxInt32,
		Growth:                 glbuf.DefaultGrowth(),
	}
}

// VAO is a vertex array object for one shader program with either
// opaque or transparent contents. Every attribute buffer uses the same
// vertex slots, handed out by the allocator.
type VAO struct {
	name        string
	program     Program
	transparent bool
	opts        Options

	alloc  *Allocator
	attrs  []glbuf.Attribute
	byName map[string]glbuf.Attribute
	index  *glbuf.IndexBuffer

	positions *glbuf.Buffer[int16]
	colors    *glbuf.Buffer[uint8]
	layers    *glbuf.Buffer[uint32]

	handle    gpu.Handle
	bound     bool
	compacted func([]glbuf.Chunk)
	compacts  int
}

// New returns a new [VAO] drawing with the given program.
// The position, layer and color buffers always exist.
func New(name string, program Program, transparent bool, opts Options) *VAO {
	if opts.Growth == (glbuf.Growth{}) {
		opts.Growth = glbuf.DefaultGrowth()
	}
	v := &VAO{
		name:        name,
		program:     program,
		transparent: transparent,
		opts:        opts,
		alloc:       NewAllocator(opts.FragmentationThreshold, opts.MaxVertices),
		byName:      map[string]glbuf.Attribute{},
		index:       glbuf.NewIndexBuffer(gpu.DynamicDraw),
	}
	v.positions = v.Points(shaders.AttrPosition)
	v.layers = v.Values(shaders.AttrLayer)
	v.colors = glbuf.NewColorBuffer(shaders.AttrColor, gpu.DynamicDraw, opts.Growth)
	v.add(v.colors)
	return v
}

func (v *VAO) String() string {
	return v.name
}

func (v *VAO) add(a glbuf.Attribute) {
	v.attrs = append(v.attrs, a)
	v.byName[a.Name()] = a
	v.bound = false
}

// Points returns the buffer of two int16 per vertex with the given
// name, creating it on first use.
func (v *VAO) Points(name string) *glbuf.Buffer[int16] {
	if a, ok := v.byName[name]; ok {
		b, ok := a.(*glbuf.Buffer[int16])
		if !ok {
			panic(fmt.Sprintf("vao: %s: attribute %q is not a point buffer", v.name, name))
		}
		return b
	}
	b := glbuf.NewPositionBuffer(name, gpu.DynamicDraw, v.opts.Growth)
	v.add(b)
	return b
}

// Values returns the buffer of one uint32 per vertex with the given
// name, creating it on first use.
func (v *VAO) Values(name string) *glbuf.Buffer[uint32] {
	if a, ok := v.byName[name]; ok {
		b, ok := a.(*glbuf.Buffer[uint32])
		if !ok {
			panic(fmt.Sprintf("vao: %s: attribute %q is not a value buffer", v.name, name))
		}
		return b
	}
	b := glbuf.NewValueBuffer(name, gpu.DynamicDraw, v.opts.Growth)
	v.add(b)
	return b
}

// Positions returns the vertex position buffer.
func (v *VAO) Positions() *glbuf.Buffer[int16] { return v.positions }

// Colors returns the vertex color buffer.
func (v *VAO) Colors() *glbuf.Buffer[uint8] { return v.colors }

// Layers returns the vertex display layer buffer.
func (v *VAO) Layers() *glbuf.Buffer[uint32] { return v.layers }

// Attributes returns the attribute buffers in binding order.
func (v *VAO) Attributes() []glbuf.Attribute { return v.attrs }

// Indexes returns the index buffer.
func (v *VAO) Indexes() *glbuf.IndexBuffer { return v.index }

// Transparent reports whether the contents are drawn blended and back to front.
func (v *VAO) Transparent() bool { return v.transparent }

// Program returns the program the buffers are bound to.
func (v *VAO) Program() Program { return v.program }

// Allocator returns the slot allocator.
func (v *VAO) Allocator() *Allocator { return v.alloc }

// Compactions returns the number of compactions done so far.
func (v *VAO) Compactions() int { return v.compacts }

// OnCompact sets the function called with the removed chunks after
// every compaction, once all slots have their new offsets.
func (v *VAO) OnCompact(fn func(free []glbuf.Chunk)) {
	v.compacted = fn
}

// Alloc returns a new slot of n vertices, compacting the buffers
// first if the fragmentation threshold has been reached.
func (v *VAO) Alloc(n int) (*Slot, error) {
	if v.alloc.NeedsCompact() {
		v.Compact()
	}
	s, err := v.alloc.Alloc(n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", v.name, err)
	}
	slog.Debug("vao: alloc", "vao", v.name, "slot", s.String())
	return s, nil
}

// Free hides the vertices of the slot behind sentinel values and
// returns it to the allocator.
func (v *VAO) Free(s *Slot) {
	if !s.Live() {
		return
	}
	v.positions.SetAll(s.Offset, s.Size, math.MaxInt16, math.MaxInt16)
	v.colors.SetAll(s.Offset, s.Size, 0, 0, 0, 0)
	v.alloc.Free(s)
}

// Compact removes all free chunks from every buffer and from the
// index buffer. Slot offsets are updated in place.
func (v *VAO) Compact() {
	used := v.alloc.Used()
	free := v.alloc.Compact()
	if free == nil {
		return
	}
	for _, a := range v.attrs {
		if a.Len() < used {
			a.SetLen(used)
		}
		a.Defragment(v.alloc.Used(), free)
	}
	v.index.Defragment(free)
	v.compacts++
	slog.Debug("vao: compacted", "vao", v.name, "chunks", len(free), "used", v.alloc.Used())
	if v.compacted != nil {
		v.compacted(free)
	}
}

// Bind makes the vertex array current with its program, uploads the
// buffers that changed and sets the depth and blend state. If any
// attribute buffer was respecified, every vertex input is unbound and
// bound again.
func (v *VAO) Bind(dev gpu.Device) {
	if v.handle == 0 {
		v.handle = dev.CreateVertexArray()
		v.bound = false
	}
	dev.BindVertexArray(v.handle)
	dev.UseProgram(v.program.Handle())

	rebind := !v.bound
	used := v.alloc.Used()
	for _, a := range v.attrs {
		a.SetLen(used)
		if a.Upload(dev) {
			rebind = true
		}
	}
	if rebind {
		locs := make([]int32, len(v.attrs))
		for i, a := range v.attrs {
			locs[i] = v.program.AttribLocation(a.Name())
			if locs[i] >= 0 {
				dev.DisableAttrib(uint32(locs[i]))
			}
		}
		for i, a := range v.attrs {
			if locs[i] < 0 {
				continue
			}
			dev.EnableAttrib(uint32(locs[i]), a.Handle(), a.Dim(), a.Type())
		}
	}
	v.index.Upload(dev)
	dev.BindIndexBuffer(v.index.Handle())
	v.bound = true

	if v.transparent {
		dev.SetDepthState(true, false)
		dev.SetBlend(true)
	} else {
		dev.SetDepthState(true, true)
		dev.SetBlend(false)
	}
}

// Release deletes all device objects. The vertex array can be bound
// again afterwards, recreating them.
func (v *VAO) Release(dev gpu.Device) {
	for _, a := range v.attrs {
		a.Release(dev)
	}
	v.index.Release(dev)
	if v.handle != 0 {
		dev.DeleteVertexArray(v.handle)
		v.handle = 0
	}
	v.bound = false
}
