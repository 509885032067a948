// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package headless provides a [gpu.Device] that keeps every buffer,
// texture and pipeline state in memory and records draw calls, so that
// the renderer can be driven and inspected without a graphics context.
package headless

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"

	"cogentcore.org/glui/gpu"
)

// Buffer is the recorded state of a buffer object.
type Buffer struct {
	Target  gpu.BufferTarget
	Usage   gpu.Usage
	Data    []byte
	Uploads int
}

// Attrib is the recorded state of a vertex input of a vertex array.
type Attrib struct {
	Buffer     gpu.Handle
	Components int
	Type       gpu.AttribType
	Enabled    bool
}

// VertexArray is the recorded state of a vertex array object.
type VertexArray struct {
	Attribs map[uint32]Attrib
	Index   gpu.Handle
}

// Program is the recorded state of a linked program.
type Program struct {
	Vertex   string
	Fragment string
	FragOut  string
	Attribs  map[string]int32
	Uniforms map[string]int32
	Values   map[int32]any
}

// Draw records one DrawFans call together with the state it ran in.
type Draw struct {
	VAO          gpu.Handle
	Program      gpu.Handle
	Count        int
	Indexes      []uint32
	DepthTest    bool
	DepthWrite   bool
	Blend        bool
	Restart      bool
	RestartIndex uint32
	Texture      gpu.Handle
}

// Device is an in-memory [gpu.Device]. The zero value is not usable;
// use [New].
type Device struct {
	mu sync.Mutex

	// InfoValue is returned by Info.
	InfoValue gpu.Info

	// FailCompile makes CreateProgram fail for sources containing it.
	FailCompile string

	next     gpu.Handle
	Buffers  map[gpu.Handle]*Buffer
	VAOs     map[gpu.Handle]*VertexArray
	Programs map[gpu.Handle]*Program
	Textures map[gpu.Handle]*image.RGBA

	boundVAO     gpu.Handle
	program      gpu.Handle
	textures     map[int]gpu.Handle
	DepthTest    bool
	DepthWrite   bool
	Blend        bool
	Restart      bool
	RestartIndex uint32
	Viewport     image.Point
	ClearColor   color.RGBA
	Clears       int
	Draws        []Draw
}

var _ gpu.Device = (*Device)(nil)

// New returns a new headless [Device] reporting OpenGL 4.1.
func New() *Device {
	return &Device{
		InfoValue: gpu.Info{Vendor: "headless", Renderer: "headless", Version: "4.1", GLSL: "4.10", Major: 4, Minor: 1},
		Buffers:   map[gpu.Handle]*Buffer{},
		VAOs:      map[gpu.Handle]*VertexArray{},
		Programs:  map[gpu.Handle]*Program{},
		Textures:  map[gpu.Handle]*image.RGBA{},
		textures:  map[int]gpu.Handle{},
	}
}

func (d *Device) handle() gpu.Handle {
	d.next++
	return d.next
}

func (d *Device) Info() gpu.Info {
	return d.InfoValue
}

func (d *Device) CreateBuffer() gpu.Handle {
	d.mu.Lock()
	defer d.mu.Unlock()
	h := d.handle()
	d.Buffers[h] = &Buffer{}
	return h
}

func (d *Device) BufferData(target gpu.BufferTarget, buf gpu.Handle, data []byte, usage gpu.Usage) {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := d.Buffers[buf]
	if !ok {
		panic(fmt.Sprintf("headless: BufferData on unknown buffer %d", buf))
	}
	b.Target = target
	b.Usage = usage
	b.Data = append(b.Data[:0], data...)
	b.Uploads++
}

func (d *Device) DeleteBuffer(buf gpu.Handle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.Buffers, buf)
}

func (d *Device) CreateVertexArray() gpu.Handle {
	d.mu.Lock()
	defer d.mu.Unlock()
	h := d.handle()
	d.VAOs[h] = &VertexArray{Attribs: map[uint32]Attrib{}}
	return h
}

func (d *Device) BindVertexArray(vao gpu.Handle) {
	d.boundVAO = vao
}

func (d *Device) DeleteVertexArray(vao gpu.Handle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.VAOs, vao)
	if d.boundVAO == vao {
		d.boundVAO = 0
	}
}

func (d *Device) CreateProgram(vertexSrc, fragmentSrc, fragOut string) (gpu.Handle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FailCompile != "" && (strings.Contains(vertexSrc, d.FailCompile) || strings.Contains(fragmentSrc, d.FailCompile)) {
		return 0, fmt.Errorf("failed to compile: %q", d.FailCompile)
	}
	h := d.handle()
	d.Programs[h] = &Program{
		Vertex:   vertexSrc,
		Fragment: fragmentSrc,
		FragOut:  fragOut,
		Attribs:  map[string]int32{},
		Uniforms: map[string]int32{},
		Values:   map[int32]any{},
	}
	return h, nil
}

func (d *Device) UseProgram(prog gpu.Handle) {
	d.program = prog
}

func (d *Device) DeleteProgram(prog gpu.Handle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.Programs, prog)
}

// AttribLocation assigns locations in order of first lookup for every
// name that appears in the vertex source, and returns -1 otherwise.
func (d *Device) AttribLocation(prog gpu.Handle, name string) int32 {
	p := d.Programs[prog]
	if p == nil || !strings.Contains(p.Vertex, "in ") || !strings.Contains(p.Vertex, " "+name+";") {
		return -1
	}
	if loc, ok := p.Attribs[name]; ok {
		return loc
	}
	loc := int32(len(p.Attribs))
	p.Attribs[name] = loc
	return loc
}

// UniformLocation assigns locations in order of first lookup for every
// name that appears in either source, and returns -1 otherwise.
func (d *Device) UniformLocation(prog gpu.Handle, name string) int32 {
	p := d.Programs[prog]
	if p == nil || !(strings.Contains(p.Vertex, " "+name+";") || strings.Contains(p.Fragment, " "+name+";")) {
		return -1
	}
	if loc, ok := p.Uniforms[name]; ok {
		return loc
	}
	loc := int32(len(p.Uniforms))
	p.Uniforms[name] = loc
	return loc
}

func (d *Device) currentVAO() *VertexArray {
	v := d.VAOs[d.boundVAO]
	if v == nil {
		panic("headless: no vertex array bound")
	}
	return v
}

func (d *Device) EnableAttrib(loc uint32, buf gpu.Handle, components int, typ gpu.AttribType) {
	d.currentVAO().Attribs[loc] = Attrib{Buffer: buf, Components: components, Type: typ, Enabled: true}
}

func (d *Device) DisableAttrib(loc uint32) {
	v := d.currentVAO()
	a := v.Attribs[loc]
	a.Enabled = false
	v.Attribs[loc] = a
}

func (d *Device) BindIndexBuffer(buf gpu.Handle) {
	d.currentVAO().Index = buf
}

func (d *Device) setUniform(loc int32, v any) {
	if loc < 0 {
		return
	}
	p := d.Programs[d.program]
	if p == nil {
		panic("headless: uniform set without a program")
	}
	p.Values[loc] = v
}

func (d *Device) Uniform1i(loc int32, v int32) { d.setUniform(loc, v) }

func (d *Device) Uniform1ui(loc int32, v uint32) { d.setUniform(loc, v) }

func (d *Device) Uniform1f(loc int32, v float32) { d.setUniform(loc, v) }

func (d *Device) Uniform2f(loc int32, x, y float32) { d.setUniform(loc, [2]float32{x, y}) }

func (d *Device) Uniform4f(loc int32, x, y, z, w float32) {
	d.setUniform(loc, [4]float32{x, y, z, w})
}

func (d *Device) UniformMatrix4(loc int32, m *[16]float32) {
	d.setUniform(loc, *m)
}

func (d *Device) SetDepthState(test, write bool) {
	d.DepthTest = test
	d.DepthWrite = write
}

func (d *Device) SetBlend(on bool) {
	d.Blend = on
}

func (d *Device) SetViewport(width, height int) {
	d.Viewport = image.Pt(width, height)
}

func (d *Device) Clear(c color.RGBA) {
	d.ClearColor = c
	d.Clears++
}

func (d *Device) SetPrimitiveRestart(on bool, index uint32) {
	d.Restart = on
	d.RestartIndex = index
}

func (d *Device) DrawFans(count int) {
	v := d.currentVAO()
	dr := Draw{
		VAO:          d.boundVAO,
		Program:      d.program,
		Count:        count,
		DepthTest:    d.DepthTest,
		DepthWrite:   d.DepthWrite,
		Blend:        d.Blend,
		Restart:      d.Restart,
		RestartIndex: d.RestartIndex,
		Texture:      d.textures[0],
	}
	if ib := d.Buffers[v.Index]; ib != nil {
		dr.Indexes = Uint32s(ib.Data)
		if len(dr.Indexes) > count {
			dr.Indexes = dr.Indexes[:count]
		}
	}
	d.Draws = append(d.Draws, dr)
}

func (d *Device) CreateTexture() gpu.Handle {
	d.mu.Lock()
	defer d.mu.Unlock()
	h := d.handle()
	d.Textures[h] = nil
	return h
}

func (d *Device) TextureImage(tex gpu.Handle, img *image.RGBA) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c := image.NewRGBA(img.Rect)
	copy(c.Pix, img.Pix)
	d.Textures[tex] = c
}

func (d *Device) BindTexture(unit int, tex gpu.Handle) {
	d.textures[unit] = tex
}

func (d *Device) DeleteTexture(tex gpu.Handle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.Textures, tex)
}

// ResetDraws forgets the recorded draw calls.
func (d *Device) ResetDraws() {
	d.Draws = nil
}

// Uploads returns the number of BufferData calls made on buf.
func (d *Device) Uploads(buf gpu.Handle) int {
	if b := d.Buffers[buf]; b != nil {
		return b.Uploads
	}
	return 0
}

// UniformValue returns the last value set for the named uniform of prog.
func (d *Device) UniformValue(prog gpu.Handle, name string) (any, bool) {
	p := d.Programs[prog]
	if p == nil {
		return nil, false
	}
	loc, ok := p.Uniforms[name]
	if !ok {
		return nil, false
	}
	v, ok := p.Values[loc]
	return v, ok
}

// Int16s decodes native byte order buffer contents as int16 values.
func Int16s(b []byte) []int16 {
	r := make([]int16, len(b)/2)
	for i := range r {
		r[i] = int16(binary.NativeEndian.Uint16(b[2*i:]))
	}
	return r
}

// Uint32s decodes native byte order buffer contents as uint32 values.
func Uint32s(b []byte) []uint32 {
	r := make([]uint32, len(b)/4)
	for i := range r {
		r[i] = binary.NativeEndian.Uint32(b[4*i:])
	}
	return r
}
