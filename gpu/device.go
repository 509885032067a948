// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gpu defines the [Device] interface through which all
// graphics calls of the renderer are made, so that the buffer,
// batching and rendering logic can run against either a real OpenGL
// context (package glgpu) or a recording device (package headless).
package gpu

import (
	"fmt"
	"image"
	"image/color"

	"cogentcore.org/glui/base/errors"
)

// ErrUnsupported is returned when the graphics context does not
// provide the required version or features.
var ErrUnsupported = errors.New("gpu: unsupported graphics context")

// Handle is the name of a device object (buffer, vertex array,
// program or texture). The zero Handle names no object.
type Handle uint32

// BufferTarget is the binding target of a buffer.
type BufferTarget int32

const (
	// ArrayBuffer holds vertex attributes.
	ArrayBuffer BufferTarget = iota

	// ElementArrayBuffer holds vertex indexes.
	ElementArrayBuffer
)

// Usage is the expected update pattern of a buffer.
type Usage int32

const (
	// StaticDraw buffers are written rarely.
	StaticDraw Usage = iota

	// DynamicDraw buffers are rewritten often.
	DynamicDraw
)

// AttribType is the component type of an integer vertex attribute.
// All attributes are passed to shaders as integers.
type AttribType int32

const (
	Short AttribType = iota
	UnsignedByte
	UnsignedInt
)

// Size returns the size in bytes of one component.
func (t AttribType) Size() int {
	switch t {
	case Short:
		return 2
	case UnsignedByte:
		return 1
	}
	return 4
}

func (t AttribType) String() string {
	switch t {
	case Short:
		return "short"
	case UnsignedByte:
		return "ubyte"
	case UnsignedInt:
		return "uint"
	}
	return fmt.Sprintf("AttribType(%d)", int32(t))
}

// Info describes the graphics context.
type Info struct {
	Vendor   string
	Renderer string
	Version  string
	GLSL     string
	Major    int
	Minor    int
}

func (i Info) String() string {
	return fmt.Sprintf("%s %s (OpenGL %d.%d, GLSL %s)", i.Vendor, i.Renderer, i.Major, i.Minor, i.GLSL)
}

// Device is the set of graphics operations used by the renderer.
// All methods must be called on the goroutine that owns the
// graphics context.
type Device interface {
	// Info returns the description of the graphics context.
	Info() Info

	// CreateBuffer returns a new buffer object.
	CreateBuffer() Handle

	// BufferData replaces the whole contents of the buffer,
	// binding it to the given target.
	BufferData(target BufferTarget, buf Handle, data []byte, usage Usage)

	// DeleteBuffer releases a buffer object.
	DeleteBuffer(buf Handle)

	// CreateVertexArray returns a new vertex array object.
	CreateVertexArray() Handle

	// BindVertexArray makes the vertex array current; 0 unbinds.
	BindVertexArray(vao Handle)

	// DeleteVertexArray releases a vertex array object.
	DeleteVertexArray(vao Handle)

	// CreateProgram compiles and links a program from the given
	// sources, binding fragOut to color number 0.
	CreateProgram(vertexSrc, fragmentSrc, fragOut string) (Handle, error)

	// UseProgram makes the program current.
	UseProgram(prog Handle)

	// DeleteProgram releases a program.
	DeleteProgram(prog Handle)

	// AttribLocation returns the location of a vertex input, or -1.
	AttribLocation(prog Handle, name string) int32

	// UniformLocation returns the location of a uniform, or -1.
	UniformLocation(prog Handle, name string) int32

	// EnableAttrib binds the buffer as the integer vertex input at loc
	// of the current vertex array, with the given number of components.
	EnableAttrib(loc uint32, buf Handle, components int, typ AttribType)

	// DisableAttrib disables the vertex input at loc of the current vertex array.
	DisableAttrib(loc uint32)

	// BindIndexBuffer binds the element buffer of the current vertex array.
	BindIndexBuffer(buf Handle)

	// Uniform setters apply to the current program.
	Uniform1i(loc int32, v int32)
	Uniform1ui(loc int32, v uint32)
	Uniform1f(loc int32, v float32)
	Uniform2f(loc int32, x, y float32)
	Uniform4f(loc int32, x, y, z, w float32)
	UniformMatrix4(loc int32, m *[16]float32)

	// SetDepthState enables or disables depth testing and depth writes.
	SetDepthState(test, write bool)

	// SetBlend enables or disables src-alpha / one-minus-src-alpha blending.
	SetBlend(on bool)

	// SetViewport sets the viewport to (0, 0, width, height).
	SetViewport(width, height int)

	// Clear clears the color and depth buffers.
	Clear(c color.RGBA)

	// SetPrimitiveRestart enables or disables primitive restart at the given index.
	SetPrimitiveRestart(on bool, index uint32)

	// DrawFans draws count uint32 indexes of the current element
	// buffer as triangle fans.
	DrawFans(count int)

	// CreateTexture returns a new 2D texture object.
	CreateTexture() Handle

	// TextureImage uploads img as the contents of the texture.
	TextureImage(tex Handle, img *image.RGBA)

	// BindTexture binds the texture to the given texture unit.
	BindTexture(unit int, tex Handle)

	// DeleteTexture releases a texture object.
	DeleteTexture(tex Handle)
}
