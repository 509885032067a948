// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package glgpu implements [gpu.Device] on an OpenGL 3.1+ core
// context through go-gl. The context must be current on the calling
// goroutine, which must stay locked to its OS thread.
package glgpu

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"strings"

	"cogentcore.org/glui/gpu"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// Device is the OpenGL [gpu.Device].
type Device struct {
	info gpu.Info
}

var _ gpu.Device = (*Device)(nil)

// New initializes the GL function pointers for the current context and
// returns a [Device] for it. It fails with [gpu.ErrUnsupported] below
// OpenGL 3.1, which is the first version with primitive restart.
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("glgpu: init: %w", err)
	}
	d := &Device{}
	d.info = gpu.Info{
		Vendor:   gl.GoStr(gl.GetString(gl.VENDOR)),
		Renderer: gl.GoStr(gl.GetString(gl.RENDERER)),
		Version:  gl.GoStr(gl.GetString(gl.VERSION)),
		GLSL:     gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)),
	}
	d.info.Major, d.info.Minor = ParseVersion(d.info.Version)
	if d.info.Major < 3 || (d.info.Major == 3 && d.info.Minor < 1) {
		return nil, fmt.Errorf("%w: OpenGL %s", gpu.ErrUnsupported, d.info.Version)
	}
	slog.Info("glgpu: context", "info", d.info.String())

	gl.DepthFunc(gl.LEQUAL)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.CULL_FACE)
	return d, nil
}

// ParseVersion returns the major and minor numbers at the start of a
// GL_VERSION string such as "4.1 Metal - 76.3" or "3.3.0 NVIDIA".
func ParseVersion(version string) (major, minor int) {
	v := strings.TrimPrefix(version, "OpenGL ES ")
	fmt.Sscanf(v, "%d.%d", &major, &minor)
	return
}

func (d *Device) Info() gpu.Info {
	return d.info
}

func target(t gpu.BufferTarget) uint32 {
	if t == gpu.ElementArrayBuffer {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

func usage(u gpu.Usage) uint32 {
	if u == gpu.StaticDraw {
		return gl.STATIC_DRAW
	}
	return gl.DYNAMIC_DRAW
}

func attribType(t gpu.AttribType) uint32 {
	switch t {
	case gpu.Short:
		return gl.SHORT
	case gpu.UnsignedByte:
		return gl.UNSIGNED_BYTE
	}
	return gl.UNSIGNED_INT
}

func (d *Device) CreateBuffer() gpu.Handle {
	var b uint32
	gl.GenBuffers(1, &b)
	return gpu.Handle(b)
}

func (d *Device) BufferData(t gpu.BufferTarget, buf gpu.Handle, data []byte, u gpu.Usage) {
	gt := target(t)
	gl.BindBuffer(gt, uint32(buf))
	if len(data) == 0 {
		gl.BufferData(gt, 0, nil, usage(u))
		return
	}
	gl.BufferData(gt, len(data), gl.Ptr(data), usage(u))
}

func (d *Device) DeleteBuffer(buf gpu.Handle) {
	b := uint32(buf)
	gl.DeleteBuffers(1, &b)
}

func (d *Device) CreateVertexArray() gpu.Handle {
	var v uint32
	gl.GenVertexArrays(1, &v)
	return gpu.Handle(v)
}

func (d *Device) BindVertexArray(vao gpu.Handle) {
	gl.BindVertexArray(uint32(vao))
}

func (d *Device) DeleteVertexArray(vao gpu.Handle) {
	v := uint32(vao)
	gl.DeleteVertexArrays(1, &v)
}

func (d *Device) EnableAttrib(loc uint32, buf gpu.Handle, components int, typ gpu.AttribType) {
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(buf))
	gl.EnableVertexAttribArray(loc)
	gl.VertexAttribIPointerWithOffset(loc, int32(components), attribType(typ), 0, 0)
}

func (d *Device) DisableAttrib(loc uint32) {
	gl.DisableVertexAttribArray(loc)
}

func (d *Device) BindIndexBuffer(buf gpu.Handle) {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, uint32(buf))
}

func (d *Device) SetDepthState(test, write bool) {
	if test {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
	gl.DepthMask(write)
}

func (d *Device) SetBlend(on bool) {
	if on {
		gl.Enable(gl.BLEND)
	} else {
		gl.Disable(gl.BLEND)
	}
}

func (d *Device) SetViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (d *Device) Clear(c color.RGBA) {
	gl.ClearColor(float32(c.R)/255, float32(c.G)/255, float32(c.B)/255, float32(c.A)/255)
	gl.DepthMask(true)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *Device) SetPrimitiveRestart(on bool, index uint32) {
	if !on {
		gl.Disable(gl.PRIMITIVE_RESTART)
		return
	}
	gl.Enable(gl.PRIMITIVE_RESTART)
	gl.PrimitiveRestartIndex(index)
}

func (d *Device) DrawFans(count int) {
	gl.DrawElementsWithOffset(gl.TRIANGLE_FAN, int32(count), gl.UNSIGNED_INT, 0)
}

func (d *Device) CreateTexture() gpu.Handle {
	var t uint32
	gl.GenTextures(1, &t)
	gl.BindTexture(gl.TEXTURE_2D, t)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	return gpu.Handle(t)
}

func (d *Device) TextureImage(tex gpu.Handle, img *image.RGBA) {
	sz := img.Rect.Size()
	gl.BindTexture(gl.TEXTURE_2D, uint32(tex))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(sz.X), int32(sz.Y), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
}

func (d *Device) BindTexture(unit int, tex gpu.Handle) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, uint32(tex))
}

func (d *Device) DeleteTexture(tex gpu.Handle) {
	t := uint32(tex)
	gl.DeleteTextures(1, &t)
}
