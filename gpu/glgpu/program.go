// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package glgpu

import (
	"fmt"
	"log/slog"
	"strings"

	"cogentcore.org/glui/gpu"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// cString returns the string terminated by a null byte, as gl.Str requires.
func cString(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
}

func compileShader(typ uint32, src string) (uint32, error) {
	handle := gl.CreateShader(typ)

	csources, free := gl.Strs(cString(src))
	gl.ShaderSource(handle, 1, csources, nil)
	free()
	gl.CompileShader(handle)

	var status int32
	gl.GetShaderiv(handle, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(handle, gl.INFO_LOG_LENGTH, &logLength)

		msg := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(handle, logLength, nil, gl.Str(msg))
		gl.DeleteShader(handle)

		err := fmt.Errorf("failed to compile:\n%v\nerror: %v", src, strings.TrimRight(msg, "\x00"))
		slog.Error("glgpu: compile shader", "err", err)
		return 0, err
	}
	return handle, nil
}

// CreateProgram compiles both shaders, binds fragOut to color
// number 0 and links the program. The shader objects are always
// deleted once linking is done.
func (d *Device) CreateProgram(vertexSrc, fragmentSrc, fragOut string) (gpu.Handle, error) {
	vs, err := compileShader(gl.VERTEX_SHADER, vertexSrc)
	if err != nil {
		return 0, err
	}
	fs, err := compileShader(gl.FRAGMENT_SHADER, fragmentSrc)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}

	handle := gl.CreateProgram()
	gl.AttachShader(handle, vs)
	gl.AttachShader(handle, fs)
	if fragOut != "" {
		gl.BindFragDataLocation(handle, 0, gl.Str(cString(fragOut)))
	}
	gl.LinkProgram(handle)

	gl.DetachShader(handle, vs)
	gl.DetachShader(handle, fs)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	var status int32
	gl.GetProgramiv(handle, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var lgLength int32
		gl.GetProgramiv(handle, gl.INFO_LOG_LENGTH, &lgLength)

		lg := strings.Repeat("\x00", int(lgLength+1))
		gl.GetProgramInfoLog(handle, lgLength, nil, gl.Str(lg))
		gl.DeleteProgram(handle)

		err := fmt.Errorf("failed to link program: %v", strings.TrimRight(lg, "\x00"))
		slog.Error("glgpu: link program", "err", err)
		return 0, err
	}
	return gpu.Handle(handle), nil
}

func (d *Device) UseProgram(prog gpu.Handle) {
	gl.UseProgram(uint32(prog))
}

func (d *Device) DeleteProgram(prog gpu.Handle) {
	gl.DeleteProgram(uint32(prog))
}

func (d *Device) AttribLocation(prog gpu.Handle, name string) int32 {
	return gl.GetAttribLocation(uint32(prog), gl.Str(cString(name)))
}

func (d *Device) UniformLocation(prog gpu.Handle, name string) int32 {
	return gl.GetUniformLocation(uint32(prog), gl.Str(cString(name)))
}

func (d *Device) Uniform1i(loc int32, v int32) {
	gl.Uniform1i(loc, v)
}

func (d *Device) Uniform1ui(loc int32, v uint32) {
	gl.Uniform1ui(loc, v)
}

func (d *Device) Uniform1f(loc int32, v float32) {
	gl.Uniform1f(loc, v)
}

func (d *Device) Uniform2f(loc int32, x, y float32) {
	gl.Uniform2f(loc, x, y)
}

func (d *Device) Uniform4f(loc int32, x, y, z, w float32) {
	gl.Uniform4f(loc, x, y, z, w)
}

func (d *Device) UniformMatrix4(loc int32, m *[16]float32) {
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
}
