// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shaders provides the GLSL programs of the renderer and a
// per context [Registry] that compiles them once and hands them out.
package shaders

import (
	"fmt"
	"log/slog"
	"strings"

	"cogentcore.org/glui/base/errors"
	"cogentcore.org/glui/gpu"
	"cogentcore.org/glui/math32"
)

// ErrShaderLoad is returned when a program fails to compile or link.
var ErrShaderLoad = errors.New("shaders: load failed")

// DefaultGLSLVersion is the version directive used when none is given.
const DefaultGLSLVersion = "330 core"

// Kind identifies one of the programs.
type Kind int32

const (
	// Polygon fills convex polygons with flat per vertex color.
	Polygon Kind = iota

	// Ellipse fills the superellipse inscribed in the bounding box,
	// with the roundness as exponent: 2 is an ellipse, larger values
	// approach a rectangle with rounded corners.
	Ellipse

	// BlurRect fills a rectangle whose alpha fades out over the blur radius.
	BlurRect

	// BlurEllipse is [BlurRect] for a superellipse.
	BlurEllipse

	// Texture draws textured quads from an atlas with a color overlay,
	// an optional clip rectangle and an optional color key.
	Texture

	// KindN is the number of kinds.
	KindN
)

var kindNames = [KindN]string{"polygon", "ellipse", "blur-rect", "blur-ellipse", "texture"}

func (k Kind) String() string {
	if k < 0 || k >= KindN {
		return fmt.Sprintf("Kind(%d)", int32(k))
	}
	return kindNames[k]
}

// UsesBounds reports whether the program needs the origin and size
// of the bounding box of a primitive.
func (k Kind) UsesBounds() bool {
	return k == Ellipse || k == BlurRect || k == BlurEllipse
}

// UsesRoundness reports whether the program takes a roundness.
func (k Kind) UsesRoundness() bool {
	return k == Ellipse || k == BlurEllipse
}

// UsesBlur reports whether the program takes a blur radius.
func (k Kind) UsesBlur() bool {
	return k == BlurRect || k == BlurEllipse
}

// UsesTexture reports whether the program samples a texture.
func (k Kind) UsesTexture() bool {
	return k == Texture
}

func sources(k Kind) (vertex, fragment string) {
	switch k {
	case Polygon:
		return polygonVertex, polygonFragment
	case Ellipse:
		return shapeVertex, ellipseFragment
	case BlurRect:
		return shapeVertex, blurRectFragment
	case BlurEllipse:
		return shapeVertex, blurEllipseFragment
	}
	return textureVertex, textureFragment
}

// Shader is a linked program with cached input and uniform locations.
type Shader struct {
	kind     Kind
	dev      gpu.Device
	handle   gpu.Handle
	attribs  map[string]int32
	uniforms map[string]int32
}

// Kind returns the kind of the program.
func (s *Shader) Kind() Kind { return s.kind }

// Handle returns the linked program.
func (s *Shader) Handle() gpu.Handle { return s.handle }

func (s *Shader) String() string { return s.kind.String() }

// AttribLocation returns the location of the named vertex input,
// or -1 if the program has none.
func (s *Shader) AttribLocation(name string) int32 {
	if loc, ok := s.attribs[name]; ok {
		return loc
	}
	loc := s.dev.AttribLocation(s.handle, name)
	s.attribs[name] = loc
	return loc
}

// UniformLocation returns the location of the named uniform,
// or -1 if the program has none.
func (s *Shader) UniformLocation(name string) int32 {
	if loc, ok := s.uniforms[name]; ok {
		return loc
	}
	loc := s.dev.UniformLocation(s.handle, name)
	s.uniforms[name] = loc
	return loc
}

// SetMatrices sets the projection and model view matrices.
// The program must be current.
func (s *Shader) SetMatrices(projection, modelView *math32.Matrix4) {
	s.dev.UniformMatrix4(s.UniformLocation(UniformProjection), (*[16]float32)(projection))
	s.dev.UniformMatrix4(s.UniformLocation(UniformModelView), (*[16]float32)(modelView))
}

// SetAtlasSize sets the size in pixels of the bound texture.
func (s *Shader) SetAtlasSize(width, height int) {
	s.dev.Uniform2f(s.UniformLocation(UniformAtlasSize), float32(width), float32(height))
}

// SetSampler sets the texture unit to sample from.
func (s *Shader) SetSampler(unit int) {
	s.dev.Uniform1i(s.UniformLocation(UniformSampler), int32(unit))
}

// SetColorKey sets the color whose texels are not drawn.
// Color keying is off unless enabled is true.
func (s *Shader) SetColorKey(r, g, b uint8, enabled bool) {
	a := float32(0)
	if enabled {
		a = 1
	}
	s.dev.Uniform4f(s.UniformLocation(UniformColorKey), float32(r)/255, float32(g)/255, float32(b)/255, a)
}

// Registry compiles every program once for one device and hands out
// the shared [Shader] of each kind.
type Registry struct {
	dev     gpu.Device
	version string
	shaders [KindN]*Shader
}

// NewRegistry compiles and links every program with the given GLSL
// version directive (for example "330 core"). Any failure releases the
// programs linked so far and returns an error wrapping [ErrShaderLoad].
func NewRegistry(dev gpu.Device, glslVersion string) (*Registry, error) {
	if glslVersion == "" {
		glslVersion = DefaultGLSLVersion
	}
	r := &Registry{dev: dev, version: glslVersion}
	header := "#version " + strings.TrimSpace(glslVersion) + "\n"
	for k := range KindN {
		vs, fs := sources(k)
		h, err := dev.CreateProgram(header+vs, header+fs, FragOut)
		if err != nil {
			r.Release()
			return nil, fmt.Errorf("%w: %s program: %w", ErrShaderLoad, k, err)
		}
		r.shaders[k] = &Shader{kind: k, dev: dev, handle: h, attribs: map[string]int32{}, uniforms: map[string]int32{}}
	}
	slog.Info("shaders: registry ready", "glsl", glslVersion, "programs", int(KindN))
	return r, nil
}

// Get returns the shader of the given kind.
func (r *Registry) Get(k Kind) *Shader {
	return r.shaders[k]
}

// Shaders returns every shader in kind order.
func (r *Registry) Shaders() []*Shader {
	return r.shaders[:]
}

// Release deletes all programs.
func (r *Registry) Release() {
	for i, s := range r.shaders {
		if s != nil {
			r.dev.DeleteProgram(s.handle)
			r.shaders[i] = nil
		}
	}
}
