// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package drawcmd

import (
	"image"
	"image/color"
	"slices"

	"cogentcore.org/glui/shaders"
)

// NewPolygon returns a new polygon command. Colors with alpha below
// 255 make it transparent.
func NewPolygon(reg *shaders.Registry, pts []image.Point, z uint32, c color.RGBA) (*Command, error) {
	cmd := &Command{
		Vertices:    slices.Clone(pts),
		Z:           z,
		Color:       c,
		Transparent: c.A < 255,
		Shader:      reg.Get(shaders.Polygon),
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return cmd, nil
}

// NewRect returns a new filled rectangle command.
func NewRect(reg *shaders.Registry, r image.Rectangle, z uint32, c color.RGBA) (*Command, error) {
	return NewPolygon(reg, Quad(r), z, c)
}

// NewEllipse returns a new command filling the superellipse of the given
// roundness inscribed in r: 2 is an ellipse, 4, 8 and 16 are
// increasingly rectangular.
func NewEllipse(reg *shaders.Registry, r image.Rectangle, z uint32, c color.RGBA, roundness uint32) (*Command, error) {
	cmd := &Command{
		Vertices:    Quad(r),
		Z:           z,
		Color:       c,
		Transparent: c.A < 255,
		Roundness:   roundness,
		Shader:      reg.Get(shaders.Ellipse),
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return cmd, nil
}

// NewShadow returns a new command filling r with an edge that fades
// out over blur pixels. A non zero roundness fades a superellipse
// instead of a rectangle. Shadows are always transparent.
func NewShadow(reg *shaders.Registry, r image.Rectangle, z uint32, c color.RGBA, blur, roundness uint32) (*Command, error) {
	kind := shaders.BlurRect
	if roundness != 0 {
		kind = shaders.BlurEllipse
	}
	cmd := &Command{
		Vertices:    Quad(r),
		Z:           z,
		Color:       c,
		Transparent: true,
		Roundness:   roundness,
		BlurRadius:  blur,
		Shader:      reg.Get(kind),
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return cmd, nil
}

// NewSprite returns a new command drawing the part of the texture at
// texOffset into r, multiplied by the overlay color and clipped to clip
// if it is not nil.
func NewSprite(reg *shaders.Registry, r image.Rectangle, z uint32, overlay color.RGBA, tex Texture, texOffset image.Point, transparent bool, clip *image.Rectangle) (*Command, error) {
	cmd := &Command{
		Vertices:    Quad(r),
		Z:           z,
		Color:       overlay,
		Transparent: transparent || overlay.A < 255,
		Shader:      reg.Get(shaders.Texture),
		Texture:     tex,
		TexCoords:   Quad(image.Rectangle{Min: texOffset, Max: texOffset.Add(r.Size())}),
		Clip:        clip,
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return cmd, nil
}
