// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package glrender

import (
	"fmt"
	"image"
	"image/color"

	"cogentcore.org/glui/drawcmd"
	"cogentcore.org/glui/math32"
)

// Context is the state of the render surface: its size, background,
// color key and the rotation and zoom of the whole scene.
type Context struct {

	// Background is the color the surface is cleared to.
	Background color.RGBA

	// ColorKey is the color textured draws treat as transparent, if
	// ColorKeyEnabled is set.
	ColorKey        color.RGBA
	ColorKeyEnabled bool

	size     image.Point
	rotation int
	zoom     float32
}

// NewContext returns a new context for a surface of the given size.
func NewContext(width, height int) *Context {
	return &Context{size: image.Pt(width, height), zoom: 1}
}

// Size returns the size of the surface in pixels.
func (c *Context) Size() image.Point { return c.size }

// Resize sets the size of the surface.
func (c *Context) Resize(width, height int) {
	c.size = image.Pt(width, height)
}

// Rotation returns the rotation in degrees.
func (c *Context) Rotation() int { return c.rotation }

// SetRotation rotates the scene around the center of the surface.
// Only multiples of 90 degrees are supported.
func (c *Context) SetRotation(degrees int) error {
	d := ((degrees % 360) + 360) % 360
	if d%90 != 0 {
		return fmt.Errorf("%w: rotation of %d degrees", drawcmd.ErrInvalidConfiguration, degrees)
	}
	c.rotation = d
	return nil
}

// Zoom returns the zoom factor.
func (c *Context) Zoom() float32 { return c.zoom }

// SetZoom scales the scene around the center of the surface.
// Factors that are not positive are ignored.
func (c *Context) SetZoom(f float32) {
	if f > 0 {
		c.zoom = f
	}
}

// Projection returns the orthographic projection with the origin at the
// top left corner.
func (c *Context) Projection() math32.Matrix4 {
	return math32.ScreenOrtho(float32(c.size.X), float32(c.size.Y), 1)
}

// ModelView returns the rotation and zoom around the center. For
// quarter turns the scene is also stretched so that it keeps filling
// the surface.
func (c *Context) ModelView() math32.Matrix4 {
	w, h := float32(c.size.X), float32(c.size.Y)
	cx, cy := w/2, h/2
	toCenter := math32.Translation4(cx, cy, 0)
	fromCenter := math32.Translation4(-cx, -cy, 0)
	m := math32.Identity4()
	if c.rotation != 0 {
		r := math32.RotationZ4(math32.DegToRad(float32(c.rotation)))
		if (c.rotation == 90 || c.rotation == 270) && w > 0 && h > 0 {
			r = r.Mul(math32.Scale4(h/w, w/h, 1))
		}
		m = toCenter.Mul(r).Mul(fromCenter)
	}
	if c.zoom != 1 {
		m = toCenter.Mul(math32.Scale4(c.zoom, c.zoom, 1)).Mul(fromCenter).Mul(m)
	}
	return m
}

// View returns the matrices and color key for rendering.
func (c *Context) View() drawcmd.View {
	return drawcmd.View{
		Projection:      c.Projection(),
		ModelView:       c.ModelView(),
		ColorKey:        c.ColorKey,
		ColorKeyEnabled: c.ColorKeyEnabled,
	}
}
