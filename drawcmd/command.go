// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package drawcmd

import (
	"fmt"
	"image"
	"image/color"

	"cogentcore.org/glui/base/errors"
	"cogentcore.org/glui/gpu"
	"cogentcore.org/glui/shaders"
	"cogentcore.org/glui/vao"
)

var (
	// ErrInvalidConfiguration is returned for commands whose settings
	// do not fit together, such as a texture on a non quad.
	ErrInvalidConfiguration = errors.New("drawcmd: invalid configuration")

	// ErrInvalidState is returned when a command reaches the batch in
	// a state that is not valid for its binding.
	ErrInvalidState = errors.New("drawcmd: invalid state")
)

// State is the lifecycle state of a [Command].
type State int32

const (
	// New commands need a slot.
	New State = iota

	// Active commands hold a slot and are drawn.
	Active

	// Removed commands give their slot back.
	Removed

	// Replaced commands take over the slot of the command they replace.
	Replaced
)

func (s State) String() string {
	switch s {
	case New:
		return "New"
	case Active:
		return "Active"
	case Removed:
		return "Removed"
	case Replaced:
		return "Replaced"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Texture is a texture that commands can sample from.
type Texture interface {
	// TextureID returns a unique, stable id used for ordering.
	TextureID() int

	// Size returns the size of the texture in pixels.
	Size() image.Point

	// Bind uploads the texture if needed and binds it to the texture unit.
	Bind(dev gpu.Device, unit int)
}

// Command is one primitive drawn as a single triangle fan.
type Command struct {

	// State is the lifecycle state.
	State State

	// Vertices are the fan vertices in screen pixels.
	Vertices []image.Point

	// Z is the depth of the primitive: larger values are further back.
	Z uint32

	// Color is the fill color, or the overlay color of textured commands.
	Color color.RGBA

	// Transparent commands are blended and drawn back to front.
	Transparent bool

	// Roundness is the superellipse exponent of ellipse shaders:
	// 0, 2, 4, 8 or 16.
	Roundness uint32

	// BlurRadius is the width in pixels of the faded edge of blur shaders.
	BlurRadius uint32

	// Shader draws the command.
	Shader *shaders.Shader

	// Texture is sampled by textured commands.
	Texture Texture

	// TexCoords are the texture pixel coordinates of each vertex.
	TexCoords []image.Point

	// Clip, if set, limits textured commands to the rectangle.
	Clip *image.Rectangle

	replaces *Command
	target   *target
	slot     *vao.Slot

	// sort key of the command in the transparency set of its target
	sortZ       uint32
	sortOffset  int
	transparent bool
}

// Validate checks that the settings of the command fit together.
func (c *Command) Validate() error {
	switch {
	case c.Shader == nil:
		return fmt.Errorf("%w: no shader", ErrInvalidConfiguration)
	case len(c.Vertices) < 3:
		return fmt.Errorf("%w: %d vertices", ErrInvalidConfiguration, len(c.Vertices))
	}
	switch c.Roundness {
	case 0, 2, 4, 8, 16:
	default:
		return fmt.Errorf("%w: roundness %d", ErrInvalidConfiguration, c.Roundness)
	}
	if c.Texture != nil {
		switch {
		case len(c.Vertices) != 4:
			return fmt.Errorf("%w: textured command with %d vertices", ErrInvalidConfiguration, len(c.Vertices))
		case len(c.TexCoords) != len(c.Vertices):
			return fmt.Errorf("%w: %d texture coordinates for %d vertices", ErrInvalidConfiguration, len(c.TexCoords), len(c.Vertices))
		case c.BlurRadius != 0:
			return fmt.Errorf("%w: textured command with blur", ErrInvalidConfiguration)
		}
	}
	if c.Shader.Kind().UsesTexture() != (c.Texture != nil) {
		return fmt.Errorf("%w: %s shader with texture %v", ErrInvalidConfiguration, c.Shader.Kind(), c.Texture != nil)
	}
	if c.BlurRadius != 0 && !c.Transparent {
		return fmt.Errorf("%w: blur without transparency", ErrInvalidConfiguration)
	}
	return nil
}

// Replace marks the command as the replacement of old: when the
// batch is updated it takes over the slot of old, if compatible.
func (c *Command) Replace(old *Command) {
	c.State = Replaced
	c.replaces = old
}

// Replaces returns the command this command replaces, if any.
func (c *Command) Replaces() *Command {
	return c.replaces
}

// Bound reports whether the command holds a slot.
func (c *Command) Bound() bool {
	return c != nil && c.slot.Live()
}

// BufferIndex returns the offset of the slot of the command, or -1.
func (c *Command) BufferIndex() int {
	if !c.Bound() {
		return -1
	}
	return c.slot.Offset
}

// Bounds returns the bounding box of the vertices.
func (c *Command) Bounds() image.Rectangle {
	return BoundsOf(c.Vertices)
}

// Offset moves the vertices by the given amount.
func (c *Command) Offset(d image.Point) {
	for i := range c.Vertices {
		c.Vertices[i] = c.Vertices[i].Add(d)
	}
}

func (c *Command) String() string {
	return fmt.Sprintf("%s %s z=%d %v", c.State, c.Shader, c.Z, c.Bounds())
}

// BoundsOf returns the bounding box of the points.
func BoundsOf(pts []image.Point) image.Rectangle {
	if len(pts) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		r.Min.X = min(r.Min.X, p.X)
		r.Min.Y = min(r.Min.Y, p.Y)
		r.Max.X = max(r.Max.X, p.X)
		r.Max.Y = max(r.Max.Y, p.Y)
	}
	return r
}

// Quad returns the vertices of the rectangle in fan order.
func Quad(r image.Rectangle) []image.Point {
	return []image.Point{r.Min, {r.Max.X, r.Min.Y}, r.Max, {r.Min.X, r.Max.Y}}
}

// Group is the list of commands of one drawable, replaced and
// removed together.
type Group []*Command

// CanReplace reports whether the commands of o can take over the
// slots of g: both have the same length and, pairwise, the same
// texture, shader and vertex count.
func (g Group) CanReplace(o Group) bool {
	if len(g) != len(o) {
		return false
	}
	for i, c := range g {
		d := o[i]
		if c == nil || d == nil {
			if c != d {
				return false
			}
			continue
		}
		if c.Texture != d.Texture || c.Shader != d.Shader || len(c.Vertices) != len(d.Vertices) {
			return false
		}
	}
	return true
}
