// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package node

import (
	"image"

	"cogentcore.org/glui/observe"
)

// Viewport is the visible screen area. Nodes observe its size and
// drop their slots while they do not intersect it.
type Viewport struct {
	size *observe.Value[image.Point]
}

// NewViewport returns a new [Viewport] of the given size.
func NewViewport(width, height int) *Viewport {
	return &Viewport{size: observe.NewValue(image.Pt(width, height))}
}

// Size returns the size of the viewport.
func (v *Viewport) Size() image.Point {
	return v.size.Get()
}

// Resize sets the size of the viewport. Every live node checks its
// intersection again.
func (v *Viewport) Resize(width, height int) {
	v.size.Set(image.Pt(width, height))
}

// Subscribe calls fun whenever the size changes.
func (v *Viewport) Subscribe(fun func(old, cur image.Point)) *observe.Subscription {
	return v.size.Subscribe(fun)
}

// Intersects reports whether the rectangle at (x, y) of the given size
// intersects the viewport.
func (v *Viewport) Intersects(x, y, width, height int) bool {
	sz := v.size.Get()
	return x < sz.X && 0 < x+width && y < sz.Y && 0 < y+height
}
