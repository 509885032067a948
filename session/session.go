// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package session keeps track of which control owns which render
// object across frames, so that controls that draw the same thing
// again keep their render objects and render objects of controls that
// stopped drawing are removed.
package session

import (
	"image"
	"image/color"

	"cogentcore.org/glui/glrender"
)

// Session runs the draw calls of controls identified by K against a
// renderer, one frame at a time.
type Session[K comparable] struct {
	r *glrender.Renderer

	// ForceRedraw makes draw calls with a known reference replace its
	// render object instead of updating it.
	ForceRedraw bool

	// last are the render objects of the previous frame not drawn again yet
	last map[glrender.Handle]K

	// current are the render objects of this frame
	current map[glrender.Handle]K

	skipped map[K]bool
}

// New returns a new session drawing with r.
func New[K comparable](r *glrender.Renderer) *Session[K] {
	return &Session[K]{
		r:       r,
		last:    map[glrender.Handle]K{},
		current: map[glrender.Handle]K{},
		skipped: map[K]bool{},
	}
}

// Renderer returns the renderer.
func (s *Session[K]) Renderer() *glrender.Renderer { return s.r }

// Init starts a frame.
func (s *Session[K]) Init() {
	for h, k := range s.current {
		s.last[h] = k
	}
	clear(s.current)
	clear(s.skipped)
	s.r.StartRenderCycle()
}

// Render ends the frame: render objects of the previous frame that were
// neither drawn again nor belong to a skipped control are removed.
func (s *Session[K]) Render() error {
	for h, k := range s.last {
		if s.skipped[k] {
			continue
		}
		s.r.RemoveRenderObject(h)
		delete(s.last, h)
	}
	return s.r.EndRenderCycle()
}

// SkipControlDrawing keeps the render objects of the control from the
// previous frame although it does not draw this frame. The given
// references of the control take the next display layers in order, so
// that they stay in paint order with the controls drawn this frame.
func (s *Session[K]) SkipControlDrawing(control K, refs ...glrender.Handle) {
	s.skipped[control] = true
	for _, h := range refs {
		if owner, ok := s.last[h]; ok && owner == control {
			s.r.KeepRenderObject(h)
		}
	}
}

// Owned returns the number of render objects tracked for the next frame.
func (s *Session[K]) Owned() int {
	return len(s.current) + len(s.last)
}

// RemoveRenderObject removes the render object now.
func (s *Session[K]) RemoveRenderObject(h glrender.Handle) {
	delete(s.last, h)
	delete(s.current, h)
	s.r.RemoveRenderObject(h)
}

// run runs a draw call of the control. A reference to a render object
// the control drew in the previous frame is updated in place, or
// replaced if ForceRedraw is set. Any other reference draws a new
// render object.
func (s *Session[K]) run(control K, ref glrender.Handle, draw func(prev glrender.Handle) (glrender.Handle, error)) (glrender.Handle, error) {
	owner, known := s.last[ref]
	known = known && owner == control
	if !known {
		ref = glrender.NoHandle
	}
	var h glrender.Handle
	var err error
	switch {
	case !known:
		h, err = draw(glrender.NoHandle)
	case s.ForceRedraw:
		s.r.ReplaceRenderObjectWithFollowingDrawCall(ref)
		h, err = draw(glrender.NoHandle)
	default:
		h, err = draw(ref)
	}
	if err != nil {
		return glrender.NoHandle, err
	}
	// the renderer has consumed the reference: kept, replaced or removed
	if known {
		delete(s.last, ref)
	}
	if h != glrender.NoHandle {
		s.current[h] = control
	}
	return h, nil
}

// FillRectangle fills the rectangle.
func (s *Session[K]) FillRectangle(control K, ref glrender.Handle, r image.Rectangle, c color.RGBA) (glrender.Handle, error) {
	return s.run(control, ref, func(prev glrender.Handle) (glrender.Handle, error) {
		return s.r.FillRectangle(prev, r, c)
	})
}

// DrawRectangle draws the outline of the rectangle.
func (s *Session[K]) DrawRectangle(control K, ref glrender.Handle, r image.Rectangle, c color.RGBA, lineWidth int) (glrender.Handle, error) {
	return s.run(control, ref, func(prev glrender.Handle) (glrender.Handle, error) {
		return s.r.DrawRectangle(prev, r, c, lineWidth)
	})
}

// DrawRectangleLine draws a solid, dotted or dashed line filling the rectangle.
func (s *Session[K]) DrawRectangleLine(control K, ref glrender.Handle, r image.Rectangle, c color.RGBA, style glrender.LineStyle) (glrender.Handle, error) {
	return s.run(control, ref, func(prev glrender.Handle) (glrender.Handle, error) {
		return s.r.DrawRectangleLine(prev, r, c, style)
	})
}

// DrawImage draws the image at the point.
func (s *Session[K]) DrawImage(control K, ref glrender.Handle, key string, img image.Image, at image.Point, overlay color.RGBA) (glrender.Handle, error) {
	return s.run(control, ref, func(prev glrender.Handle) (glrender.Handle, error) {
		return s.r.DrawImage(prev, key, img, at, overlay)
	})
}

// FillTriangle fills the triangle.
func (s *Session[K]) FillTriangle(control K, ref glrender.Handle, a, b, p image.Point, c color.RGBA) (glrender.Handle, error) {
	return s.run(control, ref, func(prev glrender.Handle) (glrender.Handle, error) {
		return s.r.FillTriangle(prev, a, b, p, c)
	})
}

// FillPolygon fills the convex polygon.
func (s *Session[K]) FillPolygon(control K, ref glrender.Handle, pts []image.Point, c color.RGBA) (glrender.Handle, error) {
	return s.run(control, ref, func(prev glrender.Handle) (glrender.Handle, error) {
		return s.r.FillPolygon(prev, pts, c)
	})
}

// FillEllipse fills the ellipse inscribed in the rectangle.
func (s *Session[K]) FillEllipse(control K, ref glrender.Handle, r image.Rectangle, c color.RGBA) (glrender.Handle, error) {
	return s.run(control, ref, func(prev glrender.Handle) (glrender.Handle, error) {
		return s.r.FillEllipse(prev, r, c)
	})
}

// FillRoundRect fills the rectangle with rounded corners.
func (s *Session[K]) FillRoundRect(control K, ref glrender.Handle, r image.Rectangle, c color.RGBA, roundness uint32) (glrender.Handle, error) {
	return s.run(control, ref, func(prev glrender.Handle) (glrender.Handle, error) {
		return s.r.FillRoundRect(prev, r, c, roundness)
	})
}

// DrawShadow draws a shadow filling the rectangle.
func (s *Session[K]) DrawShadow(control K, ref glrender.Handle, r image.Rectangle, c color.RGBA, blur int, roundness uint32, inset bool) (glrender.Handle, error) {
	return s.run(control, ref, func(prev glrender.Handle) (glrender.Handle, error) {
		return s.r.DrawShadow(prev, r, c, blur, roundness, inset)
	})
}

// DrawText draws the text at the point.
func (s *Session[K]) DrawText(control K, ref glrender.Handle, text string, at image.Point, style glrender.TextStyle) (glrender.Handle, error) {
	return s.run(control, ref, func(prev glrender.Handle) (glrender.Handle, error) {
		return s.r.DrawText(prev, text, at, style)
	})
}

// DrawTextInRect draws the text in the rectangle.
func (s *Session[K]) DrawTextInRect(control K, ref glrender.Handle, text string, r image.Rectangle, style glrender.TextStyle) (glrender.Handle, error) {
	return s.run(control, ref, func(prev glrender.Handle) (glrender.Handle, error) {
		return s.r.DrawTextInRect(prev, text, r, style)
	})
}
