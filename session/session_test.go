// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package session

import (
	"image"
	"image/color"
	"testing"

	"cogentcore.org/glui/config"
	"cogentcore.org/glui/fonts"
	"cogentcore.org/glui/glrender"
	"cogentcore.org/glui/gpu/headless"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red  = color.RGBA{255, 0, 0, 255}
	blue = color.RGBA{0, 0, 255, 255}
)

func setup(t *testing.T) *Session[string] {
	cfg := config.Defaults()
	cfg.Window.Width, cfg.Window.Height = 200, 100
	r, err := glrender.New(headless.New(), cfg, fonts.NewManager(""))
	require.NoError(t, err)
	return New[string](r)
}

func frame(t *testing.T, s *Session[string], draw func()) {
	s.Init()
	draw()
	require.NoError(t, s.Render())
}

func fill(t *testing.T, s *Session[string], control string, ref glrender.Handle, r image.Rectangle, c color.RGBA) glrender.Handle {
	h, err := s.FillRectangle(control, ref, r, c)
	require.NoError(t, err)
	return h
}

func TestReuseAcrossFrames(t *testing.T) {
	s := setup(t)
	rect := image.Rect(0, 0, 10, 10)
	var h, h2 glrender.Handle
	frame(t, s, func() { h = fill(t, s, "button", glrender.NoHandle, rect, red) })
	slot := s.Renderer().Nodes(h)[0].Slot()

	frame(t, s, func() { h2 = fill(t, s, "button", h, rect, blue) })
	assert.Equal(t, h, h2)
	n := s.Renderer().Nodes(h)[0]
	assert.Equal(t, slot, n.Slot())
	assert.Equal(t, blue, n.Color())
}

func TestUnknownReference(t *testing.T) {
	s := setup(t)
	var h glrender.Handle
	frame(t, s, func() { h = fill(t, s, "a", 42, image.Rect(0, 0, 10, 10), red) })
	assert.NotEqual(t, glrender.Handle(42), h)
	assert.Equal(t, 1, s.Renderer().Len())
}

func TestForeignReference(t *testing.T) {
	s := setup(t)
	var a, b glrender.Handle
	frame(t, s, func() { a = fill(t, s, "a", glrender.NoHandle, image.Rect(0, 0, 10, 10), red) })
	frame(t, s, func() {
		a = fill(t, s, "a", a, image.Rect(0, 0, 10, 10), red)
		b = fill(t, s, "b", a, image.Rect(20, 0, 30, 10), blue)
	})
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, s.Renderer().Len())
	assert.Equal(t, red, s.Renderer().Nodes(a)[0].Color())
}

func TestStaleObjectsRemoved(t *testing.T) {
	s := setup(t)
	var a, b glrender.Handle
	frame(t, s, func() {
		a = fill(t, s, "a", glrender.NoHandle, image.Rect(0, 0, 10, 10), red)
		b = fill(t, s, "b", glrender.NoHandle, image.Rect(20, 0, 30, 10), red)
	})
	frame(t, s, func() { a = fill(t, s, "a", a, image.Rect(0, 0, 10, 10), red) })
	assert.Equal(t, 1, s.Renderer().Len())
	assert.Nil(t, s.Renderer().Nodes(b))
	assert.NotNil(t, s.Renderer().Nodes(a))
}

func TestSkipAndPreserve(t *testing.T) {
	s := setup(t)
	var a, b glrender.Handle
	frame(t, s, func() {
		a = fill(t, s, "a", glrender.NoHandle, image.Rect(0, 0, 10, 10), red)
		b = fill(t, s, "b", glrender.NoHandle, image.Rect(20, 0, 30, 10), red)
	})
	slot := s.Renderer().Nodes(b)[0].Slot()

	// b is skipped for two frames and keeps its object
	for range 2 {
		frame(t, s, func() {
			a = fill(t, s, "a", a, image.Rect(0, 0, 10, 10), red)
			s.SkipControlDrawing("b")
		})
		require.NotNil(t, s.Renderer().Nodes(b))
		assert.Equal(t, slot, s.Renderer().Nodes(b)[0].Slot())
	}

	// drawing again reuses it
	var h glrender.Handle
	frame(t, s, func() {
		a = fill(t, s, "a", a, image.Rect(0, 0, 10, 10), red)
		h = fill(t, s, "b", b, image.Rect(20, 0, 30, 10), blue)
	})
	assert.Equal(t, b, h)
	assert.Equal(t, 2, s.Renderer().Len())
}

func TestSkipKeepsPaintOrder(t *testing.T) {
	s := setup(t)
	var a, b glrender.Handle
	frame(t, s, func() {
		a = fill(t, s, "a", glrender.NoHandle, image.Rect(0, 0, 10, 10), red)
		b = fill(t, s, "b", glrender.NoHandle, image.Rect(20, 0, 30, 10), red)
	})
	r := s.Renderer()
	assert.Less(t, r.Nodes(a)[0].DisplayLayer(), r.Nodes(b)[0].DisplayLayer())

	frame(t, s, func() {
		b = fill(t, s, "b", b, image.Rect(20, 0, 30, 10), blue)
		s.SkipControlDrawing("a", a)
	})
	assert.Less(t, r.Nodes(b)[0].DisplayLayer(), r.Nodes(a)[0].DisplayLayer())

	// references of other controls are left as they are
	layer := r.Nodes(b)[0].DisplayLayer()
	frame(t, s, func() {
		s.SkipControlDrawing("b")
		s.SkipControlDrawing("a", b, a)
	})
	assert.Equal(t, layer, r.Nodes(b)[0].DisplayLayer())
	assert.Equal(t, 0, int(r.Nodes(a)[0].DisplayLayer()))
	assert.Equal(t, 2, r.Len())
}

func TestForceRedraw(t *testing.T) {
	s := setup(t)
	var h, h2 glrender.Handle
	frame(t, s, func() { h = fill(t, s, "a", glrender.NoHandle, image.Rect(0, 0, 10, 10), red) })
	slot := s.Renderer().Nodes(h)[0].Slot()

	s.ForceRedraw = true
	frame(t, s, func() { h2 = fill(t, s, "a", h, image.Rect(0, 0, 10, 10), red) })
	assert.NotEqual(t, h, h2)
	assert.Nil(t, s.Renderer().Nodes(h))
	assert.Equal(t, slot, s.Renderer().Nodes(h2)[0].Slot())
	assert.Equal(t, 1, s.Owned())

	// denied draws remove the old object and the replacement
	frame(t, s, func() {
		h, _ = s.FillRectangle("a", h2, image.Rectangle{}, red)
	})
	assert.Equal(t, glrender.NoHandle, h)
	assert.Equal(t, 0, s.Renderer().Len())
	assert.Equal(t, 0, s.Owned())
}

func TestDegenerateDraw(t *testing.T) {
	s := setup(t)
	var h glrender.Handle
	frame(t, s, func() { h = fill(t, s, "a", glrender.NoHandle, image.Rect(0, 0, 10, 10), red) })
	frame(t, s, func() { h = fill(t, s, "a", h, image.Rect(0, 0, 10, 10), color.RGBA{}) })
	assert.Equal(t, glrender.NoHandle, h)
	assert.Equal(t, 0, s.Renderer().Len())
}

func TestRemoveRenderObject(t *testing.T) {
	s := setup(t)
	var h glrender.Handle
	frame(t, s, func() { h = fill(t, s, "a", glrender.NoHandle, image.Rect(0, 0, 10, 10), red) })
	s.RemoveRenderObject(h)
	assert.Equal(t, 0, s.Owned())
	assert.Equal(t, 0, s.Renderer().Len())
}
