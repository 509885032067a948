// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package node

import (
	"image"
	"image/color"
	"testing"

	"cogentcore.org/glui/drawcmd"
	"cogentcore.org/glui/gpu"
	"cogentcore.org/glui/gpu/headless"
	"cogentcore.org/glui/shaders"
	"cogentcore.org/glui/vao"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red   = color.RGBA{255, 0, 0, 255}
	glass = color.RGBA{0, 0, 255, 100}
)

type env struct {
	vp     *Viewport
	layers *Layers
	batch  *drawcmd.Batch
}

func newEnv(t *testing.T) *env {
	dev := headless.New()
	reg, err := shaders.NewRegistry(dev, "")
	require.NoError(t, err)
	b := drawcmd.NewBatch(dev, vao.DefaultOptions())
	return &env{vp: NewViewport(100, 100), layers: NewLayers(b, reg), batch: b}
}

func (e *env) flush(t *testing.T) {
	require.NoError(t, e.batch.Flush())
}

func (e *env) rect(t *testing.T, r image.Rectangle, c color.RGBA) *Node {
	n, err := NewShape(e.vp, drawcmd.Quad(r), c)
	require.NoError(t, err)
	return n
}

// holds reports that the node holds a slot exactly when it is visible.
func holds(t *testing.T, n *Node) {
	t.Helper()
	assert.Equal(t, n.Visible(), n.Command() != nil, "node %s", n)
	if n.Command() != nil {
		assert.True(t, n.Command().Bound(), "node %s", n)
	}
}

func TestVisibility(t *testing.T) {
	e := newEnv(t)
	n := e.rect(t, image.Rect(10, 10, 20, 20), red)
	assert.Equal(t, Unbound, n.State())

	n.SetVisible(true)
	assert.False(t, n.Visible(), "request only")
	assert.Nil(t, n.Command())

	n.Attach(e.layers)
	e.flush(t)
	assert.Equal(t, OnScreen, n.State())
	holds(t, n)
	assert.Equal(t, 0, n.Slot())

	n.SetVisible(false)
	e.flush(t)
	assert.Equal(t, BoundInvisible, n.State())
	holds(t, n)
	assert.Equal(t, -1, n.Slot())

	n.SetVisible(true)
	n.SetPosition(200, 10)
	e.flush(t)
	assert.Equal(t, OffScreen, n.State())
	holds(t, n)

	e.vp.Resize(300, 100)
	e.flush(t)
	assert.Equal(t, OnScreen, n.State())
	holds(t, n)

	n.Delete()
	e.flush(t)
	assert.Equal(t, Deleted, n.State())
	holds(t, n)
	n.SetVisible(true)
	n.Attach(e.layers)
	assert.False(t, n.Visible())

	// deleted nodes no longer observe the viewport
	e.vp.Resize(50, 50)
	assert.Nil(t, n.Command())
}

func TestOnScreenEquivalence(t *testing.T) {
	e := newEnv(t)
	var nodes []*Node
	for i := range 8 {
		n := e.rect(t, image.Rect(i*20, i*10, i*20+15, i*10+15), red)
		n.SetVisible(i%3 != 0)
		n.Attach(e.layers)
		nodes = append(nodes, n)
	}
	steps := []func(){
		func() { e.vp.Resize(60, 60) },
		func() { nodes[2].SetPosition(-100, 0) },
		func() { nodes[3].SetVisible(true) },
		func() { nodes[4].Resize(0, 0) },
		func() { e.vp.Resize(400, 400) },
		func() { nodes[5].Delete() },
		func() { nodes[1].SetPosition(10, 10) },
	}
	for _, step := range steps {
		step()
		e.flush(t)
		for _, n := range nodes {
			holds(t, n)
			want := !n.Deleted() && n.State() == OnScreen
			assert.Equal(t, want, n.Visible())
		}
	}
}

func TestWriteThrough(t *testing.T) {
	e := newEnv(t)
	n := e.rect(t, image.Rect(0, 0, 10, 10), red)
	n.SetVisible(true)
	n.Attach(e.layers)
	e.flush(t)
	v := e.batch.VAO(n.Command())
	slot := n.Slot()

	n.SetPosition(5, 6)
	assert.Equal(t, []int16{5, 6}, v.Positions().Get(slot))
	n.SetDisplayLayer(3)
	assert.Equal(t, []uint32{shaders.MaxDepth - 4}, v.Layers().Get(slot))
	n.SetColor(color.RGBA{0, 255, 0, 255})
	assert.Equal(t, []uint8{0, 255, 0, 255}, v.Colors().Get(slot+3))
	n.Resize(20, 4)
	assert.Equal(t, []int16{25, 10}, v.Positions().Get(slot+2))
	assert.Equal(t, slot, n.Slot())
}

func TestLayerMigration(t *testing.T) {
	e := newEnv(t)
	n := e.rect(t, image.Rect(0, 0, 10, 10), red)
	n.SetVisible(true)
	n.Attach(e.layers)
	e.flush(t)
	opaque := n.Layer()
	first := n.Command()

	n.SetColor(glass)
	e.flush(t)
	assert.NotSame(t, opaque, n.Layer())
	assert.True(t, n.Layer().Transparent())
	assert.NotSame(t, first, n.Command())
	assert.False(t, first.Bound())
	holds(t, n)

	require.NoError(t, n.SetRoundness(4))
	e.flush(t)
	assert.Equal(t, shaders.Ellipse, n.Layer().Shader().Kind())
	assert.Error(t, n.SetRoundness(5))
	assert.Error(t, n.SetBlurRadius(2))

	s, err := NewShadow(e.vp, image.Rect(0, 0, 10, 10), red, 0, 0)
	require.NoError(t, err)
	s.SetVisible(true)
	s.Attach(e.layers)
	e.flush(t)
	assert.Equal(t, shaders.Polygon, s.Layer().Shader().Kind())
	assert.False(t, s.Layer().Transparent())
	require.NoError(t, s.SetBlurRadius(4))
	e.flush(t)
	assert.Equal(t, shaders.BlurRect, s.Layer().Shader().Kind())
	assert.True(t, s.Layer().Transparent())
	require.NoError(t, s.SetRoundness(2))
	e.flush(t)
	assert.Equal(t, shaders.BlurEllipse, s.Layer().Shader().Kind())
	holds(t, s)
	assert.Equal(t, 5, e.layers.Len())
}

type texture struct{}

func (texture) TextureID() int                { return 1 }
func (texture) Size() image.Point             { return image.Pt(32, 32) }
func (texture) Bind(dev gpu.Device, unit int) {}

func TestSprite(t *testing.T) {
	e := newEnv(t)
	_, err := NewSprite(e.vp, image.Rect(0, 0, 4, 4), nil, image.Rect(0, 0, 4, 4), red, false)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	n, err := NewSprite(e.vp, image.Rect(10, 10, 14, 14), texture{}, image.Rect(8, 0, 12, 4), color.RGBA{255, 255, 255, 255}, false)
	require.NoError(t, err)
	n.SetVisible(true)
	n.Attach(e.layers)
	e.flush(t)
	v := e.batch.VAO(n.Command())
	tc := v.Points(shaders.AttrTexCoord)
	assert.Equal(t, []int16{8, 0}, tc.Get(0))

	n.SetTextureOffset(image.Pt(16, 16))
	assert.Equal(t, []int16{20, 20}, tc.Get(2))
	clip := image.Rect(11, 11, 13, 13)
	n.SetClip(&clip)
	assert.Equal(t, []uint32{11}, v.Values(shaders.AttrClipX).Get(0))
	n.SetClip(nil)
	assert.Equal(t, []uint32{shaders.NoClip}, v.Values(shaders.AttrClipX).Get(0))

	n.Resize(8, 6)
	assert.Equal(t, []int16{18, 16}, v.Positions().Get(2))
	assert.Equal(t, image.Rect(10, 10, 18, 16), n.Bounds())
}

func TestReplaceFrom(t *testing.T) {
	e := newEnv(t)
	old := e.rect(t, image.Rect(0, 0, 10, 10), red)
	old.SetVisible(true)
	old.Attach(e.layers)
	e.flush(t)
	slot := old.Slot()

	n := e.rect(t, image.Rect(50, 50, 60, 60), red)
	n.SetVisible(true)
	n.Attach(e.layers)
	n.ReplaceFrom(old)
	e.flush(t)
	assert.True(t, old.Deleted())
	assert.Equal(t, slot, n.Slot())
	assert.Equal(t, 4, e.batch.VAO(n.Command()).Allocator().Used())

	// a hidden replacement frees the old slot
	hidden := e.rect(t, image.Rect(0, 0, 10, 10), red)
	hidden.Attach(e.layers)
	hidden.ReplaceFrom(n)
	e.flush(t)
	assert.True(t, n.Deleted())
	assert.Equal(t, 0, e.batch.VAOs()[0].Allocator().Used())
}

func TestContainer(t *testing.T) {
	e := newEnv(t)
	c := NewContainer(e.rect(t, image.Rect(0, 0, 5, 5), red), e.rect(t, image.Rect(5, 5, 10, 10), red))
	c.SetVisible(true)
	c.Attach(e.layers)
	e.flush(t)
	assert.Equal(t, 2, c.Len())
	g := c.Group()
	require.Len(t, g, 2)
	assert.True(t, g.CanReplace(g))

	c.Offset(image.Pt(1, 1))
	assert.Equal(t, image.Pt(6, 6), c.Nodes()[1].Position())

	d := NewContainer(e.rect(t, image.Rect(0, 0, 5, 5), red))
	d.SetVisible(true)
	d.Attach(e.layers)
	d.ReplaceFrom(c)
	e.flush(t)
	assert.True(t, c.Deleted())
	assert.Equal(t, 0, d.Nodes()[0].Slot())
	assert.Equal(t, 4, e.batch.VAOs()[0].Allocator().Used())
	d.Delete()
	e.flush(t)
	assert.True(t, d.Deleted())
}
