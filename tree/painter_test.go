// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"image"
	"image/color"
	"testing"

	"cogentcore.org/glui/config"
	"cogentcore.org/glui/fonts"
	"cogentcore.org/glui/glrender"
	"cogentcore.org/glui/gpu/headless"
	"cogentcore.org/glui/node"
	"cogentcore.org/glui/session"
	"cogentcore.org/glui/styles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const css = `
panel { background-color: #202020; }
button {
	background-color: #3060c0;
	border-size: 2px;
	border-line-style: solid;
	border-color: white;
}
`

func setup(t *testing.T) (*Tree, *Painter, *Control, *Control) {
	cfg := config.Defaults()
	cfg.Window.Width, cfg.Window.Height = 200, 100
	r, err := glrender.New(headless.New(), cfg, fonts.NewManager(""))
	require.NoError(t, err)
	rs, err := styles.ParseCSS(css)
	require.NoError(t, err)

	tr := New()
	tr.SetRules(rs)
	panel := tr.Add(NoID, "panel")
	panel.SetRect(image.Rect(0, 0, 200, 100))
	button := tr.Add(panel.ID(), "button")
	button.SetRect(image.Rect(10, 10, 90, 40))
	return tr, NewPainter(tr, session.New[ID](r)), panel, button
}

func handle(c *Control, part string) glrender.Handle {
	return c.Ref(part).Handle()
}

func TestPaint(t *testing.T) {
	tr, p, panel, button := setup(t)
	r := p.Session().Renderer()
	require.NoError(t, p.Paint())

	// panel background, button background and four borders
	assert.Equal(t, 6, r.Len())
	assert.False(t, tr.NeedsRedraw())
	bg := handle(button, "background")
	require.NotEqual(t, glrender.NoHandle, bg)
	n := r.Nodes(bg)[0]
	assert.Equal(t, color.RGBA{0x30, 0x60, 0xc0, 255}, n.Color())
	slot := n.Slot()

	top := r.Nodes(handle(button, "border.top"))[0]
	assert.Equal(t, image.Rect(10, 10, 90, 12), top.Bounds())
	left := r.Nodes(handle(button, "border.left"))[0]
	assert.Equal(t, image.Rect(10, 12, 12, 38), left.Bounds())

	// later controls are in front
	assert.Less(t, r.Nodes(handle(panel, "background"))[0].DisplayLayer(), n.DisplayLayer())

	// nothing changed: everything is kept
	require.NoError(t, p.Paint())
	assert.Equal(t, 6, r.Len())
	assert.Equal(t, bg, handle(button, "background"))
	assert.Equal(t, slot, r.Nodes(bg)[0].Slot())

	// moved: updated in place
	button.SetRect(image.Rect(20, 10, 100, 40))
	require.NoError(t, p.Paint())
	assert.Equal(t, bg, handle(button, "background"))
	assert.Equal(t, image.Rect(20, 10, 100, 40), r.Nodes(bg)[0].Bounds())
	assert.Equal(t, slot, r.Nodes(bg)[0].Slot())
	assert.Equal(t, 6, r.Len())
}

func TestPaintSkipsCleanControls(t *testing.T) {
	tr, p, panel, button := setup(t)
	r := p.Session().Renderer()
	other := tr.Add(panel.ID(), "button")
	other.SetRect(image.Rect(100, 10, 190, 40))
	require.NoError(t, p.Paint())
	assert.Equal(t, 11, r.Len())
	bg := handle(other, "background")
	slot := r.Nodes(bg)[0].Slot()

	// the first button gains a shadow; the others keep their objects
	button.Style = styles.NewSheet()
	button.Style.Set("shadow.visible", styles.BoolValue(true))
	button.Style.Set("shadow.blur.radius", styles.IntValue(4))
	button.Invalidate()
	require.NoError(t, p.Paint())
	assert.Equal(t, 12, r.Len())
	assert.Equal(t, bg, handle(other, "background"))
	assert.Equal(t, slot, r.Nodes(bg)[0].Slot())

	layer := func(c *Control, part string) uint32 {
		return r.Nodes(handle(c, part))[0].DisplayLayer()
	}
	assert.Less(t, layer(panel, "background"), layer(button, "shadow"))
	assert.Less(t, layer(button, "border.left"), layer(other, "background"))
	assert.Less(t, layer(other, "background"), layer(other, "border.top"))
	assert.False(t, tr.NeedsRedraw())
}

func TestPaintForce(t *testing.T) {
	_, p, _, button := setup(t)
	r := p.Session().Renderer()
	require.NoError(t, p.Paint())
	bg := handle(button, "background")
	slot := r.Nodes(bg)[0].Slot()

	p.Force = true
	require.NoError(t, p.Paint())
	assert.False(t, p.Force)
	h := handle(button, "background")
	assert.NotEqual(t, bg, h)
	assert.Equal(t, slot, r.Nodes(h)[0].Slot())
	assert.Equal(t, 6, r.Len())
}

func TestPaintHidden(t *testing.T) {
	tr, p, panel, button := setup(t)
	r := p.Session().Renderer()
	require.NoError(t, p.Paint())

	button.SetVisible(false)
	require.NoError(t, p.Paint())
	assert.Equal(t, 1, r.Len())
	assert.False(t, button.Ref("background").Valid())

	button.SetVisible(true)
	require.NoError(t, p.Paint())
	assert.Equal(t, 6, r.Len())

	tr.Remove(button.ID())
	require.NoError(t, p.Paint())
	assert.Equal(t, 1, r.Len())
	assert.True(t, panel.Ref("background").Valid())
}

func TestPaintText(t *testing.T) {
	_, p, _, button := setup(t)
	r := p.Session().Renderer()
	button.Text = "OK"
	button.Style = styles.NewSheet()
	button.Style.Set("text.align", styles.EnumValue("center"))
	button.Invalidate()
	require.NoError(t, p.Paint())
	h := handle(button, "text")
	require.NotEqual(t, glrender.NoHandle, h)
	for _, n := range r.Nodes(h) {
		assert.Equal(t, node.Sprite, n.Kind())
	}

	button.Text = ""
	button.Invalidate()
	require.NoError(t, p.Paint())
	assert.Nil(t, r.Nodes(h))
	assert.Equal(t, 6, r.Len())
}

func TestPaintShadowAndBevel(t *testing.T) {
	_, p, _, button := setup(t)
	r := p.Session().Renderer()
	button.Style = styles.NewSheet()
	button.Style.Set("shadow.visible", styles.BoolValue(true))
	button.Style.Set("shadow.x.offset", styles.IntValue(3))
	button.Style.Set("shadow.y.offset", styles.IntValue(3))
	button.Style.Set("shadow.blur.radius", styles.IntValue(4))
	button.Style.Set("border.line.style", styles.Parse("inset inset inset none"))
	button.Invalidate()
	require.NoError(t, p.Paint())

	sh := r.Nodes(handle(button, "shadow"))
	require.Len(t, sh, 1)
	assert.Equal(t, node.Shadow, sh[0].Kind())
	assert.Less(t, sh[0].DisplayLayer(), r.Nodes(handle(button, "background"))[0].DisplayLayer())

	top := r.Nodes(handle(button, "border.top"))
	require.Len(t, top, 1)
	assert.Equal(t, styles.Darken(styles.White, 0.5), top[0].Color())
	assert.Equal(t, styles.Lighten(styles.White, 0.25), r.Nodes(handle(button, "border.right"))[0].Color())
	assert.False(t, button.Ref("border.left").Valid())
	// panel, shadow, background and three borders
	assert.Equal(t, 6, r.Len())
}

func TestBorderRect(t *testing.T) {
	r := image.Rect(0, 0, 10, 20)
	assert.Equal(t, image.Rect(0, 0, 10, 2), borderRect(r, styles.Top, 2))
	assert.Equal(t, image.Rect(8, 2, 10, 18), borderRect(r, styles.Right, 2))
	assert.Equal(t, image.Rect(0, 18, 10, 20), borderRect(r, styles.Bottom, 2))
	assert.Equal(t, image.Rect(0, 2, 2, 18), borderRect(r, styles.Left, 2))
	assert.True(t, borderRect(r, styles.Left, 10).Empty())

	pts := bevel(r, styles.Top, 2)
	assert.Equal(t, []image.Point{{0, 0}, {10, 0}, {8, 2}, {2, 2}}, pts)

	c := color.RGBA{100, 100, 100, 255}
	assert.Equal(t, styles.Darken(c, 0.5), bevelColor(c, styles.Left, true))
	assert.Equal(t, styles.Lighten(c, 0.25), bevelColor(c, styles.Bottom, true))
	assert.Equal(t, styles.Lighten(c, 0.25), bevelColor(c, styles.Top, false))
	assert.Equal(t, styles.Darken(c, 0.5), bevelColor(c, styles.Right, false))
}
