// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package glrender turns draw calls of controls into retained render
// nodes. Every draw call returns a [Handle] to the render object it
// created or updated, which the next frame passes back in so that
// unchanged geometry keeps its vertex slots.
package glrender

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"cogentcore.org/glui/atlas"
	"cogentcore.org/glui/base/errors"
	"cogentcore.org/glui/config"
	"cogentcore.org/glui/drawcmd"
	"cogentcore.org/glui/fonts"
	"cogentcore.org/glui/glbuf"
	"cogentcore.org/glui/gpu"
	"cogentcore.org/glui/node"
	"cogentcore.org/glui/shaders"
	"cogentcore.org/glui/vao"
)

// Handle identifies a render object.
type Handle int

// NoHandle is returned by draw calls that draw nothing.
const NoHandle Handle = -1

// ErrInsufficientResources is returned when no more render objects
// can be created.
var ErrInsufficientResources = errors.New("glrender: insufficient resources")

// White is the overlay color that draws images unchanged.
var White = color.RGBA{255, 255, 255, 255}

// object is a render object: the nodes drawn by one draw call.
type object struct {
	nodes *node.Container
}

// Renderer draws the primitives of controls.
type Renderer struct {
	dev      gpu.Device
	reg      *shaders.Registry
	batch    *drawcmd.Batch
	layers   *node.Layers
	viewport *node.Viewport
	ctx      *Context
	fonts    *fonts.Manager
	images   *atlas.Atlas

	// Font is the font of text styles without one.
	Font fonts.Font

	pool    *IndexPool
	objects map[Handle]*object

	// replacing is the object the next draw call replaces
	replacing Handle

	displayLayer uint32
}

// New returns a new renderer drawing to the device, configured by cfg.
// Fonts are loaded through fm.
func New(dev gpu.Device, cfg *config.Config, fm *fonts.Manager) (*Renderer, error) {
	reg, err := shaders.NewRegistry(dev, cfg.Renderer.GLSLVersion)
	if err != nil {
		return nil, err
	}
	opts := vao.Options{
		FragmentationThreshold: cfg.Batch.FragmentationThreshold,
		MaxVertices:            cfg.Batch.MaxVertices,
		Growth: glbuf.Growth{
			Initial:       cfg.Buffers.Initial,
			DoublingLimit: cfg.Buffers.DoublingLimit,
			Increment:     cfg.Buffers.Increment,
		},
	}
	batch := drawcmd.NewBatch(dev, opts)
	ctx := NewContext(cfg.Window.Width, cfg.Window.Height)
	ctx.Background = cfg.BackgroundColor()
	if err := ctx.SetRotation(cfg.Renderer.Rotation); err != nil {
		reg.Release()
		return nil, err
	}
	ctx.SetZoom(cfg.Renderer.Zoom)
	r := &Renderer{
		dev:      dev,
		reg:      reg,
		batch:    batch,
		layers:   node.NewLayers(batch, reg),
		viewport: node.NewViewport(cfg.Window.Width, cfg.Window.Height),
		ctx:      ctx,
		fonts:    fm,
		images:   atlas.New("images", image.Pt(1024, 1024)),
		Font: fonts.Font{
			Name:      cfg.Fonts.Default,
			Size:      cfg.Fonts.Size,
			Fallbacks: cfg.Fonts.Fallbacks,
		},
		pool:      NewIndexPool(cfg.Renderer.MaxRenderObjects),
		objects:   map[Handle]*object{},
		replacing: NoHandle,
	}
	slog.Info("glrender: renderer created", "device", dev.Info().String(), "size", ctx.Size())
	return r, nil
}

// Context returns the render context.
func (r *Renderer) Context() *Context { return r.ctx }

// Batch returns the draw command batch.
func (r *Renderer) Batch() *drawcmd.Batch { return r.batch }

// Viewport returns the visible area.
func (r *Renderer) Viewport() *node.Viewport { return r.viewport }

// Len returns the number of live render objects.
func (r *Renderer) Len() int { return len(r.objects) }

// Nodes returns the nodes of the render object, or nil.
func (r *Renderer) Nodes(h Handle) []*node.Node {
	if o, ok := r.objects[h]; ok {
		return o.nodes.Nodes()
	}
	return nil
}

// Resize sets the size of the surface. Nodes that move on or off
// screen gain or lose their slots.
func (r *Renderer) Resize(width, height int) {
	r.ctx.Resize(width, height)
	r.viewport.Resize(width, height)
}

// StartRenderCycle starts a frame: it clears the surface and restarts
// the display layers, so later draw calls are drawn on top.
func (r *Renderer) StartRenderCycle() {
	r.displayLayer = 0
	sz := r.ctx.Size()
	r.dev.SetViewport(sz.X, sz.Y)
	r.dev.Clear(r.ctx.Background)
}

// EndRenderCycle applies the changes of the frame to the batch and
// draws it.
func (r *Renderer) EndRenderCycle() error {
	if r.replacing != NoHandle {
		r.RemoveRenderObject(r.replacing)
	}
	if err := r.batch.Flush(); err != nil {
		return err
	}
	r.batch.Render(r.ctx.View())
	return nil
}

// RemoveRenderObject deletes the render object. Unknown handles are
// ignored.
func (r *Renderer) RemoveRenderObject(h Handle) {
	o, ok := r.objects[h]
	if !ok {
		return
	}
	o.nodes.Delete()
	delete(r.objects, h)
	r.pool.Release(h)
	if r.replacing == h {
		r.replacing = NoHandle
	}
}

// KeepRenderObject keeps the render object as it is and moves it to
// the next display layer, as if it was drawn again. It reports whether
// the handle is known.
func (r *Renderer) KeepRenderObject(h Handle) bool {
	o, ok := r.objects[h]
	if !ok {
		return false
	}
	o.nodes.SetDisplayLayer(r.nextLayer())
	return true
}

// ReplaceRenderObjectWithFollowingDrawCall makes the next draw call
// replace the render object: its nodes take over the slots of the old
// ones when they fit, and the old object is removed. It reports whether
// the handle is known.
func (r *Renderer) ReplaceRenderObjectWithFollowingDrawCall(h Handle) bool {
	if _, ok := r.objects[h]; !ok {
		return false
	}
	if r.replacing != NoHandle && r.replacing != h {
		r.RemoveRenderObject(r.replacing)
	}
	r.replacing = h
	return true
}

// Release deletes every render object and releases the GPU resources.
func (r *Renderer) Release() {
	for h := range r.objects {
		r.RemoveRenderObject(h)
	}
	r.batch.Release()
	r.images.Release(r.dev)
	for _, f := range r.fonts.Faces() {
		f.Atlas().Release(r.dev)
	}
	r.reg.Release()
}

func (r *Renderer) nextLayer() uint32 {
	l := r.displayLayer
	r.displayLayer++
	return l
}

// denied removes the previous object and the pending replacement of a
// draw call that draws nothing.
func (r *Renderer) denied(prev Handle) (Handle, error) {
	r.RemoveRenderObject(prev)
	if r.replacing != NoHandle {
		r.RemoveRenderObject(r.replacing)
	}
	return NoHandle, nil
}

// fits reports whether the object can be updated to draw the parts.
func (o *object) fits(parts []part) bool {
	ns := o.nodes.Nodes()
	if len(ns) != len(parts) {
		return false
	}
	for i := range parts {
		if !parts[i].fits(ns[i]) {
			return false
		}
	}
	return true
}

// draw updates the previous object in place if it fits the parts, and
// creates a new object otherwise.
func (r *Renderer) draw(prev Handle, parts []part) (Handle, error) {
	if len(parts) == 0 {
		return r.denied(prev)
	}
	repl := r.replacing
	r.replacing = NoHandle
	layer := r.nextLayer()
	if o, ok := r.objects[prev]; ok && repl == NoHandle && o.fits(parts) {
		for i, n := range o.nodes.Nodes() {
			if err := parts[i].apply(n); err != nil {
				return prev, err
			}
		}
		o.nodes.SetDisplayLayer(layer)
		return prev, nil
	}

	c := node.NewContainer()
	for i := range parts {
		n, err := parts[i].create(r.viewport)
		if err != nil {
			c.Delete()
			return NoHandle, err
		}
		c.Add(n)
	}
	h, err := r.pool.Assign()
	if err != nil {
		c.Delete()
		return NoHandle, err
	}
	c.SetDisplayLayer(layer)
	c.SetVisible(true)
	c.Attach(r.layers)
	r.objects[h] = &object{nodes: c}

	if prev != repl {
		r.RemoveRenderObject(prev)
	}
	if old, ok := r.objects[repl]; ok {
		if c.Group().CanReplace(old.nodes.Group()) {
			c.ReplaceFrom(old.nodes)
		} else {
			old.nodes.Delete()
		}
		delete(r.objects, repl)
		r.pool.Release(repl)
	}
	return h, nil
}

// FillRectangle fills the rectangle.
func (r *Renderer) FillRectangle(prev Handle, rect image.Rectangle, c color.RGBA) (Handle, error) {
	if rect.Empty() || c.A == 0 {
		return r.denied(prev)
	}
	return r.draw(prev, []part{rectPart(rect, c, 0)})
}

// DrawRectangle draws the outline of the rectangle with lines of the
// given width. Outlines that cover the whole rectangle are filled.
func (r *Renderer) DrawRectangle(prev Handle, rect image.Rectangle, c color.RGBA, lineWidth int) (Handle, error) {
	if rect.Empty() || c.A == 0 || lineWidth <= 0 {
		return r.denied(prev)
	}
	if rect.Dx() <= 2*lineWidth || rect.Dy() <= 2*lineWidth {
		return r.draw(prev, []part{rectPart(rect, c, 0)})
	}
	return r.draw(prev, []part{
		rectPart(image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+lineWidth), c, 0),
		rectPart(image.Rect(rect.Max.X-lineWidth, rect.Min.Y+lineWidth, rect.Max.X, rect.Max.Y-lineWidth), c, 0),
		rectPart(image.Rect(rect.Min.X, rect.Max.Y-lineWidth, rect.Max.X, rect.Max.Y), c, 0),
		rectPart(image.Rect(rect.Min.X, rect.Min.Y+lineWidth, rect.Min.X+lineWidth, rect.Max.Y-lineWidth), c, 0),
	})
}

// LineStyle is the style of a line drawn by [Renderer.DrawRectangleLine].
type LineStyle int32

const (
	Solid LineStyle = iota
	Dotted
	Dashed
)

func (s LineStyle) String() string {
	switch s {
	case Solid:
		return "solid"
	case Dotted:
		return "dotted"
	case Dashed:
		return "dashed"
	}
	return fmt.Sprintf("LineStyle(%d)", int32(s))
}

// DrawRectangleLine draws a line filling the rectangle along its
// longer side. Dotted lines are squares as wide as the line with gaps
// of the same size; dashes are twice as long as the line is wide.
func (r *Renderer) DrawRectangleLine(prev Handle, rect image.Rectangle, c color.RGBA, style LineStyle) (Handle, error) {
	if rect.Empty() || c.A == 0 {
		return r.denied(prev)
	}
	switch style {
	case Solid:
		return r.draw(prev, []part{rectPart(rect, c, 0)})
	case Dotted:
		return r.draw(prev, segments(rect, c, 1))
	case Dashed:
		return r.draw(prev, segments(rect, c, 2))
	}
	return NoHandle, fmt.Errorf("%w: %v", drawcmd.ErrInvalidConfiguration, style)
}

// segments splits the rectangle along its longer side into segments of
// length times its width, separated by gaps of its width.
func segments(rect image.Rectangle, c color.RGBA, length int) []part {
	horizontal := rect.Dx() >= rect.Dy()
	width := rect.Dy()
	end := rect.Max.X
	if !horizontal {
		width, end = rect.Dx(), rect.Max.Y
	}
	start := rect.Min.X
	if !horizontal {
		start = rect.Min.Y
	}
	var parts []part
	for p := start; p < end; p += width * (length + 1) {
		q := min(p+width*length, end)
		s := image.Rect(p, rect.Min.Y, q, rect.Max.Y)
		if !horizontal {
			s = image.Rect(rect.Min.X, p, rect.Max.X, q)
		}
		parts = append(parts, rectPart(s, c, 0))
	}
	return parts
}

// DrawImage draws the image with its top left corner at the point,
// multiplied by the overlay color. Images are cached in a texture
// atlas under their key.
func (r *Renderer) DrawImage(prev Handle, key string, img image.Image, at image.Point, overlay color.RGBA) (Handle, error) {
	sz := img.Bounds().Size()
	if sz.X <= 0 || sz.Y <= 0 || overlay.A == 0 {
		return r.denied(prev)
	}
	src, err := r.images.Add(key, img)
	if err != nil {
		r.replacing = NoHandle
		return NoHandle, err
	}
	transparent := true
	if o, ok := img.(interface{ Opaque() bool }); ok {
		transparent = !o.Opaque()
	}
	dst := image.Rectangle{Min: at, Max: at.Add(sz)}
	return r.draw(prev, []part{spritePart(dst, r.images, src, overlay, transparent, nil)})
}

// FillTriangle fills the triangle. Triangles with two equal points or
// all points on a line draw nothing.
func (r *Renderer) FillTriangle(prev Handle, a, b, p image.Point, c color.RGBA) (Handle, error) {
	cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
	if a == b || a == p || b == p || cross == 0 || c.A == 0 {
		return r.denied(prev)
	}
	return r.draw(prev, []part{shapePart([]image.Point{a, b, p}, c)})
}

// FillPolygon fills the convex polygon. Polygons without area draw
// nothing.
func (r *Renderer) FillPolygon(prev Handle, pts []image.Point, c color.RGBA) (Handle, error) {
	if len(pts) < 3 || c.A == 0 || area2(pts) == 0 {
		return r.denied(prev)
	}
	return r.draw(prev, []part{shapePart(pts, c)})
}

// area2 returns twice the signed area of the polygon.
func area2(pts []image.Point) int {
	a := 0
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		a += p.X*q.Y - q.X*p.Y
	}
	return a
}

// FillEllipse fills the ellipse inscribed in the rectangle.
func (r *Renderer) FillEllipse(prev Handle, rect image.Rectangle, c color.RGBA) (Handle, error) {
	if rect.Empty() || c.A == 0 {
		return r.denied(prev)
	}
	return r.draw(prev, []part{rectPart(rect, c, 2)})
}

// FillRoundRect fills the rectangle with corners rounded by the
// superellipse roundness: 4, 8 and 16 are increasingly rectangular,
// 0 fills the plain rectangle.
func (r *Renderer) FillRoundRect(prev Handle, rect image.Rectangle, c color.RGBA, roundness uint32) (Handle, error) {
	if rect.Empty() || c.A == 0 {
		return r.denied(prev)
	}
	return r.draw(prev, []part{rectPart(rect, c, roundness)})
}

// DrawShadow draws a shadow filling the rectangle whose edge fades out
// over the blur radius. Without blur it fills the rectangle. Inset
// shadows fade from the edges into the rectangle and need a blur.
func (r *Renderer) DrawShadow(prev Handle, rect image.Rectangle, c color.RGBA, blur int, roundness uint32, inset bool) (Handle, error) {
	if rect.Empty() || c.A == 0 || (inset && blur <= 0) {
		return r.denied(prev)
	}
	if blur <= 0 {
		return r.draw(prev, []part{rectPart(rect, c, roundness)})
	}
	if !inset {
		return r.draw(prev, []part{shadowPart(rect, c, uint32(blur), roundness)})
	}
	t := min(blur, rect.Dx()/2, rect.Dy()/2)
	if t <= 0 {
		return r.denied(prev)
	}
	b := uint32(max(t/2, 1))
	parts := []part{
		shadowPart(image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+t), c, b, 0),
		shadowPart(image.Rect(rect.Min.X, rect.Max.Y-t, rect.Max.X, rect.Max.Y), c, b, 0),
	}
	if side := image.Rect(rect.Min.X, rect.Min.Y+t, rect.Min.X+t, rect.Max.Y-t); !side.Empty() {
		parts = append(parts,
			shadowPart(side, c, b, 0),
			shadowPart(side.Add(image.Pt(rect.Dx()-t, 0)), c, b, 0))
	}
	return r.draw(prev, parts)
}
