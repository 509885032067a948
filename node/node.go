// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package node provides render nodes: retained primitives that hold a
// draw command slot only while they are visible, not deleted and on
// screen, and write their changes through to it.
package node

import (
	"fmt"
	"image"
	"image/color"

	"cogentcore.org/glui/base/errors"
	"cogentcore.org/glui/drawcmd"
	"cogentcore.org/glui/observe"
	"cogentcore.org/glui/shaders"
)

// ErrInvalidConfiguration is returned for node settings the shaders
// cannot draw.
var ErrInvalidConfiguration = drawcmd.ErrInvalidConfiguration

// Kind is the kind of primitive a node draws.
type Kind int32

const (
	// Shape is a filled polygon, or a superellipse if it has a roundness.
	Shape Kind = iota

	// Shadow is a rectangle or superellipse with a faded edge.
	Shadow

	// Sprite is a textured quad.
	Sprite
)

func (k Kind) String() string {
	switch k {
	case Shape:
		return "shape"
	case Shadow:
		return "shadow"
	case Sprite:
		return "sprite"
	}
	return fmt.Sprintf("Kind(%d)", int32(k))
}

// State is the lifecycle state of a node.
type State int32

const (
	// Unbound nodes have no layer yet.
	Unbound State = iota

	// BoundInvisible nodes have a layer but are hidden.
	BoundInvisible

	// OnScreen nodes are visible, intersect the viewport and hold a slot.
	OnScreen

	// OffScreen nodes are visible but outside the viewport.
	OffScreen

	// Deleted nodes are gone for good.
	Deleted
)

func (s State) String() string {
	switch s {
	case Unbound:
		return "Unbound"
	case BoundInvisible:
		return "BoundInvisible"
	case OnScreen:
		return "OnScreen"
	case OffScreen:
		return "OffScreen"
	case Deleted:
		return "Deleted"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Node is a retained primitive.
type Node struct {
	kind Kind

	// local vertices relative to the position
	local     []image.Point
	pos, size image.Point

	displayLayer uint32
	color        color.RGBA
	roundness    uint32
	blurRadius   uint32

	// sprite texture, source rectangle in it and clip rectangle
	texture     drawcmd.Texture
	source      image.Rectangle
	clip        *image.Rectangle
	transparent bool

	visible        bool
	visibleRequest bool
	deleted        bool
	onScreen       bool

	viewport *Viewport
	sub      *observe.Subscription
	layers   *Layers
	layer    *Layer
	cmd      *drawcmd.Command
}

func newNode(vp *Viewport, kind Kind, pts []image.Point, c color.RGBA) *Node {
	r := drawcmd.BoundsOf(pts)
	n := &Node{kind: kind, pos: r.Min, size: r.Size(), color: c, viewport: vp}
	n.local = make([]image.Point, len(pts))
	for i, p := range pts {
		n.local[i] = p.Sub(r.Min)
	}
	n.onScreen = vp.Intersects(n.pos.X, n.pos.Y, n.size.X, n.size.Y)
	n.sub = vp.Subscribe(func(_, _ image.Point) { n.checkOnScreen() })
	return n
}

func checkRoundness(r uint32) error {
	switch r {
	case 0, 2, 4, 8, 16:
		return nil
	}
	return fmt.Errorf("%w: roundness %d", ErrInvalidConfiguration, r)
}

// NewShape returns a new polygon node.
func NewShape(vp *Viewport, pts []image.Point, c color.RGBA) (*Node, error) {
	if len(pts) < 3 {
		return nil, fmt.Errorf("%w: %d vertices", ErrInvalidConfiguration, len(pts))
	}
	return newNode(vp, Shape, pts, c), nil
}

// NewEllipse returns a new shape node filling the superellipse of the
// given roundness inscribed in r.
func NewEllipse(vp *Viewport, r image.Rectangle, c color.RGBA, roundness uint32) (*Node, error) {
	if err := checkRoundness(roundness); err != nil {
		return nil, err
	}
	n := newNode(vp, Shape, drawcmd.Quad(r), c)
	n.roundness = roundness
	return n, nil
}

// NewShadow returns a new shadow node filling r with an edge fading
// over blur pixels.
func NewShadow(vp *Viewport, r image.Rectangle, c color.RGBA, blur, roundness uint32) (*Node, error) {
	if err := checkRoundness(roundness); err != nil {
		return nil, err
	}
	n := newNode(vp, Shadow, drawcmd.Quad(r), c)
	n.roundness, n.blurRadius = roundness, blur
	return n, nil
}

// NewSprite returns a new sprite node drawing the source rectangle of
// the texture into r, multiplied by the overlay color.
func NewSprite(vp *Viewport, r image.Rectangle, tex drawcmd.Texture, source image.Rectangle, overlay color.RGBA, transparent bool) (*Node, error) {
	if tex == nil {
		return nil, fmt.Errorf("%w: sprite without texture", ErrInvalidConfiguration)
	}
	n := newNode(vp, Sprite, drawcmd.Quad(r), overlay)
	n.texture, n.source, n.transparent = tex, source, transparent
	return n, nil
}

func (n *Node) String() string {
	return fmt.Sprintf("%s %s %v+%v", n.kind, n.State(), n.pos, n.size)
}

// Kind returns the kind of the node.
func (n *Node) Kind() Kind { return n.kind }

// Position returns the top left corner of the bounding box.
func (n *Node) Position() image.Point { return n.pos }

// Size returns the size of the bounding box.
func (n *Node) Size() image.Point { return n.size }

// Bounds returns the bounding box.
func (n *Node) Bounds() image.Rectangle {
	return image.Rectangle{Min: n.pos, Max: n.pos.Add(n.size)}
}

// Vertices returns the vertices in screen coordinates.
func (n *Node) Vertices() []image.Point {
	vs := make([]image.Point, len(n.local))
	for i, p := range n.local {
		vs[i] = p.Add(n.pos)
	}
	return vs
}

// VertexCount returns the number of vertices.
func (n *Node) VertexCount() int { return len(n.local) }

// Color returns the color, or the overlay color of sprites.
func (n *Node) Color() color.RGBA { return n.color }

// DisplayLayer returns the display layer: higher layers are drawn on top.
func (n *Node) DisplayLayer() uint32 { return n.displayLayer }

// Roundness returns the superellipse roundness.
func (n *Node) Roundness() uint32 { return n.roundness }

// BlurRadius returns the blur radius of shadows.
func (n *Node) BlurRadius() uint32 { return n.blurRadius }

// Texture returns the texture of sprites.
func (n *Node) Texture() drawcmd.Texture { return n.texture }

// Source returns the texture rectangle of sprites.
func (n *Node) Source() image.Rectangle { return n.source }

// Layer returns the current layer, or nil.
func (n *Node) Layer() *Layer { return n.layer }

// Command returns the command of the node while it holds a slot.
func (n *Node) Command() *drawcmd.Command { return n.cmd }

// Slot returns the vertex offset of the slot of the node, or -1 if it
// holds none or the batch has not been updated yet.
func (n *Node) Slot() int { return n.cmd.BufferIndex() }

// Visible reports whether the node is visible, not deleted and on screen.
func (n *Node) Visible() bool {
	return n.visible && !n.deleted && n.onScreen
}

// Deleted reports whether the node was deleted.
func (n *Node) Deleted() bool { return n.deleted }

// State returns the lifecycle state.
func (n *Node) State() State {
	switch {
	case n.deleted:
		return Deleted
	case n.layer == nil:
		return Unbound
	case !n.visible:
		return BoundInvisible
	case n.onScreen:
		return OnScreen
	}
	return OffScreen
}

// depth converts the display layer to a command depth.
func (n *Node) depth() uint32 {
	return shaders.MaxDepth - 1 - min(n.displayLayer, shaders.MaxDepth-1)
}

// layerFor returns the layer matching the current settings.
func (n *Node) layerFor() *Layer {
	if n.layers == nil {
		return nil
	}
	switch n.kind {
	case Sprite:
		return n.layers.Get(shaders.Texture, n.transparent || n.color.A < 255, n.texture)
	case Shadow:
		if n.blurRadius > 0 {
			k := shaders.BlurRect
			if n.roundness != 0 {
				k = shaders.BlurEllipse
			}
			return n.layers.Get(k, true, nil)
		}
	}
	k := shaders.Polygon
	if n.roundness != 0 {
		k = shaders.Ellipse
	}
	return n.layers.Get(k, n.color.A < 255, nil)
}

// Attach binds the node to the layers. A pending visibility request
// is resolved.
func (n *Node) Attach(ls *Layers) {
	if n.deleted {
		return
	}
	n.layers = ls
	n.setLayer(n.layerFor())
}

func (n *Node) setLayer(l *Layer) {
	if n.layer == l {
		return
	}
	n.remove()
	n.layer = l
	if l == nil {
		n.visible, n.visibleRequest = false, false
		return
	}
	if n.visibleRequest && !n.deleted {
		n.visible, n.visibleRequest = true, false
	}
	n.sync()
}

// sync adds or removes the command so that the node holds one exactly
// while it is visible.
func (n *Node) sync() bool {
	want := n.Visible() && n.layer != nil
	switch {
	case want && n.cmd == nil:
		n.cmd = n.layer.add(n)
		return true
	case !want && n.cmd != nil:
		n.remove()
		return true
	}
	return false
}

func (n *Node) remove() {
	if n.cmd == nil {
		return
	}
	n.layer.batch.Remove(n.cmd)
	n.cmd = nil
}

// update writes the node into its command.
func (n *Node) update() {
	if n.cmd == nil {
		return
	}
	n.layer.fill(n, n.cmd)
	errors.Log(n.layer.batch.Refresh(n.cmd))
}

// migrate moves the node to the layer of its settings, or updates its
// command if the layer stays the same.
func (n *Node) migrate() {
	l := n.layerFor()
	if l == n.layer {
		n.update()
		return
	}
	n.setLayer(l)
}

// checkOnScreen updates the viewport intersection and reports whether
// the slot was added or removed.
func (n *Node) checkOnScreen() bool {
	if n.deleted {
		return false
	}
	n.onScreen = n.viewport.Intersects(n.pos.X, n.pos.Y, n.size.X, n.size.Y)
	return n.sync()
}

// SetVisible shows or hides the node. Unbound nodes only record the
// request, which is resolved when they are attached.
func (n *Node) SetVisible(v bool) {
	if n.deleted {
		return
	}
	if n.layer == nil {
		n.visibleRequest, n.visible = v, false
		return
	}
	n.visibleRequest = false
	if n.visible == v {
		return
	}
	n.visible = v
	n.sync()
}

// SetPosition moves the top left corner of the node.
func (n *Node) SetPosition(x, y int) {
	p := image.Pt(x, y)
	if n.deleted || p == n.pos {
		return
	}
	n.pos = p
	if !n.checkOnScreen() {
		n.update()
	}
}

// Resize sets the size of the bounding box. Shapes scale their
// vertices proportionally around the position; sprites and shadows
// rebuild their quad.
func (n *Node) Resize(width, height int) {
	sz := image.Pt(width, height)
	if n.deleted || sz == n.size {
		return
	}
	if n.kind == Shape {
		for i, p := range n.local {
			if n.size.X != 0 {
				p.X = p.X * width / n.size.X
			}
			if n.size.Y != 0 {
				p.Y = p.Y * height / n.size.Y
			}
			n.local[i] = p
		}
	} else {
		n.local = drawcmd.Quad(image.Rectangle{Max: sz})
	}
	n.size = sz
	if !n.checkOnScreen() {
		n.update()
	}
}

// SetColor sets the color; crossing the opaque and transparent boundary
// moves the node to another layer.
func (n *Node) SetColor(c color.RGBA) {
	if n.deleted || c == n.color {
		return
	}
	n.color = c
	n.migrate()
}

// SetDisplayLayer sets the display layer.
func (n *Node) SetDisplayLayer(l uint32) {
	if n.deleted || l == n.displayLayer {
		return
	}
	n.displayLayer = l
	n.update()
}

// SetBlurRadius sets the blur radius of a shadow; switching between
// blurred and unblurred moves it to another layer.
func (n *Node) SetBlurRadius(b uint32) error {
	if n.kind != Shadow {
		return fmt.Errorf("%w: blur on a %s", ErrInvalidConfiguration, n.kind)
	}
	if n.deleted || b == n.blurRadius {
		return nil
	}
	n.blurRadius = b
	n.migrate()
	return nil
}

// SetRoundness sets the superellipse roundness of a quad.
func (n *Node) SetRoundness(r uint32) error {
	if n.deleted || r == n.roundness {
		return nil
	}
	if err := checkRoundness(r); err != nil {
		return err
	}
	if n.kind == Sprite || len(n.local) != 4 {
		return fmt.Errorf("%w: roundness on a %s with %d vertices", ErrInvalidConfiguration, n.kind, len(n.local))
	}
	n.roundness = r
	n.migrate()
	return nil
}

// SetVertices replaces the vertices of a shape with the same number of
// new ones.
func (n *Node) SetVertices(pts []image.Point) error {
	if len(pts) != len(n.local) {
		return fmt.Errorf("%w: %d vertices for a node with %d", ErrInvalidConfiguration, len(pts), len(n.local))
	}
	if n.deleted {
		return nil
	}
	r := drawcmd.BoundsOf(pts)
	for i, p := range pts {
		n.local[i] = p.Sub(r.Min)
	}
	n.pos, n.size = r.Min, r.Size()
	if !n.checkOnScreen() {
		n.update()
	}
	return nil
}

// SetSource sets the texture rectangle of a sprite.
func (n *Node) SetSource(r image.Rectangle) {
	if n.deleted || r == n.source {
		return
	}
	n.source = r
	n.update()
}

// SetTextureOffset moves the texture rectangle of a sprite.
func (n *Node) SetTextureOffset(p image.Point) {
	if n.deleted || p == n.source.Min {
		return
	}
	n.source = n.source.Add(p.Sub(n.source.Min))
	n.update()
}

// SetClip sets the clip rectangle of a sprite in screen coordinates;
// nil disables clipping.
func (n *Node) SetClip(clip *image.Rectangle) {
	if n.deleted || (clip == nil && n.clip == nil) || (clip != nil && n.clip != nil && *clip == *n.clip) {
		return
	}
	if clip != nil {
		c := *clip
		clip = &c
	}
	n.clip = clip
	n.update()
}

// Delete removes the node for good.
func (n *Node) Delete() {
	if n.deleted {
		return
	}
	n.remove()
	n.release()
}

func (n *Node) release() {
	n.deleted = true
	n.visible, n.visibleRequest = false, false
	n.sub.Unsubscribe()
}

// ReplaceFrom deletes old and lets the node take over its slot: the
// node's pending command replaces the command of old when the batch is
// next updated. If the node has no pending command the slot of old is
// freed.
func (n *Node) ReplaceFrom(old *Node) {
	if old == nil || old.deleted || old == n {
		return
	}
	oc := old.cmd
	old.cmd = nil
	old.release()
	if oc == nil {
		return
	}
	if n.cmd != nil && !n.cmd.Bound() && n.cmd.State == drawcmd.New {
		n.cmd.Replace(oc)
		return
	}
	old.layer.batch.Remove(oc)
}
