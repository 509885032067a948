// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"image"

	"cogentcore.org/glui/glrender"
	"cogentcore.org/glui/observe"
	"cogentcore.org/glui/styles"
)

// Flags are the state bits of a control.
type Flags int64

const (
	// NeedsRedraw is set when the control has to draw again.
	NeedsRedraw Flags = 1 << iota
)

// Has reports whether all bits of f are set.
func (fl Flags) Has(f Flags) bool { return fl&f == f }

// RenderRef holds the handle of a render object drawn by a control,
// if any.
type RenderRef struct {
	h  glrender.Handle
	ok bool
}

// Handle returns the handle, or [glrender.NoHandle].
func (r *RenderRef) Handle() glrender.Handle {
	if !r.ok {
		return glrender.NoHandle
	}
	return r.h
}

// Set sets the handle; [glrender.NoHandle] clears it.
func (r *RenderRef) Set(h glrender.Handle) {
	r.h, r.ok = h, h != glrender.NoHandle
}

// Valid reports whether a handle is set.
func (r *RenderRef) Valid() bool { return r.ok }

// Control is a node of a [Tree]. Its fields may be set directly;
// call [Control.Invalidate] afterwards to draw it again.
type Control struct {
	tree     *Tree
	id       ID
	parent   ID
	children []ID
	visible  bool
	rect     image.Rectangle
	flags    Flags

	// Type is the type selector, such as button.
	Type string

	// Name is the id selector, without #.
	Name string

	// Classes are the class selectors, without the dot.
	Classes []string

	// Text is drawn inside the padding of the control.
	Text string

	// Style overrides the style sheet rules; nil for none.
	Style *styles.Sheet

	refs map[string]*RenderRef

	// painted are the parts drawn by the last paint, in paint order
	painted []string
	subs    observe.Bag
}

// ID returns the ID of the control.
func (c *Control) ID() ID { return c.id }

// Parent returns the ID of the parent, or [NoID].
func (c *Control) Parent() ID { return c.parent }

// Children returns the IDs of the children.
func (c *Control) Children() []ID { return c.children }

// Removed reports whether the control was removed from its tree.
func (c *Control) Removed() bool { return c.tree == nil }

// Visible reports whether the control and its children are drawn.
func (c *Control) Visible() bool { return c.visible }

// SetVisible shows or hides the control.
func (c *Control) SetVisible(v bool) {
	if c.visible == v {
		return
	}
	c.visible = v
	c.Invalidate()
	if c.tree == nil {
		return
	}
	if p := c.tree.Control(c.parent); p != nil {
		p.Invalidate()
	}
}

// Rect returns the rectangle of the control.
func (c *Control) Rect() image.Rectangle { return c.rect }

// SetRect sets the rectangle of the control.
func (c *Control) SetRect(r image.Rectangle) {
	if c.rect == r {
		return
	}
	c.rect = r
	c.Invalidate()
}

// NeedsRedraw reports whether the control has to draw again.
func (c *Control) NeedsRedraw() bool { return c.flags.Has(NeedsRedraw) }

// Invalidate makes the control and its children draw again.
func (c *Control) Invalidate() {
	c.flags |= NeedsRedraw
	if c.tree == nil {
		return
	}
	for _, k := range c.children {
		c.tree.controls[k].Invalidate()
	}
}

func (c *Control) resetInvalidation() {
	c.flags &^= NeedsRedraw
	for _, k := range c.children {
		c.tree.controls[k].resetInvalidation()
	}
}

// Ref returns the render reference of the part, such as background.
func (c *Control) Ref(part string) *RenderRef {
	if c.refs == nil {
		c.refs = map[string]*RenderRef{}
	}
	r := c.refs[part]
	if r == nil {
		r = &RenderRef{}
		c.refs[part] = r
	}
	return r
}

// Selectors returns the selectors matching the control from the least
// to the most specific: type, classes, then name.
func (c *Control) Selectors() []string {
	sels := make([]string, 0, 2+len(c.Classes))
	if c.Type != "" {
		sels = append(sels, c.Type)
	}
	for _, cl := range c.Classes {
		sels = append(sels, "."+cl)
	}
	if c.Name != "" {
		sels = append(sels, "#"+c.Name)
	}
	return sels
}

// Bind invalidates the control whenever the value changes, until the
// control is removed.
func Bind[T comparable](c *Control, v *observe.Value[T]) {
	c.subs.Add(v.Subscribe(func(_, _ T) { c.Invalidate() }))
}

// BindText sets the text of the control to the value now and whenever
// it changes, until the control is removed.
func BindText(c *Control, v *observe.Value[string]) {
	c.Text = v.Get()
	c.Invalidate()
	c.subs.Add(v.Subscribe(func(_, cur string) {
		c.Text = cur
		c.Invalidate()
	}))
}
