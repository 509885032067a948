// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tree provides a tree of controls stored in an arena and
// indexed by [ID], and a [Painter] that draws the controls with their
// style values through a session.
package tree

import (
	"slices"

	"cogentcore.org/glui/styles"
)

// ID identifies a control of a [Tree].
type ID int32

// NoID is the ID of no control, such as the parent of a root.
const NoID ID = -1

// Walk return values.
const (
	// Continue walks into the children of the control.
	Continue = true

	// Break skips the children of the control.
	Break = false
)

// Tree holds controls by ID. Removed IDs are reused.
type Tree struct {
	rules *styles.Rules

	controls []*Control
	free     []ID
	roots    []ID
}

// New returns a new empty tree.
func New() *Tree {
	return &Tree{}
}

// Len returns the number of controls.
func (t *Tree) Len() int {
	return len(t.controls) - len(t.free)
}

// Add adds a new control of the type as the last child of the parent,
// or as a root if parent is [NoID]. It panics if the parent does not
// exist.
func (t *Tree) Add(parent ID, typ string) *Control {
	var p *Control
	if parent != NoID {
		p = t.Control(parent)
		if p == nil {
			panic("tree: add to missing parent")
		}
	}
	c := &Control{tree: t, parent: parent, Type: typ, visible: true, flags: NeedsRedraw}
	if n := len(t.free); n > 0 {
		c.id = t.free[n-1]
		t.free = t.free[:n-1]
		t.controls[c.id] = c
	} else {
		c.id = ID(len(t.controls))
		t.controls = append(t.controls, c)
	}
	if p != nil {
		p.children = append(p.children, c.id)
	} else {
		t.roots = append(t.roots, c.id)
	}
	return c
}

// Control returns the control of the ID, or nil.
func (t *Tree) Control(id ID) *Control {
	if id < 0 || int(id) >= len(t.controls) {
		return nil
	}
	return t.controls[id]
}

// Roots returns the IDs of the controls without parent.
func (t *Tree) Roots() []ID {
	return t.roots
}

// Remove removes the control and its children. Their subscriptions are
// released.
func (t *Tree) Remove(id ID) {
	c := t.Control(id)
	if c == nil {
		return
	}
	if p := t.Control(c.parent); p != nil {
		p.children = slices.DeleteFunc(p.children, func(k ID) bool { return k == id })
		p.Invalidate()
	} else {
		t.roots = slices.DeleteFunc(t.roots, func(k ID) bool { return k == id })
	}
	t.remove(c)
}

func (t *Tree) remove(c *Control) {
	for _, k := range c.children {
		t.remove(t.controls[k])
	}
	c.subs.Release()
	c.tree = nil
	c.children = nil
	t.controls[c.id] = nil
	t.free = append(t.free, c.id)
}

// Walk calls fun for every control in paint order: parents before
// their children, siblings in order. If fun returns [Break], the
// children of the control are skipped.
func (t *Tree) Walk(fun func(c *Control) bool) {
	for _, id := range t.roots {
		t.walk(t.controls[id], fun)
	}
}

func (t *Tree) walk(c *Control, fun func(c *Control) bool) {
	if !fun(c) {
		return
	}
	for _, k := range c.children {
		t.walk(t.controls[k], fun)
	}
}

// NeedsRedraw reports whether any control needs to be drawn again.
func (t *Tree) NeedsRedraw() bool {
	for _, c := range t.controls {
		if c != nil && c.flags.Has(NeedsRedraw) {
			return true
		}
	}
	return false
}

// Rules returns the style sheet rules.
func (t *Tree) Rules() *styles.Rules {
	return t.rules
}

// SetRules sets the style sheet rules and invalidates every control.
func (t *Tree) SetRules(rs *styles.Rules) {
	t.rules = rs
	for _, id := range t.roots {
		t.controls[id].Invalidate()
	}
}

// Style returns the style values of the control: the rules of its
// selectors, overridden by its own style.
func (t *Tree) Style(c *Control) *styles.Sheet {
	sh := t.rules.Sheet(c.Selectors()...)
	sh.Merge(c.Style)
	return sh
}
