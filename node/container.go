// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package node

import (
	"image"

	"cogentcore.org/glui/drawcmd"
)

// Container groups the nodes of one drawable so that they are shown,
// moved and deleted together.
type Container struct {
	nodes []*Node
}

// NewContainer returns a new [Container] of the nodes.
func NewContainer(nodes ...*Node) *Container {
	return &Container{nodes: nodes}
}

// Add adds nodes to the container.
func (c *Container) Add(nodes ...*Node) {
	c.nodes = append(c.nodes, nodes...)
}

// Nodes returns the nodes of the container.
func (c *Container) Nodes() []*Node { return c.nodes }

// Len returns the number of nodes.
func (c *Container) Len() int { return len(c.nodes) }

// Attach attaches every node to the layers.
func (c *Container) Attach(ls *Layers) {
	for _, n := range c.nodes {
		n.Attach(ls)
	}
}

// SetVisible shows or hides every node.
func (c *Container) SetVisible(v bool) {
	for _, n := range c.nodes {
		n.SetVisible(v)
	}
}

// SetDisplayLayer sets the display layer of every node.
func (c *Container) SetDisplayLayer(l uint32) {
	for _, n := range c.nodes {
		n.SetDisplayLayer(l)
	}
}

// Offset moves every node.
func (c *Container) Offset(d image.Point) {
	for _, n := range c.nodes {
		p := n.Position().Add(d)
		n.SetPosition(p.X, p.Y)
	}
}

// Group returns the commands of the nodes, nil for nodes without one.
func (c *Container) Group() drawcmd.Group {
	g := make(drawcmd.Group, len(c.nodes))
	for i, n := range c.nodes {
		g[i] = n.Command()
	}
	return g
}

// ReplaceFrom lets the nodes take over the slots of the nodes of old,
// pairwise, and deletes the rest of old.
func (c *Container) ReplaceFrom(old *Container) {
	for i, o := range old.nodes {
		if i < len(c.nodes) {
			c.nodes[i].ReplaceFrom(o)
		} else {
			o.Delete()
		}
	}
}

// Delete deletes every node.
func (c *Container) Delete() {
	for _, n := range c.nodes {
		n.Delete()
	}
}

// Deleted reports whether every node was deleted.
func (c *Container) Deleted() bool {
	for _, n := range c.nodes {
		if !n.Deleted() {
			return false
		}
	}
	return true
}
