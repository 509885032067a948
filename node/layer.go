// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package node

import (
	"cogentcore.org/glui/drawcmd"
	"cogentcore.org/glui/shaders"
)

// Layer is where nodes of one shader, transparency and texture put
// their commands.
type Layer struct {
	batch       *drawcmd.Batch
	shader      *shaders.Shader
	transparent bool
	texture     drawcmd.Texture
}

// Shader returns the shader of the layer.
func (l *Layer) Shader() *shaders.Shader { return l.shader }

// Transparent reports whether the layer is blended.
func (l *Layer) Transparent() bool { return l.transparent }

// Texture returns the texture of the layer, or nil.
func (l *Layer) Texture() drawcmd.Texture { return l.texture }

// fill writes the current state of the node into the command.
func (l *Layer) fill(n *Node, c *drawcmd.Command) {
	k := l.shader.Kind()
	c.Vertices = n.Vertices()
	c.Z = n.depth()
	c.Color = n.color
	c.Transparent = l.transparent
	c.Shader = l.shader
	c.Texture = l.texture
	c.Roundness, c.BlurRadius = 0, 0
	if k.UsesRoundness() {
		c.Roundness = n.roundness
	}
	if k.UsesBlur() {
		c.BlurRadius = n.blurRadius
	}
	c.TexCoords, c.Clip = nil, nil
	if k.UsesTexture() {
		c.TexCoords = drawcmd.Quad(n.source)
		c.Clip = n.clip
	}
}

// add submits a new command for the node.
func (l *Layer) add(n *Node) *drawcmd.Command {
	c := &drawcmd.Command{}
	l.fill(n, c)
	l.batch.Submit(c)
	return c
}

type layerKey struct {
	kind        shaders.Kind
	transparent bool
	texture     drawcmd.Texture
}

// Layers creates and keeps the layers of one batch.
type Layers struct {
	batch  *drawcmd.Batch
	reg    *shaders.Registry
	layers map[layerKey]*Layer
}

// NewLayers returns new [Layers] submitting to the batch.
func NewLayers(batch *drawcmd.Batch, reg *shaders.Registry) *Layers {
	return &Layers{batch: batch, reg: reg, layers: map[layerKey]*Layer{}}
}

// Batch returns the batch of the layers.
func (ls *Layers) Batch() *drawcmd.Batch { return ls.batch }

// Get returns the layer of the shader kind, transparency and texture.
func (ls *Layers) Get(kind shaders.Kind, transparent bool, tex drawcmd.Texture) *Layer {
	k := layerKey{kind, transparent, tex}
	if l, ok := ls.layers[k]; ok {
		return l
	}
	l := &Layer{batch: ls.batch, shader: ls.reg.Get(kind), transparent: transparent, texture: tex}
	ls.layers[k] = l
	return l
}

// Len returns the number of layers.
func (ls *Layers) Len() int { return len(ls.layers) }
