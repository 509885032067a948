// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package glrender

import (
	"image"
	"image/color"

	"cogentcore.org/glui/drawcmd"
	"cogentcore.org/glui/node"
)

// part describes one node of a render object.
type part struct {
	kind        node.Kind
	pts         []image.Point
	color       color.RGBA
	roundness   uint32
	blur        uint32
	tex         drawcmd.Texture
	source      image.Rectangle
	clip        *image.Rectangle
	transparent bool
}

func shapePart(pts []image.Point, c color.RGBA) part {
	return part{kind: node.Shape, pts: pts, color: c}
}

func rectPart(r image.Rectangle, c color.RGBA, roundness uint32) part {
	return part{kind: node.Shape, pts: drawcmd.Quad(r), color: c, roundness: roundness}
}

func shadowPart(r image.Rectangle, c color.RGBA, blur, roundness uint32) part {
	return part{kind: node.Shadow, pts: drawcmd.Quad(r), color: c, blur: blur, roundness: roundness}
}

func spritePart(r image.Rectangle, tex drawcmd.Texture, source image.Rectangle, overlay color.RGBA, transparent bool, clip *image.Rectangle) part {
	return part{kind: node.Sprite, pts: drawcmd.Quad(r), color: overlay, tex: tex, source: source, clip: clip, transparent: transparent}
}

func (p *part) bounds() image.Rectangle {
	return drawcmd.BoundsOf(p.pts)
}

// create returns a new node drawing the part.
func (p *part) create(vp *node.Viewport) (*node.Node, error) {
	switch p.kind {
	case node.Shadow:
		return node.NewShadow(vp, p.bounds(), p.color, p.blur, p.roundness)
	case node.Sprite:
		n, err := node.NewSprite(vp, p.bounds(), p.tex, p.source, p.color, p.transparent)
		if err == nil && p.clip != nil {
			n.SetClip(p.clip)
		}
		return n, err
	}
	if p.roundness != 0 {
		return node.NewEllipse(vp, p.bounds(), p.color, p.roundness)
	}
	return node.NewShape(vp, p.pts, p.color)
}

// fits reports whether the node can be updated to draw the part.
func (p *part) fits(n *node.Node) bool {
	if n.Deleted() || n.Kind() != p.kind || n.VertexCount() != len(p.pts) {
		return false
	}
	if p.kind == node.Sprite {
		return n.Texture() == p.tex && n.Layer() != nil && n.Layer().Transparent() == (p.transparent || p.color.A < 255)
	}
	return true
}

// apply updates the node to draw the part.
func (p *part) apply(n *node.Node) error {
	if err := n.SetVertices(p.pts); err != nil {
		return err
	}
	n.SetColor(p.color)
	if p.kind != node.Sprite {
		if err := n.SetRoundness(p.roundness); err != nil {
			return err
		}
	}
	if p.kind == node.Shadow {
		if err := n.SetBlurRadius(p.blur); err != nil {
			return err
		}
	}
	if p.kind == node.Sprite {
		n.SetSource(p.source)
		n.SetClip(p.clip)
	}
	return nil
}
