// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"fmt"
	"image"
	"image/color"

	"cogentcore.org/glui/base/errors"
	"cogentcore.org/glui/fonts"
	"cogentcore.org/glui/glrender"
	"cogentcore.org/glui/session"
	"cogentcore.org/glui/styles"
)

// Painter draws the controls of a tree through a session.
//
// Controls that need to draw again draw in paint order; the others are
// skipped and keep their render objects, which move to the display
// layers of their place in the tree.
type Painter struct {
	tree *Tree
	s    *session.Session[ID]

	// Force replaces the render objects of the next frame instead of
	// updating them, such as after the style sheet changed.
	Force bool
}

// NewPainter returns a painter drawing t through s.
func NewPainter(t *Tree, s *session.Session[ID]) *Painter {
	return &Painter{tree: t, s: s}
}

// Session returns the session.
func (p *Painter) Session() *session.Session[ID] { return p.s }

// Paint draws a frame.
func (p *Painter) Paint() error {
	p.s.Init()
	p.s.ForceRedraw = p.Force
	var errs []error
	p.tree.Walk(func(c *Control) bool {
		if !c.Visible() {
			// render objects of hidden controls are removed by the session
			clearRefs(p.tree, c)
			return Break
		}
		if !p.Force && !c.NeedsRedraw() {
			p.skip(c)
			return Continue
		}
		if err := p.PaintControl(c); err != nil {
			errs = append(errs, fmt.Errorf("tree: painting %s %d: %w", c.Type, c.ID(), err))
		}
		return Continue
	})
	for _, id := range p.tree.roots {
		p.tree.controls[id].resetInvalidation()
	}
	p.Force = false
	p.s.ForceRedraw = false
	errs = append(errs, p.s.Render())
	return errors.Join(errs...)
}

// skip keeps the render objects of the control from the last paint.
func (p *Painter) skip(c *Control) {
	hs := make([]glrender.Handle, 0, len(c.painted))
	for _, part := range c.painted {
		hs = append(hs, c.refs[part].Handle())
	}
	p.s.SkipControlDrawing(c.ID(), hs...)
}

func clearRefs(t *Tree, c *Control) {
	c.painted = c.painted[:0]
	for _, r := range c.refs {
		r.Set(glrender.NoHandle)
	}
	for _, k := range c.children {
		clearRefs(t, t.controls[k])
	}
}

// PaintControl draws the control with its style values: an outer
// shadow, the background, an inset shadow, the borders and the text.
func (p *Painter) PaintControl(c *Control) error {
	sh := p.tree.Style(c)
	r := c.Rect()
	id := c.ID()
	c.painted = c.painted[:0]
	var errs []error
	inset := sh.Bool("shadow.inset", false)
	if !inset {
		errs = append(errs, p.shadow(c, sh, r))
	}
	bg := colorOf(sh, "background.color")
	errs = append(errs, p.draw(c, "background", func(ref glrender.Handle) (glrender.Handle, error) {
		return p.s.FillRectangle(id, ref, r, bg)
	}))
	if inset {
		errs = append(errs, p.shadow(c, sh, r))
	}
	for _, d := range styles.Directions {
		errs = append(errs, p.border(c, sh, r, d))
	}
	errs = append(errs, p.text(c, sh, r))
	return errors.Join(errs...)
}

// draw runs the draw call with the handle of the part and keeps the
// resulting handle.
func (p *Painter) draw(c *Control, part string, fun func(ref glrender.Handle) (glrender.Handle, error)) error {
	ref := c.Ref(part)
	h, err := fun(ref.Handle())
	ref.Set(h)
	if h != glrender.NoHandle {
		c.painted = append(c.painted, part)
	}
	return err
}

// clear forgets the part; its render object is removed at the end of
// the frame.
func (p *Painter) clear(c *Control, part string) {
	if r, ok := c.refs[part]; ok {
		r.Set(glrender.NoHandle)
	}
}

func (p *Painter) shadow(c *Control, sh *styles.Sheet, r image.Rectangle) error {
	if !sh.Bool("shadow.visible", false) {
		p.clear(c, "shadow")
		return nil
	}
	off := image.Pt(sh.Int("shadow.x.offset", 0), sh.Int("shadow.y.offset", 0))
	rect := r.Add(off).Inset(-sh.Int("shadow.spread.radius", 0))
	blur := sh.Int("shadow.blur.radius", 0)
	col := colorOf(sh, "shadow.color")
	inset := sh.Bool("shadow.inset", false)
	return p.draw(c, "shadow", func(ref glrender.Handle) (glrender.Handle, error) {
		return p.s.DrawShadow(c.ID(), ref, rect, col, blur, 0, inset)
	})
}

// side returns the value of the property of one side of the box, such
// as border.top.size, falling back to the value for all sides.
func side(sh *styles.Sheet, prefix string, d styles.Direction, prop string) styles.Value {
	if v, ok := sh.Find(prefix + "." + d.String() + "." + prop); ok {
		return v
	}
	v, _ := sh.Lookup(prefix + "." + prop)
	return v.Side(d)
}

var lineStyles = map[string]glrender.LineStyle{
	"solid":  glrender.Solid,
	"dotted": glrender.Dotted,
	"dashed": glrender.Dashed,
}

func (p *Painter) border(c *Control, sh *styles.Sheet, r image.Rectangle, d styles.Direction) error {
	part := "border." + d.String()
	size, _ := side(sh, "border", d, "size").Int()
	style, _ := side(sh, "border", d, "line.style").Enum()
	col, _ := side(sh, "border", d, "color").Color()
	if size <= 0 {
		p.clear(c, part)
		return nil
	}
	if ls, ok := lineStyles[style]; ok {
		rect := borderRect(r, d, size)
		return p.draw(c, part, func(ref glrender.Handle) (glrender.Handle, error) {
			return p.s.DrawRectangleLine(c.ID(), ref, rect, col, ls)
		})
	}
	switch style {
	case "inset", "outset":
		pts := bevel(r, d, size)
		col = bevelColor(col, d, style == "inset")
		return p.draw(c, part, func(ref glrender.Handle) (glrender.Handle, error) {
			return p.s.FillPolygon(c.ID(), ref, pts, col)
		})
	}
	// double, groove, ridge and none draw nothing
	p.clear(c, part)
	return nil
}

// borderRect returns the rectangle of the border line of the side.
// Left and right lines run between the top and bottom lines.
func borderRect(r image.Rectangle, d styles.Direction, size int) image.Rectangle {
	switch d {
	case styles.Top:
		return image.Rect(r.Min.X, r.Min.Y, r.Max.X, min(r.Min.Y+size, r.Max.Y))
	case styles.Bottom:
		return image.Rect(r.Min.X, max(r.Max.Y-size, r.Min.Y), r.Max.X, r.Max.Y)
	}
	y0, y1 := r.Min.Y+size, r.Max.Y-size
	if y1 <= y0 {
		return image.Rectangle{}
	}
	if d == styles.Left {
		return image.Rect(r.Min.X, y0, min(r.Min.X+size, r.Max.X), y1)
	}
	return image.Rect(max(r.Max.X-size, r.Min.X), y0, r.Max.X, y1)
}

// bevel returns the trapezoid of the side of an inset or outset border,
// clockwise.
func bevel(r image.Rectangle, d styles.Direction, size int) []image.Point {
	size = min(size, r.Dx()/2, r.Dy()/2)
	x0, y0, x1, y1 := r.Min.X, r.Min.Y, r.Max.X, r.Max.Y
	switch d {
	case styles.Top:
		return []image.Point{{x0, y0}, {x1, y0}, {x1 - size, y0 + size}, {x0 + size, y0 + size}}
	case styles.Right:
		return []image.Point{{x1, y0}, {x1, y1}, {x1 - size, y1 - size}, {x1 - size, y0 + size}}
	case styles.Bottom:
		return []image.Point{{x1, y1}, {x0, y1}, {x0 + size, y1 - size}, {x1 - size, y1 - size}}
	}
	return []image.Point{{x0, y1}, {x0, y0}, {x0 + size, y0 + size}, {x0 + size, y1 - size}}
}

// bevelColor returns the color of a side of an inset or outset border:
// inset borders are dark at the top and left, outset borders at the
// bottom and right.
func bevelColor(c color.RGBA, d styles.Direction, inset bool) color.RGBA {
	topLeft := d == styles.Top || d == styles.Left
	if topLeft == inset {
		return styles.Darken(c, 0.5)
	}
	return styles.Lighten(c, 0.25)
}

var aligns = map[string]glrender.Align{
	"start":  glrender.AlignStart,
	"left":   glrender.AlignStart,
	"top":    glrender.AlignStart,
	"center": glrender.AlignCenter,
	"middle": glrender.AlignCenter,
	"end":    glrender.AlignEnd,
	"right":  glrender.AlignEnd,
	"bottom": glrender.AlignEnd,
}

var overflows = map[string]glrender.Overflow{
	"visible":  glrender.OverflowVisible,
	"clip":     glrender.OverflowClip,
	"ellipsis": glrender.OverflowEllipsis,
}

// TextStyle returns the text style of the style values.
func TextStyle(sh *styles.Sheet) glrender.TextStyle {
	st := glrender.TextStyle{
		Font:  fonts.Font{Size: sh.Int("font.size", 0)},
		Color: colorOf(sh, "color"),
		Wrap:  sh.Bool("word.wrap", false),
	}
	if v, ok := sh.Lookup("font.family"); ok {
		st.Font.Name = v.String()
	}
	if sh.Bool("font.bold", false) {
		st.Font.Style |= fonts.Bold
	}
	if sh.Bool("font.italic", false) {
		st.Font.Style |= fonts.Italic
	}
	st.HAlign = aligns[enumOf(sh, "text.align")]
	st.VAlign = aligns[enumOf(sh, "vertical.align")]
	st.Overflow = overflows[enumOf(sh, "text.overflow")]
	return st
}

func (p *Painter) text(c *Control, sh *styles.Sheet, r image.Rectangle) error {
	if c.Text == "" {
		p.clear(c, "text")
		return nil
	}
	inner := r.Inset(sh.Int("padding", 0))
	st := TextStyle(sh)
	return p.draw(c, "text", func(ref glrender.Handle) (glrender.Handle, error) {
		return p.s.DrawTextInRect(c.ID(), ref, c.Text, inner, st)
	})
}

func colorOf(sh *styles.Sheet, key string) color.RGBA {
	v, _ := sh.Lookup(key)
	c, _ := v.Color()
	return c
}

func enumOf(sh *styles.Sheet, key string) string {
	v, _ := sh.Lookup(key)
	e, _ := v.Enum()
	return e
}
