// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package glrender

import (
	"image"
	"image/color"
	"strings"

	"cogentcore.org/glui/fonts"
)

// Align is the alignment of text within its rectangle.
type Align int32

const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
)

// offset returns the offset of content of the given size in space.
func (a Align) offset(space, size int) int {
	switch a {
	case AlignCenter:
		return (space - size) / 2
	case AlignEnd:
		return space - size
	}
	return 0
}

// Overflow is what happens to text that does not fit its rectangle.
type Overflow int32

const (
	// OverflowVisible draws the text outside of the rectangle.
	OverflowVisible Overflow = iota

	// OverflowClip cuts the text at the rectangle.
	OverflowClip

	// OverflowEllipsis clips and ends lines that do not fit with an
	// ellipsis.
	OverflowEllipsis
)

// TextStyle is the style of drawn text.
type TextStyle struct {

	// Font is the font; a zero name or size uses the font of the renderer.
	Font fonts.Font

	Color color.RGBA

	HAlign, VAlign Align

	// Wrap breaks lines between words to fit the rectangle width.
	Wrap bool

	Overflow Overflow
}

func (r *Renderer) face(f fonts.Font) (*fonts.Face, error) {
	if f.Name == "" {
		f.Name, f.Fallbacks = r.Font.Name, r.Font.Fallbacks
	}
	if f.Size == 0 {
		f.Size = r.Font.Size
	}
	return r.fonts.Glyphs(f)
}

// DrawText draws the text with the top left corner of its first line
// at the point. Newlines start new lines.
func (r *Renderer) DrawText(prev Handle, text string, at image.Point, style TextStyle) (Handle, error) {
	if text == "" || style.Color.A == 0 {
		return r.denied(prev)
	}
	face, err := r.face(style.Font)
	if err != nil {
		r.replacing = NoHandle
		return NoHandle, err
	}
	var parts []part
	for i, line := range strings.Split(text, "\n") {
		parts = glyphParts(parts, face, line, at.Add(image.Pt(0, i*face.LineHeight)), style.Color, nil)
	}
	return r.draw(prev, parts)
}

// DrawTextInRect draws the text aligned in the rectangle, wrapped and
// clipped as the style says.
func (r *Renderer) DrawTextInRect(prev Handle, text string, rect image.Rectangle, style TextStyle) (Handle, error) {
	if text == "" || style.Color.A == 0 || rect.Empty() {
		return r.denied(prev)
	}
	face, err := r.face(style.Font)
	if err != nil {
		r.replacing = NoHandle
		return NoHandle, err
	}
	lines := layout(face, text, rect.Size(), style)
	var clip *image.Rectangle
	if style.Overflow != OverflowVisible {
		clip = &rect
	}
	y := rect.Min.Y + style.VAlign.offset(rect.Dy(), len(lines)*face.LineHeight)
	var parts []part
	for _, line := range lines {
		x := rect.Min.X + style.HAlign.offset(rect.Dx(), face.Measure(line))
		parts = glyphParts(parts, face, line, image.Pt(x, y), style.Color, clip)
		y += face.LineHeight
	}
	return r.draw(prev, parts)
}

// layout splits the text into the lines drawn in a rectangle of the
// given size.
func layout(face *fonts.Face, text string, size image.Point, style TextStyle) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		if !style.Wrap {
			lines = append(lines, para)
			continue
		}
		lines = append(lines, wrap(face, para, size.X)...)
	}
	if style.Overflow != OverflowEllipsis {
		return lines
	}
	dropped := false
	if fit := max(size.Y/max(face.LineHeight, 1), 1); len(lines) > fit {
		lines, dropped = lines[:fit], true
	}
	for i, line := range lines {
		last := dropped && i == len(lines)-1
		if last || face.Measure(line) > size.X {
			lines[i] = ellipsize(face, line, size.X)
		}
	}
	return lines
}

// wrap breaks the paragraph between words into lines no wider than
// width. Words wider than width get a line of their own.
func wrap(face *fonts.Face, para string, width int) []string {
	words := strings.Fields(para)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	cur := words[0]
	for _, w := range words[1:] {
		next := cur + " " + w
		if face.Measure(next) > width {
			lines = append(lines, cur)
			cur = w
			continue
		}
		cur = next
	}
	return append(lines, cur)
}

// ellipsize shortens the line until it fits width with an ellipsis.
func ellipsize(face *fonts.Face, line string, width int) string {
	dots := "…"
	if _, ok := face.Glyph('…'); !ok {
		dots = "..."
	}
	rs := []rune(strings.TrimRight(line, " "))
	for len(rs) > 0 && face.Measure(string(rs)+dots) > width {
		rs = rs[:len(rs)-1]
	}
	return strings.TrimRight(string(rs), " ") + dots
}

// glyphParts appends a sprite for each glyph of the line with the top
// left corner at origin. Glyphs outside of clip are left out.
func glyphParts(parts []part, face *fonts.Face, line string, origin image.Point, c color.RGBA, clip *image.Rectangle) []part {
	pen, base := origin.X, origin.Y+face.Ascent
	prev := rune(-1)
	for _, ch := range line {
		g, ok := face.Glyph(ch)
		if !ok {
			continue
		}
		if prev >= 0 {
			pen += face.Kern(prev, ch)
		}
		prev = ch
		if !g.Rect.Empty() {
			min := image.Pt(pen+g.BearingX, base-g.BearingY)
			dst := image.Rectangle{Min: min, Max: min.Add(g.Size())}
			if clip == nil || dst.Overlaps(*clip) {
				parts = append(parts, spritePart(dst, face.Atlas(), g.Rect, c, true, clip))
			}
		}
		pen += g.Advance
	}
	return parts
}
