// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fonts

import (
	"fmt"
	"image"
	"log/slog"

	"cogentcore.org/glui/atlas"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Glyph is a rasterized glyph. Its image is white with the coverage in
// alpha, to be tinted by the sprite color.
type Glyph struct {
	Rune rune

	// Rect is the rectangle of the glyph in the atlas; it is empty for
	// glyphs without pixels such as spaces.
	Rect image.Rectangle

	// BearingX is the offset from the pen position to the left of the
	// image, and BearingY from the baseline up to its top.
	BearingX, BearingY int

	// Advance is the horizontal pen advance.
	Advance int
}

// Size returns the size of the glyph image.
func (g *Glyph) Size() image.Point {
	return g.Rect.Size()
}

// Face is a font face at one size and style, with the glyphs
// rasterized so far.
type Face struct {
	Name  string
	Size  int
	Style Style

	// LineHeight is the distance between two baselines, Ascent the
	// distance from the top of a line to its baseline.
	LineHeight, Ascent, Descent int

	font   *sfnt.Font
	buf    sfnt.Buffer
	face   font.Face
	atlas  *atlas.Atlas
	glyphs map[rune]*Glyph
}

func newFace(name string, size int, style Style, f *sfnt.Font, atlasSize image.Point) (*Face, error) {
	ff, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("fonts: %s: %w", name, err)
	}
	m := ff.Metrics()
	return &Face{
		Name:       name,
		Size:       size,
		Style:      style,
		LineHeight: m.Height.Ceil(),
		Ascent:     m.Ascent.Ceil(),
		Descent:    m.Descent.Ceil(),
		font:       f,
		face:       ff,
		atlas:      atlas.New(fmt.Sprintf("%s-%d%s", name, size, style.suffix()), atlasSize),
		glyphs:     map[rune]*Glyph{},
	}, nil
}

func (f *Face) String() string {
	return fmt.Sprintf("%s %d %s", f.Name, f.Size, f.Style)
}

// Atlas returns the texture holding the glyph images.
func (f *Face) Atlas() *atlas.Atlas {
	return f.atlas
}

// Glyph returns the glyph of the rune, rasterizing it on first use.
// It returns false for runes the font has no glyph for.
func (f *Face) Glyph(r rune) (*Glyph, bool) {
	if g, ok := f.glyphs[r]; ok {
		return g, g != nil
	}
	g := f.rasterize(r)
	f.glyphs[r] = g
	return g, g != nil
}

func (f *Face) rasterize(r rune) *Glyph {
	if idx, err := f.font.GlyphIndex(&f.buf, r); err != nil || idx == 0 {
		return nil
	}
	dr, mask, mp, adv, ok := f.face.Glyph(fixed.P(0, 0), r)
	if !ok {
		return nil
	}
	g := &Glyph{Rune: r, Advance: adv.Round(), BearingX: dr.Min.X, BearingY: -dr.Min.Y}
	if dr.Empty() {
		return g
	}
	img := image.NewRGBA(image.Rectangle{Max: dr.Size()})
	draw.DrawMask(img, img.Rect, image.White, image.Point{}, mask, mp, draw.Over)
	rect, err := f.atlas.Add(string(r), img)
	if err != nil {
		slog.Warn("fonts: glyph dropped", "face", f.String(), "rune", string(r), "err", err)
		return g
	}
	g.Rect = rect
	return g
}

// Measure returns the advance of the text. Missing glyphs have no
// advance.
func (f *Face) Measure(s string) int {
	w := 0
	prev := rune(-1)
	for _, r := range s {
		g, ok := f.Glyph(r)
		if !ok {
			continue
		}
		if prev >= 0 {
			w += f.face.Kern(prev, r).Round()
		}
		w += g.Advance
		prev = r
	}
	return w
}

// Kern returns the kerning between two runes.
func (f *Face) Kern(a, b rune) int {
	return f.face.Kern(a, b).Round()
}
