// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package atlas

import "image"

// shelf is a horizontal strip of the packer as tall as its tallest item.
type shelf struct {
	y, height, x int
}

// Packer places rectangles left to right on shelves, opening a new
// shelf below the last one when no shelf has room.
type Packer struct {
	size    image.Point
	padding int
	shelves []shelf
	used    int
}

// NewPacker returns a new [Packer] for an area of the given size.
func NewPacker(size image.Point, padding int) *Packer {
	return &Packer{size: size, padding: padding}
}

// Pack returns the position of a new rectangle of the given size, and
// false if it does not fit.
func (p *Packer) Pack(sz image.Point) (image.Point, bool) {
	w, h := sz.X+p.padding, sz.Y+p.padding
	if sz.X <= 0 || sz.Y <= 0 || w > p.size.X {
		return image.Point{}, false
	}
	for i := range p.shelves {
		s := &p.shelves[i]
		if s.x+w > p.size.X {
			continue
		}
		if sz.Y > s.height {
			// only the last shelf can grow
			if i != len(p.shelves)-1 || s.y+h > p.size.Y {
				continue
			}
			s.height = sz.Y
		}
		pos := image.Pt(s.x, s.y)
		s.x += w
		p.used += sz.X * sz.Y
		return pos, true
	}
	y := 0
	if n := len(p.shelves); n > 0 {
		last := p.shelves[n-1]
		y = last.y + last.height + p.padding
	}
	if y+h > p.size.Y {
		return image.Point{}, false
	}
	p.shelves = append(p.shelves, shelf{y: y, height: sz.Y, x: w})
	p.used += sz.X * sz.Y
	return image.Pt(0, y), true
}

// Reset removes all rectangles.
func (p *Packer) Reset() {
	p.shelves = p.shelves[:0]
	p.used = 0
}

// Utilization returns the fraction of the area covered by rectangles.
func (p *Packer) Utilization() float64 {
	if p.size.X <= 0 || p.size.Y <= 0 {
		return 0
	}
	return float64(p.used) / float64(p.size.X*p.size.Y)
}
