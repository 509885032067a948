// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package atlas provides a texture atlas: images packed into one
// texture that sprites sample with pixel offsets.
package atlas

import (
	"fmt"
	"image"
	"log/slog"
	"sync/atomic"

	"cogentcore.org/glui/base/errors"
	"cogentcore.org/glui/gpu"
	"golang.org/x/image/draw"
)

// ErrFull is returned when an image does not fit in the atlas.
var ErrFull = errors.New("atlas: full")

var lastID atomic.Int64

// Atlas is a mutable RGBA texture that images are added to. Images are
// uploaded to the device the next time the atlas is bound.
type Atlas struct {
	id     int
	name   string
	img    *image.RGBA
	packer *Packer
	keys   map[string]image.Rectangle

	tex   gpu.Handle
	dirty bool
}

// New returns a new empty [Atlas] of the given size.
func New(name string, size image.Point) *Atlas {
	return &Atlas{
		id:     int(lastID.Add(1)),
		name:   name,
		img:    image.NewRGBA(image.Rectangle{Max: size}),
		packer: NewPacker(size, 1),
		keys:   map[string]image.Rectangle{},
		dirty:  true,
	}
}

func (a *Atlas) String() string {
	return fmt.Sprintf("atlas %s#%d %v", a.name, a.id, a.img.Rect.Size())
}

// TextureID returns the unique id of the atlas.
func (a *Atlas) TextureID() int { return a.id }

// Size returns the size of the atlas texture.
func (a *Atlas) Size() image.Point { return a.img.Rect.Size() }

// Image returns the CPU copy of the atlas.
func (a *Atlas) Image() *image.RGBA { return a.img }

// Lookup returns the rectangle of the image added with the key.
func (a *Atlas) Lookup(key string) (image.Rectangle, bool) {
	r, ok := a.keys[key]
	return r, ok
}

// Add copies img into the atlas under the key and returns its rectangle.
// Adding a key again returns the rectangle of the first image.
func (a *Atlas) Add(key string, img image.Image) (image.Rectangle, error) {
	if r, ok := a.keys[key]; ok {
		return r, nil
	}
	sz := img.Bounds().Size()
	pos, ok := a.packer.Pack(sz)
	if !ok {
		return image.Rectangle{}, fmt.Errorf("%w: %s: no room for %v", ErrFull, a.name, sz)
	}
	r := image.Rectangle{Min: pos, Max: pos.Add(sz)}
	draw.Draw(a.img, r, img, img.Bounds().Min, draw.Src)
	a.keys[key] = r
	a.dirty = true
	return r, nil
}

// Bind uploads the atlas if it changed and binds it to the texture unit.
func (a *Atlas) Bind(dev gpu.Device, unit int) {
	if a.tex == 0 {
		a.tex = dev.CreateTexture()
	}
	if a.dirty {
		dev.TextureImage(a.tex, a.img)
		a.dirty = false
		slog.Debug("atlas: uploaded", "atlas", a.String(), "used", a.packer.Utilization())
	}
	dev.BindTexture(unit, a.tex)
}

// Release deletes the device texture.
func (a *Atlas) Release(dev gpu.Device) {
	if a.tex != 0 {
		dev.DeleteTexture(a.tex)
		a.tex = 0
		a.dirty = true
	}
}
