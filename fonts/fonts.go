// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fonts loads font faces by name, size and style, following a
// chain of fallback names, and rasterizes their glyphs into an atlas.
package fonts

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cogentcore.org/glui/base/errors"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// ErrNotFound is returned when neither a font nor any of its
// fallbacks can be loaded.
var ErrNotFound = errors.New("fonts: not found")

// Style is the bold and italic style of a face.
type Style uint8

const (
	Bold Style = 1 << iota
	Italic
)

// suffix returns the file name suffix of the style.
func (s Style) suffix() string {
	switch s & (Bold | Italic) {
	case Bold:
		return "-Bold"
	case Italic:
		return "-Italic"
	case Bold | Italic:
		return "-BoldItalic"
	}
	return ""
}

func (s Style) String() string {
	if n := strings.TrimPrefix(s.suffix(), "-"); n != "" {
		return n
	}
	return "Regular"
}

// Font describes a face to load.
type Font struct {
	// Name is the font name: a file base name in the font directory, or
	// "Go" for the built in Go fonts.
	Name string

	// Size is the size in pixels.
	Size int

	// Style selects the bold and italic variants.
	Style Style

	// Fallbacks are tried in order when the font cannot be loaded.
	Fallbacks []string
}

// next returns the font with the first fallback as its name.
func (f Font) next() (Font, bool) {
	if len(f.Fallbacks) == 0 {
		return Font{}, false
	}
	return Font{Name: f.Fallbacks[0], Size: f.Size, Style: f.Style, Fallbacks: f.Fallbacks[1:]}, true
}

// GoFont is the name of the built in Go fonts.
const GoFont = "Go"

var goFonts = map[Style][]byte{
	0:             goregular.TTF,
	Bold:          gobold.TTF,
	Italic:        goitalic.TTF,
	Bold | Italic: gobolditalic.TTF,
}

// Manager loads and caches faces by name, size and style.
type Manager struct {
	// Dir is the directory font files are read from.
	Dir string

	// AtlasSize is the size of the glyph atlas of each face.
	AtlasSize image.Point

	faces map[string]map[int]map[Style]*Face

	// missing caches the font variants that failed to load
	missing map[string]map[Style]bool
}

// NewManager returns a new [Manager] reading font files from dir.
func NewManager(dir string) *Manager {
	return &Manager{
		Dir:       dir,
		AtlasSize: image.Pt(512, 512),
		faces:     map[string]map[int]map[Style]*Face{},
		missing:   map[string]map[Style]bool{},
	}
}

// Glyphs returns the face of the font, trying its fallbacks in order.
func (m *Manager) Glyphs(f Font) (*Face, error) {
	if f.Size <= 0 {
		return nil, fmt.Errorf("%w: %s size %d", ErrNotFound, f.Name, f.Size)
	}
	tried := []string{}
	for {
		face, err := m.face(f)
		if err == nil {
			return face, nil
		}
		slog.Debug("fonts: falling back", "font", f.Name, "style", f.Style, "err", err)
		tried = append(tried, f.Name)
		var ok bool
		if f, ok = f.next(); !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, strings.Join(tried, ", "))
		}
	}
}

func (m *Manager) face(f Font) (*Face, error) {
	key := strings.ToLower(f.Name)
	style := f.Style & (Bold | Italic)
	if face := m.faces[key][f.Size][style]; face != nil {
		return face, nil
	}
	if m.missing[key][style] {
		return nil, ErrNotFound
	}
	sf, err := m.load(f.Name, style)
	if err != nil {
		if m.missing[key] == nil {
			m.missing[key] = map[Style]bool{}
		}
		m.missing[key][style] = true
		return nil, err
	}
	face, err := newFace(f.Name, f.Size, style, sf, m.AtlasSize)
	if err != nil {
		return nil, err
	}
	sizes := m.faces[key]
	if sizes == nil {
		sizes = map[int]map[Style]*Face{}
		m.faces[key] = sizes
	}
	if sizes[f.Size] == nil {
		sizes[f.Size] = map[Style]*Face{}
	}
	sizes[f.Size][style] = face
	slog.Info("fonts: loaded", "font", f.Name, "size", f.Size, "style", style)
	return face, nil
}

// load parses the font file of the style.
func (m *Manager) load(name string, style Style) (*sfnt.Font, error) {
	if strings.EqualFold(name, GoFont) {
		return opentype.Parse(goFonts[style])
	}
	if m.Dir == "" {
		return nil, ErrNotFound
	}
	for _, ext := range []string{".ttf", ".otf"} {
		b, err := os.ReadFile(filepath.Join(m.Dir, name+style.suffix()+ext))
		if err != nil {
			continue
		}
		return opentype.Parse(b)
	}
	return nil, fmt.Errorf("%w: %s %s in %s", ErrNotFound, name, style, m.Dir)
}

// Faces returns every loaded face.
func (m *Manager) Faces() []*Face {
	var fs []*Face
	for _, sizes := range m.faces {
		for _, styles := range sizes {
			for _, f := range styles {
				fs = append(fs, f)
			}
		}
	}
	return fs
}
