// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fonts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gomono"
)

func TestGoFont(t *testing.T) {
	m := NewManager("")
	f, err := m.Glyphs(Font{Name: "go", Size: 16})
	require.NoError(t, err)
	assert.Equal(t, 16, f.Size)
	assert.Positive(t, f.LineHeight)
	assert.Positive(t, f.Ascent)

	again, err := m.Glyphs(Font{Name: GoFont, Size: 16})
	require.NoError(t, err)
	assert.Same(t, f, again)

	bold, err := m.Glyphs(Font{Name: GoFont, Size: 16, Style: Bold})
	require.NoError(t, err)
	assert.NotSame(t, f, bold)
	assert.Len(t, m.Faces(), 2)
}

func TestFallback(t *testing.T) {
	m := NewManager(t.TempDir())
	f, err := m.Glyphs(Font{Name: "Missing", Size: 12, Fallbacks: []string{"AlsoMissing", GoFont}})
	require.NoError(t, err)
	assert.Equal(t, GoFont, f.Name)

	_, err = m.Glyphs(Font{Name: "Missing", Size: 12, Fallbacks: []string{"AlsoMissing"}})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "AlsoMissing")

	_, err = m.Glyphs(Font{Name: GoFont})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFontDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Mono.ttf"), gomono.TTF, 0o644))
	m := NewManager(dir)
	f, err := m.Glyphs(Font{Name: "Mono", Size: 10})
	require.NoError(t, err)
	// a monospace font
	assert.Equal(t, f.Measure("iii"), f.Measure("MMM"))

	// no bold file
	_, err = m.Glyphs(Font{Name: "Mono", Size: 10, Style: Bold})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGlyph(t *testing.T) {
	m := NewManager("")
	f, err := m.Glyphs(Font{Name: GoFont, Size: 20})
	require.NoError(t, err)

	a, ok := f.Glyph('A')
	require.True(t, ok)
	assert.Positive(t, a.Advance)
	assert.False(t, a.Rect.Empty())
	assert.Positive(t, a.BearingY)
	r, ok := f.Atlas().Lookup("A")
	require.True(t, ok)
	assert.Equal(t, a.Rect, r)

	sp, ok := f.Glyph(' ')
	require.True(t, ok)
	assert.Positive(t, sp.Advance)
	assert.True(t, sp.Rect.Empty())

	_, ok = f.Glyph('\U0001F600')
	assert.False(t, ok)
	assert.Equal(t, f.Measure("AA"), f.Measure("A\U0001F600A"))
}
