// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := Defaults()
	require.NoError(t, c.Validate())
	assert.Equal(t, 1024, c.Batch.FragmentationThreshold)
	assert.Equal(t, 256, c.Buffers.Initial)
	assert.Equal(t, 0xffff, c.Buffers.DoublingLimit)
	assert.Equal(t, color.RGBA{A: 255}, c.BackgroundColor())
}

func TestReadTOML(t *testing.T) {
	src := `
[window]
title = "demo"
width = 1024

[batch]
fragmentation-threshold = 64

[renderer]
background = "#336699"
rotation = 90
`
	f, err := DecoderFor("x.toml")
	require.NoError(t, err)
	c, err := ReadBytes([]byte(src), f)
	require.NoError(t, err)
	assert.Equal(t, "demo", c.Window.Title)
	assert.Equal(t, 1024, c.Window.Width)
	assert.Equal(t, 600, c.Window.Height)
	assert.Equal(t, 64, c.Batch.FragmentationThreshold)
	assert.Equal(t, 90, c.Renderer.Rotation)
	assert.Equal(t, color.RGBA{0x33, 0x66, 0x99, 0xff}, c.BackgroundColor())
}

func TestOpenYAML(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "glui.yaml")
	src := "fonts:\n  size: 18\n  fallbacks: [Mono, Go]\nlog:\n  level: debug\n"
	require.NoError(t, os.WriteFile(fn, []byte(src), 0o644))
	c, err := Open(fn)
	require.NoError(t, err)
	assert.Equal(t, 18, c.Fonts.Size)
	assert.Equal(t, []string{"Mono", "Go"}, c.Fonts.Fallbacks)
	assert.Equal(t, "debug", c.Log.Level)
}

func TestExpandPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	homedir.DisableCache = true
	defer func() { homedir.DisableCache = false }()

	fn := filepath.Join(home, "glui.toml")
	src := "[fonts]\ndir = \"~/fonts\"\n\n[styles]\nfile = \"/etc/glui.css\"\n"
	require.NoError(t, os.WriteFile(fn, []byte(src), 0o644))
	c, err := Open("~/glui.toml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "fonts"), c.Fonts.Dir)
	assert.Equal(t, "/etc/glui.css", c.Styles.File)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(c *Config)
	}{
		{"threshold", func(c *Config) { c.Batch.FragmentationThreshold = 0 }},
		{"rotation", func(c *Config) { c.Renderer.Rotation = 45 }},
		{"zoom", func(c *Config) { c.Renderer.Zoom = 0 }},
		{"background", func(c *Config) { c.Renderer.Background = "blue" }},
		{"objects", func(c *Config) { c.Renderer.MaxRenderObjects = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Defaults()
			tt.edit(c)
			assert.ErrorIs(t, c.Validate(), ErrInvalid)
		})
	}
}

func TestUnsupported(t *testing.T) {
	_, err := DecoderFor("glui.json")
	assert.Error(t, err)
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#fff")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, c)
	c, err = ParseColor("#01020380")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{1, 2, 3, 0x80}, c)
	_, err = ParseColor("#12")
	assert.ErrorIs(t, err, ErrInvalid)
}
