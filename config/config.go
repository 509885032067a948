// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config contains the configuration
// structs for the renderer and the demo application.
package config

import (
	"fmt"
	"image/color"
	"math"

	"cogentcore.org/glui/base/errors"
)

// ErrInvalid is returned by [Config.Validate] for out of range settings.
var ErrInvalid = errors.New("config: invalid setting")

// Config is the main config struct
// that contains all of the configuration
// options for a renderer instance
type Config struct {

	// the window options
	Window Window `toml:"window" yaml:"window" desc:"the window options"`

	// the attribute buffer growth policy
	Buffers Buffers `toml:"buffers" yaml:"buffers" desc:"the attribute buffer growth policy"`

	// the slot allocation and defragmentation policy
	Batch Batch `toml:"batch" yaml:"batch" desc:"the slot allocation and defragmentation policy"`

	// the renderer options
	Renderer Renderer `toml:"renderer" yaml:"renderer" desc:"the renderer options"`

	// the font options
	Fonts Fonts `toml:"fonts" yaml:"fonts" desc:"the font options"`

	// the style sheet options
	Styles Styles `toml:"styles" yaml:"styles" desc:"the style sheet options"`

	// the logging options
	Log Log `toml:"log" yaml:"log" desc:"the logging options"`
}

type Window struct {

	// [def: glui] the window title
	Title string `toml:"title" yaml:"title" def:"glui" desc:"the window title"`

	// [def: 800] the initial window width in pixels
	Width int `toml:"width" yaml:"width" def:"800" desc:"the initial window width in pixels"`

	// [def: 600] the initial window height in pixels
	Height int `toml:"height" yaml:"height" def:"600" desc:"the initial window height in pixels"`

	// whether to synchronize buffer swaps with the display refresh
	VSync bool `toml:"vsync" yaml:"vsync" desc:"whether to synchronize buffer swaps with the display refresh"`
}

type Buffers struct {

	// [def: 256] the initial number of elements of an attribute buffer
	Initial int `toml:"initial" yaml:"initial" def:"256" desc:"the initial number of elements of an attribute buffer"`

	// [def: 65535] buffers double in size until they reach this number of elements
	DoublingLimit int `toml:"doubling-limit" yaml:"doubling-limit" def:"65535" desc:"buffers double in size until they reach this number of elements"`

	// [def: 1024] the number of elements added on each growth past the doubling limit
	Increment int `toml:"increment" yaml:"increment" def:"1024" desc:"the number of elements added on each growth past the doubling limit"`
}

type Batch struct {

	// [def: 1024] the number of fragmented vertices that triggers a defragmentation
	FragmentationThreshold int `toml:"fragmentation-threshold" yaml:"fragmentation-threshold" def:"1024" desc:"the number of fragmented vertices that triggers a defragmentation"`

	// [def: 2147483647] the maximum number of vertices of a single draw target
	MaxVertices int `toml:"max-vertices" yaml:"max-vertices" def:"2147483647" desc:"the maximum number of vertices of a single draw target"`
}

type Renderer struct {

	// [def: 2147483647] the maximum number of live render objects
	MaxRenderObjects int `toml:"max-render-objects" yaml:"max-render-objects" def:"2147483647" desc:"the maximum number of live render objects"`

	// [def: #000000] the background color as #rrggbb or #rrggbbaa
	Background string `toml:"background" yaml:"background" def:"#000000" desc:"the background color as #rrggbb or #rrggbbaa"`

	// [def: 0] the screen rotation in degrees (0, 90, 180 or 270)
	Rotation int `toml:"rotation" yaml:"rotation" def:"0" desc:"the screen rotation in degrees (0, 90, 180 or 270)"`

	// [def: 1] the zoom factor applied to the model view
	Zoom float32 `toml:"zoom" yaml:"zoom" def:"1" desc:"the zoom factor applied to the model view"`

	// [def: 330 core] the GLSL version directive used for the shaders
	GLSLVersion string `toml:"glsl-version" yaml:"glsl-version" def:"330 core" desc:"the GLSL version directive used for the shaders"`
}

type Fonts struct {

	// the directory searched for font files; the built in Go fonts are always available
	Dir string `toml:"dir" yaml:"dir" desc:"the directory searched for font files; the built in Go fonts are always available"`

	// [def: Go] the default font name
	Default string `toml:"default" yaml:"default" def:"Go" desc:"the default font name"`

	// [def: 14] the default font size in pixels
	Size int `toml:"size" yaml:"size" def:"14" desc:"the default font size in pixels"`

	// [def: [Go]] the font names tried in order when a font can not be loaded
	Fallbacks []string `toml:"fallbacks" yaml:"fallbacks" def:"[Go]" desc:"the font names tried in order when a font can not be loaded"`
}

type Styles struct {

	// the CSS style sheet file
	File string `toml:"file" yaml:"file" desc:"the CSS style sheet file"`

	// whether to reload the style sheet when the file changes
	Watch bool `toml:"watch" yaml:"watch" desc:"whether to reload the style sheet when the file changes"`
}

type Log struct {

	// [def: warn] the log level (debug, info, warn or error)
	Level string `toml:"level" yaml:"level" def:"warn" desc:"the log level (debug, info, warn or error)"`
}

// Defaults returns a [Config] with every field set to its default value.
func Defaults() *Config {
	return &Config{
		Window: Window{Title: "glui", Width: 800, Height: 600},
		Buffers: Buffers{
			Initial:       256,
			DoublingLimit: 0xffff,
			Increment:     1024,
		},
		Batch: Batch{
			FragmentationThreshold: 1024,
			MaxVertices:            math.MaxInt32,
		},
		Renderer: Renderer{
			MaxRenderObjects: math.MaxInt32,
			Background:       "#000000",
			Zoom:             1,
			GLSLVersion:      "330 core",
		},
		Fonts: Fonts{Default: "Go", Size: 14, Fallbacks: []string{"Go"}},
		Log:   Log{Level: "warn"},
	}
}

// Validate returns an error wrapping [ErrInvalid] for the first
// setting that is out of range.
func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Buffers.Initial <= 0:
		return fmt.Errorf("%w: buffers.initial %d", ErrInvalid, c.Buffers.Initial)
	case c.Buffers.Increment <= 0:
		return fmt.Errorf("%w: buffers.increment %d", ErrInvalid, c.Buffers.Increment)
	case c.Batch.FragmentationThreshold <= 0:
		return fmt.Errorf("%w: batch.fragmentation-threshold %d", ErrInvalid, c.Batch.FragmentationThreshold)
	case c.Batch.MaxVertices <= 0:
		return fmt.Errorf("%w: batch.max-vertices %d", ErrInvalid, c.Batch.MaxVertices)
	case c.Renderer.MaxRenderObjects <= 0:
		return fmt.Errorf("%w: renderer.max-render-objects %d", ErrInvalid, c.Renderer.MaxRenderObjects)
	case c.Renderer.Zoom <= 0:
		return fmt.Errorf("%w: renderer.zoom %g", ErrInvalid, c.Renderer.Zoom)
	case c.Fonts.Size <= 0:
		return fmt.Errorf("%w: fonts.size %d", ErrInvalid, c.Fonts.Size)
	}
	switch c.Renderer.Rotation {
	case 0, 90, 180, 270:
	default:
		return fmt.Errorf("%w: renderer.rotation %d", ErrInvalid, c.Renderer.Rotation)
	}
	if _, err := ParseColor(c.Renderer.Background); err != nil {
		return err
	}
	return nil
}

// BackgroundColor returns the parsed background color, or black if
// it can not be parsed.
func (c *Config) BackgroundColor() color.RGBA {
	col, err := ParseColor(c.Renderer.Background)
	if err != nil {
		return color.RGBA{A: 255}
	}
	return col
}

// ParseColor parses a #rgb, #rrggbb or #rrggbbaa hex color.
func ParseColor(s string) (color.RGBA, error) {
	c := color.RGBA{A: 255}
	if len(s) == 0 || s[0] != '#' {
		return c, fmt.Errorf("%w: color %q must start with #", ErrInvalid, s)
	}
	hex := s[1:]
	var n int
	var err error
	switch len(hex) {
	case 3:
		n, err = fmt.Sscanf(hex, "%1x%1x%1x", &c.R, &c.G, &c.B)
		c.R *= 17
		c.G *= 17
		c.B *= 17
		n++
	case 6:
		n, err = fmt.Sscanf(hex, "%02x%02x%02x", &c.R, &c.G, &c.B)
		n++
	case 8:
		n, err = fmt.Sscanf(hex, "%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A)
	default:
		return c, fmt.Errorf("%w: color %q has %d hex digits", ErrInvalid, s, len(hex))
	}
	if err != nil || n != 4 {
		return c, fmt.Errorf("%w: color %q: %v", ErrInvalid, s, err)
	}
	return c, nil
}
