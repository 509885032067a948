// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Decoder is an interface for standard decoder types
type Decoder interface {
	// Decode decodes from io.Reader specified at creation
	Decode(v any) error
}

// DecoderFunc is a function that creates a new Decoder for given reader
type DecoderFunc func(r io.Reader) Decoder

// NewDecoderFunc returns a DecoderFunc for a specific Decoder type
func NewDecoderFunc[T Decoder](f func(r io.Reader) T) DecoderFunc {
	return func(r io.Reader) Decoder { return f(r) }
}

// DecoderFor returns the [DecoderFunc] for the format implied by the
// extension of the given filename: .toml, .yaml or .yml.
func DecoderFor(filename string) (DecoderFunc, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".toml":
		return NewDecoderFunc(toml.NewDecoder), nil
	case ".yaml", ".yml":
		return NewDecoderFunc(yaml.NewDecoder), nil
	}
	return nil, fmt.Errorf("config: unsupported file type %q", filename)
}

// Open reads a [Config] from the given file on top of [Defaults],
// choosing the decoder from the file extension, and validates it.
// A leading ~ in the file name is the home directory.
func Open(filename string) (*Config, error) {
	f, err := DecoderFor(filename)
	if err != nil {
		return nil, err
	}
	filename, err = homedir.Expand(filename)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	fp, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return Read(bufio.NewReader(fp), f)
}

// Read reads a [Config] from the given reader on top of [Defaults]
// using the given [DecoderFunc], expands its paths and validates it.
func Read(r io.Reader, f DecoderFunc) (*Config, error) {
	c := Defaults()
	if err := f(r).Decode(c); err != nil && err != io.EOF {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := c.ExpandPaths(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// ReadBytes reads a [Config] from the given bytes using the given [DecoderFunc].
func ReadBytes(data []byte, f DecoderFunc) (*Config, error) {
	return Read(bytes.NewReader(data), f)
}

// ExpandPaths replaces a leading ~ in the font directory and the style
// sheet file with the home directory.
func (c *Config) ExpandPaths() error {
	for _, p := range []*string{&c.Fonts.Dir, &c.Styles.File} {
		e, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		*p = e
	}
	return nil
}
