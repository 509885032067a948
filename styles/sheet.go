// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package styles provides style values looked up by key, parsed from
// CSS style sheets.
package styles

import (
	"maps"
	"strings"
)

// Sheet holds style values by key. Keys are dot separated paths such
// as background.color and are not case sensitive.
type Sheet struct {
	values map[string]Value
}

// NewSheet returns a new empty sheet.
func NewSheet() *Sheet {
	return &Sheet{values: map[string]Value{}}
}

// Defaults are the values of keys no sheet sets.
var Defaults = NewSheet()

func init() {
	Defaults.Set("background.color", ColorValue(White))
	Defaults.Set("border.size", IntValue(0))
	Defaults.Set("border.line.style", EnumValue("none"))
	Defaults.Set("border.color", ColorValue(Black))
	Defaults.Set("shadow.visible", BoolValue(false))
	Defaults.Set("shadow.x.offset", IntValue(0))
	Defaults.Set("shadow.y.offset", IntValue(0))
	Defaults.Set("shadow.blur.radius", IntValue(0))
	Defaults.Set("shadow.spread.radius", IntValue(0))
	Defaults.Set("shadow.inset", BoolValue(false))
	Defaults.Set("shadow.color", ColorValue(Black))
	Defaults.Set("padding", IntValue(0))
	Defaults.Set("color", ColorValue(Black))
	Defaults.Set("text.align", EnumValue("start"))
	Defaults.Set("vertical.align", EnumValue("start"))
	Defaults.Set("text.overflow", EnumValue("visible"))
	Defaults.Set("word.wrap", BoolValue(false))
}

// Set sets the value of the key; an invalid value removes it.
func (s *Sheet) Set(key string, v Value) {
	key = strings.ToLower(key)
	if !v.IsValid() {
		delete(s.values, key)
		return
	}
	s.values[key] = v
}

// Len returns the number of values.
func (s *Sheet) Len() int { return len(s.values) }

// Clone returns a copy of the sheet.
func (s *Sheet) Clone() *Sheet {
	return &Sheet{values: maps.Clone(s.values)}
}

// Merge sets every value of o in s.
func (s *Sheet) Merge(o *Sheet) {
	if o != nil {
		maps.Copy(s.values, o.values)
	}
}

// Find returns the value of the key set in the sheet itself. A key
// a.b.c that is not set falls back to ab.c, then to abc.
func (s *Sheet) Find(key string) (Value, bool) {
	k := strings.ToLower(key)
	for {
		if v, ok := s.values[k]; ok {
			return v, true
		}
		i := strings.IndexByte(k, '.')
		if i < 0 {
			return Value{}, false
		}
		k = k[:i] + k[i+1:]
	}
}

// Lookup returns the value of the key like [Sheet.Find], falling
// back to [Defaults].
func (s *Sheet) Lookup(key string) (Value, bool) {
	if v, ok := s.Find(key); ok {
		return v, true
	}
	if s == Defaults {
		return Value{}, false
	}
	return Defaults.Find(key)
}

// Int returns the value of the key as an int, or def.
func (s *Sheet) Int(key string, def int) int {
	if v, ok := s.Lookup(key); ok {
		if i, ok := v.Int(); ok {
			return i
		}
	}
	return def
}

// Bool returns the value of the key as a bool, or def.
func (s *Sheet) Bool(key string, def bool) bool {
	if v, ok := s.Lookup(key); ok {
		if b, ok := v.Bool(); ok {
			return b
		}
	}
	return def
}
