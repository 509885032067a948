// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package styles

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"cogentcore.org/glui/config"
	"golang.org/x/image/colornames"
)

var (
	White = color.RGBA{255, 255, 255, 255}
	Black = color.RGBA{0, 0, 0, 255}
)

// Kind is the kind of a [Value].
type Kind int32

const (
	Invalid Kind = iota
	Bool
	Int
	String
	Enum
	Color

	// Sides holds one value per [Direction].
	Sides
)

func (k Kind) String() string {
	switch k {
	case Bool:
		return "bool"
	case Int:
		return "int"
	case String:
		return "string"
	case Enum:
		return "enum"
	case Color:
		return "color"
	case Sides:
		return "sides"
	}
	return "invalid"
}

// Direction is a side of a box.
type Direction int32

const (
	Top Direction = iota
	Right
	Bottom
	Left
)

// Directions are all directions in CSS shorthand order.
var Directions = [4]Direction{Top, Right, Bottom, Left}

func (d Direction) String() string {
	switch d {
	case Top:
		return "top"
	case Right:
		return "right"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	}
	return fmt.Sprintf("Direction(%d)", int32(d))
}

// Value is a style value. The zero value is invalid.
type Value struct {
	kind  Kind
	i     int
	s     string
	c     color.RGBA
	sides []Value
}

// BoolValue returns a bool value.
func BoolValue(b bool) Value {
	v := Value{kind: Bool}
	if b {
		v.i = 1
	}
	return v
}

// IntValue returns an int value.
func IntValue(i int) Value { return Value{kind: Int, i: i} }

// StringValue returns a string value.
func StringValue(s string) Value { return Value{kind: String, s: s} }

// EnumValue returns an enum value; enum names are not case sensitive.
func EnumValue(name string) Value { return Value{kind: Enum, s: strings.ToLower(name)} }

// ColorValue returns a color value.
func ColorValue(c color.RGBA) Value { return Value{kind: Color, c: c} }

// SidesValue returns a value per direction, given in CSS shorthand
// order: one value for all sides; top and bottom, then left and right;
// top, left and right, then bottom; or top, right, bottom and left.
func SidesValue(vs ...Value) Value {
	var t, r, b, l Value
	switch len(vs) {
	case 1:
		t, r, b, l = vs[0], vs[0], vs[0], vs[0]
	case 2:
		t, r, b, l = vs[0], vs[1], vs[0], vs[1]
	case 3:
		t, r, b, l = vs[0], vs[1], vs[2], vs[1]
	case 4:
		t, r, b, l = vs[0], vs[1], vs[2], vs[3]
	default:
		return Value{}
	}
	return Value{kind: Sides, sides: []Value{t, r, b, l}}
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether the value is set.
func (v Value) IsValid() bool { return v.kind != Invalid }

// Side returns the value of the direction. Values that are not
// [Sides] apply to all directions.
func (v Value) Side(d Direction) Value {
	if v.kind == Sides && d >= 0 && int(d) < len(v.sides) {
		return v.sides[d]
	}
	return v
}

// Bool converts the value to a bool.
func (v Value) Bool() (bool, bool) {
	switch v.kind {
	case Bool, Int:
		return v.i != 0, true
	case String, Enum:
		b, err := strconv.ParseBool(v.s)
		return b, err == nil
	case Sides:
		return v.sides[Top].Bool()
	}
	return false, false
}

// Int converts the value to an int. Strings may have a px unit.
func (v Value) Int() (int, bool) {
	switch v.kind {
	case Bool, Int:
		return v.i, true
	case String, Enum:
		i, err := strconv.Atoi(strings.TrimSuffix(v.s, "px"))
		return i, err == nil
	case Sides:
		return v.sides[Top].Int()
	}
	return 0, false
}

// Color converts the value to a color. Strings may be hex colors or
// color names; ints are 0xrrggbb.
func (v Value) Color() (color.RGBA, bool) {
	switch v.kind {
	case Color:
		return v.c, true
	case Int:
		return color.RGBA{uint8(v.i >> 16), uint8(v.i >> 8), uint8(v.i), 255}, true
	case String, Enum:
		return parseColor(v.s)
	case Sides:
		return v.sides[Top].Color()
	}
	return color.RGBA{}, false
}

// Enum returns the enum name of the value.
func (v Value) Enum() (string, bool) {
	switch v.kind {
	case Enum, String:
		return strings.ToLower(v.s), true
	case Bool:
		return strconv.FormatBool(v.i != 0), true
	case Sides:
		return v.sides[Top].Enum()
	}
	return "", false
}

func (v Value) String() string {
	switch v.kind {
	case Bool:
		return strconv.FormatBool(v.i != 0)
	case Int:
		return strconv.Itoa(v.i)
	case String, Enum:
		return v.s
	case Color:
		return fmt.Sprintf("#%02x%02x%02x%02x", v.c.R, v.c.G, v.c.B, v.c.A)
	case Sides:
		ss := make([]string, len(v.sides))
		for i, s := range v.sides {
			ss[i] = s.String()
		}
		return strings.Join(ss, " ")
	}
	return ""
}

// Equal reports whether both values are of the same kind and equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind || v.i != o.i || v.s != o.s || v.c != o.c || len(v.sides) != len(o.sides) {
		return false
	}
	for i := range v.sides {
		if !v.sides[i].Equal(o.sides[i]) {
			return false
		}
	}
	return true
}

// Parse parses a CSS property value. Space separated lists of up to
// four values are [Sides].
func Parse(s string) Value {
	if t := strings.TrimSpace(s); strings.HasPrefix(t, "\"") || strings.HasPrefix(t, "'") {
		return parseScalar(t)
	}
	fields := strings.Fields(s)
	switch len(fields) {
	case 0:
		return Value{}
	case 1:
		return parseScalar(fields[0])
	}
	vs := make([]Value, len(fields))
	for i, f := range fields {
		vs[i] = parseScalar(f)
	}
	return SidesValue(vs...)
}

func parseScalar(s string) Value {
	switch {
	case s == "true" || s == "false":
		return BoolValue(s == "true")
	case strings.HasPrefix(s, "#"):
		if c, ok := parseColor(s); ok {
			return ColorValue(c)
		}
	case len(s) > 1 && (s[0] == '"' || s[0] == '\''):
		if u, err := strconv.Unquote("\"" + s[1:len(s)-1] + "\""); err == nil {
			return StringValue(u)
		}
		return StringValue(s[1 : len(s)-1])
	}
	if i, err := strconv.Atoi(strings.TrimSuffix(s, "px")); err == nil {
		return IntValue(i)
	}
	return EnumValue(s)
}

func parseColor(s string) (color.RGBA, bool) {
	if strings.HasPrefix(s, "#") {
		c, err := config.ParseColor(s)
		return c, err == nil
	}
	s = strings.ToLower(s)
	if s == "transparent" {
		return color.RGBA{}, true
	}
	c, ok := colornames.Map[s]
	return c, ok
}

// Lighten moves the color towards white by the factor from 0 to 1.
func Lighten(c color.RGBA, f float32) color.RGBA {
	f = min(max(f, 0), 1)
	l := func(v uint8) uint8 { return uint8(float32(v) + (255-float32(v))*f) }
	return color.RGBA{l(c.R), l(c.G), l(c.B), c.A}
}

// Darken moves the color towards black by the factor from 0 to 1.
func Darken(c color.RGBA, f float32) color.RGBA {
	f = 1 - min(max(f, 0), 1)
	d := func(v uint8) uint8 { return uint8(float32(v) * f) }
	return color.RGBA{d(c.R), d(c.G), d(c.B), c.A}
}
