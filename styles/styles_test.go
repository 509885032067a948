// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package styles

import (
	"context"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Value
	}{
		{"true", BoolValue(true)},
		{"12px", IntValue(12)},
		{"-3", IntValue(-3)},
		{"#ff0000", ColorValue(color.RGBA{255, 0, 0, 255})},
		{"Dotted", EnumValue("dotted")},
		{`"Go Mono"`, StringValue("Go Mono")},
		{"1px 2px", SidesValue(IntValue(1), IntValue(2))},
		{"solid none dashed", SidesValue(EnumValue("solid"), EnumValue("none"), EnumValue("dashed"))},
		{"", Value{}},
	}
	for _, test := range tests {
		t.Run(test.in, func(t *testing.T) {
			got := Parse(test.in)
			assert.True(t, test.want.Equal(got), "got %v (%v)", got, got.Kind())
		})
	}
}

func TestConversions(t *testing.T) {
	i, ok := StringValue("8px").Int()
	assert.True(t, ok)
	assert.Equal(t, 8, i)

	b, ok := IntValue(2).Bool()
	assert.True(t, ok)
	assert.True(t, b)

	c, ok := EnumValue("red").Color()
	assert.True(t, ok)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, c)

	c, ok = IntValue(0x00ff00).Color()
	assert.True(t, ok)
	assert.Equal(t, color.RGBA{0, 255, 0, 255}, c)

	_, ok = EnumValue("nonsense").Color()
	assert.False(t, ok)
	_, ok = ColorValue(c).Int()
	assert.False(t, ok)

	s := SidesValue(IntValue(1), IntValue(2), IntValue(3))
	for d, want := range map[Direction]int{Top: 1, Right: 2, Bottom: 3, Left: 2} {
		got, ok := s.Side(d).Int()
		assert.True(t, ok)
		assert.Equal(t, want, got, d.String())
	}
	assert.True(t, IntValue(4).Side(Left).Equal(IntValue(4)))
}

func TestLookupFallback(t *testing.T) {
	sh := NewSheet()
	sh.Set("BorderTop.Size", IntValue(3))
	sh.Set("bordertopcolor", ColorValue(Black))

	v, ok := sh.Lookup("border.top.size")
	require.True(t, ok)
	assert.True(t, v.Equal(IntValue(3)))

	v, ok = sh.Lookup("Border.Top.Color")
	require.True(t, ok)
	assert.True(t, v.Equal(ColorValue(Black)))

	// not set: the default of the key
	v, ok = sh.Lookup("background.color")
	require.True(t, ok)
	assert.True(t, v.Equal(ColorValue(White)))

	_, ok = sh.Find("background.color")
	assert.False(t, ok)
	_, ok = sh.Lookup("no.such.key")
	assert.False(t, ok)

	assert.Equal(t, 3, sh.Int("border.top.size", 0))
	assert.Equal(t, 7, sh.Int("margin", 7))
	assert.False(t, sh.Bool("shadow.visible", true))
}

func TestParseCSS(t *testing.T) {
	rs, err := ParseCSS(`
* { background-color: #202020; }
button {
	border-size: 2px;
	border-line-style: solid dotted;
	border-color: white;
}
#ok, .primary { background-color: blue; }
@media print { button { border-size: 0; } }
`)
	require.NoError(t, err)
	assert.Equal(t, 4, rs.Len())

	sh := rs.Sheet("button", "#ok")
	v, ok := sh.Lookup("background.color")
	require.True(t, ok)
	c, _ := v.Color()
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, c)
	assert.Equal(t, 2, sh.Int("border.size", 0))

	ls, ok := sh.Lookup("border.line.style")
	require.True(t, ok)
	e, _ := ls.Side(Left).Enum()
	assert.Equal(t, "dotted", e)

	v, _ = rs.Sheet("label").Lookup("background.color")
	c, _ = v.Color()
	assert.Equal(t, color.RGBA{0x20, 0x20, 0x20, 255}, c)
	assert.Nil(t, rs.Selector("label"))
}

func TestLightenDarken(t *testing.T) {
	c := color.RGBA{100, 200, 0, 255}
	assert.Equal(t, color.RGBA{50, 100, 0, 255}, Darken(c, 0.5))
	assert.Equal(t, color.RGBA{177, 227, 127, 255}, Lighten(c, 0.5))
	assert.Equal(t, c, Lighten(c, 0))
}

func TestWatch(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "style.css")
	require.NoError(t, os.WriteFile(fn, []byte("button { border-size: 1px; }"), 0o644))

	got := make(chan *Rules, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, Watch(ctx, fn, func(rs *Rules, err error) {
		if err == nil {
			got <- rs
		}
	}))

	rs := <-got
	assert.Equal(t, 1, rs.Sheet("button").Int("border.size", 0))

	require.NoError(t, os.WriteFile(fn, []byte("button { border-size: 5px; }"), 0o644))
	deadline := time.After(5 * time.Second)
	for {
		select {
		case rs = <-got:
			if rs.Sheet("button").Int("border.size", 0) == 5 {
				return
			}
		case <-deadline:
			t.Fatal("no reload after the file changed")
		}
	}
}
