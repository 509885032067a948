// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"image"
	"image/color"
	"testing"

	"cogentcore.org/glui/observe"
	"cogentcore.org/glui/styles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(t *Tree) []string {
	var ns []string
	t.Walk(func(c *Control) bool {
		ns = append(ns, c.Name)
		if c.Name == "skip" {
			return Break
		}
		return Continue
	})
	return ns
}

func TestTree(t *testing.T) {
	tr := New()
	root := tr.Add(NoID, "panel")
	root.Name = "root"
	a := tr.Add(root.ID(), "button")
	a.Name = "a"
	b := tr.Add(root.ID(), "panel")
	b.Name = "skip"
	tr.Add(b.ID(), "label").Name = "b1"
	a1 := tr.Add(a.ID(), "label")
	a1.Name = "a1"

	assert.Equal(t, 5, tr.Len())
	assert.Equal(t, []ID{root.ID()}, tr.Roots())
	assert.Equal(t, []string{"root", "a", "a1", "skip"}, names(tr))
	assert.Equal(t, root.ID(), a.Parent())
	assert.Equal(t, NoID, root.Parent())

	v := observe.NewValue(0)
	Bind(a1, v)
	assert.Equal(t, 1, v.Listeners())

	tr.Remove(a.ID())
	assert.Equal(t, 3, tr.Len())
	assert.True(t, a.Removed())
	assert.True(t, a1.Removed())
	assert.Nil(t, tr.Control(a.ID()))
	assert.Equal(t, 0, v.Listeners())
	assert.Equal(t, []string{"root", "skip"}, names(tr))

	// removed IDs are reused
	c := tr.Add(root.ID(), "button")
	assert.Contains(t, []ID{a.ID(), a1.ID()}, c.ID())
	assert.Equal(t, []ID{b.ID(), c.ID()}, root.Children())

	assert.Panics(t, func() { tr.Add(ID(99), "label") })
}

func TestInvalidate(t *testing.T) {
	tr := New()
	root := tr.Add(NoID, "panel")
	child := tr.Add(root.ID(), "label")
	assert.True(t, child.NeedsRedraw())

	root.resetInvalidation()
	assert.False(t, tr.NeedsRedraw())

	root.Invalidate()
	assert.True(t, child.NeedsRedraw())
	root.resetInvalidation()

	// a child does not invalidate its parent
	child.SetRect(image.Rect(0, 0, 5, 5))
	assert.True(t, child.NeedsRedraw())
	assert.False(t, root.NeedsRedraw())
	root.resetInvalidation()

	child.SetRect(image.Rect(0, 0, 5, 5))
	assert.False(t, tr.NeedsRedraw())

	text := observe.NewValue("a")
	BindText(child, text)
	assert.Equal(t, "a", child.Text)
	root.resetInvalidation()
	text.Set("b")
	assert.Equal(t, "b", child.Text)
	assert.True(t, child.NeedsRedraw())
}

func TestStyle(t *testing.T) {
	rs, err := styles.ParseCSS(`
* { border-size: 1px; }
button { background-color: red; }
.primary { background-color: blue; }
#ok { border-size: 3px; }
`)
	require.NoError(t, err)
	tr := New()
	c := tr.Add(NoID, "button")
	c.Classes = []string{"primary"}
	c.Name = "ok"
	assert.Equal(t, []string{"button", ".primary", "#ok"}, c.Selectors())

	tr.SetRules(rs)
	sh := tr.Style(c)
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, colorOf(sh, "background.color"))
	assert.Equal(t, 3, sh.Int("border.size", 0))

	c.Style = styles.NewSheet()
	c.Style.Set("border.size", styles.IntValue(5))
	assert.Equal(t, 5, tr.Style(c).Int("border.size", 0))
	// the rules are not changed
	assert.Equal(t, 3, rs.Selector("#ok").Int("border.size", 0))
}
