// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"image"

	"cogentcore.org/glui/observe"
	"cogentcore.org/glui/tree"
)

const defaultCSS = `
* { color: white; padding: 6px; }
panel { background-color: #202428; }
button {
	background-color: #3060c0;
	border-size: 2px;
	border-line-style: outset;
	border-color: #3060c0;
	text-align: center;
	vertical-align: middle;
}
label { background-color: transparent; text-overflow: ellipsis; }
.card {
	background-color: #f0f0f0;
	color: black;
	border-size: 1px;
	border-line-style: dashed;
	border-color: #808080;
	shadow-visible: true;
	shadow-x-offset: 4px;
	shadow-y-offset: 4px;
	shadow-blur-radius: 8px;
	shadow-color: #00000080;
	word-wrap: true;
}
#clock { border-size: 1px; border-line-style: dotted; border-color: #ffcc00; }
`

type ui struct {
	tree    *tree.Tree
	root    *tree.Control
	ok      *tree.Control
	cancel  *tree.Control
	card    *tree.Control
	clock   *tree.Control
	seconds *observe.Value[int]
	text    *observe.Value[string]
}

func newUI() *ui {
	u := &ui{
		tree:    tree.New(),
		seconds: observe.NewValue(0),
		text:    observe.NewValue("0 s"),
	}
	u.root = u.tree.Add(tree.NoID, "panel")
	u.card = u.tree.Add(u.root.ID(), "panel")
	u.card.Classes = []string{"card"}
	u.card.Text = "Render objects keep their buffer slots across frames; " +
		"only controls that change update their vertices."
	u.ok = u.tree.Add(u.root.ID(), "button")
	u.ok.Name = "ok"
	u.ok.Text = "OK"
	u.cancel = u.tree.Add(u.root.ID(), "button")
	u.cancel.Text = "Cancel"
	u.clock = u.tree.Add(u.root.ID(), "label")
	u.clock.Name = "clock"
	tree.BindText(u.clock, u.text)
	u.seconds.Subscribe(func(_, cur int) {
		u.text.Set(fmt.Sprintf("%d s", cur))
	})
	return u
}

// layout places the controls in a window of the size.
func (u *ui) layout(width, height int) {
	u.root.SetRect(image.Rect(0, 0, width, height))
	u.card.SetRect(image.Rect(24, 24, max(width-24, 48), max(height-80, 48)))
	y := max(height-56, 0)
	u.ok.SetRect(image.Rect(max(width-248, 0), y, max(width-144, 0), y+32))
	u.cancel.SetRect(image.Rect(max(width-128, 0), y, max(width-24, 0), y+32))
	u.clock.SetRect(image.Rect(24, y, 160, y+32))
}
