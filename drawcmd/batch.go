// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package drawcmd provides draw commands and the [Batch] that assigns
// them vertex slots in per shader, transparency and texture vertex
// arrays, writes their attributes and draws every vertex array with a
// single indexed triangle fan draw.
package drawcmd

import (
	"cmp"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"slices"

	"cogentcore.org/glui/glbuf"
	"cogentcore.org/glui/gpu"
	"cogentcore.org/glui/math32"
	"cogentcore.org/glui/shaders"
	"cogentcore.org/glui/vao"
	"github.com/google/btree"
)

// key identifies the target of a command.
type key struct {
	shader      *shaders.Shader
	transparent bool
	texture     Texture
}

// target is the vertex array of one key with the ordering state of
// its commands.
type target struct {
	key     key
	created int
	vao     *vao.VAO

	// transparent holds the transparent commands back to front.
	transparent *btree.BTreeG[*Command]

	// opaque holds the opaque commands.
	opaque map[*Command]struct{}

	// dirty is set when the index buffer must be rebuilt.
	dirty bool
}

// backToFront orders by descending depth, then by slot offset.
func backToFront(a, b *Command) bool {
	if a.sortZ != b.sortZ {
		return a.sortZ > b.sortZ
	}
	return a.sortOffset < b.sortOffset
}

func (t *target) insert(c *Command) {
	if c.transparent {
		c.sortZ, c.sortOffset = c.Z, c.slot.Offset
		t.transparent.ReplaceOrInsert(c)
		t.dirty = true
		return
	}
	t.opaque[c] = struct{}{}
	if !t.dirty {
		t.vao.Indexes().AddPrimitive(c.slot.Size, c.slot.Offset)
	}
}

func (t *target) drop(c *Command) {
	if c.transparent {
		t.transparent.Delete(c)
	} else {
		delete(t.opaque, c)
	}
	t.dirty = true
}

// resort rebuilds the transparency set after slot offsets changed.
func (t *target) resort() {
	items := make([]*Command, 0, t.transparent.Len())
	t.transparent.Ascend(func(c *Command) bool {
		items = append(items, c)
		return true
	})
	t.transparent.Clear(false)
	for _, c := range items {
		c.sortOffset = c.slot.Offset
		t.transparent.ReplaceOrInsert(c)
	}
	t.dirty = true
}

// rebuild rewrites the index buffer if it is dirty: back to front for
// transparent targets and by slot offset for opaque ones.
func (t *target) rebuild() {
	if !t.dirty {
		return
	}
	ib := t.vao.Indexes()
	ib.Clear()
	if t.key.transparent {
		t.transparent.Ascend(func(c *Command) bool {
			ib.AddPrimitive(c.slot.Size, c.slot.Offset)
			return true
		})
	} else {
		cs := make([]*Command, 0, len(t.opaque))
		for c := range t.opaque {
			cs = append(cs, c)
		}
		slices.SortFunc(cs, func(a, b *Command) int { return a.slot.Offset - b.slot.Offset })
		for _, c := range cs {
			ib.AddPrimitive(c.slot.Size, c.slot.Offset)
		}
	}
	t.dirty = false
}

// View is the per frame state of a [Batch.Render].
type View struct {
	Projection math32.Matrix4
	ModelView  math32.Matrix4

	// ColorKey is the texel color that textured commands do not draw,
	// if ColorKeyEnabled is set.
	ColorKey        color.RGBA
	ColorKeyEnabled bool
}

// Batch owns the vertex arrays of a renderer and the slot assignment
// of its commands.
type Batch struct {
	dev     gpu.Device
	opts    vao.Options
	targets map[key]*target
	order   []*target
	pending []*Command
	queued  map[*Command]struct{}
}

// NewBatch returns a new empty [Batch] drawing on dev.
func NewBatch(dev gpu.Device, opts vao.Options) *Batch {
	return &Batch{
		dev:     dev,
		opts:    opts,
		targets: map[key]*target{},
		queued:  map[*Command]struct{}{},
	}
}

func keyOf(c *Command) key {
	return key{shader: c.Shader, transparent: c.Transparent, texture: c.Texture}
}

// drawOrder orders opaque targets before transparent ones, then by
// shader kind, texture id with untextured last, and creation.
func drawOrder(a, b *target) int {
	if a.key.transparent != b.key.transparent {
		if a.key.transparent {
			return 1
		}
		return -1
	}
	if c := cmp.Compare(a.key.shader.Kind(), b.key.shader.Kind()); c != 0 {
		return c
	}
	if (a.key.texture == nil) != (b.key.texture == nil) {
		if a.key.texture == nil {
			return 1
		}
		return -1
	}
	if a.key.texture != nil {
		if c := cmp.Compare(a.key.texture.TextureID(), b.key.texture.TextureID()); c != 0 {
			return c
		}
	}
	return cmp.Compare(a.created, b.created)
}

func (b *Batch) target(k key) *target {
	if t, ok := b.targets[k]; ok {
		return t
	}
	name := k.shader.Kind().String()
	if k.transparent {
		name += "/transparent"
	}
	if k.texture != nil {
		name += fmt.Sprintf("/tex%d", k.texture.TextureID())
	}
	t := &target{
		key:         k,
		created:     len(b.order),
		vao:         vao.New(name, k.shader, k.transparent, b.opts),
		transparent: btree.NewG(8, backToFront),
		opaque:      map[*Command]struct{}{},
	}
	t.vao.OnCompact(func([]glbuf.Chunk) { t.resort() })
	b.targets[k] = t
	b.order = append(b.order, t)
	slices.SortStableFunc(b.order, drawOrder)
	slog.Debug("drawcmd: new target", "vao", name)
	return t
}

// Submit queues the command for the next [Batch.Flush].
func (b *Batch) Submit(c *Command) {
	if _, ok := b.queued[c]; ok {
		return
	}
	b.queued[c] = struct{}{}
	b.pending = append(b.pending, c)
}

// Cancel removes the command from the queue, and reports whether it
// was queued.
func (b *Batch) Cancel(c *Command) bool {
	if _, ok := b.queued[c]; !ok {
		return false
	}
	delete(b.queued, c)
	if i := slices.Index(b.pending, c); i >= 0 {
		b.pending = slices.Delete(b.pending, i, i+1)
	}
	return true
}

// Remove marks the command as removed. A bound command is queued to
// give back its slot; a command that never got one is dropped from
// the queue, together with the command it was to replace.
func (b *Batch) Remove(c *Command) {
	if c.Bound() {
		c.State = Removed
		b.Submit(c)
		return
	}
	b.Cancel(c)
	c.State = Removed
	if old := c.replaces; old != nil {
		c.replaces = nil
		b.Remove(old)
	}
}

// Pending returns the number of queued commands.
func (b *Batch) Pending() int {
	return len(b.pending)
}

// Flush runs [Batch.UpdateBatch] on the queued commands.
func (b *Batch) Flush() error {
	cmds := b.pending
	b.pending = nil
	clear(b.queued)
	return b.UpdateBatch(cmds)
}

// UpdateBatch assigns slots to new commands, hands the slots of
// replaced commands to their replacements, frees the slots of removed
// commands and writes the attributes of every changed command. Active
// bound commands are left as they are. Any command in a state that is
// not valid for its binding aborts the update with [ErrInvalidState].
func (b *Batch) UpdateBatch(cmds []*Command) error {
	var err error
	for _, c := range cmds {
		if err = b.update(c); err != nil {
			break
		}
	}
	for _, t := range b.order {
		t.rebuild()
	}
	return err
}

func (b *Batch) update(c *Command) error {
	if c.Bound() {
		switch c.State {
		case Active:
			return nil
		case Removed:
			b.free(c)
			return nil
		}
		return fmt.Errorf("%w: bound command in state %s", ErrInvalidState, c.State)
	}
	if c.State == Removed {
		return nil
	}
	if c.State != New && c.State != Replaced {
		return fmt.Errorf("%w: unbound command in state %s", ErrInvalidState, c.State)
	}
	if err := c.Validate(); err != nil {
		return err
	}
	t := b.target(keyOf(c))
	old := c.replaces
	c.replaces = nil
	// a replacement of a replacement that never got a slot takes over
	// the first bound command of the chain
	for old != nil && !old.Bound() {
		b.Cancel(old)
		old.State = Removed
		next := old.replaces
		old.replaces = nil
		old = next
	}
	switch {
	case c.State == Replaced && old.Bound() && old.target == t && old.slot.Size == len(c.Vertices):
		t.drop(old)
		c.slot = old.slot
		old.slot, old.target = nil, nil
		old.State = Removed
		b.Cancel(old)
	default:
		if old != nil {
			b.free(old)
		}
		s, err := t.vao.Alloc(len(c.Vertices))
		if err != nil {
			return err
		}
		c.slot = s
	}
	c.target = t
	c.transparent = c.Transparent
	c.State = Active
	b.write(c)
	t.insert(c)
	return nil
}

func (b *Batch) free(c *Command) {
	t := c.target
	t.drop(c)
	t.vao.Free(c.slot)
	c.slot, c.target = nil, nil
	c.State = Removed
}

// Refresh writes the attributes of an active command again after its
// fields changed, and moves it in the back to front order if its depth
// changed. Commands that are not active are written when the batch is
// next updated. Changes of the shader, texture, transparency or vertex
// count of an active command are not possible and return [ErrInvalidState].
func (b *Batch) Refresh(c *Command) error {
	if !c.Bound() || c.State != Active {
		return nil
	}
	t := c.target
	if keyOf(c) != t.key || len(c.Vertices) != c.slot.Size {
		return fmt.Errorf("%w: active command changed shape: %s", ErrInvalidState, c)
	}
	if err := c.Validate(); err != nil {
		return err
	}
	b.write(c)
	if c.transparent && c.Z != c.sortZ {
		t.transparent.Delete(c)
		c.sortZ = c.Z
		t.transparent.ReplaceOrInsert(c)
		t.dirty = true
	}
	return nil
}

func clampShort(v int) int16 {
	return int16(min(max(v, math.MinInt16), math.MaxInt16-1))
}

func clampUint(v int) uint32 {
	return uint32(max(v, 0))
}

// write writes the attributes of the command to its slot.
func (b *Batch) write(c *Command) {
	v := c.target.vao
	off, n := c.slot.Offset, len(c.Vertices)
	pos, layers, colors := v.Positions(), v.Layers(), v.Colors()
	for i, p := range c.Vertices {
		pos.Set(off+i, clampShort(p.X), clampShort(p.Y))
		layers.Set(off+i, c.Z)
		colors.Set(off+i, c.Color.R, c.Color.G, c.Color.B, c.Color.A)
	}
	k := c.Shader.Kind()
	if k.UsesBounds() {
		r := c.Bounds()
		ctr := r.Min.Add(r.Max).Div(2)
		v.Points(shaders.AttrOrigin).SetAll(off, n, clampShort(ctr.X), clampShort(ctr.Y))
		v.Points(shaders.AttrSize).SetAll(off, n, clampShort(r.Dx()), clampShort(r.Dy()))
	}
	if k.UsesRoundness() {
		v.Values(shaders.AttrRoundness).SetAll(off, n, c.Roundness)
	}
	if k.UsesBlur() {
		v.Values(shaders.AttrBlurRadius).SetAll(off, n, c.BlurRadius)
	}
	if k.UsesTexture() {
		tc := v.Points(shaders.AttrTexCoord)
		for i, p := range c.TexCoords {
			tc.Set(off+i, clampShort(p.X), clampShort(p.Y))
		}
		clip := image.Rectangle{}
		clipX := uint32(shaders.NoClip)
		if c.Clip != nil {
			clip = *c.Clip
			clipX = clampUint(clip.Min.X)
		}
		v.Values(shaders.AttrClipX).SetAll(off, n, clipX)
		v.Values(shaders.AttrClipY).SetAll(off, n, clampUint(clip.Min.Y))
		v.Points(shaders.AttrClipSize).SetAll(off, n, clampShort(clip.Dx()), clampShort(clip.Dy()))
	}
}

// Render draws every non empty vertex array in draw order with one
// indexed triangle fan draw each.
func (b *Batch) Render(view View) {
	for _, t := range b.order {
		t.rebuild()
	}
	b.dev.SetPrimitiveRestart(true, glbuf.RestartIndex)
	for _, t := range b.order {
		n := t.vao.Indexes().Len()
		if n == 0 {
			continue
		}
		t.vao.Bind(b.dev)
		s := t.key.shader
		s.SetMatrices(&view.Projection, &view.ModelView)
		if tex := t.key.texture; tex != nil {
			tex.Bind(b.dev, 0)
			s.SetSampler(0)
			sz := tex.Size()
			s.SetAtlasSize(sz.X, sz.Y)
			s.SetColorKey(view.ColorKey.R, view.ColorKey.G, view.ColorKey.B, view.ColorKeyEnabled)
		}
		b.dev.DrawFans(n)
	}
	b.dev.SetPrimitiveRestart(false, glbuf.RestartIndex)
	b.dev.BindVertexArray(0)
}

// VAOs returns the vertex arrays in draw order.
func (b *Batch) VAOs() []*vao.VAO {
	vs := make([]*vao.VAO, len(b.order))
	for i, t := range b.order {
		vs[i] = t.vao
	}
	return vs
}

// VAO returns the vertex array of a bound command, or nil.
func (b *Batch) VAO(c *Command) *vao.VAO {
	if !c.Bound() {
		return nil
	}
	return c.target.vao
}

// Release deletes the device objects of every vertex array.
func (b *Batch) Release() {
	for _, t := range b.order {
		t.vao.Release(b.dev)
	}
}
