// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package styles

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/fsnotify/fsnotify"
)

// Rules are the sheets of the selectors of a CSS style sheet.
type Rules struct {
	sheets map[string]*Sheet
}

// Key returns the sheet key of a CSS property: background-color is
// background.color.
func Key(property string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(property)), "-", ".")
}

// ParseCSS parses a CSS style sheet. At-rules are not supported and
// skipped.
func ParseCSS(src string) (*Rules, error) {
	ss, err := parser.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("styles: %w", err)
	}
	rs := &Rules{sheets: map[string]*Sheet{}}
	for _, r := range ss.Rules {
		if r.Kind == css.AtRule || len(r.Declarations) == 0 {
			continue
		}
		for _, sel := range r.Selectors {
			sel = strings.TrimSpace(sel)
			sh := rs.sheets[sel]
			if sh == nil {
				sh = NewSheet()
				rs.sheets[sel] = sh
			}
			for _, d := range r.Declarations {
				sh.Set(Key(d.Property), Parse(d.Value))
			}
		}
	}
	return rs, nil
}

// OpenCSS reads and parses a CSS style sheet file.
func OpenCSS(filename string) (*Rules, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseCSS(string(b))
}

// Len returns the number of selectors.
func (rs *Rules) Len() int { return len(rs.sheets) }

// Selector returns the sheet of the selector, or nil.
func (rs *Rules) Selector(sel string) *Sheet {
	return rs.sheets[sel]
}

// Sheet returns the values of the selectors merged in order, so later
// selectors override earlier ones. The universal selector * comes first.
func (rs *Rules) Sheet(selectors ...string) *Sheet {
	sh := NewSheet()
	if rs == nil {
		return sh
	}
	sh.Merge(rs.sheets["*"])
	for _, sel := range selectors {
		sh.Merge(rs.sheets[sel])
	}
	return sh
}

// Watch reads the CSS style sheet file and calls fun with the result,
// then again every time the file changes, until ctx is done. fun is
// called on the watching goroutine.
func Watch(ctx context.Context, filename string, fun func(*Rules, error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("styles: %w", err)
	}
	// editors often replace the file, so the directory is watched
	abs, err := filepath.Abs(filename)
	if err == nil {
		err = w.Add(filepath.Dir(abs))
	}
	if err != nil {
		w.Close()
		return fmt.Errorf("styles: %w", err)
	}
	fun(OpenCSS(abs))
	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				slog.Debug("styles: reloading", "file", abs, "op", ev.Op.String())
				fun(OpenCSS(abs))
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.Error("styles: watcher error", "file", abs, "err", err)
			}
		}
	}()
	return nil
}
