// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command gluidemo opens a window and draws a small control tree with
// the retained-mode renderer, reloading its style sheet on change.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"cogentcore.org/glui/base/errors"
	"cogentcore.org/glui/base/logx"
	"cogentcore.org/glui/config"
	"cogentcore.org/glui/fonts"
	"cogentcore.org/glui/glrender"
	"cogentcore.org/glui/gpu/glgpu"
	"cogentcore.org/glui/session"
	"cogentcore.org/glui/styles"
	"cogentcore.org/glui/tree"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spf13/cobra"
)

func init() {
	// GL calls must stay on the main thread
	runtime.LockOSThread()
}

type flags struct {
	config      string
	vv, v, q    bool
	css         string
	frameBudget time.Duration
}

func main() {
	var fl flags
	cmd := &cobra.Command{
		Use:          "gluidemo",
		Short:        "Draw a control tree with the retained-mode GL renderer",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(fl.config)
			if err != nil {
				return err
			}
			if fl.css != "" {
				cfg.Styles.File = fl.css
				if err := cfg.ExpandPaths(); err != nil {
					return err
				}
			}
			f := cmd.Flags()
			setLogLevel(cfg, f.Changed("vv") || f.Changed("verbose") || f.Changed("quiet"), fl)
			return run(cmd.Context(), cfg, fl.frameBudget)
		},
	}
	pf := cmd.Flags()
	pf.StringVarP(&fl.config, "config", "c", "", "the TOML or YAML config file")
	pf.StringVar(&fl.css, "css", "", "the CSS style sheet file, overriding the config")
	pf.BoolVar(&fl.vv, "vv", false, "log debug messages")
	pf.BoolVarP(&fl.v, "verbose", "v", false, "log info messages")
	pf.BoolVarP(&fl.q, "quiet", "q", false, "log only errors")
	pf.DurationVar(&fl.frameBudget, "frame", time.Second/60, "the time between frames")
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func loadConfig(filename string) (*config.Config, error) {
	if filename == "" {
		return config.Defaults(), nil
	}
	cfg, err := config.Open(filename)
	if err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// setLogLevel sets the log level from the flags if any was given,
// otherwise from the config.
func setLogLevel(cfg *config.Config, fromFlags bool, fl flags) {
	if fromFlags {
		logx.UserLevel = logx.LevelFromFlags(fl.vv, fl.v, fl.q)
	} else if l, ok := logx.LevelFromString(cfg.Log.Level); ok {
		logx.UserLevel = l
	}
	logx.SetDefaultLogger()
}

func run(ctx context.Context, cfg *config.Config, frame time.Duration) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("gluidemo: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	win, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("gluidemo: %w", err)
	}
	defer win.Destroy()
	win.MakeContextCurrent()
	if cfg.Window.VSync {
		glfw.SwapInterval(1)
	}

	dev, err := glgpu.New()
	if err != nil {
		return err
	}
	r, err := glrender.New(dev, cfg, fonts.NewManager(cfg.Fonts.Dir))
	if err != nil {
		return err
	}
	defer r.Release()
	w, h := win.GetFramebufferSize()
	r.Resize(w, h)

	u := newUI()
	u.layout(w, h)
	p := tree.NewPainter(u.tree, session.New[tree.ID](r))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	rules := make(chan *styles.Rules, 1)
	if err := loadStyles(ctx, cfg.Styles, rules); err != nil {
		return err
	}

	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		r.Resize(width, height)
		u.layout(width, height)
	})

	ticker := time.NewTicker(frame)
	defer ticker.Stop()
	start := time.Now()
	for !win.ShouldClose() {
		select {
		case rs := <-rules:
			u.tree.SetRules(rs)
			p.Force = true
			slog.Info("gluidemo: style sheet applied", "selectors", rs.Len())
		case <-ticker.C:
		}
		glfw.PollEvents()
		u.seconds.Set(int(time.Since(start).Seconds()))
		errors.Log(p.Paint())
		win.SwapBuffers()
	}
	return nil
}

// loadStyles sends the style sheet rules to rules: the built in sheet,
// or the configured file, again on every change if it is watched. The
// rules are applied on the render thread.
func loadStyles(ctx context.Context, cfg config.Styles, rules chan *styles.Rules) error {
	send := func(rs *styles.Rules) {
		select {
		case <-rules:
		default:
		}
		rules <- rs
	}
	switch {
	case cfg.File == "":
		send(errors.Must1(styles.ParseCSS(defaultCSS)))
		return nil
	case !cfg.Watch:
		rs, err := styles.OpenCSS(cfg.File)
		if err != nil {
			return err
		}
		send(rs)
		return nil
	}
	return styles.Watch(ctx, cfg.File, func(rs *styles.Rules, err error) {
		if errors.Log(err) == nil {
			send(rs)
		}
	})
}
