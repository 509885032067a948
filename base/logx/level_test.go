// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logx

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFromFlags(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LevelFromFlags(true, false, false))
	assert.Equal(t, slog.LevelInfo, LevelFromFlags(false, true, true))
	assert.Equal(t, slog.LevelError, LevelFromFlags(false, false, true))
	assert.Equal(t, slog.LevelWarn, LevelFromFlags(false, false, false))
}

func TestLevelFromString(t *testing.T) {
	l, ok := LevelFromString(" Debug")
	assert.True(t, ok)
	assert.Equal(t, slog.LevelDebug, l)
	l, ok = LevelFromString("warning")
	assert.True(t, ok)
	assert.Equal(t, slog.LevelWarn, l)
	_, ok = LevelFromString("loud")
	assert.False(t, ok)
}

func TestDefaultLogger(t *testing.T) {
	old := UserLevel
	defer func() { UserLevel = old }()
	UserLevel = slog.LevelDebug
	SetDefaultLogger()
	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))

	slog.Debug("this is debug")
	slog.Info("this is info")
	slog.Warn("this is warn")
}
