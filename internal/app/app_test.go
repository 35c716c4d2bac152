package app

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/qgraph/internal/config"
)

func TestNew_GeneratesRunIDAndDefaultsDirs(t *testing.T) {
	out := &bytes.Buffer{}
	a, err := New(context.Background(), out, Config{LogLevel: "info", LogFormat: "text"})

	require.NoError(t, err)
	assert.NotEmpty(t, a.RunID())
	assert.Contains(t, a.cfg.TempDir, a.RunID())
	assert.Equal(t, a.cfg.TempDir, a.cfg.RunDir)
}

func TestNew_ExplicitDirsAreNotOverridden(t *testing.T) {
	out := &bytes.Buffer{}
	a, err := New(context.Background(), out, Config{
		LogLevel: "info", LogFormat: "text",
		TempDir: "/custom/tmp", RunDir: "/custom/run",
	})

	require.NoError(t, err)
	assert.Equal(t, "/custom/tmp", a.cfg.TempDir)
	assert.Equal(t, "/custom/run", a.cfg.RunDir)
}

func TestMergeSettings_OnlyFillsZeroValueFields(t *testing.T) {
	cfg := Config{JobRunner: "shell"}
	s := config.Settings{JobRunner: "lsf", JobQueue: "normal", StatusEmailFrom: "qgraph@example.com"}

	mergeSettings(&cfg, s)

	assert.Equal(t, "shell", cfg.JobRunner, "explicit CLI value must win over settings")
	assert.Equal(t, "normal", cfg.JobQueue, "zero-value field should be filled from settings")
	assert.Equal(t, "qgraph@example.com", cfg.StatusEmailFrom)
}
