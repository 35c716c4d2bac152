package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHCL = `
settings {
  job_runner      = "lsf"
  job_queue       = "normal"
  poll_seconds    = 15
  status_email_to = ["oncall@example.com"]
  lsf_base_url    = "https://lsf-gateway.example.org:8443"
}
`

func TestLoad_ParsesSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runtime.hcl")
	require.NoError(t, os.WriteFile(path, []byte(sampleHCL), 0o644))

	model, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "lsf", model.Settings.JobRunner)
	assert.Equal(t, "normal", model.Settings.JobQueue)
	assert.Equal(t, []string{"oncall@example.com"}, model.Settings.StatusEmailTo)
	assert.Equal(t, 15, model.Settings.PollSeconds)
	assert.Equal(t, 15*1e9, float64(model.Settings.PollInterval()))
}

func TestLoad_WalksDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.hcl"), []byte(sampleHCL), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignore.txt"), []byte("not hcl"), 0o644))

	model, err := Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "lsf", model.Settings.JobRunner)
}

func TestLoad_MissingPathIsNotAnError(t *testing.T) {
	model, err := Load(context.Background(), "/no/such/path.hcl")
	require.NoError(t, err)
	assert.Equal(t, "", model.Settings.JobRunner)
}

func TestSettings_PollInterval_DefaultsToZeroWhenUnset(t *testing.T) {
	var s Settings
	assert.Equal(t, int64(0), int64(s.PollInterval()))
}
