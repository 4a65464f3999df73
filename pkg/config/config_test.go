package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadOverridesFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sampler.ini")
	contents := "[sampler]\n" +
		"default_timeout = 3s\n" +
		"bulk_timeout = 90s\n" +
		"sample_timeout = 120s\n" +
		"input_port_hint = MPC\n" +
		"output_port_hint = MPC\n" +
		"log_level = debug\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.DefaultTimeout)
	assert.Equal(t, 90*time.Second, cfg.BulkTimeout)
	assert.Equal(t, 120*time.Second, cfg.SampleTimeout)
	assert.Equal(t, "MPC", cfg.InputPortHint)
	assert.Equal(t, "MPC", cfg.OutputPortHint)
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.ini"))
	assert.Error(t, err)
}
