package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs from an empty directory so a stray gimbal.yaml cannot leak in.
func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", dir)
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	v := New()
	cfg, err := Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Empty(t, ConfigFile(v))
}

func TestLoadFile(t *testing.T) {
	isolate(t)
	yaml := "engine:\n  timeout: 250ms\nlog:\n  level: debug\n  encoding: json\nkernel:\n  mesh_cells: 64\n"
	require.NoError(t, os.WriteFile("gimbal.yaml", []byte(yaml), 0o644))

	v := New()
	cfg, err := Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.Engine.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Encoding)
	assert.Equal(t, 64, cfg.Kernel.MeshCells)
	assert.Equal(t, "gimbal.yaml", filepath.Base(ConfigFile(v)))
}

func TestEnvOverridesFile(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile("gimbal.yaml", []byte("kernel:\n  mesh_cells: 64\n"), 0o644))
	t.Setenv("GIMBAL_KERNEL_MESH_CELLS", "32")
	t.Setenv("GIMBAL_ENGINE_TIMEOUT", "2s")

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.Kernel.MeshCells)
	assert.Equal(t, 2*time.Second, cfg.Engine.Timeout)
}

func TestLoadExplicitFileMissing(t *testing.T) {
	isolate(t)
	_, err := Load(New(), "does-not-exist.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero timeout", func(c *Config) { c.Engine.Timeout = 0 }},
		{"negative mesh cells", func(c *Config) { c.Kernel.MeshCells = -1 }},
		{"unknown encoding", func(c *Config) { c.Log.Encoding = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), errInvalid)
		})
	}
	assert.NoError(t, Default().Validate())
}
