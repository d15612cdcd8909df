package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voidwalk/vulkn/engine/shader"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, "vulkn demo", cfg.App.Name)
	assert.True(t, cfg.HotReload.Enabled)
	assert.Equal(t, "assets/shaders", cfg.HotReload.Dir)
	assert.Equal(t, 200, cfg.HotReload.DebounceMS)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vulkn.toml")
	content := `
[app]
name = "custom"
log_level = "debug"

[shaders]
optimization = "performance"

[hot_reload]
enabled = false
dir = "my/shaders"
debounce_ms = 50
queue_capacity = 3

[hot_reload.stages]
fragment = false
tess_control = false
bogus = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "custom", cfg.App.Name)
	assert.Equal(t, shader.OptimizationPerformance, cfg.Shaders.OptimizationLevel())

	hr := cfg.HotReloadConfig()
	assert.False(t, hr.Enabled)
	assert.Equal(t, "my/shaders", hr.Dir)
	assert.Equal(t, 50*time.Millisecond, hr.Debounce)
	assert.Equal(t, 3, hr.QueueCapacity)
	assert.Equal(t, map[shader.Stage]bool{
		shader.StageFragment:    false,
		shader.StageTessControl: false,
	}, hr.Stages)
}

func TestLoadMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vulkn.toml")
	require.NoError(t, os.WriteFile(path, []byte("[app\nname="), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
