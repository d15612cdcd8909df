package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/voidwalk/vulkn/engine/hotreload"
	"github.com/voidwalk/vulkn/engine/shader"
)

// Config is the application configuration, loaded from a TOML file. Missing
// file or missing keys fall back to defaults.
type Config struct {
	App       App       `toml:"app"`
	Window    Window    `toml:"window"`
	Shaders   Shaders   `toml:"shaders"`
	HotReload HotReload `toml:"hot_reload"`
}

type App struct {
	Name     string `toml:"name"`
	LogLevel string `toml:"log_level"`
}

type Window struct {
	Width  uint32 `toml:"width"`
	Height uint32 `toml:"height"`
	PosX   uint32 `toml:"pos_x"`
	PosY   uint32 `toml:"pos_y"`
}

type Shaders struct {
	// Shader files compiled at startup and owned by the demo pipeline.
	Preload []string `toml:"preload"`
	// Compilation settings.
	CacheEnabled bool   `toml:"cache_enabled"`
	DebugInfo    bool   `toml:"debug_info"`
	Optimization string `toml:"optimization"` // "none" or "performance"
}

type HotReload struct {
	Enabled       bool     `toml:"enabled"`
	Dir           string   `toml:"dir"`
	DebounceMS    int      `toml:"debounce_ms"`
	Extensions    []string `toml:"extensions"`
	LogEvents     bool     `toml:"log_events"`
	QueueCapacity int      `toml:"queue_capacity"`
	// Per-stage toggles, keyed by stage name (vertex, fragment, geometry,
	// compute, tess_control, tess_evaluation). Absent stages stay enabled.
	Stages map[string]bool `toml:"stages"`
}

func Default() *Config {
	hr := hotreload.DefaultConfig()
	return &Config{
		App: App{
			Name:     "vulkn demo",
			LogLevel: "info",
		},
		Window: Window{
			Width:  800,
			Height: 600,
			PosX:   100,
			PosY:   100,
		},
		Shaders: Shaders{
			Preload: []string{
				"assets/shaders/triangle.vert",
				"assets/shaders/triangle.frag",
			},
			CacheEnabled: true,
			Optimization: "none",
		},
		HotReload: HotReload{
			Enabled:       hr.Enabled,
			Dir:           hr.Dir,
			DebounceMS:    int(hr.Debounce / time.Millisecond),
			Extensions:    hr.Extensions,
			LogEvents:     hr.LogEvents,
			QueueCapacity: hr.QueueCapacity,
		},
	}
}

// Load reads the TOML file at path over the defaults. A missing file is not
// an error; malformed TOML is.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %q: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %q: %w", path, err)
	}
	return cfg, nil
}

// OptimizationLevel maps the config string onto the compiler enum.
func (s Shaders) OptimizationLevel() shader.OptimizationLevel {
	if s.Optimization == "performance" {
		return shader.OptimizationPerformance
	}
	return shader.OptimizationNone
}

// HotReloadConfig converts the TOML section into the hotreload package's
// runtime configuration.
func (c *Config) HotReloadConfig() hotreload.Config {
	hr := hotreload.DefaultConfig()
	hr.Enabled = c.HotReload.Enabled
	if c.HotReload.Dir != "" {
		hr.Dir = c.HotReload.Dir
	}
	if c.HotReload.DebounceMS > 0 {
		hr.Debounce = time.Duration(c.HotReload.DebounceMS) * time.Millisecond
	}
	if len(c.HotReload.Extensions) > 0 {
		hr.Extensions = c.HotReload.Extensions
	}
	hr.LogEvents = c.HotReload.LogEvents
	if c.HotReload.QueueCapacity > 0 {
		hr.QueueCapacity = c.HotReload.QueueCapacity
	}
	if len(c.HotReload.Stages) > 0 {
		hr.Stages = make(map[shader.Stage]bool, len(c.HotReload.Stages))
		for name, enabled := range c.HotReload.Stages {
			if stage, ok := stageByName(name); ok {
				hr.Stages[stage] = enabled
			}
		}
	}
	return hr
}

func stageByName(name string) (shader.Stage, bool) {
	for _, stage := range []shader.Stage{
		shader.StageVertex,
		shader.StageFragment,
		shader.StageGeometry,
		shader.StageCompute,
		shader.StageTessControl,
		shader.StageTessEvaluation,
	} {
		if stage.String() == name {
			return stage, true
		}
	}
	return 0, false
}
