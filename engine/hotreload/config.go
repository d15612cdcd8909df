package hotreload

import (
	"time"

	"github.com/voidwalk/vulkn/engine/shader"
)

const defaultQueueCapacity = 10

// Config controls the hot-reload subsystem.
type Config struct {
	// Enable/disable automatic change detection. Manual reloads work
	// regardless.
	Enabled bool
	// Shader directory to watch, recursively.
	Dir string
	// Minimum time between two accepted change events for the same file.
	Debounce time.Duration
	// File extensions to watch, without the leading dot.
	Extensions []string
	// Per-stage reload toggles. A nil map allows every stage.
	Stages map[shader.Stage]bool
	// Log individual reload events at info level.
	LogEvents bool
	// Maximum number of queued reload requests before the oldest is dropped.
	QueueCapacity int
}

func DefaultConfig() Config {
	return Config{
		Enabled:       true,
		Dir:           "assets/shaders",
		Debounce:      200 * time.Millisecond,
		Extensions:    []string{"vert", "frag", "geom", "comp", "tesc", "tese"},
		LogEvents:     true,
		QueueCapacity: defaultQueueCapacity,
	}
}

func (c Config) stageAllowed(stage shader.Stage) bool {
	if c.Stages == nil {
		return true
	}
	allowed, ok := c.Stages[stage]
	return !ok || allowed
}

func (c Config) watchesExtension(ext string) bool {
	for _, e := range c.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}
