/*
Demo application: renders with a live pipeline while the shader sources under
assets/shaders are watched for edits. Saving a shader recompiles it off the
frame path and swaps the pipeline at the next frame boundary.
*/
package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/voidwalk/vulkn/engine/config"
	"github.com/voidwalk/vulkn/engine/core"
	"github.com/voidwalk/vulkn/engine/hotreload"
	"github.com/voidwalk/vulkn/engine/platform"
	"github.com/voidwalk/vulkn/engine/renderer"
	"github.com/voidwalk/vulkn/engine/shader"
)

// loggingRecorder stands in for real command-buffer re-recording when the
// demo runs without a Vulkan device.
type loggingRecorder struct{}

func (loggingRecorder) RecordCommands(pipeline hotreload.PipelineHandle) error {
	core.LogInfo("command buffers re-recorded for pipeline generation %s", pipeline.Generation())
	return nil
}

func main() {
	cfg, err := config.Load("vulkn.toml")
	if err != nil {
		panic(err)
	}
	core.SetLogLevel(cfg.App.LogLevel)

	if err := core.MetricsInitialize(); err != nil {
		panic(err)
	}

	compiler := shader.NewCompiler(shader.NagaBackend{})
	compiler.Configure(cfg.Shaders.CacheEnabled, cfg.Shaders.DebugInfo, cfg.Shaders.OptimizationLevel())

	// The headless factory keeps the demo runnable on machines without a
	// Vulkan driver. With a device context available, swap in
	// vulkan.NewPipelineFactory(ctx) and a real command recorder.
	factory := renderer.NewHeadlessPipelineFactory()

	manager := hotreload.NewManager(cfg.HotReloadConfig(), compiler, factory)
	if err := manager.Initialize(cfg.Shaders.Preload...); err != nil {
		if errors.Is(err, hotreload.ErrWatcherInit) {
			// Keep rendering without automatic reloads.
			core.LogWarn("hot reload unavailable: %s", err.Error())
		} else {
			core.LogFatal("failed to initialize rendering: %s", err.Error())
		}
	}
	defer manager.Close()

	p, err := platform.New()
	if err != nil {
		panic(err)
	}
	if err := p.Startup(cfg.App.Name, cfg.Window.PosX, cfg.Window.PosY, cfg.Window.Width, cfg.Window.Height); err != nil {
		panic(err)
	}
	defer p.Shutdown()

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	go func() {
		<-sigCh
		p.RequestClose()
	}()

	coordinator := renderer.NewFrameCoordinator(manager, loggingRecorder{})

	core.LogInfo("entering frame loop; edit %s to see hot reload", cfg.HotReload.Dir)

	for !p.ShouldClose() {
		p.PumpMessages()

		changed, err := coordinator.BeginFrame()
		if err != nil {
			// Construction failures are loud but not fatal: the previous
			// pipeline is still live and rendering continues.
			core.LogError("reload pass failed: %s", err.Error())
		}
		if changed {
			files, enabled := manager.Stats()
			core.LogInfo("pipeline generation %s live (watching %d files, auto=%t, reloads=%d)",
				coordinator.Pipeline().Generation(), files, enabled, core.MetricsShaderReloads())
		}

		// Draw with coordinator.Pipeline() here when a device is wired up.
		time.Sleep(16 * time.Millisecond)

		coordinator.EndFrame()
	}

	manager.Teardown()
}
