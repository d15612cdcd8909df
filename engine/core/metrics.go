package core

import (
	"sync"
	"sync/atomic"
)

const avgCount uint8 = 30

// MetricsState tracks frame timing plus hot-reload activity counters. The
// frame fields are only touched by the render loop; the reload counters may
// be bumped from any goroutine and are therefore atomics.
type MetricsState struct {
	FrameAVGCounter    uint8
	MStimes            [avgCount]float64
	MSavg              float64
	Frames             int32
	AccumulatedFrameMS float64
	FPS                float64

	ShaderReloads   atomic.Uint64
	CompileFailures atomic.Uint64
}

var onceMetrics sync.Once
var metricsState *MetricsState = nil

func MetricsInitialize() error {
	onceMetrics.Do(func() {
		metricsState = &MetricsState{
			MStimes: [avgCount]float64{0},
		}
	})
	return nil
}

// MetricsUpdate folds one frame's elapsed time (seconds) into the rolling
// frame-time average and the FPS counter.
func MetricsUpdate(frameElapsedTime float64) {
	if metricsState == nil {
		return
	}

	frameMS := frameElapsedTime * 1000.0
	metricsState.MStimes[metricsState.FrameAVGCounter] = frameMS
	if metricsState.FrameAVGCounter == avgCount-1 {
		metricsState.MSavg = 0
		for i := uint8(0); i < avgCount; i++ {
			metricsState.MSavg += metricsState.MStimes[i]
		}
		metricsState.MSavg /= float64(avgCount)
	}
	metricsState.FrameAVGCounter++
	metricsState.FrameAVGCounter %= avgCount

	metricsState.AccumulatedFrameMS += frameMS
	if metricsState.AccumulatedFrameMS > 1000 {
		metricsState.FPS = float64(metricsState.Frames)
		metricsState.AccumulatedFrameMS -= 1000
		metricsState.Frames = 0
	}

	metricsState.Frames++
}

func MetricsCountShaderReload() {
	if metricsState != nil {
		metricsState.ShaderReloads.Add(1)
	}
}

func MetricsCountCompileFailure() {
	if metricsState != nil {
		metricsState.CompileFailures.Add(1)
	}
}

func MetricsFPS() float64 {
	if metricsState == nil {
		return 0
	}
	return metricsState.FPS
}

func MetricsFrameAvgMS() float64 {
	if metricsState == nil {
		return 0
	}
	return metricsState.MSavg
}

func MetricsShaderReloads() uint64 {
	if metricsState == nil {
		return 0
	}
	return metricsState.ShaderReloads.Load()
}

func MetricsCompileFailures() uint64 {
	if metricsState == nil {
		return 0
	}
	return metricsState.CompileFailures.Load()
}
