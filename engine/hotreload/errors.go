package hotreload

import "errors"

var (
	// ErrWatcherInit means the OS watch registration failed. Fatal to
	// hot-reload initialization only; the application should keep running
	// without automatic reloads.
	ErrWatcherInit = errors.New("failed to initialize shader watcher")

	// ErrPipelineConstruction means building the replacement pipeline
	// against the driver failed. The previous pipeline stays live.
	ErrPipelineConstruction = errors.New("pipeline construction failed")
)
