package shader

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedStage is returned when a file extension does not map to a
// known programmable pipeline stage.
var ErrUnsupportedStage = errors.New("unsupported shader stage")

// Stage identifies one programmable step of the GPU pipeline.
type Stage uint8

const (
	StageVertex Stage = iota
	StageFragment
	StageGeometry
	StageCompute
	StageTessControl
	StageTessEvaluation
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageGeometry:
		return "geometry"
	case StageCompute:
		return "compute"
	case StageTessControl:
		return "tess_control"
	case StageTessEvaluation:
		return "tess_evaluation"
	default:
		return "unknown"
	}
}

// StageFromPath classifies a shader file by its extension. The match is
// case-insensitive.
func StageFromPath(path string) (Stage, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "vert":
		return StageVertex, nil
	case "frag":
		return StageFragment, nil
	case "geom":
		return StageGeometry, nil
	case "comp":
		return StageCompute, nil
	case "tesc":
		return StageTessControl, nil
	case "tese":
		return StageTessEvaluation, nil
	default:
		return 0, fmt.Errorf("%w: %q (%s)", ErrUnsupportedStage, ext, path)
	}
}
