package shader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStageFromPath(t *testing.T) {
	cases := []struct {
		path string
		want Stage
	}{
		{"x.vert", StageVertex},
		{"x.frag", StageFragment},
		{"x.comp", StageCompute},
		{"x.geom", StageGeometry},
		{"x.tesc", StageTessControl},
		{"x.tese", StageTessEvaluation},
		{"assets/shaders/triangle.FRAG", StageFragment},
	}

	for _, tc := range cases {
		got, err := StageFromPath(tc.path)
		assert.NoError(t, err, tc.path)
		assert.Equal(t, tc.want, got, tc.path)
	}
}

func TestStageFromPathUnsupported(t *testing.T) {
	for _, path := range []string{"x.glsl", "x", "x.spv", "x.vert.bak"} {
		_, err := StageFromPath(path)
		assert.ErrorIs(t, err, ErrUnsupportedStage, path)
	}
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "vertex", StageVertex.String())
	assert.Equal(t, "tess_evaluation", StageTessEvaluation.String())
	assert.Equal(t, "unknown", Stage(200).String())
}
