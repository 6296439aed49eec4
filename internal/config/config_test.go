package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/simpleik/internal/ik"
	"github.com/roach88/simpleik/internal/vecmath"
)

func TestLoad_Minimal(t *testing.T) {
	rig, err := Load("testdata/arm.yaml")
	require.NoError(t, err)

	assert.Equal(t, Default(), rig)

	in := rig.Inputs()
	assert.Equal(t, 4.0, in.EdgeA)
	assert.Equal(t, 2.0, in.EdgeB)
	assert.Equal(t, vecmath.Vector3{X: 6}, in.TargetLocation)
	assert.Equal(t, vecmath.Vector3{X: 6, Y: 1}, in.PoleVector)
	assert.True(t, in.DoSoften)
	assert.Equal(t, 1.0, in.StretchStrength)
}

func TestLoad_AllFields(t *testing.T) {
	rig, err := Load("testdata/soft_arm.yaml")
	require.NoError(t, err)

	in := rig.Inputs()
	assert.Equal(t, "softArm", rig.Name)
	assert.Equal(t, 0.25, in.Twist)
	assert.Equal(t, 0.5, in.Soften)
	assert.True(t, in.DoSoften)
	assert.Equal(t, 0.5, in.StretchStrength)
	assert.Equal(t, vecmath.Vector3{Z: -1}, in.PoleVector)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read rig file")
}

func TestLoad_PathInError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: x\nedge_a: 0\nedge_b: 1\ntarget: [1,0,0]\npole: [0,1,0]\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestParse_Invalid(t *testing.T) {
	valid := "edge_b: 2\ntarget: [6, 0, 0]\npole: [6, 1, 0]\n"

	tests := []struct {
		name  string
		yaml  string
		field string
	}{
		{"zero edge", "name: a\nedge_a: 0\n" + valid, "edge_a"},
		{"negative edge", "name: a\nedge_a: -1\n" + valid, "edge_a"},
		{"missing edge", "name: a\n" + valid, "edge_a"},
		{"missing name", "edge_a: 4\n" + valid, "name"},
		{"name with dot", "name: a.b\nedge_a: 4\n" + valid, "name"},
		{"name with space", "name: a b\nedge_a: 4\n" + valid, "name"},
		{"negative soften", "name: a\nedge_a: 4\nsoften: -1\n" + valid, "soften"},
		{"stretch above one", "name: a\nedge_a: 4\nstretch_strength: 2\n" + valid, "stretch_strength"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Field, tt.field)
			assert.NotEmpty(t, ve.Message)
		})
	}
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("name: a\nedge_a: 4\nedge_b: 2\ntarget: [6, 0, 0]\npole: [6, 1, 0]\npoll: [0, 1, 0]\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
	assert.Contains(t, err.Error(), "poll")
}

func TestParse_RejectsShortVector(t *testing.T) {
	_, err := Parse([]byte("name: a\nedge_a: 4\nedge_b: 2\ntarget: [6, 0]\npole: [6, 1, 0]\n"))
	require.Error(t, err)
}

func TestParse_NormalizesName(t *testing.T) {
	// "e" + combining acute accent composes to a single rune.
	rig, err := Parse([]byte("name: \"cafe\u0301\"\nedge_a: 4\nedge_b: 2\ntarget: [6, 0, 0]\npole: [6, 1, 0]\n"))
	require.NoError(t, err)
	assert.Equal(t, "caf\u00e9", rig.Name)
}

func TestValidate_Default(t *testing.T) {
	assert.NoError(t, Validate(Default()))
}

func TestInputs_DisableSoftenAndStretch(t *testing.T) {
	off := false
	zero := 0.0
	rig := Default()
	rig.DoSoften = &off
	rig.StretchStrength = &zero
	rig.Target = Vec3{9, 0, 0}

	require.NoError(t, Validate(rig))

	out, err := ik.Solve(rig.Inputs())
	require.NoError(t, err)
	assert.Equal(t, 4.0, out.StretchedEdgeA)
}
