package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/simpleik/internal/config"
)

func TestScenarios_Golden(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)
	require.Len(t, scenarios, 3)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Len(t, result.Trace, len(s.Steps))
		})
	}
}

func TestRun_MemoizedStepKeepsSeq(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/straight_reach.yaml")
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	require.Len(t, result.Trace, 3)

	assert.Equal(t, int64(1), result.Trace[0].Seq)
	assert.Equal(t, int64(1), result.Trace[1].Seq)
	assert.Equal(t, int64(2), result.Trace[2].Seq)
}

func TestRun_ExpectMismatch(t *testing.T) {
	bend := 1.0
	s := &Scenario{
		Name:        "mismatch",
		Description: "wrong expectations are reported, not returned",
		Rig:         config.Default(),
		Steps: []Step{
			{Expect: &Expect{BendAngle: &bend}},
			{Target: &config.Vec3{0, 0, 0}},
			{Target: &config.Vec3{5, 0, 0}, Expect: &Expect{Error: "DEGENERATE_TARGET"}},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], "step 0: bend_angle")
	assert.Contains(t, result.Errors[1], "step 1: unexpected error DEGENERATE_TARGET")
	assert.Contains(t, result.Errors[2], "step 2: expected DEGENERATE_TARGET, got success")
}

func TestRun_AssertionFailures(t *testing.T) {
	s := &Scenario{
		Name:        "assertions",
		Description: "every assertion type can fail",
		Rig:         config.Default(),
		Steps:       []Step{{}},
		Assertions: []Assertion{
			{Type: AssertSolveCount, Count: 5},
			{Type: AssertErrorCount, Count: 1},
			{Type: AssertErrorOrder, Codes: []string{"DEGENERATE_EDGE"}},
			{Type: AssertFinalEnd, End: &config.Vec3{1, 1, 1}},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 4)
	assert.Contains(t, result.Errors[0], "Assertion failed: solve_count")
	assert.Contains(t, result.Errors[0], "Actual: 1 evaluations")
	assert.Contains(t, result.Errors[1], "Assertion failed: error_count")
	assert.Contains(t, result.Errors[2], "Assertion failed: error_order")
	assert.Contains(t, result.Errors[3], "Assertion failed: final_end")
	assert.Contains(t, result.Errors[3], "Full trace:")
}

func TestRun_BadRig(t *testing.T) {
	cfg := config.Default()
	cfg.Name = "target"

	_, err := Run(&Scenario{Name: "clash", Description: "d", Rig: cfg, Steps: []Step{{}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to build rig")
}

func TestLoadScenario_Errors(t *testing.T) {
	rig := "rig:\n  name: a\n  edge_a: 4\n  edge_b: 2\n  target: [6, 0, 0]\n  pole: [6, 1, 0]\n"

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"missing name", "description: d\n" + rig + "steps: [{}]\n", "name is required"},
		{"missing description", "name: n\n" + rig + "steps: [{}]\n", "description is required"},
		{"missing rig", "name: n\ndescription: d\nsteps: [{}]\n", "rig or rig_file is required"},
		{"both rigs", "name: n\ndescription: d\nrig_file: x.yaml\n" + rig + "steps: [{}]\n", "mutually exclusive"},
		{"no steps", "name: n\ndescription: d\n" + rig, "steps list is required"},
		{"unknown field", "name: n\ndescription: d\n" + rig + "step: [{}]\n", "failed to parse YAML"},
		{"invalid rig", "name: n\ndescription: d\nrig:\n  name: a\n  edge_a: 0\n  edge_b: 2\n  target: [6, 0, 0]\n  pole: [6, 1, 0]\nsteps: [{}]\n", "edge_a"},
		{"unknown assertion", "name: n\ndescription: d\n" + rig + "steps: [{}]\nassertions:\n  - type: nope\n", "unknown assertion type"},
		{"error_order without codes", "name: n\ndescription: d\n" + rig + "steps: [{}]\nassertions:\n  - type: error_order\n", "codes list is required"},
		{"final_end without end", "name: n\ndescription: d\n" + rig + "steps: [{}]\nassertions:\n  - type: final_end\n", "end is required"},
		{"negative tolerance", "name: n\ndescription: d\n" + rig + "steps:\n  - expect:\n      tolerance: -1\n", "tolerance must be non-negative"},
		{"missing rig file", "name: n\ndescription: d\nrig_file: nope.yaml\nsteps: [{}]\n", "failed to read rig file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "scenario.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario_RigFileRelative(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/degenerate_hold.yaml")
	require.NoError(t, err)

	require.NotNil(t, s.Rig)
	assert.Empty(t, s.RigFile)
	assert.Equal(t, "tbik1", s.Rig.Name)
	assert.Equal(t, 4.0, s.Rig.EdgeA)
}

func TestLoadScenarios_ReportsFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: x\n"), 0o644))

	_, err := LoadScenarios(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.yaml")
}

func TestMarshalSnapshot(t *testing.T) {
	data, err := MarshalSnapshot("s", []TraceEvent{{Step: 0, Seq: 1, End: [3]float64{round6(-1e-9), 2, 0}}})
	require.NoError(t, err)
	assert.Equal(t,
		`{"scenario_name":"s","trace":[{"step":0,"seq":1,"target":[0,0,0],"pole":[0,0,0],"bend_angle":0,"stretched_edge_a":0,"stretched_edge_b":0,"root_angle":0,"mid":[0,0,0],"end":[0,2,0]}]}`+"\n",
		string(data))
}

func TestRound6(t *testing.T) {
	assert.Equal(t, 1.570796, round6(1.5707963267948966))
	assert.Equal(t, 1.8, round6(1.8000000000000003))
	assert.Equal(t, 0.0, round6(-2.4e-16))
	assert.False(t, isNegZero(round6(-2.4e-16)))
}

func isNegZero(f float64) bool {
	return f == 0 && 1/f < 0
}
