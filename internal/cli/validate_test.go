package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configTestdata = filepath.Join("..", "config", "testdata")

func TestValidateValidRigs(t *testing.T) {
	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}),
		filepath.Join(configTestdata, "arm.yaml"),
		filepath.Join(configTestdata, "soft_arm.yaml"))
	require.NoError(t, err)

	assert.Contains(t, out, "arm.yaml (tbik1)")
	assert.Contains(t, out, "soft_arm.yaml (softArm)")
	assert.Contains(t, out, "✓ All rigs valid")
}

func TestValidateValidRigsJSON(t *testing.T) {
	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "json"}),
		filepath.Join(configTestdata, "arm.yaml"))
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	require.Len(t, resp.Data.Rigs, 1)
	assert.Equal(t, "tbik1", resp.Data.Rigs[0].Name)
}

func TestValidateMissingFile(t *testing.T) {
	_, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), "/nonexistent/rig.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "rig file not found")
}

func TestValidateMissingArgs(t *testing.T) {
	_, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg")
}

func TestValidateInvalidRig(t *testing.T) {
	bad := writeRig(t, "name: arm\nedge_a: 4\nedge_b: 2\ntarget: [6, 0, 0]\npole: [6, 1, 0]\nstretch_strength: 2\n")

	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}),
		filepath.Join(configTestdata, "arm.yaml"), bad)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✓ ")
	assert.Contains(t, out, "✗ "+bad)
	assert.Contains(t, out, "stretch_strength")
	assert.NotContains(t, out, "All rigs valid")
}

func TestValidateInvalidRigJSON(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		wantField string
	}{
		{"schema violation", "name: arm\nedge_a: -1\nedge_b: 2\ntarget: [6, 0, 0]\npole: [6, 1, 0]\n", "edge_a"},
		{"unknown field", "name: arm\nedge_a: 4\nedge_b: 2\ntarget: [6, 0, 0]\npole: [6, 1, 0]\npoll: [0, 1, 0]\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, NewValidateCommand(&RootOptions{Format: "json"}), writeRig(t, tt.yaml))
			require.Error(t, err)

			var resp struct {
				Status string           `json:"status"`
				Data   ValidationResult `json:"data"`
				Error  *CLIError        `json:"error"`
			}
			require.NoError(t, json.Unmarshal([]byte(out), &resp))
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, ErrCodeInvalidConfig, resp.Error.Code)

			require.Len(t, resp.Data.Rigs, 1)
			rig := resp.Data.Rigs[0]
			assert.False(t, rig.Valid)
			assert.NotEmpty(t, rig.Error)
			if tt.wantField != "" {
				assert.Contains(t, rig.Field, tt.wantField)
			} else {
				assert.Empty(t, rig.Field)
			}
		})
	}
}
