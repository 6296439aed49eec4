package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/simpleik/internal/config"
)

// Scenario drives one rig through a sequence of locator moves.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Rig is the inline rig config. Exactly one of Rig and RigFile is set.
	Rig *config.Rig `yaml:"rig,omitempty"`

	// RigFile is a rig config path, relative to the scenario file.
	RigFile string `yaml:"rig_file,omitempty"`

	// Steps run in order, one rig evaluation each.
	Steps []Step `yaml:"steps"`

	// Assertions validate the whole run.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step moves the locators and evaluates.
type Step struct {
	Target *config.Vec3 `yaml:"target,omitempty"`
	Pole   *config.Vec3 `yaml:"pole,omitempty"`
	Expect *Expect      `yaml:"expect,omitempty"`
}

// Expect lists the values a step must produce. Unset fields are not
// checked.
type Expect struct {
	// Error is the expected solve error code. Empty expects success.
	Error string `yaml:"error,omitempty"`

	BendAngle      *float64     `yaml:"bend_angle,omitempty"`
	StretchedEdgeA *float64     `yaml:"stretched_edge_a,omitempty"`
	StretchedEdgeB *float64     `yaml:"stretched_edge_b,omitempty"`
	RootAngle      *float64     `yaml:"root_angle,omitempty"`
	Mid            *config.Vec3 `yaml:"mid,omitempty"`
	End            *config.Vec3 `yaml:"end,omitempty"`

	// Tolerance for value comparisons. Defaults to DefaultTolerance.
	Tolerance float64 `yaml:"tolerance,omitempty"`
}

// Assertion validates the whole run.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Count is used by solve_count and error_count.
	Count int `yaml:"count,omitempty"`

	// Codes is the expected error sequence for error_order.
	Codes []string `yaml:"codes,omitempty"`

	// End and Tolerance are used by final_end.
	End       *config.Vec3 `yaml:"end,omitempty"`
	Tolerance float64      `yaml:"tolerance,omitempty"`
}

// Assertion type constants.
const (
	AssertSolveCount = "solve_count"
	AssertErrorCount = "error_count"
	AssertErrorOrder = "error_order"
	AssertFinalEnd   = "final_end"
)

// DefaultTolerance is used when an expect clause or assertion sets none.
const DefaultTolerance = 1e-6

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or describes an invalid rig.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.RigFile != "" && scenario.Rig == nil {
		rigPath := scenario.RigFile
		if !filepath.IsAbs(rigPath) {
			rigPath = filepath.Join(filepath.Dir(path), rigPath)
		}
		rig, err := config.Load(rigPath)
		if err != nil {
			return nil, fmt.Errorf("invalid scenario: %w", err)
		}
		scenario.Rig = rig
		scenario.RigFile = ""
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml file in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Rig == nil && s.RigFile == "" {
		return fmt.Errorf("rig or rig_file is required")
	}
	if s.Rig != nil && s.RigFile != "" {
		return fmt.Errorf("rig and rig_file are mutually exclusive")
	}
	if err := config.Validate(s.Rig); err != nil {
		return fmt.Errorf("rig: %w", err)
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if step.Expect != nil && step.Expect.Tolerance < 0 {
			return fmt.Errorf("steps[%d].expect: tolerance must be non-negative", i)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertSolveCount, AssertErrorCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertErrorOrder:
		if len(a.Codes) == 0 {
			return fmt.Errorf("assertions[%d]: codes list is required for error_order", index)
		}
	case AssertFinalEnd:
		if a.End == nil {
			return fmt.Errorf("assertions[%d]: end is required for final_end", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
