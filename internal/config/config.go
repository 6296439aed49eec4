package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/simpleik/internal/ik"
	"github.com/roach88/simpleik/internal/vecmath"
)

// Vec3 is a YAML [x, y, z] triple.
type Vec3 [3]float64

// Vector converts v to a vecmath vector.
func (v Vec3) Vector() vecmath.Vector3 {
	return vecmath.Vector3{X: v[0], Y: v[1], Z: v[2]}
}

// Rig describes a two-bone chain, its IK node and the initial target and
// pole positions. JSON tags drive the CUE encoding.
type Rig struct {
	Name   string  `yaml:"name" json:"name"`
	EdgeA  float64 `yaml:"edge_a" json:"edge_a"`
	EdgeB  float64 `yaml:"edge_b" json:"edge_b"`
	Target Vec3    `yaml:"target" json:"target"`
	Pole   Vec3    `yaml:"pole" json:"pole"`

	Twist           float64  `yaml:"twist,omitempty" json:"twist,omitempty"`
	Soften          float64  `yaml:"soften,omitempty" json:"soften,omitempty"`
	DoSoften        *bool    `yaml:"do_soften,omitempty" json:"do_soften,omitempty"`
	StretchStrength *float64 `yaml:"stretch_strength,omitempty" json:"stretch_strength,omitempty"`
}

// Default returns the two-bone setup used throughout the examples: bones
// of length 4 and 2 along +X, target at (6,0,0), pole at (6,1,0).
func Default() *Rig {
	return &Rig{
		Name:   "tbik1",
		EdgeA:  4,
		EdgeB:  2,
		Target: Vec3{6, 0, 0},
		Pole:   Vec3{6, 1, 0},
	}
}

// Inputs converts the rig to solver inputs, applying defaults for the
// optional fields.
func (r *Rig) Inputs() ik.Inputs {
	in := ik.DefaultInputs()
	in.EdgeA = r.EdgeA
	in.EdgeB = r.EdgeB
	in.TargetLocation = r.Target.Vector()
	in.PoleVector = r.Pole.Vector()
	in.Twist = r.Twist
	in.Soften = r.Soften
	if r.DoSoften != nil {
		in.DoSoften = *r.DoSoften
	}
	if r.StretchStrength != nil {
		in.StretchStrength = *r.StretchStrength
	}
	return in
}

// Load reads, decodes and validates a rig file.
func Load(path string) (*Rig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rig file: %w", err)
	}
	rig, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rig, nil
}

// Parse decodes and validates rig YAML.
func Parse(data []byte) (*Rig, error) {
	var rig Rig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&rig); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := Validate(&rig); err != nil {
		return nil, err
	}
	return &rig, nil
}
