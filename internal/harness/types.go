package harness

import (
	"math"

	"github.com/roach88/simpleik/internal/vecmath"
)

// TraceEvent is the observable state after one step. Values are rounded
// to six decimals so traces compare byte-for-byte.
type TraceEvent struct {
	Step           int        `json:"step"`
	Seq            int64      `json:"seq"`
	Target         [3]float64 `json:"target"`
	Pole           [3]float64 `json:"pole"`
	BendAngle      float64    `json:"bend_angle"`
	StretchedEdgeA float64    `json:"stretched_edge_a"`
	StretchedEdgeB float64    `json:"stretched_edge_b"`
	RootAngle      float64    `json:"root_angle"`
	Mid            [3]float64 `json:"mid"`
	End            [3]float64 `json:"end"`
	Error          string     `json:"error,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace has one event per step.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a step event.
func (r *Result) AddTrace(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}

// round6 rounds to six decimals and folds -0 into 0.
func round6(v float64) float64 {
	r := math.Round(v*1e6) / 1e6
	if r == 0 {
		return 0
	}
	return r
}

func roundVec(v vecmath.Vector3) [3]float64 {
	return [3]float64{round6(v.X), round6(v.Y), round6(v.Z)}
}
