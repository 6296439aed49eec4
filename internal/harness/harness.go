package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/roach88/simpleik/internal/ik"
	"github.com/roach88/simpleik/internal/node"
	"github.com/roach88/simpleik/internal/rig"
	"github.com/roach88/simpleik/internal/store"
	"github.com/roach88/simpleik/internal/testutil"
	"github.com/roach88/simpleik/internal/vecmath"
)

// Harness executes one scenario against a fresh rig.
type Harness struct {
	rig      *rig.Rig
	recorder *store.Recorder
	logger   *slog.Logger

	target  vecmath.Vector3
	pole    vecmath.Vector3
	lastSeq int64
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory evaluation log for isolation.
// Execution flow:
//  1. Build the rig with every evaluation recorded to the log
//  2. For each step, move the locators, evaluate and check the expect clause
//  3. Evaluate assertions against the trace and the log
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	runID := "scenario:" + scenario.Name

	h := &Harness{
		recorder: store.NewRecorder(ctx, st, runID, logger),
		logger:   logger,
	}

	h.rig, err = rig.New(scenario.Rig,
		rig.WithLogger(logger),
		rig.WithIDGenerator(testutil.NewSequentialIDGenerator("node")),
		rig.WithNodeOptions(node.OnEvaluate(h.observe)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build rig: %w", err)
	}
	h.target = scenario.Rig.Target.Vector()
	h.pole = scenario.Rig.Pole.Vector()

	result := NewResult()
	for i, step := range scenario.Steps {
		if err := h.executeStep(i, step, result); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
	}
	if err := h.recorder.Err(); err != nil {
		return nil, fmt.Errorf("failed to record evaluations: %w", err)
	}

	actx := &AssertionContext{
		Store: st,
		Ctx:   ctx,
		RunID: runID,
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

func (h *Harness) observe(ev node.Evaluation) {
	h.lastSeq = ev.Seq
	h.recorder.Observe(ev)
}

// executeStep applies one step. Only harness failures are returned;
// mismatches against the expect clause are added to result.
func (h *Harness) executeStep(i int, step Step, result *Result) error {
	if step.Target != nil {
		h.target = step.Target.Vector()
		if err := h.rig.MoveTarget(h.target); err != nil {
			return err
		}
	}
	if step.Pole != nil {
		h.pole = step.Pole.Vector()
		if err := h.rig.MovePole(h.pole); err != nil {
			return err
		}
	}

	pose, solveErr := h.rig.Evaluate()
	code := string(ik.CodeOf(solveErr))
	if solveErr != nil && code == "" {
		// Not a solve failure: the rig itself is broken.
		return solveErr
	}

	result.AddTrace(TraceEvent{
		Step:           i,
		Seq:            h.lastSeq,
		Target:         roundVec(h.target),
		Pole:           roundVec(h.pole),
		BendAngle:      round6(pose.Outputs.BendAngle),
		StretchedEdgeA: round6(pose.Outputs.StretchedEdgeA),
		StretchedEdgeB: round6(pose.Outputs.StretchedEdgeB),
		RootAngle:      round6(pose.Outputs.RootAngle),
		Mid:            roundVec(pose.Mid),
		End:            roundVec(pose.End),
		Error:          code,
	})

	for _, msg := range checkExpect(step.Expect, pose, code) {
		result.AddError(fmt.Sprintf("step %d: %s", i, msg))
	}

	h.logger.Info("step completed",
		"step", i,
		"seq", h.lastSeq,
		"error", code,
	)
	return nil
}

// checkExpect compares a step's outcome against its expect clause.
func checkExpect(expect *Expect, pose rig.Pose, code string) []string {
	if expect == nil {
		if code != "" {
			return []string{fmt.Sprintf("unexpected error %s", code)}
		}
		return nil
	}

	var msgs []string
	if code != expect.Error {
		want, got := expect.Error, code
		if want == "" {
			want = "success"
		}
		if got == "" {
			got = "success"
		}
		msgs = append(msgs, fmt.Sprintf("expected %s, got %s", want, got))
	}

	tol := expect.Tolerance
	if tol == 0 {
		tol = DefaultTolerance
	}

	scalars := []struct {
		name string
		want *float64
		got  float64
	}{
		{"bend_angle", expect.BendAngle, pose.Outputs.BendAngle},
		{"stretched_edge_a", expect.StretchedEdgeA, pose.Outputs.StretchedEdgeA},
		{"stretched_edge_b", expect.StretchedEdgeB, pose.Outputs.StretchedEdgeB},
		{"root_angle", expect.RootAngle, pose.Outputs.RootAngle},
	}
	for _, s := range scalars {
		if s.want != nil && !(math.Abs(*s.want-s.got) <= tol) {
			msgs = append(msgs, fmt.Sprintf("%s: expected %g, got %g", s.name, *s.want, s.got))
		}
	}

	vectors := []struct {
		name string
		want *[3]float64
		got  vecmath.Vector3
	}{
		{"mid", (*[3]float64)(expect.Mid), pose.Mid},
		{"end", (*[3]float64)(expect.End), pose.End},
	}
	for _, v := range vectors {
		if v.want != nil && !vecWithin(*v.want, v.got, tol) {
			msgs = append(msgs, fmt.Sprintf("%s: expected %v, got %v", v.name, *v.want, roundVec(v.got)))
		}
	}
	return msgs
}

func vecWithin(want [3]float64, got vecmath.Vector3, tol float64) bool {
	return math.Abs(want[0]-got.X) <= tol &&
		math.Abs(want[1]-got.Y) <= tol &&
		math.Abs(want[2]-got.Z) <= tol
}
