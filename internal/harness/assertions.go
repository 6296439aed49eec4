package harness

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/roach88/simpleik/internal/store"
)

// AssertionContext gives assertions access to the run's evaluation log.
type AssertionContext struct {
	Store *store.Store
	Ctx   context.Context
	RunID string
}

// AssertionError is returned when an assertion fails.
// It includes the trace to help debug the failure.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, ev := range e.Trace {
		status := "ok"
		if ev.Error != "" {
			status = ev.Error
		}
		fmt.Fprintf(&buf, "  [%d] seq=%d target=%v end=%v %s\n", ev.Step, ev.Seq, ev.Target, ev.End, status)
	}

	return buf.String()
}

// EvaluateAssertions runs every assertion and returns the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for _, a := range assertions {
		if err := evaluateAssertion(result, a, actx); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func evaluateAssertion(result *Result, a Assertion, actx *AssertionContext) error {
	switch a.Type {
	case AssertSolveCount:
		return assertSolveCount(result.Trace, a, actx)
	case AssertErrorCount:
		return assertErrorCount(result.Trace, a, actx)
	case AssertErrorOrder:
		return assertErrorOrder(result.Trace, a)
	case AssertFinalEnd:
		return assertFinalEnd(result.Trace, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertSolveCount checks the number of logged evaluations. Pulls served
// from the cache are not evaluations, so this pins down memoization.
func assertSolveCount(trace []TraceEvent, a Assertion, actx *AssertionContext) error {
	evals, err := actx.Store.ReadEvaluations(actx.Ctx, actx.RunID)
	if err != nil {
		return fmt.Errorf("solve_count: %w", err)
	}
	if len(evals) != a.Count {
		return &AssertionError{
			Type:     AssertSolveCount,
			Expected: fmt.Sprintf("%d evaluations", a.Count),
			Actual:   fmt.Sprintf("%d evaluations", len(evals)),
			Trace:    trace,
		}
	}
	return nil
}

func assertErrorCount(trace []TraceEvent, a Assertion, actx *AssertionContext) error {
	evals, err := actx.Store.ReadEvaluations(actx.Ctx, actx.RunID)
	if err != nil {
		return fmt.Errorf("error_count: %w", err)
	}
	failed := 0
	for _, ev := range evals {
		if ev.Failed() {
			failed++
		}
	}
	if failed != a.Count {
		return &AssertionError{
			Type:     AssertErrorCount,
			Expected: fmt.Sprintf("%d failed evaluations", a.Count),
			Actual:   fmt.Sprintf("%d failed evaluations", failed),
			Trace:    trace,
		}
	}
	return nil
}

func assertErrorOrder(trace []TraceEvent, a Assertion) error {
	var codes []string
	for _, ev := range trace {
		if ev.Error != "" {
			codes = append(codes, ev.Error)
		}
	}
	if !slices.Equal(codes, a.Codes) {
		return &AssertionError{
			Type:     AssertErrorOrder,
			Expected: fmt.Sprintf("%v", a.Codes),
			Actual:   fmt.Sprintf("%v", codes),
			Trace:    trace,
		}
	}
	return nil
}

func assertFinalEnd(trace []TraceEvent, a Assertion) error {
	if len(trace) == 0 {
		return &AssertionError{
			Type:     AssertFinalEnd,
			Expected: fmt.Sprintf("end at %v", *a.End),
			Actual:   "empty trace",
		}
	}

	tol := a.Tolerance
	if tol == 0 {
		tol = DefaultTolerance
	}
	end := trace[len(trace)-1].End
	for i := range end {
		if math.Abs(end[i]-a.End[i]) > tol {
			return &AssertionError{
				Type:     AssertFinalEnd,
				Expected: fmt.Sprintf("end at %v", *a.End),
				Actual:   fmt.Sprintf("end at %v", end),
				Trace:    trace,
			}
		}
	}
	return nil
}
