package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/simpleik/internal/config"
	"github.com/roach88/simpleik/internal/graph"
	"github.com/roach88/simpleik/internal/ik"
	"github.com/roach88/simpleik/internal/node"
	"github.com/roach88/simpleik/internal/rig"
	"github.com/roach88/simpleik/internal/store"
	"github.com/roach88/simpleik/internal/vecmath"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
	DB      string   // evaluation log path; empty disables recording
	RunID   string   // run id for recorded evaluations
	Targets []string // target sweep, one evaluation per entry
}

// EvalStep is the outcome of one rig evaluation.
type EvalStep struct {
	Target [3]float64 `json:"target"`

	// Pose is the evaluated pose, or the held pose when Error is set.
	// Nil when no evaluation has succeeded yet.
	Pose  *PoseView `json:"pose,omitempty"`
	Error *CLIError `json:"error,omitempty"`
}

// EvalResult holds the eval command output.
type EvalResult struct {
	Rig      string     `json:"rig"`
	RunID    string     `json:"run_id,omitempty"`
	Recorded int        `json:"recorded,omitempty"`
	Steps    []EvalStep `json:"steps"`
	Failed   int        `json:"failed"`
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval <rig.yaml>",
		Short: "Evaluate a rig file through the node graph",
		Long: `Build the rig described by a YAML file, connect its target and pole
locators to the IK node and pull the solved pose through the graph.

Repeat --target to sweep the target; each entry moves the target locator
and evaluates again. A failed evaluation holds the previous pose.
With --db every node evaluation is appended to a SQLite log under a
fresh UUIDv7 run id (or --run-id). A --run-id already in the log is
refused.

Exit codes:
  0 - Every evaluation succeeded
  1 - Invalid rig file or a failed evaluation
  2 - Command error (missing file, unusable log)

Examples:
  simpleik eval arm.yaml
  simpleik eval arm.yaml --target 5,0,0 --target 5,1,0 --db evals.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "append evaluations to this SQLite log")
	cmd.Flags().StringVar(&opts.RunID, "run-id", "", "run id for logged evaluations (default: new UUIDv7)")
	cmd.Flags().StringArrayVar(&opts.Targets, "target", nil, "target location x,y,z (repeatable)")

	return cmd
}

func runEval(opts *EvalOptions, path string, cmd *cobra.Command) error {
	formatter := NewOutputFormatter(opts.RootOptions, cmd)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("rig file not found: %s", path))
	}

	targets := make([]vecmath.Vector3, 0, len(opts.Targets))
	for _, s := range opts.Targets {
		t, err := parseVec3(s)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --target", err)
		}
		targets = append(targets, t)
	}

	cfg, err := config.Load(path)
	if err != nil {
		if outErr := formatter.Error(ErrCodeInvalidConfig, err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitFailure, "invalid rig file", err)
	}
	if len(targets) == 0 {
		targets = append(targets, cfg.Target.Vector())
	}

	logger := slog.Default()
	rigOpts := []rig.Option{rig.WithLogger(logger)}

	var rec *store.Recorder
	if opts.DB != "" {
		st, err := store.Open(opts.DB)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open evaluation log", err)
		}
		defer st.Close()

		runID := opts.RunID
		if runID == "" {
			runID = graph.UUIDv7Generator{}.Generate()
		} else {
			exists, err := st.HasRun(cmd.Context(), runID)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read evaluation log", err)
			}
			if exists {
				return NewExitError(ExitCommandError, fmt.Sprintf("run already recorded: %s", runID))
			}
		}
		rec = store.NewRecorder(cmd.Context(), st, runID, logger)
		rigOpts = append(rigOpts, rig.WithNodeOptions(node.OnEvaluate(rec.Observe)))
		formatter.VerboseLog("Recording evaluations to %s as run %s", opts.DB, runID)
	}

	r, err := rig.New(cfg, rigOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to build rig", err)
	}

	result := EvalResult{
		Rig:   r.Name(),
		Steps: make([]EvalStep, 0, len(targets)),
	}
	solved := false
	for _, target := range targets {
		if err := r.MoveTarget(target); err != nil {
			return WrapExitError(ExitCommandError, "failed to move target", err)
		}

		step := EvalStep{Target: vecArray(target)}
		pose, evalErr := r.Evaluate()
		if evalErr == nil {
			solved = true
		}
		if solved {
			view := newPoseView(pose.Outputs)
			step.Pose = &view
		}
		if evalErr != nil {
			result.Failed++
			step.Error = &CLIError{Code: errorCode(evalErr), Message: evalErr.Error()}
		}
		result.Steps = append(result.Steps, step)
	}

	if rec != nil {
		if err := rec.Err(); err != nil {
			return WrapExitError(ExitCommandError, "failed to record evaluations", err)
		}
		result.RunID = rec.RunID()
		result.Recorded = rec.Written()
	}

	if opts.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: result}
		if result.Failed > 0 {
			resp.Status = "error"
			resp.Error = &CLIError{
				Code:    result.Steps[firstFailed(result.Steps)].Error.Code,
				Message: fmt.Sprintf("%d evaluation(s) failed", result.Failed),
			}
		}
		if err := formatter.encode(resp); err != nil {
			return err
		}
	} else {
		outputEvalText(cmd, result)
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d evaluation(s) failed", result.Failed))
	}
	return nil
}

func outputEvalText(cmd *cobra.Command, result EvalResult) {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Rig: %s\n", result.Rig)
	if result.RunID != "" {
		fmt.Fprintf(w, "Run: %s (%d evaluation(s) recorded)\n", result.RunID, result.Recorded)
	}
	for i, step := range result.Steps {
		fmt.Fprintln(w)
		mark := "✓"
		if step.Error != nil {
			mark = "✗"
		}
		fmt.Fprintf(w, "%s step %d target %s\n", mark, i, formatFloats(step.Target[:]))
		if step.Error != nil {
			fmt.Fprintf(w, "  Error [%s]: %s\n", step.Error.Code, step.Error.Message)
			if step.Pose != nil {
				fmt.Fprintln(w, "  holding previous pose")
			}
		}
		if step.Pose != nil {
			writePoseText(w, "  ", *step.Pose)
		}
	}
}

// errorCode returns the solver code of err, or a generic code.
func errorCode(err error) string {
	if code := ik.CodeOf(err); code != "" {
		return string(code)
	}
	if code := graph.CodeOf(err); code != "" {
		return string(code)
	}
	return "ERROR"
}

func firstFailed(steps []EvalStep) int {
	for i, s := range steps {
		if s.Error != nil {
			return i
		}
	}
	return 0
}
