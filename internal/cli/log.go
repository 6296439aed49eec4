package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/simpleik/internal/store"
)

// LogOptions holds flags for the log command.
type LogOptions struct {
	*RootOptions
	RunID string // only show this run
	Runs  bool   // list run ids instead of evaluations
}

// LogEntry is one logged evaluation.
type LogEntry struct {
	RunID  string     `json:"run_id"`
	Seq    int64      `json:"seq"`
	Node   string     `json:"node"`
	Target [3]float64 `json:"target"`
	Pole   [3]float64 `json:"pole"`

	// Pose is set for successful evaluations only.
	Pose         *PoseView `json:"pose,omitempty"`
	ErrorCode    string    `json:"error_code,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

// NewLogCommand creates the log command.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "log <db>",
		Short: "Show evaluations recorded by eval --db",
		Long: `Read an evaluation log written by "simpleik eval --db".

Evaluations are listed in run order and then by node-local sequence.

Examples:
  simpleik log evals.db
  simpleik log evals.db --runs
  simpleik log evals.db --run 0192f0c1-... --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.RunID, "run", "", "only show evaluations of this run")
	cmd.Flags().BoolVar(&opts.Runs, "runs", false, "list run ids")

	return cmd
}

func runLog(opts *LogOptions, dbPath string, cmd *cobra.Command) error {
	formatter := NewOutputFormatter(opts.RootOptions, cmd)

	// store.Open would create a missing database.
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("evaluation log not found: %s", dbPath))
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open evaluation log", err)
	}
	defer st.Close()

	ctx := cmd.Context()

	if opts.Runs {
		runs, err := st.Runs(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
		if opts.Format == "json" {
			return formatter.Success(runs)
		}
		w := cmd.OutOrStdout()
		for _, run := range runs {
			fmt.Fprintln(w, run)
		}
		return nil
	}

	var evals []store.Evaluation
	if opts.RunID != "" {
		evals, err = st.ReadEvaluations(ctx, opts.RunID)
	} else {
		evals, err = st.ReadAll(ctx)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read evaluations", err)
	}
	formatter.VerboseLog("Read %d evaluation(s) from %s", len(evals), dbPath)

	entries := make([]LogEntry, len(evals))
	for i, ev := range evals {
		entries[i] = newLogEntry(ev)
	}

	if opts.Format == "json" {
		return formatter.Success(entries)
	}
	return outputLogText(cmd, entries)
}

func newLogEntry(ev store.Evaluation) LogEntry {
	entry := LogEntry{
		RunID:        ev.RunID,
		Seq:          ev.Seq,
		Node:         ev.Node,
		Target:       vecArray(ev.Inputs.TargetLocation),
		Pole:         vecArray(ev.Inputs.PoleVector),
		ErrorCode:    ev.ErrorCode,
		ErrorMessage: ev.ErrorMessage,
	}
	if !ev.Failed() {
		view := newPoseView(ev.Outputs)
		entry.Pose = &view
	}
	return entry
}

func outputLogText(cmd *cobra.Command, entries []LogEntry) error {
	w := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(w, "No evaluations recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSEQ\tNODE\tTARGET\tBEND\tEND\tERROR")
	for _, e := range entries {
		bend, end := "-", "-"
		if e.Pose != nil {
			bend = fmt.Sprintf("%.6f", e.Pose.BendAngle)
			end = formatFloats(e.Pose.End[:])
		}
		errCode := e.ErrorCode
		if errCode == "" {
			errCode = "-"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			e.RunID, e.Seq, e.Node, formatFloats(e.Target[:]), bend, end, errCode)
	}
	return tw.Flush()
}
