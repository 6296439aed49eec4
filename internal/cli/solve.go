package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/simpleik/internal/node"
	"github.com/roach88/simpleik/internal/vecmath"
)

// SolveOptions holds flags for the solve command.
type SolveOptions struct {
	*RootOptions
	EdgeA           float64
	EdgeB           float64
	Target          vec3Value
	Pole            vec3Value
	Twist           float64
	Soften          float64
	DoSoften        bool
	StretchStrength float64
}

// NewSolveCommand creates the solve command.
func NewSolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SolveOptions{
		RootOptions: rootOpts,
		Target:      vec3Value{X: 6},
		Pole:        vec3Value{X: 6, Y: 1},
	}

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve a single two-bone chain",
		Long: `Solve one two-bone chain rooted at the origin and print the node outputs
together with the mid joint and end effector positions.

Exit codes:
  0 - Solved
  1 - Degenerate configuration (zero edge, target at the root, pole parallel to the aim)
  2 - Command error (invalid flags)

Examples:
  simpleik solve
  simpleik solve --edge-a 3 --edge-b 4 --target 5,0,0 --pole 0,1,0
  simpleik solve --target 9,0,0 --stretch-strength 0.5 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(opts, cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.EdgeA, "edge-a", 4, "length of the root bone")
	cmd.Flags().Float64Var(&opts.EdgeB, "edge-b", 2, "length of the end bone")
	cmd.Flags().Var(&opts.Target, "target", "target location")
	cmd.Flags().Var(&opts.Pole, "pole", "pole vector the chain bends toward")
	cmd.Flags().Float64Var(&opts.Twist, "twist", 0, "roll about the aim direction (radians)")
	cmd.Flags().Float64Var(&opts.Soften, "soften", 0, "distance over which full extension is eased in")
	cmd.Flags().BoolVar(&opts.DoSoften, "do-soften", true, "apply --soften")
	cmd.Flags().Float64Var(&opts.StretchStrength, "stretch-strength", 1, "bone stretch blend for out-of-reach targets (0..1)")

	return cmd
}

func runSolve(opts *SolveOptions, cmd *cobra.Command) error {
	formatter := NewOutputFormatter(opts.RootOptions, cmd)

	n := node.NewIKNode(node.WithName("solve"), node.WithLogger(slog.Default()))
	inputs := []struct {
		attr  node.Attribute
		value node.Value
	}{
		{node.StaticEdgeA, node.Scalar(opts.EdgeA)},
		{node.StaticEdgeB, node.Scalar(opts.EdgeB)},
		{node.TargetLocation, node.Vector(opts.Target)},
		{node.PoleVector, node.Vector(opts.Pole)},
		{node.Twist, node.Scalar(opts.Twist)},
		{node.Soften, node.Scalar(opts.Soften)},
		{node.DoSoften, node.Bool(opts.DoSoften)},
		{node.StretchStrength, node.Scalar(opts.StretchStrength)},
	}
	for _, in := range inputs {
		if err := n.SetInput(in.attr, in.value); err != nil {
			return WrapExitError(ExitCommandError, "failed to set input", err)
		}
	}

	formatter.VerboseLog("Solving edges %g/%g toward %s", opts.EdgeA, opts.EdgeB,
		formatVec(vecmath.Vector3(opts.Target)))

	out, err := n.Outputs()
	if err != nil {
		if outErr := formatter.Error(errorCode(err), err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitFailure, "solve failed", err)
	}

	view := newPoseView(out)
	if opts.Format == "json" {
		return formatter.Success(view)
	}
	writePoseText(cmd.OutOrStdout(), "", view)
	return nil
}
