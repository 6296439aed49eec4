package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/simpleik/internal/config"
)

// RigValidation holds the validation outcome of one rig file.
type RigValidation struct {
	Path  string `json:"path"`
	Valid bool   `json:"valid"`
	Name  string `json:"name,omitempty"`

	// Field is the offending rig field for schema violations.
	Field string `json:"field,omitempty"`
	Error string `json:"error,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool            `json:"valid"`
	Rigs  []RigValidation `json:"rigs"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <rig.yaml>...",
		Short: "Validate rig files against the rig schema",
		Long: `Decode rig YAML files and check them against the embedded CUE schema
without solving. Unknown fields, non-positive edges and out-of-range
stretch strengths are rejected.

Exit codes:
  0 - All rig files valid
  1 - One or more rig files invalid
  2 - Command error (missing file)`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := NewOutputFormatter(opts, cmd)

	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return NewExitError(ExitCommandError, fmt.Sprintf("rig file not found: %s", path))
		}
	}

	result := ValidationResult{
		Valid: true,
		Rigs:  make([]RigValidation, 0, len(paths)),
	}
	for _, path := range paths {
		formatter.VerboseLog("Validating %s", path)
		result.Rigs = append(result.Rigs, validateRigFile(path))
		if !result.Rigs[len(result.Rigs)-1].Valid {
			result.Valid = false
		}
	}

	if opts.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: result}
		if !result.Valid {
			resp.Status = "error"
			resp.Error = &CLIError{Code: ErrCodeInvalidConfig, Message: "rig validation failed"}
		}
		if err := formatter.encode(resp); err != nil {
			return err
		}
	} else {
		outputValidateText(cmd, result)
	}

	if !result.Valid {
		return NewExitError(ExitFailure, "rig validation failed")
	}
	return nil
}

func validateRigFile(path string) RigValidation {
	cfg, err := config.Load(path)
	if err != nil {
		v := RigValidation{Path: path, Error: err.Error()}
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			v.Field = verr.Field
		}
		return v
	}
	return RigValidation{Path: path, Valid: true, Name: cfg.Name}
}

func outputValidateText(cmd *cobra.Command, result ValidationResult) {
	w := cmd.OutOrStdout()

	for _, r := range result.Rigs {
		if r.Valid {
			fmt.Fprintf(w, "✓ %s (%s)\n", r.Path, r.Name)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", r.Path)
		fmt.Fprintf(w, "  %s\n", r.Error)
	}

	if result.Valid {
		fmt.Fprintln(w, "✓ All rigs valid")
	}
}
