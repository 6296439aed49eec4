package config

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"golang.org/x/text/unicode/norm"
)

//go:embed schema.cue
var schemaSource string

// ValidationError reports a rig field that does not satisfy the schema.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate normalizes r.Name to NFC and checks r against the embedded
// schema. Only the first violation is reported.
func Validate(r *Rig) error {
	r.Name = norm.NFC.String(r.Name)

	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("failed to compile rig schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Rig"))

	value := ctx.Encode(r)
	if err := value.Err(); err != nil {
		return fmt.Errorf("failed to encode rig: %w", err)
	}

	if err := def.Unify(value).Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(err)
	}
	return nil
}

// formatCUEError turns the first CUE error into a ValidationError.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &ValidationError{Message: err.Error()}
	}

	first := errs[0]
	format, args := first.Msg()
	field := strings.TrimPrefix(strings.Join(first.Path(), "."), "#Rig.")
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}
