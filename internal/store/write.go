package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/simpleik/internal/ik"
	"github.com/roach88/simpleik/internal/node"
)

// Evaluation is one logged compute pass.
type Evaluation struct {
	RunID string
	Seq   int64
	Node  string

	Inputs  ik.Inputs
	Outputs ik.Outputs

	// ErrorCode and ErrorMessage are empty for successful solves.
	ErrorCode    string
	ErrorMessage string
}

// Failed reports whether the evaluation recorded an error.
func (e Evaluation) Failed() bool {
	return e.ErrorCode != ""
}

// ErrAlreadyRecorded is reported by Recorder when a (run, node, seq) key is
// already in the log.
var ErrAlreadyRecorded = errors.New("evaluation already recorded")

// unknownErrorCode marks failures that carry no solver error code.
const unknownErrorCode = "ERROR"

// FromNode converts a node evaluation into a log row for runID.
func FromNode(runID string, ev node.Evaluation) Evaluation {
	rec := Evaluation{
		RunID:   runID,
		Seq:     ev.Seq,
		Node:    ev.Node,
		Inputs:  ev.Inputs,
		Outputs: ev.Outputs,
	}
	if ev.Err != nil {
		rec.ErrorCode = string(ik.CodeOf(ev.Err))
		if rec.ErrorCode == "" {
			rec.ErrorCode = unknownErrorCode
		}
		rec.ErrorMessage = ev.Err.Error()
	}
	return rec
}

// WriteEvaluation appends an evaluation. Writing the same
// (run_id, node, seq) twice leaves the first row in place.
//
// Returns inserted=true if a new row was stored, false if the key was
// already present.
func (s *Store) WriteEvaluation(ctx context.Context, ev Evaluation) (inserted bool, err error) {
	inputsJSON, err := marshalInputs(ev.Inputs)
	if err != nil {
		return false, fmt.Errorf("write evaluation: %w", err)
	}
	outputsJSON, err := marshalOutputs(ev.Outputs)
	if err != nil {
		return false, fmt.Errorf("write evaluation: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO evaluations
		(run_id, seq, node, inputs, outputs, error_code, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		ev.RunID,
		ev.Seq,
		ev.Node,
		inputsJSON,
		outputsJSON,
		ev.ErrorCode,
		ev.ErrorMessage,
	)
	if err != nil {
		return false, fmt.Errorf("write evaluation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write evaluation rows affected: %w", err)
	}
	return rows > 0, nil
}
