package store

import (
	"context"
	"database/sql"
	"fmt"
)

// ReadEvaluations returns the evaluations of one run ordered by
// seq ASC, node ASC. Returns an empty slice (not nil) for unknown runs.
func (s *Store) ReadEvaluations(ctx context.Context, runID string) ([]Evaluation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, seq, node, inputs, outputs, error_code, error_message
		FROM evaluations
		WHERE run_id = ?
		ORDER BY seq ASC, node COLLATE BINARY ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query evaluations: %w", err)
	}
	return scanEvaluations(rows)
}

// ReadAll returns every logged evaluation grouped by run in the order runs
// were first written, each run ordered as in ReadEvaluations.
func (s *Store) ReadAll(ctx context.Context) ([]Evaluation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.run_id, e.seq, e.node, e.inputs, e.outputs, e.error_code, e.error_message
		FROM evaluations e
		JOIN (SELECT run_id, MIN(id) AS first_id FROM evaluations GROUP BY run_id) r
		  ON r.run_id = e.run_id
		ORDER BY r.first_id ASC, e.seq ASC, e.node COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query evaluations: %w", err)
	}
	return scanEvaluations(rows)
}

// HasRun reports whether any evaluation is logged under runID.
func (s *Store) HasRun(ctx context.Context, runID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM evaluations WHERE run_id = ?)`, runID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query run: %w", err)
	}
	return exists, nil
}

// Runs returns run ids in the order they were first written.
func (s *Store) Runs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id FROM evaluations
		GROUP BY run_id
		ORDER BY MIN(id) ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

func scanEvaluations(rows *sql.Rows) ([]Evaluation, error) {
	defer rows.Close()

	evals := []Evaluation{}
	for rows.Next() {
		var ev Evaluation
		var inputsJSON, outputsJSON string
		if err := rows.Scan(
			&ev.RunID, &ev.Seq, &ev.Node, &inputsJSON, &outputsJSON,
			&ev.ErrorCode, &ev.ErrorMessage,
		); err != nil {
			return nil, fmt.Errorf("scan evaluation: %w", err)
		}

		var err error
		if ev.Inputs, err = unmarshalInputs(inputsJSON); err != nil {
			return nil, err
		}
		if ev.Outputs, err = unmarshalOutputs(outputsJSON); err != nil {
			return nil, err
		}
		evals = append(evals, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate evaluations: %w", err)
	}
	return evals, nil
}
