package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/roach88/simpleik/internal/node"
)

// Recorder appends node evaluations to a store under one run id. Its
// Observe method plugs into node.OnEvaluate.
//
// Write failures never interrupt evaluation; they are logged and the
// first one is kept for Err. An evaluation whose key is already stored
// counts as a failure wrapping ErrAlreadyRecorded.
type Recorder struct {
	ctx    context.Context
	store  *Store
	runID  string
	logger *slog.Logger

	mu       sync.Mutex
	written  int
	firstErr error
}

// NewRecorder creates a recorder for runID.
func NewRecorder(ctx context.Context, s *Store, runID string, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{ctx: ctx, store: s, runID: runID, logger: logger}
}

// RunID returns the run the recorder writes under.
func (r *Recorder) RunID() string {
	return r.runID
}

// Observe writes ev.
func (r *Recorder) Observe(ev node.Evaluation) {
	inserted, err := r.store.WriteEvaluation(r.ctx, FromNode(r.runID, ev))
	if err == nil && !inserted {
		err = fmt.Errorf("%w: run %s node %s seq %d", ErrAlreadyRecorded, r.runID, ev.Node, ev.Seq)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.logger.Error("failed to record evaluation",
			"run", r.runID,
			"node", ev.Node,
			"seq", ev.Seq,
			"error", err,
		)
		if r.firstErr == nil {
			r.firstErr = err
		}
		return
	}
	r.written++
}

// Written returns the number of evaluations stored so far.
func (r *Recorder) Written() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.written
}

// Err returns the first write failure, or nil.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.firstErr
}
