package node

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/roach88/simpleik/internal/ik"
)

// Node is the plain attribute surface a host graph drives.
//
// Hosts write inputs with SetInput and pull outputs with GetOutput. A node
// recomputes lazily: writes only mark it dirty, the first pull afterwards
// evaluates, and further pulls reuse the cached result.
type Node interface {
	Name() string
	Attributes() []AttributeSpec
	SetInput(attr Attribute, v Value) error
	GetOutput(attr Attribute) (Value, error)
}

// Evaluation records one compute pass. It is handed to observers after
// every evaluation, successful or not.
type Evaluation struct {
	// Seq is the node-local logical clock value; the first evaluation is 1.
	Seq     int64
	Node    string
	Inputs  ik.Inputs
	Outputs ik.Outputs
	Err     error
}

// Option configures a node.
type Option func(*core)

// WithName sets the node name used in logs, errors and evaluation records.
func WithName(name string) Option {
	return func(c *core) {
		c.name = name
	}
}

// WithSolver replaces the solver. Used to instrument call counts in tests.
func WithSolver(s ik.Solver) Option {
	return func(c *core) {
		c.solver = s
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *core) {
		c.logger = l
	}
}

// OnEvaluate registers a callback invoked after every evaluation.
func OnEvaluate(fn func(Evaluation)) Option {
	return func(c *core) {
		c.onEvaluate = fn
	}
}

// OnDirty registers a callback invoked whenever an input write dirties the
// node, so a host can push staleness to downstream plugs.
func OnDirty(fn func()) Option {
	return func(c *core) {
		c.onDirty = fn
	}
}

// core is the dirty/clean state machine shared by node types:
//
//	Clean --SetInput--> Dirty --pull, success--> Clean
//	                    Dirty --pull, failure--> Dirty
//
// A failed evaluation leaves the cached outputs untouched and is retried
// on the next pull.
type core struct {
	name   string
	attrs  attributeSet
	solver ik.Solver
	logger *slog.Logger

	inputs  ik.Inputs
	dirty   bool
	lastErr error
	seq     atomic.Int64

	onEvaluate func(Evaluation)
	onDirty    func()
}

func (c *core) init(name string, attrs attributeSet, opts []Option) {
	c.name = name
	c.attrs = attrs
	c.solver = ik.Default
	c.inputs = ik.DefaultInputs()
	c.dirty = true
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
}

// Name returns the node name.
func (c *core) Name() string {
	return c.name
}

// Attributes returns the node's plug table.
func (c *core) Attributes() []AttributeSpec {
	out := make([]AttributeSpec, len(c.attrs))
	copy(out, c.attrs)
	return out
}

// SetInput overwrites one input and marks the outputs dirty.
// Only the attribute name, direction and value kind are checked.
func (c *core) SetInput(attr Attribute, v Value) error {
	if err := c.attrs.checkInput(c.name, attr, v); err != nil {
		return err
	}
	applyInput(&c.inputs, attr, v)
	c.dirty = true
	if c.onDirty != nil {
		c.onDirty()
	}
	return nil
}

// Inputs returns the current input snapshot.
func (c *core) Inputs() ik.Inputs {
	return c.inputs
}

// Dirty reports whether the next pull will evaluate.
func (c *core) Dirty() bool {
	return c.dirty
}

// Err returns the failure of the most recent evaluation, or nil.
func (c *core) Err() error {
	return c.lastErr
}

// Evaluations returns the number of evaluations performed so far.
func (c *core) Evaluations() int64 {
	return c.seq.Load()
}

// pull evaluates when dirty. compute stores results in the concrete node
// only on success.
func (c *core) pull(attr Attribute, compute func(ik.Inputs) (ik.Outputs, error)) error {
	if _, err := c.attrs.lookup(c.name, attr, Output); err != nil {
		return err
	}
	if !c.dirty {
		return nil
	}

	seq := c.seq.Add(1)
	out, err := compute(c.inputs)
	if c.onEvaluate != nil {
		c.onEvaluate(Evaluation{
			Seq:     seq,
			Node:    c.name,
			Inputs:  c.inputs,
			Outputs: out,
			Err:     err,
		})
	}

	if err != nil {
		c.lastErr = fmt.Errorf("evaluate %s: %w", c.name, err)
		c.logger.Warn("evaluation failed, holding last outputs",
			"node", c.name,
			"seq", seq,
			"code", ik.CodeOf(err),
			"error", err,
		)
		return c.lastErr
	}

	c.dirty = false
	c.lastErr = nil
	c.logger.Debug("evaluated",
		"node", c.name,
		"seq", seq,
	)
	return nil
}

func applyInput(in *ik.Inputs, attr Attribute, v Value) {
	switch attr {
	case StaticEdgeA:
		in.EdgeA = float64(v.(Scalar))
	case StaticEdgeB:
		in.EdgeB = float64(v.(Scalar))
	case TargetLocation:
		in.TargetLocation = v.(Vector).Vec()
	case PoleVector:
		in.PoleVector = v.(Vector).Vec()
	case Twist:
		in.Twist = float64(v.(Scalar))
	case Soften:
		in.Soften = float64(v.(Scalar))
	case DoSoften:
		in.DoSoften = bool(v.(Bool))
	case StretchStrength:
		in.StretchStrength = float64(v.(Scalar))
	}
}
