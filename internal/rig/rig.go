// Package rig assembles a three-joint chain driven by a two-bone IK node.
//
// It reproduces the usual scene setup: a target and a pole locator whose
// translates feed the node's targetLocation and poleVector, static edge
// lengths from the rig config, and the node outputs applied to the joints
// by forward kinematics.
package rig

import (
	"fmt"
	"log/slog"

	"github.com/roach88/simpleik/internal/config"
	"github.com/roach88/simpleik/internal/graph"
	"github.com/roach88/simpleik/internal/ik"
	"github.com/roach88/simpleik/internal/node"
	"github.com/roach88/simpleik/internal/vecmath"
)

// Pose is the world-space result of one rig evaluation.
type Pose struct {
	Root vecmath.Vector3
	Mid  vecmath.Vector3
	End  vecmath.Vector3

	// Outputs are the node outputs the joints were placed from.
	Outputs ik.Outputs
}

// Rig owns the graph holding the chain's nodes.
type Rig struct {
	name   string
	graph  *graph.Graph
	logger *slog.Logger

	targetID string
	poleID   string
	ikID     string

	pose    Pose
	lastErr error
}

type options struct {
	logger   *slog.Logger
	ids      graph.IDGenerator
	nodeOpts []node.Option
}

// Option configures a Rig.
type Option func(*options)

// WithLogger sets the logger for the rig, its graph and its node.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithIDGenerator sets the graph's node id generator.
func WithIDGenerator(ids graph.IDGenerator) Option {
	return func(o *options) {
		o.ids = ids
	}
}

// WithNodeOptions passes extra options to the IK node, such as an
// evaluation observer or an instrumented solver.
func WithNodeOptions(opts ...node.Option) Option {
	return func(o *options) {
		o.nodeOpts = append(o.nodeOpts, opts...)
	}
}

// New builds a rig from cfg. Nothing is solved until Evaluate.
func New(cfg *config.Rig, opts ...Option) (*Rig, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	graphOpts := []graph.Option{graph.WithLogger(o.logger)}
	if o.ids != nil {
		graphOpts = append(graphOpts, graph.WithIDGenerator(o.ids))
	}

	r := &Rig{
		name:   cfg.Name,
		graph:  graph.New(graphOpts...),
		logger: o.logger,
		pose:   Pose{Outputs: ik.DefaultOutputs()},
	}

	var err error
	if r.targetID, err = r.graph.AddNode(graph.NewLocator("target")); err != nil {
		return nil, fmt.Errorf("failed to add target: %w", err)
	}
	if r.poleID, err = r.graph.AddNode(graph.NewLocator("pole")); err != nil {
		return nil, fmt.Errorf("failed to add pole: %w", err)
	}

	nodeOpts := append([]node.Option{node.WithName(cfg.Name), node.WithLogger(o.logger)}, o.nodeOpts...)
	if r.ikID, err = r.graph.AddNode(node.NewIKNode(nodeOpts...)); err != nil {
		return nil, fmt.Errorf("failed to add IK node: %w", err)
	}

	connections := []graph.Connection{
		{Src: graph.Plug{Node: r.targetID, Attr: graph.Translate}, Dst: graph.Plug{Node: r.ikID, Attr: node.TargetLocation}},
		{Src: graph.Plug{Node: r.poleID, Attr: graph.Translate}, Dst: graph.Plug{Node: r.ikID, Attr: node.PoleVector}},
	}
	for _, c := range connections {
		if err := r.graph.Connect(c.Src, c.Dst); err != nil {
			return nil, fmt.Errorf("failed to connect %s: %w", c.Dst, err)
		}
	}

	in := cfg.Inputs()
	statics := []struct {
		attr node.Attribute
		v    node.Value
	}{
		{node.StaticEdgeA, node.Scalar(in.EdgeA)},
		{node.StaticEdgeB, node.Scalar(in.EdgeB)},
		{node.Twist, node.Scalar(in.Twist)},
		{node.Soften, node.Scalar(in.Soften)},
		{node.DoSoften, node.Bool(in.DoSoften)},
		{node.StretchStrength, node.Scalar(in.StretchStrength)},
	}
	for _, s := range statics {
		if err := r.graph.Set(r.ikID, s.attr, s.v); err != nil {
			return nil, fmt.Errorf("failed to set %s: %w", s.attr, err)
		}
	}

	if err := r.MoveTarget(in.TargetLocation); err != nil {
		return nil, err
	}
	if err := r.MovePole(in.PoleVector); err != nil {
		return nil, err
	}
	return r, nil
}

// Name returns the IK node name.
func (r *Rig) Name() string {
	return r.name
}

// Graph returns the underlying graph.
func (r *Rig) Graph() *graph.Graph {
	return r.graph
}

// IKNodeID returns the graph id of the IK node.
func (r *Rig) IKNodeID() string {
	return r.ikID
}

// MoveTarget sets the target locator's translate.
func (r *Rig) MoveTarget(p vecmath.Vector3) error {
	if err := r.graph.Set(r.targetID, graph.Translate, node.Vector(p)); err != nil {
		return fmt.Errorf("failed to move target: %w", err)
	}
	return nil
}

// MovePole sets the pole locator's translate.
func (r *Rig) MovePole(p vecmath.Vector3) error {
	if err := r.graph.Set(r.poleID, graph.Translate, node.Vector(p)); err != nil {
		return fmt.Errorf("failed to move pole: %w", err)
	}
	return nil
}

// Evaluate pulls every node output through the graph and places the joints.
//
// When the solve fails the last good pose is returned with the error, so
// the chain holds still instead of snapping to a default pose.
func (r *Rig) Evaluate() (Pose, error) {
	out, err := r.pull()
	if err != nil {
		r.lastErr = err
		r.logger.Warn("rig evaluation failed, holding pose",
			"rig", r.name,
			"code", ik.CodeOf(err),
		)
		return r.pose, err
	}

	mid, end := out.Joints()
	r.pose = Pose{Mid: mid, End: end, Outputs: out}
	r.lastErr = nil
	return r.pose, nil
}

// Err returns the failure of the latest Evaluate, or nil.
func (r *Rig) Err() error {
	return r.lastErr
}

func (r *Rig) pull() (ik.Outputs, error) {
	var out ik.Outputs

	fields := []struct {
		attr node.Attribute
		set  func(node.Value)
	}{
		{node.Orientation, func(v node.Value) { out.Orientation = v.(node.Rotation).Rot() }},
		{node.BendAngle, func(v node.Value) { out.BendAngle = float64(v.(node.Scalar)) }},
		{node.StretchedEdgeA, func(v node.Value) { out.StretchedEdgeA = float64(v.(node.Scalar)) }},
		{node.StretchedEdgeB, func(v node.Value) { out.StretchedEdgeB = float64(v.(node.Scalar)) }},
		{node.RootAngle, func(v node.Value) { out.RootAngle = float64(v.(node.Scalar)) }},
		{node.RootOrientation, func(v node.Value) { out.RootOrientation = v.(node.Rotation).Rot() }},
	}
	for _, f := range fields {
		v, err := r.graph.Get(r.ikID, f.attr)
		if err != nil {
			return ik.Outputs{}, fmt.Errorf("rig %s: %w", r.name, err)
		}
		f.set(v)
	}
	return out, nil
}
