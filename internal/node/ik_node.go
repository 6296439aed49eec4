package node

import (
	"github.com/roach88/simpleik/internal/ik"
)

// IKNode hosts the two-bone solver behind the attribute surface.
//
// All outputs are computed together, so one dirty flag covers them and any
// number of pulls between two input writes triggers at most one solve.
type IKNode struct {
	core
	outputs ik.Outputs
}

// NewIKNode creates a node with default inputs and identity outputs.
func NewIKNode(opts ...Option) *IKNode {
	n := &IKNode{outputs: ik.DefaultOutputs()}
	n.init("twoBoneIK", ikAttributes, opts)
	return n
}

// GetOutput returns one output, solving first if an input changed.
//
// When the solve fails the returned value is the last good (or default)
// output, returned together with the error so the host can choose between
// failing the evaluation and holding the previous pose.
func (n *IKNode) GetOutput(attr Attribute) (Value, error) {
	err := n.pull(attr, n.solve)
	if IsAttributeError(err) {
		return nil, err
	}
	return ikOutput(n.outputs, attr), err
}

// Outputs pulls every output at once.
func (n *IKNode) Outputs() (ik.Outputs, error) {
	err := n.pull(BendAngle, n.solve)
	return n.outputs, err
}

func (n *IKNode) solve(in ik.Inputs) (ik.Outputs, error) {
	out, err := n.solver.Solve(in)
	if err != nil {
		return ik.Outputs{}, err
	}
	n.outputs = out
	return out, nil
}

func ikOutput(out ik.Outputs, attr Attribute) Value {
	switch attr {
	case Orientation:
		return Rotation(out.Orientation)
	case BendAngle:
		return Scalar(out.BendAngle)
	case StretchedEdgeA:
		return Scalar(out.StretchedEdgeA)
	case StretchedEdgeB:
		return Scalar(out.StretchedEdgeB)
	case RootAngle:
		return Scalar(out.RootAngle)
	case RootOrientation:
		return Rotation(out.RootOrientation)
	}
	return nil
}
