package node

import (
	"github.com/roach88/simpleik/internal/ik"
)

// InclineNode computes the root incline angle of a two-bone chain lying in
// the XY plane. It shares the IK node's evaluation contract.
type InclineNode struct {
	core
	angle float64
}

// NewInclineNode creates an incline node with default inputs.
// WithSolver has no effect on it.
func NewInclineNode(opts ...Option) *InclineNode {
	n := &InclineNode{}
	n.init("inclineAngle", inclineAttributes, opts)
	return n
}

// GetOutput returns the incline angle, recomputing if an input changed.
// On failure the previous angle is returned with the error.
func (n *InclineNode) GetOutput(attr Attribute) (Value, error) {
	err := n.pull(attr, n.compute)
	if IsAttributeError(err) {
		return nil, err
	}
	return Scalar(n.angle), err
}

func (n *InclineNode) compute(in ik.Inputs) (ik.Outputs, error) {
	angle, err := ik.InclineAngle(in)
	if err != nil {
		return ik.Outputs{}, err
	}
	n.angle = angle
	return ik.Outputs{RootAngle: angle}, nil
}
