package ik

import (
	"github.com/roach88/simpleik/internal/vecmath"
)

// Joints places the mid joint and end effector of a solved chain whose root
// sits at the origin. It is the forward-kinematics inverse of Solve and is
// what a host applies when it wires RootOrientation, BendAngle and the
// stretched lengths onto a three-joint chain.
func (o Outputs) Joints() (mid, end vecmath.Vector3) {
	boneA := vecmath.Vector3{X: o.StretchedEdgeA}
	boneB := vecmath.Vector3{X: o.StretchedEdgeB}

	mid = vecmath.Rotate(o.RootOrientation, boneA)
	midRotation := vecmath.Compose(o.RootOrientation, vecmath.AxisAngle(BendAxis, o.BendAngle))
	end = vecmath.Add(mid, vecmath.Rotate(midRotation, boneB))
	return mid, end
}
