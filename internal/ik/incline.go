package ik

import (
	"math"

	"github.com/roach88/simpleik/internal/vecmath"
)

// InclineAngle returns the angle a root joint needs to lift bone A toward
// the target in the chain's vertical (XY) plane: the interior root angle
// plus the target's incline, with the slope clamped to ±45°.
//
// Only EdgeA, EdgeB, TargetLocation, Soften and DoSoften are read.
func InclineAngle(in Inputs) (float64, error) {
	if !vecmath.IsFinite(in.TargetLocation) {
		return 0, newDegenerateVectorError("target location", nil)
	}
	distance := vecmath.Length(in.TargetLocation)
	if distance == 0 {
		return 0, newDegenerateTargetError()
	}
	if err := checkEdge("A", in.EdgeA); err != nil {
		return 0, err
	}
	if err := checkEdge("B", in.EdgeB); err != nil {
		return 0, err
	}

	edgeC := softenEdge(math.Max(distance, in.EdgeA-in.EdgeB), in.EdgeA+in.EdgeB, in.softness())
	slope := vecmath.Clamp(in.TargetLocation.Y/vecmath.NonZero(in.TargetLocation.X), -1, 1)

	return oppositeAngle(in.EdgeA, edgeC, in.EdgeB) + math.Atan(slope), nil
}
