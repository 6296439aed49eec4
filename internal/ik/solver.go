package ik

import (
	"math"

	"github.com/roach88/simpleik/internal/vecmath"
)

// BendAxis is the mid joint's local axis the bend angle rotates about.
// A positive bend folds the second bone back toward the aim line from the
// pole side, so the mid joint always sits on the pole side of the chain.
var BendAxis = vecmath.Vector3{Z: -1}

// ParallelTolerance bounds |aim × pole| relative to |pole| below which the
// pole is treated as parallel to the aim direction.
const ParallelTolerance = 1e-9

// Inputs is one evaluation's snapshot of solver inputs.
// The chain root is the local origin and the rest pose lies along +X.
type Inputs struct {
	EdgeA          float64
	EdgeB          float64
	TargetLocation vecmath.Vector3
	PoleVector     vecmath.Vector3

	// Twist rolls the solved chain about the aim direction (radians).
	Twist float64

	// Soften eases the chain into full extension over the last Soften units
	// of reach. Only applied when DoSoften is set.
	Soften   float64
	DoSoften bool

	// StretchStrength blends bone stretching in: 0 keeps rest lengths,
	// 1 stretches the chain to exactly reach out-of-range targets.
	StretchStrength float64
}

// DefaultInputs returns the inputs of a freshly created node:
// zero lengths and vectors, no twist or softening, full stretch.
func DefaultInputs() Inputs {
	return Inputs{
		DoSoften:        true,
		StretchStrength: 1,
	}
}

// Outputs is the result of one solve. Values are immutable once produced.
type Outputs struct {
	// Orientation maps +X onto the aim direction and +Y onto the bend
	// direction (toward the pole), rolled by Twist.
	Orientation vecmath.Rotation

	// BendAngle is the mid joint rotation about BendAxis: 0 when the chain
	// is straight, growing toward π as it folds.
	BendAngle float64

	StretchedEdgeA float64
	StretchedEdgeB float64

	// RootAngle is the interior triangle angle at the root.
	RootAngle float64

	// RootOrientation is Orientation followed by RootAngle about the
	// bend-plane normal: the rotation that aims bone A itself.
	RootOrientation vecmath.Rotation
}

// DefaultOutputs returns identity rotations and zero scalars.
func DefaultOutputs() Outputs {
	return Outputs{
		Orientation:     vecmath.Identity(),
		RootOrientation: vecmath.Identity(),
	}
}

// Solver computes outputs from inputs.
type Solver interface {
	Solve(in Inputs) (Outputs, error)
}

// SolverFunc adapts a function to the Solver interface.
type SolverFunc func(in Inputs) (Outputs, error)

// Solve calls f(in).
func (f SolverFunc) Solve(in Inputs) (Outputs, error) {
	return f(in)
}

// Default is the closed-form two-bone solver.
var Default Solver = SolverFunc(Solve)

// Solve runs the two-bone IK solve.
//
// Failures are reported as *SolveError values; Solve holds no state.
// Targets closer than |EdgeA-EdgeB| clamp to the fully folded pose instead
// of failing.
func Solve(in Inputs) (Outputs, error) {
	if !vecmath.IsFinite(in.TargetLocation) {
		return Outputs{}, newDegenerateVectorError("target location", nil)
	}
	targetDistance := vecmath.Length(in.TargetLocation)
	if targetDistance == 0 {
		return Outputs{}, newDegenerateTargetError()
	}
	if err := checkEdge("A", in.EdgeA); err != nil {
		return Outputs{}, err
	}
	if err := checkEdge("B", in.EdgeB); err != nil {
		return Outputs{}, err
	}

	out := Outputs{}
	maxReach := in.EdgeA + in.EdgeB

	stretch := stretchScale(targetDistance, maxReach, in.StretchStrength)
	out.StretchedEdgeA = in.EdgeA * stretch
	out.StretchedEdgeB = in.EdgeB * stretch

	edgeC := softenEdge(targetDistance, maxReach, in.softness())
	if edgeC < maxReach {
		interior := oppositeAngle(in.EdgeA, in.EdgeB, edgeC)
		out.BendAngle = math.Pi - interior
		out.RootAngle = oppositeAngle(in.EdgeA, edgeC, in.EdgeB)
	}

	orientation, err := aimFrame(in.TargetLocation, in.PoleVector)
	if err != nil {
		return Outputs{}, err
	}
	if in.Twist != 0 {
		orientation = vecmath.Compose(orientation, vecmath.AxisAngle(vecmath.XAxis, in.Twist))
	}
	out.Orientation = orientation
	out.RootOrientation = vecmath.Compose(orientation, vecmath.AxisAngle(vecmath.ZAxis, out.RootAngle))

	return out, nil
}

// aimFrame returns the rotation mapping +X to the target direction and +Y
// to the component of pole perpendicular to it.
func aimFrame(target, pole vecmath.Vector3) (vecmath.Rotation, error) {
	aimDir, err := vecmath.Normalize(target)
	if err != nil {
		return vecmath.Rotation{}, newDegenerateVectorError("target location", err)
	}
	if !vecmath.IsFinite(pole) || vecmath.Length(pole) == 0 {
		return vecmath.Rotation{}, newDegenerateVectorError("pole vector", nil)
	}

	normal := vecmath.Cross(aimDir, pole)
	if vecmath.Length(normal) <= ParallelTolerance*vecmath.Length(pole) {
		return vecmath.Rotation{}, newParallelAimPoleError()
	}
	planeNormal, err := vecmath.Normalize(normal)
	if err != nil {
		return vecmath.Rotation{}, newDegenerateVectorError("bend plane normal", err)
	}
	bendDir, err := vecmath.Normalize(vecmath.Cross(planeNormal, aimDir))
	if err != nil {
		return vecmath.Rotation{}, newDegenerateVectorError("bend direction", err)
	}

	return vecmath.FromFrame(aimDir, bendDir, planeNormal), nil
}

func checkEdge(name string, length float64) error {
	if !(length > 0) || math.IsInf(length, 0) {
		return newDegenerateEdgeError(name, length)
	}
	return nil
}

// oppositeAngle returns the triangle angle opposite side c by the law of
// cosines. The cosine is clamped so that unreachable or boundary triangles
// give 0 or π instead of NaN. Sides are scaled by the longest one first so
// the squares neither overflow nor underflow; a and b must be positive.
func oppositeAngle(a, b, c float64) float64 {
	longest := math.Max(a, math.Max(b, c))
	a, b, c = a/longest, b/longest, c/longest
	cos := (a*a + b*b - c*c) / (2 * a * b)
	return math.Acos(vecmath.Clamp(cos, -1, 1))
}

func (in Inputs) softness() float64 {
	if !in.DoSoften || in.Soften <= 0 {
		return 0
	}
	return in.Soften
}
