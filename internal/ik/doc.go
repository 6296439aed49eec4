// Package ik implements the closed-form two-bone inverse-kinematics solve.
//
// Given bone lengths A (root to mid) and B (mid to end), a target location
// and a pole vector, all in the root's local space, Solve returns:
//
//   - Orientation: aims +X at the target with +Y turned toward the pole.
//   - BendAngle: mid joint rotation about BendAxis (0 means straight).
//   - StretchedEdgeA/B: bone lengths, uniformly scaled when the target is
//     beyond A+B.
//   - RootAngle/RootOrientation: the extra root rotation inside the bend
//     plane that places the mid joint on the pole side.
//
// DEGENERATE CONFIGURATIONS:
//
// A target at the root, a non-positive bone, a zero pole and a pole
// parallel to the aim direction are reported as *SolveError values with a
// distinct Code. Targets closer than |A-B| are not errors: the cosine is
// clamped and the chain folds completely.
package ik
