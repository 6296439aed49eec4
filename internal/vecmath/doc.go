// Package vecmath provides the small set of 3D vector and rotation
// operations the IK solver is built on.
//
// Vectors and rotations are gonum's r3.Vec and r3.Rotation (a unit
// quaternion), re-exported as Vector3 and Rotation so callers do not need
// to import gonum directly. All functions are pure.
//
// Conventions:
//   - Angles are radians.
//   - Compose(r1, r2) applies r2 first, then r1.
//   - Euler angles use XYZ order: X is applied first, Z last.
package vecmath
