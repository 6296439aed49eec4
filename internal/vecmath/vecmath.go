package vecmath

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Vector3 is a position or direction in 3D space.
type Vector3 = r3.Vec

// Rotation is a unit quaternion rotation.
type Rotation = r3.Rotation

// Reference axes.
var (
	XAxis = Vector3{X: 1}
	YAxis = Vector3{Y: 1}
	ZAxis = Vector3{Z: 1}
)

// DegenerateVectorError reports a zero-length (or non-finite) vector where
// a direction was required.
type DegenerateVectorError struct {
	// Op names the operation that needed the direction.
	Op string
}

func (e *DegenerateVectorError) Error() string {
	return fmt.Sprintf("%s: degenerate vector (zero length)", e.Op)
}

// Identity returns the identity rotation.
func Identity() Rotation {
	return Rotation{Real: 1}
}

// Length returns the Euclidean length of v.
func Length(v Vector3) float64 {
	return r3.Norm(v)
}

// Normalize returns v scaled to unit length.
func Normalize(v Vector3) (Vector3, error) {
	l := Length(v)
	if l == 0 || !isFinite(l) {
		return Vector3{}, &DegenerateVectorError{Op: "normalize"}
	}
	return r3.Scale(1/l, v), nil
}

// Add returns a + b.
func Add(a, b Vector3) Vector3 {
	return r3.Add(a, b)
}

// Sub returns a - b.
func Sub(a, b Vector3) Vector3 {
	return r3.Sub(a, b)
}

// Scale returns v scaled by f.
func Scale(f float64, v Vector3) Vector3 {
	return r3.Scale(f, v)
}

// Dot returns the dot product of a and b.
func Dot(a, b Vector3) float64 {
	return r3.Dot(a, b)
}

// Cross returns the cross product a × b.
func Cross(a, b Vector3) Vector3 {
	return r3.Cross(a, b)
}

// AngleBetween returns the unsigned angle between a and b in [0, π].
//
// atan2 of the cross and dot products stays accurate for nearly parallel
// inputs, where acos of the normalized dot product loses precision.
func AngleBetween(a, b Vector3) (float64, error) {
	if Length(a) == 0 || Length(b) == 0 {
		return 0, &DegenerateVectorError{Op: "angle between"}
	}
	return math.Atan2(Length(Cross(a, b)), Dot(a, b)), nil
}

// AxisAngle returns the rotation of angle radians about axis.
// The caller is responsible for passing a unit axis.
func AxisAngle(axis Vector3, angle float64) Rotation {
	if angle == 0 {
		return Identity()
	}
	sin, cos := math.Sincos(0.5 * angle)
	return Rotation{
		Real: cos,
		Imag: axis.X * sin,
		Jmag: axis.Y * sin,
		Kmag: axis.Z * sin,
	}
}

// Compose returns the rotation that applies r2 and then r1.
func Compose(r1, r2 Rotation) Rotation {
	return Rotation(quat.Mul(quat.Number(r1), quat.Number(r2)))
}

// Rotate applies r to v.
func Rotate(r Rotation, v Vector3) Vector3 {
	return r.Rotate(v)
}

// FromFrame returns the rotation that maps the X, Y and Z axes onto x, y
// and z. The three vectors must form a right-handed orthonormal basis.
func FromFrame(x, y, z Vector3) Rotation {
	// Rotation matrix columns are the images of the basis axes.
	m00, m01, m02 := x.X, y.X, z.X
	m10, m11, m12 := x.Y, y.Y, z.Y
	m20, m21, m22 := x.Z, y.Z, z.Z

	var q quat.Number
	switch trace := m00 + m11 + m22; {
	case trace > 0:
		s := math.Sqrt(trace+1) * 2
		q = quat.Number{Real: s / 4, Imag: (m21 - m12) / s, Jmag: (m02 - m20) / s, Kmag: (m10 - m01) / s}
	case m00 > m11 && m00 > m22:
		s := math.Sqrt(1+m00-m11-m22) * 2
		q = quat.Number{Real: (m21 - m12) / s, Imag: s / 4, Jmag: (m01 + m10) / s, Kmag: (m02 + m20) / s}
	case m11 > m22:
		s := math.Sqrt(1+m11-m00-m22) * 2
		q = quat.Number{Real: (m02 - m20) / s, Imag: (m01 + m10) / s, Jmag: s / 4, Kmag: (m12 + m21) / s}
	default:
		s := math.Sqrt(1+m22-m00-m11) * 2
		q = quat.Number{Real: (m10 - m01) / s, Imag: (m02 + m20) / s, Jmag: (m12 + m21) / s, Kmag: s / 4}
	}

	q = quat.Scale(1/quat.Abs(q), q)
	if q.Real < 0 {
		q = quat.Scale(-1, q)
	}
	return Rotation(q)
}

// EulerXYZ decomposes r into X, Y and Z angles (radians) such that
// FromEulerXYZ(EulerXYZ(r)) == r. Near gimbal lock the X angle is zero.
func EulerXYZ(r Rotation) Vector3 {
	cx := r.Rotate(XAxis)
	cy := r.Rotate(YAxis)
	cz := r.Rotate(ZAxis)

	sy := Clamp(-cx.Z, -1, 1)
	y := math.Asin(sy)
	if math.Abs(sy) < 1-1e-12 {
		return Vector3{
			X: math.Atan2(cy.Z, cz.Z),
			Y: y,
			Z: math.Atan2(cx.Y, cx.X),
		}
	}
	return Vector3{
		X: 0,
		Y: math.Copysign(math.Pi/2, sy),
		Z: math.Atan2(-cy.X, cy.Y),
	}
}

// FromEulerXYZ builds a rotation from XYZ Euler angles (radians).
func FromEulerXYZ(e Vector3) Rotation {
	rx := AxisAngle(XAxis, e.X)
	ry := AxisAngle(YAxis, e.Y)
	rz := AxisAngle(ZAxis, e.Z)
	return Compose(rz, Compose(ry, rx))
}

// Clamp limits n to [lower, upper].
func Clamp(n, lower, upper float64) float64 {
	return math.Max(lower, math.Min(n, upper))
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b, t float64) float64 {
	return (1-t)*a + t*b
}

// NonZero pushes v away from zero to the smallest normal float64 while
// keeping its sign. Zero is treated as positive.
func NonZero(v float64) float64 {
	if v < 0 {
		return -math.Max(-v, smallestNormal)
	}
	return math.Max(v, smallestNormal)
}

// IsFinite reports whether every component of v is finite.
func IsFinite(v Vector3) bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

const smallestNormal = 0x1p-1022

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
