package node

import (
	"github.com/roach88/simpleik/internal/vecmath"
)

// Kind is the shape of an attribute value.
type Kind string

const (
	KindScalar   Kind = "scalar"
	KindVector   Kind = "vector"
	KindRotation Kind = "rotation"
	KindBool     Kind = "bool"
)

// Value is a sealed interface for attribute values.
// Only Scalar, Vector, Rotation and Bool implement it.
type Value interface {
	Kind() Kind
	attrValue() // Sealed
}

// Scalar is a length, angle (radians) or factor.
type Scalar float64

func (Scalar) Kind() Kind { return KindScalar }
func (Scalar) attrValue() {}

// Vector is a 3D position or direction.
type Vector vecmath.Vector3

func (Vector) Kind() Kind { return KindVector }
func (Vector) attrValue() {}

// Vec returns v as a vecmath vector.
func (v Vector) Vec() vecmath.Vector3 { return vecmath.Vector3(v) }

// Rotation is a unit quaternion rotation.
type Rotation vecmath.Rotation

func (Rotation) Kind() Kind { return KindRotation }
func (Rotation) attrValue() {}

// Rot returns r as a vecmath rotation.
func (r Rotation) Rot() vecmath.Rotation { return vecmath.Rotation(r) }

// Euler returns r as XYZ Euler angles in radians.
func (r Rotation) Euler() vecmath.Vector3 { return vecmath.EulerXYZ(r.Rot()) }

// Bool is a switch attribute.
type Bool bool

func (Bool) Kind() Kind { return KindBool }
func (Bool) attrValue() {}

// Vec3 is shorthand for building a Vector value.
func Vec3(x, y, z float64) Vector {
	return Vector{X: x, Y: y, Z: z}
}
