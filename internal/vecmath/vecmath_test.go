package vecmath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func assertVecInDelta(t *testing.T, want, got Vector3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, eps, "x")
	assert.InDelta(t, want.Y, got.Y, eps, "y")
	assert.InDelta(t, want.Z, got.Z, eps, "z")
}

func TestLength(t *testing.T) {
	assert.InDelta(t, 5.0, Length(Vector3{X: 3, Y: 4}), eps)
	assert.Equal(t, 0.0, Length(Vector3{}))
}

func TestNormalize(t *testing.T) {
	got, err := Normalize(Vector3{X: 0, Y: 0, Z: -7})
	require.NoError(t, err)
	assertVecInDelta(t, Vector3{Z: -1}, got)
}

func TestNormalize_ZeroVector(t *testing.T) {
	_, err := Normalize(Vector3{})
	require.Error(t, err)

	var dv *DegenerateVectorError
	assert.ErrorAs(t, err, &dv)
	assert.Equal(t, "normalize", dv.Op)
}

func TestNormalize_NonFinite(t *testing.T) {
	_, err := Normalize(Vector3{X: math.Inf(1)})
	var dv *DegenerateVectorError
	assert.ErrorAs(t, err, &dv)
}

func TestDotCross(t *testing.T) {
	assert.Equal(t, 0.0, Dot(XAxis, YAxis))
	assert.Equal(t, 32.0, Dot(Vector3{X: 1, Y: 2, Z: 3}, Vector3{X: 4, Y: 5, Z: 6}))
	assertVecInDelta(t, ZAxis, Cross(XAxis, YAxis))
	assertVecInDelta(t, XAxis, Cross(YAxis, ZAxis))
}

func TestAngleBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b Vector3
		want float64
	}{
		{"same", XAxis, Vector3{X: 3}, 0},
		{"orthogonal", XAxis, YAxis, math.Pi / 2},
		{"opposite", XAxis, Vector3{X: -2}, math.Pi},
		{"diagonal", XAxis, Vector3{X: 1, Y: 1}, math.Pi / 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AngleBetween(tt.a, tt.b)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, eps)
		})
	}
}

func TestAngleBetween_ZeroInput(t *testing.T) {
	_, err := AngleBetween(Vector3{}, XAxis)
	var dv *DegenerateVectorError
	assert.ErrorAs(t, err, &dv)

	_, err = AngleBetween(XAxis, Vector3{})
	assert.ErrorAs(t, err, &dv)
}

func TestAxisAngle(t *testing.T) {
	r := AxisAngle(ZAxis, math.Pi/2)
	assertVecInDelta(t, YAxis, Rotate(r, XAxis))

	assert.Equal(t, Identity(), AxisAngle(ZAxis, 0))
}

func TestCompose_AppliesRightFirst(t *testing.T) {
	rz := AxisAngle(ZAxis, math.Pi/2) // X -> Y
	rx := AxisAngle(XAxis, math.Pi/2) // Y -> Z

	// rz first then rx: X -> Y -> Z
	assertVecInDelta(t, ZAxis, Rotate(Compose(rx, rz), XAxis))
	// rx first then rz: X -> X -> Y
	assertVecInDelta(t, YAxis, Rotate(Compose(rz, rx), XAxis))
}

func TestFromFrame_Identity(t *testing.T) {
	r := FromFrame(XAxis, YAxis, ZAxis)
	assert.InDelta(t, 1.0, r.Real, eps)
	assert.InDelta(t, 0.0, r.Imag, eps)
	assert.InDelta(t, 0.0, r.Jmag, eps)
	assert.InDelta(t, 0.0, r.Kmag, eps)
}

func TestFromFrame_MapsAxes(t *testing.T) {
	frames := []struct {
		name    string
		x, y, z Vector3
	}{
		{"yaw 90", YAxis, Vector3{X: -1}, ZAxis},
		{"roll 180", XAxis, Vector3{Y: -1}, Vector3{Z: -1}},
		{"pitch 180", Vector3{X: -1}, YAxis, Vector3{Z: -1}},
		{"yaw 180", Vector3{X: -1}, Vector3{Y: -1}, ZAxis},
		{"skew", Vector3{X: 0.6, Y: 0.8}, Vector3{X: -0.8, Y: 0.6}, ZAxis},
	}

	for _, f := range frames {
		t.Run(f.name, func(t *testing.T) {
			r := FromFrame(f.x, f.y, f.z)
			assertVecInDelta(t, f.x, Rotate(r, XAxis))
			assertVecInDelta(t, f.y, Rotate(r, YAxis))
			assertVecInDelta(t, f.z, Rotate(r, ZAxis))
		})
	}
}

func TestEulerXYZ_RoundTrip(t *testing.T) {
	angles := []Vector3{
		{},
		{X: 0.3},
		{Y: -0.7},
		{Z: 1.2},
		{X: 0.4, Y: 0.5, Z: -0.6},
		{X: -2.0, Y: 0.1, Z: 3.0},
	}

	for _, e := range angles {
		got := EulerXYZ(FromEulerXYZ(e))
		assertVecInDelta(t, e, got)
	}
}

func TestEulerXYZ_GimbalLock(t *testing.T) {
	r := FromEulerXYZ(Vector3{Y: math.Pi / 2, Z: 0.25})
	e := EulerXYZ(r)
	assert.InDelta(t, 0.0, e.X, eps)
	assert.InDelta(t, math.Pi/2, e.Y, eps)

	// The decomposition must reproduce the same rotation.
	back := FromEulerXYZ(e)
	assertVecInDelta(t, Rotate(r, XAxis), Rotate(back, XAxis))
	assertVecInDelta(t, Rotate(r, YAxis), Rotate(back, YAxis))
}

func TestClampLerp(t *testing.T) {
	assert.Equal(t, 1.0, Clamp(1.5, -1, 1))
	assert.Equal(t, -1.0, Clamp(-1.0000001, -1, 1))
	assert.Equal(t, 0.25, Clamp(0.25, -1, 1))

	assert.Equal(t, 1.0, Lerp(1, 3, 0))
	assert.Equal(t, 3.0, Lerp(1, 3, 1))
	assert.Equal(t, 2.0, Lerp(1, 3, 0.5))
}

func TestNonZero(t *testing.T) {
	assert.Greater(t, NonZero(0), 0.0)
	assert.Less(t, NonZero(-0.0000), 1e-300)
	assert.Less(t, NonZero(-1e-320), 0.0)
	assert.Equal(t, 2.5, NonZero(2.5))
	assert.Equal(t, -2.5, NonZero(-2.5))
}
