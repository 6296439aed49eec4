package ik

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/simpleik/internal/vecmath"
)

const eps = 1e-9

func inputs(edgeA, edgeB float64, target, pole vecmath.Vector3) Inputs {
	in := DefaultInputs()
	in.EdgeA = edgeA
	in.EdgeB = edgeB
	in.TargetLocation = target
	in.PoleVector = pole
	return in
}

func v(x, y, z float64) vecmath.Vector3 {
	return vecmath.Vector3{X: x, Y: y, Z: z}
}

func assertVecInDelta(t *testing.T, want, got vecmath.Vector3, delta float64) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, delta, "x")
	assert.InDelta(t, want.Y, got.Y, delta, "y")
	assert.InDelta(t, want.Z, got.Z, delta, "z")
}

func TestSolve_ReachableBendsWithoutStretch(t *testing.T) {
	tests := []struct {
		name         string
		edgeA, edgeB float64
		distance     float64
	}{
		{"mid range", 4, 2, 4.5},
		{"near max", 4, 2, 5.999},
		{"near min", 4, 2, 2.001},
		{"equal bones", 3, 3, 1},
		{"short first bone", 1, 5, 4.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Solve(inputs(tt.edgeA, tt.edgeB, v(tt.distance, 0, 0), v(0, 1, 0)))
			require.NoError(t, err)

			assert.Greater(t, out.BendAngle, 0.0)
			assert.Less(t, out.BendAngle, math.Pi)
			assert.Equal(t, tt.edgeA, out.StretchedEdgeA)
			assert.Equal(t, tt.edgeB, out.StretchedEdgeB)
		})
	}
}

func TestSolve_ExactReachIsStraight(t *testing.T) {
	out, err := Solve(inputs(4, 2, v(0, 6, 0), v(1, 0, 0)))
	require.NoError(t, err)

	assert.Equal(t, 0.0, out.BendAngle)
	assert.Equal(t, 0.0, out.RootAngle)
	assert.Equal(t, 4.0, out.StretchedEdgeA)
	assert.Equal(t, 2.0, out.StretchedEdgeB)
}

func TestSolve_StretchIsUniform(t *testing.T) {
	out, err := Solve(inputs(4, 2, v(3, 8, 0), v(0, 0, 1)))
	require.NoError(t, err)

	distance := vecmath.Length(v(3, 8, 0))
	ratio := distance / 6

	assert.Equal(t, 0.0, out.BendAngle)
	assert.InDelta(t, ratio, out.StretchedEdgeA/4, eps)
	assert.InDelta(t, ratio, out.StretchedEdgeB/2, eps)
	assert.InDelta(t, distance, out.StretchedEdgeA+out.StretchedEdgeB, eps)
}

func TestSolve_BendIsScaleInvariant(t *testing.T) {
	base, err := Solve(inputs(4, 2, v(3, 2, 1), v(0, 1, 0)))
	require.NoError(t, err)

	for _, k := range []float64{1e-170, 0.001, 0.5, 3, 1000, 1e160} {
		scaled, err := Solve(inputs(4*k, 2*k, v(3*k, 2*k, 1*k), v(0, 1, 0)))
		require.NoError(t, err)
		require.False(t, math.IsNaN(scaled.BendAngle), "k=%v", k)
		require.False(t, math.IsNaN(scaled.RootAngle), "k=%v", k)
		assert.InDelta(t, base.BendAngle, scaled.BendAngle, eps, "k=%v", k)
		assert.InDelta(t, base.RootAngle, scaled.RootAngle, eps, "k=%v", k)
	}
}

func TestSolve_ScriptConfiguration(t *testing.T) {
	out, err := Solve(inputs(4, 2, v(6, 0, 0), v(6, 1, 0)))
	require.NoError(t, err)

	assert.InDelta(t, 0.0, out.BendAngle, eps)
	assert.InDelta(t, 4.0, out.StretchedEdgeA, eps)
	assert.InDelta(t, 2.0, out.StretchedEdgeB, eps)

	assert.InDelta(t, 1.0, out.Orientation.Real, eps)
	assert.InDelta(t, 0.0, out.Orientation.Imag, eps)
	assert.InDelta(t, 0.0, out.Orientation.Jmag, eps)
	assert.InDelta(t, 0.0, out.Orientation.Kmag, eps)
	assertVecInDelta(t, vecmath.XAxis, vecmath.Rotate(out.Orientation, vecmath.XAxis), eps)
}

func TestSolve_NearBoundary(t *testing.T) {
	out, err := Solve(inputs(4, 2, v(5.9, 0, 0), v(5.9, 1, 0)))
	require.NoError(t, err)

	// cos(interior) = (16 + 4 - 5.9²) / 16
	want := math.Pi - math.Acos((16+4-5.9*5.9)/16)
	assert.Greater(t, out.BendAngle, 0.0)
	assert.Less(t, out.BendAngle, 0.5)
	assert.InDelta(t, want, out.BendAngle, eps)
	assert.Equal(t, 4.0, out.StretchedEdgeA)
	assert.Equal(t, 2.0, out.StretchedEdgeB)
}

func TestSolve_TooCloseClampsToFolded(t *testing.T) {
	tests := []struct {
		name         string
		edgeA, edgeB float64
		wantRoot     float64
	}{
		{"long first bone", 4, 2, 0},
		{"long second bone", 2, 4, math.Pi},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Solve(inputs(tt.edgeA, tt.edgeB, v(1, 0, 0), v(0, 1, 0)))
			require.NoError(t, err)

			assert.False(t, math.IsNaN(out.BendAngle))
			assert.InDelta(t, math.Pi, out.BendAngle, eps)
			assert.InDelta(t, tt.wantRoot, out.RootAngle, eps)
			assert.Equal(t, tt.edgeA, out.StretchedEdgeA)
			assert.Equal(t, tt.edgeB, out.StretchedEdgeB)
		})
	}
}

func TestSolve_OrientationAimsAndResolvesRoll(t *testing.T) {
	target := v(1, 2, 3)
	pole := v(0, 0, 1)

	out, err := Solve(inputs(3, 3, target, pole))
	require.NoError(t, err)

	aimDir, err := vecmath.Normalize(target)
	require.NoError(t, err)
	assertVecInDelta(t, aimDir, vecmath.Rotate(out.Orientation, vecmath.XAxis), eps)

	// +Y must land on the pole component perpendicular to the aim.
	perp := vecmath.Sub(pole, vecmath.Scale(vecmath.Dot(pole, aimDir), aimDir))
	bendDir, err := vecmath.Normalize(perp)
	require.NoError(t, err)
	assertVecInDelta(t, bendDir, vecmath.Rotate(out.Orientation, vecmath.YAxis), eps)
}

func TestSolve_ForwardKinematicsReachesTarget(t *testing.T) {
	tests := []struct {
		name   string
		target vecmath.Vector3
		pole   vecmath.Vector3
	}{
		{"planar", v(4, 2, 0), v(0, 1, 0)},
		{"behind root", v(-3, 1, 2), v(0, 0, -1)},
		{"straight down", v(0, -5, 0), v(1, 0, 0)},
		{"diagonal", v(2, 2, 2), v(-1, 1, 0)},
		{"exact reach", v(6, 0, 0), v(6, 1, 0)},
		{"out of reach", v(5, 5, 5), v(0, 1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Solve(inputs(4, 2, tt.target, tt.pole))
			require.NoError(t, err)

			mid, end := out.Joints()
			assertVecInDelta(t, tt.target, end, 1e-8)
			assert.InDelta(t, out.StretchedEdgeA, vecmath.Length(mid), 1e-8)

			// The mid joint sits on the pole side of the aim line.
			if out.BendAngle > 0 {
				bendDir := vecmath.Rotate(out.Orientation, vecmath.YAxis)
				assert.Greater(t, vecmath.Dot(mid, bendDir), 0.0)
			}
		})
	}
}

func TestSolve_Twist(t *testing.T) {
	in := inputs(4, 2, v(6, 0, 0), v(0, 1, 0))
	in.Twist = math.Pi / 2

	out, err := Solve(in)
	require.NoError(t, err)

	assertVecInDelta(t, vecmath.XAxis, vecmath.Rotate(out.Orientation, vecmath.XAxis), eps)
	assertVecInDelta(t, vecmath.ZAxis, vecmath.Rotate(out.Orientation, vecmath.YAxis), eps)

	// Twisting rolls about the aim line and must not move the end effector.
	in.TargetLocation = v(4, 1, 0)
	out, err = Solve(in)
	require.NoError(t, err)
	_, end := out.Joints()
	assertVecInDelta(t, in.TargetLocation, end, 1e-8)
}

func TestSolve_Soften(t *testing.T) {
	in := inputs(4, 2, v(6, 0, 0), v(0, 1, 0))
	in.Soften = 1

	out, err := Solve(in)
	require.NoError(t, err)
	assert.Greater(t, out.BendAngle, 0.0, "softened chain should not snap straight")

	in.DoSoften = false
	out, err = Solve(in)
	require.NoError(t, err)
	assert.Equal(t, 0.0, out.BendAngle)

	// Targets well inside reach are untouched.
	in.DoSoften = true
	in.TargetLocation = v(3, 0, 0)
	soft, err := Solve(in)
	require.NoError(t, err)
	in.Soften = 0
	hard, err := Solve(in)
	require.NoError(t, err)
	assert.Equal(t, hard.BendAngle, soft.BendAngle)
}

func TestSolve_StretchStrength(t *testing.T) {
	tests := []struct {
		strength     float64
		wantA, wantB float64
	}{
		{0, 4, 2},
		{0.5, 5, 2.5},
		{1, 6, 3},
	}

	for _, tt := range tests {
		in := inputs(4, 2, v(9, 0, 0), v(0, 1, 0))
		in.StretchStrength = tt.strength

		out, err := Solve(in)
		require.NoError(t, err)
		assert.InDelta(t, tt.wantA, out.StretchedEdgeA, eps, "strength=%v", tt.strength)
		assert.InDelta(t, tt.wantB, out.StretchedEdgeB, eps, "strength=%v", tt.strength)
		assert.Equal(t, 0.0, out.BendAngle)
	}
}

func TestSolve_DegenerateInputs(t *testing.T) {
	tests := []struct {
		name  string
		in    Inputs
		code  ErrorCode
		check func(error) bool
	}{
		{
			name:  "target at root",
			in:    inputs(4, 2, v(0, 0, 0), v(0, 1, 0)),
			code:  ErrCodeDegenerateTarget,
			check: IsDegenerateTarget,
		},
		{
			name:  "zero edge A",
			in:    inputs(0, 2, v(1, 0, 0), v(0, 1, 0)),
			code:  ErrCodeDegenerateEdge,
			check: IsDegenerateEdge,
		},
		{
			name:  "zero edge A beyond reach",
			in:    inputs(0, 2, v(10, 0, 0), v(0, 1, 0)),
			code:  ErrCodeDegenerateEdge,
			check: IsDegenerateEdge,
		},
		{
			name:  "negative edge B",
			in:    inputs(4, -2, v(1, 0, 0), v(0, 1, 0)),
			code:  ErrCodeDegenerateEdge,
			check: IsDegenerateEdge,
		},
		{
			name:  "NaN edge",
			in:    inputs(math.NaN(), 2, v(1, 0, 0), v(0, 1, 0)),
			code:  ErrCodeDegenerateEdge,
			check: IsDegenerateEdge,
		},
		{
			name:  "zero pole",
			in:    inputs(4, 2, v(3, 0, 0), v(0, 0, 0)),
			code:  ErrCodeDegenerateVector,
			check: IsDegenerateVector,
		},
		{
			name:  "pole parallel to target",
			in:    inputs(4, 2, v(3, 0, 0), v(6, 0, 0)),
			code:  ErrCodeParallelAimPole,
			check: IsParallelAimPole,
		},
		{
			name:  "pole anti-parallel to target",
			in:    inputs(4, 2, v(1, 1, 1), v(-2, -2, -2)),
			code:  ErrCodeParallelAimPole,
			check: IsParallelAimPole,
		},
		{
			name:  "infinite target",
			in:    inputs(4, 2, v(math.Inf(1), 0, 0), v(0, 1, 0)),
			code:  ErrCodeDegenerateVector,
			check: IsDegenerateVector,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Solve(tt.in)
			require.Error(t, err)

			assert.Equal(t, tt.code, CodeOf(err))
			assert.True(t, tt.check(err))
			assert.Equal(t, Outputs{}, out)
		})
	}
}

func TestIsDegenerateVector_IncludesParallel(t *testing.T) {
	_, err := Solve(inputs(4, 2, v(3, 0, 0), v(1, 0, 0)))
	require.Error(t, err)
	assert.True(t, IsDegenerateVector(err))
	assert.False(t, IsDegenerateTarget(err))
	assert.False(t, IsDegenerateEdge(err))
}

func TestCodeOf_NonSolveError(t *testing.T) {
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
	assert.Equal(t, ErrorCode(""), CodeOf(assert.AnError))
}

func TestSolverFunc(t *testing.T) {
	calls := 0
	s := SolverFunc(func(in Inputs) (Outputs, error) {
		calls++
		return Solve(in)
	})

	_, err := s.Solve(inputs(4, 2, v(5, 0, 0), v(0, 1, 0)))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDefaultOutputs(t *testing.T) {
	out := DefaultOutputs()
	assert.Equal(t, vecmath.Identity(), out.Orientation)
	assert.Equal(t, vecmath.Identity(), out.RootOrientation)
	assert.Equal(t, 0.0, out.BendAngle)
}
