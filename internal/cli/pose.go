package cli

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/num/quat"

	"github.com/roach88/simpleik/internal/ik"
	"github.com/roach88/simpleik/internal/vecmath"
)

// PoseView is the printable form of one solve: node outputs plus the
// joint positions they place.
type PoseView struct {
	// Orientation is the chain rotation as (w, x, y, z).
	Orientation [4]float64 `json:"orientation"`

	// OrientationEuler is Orientation as XYZ Euler angles in degrees.
	OrientationEuler [3]float64 `json:"orientation_euler_deg"`

	BendAngle       float64    `json:"bend_angle"`
	StretchedEdgeA  float64    `json:"stretched_edge_a"`
	StretchedEdgeB  float64    `json:"stretched_edge_b"`
	RootAngle       float64    `json:"root_angle"`
	RootOrientation [4]float64 `json:"root_orientation"`
	Mid             [3]float64 `json:"mid"`
	End             [3]float64 `json:"end"`
}

func newPoseView(out ik.Outputs) PoseView {
	mid, end := out.Joints()
	euler := vecmath.EulerXYZ(out.Orientation)
	return PoseView{
		Orientation:      quatArray(out.Orientation),
		OrientationEuler: vecArray(vecmath.Scale(180/math.Pi, euler)),
		BendAngle:        out.BendAngle,
		StretchedEdgeA:   out.StretchedEdgeA,
		StretchedEdgeB:   out.StretchedEdgeB,
		RootAngle:        out.RootAngle,
		RootOrientation:  quatArray(out.RootOrientation),
		Mid:              vecArray(mid),
		End:              vecArray(end),
	}
}

// writePoseText prints a pose as aligned label/value lines.
func writePoseText(w io.Writer, indent string, p PoseView) {
	fmt.Fprintf(w, "%sorientation:       %s\n", indent, formatFloats(p.Orientation[:]))
	fmt.Fprintf(w, "%sorientation (deg): %s\n", indent, formatFloats(p.OrientationEuler[:]))
	fmt.Fprintf(w, "%sbend angle:        %.6f\n", indent, p.BendAngle)
	fmt.Fprintf(w, "%sstretched edges:   %.6f %.6f\n", indent, p.StretchedEdgeA, p.StretchedEdgeB)
	fmt.Fprintf(w, "%sroot angle:        %.6f\n", indent, p.RootAngle)
	fmt.Fprintf(w, "%smid:               %s\n", indent, formatFloats(p.Mid[:]))
	fmt.Fprintf(w, "%send:               %s\n", indent, formatFloats(p.End[:]))
}

func formatFloats(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatFloat(v, 'f', 6, 64)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func formatVec(v vecmath.Vector3) string {
	return formatFloats([]float64{v.X, v.Y, v.Z})
}

func quatArray(r vecmath.Rotation) [4]float64 {
	q := quat.Number(r)
	return [4]float64{q.Real, q.Imag, q.Jmag, q.Kmag}
}

func vecArray(v vecmath.Vector3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// parseVec3 parses "x,y,z".
func parseVec3(s string) (vecmath.Vector3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return vecmath.Vector3{}, fmt.Errorf("invalid vector %q: want x,y,z", s)
	}
	var xyz [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return vecmath.Vector3{}, fmt.Errorf("invalid vector %q: %w", s, err)
		}
		xyz[i] = f
	}
	return vecmath.Vector3{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

// vec3Value is a pflag.Value holding a vector written as "x,y,z".
type vec3Value vecmath.Vector3

func (v *vec3Value) String() string {
	return fmt.Sprintf("%g,%g,%g", v.X, v.Y, v.Z)
}

func (v *vec3Value) Set(s string) error {
	parsed, err := parseVec3(s)
	if err != nil {
		return err
	}
	*v = vec3Value(parsed)
	return nil
}

func (v *vec3Value) Type() string {
	return "x,y,z"
}
