package store

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/roach88/simpleik/internal/ik"
	"github.com/roach88/simpleik/internal/vecmath"
)

// number is a float64 that survives JSON when non-finite. Failed solves
// are often caused by NaN or infinite inputs, and those must be logged
// as-is; they are written as the strings "NaN", "+Inf" and "-Inf".
type number float64

func (n number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte(strconv.Quote(strconv.FormatFloat(f, 'g', -1, 64))), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

func (n *number) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) > 0 && s[0] == '"' {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		s = unquoted
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %s: %w", data, err)
	}
	*n = number(f)
	return nil
}

type vec3 [3]number

func toVec3(v vecmath.Vector3) vec3 {
	return vec3{number(v.X), number(v.Y), number(v.Z)}
}

func (v vec3) vector() vecmath.Vector3 {
	return vecmath.Vector3{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
}

// quat4 is a rotation as [w, x, y, z].
type quat4 [4]number

func toQuat4(r vecmath.Rotation) quat4 {
	return quat4{number(r.Real), number(r.Imag), number(r.Jmag), number(r.Kmag)}
}

func (q quat4) rotation() vecmath.Rotation {
	return vecmath.Rotation{Real: float64(q[0]), Imag: float64(q[1]), Jmag: float64(q[2]), Kmag: float64(q[3])}
}

type inputsRecord struct {
	EdgeA           number `json:"edge_a"`
	EdgeB           number `json:"edge_b"`
	TargetLocation  vec3   `json:"target_location"`
	PoleVector      vec3   `json:"pole_vector"`
	Twist           number `json:"twist"`
	Soften          number `json:"soften"`
	DoSoften        bool   `json:"do_soften"`
	StretchStrength number `json:"stretch_strength"`
}

type outputsRecord struct {
	Orientation     quat4  `json:"orientation"`
	BendAngle       number `json:"bend_angle"`
	StretchedEdgeA  number `json:"stretched_edge_a"`
	StretchedEdgeB  number `json:"stretched_edge_b"`
	RootAngle       number `json:"root_angle"`
	RootOrientation quat4  `json:"root_orientation"`
}

func marshalInputs(in ik.Inputs) (string, error) {
	data, err := json.Marshal(inputsRecord{
		EdgeA:           number(in.EdgeA),
		EdgeB:           number(in.EdgeB),
		TargetLocation:  toVec3(in.TargetLocation),
		PoleVector:      toVec3(in.PoleVector),
		Twist:           number(in.Twist),
		Soften:          number(in.Soften),
		DoSoften:        in.DoSoften,
		StretchStrength: number(in.StretchStrength),
	})
	if err != nil {
		return "", fmt.Errorf("marshal inputs: %w", err)
	}
	return string(data), nil
}

func marshalOutputs(out ik.Outputs) (string, error) {
	data, err := json.Marshal(outputsRecord{
		Orientation:     toQuat4(out.Orientation),
		BendAngle:       number(out.BendAngle),
		StretchedEdgeA:  number(out.StretchedEdgeA),
		StretchedEdgeB:  number(out.StretchedEdgeB),
		RootAngle:       number(out.RootAngle),
		RootOrientation: toQuat4(out.RootOrientation),
	})
	if err != nil {
		return "", fmt.Errorf("marshal outputs: %w", err)
	}
	return string(data), nil
}

func unmarshalInputs(data string) (ik.Inputs, error) {
	var rec inputsRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return ik.Inputs{}, fmt.Errorf("unmarshal inputs: %w", err)
	}
	return ik.Inputs{
		EdgeA:           float64(rec.EdgeA),
		EdgeB:           float64(rec.EdgeB),
		TargetLocation:  rec.TargetLocation.vector(),
		PoleVector:      rec.PoleVector.vector(),
		Twist:           float64(rec.Twist),
		Soften:          float64(rec.Soften),
		DoSoften:        rec.DoSoften,
		StretchStrength: float64(rec.StretchStrength),
	}, nil
}

func unmarshalOutputs(data string) (ik.Outputs, error) {
	var rec outputsRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return ik.Outputs{}, fmt.Errorf("unmarshal outputs: %w", err)
	}
	return ik.Outputs{
		Orientation:     rec.Orientation.rotation(),
		BendAngle:       float64(rec.BendAngle),
		StretchedEdgeA:  float64(rec.StretchedEdgeA),
		StretchedEdgeB:  float64(rec.StretchedEdgeB),
		RootAngle:       float64(rec.RootAngle),
		RootOrientation: rec.RootOrientation.rotation(),
	}, nil
}
