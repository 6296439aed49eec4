package node

import (
	"errors"
	"fmt"
)

// Attribute names a node plug.
type Attribute string

// Two-bone IK attributes.
const (
	StaticEdgeA     Attribute = "staticEdgeA"
	StaticEdgeB     Attribute = "staticEdgeB"
	TargetLocation  Attribute = "targetLocation"
	PoleVector      Attribute = "poleVector"
	Twist           Attribute = "twist"
	Soften          Attribute = "soften"
	DoSoften        Attribute = "doSoften"
	StretchStrength Attribute = "stretchStrength"

	Orientation     Attribute = "orientation"
	BendAngle       Attribute = "bendAngle"
	StretchedEdgeA  Attribute = "stretchedEdgeA"
	StretchedEdgeB  Attribute = "stretchedEdgeB"
	RootAngle       Attribute = "rootAngle"
	RootOrientation Attribute = "rootOrientation"
)

// InclineAngle is the incline node's only output.
const InclineAngle Attribute = "inclineAngle"

// Direction tells whether an attribute is written by the host or computed.
type Direction int

const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	if d == Output {
		return "output"
	}
	return "input"
}

// AttributeSpec describes one plug on a node type.
type AttributeSpec struct {
	Name      Attribute
	Kind      Kind
	Direction Direction
}

// AttributeError reports a plug that does not exist or a value of the
// wrong shape. It never reflects a value-level problem: those surface at
// evaluation time as solve errors.
type AttributeError struct {
	Code      AttributeErrorCode
	Node      string
	Attribute Attribute
	Message   string
}

// AttributeErrorCode categorizes attribute errors.
type AttributeErrorCode string

const (
	ErrCodeUnknownAttribute AttributeErrorCode = "UNKNOWN_ATTRIBUTE"
	ErrCodeWrongDirection   AttributeErrorCode = "WRONG_DIRECTION"
	ErrCodeWrongKind        AttributeErrorCode = "WRONG_KIND"
)

func (e *AttributeError) Error() string {
	return fmt.Sprintf("%s: %s.%s: %s", e.Code, e.Node, e.Attribute, e.Message)
}

// IsAttributeError returns true if err is (or wraps) an AttributeError.
func IsAttributeError(err error) bool {
	var ae *AttributeError
	return errors.As(err, &ae)
}

// attributeSet is the fixed plug table of a node type.
type attributeSet []AttributeSpec

func (s attributeSet) lookup(nodeName string, attr Attribute, dir Direction) (AttributeSpec, error) {
	for _, spec := range s {
		if spec.Name != attr {
			continue
		}
		if spec.Direction != dir {
			return spec, &AttributeError{
				Code:      ErrCodeWrongDirection,
				Node:      nodeName,
				Attribute: attr,
				Message:   fmt.Sprintf("attribute is an %s", spec.Direction),
			}
		}
		return spec, nil
	}
	return AttributeSpec{}, &AttributeError{
		Code:      ErrCodeUnknownAttribute,
		Node:      nodeName,
		Attribute: attr,
		Message:   "no such attribute",
	}
}

func (s attributeSet) checkInput(nodeName string, attr Attribute, v Value) error {
	spec, err := s.lookup(nodeName, attr, Input)
	if err != nil {
		return err
	}
	if v == nil || v.Kind() != spec.Kind {
		got := Kind("nil")
		if v != nil {
			got = v.Kind()
		}
		return &AttributeError{
			Code:      ErrCodeWrongKind,
			Node:      nodeName,
			Attribute: attr,
			Message:   fmt.Sprintf("expected %s value, got %s", spec.Kind, got),
		}
	}
	return nil
}

var ikAttributes = attributeSet{
	{StaticEdgeA, KindScalar, Input},
	{StaticEdgeB, KindScalar, Input},
	{TargetLocation, KindVector, Input},
	{PoleVector, KindVector, Input},
	{Twist, KindScalar, Input},
	{Soften, KindScalar, Input},
	{DoSoften, KindBool, Input},
	{StretchStrength, KindScalar, Input},

	{Orientation, KindRotation, Output},
	{BendAngle, KindScalar, Output},
	{StretchedEdgeA, KindScalar, Output},
	{StretchedEdgeB, KindScalar, Output},
	{RootAngle, KindScalar, Output},
	{RootOrientation, KindRotation, Output},
}

var inclineAttributes = attributeSet{
	{StaticEdgeA, KindScalar, Input},
	{StaticEdgeB, KindScalar, Input},
	{TargetLocation, KindVector, Input},
	{Soften, KindScalar, Input},
	{DoSoften, KindBool, Input},

	{InclineAngle, KindScalar, Output},
}
