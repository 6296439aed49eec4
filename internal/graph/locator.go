package graph

import (
	"github.com/roach88/simpleik/internal/node"
	"github.com/roach88/simpleik/internal/vecmath"
)

// Translate is the locator's position plug. It is writable and readable.
const Translate node.Attribute = "translate"

// Locator is a pass-through node holding one world position, standing in
// for the target and pole transforms of a rig.
type Locator struct {
	name      string
	translate vecmath.Vector3
}

// NewLocator creates a locator at the origin.
func NewLocator(name string) *Locator {
	return &Locator{name: name}
}

func (l *Locator) Name() string { return l.name }

func (l *Locator) Attributes() []node.AttributeSpec {
	return []node.AttributeSpec{{Name: Translate, Kind: node.KindVector, Direction: node.Input}}
}

func (l *Locator) SetInput(attr node.Attribute, v node.Value) error {
	if attr != Translate {
		return l.unknown(attr)
	}
	vec, ok := v.(node.Vector)
	if !ok {
		return &node.AttributeError{
			Code:      node.ErrCodeWrongKind,
			Node:      l.name,
			Attribute: attr,
			Message:   "expected vector value",
		}
	}
	l.translate = vec.Vec()
	return nil
}

func (l *Locator) GetOutput(attr node.Attribute) (node.Value, error) {
	if attr != Translate {
		return nil, l.unknown(attr)
	}
	return node.Vector(l.translate), nil
}

// Position returns the current translate.
func (l *Locator) Position() vecmath.Vector3 {
	return l.translate
}

func (l *Locator) unknown(attr node.Attribute) error {
	return &node.AttributeError{
		Code:      node.ErrCodeUnknownAttribute,
		Node:      l.name,
		Attribute: attr,
		Message:   "no such attribute",
	}
}
