package graph

import (
	"errors"
	"fmt"
)

// GraphError reports an invalid graph edit or lookup.
type GraphError struct {
	Code    GraphErrorCode
	Message string
	// Plug is the plug involved, if any.
	Plug Plug
}

// GraphErrorCode categorizes graph errors.
type GraphErrorCode string

const (
	// ErrCodeUnknownNode indicates a node id that is not in the graph.
	ErrCodeUnknownNode GraphErrorCode = "UNKNOWN_NODE"

	// ErrCodeDuplicateName indicates two nodes with the same name.
	ErrCodeDuplicateName GraphErrorCode = "DUPLICATE_NAME"

	// ErrCodeConnected indicates a write to, or second connection into, an
	// input that already has an incoming connection.
	ErrCodeConnected GraphErrorCode = "INPUT_CONNECTED"

	// ErrCodeKindMismatch indicates a connection between plugs of different
	// value kinds.
	ErrCodeKindMismatch GraphErrorCode = "KIND_MISMATCH"

	// ErrCodeCycle indicates a connection that would make the graph cyclic.
	ErrCodeCycle GraphErrorCode = "CYCLE"
)

func (e *GraphError) Error() string {
	if e.Plug != (Plug{}) {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Plug)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CodeOf returns the graph error code carried by err, or "".
func CodeOf(err error) GraphErrorCode {
	var ge *GraphError
	if errors.As(err, &ge) {
		return ge.Code
	}
	return ""
}

// IsCycleError returns true if err is a cycle rejection.
func IsCycleError(err error) bool {
	return CodeOf(err) == ErrCodeCycle
}

// IsUnknownNode returns true if err names a node that is not in the graph.
func IsUnknownNode(err error) bool {
	return CodeOf(err) == ErrCodeUnknownNode
}
