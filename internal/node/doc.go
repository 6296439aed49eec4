// Package node wraps the solvers as dependency-graph nodes.
//
// A node owns one input snapshot and one cached output set guarded by a
// single dirty flag. Hosts drive it through the Node interface:
//
//	n := node.NewIKNode(node.WithName("armIK"))
//	_ = n.SetInput(node.StaticEdgeA, node.Scalar(4))
//	_ = n.SetInput(node.TargetLocation, node.Vec3(6, 0, 0))
//	bend, err := n.GetOutput(node.BendAngle)
//
// Evaluation is synchronous and single-threaded; a node must not be shared
// between goroutines without external locking. A failed evaluation keeps the
// previous outputs and reports the error on every pull until an input
// changes and a later solve succeeds.
package node
