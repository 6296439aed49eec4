// Package graph is a minimal in-process attribute-graph host.
//
// It owns a set of nodes and the connections between their plugs and
// drives them the way a scene graph would: writes push staleness to every
// downstream plug, reads pull stale upstream values into inputs before
// asking the node for an output. Nodes themselves stay lazy, so a pull only
// solves when an input actually changed.
//
//	g := graph.New()
//	target, _ := g.AddNode(graph.NewLocator("target"))
//	ik, _ := g.AddNode(node.NewIKNode(node.WithName("armIK")))
//	_ = g.Connect(graph.Plug{Node: target, Attr: graph.Translate},
//		graph.Plug{Node: ik, Attr: node.TargetLocation})
//	_ = g.Set(target, graph.Translate, node.Vec3(5, 0, 0))
//	bend, err := g.Get(ik, node.BendAngle)
package graph
