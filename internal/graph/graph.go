package graph

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/roach88/simpleik/internal/node"
)

// Plug addresses one attribute on one node.
type Plug struct {
	Node string
	Attr node.Attribute
}

func (p Plug) String() string {
	return p.Node + "." + string(p.Attr)
}

// Connection is a directed edge from an upstream plug into an input.
type Connection struct {
	Src Plug
	Dst Plug
}

// Graph owns nodes and the connections between them.
//
// Set and Get may be called from several goroutines; the graph serializes
// them, so nodes are only ever evaluated by one goroutine at a time.
type Graph struct {
	mu     sync.Mutex
	ids    IDGenerator
	logger *slog.Logger

	nodes map[string]node.Node
	order []string
	names map[string]string

	conns    []Connection
	incoming map[Plug]Plug
	stale    map[Plug]bool
}

// Option configures a Graph.
type Option func(*Graph)

// WithIDGenerator replaces the UUIDv7 id generator.
// Used in tests for deterministic ids.
func WithIDGenerator(ids IDGenerator) Option {
	return func(g *Graph) {
		g.ids = ids
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(g *Graph) {
		g.logger = l
	}
}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		ids:      UUIDv7Generator{},
		nodes:    make(map[string]node.Node),
		names:    make(map[string]string),
		incoming: make(map[Plug]Plug),
		stale:    make(map[Plug]bool),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g
}

// AddNode registers n and returns its id. Node names must be unique.
func (g *Graph) AddNode(n node.Node) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.names[n.Name()]; ok {
		return "", &GraphError{
			Code:    ErrCodeDuplicateName,
			Message: fmt.Sprintf("node %q already exists", n.Name()),
		}
	}

	id := g.ids.Generate()
	g.nodes[id] = n
	g.names[n.Name()] = id
	g.order = append(g.order, id)

	g.logger.Debug("node added", "node", n.Name(), "id", id)
	return id, nil
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (node.Node, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.nodes[id]
	return n, ok
}

// Lookup returns the id of the node with the given name.
func (g *Graph) Lookup(name string) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, ok := g.names[name]
	return id, ok
}

// Nodes returns node ids in insertion order.
func (g *Graph) Nodes() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Connections returns every connection in the order it was made.
func (g *Graph) Connections() []Connection {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Connection, len(g.conns))
	copy(out, g.conns)
	return out
}

// Connect feeds src into the input dst. The source may be any readable
// plug; the destination must be an input with no incoming connection, of
// the same value kind, and the edge must not close a cycle.
//
// The new connection is stale, so the next pull through dst reads src.
func (g *Graph) Connect(src, dst Plug) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	srcNode, err := g.node(src.Node)
	if err != nil {
		return err
	}
	dstNode, err := g.node(dst.Node)
	if err != nil {
		return err
	}

	srcSpec, ok := findSpec(srcNode, src.Attr)
	if !ok {
		return unknownAttribute(srcNode, src.Attr)
	}
	dstSpec, ok := findSpec(dstNode, dst.Attr)
	if !ok {
		return unknownAttribute(dstNode, dst.Attr)
	}
	if dstSpec.Direction != node.Input {
		return &node.AttributeError{
			Code:      node.ErrCodeWrongDirection,
			Node:      dstNode.Name(),
			Attribute: dst.Attr,
			Message:   "connection target must be an input",
		}
	}
	if srcSpec.Kind != dstSpec.Kind {
		return &GraphError{
			Code:    ErrCodeKindMismatch,
			Message: fmt.Sprintf("cannot connect %s value to %s input", srcSpec.Kind, dstSpec.Kind),
			Plug:    dst,
		}
	}
	if existing, ok := g.incoming[dst]; ok {
		return &GraphError{
			Code:    ErrCodeConnected,
			Message: fmt.Sprintf("input already fed by %s", existing),
			Plug:    dst,
		}
	}
	if src.Node == dst.Node || g.reaches(dst.Node, src.Node) {
		return &GraphError{
			Code:    ErrCodeCycle,
			Message: fmt.Sprintf("connecting %s would create a cycle", src),
			Plug:    dst,
		}
	}

	g.conns = append(g.conns, Connection{Src: src, Dst: dst})
	g.incoming[dst] = src
	g.stale[dst] = true
	g.markDownstream(dst.Node, make(map[string]bool))

	g.logger.Debug("connected", "src", src.String(), "dst", dst.String())
	return nil
}

// Set writes an unconnected input and pushes staleness to every plug
// downstream of the node. Nothing is evaluated.
func (g *Graph) Set(id string, attr node.Attribute, v node.Value) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	n, err := g.node(id)
	if err != nil {
		return err
	}
	p := Plug{Node: id, Attr: attr}
	if src, ok := g.incoming[p]; ok {
		return &GraphError{
			Code:    ErrCodeConnected,
			Message: fmt.Sprintf("input is driven by %s", src),
			Plug:    p,
		}
	}
	if err := n.SetInput(attr, v); err != nil {
		return err
	}
	g.markDownstream(id, make(map[string]bool))
	return nil
}

// Get pulls stale connected inputs of the node, recursively, and returns
// the requested output.
//
// Evaluation errors come back together with the node's held value, as
// node.Node.GetOutput reports them.
func (g *Graph) Get(id string, attr node.Attribute) (node.Value, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.get(id, attr)
}

// IsStale reports whether the connection into p has not been pulled since
// its source last changed.
func (g *Graph) IsStale(p Plug) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stale[p]
}

func (g *Graph) get(id string, attr node.Attribute) (node.Value, error) {
	n, err := g.node(id)
	if err != nil {
		return nil, err
	}
	if err := g.pullInputs(id, n); err != nil {
		return nil, err
	}
	return n.GetOutput(attr)
}

func (g *Graph) pullInputs(id string, n node.Node) error {
	for _, spec := range n.Attributes() {
		if spec.Direction != node.Input {
			continue
		}
		dst := Plug{Node: id, Attr: spec.Name}
		src, ok := g.incoming[dst]
		if !ok || !g.stale[dst] {
			continue
		}

		v, err := g.get(src.Node, src.Attr)
		if err != nil {
			return fmt.Errorf("pull %s from %s: %w", dst, src, err)
		}
		if err := n.SetInput(dst.Attr, v); err != nil {
			return fmt.Errorf("pull %s from %s: %w", dst, src, err)
		}
		delete(g.stale, dst)

		g.logger.Debug("pulled", "src", src.String(), "dst", dst.String())
	}
	return nil
}

// markDownstream flags every connection leaving id, and everything beyond
// it, as stale.
func (g *Graph) markDownstream(id string, seen map[string]bool) {
	if seen[id] {
		return
	}
	seen[id] = true
	for _, c := range g.conns {
		if c.Src.Node != id {
			continue
		}
		g.stale[c.Dst] = true
		g.markDownstream(c.Dst.Node, seen)
	}
}

// reaches reports whether to is downstream of from.
func (g *Graph) reaches(from, to string) bool {
	seen := make(map[string]bool)
	stack := []string{from}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == to {
			return true
		}
		if seen[cur] {
			continue
		}
		seen[cur] = true
		for _, c := range g.conns {
			if c.Src.Node == cur {
				stack = append(stack, c.Dst.Node)
			}
		}
	}
	return false
}

func (g *Graph) node(id string) (node.Node, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, &GraphError{
			Code:    ErrCodeUnknownNode,
			Message: fmt.Sprintf("no node with id %q", id),
		}
	}
	return n, nil
}

func findSpec(n node.Node, attr node.Attribute) (node.AttributeSpec, bool) {
	for _, spec := range n.Attributes() {
		if spec.Name == attr {
			return spec, true
		}
	}
	return node.AttributeSpec{}, false
}

func unknownAttribute(n node.Node, attr node.Attribute) error {
	return &node.AttributeError{
		Code:      node.ErrCodeUnknownAttribute,
		Node:      n.Name(),
		Attribute: attr,
		Message:   "no such attribute",
	}
}
