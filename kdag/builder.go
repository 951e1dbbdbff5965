package kdag

import (
	"context"
	"errors"
	"fmt"

	"github.com/birdayz/kcombinator"
	"github.com/birdayz/kcombinator/ktype"
	"github.com/birdayz/kcombinator/kunit"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
)

// Builder constructs a graph of sources, processing units and sinks.
//
// IMPORTANT: Builder is NOT safe for concurrent use. All registration
// methods must be called from a single goroutine. Build works on a copy of
// the graph, so the resulting DAG is immutable and safe to use concurrently,
// and the builder may be extended and built again.
type Builder struct {
	graph  *Graph
	engine *kcombinator.Engine
	log    logr.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithEngine sets the engine that resolves unit nodes.
var WithEngine = func(e *kcombinator.Engine) Option {
	return func(b *Builder) {
		b.engine = e
	}
}

// WithLogr sets the logger for the builder.
var WithLogr = func(log logr.Logger) Option {
	return func(b *Builder) {
		b.log = log
	}
}

// NewBuilder creates a new DAG builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		graph: NewGraph(),
		log:   logr.Discard(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.engine == nil {
		b.engine = kcombinator.New(kcombinator.WithLogr(b.log))
	}
	return b
}

// GetGraph returns the underlying graph for read-only access.
func (b *Builder) GetGraph() *Graph {
	return b.graph
}

// GetNode returns a node by ID if it exists.
func (b *Builder) GetNode(id NodeID) (*Node, bool) {
	node, ok := b.graph.Nodes[id]
	return node, ok
}

// AddSource adds a source node producing elements of type elem.
func (b *Builder) AddSource(name string, elem *ktype.Type) error {
	if elem == nil {
		return fmt.Errorf("%w: source %q has no element type", ErrTypeMismatch, name)
	}
	if elem.HasParams() {
		return fmt.Errorf("%w: source %q element type %s is not concrete", ErrTypeMismatch, name, elem)
	}
	return b.graph.AddNode(&Node{
		ID:          NodeID(name),
		Type:        NodeTypeSource,
		Parents:     []NodeID{},
		Children:    []NodeID{},
		ElementType: elem,
	})
}

// AddUnit adds a unit node fed by parents, in input order. The node is
// resolved against its parents' element types by Build.
func (b *Builder) AddUnit(name string, inst *kunit.Instance, parents ...string) error {
	nodeID := NodeID(name)
	if err := nodeID.Validate(); err != nil {
		return err
	}
	if _, exists := b.graph.Nodes[nodeID]; exists {
		return fmt.Errorf("%w: unit %q", ErrNodeAlreadyExists, name)
	}
	if inst == nil {
		return fmt.Errorf("%w: unit %q has no instance", ErrInvalidTopology, name)
	}
	for _, parent := range parents {
		if _, ok := b.graph.Nodes[NodeID(parent)]; !ok {
			return fmt.Errorf("%w: parent %q of unit %q", ErrNodeNotFound, parent, name)
		}
	}

	node := &Node{
		ID:       nodeID,
		Type:     NodeTypeUnit,
		Parents:  []NodeID{},
		Children: []NodeID{},
		Instance: inst,
	}
	if err := b.graph.AddNode(node); err != nil {
		return err
	}
	for _, parent := range parents {
		if err := b.graph.AddEdge(NodeID(parent), nodeID); err != nil {
			b.remove(nodeID)
			return err
		}
	}
	return nil
}

// AddSink adds a sink node reading the output of parent. accepts is the
// element type the sink consumes.
func (b *Builder) AddSink(name, parent string, accepts *ktype.Type) error {
	nodeID := NodeID(name)
	if err := nodeID.Validate(); err != nil {
		return err
	}
	if _, exists := b.graph.Nodes[nodeID]; exists {
		return fmt.Errorf("%w: sink %q", ErrNodeAlreadyExists, name)
	}
	if accepts == nil || accepts.HasParams() {
		return fmt.Errorf("%w: sink %q must accept a concrete type", ErrTypeMismatch, name)
	}
	if _, ok := b.graph.Nodes[NodeID(parent)]; !ok {
		return fmt.Errorf("%w: parent %q of sink %q", ErrNodeNotFound, parent, name)
	}

	node := &Node{
		ID:          nodeID,
		Type:        NodeTypeSink,
		Parents:     []NodeID{},
		Children:    []NodeID{},
		ElementType: accepts,
	}
	if err := b.graph.AddNode(node); err != nil {
		return err
	}
	if err := b.graph.AddEdge(NodeID(parent), nodeID); err != nil {
		b.remove(nodeID)
		return err
	}
	return nil
}

// remove undoes a partially registered node. Only the most recently added
// node can be removed.
func (b *Builder) remove(id NodeID) {
	node := b.graph.Nodes[id]
	for _, parent := range node.Parents {
		p := b.graph.Nodes[parent]
		p.Children = p.Children[:len(p.Children)-1]
	}
	delete(b.graph.Nodes, id)
	b.graph.NodeOrder = b.graph.NodeOrder[:len(b.graph.NodeOrder)-1]
}

// Build validates the graph, resolves every unit node against the element
// types of its parents and checks that each sink can accept what it reads.
//
// Nodes of one topological level are resolved concurrently. All failures are
// reported together, each wrapped with the name of its node; a node
// downstream of a failed one fails with ErrUpstreamFailed.
func (b *Builder) Build(ctx context.Context) (*DAG, error) {
	graph := b.graph.clone()
	if err := graph.Validate(); err != nil {
		return nil, err
	}

	order, err := graph.topologicalSort()
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	log := b.log.WithValues("build", id.String())

	r := &resolver{graph: graph, engine: b.engine, log: log, failed: map[NodeID]bool{}}
	levels := graph.levels(order)
	if err := r.run(ctx, levels); err != nil {
		return nil, err
	}
	log.V(1).Info("graph built", "nodes", len(order), "levels", len(levels))

	return &DAG{
		id:     id,
		graph:  graph,
		order:  order,
		levels: levels,
	}, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild(ctx context.Context) *DAG {
	dag, err := b.Build(ctx)
	if err != nil {
		panic(err)
	}
	return dag
}

// MustAddSource is like AddSource but panics on error.
func (b *Builder) MustAddSource(name string, elem *ktype.Type) {
	must(b.AddSource(name, elem))
}

// MustAddUnit is like AddUnit but panics on error.
func (b *Builder) MustAddUnit(name string, inst *kunit.Instance, parents ...string) {
	must(b.AddUnit(name, inst, parents...))
}

// MustAddSink is like AddSink but panics on error.
func (b *Builder) MustAddSink(name, parent string, accepts *ktype.Type) {
	must(b.AddSink(name, parent, accepts))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Sentinel errors for common failure cases.
var (
	ErrNodeAlreadyExists = errors.New("node already exists")
	ErrNodeNotFound      = errors.New("node not found")
	ErrCycleDetected     = errors.New("cycle detected in DAG")
	ErrInvalidNodeID     = errors.New("invalid node ID")
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrInvalidTopology   = errors.New("invalid topology")
	ErrUpstreamFailed    = errors.New("upstream node failed")
)
