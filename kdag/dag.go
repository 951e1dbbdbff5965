package kdag

import (
	"context"
	"fmt"

	"github.com/birdayz/kcombinator"
	"github.com/birdayz/kcombinator/ktype"
	"github.com/google/uuid"
)

// DAG is a fully built graph: every unit node carries its resolved call and
// every sink has been checked against what it reads.
type DAG struct {
	id     uuid.UUID
	graph  *Graph
	order  []NodeID
	levels [][]NodeID
}

// ID identifies this build in log lines.
func (d *DAG) ID() uuid.UUID {
	return d.id
}

// Node returns a node by name.
func (d *DAG) Node(name string) (*Node, bool) {
	node, ok := d.graph.Nodes[NodeID(name)]
	return node, ok
}

// Order returns the deterministic topological order of the nodes.
func (d *DAG) Order() []NodeID {
	return append([]NodeID(nil), d.order...)
}

// Levels returns the nodes grouped by depth. Nodes of one level are
// independent of each other.
func (d *DAG) Levels() [][]NodeID {
	out := make([][]NodeID, len(d.levels))
	for i, level := range d.levels {
		out[i] = append([]NodeID(nil), level...)
	}
	return out
}

// OutputType returns the element type produced by a source or unit node.
func (d *DAG) OutputType(name string) (*ktype.Type, bool) {
	node, ok := d.Node(name)
	if !ok || node.Type == NodeTypeSink {
		return nil, false
	}
	return node.Output(), true
}

// Call returns the resolved call of a unit node.
func (d *DAG) Call(name string) (*kcombinator.Call, bool) {
	node, ok := d.Node(name)
	if !ok || node.Call == nil {
		return nil, false
	}
	return node.Call, true
}

// Sources returns the source node IDs in insertion order.
func (d *DAG) Sources() []NodeID {
	return d.ofType(NodeTypeSource)
}

// Sinks returns the sink node IDs in insertion order.
func (d *DAG) Sinks() []NodeID {
	return d.ofType(NodeTypeSink)
}

func (d *DAG) ofType(t NodeType) []NodeID {
	var out []NodeID
	for _, id := range d.graph.NodeOrder {
		if d.graph.Nodes[id].Type == t {
			out = append(out, id)
		}
	}
	return out
}

// Evaluate runs the graph once over materialized batches. inputs holds one
// batch per source; the result holds one batch per sink, converted to the
// element type the sink accepts.
func (d *DAG) Evaluate(ctx context.Context, inputs map[string][]any) (map[string][]any, error) {
	values := make(map[NodeID]any, len(d.order))
	for _, id := range d.Sources() {
		batch, ok := inputs[string(id)]
		if !ok {
			return nil, fmt.Errorf("%w: no input for source %s", ErrNodeNotFound, id)
		}
		values[id] = batch
	}

	out := make(map[string][]any)
	for _, id := range d.order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		node := d.graph.Nodes[id]
		switch node.Type {
		case NodeTypeUnit:
			args := make([]any, len(node.Parents))
			for i, parent := range node.Parents {
				args[i] = values[parent]
			}
			v, err := node.Call.Invoke(args...)
			if err != nil {
				return nil, fmt.Errorf("node %s: %w", id, err)
			}
			values[id] = v
		case NodeTypeSink:
			v, err := ktype.Convert(values[node.Parents[0]], node.ElementType)
			if err != nil {
				return nil, fmt.Errorf("node %s: %w", id, err)
			}
			batch, ok := v.([]any)
			if !ok {
				return nil, fmt.Errorf("%w: node %s received %T, want a batch", ErrTypeMismatch, id, v)
			}
			out[string(id)] = batch
		}
	}
	return out, nil
}
