package kdag

import (
	"fmt"
	"strings"

	"github.com/birdayz/kcombinator"
	"github.com/birdayz/kcombinator/ktype"
	"github.com/birdayz/kcombinator/kunit"
)

// NodeID is a strongly-typed identifier for graph nodes.
// NodeIDs must be non-empty and cannot contain whitespace.
type NodeID string

// Validate checks if the NodeID is valid.
// Returns ErrInvalidNodeID if the ID is empty or contains whitespace.
func (id NodeID) Validate() error {
	if id == "" {
		return fmt.Errorf("%w: NodeID cannot be empty", ErrInvalidNodeID)
	}
	if strings.ContainsAny(string(id), " \t\n\r") {
		return fmt.Errorf("%w: NodeID %q cannot contain whitespace", ErrInvalidNodeID, id)
	}
	return nil
}

// NodeType represents the kind of node in the DAG
type NodeType int

const (
	NodeTypeSource NodeType = iota
	NodeTypeUnit
	NodeTypeSink
)

func (t NodeType) String() string {
	switch t {
	case NodeTypeSource:
		return "Source"
	case NodeTypeUnit:
		return "Unit"
	case NodeTypeSink:
		return "Sink"
	default:
		return "Unknown"
	}
}

// Node is the build-time representation of a stream in the DAG.
type Node struct {
	ID   NodeID
	Type NodeType

	// Parent edges (incoming), in input order
	Parents []NodeID

	// Child edges (outgoing)
	Children []NodeID

	// ElementType is the produced element type of a source and the accepted
	// element type of a sink. Units leave it nil until resolved.
	ElementType *ktype.Type

	// Instance is the processing unit spliced in at this node. Units only.
	Instance *kunit.Instance

	// Call is set on units once resolved.
	Call *kcombinator.Call
}

// Output returns the element type the node produces, or nil for sinks and
// unresolved units.
func (n *Node) Output() *ktype.Type {
	switch n.Type {
	case NodeTypeSource:
		return n.ElementType
	case NodeTypeUnit:
		if n.Call != nil {
			return n.Call.Output
		}
	}
	return nil
}

// ValidateDownstream checks if this node can connect to the given child node.
func (n *Node) ValidateDownstream(child *Node) error {
	if n.Type == NodeTypeSink {
		return fmt.Errorf("%w: sink nodes cannot have children", ErrInvalidTopology)
	}
	if child.Type == NodeTypeSource {
		return fmt.Errorf("%w: source nodes cannot be children", ErrInvalidTopology)
	}
	if len(n.Children) >= MaxChildrenPerNode {
		return fmt.Errorf("%w: node %s already has %d children", ErrInvalidTopology, n.ID, len(n.Children))
	}
	return nil
}

func (n *Node) clone() *Node {
	c := *n
	c.Parents = append([]NodeID(nil), n.Parents...)
	c.Children = append([]NodeID(nil), n.Children...)
	return &c
}

// Graph is the build-time DAG representation.
// It contains only structural information - no runtime behavior.
type Graph struct {
	Nodes map[NodeID]*Node

	// Deterministic node ordering (insertion order)
	NodeOrder []NodeID
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		Nodes:     make(map[NodeID]*Node),
		NodeOrder: make([]NodeID, 0),
	}
}

// AddNode adds a node to the graph.
func (g *Graph) AddNode(node *Node) error {
	if err := node.ID.Validate(); err != nil {
		return err
	}
	if _, exists := g.Nodes[node.ID]; exists {
		return fmt.Errorf("%w: %s", ErrNodeAlreadyExists, node.ID)
	}
	if len(g.Nodes) >= MaxNodesPerDAG {
		return fmt.Errorf("%w: node count exceeds maximum %d", ErrInvalidTopology, MaxNodesPerDAG)
	}
	g.Nodes[node.ID] = node
	g.NodeOrder = append(g.NodeOrder, node.ID)
	return nil
}

// AddEdge adds a directed edge from parent to child. The child's input
// position is the number of parents it had before.
func (g *Graph) AddEdge(parentID, childID NodeID) error {
	parent, ok := g.Nodes[parentID]
	if !ok {
		return fmt.Errorf("%w: parent %s", ErrNodeNotFound, parentID)
	}
	child, ok := g.Nodes[childID]
	if !ok {
		return fmt.Errorf("%w: child %s", ErrNodeNotFound, childID)
	}

	if err := parent.ValidateDownstream(child); err != nil {
		return fmt.Errorf("cannot connect %s -> %s: %w", parentID, childID, err)
	}

	parent.Children = append(parent.Children, childID)
	child.Parents = append(child.Parents, parentID)
	return nil
}

func (g *Graph) clone() *Graph {
	c := &Graph{
		Nodes:     make(map[NodeID]*Node, len(g.Nodes)),
		NodeOrder: append([]NodeID(nil), g.NodeOrder...),
	}
	for id, n := range g.Nodes {
		c.Nodes[id] = n.clone()
	}
	return c
}
