package kdag

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Validation limits to prevent pathological cases
const (
	MaxNodesPerDAG     = 10000
	MaxDepth           = 500
	MaxChildrenPerNode = 1000
)

// Validate performs all topology validations: size limits, edge consistency,
// cycle detection and sink validation.
// Returns early on first error for better UX.
func (g *Graph) Validate() error {
	// Check size limits
	if len(g.Nodes) > MaxNodesPerDAG {
		return fmt.Errorf("%w: node count %d exceeds maximum %d",
			ErrInvalidTopology, len(g.Nodes), MaxNodesPerDAG)
	}

	// 1. Edge consistency
	if err := g.validateEdges(); err != nil {
		return fmt.Errorf("DAG validation failed: %w", err)
	}

	// 2. Cycle detection using DFS
	if err := g.detectCycles(); err != nil {
		return fmt.Errorf("DAG validation failed: %w", err)
	}

	// 3. Sink node validation (no children, exactly one parent)
	if err := g.validateSinks(); err != nil {
		return fmt.Errorf("DAG validation failed: %w", err)
	}

	return nil
}

// detectCycles uses Depth-First Search (DFS) to find cycles in the DAG.
// Returns ErrCycleDetected if any cycle is found.
// Time complexity: O(V + E) where V is vertices and E is edges.
func (g *Graph) detectCycles() error {
	visited := make(map[NodeID]bool, len(g.Nodes))
	recStack := make(map[NodeID]bool, len(g.Nodes))

	var dfs func(NodeID, []NodeID, int) error
	dfs = func(nodeID NodeID, path []NodeID, depth int) error {
		if depth > MaxDepth {
			return fmt.Errorf("%w: maximum depth %d exceeded", ErrInvalidTopology, MaxDepth)
		}

		visited[nodeID] = true
		recStack[nodeID] = true
		path = append(path, nodeID)

		node := g.Nodes[nodeID]
		if len(node.Children) > MaxChildrenPerNode {
			return fmt.Errorf("%w: node %s has %d children, exceeds maximum %d",
				ErrInvalidTopology, nodeID, len(node.Children), MaxChildrenPerNode)
		}

		for _, childID := range node.Children {
			if !visited[childID] {
				if err := dfs(childID, path, depth+1); err != nil {
					return err
				}
			} else if recStack[childID] {
				cyclePath := append(path, childID)
				pathStr := make([]string, len(cyclePath))
				for i, id := range cyclePath {
					pathStr[i] = string(id)
				}
				return fmt.Errorf("%w: %s", ErrCycleDetected, strings.Join(pathStr, " -> "))
			}
		}

		recStack[nodeID] = false
		return nil
	}

	// Insertion order keeps the reported cycle stable
	for _, nodeID := range g.NodeOrder {
		if !visited[nodeID] {
			if err := dfs(nodeID, nil, 0); err != nil {
				return err
			}
		}
	}

	return nil
}

// validateSinks ensures that sink nodes don't have children and read from
// exactly one parent.
func (g *Graph) validateSinks() error {
	for _, nodeID := range g.NodeOrder {
		node := g.Nodes[nodeID]
		if node.Type != NodeTypeSink {
			continue
		}
		if len(node.Children) > 0 {
			childStrs := make([]string, len(node.Children))
			for i, id := range node.Children {
				childStrs[i] = string(id)
			}
			return fmt.Errorf("%w: sink node %s has children: %s",
				ErrInvalidTopology, nodeID, strings.Join(childStrs, ", "))
		}
		if len(node.Parents) != 1 {
			return fmt.Errorf("%w: sink node %s has %d parents, want 1",
				ErrInvalidTopology, nodeID, len(node.Parents))
		}
	}
	return nil
}

// validateEdges checks that every edge points at a registered node and that
// sources have no parents.
func (g *Graph) validateEdges() error {
	for _, nodeID := range g.NodeOrder {
		node := g.Nodes[nodeID]
		if node.Type == NodeTypeSource && len(node.Parents) > 0 {
			return fmt.Errorf("%w: source node %s has parents", ErrInvalidTopology, nodeID)
		}
		for _, edges := range [][]NodeID{node.Parents, node.Children} {
			for _, id := range edges {
				if _, ok := g.Nodes[id]; !ok {
					return fmt.Errorf("%w: %s references %s", ErrNodeNotFound, nodeID, id)
				}
			}
		}
	}
	return nil
}

// insertSorted inserts an item into a sorted slice maintaining sort order.
// This is more efficient than repeatedly sorting the entire slice.
// Time complexity: O(log n + n) for binary search + insert.
func insertSorted(slice []NodeID, item NodeID) []NodeID {
	idx := sort.Search(len(slice), func(i int) bool {
		return slice[i] >= item
	})
	return slices.Insert(slice, idx, item)
}

// topologicalSort creates a deterministic topological ordering using Kahn's algorithm.
// Time complexity: O(V log V + E) where V is vertices and E is edges.
// The log V factor comes from maintaining sorted order for determinism.
func (g *Graph) topologicalSort() ([]NodeID, error) {
	inDegree := make(map[NodeID]int, len(g.Nodes))
	for nodeID := range g.Nodes {
		inDegree[nodeID] = 0
	}
	for _, node := range g.Nodes {
		for _, childID := range node.Children {
			inDegree[childID]++
		}
	}

	// Queue of nodes with no incoming edges
	// Use sorted slice for deterministic ordering
	queue := make([]NodeID, 0, len(g.Nodes)/4)
	for nodeID, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, nodeID)
		}
	}
	slices.Sort(queue)

	result := make([]NodeID, 0, len(g.Nodes))
	for len(queue) > 0 {
		// Pop first (deterministic ordering)
		nodeID := queue[0]
		queue = queue[1:]
		result = append(result, nodeID)

		node := g.Nodes[nodeID]
		// Sort children for deterministic processing
		children := make([]NodeID, len(node.Children))
		copy(children, node.Children)
		slices.Sort(children)

		for _, childID := range children {
			inDegree[childID]--
			if inDegree[childID] == 0 {
				queue = insertSorted(queue, childID)
			}
		}
	}

	// If we didn't process all nodes, there must be a cycle
	if len(result) != len(g.Nodes) {
		return nil, fmt.Errorf("%w: topological sort failed", ErrCycleDetected)
	}

	return result, nil
}

// levels groups a topological order by depth: roots are level 0 and every
// other node sits one level below its deepest parent. Nodes of one level do
// not depend on each other.
func (g *Graph) levels(order []NodeID) [][]NodeID {
	depth := make(map[NodeID]int, len(order))
	var out [][]NodeID
	for _, id := range order {
		d := 0
		for _, p := range g.Nodes[id].Parents {
			if depth[p]+1 > d {
				d = depth[p] + 1
			}
		}
		depth[id] = d
		if d == len(out) {
			out = append(out, nil)
		}
		out[d] = append(out[d], id)
	}
	return out
}
