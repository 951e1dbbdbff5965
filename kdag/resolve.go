package kdag

import (
	"context"
	"fmt"

	"github.com/birdayz/kcombinator"
	"github.com/birdayz/kcombinator/ktype"
	"github.com/go-logr/logr"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// resolver resolves a validated graph level by level.
type resolver struct {
	graph  *Graph
	engine *kcombinator.Engine
	log    logr.Logger
	failed map[NodeID]bool
}

func (r *resolver) run(ctx context.Context, levels [][]NodeID) error {
	var errs error
	for depth, level := range levels {
		if err := ctx.Err(); err != nil {
			return err
		}

		results := make([]error, len(level))
		grp, gctx := errgroup.WithContext(ctx)
		for i, id := range level {
			i, id := i, id
			grp.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				results[i] = r.resolveNode(r.graph.Nodes[id])
				return nil
			})
		}
		if err := grp.Wait(); err != nil {
			return err
		}

		for i, err := range results {
			if err != nil {
				r.failed[level[i]] = true
				errs = multierr.Append(errs, fmt.Errorf("node %s: %w", level[i], err))
			}
		}
		r.log.V(1).Info("resolved level", "level", depth, "nodes", len(level))
	}
	return errs
}

// resolveNode only reads the outputs of earlier levels and writes to its own
// node, so nodes of one level never touch shared state.
func (r *resolver) resolveNode(node *Node) error {
	for _, parent := range node.Parents {
		if r.failed[parent] {
			return fmt.Errorf("%w: %s", ErrUpstreamFailed, parent)
		}
	}

	switch node.Type {
	case NodeTypeUnit:
		return r.resolveUnit(node)
	case NodeTypeSink:
		return r.checkSink(node)
	}
	return nil
}

func (r *resolver) resolveUnit(node *Node) error {
	inputs := make([]kcombinator.Input, len(node.Parents))
	for i, parent := range node.Parents {
		inputs[i] = kcombinator.Input{ElementType: r.graph.Nodes[parent].Output()}
	}

	out := r.engine.Resolve(node.Instance, inputs...)
	if err := out.Err(); err != nil {
		return err
	}
	node.Call = out.Call
	r.log.V(1).Info("resolved unit", "node", node.ID, "call", out.Call.String())
	return nil
}

func (r *resolver) checkSink(node *Node) error {
	produced := r.graph.Nodes[node.Parents[0]].Output()
	conv := ktype.Check(produced, node.ElementType)
	switch conv.Kind {
	case ktype.Identity, ktype.NumericWidening, ktype.ReferenceConversion:
		return nil
	}
	return fmt.Errorf("%w: sink accepts %s, %s produces %s", ErrTypeMismatch, node.ElementType, node.Parents[0], produced)
}
