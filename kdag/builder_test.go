package kdag

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/birdayz/kcombinator"
	"github.com/birdayz/kcombinator/ktype"
	"github.com/go-logr/logr/testr"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

func TestNewBuilder(t *testing.T) {
	tb := NewBuilder()
	assert.NotZero(t, tb)
	assert.NotZero(t, tb.GetGraph())
	assert.NotZero(t, tb.engine)
	// Maps are initialized (not nil)
	assert.NotEqual(t, (map[NodeID]*Node)(nil), tb.GetGraph().Nodes)
}

func TestAddSource(t *testing.T) {
	t.Run("valid source registration", func(t *testing.T) {
		tb := NewBuilder()
		assert.NoError(t, tb.AddSource("source1", ktype.Int32))

		node, exists := tb.GetNode("source1")
		assert.True(t, exists)
		assert.Equal(t, NodeTypeSource, node.Type)
		assert.Equal(t, "int32", node.Output().String())
	})

	t.Run("duplicate source name", func(t *testing.T) {
		tb := NewBuilder()
		assert.NoError(t, tb.AddSource("source1", ktype.Int32))

		err := tb.AddSource("source1", ktype.Int64)
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrNodeAlreadyExists))
	})

	t.Run("invalid name", func(t *testing.T) {
		tb := NewBuilder()
		err := tb.AddSource("my source", ktype.Int32)
		assert.True(t, errors.Is(err, ErrInvalidNodeID))

		err = tb.AddSource("", ktype.Int32)
		assert.True(t, errors.Is(err, ErrInvalidNodeID))
	})

	t.Run("element type must be concrete", func(t *testing.T) {
		tb := NewBuilder()
		assert.True(t, errors.Is(tb.AddSource("a", nil), ErrTypeMismatch))
		assert.True(t, errors.Is(tb.AddSource("b", ktype.Timestamped(ktype.Param("T"))), ErrTypeMismatch))
		assert.Equal(t, 0, len(tb.GetGraph().Nodes))
	})

	t.Run("multiple sources - different names", func(t *testing.T) {
		tb := NewBuilder()
		assert.NoError(t, tb.AddSource("source1", ktype.Int32))
		assert.NoError(t, tb.AddSource("source2", ktype.String))
		assert.Equal(t, 2, len(tb.GetGraph().Nodes))
		assert.Equal(t, []NodeID{"source1", "source2"}, tb.GetGraph().NodeOrder)
	})
}

func TestAddUnit(t *testing.T) {
	t.Run("valid unit registration", func(t *testing.T) {
		tb := NewBuilder()
		tb.MustAddSource("source", ktype.Int32)

		assert.NoError(t, tb.AddUnit("unit1", pass(), "source"))

		node, exists := tb.GetNode("unit1")
		assert.True(t, exists)
		assert.Equal(t, NodeTypeUnit, node.Type)
		assert.Zero(t, node.Call)

		sourceNode, _ := tb.GetNode("source")
		assert.Equal(t, []NodeID{"unit1"}, sourceNode.Children)
		assert.Equal(t, []NodeID{"source"}, node.Parents)
	})

	t.Run("parents keep input order", func(t *testing.T) {
		tb := NewBuilder()
		tb.MustAddSource("a", ktype.Int64)
		tb.MustAddSource("b", ktype.Int64)

		assert.NoError(t, tb.AddUnit("sum", add(), "b", "a"))
		node, _ := tb.GetNode("sum")
		assert.Equal(t, []NodeID{"b", "a"}, node.Parents)
	})

	t.Run("parent not found", func(t *testing.T) {
		tb := NewBuilder()
		tb.MustAddSource("source", ktype.Int32)

		err := tb.AddUnit("unit1", add(), "source", "nonexistent")
		assert.True(t, errors.Is(err, ErrNodeNotFound))
		_, exists := tb.GetNode("unit1")
		assert.False(t, exists)
	})

	t.Run("duplicate unit name", func(t *testing.T) {
		tb := NewBuilder()
		tb.MustAddSource("source", ktype.Int32)
		assert.NoError(t, tb.AddUnit("unit1", pass(), "source"))

		err := tb.AddUnit("unit1", pass(), "source")
		assert.True(t, errors.Is(err, ErrNodeAlreadyExists))
	})

	t.Run("nil instance", func(t *testing.T) {
		tb := NewBuilder()
		tb.MustAddSource("source", ktype.Int32)
		assert.True(t, errors.Is(tb.AddUnit("unit1", nil, "source"), ErrInvalidTopology))
	})

	t.Run("sink cannot feed a unit", func(t *testing.T) {
		tb := NewBuilder()
		tb.MustAddSource("a", ktype.Int64)
		tb.MustAddSource("b", ktype.Int64)
		tb.MustAddSink("sink", "b", ktype.Int64)

		err := tb.AddUnit("sum", add(), "a", "sink")
		assert.True(t, errors.Is(err, ErrInvalidTopology))

		// The partial registration is rolled back
		_, exists := tb.GetNode("sum")
		assert.False(t, exists)
		a, _ := tb.GetNode("a")
		assert.Equal(t, 0, len(a.Children))
		assert.Equal(t, []NodeID{"a", "b", "sink"}, tb.GetGraph().NodeOrder)
	})

	t.Run("chain multiple units", func(t *testing.T) {
		tb := NewBuilder()
		tb.MustAddSource("source", ktype.Int32)
		assert.NoError(t, tb.AddUnit("unit1", pass(), "source"))
		assert.NoError(t, tb.AddUnit("unit2", pass(), "unit1"))

		u1, _ := tb.GetNode("unit1")
		u2, _ := tb.GetNode("unit2")
		assert.Equal(t, []NodeID{"unit2"}, u1.Children)
		assert.Equal(t, []NodeID{"unit1"}, u2.Parents)
	})
}

func TestAddSink(t *testing.T) {
	t.Run("valid sink registration", func(t *testing.T) {
		tb := NewBuilder()
		tb.MustAddSource("source", ktype.Int32)

		assert.NoError(t, tb.AddSink("sink1", "source", ktype.Int32))

		node, exists := tb.GetNode("sink1")
		assert.True(t, exists)
		assert.Equal(t, NodeTypeSink, node.Type)
		assert.Zero(t, node.Output())

		sourceNode, _ := tb.GetNode("source")
		assert.Equal(t, []NodeID{"sink1"}, sourceNode.Children)
	})

	t.Run("parent not found", func(t *testing.T) {
		tb := NewBuilder()
		err := tb.AddSink("sink1", "nonexistent", ktype.Int32)
		assert.True(t, errors.Is(err, ErrNodeNotFound))
	})

	t.Run("duplicate sink name", func(t *testing.T) {
		tb := NewBuilder()
		tb.MustAddSource("source", ktype.Int32)
		assert.NoError(t, tb.AddSink("sink1", "source", ktype.Int32))

		err := tb.AddSink("sink1", "source", ktype.Int32)
		assert.True(t, errors.Is(err, ErrNodeAlreadyExists))
	})

	t.Run("accepted type must be concrete", func(t *testing.T) {
		tb := NewBuilder()
		tb.MustAddSource("source", ktype.Int32)
		assert.True(t, errors.Is(tb.AddSink("sink1", "source", ktype.Param("T")), ErrTypeMismatch))
		assert.True(t, errors.Is(tb.AddSink("sink2", "source", nil), ErrTypeMismatch))
	})

	t.Run("sink cannot read a sink", func(t *testing.T) {
		tb := NewBuilder()
		tb.MustAddSource("source", ktype.Int32)
		tb.MustAddSink("sink1", "source", ktype.Int32)

		err := tb.AddSink("sink2", "sink1", ktype.Int32)
		assert.True(t, errors.Is(err, ErrInvalidTopology))
		_, exists := tb.GetNode("sink2")
		assert.False(t, exists)
	})
}

func TestBuild(t *testing.T) {
	ctx := context.Background()

	t.Run("valid topology builds successfully", func(t *testing.T) {
		tb := NewBuilder(WithLogr(testr.New(t)))
		tb.MustAddSource("source", ktype.Int32)
		tb.MustAddUnit("unit1", pass(), "source")
		tb.MustAddSink("sink", "unit1", ktype.Int32)

		dag, err := tb.Build(ctx)
		assert.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, dag.ID())

		out, ok := dag.OutputType("unit1")
		assert.True(t, ok)
		assert.Equal(t, "int32", out.String())

		call, ok := dag.Call("unit1")
		assert.True(t, ok)
		assert.Equal(t, "Pass.Process<int32>(int32) int32", call.String())

		// The builder's own graph is left untouched
		node, _ := tb.GetNode("unit1")
		assert.Zero(t, node.Call)
	})

	t.Run("output types flow downstream", func(t *testing.T) {
		tb := NewBuilder()
		tb.MustAddSource("a", ktype.Int32)
		tb.MustAddSource("b", ktype.Int16)
		tb.MustAddUnit("sum", add(), "a", "b")
		tb.MustAddUnit("fwd", pass(), "sum")
		tb.MustAddSink("sink", "fwd", ktype.Float64)

		dag, err := tb.Build(ctx)
		assert.NoError(t, err)
		out, _ := dag.OutputType("fwd")
		assert.Equal(t, "int64", out.String())
	})

	t.Run("build fails on cycle", func(t *testing.T) {
		tb := NewBuilder()
		tb.MustAddSource("source", ktype.Int32)
		tb.MustAddUnit("unit1", pass(), "source")
		tb.MustAddUnit("unit2", pass(), "unit1")

		// Manually create a cycle (unit1 -> unit2 -> unit1)
		assert.NoError(t, tb.GetGraph().AddEdge("unit2", "unit1"))

		_, err := tb.Build(ctx)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "validation failed")
		assert.True(t, errors.Is(err, ErrCycleDetected))
	})

	t.Run("build fails on sink with children", func(t *testing.T) {
		tb := NewBuilder()
		tb.MustAddSource("source", ktype.Int32)
		tb.MustAddSink("sink", "source", ktype.Int32)
		tb.MustAddUnit("unit1", pass(), "source")

		// Manually connect sink -> unit1 (which is invalid)
		sink, _ := tb.GetNode("sink")
		sink.Children = []NodeID{"unit1"}

		_, err := tb.Build(ctx)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "validation failed")
		assert.True(t, errors.Is(err, ErrInvalidTopology))
	})

	t.Run("build fails on dangling edge", func(t *testing.T) {
		tb := NewBuilder()
		tb.MustAddSource("source", ktype.Int32)
		source, _ := tb.GetNode("source")
		source.Children = []NodeID{"ghost"}

		_, err := tb.Build(ctx)
		assert.True(t, errors.Is(err, ErrNodeNotFound))
	})

	t.Run("resolution failures are aggregated", func(t *testing.T) {
		tb := NewBuilder()
		tb.MustAddSource("source", ktype.Int32)
		tb.MustAddUnit("amb1", pair(), "source", "source")
		tb.MustAddUnit("amb2", pair(), "source", "source")
		tb.MustAddUnit("after", pass(), "amb1")
		tb.MustAddSink("sink", "after", ktype.Float64)

		_, err := tb.Build(ctx)
		assert.Error(t, err)

		errs := multierr.Errors(err)
		assert.Equal(t, 4, len(errs))
		assert.True(t, errors.Is(errs[0], kcombinator.ErrAmbiguousCandidates))
		assert.Contains(t, errs[0].Error(), "node amb1: ")
		assert.True(t, errors.Is(errs[1], kcombinator.ErrAmbiguousCandidates))
		assert.Contains(t, errs[1].Error(), "node amb2: ")
		assert.True(t, errors.Is(errs[2], ErrUpstreamFailed))
		assert.Contains(t, errs[2].Error(), "node after: ")
		assert.True(t, errors.Is(errs[3], ErrUpstreamFailed))

		var be *kcombinator.BuildError
		assert.True(t, errors.As(err, &be))
		assert.Equal(t, "Pair", be.Unit)
	})

	t.Run("no applicable candidate", func(t *testing.T) {
		tb := NewBuilder()
		tb.MustAddSource("a", ktype.String)
		tb.MustAddSource("b", ktype.Int64)
		tb.MustAddUnit("sum", add(), "a", "b")

		_, err := tb.Build(ctx)
		assert.True(t, errors.Is(err, kcombinator.ErrNoApplicableCandidate))
		assert.Contains(t, err.Error(), "node sum: ")
	})

	t.Run("sink type mismatch", func(t *testing.T) {
		tb := NewBuilder()
		tb.MustAddSource("source", ktype.Int64)
		tb.MustAddSink("narrow", "source", ktype.Int32)
		tb.MustAddSink("wide", "source", ktype.Decimal)
		tb.MustAddSink("any", "source", ktype.Object)

		_, err := tb.Build(ctx)
		errs := multierr.Errors(err)
		assert.Equal(t, 1, len(errs))
		assert.True(t, errors.Is(errs[0], ErrTypeMismatch))
		assert.Contains(t, errs[0].Error(), "node narrow: ")
	})

	t.Run("canceled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := chain(3).Build(cctx)
		assert.True(t, errors.Is(err, context.Canceled))
	})

	t.Run("empty topology builds successfully", func(t *testing.T) {
		dag, err := NewBuilder().Build(ctx)
		assert.NoError(t, err)
		assert.NotZero(t, dag)
		assert.Equal(t, 0, len(dag.Order()))
	})

	t.Run("custom engine", func(t *testing.T) {
		engine := kcombinator.New(kcombinator.WithEntryPoint("Handle"))
		tb := NewBuilder(WithEngine(engine))
		tb.MustAddSource("source", ktype.Int32)
		tb.MustAddUnit("unit1", pass(), "source")

		_, err := tb.Build(ctx)
		assert.True(t, errors.Is(err, kcombinator.ErrNoApplicableCandidate))
	})
}

func TestMustBuild(t *testing.T) {
	t.Run("valid topology does not panic", func(t *testing.T) {
		assert.NotZero(t, chain(1).MustBuild(context.Background()))
	})

	t.Run("invalid topology panics", func(t *testing.T) {
		tb := NewBuilder()
		tb.MustAddSource("source", ktype.Int32)
		tb.MustAddUnit("unit1", pair(), "source", "source")

		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected panic but got none")
			}
		}()
		tb.MustBuild(context.Background())
	})
}

func TestComplexTopologies(t *testing.T) {
	ctx := context.Background()

	t.Run("branching topology", func(t *testing.T) {
		tb := NewBuilder()
		tb.MustAddSource("source", ktype.Int32)
		tb.MustAddUnit("unit1", pass(), "source")
		tb.MustAddSink("sink1", "unit1", ktype.Int32)
		tb.MustAddUnit("unit2", pass(), "source")
		tb.MustAddSink("sink2", "unit2", ktype.Int64)

		dag, err := tb.Build(ctx)
		assert.NoError(t, err)

		source, _ := dag.Node("source")
		assert.Equal(t, 2, len(source.Children))
		assert.Equal(t, []NodeID{"sink1", "sink2"}, dag.Sinks())
	})

	t.Run("diamond levels", func(t *testing.T) {
		tb := NewBuilder()
		tb.MustAddSource("source", ktype.Int64)
		tb.MustAddUnit("b", pass(), "source")
		tb.MustAddUnit("a", pass(), "source")
		tb.MustAddUnit("sum", add(), "a", "b")
		tb.MustAddSink("sink", "sum", ktype.Int64)

		dag, err := tb.Build(ctx)
		assert.NoError(t, err)
		assert.Equal(t, []NodeID{"source", "a", "b", "sum", "sink"}, dag.Order())
		assert.Equal(t, [][]NodeID{{"source"}, {"a", "b"}, {"sum"}, {"sink"}}, dag.Levels())
	})

	t.Run("deep chain", func(t *testing.T) {
		dag, err := chain(5).Build(ctx)
		assert.NoError(t, err)

		// 1 source + 5 units + 1 sink = 7 nodes
		assert.Equal(t, 7, len(dag.Order()))
		assert.Equal(t, 7, len(dag.Levels()))
	})

	t.Run("too deep", func(t *testing.T) {
		_, err := chain(MaxDepth + 1).Build(ctx)
		assert.True(t, errors.Is(err, ErrInvalidTopology))
	})
}

func TestEvaluate(t *testing.T) {
	ctx := context.Background()

	tb := NewBuilder()
	tb.MustAddSource("source", ktype.Int64)
	tb.MustAddUnit("a", pass(), "source")
	tb.MustAddUnit("sum", add(), "a", "source")
	tb.MustAddSink("exact", "sum", ktype.Int64)
	tb.MustAddSink("widened", "sum", ktype.Float64)
	dag := tb.MustBuild(ctx)

	t.Run("batches flow to sinks", func(t *testing.T) {
		out, err := dag.Evaluate(ctx, map[string][]any{"source": {int64(1), int64(2)}})
		assert.NoError(t, err)
		assert.Equal(t, []any{int64(2), int64(4)}, out["exact"])
		assert.Equal(t, []any{float64(2), float64(4)}, out["widened"])
	})

	t.Run("missing source input", func(t *testing.T) {
		_, err := dag.Evaluate(ctx, map[string][]any{})
		assert.True(t, errors.Is(err, ErrNodeNotFound))
	})

	t.Run("unit failure names the node", func(t *testing.T) {
		_, err := dag.Evaluate(ctx, map[string][]any{"source": {int64(1), "x"}})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "node sum: ")
		var pe *kcombinator.PanicError
		assert.True(t, errors.As(err, &pe))
	})
}

func ExampleBuilder_Build() {
	b := NewBuilder()
	b.MustAddSource("left", ktype.Int64)
	b.MustAddSource("right", ktype.Int32)
	b.MustAddUnit("sum", add(), "left", "right")
	b.MustAddSink("out", "sum", ktype.Float64)

	dag, err := b.Build(context.Background())
	if err != nil {
		fmt.Println(err)
		return
	}
	call, _ := dag.Call("sum")
	fmt.Println(call)
	// Output: Add.Process(int64, int64) int64
}
