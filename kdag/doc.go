// Package kdag builds graphs of typed streams whose unit nodes are resolved
// with a kcombinator.Engine.
//
// # Overview
//
// A graph has three kinds of nodes:
//
//   - **Source**: produces elements of a fixed, concrete type
//   - **Unit**: a processing unit instance fed by one or more parents, in
//     input order; its output type is whatever the resolved entry point returns
//   - **Sink**: consumes the output of exactly one parent
//
// Registration only records structure. Build validates the topology, orders
// it, resolves every unit against the output types of its parents and checks
// that each sink accepts what it reads.
//
// # Basic Usage
//
//	builder := kdag.NewBuilder()
//
//	builder.MustAddSource("prices", ktype.Int64)
//	builder.MustAddUnit("avg", kunit.MustNewInstance(combinators.Average, nil), "prices")
//	builder.MustAddSink("out", "avg", ktype.Float64)
//
//	dag, err := builder.Build(ctx)
//	if err != nil {
//	    // errors.Is(err, kcombinator.ErrAmbiguousCandidates) etc.
//	}
//	t, _ := dag.OutputType("avg") // float64
//
// # Validation
//
// Build checks:
//
//   - **Edges**: every edge refers to a registered node, sources have no parents
//   - **Cycle Detection**: DAGs cannot contain cycles (uses DFS)
//   - **Sink Validation**: sinks have no children and exactly one parent
//   - **Size Limits**: prevents pathological graphs (MaxNodesPerDAG, MaxDepth, etc.)
//   - **Resolution**: every unit has exactly one best entry point for its inputs
//   - **Sink Types**: the parent's output converts to the accepted type by
//     identity, numeric widening or reference conversion
//
// Topology errors are reported on the first failure. Resolution and sink type
// errors are collected over the whole graph and returned together (see
// go.uber.org/multierr), each prefixed with its node. Nodes fed by a failed
// node report ErrUpstreamFailed instead of a second diagnostic.
//
// # Concurrency
//
// Nodes are grouped into levels: a node's level is one more than that of its
// deepest parent. The nodes of one level are resolved concurrently.
//
// IMPORTANT: Builder is NOT safe for concurrent use. The resulting DAG is
// immutable and safe to use concurrently.
//
// # Evaluation
//
// DAG.Evaluate runs the resolved calls once over materialized batches, one
// []any per source, and returns one batch per sink.
package kdag
