package kdag

import (
	"fmt"

	"github.com/birdayz/kcombinator/ktype"
	"github.com/birdayz/kcombinator/kunit"
)

// passUnit forwards its input batch unchanged.
var passUnit = kunit.MustDeclare(kunit.TypeSpec{
	Name: "Pass",
	Methods: []*kunit.Method{{
		Name:       "Process",
		TypeParams: []string{"T"},
		Params:     []kunit.Param{{Type: ktype.Param("T")}},
		Returns:    ktype.Param("T"),
		Impl: func(_ any, args []any, _ ktype.Bindings) (any, error) {
			return args[0], nil
		},
	}},
})

// addUnit adds two int64 batches element by element.
var addUnit = kunit.MustDeclare(kunit.TypeSpec{
	Name: "Add",
	Methods: []*kunit.Method{{
		Name:    "Process",
		Params:  []kunit.Param{{Type: ktype.Int64}, {Type: ktype.Int64}},
		Returns: ktype.Int64,
		Impl: func(_ any, args []any, _ ktype.Bindings) (any, error) {
			a, b := args[0].([]any), args[1].([]any)
			if len(a) != len(b) {
				return nil, fmt.Errorf("batch sizes differ: %d and %d", len(a), len(b))
			}
			out := make([]any, len(a))
			for i := range a {
				out[i] = a[i].(int64) + b[i].(int64)
			}
			return out, nil
		},
	}},
})

// pairUnit is ambiguous for (int32, int32).
var pairUnit = kunit.MustDeclare(kunit.TypeSpec{
	Name: "Pair",
	Methods: []*kunit.Method{
		{
			Name:    "Process",
			Params:  []kunit.Param{{Type: ktype.Int32}, {Type: ktype.Float64}},
			Returns: ktype.Float64,
			Impl:    noop,
		},
		{
			Name:    "Process",
			Params:  []kunit.Param{{Type: ktype.Float64}, {Type: ktype.Int32}},
			Returns: ktype.Float64,
			Impl:    noop,
		},
	},
})

func noop(_ any, args []any, _ ktype.Bindings) (any, error) {
	return args[0], nil
}

func pass() *kunit.Instance { return kunit.MustNewInstance(passUnit, nil) }
func add() *kunit.Instance { return kunit.MustNewInstance(addUnit, nil) }
func pair() *kunit.Instance { return kunit.MustNewInstance(pairUnit, nil) }

// chain registers source -> n pass units -> sink and returns the builder.
func chain(n int) *Builder {
	b := NewBuilder()
	b.MustAddSource("source", ktype.Int32)
	parent := "source"
	for j := 0; j < n; j++ {
		name := fmt.Sprintf("proc-%d", j)
		b.MustAddUnit(name, pass(), parent)
		parent = name
	}
	b.MustAddSink("sink", parent, ktype.Int32)
	return b
}
