package combinators

import (
	"github.com/birdayz/kcombinator/ktype"
	"github.com/birdayz/kcombinator/kunit"
	"github.com/shopspring/decimal"
)

// Average emits the arithmetic mean of its input. Integer inputs average to
// float64, floating point and decimal inputs keep their type. An empty input
// fails with ErrEmptyBatch.
var Average = kunit.MustDeclare(kunit.TypeSpec{
	Name: "Average",
	Methods: []*kunit.Method{
		process(ktype.Int32, ktype.Float64, averageInt[int32]),
		process(ktype.Int64, ktype.Float64, averageInt[int64]),
		process(ktype.Float32, ktype.Float32, averageFloat32),
		process(ktype.Float64, ktype.Float64, averageFloat64),
		process(ktype.Decimal, ktype.Decimal, averageDecimal),
	},
})

// Sum emits the sum of its input, zero for an empty input.
var Sum = kunit.MustDeclare(kunit.TypeSpec{
	Name: "Sum",
	Methods: []*kunit.Method{
		process(ktype.Int32, ktype.Int32, sum[int32]),
		process(ktype.Int64, ktype.Int64, sum[int64]),
		process(ktype.Float32, ktype.Float32, sum[float32]),
		process(ktype.Float64, ktype.Float64, sum[float64]),
		process(ktype.Decimal, ktype.Decimal, sumDecimal),
	},
})

// process declares a single-input, non-generic Process overload.
func process(in, out *ktype.Type, f func(arg any) (any, error)) *kunit.Method {
	return &kunit.Method{
		Name:    "Process",
		Params:  []kunit.Param{{Type: in}},
		Returns: out,
		Impl: func(_ any, args []any, _ ktype.Bindings) (any, error) {
			return f(args[0])
		},
	}
}

func averageInt[T int32 | int64](arg any) (any, error) {
	vs, err := batch[T](arg)
	if err != nil {
		return nil, err
	}
	if len(vs) == 0 {
		return nil, ErrEmptyBatch
	}
	var total int64
	for _, v := range vs {
		total += int64(v)
	}
	return []any{float64(total) / float64(len(vs))}, nil
}

func averageFloat32(arg any) (any, error) {
	vs, err := batch[float32](arg)
	if err != nil {
		return nil, err
	}
	if len(vs) == 0 {
		return nil, ErrEmptyBatch
	}
	// Accumulate in float64 to keep precision over long inputs.
	var total float64
	for _, v := range vs {
		total += float64(v)
	}
	return []any{float32(total / float64(len(vs)))}, nil
}

func averageFloat64(arg any) (any, error) {
	vs, err := batch[float64](arg)
	if err != nil {
		return nil, err
	}
	if len(vs) == 0 {
		return nil, ErrEmptyBatch
	}
	var total float64
	for _, v := range vs {
		total += v
	}
	return []any{total / float64(len(vs))}, nil
}

func averageDecimal(arg any) (any, error) {
	vs, err := batch[decimal.Decimal](arg)
	if err != nil {
		return nil, err
	}
	if len(vs) == 0 {
		return nil, ErrEmptyBatch
	}
	return []any{decimal.Avg(vs[0], vs[1:]...)}, nil
}

func sum[T int32 | int64 | float32 | float64](arg any) (any, error) {
	vs, err := batch[T](arg)
	if err != nil {
		return nil, err
	}
	var total T
	for _, v := range vs {
		total += v
	}
	return []any{total}, nil
}

func sumDecimal(arg any) (any, error) {
	vs, err := batch[decimal.Decimal](arg)
	if err != nil {
		return nil, err
	}
	if len(vs) == 0 {
		return []any{decimal.Zero}, nil
	}
	return []any{decimal.Sum(vs[0], vs[1:]...)}, nil
}
