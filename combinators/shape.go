package combinators

import (
	"fmt"
	"time"

	"github.com/birdayz/kcombinator/ktype"
	"github.com/birdayz/kcombinator/kunit"
)

// Merge concatenates any number of inputs of one element type, in input
// order.
var Merge = kunit.MustDeclare(kunit.TypeSpec{
	Name: "Merge",
	Methods: []*kunit.Method{{
		Name:       "Process",
		TypeParams: []string{"T"},
		Params:     []kunit.Param{{Type: ktype.ArrayOf(ktype.Param("T")), Variadic: true}},
		Returns:    ktype.Param("T"),
		Impl:       merge,
	}},
})

// Timestamp pairs every element with the time it was seen. The receiver may
// be a Clock; without one time.Now is used.
var Timestamp = kunit.MustDeclare(kunit.TypeSpec{
	Name: "Timestamp",
	Methods: []*kunit.Method{{
		Name:       "Process",
		TypeParams: []string{"T"},
		Params:     []kunit.Param{{Type: ktype.Param("T")}},
		Returns:    ktype.Timestamped(ktype.Param("T")),
		Impl:       timestamp,
	}},
})

// Value strips the timestamp off Timestamped elements.
var Value = kunit.MustDeclare(kunit.TypeSpec{
	Name: "Value",
	Methods: []*kunit.Method{{
		Name:       "Process",
		TypeParams: []string{"T"},
		Params:     []kunit.Param{{Type: ktype.Timestamped(ktype.Param("T"))}},
		Returns:    ktype.Param("T"),
		Impl:       value,
	}},
})

// Zip pairs the elements of two inputs by position. The output is as long as
// the shorter input.
var Zip = kunit.MustDeclare(kunit.TypeSpec{
	Name: "Zip",
	Methods: []*kunit.Method{{
		Name:       "Process",
		TypeParams: []string{"T1", "T2"},
		Params:     []kunit.Param{{Type: ktype.Param("T1")}, {Type: ktype.Param("T2")}},
		Returns:    ktype.Tuple(ktype.Param("T1"), ktype.Param("T2")),
		Impl:       zip,
	}},
})

// Clock supplies timestamps to a Timestamp instance.
type Clock func() time.Time

// NewTimestamp returns a Timestamp instance reading time from clock.
func NewTimestamp(clock Clock) *kunit.Instance {
	return kunit.MustNewInstance(Timestamp, clock)
}

// merge receives the variadic tail packed into one []any holding a batch per
// input.
func merge(_ any, args []any, _ ktype.Bindings) (any, error) {
	parts, err := batch[[]any](args[0])
	if err != nil {
		return nil, err
	}
	var out []any
	for _, p := range parts {
		out = append(out, p...)
	}
	if out == nil {
		out = []any{}
	}
	return out, nil
}

func timestamp(receiver any, args []any, _ ktype.Bindings) (any, error) {
	now := time.Now
	if clock, ok := receiver.(Clock); ok && clock != nil {
		now = clock
	}
	return mapBatch(args[0], func(v any) (any, error) {
		return Timestamped{Value: v, Time: now()}, nil
	})
}

func value(_ any, args []any, _ ktype.Bindings) (any, error) {
	return mapBatch(args[0], func(v any) (any, error) {
		ts, ok := v.(Timestamped)
		if !ok {
			return nil, fmt.Errorf("%w: %T is not Timestamped", ErrElementType, v)
		}
		return ts.Value, nil
	})
}

func zip(_ any, args []any, _ ktype.Bindings) (any, error) {
	first, err := batch[any](args[0])
	if err != nil {
		return nil, err
	}
	second, err := batch[any](args[1])
	if err != nil {
		return nil, err
	}
	n := len(first)
	if len(second) < n {
		n = len(second)
	}
	out := make([]any, n)
	for i := 0; i < n; i++ {
		out[i] = Tuple{First: first[i], Second: second[i]}
	}
	return out, nil
}
