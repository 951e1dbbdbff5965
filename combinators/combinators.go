// Package combinators provides stock processing units.
//
// Every unit declares its overloads of Process with kunit and works on
// materialized batches: each argument is a []any holding the elements of one
// input stream, and each implementation returns a []any holding the elements
// of the produced stream.
//
//	b := kdag.NewBuilder()
//	b.MustAddSource("prices", ktype.Int64)
//	b.MustAddUnit("avg", kunit.MustNewInstance(combinators.Average, nil), "prices")
package combinators

import (
	"errors"
	"fmt"
	"time"

	"github.com/birdayz/kcombinator/kunit"
	"golang.org/x/exp/slices"
)

var (
	ErrNotBatch    = errors.New("argument is not a batch")
	ErrElementType = errors.New("unexpected element type")
	ErrEmptyBatch  = errors.New("batch contains no elements")
)

// Timestamped is the runtime value of a Timestamped<T> element.
type Timestamped struct {
	Value any
	Time  time.Time
}

// Tuple is the runtime value of a Tuple<T1,T2> element.
type Tuple struct {
	First  any
	Second any
}

// Catalog returns the stock unit types by name.
func Catalog() map[string]*kunit.UnitType {
	return map[string]*kunit.UnitType{
		Average.Name():   Average,
		Sum.Name():       Sum,
		Merge.Name():     Merge,
		Timestamp.Name(): Timestamp,
		Value.Name():     Value,
		Zip.Name():       Zip,
	}
}

// Names returns the names of the stock units in sorted order.
func Names() []string {
	names := make([]string, 0, 6)
	for name := range Catalog() {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Lookup returns the stock unit type called name.
func Lookup(name string) (*kunit.UnitType, bool) {
	t, ok := Catalog()[name]
	return t, ok
}

// batch unpacks one argument into typed elements.
func batch[T any](arg any) ([]T, error) {
	in, ok := arg.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotBatch, arg)
	}
	out := make([]T, len(in))
	for i, v := range in {
		t, ok := v.(T)
		if !ok {
			var zero T
			return nil, fmt.Errorf("%w: element %d is %T, want %T", ErrElementType, i, v, zero)
		}
		out[i] = t
	}
	return out, nil
}

func mapBatch(arg any, f func(any) (any, error)) (any, error) {
	in, err := batch[any](arg)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(in))
	for i, v := range in {
		if out[i], err = f(v); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
	}
	return out, nil
}
