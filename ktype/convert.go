package ktype

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// ErrNotConvertible is returned by Convert when a runtime value cannot be
// brought to the requested element type.
var ErrNotConvertible = errors.New("value not convertible")

// Convert applies the implicit conversion to a runtime element value.
// Reference and generic targets return v unchanged; numeric targets widen the
// Go value to the target's runtime representation (float64 for Float64,
// decimal.Decimal for Decimal and so on). A materialized batch ([]any) is
// converted element by element.
func Convert(v any, to *Type) (any, error) {
	if to == nil {
		return nil, fmt.Errorf("%w: nil target type", ErrNotConvertible)
	}
	if to.Kind() != KindPrimitive || !to.prim.Numeric() {
		return v, nil
	}
	if batch, ok := v.([]any); ok {
		out := make([]any, len(batch))
		for i, e := range batch {
			c, err := Convert(e, to)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	}

	switch to.prim {
	case PrimDecimal:
		if d, ok := v.(decimal.Decimal); ok {
			return d, nil
		}
		if f, ok := v.(float32); ok {
			return decimal.NewFromFloat32(f), nil
		}
		if f, ok := v.(float64); ok {
			return decimal.NewFromFloat(f), nil
		}
		if u, ok := v.(uint64); ok {
			return decimal.NewFromBigInt(new(big.Int).SetUint64(u), 0), nil
		}
		i, ok := asInt64(v)
		if !ok {
			return nil, notConvertible(v, to)
		}
		return decimal.NewFromInt(i), nil
	case PrimFloat64:
		f, ok := asFloat64(v)
		if !ok {
			return nil, notConvertible(v, to)
		}
		return f, nil
	case PrimFloat32:
		if f, ok := v.(float32); ok {
			return f, nil
		}
		if u, ok := v.(uint64); ok {
			return float32(u), nil
		}
		i, ok := asInt64(v)
		if !ok {
			return nil, notConvertible(v, to)
		}
		return float32(i), nil
	}

	if u, ok := v.(uint64); ok {
		if to.prim == PrimUInt64 {
			return u, nil
		}
		return nil, notConvertible(v, to)
	}
	i, ok := asInt64(v)
	if !ok {
		return nil, notConvertible(v, to)
	}
	switch to.prim {
	case PrimInt8:
		return int8(i), nil
	case PrimUInt8:
		return uint8(i), nil
	case PrimInt16:
		return int16(i), nil
	case PrimUInt16, PrimChar:
		return uint16(i), nil
	case PrimInt32:
		return int32(i), nil
	case PrimUInt32:
		return uint32(i), nil
	case PrimInt64:
		return i, nil
	case PrimUInt64:
		if i < 0 {
			return nil, notConvertible(v, to)
		}
		return uint64(i), nil
	}
	return nil, notConvertible(v, to)
}

func notConvertible(v any, to *Type) error {
	return fmt.Errorf("%w: %T to %s", ErrNotConvertible, v, to)
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int8:
		return int64(n), true
	case uint8:
		return int64(n), true
	case int16:
		return int64(n), true
	case uint16:
		return int64(n), true
	case int32:
		return int64(n), true
	case uint32:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	}
	return 0, false
}

func asFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	i, ok := asInt64(v)
	return float64(i), ok
}
