package ktype

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/shopspring/decimal"
)

var ErrUnsupportedType = errors.New("unsupported go type")

var decimalType = reflect.TypeOf(decimal.Decimal{})

// Of returns the element type describing the Go type T.
//
//	ktype.Of[float64]()  // float64
//	ktype.Of[[]int32]()  // int32[]
//	ktype.Of[any]()      // object
func Of[T any]() (*Type, error) {
	return FromReflect(reflect.TypeOf((*T)(nil)).Elem())
}

// MustOf is like Of but panics on error.
func MustOf[T any]() *Type {
	t, err := Of[T]()
	if err != nil {
		panic(err)
	}
	return t
}

// FromReflect maps a reflect.Type onto the element type model. Go int and
// uint are treated as their 64-bit counterparts; slices become arrays and the
// empty interface becomes Object.
func FromReflect(rt reflect.Type) (*Type, error) {
	if rt == nil {
		return nil, fmt.Errorf("%w: nil", ErrUnsupportedType)
	}
	if rt == decimalType {
		return Decimal, nil
	}

	switch rt.Kind() {
	case reflect.Bool:
		return Bool, nil
	case reflect.String:
		return String, nil
	case reflect.Int8:
		return Int8, nil
	case reflect.Uint8:
		return UInt8, nil
	case reflect.Int16:
		return Int16, nil
	case reflect.Uint16:
		return UInt16, nil
	case reflect.Int32:
		return Int32, nil
	case reflect.Uint32:
		return UInt32, nil
	case reflect.Int64, reflect.Int:
		return Int64, nil
	case reflect.Uint64, reflect.Uint:
		return UInt64, nil
	case reflect.Float32:
		return Float32, nil
	case reflect.Float64:
		return Float64, nil
	case reflect.Slice, reflect.Array:
		elem, err := FromReflect(rt.Elem())
		if err != nil {
			return nil, err
		}
		return ArrayOf(elem), nil
	case reflect.Interface:
		if rt.NumMethod() == 0 {
			return Object, nil
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrUnsupportedType, rt)
}
