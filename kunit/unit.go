package kunit

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDeclaration = errors.New("invalid unit declaration")
	ErrAbstractInstance   = errors.New("cannot instantiate abstract unit type")
)

// TypeSpec is the input to Declare.
type TypeSpec struct {
	Name     string
	Base     *UnitType
	Abstract bool
	Methods  []*Method
}

// UnitType is a declared processing unit type. It is immutable once declared
// and its pointer is its identity.
type UnitType struct {
	name     string
	base     *UnitType
	abstract bool
	methods  []*Method
	level    int
}

// Declare validates spec and returns the unit type it describes. Every
// problem found is reported; the returned error wraps ErrInvalidDeclaration.
func Declare(spec TypeSpec) (*UnitType, error) {
	methods := make([]*Method, 0, len(spec.Methods))
	for _, m := range spec.Methods {
		if m != nil {
			methods = append(methods, m.clone())
		}
	}

	t := &UnitType{
		name:     spec.Name,
		base:     spec.Base,
		abstract: spec.Abstract,
		methods:  methods,
	}
	if spec.Base != nil {
		t.level = spec.Base.level + 1
	}

	if err := validate(t, len(spec.Methods) != len(methods)); err != nil {
		return nil, err
	}
	return t, nil
}

// MustDeclare is like Declare but panics on error.
func MustDeclare(spec TypeSpec) *UnitType {
	t, err := Declare(spec)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *UnitType) Name() string { return t.name }
func (t *UnitType) Base() *UnitType { return t.base }
func (t *UnitType) IsAbstract() bool { return t.abstract }

// Level is the number of base types above t.
func (t *UnitType) Level() int { return t.level }

// Methods returns the methods declared directly on t, in declaration order.
func (t *UnitType) Methods() []*Method {
	out := make([]*Method, len(t.methods))
	copy(out, t.methods)
	return out
}

// Chain returns t followed by its base types, most-derived first.
func (t *UnitType) Chain() []*UnitType {
	out := make([]*UnitType, 0, t.level+1)
	for cur := t; cur != nil; cur = cur.base {
		out = append(out, cur)
	}
	return out
}

// DerivesFrom reports whether base is t or one of its base types.
func (t *UnitType) DerivesFrom(base *UnitType) bool {
	for cur := t; cur != nil; cur = cur.base {
		if cur == base {
			return true
		}
	}
	return false
}

func (t *UnitType) String() string {
	return t.name
}

// Instance is a concrete unit value spliced into a graph.
type Instance struct {
	Type     *UnitType
	Receiver any
}

// NewInstance pairs a unit type with the receiver its implementations run
// against.
func NewInstance(t *UnitType, receiver any) (*Instance, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil unit type", ErrInvalidDeclaration)
	}
	if t.abstract {
		return nil, fmt.Errorf("%w: %s", ErrAbstractInstance, t.name)
	}
	return &Instance{Type: t, Receiver: receiver}, nil
}

// MustNewInstance is like NewInstance but panics on error.
func MustNewInstance(t *UnitType, receiver any) *Instance {
	inst, err := NewInstance(t, receiver)
	if err != nil {
		panic(err)
	}
	return inst
}
