package kunit

import (
	"strconv"
	"strings"

	"github.com/birdayz/kcombinator/ktype"
)

// Modifier controls how a method declaration interacts with same-shaped
// declarations of its base types.
type Modifier uint8

const (
	// Plain introduces a new slot. A same-shaped base declaration is hidden.
	Plain Modifier = iota
	// Hide is Plain with the intent to replace stated explicitly.
	Hide
	// Virtual introduces a slot that derived types may override.
	Virtual
	// Abstract introduces a slot without implementation. Only abstract unit
	// types may declare it.
	Abstract
	// Override replaces the implementation of a virtual, abstract or
	// overridden base slot of identical shape.
	Override
)

func (m Modifier) String() string {
	switch m {
	case Plain:
		return "plain"
	case Hide:
		return "new"
	case Virtual:
		return "virtual"
	case Abstract:
		return "abstract"
	case Override:
		return "override"
	default:
		return "modifier(" + strconv.Itoa(int(m)) + ")"
	}
}

// Overridable reports whether a derived Override may target a slot declared
// with m.
func (m Modifier) Overridable() bool {
	return m == Virtual || m == Abstract || m == Override
}

// Func is the implementation behind a method declaration. args holds one
// value per declared parameter; a variadic parameter receives []any.
type Func func(receiver any, args []any, typeArgs ktype.Bindings) (any, error)

// Param declares a single method parameter. A Variadic parameter must be the
// last one and its type must be an array; callers may then pass any number of
// trailing inputs of the array's element type.
type Param struct {
	Type     *ktype.Type
	Variadic bool
}

func (p Param) String() string {
	if p.Variadic {
		return "params " + p.Type.String()
	}
	return p.Type.String()
}

// Method is a single entry-point declaration.
type Method struct {
	Name       string
	TypeParams []string
	Params     []Param
	Returns    *ktype.Type
	Modifier   Modifier
	Impl       Func
}

// Signature renders the declaration, e.g. "Process<T>(Timestamped<T>) T".
func (m *Method) Signature() string {
	return signature(m.Name, m.TypeParams, m.Params, m.Returns)
}

// Shape is the overload identity of the method: its parameter types with
// generic slots renamed by position, plus variadic flags. Return type and
// slot names do not take part.
func (m *Method) Shape() string {
	return Shape(m.TypeParams, m.Params)
}

// Shape computes the overload identity of a parameter list.
func Shape(typeParams []string, params []Param) string {
	b := make(ktype.Bindings, len(typeParams))
	for i, tp := range typeParams {
		b[tp] = ktype.Param("$" + strconv.Itoa(i))
	}

	var sb strings.Builder
	sb.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			sb.WriteByte(',')
		}
		if p.Variadic {
			sb.WriteString("params ")
		}
		sb.WriteString(p.Type.Subst(b).String())
	}
	sb.WriteByte(')')
	return sb.String()
}

func (m *Method) clone() *Method {
	c := *m
	c.TypeParams = append([]string(nil), m.TypeParams...)
	c.Params = append([]Param(nil), m.Params...)
	return &c
}

func signature(name string, typeParams []string, params []Param, returns *ktype.Type) string {
	var sb strings.Builder
	sb.WriteString(name)
	if len(typeParams) > 0 {
		sb.WriteByte('<')
		sb.WriteString(strings.Join(typeParams, ","))
		sb.WriteByte('>')
	}
	sb.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	sb.WriteString(") ")
	sb.WriteString(returns.String())
	return sb.String()
}
