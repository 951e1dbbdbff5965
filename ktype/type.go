package ktype

import (
	"fmt"
	"strings"
)

// Kind classifies a Type.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindObject
	KindPrimitive
	KindNominal
	KindArray
	KindParam
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "Object"
	case KindPrimitive:
		return "Primitive"
	case KindNominal:
		return "Nominal"
	case KindArray:
		return "Array"
	case KindParam:
		return "Param"
	default:
		return "Invalid"
	}
}

// DefKind is the declaration kind of a nominal Definition.
type DefKind uint8

const (
	Class DefKind = iota
	Struct
	Interface
)

// Definition declares a nominal type, optionally generic.
//
// Base and Interfaces are templates: they may reference the definition's
// own Params (via Param) and are substituted with the instantiation's type
// arguments when supertypes are walked. A nil Base means the type derives
// directly from Object.
type Definition struct {
	Name       string
	Kind       DefKind
	Params     []string
	Base       *Type
	Interfaces []*Type
}

// Of instantiates the definition with the given type arguments. It panics if
// the number of arguments does not match the definition's parameters, since
// definitions are static program declarations.
func (d *Definition) Of(args ...*Type) *Type {
	if len(args) != len(d.Params) {
		panic(fmt.Sprintf("ktype: %s expects %d type argument(s), got %d", d.Name, len(d.Params), len(args)))
	}
	return &Type{kind: KindNominal, def: d, args: args}
}

// Type is an immutable element-type descriptor. Types are compared
// structurally with Equal, never by pointer.
type Type struct {
	kind Kind
	prim Primitive
	def  *Definition
	args []*Type
	elem *Type
	name string
}

// Param returns a reference to the generic slot with the given name.
func Param(name string) *Type {
	return &Type{kind: KindParam, name: name}
}

// ArrayOf returns the array type with the given element type.
func ArrayOf(elem *Type) *Type {
	return &Type{kind: KindArray, elem: elem}
}

func (t *Type) Kind() Kind {
	if t == nil {
		return KindInvalid
	}
	return t.kind
}

// Primitive returns the primitive tag. Only meaningful for KindPrimitive.
func (t *Type) Primitive() Primitive { return t.prim }

// Definition returns the nominal definition, or nil.
func (t *Type) Definition() *Definition { return t.def }

// Args returns the type arguments of a nominal instantiation.
func (t *Type) Args() []*Type { return t.args }

// Elem returns the element type of an array, or nil.
func (t *Type) Elem() *Type { return t.elem }

// Name returns the simple name: primitive name, definition name or slot name.
func (t *Type) Name() string {
	switch t.Kind() {
	case KindObject:
		return "object"
	case KindPrimitive:
		return t.prim.String()
	case KindNominal:
		return t.def.Name
	case KindParam:
		return t.name
	case KindArray:
		return t.elem.Name() + "[]"
	default:
		return "<invalid>"
	}
}

func (t *Type) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t *Type) write(b *strings.Builder) {
	switch t.Kind() {
	case KindNominal:
		b.WriteString(t.def.Name)
		if len(t.args) > 0 {
			b.WriteByte('<')
			for i, arg := range t.args {
				if i > 0 {
					b.WriteByte(',')
				}
				arg.write(b)
			}
			b.WriteByte('>')
		}
	case KindArray:
		t.elem.write(b)
		b.WriteString("[]")
	default:
		b.WriteString(t.Name())
	}
}

// Equal reports structural identity.
func (t *Type) Equal(o *Type) bool {
	if t == o {
		return true
	}
	if t == nil || o == nil || t.kind != o.kind {
		return false
	}
	switch t.kind {
	case KindObject:
		return true
	case KindPrimitive:
		return t.prim == o.prim
	case KindParam:
		return t.name == o.name
	case KindArray:
		return t.elem.Equal(o.elem)
	case KindNominal:
		if t.def != o.def || len(t.args) != len(o.args) {
			return false
		}
		for i := range t.args {
			if !t.args[i].Equal(o.args[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// HasParams reports whether the type references any generic slot.
func (t *Type) HasParams() bool {
	switch t.Kind() {
	case KindParam:
		return true
	case KindArray:
		return t.elem.HasParams()
	case KindNominal:
		for _, arg := range t.args {
			if arg.HasParams() {
				return true
			}
		}
	}
	return false
}

// ParamNames appends the distinct slot names referenced by t, in order of
// first appearance.
func (t *Type) ParamNames(into []string) []string {
	switch t.Kind() {
	case KindParam:
		for _, n := range into {
			if n == t.name {
				return into
			}
		}
		return append(into, t.name)
	case KindArray:
		return t.elem.ParamNames(into)
	case KindNominal:
		for _, arg := range t.args {
			into = arg.ParamNames(into)
		}
	}
	return into
}

// Subst replaces bound slots. Unbound slots are left in place.
func (t *Type) Subst(b Bindings) *Type {
	if len(b) == 0 || !t.HasParams() {
		return t
	}
	switch t.kind {
	case KindParam:
		if bound, ok := b[t.name]; ok && bound != nil {
			return bound
		}
		return t
	case KindArray:
		return ArrayOf(t.elem.Subst(b))
	case KindNominal:
		args := make([]*Type, len(t.args))
		for i, arg := range t.args {
			args[i] = arg.Subst(b)
		}
		return &Type{kind: KindNominal, def: t.def, args: args}
	}
	return t
}

// IsInterface reports whether t is an instantiation of an interface definition.
func (t *Type) IsInterface() bool {
	return t.Kind() == KindNominal && t.def.Kind == Interface
}

// Supertypes returns the direct supertypes of t: the substituted base (or
// Object) followed by the substituted interfaces. Arrays implement IList of
// their element type.
func (t *Type) Supertypes() []*Type {
	switch t.Kind() {
	case KindPrimitive, KindParam:
		return []*Type{Object}
	case KindArray:
		return []*Type{IListDef.Of(t.elem), Object}
	case KindNominal:
		b := make(Bindings, len(t.def.Params))
		for i, p := range t.def.Params {
			b[p] = t.args[i]
		}
		out := make([]*Type, 0, 1+len(t.def.Interfaces))
		if t.def.Base != nil {
			out = append(out, t.def.Base.Subst(b))
		} else {
			out = append(out, Object)
		}
		for _, iface := range t.def.Interfaces {
			out = append(out, iface.Subst(b))
		}
		return out
	}
	return nil
}

// Ancestor is a supertype reachable from a type together with the minimal
// number of hierarchy steps needed to reach it.
type Ancestor struct {
	Type     *Type
	Distance int
}

// Ancestors walks the supertype graph breadth-first. The type itself is
// included at distance 0. The result is ordered by distance, then by
// discovery order, so it is deterministic.
func (t *Type) Ancestors() []Ancestor {
	if t == nil {
		return nil
	}
	seen := map[string]struct{}{t.String(): {}}
	out := []Ancestor{{Type: t}}
	for i := 0; i < len(out); i++ {
		cur := out[i]
		for _, sup := range cur.Type.Supertypes() {
			key := sup.String()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, Ancestor{Type: sup, Distance: cur.Distance + 1})
		}
	}
	return out
}
