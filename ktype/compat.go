package ktype

import "fmt"

// ConversionKind is the outcome class of a compatibility check.
type ConversionKind uint8

const (
	Incompatible ConversionKind = iota
	Identity
	NumericWidening
	ReferenceConversion
	GenericBind
)

func (k ConversionKind) String() string {
	switch k {
	case Identity:
		return "Identity"
	case NumericWidening:
		return "NumericWidening"
	case ReferenceConversion:
		return "ReferenceConversion"
	case GenericBind:
		return "GenericBind"
	default:
		return "Incompatible"
	}
}

// Conversion describes how an element type binds to a declared parameter type.
//
// Rank is set for NumericWidening. Distance is the number of hierarchy steps
// for ReferenceConversion, and for GenericBind the steps needed to reach the
// supertype instantiation the pattern was unified against. Bindings is set
// for GenericBind only.
type Conversion struct {
	Kind     ConversionKind
	From     *Type
	To       *Type
	Rank     int
	Distance int
	Bindings Bindings
}

// OK reports whether the conversion is applicable.
func (c Conversion) OK() bool {
	return c.Kind != Incompatible
}

func (c Conversion) String() string {
	switch c.Kind {
	case NumericWidening:
		return fmt.Sprintf("%s(%s->%s, rank %d)", c.Kind, c.From, c.To, c.Rank)
	case ReferenceConversion:
		return fmt.Sprintf("%s(%s->%s, distance %d)", c.Kind, c.From, c.To, c.Distance)
	case GenericBind:
		return fmt.Sprintf("%s(%s->%s, %s)", c.Kind, c.From, c.To, c.Bindings)
	default:
		return fmt.Sprintf("%s(%s->%s)", c.Kind, c.From, c.To)
	}
}

// Check decides whether a concrete element type can bind to a declared
// parameter type.
//
// Declared types that reference generic slots are matched structurally (see
// Match); the concrete binding is reported in the returned Bindings and is
// left for the caller to reconcile across parameter positions.
func Check(elem, declared *Type) Conversion {
	conv := Conversion{From: elem, To: declared}
	if elem == nil || declared == nil || elem.HasParams() {
		return conv
	}

	if declared.HasParams() {
		b := Bindings{}
		distance, ok := Match(declared, elem, b)
		if !ok {
			return conv
		}
		conv.Kind = GenericBind
		conv.Distance = distance
		conv.Bindings = b
		conv.To = declared.Subst(b)
		return conv
	}

	if elem.Equal(declared) {
		conv.Kind = Identity
		return conv
	}

	if elem.Kind() == KindPrimitive && declared.Kind() == KindPrimitive {
		if rank, ok := WideningRank(elem.prim, declared.prim); ok {
			conv.Kind = NumericWidening
			conv.Rank = rank
		}
		return conv
	}

	for _, anc := range elem.Ancestors() {
		if anc.Type.Equal(declared) {
			conv.Kind = ReferenceConversion
			conv.Distance = anc.Distance
			return conv
		}
	}
	return conv
}

// Match unifies a pattern containing generic slots with a concrete type,
// recording slot bindings in b.
//
// A bare slot binds to the whole type. A nominal pattern is unified with the
// nearest supertype instantiation of the same definition; the returned
// distance is the number of hierarchy steps to that supertype. Type arguments
// and array elements unify invariantly. If two different instantiations tie
// at the nearest distance the slots are not uniquely inferable and Match
// fails.
func Match(pattern, actual *Type, b Bindings) (distance int, ok bool) {
	if pattern == nil || actual == nil {
		return 0, false
	}
	switch pattern.kind {
	case KindParam:
		return 0, b.Bind(pattern.name, actual)
	case KindArray:
		if actual.Kind() != KindArray {
			return 0, false
		}
		return 0, unify(pattern.elem, actual.elem, b)
	case KindNominal:
		if !pattern.HasParams() {
			return 0, pattern.Equal(actual)
		}
		return matchNominal(pattern, actual, b)
	default:
		return 0, pattern.Equal(actual)
	}
}

func matchNominal(pattern, actual *Type, b Bindings) (int, bool) {
	var (
		found    Bindings
		distance = -1
	)
	for _, anc := range actual.Ancestors() {
		if distance >= 0 && anc.Distance > distance {
			break
		}
		if anc.Type.Kind() != KindNominal || anc.Type.def != pattern.def {
			continue
		}
		trial := b.Clone()
		if !unify(pattern, anc.Type, trial) {
			continue
		}
		if found != nil {
			// a second instantiation at the same distance: not uniquely inferable
			if !sameBindings(found, trial) {
				return 0, false
			}
			continue
		}
		found = trial
		distance = anc.Distance
	}
	if found == nil {
		return 0, false
	}
	for slot, t := range found {
		b[slot] = t
	}
	return distance, true
}

// unify matches pattern against actual with no conversions allowed.
func unify(pattern, actual *Type, b Bindings) bool {
	if pattern == nil || actual == nil {
		return false
	}
	switch pattern.kind {
	case KindParam:
		return b.Bind(pattern.name, actual)
	case KindArray:
		return actual.Kind() == KindArray && unify(pattern.elem, actual.elem, b)
	case KindNominal:
		if actual.Kind() != KindNominal || actual.def != pattern.def || len(actual.args) != len(pattern.args) {
			return false
		}
		for i := range pattern.args {
			if !unify(pattern.args[i], actual.args[i], b) {
				return false
			}
		}
		return true
	default:
		return pattern.Equal(actual)
	}
}

func sameBindings(a, b Bindings) bool {
	if len(a) != len(b) {
		return false
	}
	for slot, t := range a {
		if !t.Equal(b[slot]) {
			return false
		}
	}
	return true
}
