// Package bind checks candidates against concrete input types, infers their
// generic arguments and prices the result.
package bind

import (
	"github.com/birdayz/kcombinator/ktype"
	"github.com/birdayz/kcombinator/kunit"
)

// Result is a candidate bound to concrete inputs. It is never mutated after
// Bind returns.
type Result struct {
	Candidate *kunit.Candidate
	// Params are the declared parameter types with type arguments applied.
	Params  []*ktype.Type
	Returns *ktype.Type
	// TypeArgs binds every type parameter of the candidate.
	TypeArgs ktype.Bindings
	// Conversions holds one entry per input position.
	Conversions []ktype.Conversion
	// Expanded is set when trailing inputs were absorbed one by one by the
	// variadic parameter. Variadic candidates only bind this way.
	Expanded bool
	Cost     Cost
}

// Bind tries c against inputs. It returns false if the arity does not fit,
// any input is incompatible, two positions bind one type parameter
// differently, or a type parameter remains unbound.
//
// Every input past the fixed parameters of a variadic candidate is checked
// against the element type of the variadic parameter. An input whose element
// type is itself an array is one tail position, never the whole tail.
func Bind(c *kunit.Candidate, inputs []*ktype.Type) (*Result, bool) {
	if !Applicable(c, len(inputs)) {
		return nil, false
	}
	return bind(c, inputs, c.Variadic())
}

// All binds every candidate and returns the successful results in candidate
// order.
func All(candidates []*kunit.Candidate, inputs []*ktype.Type) []*Result {
	var out []*Result
	for _, c := range Filter(candidates, len(inputs)) {
		if r, ok := Bind(c, inputs); ok {
			out = append(out, r)
		}
	}
	return out
}

func bind(c *kunit.Candidate, inputs []*ktype.Type, expanded bool) (*Result, bool) {
	r := &Result{
		Candidate:   c,
		TypeArgs:    ktype.Bindings{},
		Conversions: make([]ktype.Conversion, len(inputs)),
		Expanded:    expanded,
	}

	fixed := len(c.Params)
	if expanded {
		fixed = c.Fixed()
	}
	for i, in := range inputs {
		var declared *ktype.Type
		if i < fixed {
			declared = c.Params[i].Type
		} else {
			declared = c.TailElem()
		}

		conv := ktype.Check(in, declared)
		if !conv.OK() {
			return nil, false
		}
		if conv.Kind == ktype.GenericBind && !r.TypeArgs.Merge(conv.Bindings) {
			return nil, false
		}
		r.Conversions[i] = conv
		r.Cost = r.Cost.Add(ConversionCost(conv))
	}

	for _, tp := range c.TypeParams {
		if _, ok := r.TypeArgs[tp]; !ok {
			return nil, false
		}
	}
	if expanded {
		r.Cost.Expanded = 1
	}

	r.Params = make([]*ktype.Type, len(c.Params))
	for i, p := range c.Params {
		r.Params[i] = p.Type.Subst(r.TypeArgs)
	}
	r.Returns = c.Returns.Subst(r.TypeArgs)
	return r, true
}

// Signature renders the bound form, e.g. "Zip.Process(int32, string) Tuple<int32,string>".
func (r *Result) Signature() string {
	s := r.Candidate.Implementor.Name() + "." + r.Candidate.Name + "("
	for i, p := range r.Params {
		if i > 0 {
			s += ", "
		}
		if r.Candidate.Params[i].Variadic {
			s += "params "
		}
		s += p.String()
	}
	return s + ") " + r.Returns.String()
}
