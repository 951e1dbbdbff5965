package kcombinator

import (
	"github.com/birdayz/kcombinator/internal/bind"
	"github.com/birdayz/kcombinator/internal/synth"
	"github.com/birdayz/kcombinator/ktype"
	"github.com/birdayz/kcombinator/kunit"
)

// Binding is a candidate bound to concrete input types.
type Binding = bind.Result

// Call is the synthesized invocation of a resolved candidate.
type Call = synth.Call

// PanicError is returned by Call.Invoke when the implementation panics.
type PanicError = synth.PanicError

// Input describes one already-built input stream.
type Input struct {
	ElementType *ktype.Type
}

// Inputs is a shorthand for a list of inputs with the given element types.
func Inputs(types ...*ktype.Type) []Input {
	out := make([]Input, len(types))
	for i, t := range types {
		out[i] = Input{ElementType: t}
	}
	return out
}

type OutcomeKind uint8

const (
	Resolved OutcomeKind = iota
	NoApplicableCandidate
	AmbiguousCandidates
)

func (k OutcomeKind) String() string {
	switch k {
	case Resolved:
		return "Resolved"
	case NoApplicableCandidate:
		return "NoApplicableCandidate"
	case AmbiguousCandidates:
		return "AmbiguousCandidates"
	default:
		return "Unknown"
	}
}

// Outcome is the result of one resolution. Binding and Call are set only when
// Kind is Resolved; Tied only when it is AmbiguousCandidates.
type Outcome struct {
	Kind       OutcomeKind
	Unit       *kunit.UnitType
	EntryPoint string
	Inputs     []Input
	// Candidates is the full candidate set of the unit type.
	Candidates []*kunit.Candidate
	Binding    *Binding
	Call       *Call
	Tied       []*Binding
}

// Output is the element type of the produced stream, or nil.
func (o Outcome) Output() *ktype.Type {
	if o.Call == nil {
		return nil
	}
	return o.Call.Output
}

// Err returns nil for a resolved outcome and a *BuildError otherwise.
func (o Outcome) Err() error {
	if o.Kind == Resolved {
		return nil
	}

	e := &BuildError{
		Kind:       o.Kind,
		EntryPoint: o.EntryPoint,
		Inputs:     make([]string, len(o.Inputs)),
	}
	if o.Unit != nil {
		e.Unit = o.Unit.Name()
	}
	for i, in := range o.Inputs {
		e.Inputs[i] = in.ElementType.String()
	}
	if o.Kind == AmbiguousCandidates {
		for _, b := range o.Tied {
			e.Candidates = append(e.Candidates, b.Candidate.Signature())
		}
	} else {
		for _, c := range o.Candidates {
			e.Candidates = append(e.Candidates, c.Signature())
		}
	}
	return e
}
