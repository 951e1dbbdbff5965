package kcombinator

import (
	"github.com/birdayz/kcombinator/internal/bind"
	"github.com/birdayz/kcombinator/internal/collect"
	"github.com/birdayz/kcombinator/internal/rank"
	"github.com/birdayz/kcombinator/internal/synth"
	"github.com/birdayz/kcombinator/ktype"
	"github.com/birdayz/kcombinator/kunit"
	"github.com/go-logr/logr"
)

// Engine resolves entry-point calls on unit instances. It holds no per-call
// state and is safe for concurrent use; candidate sets are shared
// process-wide.
type Engine struct {
	entryPoint string
	policy     Policy
	log        logr.Logger
	cache      *collect.Cache
}

// New creates an engine resolving DefaultEntryPoint unless configured
// otherwise.
func New(opts ...Option) *Engine {
	e := &Engine{
		entryPoint: DefaultEntryPoint,
		policy:     PreferShape,
		log:        logr.Discard(),
		cache:      collect.Shared,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

func (e *Engine) EntryPoint() string { return e.entryPoint }
func (e *Engine) Policy() Policy { return e.policy }

// Candidates returns the cached candidate set of t for the engine's entry
// point.
func (e *Engine) Candidates(t *kunit.UnitType) *kunit.CandidateSet {
	return e.cache.Get(t, e.entryPoint)
}

// Resolve picks the entry-point declaration of inst's unit type that accepts
// inputs. It never panics and never returns a partial call: the outcome is
// either Resolved with a Call, or a failure kind whose Err() describes it.
func (e *Engine) Resolve(inst *kunit.Instance, inputs ...Input) Outcome {
	var t *kunit.UnitType
	if inst != nil {
		t = inst.Type
	}
	return e.resolve(t, inst, inputs)
}

// Resolve resolves entryPoint on unitType with the default engine settings.
// inst supplies the receiver of the synthesized call; its type must be
// unitType or derive from it, otherwise the outcome is NoApplicableCandidate.
func Resolve(unitType *kunit.UnitType, entryPoint string, inst *kunit.Instance, inputs []Input) Outcome {
	return New(WithEntryPoint(entryPoint)).resolve(unitType, inst, inputs)
}

func (e *Engine) resolve(t *kunit.UnitType, inst *kunit.Instance, inputs []Input) Outcome {
	o := Outcome{
		Kind:       NoApplicableCandidate,
		Unit:       t,
		EntryPoint: e.entryPoint,
		Inputs:     inputs,
	}
	if t == nil || inst == nil {
		e.log.V(1).Info("nothing to resolve", "entryPoint", e.entryPoint)
		return o
	}
	if !inst.Type.DerivesFrom(t) {
		e.log.V(1).Info("instance does not derive from unit", "unit", t.Name(), "instance", inst.Type.Name())
		return o
	}

	set := e.Candidates(t)
	o.Candidates = set.Candidates

	types := make([]*ktype.Type, len(inputs))
	for i, in := range inputs {
		if in.ElementType == nil {
			e.log.V(1).Info("input without element type", "unit", t.Name(), "position", i)
			return o
		}
		types[i] = in.ElementType
	}

	bound := bind.All(set.Candidates, types)
	if e.policy == PreferDerived {
		bound = rank.NarrowToMostDerived(bound)
	}
	e.log.V(1).Info("bound candidates", "unit", t.Name(), "candidates", set.Len(), "applicable", len(bound))

	winner, tied := rank.Select(bound)
	switch {
	case winner != nil:
		o.Kind = Resolved
		o.Binding = winner
		o.Call = synth.Synthesize(inst, winner)
		e.log.V(1).Info("resolved", "unit", t.Name(), "call", o.Call.String())
	case len(tied) > 0:
		o.Kind = AmbiguousCandidates
		o.Tied = tied
		e.log.V(1).Info("ambiguous", "unit", t.Name(), "tied", len(tied))
	}
	return o
}
