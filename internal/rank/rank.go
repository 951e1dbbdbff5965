// Package rank orders bound candidates and picks the single best one.
package rank

import (
	"github.com/birdayz/kcombinator/internal/bind"
	"github.com/birdayz/kcombinator/ktype"
	"github.com/birdayz/kcombinator/kunit"
)

// Key is the ranking key of a binding: lower cost first, then the more
// specific declared shape.
type Key struct {
	Cost        bind.Cost
	Specificity int
}

// Compare returns -1 if k ranks before o, 1 if after and 0 if they tie.
func (k Key) Compare(o Key) int {
	if c := k.Cost.Compare(o.Cost); c != 0 {
		return c
	}
	switch {
	case k.Specificity > o.Specificity:
		return -1
	case k.Specificity < o.Specificity:
		return 1
	}
	return 0
}

func KeyOf(r *bind.Result) Key {
	return Key{Cost: r.Cost, Specificity: Specificity(r.Candidate)}
}

// Specificity counts the concrete structural nodes of the candidate's
// declared parameter types. A generic slot counts 0, any other type 1 plus its
// type arguments or element.
func Specificity(c *kunit.Candidate) int {
	n := 0
	for _, p := range c.Params {
		n += nodes(p.Type)
	}
	return n
}

func nodes(t *ktype.Type) int {
	switch t.Kind() {
	case ktype.KindParam, ktype.KindInvalid:
		return 0
	case ktype.KindArray:
		return 1 + nodes(t.Elem())
	case ktype.KindNominal:
		n := 1
		for _, arg := range t.Args() {
			n += nodes(arg)
		}
		return n
	default:
		return 1
	}
}

// Select returns the unique best binding. When no single binding ranks
// strictly first, winner is nil and tied holds every binding sharing the best
// key, in input order. Both are nil for empty input.
func Select(results []*bind.Result) (winner *bind.Result, tied []*bind.Result) {
	if len(results) == 0 {
		return nil, nil
	}

	best := KeyOf(results[0])
	for _, r := range results[1:] {
		if k := KeyOf(r); k.Compare(best) < 0 {
			best = k
		}
	}
	for _, r := range results {
		if KeyOf(r).Compare(best) == 0 {
			tied = append(tied, r)
		}
	}
	if len(tied) == 1 {
		return tied[0], nil
	}
	return nil, tied
}

// NarrowToMostDerived keeps the bindings whose slot was introduced at the
// most-derived level present among results.
func NarrowToMostDerived(results []*bind.Result) []*bind.Result {
	if len(results) == 0 {
		return results
	}
	depth := results[0].Candidate.Depth
	for _, r := range results[1:] {
		if r.Candidate.Depth < depth {
			depth = r.Candidate.Depth
		}
	}
	out := make([]*bind.Result, 0, len(results))
	for _, r := range results {
		if r.Candidate.Depth == depth {
			out = append(out, r)
		}
	}
	return out
}
