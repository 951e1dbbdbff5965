package bind

import "github.com/birdayz/kcombinator/kunit"

// Applicable reports whether c can accept n inputs by arity alone: exactly
// its parameter count, or at least its fixed parameters when it ends in a
// variadic parameter.
func Applicable(c *kunit.Candidate, n int) bool {
	if c.Variadic() {
		return c.Fixed() <= n
	}
	return len(c.Params) == n
}

// Filter keeps the candidates applicable to n inputs, preserving order.
func Filter(candidates []*kunit.Candidate, n int) []*kunit.Candidate {
	out := make([]*kunit.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if Applicable(c, n) {
			out = append(out, c)
		}
	}
	return out
}
