// Package collect builds the candidate set of a unit type: every entry-point
// declaration along its base chain, with hidden declarations removed and
// overrides merged into the slot they replace.
package collect

import (
	"sync"
	"sync/atomic"

	"github.com/birdayz/kcombinator/kunit"
)

// Collect walks t from the most-derived type to its root and returns the
// visible declarations named entryPoint. It never fails; a type without
// matching declarations yields an empty set.
func Collect(t *kunit.UnitType, entryPoint string) *kunit.CandidateSet {
	set := &kunit.CandidateSet{Unit: t, EntryPoint: entryPoint}
	if t == nil {
		return set
	}

	byShape := map[string]*kunit.Candidate{}
	overriding := map[string]bool{}

	for depth, level := range t.Chain() {
		for _, m := range level.Methods() {
			if m.Name != entryPoint {
				continue
			}
			shape := m.Shape()

			if existing, ok := byShape[shape]; ok {
				if overriding[shape] {
					// the derived override keeps its implementation but
					// ranks as the slot it replaces
					existing.Owner = level
					existing.Depth = depth
					existing.DeclaredInMostDerived = depth == 0
					overriding[shape] = m.Modifier == kunit.Override
				}
				continue
			}

			c := &kunit.Candidate{
				Owner:                 level,
				Implementor:           level,
				Name:                  m.Name,
				TypeParams:            m.TypeParams,
				Params:                m.Params,
				Returns:               m.Returns,
				Depth:                 depth,
				DeclaredInMostDerived: depth == 0,
				Func:                  m.Impl,
			}
			byShape[shape] = c
			overriding[shape] = m.Modifier == kunit.Override
			set.Candidates = append(set.Candidates, c)
		}
	}
	return set
}

type key struct {
	unit       *kunit.UnitType
	entryPoint string
}

type entry struct {
	once sync.Once
	set  *kunit.CandidateSet
}

// Cache memoizes Collect per (unit type, entry point). Each set is built at
// most once; concurrent callers for the same key wait for the first build.
type Cache struct {
	entries sync.Map
	builds  atomic.Int64
}

// Get returns the cached candidate set, building it on first use.
func (c *Cache) Get(t *kunit.UnitType, entryPoint string) *kunit.CandidateSet {
	v, _ := c.entries.LoadOrStore(key{unit: t, entryPoint: entryPoint}, &entry{})
	e := v.(*entry)
	e.once.Do(func() {
		e.set = Collect(t, entryPoint)
		c.builds.Add(1)
	})
	return e.set
}

// Builds reports how many candidate sets were computed.
func (c *Cache) Builds() int64 {
	return c.builds.Load()
}

// Shared is the process-wide cache.
var Shared = &Cache{}
