package kunit

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/birdayz/kcombinator/ktype"
	"github.com/vmihailenco/msgpack/v5"
)

// Candidate is one entry-point declaration visible on a unit type after
// hiding and overriding have been applied.
//
// Owner is the type that introduced the slot and Depth its distance from the
// most-derived type; an override keeps both of the slot it replaces.
// Implementor is the type whose Func runs.
type Candidate struct {
	Owner                 *UnitType
	Implementor           *UnitType
	Name                  string
	TypeParams            []string
	Params                []Param
	Returns               *ktype.Type
	Depth                 int
	DeclaredInMostDerived bool
	Func                  Func
}

// Variadic reports whether the last parameter absorbs trailing inputs.
func (c *Candidate) Variadic() bool {
	return len(c.Params) > 0 && c.Params[len(c.Params)-1].Variadic
}

// Fixed is the number of non-variadic parameters.
func (c *Candidate) Fixed() int {
	if c.Variadic() {
		return len(c.Params) - 1
	}
	return len(c.Params)
}

// TailElem is the element type of the variadic parameter, or nil.
func (c *Candidate) TailElem() *ktype.Type {
	if !c.Variadic() {
		return nil
	}
	return c.Params[len(c.Params)-1].Type.Elem()
}

// IsGeneric reports whether the candidate declares type parameters.
func (c *Candidate) IsGeneric() bool {
	return len(c.TypeParams) > 0
}

func (c *Candidate) Shape() string {
	return Shape(c.TypeParams, c.Params)
}

// Signature renders the candidate qualified with its implementing type,
// e.g. "Average.Process(int64) float64".
func (c *Candidate) Signature() string {
	return c.Implementor.name + "." + signature(c.Name, c.TypeParams, c.Params, c.Returns)
}

func (c *Candidate) String() string {
	return c.Signature()
}

// CandidateSet is the ordered, immutable list of candidates of one unit type
// for one entry-point name. Most-derived declarations come first.
type CandidateSet struct {
	Unit       *UnitType
	EntryPoint string
	Candidates []*Candidate
}

func (s *CandidateSet) Len() int {
	return len(s.Candidates)
}

// Signatures lists Signature() of every candidate in order.
func (s *CandidateSet) Signatures() []string {
	out := make([]string, len(s.Candidates))
	for i, c := range s.Candidates {
		out[i] = c.Signature()
	}
	return out
}

// Snapshot is a plain record of a candidate set, suitable for encoding.
type Snapshot struct {
	Unit       string            `msgpack:"unit" yaml:"unit"`
	EntryPoint string            `msgpack:"entry_point" yaml:"entry_point"`
	Candidates []CandidateRecord `msgpack:"candidates" yaml:"candidates"`
}

type CandidateRecord struct {
	Signature             string   `msgpack:"signature" yaml:"signature"`
	Owner                 string   `msgpack:"owner" yaml:"owner"`
	Implementor           string   `msgpack:"implementor" yaml:"implementor"`
	Depth                 int      `msgpack:"depth" yaml:"depth"`
	DeclaredInMostDerived bool     `msgpack:"declared_in_most_derived" yaml:"declared_in_most_derived"`
	TypeParams            []string `msgpack:"type_params" yaml:"type_params,omitempty"`
	Params                []string `msgpack:"params" yaml:"params"`
	Returns               string   `msgpack:"returns" yaml:"returns"`
}

func (s *CandidateSet) Snapshot() Snapshot {
	snap := Snapshot{
		Unit:       s.Unit.name,
		EntryPoint: s.EntryPoint,
		Candidates: make([]CandidateRecord, len(s.Candidates)),
	}
	for i, c := range s.Candidates {
		params := make([]string, len(c.Params))
		for j, p := range c.Params {
			params[j] = p.String()
		}
		snap.Candidates[i] = CandidateRecord{
			Signature:             c.Signature(),
			Owner:                 c.Owner.name,
			Implementor:           c.Implementor.name,
			Depth:                 c.Depth,
			DeclaredInMostDerived: c.DeclaredInMostDerived,
			TypeParams:            c.TypeParams,
			Params:                params,
			Returns:               c.Returns.String(),
		}
	}
	return snap
}

// Fingerprint is the hex sha256 of the msgpack encoding of Snapshot. Two sets
// with equal fingerprints are structurally identical.
func (s *CandidateSet) Fingerprint() string {
	b, err := msgpack.Marshal(s.Snapshot())
	if err != nil {
		// snapshots only hold strings, ints and bools
		panic(err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
