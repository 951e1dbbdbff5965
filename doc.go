// Package kcombinator resolves which entry-point method of a processing unit
// handles a given set of typed input streams.
//
// # Overview
//
// A processing unit type (see package kunit) declares one or more overloads
// of an entry point, conventionally named Process, possibly spread over a
// hierarchy of base types and possibly generic. Given an instance of the
// unit and the element types of its input streams (see package ktype), the
// engine:
//
//  1. collects the visible declarations (hidden ones removed, overrides
//     merged into the slot they replace),
//  2. drops those whose arity does not fit,
//  3. checks every input against its parameter, inferring generic arguments,
//  4. ranks the survivors by conversion cost and shape specificity,
//  5. synthesizes a call for the single best one.
//
// Zero survivors yield NoApplicableCandidate; several equally good ones yield
// AmbiguousCandidates. Neither is ever resolved by guessing.
//
// # Basic Usage
//
//	engine := kcombinator.New()
//	out := engine.Resolve(inst, kcombinator.Inputs(ktype.Int64)...)
//	if err := out.Err(); err != nil {
//	    // errors.Is(err, kcombinator.ErrAmbiguousCandidates) etc.
//	}
//	fmt.Println(out.Output()) // element type of the produced stream
//
// # Conversion Cost
//
// Each input contributes an identity, a numeric widening ranked by how far
// the target lies along char < int8 < uint8 < int16 < uint16 < int32 <
// uint32 < int64 < uint64 < float32 < float64 < decimal, a reference
// conversion ranked by hierarchy distance, or a generic binding. Costs sum
// per component and compare lexicographically (generic bindings, then
// reference distance, then widening rank, then a penalty for expanded
// variadic calls), so a non-generic overload always beats an equally
// applicable generic one. At equal cost the candidate whose declared
// parameters carry more concrete structure wins, e.g. Process<T>(Timestamped<T>)
// over Process<T>(T).
//
// # Thread Safety
//
// Engines are safe for concurrent use. Candidate sets are computed at most
// once per unit type and entry point for the life of the process.
package kcombinator
