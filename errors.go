package kcombinator

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for resolution failures. Every *BuildError matches ErrBuild
// and exactly one of the kind-specific sentinels.
var (
	ErrBuild                 = errors.New("kcombinator: build failed")
	ErrNoApplicableCandidate = errors.New("no applicable candidate")
	ErrAmbiguousCandidates   = errors.New("ambiguous candidates")
)

// BuildError is the diagnostic of a failed resolution. Candidates lists every
// candidate for NoApplicableCandidate and the tied ones for
// AmbiguousCandidates.
type BuildError struct {
	Kind       OutcomeKind
	Unit       string
	EntryPoint string
	Inputs     []string
	Candidates []string
}

func (e *BuildError) Error() string {
	var sb strings.Builder
	switch e.Kind {
	case AmbiguousCandidates:
		fmt.Fprintf(&sb, "%s: call to %s.%s(%s) is ambiguous between", ErrAmbiguousCandidates, e.Unit, e.EntryPoint, strings.Join(e.Inputs, ", "))
	default:
		fmt.Fprintf(&sb, "%s: %s.%s cannot accept (%s); candidates are", ErrNoApplicableCandidate, e.Unit, e.EntryPoint, strings.Join(e.Inputs, ", "))
	}
	if len(e.Candidates) == 0 {
		sb.WriteString(" none")
		return sb.String()
	}
	for i, c := range e.Candidates {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteByte(' ')
		sb.WriteString(c)
	}
	return sb.String()
}

func (e *BuildError) Is(target error) bool {
	switch target {
	case ErrBuild:
		return true
	case ErrNoApplicableCandidate:
		return e.Kind == NoApplicableCandidate
	case ErrAmbiguousCandidates:
		return e.Kind == AmbiguousCandidates
	}
	return false
}
