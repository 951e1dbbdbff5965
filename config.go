package kcombinator

import (
	"fmt"
	"strings"

	"github.com/go-logr/logr"
)

// Option is a function that configures an Engine
type Option func(*Engine)

// WithEntryPoint sets the method name the engine resolves
var WithEntryPoint = func(name string) Option {
	return func(e *Engine) {
		e.entryPoint = name
	}
}

// WithPolicy sets how candidates declared at different hierarchy levels compete
var WithPolicy = func(p Policy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithLogr sets the logger for the engine
var WithLogr = func(log logr.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// DefaultEntryPoint is the entry-point name used unless WithEntryPoint is given.
const DefaultEntryPoint = "Process"

// Policy selects how candidates from different levels of a unit hierarchy are
// compared.
type Policy uint8

const (
	// PreferShape ranks every applicable candidate by conversion cost and
	// specificity alone, regardless of the level that declared it.
	PreferShape Policy = iota
	// PreferDerived first discards applicable candidates whose slot was
	// introduced below the most-derived level that has any, then ranks the
	// rest.
	PreferDerived
)

func (p Policy) String() string {
	switch p {
	case PreferShape:
		return "prefer-shape"
	case PreferDerived:
		return "prefer-derived"
	default:
		return fmt.Sprintf("policy(%d)", uint8(p))
	}
}

// ParsePolicy parses the String form of a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "prefer-shape", "shape":
		return PreferShape, nil
	case "prefer-derived", "derived":
		return PreferDerived, nil
	}
	return 0, fmt.Errorf("unknown policy %q", s)
}
