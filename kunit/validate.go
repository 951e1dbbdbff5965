package kunit

import (
	"fmt"

	"github.com/birdayz/kcombinator/ktype"
	"go.uber.org/multierr"
)

func invalid(t *UnitType, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidDeclaration, t.name, fmt.Sprintf(format, args...))
}

func validate(t *UnitType, hadNil bool) error {
	var err error
	if t.name == "" {
		err = multierr.Append(err, fmt.Errorf("%w: unit type without name", ErrInvalidDeclaration))
	}
	if hadNil {
		err = multierr.Append(err, invalid(t, "nil method"))
	}

	seen := make(map[string]*Method, len(t.methods))
	for _, m := range t.methods {
		if mErr := validateMethod(t, m); mErr != nil {
			err = multierr.Append(err, mErr)
			continue
		}

		key := m.Name + m.Shape()
		if prev, ok := seen[key]; ok {
			err = multierr.Append(err, invalid(t, "%s and %s have the same shape", prev.Signature(), m.Signature()))
			continue
		}
		seen[key] = m

		if m.Modifier == Override {
			target := overrideTarget(t.base, m.Name, m.Shape())
			if target == nil {
				err = multierr.Append(err, invalid(t, "%s overrides no virtual, abstract or override base method", m.Signature()))
			}
		}
	}

	if !t.abstract {
		for _, sig := range pendingAbstract(t) {
			err = multierr.Append(err, invalid(t, "abstract method %s is not implemented", sig))
		}
	}
	return err
}

func validateMethod(t *UnitType, m *Method) error {
	var err error
	if m.Name == "" {
		err = multierr.Append(err, invalid(t, "method without name"))
	}

	declared := make(map[string]bool, len(m.TypeParams))
	for _, tp := range m.TypeParams {
		if tp == "" {
			err = multierr.Append(err, invalid(t, "%s: empty type parameter name", m.Name))
			continue
		}
		if declared[tp] {
			err = multierr.Append(err, invalid(t, "%s: duplicate type parameter %s", m.Name, tp))
		}
		declared[tp] = true
	}

	var used []string
	for i, p := range m.Params {
		if p.Type == nil {
			err = multierr.Append(err, invalid(t, "%s: parameter %d has no type", m.Name, i))
			continue
		}
		if p.Variadic {
			if i != len(m.Params)-1 {
				err = multierr.Append(err, invalid(t, "%s: variadic parameter %d is not last", m.Name, i))
			}
			if p.Type.Kind() != ktype.KindArray {
				err = multierr.Append(err, invalid(t, "%s: variadic parameter %d is %s, not an array", m.Name, i, p.Type))
			}
		}
		used = p.Type.ParamNames(used)
	}
	if m.Returns == nil {
		err = multierr.Append(err, invalid(t, "%s: no return type", m.Name))
	} else {
		used = m.Returns.ParamNames(used)
	}
	for _, slot := range used {
		if !declared[slot] {
			err = multierr.Append(err, invalid(t, "%s: type parameter %s is not declared", m.Name, slot))
		}
	}

	switch {
	case m.Modifier > Override:
		err = multierr.Append(err, invalid(t, "%s: unknown %s", m.Name, m.Modifier))
	case m.Modifier == Abstract && !t.abstract:
		err = multierr.Append(err, invalid(t, "%s: abstract method on non-abstract type", m.Name))
	case m.Modifier != Abstract && m.Impl == nil:
		err = multierr.Append(err, invalid(t, "%s: no implementation", m.Name))
	}
	return err
}

// overrideTarget finds the nearest same-shaped declaration along the base
// chain starting at base. It returns nil when that declaration cannot be
// overridden or none exists.
func overrideTarget(base *UnitType, name, shape string) *Method {
	for cur := base; cur != nil; cur = cur.base {
		for _, m := range cur.methods {
			if m.Name != name || m.Shape() != shape {
				continue
			}
			if m.Modifier.Overridable() {
				return m
			}
			return nil
		}
	}
	return nil
}

// pendingAbstract returns the signatures of abstract slots in t's chain that
// no more-derived Override implements.
func pendingAbstract(t *UnitType) []string {
	chain := t.Chain()
	pending := map[string]string{}
	var order []string
	for i := len(chain) - 1; i >= 0; i-- {
		for _, m := range chain[i].methods {
			key := m.Name + m.Shape()
			switch m.Modifier {
			case Abstract:
				if _, ok := pending[key]; !ok {
					order = append(order, key)
				}
				pending[key] = m.Signature()
			case Override:
				delete(pending, key)
			}
		}
	}

	var out []string
	for _, key := range order {
		if sig, ok := pending[key]; ok {
			out = append(out, sig)
			delete(pending, key)
		}
	}
	return out
}
