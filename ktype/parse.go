package ktype

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"
)

var (
	ErrUnknownType  = errors.New("unknown type")
	ErrSyntax       = errors.New("type syntax error")
	ErrDuplicateDef = errors.New("definition already registered")
)

// Universe resolves type names to definitions when parsing type expressions.
// It is safe for concurrent use.
type Universe struct {
	mu      sync.RWMutex
	defs    map[string]*Definition
	aliases map[string]*Type
}

// NewUniverse returns a universe knowing the built-in scalar names and the
// given definitions.
func NewUniverse(defs ...*Definition) (*Universe, error) {
	u := &Universe{
		defs: make(map[string]*Definition, len(defs)),
		aliases: map[string]*Type{
			"object":  Object,
			"bool":    Bool,
			"string":  String,
			"char":    Char,
			"sbyte":   Int8,
			"int8":    Int8,
			"byte":    UInt8,
			"uint8":   UInt8,
			"short":   Int16,
			"int16":   Int16,
			"ushort":  UInt16,
			"uint16":  UInt16,
			"int":     Int32,
			"int32":   Int32,
			"uint":    UInt32,
			"uint32":  UInt32,
			"long":    Int64,
			"int64":   Int64,
			"ulong":   UInt64,
			"uint64":  UInt64,
			"float":   Float32,
			"float32": Float32,
			"double":  Float64,
			"float64": Float64,
			"decimal": Decimal,
		},
	}
	for _, d := range defs {
		if err := u.Register(d); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// DefaultUniverse knows the built-in scalars and stock definitions.
var DefaultUniverse = mustUniverse(IEnumerableDef, IListDef, ListDef, TimestampedDef, TupleDef, EventArgsDef)

func mustUniverse(defs ...*Definition) *Universe {
	u, err := NewUniverse(defs...)
	if err != nil {
		panic(err)
	}
	return u
}

// Register adds a definition.
func (u *Universe) Register(d *Definition) error {
	if d == nil || d.Name == "" {
		return fmt.Errorf("%w: definition without name", ErrSyntax)
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.defs[d.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateDef, d.Name)
	}
	if _, ok := u.aliases[d.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateDef, d.Name)
	}
	u.defs[d.Name] = d
	return nil
}

// Lookup returns the definition registered under name.
func (u *Universe) Lookup(name string) (*Definition, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	d, ok := u.defs[name]
	return d, ok
}

// Parse parses a concrete type expression such as "Timestamped<int32>",
// "float[]" or "Tuple<int,List<double>>".
func (u *Universe) Parse(s string) (*Type, error) {
	return u.ParseWith(s)
}

// ParseWith parses a type expression in which the given names denote generic
// slots, e.g. ParseWith("Timestamped<T>", "T").
func (u *Universe) ParseWith(s string, slots ...string) (*Type, error) {
	p := &parser{u: u, src: s, slots: slots}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return t, nil
}

// Parse parses s against DefaultUniverse.
func Parse(s string) (*Type, error) {
	return DefaultUniverse.Parse(s)
}

// MustParse is like Parse but panics on error.
func MustParse(s string) *Type {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

type parser struct {
	u     *Universe
	src   string
	pos   int
	slots []string
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s at offset %d in %q", ErrSyntax, fmt.Sprintf(format, args...), p.pos, p.src)
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *parser) accept(tok string) bool {
	p.skipSpace()
	if strings.HasPrefix(p.src[p.pos:], tok) {
		p.pos += len(tok)
		return true
	}
	return false
}

func (p *parser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		r := rune(p.src[p.pos])
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.') {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) parseType() (*Type, error) {
	name := p.ident()
	if name == "" {
		return nil, p.errorf("expected type name")
	}

	var t *Type
	for _, slot := range p.slots {
		if slot == name {
			t = Param(name)
		}
	}

	if t == nil {
		var args []*Type
		if p.accept("<") {
			for {
				arg, err := p.parseType()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.accept(">") {
					break
				}
				if !p.accept(",") {
					return nil, p.errorf("expected ',' or '>'")
				}
			}
		}
		var err error
		if t, err = p.resolve(name, args); err != nil {
			return nil, err
		}
	}

	for p.accept("[]") {
		t = ArrayOf(t)
	}
	return t, nil
}

func (p *parser) resolve(name string, args []*Type) (*Type, error) {
	p.u.mu.RLock()
	alias, isAlias := p.u.aliases[name]
	def, isDef := p.u.defs[name]
	p.u.mu.RUnlock()

	switch {
	case isAlias:
		if len(args) > 0 {
			return nil, p.errorf("%s takes no type arguments", name)
		}
		return alias, nil
	case isDef:
		if len(args) != len(def.Params) {
			return nil, p.errorf("%s expects %d type argument(s), got %d", name, len(def.Params), len(args))
		}
		return def.Of(args...), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownType, name)
}
