// Package synth turns a winning binding into a call node.
package synth

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/birdayz/kcombinator/internal/bind"
	"github.com/birdayz/kcombinator/ktype"
	"github.com/birdayz/kcombinator/kunit"
)

var (
	ErrArity            = errors.New("wrong number of input values")
	ErrNoImplementation = errors.New("candidate has no implementation")
)

// Arg feeds one declared parameter.
type Arg struct {
	// Param is the index of the declared parameter.
	Param int
	// Inputs are the input positions feeding the parameter. A packed
	// variadic argument may have any number of them, every other argument
	// exactly one.
	Inputs []int
	// Packed is set when Inputs are collected into one []any.
	Packed bool
	// Conversions holds the conversion applied to each entry of Inputs.
	Conversions []ktype.Conversion
}

// Call is a resolved invocation of a unit instance. The Output type becomes
// the element type of the produced stream.
type Call struct {
	Instance  *kunit.Instance
	Candidate *kunit.Candidate
	TypeArgs  ktype.Bindings
	Params    []*ktype.Type
	Args      []Arg
	Output    *ktype.Type
}

// Synthesize maps the inputs of r onto the parameters of its candidate.
func Synthesize(inst *kunit.Instance, r *bind.Result) *Call {
	c := r.Candidate
	call := &Call{
		Instance:  inst,
		Candidate: c,
		TypeArgs:  r.TypeArgs,
		Params:    r.Params,
		Output:    r.Returns,
		Args:      make([]Arg, 0, len(c.Params)),
	}

	fixed := len(c.Params)
	if r.Expanded {
		fixed = c.Fixed()
	}
	for i := 0; i < fixed; i++ {
		call.Args = append(call.Args, Arg{
			Param:       i,
			Inputs:      []int{i},
			Conversions: []ktype.Conversion{r.Conversions[i]},
		})
	}
	if r.Expanded {
		tail := Arg{Param: fixed, Packed: true}
		for i := fixed; i < len(r.Conversions); i++ {
			tail.Inputs = append(tail.Inputs, i)
			tail.Conversions = append(tail.Conversions, r.Conversions[i])
		}
		call.Args = append(call.Args, tail)
	}
	return call
}

// Arity is the number of input values Invoke expects.
func (c *Call) Arity() int {
	n := 0
	for _, a := range c.Args {
		n += len(a.Inputs)
	}
	return n
}

// Invoke runs the implementation on one value per input position. Numeric
// inputs are widened to the declared parameter type first. A panic in the
// implementation is returned as a *PanicError.
func (c *Call) Invoke(inputs ...any) (out any, err error) {
	if len(inputs) != c.Arity() {
		return nil, fmt.Errorf("%w: %s takes %d, got %d", ErrArity, c, c.Arity(), len(inputs))
	}
	if c.Candidate.Func == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoImplementation, c)
	}

	args := make([]any, len(c.Args))
	for i, a := range c.Args {
		values := make([]any, len(a.Inputs))
		for j, pos := range a.Inputs {
			v := inputs[pos]
			if a.Conversions[j].Kind == ktype.NumericWidening {
				if v, err = ktype.Convert(v, a.Conversions[j].To); err != nil {
					return nil, fmt.Errorf("input %d: %w", pos, err)
				}
			}
			values[j] = v
		}
		if a.Packed {
			args[i] = values
		} else {
			args[i] = values[0]
		}
	}

	defer func() {
		if r := recover(); r != nil {
			out, err = nil, &PanicError{Info: r, Stack: debug.Stack()}
		}
	}()
	var receiver any
	if c.Instance != nil {
		receiver = c.Instance.Receiver
	}
	return c.Candidate.Func(receiver, args, c.TypeArgs)
}

func (c *Call) String() string {
	var sb strings.Builder
	sb.WriteString(c.Candidate.Implementor.Name())
	sb.WriteByte('.')
	sb.WriteString(c.Candidate.Name)
	if len(c.Candidate.TypeParams) > 0 {
		sb.WriteByte('<')
		for i, tp := range c.Candidate.TypeParams {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(c.TypeArgs[tp].String())
		}
		sb.WriteByte('>')
	}
	sb.WriteByte('(')
	for i, p := range c.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	sb.WriteString(") ")
	sb.WriteString(c.Output.String())
	return sb.String()
}

// PanicError wraps a panic raised by a unit implementation.
type PanicError struct {
	Info  any
	Stack []byte
}

func (p *PanicError) Error() string {
	return fmt.Sprintf("panic error: %v, \nstack: %s", p.Info, string(p.Stack))
}
