package expr

import (
	"fmt"
	"strconv"

	"github.com/funvibe/pushkit/internal/config"
	"github.com/funvibe/pushkit/internal/object"
	"github.com/funvibe/pushkit/internal/omap"
	"github.com/funvibe/pushkit/internal/typesystem"
)

// Expression is a DAG node with a concrete kind. A sum of variants:
// Constant, Input, LocalInput, Function, Method, Constructor, MapExpr,
// FilterExpr.
type Expression interface {
	Dtype() typesystem.Type
	Arity() int
	Eval(ctx *EvalContext) (object.Object, error)
	ToCode() string
	ToForm() string
	Reify() error
	Clone() Expression
	Equal(other Expression) bool

	Children() *omap.OMap[string, Expression]
	AddChild(name string, child Expression)
	AddChildren(children *omap.OMap[string, Expression])
	FlushChildren()
	Depth() int
	Reified() bool
}

// Walk visits e and every expression below it, preorder. Results from
// all children are included, not just the root's own kind.
func Walk(e Expression, visit func(Expression)) {
	visit(e)
	for _, child := range e.Children().Values() {
		Walk(child, visit)
	}
}

// ReifyAll reifies children first, then the expression itself.
func ReifyAll(e Expression) error {
	for _, child := range e.Children().Values() {
		if err := ReifyAll(child); err != nil {
			return err
		}
	}
	return e.Reify()
}

// CloneDeep copies an expression and its whole subgraph.
func CloneDeep(e Expression) Expression {
	c := e.Clone()
	names := e.Children().Keys()
	if len(names) == 0 {
		return c
	}
	c.FlushChildren()
	for _, name := range names {
		child, _ := e.Children().Get(name)
		c.AddChild(name, CloneDeep(child))
	}
	return c
}

// Constant is a literal value. Reified at construction.
type Constant struct {
	node
	Value         object.Object
	dtypeOverride typesystem.Type
}

func NewConstant(value object.Object) *Constant {
	c := &Constant{node: newNode(), Value: value}
	c.reified = true
	return c
}

// NewConstantTyped declares the constant's type instead of inferring
// it from the value (e.g. an empty list of a specific element type).
func NewConstantTyped(value object.Object, dtype typesystem.Type) *Constant {
	c := &Constant{node: newNode(), Value: value, dtypeOverride: dtype}
	c.reified = true
	return c
}

func (c *Constant) Dtype() typesystem.Type {
	if c.dtypeOverride != nil {
		return c.dtypeOverride
	}
	return c.Value.RuntimeType()
}

func (c *Constant) Arity() int { return 0 }

func (c *Constant) Eval(ctx *EvalContext) (object.Object, error) {
	return object.Copy(c.Value), nil
}

func (c *Constant) ToForm() string { return object.Render(c.Value) }
func (c *Constant) ToCode() string { return c.ToForm() }

func (c *Constant) Reify() error {
	c.reified = true
	return nil
}

func (c *Constant) Clone() Expression {
	return &Constant{node: c.cloneNode(), Value: c.Value, dtypeOverride: c.dtypeOverride}
}

func (c *Constant) Equal(other Expression) bool {
	o, ok := other.(*Constant)
	if !ok || !c.nodeEqual(other) {
		return false
	}
	return object.Equals(c.Value, o.Value)
}

// Input is a named program input of a declared type. Reified at
// construction.
type Input struct {
	node
	Symbol string
	dtype  typesystem.Type
}

func NewInput(symbol string, dtype typesystem.Type) *Input {
	i := &Input{node: newNode(), Symbol: symbol, dtype: dtype}
	i.reified = true
	return i
}

func (i *Input) Dtype() typesystem.Type { return i.dtype }
func (i *Input) Arity() int             { return 0 }

func (i *Input) Eval(ctx *EvalContext) (object.Object, error) {
	if v, ok := ctx.Bindings[i.Symbol]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("no input supplied for symbol %s", i.Symbol)
}

func (i *Input) ToForm() string { return i.Symbol }
func (i *Input) ToCode() string { return i.Symbol }

func (i *Input) Reify() error {
	i.reified = true
	return nil
}

func (i *Input) Clone() Expression {
	return &Input{node: i.cloneNode(), Symbol: i.Symbol, dtype: i.dtype}
}

func (i *Input) Equal(other Expression) bool {
	o, ok := other.(*Input)
	if !ok || !i.nodeEqual(other) {
		return false
	}
	return i.Symbol == o.Symbol && typesystem.Equal(i.dtype, o.dtype)
}

// LocalInput is a positional placeholder (_0, _1, ...) bound during
// higher-order evaluation. Consumed by the compiler only when local
// arguments are allowed.
type LocalInput struct {
	Input
	Index int
}

func NewLocalInput(index int, dtype typesystem.Type) *LocalInput {
	if dtype == nil {
		dtype = typesystem.Any
	}
	symbol := config.LocalInputPrefix + strconv.Itoa(index)
	l := &LocalInput{Input: *NewInput(symbol, dtype), Index: index}
	return l
}

func (l *LocalInput) Clone() Expression {
	return &LocalInput{Input: Input{node: l.cloneNode(), Symbol: l.Symbol, dtype: l.dtype}, Index: l.Index}
}

func (l *LocalInput) Equal(other Expression) bool {
	o, ok := other.(*LocalInput)
	if !ok || !l.nodeEqual(other) {
		return false
	}
	return l.Index == o.Index && typesystem.Equal(l.dtype, o.dtype)
}
