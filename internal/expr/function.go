package expr

import (
	"fmt"
	"strings"

	"github.com/funvibe/pushkit/internal/object"
	"github.com/funvibe/pushkit/internal/omap"
	"github.com/funvibe/pushkit/internal/typesystem"
)

// Callable applies a library function to evaluated children, bound by
// argument name. Printing goes through the context writer.
type Callable func(ctx *EvalContext, args map[string]object.Object) (object.Object, error)

// FunctionLike is the common surface of Function, Method and
// Constructor: expressions that pop typed children off the DAG stack.
type FunctionLike interface {
	Expression
	Name() string
	BaseSignature() Signature
	ReifiedSignature() Signature
	// TypeReifier returns the reifier run incrementally during child
	// popping, or nil when the variant carries none (Constructor).
	TypeReifier() Reifier
}

// funcBase holds the state shared by all FunctionLike variants.
type funcBase struct {
	node
	name       string
	fn         Callable
	baseSig    Signature
	reifiedSig Signature
}

func newFuncBase(name string, fn Callable, sig Signature) funcBase {
	return funcBase{node: newNode(), name: name, fn: fn, baseSig: sig, reifiedSig: sig}
}

func (f *funcBase) Name() string                { return f.name }
func (f *funcBase) BaseSignature() Signature    { return f.baseSig }
func (f *funcBase) ReifiedSignature() Signature { return f.reifiedSig }
func (f *funcBase) Dtype() typesystem.Type      { return f.reifiedSig.Ret }
func (f *funcBase) Arity() int                  { return f.reifiedSig.Args.Len() }

func (f *funcBase) Eval(ctx *EvalContext) (object.Object, error) {
	if !f.reified {
		return nil, &ContractError{Fn: f.name, Msg: "eval before reification"}
	}
	args := make(map[string]object.Object, f.children.Len())
	for _, name := range f.children.Keys() {
		child, _ := f.children.Get(name)
		v, err := child.Eval(ctx)
		if err != nil {
			return nil, err
		}
		args[name] = v
	}
	ret, err := f.fn(ctx, args)
	if err != nil {
		return nil, &EvalError{Fn: f.name, Args: f.argsSnapshot(args), Err: err}
	}
	return ret, nil
}

// argsSnapshot renders the evaluated argument bindings in argument
// order for error reports.
func (f *funcBase) argsSnapshot(args map[string]object.Object) string {
	parts := []string{}
	for _, name := range f.children.Keys() {
		if v, ok := args[name]; ok {
			parts = append(parts, name+"="+object.Render(v))
		}
	}
	return strings.Join(parts, ", ")
}

// validateChildren checks the reification contract: child names match
// the signature and every child dtype is a subtype of its declared
// argument type.
func (f *funcBase) validateChildren() error {
	expected := f.reifiedSig.Args
	if f.children.Len() != expected.Len() {
		return &ContractError{
			Fn:  f.name,
			Msg: fmt.Sprintf("expected arguments %v, found %v", expected.Keys(), f.children.Keys()),
		}
	}
	for _, name := range expected.Keys() {
		child, ok := f.children.Get(name)
		if !ok {
			return &ContractError{
				Fn:  f.name,
				Msg: fmt.Sprintf("expected arguments %v, found %v", expected.Keys(), f.children.Keys()),
			}
		}
		declared, _ := expected.Get(name)
		if !typesystem.IsSubtype(child.Dtype(), declared) {
			return &ContractError{
				Fn:  f.name,
				Msg: fmt.Sprintf("argument %s: expected %s, got %s", name, declared, child.Dtype()),
			}
		}
	}
	return nil
}

func (f *funcBase) callCode() string {
	parts := []string{}
	for _, child := range f.children.Values() {
		parts = append(parts, child.ToCode())
	}
	return fmt.Sprintf("%s(%s)", f.name, strings.Join(parts, ", "))
}

func (f *funcBase) callForm() string {
	return fmt.Sprintf("%s(%s)", f.name, strings.Join(f.reifiedSig.Args.Keys(), ", "))
}

var requiredReifier = RequiredReifier{}

// Function is a free library function with a declared base signature
// and an optional reifier.
type Function struct {
	funcBase
	reifier Reifier
}

// NewFunction builds a function template. A nil reifier defaults to
// Noop.
func NewFunction(name string, fn Callable, ret typesystem.Type, args *omap.OMap[string, typesystem.Type], reifier Reifier) *Function {
	if reifier == nil {
		reifier = NoopReifier{}
	}
	return &Function{
		funcBase: newFuncBase(name, fn, NewSignature(ret, args)),
		reifier:  reifier,
	}
}

func (f *Function) TypeReifier() Reifier { return f.reifier }

func (f *Function) Reify() error {
	if f.children.Len() == f.Arity() {
		if err := f.validateChildren(); err != nil {
			return err
		}
	}
	childTypes := childDtypes(f.children)
	sig := requiredReifier.Reify(f.baseSig, childTypes)
	f.reifiedSig = f.reifier.Reify(sig, childTypes)
	f.reified = true
	return nil
}

func (f *Function) ToCode() string { return f.callCode() }
func (f *Function) ToForm() string { return f.callForm() }

func (f *Function) Clone() Expression {
	base := f.funcBase
	base.node = f.cloneNode()
	return &Function{funcBase: base, reifier: f.reifier}
}

func (f *Function) Equal(other Expression) bool {
	o, ok := other.(*Function)
	if !ok || !f.nodeEqual(other) {
		return false
	}
	return f.name == o.name && f.reifiedSig.Equal(o.reifiedSig)
}

// Method is a Function rendered as a call on its designated self
// argument.
type Method struct {
	Function
}

// NewMethod builds a method template; args must contain a "self"
// argument.
func NewMethod(name string, fn Callable, ret typesystem.Type, args *omap.OMap[string, typesystem.Type], reifier Reifier) *Method {
	return &Method{Function: *NewFunction(name, fn, ret, args, reifier)}
}

func (m *Method) ToCode() string {
	self, ok := m.children.Get("self")
	if !ok {
		return m.ToForm()
	}
	parts := []string{}
	for _, name := range m.children.Keys() {
		if name == "self" {
			continue
		}
		child, _ := m.children.Get(name)
		parts = append(parts, child.ToCode())
	}
	return fmt.Sprintf("%s.%s(%s)", self.ToCode(), m.name, strings.Join(parts, ", "))
}

func (m *Method) ToForm() string {
	nonSelf := m.reifiedSig.Args.Discard("self")
	return fmt.Sprintf("self.%s(%s)", m.name, strings.Join(nonSelf.Keys(), ", "))
}

func (m *Method) Clone() Expression {
	base := m.funcBase
	base.node = m.cloneNode()
	return &Method{Function: Function{funcBase: base, reifier: m.reifier}}
}

func (m *Method) Equal(other Expression) bool {
	o, ok := other.(*Method)
	if !ok || !m.nodeEqual(other) {
		return false
	}
	return m.name == o.name && m.reifiedSig.Equal(o.reifiedSig)
}

// Constructor builds a value of a class type. Its signature is derived
// from the class; it carries no reifier and its return type is the
// class type itself.
type Constructor struct {
	funcBase
	class typesystem.Type
}

func NewConstructor(name string, fn Callable, class typesystem.Type, args *omap.OMap[string, typesystem.Type]) *Constructor {
	return &Constructor{
		funcBase: newFuncBase(name, fn, NewSignature(class, args)),
		class:    class,
	}
}

func (c *Constructor) Class() typesystem.Type { return c.class }
func (c *Constructor) TypeReifier() Reifier   { return nil }

func (c *Constructor) Reify() error {
	if c.children.Len() == c.Arity() {
		if err := c.validateChildren(); err != nil {
			return err
		}
	}
	c.reified = true
	return nil
}

func (c *Constructor) ToCode() string { return c.callCode() }
func (c *Constructor) ToForm() string { return c.callForm() }

func (c *Constructor) Clone() Expression {
	base := c.funcBase
	base.node = c.cloneNode()
	return &Constructor{funcBase: base, class: c.class}
}

func (c *Constructor) Equal(other Expression) bool {
	o, ok := other.(*Constructor)
	if !ok || !c.nodeEqual(other) {
		return false
	}
	return c.name == o.name && typesystem.Equal(c.class, o.class) && c.reifiedSig.Equal(o.reifiedSig)
}

// childDtypes snapshots the concrete dtypes of bound children, in
// child order.
func childDtypes(children *omap.OMap[string, Expression]) *ChildTypes {
	types := omap.New[string, typesystem.Type]()
	for _, name := range children.Keys() {
		child, _ := children.Get(name)
		types = types.Add(name, child.Dtype())
	}
	return types
}
