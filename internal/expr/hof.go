package expr

import (
	"fmt"

	"github.com/funvibe/pushkit/internal/config"
	"github.com/funvibe/pushkit/internal/object"
	"github.com/funvibe/pushkit/internal/typesystem"
)

// HOF is a higher-order form: an expression taking a sequence child
// and a compiled closure body. Always arity 2 ("seq" and "func").
type HOF interface {
	Expression
	// InnerFuncSpec returns the number of local arguments the body may
	// use and the type the body must return.
	InnerFuncSpec() (int, typesystem.Type)
}

type hofBase struct {
	node
	name  string
	dtype typesystem.Type
}

func (h *hofBase) Arity() int             { return 2 }
func (h *hofBase) Dtype() typesystem.Type { return h.dtype }

func (h *hofBase) validateChildren() error {
	if h.children.Len() != 2 {
		return &ContractError{Fn: h.name, Msg: "children must be 'seq' and 'func'"}
	}
	seq, okSeq := h.children.Get(config.HofSeqChildName)
	_, okFunc := h.children.Get(config.HofFuncChildName)
	if !okSeq || !okFunc {
		return &ContractError{Fn: h.name, Msg: "children must be 'seq' and 'func'"}
	}
	if !typesystem.IsSubtype(seq.Dtype(), typesystem.List) {
		return &ContractError{Fn: h.name, Msg: fmt.Sprintf("seq child must return a List, got %s", seq.Dtype())}
	}
	return nil
}

// evalSeq evaluates the sequence child down to a runtime list.
func (h *hofBase) evalSeq(ctx *EvalContext) (*object.List, Expression, error) {
	seqChild, _ := h.children.Get(config.HofSeqChildName)
	funcChild, _ := h.children.Get(config.HofFuncChildName)
	v, err := seqChild.Eval(ctx)
	if err != nil {
		return nil, nil, err
	}
	list, ok := v.(*object.List)
	if !ok {
		return nil, nil, &EvalError{
			Fn:   h.name,
			Args: config.HofSeqChildName + "=" + object.Render(v),
			Err:  fmt.Errorf("seq did not evaluate to a list"),
		}
	}
	return list, funcChild, nil
}

func (h *hofBase) code(template string) string {
	seq, _ := h.children.Get(config.HofSeqChildName)
	fn, _ := h.children.Get(config.HofFuncChildName)
	return fmt.Sprintf(template, fn.ToCode(), seq.ToCode())
}

var localZero = config.LocalInputPrefix + "0"

// MapExpr applies its body to every element of the sequence. Its
// reified dtype is List of the body's return type.
type MapExpr struct {
	hofBase
}

func NewMapExpr() *MapExpr {
	return &MapExpr{hofBase: hofBase{node: newNode(), name: "map", dtype: typesystem.List}}
}

func (m *MapExpr) InnerFuncSpec() (int, typesystem.Type) {
	return 1, typesystem.Any
}

func (m *MapExpr) Reify() error {
	if err := m.validateChildren(); err != nil {
		return err
	}
	fn, _ := m.children.Get(config.HofFuncChildName)
	m.dtype = typesystem.ListOf(fn.Dtype())
	m.reified = true
	return nil
}

func (m *MapExpr) Eval(ctx *EvalContext) (object.Object, error) {
	seq, fn, err := m.evalSeq(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]object.Object, 0, len(seq.Elements))
	for _, el := range seq.Elements {
		v, err := fn.Eval(ctx.withLocal(localZero, el))
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return object.NewList(fn.Dtype(), result...), nil
}

func (m *MapExpr) ToCode() string { return m.code("map(lambda _0: %s, %s)") }
func (m *MapExpr) ToForm() string { return "map(lambda _0: func(_0), seq)" }

func (m *MapExpr) Clone() Expression {
	return &MapExpr{hofBase: hofBase{node: m.cloneNode(), name: m.name, dtype: m.dtype}}
}

func (m *MapExpr) Equal(other Expression) bool {
	o, ok := other.(*MapExpr)
	if !ok || !m.nodeEqual(other) {
		return false
	}
	return typesystem.Equal(m.dtype, o.dtype)
}

// FilterExpr keeps the elements for which its body returns true. Its
// reified dtype is the sequence's own dtype, so filtering a nested
// list keeps the nested list type.
type FilterExpr struct {
	hofBase
}

func NewFilterExpr() *FilterExpr {
	return &FilterExpr{hofBase: hofBase{node: newNode(), name: "filter", dtype: typesystem.List}}
}

func (f *FilterExpr) InnerFuncSpec() (int, typesystem.Type) {
	return 1, typesystem.Bool
}

func (f *FilterExpr) Reify() error {
	if err := f.validateChildren(); err != nil {
		return err
	}
	seq, _ := f.children.Get(config.HofSeqChildName)
	f.dtype = seq.Dtype()
	f.reified = true
	return nil
}

func (f *FilterExpr) Eval(ctx *EvalContext) (object.Object, error) {
	seq, fn, err := f.evalSeq(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]object.Object, 0, len(seq.Elements))
	for _, el := range seq.Elements {
		v, err := fn.Eval(ctx.withLocal(localZero, el))
		if err != nil {
			return nil, err
		}
		keep, ok := v.(*object.Boolean)
		if !ok {
			return nil, &EvalError{
				Fn:   f.name,
				Args: localZero + "=" + object.Render(el),
				Err:  fmt.Errorf("filter body did not evaluate to a boolean"),
			}
		}
		if keep.Value {
			result = append(result, el)
		}
	}
	return object.NewList(typesystem.ElementType(f.dtype), result...), nil
}

func (f *FilterExpr) ToCode() string { return f.code("filter(lambda _0: %s, %s)") }
func (f *FilterExpr) ToForm() string { return "filter(lambda _0: func(_0), seq)" }

func (f *FilterExpr) Clone() Expression {
	return &FilterExpr{hofBase: hofBase{node: f.cloneNode(), name: f.name, dtype: f.dtype}}
}

func (f *FilterExpr) Equal(other Expression) bool {
	o, ok := other.(*FilterExpr)
	if !ok || !f.nodeEqual(other) {
		return false
	}
	return typesystem.Equal(f.dtype, o.dtype)
}
