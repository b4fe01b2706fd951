package object

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/funvibe/pushkit/internal/typesystem"
)

type ObjectType string

const (
	INTEGER_OBJ = "INTEGER"
	FLOAT_OBJ   = "FLOAT"
	BOOLEAN_OBJ = "BOOLEAN"
	STRING_OBJ  = "STRING"
	LIST_OBJ    = "LIST"
	NIL_OBJ     = "NIL"
)

// Object is the runtime value interface. RuntimeType returns the type
// system representation, which is what Constant dtype inference reads.
type Object interface {
	Type() ObjectType
	Inspect() string
	RuntimeType() typesystem.Type
}

// Integer
type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return fmt.Sprintf("%d", i.Value) }
func (i *Integer) RuntimeType() typesystem.Type {
	return typesystem.Int
}

// Float
type Float struct {
	Value float64
}

func (f *Float) Type() ObjectType { return FLOAT_OBJ }
func (f *Float) Inspect() string  { return formatFloat(f.Value) }
func (f *Float) RuntimeType() typesystem.Type {
	return typesystem.Float
}

// Boolean
type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return fmt.Sprintf("%t", b.Value) }
func (b *Boolean) RuntimeType() typesystem.Type {
	return typesystem.Bool
}

// String
type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }
func (s *String) RuntimeType() typesystem.Type {
	return typesystem.Str
}

// List is a homogeneous collection. ElemType is the declared element
// type; when nil it is inferred from the first element (Any if empty).
type List struct {
	Elements []Object
	ElemType typesystem.Type
}

func (l *List) Type() ObjectType { return LIST_OBJ }
func (l *List) Inspect() string {
	parts := make([]string, len(l.Elements))
	for i, el := range l.Elements {
		parts[i] = Render(el)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (l *List) RuntimeType() typesystem.Type {
	return typesystem.ListOf(l.elemType())
}

func (l *List) elemType() typesystem.Type {
	if l.ElemType != nil {
		return l.ElemType
	}
	if len(l.Elements) > 0 {
		return l.Elements[0].RuntimeType()
	}
	return typesystem.Any
}

// Nil
type Nil struct{}

func (n *Nil) Type() ObjectType { return NIL_OBJ }
func (n *Nil) Inspect() string  { return "nil" }
func (n *Nil) RuntimeType() typesystem.Type {
	return typesystem.Nil
}

// Render returns the literal source form of an object: strings are
// double-quoted, lists bracketed, everything else as Inspect.
func Render(o Object) string {
	switch v := o.(type) {
	case *String:
		return strconv.Quote(v.Value)
	case *List:
		return v.Inspect()
	default:
		return o.Inspect()
	}
}

// formatFloat keeps a trailing ".0" on integral floats so Float and
// Integer literals stay distinguishable in rendered code.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") && !strings.Contains(s, "Inf") && s != "NaN" {
		s += ".0"
	}
	return s
}

// Constructors.

func NewInt(v int64) *Integer    { return &Integer{Value: v} }
func NewFloat(v float64) *Float  { return &Float{Value: v} }
func NewBool(v bool) *Boolean    { return &Boolean{Value: v} }
func NewString(v string) *String { return &String{Value: v} }

// NewList builds a list with an explicit element type.
func NewList(elemType typesystem.Type, elements ...Object) *List {
	return &List{Elements: elements, ElemType: elemType}
}

// IntList is a convenience constructor for List<Int> values.
func IntList(vs ...int64) *List {
	els := make([]Object, len(vs))
	for i, v := range vs {
		els[i] = NewInt(v)
	}
	return NewList(typesystem.Int, els...)
}

// StringList is a convenience constructor for List<String> values.
func StringList(vs ...string) *List {
	els := make([]Object, len(vs))
	for i, v := range vs {
		els[i] = NewString(v)
	}
	return NewList(typesystem.Str, els...)
}
