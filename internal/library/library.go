// Package library is the fixed catalogue of callable expressions the
// bag is built from: arithmetic, comparison, logic, string, cast,
// control and collection operations, each with its declared argument
// types and reifier assignment.
package library

import (
	"github.com/funvibe/pushkit/internal/expr"
	"github.com/funvibe/pushkit/internal/omap"
	"github.com/funvibe/pushkit/internal/typesystem"
)

// Numeric and Comparable are the union types the catalogue's generic
// signatures are declared against.
var (
	Numeric    = typesystem.Union(typesystem.Int, typesystem.Float)
	Comparable = typesystem.Union(typesystem.Int, typesystem.Float, typesystem.Str)
)

// Shared reifiers.
var (
	maxNumeric   = expr.MaxTypeReifier{TypeSeq: []typesystem.Type{typesystem.Int, typesystem.Float}}
	bSameAsA     = expr.ArgsToSame{RefArg: "a", OtherArgs: []string{"b"}}
	passThroughA = expr.PassThroughReifier{ArgName: "a"}
)

type argSpec struct {
	name string
	typ  typesystem.Type
}

func arg(name string, typ typesystem.Type) argSpec {
	return argSpec{name: name, typ: typ}
}

func argsOf(specs ...argSpec) *omap.OMap[string, typesystem.Type] {
	args := omap.New[string, typesystem.Type]()
	for _, s := range specs {
		args = args.Add(s.name, s.typ)
	}
	return args
}

func fn(name string, call expr.Callable, ret typesystem.Type, reifier expr.Reifier, specs ...argSpec) *expr.Function {
	return expr.NewFunction(name, call, ret, argsOf(specs...), reifier)
}

// Functions returns every free-function template in the catalogue.
func Functions() []expr.Expression {
	out := []expr.Expression{}
	out = append(out, opFunctions()...)
	out = append(out, castFunctions()...)
	out = append(out, strFunctions()...)
	out = append(out, ioFunctions()...)
	out = append(out, collectionFunctions()...)
	out = append(out, controlFunctions()...)
	return out
}

// Methods returns every method template in the catalogue (currently
// the string methods).
func Methods() []expr.Expression {
	return stringMethods()
}

// Find returns the first catalogue entry with the given name, or nil.
// Names repeat across domains (op.add, str.add, collections.add);
// free functions are searched before methods.
func Find(name string) expr.Expression {
	for _, e := range Functions() {
		if f, ok := e.(expr.FunctionLike); ok && f.Name() == name {
			return e
		}
	}
	for _, e := range Methods() {
		if f, ok := e.(expr.FunctionLike); ok && f.Name() == name {
			return e
		}
	}
	return nil
}
