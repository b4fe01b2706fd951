package expr

import (
	"github.com/funvibe/pushkit/internal/omap"
	"github.com/funvibe/pushkit/internal/typesystem"
)

// Signature is a function's declared return type and ordered argument
// types. Signatures are immutable values; With* return updated copies.
type Signature struct {
	Ret  typesystem.Type
	Args *omap.OMap[string, typesystem.Type]
}

func NewSignature(ret typesystem.Type, args *omap.OMap[string, typesystem.Type]) Signature {
	if args == nil {
		args = omap.New[string, typesystem.Type]()
	}
	return Signature{Ret: ret, Args: args}
}

func (s Signature) WithRet(ret typesystem.Type) Signature {
	return Signature{Ret: ret, Args: s.Args}
}

func (s Signature) WithArg(name string, typ typesystem.Type) Signature {
	return Signature{Ret: s.Ret, Args: s.Args.Add(name, typ)}
}

func (s Signature) Equal(other Signature) bool {
	return typesystem.Equal(s.Ret, other.Ret) &&
		s.Args.Equal(other.Args, typesystem.Equal)
}

// ChildTypes is the ordered arg-name → concrete child dtype mapping a
// reifier narrows a signature with.
type ChildTypes = omap.OMap[string, typesystem.Type]

// Reifier transforms a signature given the concrete types of the
// children selected so far. Reifiers are pure: no runtime values, no
// outside state.
type Reifier interface {
	Reify(sig Signature, children *ChildTypes) Signature
}

// NoopReifier leaves the signature unchanged.
type NoopReifier struct{}

func (NoopReifier) Reify(sig Signature, children *ChildTypes) Signature {
	return sig
}

// RequiredReifier copies every concrete child type over the declared
// argument type. It always runs first for Function expressions.
type RequiredReifier struct{}

func (RequiredReifier) Reify(sig Signature, children *ChildTypes) Signature {
	for _, name := range children.Keys() {
		typ, _ := children.Get(name)
		sig = sig.WithArg(name, typ)
	}
	return sig
}

// PassThroughReifier sets the return type to the concrete type of one
// argument once that argument is known.
type PassThroughReifier struct {
	ArgName string
}

func (r PassThroughReifier) Reify(sig Signature, children *ChildTypes) Signature {
	if typ, ok := children.Get(r.ArgName); ok {
		return sig.WithRet(typ)
	}
	return sig
}

// MaxTypeReifier sets the return type to the child type that sits
// furthest along TypeSeq. If any child's type is not in the ladder the
// signature is left unchanged.
type MaxTypeReifier struct {
	TypeSeq []typesystem.Type
}

func (r MaxTypeReifier) Reify(sig Signature, children *ChildTypes) Signature {
	bestIdx := -1
	var bestType typesystem.Type
	for _, name := range children.Keys() {
		typ, _ := children.Get(name)
		idx := -1
		for i, t := range r.TypeSeq {
			if typesystem.Equal(t, typ) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return sig
		}
		if idx > bestIdx {
			bestIdx = idx
			bestType = typ
		}
	}
	if bestIdx < 0 {
		return sig
	}
	return sig.WithRet(bestType)
}

// RetToElementType sets the return type to the element type of a
// collection argument.
type RetToElementType struct {
	CollArgName string
}

func (r RetToElementType) Reify(sig Signature, children *ChildTypes) Signature {
	if typ, ok := children.Get(r.CollArgName); ok {
		return sig.WithRet(typesystem.ElementType(typ))
	}
	return sig
}

// ArgsToElementType sets the named arguments to the element type of a
// collection argument.
type ArgsToElementType struct {
	CollArgName  string
	ElemArgNames []string
}

func (r ArgsToElementType) Reify(sig Signature, children *ChildTypes) Signature {
	if typ, ok := children.Get(r.CollArgName); ok {
		el := typesystem.ElementType(typ)
		for _, name := range r.ElemArgNames {
			sig = sig.WithArg(name, el)
		}
	}
	return sig
}

// ArgsToSame forces the other arguments to the concrete type of a
// reference argument.
type ArgsToSame struct {
	RefArg    string
	OtherArgs []string
}

func (r ArgsToSame) Reify(sig Signature, children *ChildTypes) Signature {
	if typ, ok := children.Get(r.RefArg); ok {
		sig = sig.WithArg(r.RefArg, typ)
		for _, name := range r.OtherArgs {
			sig = sig.WithArg(name, typ)
		}
	}
	return sig
}

// ListOfReifier sets the return type to List of one argument's
// concrete type.
type ListOfReifier struct {
	ElArg string
}

func (r ListOfReifier) Reify(sig Signature, children *ChildTypes) Signature {
	if typ, ok := children.Get(r.ElArg); ok {
		return sig.WithRet(typesystem.ListOf(typ))
	}
	return sig
}

// ReifierChain composes reifiers left to right.
type ReifierChain struct {
	Reifiers []Reifier
}

func Chain(reifiers ...Reifier) ReifierChain {
	return ReifierChain{Reifiers: reifiers}
}

func (r ReifierChain) Reify(sig Signature, children *ChildTypes) Signature {
	for _, reifier := range r.Reifiers {
		sig = reifier.Reify(sig, children)
	}
	return sig
}
