package push

import (
	"fmt"
	"io"

	"github.com/funvibe/pushkit/internal/config"
	"github.com/funvibe/pushkit/internal/expr"
	"github.com/funvibe/pushkit/internal/omap"
	"github.com/funvibe/pushkit/internal/typesystem"
)

// InvalidCodeError reports a push-sequence element the compiler cannot
// dispatch on. A well-formed bag never produces one; this is a
// programmer error, not a recoverable compile state.
type InvalidCodeError struct {
	Item string
}

func (e *InvalidCodeError) Error() string {
	return "invalid push code element: " + e.Item
}

// Closure is an unrendered nested sub-sequence waiting to be compiled
// as a higher-order body.
type Closure struct {
	FuncDef []Code
}

// Push is a single compiler run: a DAG stack of typed subgraphs and a
// closure stack of pending sub-sequences. Runs are single-use and
// single-threaded; concurrent compiles each take their own Push.
type Push struct {
	dagStack       *Stack[expr.Expression]
	closureStack   *Stack[*Closure]
	allowLocalArgs bool

	// Trace receives a step-by-step account of the run when non-nil.
	Trace io.Writer
}

// New returns a compiler for top-level programs. Local placeholders
// in top-level code are discarded.
func New() *Push {
	return newPush(false)
}

func newPush(allowLocalArgs bool) *Push {
	return &Push{
		dagStack:       NewStack[expr.Expression](),
		closureStack:   NewStack[*Closure](),
		allowLocalArgs: allowLocalArgs,
	}
}

// Compile consumes a push sequence and extracts the topmost stack
// entry whose dtype fits outputType, wrapped as a DAG.
//
// An infeasible sequence returns (nil, nil): random genomes are
// expected to fail to compile, silently. A non-nil error is a defect
// (malformed push element or a reification contract violation).
func (p *Push) Compile(code []Code, outputType typesystem.Type) (*expr.Dag, error) {
	p.dagStack = NewStack[expr.Expression]()
	for _, c := range code {
		if err := p.process(c); err != nil {
			return nil, err
		}
	}
	root := p.popTopValid(outputType)
	if root == nil {
		p.trace("no stack entry fits %s; compile infeasible", outputType)
		return nil, nil
	}
	return expr.NewDag(root)
}

func (p *Push) process(c Code) error {
	p.trace("processing %s (dag %d, closures %d)", c, p.dagStack.Len(), p.closureStack.Len())

	if c.kind == codeBlock {
		p.closureStack.Push(&Closure{FuncDef: c.Block})
		return nil
	}
	if c.kind != codeExpr || c.Expr == nil {
		return &InvalidCodeError{Item: c.String()}
	}

	switch e := c.Expr.(type) {
	case *expr.Constant:
		p.dagStack.Push(e)
	case *expr.LocalInput:
		if p.allowLocalArgs {
			p.dagStack.Push(e)
		}
	case *expr.Input:
		p.dagStack.Push(e)
	case expr.HOF:
		return p.processHOF(e)
	case expr.FunctionLike:
		return p.processFunctionLike(e)
	default:
		return &InvalidCodeError{Item: expr.Describe(c.Expr)}
	}
	return nil
}

// processFunctionLike pops typed children for a fresh copy of the
// callee, reifies it and pushes the assembled subgraph. Failure to pop
// leaves the stacks unchanged.
func (p *Push) processFunctionLike(e expr.FunctionLike) error {
	fresh := e.Clone().(expr.FunctionLike)
	children := p.popChildren(fresh.BaseSignature(), fresh.TypeReifier())
	if children == nil {
		p.trace("skipping %s: no type-compatible children", fresh.Name())
		return nil
	}
	fresh.AddChildren(children)
	if err := fresh.Reify(); err != nil {
		return err
	}
	p.dagStack.Push(fresh)
	return nil
}

// processHOF pops a sequence subgraph, compiles a closure body against
// the sequence's element type, and pushes the assembled higher-order
// expression. Any failure reverts both stacks to their pre-attempt
// snapshots.
func (p *Push) processHOF(e expr.HOF) error {
	dagSnapshot := p.dagStack.Clone()
	closureSnapshot := p.closureStack.Clone()

	seq := p.popTopValid(typesystem.List)
	if seq == nil {
		p.dagStack = dagSnapshot
		p.trace("skipping hof: no sequence on the stack")
		return nil
	}
	elType := typesystem.ElementType(seq.Dtype())

	fresh := e.Clone().(expr.HOF)
	nArgs, ret := fresh.InnerFuncSpec()
	funcDag, err := p.popClosureAsDag(elType, nArgs, ret)
	if err != nil {
		return err
	}
	if funcDag == nil {
		p.dagStack = dagSnapshot
		p.closureStack = closureSnapshot
		p.trace("skipping hof: no closure compiles to %s", ret)
		return nil
	}

	fresh.AddChild(config.HofSeqChildName, seq)
	fresh.AddChild(config.HofFuncChildName, funcDag.Root())
	if err := fresh.Reify(); err != nil {
		return err
	}
	p.dagStack.Push(fresh)
	return nil
}

// popTopValid removes and returns the topmost stack entry whose dtype
// fits typ and whose depth is strictly under the cap.
func (p *Push) popTopValid(typ typesystem.Type) expr.Expression {
	for i := 0; i < p.dagStack.Len(); i++ {
		el, _ := p.dagStack.Nth(i)
		if typesystem.IsSubtype(el.Dtype(), typ) && el.Depth() < config.MaxNodeDepth {
			p.dagStack.PopAt(i)
			return el
		}
	}
	return nil
}

// popChildren pops one type-compatible child per argument, in argument
// order, re-running the reifier after each pop so later arguments see
// narrowed required types. Returns nil (stack restored) if any
// argument cannot be satisfied.
func (p *Push) popChildren(sig expr.Signature, reifier expr.Reifier) *omap.OMap[string, expr.Expression] {
	snapshot := p.dagStack.Clone()
	children := omap.New[string, expr.Expression]()
	reified := sig
	for _, name := range sig.Args.Keys() {
		typ, ok := reified.Args.Get(name)
		if !ok {
			typ, _ = sig.Args.Get(name)
		}
		child := p.popTopValid(typ)
		if child == nil {
			p.dagStack = snapshot
			return nil
		}
		children = children.Add(name, child)
		if reifier != nil {
			childTypes := omap.New[string, typesystem.Type]()
			for _, nm := range children.Keys() {
				c, _ := children.Get(nm)
				childTypes = childTypes.Add(nm, c.Dtype())
			}
			reified = reifier.Reify(reified, childTypes)
		}
	}
	return children
}

// popClosureAsDag scans the closure stack top to bottom for the first
// closure whose body compiles to ret. Local placeholders in the body
// are normalized to index mod nArgs and rebound to the element type,
// so over-indexed bodies still type-check.
func (p *Push) popClosureAsDag(elType typesystem.Type, nArgs int, ret typesystem.Type) (*expr.Dag, error) {
	if nArgs < 1 {
		nArgs = 1
	}
	for i := 0; i < p.closureStack.Len(); i++ {
		closure, _ := p.closureStack.Nth(i)
		clean := make([]Code, len(closure.FuncDef))
		for j, item := range closure.FuncDef {
			if li, ok := item.Expr.(*expr.LocalInput); ok && item.kind == codeExpr {
				clean[j] = C(expr.NewLocalInput(li.Index%nArgs, elType))
			} else {
				clean[j] = item
			}
		}
		inner := newPush(true)
		inner.Trace = p.Trace
		dag, err := inner.Compile(clean, ret)
		if err != nil {
			return nil, err
		}
		if dag != nil {
			p.closureStack.PopAt(i)
			return dag, nil
		}
	}
	return nil, nil
}

func (p *Push) trace(format string, args ...any) {
	if p.Trace == nil {
		return
	}
	fmt.Fprintf(p.Trace, format+"\n", args...)
}
