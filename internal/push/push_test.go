package push

import (
	"testing"

	"github.com/funvibe/pushkit/internal/config"
	"github.com/funvibe/pushkit/internal/expr"
	"github.com/funvibe/pushkit/internal/library"
	"github.com/funvibe/pushkit/internal/object"
	"github.com/funvibe/pushkit/internal/omap"
	"github.com/funvibe/pushkit/internal/typesystem"
)

var numeric = typesystem.Union(typesystem.Int, typesystem.Float)

func addFn() expr.Expression {
	return library.Find("add")
}

func ifFn() expr.Expression {
	return library.Find("if_")
}

// takesNumAndStr is the pop-order fixture: fn(n: Int|Float, s: String).
func takesNumAndStr() *expr.Function {
	args := omap.New[string, typesystem.Type]().
		Add("n", numeric).
		Add("s", typesystem.Str)
	call := func(ctx *expr.EvalContext, vals map[string]object.Object) (object.Object, error) {
		return vals["s"], nil
	}
	return expr.NewFunction("tag", call, typesystem.Str, args, nil)
}

func compile(t *testing.T, code []Code, out typesystem.Type) *expr.Dag {
	t.Helper()
	dag, err := New().Compile(code, out)
	if err != nil {
		t.Fatal(err)
	}
	return dag
}

func TestCompileAddition(t *testing.T) {
	code := []Code{
		C(expr.NewConstant(object.NewInt(5))),
		C(expr.NewInput("x", typesystem.Float)),
		C(addFn()),
	}
	dag := compile(t, code, typesystem.Float)
	if dag == nil {
		t.Fatal("expected a DAG")
	}
	if dag.ToCode() != "add(x, 5)" {
		t.Errorf("ToCode = %q: the first argument pops the topmost compatible entry", dag.ToCode())
	}
	if !typesystem.Equal(dag.ReturnType(), typesystem.Float) {
		t.Errorf("return type = %s, want Float", dag.ReturnType())
	}
	for _, tc := range []struct{ x, want float64 }{{0.5, 5.5}, {-5.0, 0.0}} {
		v, err := dag.Eval(map[string]object.Object{"x": object.NewFloat(tc.x)})
		if err != nil {
			t.Fatal(err)
		}
		if !object.Equals(v, object.NewFloat(tc.want)) {
			t.Errorf("eval(x=%v) = %s, want %v", tc.x, v.Inspect(), tc.want)
		}
	}
}

func TestCompileIsDeterministic(t *testing.T) {
	make_ := func() []Code {
		return []Code{
			C(expr.NewConstant(object.NewInt(5))),
			C(expr.NewInput("x", typesystem.Float)),
			C(addFn()),
			C(expr.NewConstant(object.NewFloat(1.5))),
			C(addFn()),
		}
	}
	first := compile(t, make_(), typesystem.Float)
	for i := 0; i < 10; i++ {
		again := compile(t, make_(), typesystem.Float)
		if again == nil || first == nil {
			t.Fatal("expected DAGs")
		}
		if again.ToCode() != first.ToCode() {
			t.Fatalf("compile diverged: %q vs %q", first.ToCode(), again.ToCode())
		}
	}
}

func TestTypedPopOrder(t *testing.T) {
	code := []Code{
		C(expr.NewConstant(object.NewInt(7))),
		C(expr.NewConstant(object.NewString("A"))),
		C(takesNumAndStr()),
	}
	dag := compile(t, code, typesystem.Str)
	if dag == nil {
		t.Fatal("expected a DAG")
	}
	if dag.ToCode() != `tag(7, "A")` {
		t.Errorf("ToCode = %q: n must take the int, s the string, not reversed", dag.ToCode())
	}

	root := dag.Root()
	n, _ := root.Children().Get("n")
	s, _ := root.Children().Get("s")
	if !n.Equal(expr.NewConstant(object.NewInt(7))) {
		t.Errorf("n child = %s", expr.Describe(n))
	}
	if !s.Equal(expr.NewConstant(object.NewString("A"))) {
		t.Errorf("s child = %s", expr.Describe(s))
	}
}

func TestInfeasibleCompileReturnsNil(t *testing.T) {
	code := []Code{
		C(expr.NewConstant(object.NewInt(5))),
		C(addFn()),
	}
	dag := compile(t, code, typesystem.Float)
	if dag != nil {
		t.Errorf("missing second argument must yield nil, got %q", dag.ToCode())
	}
}

func TestEmptySequence(t *testing.T) {
	if dag := compile(t, nil, typesystem.Int); dag != nil {
		t.Errorf("empty push sequence must yield nil")
	}
}

func TestZeroArgFunctionPushesImmediately(t *testing.T) {
	zero := expr.NewFunction("zero", func(ctx *expr.EvalContext, vals map[string]object.Object) (object.Object, error) {
		return object.NewInt(0), nil
	}, typesystem.Int, nil, nil)
	dag := compile(t, []Code{C(zero)}, typesystem.Int)
	if dag == nil {
		t.Fatal("expected a DAG")
	}
	if dag.ToCode() != "zero()" {
		t.Errorf("ToCode = %q", dag.ToCode())
	}
}

func TestLocalInputDiscardedAtTopLevel(t *testing.T) {
	code := []Code{
		C(expr.NewLocalInput(0, typesystem.Int)),
	}
	if dag := compile(t, code, typesystem.Any); dag != nil {
		t.Errorf("local placeholders outside a closure body must be discarded")
	}
}

func TestInvalidCodeElement(t *testing.T) {
	_, err := New().Compile([]Code{{}}, typesystem.Int)
	if _, ok := err.(*InvalidCodeError); !ok {
		t.Fatalf("want InvalidCodeError, got %v", err)
	}
}

// Builds a chain of n add applications over int constants, each new
// add taking the fresh constant as a and the chain so far as b
// (add(1, add(1, ...))); the resulting root has depth n+1.
func addChain(n int) []Code {
	code := []Code{C(expr.NewConstant(object.NewInt(1)))}
	for i := 0; i < n; i++ {
		code = append(code,
			C(expr.NewConstant(object.NewInt(1))),
			C(addFn()),
		)
	}
	return code
}

func TestDepthCap(t *testing.T) {
	// 48 adds: root depth 49, still extractable.
	dag := compile(t, addChain(48), typesystem.Int)
	if dag == nil {
		t.Fatal("depth-49 chain should compile")
	}
	if dag.Root().Depth() != 49 {
		t.Errorf("root depth = %d, want 49", dag.Root().Depth())
	}

	// One more add reaches the cap: nodes at exactly depth 50 are not
	// reusable, so nothing on the stack can be extracted.
	if dag := compile(t, addChain(49), typesystem.Int); dag != nil {
		t.Errorf("a root at the depth cap must not be extractable, got depth %d", dag.Root().Depth())
	}

	// A further add must skip the capped entry; with a shallow
	// constant available afterwards, compilation falls back to it.
	code := append(addChain(49),
		C(expr.NewConstant(object.NewInt(1))),
		C(addFn()),
		C(expr.NewConstant(object.NewInt(7))),
	)
	dag = compile(t, code, typesystem.Int)
	if dag == nil {
		t.Fatal("expected the shallow fallback root")
	}
	if dag.ToCode() != "7" {
		t.Errorf("ToCode = %q: the capped subgraph must be skipped", dag.ToCode())
	}
	if dag.Root().Depth() > config.MaxNodeDepth {
		t.Errorf("depth %d exceeds the cap", dag.Root().Depth())
	}
}

func TestCompileConstructor(t *testing.T) {
	point := typesystem.TCon{Name: "Point"}
	args := omap.New[string, typesystem.Type]().
		Add("x", typesystem.Int).
		Add("y", typesystem.Int)
	ctor := expr.NewConstructor("Point", func(ctx *expr.EvalContext, vals map[string]object.Object) (object.Object, error) {
		return object.NewList(typesystem.Int, vals["x"], vals["y"]), nil
	}, point, args)

	code := []Code{
		C(expr.NewConstant(object.NewInt(2))),
		C(expr.NewConstant(object.NewInt(1))),
		C(ctor),
	}
	dag := compile(t, code, point)
	if dag == nil {
		t.Fatal("expected a DAG")
	}
	if dag.ToCode() != "Point(1, 2)" {
		t.Errorf("ToCode = %q", dag.ToCode())
	}
	if !typesystem.Equal(dag.ReturnType(), point) {
		t.Errorf("return type = %s, want the class type", dag.ReturnType())
	}
}

func TestCompileMapOverList(t *testing.T) {
	code := []Code{
		C(expr.NewInput("xs", typesystem.ListOf(typesystem.Int))),
		B(
			C(expr.NewLocalInput(0, nil)),
			C(expr.NewConstant(object.NewInt(1))),
			C(addFn()),
		),
		C(expr.NewMapExpr()),
	}
	dag := compile(t, code, typesystem.ListOf(typesystem.Int))
	if dag == nil {
		t.Fatal("expected a DAG")
	}
	if dag.ToCode() != "map(lambda _0: add(1, _0), xs)" {
		t.Errorf("ToCode = %q", dag.ToCode())
	}
	v, err := dag.Eval(map[string]object.Object{"xs": object.IntList(1, 2, 3)})
	if err != nil {
		t.Fatal(err)
	}
	if !object.Equals(v, object.IntList(2, 3, 4)) {
		t.Errorf("eval = %s, want [2, 3, 4]", v.Inspect())
	}
}

func TestCompileMapViaLinearizer(t *testing.T) {
	genome := []Gene{
		GeneOf(expr.NewInput("xs", typesystem.ListOf(typesystem.Int))),
		GeneToken(Open),
		GeneOf(expr.NewLocalInput(0, nil)),
		GeneOf(expr.NewConstant(object.NewInt(1))),
		GeneOf(addFn()),
		GeneToken(Close),
		GeneOf(expr.NewMapExpr()),
	}
	dag := compile(t, Linearize(genome), typesystem.ListOf(typesystem.Int))
	if dag == nil {
		t.Fatal("expected a DAG")
	}
	if dag.ToCode() != "map(lambda _0: add(1, _0), xs)" {
		t.Errorf("ToCode = %q", dag.ToCode())
	}
}

func TestCompileFilter(t *testing.T) {
	code := []Code{
		C(expr.NewInput("xs", typesystem.ListOf(typesystem.Int))),
		B(
			C(expr.NewLocalInput(0, nil)),
			C(expr.NewConstant(object.NewInt(0))),
			C(library.Find("lt")),
		),
		C(expr.NewFilterExpr()),
	}
	dag := compile(t, code, typesystem.ListOf(typesystem.Int))
	if dag == nil {
		t.Fatal("expected a DAG")
	}
	// lt pops a=0 then b=_0, so the body keeps elements with 0 < _0.
	if dag.ToCode() != "filter(lambda _0: lt(0, _0), xs)" {
		t.Errorf("ToCode = %q", dag.ToCode())
	}
	v, err := dag.Eval(map[string]object.Object{"xs": object.IntList(-2, 5, 0, 9)})
	if err != nil {
		t.Fatal(err)
	}
	if !object.Equals(v, object.IntList(5, 9)) {
		t.Errorf("eval = %s, want [5, 9]", v.Inspect())
	}
}

func TestHofOverIndexedLocalNormalized(t *testing.T) {
	// _2 mod 1 == _0: over-indexed placeholders still type-check.
	code := []Code{
		C(expr.NewInput("xs", typesystem.ListOf(typesystem.Int))),
		B(
			C(expr.NewLocalInput(2, nil)),
			C(expr.NewConstant(object.NewInt(1))),
			C(addFn()),
		),
		C(expr.NewMapExpr()),
	}
	dag := compile(t, code, typesystem.ListOf(typesystem.Int))
	if dag == nil {
		t.Fatal("expected a DAG")
	}
	if dag.ToCode() != "map(lambda _0: add(1, _0), xs)" {
		t.Errorf("ToCode = %q", dag.ToCode())
	}
}

func TestHofFailureRestoresBothStacks(t *testing.T) {
	// No closure on the stack: map must fail and leave the sequence
	// where it was, so the final extraction still finds it.
	code := []Code{
		C(expr.NewInput("xs", typesystem.ListOf(typesystem.Int))),
		C(expr.NewMapExpr()),
	}
	dag := compile(t, code, typesystem.ListOf(typesystem.Int))
	if dag == nil {
		t.Fatal("expected the untouched sequence as root")
	}
	if dag.ToCode() != "xs" {
		t.Errorf("ToCode = %q: the popped seq must be restored on failure", dag.ToCode())
	}
}

func TestIfUnifiesBranchTypes(t *testing.T) {
	code := []Code{
		C(expr.NewConstant(object.NewBool(true))),
		C(expr.NewConstant(object.NewFloat(1.0))),
		C(expr.NewConstant(object.NewFloat(2.0))),
		C(ifFn()),
	}
	dag := compile(t, code, typesystem.Float)
	if dag == nil {
		t.Fatal("expected a DAG")
	}
	if dag.ToCode() != "if_(true, 2.0, 1.0)" {
		t.Errorf("ToCode = %q", dag.ToCode())
	}
	if !typesystem.Equal(dag.ReturnType(), typesystem.Float) {
		t.Errorf("return type = %s, want Float (pass-through of the unified branch)", dag.ReturnType())
	}
	v, err := dag.Eval(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !object.Equals(v, object.NewFloat(2.0)) {
		t.Errorf("eval = %s", v.Inspect())
	}

	root := dag.Root().(expr.FunctionLike)
	for _, name := range []string{"then", "else_"} {
		typ, _ := root.ReifiedSignature().Args.Get(name)
		if !typesystem.Equal(typ, typesystem.Float) {
			t.Errorf("argument %s reified to %s, want Float", name, typ)
		}
	}
}

func TestIfRejectsMixedBranchTypes(t *testing.T) {
	// Once then binds a Float, else_ is forced to Float; an Int cannot
	// satisfy it, so if_ no-ops and extraction falls back to the float
	// constant.
	code := []Code{
		C(expr.NewConstant(object.NewBool(true))),
		C(expr.NewConstant(object.NewInt(1))),
		C(expr.NewConstant(object.NewFloat(2.0))),
		C(ifFn()),
	}
	dag := compile(t, code, typesystem.Float)
	if dag == nil {
		t.Fatal("expected the float constant as fallback root")
	}
	if dag.ToCode() != "2.0" {
		t.Errorf("ToCode = %q: if_ should have been skipped", dag.ToCode())
	}
}

func TestCompiledGraphIsFullyReified(t *testing.T) {
	code := []Code{
		C(expr.NewConstant(object.NewInt(5))),
		C(expr.NewInput("x", typesystem.Float)),
		C(addFn()),
	}
	dag := compile(t, code, typesystem.Float)
	if dag == nil {
		t.Fatal("expected a DAG")
	}
	expr.Walk(dag.Root(), func(e expr.Expression) {
		if !e.Reified() {
			t.Errorf("unreified node in compiled DAG: %s", expr.Describe(e))
		}
		if fl, ok := e.(expr.FunctionLike); ok {
			for _, name := range fl.ReifiedSignature().Args.Keys() {
				child, ok := fl.Children().Get(name)
				if !ok {
					t.Errorf("%s: missing child %s", fl.Name(), name)
					continue
				}
				declared, _ := fl.ReifiedSignature().Args.Get(name)
				if !typesystem.IsSubtype(child.Dtype(), declared) {
					t.Errorf("%s.%s: %s is not a subtype of %s", fl.Name(), name, child.Dtype(), declared)
				}
			}
		}
	})
}
