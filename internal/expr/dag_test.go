package expr

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/funvibe/pushkit/internal/object"
	"github.com/funvibe/pushkit/internal/omap"
	"github.com/funvibe/pushkit/internal/typesystem"
)

// printlnTapFn builds a function that prints its argument and passes
// it through, via the context writer.
func printlnTapFn() *Function {
	args := omap.New[string, typesystem.Type]().Add("to_do", typesystem.Any)
	call := func(ctx *EvalContext, vals map[string]object.Object) (object.Object, error) {
		fmt.Fprintln(ctx.Writer(), vals["to_do"].Inspect())
		return vals["to_do"], nil
	}
	return NewFunction("println_tap", call, typesystem.Any, args, PassThroughReifier{ArgName: "to_do"})
}

func reifiedAdd(t *testing.T, a, b Expression) *Function {
	t.Helper()
	f := addFn()
	f.AddChild("a", a)
	f.AddChild("b", b)
	if err := f.Reify(); err != nil {
		t.Fatal(err)
	}
	return f
}

func TestDagEvalAndRender(t *testing.T) {
	root := reifiedAdd(t, NewInput("x", typesystem.Float), intConst(5))
	dag, err := NewDag(root)
	if err != nil {
		t.Fatal(err)
	}

	if !typesystem.Equal(dag.ReturnType(), typesystem.Float) {
		t.Errorf("return type = %s, want Float", dag.ReturnType())
	}
	if dag.ToCode() != "add(x, 5)" {
		t.Errorf("ToCode = %q", dag.ToCode())
	}
	want := "def simple(x):\n    return add(x, 5)"
	if got := dag.ToDef("simple", []string{"x"}); got != want {
		t.Errorf("ToDef = %q, want %q", got, want)
	}

	for _, tc := range []struct {
		x    float64
		want float64
	}{
		{0.5, 5.5},
		{-5.0, 0.0},
	} {
		v, err := dag.Eval(map[string]object.Object{"x": object.NewFloat(tc.x)})
		if err != nil {
			t.Fatal(err)
		}
		if !object.Equals(v, object.NewFloat(tc.want)) {
			t.Errorf("eval(x=%v) = %s, want %v", tc.x, v.Inspect(), tc.want)
		}
	}
}

func TestDagStdoutCapture(t *testing.T) {
	tap := printlnTapFn()
	tap.AddChild("to_do", intConst(42))
	if err := tap.Reify(); err != nil {
		t.Fatal(err)
	}
	dag, err := NewDag(tap)
	if err != nil {
		t.Fatal(err)
	}

	if dag.Stdout() != "" {
		t.Errorf("stdout should be empty before eval")
	}
	v, err := dag.Eval(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !object.Equals(v, object.NewInt(42)) {
		t.Errorf("tap must pass its value through, got %s", v.Inspect())
	}
	if dag.Stdout() != "42\n" {
		t.Errorf("stdout = %q, want %q", dag.Stdout(), "42\n")
	}

	// A fresh eval resets the buffer.
	if _, err := dag.Eval(nil); err != nil {
		t.Fatal(err)
	}
	if dag.Stdout() != "42\n" {
		t.Errorf("stdout accumulated across evals: %q", dag.Stdout())
	}
}

func TestDagIsIndependentOfSource(t *testing.T) {
	root := reifiedAdd(t, intConst(1), intConst(2))
	dag, err := NewDag(root)
	if err != nil {
		t.Fatal(err)
	}
	root.FlushChildren()
	if dag.ToCode() != "add(1, 2)" {
		t.Fatalf("unexpected code %q", dag.ToCode())
	}
	if dag.Root().Children().Len() != 2 {
		t.Errorf("mutating the source root reached the DAG")
	}
}

func TestDagInputs(t *testing.T) {
	inner := reifiedAdd(t, NewInput("x", typesystem.Float), NewInput("y", typesystem.Float))
	root := reifiedAdd(t, inner, NewInput("x", typesystem.Float))
	dag, err := NewDag(root)
	if err != nil {
		t.Fatal(err)
	}
	got := dag.Inputs()
	if strings.Join(got, ",") != "x,y" {
		t.Errorf("Inputs = %v, want [x y]: symbols from every child, deduplicated", got)
	}
}

func TestDagEquality(t *testing.T) {
	a, err := NewDag(reifiedAdd(t, intConst(1), intConst(2)))
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewDag(reifiedAdd(t, intConst(1), intConst(2)))
	if err != nil {
		t.Fatal(err)
	}
	c, err := NewDag(reifiedAdd(t, intConst(1), intConst(3)))
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Errorf("structurally equal DAGs should compare equal")
	}
	if a.Equal(c) {
		t.Errorf("distinct DAGs should not compare equal")
	}
	if a.ID() == b.ID() {
		t.Errorf("ids are unique handles, not part of equality")
	}
}

func TestDagWriteTree(t *testing.T) {
	dag, err := NewDag(reifiedAdd(t, intConst(1), intConst(2)))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	dag.WriteTree(&buf)
	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("tree should have 3 lines, got %q", out)
	}
	if !strings.HasPrefix(lines[0], "- Function<add(") {
		t.Errorf("root line = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "| - Constant<") {
		t.Errorf("child line = %q", lines[1])
	}
}
