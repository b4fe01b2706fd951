package expr

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/funvibe/pushkit/internal/object"
	"github.com/funvibe/pushkit/internal/typesystem"
)

// Dag owns a deep-copied, fully-reified expression root. After
// construction it never mutates except for the stdout capture buffer
// during evaluation.
type Dag struct {
	root   Expression
	id     string
	stdout bytes.Buffer
}

// NewDag deep-copies root and reifies the whole graph, children first.
// A reification failure here means a defective reifier, not a bad
// genome.
func NewDag(root Expression) (*Dag, error) {
	r := CloneDeep(root)
	if err := ReifyAll(r); err != nil {
		return nil, err
	}
	return &Dag{root: r, id: uuid.NewString()}, nil
}

// Root returns the reified root expression.
func (d *Dag) Root() Expression { return d.root }

// ID is a unique handle for listings and traces. It never influences
// rendering or evaluation.
func (d *Dag) ID() string { return d.id }

// Eval runs the program against named input bindings. Anything the
// program prints is captured and readable via Stdout afterwards, on
// all exit paths including failure.
func (d *Dag) Eval(bindings map[string]object.Object) (object.Object, error) {
	d.stdout.Reset()
	ctx := &EvalContext{Bindings: bindings, Out: &d.stdout}
	return d.root.Eval(ctx)
}

// Stdout returns everything printed by the most recent Eval.
func (d *Dag) Stdout() string { return d.stdout.String() }

// ReturnType reports the root's reified dtype.
func (d *Dag) ReturnType() typesystem.Type { return d.root.Dtype() }

// ToCode renders the program as a single expression.
func (d *Dag) ToCode() string { return d.root.ToCode() }

// ToDef renders the program as a function definition.
func (d *Dag) ToDef(name string, argNames []string) string {
	return fmt.Sprintf("def %s(%s):\n    return %s", name, strings.Join(argNames, ", "), d.root.ToCode())
}

// Inputs returns the symbols of all Input expressions anywhere in the
// graph, first-seen order, local placeholders excluded.
func (d *Dag) Inputs() []string {
	seen := map[string]bool{}
	symbols := []string{}
	Walk(d.root, func(e Expression) {
		if _, isLocal := e.(*LocalInput); isLocal {
			return
		}
		if in, ok := e.(*Input); ok && !seen[in.Symbol] {
			seen[in.Symbol] = true
			symbols = append(symbols, in.Symbol)
		}
	})
	return symbols
}

// PPrint writes an indented tree of the graph to stdout.
func (d *Dag) PPrint() {
	d.WriteTree(os.Stdout)
}

// WriteTree writes the indented tree to w.
func (d *Dag) WriteTree(w io.Writer) {
	writeTree(w, d.root, 0)
}

func (d *Dag) Equal(other *Dag) bool {
	if other == nil {
		return false
	}
	return d.root.Equal(other.root)
}

func writeTree(w io.Writer, e Expression, depth int) {
	fmt.Fprintf(w, "%s- %s\n", strings.Repeat("| ", depth), Describe(e))
	for _, child := range e.Children().Values() {
		writeTree(w, child, depth+1)
	}
}

// Describe renders an expression's kind, body, dtype and depth for
// tree dumps and traces.
func Describe(e Expression) string {
	body := e.ToForm()
	if e.Reified() {
		body = e.ToCode()
	}
	return fmt.Sprintf("%s<%s><dtype=%s,depth=%d>", kindName(e), body, e.Dtype(), e.Depth())
}

func kindName(e Expression) string {
	switch e.(type) {
	case *Constant:
		return "Constant"
	case *LocalInput:
		return "LocalInput"
	case *Input:
		return "Input"
	case *Method:
		return "Method"
	case *Function:
		return "Function"
	case *Constructor:
		return "Constructor"
	case *MapExpr:
		return "Map"
	case *FilterExpr:
		return "Filter"
	default:
		return "Expression"
	}
}
