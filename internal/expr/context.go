package expr

import (
	"io"
	"os"

	"github.com/funvibe/pushkit/internal/object"
)

// EvalContext carries the state of one evaluation: the named input
// bindings and the writer that IO expressions print to. Library
// callables never touch process stdout directly, which is what makes
// parallel evaluations safe.
type EvalContext struct {
	Bindings map[string]object.Object
	Out      io.Writer
}

// Writer returns the print target, defaulting to process stdout when
// no capture writer was installed.
func (c *EvalContext) Writer() io.Writer {
	if c != nil && c.Out != nil {
		return c.Out
	}
	return os.Stdout
}

// withLocal returns a child context in which name is bound, shadowing
// any outer binding of the same symbol.
func (c *EvalContext) withLocal(name string, value object.Object) *EvalContext {
	bindings := make(map[string]object.Object, len(c.Bindings)+1)
	for k, v := range c.Bindings {
		bindings[k] = v
	}
	bindings[name] = value
	return &EvalContext{Bindings: bindings, Out: c.Out}
}
