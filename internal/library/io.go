package library

import (
	"fmt"

	"github.com/funvibe/pushkit/internal/expr"
	"github.com/funvibe/pushkit/internal/object"
	"github.com/funvibe/pushkit/internal/typesystem"
)

// IO expressions print through the evaluation context writer, never to
// process stdout, so parallel evaluations stay safe.

var passDo = expr.PassThroughReifier{ArgName: "to_do"}

func ioFunctions() []expr.Expression {
	return []expr.Expression{
		fn("print_tap", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			fmt.Fprint(ctx.Writer(), args["to_do"].Inspect())
			return args["to_do"], nil
		}, typesystem.Any, passDo, arg("to_do", typesystem.Any)),
		fn("println_tap", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			fmt.Fprintln(ctx.Writer(), args["to_do"].Inspect())
			return args["to_do"], nil
		}, typesystem.Any, passDo, arg("to_do", typesystem.Any)),
		fn("print_do", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			fmt.Fprint(ctx.Writer(), args["to_print"].Inspect())
			return args["to_do"], nil
		}, typesystem.Any, passDo, arg("to_print", typesystem.Any), arg("to_do", typesystem.Any)),
		fn("do_print", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			fmt.Fprint(ctx.Writer(), args["to_print"].Inspect())
			return args["to_do"], nil
		}, typesystem.Any, passDo, arg("to_do", typesystem.Any), arg("to_print", typesystem.Any)),
	}
}
