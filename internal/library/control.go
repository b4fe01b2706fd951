package library

import (
	"github.com/funvibe/pushkit/internal/expr"
	"github.com/funvibe/pushkit/internal/object"
	"github.com/funvibe/pushkit/internal/typesystem"
)

// if_ forces both branches to the same type and returns that type.
// Both branches are evaluated before selection (the catalogue is
// applicative, not lazy).
var ifReifier = expr.Chain(
	expr.ArgsToSame{RefArg: "then", OtherArgs: []string{"else_"}},
	expr.PassThroughReifier{ArgName: "then"},
)

func controlFunctions() []expr.Expression {
	return []expr.Expression{
		fn("if_", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			if args["cond"].(*object.Boolean).Value {
				return args["then"], nil
			}
			return args["else_"], nil
		}, typesystem.Any, ifReifier,
			arg("cond", typesystem.Bool), arg("then", typesystem.Any), arg("else_", typesystem.Any)),
	}
}
