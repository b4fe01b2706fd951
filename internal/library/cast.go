package library

import (
	"github.com/funvibe/pushkit/internal/expr"
	"github.com/funvibe/pushkit/internal/object"
	"github.com/funvibe/pushkit/internal/typesystem"
)

// Casts between primitive numerics and booleans are total: no cast in
// this file can fail at runtime.
func castFunctions() []expr.Expression {
	return []expr.Expression{
		fn("str_", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			return object.NewString(args["a"].Inspect()), nil
		}, typesystem.Str, nil, arg("a", typesystem.Any)),
		fn("int2float", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			return object.NewFloat(float64(intVal(args["i"]))), nil
		}, typesystem.Float, nil, arg("i", typesystem.Int)),
		fn("float2int", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			// Truncates toward zero.
			return object.NewInt(int64(floatVal(args["f"]))), nil
		}, typesystem.Int, nil, arg("f", typesystem.Float)),
		fn("int2bool", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			return object.NewBool(intVal(args["i"]) != 0), nil
		}, typesystem.Bool, nil, arg("i", typesystem.Int)),
		fn("float2bool", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			return object.NewBool(floatVal(args["f"]) != 0), nil
		}, typesystem.Bool, nil, arg("f", typesystem.Float)),
		fn("bool2int", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			if args["b"].(*object.Boolean).Value {
				return object.NewInt(1), nil
			}
			return object.NewInt(0), nil
		}, typesystem.Int, nil, arg("b", typesystem.Bool)),
		fn("bool2float", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			if args["b"].(*object.Boolean).Value {
				return object.NewFloat(1.0), nil
			}
			return object.NewFloat(0.0), nil
		}, typesystem.Float, nil, arg("b", typesystem.Bool)),
	}
}
