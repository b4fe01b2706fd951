package library

import (
	"fmt"

	"github.com/funvibe/pushkit/internal/expr"
	"github.com/funvibe/pushkit/internal/object"
	"github.com/funvibe/pushkit/internal/typesystem"
)

var listAddReifier = expr.Chain(
	expr.ArgsToSame{RefArg: "l1", OtherArgs: []string{"l2"}},
	expr.PassThroughReifier{ArgName: "l1"},
)

func collectionFunctions() []expr.Expression {
	return []expr.Expression{
		fn("len_", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			switch v := args["coll"].(type) {
			case *object.List:
				return object.NewInt(int64(len(v.Elements))), nil
			case *object.String:
				return object.NewInt(int64(len([]rune(v.Value)))), nil
			}
			return nil, fmt.Errorf("len of unsized %s", args["coll"].RuntimeType())
		}, typesystem.Int, nil, arg("coll", typesystem.Sized)),

		fn("in_", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			coll := args["coll"].(*object.List)
			for _, el := range coll.Elements {
				if object.Equals(el, args["el"]) {
					return object.NewBool(true), nil
				}
			}
			return object.NewBool(false), nil
		}, typesystem.Bool, expr.ArgsToElementType{CollArgName: "coll", ElemArgNames: []string{"el"}},
			arg("coll", typesystem.List), arg("el", typesystem.Any)),

		fn("add", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			l1 := args["l1"].(*object.List)
			l2 := args["l2"].(*object.List)
			els := make([]object.Object, 0, len(l1.Elements)+len(l2.Elements))
			els = append(els, l1.Elements...)
			els = append(els, l2.Elements...)
			return object.NewList(l1.ElemType, els...), nil
		}, typesystem.List, listAddReifier, arg("l1", typesystem.List), arg("l2", typesystem.List)),

		fn("wrap", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			el := args["el"]
			return object.NewList(el.RuntimeType(), el), nil
		}, typesystem.List, expr.ListOfReifier{ElArg: "el"}, arg("el", typesystem.Any)),
	}
}
