package library

import (
	"fmt"
	"math"

	"github.com/funvibe/pushkit/internal/expr"
	"github.com/funvibe/pushkit/internal/object"
	"github.com/funvibe/pushkit/internal/typesystem"
)

func bothInt(a, b object.Object) bool {
	_, aInt := a.(*object.Integer)
	_, bInt := b.(*object.Integer)
	return aInt && bInt
}

func intVal(o object.Object) int64 {
	v, _ := object.AsInt(o)
	return v
}

func floatVal(o object.Object) float64 {
	v, _ := object.AsFloat(o)
	return v
}

// compare orders two Comparable values: strings lexicographically,
// numerics on their widened value.
func compare(a, b object.Object) (int, error) {
	if as, ok := a.(*object.String); ok {
		bs, ok := b.(*object.String)
		if !ok {
			return 0, fmt.Errorf("cannot compare %s with %s", a.RuntimeType(), b.RuntimeType())
		}
		switch {
		case as.Value < bs.Value:
			return -1, nil
		case as.Value > bs.Value:
			return 1, nil
		}
		return 0, nil
	}
	av, okA := object.AsFloat(a)
	bv, okB := object.AsFloat(b)
	if !okA || !okB {
		return 0, fmt.Errorf("cannot compare %s with %s", a.RuntimeType(), b.RuntimeType())
	}
	switch {
	case av < bv:
		return -1, nil
	case av > bv:
		return 1, nil
	}
	return 0, nil
}

func comparison(test func(c int) bool) expr.Callable {
	return func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
		c, err := compare(args["a"], args["b"])
		if err != nil {
			return nil, err
		}
		return object.NewBool(test(c)), nil
	}
}

// arith builds a numeric binary callable with Int/Float promotion.
func arith(fi func(a, b int64) int64, ff func(a, b float64) float64) expr.Callable {
	return func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
		a, b := args["a"], args["b"]
		if bothInt(a, b) {
			return object.NewInt(fi(intVal(a), intVal(b))), nil
		}
		return object.NewFloat(ff(floatVal(a), floatVal(b))), nil
	}
}

func opFunctions() []expr.Expression {
	comparableAB := []argSpec{arg("a", Comparable), arg("b", Comparable)}
	numericAB := []argSpec{arg("a", Numeric), arg("b", Numeric)}
	boolAB := []argSpec{arg("a", typesystem.Bool), arg("b", typesystem.Bool)}

	return []expr.Expression{
		fn("lt", comparison(func(c int) bool { return c < 0 }), typesystem.Bool, bSameAsA, comparableAB...),
		fn("le", comparison(func(c int) bool { return c <= 0 }), typesystem.Bool, bSameAsA, comparableAB...),
		fn("eq", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			return object.NewBool(object.Equals(args["a"], args["b"])), nil
		}, typesystem.Bool, nil, arg("a", typesystem.Any), arg("b", typesystem.Any)),
		fn("ne", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			return object.NewBool(!object.Equals(args["a"], args["b"])), nil
		}, typesystem.Bool, nil, arg("a", typesystem.Any), arg("b", typesystem.Any)),
		fn("ge", comparison(func(c int) bool { return c >= 0 }), typesystem.Bool, bSameAsA, comparableAB...),
		fn("gt", comparison(func(c int) bool { return c > 0 }), typesystem.Bool, bSameAsA, comparableAB...),

		fn("not_", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			b := args["a"].(*object.Boolean)
			return object.NewBool(!b.Value), nil
		}, typesystem.Bool, nil, arg("a", typesystem.Bool)),
		fn("and_", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			a := args["a"].(*object.Boolean)
			b := args["b"].(*object.Boolean)
			return object.NewBool(a.Value && b.Value), nil
		}, typesystem.Bool, nil, boolAB...),
		fn("or_", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			a := args["a"].(*object.Boolean)
			b := args["b"].(*object.Boolean)
			return object.NewBool(a.Value || b.Value), nil
		}, typesystem.Bool, nil, boolAB...),

		fn("abs_", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			if i, ok := args["a"].(*object.Integer); ok {
				if i.Value < 0 {
					return object.NewInt(-i.Value), nil
				}
				return object.NewInt(i.Value), nil
			}
			return object.NewFloat(math.Abs(floatVal(args["a"]))), nil
		}, Numeric, passThroughA, arg("a", Numeric)),

		fn("add", arith(
			func(a, b int64) int64 { return a + b },
			func(a, b float64) float64 { return a + b },
		), Numeric, maxNumeric, numericAB...),
		fn("sub", arith(
			func(a, b int64) int64 { return a - b },
			func(a, b float64) float64 { return a - b },
		), Numeric, maxNumeric, numericAB...),
		fn("mul", arith(
			func(a, b int64) int64 { return a * b },
			func(a, b float64) float64 { return a * b },
		), Numeric, maxNumeric, numericAB...),

		// Numeric-safe division family: a zero divisor yields 0.0
		// instead of failing.
		fn("div", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			b := floatVal(args["b"])
			if b == 0 {
				return object.NewFloat(0.0), nil
			}
			return object.NewFloat(floatVal(args["a"]) / b), nil
		}, typesystem.Float, nil, numericAB...),
		fn("floordiv", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			b := floatVal(args["b"])
			if b == 0 {
				return object.NewFloat(0.0), nil
			}
			return object.NewFloat(math.Floor(floatVal(args["a"]) / b)), nil
		}, typesystem.Float, nil, numericAB...),
		fn("mod", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			a, b := args["a"], args["b"]
			if floatVal(b) == 0 {
				return object.NewFloat(0.0), nil
			}
			if bothInt(a, b) {
				// Result takes the divisor's sign.
				m := intVal(a) % intVal(b)
				if m != 0 && (m < 0) != (intVal(b) < 0) {
					m += intVal(b)
				}
				return object.NewInt(m), nil
			}
			m := math.Mod(floatVal(a), floatVal(b))
			if m != 0 && (m < 0) != (floatVal(b) < 0) {
				m += floatVal(b)
			}
			return object.NewFloat(m), nil
		}, Numeric, maxNumeric, numericAB...),

		fn("neg", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			if i, ok := args["a"].(*object.Integer); ok {
				return object.NewInt(-i.Value), nil
			}
			return object.NewFloat(-floatVal(args["a"])), nil
		}, Numeric, passThroughA, arg("a", Numeric)),
		fn("pos", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			return args["a"], nil
		}, Numeric, passThroughA, arg("a", Numeric)),

		fn("round_", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			ndigits := intVal(args["b"])
			shift := math.Pow(10, float64(ndigits))
			if i, ok := args["a"].(*object.Integer); ok {
				if ndigits >= 0 {
					return object.NewInt(i.Value), nil
				}
				return object.NewInt(int64(math.RoundToEven(float64(i.Value)*shift) / shift)), nil
			}
			return object.NewFloat(math.RoundToEven(floatVal(args["a"])*shift) / shift), nil
		}, Numeric, maxNumeric, arg("a", Numeric), arg("b", typesystem.Int)),

		fn("min_", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			c, err := compare(args["a"], args["b"])
			if err != nil {
				return nil, err
			}
			if c <= 0 {
				return args["a"], nil
			}
			return args["b"], nil
		}, Numeric, maxNumeric, numericAB...),
		fn("max_", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			c, err := compare(args["a"], args["b"])
			if err != nil {
				return nil, err
			}
			if c >= 0 {
				return args["a"], nil
			}
			return args["b"], nil
		}, Numeric, maxNumeric, numericAB...),

		fn("sum_", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			coll := args["coll"].(*object.List)
			allInt := true
			var intTotal int64
			var floatTotal float64
			for _, el := range coll.Elements {
				switch v := el.(type) {
				case *object.Integer:
					intTotal += v.Value
					floatTotal += float64(v.Value)
				case *object.Float:
					allInt = false
					floatTotal += v.Value
				default:
					return nil, fmt.Errorf("cannot sum %s", el.RuntimeType())
				}
			}
			if allInt {
				return object.NewInt(intTotal), nil
			}
			return object.NewFloat(floatTotal), nil
		}, Numeric, expr.RetToElementType{CollArgName: "coll"}, arg("coll", typesystem.ListOf(Numeric))),
	}
}
