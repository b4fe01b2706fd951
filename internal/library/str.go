package library

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/funvibe/pushkit/internal/expr"
	"github.com/funvibe/pushkit/internal/object"
	"github.com/funvibe/pushkit/internal/typesystem"
)

func strVal(o object.Object) string {
	return o.(*object.String).Value
}

func strCmp(names [2]string, test func(c int) bool) expr.Callable {
	return func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
		a := strVal(args[names[0]])
		b := strVal(args[names[1]])
		c := strings.Compare(a, b)
		return object.NewBool(test(c)), nil
	}
}

func strFunctions() []expr.Expression {
	s1s2 := []argSpec{arg("s1", typesystem.Str), arg("s2", typesystem.Str)}

	return []expr.Expression{
		fn("add", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			return object.NewString(strVal(args["s1"]) + strVal(args["s2"])), nil
		}, typesystem.Str, nil, s1s2...),
		fn("in_", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			return object.NewBool(strings.Contains(strVal(args["string"]), strVal(args["key"]))), nil
		}, typesystem.Bool, nil, arg("key", typesystem.Str), arg("string", typesystem.Str)),
		fn("eq", strCmp([2]string{"s1", "s2"}, func(c int) bool { return c == 0 }), typesystem.Bool, nil, s1s2...),
		fn("ne", strCmp([2]string{"s1", "s2"}, func(c int) bool { return c != 0 }), typesystem.Bool, nil, s1s2...),
		fn("lt", strCmp([2]string{"s1", "s2"}, func(c int) bool { return c < 0 }), typesystem.Bool, nil, s1s2...),
		fn("le", strCmp([2]string{"s1", "s2"}, func(c int) bool { return c <= 0 }), typesystem.Bool, nil, s1s2...),
		fn("gt", strCmp([2]string{"s1", "s2"}, func(c int) bool { return c > 0 }), typesystem.Bool, nil, s1s2...),
		fn("ge", strCmp([2]string{"s1", "s2"}, func(c int) bool { return c >= 0 }), typesystem.Bool, nil, s1s2...),
		fn("getitem", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			s := strVal(args["s1"])
			ndx := intVal(args["ndx"])
			runes := []rune(s)
			if ndx < 0 {
				ndx += int64(len(runes))
			}
			if ndx < 0 || ndx >= int64(len(runes)) {
				return nil, fmt.Errorf("string index %d out of range", intVal(args["ndx"]))
			}
			return object.NewString(string(runes[ndx])), nil
		}, typesystem.Str, nil, arg("s1", typesystem.Str), arg("ndx", typesystem.Int)),
		fn("len_", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			return object.NewInt(int64(len([]rune(strVal(args["s"]))))), nil
		}, typesystem.Int, nil, arg("s", typesystem.Str)),
		fn("mul", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			n := intVal(args["i"])
			if n < 0 {
				n = 0
			}
			return object.NewString(strings.Repeat(strVal(args["s"]), int(n))), nil
		}, typesystem.Str, nil, arg("s", typesystem.Str), arg("i", typesystem.Int)),
	}
}

// String methods: rendered as receiver calls (self.name(...)).

func method(name string, call expr.Callable, ret typesystem.Type, extra ...argSpec) *expr.Method {
	specs := append([]argSpec{arg("self", typesystem.Str)}, extra...)
	return expr.NewMethod(name, call, ret, argsOf(specs...), nil)
}

func selfMethod(name string, f func(s string) string) *expr.Method {
	return method(name, func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
		return object.NewString(f(strVal(args["self"]))), nil
	}, typesystem.Str)
}

func predMethod(name string, f func(s string) bool) *expr.Method {
	return method(name, func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
		return object.NewBool(f(strVal(args["self"]))), nil
	}, typesystem.Bool)
}

func stringMethods() []expr.Expression {
	return []expr.Expression{
		selfMethod("capitalize", capitalize),
		selfMethod("lower", strings.ToLower),
		selfMethod("upper", strings.ToUpper),
		selfMethod("title", titleCase),
		selfMethod("swapcase", swapCase),
		selfMethod("strip_ws", strings.TrimSpace),
		selfMethod("lstrip_ws", func(s string) string { return strings.TrimLeftFunc(s, unicode.IsSpace) }),
		selfMethod("rstrip_ws", func(s string) string { return strings.TrimRightFunc(s, unicode.IsSpace) }),

		predMethod("isalpha", func(s string) bool { return allRunes(s, unicode.IsLetter) }),
		predMethod("isdigit", func(s string) bool { return allRunes(s, unicode.IsDigit) }),
		predMethod("isalnum", func(s string) bool {
			return allRunes(s, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) })
		}),
		predMethod("isspace", func(s string) bool { return allRunes(s, unicode.IsSpace) }),
		predMethod("islower", func(s string) bool { return hasCased(s) && s == strings.ToLower(s) }),
		predMethod("isupper", func(s string) bool { return hasCased(s) && s == strings.ToUpper(s) }),
		predMethod("istitle", isTitle),

		method("count", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			return object.NewInt(int64(strings.Count(strVal(args["self"]), strVal(args["sub"])))), nil
		}, typesystem.Int, arg("sub", typesystem.Str)),
		method("endswith", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			return object.NewBool(strings.HasSuffix(strVal(args["self"]), strVal(args["suffix"]))), nil
		}, typesystem.Bool, arg("suffix", typesystem.Str)),
		method("startswith", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			return object.NewBool(strings.HasPrefix(strVal(args["self"]), strVal(args["prefix"]))), nil
		}, typesystem.Bool, arg("prefix", typesystem.Str)),
		// find never fails: absence is -1.
		method("find", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			return object.NewInt(int64(strings.Index(strVal(args["self"]), strVal(args["sub"])))), nil
		}, typesystem.Int, arg("sub", typesystem.Str)),
		method("rfind", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			return object.NewInt(int64(strings.LastIndex(strVal(args["self"]), strVal(args["sub"])))), nil
		}, typesystem.Int, arg("sub", typesystem.Str)),
		method("replace_all", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			return object.NewString(strings.ReplaceAll(strVal(args["self"]), strVal(args["old"]), strVal(args["new"]))), nil
		}, typesystem.Str, arg("old", typesystem.Str), arg("new", typesystem.Str)),
		method("split_ws", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			return object.StringList(strings.Fields(strVal(args["self"]))...), nil
		}, typesystem.ListOf(typesystem.Str)),
		method("splitlines", func(ctx *expr.EvalContext, args map[string]object.Object) (object.Object, error) {
			s := strVal(args["self"])
			if s == "" {
				return object.StringList(), nil
			}
			s = strings.TrimSuffix(s, "\n")
			return object.StringList(strings.Split(s, "\n")...), nil
		}, typesystem.ListOf(typesystem.Str)),
	}
}

func allRunes(s string, pred func(rune) bool) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !pred(r) {
			return false
		}
	}
	return true
}

func hasCased(s string) bool {
	for _, r := range s {
		if unicode.IsLower(r) || unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	runes := []rune(strings.ToLower(s))
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func titleCase(s string) string {
	var out []rune
	prevCased := false
	for _, r := range s {
		cased := unicode.IsLetter(r)
		if cased && !prevCased {
			out = append(out, unicode.ToUpper(r))
		} else if cased {
			out = append(out, unicode.ToLower(r))
		} else {
			out = append(out, r)
		}
		prevCased = cased
	}
	return string(out)
}

func swapCase(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsUpper(r):
			return unicode.ToLower(r)
		case unicode.IsLower(r):
			return unicode.ToUpper(r)
		}
		return r
	}, s)
}

func isTitle(s string) bool {
	words := strings.FieldsFunc(s, func(r rune) bool { return !unicode.IsLetter(r) })
	if len(words) == 0 {
		return false
	}
	for _, w := range words {
		runes := []rune(w)
		if !unicode.IsUpper(runes[0]) {
			return false
		}
		for _, r := range runes[1:] {
			if unicode.IsUpper(r) {
				return false
			}
		}
	}
	return true
}
