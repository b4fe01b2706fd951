package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/pushkit/internal/config"
	"github.com/funvibe/pushkit/internal/expr"
	"github.com/funvibe/pushkit/internal/library"
	"github.com/funvibe/pushkit/internal/object"
	"github.com/funvibe/pushkit/internal/push"
	"github.com/funvibe/pushkit/internal/soup"
	"github.com/funvibe/pushkit/internal/typesystem"
)

var useColor = isatty.IsTerminal(os.Stdout.Fd())

func green(s string) string {
	if useColor {
		return "\033[32m" + s + "\033[0m"
	}
	return s
}

func red(s string) string {
	if useColor {
		return "\033[31m" + s + "\033[0m"
	}
	return s
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "version", "-version", "--version":
		fmt.Println("pushkit " + config.Version)
	case "demo":
		runDemo()
	case "random":
		runRandom(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Usage: pushkit <command> [options]

Commands:
  demo      compile and evaluate two bundled example programs
  random    spawn random genomes and try to compile them
  version   print the version

Options for random:
  -seed int      random seed (default 1)
  -n int         number of programs to spawn (default 20)
  -min int       minimum genome size (default 5)
  -max int       maximum genome size (default 30)
  -type string   requested output type, e.g. Int, Float, List<Int> (default Int)
  -config path   YAML soup configuration (see soup.example.yaml)
  -eval          evaluate compiled programs with zero-valued inputs
  -v             trace the compiler`)
}

func runRandom(args []string) {
	fs := flag.NewFlagSet("random", flag.ExitOnError)
	seed := fs.Int64("seed", 1, "random seed")
	n := fs.Int("n", 20, "number of programs")
	minSize := fs.Int("min", 5, "minimum genome size")
	maxSize := fs.Int("max", 30, "maximum genome size")
	typeName := fs.String("type", "Int", "requested output type")
	configPath := fs.String("config", "", "YAML soup configuration")
	doEval := fs.Bool("eval", false, "evaluate compiled programs")
	verbose := fs.Bool("v", false, "trace the compiler")
	fs.Parse(args)

	outputType, err := ParseType(*typeName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	bag := soup.CoreSoup()
	var inputs []InputConfig
	if *configPath != "" {
		cfg, err := LoadSoupConfig(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		bag, err = cfg.Build()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		inputs = cfg.Inputs
	}

	spawner := soup.NewSpawner(bag, *seed)
	compiled := 0
	for i := 0; i < *n; i++ {
		code := spawner.SpawnPushCode(*minSize, *maxSize)
		compiler := push.New()
		if *verbose {
			compiler.Trace = os.Stderr
		}
		dag, err := compiler.Compile(code, outputType)
		if err != nil {
			fmt.Fprintf(os.Stderr, "compile defect: %v\n", err)
			os.Exit(1)
		}
		if dag == nil {
			fmt.Printf("%3d  %s\n", i, red("none"))
			continue
		}
		compiled++
		fmt.Printf("%3d  [%s] %s :: %s\n", i, dag.ID()[:8], green(dag.ToCode()), dag.ReturnType())
		if *doEval {
			evalWithZeroInputs(dag, inputs)
		}
	}
	fmt.Printf("\ncompiled %d/%d programs to %s\n", compiled, *n, outputType)
}

// evalWithZeroInputs runs a compiled program with zero values bound to
// every input the configuration declares.
func evalWithZeroInputs(dag *expr.Dag, inputs []InputConfig) {
	bindings := map[string]object.Object{}
	for _, in := range inputs {
		typ, err := ParseType(in.Type)
		if err != nil {
			continue
		}
		bindings[in.Name] = zeroValue(typ)
	}
	ret, err := dag.Eval(bindings)
	if err != nil {
		fmt.Printf("     eval error: %v\n", err)
		return
	}
	fmt.Printf("     = %s\n", object.Render(ret))
	if out := dag.Stdout(); out != "" {
		fmt.Printf("     stdout: %q\n", out)
	}
}

func zeroValue(t typesystem.Type) object.Object {
	switch {
	case typesystem.Equal(t, typesystem.Int):
		return object.NewInt(0)
	case typesystem.Equal(t, typesystem.Float):
		return object.NewFloat(0)
	case typesystem.Equal(t, typesystem.Bool):
		return object.NewBool(false)
	case typesystem.Equal(t, typesystem.Str):
		return object.NewString("")
	case typesystem.IsList(t):
		return object.NewList(typesystem.ElementType(t))
	}
	return &object.Nil{}
}

func runDemo() {
	// add(x, 5): the canonical first program. The first argument pops
	// the topmost compatible entry, which is x.
	bag := soup.New().
		RegisterConstant(object.NewInt(5)).
		RegisterInput("x", typesystem.Float).
		RegisterExpression(library.Find("add"))

	genome := []push.Gene{}
	for _, u := range bag.Units() {
		if u.Expr != nil {
			genome = append(genome, push.GeneOf(u.Expr))
		}
	}
	dag, err := push.New().Compile(push.Linearize(genome), typesystem.Float)
	if err != nil {
		fmt.Fprintf(os.Stderr, "compile defect: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(dag.ToDef("simple", dag.Inputs()))
	for _, x := range []float64{0.5, -5.0, 2.25} {
		ret, err := dag.Eval(map[string]object.Object{"x": object.NewFloat(x)})
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("simple(%v) = %s\n", x, ret.Inspect())
	}

	// map(lambda _0: add(1, _0), xs): a higher-order program.
	fmt.Println()
	code := []push.Code{
		push.C(expr.NewInput("xs", typesystem.ListOf(typesystem.Int))),
		push.B(
			push.C(expr.NewLocalInput(0, nil)),
			push.C(expr.NewConstant(object.NewInt(1))),
			push.C(library.Find("add")),
		),
		push.C(expr.NewMapExpr()),
	}
	dag, err = push.New().Compile(code, typesystem.ListOf(typesystem.Int))
	if err != nil {
		fmt.Fprintf(os.Stderr, "compile defect: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(dag.ToDef("increment_each", dag.Inputs()))
	ret, err := dag.Eval(map[string]object.Object{"xs": object.IntList(1, 2, 3)})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("increment_each([1, 2, 3]) = %s\n", object.Render(ret))
}

// ParseType parses a type name: atomic names, Any, and List<...> /
// Dict<...> applications.
func ParseType(s string) (typesystem.Type, error) {
	s = strings.TrimSpace(s)
	switch s {
	case config.IntTypeName:
		return typesystem.Int, nil
	case config.FloatTypeName:
		return typesystem.Float, nil
	case config.BoolTypeName:
		return typesystem.Bool, nil
	case config.StringTypeName:
		return typesystem.Str, nil
	case "Any":
		return typesystem.Any, nil
	case config.ListTypeName:
		return typesystem.List, nil
	}
	if inner, ok := applied(s, config.ListTypeName); ok {
		el, err := ParseType(inner)
		if err != nil {
			return nil, err
		}
		return typesystem.ListOf(el), nil
	}
	if inner, ok := applied(s, config.DictTypeName); ok {
		parts := splitTopLevel(inner)
		if len(parts) != 2 {
			return nil, fmt.Errorf("Dict takes two type arguments: %s", s)
		}
		k, err := ParseType(parts[0])
		if err != nil {
			return nil, err
		}
		v, err := ParseType(parts[1])
		if err != nil {
			return nil, err
		}
		return typesystem.DictOf(k, v), nil
	}
	return nil, fmt.Errorf("unknown type: %s", s)
}

func applied(s, constructor string) (string, bool) {
	prefix := constructor + "<"
	if strings.HasPrefix(s, prefix) && strings.HasSuffix(s, ">") {
		return s[len(prefix) : len(s)-1], true
	}
	return "", false
}

func splitTopLevel(s string) []string {
	parts := []string{}
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}
