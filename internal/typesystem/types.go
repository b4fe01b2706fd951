package typesystem

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/funvibe/pushkit/internal/config"
)

// Type is the interface for all types in our system. Types are small
// tagged values, never language-level reflection, so the subtype
// predicate stays auditable.
type Type interface {
	String() string
}

// TCon represents an atomic type constant (e.g. Int, Bool, String).
type TCon struct {
	Name string
}

func (t TCon) String() string { return t.Name }

// TApp represents a parametric container application (e.g. List<Int>,
// Dict<String, Int>). Argument positions are covariant.
type TApp struct {
	Constructor Type
	Args        []Type
}

func (t TApp) String() string {
	if len(t.Args) == 0 {
		return t.Constructor.String()
	}
	args := []string{}
	for _, arg := range t.Args {
		args = append(args, arg.String())
	}
	return fmt.Sprintf("%s<%s>", t.Constructor.String(), strings.Join(args, ", "))
}

// TUnion represents a union type (e.g. Int | Float). Types are
// normalized: flattened, deduplicated, and sorted, so order is
// irrelevant for equality.
type TUnion struct {
	Types []Type // At least 2 types
}

func (t TUnion) String() string {
	parts := []string{}
	for _, typ := range t.Types {
		parts = append(parts, typ.String())
	}
	return strings.Join(parts, " | ")
}

// TAny is the top type: every type is a subtype of Any.
type TAny struct{}

func (t TAny) String() string { return "Any" }

// TNever is the bottom type: a subtype of everything, inhabited by
// nothing.
type TNever struct{}

func (t TNever) String() string { return "Never" }

// Common type values.
var (
	Int    = TCon{Name: config.IntTypeName}
	Float  = TCon{Name: config.FloatTypeName}
	Bool   = TCon{Name: config.BoolTypeName}
	Str    = TCon{Name: config.StringTypeName}
	Nil    = TCon{Name: config.NilTypeName}
	Any    = TAny{}
	Never  = TNever{}
	List  = TCon{Name: config.ListTypeName}
	Dict  = TCon{Name: config.DictTypeName}
	Sized = NormalizeUnion([]Type{ListOf(Any), Str})
)

// ListOf builds the container type List<el>.
func ListOf(el Type) TApp {
	return TApp{Constructor: List, Args: []Type{el}}
}

// DictOf builds the container type Dict<k, v>.
func DictOf(k, v Type) TApp {
	return TApp{Constructor: Dict, Args: []Type{k, v}}
}

// Union builds a normalized union of the given alternatives.
func Union(types ...Type) Type {
	return NormalizeUnion(types)
}

// NormalizeUnion creates a normalized union type.
// It flattens nested unions, removes duplicates, and sorts types.
func NormalizeUnion(types []Type) Type {
	// Flatten nested unions
	flat := []Type{}
	for _, t := range types {
		if u, ok := t.(TUnion); ok {
			flat = append(flat, u.Types...)
		} else {
			flat = append(flat, t)
		}
	}

	// Remove duplicates (using string representation for simplicity)
	seen := make(map[string]bool)
	unique := []Type{}
	for _, t := range flat {
		s := t.String()
		if !seen[s] {
			seen[s] = true
			unique = append(unique, t)
		}
	}

	// If only one type remains, return it directly
	if len(unique) == 1 {
		return unique[0]
	}

	// Sort for deterministic comparison
	sort.Slice(unique, func(i, j int) bool {
		return unique[i].String() < unique[j].String()
	})

	return TUnion{Types: unique}
}

// Equal reports structural equality. Unions compare order-irrelevant
// because NormalizeUnion sorts alternatives.
func Equal(t1, t2 Type) bool {
	if t1 == nil || t2 == nil {
		return t1 == nil && t2 == nil
	}
	return reflect.DeepEqual(t1, t2)
}

// ElementType returns the first positional type argument of a concrete
// container type. Used by higher-order forms and collection reifiers.
// Bare (non-applied) containers and non-containers yield Any so the
// extraction stays total.
func ElementType(t Type) Type {
	if app, ok := t.(TApp); ok && len(app.Args) > 0 {
		return app.Args[0]
	}
	return Any
}

// IsList reports whether t is a List container application.
func IsList(t Type) bool {
	app, ok := t.(TApp)
	if !ok {
		return false
	}
	con, ok := app.Constructor.(TCon)
	return ok && con.Name == config.ListTypeName
}
