// Package soup holds the expression bag that genomes are drawn from.
// A soup is mutable while being built and conceptually read-only once
// drawing starts; every draw hands out an independent copy.
package soup

import (
	"math/rand"

	"github.com/funvibe/pushkit/internal/expr"
	"github.com/funvibe/pushkit/internal/library"
	"github.com/funvibe/pushkit/internal/object"
	"github.com/funvibe/pushkit/internal/push"
	"github.com/funvibe/pushkit/internal/typesystem"
)

// ErcGenerator produces a fresh ephemeral random constant each time it
// is drawn. The generator function must not capture mutable state.
type ErcGenerator struct {
	Fn           func(rng *rand.Rand) object.Object
	TypeOverride typesystem.Type
}

// CreateConstant materializes one constant from the generator.
func (g *ErcGenerator) CreateConstant(rng *rand.Rand) *expr.Constant {
	value := g.Fn(rng)
	if g.TypeOverride != nil {
		return expr.NewConstantTyped(value, g.TypeOverride)
	}
	return expr.NewConstant(value)
}

// Unit is one drawable bag entry: an expression template, a bracket
// token, or an ERC generator.
type Unit struct {
	Token push.Token
	Expr  expr.Expression
	Erc   *ErcGenerator
}

// Soup is the bag itself. New soups always contain the two bracket
// tokens.
type Soup struct {
	units []Unit
}

func New() *Soup {
	return &Soup{units: []Unit{
		{Token: push.Open},
		{Token: push.Close},
	}}
}

// Units returns the bag contents.
func (s *Soup) Units() []Unit { return s.units }

func (s *Soup) RegisterConstant(value object.Object) *Soup {
	s.units = append(s.units, Unit{Expr: expr.NewConstant(value)})
	return s
}

func (s *Soup) RegisterConstantTyped(value object.Object, dtype typesystem.Type) *Soup {
	s.units = append(s.units, Unit{Expr: expr.NewConstantTyped(value, dtype)})
	return s
}

func (s *Soup) RegisterConstants(values ...object.Object) *Soup {
	for _, v := range values {
		s.RegisterConstant(v)
	}
	return s
}

func (s *Soup) RegisterInput(name string, typ typesystem.Type) *Soup {
	s.units = append(s.units, Unit{Expr: expr.NewInput(name, typ)})
	return s
}

// RegisterExpression adds any expression template (function, method,
// constructor, higher-order form) to the bag.
func (s *Soup) RegisterExpression(e expr.Expression) *Soup {
	s.units = append(s.units, Unit{Expr: e})
	return s
}

func (s *Soup) RegisterExpressions(es ...expr.Expression) *Soup {
	for _, e := range es {
		s.RegisterExpression(e)
	}
	return s
}

// RegisterHofs adds map and filter plus three local placeholders.
func (s *Soup) RegisterHofs() *Soup {
	s.RegisterExpression(expr.NewMapExpr())
	s.RegisterExpression(expr.NewFilterExpr())
	for i := 0; i < 3; i++ {
		s.RegisterExpression(expr.NewLocalInput(i, nil))
	}
	return s
}

func (s *Soup) RegisterErcGenerator(gen *ErcGenerator) *Soup {
	s.units = append(s.units, Unit{Erc: gen})
	return s
}

// RandomUnit draws one genome unit: tokens pass through, ERC
// generators materialize a fresh constant, expression templates are
// copied.
func (s *Soup) RandomUnit(rng *rand.Rand) push.Gene {
	u := s.units[rng.Intn(len(s.units))]
	switch {
	case u.Erc != nil:
		return push.GeneOf(u.Erc.CreateConstant(rng))
	case u.Token != 0:
		return push.GeneToken(u.Token)
	default:
		return push.GeneOf(expr.CloneDeep(u.Expr))
	}
}

// RandomUnits draws k genome units.
func (s *Soup) RandomUnits(rng *rand.Rand, k int) []push.Gene {
	genes := make([]push.Gene, k)
	for i := range genes {
		genes[i] = s.RandomUnit(rng)
	}
	return genes
}

// RandFloat is the stock float ERC generator: uniform over [0, 1).
func RandFloat() *ErcGenerator {
	return &ErcGenerator{Fn: func(rng *rand.Rand) object.Object {
		return object.NewFloat(rng.Float64())
	}}
}

// RandInt is the stock int ERC generator: uniform over [-100, 100].
func RandInt() *ErcGenerator {
	return &ErcGenerator{Fn: func(rng *rand.Rand) object.Object {
		return object.NewInt(int64(rng.Intn(201) - 100))
	}}
}

// CoreSoup preloads the whole expression library, the higher-order
// forms, a spread of small constants, and the stock ERC generators.
func CoreSoup() *Soup {
	s := New()
	s.RegisterExpressions(library.Functions()...)
	s.RegisterExpressions(library.Methods()...)
	s.RegisterHofs()
	s.RegisterConstants(
		object.NewInt(-1),
		object.NewInt(0),
		object.NewInt(1),
		object.NewInt(2),
		object.NewInt(10),
		object.NewBool(true),
		object.NewBool(false),
	)
	s.RegisterErcGenerator(RandFloat())
	s.RegisterErcGenerator(RandInt())
	return s
}
