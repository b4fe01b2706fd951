package push

import (
	"fmt"
	"strings"

	"github.com/funvibe/pushkit/internal/expr"
)

// Token is a genome bracket marker.
type Token int

const (
	tokenNone Token = iota
	Open
	Close
)

// Gene is one genome unit: an expression template or a bracket token.
type Gene struct {
	Token Token
	Expr  expr.Expression
}

// GeneOf wraps an expression template as a genome unit.
func GeneOf(e expr.Expression) Gene { return Gene{Expr: e} }

// GeneToken wraps a bracket marker as a genome unit.
func GeneToken(t Token) Gene { return Gene{Token: t} }

type codeKind int

const (
	codeInvalid codeKind = iota
	codeExpr
	codeBlock
	codeOpen
)

// Code is one element of a push sequence: an expression template or a
// nested sub-sequence produced by bracket matching. The zero Code is
// invalid and rejected by the compiler.
type Code struct {
	Expr  expr.Expression
	Block []Code
	kind  codeKind
}

// C wraps an expression as push code.
func C(e expr.Expression) Code { return Code{Expr: e, kind: codeExpr} }

// B wraps a nested sub-sequence as push code.
func B(items ...Code) Code { return Code{Block: items, kind: codeBlock} }

// IsBlock reports whether this element is a nested sub-sequence.
func (c Code) IsBlock() bool { return c.kind == codeBlock }

func (c Code) String() string {
	switch c.kind {
	case codeExpr:
		return expr.Describe(c.Expr)
	case codeBlock:
		parts := make([]string, len(c.Block))
		for i, item := range c.Block {
			parts[i] = item.String()
		}
		return "(" + strings.Join(parts, " ") + ")"
	case codeOpen:
		return "OPEN"
	}
	return fmt.Sprintf("invalid<%v>", c.kind)
}

// Linearize reduces a genome to a push sequence. Matched bracket pairs
// become nested sub-sequences: a closer captures everything to the
// right of the rightmost unmatched opener. Orphan closers are dropped;
// openers left unmatched at the end are closed implicitly. The result
// carries no bracket markers.
func Linearize(genome []Gene) []Code {
	buffer := make([]Gene, len(genome))
	copy(buffer, genome)
	out := []Code{}
	for {
		if len(buffer) == 0 {
			if lastOpen(out) < 0 {
				return out
			}
			// Implicit close: each synthesized closer removes one
			// opener, so this terminates.
			buffer = append(buffer, Gene{Token: Close})
			continue
		}
		g := buffer[0]
		buffer = buffer[1:]
		switch {
		case g.Token == Close:
			idx := lastOpen(out)
			if idx < 0 {
				continue
			}
			block := make([]Code, len(out)-idx-1)
			copy(block, out[idx+1:])
			out = append(out[:idx], B(block...))
		case g.Token == Open:
			out = append(out, Code{kind: codeOpen})
		case g.Expr != nil:
			out = append(out, C(g.Expr))
		}
	}
}

func lastOpen(code []Code) int {
	for i := len(code) - 1; i >= 0; i-- {
		if code[i].kind == codeOpen {
			return i
		}
	}
	return -1
}
