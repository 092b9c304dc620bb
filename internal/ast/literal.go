// Package ast holds the normalized PB (pseudo-Boolean) data model shared by
// the grammar, trimmer and justifier: literals, the interned variable-name
// table, and the canonical constraint shape. It plays the role the teacher's
// internal/ast package plays for Kanso source — a semantic model sitting
// between the raw grammar parse tree and the passes that consume it — but
// models PB literals/constraints instead of a smart-contract language.
package ast

import "fmt"

// VarHandle is an interned, append-only handle for a PB variable name.
type VarHandle int

// Literal is a PB variable together with a negation flag. Two literals are
// equal exactly when their variable handle and flag match.
type Literal struct {
	Var    VarHandle
	Negate bool
}

// NewLiteral builds a literal for var, optionally negated.
func NewLiteral(v VarHandle, negated bool) Literal {
	return Literal{Var: v, Negate: negated}
}

// Negated returns the literal with its negation flag flipped.
func (l Literal) Negated() Literal {
	return Literal{Var: l.Var, Negate: !l.Negate}
}

// IsNeg reports whether l is negated.
func (l Literal) IsNeg() bool {
	return l.Negate
}

// String renders a literal by its numeric handle ("x3", "~x3"), not its
// interned name; prefer PrettyString where a *VarNameManager is available,
// this is for debug/error contexts.
func (l Literal) String() string {
	if l.Negate {
		return fmt.Sprintf("~x%d", l.Var)
	}
	return fmt.Sprintf("x%d", l.Var)
}
