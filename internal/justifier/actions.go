package justifier

import (
	"pbsmol/internal/ast"
	"pbsmol/internal/cplit"
	"pbsmol/internal/flatzinc"
)

// Actions is the capability surface a per-family Justify implementation
// needs from the control loop, passed by parameter rather than through an
// ownership cycle — the design note in spec §9 calls for pure strategy
// objects over a capability interface, and this mirrors the source's
// `dyn JustifierActions` trait object threaded through `Justify::justify`.
type Actions interface {
	EnsureLitDefined(lit ast.Literal) (string, error)
	EnsureAllLitsDefined(c *ast.Constraint, strict bool) (posIDs, negIDs []string, err error)
	EnsureBoundsDefined(cpVarID string) (lbID, ubID string, err error)
	GetMinMaxForVar(cpVarID string) (int64, int64, error)
	CPVarBitsStr(cpVarID string, multiplier int64) (string, error)
	PBVarNames() *ast.VarNameManager
	Write(content string) error
	GetFZNConstraint(fznID string) (flatzinc.Constraint, error)
	GetFZNArray(id string) (flatzinc.Array, error)
	GetFZNVariable(id string) (flatzinc.Variable, error)
	GetCPLitData(lit ast.Literal) (cplit.Entry, error)
}

// Justify is the per-family derivation strategy (spec §4.6): given the
// parsed constraint and its ID, emit whatever pol/a/rup/ia lines justify
// it in terms of bit-encodings and literal definitions.
type Justify interface {
	Justify(actions Actions, constraint *ast.Constraint, idStr string) error
}
