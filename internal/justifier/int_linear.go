package justifier

import (
	"fmt"
	"strings"

	"pbsmol/internal/ast"
	pberrors "pbsmol/internal/errors"
	"pbsmol/internal/flatzinc"
)

// IntLinearJustifier justifies the "int_lin_le"/"int_lin_eq" CP families
// (spec §4.6.2): it encodes the CP linear constraint as one (≤) or two
// (≤ and ≥, for =) bit-blasted PB axioms, substitutes the assertion's
// order-encoding literals into each, and closes with a `rup` step
// reproducing the original assertion. Grounded on the source's
// justifier/int_linear.rs.
type IntLinearJustifier struct {
	constraintName string
	fznID          string
	coeffs         []int64
	vars           []string
	rhs            int64
	reifImpliesLe  string
	reifImpliesGe  string
}

// NewIntLinearJustifier parses the FlatZinc antecedent referenced by
// antecedentsStr and immediately emits its bit-blasted encoding axiom(s).
func NewIntLinearJustifier(actions Actions, antecedentsStr string) (*IntLinearJustifier, error) {
	fields := strings.Fields(antecedentsStr)
	if len(fields) == 0 {
		return nil, pberrors.NewJustificationError("Missing antecedent for IntLinear")
	}
	fznID := fields[0]

	fznConstraint, err := actions.GetFZNConstraint(fznID)
	if err != nil {
		return nil, err
	}

	if fznConstraint.ID != "int_lin_le" && fznConstraint.ID != "int_lin_eq" {
		return nil, pberrors.NewJustificationError("Don't know how to encode constraint %s", fznConstraint.ID)
	}
	if len(fznConstraint.Args) < 3 {
		return nil, pberrors.NewJustificationError("IntLinear: expected 3 arguments, got %d", len(fznConstraint.Args))
	}

	coeffsArg, varsArg, rhsArg := fznConstraint.Args[0], fznConstraint.Args[1], fznConstraint.Args[2]

	coeffLits, err := resolveArray(actions, coeffsArg)
	if err != nil {
		return nil, err
	}
	coeffs := make([]int64, 0, len(coeffLits))
	for _, l := range coeffLits {
		if !l.IsInt {
			return nil, pberrors.NewJustificationError("IntLinear: coeff should be integer but got %q", l.Ident)
		}
		coeffs = append(coeffs, l.Int)
	}

	if !varsArg.IsArray {
		return nil, pberrors.NewJustificationError("IntLinear: vars should be array")
	}
	vars := make([]string, 0, len(varsArg.Array))
	for _, l := range varsArg.Array {
		if l.IsInt {
			return nil, pberrors.NewJustificationError("IntLinear: var should be identifier but got int %d", l.Int)
		}
		vars = append(vars, l.Ident)
	}

	if rhsArg.IsArray || !rhsArg.Lit.IsInt {
		return nil, pberrors.NewJustificationError("IntLinear: rhs should be Int")
	}

	lj := &IntLinearJustifier{
		fznID:          fznID,
		constraintName: fznConstraint.ID,
		coeffs:         coeffs,
		vars:           vars,
		rhs:            rhsArg.Lit.Int,
	}
	if err := lj.encode(actions); err != nil {
		return nil, err
	}
	return lj, nil
}

func resolveArray(actions Actions, arg flatzinc.Argument) ([]flatzinc.Literal, error) {
	if arg.IsArray {
		return arg.Array, nil
	}
	if arg.Lit.IsInt {
		return nil, pberrors.NewJustificationError("IntLinear: expected array or array identifier but got int %d", arg.Lit.Int)
	}
	arr, err := actions.GetFZNArray(arg.Lit.Ident)
	if err != nil {
		return nil, err
	}
	return arr.Contents, nil
}

func (lj *IntLinearJustifier) encode(actions Actions) error {
	switch lj.constraintName {
	case "int_lin_le":
		leID := lj.fznID + "_le"
		if err := lj.encodeLin(actions, "<=", leID); err != nil {
			return err
		}
		lj.reifImpliesLe = leID
	case "int_lin_eq":
		leID := lj.fznID + "_le"
		if err := lj.encodeLin(actions, "<=", leID); err != nil {
			return err
		}
		lj.reifImpliesLe = leID

		geID := lj.fznID + "_ge"
		if err := lj.encodeLin(actions, ">=", geID); err != nil {
			return err
		}
		lj.reifImpliesGe = geID
	default:
		return pberrors.NewJustificationError("Don't know how to encode constraint %s", lj.constraintName)
	}
	return nil
}

func (lj *IntLinearJustifier) encodeLin(actions Actions, operator, id string) error {
	var b strings.Builder
	b.WriteString(id)
	b.WriteString(" a")
	for i, coeff := range lj.coeffs {
		bits, err := actions.CPVarBitsStr(lj.vars[i], coeff)
		if err != nil {
			return err
		}
		b.WriteByte(' ')
		b.WriteString(bits)
	}
	fmt.Fprintf(&b, " %s %d :: %s;", operator, lj.rhs, lj.constraintName)
	return actions.Write(b.String())
}

func (lj *IntLinearJustifier) Justify(actions Actions, constraint *ast.Constraint, idStr string) error {
	_, negDefIDs, err := actions.EnsureAllLitsDefined(constraint, true)
	if err != nil {
		return err
	}

	if lj.constraintName != "int_lin_le" && lj.constraintName != "int_lin_eq" {
		return pberrors.NewJustificationError("%s not yet implemented", lj.constraintName)
	}

	if err := lj.subLitsIntoIneq(actions, negDefIDs, constraint, lj.reifImpliesLe, 1); err != nil {
		return err
	}
	if lj.constraintName == "int_lin_eq" {
		if err := lj.subLitsIntoIneq(actions, negDefIDs, constraint, lj.reifImpliesGe, -1); err != nil {
			return err
		}
	}

	return actions.Write(fmt.Sprintf("%s rup %s;", idStr, constraint.PrettyString(actions.PBVarNames())))
}

func (lj *IntLinearJustifier) subLitsIntoIneq(actions Actions, negDefIDs []string, constraint *ast.Constraint, encID string, mult int64) error {
	pol := NewPolBuilder().Add(encID)

	reasonVars := make([]string, 0, len(constraint.Literals()))
	for _, l := range constraint.Literals() {
		data, err := actions.GetCPLitData(l)
		if err != nil {
			return err
		}
		reasonVars = append(reasonVars, data.VarName())
	}

	for i, coeff := range lj.coeffs {
		v := lj.vars[i]
		if pos := indexOf(reasonVars, v); pos >= 0 {
			if pos < len(negDefIDs) && negDefIDs[pos] != "" {
				pol.AddWeighted(negDefIDs[pos], uint32(abs64(coeff)))
			}
			continue
		}
		lb, ub, err := actions.EnsureBoundsDefined(v)
		if err != nil {
			return err
		}
		switch {
		case coeff*mult > 0:
			pol.AddWeighted(lb, uint32(abs64(coeff)))
		case coeff*mult < 0:
			pol.AddWeighted(ub, uint32(abs64(coeff)))
		}
	}
	return actions.Write(pol.Done())
}

func indexOf(ss []string, target string) int {
	for i, s := range ss {
		if s == target {
			return i
		}
	}
	return -1
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
