package justifier

import (
	"fmt"

	"pbsmol/internal/ast"
	pberrors "pbsmol/internal/errors"
)

// IntVarDefJustifier justifies the "IntVarDef" CP family (spec §4.6.1): a
// constraint whose only antecedents are the two order-encoding literals
// that jointly define a variable's bit decomposition. Grounded on the
// source's justifier/int_var_def.rs.
type IntVarDefJustifier struct{}

func (IntVarDefJustifier) Justify(actions Actions, constraint *ast.Constraint, idStr string) error {
	_, negDefIDs, err := actions.EnsureAllLitsDefined(constraint, true)
	if err != nil {
		return err
	}
	if len(negDefIDs) > 2 {
		return pberrors.NewJustificationError("IntVarDef with more than 2 lits")
	}

	if err := actions.Write(NewPolBuilder().AddAll(negDefIDs).Done()); err != nil {
		return err
	}

	impLine := fmt.Sprintf("%s ia %s : -1;", idStr, trimSC(constraint.PrettyString(actions.PBVarNames())))
	return actions.Write(impLine)
}
