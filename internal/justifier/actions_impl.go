package justifier

import (
	"fmt"
	"strconv"
	"strings"

	"pbsmol/internal/ast"
	"pbsmol/internal/cplit"
	pberrors "pbsmol/internal/errors"
	"pbsmol/internal/flatzinc"
)

// Justifier implements Actions, so a per-family Justify strategy receives
// the running pass itself as its capability parameter.
var _ Actions = (*Justifier)(nil)

func (j *Justifier) Write(content string) error {
	return j.writeLine(content)
}

func (j *Justifier) PBVarNames() *ast.VarNameManager {
	return j.pbVarNames
}

func (j *Justifier) GetMinMaxForVar(fznID string) (int64, int64, error) {
	v, err := j.GetFZNVariable(fznID)
	if err != nil {
		return 0, 0, err
	}
	if v.Domain == nil {
		return 0, 0, pberrors.NewJustificationError("No domain found for %s in the fzn file (unsupported).", fznID)
	}
	min, max, ok := v.Domain.MinMax()
	if !ok {
		return 0, 0, pberrors.NewJustificationError("Couldn't get the min and max domain values for %s", fznID)
	}
	return min, max, nil
}

// numBitsForRange computes the number of magnitude bits for [min, max]: for
// min >= 0 the smallest k = ceil(log2(max+1)) covering the range; for
// min < 0 it is ceil(log2(max(|min|, max)+1)), and CPVarBitsStr adds one
// sign bit on top of these.
func numBitsForRange(min, max int64) uint {
	if min >= 0 {
		return 64 - leadingZeros64(uint64(max))
	}
	bound := max
	if -min > bound {
		bound = -min
	}
	return 64 - leadingZeros64(uint64(bound))
}

func leadingZeros64(x uint64) uint {
	if x == 0 {
		return 64
	}
	n := uint(0)
	for x&(1<<63) == 0 {
		x <<= 1
		n++
	}
	return n
}

func (j *Justifier) CPVarBitsStr(cpVar string, multiplier int64) (string, error) {
	min, max, err := j.GetMinMaxForVar(cpVar)
	if err != nil {
		return "", err
	}
	numBits := numBitsForRange(min, max)

	var b strings.Builder
	if min < 0 {
		// The sign bit sits just above the magnitude bits, keeping indices
		// contiguous: b0..b(numBits-1) for magnitude, b(numBits) for sign.
		fmt.Fprintf(&b, "%d %s_b%d", pow2(numBits)*-multiplier, cpVar, numBits)
	}
	for i := int(numBits) - 1; i >= 0; i-- {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d %s_b%d", pow2(uint(i))*multiplier, cpVar, i)
	}
	return strings.TrimSpace(b.String()), nil
}

func pow2(n uint) int64 {
	return int64(1) << n
}

func (j *Justifier) EnsureAllLitsDefined(c *ast.Constraint, strict bool) ([]string, []string, error) {
	var posDefIDs, negDefIDs []string
	for _, lit := range c.Literals() {
		posID, err := j.EnsureLitDefined(lit)
		if err != nil {
			if pbe, ok := pberrors.AsPBarberError(err); ok && pbe.Kind == pberrors.LiteralLookupError {
				if strict {
					return nil, nil, err
				}
				j.log.Warn().Str("lit", j.pbVarNames.Name(lit.Var)).Msg("literal lookup miss in non-strict mode, skipping")
			} else {
				return nil, nil, err
			}
		} else {
			posDefIDs = append(posDefIDs, posID)
		}

		negLit := lit.Negated()
		negID, err := j.EnsureLitDefined(negLit)
		if err != nil {
			if pbe, ok := pberrors.AsPBarberError(err); ok && pbe.Kind == pberrors.LiteralLookupError {
				if strict {
					return nil, nil, err
				}
				j.log.Warn().Str("lit", j.pbVarNames.Name(negLit.Var)).Msg("literal lookup miss in non-strict mode, skipping")
			} else {
				return nil, nil, err
			}
		} else {
			negDefIDs = append(negDefIDs, negID)
		}
	}
	return posDefIDs, negDefIDs, nil
}

func (j *Justifier) EnsureLitDefined(lit ast.Literal) (string, error) {
	defID := j.definitionID(lit)
	if j.isDefined(lit) {
		return defID, nil
	}

	pbLitName := j.pbVarNames.Name(lit.Var)
	data, ok := j.cpLitMap.Get(pbLitName)
	if !ok {
		return "", pberrors.NewLiteralLookupError("Couldn't find CP definition for literal %s", pbLitName)
	}

	tildeIfNeg := " "
	if lit.IsNeg() {
		tildeIfNeg = "~"
	}

	switch data.Kind {
	case cplit.KindCondition:
		op := data.Operator
		if lit.IsNeg() {
			op = op.Negated()
		}
		var value int64
		var opStr string
		switch op {
		case cplit.GreaterEqual:
			v, err := strconv.ParseInt(data.Value, 10, 64)
			if err != nil {
				return "", pberrors.NewJustificationError("bad condition value %q for %s", data.Value, pbLitName)
			}
			value, opStr = v, ">="
		case cplit.Less:
			v, err := strconv.ParseInt(data.Value, 10, 64)
			if err != nil {
				return "", pberrors.NewJustificationError("bad condition value %q for %s", data.Value, pbLitName)
			}
			value, opStr = v-1, "<="
		default:
			return "", pberrors.NewJustificationError("Can't handle equality literals yet.")
		}

		bits, err := j.CPVarBitsStr(data.Name, 1)
		if err != nil {
			return "", err
		}
		negVal := 0
		if lit.IsNeg() {
			negVal = 1
		}
		if err := j.writeLine(fmt.Sprintf("%s red %s%s ==> %s %s %d : %s -> %d ;",
			defID, tildeIfNeg, pbLitName, bits, opStr, value, pbLitName, negVal)); err != nil {
			return "", err
		}
		j.setDefined(lit)
		return defID, nil

	case cplit.KindBoolvar:
		parts := strings.SplitN(data.Name, "=", 2)
		if len(parts) < 2 {
			return j.pbVarNames.Name(lit.Var), nil
		}
		varName := parts[0]
		val, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return "", pberrors.NewJustificationError("Found Boolvar %s with '=' in name, but couldn't parse value", data.Name)
		}

		if _, _, err := j.EnsureBoundsDefined(varName); err != nil {
			return "", err
		}
		bits, err := j.CPVarBitsStr(varName, 1)
		if err != nil {
			return "", err
		}
		min, max, err := j.GetMinMaxForVar(varName)
		if err != nil {
			return "", err
		}

		var opStr string
		switch {
		case val == min:
			if lit.IsNeg() {
				val++
				opStr = ">="
			} else {
				opStr = "<="
			}
		case val == max:
			if lit.IsNeg() {
				val--
				opStr = "<="
			} else {
				opStr = ">="
			}
		default:
			return "", pberrors.NewJustificationError("Found Boolvar %s with more than two values in its domain.", data.Name)
		}

		negVal := 0
		if lit.IsNeg() {
			negVal = 1
		}
		if err := j.writeLine(fmt.Sprintf("%s red %s%s ==> %s %s %d : %s -> %d ;",
			defID, tildeIfNeg, pbLitName, bits, opStr, val, pbLitName, negVal)); err != nil {
			return "", err
		}
		j.setDefined(lit)
		return defID, nil

	default:
		return "", pberrors.NewJustificationError("unknown CP literal-map entry kind for %s", pbLitName)
	}
}

func (j *Justifier) EnsureBoundsDefined(cpVarID string) (string, string, error) {
	lbID := "@lb" + cpVarID
	ubID := "@ub" + cpVarID
	if j.definedBnds[cpVarID] {
		return lbID, ubID, nil
	}
	j.definedBnds[cpVarID] = true

	min, max, err := j.GetMinMaxForVar(cpVarID)
	if err != nil {
		return "", "", err
	}
	bits, err := j.CPVarBitsStr(cpVarID, 1)
	if err != nil {
		return "", "", err
	}
	if err := j.writeLine(fmt.Sprintf("%s a %s >=%d:: bits_lower_bound ;", lbID, bits, min)); err != nil {
		return "", "", err
	}
	if err := j.writeLine(fmt.Sprintf("%s a %s <=%d:: bits_upper_bound ;", ubID, bits, max)); err != nil {
		return "", "", err
	}
	return lbID, ubID, nil
}

func (j *Justifier) GetFZNConstraint(fznID string) (flatzinc.Constraint, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(fznID), "@f")
	line, err := strconv.Atoi(trimmed)
	if err != nil {
		return flatzinc.Constraint{}, pberrors.NewJustificationError("Failed to get line number from fzn_id `%s`", fznID)
	}
	c, ok := j.fzn.ConstraintByLine(line)
	if !ok {
		return flatzinc.Constraint{}, pberrors.NewJustificationError("Couldn't find fzn constraint for id %s", fznID)
	}
	return c, nil
}

func (j *Justifier) GetFZNArray(id string) (flatzinc.Array, error) {
	a, ok := j.fzn.ArrayByName(id)
	if !ok {
		return flatzinc.Array{}, pberrors.NewJustificationError("Expected array, but got %q", id)
	}
	return a, nil
}

func (j *Justifier) GetFZNVariable(id string) (flatzinc.Variable, error) {
	v, ok := j.fzn.Variable(id)
	if !ok {
		return flatzinc.Variable{}, pberrors.NewJustificationError("Expected variable, but got %q", id)
	}
	return v, nil
}

func (j *Justifier) GetCPLitData(lit ast.Literal) (cplit.Entry, error) {
	pbLitName := j.pbVarNames.Name(lit.Var)
	data, ok := j.cpLitMap.Get(pbLitName)
	if !ok {
		return cplit.Entry{}, pberrors.NewLiteralLookupError("Couldn't find CP definition for literal %s", pbLitName)
	}
	return data, nil
}
