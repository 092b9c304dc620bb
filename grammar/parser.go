package grammar

import (
	"sync"

	"github.com/alecthomas/participle/v2"

	"pbsmol/internal/ast"
	pberrors "pbsmol/internal/errors"
)

var (
	buildOnce sync.Once
	built     *participle.Parser[ConstraintLine]
	buildErr  error
)

func parser() (*participle.Parser[ConstraintLine], error) {
	buildOnce.Do(func() {
		built, buildErr = participle.Build[ConstraintLine](
			participle.Lexer(OPBLexer),
			participle.Elide("Whitespace"),
			participle.UseLookahead(2),
		)
	})
	return built, buildErr
}

// ParseConstraint parses the `<pb-constraint>` substring of an assertion
// line (the text between "a " and the first antecedents colon) into the
// normalized ast.Constraint, interning every literal's variable name into
// names.
func ParseConstraint(src string, names *ast.VarNameManager) (*ast.Constraint, error) {
	p, err := parser()
	if err != nil {
		return nil, pberrors.NewParseError("failed to build OPB parser: " + err.Error())
	}

	line, err := p.ParseString("", src)
	if err != nil {
		return nil, pberrors.NewParseError("constraint `" + src + "` did not parse: " + err.Error())
	}

	terms := make([]ast.Term, len(line.Terms))
	for i, t := range line.Terms {
		v := names.Intern(t.Var)
		terms[i] = ast.Term{Coeff: t.Coeff, Lit: ast.NewLiteral(v, t.Negated)}
	}

	cmp, err := comparatorOf(line.Comparator)
	if err != nil {
		return nil, err
	}

	return ast.NewConstraint(terms, cmp, line.RHS), nil
}

func comparatorOf(op string) (ast.Comparator, error) {
	switch op {
	case ">=":
		return ast.GE, nil
	case "<=":
		return ast.LE, nil
	case "=":
		return ast.EQ, nil
	default:
		return ast.GE, pberrors.NewParseError("unknown comparator: " + op)
	}
}
