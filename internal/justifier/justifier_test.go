package justifier_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pbsmol/internal/ast"
	pberrors "pbsmol/internal/errors"
	"pbsmol/internal/justifier"
)

const sampleFZN = `{
	"variables": {
		"V": {"domain": [[0, 10]]},
		"A": {"domain": [[0, 7]]},
		"B": {"domain": [[0, 3]]}
	},
	"arrays": {},
	"constraints": [
		{"id": "int_lin_le", "args": [[2, -1], ["A", "B"], 3]},
		{"id": "int_lin_eq", "args": [[2, -1], ["A", "B"], 3]}
	]
}`

const sampleLits = `{
	"x1": {"type": "condition", "cpvartype": "intvar", "name": "V", "operator": "<", "value": "5"}
}`

func writeFixtures(t *testing.T) (fznPath, litsPath string) {
	t.Helper()
	dir := t.TempDir()
	fznPath = filepath.Join(dir, "model.fzn.json")
	litsPath = filepath.Join(dir, "lits.json")
	require.NoError(t, writeFile(fznPath, sampleFZN))
	require.NoError(t, writeFile(litsPath, sampleLits))
	return fznPath, litsPath
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func newJustifier(t *testing.T, out *bytes.Buffer) *justifier.Justifier {
	t.Helper()
	fznPath, litsPath := writeFixtures(t)
	j, err := justifier.New(bytes.NewReader(nil), out, justifier.Config{
		FznPath:      fznPath,
		LitsPath:     litsPath,
		ReadForwards: true,
	})
	require.NoError(t, err)
	return j
}

// S2: a condition literal definition, "<" operator.
func TestEnsureLitDefinedCondition(t *testing.T) {
	var out bytes.Buffer
	j := newJustifier(t, &out)

	v := j.PBVarNames().Intern("x1")
	lit := ast.NewLiteral(v, false)

	defID, err := j.EnsureLitDefined(lit)
	require.NoError(t, err)
	assert.Equal(t, "@lfx1", defID)
	assert.Equal(t, "@lfx1 red  x1 ==> 8 V_b3 4 V_b2 2 V_b1 1 V_b0 <= 4 : x1 -> 0 ;\n", out.String())
}

// S3: the negated literal of the same condition.
func TestEnsureLitDefinedConditionNegated(t *testing.T) {
	var out bytes.Buffer
	j := newJustifier(t, &out)

	v := j.PBVarNames().Intern("x1")
	lit := ast.NewLiteral(v, true)

	defID, err := j.EnsureLitDefined(lit)
	require.NoError(t, err)
	assert.Equal(t, "@lrx1", defID)
	assert.Equal(t, "@lrx1 red ~x1 ==> 8 V_b3 4 V_b2 2 V_b1 1 V_b0 >= 5 : x1 -> 1 ;\n", out.String())
}

func TestEnsureLitDefinedIsIdempotent(t *testing.T) {
	var out bytes.Buffer
	j := newJustifier(t, &out)

	v := j.PBVarNames().Intern("x1")
	lit := ast.NewLiteral(v, false)

	_, err := j.EnsureLitDefined(lit)
	require.NoError(t, err)
	before := out.String()

	_, err = j.EnsureLitDefined(lit)
	require.NoError(t, err)
	assert.Equal(t, before, out.String(), "a second call must not emit another definition line")
}

func TestEnsureLitDefinedUnknownLiteralIsLookupError(t *testing.T) {
	var out bytes.Buffer
	j := newJustifier(t, &out)

	v := j.PBVarNames().Intern("x404")
	_, err := j.EnsureLitDefined(ast.NewLiteral(v, false))
	require.Error(t, err)
	pbe, ok := pberrors.AsPBarberError(err)
	require.True(t, ok)
	assert.Equal(t, pberrors.LiteralLookupError, pbe.Kind)
}

func TestEnsureBoundsDefinedIsIdempotent(t *testing.T) {
	var out bytes.Buffer
	j := newJustifier(t, &out)

	lb1, ub1, err := j.EnsureBoundsDefined("V")
	require.NoError(t, err)
	assert.Equal(t, "@lbV", lb1)
	assert.Equal(t, "@ubV", ub1)
	firstLines := out.String()
	assert.Equal(t, 2, strings.Count(firstLines, "\n"))

	lb2, ub2, err := j.EnsureBoundsDefined("V")
	require.NoError(t, err)
	assert.Equal(t, lb1, lb2)
	assert.Equal(t, ub1, ub2)
	assert.Equal(t, firstLines, out.String(), "bounds must only be emitted once per variable")
}

// IntVarDef justification of single-literal assertions referenced by a pol
// step; @2's literal has no literal-map entry, so only @1 gets an ia line.
func TestStyleJustifiesIntVarDef(t *testing.T) {
	fznPath, litsPath := writeFixtures(t)

	input := strings.Join([]string{
		"@1 a 1 x1 >= 1 : : IntVarDef :",
		"@2 a 1 x2 >= 1 : : IntVarDef :",
		"@3 pol @1 @2 + ;",
	}, "\n")

	var out bytes.Buffer
	j, err := justifier.New(strings.NewReader(input), &out, justifier.Config{
		FznPath:      fznPath,
		LitsPath:     litsPath,
		ReadForwards: true,
	})
	require.NoError(t, err)

	_, _, err = j.Style()
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, " ia 1 x1 >= 1 : -1;")
	assert.Contains(t, got, "@3 pol @1 @2 + ;")
}

// S5: IntLinear (int_lin_le) end-to-end over two variables.
func TestStyleJustifiesIntLinearLe(t *testing.T) {
	fznPath, litsPath := writeFixtures(t)

	litsWithAB := `{
		"xA": {"type": "condition", "cpvartype": "intvar", "name": "A", "operator": ">=", "value": "3"},
		"xB": {"type": "condition", "cpvartype": "intvar", "name": "B", "operator": ">=", "value": "1"}
	}`
	require.NoError(t, writeFile(litsPath, litsWithAB))

	input := "@10 a 1 ~xA 1 xB >= -3 : @f0 : IntLinear :\n@12 pol @10 ;\n"

	var out bytes.Buffer
	j, err := justifier.New(strings.NewReader(input), &out, justifier.Config{
		FznPath:      fznPath,
		LitsPath:     litsPath,
		ReadForwards: true,
	})
	require.NoError(t, err)

	_, _, err = j.Style()
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "@f0_le a")
	assert.Contains(t, got, "<= 3 :: int_lin_le;")
	assert.Contains(t, got, "pol @f0_le")
	assert.Contains(t, got, "@10 rup 1 ~xA 1 xB >= -3;")
}

// S6: IntLinear (int_lin_eq) emits both the _le and _ge encodings.
func TestStyleJustifiesIntLinearEq(t *testing.T) {
	fznPath, litsPath := writeFixtures(t)

	litsWithAB := `{
		"xA": {"type": "condition", "cpvartype": "intvar", "name": "A", "operator": ">=", "value": "3"},
		"xB": {"type": "condition", "cpvartype": "intvar", "name": "B", "operator": ">=", "value": "1"}
	}`
	require.NoError(t, writeFile(litsPath, litsWithAB))

	input := "@11 a 1 ~xA 1 xB >= -3 : @f1 : IntLinear :\n@12 pol @11 ;\n"

	var out bytes.Buffer
	j, err := justifier.New(strings.NewReader(input), &out, justifier.Config{
		FznPath:      fznPath,
		LitsPath:     litsPath,
		ReadForwards: true,
	})
	require.NoError(t, err)

	_, _, err = j.Style()
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "@f1_le a")
	assert.Contains(t, got, "@f1_ge a")
	assert.Contains(t, got, "<= 3 :: int_lin_eq;")
	assert.Contains(t, got, ">= 3 :: int_lin_eq;")
	assert.Contains(t, got, "@11 rup 1 ~xA 1 xB >= -3;")
}

func TestStyleFallsBackToCommentOnUnknownFamily(t *testing.T) {
	fznPath, litsPath := writeFixtures(t)
	input := "@5 a 1 x1 >= 1 : : SomeUnknownFamily :\n@6 pol @5 ;\n"

	var out bytes.Buffer
	j, err := justifier.New(strings.NewReader(input), &out, justifier.Config{
		FznPath:      fznPath,
		LitsPath:     litsPath,
		ReadForwards: true,
	})
	require.NoError(t, err)

	_, _, err = j.Style()
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "% PBarber Justifier failed to justify the following:")
	assert.Contains(t, got, ":: SomeUnknownFamily;")
}

func TestStyleBuffersAssertionsUntilReferenced(t *testing.T) {
	fznPath, litsPath := writeFixtures(t)
	input := strings.Join([]string{
		"@1 a 1 x1 >= 1 : : IntVarDef :",
		"@2 a 1 x2 >= 1 : : IntVarDef :",
		"some comment line that passes through",
	}, "\n")

	var out bytes.Buffer
	j, err := justifier.New(strings.NewReader(input), &out, justifier.Config{
		FznPath:      fznPath,
		LitsPath:     litsPath,
		ReadForwards: true,
	})
	require.NoError(t, err)

	_, _, err = j.Style()
	require.NoError(t, err)

	got := out.String()
	assert.Equal(t, "some comment line that passes through\n", got,
		"unreferenced buffered assertions must never be emitted (the trimmer already removed them)")
}

func TestStyleOverflowsCacheByJustifyingImmediately(t *testing.T) {
	fznPath, litsPath := writeFixtures(t)
	litsWithX2 := `{
		"x1": {"type": "condition", "cpvartype": "intvar", "name": "V", "operator": "<", "value": "5"},
		"x2": {"type": "condition", "cpvartype": "intvar", "name": "V", "operator": ">=", "value": "7"}
	}`
	require.NoError(t, writeFile(litsPath, litsWithX2))

	input := strings.Join([]string{
		"@1 a 1 x1 >= 1 : : IntVarDef :",
		"@2 a 1 x2 >= 1 : : IntVarDef :",
	}, "\n")

	var out bytes.Buffer
	j, err := justifier.New(strings.NewReader(input), &out, justifier.Config{
		FznPath:      fznPath,
		LitsPath:     litsPath,
		ReadForwards: true,
		MaxLineCache: 1,
	})
	require.NoError(t, err)

	_, _, err = j.Style()
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "ia 1 x2 >= 1 : -1;", "cache overflow must justify the just-arrived assertion immediately, not the buffered @1")
	assert.NotContains(t, got, "x1 >= 1 : -1;", "@1 stays buffered forever since nothing ever references it")
}
