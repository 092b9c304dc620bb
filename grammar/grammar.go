package grammar

// ConstraintLine is the participle grammar for the `<pb-constraint>`
// production: zero or more weighted-literal terms, a comparator, and an
// integer right-hand side. Structurally this is the same shape as the
// teacher's SourceElement/Module grammar rules — a struct whose fields
// carry participle struct-tag productions — applied to OPB syntax instead
// of Kanso syntax.
type ConstraintLine struct {
	Terms      []*Term `@@*`
	Comparator string  `@Comparator`
	RHS        int64   `@Int`
}

// Term is one coefficient/literal pair, e.g. "3 ~x12" or "-2 x4".
type Term struct {
	Coeff   int64  `@Int`
	Negated bool   `[ @Tilde ]`
	Var     string `@Ident`
}
