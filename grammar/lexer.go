// Package grammar tokenizes and parses the `<pb-constraint>` grammar
// embedded in a proof-log assertion line (spec §4.1): a sequence of
// coefficient/literal terms, a comparator, and an integer right-hand side.
//
// This mirrors the teacher's own approach to its whole-program grammar — a
// participle stateful lexer plus struct-tag grammar rules — scaled down to
// the single-line OPB constraint grammar this system actually needs to
// parse (the host proof-log line shape itself, `@id rule ... ;`, is simple
// enough to split with strings.Split and is handled in internal/justifier
// and internal/trimmer directly, as colon/space-delimited fields, the way
// the source's own line-grammar handling does).
package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// OPBLexer tokenizes one OPB constraint: signed integer coefficients,
// literals (`x1`, `~x1`), a comparator, and whitespace.
var OPBLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Int", `-?[0-9]+`, nil},
		{"Comparator", `>=|<=|=`, nil},
		{"Tilde", `~`, nil},
		{"Ident", `[A-Za-z_][A-Za-z0-9_]*`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
