// Package flatzinc is the read-only FlatZinc oracle (spec §3): CP variable
// domains, named literal arrays, and constraint argument lists, all loaded
// once from the FlatZinc JSON document and queried immutably thereafter by
// the justifier. Grounded on the `flatzinc-serde` crate's role in the
// source (justifier.rs, justifier/int_linear.rs): `FlatZinc<Ustr>`,
// `Domain`, `Array`, `Constraint`, `Argument`, `Literal`.
package flatzinc

import (
	"encoding/json"
	"fmt"
)

// Interval is an inclusive integer range, one element of a domain's
// interval-set representation (spec §3: "variables[id] → {domain: interval
// set of ℤ}").
type Interval struct {
	Lo, Hi int64
}

// Domain is the interval set of a CP variable's range.
type Domain struct {
	Intervals []Interval
}

// MinMax returns the overall minimum and maximum of the domain. The
// per-variable bit encoding (spec §3/§4.4) only ever needs these two
// values, never the interior holes, so Domain does not expose
// interval-membership queries beyond this.
func (d Domain) MinMax() (int64, int64, bool) {
	if len(d.Intervals) == 0 {
		return 0, 0, false
	}
	min, max := d.Intervals[0].Lo, d.Intervals[0].Hi
	for _, iv := range d.Intervals[1:] {
		if iv.Lo < min {
			min = iv.Lo
		}
		if iv.Hi > max {
			max = iv.Hi
		}
	}
	return min, max, true
}

// UnmarshalJSON accepts a flat array of [lo, hi] pairs, e.g. [[0, 7]] or
// [[0, 3], [8, 10]] for a domain with a hole.
func (d *Domain) UnmarshalJSON(data []byte) error {
	var raw [][2]int64
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("flatzinc: bad domain: %w", err)
	}
	d.Intervals = make([]Interval, len(raw))
	for i, pair := range raw {
		d.Intervals[i] = Interval{Lo: pair[0], Hi: pair[1]}
	}
	return nil
}

// Variable is a FlatZinc variable's metadata.
type Variable struct {
	Domain *Domain `json:"domain"`
}

// Literal is either an integer constant or an identifier reference into
// Arrays/Variables.
type Literal struct {
	IsInt bool
	Int   int64
	Ident string
}

func (l *Literal) UnmarshalJSON(data []byte) error {
	var asInt int64
	if err := json.Unmarshal(data, &asInt); err == nil {
		l.IsInt = true
		l.Int = asInt
		return nil
	}
	var asStr string
	if err := json.Unmarshal(data, &asStr); err == nil {
		l.IsInt = false
		l.Ident = asStr
		return nil
	}
	return fmt.Errorf("flatzinc: literal is neither int nor identifier: %s", string(data))
}

// Array is a named list of literals.
type Array struct {
	Contents []Literal `json:"contents"`
}

// Argument is one positional argument of a constraint: either an inline
// array of literals, or a single literal (int or identifier).
type Argument struct {
	IsArray bool
	Array   []Literal
	Lit     Literal
}

func (a *Argument) UnmarshalJSON(data []byte) error {
	trimmed := skipLeadingSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var arr []Literal
		if err := json.Unmarshal(data, &arr); err != nil {
			return fmt.Errorf("flatzinc: bad argument array: %w", err)
		}
		a.IsArray = true
		a.Array = arr
		return nil
	}
	var lit Literal
	if err := json.Unmarshal(data, &lit); err != nil {
		return fmt.Errorf("flatzinc: bad argument literal: %w", err)
	}
	a.IsArray = false
	a.Lit = lit
	return nil
}

func skipLeadingSpace(data []byte) []byte {
	i := 0
	for i < len(data) && (data[i] == ' ' || data[i] == '\t' || data[i] == '\n' || data[i] == '\r') {
		i++
	}
	return data[i:]
}

// Constraint is one entry of the ordered constraint table, keyed by its
// line number in the original FlatZinc model.
type Constraint struct {
	ID   string     `json:"id"`
	Args []Argument `json:"args"`
}

// FlatZinc is the whole oracle: variables, named arrays, and the ordered
// constraint table.
type FlatZinc struct {
	Variables   map[string]Variable `json:"variables"`
	Arrays      map[string]Array    `json:"arrays"`
	Constraints []Constraint        `json:"constraints"`
}

// Load parses the FlatZinc JSON document (spec §6).
func Load(data []byte) (*FlatZinc, error) {
	var fzn FlatZinc
	if err := json.Unmarshal(data, &fzn); err != nil {
		return nil, fmt.Errorf("flatzinc: failed to parse FlatZinc JSON: %w", err)
	}
	return &fzn, nil
}

// Variable looks up a CP variable by name.
func (f *FlatZinc) Variable(name string) (Variable, bool) {
	v, ok := f.Variables[name]
	return v, ok
}

// ArrayByName looks up a named literal array.
func (f *FlatZinc) ArrayByName(name string) (Array, bool) {
	a, ok := f.Arrays[name]
	return a, ok
}

// ConstraintByLine looks up a constraint by its FlatZinc line number.
func (f *FlatZinc) ConstraintByLine(line int) (Constraint, bool) {
	if line < 0 || line >= len(f.Constraints) {
		return Constraint{}, false
	}
	return f.Constraints[line], true
}
