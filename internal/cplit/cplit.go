// Package cplit is the read-only CP literal-map oracle (spec §3, "CP
// literal-map entry"): given a PB variable name it returns the CP condition
// or boolvar that variable encodes. Grounded on the source's
// src/cp_lit_map.rs, translated from serde-tagged enums to a Go tagged
// union loaded with the standard library's encoding/json (the only JSON
// library anywhere in the retrieval pack's dependency graphs, so there is
// no ecosystem alternative to reach for here).
package cplit

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// VarType is the CP variable kind a literal-map entry refers to.
type VarType string

const (
	IntVar  VarType = "intvar"
	BoolVar VarType = "boolvar"
)

// Operator is the CP-level comparison a Condition entry represents.
type Operator int

const (
	Less Operator = iota
	GreaterEqual
	Equal
	NotEqual
)

func (o Operator) String() string {
	switch o {
	case Less:
		return "<"
	case GreaterEqual:
		return ">="
	case Equal:
		return "=="
	case NotEqual:
		return "!="
	default:
		return "?"
	}
}

// Negated returns the operator's logical negation.
func (o Operator) Negated() Operator {
	switch o {
	case Less:
		return GreaterEqual
	case GreaterEqual:
		return Less
	case Equal:
		return NotEqual
	case NotEqual:
		return Equal
	default:
		return o
	}
}

func parseOperator(s string) (Operator, error) {
	switch s {
	case "<":
		return Less, nil
	case ">=":
		return GreaterEqual, nil
	case "==":
		return Equal, nil
	case "!=":
		return NotEqual, nil
	default:
		return 0, fmt.Errorf("cplit: unknown operator %q", s)
	}
}

// EntryKind distinguishes the two shapes an Entry can take.
type EntryKind int

const (
	KindCondition EntryKind = iota
	KindBoolvar
)

// Entry is the tagged union described in spec §3: a Condition ("PB variable
// x encodes (CP var) OP (value)") or a Boolvar (a two-value CP variable
// named "V=k" encoded as a single PB variable).
type Entry struct {
	Kind     EntryKind
	CPVarTy  VarType
	Name     string   // CP variable name (Condition) or "V=k" (Boolvar)
	Operator Operator // only meaningful for Condition
	Value    string   // only meaningful for Condition
}

type rawEntry struct {
	Type      string `json:"type"`
	CPVarType string `json:"cpvartype"`
	Name      string `json:"name"`
	Operator  string `json:"operator,omitempty"`
	Value     string `json:"value,omitempty"`
}

// Map is the literal-map oracle: a read-only lookup from PB variable name
// to its CP literal-map entry.
type Map struct {
	entries map[string]Entry
}

// Load parses the literal-map JSON document (spec §6) from r.
func Load(r io.Reader) (*Map, error) {
	var raw map[string]rawEntry
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("cplit: failed to parse literal-map JSON: %w", err)
	}

	entries := make(map[string]Entry, len(raw))
	for pbVar, re := range raw {
		e := Entry{
			CPVarTy: VarType(re.CPVarType),
			Name:    re.Name,
		}
		switch re.Type {
		case "condition":
			e.Kind = KindCondition
			e.Value = re.Value
			op, err := parseOperator(re.Operator)
			if err != nil {
				return nil, fmt.Errorf("cplit: entry %q: %w", pbVar, err)
			}
			e.Operator = op
		case "boolvar":
			e.Kind = KindBoolvar
		default:
			return nil, fmt.Errorf("cplit: entry %q: unknown type %q", pbVar, re.Type)
		}
		entries[pbVar] = e
	}
	return &Map{entries: entries}, nil
}

// Get returns the literal-map entry for a PB variable name, if any.
func (m *Map) Get(pbVar string) (Entry, bool) {
	e, ok := m.entries[pbVar]
	return e, ok
}

// VarName returns the underlying CP variable name the entry refers to: the
// Condition's variable directly, or the part of a Boolvar's "V=k" name
// before the "=". Used when matching a PB constraint's literals back
// against an IntLinear antecedent's variable list.
func (e Entry) VarName() string {
	if e.Kind == KindCondition {
		return e.Name
	}
	if idx := strings.IndexByte(e.Name, '='); idx >= 0 {
		return e.Name[:idx]
	}
	return e.Name
}
