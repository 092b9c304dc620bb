// Package bitset provides a dense set of proof-line IDs (spec: "@<id>"
// tokens). Most IDs in a proof log are small sequential integers assigned
// by the upstream CP solver, so a bits-and-blooms/bitset backs the common
// case; IDs that don't parse as a non-negative integer (definition IDs like
// "@lfx1", synthetic IDs like "@f0_le") fall back to a side map. Grounded on
// the bits-and-blooms/bitset dependency shared by giuliop-AlgoPlonk and
// okx-gnark (both consensys/gnark-stack repos in the retrieval pack).
package bitset

import (
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// Set tracks membership of proof-line IDs, e.g. "@17" or "@lfx3".
type Set struct {
	dense    *bitset.BitSet
	overflow map[string]struct{}
}

// New returns an empty Set.
func New() *Set {
	return &Set{dense: bitset.New(1024)}
}

// numericSuffix extracts the numeric suffix of id (after an optional
// leading "@"), returning ok=false for any ID that is not "<digits>" once
// that "@" is removed.
func numericSuffix(id string) (uint, bool) {
	s := strings.TrimPrefix(id, "@")
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}

// Add inserts id into the set.
func (s *Set) Add(id string) {
	if n, ok := numericSuffix(id); ok {
		s.dense.Set(n)
		return
	}
	if s.overflow == nil {
		s.overflow = make(map[string]struct{})
	}
	s.overflow[id] = struct{}{}
}

// Contains reports whether id is in the set.
func (s *Set) Contains(id string) bool {
	if n, ok := numericSuffix(id); ok {
		return s.dense.Test(n)
	}
	if s.overflow == nil {
		return false
	}
	_, ok := s.overflow[id]
	return ok
}

// Len reports the number of members.
func (s *Set) Len() int {
	return int(s.dense.Count()) + len(s.overflow)
}
