package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pbsmol/internal/stats"
)

func TestRecordLineClassifiesRules(t *testing.T) {
	s := stats.New()
	s.RecordLine("1 a 1 x1 >= 1 :: int_lin_le ;")
	s.RecordLine("@2 a 1 x1 >= 1 :: int_lin_le ;")
	s.RecordLine("pol 1 2 +")
	s.RecordLine("@3 p 1 2 +")
	s.RecordLine("del id 1")
	s.RecordLine("pseudo-Boolean proof version 2.0")

	assert.EqualValues(t, 6, s.TotalLines)
	assert.EqualValues(t, 2, s.ALines)
	assert.EqualValues(t, 2, s.PolLines)
	assert.EqualValues(t, 1, s.DelLines)
}

func TestRecordAssertionNamesMatchTrailingSemicolonQuirk(t *testing.T) {
	s := stats.New()
	s.RecordLine("1 a 1 x1 >= 1 :: int_lin_le ;")
	s.RecordLine("2 a 1 x1 >= 1 :: int_lin_le ;")
	s.RecordLine("3 a 1 x1 >= 1 :: int_lin_eq ;")

	// The trailing space before the dropped ';' survives, faithfully
	// matching the upstream trim().trim_matches(';') behavior.
	assert.EqualValues(t, 2, s.ALinesByName["int_lin_le "])
	assert.EqualValues(t, 1, s.ALinesByName["int_lin_eq "])
}

func TestRecordLineIgnoresBlankAndUnrecognized(t *testing.T) {
	s := stats.New()
	s.RecordLine("")
	s.RecordLine("   ")
	s.RecordLine("output NONE")

	assert.EqualValues(t, 3, s.TotalLines)
	assert.EqualValues(t, 0, s.ALines)
	assert.EqualValues(t, 0, s.PolLines)
	assert.EqualValues(t, 0, s.DelLines)
}

func TestStringRendersCounts(t *testing.T) {
	s := stats.New()
	s.RecordLine("1 a 1 x1 >= 1 :: int_lin_le ;")
	s.RecordLine("pol 1 2 +")

	out := s.String()
	assert.Contains(t, out, "Total lines: 2")
	assert.Contains(t, out, "Assertion lines: 1")
	assert.Contains(t, out, "Pol lines: 1")
	assert.Contains(t, out, "Del lines: 0")
	assert.Contains(t, out, "int_lin_le")
}

func TestComparedToRendersDeltas(t *testing.T) {
	before := stats.New()
	before.RecordLine("1 a 1 x1 >= 1 :: int_lin_le ;")
	before.RecordLine("pol 1 2 +")
	before.RecordLine("pol 1 2 +")

	after := stats.New()
	after.RecordLine("1 a 1 x1 >= 1 :: int_lin_le ;")
	after.RecordLine("2 a 1 x1 >= 1 :: int_lin_le ;")
	after.RecordLine("pol 1 2 +")

	out := after.ComparedTo(before)
	assert.Contains(t, out, "Total lines: 3")
	assert.Contains(t, out, "Assertion lines: 2")
	assert.Contains(t, out, "Pol lines: 1")
}
