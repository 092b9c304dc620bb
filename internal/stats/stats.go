// Package stats tracks and pretty-prints proof-file line statistics, used
// by both the trimmer's --stats and the justifier's --justifier-stats
// flags. Grounded on the source's ProofFileStats/Display impl in lib.rs,
// rendered with github.com/fatih/color the way the teacher's CLI prints
// its own success/failure banners.
package stats

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// ProofFileStats counts line categories in a proof file.
type ProofFileStats struct {
	TotalLines   uint64
	PolLines     uint64
	ALines       uint64
	DelLines     uint64
	ALinesByName map[string]uint64
}

// New returns a zeroed ProofFileStats.
func New() *ProofFileStats {
	return &ProofFileStats{ALinesByName: make(map[string]uint64)}
}

// RecordLine classifies one proof line and updates the running counts, the
// way record_line/record_assertion do in the source.
func (s *ProofFileStats) RecordLine(line string) {
	s.TotalLines++
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	rule := fields[0]
	// A leading constraint ID ("@17" or a bare "17") precedes the rule.
	if _, err := strconv.ParseUint(rule, 10, 64); err == nil || strings.HasPrefix(rule, "@") {
		if len(fields) < 2 {
			return
		}
		rule = fields[1]
	}
	switch rule {
	case "a":
		s.recordAssertion(line)
	case "pol", "p":
		s.PolLines++
	case "del":
		s.DelLines++
	}
}

func (s *ProofFileStats) recordAssertion(line string) {
	s.ALines++
	parts := strings.Split(line, ":")
	if len(parts) < 3 {
		return
	}
	name := strings.Trim(strings.TrimSpace(parts[2]), ";")
	if name == "" {
		return
	}
	if s.ALinesByName == nil {
		s.ALinesByName = make(map[string]uint64)
	}
	s.ALinesByName[name]++
}

// String renders the stats block the way the source's Display impl does.
func (s *ProofFileStats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total lines: %d\n", s.TotalLines)
	fmt.Fprintf(&b, "Assertion lines: %d\n", s.ALines)
	fmt.Fprintf(&b, "Pol lines: %d\n", s.PolLines)
	fmt.Fprintf(&b, "Del lines: %d\n", s.DelLines)
	b.WriteString("Assertion lines by name:\n")
	names := make([]string, 0, len(s.ALinesByName))
	for n := range s.ALinesByName {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(&b, " ∙ `%s`: %d\n", n, s.ALinesByName[n])
	}
	return b.String()
}

// ComparedTo renders s annotated with the delta against before, used to
// print the output-file stats next to the input-file stats.
func (s *ProofFileStats) ComparedTo(before *ProofFileStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total lines: %d (%s)\n", s.TotalLines, delta(s.TotalLines, before.TotalLines))
	fmt.Fprintf(&b, "Assertion lines: %d (%s)\n", s.ALines, delta(s.ALines, before.ALines))
	fmt.Fprintf(&b, "Pol lines: %d (%s)\n", s.PolLines, delta(s.PolLines, before.PolLines))
	fmt.Fprintf(&b, "Del lines: %d (%s)\n", s.DelLines, delta(s.DelLines, before.DelLines))
	return b.String()
}

func delta(after, before uint64) string {
	if after >= before {
		return color.GreenString("+%d", after-before)
	}
	return color.RedString("-%d", before-after)
}
