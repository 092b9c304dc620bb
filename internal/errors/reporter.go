package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Report renders a fatal PBarberError the way a CLI should show it to a user:
// a colored level tag, the error kind, and the message, followed by the
// proof line it was raised against when one is available. This is the
// proof-log analogue of the teacher's caret-style source diagnostics —
// proof lines carry an assertion ID rather than a line/column, so the box
// collapses to a single content line.
func Report(err *PBarberError, line string) string {
	var b strings.Builder

	bold := color.New(color.Bold).SprintFunc()
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	b.WriteString(fmt.Sprintf("%s: %s\n", red("error"), bold(err.Kind.String())))
	b.WriteString(fmt.Sprintf("  %s %s\n", dim("-->"), err.Error()))
	if line != "" {
		b.WriteString(fmt.Sprintf("  %s %s\n", dim("│"), line))
	}
	return b.String()
}
