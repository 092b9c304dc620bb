// Package trimmer implements the reverse liveness pass (spec §4.2): given
// a proof log ending in "conclusion UNSAT : <id> ;", it walks the proof
// backwards and keeps only the constraints the contradiction actually
// depends on, dropping everything else and inserting `del id` commands for
// constraints that become dead.
//
// Grounded on the source's src/trimmer.rs, translated line for line: the
// same marked_for_output/marked_for_deletion/lits_seen bookkeeping, the
// same rule dispatch, read through internal/revreader in place of the
// `rev_buf_reader` crate.
package trimmer

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"pbsmol/internal/bitset"
	pberrors "pbsmol/internal/errors"
	"pbsmol/internal/plog"
	"pbsmol/internal/revreader"
	"pbsmol/internal/stats"
)

// Prefixes of the synthetic `@<prefix><lit>` definition IDs the justifier
// emits for a literal's forward/reverse `red` axioms; the trimmer's
// lit-deletion mode needs to know them to delete both once a literal's
// last forward use has been trimmed past.
const (
	ForwardLitDefPrefix = "lf"
	ReverseLitDefPrefix = "lr"
)

// allowedRules is the set of proof-step rule keywords the trimmer
// understands on an `@id`-labelled line.
var allowedRules = map[string]bool{"a": true, "pol": true, "p": true}

// Config holds the trimmer's command-line-exposed behavior (spec §6).
type Config struct {
	// EagerDeletion emits a `del id` for every antecedent the moment it is
	// subsumed into the kept set, rather than only when a prior `del id`
	// hint said the line was about to be dropped.
	EagerDeletion bool
	// Stats requests that Trim return before/after ProofFileStats.
	Stats bool
	// LitDeletion additionally deletes a literal's forward/reverse
	// definition axioms once its last use has been trimmed past. The CLI
	// refuses this flag for a bare `trim` (it produces a proof that is
	// only valid once `style` re-expands assertions), matching the
	// source's warning in main.rs.
	LitDeletion bool
}

// Trimmer runs the reverse trim pass over a single proof log.
type Trimmer struct {
	markedForOutput   *bitset.Set
	markedForDeletion *bitset.Set
	litsSeen          map[string]bool

	reader *revreader.Reader
	out    io.Writer
	config Config
	log    zerolog.Logger

	inputStats  *stats.ProofFileStats
	outputStats *stats.ProofFileStats
}

// New returns a Trimmer with default configuration.
func New(input io.ReadSeeker, out io.Writer) (*Trimmer, error) {
	return WithConfig(input, out, Config{})
}

// WithConfig returns a Trimmer reading input in reverse and writing kept
// lines (also in reverse order, matching the source's design — a plumbing
// pass restores forward order afterward, see internal/plumbing) to out.
func WithConfig(input io.ReadSeeker, out io.Writer, config Config) (*Trimmer, error) {
	reader, err := revreader.New(input)
	if err != nil {
		return nil, pberrors.NewIo(err)
	}
	return &Trimmer{
		markedForOutput:   bitset.New(),
		markedForDeletion: bitset.New(),
		litsSeen:          make(map[string]bool),
		reader:            reader,
		out:               out,
		config:            config,
		log:               plog.New().With().Str("pass", "trim").Logger(),
		inputStats:        stats.New(),
		outputStats:       stats.New(),
	}, nil
}

func (t *Trimmer) nextLine() (string, bool) {
	line, err := t.reader.ReadLine()
	if err != nil {
		return "", false
	}
	if t.config.Stats {
		t.inputStats.RecordLine(line)
	}
	return line, true
}

func (t *Trimmer) writeLine(content string) error {
	if t.config.Stats {
		t.outputStats.RecordLine(content)
	}
	if _, err := fmt.Fprintln(t.out, content); err != nil {
		return pberrors.NewIo(err)
	}
	return nil
}

func assertStartsWith(line, prefix string) error {
	if !strings.HasPrefix(line, prefix) {
		return pberrors.NewUnexpectedLineStart(prefix, line)
	}
	return nil
}

// Trim runs the reverse liveness pass. On success it returns the
// input/output ProofFileStats pair when Config.Stats was requested.
func (t *Trimmer) Trim() (*stats.ProofFileStats, *stats.ProofFileStats, error) {
	currentLine, ok := t.nextLine()
	if !ok {
		return nil, nil, pberrors.NewMissingConclusion()
	}

	if !strings.HasPrefix(currentLine, "end pseudo-Boolean") {
		return nil, nil, pberrors.NewMissingConclusion()
	}
	if err := t.writeLine(currentLine); err != nil {
		return nil, nil, err
	}

	currentLine, ok = t.nextLine()
	if !ok {
		return nil, nil, pberrors.NewMissingConclusion()
	}
	if err := assertStartsWith(currentLine, "conclusion UNSAT"); err != nil {
		return nil, nil, err
	}
	if err := t.writeLine(currentLine); err != nil {
		return nil, nil, err
	}

	contrID, err := extractContradictionID(currentLine)
	if err != nil {
		return nil, nil, err
	}
	t.markedForOutput.Add(contrID)
	t.log.Debug().Str("id", contrID).Msg("marking contradiction id live")

	currentLine, ok = t.nextLine()
	if !ok {
		return nil, nil, pberrors.NewMissingConclusion()
	}
	if err := assertStartsWith(currentLine, "output"); err != nil {
		return nil, nil, err
	}
	if err := t.writeLine(currentLine); err != nil {
		return nil, nil, err
	}

	for {
		currentLine, ok = t.nextLine()
		if !ok {
			break
		}
		if err := t.processLine(currentLine); err != nil {
			return nil, nil, err
		}
	}

	t.log.Debug().Int("live_ids", t.markedForOutput.Len()).Msg("trim pass complete")

	if t.config.Stats {
		return t.inputStats, t.outputStats, nil
	}
	return nil, nil, nil
}

func extractContradictionID(conclusionLine string) (string, error) {
	afterColon := strings.SplitN(conclusionLine, ":", 2)
	if len(afterColon) < 2 {
		return "", pberrors.NewMalformedConstraintId(conclusionLine)
	}
	upToSemi := strings.SplitN(afterColon[1], ";", 2)
	return strings.TrimSpace(upToSemi[0]), nil
}

func (t *Trimmer) processLine(currentLine string) error {
	switch {
	case strings.HasPrefix(currentLine, "@"):
		return t.processLabelledLine(currentLine)
	case strings.HasPrefix(currentLine, "f") || strings.HasPrefix(currentLine, "pseudo-Boolean"):
		return t.writeLine(currentLine)
	case !t.config.EagerDeletion && strings.HasPrefix(currentLine, "del id"):
		fields := strings.Fields(currentLine)
		if len(fields) < 3 {
			return nil
		}
		id := strings.TrimSuffix(fields[2], ";")
		t.markedForDeletion.Add(id)
		t.log.Debug().Str("id", id).Msg("consumed deferred-deletion hint")
		return nil
	default:
		return nil
	}
}

func (t *Trimmer) processLabelledLine(currentLine string) error {
	fields := strings.Split(currentLine, " ")
	id := fields[0]
	if !t.markedForOutput.Contains(id) {
		return nil
	}

	rule := fields[1]
	if !allowedRules[rule] {
		return pberrors.NewUnknownRule(rule)
	}

	switch {
	case rule == "pol" || rule == "p":
		if err := t.markPolAntecedents(fields[2:]); err != nil {
			return err
		}
	case t.config.LitDeletion && rule == "a":
		if err := t.deleteUnseenLitDefs(fields); err != nil {
			return err
		}
	}
	return t.writeLine(currentLine)
}

func (t *Trimmer) markPolAntecedents(terms []string) error {
	for _, term := range terms {
		if term == "+" || term == "s" || term == ";" {
			continue
		}
		if err := assertStartsWith(term, "@"); err != nil {
			return err
		}
		if t.markedForOutput.Contains(term) {
			continue
		}
		if t.config.EagerDeletion || t.markedForDeletion.Contains(term) {
			if err := t.writeLine(fmt.Sprintf("del id %s ;", term)); err != nil {
				return err
			}
		}
		t.markedForOutput.Add(term)
	}
	return nil
}

func (t *Trimmer) deleteUnseenLitDefs(fields []string) error {
	for _, token := range fields {
		if token == ">=" {
			break
		}
		lit := strings.TrimPrefix(token, "~")
		if !strings.HasPrefix(lit, "x") || t.litsSeen[lit] {
			continue
		}
		t.litsSeen[lit] = true
		for _, prefix := range [2]string{ForwardLitDefPrefix, ReverseLitDefPrefix} {
			if err := t.writeLine(fmt.Sprintf("del id @%s%s", prefix, lit)); err != nil {
				return err
			}
		}
	}
	return nil
}
