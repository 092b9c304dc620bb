// Package justifier implements the forward-expansion pass (spec §4.3-§4.7):
// for every used CP-level assertion, define whatever order-encoding
// literals it references, dispatch to a per-CP-family derivation, and emit
// the result as a locally verifiable pseudo-Boolean derivation ending in a
// `rup` or `ia` step that reproduces the original assertion.
//
// Grounded on the source's src/justifier.rs and its justifier/int_linear.rs
// and justifier/int_var_def.rs submodules, with the OPB constraint lexer
// swapped for the github.com/alecthomas/participle/v2 grammar in
// pbsmol/grammar (see DESIGN.md) and the CP oracles read through
// pbsmol/internal/cplit and pbsmol/internal/flatzinc.
package justifier

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"pbsmol/internal/ast"
	"pbsmol/internal/cplit"
	pberrors "pbsmol/internal/errors"
	"pbsmol/internal/flatzinc"
	"pbsmol/grammar"
	"pbsmol/internal/plog"
	"pbsmol/internal/revreader"
	"pbsmol/internal/stats"
)

// Config holds the justifier's command-line-exposed behavior (spec §6).
type Config struct {
	FznPath        string
	LitsPath       string
	ReadForwards   bool
	JustifierStats bool
	MaxLineCache   int
}

// DefaultMaxLineCache matches the source's implicit cache bound when the
// CLI leaves `--max-line-cache` unset.
const DefaultMaxLineCache = 128

// lineSource abstracts over forward and reverse line iteration so Justifier
// does not care which direction it is reading in.
type lineSource interface {
	// next returns the next line and true, or ("", false) at EOF.
	next() (string, bool)
}

type forwardSource struct{ sc *bufio.Scanner }

func (f *forwardSource) next() (string, bool) {
	if f.sc.Scan() {
		return f.sc.Text(), true
	}
	return "", false
}

type reverseSource struct{ r *revreader.Reader }

func (r *reverseSource) next() (string, bool) {
	line, err := r.r.ReadLine()
	if err != nil {
		return "", false
	}
	return line, true
}

// Justifier runs the forward justification pass over a single proof log.
type Justifier struct {
	lines  lineSource
	out    io.Writer
	config Config

	inputStats  *stats.ProofFileStats
	outputStats *stats.ProofFileStats

	linesToJustify map[string]string // assertion ID -> full original line, held for just-in-time expansion
	log            zerolog.Logger

	pbVarNames  *ast.VarNameManager
	definedLits map[ast.Literal]bool
	definedBnds map[string]bool
	fzn         *flatzinc.FlatZinc
	cpLitMap    *cplit.Map
}

// New returns a Justifier reading input (forward or reverse per config) and
// writing justified output to out.
func New(input io.ReadSeeker, out io.Writer, config Config) (*Justifier, error) {
	if config.MaxLineCache <= 0 {
		config.MaxLineCache = DefaultMaxLineCache
	}

	var src lineSource
	if config.ReadForwards {
		src = &forwardSource{sc: bufio.NewScanner(input)}
	} else {
		r, err := revreader.New(input)
		if err != nil {
			return nil, pberrors.NewIo(err)
		}
		src = &reverseSource{r: r}
	}

	fznFile, err := os.Open(config.FznPath)
	if err != nil {
		return nil, pberrors.NewIo(err)
	}
	defer fznFile.Close()
	fznData, err := io.ReadAll(fznFile)
	if err != nil {
		return nil, pberrors.NewIo(err)
	}
	fzn, err := flatzinc.Load(fznData)
	if err != nil {
		return nil, pberrors.NewIo(err)
	}

	litsFile, err := os.Open(config.LitsPath)
	if err != nil {
		return nil, pberrors.NewIo(err)
	}
	defer litsFile.Close()
	cpLitMap, err := cplit.Load(litsFile)
	if err != nil {
		return nil, pberrors.NewIo(err)
	}

	return &Justifier{
		lines:          src,
		out:            out,
		config:         config,
		inputStats:     stats.New(),
		outputStats:    stats.New(),
		linesToJustify: make(map[string]string),
		log:            plog.New().With().Str("pass", "style").Logger(),
		pbVarNames:     ast.NewVarNameManager(),
		definedLits:    make(map[ast.Literal]bool),
		definedBnds:    make(map[string]bool),
		fzn:            fzn,
		cpLitMap:       cpLitMap,
	}, nil
}

func (j *Justifier) nextLine() (string, bool) {
	line, ok := j.lines.next()
	if ok && j.config.JustifierStats {
		j.inputStats.RecordLine(line)
	}
	return line, ok
}

func (j *Justifier) writeLine(content string) error {
	if j.config.JustifierStats {
		j.outputStats.RecordLine(content)
	}
	if _, err := fmt.Fprintln(j.out, content); err != nil {
		return pberrors.NewIo(err)
	}
	return nil
}

var allowedRules = map[string]bool{"a": true, "pol": true, "p": true}

// Style runs the justification control loop (spec §4.3): `pol` antecedents
// trigger just-in-time justification of whichever buffered assertion they
// reference first; `a` lines are buffered until referenced or until the
// cache overflows; everything else passes through unchanged.
func (j *Justifier) Style() (*stats.ProofFileStats, *stats.ProofFileStats, error) {
	for {
		currentLine, ok := j.nextLine()
		if !ok {
			break
		}
		if !strings.HasPrefix(currentLine, "@") {
			if err := j.writeLine(currentLine); err != nil {
				return nil, nil, err
			}
			continue
		}

		fields := strings.Split(currentLine, " ")
		id := fields[0]
		rule := fields[1]
		if !allowedRules[rule] {
			return nil, nil, pberrors.NewUnknownRule(rule)
		}

		switch rule {
		case "pol", "p":
			for _, term := range fields[2:] {
				if term == "+" || term == "s" || term == ";" {
					continue
				}
				if !strings.HasPrefix(term, "@") {
					return nil, nil, pberrors.NewUnexpectedLineStart("@", term)
				}
				if bufferedLine, ok := j.linesToJustify[term]; ok {
					delete(j.linesToJustify, term)
					j.log.Debug().Str("id", term).Msg("justifying buffered assertion just in time")
					if err := j.justify(bufferedLine); err != nil {
						return nil, nil, err
					}
				}
			}
			if err := j.writeLine(currentLine); err != nil {
				return nil, nil, err
			}
		case "a":
			if len(j.linesToJustify) < j.config.MaxLineCache {
				j.linesToJustify[id] = currentLine
			} else {
				// Cache is full: justify this assertion immediately
				// rather than buffering it.
				j.log.Debug().Str("id", id).Int("cache_size", j.config.MaxLineCache).Msg("line cache full, justifying current assertion immediately")
				if err := j.justify(currentLine); err != nil {
					return nil, nil, err
				}
			}
		}
	}

	if j.config.JustifierStats {
		return j.inputStats, j.outputStats, nil
	}
	return nil, nil, nil
}

func (j *Justifier) justify(currentLine string) error {
	id, constraintStr, constraint, antecedentsStr, name, hasName := j.parseAssertionLine(currentLine)
	if !hasName {
		return j.writeLine(currentLine)
	}
	name = trimSC(strings.TrimSpace(name))

	justifier, err := j.installJustifier(name, antecedentsStr)
	if pbe, ok := pberrors.AsPBarberError(err); ok && pbe.IsRecoverable() {
		c := j.parseConstraint(constraintStr, id)
		if _, _, lerr := j.EnsureAllLitsDefined(c, false); lerr != nil {
			return lerr
		}
		return j.failedToJustify(c, id, name, pbe.Message)
	} else if err != nil {
		return err
	}

	if jerr := justifier.Justify(j, constraint, id); jerr != nil {
		if pbe, ok := pberrors.AsPBarberError(jerr); ok && pbe.IsRecoverable() {
			c := j.parseConstraint(constraintStr, id)
			return j.failedToJustify(c, id, name, pbe.Message)
		}
		return jerr
	}
	return nil
}

// parseAssertionLine splits `@<id> a <constraint> : <antecedents> : <name> : <hints> ;`.
func (j *Justifier) parseAssertionLine(currentLine string) (id, constraintStr string, constraint *ast.Constraint, antecedentsStr, name string, hasName bool) {
	colonParts := strings.SplitN(currentLine, ":", 4)
	beforeColon := colonParts[0]

	idx := strings.Index(beforeColon, " a ")
	id = strings.TrimSpace(beforeColon[:idx])
	constraintStr = beforeColon[idx+3:]
	constraint = j.parseConstraint(constraintStr, id)

	if len(colonParts) > 1 {
		antecedentsStr = colonParts[1]
	}
	if len(colonParts) > 2 {
		name = colonParts[2]
		hasName = true
	}
	return
}

func (j *Justifier) failedToJustify(constraint *ast.Constraint, idStr, nameStr, msg string) error {
	j.log.Warn().Str("id", idStr).Str("family", nameStr).Str("reason", msg).Msg("falling back to bare assertion")
	if err := j.writeLine(fmt.Sprintf("%% PBarber Justifier failed to justify the following: (error msg: %s)", msg)); err != nil {
		return err
	}
	return j.writeBareAssertion(constraint, idStr, nameStr)
}

func (j *Justifier) writeBareAssertion(constraint *ast.Constraint, idStr, nameStr string) error {
	var b strings.Builder
	b.WriteString(idStr)
	b.WriteString(" a ")
	b.WriteString(trimSC(constraint.PrettyString(j.pbVarNames)))
	b.WriteString(" :: ")
	b.WriteString(nameStr)
	b.WriteString(";")
	return j.writeLine(b.String())
}

func (j *Justifier) parseConstraint(constraintStr, idStr string) *ast.Constraint {
	c, err := grammar.ParseConstraint(constraintStr, j.pbVarNames)
	if err != nil {
		// A malformed constraint in an already-trimmed proof indicates a
		// bug upstream of this tool; the source treats this the same way
		// (an unrecoverable `.expect`).
		panic(fmt.Sprintf("constraint with id %s was not parsed correctly: %v", idStr, err))
	}
	return c
}

func (j *Justifier) isDefined(lit ast.Literal) bool { return j.definedLits[lit] }
func (j *Justifier) setDefined(lit ast.Literal)      { j.definedLits[lit] = true }

func (j *Justifier) definitionID(lit ast.Literal) string {
	prefix := ForwardLitDefPrefix
	if lit.IsNeg() {
		prefix = ReverseLitDefPrefix
	}
	return "@" + prefix + j.pbVarNames.Name(lit.Var)
}

func (j *Justifier) installJustifier(name, antecedentsStr string) (Justify, error) {
	switch name {
	case "IntVarDef":
		return IntVarDefJustifier{}, nil
	case "IntLinear":
		return NewIntLinearJustifier(j, antecedentsStr)
	default:
		return nil, pberrors.NewJustificationError("%s not yet supported", name)
	}
}

func trimSC(s string) string {
	return strings.TrimSuffix(s, ";")
}

// ForwardLitDefPrefix/ReverseLitDefPrefix mirror the prefixes in
// pbsmol/internal/trimmer; kept here too so the justifier package does not
// need to import the trimmer package just for two string constants.
const (
	ForwardLitDefPrefix = "lf"
	ReverseLitDefPrefix = "lr"
)
