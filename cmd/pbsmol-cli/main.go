// Command pbsmol-cli is the entry point for trimming and styling (justifying)
// CP-solver proof logs into checker-ready pseudo-Boolean cutting-planes
// proofs. Grounded on the source's src/main.rs: the same four subcommands
// (trim, trim-and-style, style, advise), the same default output path
// convention, and the same colorized stats banner — translated from clap
// to the standard library's flag.FlagSet (no flag-parsing dependency
// appears anywhere in the retrieval pack, so this is the one CLI-parsing
// component built on the standard library; see DESIGN.md) plus
// github.com/fatih/color for the banners themselves.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	pberrors "pbsmol/internal/errors"
	"pbsmol/internal/justifier"
	"pbsmol/internal/plumbing"
	"pbsmol/internal/stats"
	"pbsmol/internal/trimmer"
	"pbsmol/internal/version"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if pbe, ok := pberrors.AsPBarberError(err); ok {
			fmt.Fprintln(os.Stderr, pberrors.Report(pbe, ""))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) > 0 && (args[0] == "--version" || args[0] == "-version") {
		fmt.Println(version.String())
		return nil
	}
	if len(args) == 0 {
		return usageError()
	}

	switch args[0] {
	case "trim":
		return runTrim(args[1:])
	case "trim-and-style":
		return runTrimAndStyle(args[1:])
	case "style":
		return runStyle(args[1:])
	case "advise":
		fmt.Println("`advise` not yet implemented.")
		return nil
	default:
		return usageError()
	}
}

func usageError() error {
	fmt.Fprintln(os.Stderr, "usage: pbsmol-cli <trim|trim-and-style|style|advise> INPUT [OUTPUT] [flags]")
	return pberrors.NewParseError("no subcommand given")
}

func trimmerFlags(fs *flag.FlagSet) *trimmer.Config {
	cfg := &trimmer.Config{}
	fs.BoolVar(&cfg.EagerDeletion, "eager-deletion", false, "delete antecedents as soon as they are subsumed")
	fs.BoolVar(&cfg.Stats, "stats", false, "print before/after line-count statistics")
	fs.BoolVar(&cfg.LitDeletion, "lit-deletion", false, "also delete literal definition axioms once their last use is trimmed past")
	return cfg
}

func justifierFlags(fs *flag.FlagSet) *justifier.Config {
	cfg := &justifier.Config{}
	fs.StringVar(&cfg.FznPath, "fzn", "", "path to the FlatZinc JSON oracle")
	fs.StringVar(&cfg.LitsPath, "lits", "", "path to the literal-map JSON oracle")
	fs.BoolVar(&cfg.ReadForwards, "read-forwards", false, "read the input proof forwards instead of in reverse")
	fs.BoolVar(&cfg.JustifierStats, "justifier-stats", false, "print before/after line-count statistics")
	fs.IntVar(&cfg.MaxLineCache, "max-line-cache", justifier.DefaultMaxLineCache, "bound on buffered not-yet-justified assertions")
	return cfg
}

func positionalIO(fs *flag.FlagSet) (inputPath, outputPath string, err error) {
	rest := fs.Args()
	if len(rest) < 1 {
		return "", "", pberrors.NewParseError("missing INPUT_FILE")
	}
	inputPath = rest[0]
	if len(rest) > 1 {
		outputPath = rest[1]
	}
	return inputPath, outputPath, nil
}

func runTrim(args []string) error {
	fs := flag.NewFlagSet("trim", flag.ExitOnError)
	cfg := trimmerFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	inputPath, outputPath, err := positionalIO(fs)
	if err != nil {
		return err
	}
	outputPath = plumbing.ResolvedOutputPath(inputPath, outputPath)

	if cfg.LitDeletion {
		fmt.Println(color.YellowString("Warning: ignoring `--lit-deletion` as it would produce invalid proofs without expanding assertions."))
		cfg.LitDeletion = false
	}

	input, output, err := plumbing.OpenFiles(inputPath, outputPath)
	if err != nil {
		return pberrors.NewIo(err)
	}
	defer input.Close()
	defer output.Close()

	t, err := trimmer.WithConfig(input, output, *cfg)
	if err != nil {
		return err
	}
	inStats, outStats, err := t.Trim()
	if err != nil {
		return err
	}
	printTrimResult(inputPath, outputPath, inStats, outStats)

	if err := output.Close(); err != nil {
		return pberrors.NewIo(err)
	}
	return plumbing.ReverseFile(outputPath)
}

func runTrimAndStyle(args []string) error {
	fs := flag.NewFlagSet("trim-and-style", flag.ExitOnError)
	tcfg := trimmerFlags(fs)
	jcfg := justifierFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	inputPath, outputPath, err := positionalIO(fs)
	if err != nil {
		return err
	}
	outputPath = plumbing.ResolvedOutputPath(inputPath, outputPath)

	trimmedPath := outputPath + ".trimmed"
	input, trimmedOut, err := plumbing.OpenFiles(inputPath, trimmedPath)
	if err != nil {
		return pberrors.NewIo(err)
	}
	defer input.Close()

	t, err := trimmer.WithConfig(input, trimmedOut, *tcfg)
	if err != nil {
		trimmedOut.Close()
		return err
	}
	inStats, outStats, err := t.Trim()
	if err != nil {
		trimmedOut.Close()
		return err
	}
	if err := trimmedOut.Close(); err != nil {
		return pberrors.NewIo(err)
	}
	printTrimResult(inputPath, trimmedPath, inStats, outStats)

	// The trimmer's output is already reverse-ordered, which is exactly
	// what the justifier's default (non-`--read-forwards`) mode expects,
	// so the fused flow skips the standalone reversal pass `trim` needs.
	trimmedIn, err := os.Open(trimmedPath)
	if err != nil {
		return pberrors.NewIo(err)
	}
	defer trimmedIn.Close()
	defer os.Remove(trimmedPath)

	finalOut, err := os.Create(outputPath)
	if err != nil {
		return pberrors.NewIo(err)
	}
	defer finalOut.Close()

	j, err := justifier.New(trimmedIn, finalOut, *jcfg)
	if err != nil {
		return err
	}
	jInStats, jOutStats, err := j.Style()
	if err != nil {
		return err
	}
	printJustifyResult(trimmedPath, outputPath, jInStats, jOutStats)
	return nil
}

func runStyle(args []string) error {
	fs := flag.NewFlagSet("style", flag.ExitOnError)
	jcfg := justifierFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	inputPath, outputPath, err := positionalIO(fs)
	if err != nil {
		return err
	}
	outputPath = plumbing.ResolvedOutputPath(inputPath, outputPath)

	input, output, err := plumbing.OpenFiles(inputPath, outputPath)
	if err != nil {
		return pberrors.NewIo(err)
	}
	defer input.Close()
	defer output.Close()

	j, err := justifier.New(input, output, *jcfg)
	if err != nil {
		return err
	}
	inStats, outStats, err := j.Style()
	if err != nil {
		return err
	}
	printJustifyResult(inputPath, outputPath, inStats, outStats)
	return nil
}

func printTrimResult(inputPath, outputPath string, in, out *stats.ProofFileStats) {
	if in == nil || out == nil {
		return
	}
	fmt.Println(color.YellowString("Input file (%s) stats:", inputPath))
	fmt.Println(in.String())
	fmt.Println(color.YellowString("Output file (%s) stats:", outputPath))
	fmt.Println(out.ComparedTo(in))
}

func printJustifyResult(inputPath, outputPath string, in, out *stats.ProofFileStats) {
	if in == nil || out == nil {
		return
	}
	fmt.Println(color.YellowString("Input file (%s) stats:", inputPath))
	fmt.Println(in.String())
	fmt.Println(color.YellowString("Output file (%s) stats:", outputPath))
	fmt.Println(out.ComparedTo(in))
}
