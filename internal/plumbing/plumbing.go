// Package plumbing holds the file-handling glue around the trim/justify
// passes: opening input/output files and, for a bare `trim`, reversing the
// trimmer's reverse-ordered output back into forward proof order.
//
// Grounded on the source's main.rs (open_files, reverse_file), using
// github.com/pkg/errors to wrap the same os-level failures the source's
// `.expect(...)` calls panic on, and internal/revreader for the reversal
// itself instead of re-opening the file through the `rev_buf_reader` crate
// a second time.
package plumbing

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"pbsmol/internal/revreader"
)

// OpenFiles opens inputPath for reading and creates (truncating)
// outputPath for writing, the way open_files does in the source.
func OpenFiles(inputPath, outputPath string) (*os.File, *os.File, error) {
	input, err := os.Open(inputPath)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open input file")
	}
	output, err := os.Create(outputPath)
	if err != nil {
		input.Close()
		return nil, nil, errors.Wrap(err, "failed to open output file")
	}
	return input, output, nil
}

// ResolvedOutputPath returns the user-supplied output path, or
// "<input stem>.smol.pbp" when none was given (spec §6).
func ResolvedOutputPath(inputPath string, outputPath string) string {
	if outputPath != "" {
		return outputPath
	}
	ext := filepath.Ext(inputPath)
	stem := strings.TrimSuffix(inputPath, ext)
	return stem + ".smol.pbp"
}

// ReverseFile rewrites the file at path in place so that its lines read in
// forward order. The trimmer writes its kept lines in reverse (walking the
// proof backward); a bare `trim` needs this pass afterward, while
// `trim-and-style` skips it because the justifier's default mode expects
// reverse-ordered input anyway.
func ReverseFile(path string) error {
	toReverse, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "failed to reopen output file for reversal")
	}
	defer toReverse.Close()

	reader, err := revreader.New(toReverse)
	if err != nil {
		return errors.Wrap(err, "failed to start reverse read for reversal")
	}

	tempPath := path + ".tmp"
	tempFile, err := os.Create(tempPath)
	if err != nil {
		return errors.Wrap(err, "failed to open temp file for reversal")
	}

	for {
		line, err := reader.ReadLine()
		if err != nil {
			break
		}
		if _, err := fmt.Fprintln(tempFile, line); err != nil {
			tempFile.Close()
			return errors.Wrap(err, "failed to write reversed line")
		}
	}
	if err := tempFile.Close(); err != nil {
		return errors.Wrap(err, "failed to close temp file")
	}

	if err := os.Rename(tempPath, path); err != nil {
		return errors.Wrap(err, "failed to replace output file with reversed file")
	}
	return nil
}
