package revreader_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pbsmol/internal/revreader"
)

func readAll(t *testing.T, r *revreader.Reader) []string {
	t.Helper()
	var lines []string
	for {
		line, err := r.ReadLine()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		lines = append(lines, line)
	}
	return lines
}

func TestReadLineReversesOrder(t *testing.T) {
	src := bytes.NewReader([]byte("a\nb\nc\n"))
	r, err := revreader.New(src)
	require.NoError(t, err)

	assert.Equal(t, []string{"c", "b", "a"}, readAll(t, r))
}

func TestReadLineNoTrailingNewline(t *testing.T) {
	src := bytes.NewReader([]byte("a\nb\nc"))
	r, err := revreader.New(src)
	require.NoError(t, err)

	assert.Equal(t, []string{"c", "b", "a"}, readAll(t, r))
}

func TestReadLineSplitAcrossChunks(t *testing.T) {
	// A tiny chunk size forces a single logical line to straddle several
	// backward chunk reads, exercising the pending-fragment stitching.
	content := "first line\nsecond line that is long\nthird\n"
	src := bytes.NewReader([]byte(content))
	r, err := revreader.NewSize(src, 4)
	require.NoError(t, err)

	assert.Equal(t, []string{"third", "second line that is long", "first line"}, readAll(t, r))
}

func TestReadLineEmptyInput(t *testing.T) {
	src := bytes.NewReader(nil)
	r, err := revreader.New(src)
	require.NoError(t, err)

	_, err = r.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadLineEmptyLines(t *testing.T) {
	src := bytes.NewReader([]byte("a\n\nb\n"))
	r, err := revreader.New(src)
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "", "a"}, readAll(t, r))
}
