package embedding

import (
	"bytes"
	"compress/gzip"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ParsesWhitespaceSeparatedLines(t *testing.T) {
	corpus := "happy 1 0\njoyful\t1   0\n\nsad -1 0.5\n"

	table, stats, err := Load(strings.NewReader(corpus))
	require.NoError(t, err)

	assert.Equal(t, Vector{1, 0}, table["happy"])
	assert.Equal(t, Vector{1, 0}, table["joyful"])
	assert.Equal(t, Vector{-1, 0.5}, table["sad"])
	assert.Equal(t, 4, stats.Lines)
	assert.Equal(t, 1, stats.SkippedLines)
	assert.Equal(t, 3, stats.Words)
	assert.Equal(t, 2, stats.Dimension)
}

func TestLoad_SkipsDefectiveLines(t *testing.T) {
	corpus := strings.Join([]string{
		"lonely",         // one token
		"broken abc def", // nothing parses
		"partial 1 x 2",  // x is dropped
		"   ",            // blank
		"good 0.25 -0.75",
	}, "\n")

	table, stats, err := Load(strings.NewReader(corpus))
	require.NoError(t, err)

	assert.NotContains(t, table, "lonely")
	assert.NotContains(t, table, "broken")
	assert.Equal(t, Vector{1, 2}, table["partial"])
	assert.Equal(t, Vector{0.25, -0.75}, table["good"])
	assert.Equal(t, 3, stats.SkippedLines)
	for word, vec := range table {
		assert.NotEmpty(t, vec, "word %q has an empty vector", word)
	}
}

func TestLoad_LastDuplicateWinsAndWordsAreLowercased(t *testing.T) {
	table, _, err := Load(strings.NewReader("Happy 1 0\nhappy 0 1\n"))
	require.NoError(t, err)

	require.Len(t, table, 1)
	assert.Equal(t, Vector{0, 1}, table["happy"])
}

func TestLoad_MixedDimensionsCoexist(t *testing.T) {
	table, stats, err := Load(strings.NewReader("a 1 2 3\nb 1 2\nc 4 5 6\n"))
	require.NoError(t, err)

	assert.Len(t, table["a"], 3)
	assert.Len(t, table["b"], 2)
	assert.Equal(t, 3, stats.Dimension)
}

func TestLoad_VeryLongLineDoesNotFail(t *testing.T) {
	long := "wide" + strings.Repeat(" 0.5", 600_000)
	corpus := "happy 1 0\n" + long + "\nsad -1 0"

	table, stats, err := Load(strings.NewReader(corpus))
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Lines)
	assert.Equal(t, Vector{1, 0}, table["happy"])
	assert.Equal(t, Vector{-1, 0}, table["sad"])
	assert.Len(t, table["wide"], 600_000)
}

func TestLoad_OutOfRangeComponentBecomesInfinity(t *testing.T) {
	table, _, err := Load(strings.NewReader("big 1e39 2\nsmall -1e39 3\n"))
	require.NoError(t, err)

	require.Len(t, table["big"], 2)
	assert.True(t, math.IsInf(float64(table["big"][0]), 1))
	assert.Equal(t, float32(2), table["big"][1])
	assert.True(t, math.IsInf(float64(table["small"][0]), -1))
}

func TestLoad_CRLFLines(t *testing.T) {
	table, stats, err := Load(strings.NewReader("happy 1 0\r\nsad -1 0\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Lines)
	assert.Equal(t, Vector{1, 0}, table["happy"])
	assert.Equal(t, Vector{-1, 0}, table["sad"])
}

func TestLoadFile_Gzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.txt.gz")

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte("cat 0.1 0.2\ndog 0.3 0.4\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	table, stats, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Words)
	assert.InDelta(t, 0.3, table["dog"][0], 1e-6)
}

func TestLoadFile_Missing(t *testing.T) {
	_, _, err := LoadFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestTable_DimensionEmpty(t *testing.T) {
	assert.Equal(t, 0, Table{}.Dimension())
}
