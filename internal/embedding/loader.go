package embedding

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Stats describes what a Load call kept and skipped.
type Stats struct {
	Lines        int
	SkippedLines int
	Words        int
	Dimension    int
}

// Load parses a whitespace-separated corpus of "<word> <float> ..." lines.
// Unparsable components are dropped; a line is skipped when it has fewer than
// two tokens or no component parses. Lines have no length limit. The last
// occurrence of a word wins. Only read errors are returned.
func Load(r io.Reader) (Table, Stats, error) {
	table := make(Table)
	var stats Stats

	br := bufio.NewReaderSize(r, 64*1024)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			stats.Lines++
			if word, vec, ok := parseLine(line); ok {
				table[word] = vec
			} else {
				stats.SkippedLines++
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("reading embedding corpus: %w", err)
		}
	}

	stats.Words = len(table)
	stats.Dimension = table.Dimension()
	return table, stats, nil
}

// LoadFile reads a corpus from path. Files ending in .gz are decompressed.
func LoadFile(path string) (Table, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("opening embedding corpus %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, Stats{}, fmt.Errorf("opening gzip corpus %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	table, stats, err := Load(r)
	if err != nil {
		return nil, stats, err
	}
	log.Info().
		Str("path", path).
		Int("words", stats.Words).
		Int("dimension", stats.Dimension).
		Int("skipped_lines", stats.SkippedLines).
		Msg("Embedding corpus loaded")
	return table, stats, nil
}

func parseLine(line string) (string, Vector, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", nil, false
	}
	vec := make(Vector, 0, len(fields)-1)
	for _, f := range fields[1:] {
		// Out-of-range values come back as ±Inf with ErrRange and are kept.
		x, err := strconv.ParseFloat(f, 32)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			continue
		}
		vec = append(vec, float32(x))
	}
	if len(vec) == 0 {
		return "", nil, false
	}
	return strings.ToLower(fields[0]), vec, true
}
