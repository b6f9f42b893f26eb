package keywords

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kyokomi/emoji/v2"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// ErrNotMapping is returned when a keyword document parses but its top level
// is not a mapping of emoji to keyword lists.
var ErrNotMapping = errors.New("keyword document top level is not a mapping")

// Table maps an emoji symbol to its ordered keywords.
type Table map[string][]string

// KeywordCount returns the total number of keywords across all entries.
func (t Table) KeywordCount() int {
	n := 0
	for _, kws := range t {
		n += len(kws)
	}
	return n
}

// ParseJSON decodes a JSON keyword document. On any error the returned table
// is empty, never nil.
func ParseJSON(doc []byte) (Table, error) {
	var raw any
	if err := json.Unmarshal(doc, &raw); err != nil {
		return Table{}, fmt.Errorf("parsing keyword JSON: %w", err)
	}
	return fromDocument(raw)
}

// ParseYAML decodes a YAML keyword document with the same rules as ParseJSON.
func ParseYAML(doc []byte) (Table, error) {
	var raw any
	if err := yaml.Unmarshal(doc, &raw); err != nil {
		return Table{}, fmt.Errorf("parsing keyword YAML: %w", err)
	}
	return fromDocument(raw)
}

// LoadFile reads a keyword document, choosing the decoder by extension.
// Anything that is not .yaml or .yml is treated as JSON.
func LoadFile(path string) (Table, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("reading keyword document %s: %w", path, err)
	}

	var table Table
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		table, err = ParseYAML(doc)
	default:
		table, err = ParseJSON(doc)
	}
	if err != nil {
		return table, fmt.Errorf("%s: %w", path, err)
	}
	log.Info().Str("path", path).Int("emoji", len(table)).Int("keywords", table.KeywordCount()).Msg("Emoji keywords loaded")
	return table, nil
}

func fromDocument(raw any) (Table, error) {
	entries := make(map[string]any)
	switch doc := raw.(type) {
	case map[string]any:
		entries = doc
	case map[any]any:
		for k, v := range doc {
			entries[fmt.Sprint(k)] = v
		}
	default:
		return Table{}, fmt.Errorf("got %T: %w", raw, ErrNotMapping)
	}

	// Sorted so that keys expanding to the same symbol merge deterministically.
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	table := make(Table, len(entries))
	for _, key := range keys {
		list, ok := entries[key].([]any)
		if !ok {
			continue
		}
		kws := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				kws = append(kws, s)
			}
		}
		symbol := ExpandShortcode(key)
		table[symbol] = append(table[symbol], kws...)
	}
	return table, nil
}

// ExpandShortcode turns ":smile:" into its emoji. Anything else, including
// unknown shortcodes, is returned unchanged.
func ExpandShortcode(key string) string {
	if len(key) < 3 || !strings.HasPrefix(key, ":") || !strings.HasSuffix(key, ":") {
		return key
	}
	expanded := strings.TrimSpace(emoji.Sprint(key))
	if expanded == "" {
		return key
	}
	return expanded
}
