package database

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/haytac/emoji-translator/internal/embedding"
	"github.com/haytac/emoji-translator/internal/keywords"
)

// CorpusStore persists the embedding and keyword tables so they can be
// reloaded without reparsing the source files.
type CorpusStore struct {
	db *DB
}

// NewCorpusStore creates a new CorpusStore.
func NewCorpusStore(db *DB) *CorpusStore {
	return &CorpusStore{db: db}
}

// Import replaces both cached tables in one transaction and records the
// import.
func (s *CorpusStore) Import(ctx context.Context, emb embedding.Table, kw keywords.Table, embSource, kwSource string) (*CorpusImport, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Import begin: %w", err)
	}
	defer tx.Rollback()

	if err := replaceEmbeddings(ctx, tx, emb); err != nil {
		return nil, err
	}
	if err := replaceKeywords(ctx, tx, kw); err != nil {
		return nil, err
	}

	imp := &CorpusImport{
		EmbeddingsSource: embSource,
		KeywordsSource:   kwSource,
		WordCount:        len(emb),
		EmojiCount:       len(kw),
		KeywordCount:     kw.KeywordCount(),
	}
	res, err := tx.ExecContext(ctx, `
		INSERT INTO corpus_imports (embeddings_source, keywords_source, word_count, emoji_count, keyword_count)
		VALUES (?, ?, ?, ?, ?)`,
		imp.EmbeddingsSource, imp.KeywordsSource, imp.WordCount, imp.EmojiCount, imp.KeywordCount)
	if err != nil {
		return nil, fmt.Errorf("Import record: %w", err)
	}
	if imp.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("Import record id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("Import commit: %w", err)
	}
	return imp, nil
}

func replaceEmbeddings(ctx context.Context, tx *sql.Tx, emb embedding.Table) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM embeddings`); err != nil {
		return fmt.Errorf("replaceEmbeddings delete: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO embeddings (word, dim, vector) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("replaceEmbeddings prepare: %w", err)
	}
	defer stmt.Close()

	for word, vec := range emb {
		if len(vec) == 0 {
			continue
		}
		if _, err := stmt.ExecContext(ctx, word, len(vec), encodeVector(vec)); err != nil {
			return fmt.Errorf("replaceEmbeddings exec %q: %w", word, err)
		}
	}
	return nil
}

func replaceKeywords(ctx context.Context, tx *sql.Tx, kw keywords.Table) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM emoji_keywords`); err != nil {
		return fmt.Errorf("replaceKeywords delete: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO emoji_keywords (emoji, position, keyword) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("replaceKeywords prepare: %w", err)
	}
	defer stmt.Close()

	for symbol, words := range kw {
		for i, word := range words {
			if _, err := stmt.ExecContext(ctx, symbol, i, word); err != nil {
				return fmt.Errorf("replaceKeywords exec %q: %w", symbol, err)
			}
		}
	}
	return nil
}

// LoadEmbeddings reads the cached embedding table.
func (s *CorpusStore) LoadEmbeddings(ctx context.Context) (embedding.Table, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT word, dim, vector FROM embeddings`)
	if err != nil {
		return nil, fmt.Errorf("LoadEmbeddings query: %w", err)
	}
	defer rows.Close()

	table := make(embedding.Table)
	for rows.Next() {
		var (
			word string
			dim  int
			blob []byte
		)
		if err := rows.Scan(&word, &dim, &blob); err != nil {
			return nil, fmt.Errorf("LoadEmbeddings scan: %w", err)
		}
		vec, err := decodeVector(blob, dim)
		if err != nil {
			return nil, fmt.Errorf("LoadEmbeddings word %q: %w", word, err)
		}
		table[word] = vec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("LoadEmbeddings rows error: %w", err)
	}
	return table, nil
}

// LoadKeywords reads the cached keyword table, preserving keyword order.
// Emoji that were imported with an empty keyword list are not restored.
func (s *CorpusStore) LoadKeywords(ctx context.Context) (keywords.Table, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT emoji, keyword FROM emoji_keywords ORDER BY emoji, position`)
	if err != nil {
		return nil, fmt.Errorf("LoadKeywords query: %w", err)
	}
	defer rows.Close()

	table := make(keywords.Table)
	for rows.Next() {
		var symbol, word string
		if err := rows.Scan(&symbol, &word); err != nil {
			return nil, fmt.Errorf("LoadKeywords scan: %w", err)
		}
		table[symbol] = append(table[symbol], word)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("LoadKeywords rows error: %w", err)
	}
	return table, nil
}

// LatestImport returns the most recent import, or nil when the cache is empty.
func (s *CorpusStore) LatestImport(ctx context.Context) (*CorpusImport, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, embeddings_source, keywords_source, word_count, emoji_count, keyword_count, imported_at
		FROM corpus_imports ORDER BY id DESC LIMIT 1`)
	imp := &CorpusImport{}
	err := row.Scan(&imp.ID, &imp.EmbeddingsSource, &imp.KeywordsSource, &imp.WordCount, &imp.EmojiCount, &imp.KeywordCount, &imp.ImportedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("LatestImport scan: %w", err)
	}
	return imp, nil
}

func encodeVector(vec embedding.Vector) []byte {
	buf := make([]byte, 4*len(vec))
	for i, x := range vec {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(x))
	}
	return buf
}

func decodeVector(blob []byte, dim int) (embedding.Vector, error) {
	if dim <= 0 || len(blob) != 4*dim {
		return nil, fmt.Errorf("vector blob has %d bytes, want %d", len(blob), 4*dim)
	}
	vec := make(embedding.Vector, dim)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[4*i:]))
	}
	return vec, nil
}
