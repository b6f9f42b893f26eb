package database

import "time"

// CorpusImport records one load of embeddings and keywords into the cache.
type CorpusImport struct {
	ID               int64     `db:"id"`
	EmbeddingsSource string    `db:"embeddings_source"`
	KeywordsSource   string    `db:"keywords_source"`
	WordCount        int       `db:"word_count"`
	EmojiCount       int       `db:"emoji_count"`
	KeywordCount     int       `db:"keyword_count"`
	ImportedAt       time.Time `db:"imported_at"`
}
