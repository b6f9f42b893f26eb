package translator

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/haytac/emoji-translator/internal/embedding"
	"github.com/haytac/emoji-translator/internal/keywords"
	"github.com/haytac/emoji-translator/internal/metrics"
)

// DefaultSimilarityThreshold is the score a keyword must strictly exceed for
// its emoji to be emitted.
const DefaultSimilarityThreshold = 0.5

// Match is the winning emoji for one token.
type Match struct {
	Token   string  `json:"token"`
	Emoji   string  `json:"emoji"`
	Keyword string  `json:"keyword"`
	Score   float64 `json:"score"`
}

// TokenResult explains what happened to one filtered token.
type TokenResult struct {
	Token string `json:"token"`
	Known bool   `json:"known"`
	Match *Match `json:"match,omitempty"`
}

// EngineStats summarises the loaded tables.
type EngineStats struct {
	Words            int     `json:"words"`
	Emoji            int     `json:"emoji"`
	Keywords         int     `json:"keywords"`
	ResolvedKeywords int     `json:"resolved_keywords"`
	Threshold        float64 `json:"threshold"`
}

// candidate is a keyword whose embedding was found at Initialize time.
type candidate struct {
	emoji   string
	keyword string
	vec     embedding.Vector
}

// Engine maps words to emoji by embedding similarity. Translate is safe for
// concurrent use; Initialize takes an exclusive lock.
type Engine struct {
	mu         sync.RWMutex
	threshold  float64
	embeddings embedding.Table
	keywords   keywords.Table
	candidates []candidate
	ready      bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithThreshold overrides DefaultSimilarityThreshold.
func WithThreshold(threshold float64) Option {
	return func(e *Engine) {
		e.threshold = threshold
	}
}

// NewEngine creates an engine with empty tables.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		threshold:  DefaultSimilarityThreshold,
		embeddings: embedding.Table{},
		keywords:   keywords.Table{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Initialize installs both tables. The engine keeps the maps it is given;
// callers must not modify them afterwards.
func (e *Engine) Initialize(emb embedding.Table, kw keywords.Table) {
	if emb == nil {
		emb = embedding.Table{}
	}
	if kw == nil {
		kw = keywords.Table{}
	}
	cands := buildCandidates(emb, kw)

	e.mu.Lock()
	e.embeddings = emb
	e.keywords = kw
	e.candidates = cands
	e.ready = true
	e.mu.Unlock()

	metrics.TableEntries.WithLabelValues("embeddings").Set(float64(len(emb)))
	metrics.TableEntries.WithLabelValues("emoji").Set(float64(len(kw)))
	metrics.TableEntries.WithLabelValues("keywords").Set(float64(len(cands)))
	log.Debug().
		Int("words", len(emb)).
		Int("emoji", len(kw)).
		Int("resolved_keywords", len(cands)).
		Float64("threshold", e.threshold).
		Msg("Translation engine initialized")
}

// InitializeFromText parses a raw embedding corpus and a JSON keyword
// document and installs them. Only a keyword document that fails to parse
// is an error; the engine is left untouched in that case.
func (e *Engine) InitializeFromText(corpus io.Reader, keywordDoc []byte) error {
	emb, _, err := embedding.Load(corpus)
	if err != nil {
		return fmt.Errorf("loading embeddings: %w", err)
	}
	kw, err := keywords.ParseJSON(keywordDoc)
	if err != nil {
		return fmt.Errorf("loading emoji keywords: %w", err)
	}
	e.Initialize(emb, kw)
	return nil
}

// buildCandidates flattens the keyword table in lexical emoji order, then
// keyword order, keeping only keywords that have an embedding. Ties during
// matching go to the earliest candidate.
//
// Keywords are looked up lowercased rather than verbatim. Corpus words are
// lowercased at load, so a keyword written "Joy" still resolves to "joy";
// Match.Keyword keeps the keyword as written.
func buildCandidates(emb embedding.Table, kw keywords.Table) []candidate {
	symbols := make([]string, 0, len(kw))
	for symbol := range kw {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	var cands []candidate
	for _, symbol := range symbols {
		for _, word := range kw[symbol] {
			vec, ok := emb.Lookup(strings.ToLower(word))
			if !ok {
				continue
			}
			cands = append(cands, candidate{emoji: symbol, keyword: word, vec: vec})
		}
	}
	return cands
}

// Translate returns the best emoji for each known word of text, joined by
// single spaces. Unknown words and words without a match above the threshold
// contribute nothing.
func (e *Engine) Translate(text string) string {
	emoji, _ := e.TranslateExplained(text)
	return emoji
}

// TranslateExplained returns the Translate result together with the
// per-token breakdown it was built from, from a single scan of text.
func (e *Engine) TranslateExplained(text string) (string, []TokenResult) {
	start := time.Now()
	defer func() {
		metrics.Translations.Inc()
		metrics.TranslateDuration.Observe(time.Since(start).Seconds())
	}()

	results := e.Explain(text)
	return JoinMatches(results), results
}

// JoinMatches joins the matched emoji of results with single spaces.
func JoinMatches(results []TokenResult) string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		if r.Match != nil {
			out = append(out, r.Match.Emoji)
		}
	}
	return strings.Join(out, " ")
}

// Explain reports the outcome for every filtered token of text.
func (e *Engine) Explain(text string) []TokenResult {
	tokens := Tokenize(text)

	e.mu.RLock()
	defer e.mu.RUnlock()

	results := make([]TokenResult, 0, len(tokens))
	for _, tok := range tokens {
		word := strings.ToLower(tok)
		vec, ok := e.embeddings.Lookup(word)
		if !ok {
			metrics.Tokens.WithLabelValues("unknown").Inc()
			results = append(results, TokenResult{Token: word})
			continue
		}
		res := TokenResult{Token: word, Known: true}
		if m, ok := e.bestMatch(vec); ok {
			m.Token = word
			res.Match = &m
			metrics.Tokens.WithLabelValues("matched").Inc()
		} else {
			metrics.Tokens.WithLabelValues("no_match").Inc()
		}
		results = append(results, res)
	}
	return results
}

// MatchWord returns the best emoji for a single word.
func (e *Engine) MatchWord(word string) (Match, bool) {
	word = strings.ToLower(word)

	e.mu.RLock()
	defer e.mu.RUnlock()

	vec, ok := e.embeddings.Lookup(word)
	if !ok {
		return Match{}, false
	}
	m, ok := e.bestMatch(vec)
	if ok {
		m.Token = word
	}
	return m, ok
}

// bestMatch must be called with e.mu held.
func (e *Engine) bestMatch(vec embedding.Vector) (Match, bool) {
	var best Match
	found := false
	for _, c := range e.candidates {
		sim := CosineSimilarity(vec, c.vec)
		if sim > e.threshold && (!found || sim > best.Score) {
			best = Match{Emoji: c.emoji, Keyword: c.keyword, Score: sim}
			found = true
		}
	}
	return best, found
}

// Ready reports whether Initialize has run.
func (e *Engine) Ready() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ready
}

// Threshold returns the similarity threshold in use.
func (e *Engine) Threshold() float64 {
	return e.threshold
}

// Stats summarises the loaded tables.
func (e *Engine) Stats() EngineStats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return EngineStats{
		Words:            len(e.embeddings),
		Emoji:            len(e.keywords),
		Keywords:         e.keywords.KeywordCount(),
		ResolvedKeywords: len(e.candidates),
		Threshold:        e.threshold,
	}
}
