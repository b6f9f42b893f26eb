package translator

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haytac/emoji-translator/internal/embedding"
	"github.com/haytac/emoji-translator/internal/keywords"
)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e := NewEngine(opts...)
	e.Initialize(
		embedding.Table{
			"happy":  {1, 0},
			"joyful": {1, 0},
			"sad":    {-1, 0},
		},
		keywords.Table{
			"😊": {"joyful"},
			"😢": {"sad"},
		},
	)
	return e
}

func TestEngine_Translate(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"synonym", "happy", "😊"},
		{"keyword itself", "sad", "😢"},
		{"punctuation and case", "Happy, happy!!", "😊 😊"},
		{"order preserved", "sad HAPPY sad", "😢 😊 😢"},
		{"unknown dropped", "happy zebra sad", "😊 😢"},
		{"only unknown", "zebra giraffe", ""},
		{"empty", "", ""},
		{"whitespace", "   \t\n ", ""},
		{"trailing period is part of token", "happy.", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Translate(tt.in))
		})
	}
}

func TestEngine_TranslatesWordsWithCombiningMarks(t *testing.T) {
	e := NewEngine()
	e.Initialize(
		embedding.Table{"हिंदी": {1, 0}},
		keywords.Table{"🇮🇳": {"हिंदी"}},
	)

	assert.Equal(t, "🇮🇳", e.Translate("हिंदी"))
	assert.Equal(t, "🇮🇳 🇮🇳", e.Translate("हिंदी, हिंदी!"))
}

func TestEngine_KeywordLookupIgnoresCase(t *testing.T) {
	e := NewEngine()
	e.Initialize(
		embedding.Table{"glad": {1, 0}, "joy": {1, 0}},
		keywords.Table{"😊": {"Joy"}},
	)

	m, ok := e.MatchWord("GLAD")
	require.True(t, ok)
	assert.Equal(t, "😊", m.Emoji)
	assert.Equal(t, "Joy", m.Keyword)
	assert.Equal(t, "glad", m.Token)
}

func TestEngine_TranslateExplainedAgreesWithTranslate(t *testing.T) {
	e := newTestEngine(t)

	emoji, results := e.TranslateExplained("Happy zebra, sad!")
	assert.Equal(t, "😊 😢", emoji)
	assert.Equal(t, e.Translate("Happy zebra, sad!"), emoji)
	require.Len(t, results, 3)
	assert.Equal(t, emoji, JoinMatches(results))
	assert.False(t, results[1].Known)
}

func TestEngine_BelowThresholdContributesNothing(t *testing.T) {
	e := NewEngine()
	e.Initialize(
		embedding.Table{
			"north": {0, 1},
			"east":  {1, 0},
		},
		keywords.Table{"➡️": {"east"}},
	)

	assert.Equal(t, "", e.Translate("north"))
	assert.Equal(t, "➡️", e.Translate("east"))
}

func TestEngine_ThresholdIsStrict(t *testing.T) {
	e := NewEngine()
	e.Initialize(
		embedding.Table{
			"word":    {1, 1, 1, 1},
			"keyword": {1, 0, 0, 0},
		},
		keywords.Table{"🎯": {"keyword"}},
	)

	// 1 / (2 * 1) is exactly the threshold, which does not qualify.
	require.Equal(t, 0.5, CosineSimilarity(embedding.Vector{1, 1, 1, 1}, embedding.Vector{1, 0, 0, 0}))
	assert.Equal(t, "", e.Translate("word"))
}

func TestEngine_CustomThreshold(t *testing.T) {
	lenient := NewEngine()
	lenient.Initialize(
		embedding.Table{"a": {1, 1}, "b": {1, 0}},
		keywords.Table{"🅱️": {"b"}},
	)
	// cos(45°) ~ 0.707 passes the default, fails a 0.75 threshold.
	assert.Equal(t, "🅱️", lenient.Translate("a"))

	strict := NewEngine(WithThreshold(0.75))
	strict.Initialize(
		embedding.Table{"a": {1, 1}, "b": {1, 0}},
		keywords.Table{"🅱️": {"b"}},
	)
	assert.Equal(t, "", strict.Translate("a"))
	assert.Equal(t, 0.75, strict.Threshold())
}

func TestEngine_BestScoreWins(t *testing.T) {
	e := NewEngine()
	e.Initialize(
		embedding.Table{
			"puppy": {1, 0.1},
			"dog":   {1, 0.2},
			"wolf":  {1, 0.9},
			"cat":   {0.2, 1},
		},
		keywords.Table{
			"🐺": {"wolf"},
			"🐶": {"cat", "dog"},
		},
	)

	m, ok := e.MatchWord("Puppy")
	require.True(t, ok)
	assert.Equal(t, "🐶", m.Emoji)
	assert.Equal(t, "dog", m.Keyword)
	assert.Equal(t, "puppy", m.Token)
	assert.Greater(t, m.Score, 0.99)
}

func TestEngine_TiesResolveLexically(t *testing.T) {
	emb := embedding.Table{
		"word": {1, 0},
		"same": {2, 0},
	}
	kw := keywords.Table{
		"😺": {"same"},
		"😀": {"same"},
		"😸": {"same"},
	}

	for i := 0; i < 20; i++ {
		e := NewEngine()
		e.Initialize(emb, kw)
		require.Equal(t, "😀", e.Translate("word"), "iteration %d", i)
	}
}

func TestEngine_KeywordWithoutEmbeddingIsSkipped(t *testing.T) {
	e := NewEngine()
	e.Initialize(
		embedding.Table{"fire": {1, 0}},
		keywords.Table{"🔥": {"blaze", "Fire"}},
	)

	assert.Equal(t, "🔥", e.Translate("fire"))
	stats := e.Stats()
	assert.Equal(t, 2, stats.Keywords)
	assert.Equal(t, 1, stats.ResolvedKeywords)
}

func TestEngine_MismatchedDimensionsNeverMatch(t *testing.T) {
	e := NewEngine()
	e.Initialize(
		embedding.Table{"short": {1, 0}, "long": {1, 0, 0}},
		keywords.Table{"📏": {"long"}},
	)
	assert.Equal(t, "", e.Translate("short"))
}

func TestEngine_ZeroVectorNeverMatches(t *testing.T) {
	e := NewEngine()
	e.Initialize(
		embedding.Table{"void": {0, 0}, "thing": {1, 1}},
		keywords.Table{"⚫": {"void"}, "📦": {"thing"}},
	)
	assert.Equal(t, "", e.Translate("void"))
	assert.Equal(t, "📦", e.Translate("thing"))
}

func TestEngine_Uninitialized(t *testing.T) {
	e := NewEngine()
	assert.False(t, e.Ready())
	assert.Equal(t, "", e.Translate("happy sad"))

	_, ok := e.MatchWord("happy")
	assert.False(t, ok)
}

func TestEngine_NoKeywordsLoaded(t *testing.T) {
	e := NewEngine()
	e.Initialize(embedding.Table{"happy": {1, 0}}, nil)
	assert.True(t, e.Ready())
	assert.Equal(t, "", e.Translate("happy"))
}

func TestEngine_Explain(t *testing.T) {
	e := newTestEngine(t)

	results := e.Explain("Happy zebra!")
	require.Len(t, results, 2)

	assert.Equal(t, "happy", results[0].Token)
	assert.True(t, results[0].Known)
	require.NotNil(t, results[0].Match)
	assert.Equal(t, "😊", results[0].Match.Emoji)
	assert.Equal(t, "joyful", results[0].Match.Keyword)
	assert.InDelta(t, 1.0, results[0].Match.Score, 1e-9)

	assert.Equal(t, "zebra", results[1].Token)
	assert.False(t, results[1].Known)
	assert.Nil(t, results[1].Match)
}

func TestEngine_InitializeFromText(t *testing.T) {
	corpus := strings.Join([]string{
		"happy 1 0",
		"joyful 1 0",
		"garbage",
		"sad -1 0",
		"bad x y z",
	}, "\n")

	e := NewEngine()
	err := e.InitializeFromText(strings.NewReader(corpus), []byte(`{"😊": ["joyful"], "😢": ["sad", 5]}`))
	require.NoError(t, err)

	assert.Equal(t, "😊 😢", e.Translate("happy, sad"))
	assert.Equal(t, 3, e.Stats().Words)
}

func TestEngine_InitializeFromText_BadKeywordDocument(t *testing.T) {
	for _, doc := range []string{`["😊", "joyful"]`, `{"😊": [`, ``} {
		e := NewEngine()
		err := e.InitializeFromText(strings.NewReader("happy 1 0\n"), []byte(doc))
		assert.Error(t, err, "doc %q", doc)
		assert.False(t, e.Ready())
	}
}

func TestEngine_ConcurrentTranslateAndReinitialize(t *testing.T) {
	e := newTestEngine(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				got := e.Translate("happy sad")
				assert.Contains(t, []string{"😊 😢", "😢 😊"}, got)
			}
		}()
	}
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			kw := keywords.Table{"😊": {"joyful"}, "😢": {"sad"}}
			if i%2 == 1 {
				// Swapped meanings; translations stay well formed either way.
				kw = keywords.Table{"😢": {"joyful"}, "😊": {"sad"}}
			}
			e.Initialize(embedding.Table{"happy": {1, 0}, "joyful": {1, 0}, "sad": {-1, 0}}, kw)
		}(i)
	}
	wg.Wait()
	assert.True(t, e.Ready())
}

func TestEngine_Stats(t *testing.T) {
	e := newTestEngine(t, WithThreshold(0.6))
	stats := e.Stats()
	assert.Equal(t, EngineStats{Words: 3, Emoji: 2, Keywords: 2, ResolvedKeywords: 2, Threshold: 0.6}, stats)
}

func BenchmarkEngine_Translate(b *testing.B) {
	emb := embedding.Table{}
	kw := keywords.Table{}
	for i := 0; i < 2000; i++ {
		emb[fmt.Sprintf("w%d", i)] = embedding.Vector{float32(i % 7), float32(i % 11), float32(i % 13), 1}
	}
	for i := 0; i < 200; i++ {
		kw[fmt.Sprintf("e%03d", i)] = []string{fmt.Sprintf("w%d", i*3), fmt.Sprintf("w%d", i*5)}
	}
	e := NewEngine()
	e.Initialize(emb, kw)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Translate("w1 w2 w3 w4 w5 w6 w7 w8 unknown")
	}
}
