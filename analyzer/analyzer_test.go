package analyzer

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeDocument(t *testing.T) {
	result := AnalyzeDocument(Request{
		Content:         "# My Title\n\nThis is a test. It has two sentences.",
		TargetKeyword:   "test",
		RelatedKeywords: "sentence, example",
	})

	assert.Equal(t, 10, result.Stats.WordCount)
	assert.Equal(t, 48, result.Stats.CharacterCount) // normalized length, not raw
	assert.Equal(t, 2, result.Stats.SentenceCount)
	assert.Equal(t, 2, result.Stats.ParagraphCount)

	assert.Equal(t, 1, result.Headings["h1"])
	assert.Equal(t, 0, result.Headings["h2"])

	assert.Equal(t, "test", result.Keywords.TargetKeyword)
	assert.Equal(t, 1, result.Keywords.TargetCount)
	assert.Equal(t, 10.0, result.Keywords.TargetDensityPercent)
	// Related terms are matched as single tokens; "sentences" != "sentence".
	assert.Equal(t, map[string]int{"sentence": 0, "example": 0}, result.Keywords.RelatedCounts)

	assert.Equal(t, 91.8, result.Readability.FleschReadingEase)
	assert.Equal(t, "Very easy", result.Readability.Level)
	assert.Equal(t, 5.0, result.Readability.AvgWordsPerSentence)

	assert.Contains(t, result.Suggestions, "Add a meta title. Keep it clear and specific.")
	assert.Contains(t, result.Suggestions, "Add a meta description. Summarize the value in 1 to 2 sentences.")
	assert.Contains(t, result.Suggestions, "Add more depth. Aim for at least 300 to 800 words for most posts.")
}

func TestAnalyzeDocumentEmpty(t *testing.T) {
	result := AnalyzeDocument(Request{})

	assert.Equal(t, ContentStats{}, result.Stats)
	assert.Equal(t, 0.0, result.Readability.FleschReadingEase)
	assert.Equal(t, "Very difficult", result.Readability.Level)
	assert.Equal(t, 0.0, result.Readability.AvgWordsPerSentence)
	assert.NotNil(t, result.Suggestions)
	assert.NotNil(t, result.Keywords.RelatedKeywords)
	assert.NotNil(t, result.Keywords.TopTerms)
}

func TestAnalyzeDocumentNeverPanics(t *testing.T) {
	inputs := []Request{
		{Content: "!!! ??? ... ,,,"},
		{Content: strings.Repeat("x", 1<<16)},
		{Content: "\n\n\n\n"},
		{Content: "a", TargetKeyword: "(unbalanced [regex", RelatedKeywords: ",,,"},
		{Content: "café naïve résumé. encore!"},
		{MetaTitle: strings.Repeat("t", 500), MetaDescription: strings.Repeat("d", 500)},
	}

	for _, req := range inputs {
		assert.NotPanics(t, func() { AnalyzeDocument(req) })
	}
}

func TestAnalyzeDocumentDeterministic(t *testing.T) {
	req := Request{
		Content:         "# Post\n\nAlpha beta gamma alpha beta alpha. Delta echo foxtrot.",
		TargetKeyword:   "alpha",
		RelatedKeywords: "beta, gamma",
	}

	want := AnalyzeDocument(req)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, AnalyzeDocument(req))
		}()
	}
	wg.Wait()
}

func TestResultJSONShape(t *testing.T) {
	result := AnalyzeDocument(Request{Content: "seo seo seo", TargetKeyword: "seo"})

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, key := range []string{"stats", "keywords", "headings", "readability", "suggestions"} {
		assert.Contains(t, decoded, key)
	}

	assert.Contains(t, string(data), `"target_density_percent":100`)
	assert.Contains(t, string(data), `"top_terms":[["seo",3]]`)
	assert.Contains(t, string(data), `"h1":0`)
}

func TestAnalyzeRecordsStats(t *testing.T) {
	a, err := New(t.TempDir())
	require.NoError(t, err)
	defer a.Shutdown()

	a.Analyze(Request{Content: "hello world"})
	a.Analyze(Request{Content: "more text here"})

	assert.Equal(t, 2, a.GetStats().GetCurrentStats().DocumentAnalyses)
}

func TestExtractPageContent(t *testing.T) {
	html := `<html><head><title>T</title></head><body>
		<h1>My Post</h1>
		<p>First paragraph of the post.</p>
		<h2>A Section</h2>
		<p>Second paragraph, still going.</p>
		<p>   </p>
	</body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	content := extractPageContent(doc)
	assert.Equal(t,
		"# My Post\n\nFirst paragraph of the post.\n\n## A Section\n\nSecond paragraph, still going.",
		content)

	// The rebuilt document feeds straight into the analysis pipeline.
	result := AnalyzeDocument(Request{Content: content})
	assert.Equal(t, 1, result.Headings["h1"])
	assert.Equal(t, 1, result.Headings["h2"])
	assert.Equal(t, 4, result.Stats.ParagraphCount)
}

func TestPageCache(t *testing.T) {
	a, err := New(t.TempDir())
	require.NoError(t, err)
	defer a.Shutdown()

	req := PageRequest{URL: "https://example.com/post"}
	assert.False(t, a.IsCached(req))

	// Prime the cache directly; no network in tests.
	cached := AnalyzeDocument(Request{Content: "cached page body"})
	a.cacheMutex.Lock()
	a.cache[generateCacheKey(req)] = cacheEntry{result: cached, timestamp: time.Now()}
	a.cacheMutex.Unlock()

	assert.True(t, a.IsCached(req))

	// Different keyword parameters miss the cache.
	assert.False(t, a.IsCached(PageRequest{URL: req.URL, TargetKeyword: "seo"}))

	// A fresh entry is served without a fetch.
	got, err := a.AnalyzePage(req)
	require.NoError(t, err)
	assert.Same(t, cached, got)
	assert.Equal(t, 1, a.GetStats().GetCurrentStats().PageCacheHits)

	stats := a.GetCacheStats()
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, 1, stats.CacheHits)

	a.ClearCache()
	assert.False(t, a.IsCached(req))
}

func TestPageCacheExpiry(t *testing.T) {
	a, err := New(t.TempDir())
	require.NoError(t, err)
	defer a.Shutdown()

	req := PageRequest{URL: "https://example.com/stale"}
	a.SetCacheTTL(10 * time.Millisecond)

	a.cacheMutex.Lock()
	a.cache[generateCacheKey(req)] = cacheEntry{result: &Result{}, timestamp: time.Now()}
	a.cacheMutex.Unlock()

	assert.True(t, a.IsCached(req))
	time.Sleep(20 * time.Millisecond)
	assert.False(t, a.IsCached(req))

	a.cleanup()
	assert.Equal(t, 0, a.GetCacheStats().Entries)
}

func TestConcurrentPageCacheAccess(t *testing.T) {
	a, err := New(t.TempDir())
	require.NoError(t, err)
	defer a.Shutdown()

	req := PageRequest{URL: "https://example.com/shared"}
	a.cacheMutex.Lock()
	a.cache[generateCacheKey(req)] = cacheEntry{result: &Result{}, timestamp: time.Now()}
	a.cacheMutex.Unlock()

	// Hits, freshness checks, and cleanups race against each other; the
	// race detector flags any unguarded access to the cache bookkeeping.
	var wg sync.WaitGroup
	for i := 0; i < 99; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			switch i % 3 {
			case 0:
				_, err := a.AnalyzePage(req) // fresh entry, served without a fetch
				assert.NoError(t, err)
			case 1:
				a.IsCached(req)
			default:
				a.cleanup()
			}
		}(i)
	}
	wg.Wait()
}

func TestPageCacheSizeLimit(t *testing.T) {
	a, err := New(t.TempDir())
	require.NoError(t, err)
	defer a.Shutdown()

	a.cacheMutex.Lock()
	for i := 0; i < 10; i++ {
		key := generateCacheKey(PageRequest{URL: "https://example.com/" + strings.Repeat("x", i+1)})
		a.cache[key] = cacheEntry{
			result:    &Result{},
			timestamp: time.Now().Add(-time.Duration(i) * time.Second),
		}
	}
	a.cacheMutex.Unlock()

	a.SetMaxCacheSize(4)
	assert.Equal(t, 4, a.GetCacheStats().Entries)
}
