package analyzer

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/codebytaaron/SEO-Content-Optimizer/stats"
)

// AnalyzeDocument runs the full analysis pipeline over one document:
// normalization, tokenization, sentence splitting, readability, heading
// extraction, keyword metrics, and the suggestion rules. It is a pure
// function of its input, never fails on string inputs, and is safe for
// concurrent use.
func AnalyzeDocument(req Request) *Result {
	raw := req.Content
	text := NormalizeText(raw)
	words := TokenizeWords(text)
	sentences := SplitSentences(text)

	wordCount := len(words)
	sentenceCount := len(sentences)

	avgWPS := math.Round(float64(wordCount)/float64(max(1, sentenceCount))*100) / 100

	flesch := FleschReadingEase(words, sentences)
	headings := ExtractHeadings(raw)
	kw, flags := keywordMetrics(words, req.TargetKeyword, req.RelatedKeywords)

	suggestions := makeSuggestions(&suggestionInput{
		raw:       raw,
		words:     words,
		sentences: sentences,
		headings:  headings,
		keywords:  kw,
		flags:     flags,
		metaTitle: req.MetaTitle,
		metaDesc:  req.MetaDescription,
	})

	return &Result{
		Stats: ContentStats{
			WordCount:      wordCount,
			CharacterCount: utf8.RuneCountInString(text),
			SentenceCount:  sentenceCount,
			ParagraphCount: len(SplitParagraphs(raw)),
		},
		Keywords: kw,
		Headings: headings,
		Readability: Readability{
			FleschReadingEase:   flesch,
			Level:               ReadingLevel(flesch),
			AvgWordsPerSentence: avgWPS,
		},
		Suggestions: suggestions,
	}
}

// cacheEntry holds one cached page analysis with its insertion time.
type cacheEntry struct {
	result    *Result
	timestamp time.Time
}

// CacheStats provides statistics about the page-analysis cache.
type CacheStats struct {
	Entries     int           `json:"entries"`
	CacheHits   int           `json:"cacheHits"`
	CacheMisses int           `json:"cacheMisses"`
	CacheTTL    time.Duration `json:"cacheTTL"`
}

// Analyzer runs document analyses and fetches published pages for analysis,
// caching page results by URL. Document analysis itself is stateless; the
// Analyzer only adds the HTTP client, the cache, and usage counters.
type Analyzer struct {
	client          *http.Client
	cache           map[string]cacheEntry
	cacheMutex      sync.RWMutex
	cacheTTL        time.Duration
	maxCacheSize    int
	lastCleanup     time.Time
	cleanupInterval time.Duration
	stats           *stats.Storage
}

// New creates a new Analyzer instance. Usage counters are persisted under
// dataDir.
func New(dataDir string) (*Analyzer, error) {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DisableCompression:  false,
	}

	statsStorage, err := stats.NewStorage(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize stats storage: %w", err)
	}

	analyzer := &Analyzer{
		client: &http.Client{
			Timeout:   15 * time.Second,
			Transport: transport,
		},
		cache:           make(map[string]cacheEntry),
		cacheTTL:        30 * time.Minute,
		maxCacheSize:    1000,
		cleanupInterval: 5 * time.Minute,
		lastCleanup:     time.Now(),
		stats:           statsStorage,
	}

	go analyzer.periodicCleanup()

	return analyzer, nil
}

// Analyze runs the document pipeline and records the analysis in the usage
// counters.
func (a *Analyzer) Analyze(req Request) *Result {
	result := AnalyzeDocument(req)
	a.stats.IncrementStats(1, 0, 0, 0)
	return result
}

// AnalyzePage fetches the page at req.URL and analyzes its visible content,
// serving repeat requests from the cache while the entry is fresh.
func (a *Analyzer) AnalyzePage(req PageRequest) (*Result, error) {
	// lastCleanup is written by cleanup under the cache mutex.
	a.cacheMutex.RLock()
	cleanupDue := time.Since(a.lastCleanup) > a.cleanupInterval
	a.cacheMutex.RUnlock()
	if cleanupDue {
		go a.cleanup()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cacheKey := generateCacheKey(req)
	a.cacheMutex.RLock()
	if entry, found := a.cache[cacheKey]; found {
		if time.Since(entry.timestamp) < a.cacheTTL {
			a.stats.IncrementStats(0, 0, 1, 0)
			a.cacheMutex.RUnlock()
			return entry.result, nil
		}
	}
	a.cacheMutex.RUnlock()

	a.stats.IncrementStats(0, 0, 0, 1)

	result, err := a.AnalyzePageWithContext(ctx, req)
	if err != nil {
		return nil, err
	}

	a.cacheMutex.Lock()
	a.cache[cacheKey] = cacheEntry{
		result:    result,
		timestamp: time.Now(),
	}
	a.cacheMutex.Unlock()

	return result, nil
}

// AnalyzePageWithContext fetches and analyzes a page without consulting the
// cache.
func (a *Analyzer) AnalyzePageWithContext(ctx context.Context, req PageRequest) (*Result, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, err
	}

	// Some sites block requests without a user agent.
	httpReq.Header.Set("User-Agent", "ContentOptimizer/1.0")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetch %s: status %d", req.URL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	metaTitle := strings.TrimSpace(doc.Find("title").First().Text())
	metaDesc, _ := doc.Find("meta[name='description']").Attr("content")

	a.stats.IncrementStats(0, 1, 0, 0)

	return a.Analyze(Request{
		Content:         extractPageContent(doc),
		TargetKeyword:   req.TargetKeyword,
		RelatedKeywords: req.RelatedKeywords,
		MetaTitle:       metaTitle,
		MetaDescription: strings.TrimSpace(metaDesc),
	}), nil
}

// extractPageContent rebuilds a markdown-ish document from the page so the
// document pipeline sees the same structure an author would submit: heading
// tags become '#' heading lines, paragraphs become blank-line-separated
// blocks, both in document order.
func extractPageContent(doc *goquery.Document) string {
	var b strings.Builder
	doc.Find("h1, h2, h3, h4, h5, h6, p").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		name := goquery.NodeName(s)
		if len(name) == 2 && name[0] == 'h' && name[1] >= '1' && name[1] <= '6' {
			b.WriteString(strings.Repeat("#", int(name[1]-'0')))
			b.WriteString(" ")
		}
		b.WriteString(text)
		b.WriteString("\n\n")
	})
	return strings.TrimSpace(b.String())
}

// generateCacheKey creates a unique key for a page request. The keyword
// fields participate because they change the resulting metrics.
func generateCacheKey(req PageRequest) string {
	hash := md5.Sum([]byte(req.URL + "\x00" + req.TargetKeyword + "\x00" + req.RelatedKeywords))
	return hex.EncodeToString(hash[:])
}

// IsCached checks whether a page request has a fresh cache entry.
func (a *Analyzer) IsCached(req PageRequest) bool {
	cacheKey := generateCacheKey(req)
	a.cacheMutex.RLock()
	defer a.cacheMutex.RUnlock()

	entry, found := a.cache[cacheKey]
	return found && time.Since(entry.timestamp) < a.cacheTTL
}

// ClearCache drops every cached page analysis.
func (a *Analyzer) ClearCache() {
	a.cacheMutex.Lock()
	defer a.cacheMutex.Unlock()
	a.cache = make(map[string]cacheEntry)
}

// SetCacheTTL sets the page cache TTL.
func (a *Analyzer) SetCacheTTL(ttl time.Duration) {
	a.cacheMutex.Lock()
	defer a.cacheMutex.Unlock()
	a.cacheTTL = ttl
}

// SetMaxCacheSize sets the maximum number of cached page analyses.
func (a *Analyzer) SetMaxCacheSize(size int) {
	a.cacheMutex.Lock()
	a.maxCacheSize = size
	a.cacheMutex.Unlock()
	a.cleanup() // Run cleanup immediately if the new size is smaller
}

// GetCacheStats returns statistics about the page cache.
func (a *Analyzer) GetCacheStats() CacheStats {
	currentStats := a.stats.GetCurrentStats()

	a.cacheMutex.RLock()
	entries := len(a.cache)
	ttl := a.cacheTTL
	a.cacheMutex.RUnlock()

	return CacheStats{
		Entries:     entries,
		CacheHits:   currentStats.PageCacheHits,
		CacheMisses: currentStats.PageCacheMisses,
		CacheTTL:    ttl,
	}
}

// periodicCleanup removes expired cache entries on an interval.
func (a *Analyzer) periodicCleanup() {
	ticker := time.NewTicker(a.cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		a.cleanup()
	}
}

// cleanup removes expired entries and enforces the cache size limit,
// evicting oldest first.
func (a *Analyzer) cleanup() {
	now := time.Now()

	a.cacheMutex.Lock()
	defer a.cacheMutex.Unlock()

	for key, entry := range a.cache {
		if now.Sub(entry.timestamp) > a.cacheTTL {
			delete(a.cache, key)
		}
	}

	if len(a.cache) > a.maxCacheSize {
		entries := make([]struct {
			key       string
			timestamp time.Time
		}, 0, len(a.cache))

		for key, entry := range a.cache {
			entries = append(entries, struct {
				key       string
				timestamp time.Time
			}{key, entry.timestamp})
		}

		sort.Slice(entries, func(i, j int) bool {
			return entries[i].timestamp.Before(entries[j].timestamp)
		})

		for i := 0; i < len(entries)-a.maxCacheSize; i++ {
			delete(a.cache, entries[i].key)
		}
	}

	a.lastCleanup = now
}

// GetStats returns the statistics storage instance.
func (a *Analyzer) GetStats() *stats.Storage {
	return a.stats
}

// Shutdown flushes usage counters and drops the cache.
func (a *Analyzer) Shutdown() error {
	if a == nil {
		return nil
	}

	if a.stats != nil {
		if err := a.stats.Shutdown(); err != nil {
			return fmt.Errorf("failed to shutdown stats storage: %w", err)
		}
	}

	a.cacheMutex.Lock()
	a.cache = nil
	a.cacheMutex.Unlock()

	return nil
}
