// Package reportsearch provides full-text search over a session's archived reports.
package reportsearch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	blevequery "github.com/blevesearch/bleve/v2/search/query"
	"github.com/hyperjump/integrity/internal/models"
)

// DefaultLimit caps results when the caller passes a non-positive limit.
const DefaultLimit = 20

// Options tune a search. Nil means defaults.
type Options struct {
	// TitleBoost multiplies filename matches. Values <= 1 search both fields with one query.
	TitleBoost float64
	// Fuzzy enables typo-tolerant term matching.
	Fuzzy bool
	// Fuzziness is the maximum edit distance when Fuzzy is set. Default 1.
	Fuzziness int
}

// Hit is one matching report.
type Hit struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

type reportDoc struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Index is an in-memory Bleve index keyed by record id.
type Index struct {
	mu    sync.RWMutex
	index bleve.Index
}

func newMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	doc := bleve.NewDocumentMapping()
	text := bleve.NewTextFieldMapping()
	// No stemming, so a query for a student's name matches exactly.
	text.Analyzer = standard.Name
	doc.AddFieldMappingsAt("title", text)
	doc.AddFieldMappingsAt("content", text)
	im.DefaultMapping = doc
	return im
}

// New creates an empty index.
func New() (*Index, error) {
	idx, err := bleve.NewMemOnly(newMapping())
	if err != nil {
		return nil, fmt.Errorf("create report index: %w", err)
	}
	return &Index{index: idx}, nil
}

// Add indexes rec's filename and text under its id. Re-adding an id replaces it.
func (i *Index) Add(rec *models.AnalysisRecord) error {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if err := i.index.Index(rec.ID, reportDoc{Title: normalizeTitle(rec.Filename), Content: rec.Text}); err != nil {
		return fmt.Errorf("index report %s: %w", rec.ID, err)
	}
	return nil
}

// titleSeparators split a filename into words; the standard analyzer keeps
// "alice_essay" as one token.
var titleSeparators = strings.NewReplacer("_", " ", "-", " ", ".", " ")

// normalizeTitle drops the extension and splits the filename into words, so
// "alice_essay.docx" is searchable as "alice" and "essay".
func normalizeTitle(filename string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	return titleSeparators.Replace(base)
}

// Delete removes the report with id.
func (i *Index) Delete(id string) error {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.index.Delete(id)
}

// Clear drops every indexed report.
func (i *Index) Clear() error {
	fresh, err := bleve.NewMemOnly(newMapping())
	if err != nil {
		return fmt.Errorf("reset report index: %w", err)
	}
	i.mu.Lock()
	old := i.index
	i.index = fresh
	i.mu.Unlock()
	return old.Close()
}

// Len returns the number of indexed reports.
func (i *Index) Len() (uint64, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.index.DocCount()
}

// Close releases the index.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.index.Close()
}

// Search returns up to limit report ids matching query, best first.
func (i *Index) Search(ctx context.Context, query string, limit int, opts *Options) ([]Hit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Hit{}, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	titleBoost := 1.0
	fuzzy := false
	fuzziness := 1
	if opts != nil {
		if opts.TitleBoost > 0 {
			titleBoost = opts.TitleBoost
		}
		fuzzy = opts.Fuzzy
		if opts.Fuzziness > 0 {
			fuzziness = opts.Fuzziness
		}
	}

	titleQuery := titleSeparators.Replace(query)

	i.mu.RLock()
	defer i.mu.RUnlock()
	if titleBoost <= 1.0 {
		q := bleve.NewDisjunctionQuery(
			buildQuery(titleQuery, "title", fuzzy, fuzziness),
			buildQuery(query, "content", fuzzy, fuzziness),
		)
		res, err := i.run(ctx, q, limit)
		if err != nil {
			return nil, err
		}
		out := make([]Hit, len(res.Hits))
		for n, h := range res.Hits {
			out[n] = Hit{ID: h.ID, Score: h.Score}
		}
		return out, nil
	}

	// Separate field queries merged additively so filename hits outrank body-only hits.
	reqSize := limit * 2
	if reqSize < 50 {
		reqSize = 50
	}
	titleRes, err := i.run(ctx, buildQuery(titleQuery, "title", fuzzy, fuzziness), reqSize)
	if err != nil {
		return nil, err
	}
	contentRes, err := i.run(ctx, buildQuery(query, "content", fuzzy, fuzziness), reqSize)
	if err != nil {
		return nil, err
	}
	scores := make(map[string]float64)
	for _, h := range titleRes.Hits {
		scores[h.ID] += h.Score * titleBoost
	}
	for _, h := range contentRes.Hits {
		scores[h.ID] += h.Score
	}
	out := make([]Hit, 0, len(scores))
	for id, s := range scores {
		out = append(out, Hit{ID: id, Score: s})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Score != out[b].Score {
			return out[a].Score > out[b].Score
		}
		return out[a].ID < out[b].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (i *Index) run(ctx context.Context, q blevequery.Query, size int) (*bleve.SearchResult, error) {
	req := bleve.NewSearchRequest(q)
	req.Size = size
	res, err := i.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("report search failed: %w", err)
	}
	return res, nil
}

// buildQuery matches query against field.
func buildQuery(query, field string, fuzzy bool, fuzziness int) blevequery.Query {
	terms := strings.Fields(strings.ToLower(query))
	if !fuzzy || len(terms) == 0 {
		mq := bleve.NewMatchQuery(query)
		mq.SetField(field)
		return mq
	}
	queries := make([]blevequery.Query, 0, len(terms))
	for _, term := range terms {
		fq := bleve.NewFuzzyQuery(term)
		fq.SetFuzziness(fuzziness)
		fq.SetField(field)
		queries = append(queries, fq)
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewDisjunctionQuery(queries...)
}
