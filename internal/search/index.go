// Package search provides full-text search over posts.
package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	blevequery "github.com/blevesearch/bleve/v2/search/query"
	"github.com/sikfilm/site/internal/models"
)

// Hit is a single index match.
type Hit struct {
	Slug  string
	Score float64
}

// indexedPost is the shape stored in Bleve. Field names follow the json tags.
type indexedPost struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Body        string   `json:"body"`
	Categories  []string `json:"categories"`
}

func toIndexed(d *models.PostDetail) *indexedPost {
	return &indexedPost{
		Title:       d.Title,
		Description: d.Description,
		Body:        d.Body,
		Categories:  d.Categories,
	}
}

// Index is a Bleve index of posts keyed by slug.
type Index struct {
	index bleve.Index
}

// Open opens the index at path, creating it when missing. An empty path
// gives an in-memory index that lives as long as the process.
func Open(path string) (*Index, error) {
	if path == "" {
		idx, err := bleve.NewMemOnly(buildMapping())
		if err != nil {
			return nil, fmt.Errorf("create in-memory index: %w", err)
		}
		return &Index{index: idx}, nil
	}

	idx, err := bleve.Open(path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		idx, err = bleve.New(path, buildMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	return &Index{index: idx}, nil
}

func buildMapping() mapping.IndexMapping {
	// Standard analyzer: lowercase + tokenize, no stemming. CJK text is split
	// per ideograph by the unicode tokenizer.
	text := bleve.NewTextFieldMapping()
	text.Analyzer = standard.Name

	category := bleve.NewTextFieldMapping()
	category.Analyzer = keyword.Name

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("title", text)
	doc.AddFieldMappingsAt("description", text)
	doc.AddFieldMappingsAt("body", text)
	doc.AddFieldMappingsAt("categories", category)

	im := bleve.NewIndexMapping()
	im.AddDocumentMapping("post", doc)
	im.DefaultMapping = doc
	return im
}

// Index adds or replaces a post.
func (i *Index) Index(ctx context.Context, d *models.PostDetail) error {
	if err := i.index.Index(d.Slug, toIndexed(d)); err != nil {
		return fmt.Errorf("index %s: %w", d.Slug, err)
	}
	return nil
}

// Delete removes a post by slug. Deleting an unknown slug is not an error.
func (i *Index) Delete(ctx context.Context, slug string) error {
	return i.index.Delete(slug)
}

// Rebuild replaces the whole index content with details in one batch.
func (i *Index) Rebuild(ctx context.Context, details []*models.PostDetail) error {
	existing, err := i.allIDs()
	if err != nil {
		return err
	}
	keep := make(map[string]struct{}, len(details))
	batch := i.index.NewBatch()
	for _, d := range details {
		keep[d.Slug] = struct{}{}
		if err := batch.Index(d.Slug, toIndexed(d)); err != nil {
			return fmt.Errorf("batch index %s: %w", d.Slug, err)
		}
	}
	for _, id := range existing {
		if _, ok := keep[id]; !ok {
			batch.Delete(id)
		}
	}
	if err := i.index.Batch(batch); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

func (i *Index) allIDs() ([]string, error) {
	n, err := i.index.DocCount()
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	req := bleve.NewSearchRequestOptions(bleve.NewMatchAllQuery(), int(n), 0, false)
	res, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	ids := make([]string, len(res.Hits))
	for k, hit := range res.Hits {
		ids[k] = hit.ID
	}
	return ids, nil
}

// Search matches query against title, description, body and categories and
// returns at most limit hits, best first. A non-empty category keeps only
// posts carrying that exact category.
func (i *Index) Search(ctx context.Context, query string, limit int, category string) ([]Hit, int, error) {
	var q blevequery.Query = bleve.NewMatchQuery(query)
	if category != "" {
		cq := bleve.NewTermQuery(category)
		cq.SetField("categories")
		q = bleve.NewConjunctionQuery(q, cq)
	}
	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	res, err := i.index.Search(req)
	if err != nil {
		return nil, 0, fmt.Errorf("search: %w", err)
	}
	hits := make([]Hit, len(res.Hits))
	for k, hit := range res.Hits {
		hits[k] = Hit{Slug: hit.ID, Score: hit.Score}
	}
	return hits, int(res.Total), nil
}

// DocCount returns the number of indexed posts.
func (i *Index) DocCount() (uint64, error) {
	return i.index.DocCount()
}

// Close closes the index.
func (i *Index) Close() error {
	return i.index.Close()
}
