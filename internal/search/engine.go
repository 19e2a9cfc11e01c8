package search

import (
	"context"
	"fmt"
	"time"

	"github.com/sikfilm/site/internal/content"
	"github.com/sikfilm/site/internal/metrics"
	"github.com/sikfilm/site/internal/models"
	"github.com/sikfilm/site/internal/slug"
)

// Engine answers search queries with posts read from the repository.
type Engine struct {
	index        *Index
	repo         *content.Repository
	defaultLimit int
	maxLimit     int
}

// NewEngine creates a search engine. Zero limits fall back to the model defaults.
func NewEngine(index *Index, repo *content.Repository, defaultLimit, maxLimit int) *Engine {
	return &Engine{index: index, repo: repo, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// Reindex rebuilds the index from every post on disk and returns the post count.
func (e *Engine) Reindex(ctx context.Context) (int, error) {
	details, err := e.repo.ListAllDetails()
	if err != nil {
		return 0, fmt.Errorf("load posts: %w", err)
	}
	if err := e.index.Rebuild(ctx, details); err != nil {
		return 0, err
	}
	if n, err := e.index.DocCount(); err == nil {
		metrics.SetIndexedDocuments(n)
	}
	return len(details), nil
}

// IndexFile refreshes the post stored at path. A file that no longer resolves
// to a post triggers a full Reindex, since its indexed slug may come from
// metadata that is gone.
func (e *Engine) IndexFile(ctx context.Context, path string) error {
	fileSlug, ok := slug.FromFilename(path, e.repo.Extension())
	if !ok {
		return nil
	}
	detail, found, err := e.repo.GetBySlug(fileSlug)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	if !found {
		_, err := e.Reindex(ctx)
		return err
	}
	if err := e.index.Index(ctx, detail); err != nil {
		return err
	}
	if n, err := e.index.DocCount(); err == nil {
		metrics.SetIndexedDocuments(n)
	}
	return nil
}

// Search validates query, runs it and resolves hits to posts. Hits whose post
// disappeared since indexing are dropped.
func (e *Engine) Search(ctx context.Context, query *models.SearchQuery) (*models.SearchResponse, error) {
	start := time.Now()
	if err := query.Validate(e.defaultLimit, e.maxLimit); err != nil {
		return nil, err
	}

	hits, total, err := e.index.Search(ctx, query.Query, query.Limit, query.Category)
	if err != nil {
		return nil, err
	}

	posts, err := e.repo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("load posts: %w", err)
	}
	bySlug := make(map[string]*models.Post, len(posts))
	for _, p := range posts {
		bySlug[p.Slug] = p
	}

	resp := &models.SearchResponse{
		Results: make([]*models.SearchResult, 0, len(hits)),
		Total:   total,
		Query:   query.Query,
	}
	for _, hit := range hits {
		p, ok := bySlug[hit.Slug]
		if !ok {
			continue
		}
		resp.Results = append(resp.Results, &models.SearchResult{
			Post:  p,
			Score: hit.Score,
			Rank:  len(resp.Results) + 1,
		})
	}
	resp.QueryTime = time.Since(start).Milliseconds()
	return resp, nil
}
