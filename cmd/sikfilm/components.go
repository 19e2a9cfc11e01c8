package main

import (
	"context"
	"fmt"

	"github.com/sikfilm/site/internal/colors"
	"github.com/sikfilm/site/internal/config"
	"github.com/sikfilm/site/internal/content"
	"github.com/sikfilm/site/internal/search"
	"github.com/sikfilm/site/internal/storage"
	"go.uber.org/zap"
)

// components holds everything a command may need. Fields a command did not
// ask for stay nil.
type components struct {
	Repo    *content.Repository
	Runner  *colors.Runner
	Index   *search.Index
	Engine  *search.Engine
	Counter storage.Counter
}

type componentSet struct {
	search  bool
	counter bool
	colors  bool
	force   bool
}

func newRepository(cfg *config.Config, logger *zap.Logger) *content.Repository {
	loc, err := cfg.Content.Location()
	if err != nil {
		logger.Warn("unknown timezone, using UTC", zap.String("timezone", cfg.Content.Timezone), zap.Error(err))
	}
	return content.NewRepository(cfg.Content.PostsDir,
		content.WithExtension(cfg.Content.Extension),
		content.WithWordsPerMinute(cfg.Content.WordsPerMinute),
		content.WithLocation(loc),
		content.WithLogger(logger),
	)
}

func initializeComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger, want componentSet) (*components, error) {
	c := &components{Repo: newRepository(cfg, logger)}

	if want.colors {
		source := colors.NewSource(cfg.Content.PublicDir, colors.WithTimeout(cfg.Colors.FetchTimeout))
		c.Runner = colors.NewRunner(c.Repo, source,
			colors.WithForce(want.force),
			colors.WithParams(cfg.Colors.Params),
			colors.WithLogger(logger),
		)
	}

	if want.search {
		idx, err := search.Open(cfg.Search.IndexPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open search index: %w", err)
		}
		c.Index = idx
		c.Engine = search.NewEngine(idx, c.Repo, cfg.Search.DefaultLimit, cfg.Search.MaxLimit)
		n, err := c.Engine.Reindex(ctx)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to build search index: %w", err)
		}
		logger.Debug("search index built", zap.Int("posts", n))
	}

	if want.counter {
		counter, err := storage.Open(cfg.Storage.Backend, cfg.Storage.DatabasePath, cfg.Storage.RedisURL, cfg.Storage.ReactionKinds)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to open %s counter store: %w", cfg.Storage.Backend, err)
		}
		c.Counter = counter
	}
	return c, nil
}

// Close releases the index and counter store.
func (c *components) Close() {
	if c.Index != nil {
		_ = c.Index.Close()
	}
	if c.Counter != nil {
		_ = c.Counter.Close()
	}
}
