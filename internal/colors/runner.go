package colors

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sikfilm/site/internal/content"
	"github.com/sikfilm/site/internal/frontmatter"
	"github.com/sikfilm/site/internal/metrics"
	"go.uber.org/zap"
)

// Outcome is what happened to one post during a run.
type Outcome string

const (
	OutcomeUpdated Outcome = "updated"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// Stats summarises a batch run.
type Stats struct {
	Total    int           `json:"total"`
	Updated  int           `json:"updated"`
	Skipped  int           `json:"skipped"`
	Failed   int           `json:"failed"`
	Duration time.Duration `json:"duration"`
}

func (s *Stats) record(o Outcome) {
	s.Total++
	switch o {
	case OutcomeUpdated:
		s.Updated++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeFailed:
		s.Failed++
	}
}

// Runner writes color pairs into the posts of a repository, one post at a time.
type Runner struct {
	repo   *content.Repository
	source *Source
	params Params
	force  bool
	logger *zap.Logger
	mu     sync.Mutex
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithForce makes the runner overwrite existing color pairs.
func WithForce(force bool) RunnerOption {
	return func(r *Runner) { r.force = force }
}

// WithParams replaces the extraction parameters.
func WithParams(p Params) RunnerOption {
	return func(r *Runner) { r.params = p }
}

// WithLogger sets the logger for per-post results.
func WithLogger(l *zap.Logger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

// NewRunner returns a runner over the posts of repo, loading images from source.
func NewRunner(repo *content.Repository, source *Source, opts ...RunnerOption) *Runner {
	r := &Runner{
		repo:   repo,
		source: source,
		params: DefaultParams(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run processes every post in directory-listing order. Failures are logged and
// counted; only a cancelled context or an unreadable directory stops the run.
func (r *Runner) Run(ctx context.Context) (Stats, error) {
	start := time.Now()
	var stats Stats
	log := r.logger.With(zap.String("run_id", uuid.New().String()))

	paths, err := r.repo.Paths()
	if err != nil {
		return stats, err
	}
	log.Info("color extraction started", zap.Int("posts", len(paths)), zap.Bool("force", r.force))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			stats.Duration = time.Since(start)
			return stats, err
		}
		outcome, _ := r.process(ctx, path, log)
		stats.record(outcome)
	}
	stats.Duration = time.Since(start)
	log.Info("color extraction finished",
		zap.Int("total", stats.Total),
		zap.Int("updated", stats.Updated),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed),
		zap.Duration("duration", stats.Duration),
	)
	return stats, nil
}

// ProcessFile handles a single post file. The returned error is the failure that
// produced OutcomeFailed, if any.
func (r *Runner) ProcessFile(ctx context.Context, path string) (Outcome, error) {
	return r.process(ctx, path, r.logger.With(zap.String("run_id", uuid.New().String())))
}

func (r *Runner) process(ctx context.Context, path string, log *zap.Logger) (Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	outcome, err := r.processLocked(ctx, path, log.With(zap.String("path", path)))
	metrics.TrackColorExtraction(string(outcome), time.Since(start))
	return outcome, err
}

func (r *Runner) processLocked(ctx context.Context, path string, log *zap.Logger) (Outcome, error) {
	info, err := os.Stat(path)
	if err != nil {
		log.Error("stat post", zap.Error(err))
		return OutcomeFailed, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Error("read post", zap.Error(err))
		return OutcomeFailed, err
	}
	text := string(data)

	block, ok := frontmatter.Locate(text)
	if !ok {
		log.Debug("skipping post without front matter")
		return OutcomeSkipped, nil
	}
	md, _ := frontmatter.Parse(text)
	ref := md.String(content.KeyMainImage)
	if ref == "" {
		log.Debug("skipping post without main image")
		return OutcomeSkipped, nil
	}
	hasBg, hasFg := block.HasKey(content.KeyDominantBg), block.HasKey(content.KeyDominantFg)
	if hasBg && hasFg && !r.force {
		log.Debug("skipping post with color pair")
		return OutcomeSkipped, nil
	}

	img, err := r.source.Load(ctx, ref)
	if err != nil {
		log.Error("load cover image", zap.String("image", ref), zap.Error(err))
		return OutcomeFailed, err
	}
	pair := Extract(img, r.params)

	fields := []frontmatter.Field{
		{Key: content.KeyDominantBg, Value: pair.Background},
		{Key: content.KeyDominantFg, Value: pair.Foreground},
	}
	// a lone half of the pair is rewritten together with the new half
	force := r.force || hasBg != hasFg
	updated, changed, err := frontmatter.Upsert(text, fields, force)
	if errors.Is(err, frontmatter.ErrNoFrontMatter) {
		return OutcomeSkipped, nil
	}
	if err != nil {
		log.Error("update front matter", zap.Error(err))
		return OutcomeFailed, err
	}
	if !changed {
		log.Debug("color pair unchanged", zap.String("background", pair.Background))
		return OutcomeSkipped, nil
	}
	if err := os.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
		err = fmt.Errorf("write post: %w", err)
		log.Error("write post", zap.Error(err))
		return OutcomeFailed, err
	}
	log.Info("color pair written",
		zap.String("background", pair.Background),
		zap.String("foreground", pair.Foreground),
	)
	return OutcomeUpdated, nil
}
