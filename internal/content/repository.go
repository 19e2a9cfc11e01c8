// Package content loads blog posts from a directory of front-matter documents.
package content

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/araddon/dateparse"
	"github.com/sikfilm/site/internal/frontmatter"
	"github.com/sikfilm/site/internal/models"
	"github.com/sikfilm/site/internal/slug"
	"go.uber.org/zap"
)

const (
	DefaultExtension      = ".mdx"
	DefaultWordsPerMinute = 200
	DefaultRelatedLimit   = 3
	DefaultLatestLimit    = 5
)

// Metadata keys read from a post's front matter.
const (
	KeySlug        = "slug"
	KeyTitle       = "title"
	KeyDescription = "description"
	KeyPublishedAt = "publishedAt"
	KeyPin         = "pin"
	KeyCategories  = "categories"
	KeyMood        = "mood"
	KeyMainImage   = "mainImage"
	KeyLQIP        = "lqip"
	KeyDominantBg  = "dominantBg"
	KeyDominantFg  = "dominantFg"
	KeyBilibili    = "bilibili"
	KeyDouyin      = "douyin"
	KeyKuaishou    = "kuaishou"
)

// Repository reads posts from disk on every call. It keeps no cache.
type Repository struct {
	dir      string
	ext      string
	wpm      int
	location *time.Location
	parser   *frontmatter.Parser
	logger   *zap.Logger
}

// Option configures a Repository.
type Option func(*Repository)

// WithExtension sets the document file extension (default ".mdx").
func WithExtension(ext string) Option {
	return func(r *Repository) {
		if ext != "" {
			r.ext = ext
		}
	}
}

// WithWordsPerMinute sets the reading speed used for reading time.
func WithWordsPerMinute(wpm int) Option {
	return func(r *Repository) {
		if wpm > 0 {
			r.wpm = wpm
		}
	}
}

// WithLocation sets the timezone used to interpret publishedAt values without one.
func WithLocation(loc *time.Location) Option {
	return func(r *Repository) {
		if loc != nil {
			r.location = loc
		}
	}
}

// WithLogger sets a logger for skipped files and parse warnings.
func WithLogger(l *zap.Logger) Option {
	return func(r *Repository) { r.logger = l }
}

// NewRepository returns a repository over the posts in dir.
func NewRepository(dir string, opts ...Option) *Repository {
	r := &Repository{
		dir:      dir,
		ext:      DefaultExtension,
		wpm:      DefaultWordsPerMinute,
		location: time.UTC,
		parser:   frontmatter.NewParser(KeyCategories),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Dir returns the posts directory.
func (r *Repository) Dir() string { return r.dir }

// Extension returns the document file extension.
func (r *Repository) Extension() string { return r.ext }

// ListAll returns every post, pinned first, then newest first. A missing
// directory is an empty blog, not an error.
func (r *Repository) ListAll() ([]*models.Post, error) {
	details, err := r.ListAllDetails()
	if err != nil {
		return nil, err
	}
	posts := make([]*models.Post, len(details))
	for i, d := range details {
		posts[i] = &d.Post
	}
	return posts, nil
}

// ListAllDetails is ListAll with bodies and headings.
func (r *Repository) ListAllDetails() ([]*models.PostDetail, error) {
	entries, err := r.documentEntries()
	if err != nil {
		return nil, err
	}
	details := make([]*models.PostDetail, 0, len(entries))
	for _, e := range entries {
		fileSlug, _ := slug.FromFilename(e.Name(), r.ext)
		d, err := r.load(filepath.Join(r.dir, e.Name()), fileSlug)
		if errors.Is(err, fs.ErrNotExist) {
			// removed between listing and reading
			continue
		}
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	SortPosts(details)
	return details, nil
}

// GetBySlug resolves the post stored as <slug><ext>. A missing file reports
// false with no error.
func (r *Repository) GetBySlug(s string) (*models.PostDetail, bool, error) {
	path, ok := slug.Path(r.dir, s, r.ext)
	if !ok {
		return nil, false, nil
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return nil, false, nil
	}
	d, err := r.load(path, s)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return d, true, nil
}

// Related returns up to limit other posts sharing a category with post, in
// ListAll order.
func (r *Repository) Related(post *models.Post, limit int) ([]*models.Post, error) {
	all, err := r.ListAll()
	if err != nil {
		return nil, err
	}
	return SelectRelated(post, all, limit), nil
}

// Latest returns the first limit posts of ListAll.
func (r *Repository) Latest(limit int) ([]*models.Post, error) {
	all, err := r.ListAll()
	if err != nil {
		return nil, err
	}
	if limit >= 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

// ListSlugs returns the slug of every document file without reading any of them.
func (r *Repository) ListSlugs() ([]string, error) {
	entries, err := r.documentEntries()
	if err != nil {
		return nil, err
	}
	slugs := make([]string, 0, len(entries))
	for _, e := range entries {
		if s, ok := slug.FromFilename(e.Name(), r.ext); ok {
			slugs = append(slugs, s)
		}
	}
	return slugs, nil
}

// Paths returns the path of every document file in directory-listing order.
func (r *Repository) Paths() ([]string, error) {
	entries, err := r.documentEntries()
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = filepath.Join(r.dir, e.Name())
	}
	return paths, nil
}

// IsDocument reports whether path names a document file by its extension.
func (r *Repository) IsDocument(path string) bool {
	_, ok := slug.FromFilename(path, r.ext)
	return ok
}

func (r *Repository) documentEntries() ([]fs.DirEntry, error) {
	entries, err := os.ReadDir(r.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read posts dir: %w", err)
	}
	out := entries[:0]
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := slug.FromFilename(e.Name(), r.ext); ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *Repository) load(path, fileSlug string) (*models.PostDetail, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read post %s: %w", filepath.Base(path), err)
	}
	md, body := r.parser.Parse(string(data))
	if md.Len() == 0 {
		r.logger.Debug("post has no front matter", zap.String("path", path))
	}
	d := &models.PostDetail{
		Post:     r.toPost(md, fileSlug),
		Body:     body,
		Headings: Headings(body),
	}
	d.ReadingTime = ReadingTime(body, r.wpm)
	return d, nil
}

func (r *Repository) toPost(md *frontmatter.Metadata, fileSlug string) models.Post {
	s := md.String(KeySlug)
	if s == "" {
		s = fileSlug
	}
	p := models.Post{
		ID:          s,
		Slug:        s,
		Title:       md.String(KeyTitle),
		Description: md.String(KeyDescription),
		PublishedAt: md.String(KeyPublishedAt),
		Pin:         md.String(KeyPin) == "true",
		Categories:  md.List(KeyCategories),
		Mood:        models.ParseMood(md.String(KeyMood)),
		MainImage: models.MainImage{
			URL:  md.String(KeyMainImage),
			LQIP: md.String(KeyLQIP),
		},
		Bilibili: md.String(KeyBilibili),
		Douyin:   md.String(KeyDouyin),
		Kuaishou: md.String(KeyKuaishou),
	}
	bg, hasBg := md.Get(KeyDominantBg)
	fg, hasFg := md.Get(KeyDominantFg)
	if hasBg && hasFg {
		p.MainImage.Dominant = &models.DominantColors{Background: bg, Foreground: fg}
	}
	if p.PublishedAt != "" {
		t, err := dateparse.ParseIn(p.PublishedAt, r.location)
		if err != nil {
			r.logger.Warn("unparseable publishedAt", zap.String("slug", s), zap.String("value", p.PublishedAt))
		} else {
			p.Published = t
		}
	}
	return p
}

// SortPosts orders posts pinned first, then by publish time descending. Ties keep
// their input order.
func SortPosts(posts []*models.PostDetail) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		if a.Pin != b.Pin {
			return a.Pin
		}
		return a.Published.After(b.Published)
	})
}

// SelectRelated picks up to limit candidates other than target that share a
// category with it, keeping candidate order.
func SelectRelated(target *models.Post, candidates []*models.Post, limit int) []*models.Post {
	related := []*models.Post{}
	if target == nil || len(target.Categories) == 0 || limit <= 0 {
		return related
	}
	for _, c := range candidates {
		if len(related) >= limit {
			break
		}
		if c.Slug == target.Slug {
			continue
		}
		if target.SharesCategory(c) {
			related = append(related, c)
		}
	}
	return related
}
