package colors

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder
)

const (
	DefaultFetchTimeout = 20 * time.Second
	defaultMaxBytes     = 32 << 20
)

var (
	// ErrNoImage is returned when an image reference resolves to nothing.
	ErrNoImage = errors.New("image not found")
	// ErrNotImage is returned when the payload is not an image.
	ErrNotImage = errors.New("payload is not an image")
)

// Source loads cover images from remote URLs or from the public directory.
type Source struct {
	publicDir string
	client    *http.Client
	timeout   time.Duration
	maxBytes  int64
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithHTTPClient replaces the client used for remote images.
func WithHTTPClient(c *http.Client) SourceOption {
	return func(s *Source) { s.client = c }
}

// WithTimeout bounds each remote fetch.
func WithTimeout(d time.Duration) SourceOption {
	return func(s *Source) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithMaxBytes caps how much of an image is read.
func WithMaxBytes(n int64) SourceOption {
	return func(s *Source) {
		if n > 0 {
			s.maxBytes = n
		}
	}
}

// NewSource returns a Source resolving local references against publicDir.
func NewSource(publicDir string, opts ...SourceOption) *Source {
	s := &Source{
		publicDir: publicDir,
		client:    http.DefaultClient,
		timeout:   DefaultFetchTimeout,
		maxBytes:  defaultMaxBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsRemote reports whether ref is fetched over HTTP.
func IsRemote(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Fetch returns the raw bytes behind ref.
func (s *Source) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if ref == "" {
		return nil, ErrNoImage
	}
	if IsRemote(ref) {
		return s.fetchRemote(ctx, ref)
	}
	return s.readLocal(ref)
}

// Load fetches ref, checks that it is an image and decodes it.
func (s *Source) Load(ctx context.Context, ref string) (image.Image, error) {
	data, err := s.Fetch(ctx, ref)
	if err != nil {
		return nil, err
	}
	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, fmt.Errorf("%w: %s", ErrNotImage, mtype.String())
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", mtype.String(), err)
	}
	return img, nil
}

func (s *Source) fetchRemote(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return data, nil
}

func (s *Source) readLocal(ref string) ([]byte, error) {
	path := filepath.Join(s.publicDir, filepath.FromSlash(ref))
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoImage, path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, s.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
