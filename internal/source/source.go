// Package source retrieves the raw delimited text of a dataset.
package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-logr/logr"

	"github.com/ppiankov/chronicle/internal/cache"
	"github.com/ppiankov/chronicle/internal/model"
	"github.com/ppiankov/chronicle/internal/worker"
)

// ErrTooLarge is returned when a dataset exceeds the configured size limit.
// A partial dataset is never returned.
var ErrTooLarge = errors.New("dataset exceeds size limit")

// Source yields the full dataset text in one piece
type Source interface {
	FetchRawText(ctx context.Context) (string, error)
	Name() string
}

// StaticSource serves text held in memory
type StaticSource struct {
	name string
	text string
}

func NewStaticSource(name, text string) *StaticSource {
	return &StaticSource{name: name, text: text}
}

func (s *StaticSource) FetchRawText(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.text, nil
}

func (s *StaticSource) Name() string { return s.name }

// FileSource reads a dataset from the local filesystem
type FileSource struct {
	path     string
	maxBytes int64
}

// NewFileSource creates a file source; maxBytes <= 0 means no limit
func NewFileSource(path string, maxBytes int64) *FileSource {
	return &FileSource{path: path, maxBytes: maxBytes}
}

func (s *FileSource) FetchRawText(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	info, err := os.Stat(s.path)
	if err != nil {
		return "", fmt.Errorf("stat dataset: %w", err)
	}
	if s.maxBytes > 0 && info.Size() > s.maxBytes {
		return "", fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrTooLarge, s.path, info.Size(), s.maxBytes)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("read dataset: %w", err)
	}
	return string(data), nil
}

func (s *FileSource) Name() string { return s.path }

// Options carries the shared collaborators used by New
type Options struct {
	Cache   cache.Cache
	Limiter *worker.Limiter
	Logger  logr.Logger
}

// New picks the source for location: HTTP for http(s) URLs, a file otherwise.
// HTML table conversion and caching are layered on top per cfg.
func New(cfg model.SourceConfig, location string, opts Options) (Source, error) {
	if location == "" {
		location = cfg.Location
	}
	if location == "" {
		return nil, fmt.Errorf("no dataset location given")
	}

	var src Source
	if IsRemote(location) {
		httpSrc, err := NewHTTPSource(location, cfg,
			WithLimiter(opts.Limiter),
			WithLogger(opts.Logger),
		)
		if err != nil {
			return nil, err
		}
		src = httpSrc
	} else {
		src = NewFileSource(location, cfg.MaxBodyBytes)
	}

	if cfg.HTMLTable || looksLikeHTML(location) {
		src = NewHTMLTableSource(src)
	}

	if opts.Cache != nil && IsRemote(location) {
		src = NewCachedSource(src, opts.Cache, 0, opts.Logger)
	}

	return src, nil
}

// IsRemote reports whether location is an http(s) URL
func IsRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func looksLikeHTML(location string) bool {
	lower := strings.ToLower(location)
	if i := strings.IndexAny(lower, "?#"); i >= 0 {
		lower = lower[:i]
	}
	return strings.HasSuffix(lower, ".html") || strings.HasSuffix(lower, ".htm")
}
