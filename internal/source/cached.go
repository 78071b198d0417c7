package source

import (
	"context"
	"time"

	"github.com/go-logr/logr"

	"github.com/ppiankov/chronicle/internal/cache"
)

// CachedSource serves dataset text from a cache and fills it on a miss.
// Failed fetches are never cached.
type CachedSource struct {
	inner Source
	cache cache.Cache
	ttl   time.Duration
	log   logr.Logger
}

// NewCachedSource wraps inner; a zero ttl uses the cache default
func NewCachedSource(inner Source, c cache.Cache, ttl time.Duration, log logr.Logger) *CachedSource {
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	return &CachedSource{inner: inner, cache: c, ttl: ttl, log: log}
}

func (s *CachedSource) FetchRawText(ctx context.Context) (string, error) {
	key := cache.Key(s.inner.Name())

	if data, ok := s.cache.Get(key); ok {
		s.log.V(1).Info("dataset cache hit", "source", s.inner.Name())
		return string(data), nil
	}

	text, err := s.inner.FetchRawText(ctx)
	if err != nil {
		return "", err
	}

	if err := s.cache.Set(key, []byte(text), s.ttl); err != nil {
		s.log.Error(err, "failed to cache dataset", "source", s.inner.Name())
	}
	return text, nil
}

func (s *CachedSource) Name() string { return s.inner.Name() }
