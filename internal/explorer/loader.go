package explorer

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/ppiankov/chronicle/internal/cache"
	"github.com/ppiankov/chronicle/internal/llm"
	"github.com/ppiankov/chronicle/internal/model"
	"github.com/ppiankov/chronicle/internal/source"
	"github.com/ppiankov/chronicle/internal/worker"
)

// Loader loads a dataset location into a fresh session and reports on it.
// It satisfies worker.Loader for batch runs.
type Loader struct {
	Config   model.SourceConfig
	Cache    cache.Cache
	Limiter  *worker.Limiter
	Narrator *llm.Narrator
	Logger   logr.Logger
}

var _ worker.Loader = (*Loader)(nil)

// Source builds the source for location from the loader's collaborators
func (l *Loader) Source(location string) (source.Source, error) {
	return source.New(l.Config, location, source.Options{
		Cache:   l.Cache,
		Limiter: l.Limiter,
		Logger:  l.Logger,
	})
}

// Session loads location into a new session
func (l *Loader) Session(ctx context.Context, location string, opts ...Option) (*Session, error) {
	src, err := l.Source(location)
	if err != nil {
		return nil, err
	}

	sess := NewSession(append([]Option{WithLogger(l.Logger)}, opts...)...)
	if _, err := sess.Load(ctx, src); err != nil {
		return sess, err
	}
	return sess, nil
}

// Load loads location and returns its report, with a narrative when a
// narrator is configured
func (l *Loader) Load(ctx context.Context, location string) (*model.Report, error) {
	sess, err := l.Session(ctx, location)
	if err != nil {
		return nil, err
	}

	rep := sess.Report()
	if l.Narrator.IsEnabled() {
		narrative, err := l.Narrator.Generate(ctx, *rep)
		if err != nil {
			return nil, fmt.Errorf("narrate: %w", err)
		}
		rep.Narrative = narrative
	}
	return rep, nil
}
