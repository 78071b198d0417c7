// Package explorer owns the state of one browsing session: the loaded
// record set, the active filter and the quiz.
package explorer

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/sync/singleflight"

	"github.com/ppiankov/chronicle/internal/dataset"
	"github.com/ppiankov/chronicle/internal/filter"
	"github.com/ppiankov/chronicle/internal/model"
	"github.com/ppiankov/chronicle/internal/quiz"
	"github.com/ppiankov/chronicle/internal/report"
	"github.com/ppiankov/chronicle/internal/source"
	"github.com/ppiankov/chronicle/internal/stats"
)

// snapshot is an immutable loaded record set
type snapshot struct {
	source   string
	columns  []string
	records  []model.Record
	loadedAt time.Time
}

// Session holds the record set snapshot, the filter criteria and the quiz
// engine. Snapshots are swapped atomically; criteria and quiz calls are
// serialized by the session.
type Session struct {
	current atomic.Pointer[snapshot]
	loads   singleflight.Group

	mu       sync.Mutex
	criteria model.FilterCriteria
	engine   *quiz.Engine
	pageSize int

	log logr.Logger
	now func() time.Time
}

// Option configures a Session
type Option func(*Session)

func WithLogger(log logr.Logger) Option {
	return func(s *Session) {
		if log.GetSink() != nil {
			s.log = log
		}
	}
}

// WithQuizEngine replaces the default engine, mainly for seeded tests
func WithQuizEngine(e *quiz.Engine) Option {
	return func(s *Session) {
		s.engine = e
	}
}

// WithPageSize sets the page size used when Page is called with size <= 0
func WithPageSize(size int) Option {
	return func(s *Session) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

// NewSession creates a session with an empty record set
func NewSession(opts ...Option) *Session {
	s := &Session{
		engine:   quiz.NewEngine(),
		pageSize: filter.DefaultPageSize,
		log:      logr.Discard(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.current.Store(&snapshot{records: []model.Record{}})
	return s
}

// Load fetches and parses src and installs the result. A failed fetch
// installs an empty record set and returns the error for the caller to
// report. Concurrent loads of the same source share one fetch.
func (s *Session) Load(ctx context.Context, src source.Source) (int, error) {
	v, err, shared := s.loads.Do(src.Name(), func() (any, error) {
		text, err := src.FetchRawText(ctx)
		if err != nil {
			return nil, err
		}
		return &snapshot{
			source:   src.Name(),
			columns:  dataset.Headers(text),
			records:  dataset.Parse(text),
			loadedAt: s.now(),
		}, nil
	})
	if err != nil {
		s.log.Error(err, "dataset load failed, continuing with an empty record set", "source", src.Name())
		s.current.Store(&snapshot{source: src.Name(), records: []model.Record{}, loadedAt: s.now()})
		return 0, fmt.Errorf("load %s: %w", src.Name(), err)
	}

	snap := v.(*snapshot)
	s.current.Store(snap)
	s.log.V(1).Info("dataset loaded", "source", snap.source, "records", len(snap.records), "shared", shared)
	return len(snap.records), nil
}

// Replace installs records directly, bypassing any source
func (s *Session) Replace(name string, records []model.Record) {
	s.current.Store(&snapshot{
		source:   name,
		records:  append([]model.Record(nil), records...),
		loadedAt: s.now(),
	})
}

// Records returns a copy of the current record set
func (s *Session) Records() []model.Record {
	return append([]model.Record(nil), s.current.Load().records...)
}

// SourceName returns the name of the source the current set came from
func (s *Session) SourceName() string {
	return s.current.Load().source
}

// Columns returns the header columns of the current set
func (s *Session) Columns() []string {
	return append([]string(nil), s.current.Load().columns...)
}

// Summary aggregates the full record set, ignoring the filter
func (s *Session) Summary() model.Summary {
	return stats.Aggregate(s.current.Load().records)
}

// Report builds a report over the full record set
func (s *Session) Report() *model.Report {
	snap := s.current.Load()
	r := report.Build(snap.source, snap.records, s.now())
	r.Columns = append([]string(nil), snap.columns...)
	return r
}

// SetCriteria replaces the active filter
func (s *Session) SetCriteria(c model.FilterCriteria) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = c
}

// Criteria returns the active filter
func (s *Session) Criteria() model.FilterCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria
}

// Visible returns the records passing the active filter, in load order
func (s *Session) Visible() []model.Record {
	return filter.Apply(s.current.Load().records, s.Criteria())
}

// Page returns one page of the visible records
func (s *Session) Page(page, size int) filter.Page {
	if size <= 0 {
		size = s.pageSize
	}
	return filter.Paginate(s.Visible(), page, size)
}

// StartQuiz poses a question drawn from the full record set
func (s *Session) StartQuiz() (*model.QuizQuestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Start(s.current.Load().records)
}

// Answer grades value against the current question
func (s *Session) Answer(value string) (*model.QuizQuestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Submit(value)
}

// NextQuestion poses a new question after the current one was answered
func (s *Session) NextQuestion() (*model.QuizQuestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Next(s.current.Load().records)
}

// CurrentQuestion returns the posed question, or nil
func (s *Session) CurrentQuestion() *model.QuizQuestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Current()
}

// ResetQuiz discards the current question; the score is kept
func (s *Session) ResetQuiz() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Reset()
}

// Score returns the number of correct answers in this session
func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Score()
}
