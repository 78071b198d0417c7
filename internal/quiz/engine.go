// Package quiz generates multiple-choice questions about records and grades
// the answers.
//
// An Engine moves through Idle -> QuestionPosed -> Answered and back to
// QuestionPosed on Next. The correct value is always among the options:
// it is placed first, distractors fill the remaining slots without
// replacement, and the result is shuffled.
package quiz

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/chronicle/internal/model"
	"github.com/ppiankov/chronicle/internal/stats"
)

// DefaultOptionCount is the number of options offered per question
const DefaultOptionCount = 4

// State is the engine's position in the question lifecycle
type State int

const (
	StateIdle State = iota
	StateQuestionPosed
	StateAnswered
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateQuestionPosed:
		return "question_posed"
	case StateAnswered:
		return "answered"
	default:
		return "unknown"
	}
}

// Engine owns the current question and the session score.
// It is not safe for concurrent use; one owner drives it.
type Engine struct {
	rng         *rand.Rand
	newID       func() string
	optionCount int

	state   State
	current *model.QuizQuestion
	score   int
}

// Option configures an Engine
type Option func(*Engine)

// WithRand sets the random source, mainly for deterministic tests
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// WithOptionCount changes how many options a question offers
func WithOptionCount(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.optionCount = n
		}
	}
}

// WithIDFunc overrides question ID generation
func WithIDFunc(fn func() string) Option {
	return func(e *Engine) {
		e.newID = fn
	}
}

// NewEngine creates an idle engine with a zero score
func NewEngine(opts ...Option) *Engine {
	seed := uint64(time.Now().UnixNano())
	e := &Engine{
		rng:         rand.New(rand.NewPCG(seed, seed>>1|1)),
		newID:       uuid.NewString,
		optionCount: DefaultOptionCount,
		state:       StateIdle,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the current lifecycle state
func (e *Engine) State() State {
	return e.state
}

// Score returns the number of correctly answered questions
func (e *Engine) Score() int {
	return e.score
}

// Current returns a snapshot of the current question, or nil when idle
func (e *Engine) Current() *model.QuizQuestion {
	if e.current == nil {
		return nil
	}
	return snapshot(e.current)
}

// Start poses a new question sampled from records.
// It is allowed from Idle and Answered; a pending question must be answered
// or discarded with Reset first.
func (e *Engine) Start(records []model.Record) (*model.QuizQuestion, error) {
	if e.state == StateQuestionPosed {
		return nil, ErrQuestionPending
	}
	if len(records) == 0 {
		return nil, &EmptyDatasetError{}
	}

	subject := records[e.rng.IntN(len(records))]

	kind := model.KindDynasty
	if e.rng.IntN(2) == 1 {
		kind = model.KindCauseOfDeath
	}
	// A record without a dynasty has nothing to ask about on that axis
	if kind == model.KindDynasty && subject.Dynasty == "" {
		kind = model.KindCauseOfDeath
	}

	var answer string
	var pool []string
	switch kind {
	case model.KindDynasty:
		answer = subject.Dynasty
		pool = stats.Dynasties(records)
	default:
		answer = subject.Cause
		if answer == "" {
			answer = model.CauseUnknown
		}
		pool = model.CauseList()
	}

	e.current = &model.QuizQuestion{
		ID:      e.newID(),
		Subject: subject,
		Kind:    kind,
		Options: e.buildOptions(answer, pool),
		Answer:  answer,
	}
	e.state = StateQuestionPosed

	return snapshot(e.current), nil
}

// Submit grades the selected option against the current question.
// The score increases by one when the answer is correct.
func (e *Engine) Submit(value string) (*model.QuizQuestion, error) {
	switch e.state {
	case StateIdle:
		return nil, ErrNoQuestion
	case StateAnswered:
		return nil, &AlreadyAnsweredError{QuestionID: e.current.ID}
	}

	q := e.current
	if !q.HasOption(value) {
		return nil, &InvalidAnswerError{Value: value, Options: append([]string(nil), q.Options...)}
	}

	correct := value == q.Answer
	answered := value
	q.Answered = &answered
	q.Correct = &correct
	if correct {
		e.score++
	}
	e.state = StateAnswered

	return snapshot(q), nil
}

// Next discards the answered question and poses a new one
func (e *Engine) Next(records []model.Record) (*model.QuizQuestion, error) {
	switch e.state {
	case StateIdle:
		return nil, ErrNoQuestion
	case StateQuestionPosed:
		return nil, ErrQuestionPending
	}
	return e.Start(records)
}

// Reset discards any current question and returns to Idle.
// The score is kept for the lifetime of the engine.
func (e *Engine) Reset() {
	e.current = nil
	e.state = StateIdle
}

// buildOptions returns up to optionCount distinct options that always
// include answer, in random order
func (e *Engine) buildOptions(answer string, pool []string) []string {
	options := make([]string, 0, e.optionCount)
	options = append(options, answer)

	distractors := make([]string, 0, len(pool))
	seen := map[string]bool{answer: true}
	for _, candidate := range pool {
		if candidate != "" && !seen[candidate] {
			seen[candidate] = true
			distractors = append(distractors, candidate)
		}
	}

	e.rng.Shuffle(len(distractors), func(i, j int) {
		distractors[i], distractors[j] = distractors[j], distractors[i]
	})

	for _, d := range distractors {
		if len(options) >= e.optionCount {
			break
		}
		options = append(options, d)
	}

	e.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return options
}

// snapshot copies a question so callers cannot alter engine state
func snapshot(q *model.QuizQuestion) *model.QuizQuestion {
	c := *q
	c.Options = append([]string(nil), q.Options...)
	if q.Answered != nil {
		v := *q.Answered
		c.Answered = &v
	}
	if q.Correct != nil {
		v := *q.Correct
		c.Correct = &v
	}
	return &c
}
