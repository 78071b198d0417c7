package quiz

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is matching against the typed errors below
var (
	ErrEmptyDataset    = errors.New("quiz: dataset is empty")
	ErrInvalidAnswer   = errors.New("quiz: answer is not one of the options")
	ErrAlreadyAnswered = errors.New("quiz: question already answered")
	ErrNoQuestion      = errors.New("quiz: no question posed")
	ErrQuestionPending = errors.New("quiz: current question not answered yet")
)

// EmptyDatasetError is returned when a question is requested from an empty record set
type EmptyDatasetError struct{}

func (e *EmptyDatasetError) Error() string { return ErrEmptyDataset.Error() }

func (e *EmptyDatasetError) Is(target error) bool { return target == ErrEmptyDataset }

// InvalidAnswerError is returned when the submitted value was not posed as an option
type InvalidAnswerError struct {
	Value   string
	Options []string
}

func (e *InvalidAnswerError) Error() string {
	return fmt.Sprintf("quiz: %q is not one of the options %q", e.Value, e.Options)
}

func (e *InvalidAnswerError) Is(target error) bool { return target == ErrInvalidAnswer }

// AlreadyAnsweredError is returned when a graded question is submitted again
type AlreadyAnsweredError struct {
	QuestionID string
}

func (e *AlreadyAnsweredError) Error() string {
	return fmt.Sprintf("quiz: question %s already answered", e.QuestionID)
}

func (e *AlreadyAnsweredError) Is(target error) bool { return target == ErrAlreadyAnswered }
