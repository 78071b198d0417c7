package model

// QuestionKind selects which field of the subject a question asks about
type QuestionKind string

const (
	KindDynasty      QuestionKind = "dynasty"
	KindCauseOfDeath QuestionKind = "causeOfDeath"
)

// Prompt returns the human-readable name of the asked field
func (k QuestionKind) Prompt() string {
	switch k {
	case KindDynasty:
		return "dynasty"
	case KindCauseOfDeath:
		return "cause of death"
	default:
		return string(k)
	}
}

// QuizQuestion is a multiple-choice question about one record.
// Answered and Correct stay nil until the question is graded.
type QuizQuestion struct {
	ID       string       `json:"id"`
	Subject  Record       `json:"subject"`
	Kind     QuestionKind `json:"kind"`
	Options  []string     `json:"options"`
	Answer   string       `json:"-"` // True value for Kind
	Answered *string      `json:"answered,omitempty"`
	Correct  *bool        `json:"correct,omitempty"`
}

// IsAnswered reports whether the question has been graded
func (q *QuizQuestion) IsAnswered() bool {
	return q.Answered != nil
}

// HasOption reports whether value is one of the posed options
func (q *QuizQuestion) HasOption(value string) bool {
	for _, o := range q.Options {
		if o == value {
			return true
		}
	}
	return false
}
