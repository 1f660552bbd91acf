package domain

import "fmt"

const (
	// GeneratedQuizQuestions is the fixed size requested from the generative
	// capability. The scorer accepts any non-empty length.
	GeneratedQuizQuestions = 5
	QuizOptionsPerQuestion = 4
)

type Question struct {
	Prompt        string   `json:"question"`
	Options       []string `json:"options"`
	CorrectOption string   `json:"correctAnswer"`
}

type Quiz struct {
	Questions []Question `json:"questions"`
}

// QuizAttempt maps question index to the selected option. Indices absent
// from the map are unanswered and score as incorrect.
type QuizAttempt map[int]string

// Validate enforces the structural invariant: a non-empty question sequence
// where every question has exactly QuizOptionsPerQuestion distinct options
// and exactly one of them equals CorrectOption.
func (q *Quiz) Validate() error {
	if q == nil || len(q.Questions) == 0 {
		return fmt.Errorf("quiz has no questions")
	}
	for i, question := range q.Questions {
		if question.Prompt == "" {
			return fmt.Errorf("question %d: empty prompt", i)
		}
		if len(question.Options) != QuizOptionsPerQuestion {
			return fmt.Errorf("question %d: expected %d options, got %d", i, QuizOptionsPerQuestion, len(question.Options))
		}
		seen := make(map[string]struct{}, len(question.Options))
		matches := 0
		for _, opt := range question.Options {
			if _, dup := seen[opt]; dup {
				return fmt.Errorf("question %d: duplicate option %q", i, opt)
			}
			seen[opt] = struct{}{}
			if opt == question.CorrectOption {
				matches++
			}
		}
		if matches != 1 {
			return fmt.Errorf("question %d: correct answer must match exactly one option, matched %d", i, matches)
		}
	}
	return nil
}
