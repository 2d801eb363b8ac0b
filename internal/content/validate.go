package content

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedContent is the sentinel wrapped by every shape violation in
// generated content.
var ErrMalformedContent = errors.New("malformed content")

// MalformedError names the offending field of a generated payload.
type MalformedError struct {
	Field  string
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed content: %s: %s", e.Field, e.Reason)
}

func (e *MalformedError) Unwrap() error { return ErrMalformedContent }

// Malformed builds a *MalformedError.
func Malformed(field, reason string) error {
	return &MalformedError{Field: field, Reason: reason}
}

// ValidateItems requires a non-empty reply. Individual items are checked
// with ValidateQuestions when they are picked, so one bad question does not
// hide the rest.
func ValidateItems(items []Item) error {
	if len(items) == 0 {
		return Malformed("questions", "empty")
	}
	return nil
}

// ValidateQuestions requires non-empty text on every question.
func ValidateQuestions(qs []Question) error {
	if len(qs) == 0 {
		return Malformed("questions", "nothing to play")
	}
	for _, q := range qs {
		if strings.TrimSpace(q.Text) == "" {
			return Malformed(fmt.Sprintf("question %q", q.Label), "empty text")
		}
	}
	return nil
}

// ValidateStepGame requires at least one step, each with answers of which
// exactly one is correct.
func ValidateStepGame(g StepGame) error {
	if len(g.Steps) == 0 {
		return Malformed("steps", "empty")
	}
	for i, s := range g.Steps {
		if len(s.Answers) == 0 {
			return Malformed(fmt.Sprintf("steps[%d].answers", i), "empty")
		}
		if n := s.CorrectCount(); n != 1 {
			return Malformed(fmt.Sprintf("steps[%d].answers", i), fmt.Sprintf("%d correct answers, want exactly 1", n))
		}
	}
	return nil
}

// ValidateCurriculum requires at least one objective, each with a unique id
// and a title.
func ValidateCurriculum(c Curriculum) error {
	if len(c) == 0 {
		return Malformed("curriculum", "empty")
	}
	seen := make(map[string]bool, len(c))
	for i, o := range c {
		if o.ID == "" || strings.TrimSpace(o.Title) == "" {
			return Malformed(fmt.Sprintf("curriculum[%d]", i), "missing id or title")
		}
		if seen[o.ID] {
			return Malformed(fmt.Sprintf("curriculum[%d].id", i), fmt.Sprintf("duplicate id %q", o.ID))
		}
		seen[o.ID] = true
	}
	return nil
}

// ValidateLesson requires lesson text and a challenge.
func ValidateLesson(l Lesson) error {
	if strings.TrimSpace(l.Lesson) == "" {
		return Malformed("lesson", "empty")
	}
	if strings.TrimSpace(l.Challenge) == "" {
		return Malformed("challenge", "empty")
	}
	return nil
}

// ValidateEvaluation requires a follow-up challenge on a wrong answer.
func ValidateEvaluation(e Evaluation) error {
	if !e.IsCorrect && strings.TrimSpace(e.NewChallenge) == "" {
		return Malformed("newChallenge", "required when the answer is wrong")
	}
	return nil
}
