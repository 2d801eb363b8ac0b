package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/goat/internal/content"
	"github.com/abhisek/goat/internal/llm"
)

// ErrNoInput is returned when homework has neither text nor an image. It is
// caught before any request is made.
var ErrNoInput = errors.New("no input provided")

// Collaborator operations, used in CollaboratorError.
const (
	OpQuestions   = "questions"
	OpSolution    = "solution"
	OpStepGame    = "step-game"
	OpCurriculum  = "curriculum"
	OpLesson      = "lesson"
	OpEvaluation  = "evaluation"
	OpMasteryQuiz = "mastery-quiz"
)

// CollaboratorError is a failed request to a generation or evaluation
// service. Label names the (sub-)question a step game was requested for.
type CollaboratorError struct {
	Op    string
	Label string
	Err   error
}

func (e *CollaboratorError) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("%s %q: %v", e.Op, e.Label, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

var opMessages = map[string]string{
	OpQuestions:   "Failed to parse questions.",
	OpSolution:    "Failed to generate solution.",
	OpCurriculum:  "Failed to generate curriculum.",
	OpLesson:      "Failed to generate lesson.",
	OpEvaluation:  "Failed to evaluate answer.",
	OpMasteryQuiz: "Failed to generate the mastery quiz.",
}

// UserMessage converts an error into the single message shown to the
// learner.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrNoInput) {
		return "Please type your homework or attach a photo with @path/to/photo.jpg."
	}

	var detail string
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		detail = "The request timed out."
	case errors.Is(err, content.ErrMalformedContent):
		detail = "AI returned an invalid format."
	default:
		detail = llm.Describe(err)
	}

	var ce *CollaboratorError
	if !errors.As(err, &ce) {
		if detail == "" {
			return "Something went wrong. Please try again."
		}
		return detail
	}

	base := opMessages[ce.Op]
	if ce.Op == OpStepGame {
		base = fmt.Sprintf("Failed to generate game for %q.", ce.Label)
	}
	if base == "" {
		base = "Something went wrong."
	}
	if detail == "" {
		return base
	}
	return base + " " + detail
}
