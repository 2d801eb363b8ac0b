package session

import (
	"context"
	"time"

	"github.com/abhisek/goat/internal/content"
	"github.com/abhisek/goat/internal/game"
	"github.com/abhisek/goat/internal/generation"
)

// Event is anything the session reacts to: a learner intent or the result
// of an Effect.
type Event interface {
	event()
}

// Effect is work the owner must run on the session's behalf, after waiting
// After, and feed the returned Event back into Handle. Run may block on
// network I/O and must not touch session state.
type Effect struct {
	After time.Duration
	Run   func(ctx context.Context) Event
}

// Mode picks what to do with submitted homework.
type Mode int

const (
	ModeGame Mode = iota
	ModeSolution
)

func (m Mode) String() string {
	if m == ModeSolution {
		return "solution"
	}
	return "game"
}

// Learner intents.
type (
	// SubmitHomework sends homework from the home screen.
	SubmitHomework struct {
		Homework generation.Homework
		Mode     Mode
	}
	// SelectItem picks a question or pack on the selection screen.
	SelectItem struct{ Index int }
	// SubmitAnswer picks an answer of the current step.
	SubmitAnswer struct{ Index int }
	// Continue leaves the completion screen for the selection screen.
	Continue struct{}
	// Back leaves the current screen for its parent.
	Back struct{}
	// GoHome resets everything and returns home.
	GoHome struct{}
	// DismissError is the "try again" action of the error view.
	DismissError struct{}

	// StartTopic opens the topic-mastery intake.
	StartTopic struct{}
	// SubmitPainPoint asks for a curriculum.
	SubmitPainPoint struct{ Text string }
	// SelectObjective opens the lesson for an objective.
	SelectObjective struct{ ID string }
	// SubmitLessonAnswer answers the current challenge.
	SubmitLessonAnswer struct{ Answer string }
	// RetryLesson refetches a lesson that failed to load.
	RetryLesson struct{}
	// BackToCurriculum leaves a lesson without mastering it.
	BackToCurriculum struct{}
)

func (SubmitHomework) event()     {}
func (SelectItem) event()         {}
func (SubmitAnswer) event()       {}
func (Continue) event()           {}
func (Back) event()               {}
func (GoHome) event()             {}
func (DismissError) event()       {}
func (StartTopic) event()         {}
func (SubmitPainPoint) event()    {}
func (SelectObjective) event()    {}
func (SubmitLessonAnswer) event() {}
func (RetryLesson) event()        {}
func (BackToCurriculum) event()   {}

// Effect results. Each carries the epoch it was issued in; results from an
// older epoch are dropped.
type (
	questionsReady struct {
		epoch int
		items []content.Item
		err   error
	}
	solutionReady struct {
		epoch int
		text  string
		err   error
	}
	packReady struct {
		epoch int
		pack  content.GamePack
		err   error
	}
	transitionDue struct {
		epoch int
		t     game.Transition
	}
	curriculumReady struct {
		epoch      int
		curriculum content.Curriculum
		err        error
	}
	lessonReady struct {
		epoch  int
		lesson content.Lesson
		err    error
	}
	evaluationReady struct {
		epoch int
		eval  content.Evaluation
		err   error
	}
	quizReady struct {
		epoch int
		game  content.StepGame
		err   error
	}
	quizFailureElapsed struct {
		epoch int
	}
)

func (questionsReady) event()     {}
func (solutionReady) event()      {}
func (packReady) event()          {}
func (transitionDue) event()      {}
func (curriculumReady) event()    {}
func (lessonReady) event()        {}
func (evaluationReady) event()    {}
func (quizReady) event()          {}
func (quizFailureElapsed) event() {}
