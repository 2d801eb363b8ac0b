// Package session is the tutor's state machine. It takes learner intents and
// collaborator results as Events, mutates its own state, and hands blocking
// work back to its owner as Effects. It performs no I/O itself.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/goat/internal/analytics"
	"github.com/abhisek/goat/internal/content"
	"github.com/abhisek/goat/internal/game"
	"github.com/abhisek/goat/internal/generation"
)

// Screen is a state of the session.
type Screen string

const (
	ScreenHome            Screen = "home"
	ScreenLoading         Screen = "loading"
	ScreenSelecting       Screen = "selecting"
	ScreenGenerating      Screen = "generating"
	ScreenGame            Screen = "game"
	ScreenComplete        Screen = "complete"
	ScreenSolution        Screen = "solution"
	ScreenTopicIntake     Screen = "topic_intake"
	ScreenTopicCurriculum Screen = "topic_curriculum"
	ScreenTopicLesson     Screen = "topic_lesson"
	ScreenTopicQuiz       Screen = "topic_quiz"
)

// IsTopic reports whether the screen belongs to the topic-mastery flow.
func (s Screen) IsTopic() bool {
	switch s {
	case ScreenTopicIntake, ScreenTopicCurriculum, ScreenTopicLesson, ScreenTopicQuiz:
		return true
	}
	return false
}

// Busy names the request a topic screen is waiting on.
type Busy int

const (
	BusyNone Busy = iota
	BusyCurriculum
	BusyLesson
	BusyEvaluation
	BusyQuiz
)

// Generator is the set of collaborators the session calls. Implementations
// must be safe for concurrent use; step games are requested in parallel.
type Generator interface {
	Questions(ctx context.Context, hw generation.Homework) ([]content.Item, error)
	Solution(ctx context.Context, hw generation.Homework) (string, error)
	StepGame(ctx context.Context, q content.Question) (content.StepGame, error)
	MasteryQuiz(ctx context.Context, c content.Curriculum) (content.StepGame, error)
	Curriculum(ctx context.Context, painPoint string) (content.Curriculum, error)
	Lesson(ctx context.Context, objectiveTitle string) (content.Lesson, error)
	Evaluate(ctx context.Context, in generation.EvaluationInput) (content.Evaluation, error)
}

// Config holds session timing.
type Config struct {
	// RequestTimeout bounds each collaborator request. Zero means no limit.
	RequestTimeout time.Duration
	// QuizFailureDelay is how long the quiz failure notice stays up before
	// the session returns home.
	QuizFailureDelay time.Duration
	Game             game.Config
}

func DefaultConfig() Config {
	return Config{
		RequestTimeout:   90 * time.Second,
		QuizFailureDelay: 3 * time.Second,
		Game:             game.DefaultConfig(),
	}
}

// Session holds the state of one learner's visit. It is not safe for
// concurrent use: Handle must be called from a single goroutine.
type Session struct {
	gen     Generator
	tracker analytics.Tracker
	cfg     Config
	now     func() time.Time

	screen Screen
	// epoch is bumped whenever in-flight results become irrelevant.
	epoch     int
	err       error
	notice    string
	startedAt time.Time

	// Homework flow.
	items      []content.Item
	solution   string
	selected   content.Item
	pack       content.GamePack
	engine     *game.Engine
	lastResult *content.GameResult
	completed  content.IDSet

	// Topic flow.
	busy       Busy
	painPoint  string
	curriculum content.Curriculum
	mastered   content.IDSet
	objective  content.Objective
	lesson     *content.Lesson
	challenge  string
	visual     *content.VisualSpec
	feedback   string
	attempts   int
}

// New creates a session on the home screen. A nil tracker discards events.
func New(gen Generator, tracker analytics.Tracker, cfg Config) *Session {
	if tracker == nil {
		tracker = analytics.Discard{}
	}
	return &Session{
		gen:     gen,
		tracker: tracker,
		cfg:     cfg,
		now:     time.Now,
		screen:  ScreenHome,
	}
}

// Start records the start of the visit.
func (s *Session) Start() {
	s.startedAt = s.now()
	s.tracker.Track(analytics.EventSessionStart, nil)
}

// End records the end of the visit with its length in seconds.
func (s *Session) End() {
	if s.startedAt.IsZero() {
		return
	}
	secs := int(s.now().Sub(s.startedAt).Round(time.Second) / time.Second)
	s.tracker.Track(analytics.EventSessionEnd, map[string]any{"session_length_seconds": secs})
}

// Handle applies ev and returns the follow-up work, if any. Events that do
// not apply to the current screen, and results from a superseded epoch,
// are ignored.
func (s *Session) Handle(ev Event) *Effect {
	switch ev := ev.(type) {
	case SubmitHomework:
		return s.submitHomework(ev)
	case questionsReady:
		return s.onQuestions(ev)
	case solutionReady:
		return s.onSolution(ev)
	case SelectItem:
		return s.selectItem(ev.Index)
	case packReady:
		return s.onPack(ev)
	case SubmitAnswer:
		return s.submitAnswer(ev.Index)
	case transitionDue:
		return s.onTransition(ev)
	case Continue:
		if s.screen == ScreenComplete {
			s.screen = ScreenSelecting
		}
	case Back:
		s.back()
	case GoHome:
		s.reset()
	case DismissError:
		if s.err != nil {
			s.reset()
		}

	case StartTopic:
		s.startTopic()
	case SubmitPainPoint:
		return s.submitPainPoint(ev.Text)
	case curriculumReady:
		s.onCurriculum(ev)
	case SelectObjective:
		return s.selectObjective(ev.ID)
	case RetryLesson:
		if s.screen == ScreenTopicLesson && s.busy == BusyNone && s.lesson == nil {
			return s.fetchLesson()
		}
	case lessonReady:
		s.onLesson(ev)
	case SubmitLessonAnswer:
		return s.submitLessonAnswer(ev.Answer)
	case evaluationReady:
		return s.onEvaluation(ev)
	case BackToCurriculum:
		s.backToCurriculum()
	case quizReady:
		return s.onQuiz(ev)
	case quizFailureElapsed:
		if ev.epoch == s.epoch {
			s.reset()
		}
	}
	return nil
}

// back leaves the current screen for its parent. Leaving a screen that is
// waiting on a request abandons the request.
func (s *Session) back() {
	switch s.screen {
	case ScreenGame:
		s.abandonGame()
		s.screen = ScreenSelecting
	case ScreenGenerating:
		s.epoch++
		s.screen = ScreenSelecting
	case ScreenComplete:
		s.screen = ScreenSelecting
	case ScreenHome:
	default:
		s.reset()
	}
}

// reset returns every screen-scoped field to its initial value. The
// completion sets survive; they belong to the whole visit.
func (s *Session) reset() {
	s.epoch++
	if s.engine != nil {
		s.engine.Cancel()
	}
	s.screen = ScreenHome
	s.err = nil
	s.notice = ""

	s.items = nil
	s.solution = ""
	s.selected = content.Item{}
	s.pack = nil
	s.engine = nil
	s.lastResult = nil

	s.busy = BusyNone
	s.painPoint = ""
	s.curriculum = nil
	s.clearLesson()
}

// request wraps run in an Effect bounded by the request timeout.
func (s *Session) request(run func(ctx context.Context) Event) *Effect {
	timeout := s.cfg.RequestTimeout
	return &Effect{Run: func(ctx context.Context) Event {
		ctx, cancel := withTimeout(ctx, timeout)
		defer cancel()
		return run(ctx)
	}}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func (s *Session) Screen() Screen { return s.screen }

// Err returns the stored error, or nil.
func (s *Session) Err() error { return s.err }

// ErrorMessage returns the stored error as shown to the learner.
func (s *Session) ErrorMessage() string { return UserMessage(s.err) }

// ShowErrorView reports whether the stored error replaces the whole screen.
// That happens on the home and selection screens only; a missing-input
// error is shown next to the input instead.
func (s *Session) ShowErrorView() bool {
	if s.err == nil || errors.Is(s.err, ErrNoInput) {
		return false
	}
	return s.screen == ScreenHome || s.screen == ScreenSelecting
}

// Notice is a non-error message for the learner, such as a finished quiz.
func (s *Session) Notice() string { return s.notice }

func (s *Session) Items() []content.Item { return s.items }
func (s *Session) Solution() string      { return s.solution }

// Selected returns the item being played or last played.
func (s *Session) Selected() (content.Item, bool) {
	_, single := s.selected.Question()
	return s.selected, single || s.selected.IsPack()
}

// Pack returns the generated game pack, nil until every step game is ready.
func (s *Session) Pack() content.GamePack { return s.pack }

// Game returns the engine of the running game or mastery quiz.
func (s *Session) Game() *game.Engine { return s.engine }

func (s *Session) LastResult() *content.GameResult { return s.lastResult }

// Completed returns the ids of every question solved during the visit.
func (s *Session) Completed() content.IDSet { return s.completed }

// IsCompleted reports whether every question of it has been solved.
func (s *Session) IsCompleted(it content.Item) bool {
	return s.completed.ItemCompleted(it)
}

func (s *Session) Busy() Busy                     { return s.busy }
func (s *Session) PainPoint() string              { return s.painPoint }
func (s *Session) Curriculum() content.Curriculum { return s.curriculum }
func (s *Session) Mastered() content.IDSet        { return s.mastered }

// Objective returns the objective whose lesson is open.
func (s *Session) Objective() content.Objective { return s.objective }

// Lesson returns the loaded lesson, or nil while it loads or after it
// failed to load.
func (s *Session) Lesson() *content.Lesson { return s.lesson }

// Challenge returns the challenge currently set, which changes after every
// wrong answer.
func (s *Session) Challenge() string { return s.challenge }

func (s *Session) Visual() *content.VisualSpec { return s.visual }

// Feedback returns the evaluator's feedback on the last wrong answer.
func (s *Session) Feedback() string { return s.feedback }

// Attempts counts evaluated answers for the open lesson.
func (s *Session) Attempts() int { return s.attempts }
