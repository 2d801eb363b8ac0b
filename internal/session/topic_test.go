package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/abhisek/goat/internal/analytics"
	"github.com/abhisek/goat/internal/content"
)

func topicGen() *fakeGen {
	return &fakeGen{
		curriculum: content.Curriculum{
			{ID: "o1", Title: "Equivalent fractions"},
			{ID: "o2", Title: "Common denominators"},
			{ID: "o3", Title: "Adding fractions"},
		},
		lesson: content.Lesson{
			Lesson:    "Fractions name parts of a whole.",
			Visual:    &content.VisualSpec{Type: content.VisualLatex, Data: json.RawMessage(`{"latex":"\\frac{1}{2}"}`)},
			Challenge: "What is 1/2 + 1/2?",
		},
		quiz: oneStep("fractions", ""),
	}
}

func startCurriculum(t *testing.T, s *Session) {
	t.Helper()
	send(s, StartTopic{})
	if s.Screen() != ScreenTopicIntake {
		t.Fatalf("expected intake, got %s", s.Screen())
	}
	send(s, SubmitPainPoint{Text: "  adding fractions  "})
	if s.Screen() != ScreenTopicCurriculum || len(s.Curriculum()) != 3 {
		t.Fatalf("screen = %s, curriculum = %v (err %v)", s.Screen(), s.Curriculum(), s.Err())
	}
	if s.PainPoint() != "adding fractions" {
		t.Errorf("pain point = %q", s.PainPoint())
	}
}

func master(t *testing.T, s *Session, id string) {
	t.Helper()
	send(s, SelectObjective{ID: id})
	if s.Screen() != ScreenTopicLesson || s.Lesson() == nil {
		t.Fatalf("lesson for %s not loaded: screen %s, err %v", id, s.Screen(), s.Err())
	}
	send(s, SubmitLessonAnswer{Answer: "1"})
}

func TestTopicMasteryFlow(t *testing.T) {
	gen := topicGen()
	s, tr := newTestSession(gen)
	startCurriculum(t, s)

	master(t, s, "o1")
	if s.Screen() != ScreenTopicCurriculum || !s.Mastered().Has("o1") {
		t.Fatalf("screen = %s, mastered = %v", s.Screen(), s.Mastered().Sorted())
	}
	master(t, s, "o2")
	if s.Screen() != ScreenTopicCurriculum || s.Mastered().Len() != 2 {
		t.Fatalf("screen = %s, mastered = %v", s.Screen(), s.Mastered().Sorted())
	}

	master(t, s, "o3")
	if s.Screen() != ScreenTopicQuiz {
		t.Fatalf("expected the mastery quiz, got %s (err %v)", s.Screen(), s.Err())
	}
	if s.Game().Title() != "Mastery Quiz" {
		t.Errorf("quiz title = %q", s.Game().Title())
	}

	send(s, SubmitAnswer{Index: 0})
	if s.Screen() != ScreenHome || s.Notice() != QuizCompleteNotice {
		t.Fatalf("screen = %s, notice = %q", s.Screen(), s.Notice())
	}
	if s.Curriculum() != nil || s.Game() != nil {
		t.Fatal("finishing the quiz resets the topic flow")
	}

	if tr.count(analytics.EventObjectiveMastered) != 3 || tr.count(analytics.EventMasteryQuizReady) != 1 {
		t.Fatalf("events = %+v", tr.events)
	}
	ev, _ := tr.find(analytics.EventCurriculumGenerated)
	if ev.props["objective_count"] != 3 {
		t.Fatalf("curriculum_generated = %+v", ev.props)
	}
	if _, ok := tr.find(analytics.EventTopicStarted); !ok {
		t.Fatal("topic_started not tracked")
	}
}

func TestMasteryQuizFailureReturnsHome(t *testing.T) {
	gen := topicGen()
	gen.quizErr = errors.New("upstream down")
	gen.curriculum = gen.curriculum[:1]
	s, _ := newTestSession(gen)

	send(s, StartTopic{})
	send(s, SubmitPainPoint{Text: "fractions"})
	send(s, SelectObjective{ID: "o1"})

	eval := s.Handle(SubmitLessonAnswer{Answer: "1"})
	quiz := s.Handle(eval.Run(context.Background()))
	if quiz == nil || s.Busy() != BusyQuiz {
		t.Fatalf("expected a quiz request, busy = %v", s.Busy())
	}
	wait := s.Handle(quiz.Run(context.Background()))
	if wait == nil || wait.After != DefaultConfig().QuizFailureDelay {
		t.Fatalf("expected a delayed return home, got %+v", wait)
	}
	if s.Notice() != QuizFailureNotice || s.Err() == nil {
		t.Fatalf("notice = %q, err = %v", s.Notice(), s.Err())
	}
	if s.ShowErrorView() {
		t.Error("topic errors are shown inline")
	}

	drive(s, wait)
	if s.Screen() != ScreenHome || s.Err() != nil {
		t.Fatalf("screen = %s, err = %v", s.Screen(), s.Err())
	}
}

func TestQuizFailureTimerIgnoredAfterGoingHome(t *testing.T) {
	gen := topicGen()
	gen.quizErr = errors.New("upstream down")
	gen.curriculum = gen.curriculum[:1]
	s, _ := newTestSession(gen)
	send(s, StartTopic{})
	send(s, SubmitPainPoint{Text: "fractions"})
	send(s, SelectObjective{ID: "o1"})
	eval := s.Handle(SubmitLessonAnswer{Answer: "1"})
	quiz := s.Handle(eval.Run(context.Background()))
	wait := s.Handle(quiz.Run(context.Background()))

	send(s, GoHome{})
	send(s, StartTopic{})
	drive(s, wait)
	if s.Screen() != ScreenTopicIntake {
		t.Fatalf("stale timer must not reset a new topic, got %s", s.Screen())
	}
}

func TestNoLessonWhileQuizFailureIsShown(t *testing.T) {
	gen := topicGen()
	gen.quizErr = errors.New("upstream down")
	gen.curriculum = gen.curriculum[:1]
	s, _ := newTestSession(gen)
	send(s, StartTopic{})
	send(s, SubmitPainPoint{Text: "fractions"})
	send(s, SelectObjective{ID: "o1"})
	eval := s.Handle(SubmitLessonAnswer{Answer: "1"})
	quiz := s.Handle(eval.Run(context.Background()))
	wait := s.Handle(quiz.Run(context.Background()))
	calls := gen.callCount()

	if eff := s.Handle(SelectObjective{ID: "o1"}); eff != nil {
		t.Fatal("no lesson request expected while the quiz failure is shown")
	}
	if s.Screen() != ScreenTopicCurriculum || s.Lesson() != nil || gen.callCount() != calls {
		t.Fatalf("screen = %s, calls = %v", s.Screen(), gen.calls)
	}

	drive(s, wait)
	if s.Screen() != ScreenHome {
		t.Fatalf("expected home after the delay, got %s", s.Screen())
	}
}

func TestWrongLessonAnswerReplacesChallenge(t *testing.T) {
	gen := topicGen()
	chart := &content.VisualSpec{Type: content.VisualChart, Data: json.RawMessage(`{"type":"bar"}`)}
	gen.evals = []content.Evaluation{{
		IsCorrect:    false,
		Feedback:     "Add the numerators only.",
		NewChallenge: "What is 1/4 + 1/4?",
		Visual:       chart,
	}}
	s, _ := newTestSession(gen)
	startCurriculum(t, s)
	send(s, SelectObjective{ID: "o1"})

	if s.Challenge() != "What is 1/2 + 1/2?" || s.Visual().Type != content.VisualLatex {
		t.Fatalf("challenge = %q, visual = %+v", s.Challenge(), s.Visual())
	}

	send(s, SubmitLessonAnswer{Answer: "2/4"})
	if s.Screen() != ScreenTopicLesson {
		t.Fatalf("a wrong answer stays on the lesson, got %s", s.Screen())
	}
	if s.Feedback() != "Add the numerators only." || s.Challenge() != "What is 1/4 + 1/4?" {
		t.Fatalf("feedback = %q, challenge = %q", s.Feedback(), s.Challenge())
	}
	if s.Visual() != chart || s.Attempts() != 1 {
		t.Fatalf("visual = %+v, attempts = %d", s.Visual(), s.Attempts())
	}
	if s.Mastered().Has("o1") {
		t.Fatal("a wrong answer must not master the objective")
	}

	send(s, SubmitLessonAnswer{Answer: "2/4"})
	if !s.Mastered().Has("o1") || s.Screen() != ScreenTopicCurriculum {
		t.Fatal("a correct answer masters the objective")
	}
}

func TestLessonErrorsAreInline(t *testing.T) {
	gen := topicGen()
	gen.lessonErr = errors.New("boom")
	s, _ := newTestSession(gen)
	startCurriculum(t, s)

	send(s, SelectObjective{ID: "o2"})
	if s.Screen() != ScreenTopicLesson || s.Lesson() != nil || s.Err() == nil {
		t.Fatalf("screen = %s, err = %v", s.Screen(), s.Err())
	}
	if got := s.ErrorMessage(); got != "Failed to generate lesson." {
		t.Fatalf("message = %q", got)
	}
	if eff := s.Handle(SubmitLessonAnswer{Answer: "x"}); eff != nil {
		t.Fatal("no answer can be judged without a lesson")
	}

	gen.lessonErr = nil
	send(s, RetryLesson{})
	if s.Lesson() == nil || s.Err() != nil {
		t.Fatalf("retry failed: err %v", s.Err())
	}

	gen.evalErr = errors.New("evaluator down")
	send(s, SubmitLessonAnswer{Answer: "x"})
	if s.Screen() != ScreenTopicLesson || s.Lesson() == nil || s.Challenge() == "" {
		t.Fatal("an evaluation error keeps the learner on the lesson")
	}
	if got := s.ErrorMessage(); got != "Failed to evaluate answer." {
		t.Fatalf("message = %q", got)
	}
}

func TestBackToCurriculumDropsLesson(t *testing.T) {
	gen := topicGen()
	s, _ := newTestSession(gen)
	startCurriculum(t, s)

	eff := s.Handle(SelectObjective{ID: "o1"})
	send(s, BackToCurriculum{})
	drive(s, eff)
	if s.Screen() != ScreenTopicCurriculum || s.Lesson() != nil || s.Busy() != BusyNone {
		t.Fatalf("screen = %s, busy = %v", s.Screen(), s.Busy())
	}
	if s.Mastered().Len() != 0 {
		t.Fatal("leaving a lesson must not master it")
	}
}

func TestNewPainPointResetsMastered(t *testing.T) {
	gen := topicGen()
	s, _ := newTestSession(gen)
	startCurriculum(t, s)
	master(t, s, "o1")

	send(s, Back{})
	if s.Screen() != ScreenHome {
		t.Fatalf("back from the curriculum goes home, got %s", s.Screen())
	}
	startCurriculum(t, s)
	if s.Mastered().Len() != 0 {
		t.Fatalf("mastered = %v", s.Mastered().Sorted())
	}
}

func TestEmptyPainPointIgnored(t *testing.T) {
	gen := topicGen()
	s, _ := newTestSession(gen)
	send(s, StartTopic{})
	if eff := s.Handle(SubmitPainPoint{Text: "   "}); eff != nil {
		t.Fatal("blank pain point must not request a curriculum")
	}
	if gen.callCount() != 0 || s.Screen() != ScreenTopicIntake {
		t.Fatal("state changed on a blank pain point")
	}
}

func TestCurriculumFailureStaysOnIntake(t *testing.T) {
	gen := topicGen()
	gen.curriculumErr = errors.New("boom")
	s, _ := newTestSession(gen)
	send(s, StartTopic{})
	send(s, SubmitPainPoint{Text: "fractions"})
	if s.Screen() != ScreenTopicIntake || s.Busy() != BusyNone {
		t.Fatalf("screen = %s, busy = %v", s.Screen(), s.Busy())
	}
	if got := s.ErrorMessage(); got != "Failed to generate curriculum." {
		t.Fatalf("message = %q", got)
	}
}
