package session

import (
	"context"
	"strings"

	"github.com/abhisek/goat/internal/analytics"
	"github.com/abhisek/goat/internal/content"
	"github.com/abhisek/goat/internal/game"
	"github.com/abhisek/goat/internal/generation"
)

// Messages shown on the home screen at the end of the topic flow.
const (
	QuizCompleteNotice = "Mastery quiz complete! You've mastered this topic."
	QuizFailureNotice  = "Congratulations, you've mastered every objective! Sorry, we couldn't build your mastery quiz this time."
)

// QuizOrigin is the item a mastery quiz is played as.
var QuizOrigin = content.Single(content.Question{ID: "mastery-quiz", Label: "Mastery Quiz"})

func (s *Session) startTopic() {
	if s.screen != ScreenHome {
		return
	}
	s.err = nil
	s.notice = ""
	s.screen = ScreenTopicIntake
	s.tracker.Track(analytics.EventTopicStarted, nil)
}

func (s *Session) submitPainPoint(text string) *Effect {
	text = strings.TrimSpace(text)
	if s.screen != ScreenTopicIntake || s.busy != BusyNone || text == "" {
		return nil
	}
	s.painPoint = text
	s.mastered = content.NewIDSet()
	s.err = nil
	s.busy = BusyCurriculum

	gen, epoch := s.gen, s.epoch
	return s.request(func(ctx context.Context) Event {
		c, err := gen.Curriculum(ctx, text)
		return curriculumReady{epoch: epoch, curriculum: c, err: err}
	})
}

func (s *Session) onCurriculum(ev curriculumReady) {
	if ev.epoch != s.epoch || s.busy != BusyCurriculum {
		return
	}
	s.busy = BusyNone
	err := ev.err
	if err == nil {
		err = content.ValidateCurriculum(ev.curriculum)
	}
	if err != nil {
		s.err = &CollaboratorError{Op: OpCurriculum, Err: err}
		return
	}
	s.curriculum = ev.curriculum
	s.screen = ScreenTopicCurriculum
	s.tracker.Track(analytics.EventCurriculumGenerated, map[string]any{"objective_count": len(ev.curriculum)})
}

func (s *Session) selectObjective(id string) *Effect {
	// After a failed quiz the curriculum only waits to return home.
	if s.screen != ScreenTopicCurriculum || s.busy != BusyNone || s.notice == QuizFailureNotice {
		return nil
	}
	o, ok := s.curriculum.Find(id)
	if !ok {
		return nil
	}
	s.clearLesson()
	s.err = nil
	s.objective = o
	s.screen = ScreenTopicLesson
	return s.fetchLesson()
}

func (s *Session) fetchLesson() *Effect {
	s.busy = BusyLesson
	s.err = nil

	gen, epoch, title := s.gen, s.epoch, s.objective.Title
	return s.request(func(ctx context.Context) Event {
		l, err := gen.Lesson(ctx, title)
		return lessonReady{epoch: epoch, lesson: l, err: err}
	})
}

func (s *Session) onLesson(ev lessonReady) {
	if ev.epoch != s.epoch || s.busy != BusyLesson {
		return
	}
	s.busy = BusyNone
	if ev.err != nil {
		s.err = &CollaboratorError{Op: OpLesson, Label: s.objective.Title, Err: ev.err}
		return
	}
	l := ev.lesson
	s.lesson = &l
	s.challenge = l.Challenge
	s.visual = l.Visual
	s.feedback = ""
}

func (s *Session) submitLessonAnswer(answer string) *Effect {
	answer = strings.TrimSpace(answer)
	if s.screen != ScreenTopicLesson || s.busy != BusyNone || s.lesson == nil || answer == "" {
		return nil
	}
	s.busy = BusyEvaluation
	s.err = nil

	gen, epoch := s.gen, s.epoch
	in := generation.EvaluationInput{
		ObjectiveTitle: s.objective.Title,
		Challenge:      s.challenge,
		UserAnswer:     answer,
	}
	return s.request(func(ctx context.Context) Event {
		e, err := gen.Evaluate(ctx, in)
		return evaluationReady{epoch: epoch, eval: e, err: err}
	})
}

func (s *Session) onEvaluation(ev evaluationReady) *Effect {
	if ev.epoch != s.epoch || s.busy != BusyEvaluation {
		return nil
	}
	s.busy = BusyNone
	if ev.err != nil {
		s.err = &CollaboratorError{Op: OpEvaluation, Err: ev.err}
		return nil
	}
	s.attempts++
	if ev.eval.IsCorrect {
		return s.masterObjective()
	}

	s.feedback = ev.eval.Feedback
	if ev.eval.NewChallenge != "" {
		s.challenge = ev.eval.NewChallenge
	}
	s.visual = ev.eval.Visual
	return nil
}

// masterObjective records the open objective as mastered. Once the whole
// curriculum is covered the mastery quiz is requested.
func (s *Session) masterObjective() *Effect {
	id := s.objective.ID
	s.mastered = s.mastered.Union(id)
	s.tracker.Track(analytics.EventObjectiveMastered, map[string]any{"objective_id": id})

	s.epoch++
	s.clearLesson()
	s.screen = ScreenTopicCurriculum
	if !s.mastered.Covers(s.curriculum.IDs()) {
		return nil
	}

	s.busy = BusyQuiz
	gen, epoch, c := s.gen, s.epoch, s.curriculum
	return s.request(func(ctx context.Context) Event {
		g, err := gen.MasteryQuiz(ctx, c)
		return quizReady{epoch: epoch, game: g, err: err}
	})
}

func (s *Session) onQuiz(ev quizReady) *Effect {
	if ev.epoch != s.epoch || s.busy != BusyQuiz {
		return nil
	}
	s.busy = BusyNone
	err := ev.err
	if err == nil {
		err = content.ValidateStepGame(ev.game)
	}
	if err != nil {
		s.err = &CollaboratorError{Op: OpMasteryQuiz, Err: err}
		s.notice = QuizFailureNotice
		epoch := s.epoch
		return &Effect{
			After: s.cfg.QuizFailureDelay,
			Run: func(context.Context) Event {
				return quizFailureElapsed{epoch: epoch}
			},
		}
	}

	s.engine = game.New(content.GamePack{ev.game}, QuizOrigin, s.cfg.Game)
	s.screen = ScreenTopicQuiz
	s.tracker.Track(analytics.EventMasteryQuizReady, nil)
	return nil
}

func (s *Session) finishQuiz() {
	s.reset()
	s.notice = QuizCompleteNotice
}

func (s *Session) backToCurriculum() {
	if s.screen != ScreenTopicLesson {
		return
	}
	s.epoch++
	s.busy = BusyNone
	s.err = nil
	s.clearLesson()
	s.screen = ScreenTopicCurriculum
}

func (s *Session) clearLesson() {
	s.objective = content.Objective{}
	s.lesson = nil
	s.challenge = ""
	s.visual = nil
	s.feedback = ""
	s.attempts = 0
}
