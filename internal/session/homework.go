package session

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/goat/internal/analytics"
	"github.com/abhisek/goat/internal/content"
	"github.com/abhisek/goat/internal/game"
)

func (s *Session) submitHomework(ev SubmitHomework) *Effect {
	if s.screen != ScreenHome {
		return nil
	}
	if ev.Homework.Empty() {
		s.err = ErrNoInput
		return nil
	}

	s.err = nil
	s.notice = ""
	s.screen = ScreenLoading

	action := analytics.ActionGame
	if ev.Mode == ModeSolution {
		action = analytics.ActionSolution
	}
	s.tracker.Track(analytics.EventCoreActionTaken, map[string]any{
		"action":     action,
		"input_type": ev.Homework.InputType(),
	})

	gen, epoch, hw := s.gen, s.epoch, ev.Homework
	if ev.Mode == ModeSolution {
		return s.request(func(ctx context.Context) Event {
			text, err := gen.Solution(ctx, hw)
			return solutionReady{epoch: epoch, text: text, err: err}
		})
	}
	return s.request(func(ctx context.Context) Event {
		items, err := gen.Questions(ctx, hw)
		return questionsReady{epoch: epoch, items: items, err: err}
	})
}

func (s *Session) onQuestions(ev questionsReady) *Effect {
	if ev.epoch != s.epoch || s.screen != ScreenLoading {
		return nil
	}
	err := ev.err
	if err == nil {
		err = content.ValidateItems(ev.items)
	}
	if err != nil {
		s.err = &CollaboratorError{Op: OpQuestions, Err: err}
		s.screen = ScreenHome
		return nil
	}

	s.items = ev.items
	s.screen = ScreenSelecting
	s.tracker.Track(analytics.EventQuestionsProcessed, map[string]any{"question_count": len(ev.items)})
	return nil
}

func (s *Session) onSolution(ev solutionReady) *Effect {
	if ev.epoch != s.epoch || s.screen != ScreenLoading {
		return nil
	}
	if ev.err != nil {
		s.err = &CollaboratorError{Op: OpSolution, Err: ev.err}
		s.screen = ScreenHome
		return nil
	}
	s.solution = ev.text
	s.screen = ScreenSolution
	return nil
}

func (s *Session) selectItem(i int) *Effect {
	if s.screen != ScreenSelecting || i < 0 || i >= len(s.items) {
		return nil
	}
	item := s.items[i]
	if s.completed.ItemCompleted(item) {
		s.tracker.Track(analytics.EventPlayAgainClicked, nil)
	}

	qs := item.Questions()
	if err := content.ValidateQuestions(qs); err != nil {
		s.err = &CollaboratorError{Op: OpStepGame, Label: item.Label(), Err: err}
		return nil
	}

	s.selected = item
	s.pack = nil
	s.err = nil
	s.screen = ScreenGenerating

	gen, epoch, timeout := s.gen, s.epoch, s.cfg.RequestTimeout
	return &Effect{Run: func(ctx context.Context) Event {
		pack, err := generatePack(ctx, gen, qs, timeout)
		return packReady{epoch: epoch, pack: pack, err: err}
	}}
}

// generatePack requests a step game for every question at once. The pack is
// index aligned with qs and is only returned when every request succeeded;
// otherwise the first failure is returned and the rest are cancelled.
func generatePack(ctx context.Context, gen Generator, qs []content.Question, timeout time.Duration) (content.GamePack, error) {
	pack := make(content.GamePack, len(qs))
	g, gctx := errgroup.WithContext(ctx)
	for i, q := range qs {
		g.Go(func() error {
			rctx, cancel := withTimeout(gctx, timeout)
			defer cancel()

			sg, err := gen.StepGame(rctx, q)
			if err != nil {
				label := q.Label
				if label == "" {
					label = q.ID
				}
				return &CollaboratorError{Op: OpStepGame, Label: label, Err: err}
			}
			pack[i] = sg
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pack, nil
}

func (s *Session) onPack(ev packReady) *Effect {
	if ev.epoch != s.epoch || s.screen != ScreenGenerating {
		return nil
	}
	if ev.err != nil {
		s.err = ev.err
		s.screen = ScreenSelecting
		return nil
	}
	s.pack = ev.pack
	s.engine = game.New(ev.pack, s.selected, s.cfg.Game)
	s.screen = ScreenGame
	return nil
}

func (s *Session) submitAnswer(i int) *Effect {
	if s.engine == nil || (s.screen != ScreenGame && s.screen != ScreenTopicQuiz) {
		return nil
	}
	t, ok := s.engine.Submit(i)
	if !ok {
		return nil
	}
	epoch := s.epoch
	return &Effect{
		After: t.Delay,
		Run: func(context.Context) Event {
			return transitionDue{epoch: epoch, t: t}
		},
	}
}

func (s *Session) onTransition(ev transitionDue) *Effect {
	if ev.epoch != s.epoch || s.engine == nil {
		return nil
	}
	res := s.engine.Resolve(ev.t)
	if res == nil {
		return nil
	}
	switch s.screen {
	case ScreenGame:
		s.finishGame(*res)
	case ScreenTopicQuiz:
		s.finishQuiz()
	}
	return nil
}

func (s *Session) finishGame(res content.GameResult) {
	s.lastResult = &res
	s.pack = nil
	s.engine = nil
	s.screen = ScreenComplete

	qs := s.selected.Questions()
	ids := make([]string, len(qs))
	for i, q := range qs {
		ids[i] = q.ID
	}
	s.completed = s.completed.Union(ids...)

	props := map[string]any{"question_id": s.selected.ID()}
	if s.selected.IsPack() {
		props = map[string]any{"pack_id": s.selected.ID()}
	}
	s.tracker.Track(analytics.EventGameComplete, props)
}

// abandonGame drops the running playthrough and any pending transition.
func (s *Session) abandonGame() {
	s.epoch++
	if s.engine != nil {
		s.engine.Cancel()
	}
	s.engine = nil
	s.pack = nil
}
