// Package game drives one playthrough of a GamePack: a step at a time,
// with timed feedback windows modelled as explicit pending transitions.
package game

import (
	"fmt"
	"time"

	"github.com/abhisek/goat/internal/content"
)

// Kind is the kind of scheduled transition.
type Kind int

const (
	// Advance moves past the current step after a correct answer.
	Advance Kind = iota + 1
	// Retry clears the selection after an incorrect answer.
	Retry
)

func (k Kind) String() string {
	switch k {
	case Advance:
		return "advance"
	case Retry:
		return "retry"
	}
	return "none"
}

// Transition is a state change the engine has scheduled. The owner waits
// Delay and hands it back to Resolve. Transitions from before a Cancel, or
// already resolved, are ignored.
type Transition struct {
	Kind  Kind
	Delay time.Duration
	seq   int
}

// Config holds the feedback delays.
type Config struct {
	CorrectDelay   time.Duration
	IncorrectDelay time.Duration
}

func DefaultConfig() Config {
	return Config{
		CorrectDelay:   time.Second,
		IncorrectDelay: 500 * time.Millisecond,
	}
}

const noSelection = -1

// Engine holds the state of one playthrough. It is not safe for concurrent
// use; the UI event loop owns it.
type Engine struct {
	pack   content.GamePack
	origin content.Item
	cfg    Config

	questionIndex int
	stepIndex     int
	selected      int
	solved        []string

	pending *Transition
	seq     int
	result  *content.GameResult
}

// New starts a playthrough of pack, which must be index aligned with
// origin.Questions().
func New(pack content.GamePack, origin content.Item, cfg Config) *Engine {
	e := &Engine{
		pack:     pack,
		origin:   origin,
		cfg:      cfg,
		selected: noSelection,
		solved:   []string{},
	}
	e.skipEmptyGames()
	return e
}

// Current returns the step being played. ok is false when there is nothing
// to play: no pack, an exhausted pack, or a finished game.
func (e *Engine) Current() (step content.Step, ok bool) {
	if e == nil || e.result != nil || e.questionIndex >= len(e.pack) {
		return content.Step{}, false
	}
	steps := e.pack[e.questionIndex].Steps
	if e.stepIndex >= len(steps) {
		return content.Step{}, false
	}
	return steps[e.stepIndex], true
}

// Ready reports whether a step is available to play.
func (e *Engine) Ready() bool {
	_, ok := e.Current()
	return ok
}

// Submit selects answer i of the current step and schedules the follow-up
// transition. It is a no-op (ok false) while an answer is already selected,
// when no step is ready, or when i is out of range.
func (e *Engine) Submit(i int) (t Transition, ok bool) {
	step, ready := e.Current()
	if !ready || e.selected != noSelection || i < 0 || i >= len(step.Answers) {
		return Transition{}, false
	}

	e.selected = i
	e.seq++
	t = Transition{Kind: Retry, Delay: e.cfg.IncorrectDelay, seq: e.seq}
	if step.Answers[i].IsCorrect {
		t = Transition{Kind: Advance, Delay: e.cfg.CorrectDelay, seq: e.seq}
	}
	e.pending = &t
	return t, true
}

// Resolve applies a transition returned by Submit once its delay has
// elapsed. When it completes the pack, the result is returned.
func (e *Engine) Resolve(t Transition) *content.GameResult {
	if e.pending == nil || t.seq != e.pending.seq {
		return nil
	}
	e.pending = nil

	if t.Kind == Retry {
		e.selected = noSelection
		return nil
	}

	step, ok := e.Current()
	if !ok {
		e.selected = noSelection
		return nil
	}
	if step.StepResult != "" {
		e.solved = append(e.solved, step.StepResult)
	}
	keySkill := e.pack[e.questionIndex].KeySkill

	e.stepIndex++
	if e.stepIndex >= len(e.pack[e.questionIndex].Steps) {
		e.questionIndex++
		e.stepIndex = 0
		e.skipEmptyGames()
	}
	e.selected = noSelection

	if e.questionIndex >= len(e.pack) {
		e.result = &content.GameResult{
			KeySkill:    keySkill,
			SolvedSteps: append([]string(nil), e.solved...),
		}
		return e.result
	}
	return nil
}

// Cancel drops any pending transition, e.g. when the screen is torn down.
func (e *Engine) Cancel() {
	e.pending = nil
	e.selected = noSelection
}

// skipEmptyGames moves past step games with no steps so they can never
// stall a playthrough.
func (e *Engine) skipEmptyGames() {
	for e.questionIndex < len(e.pack) && len(e.pack[e.questionIndex].Steps) == 0 {
		e.questionIndex++
	}
}

// Progress is the share of steps completed, in percent. A correct answer
// waiting to advance already counts, so the final accepted answer reads 100.
func (e *Engine) Progress() float64 {
	total := e.pack.TotalSteps()
	if total == 0 {
		return 0
	}
	done := e.stepIndex
	for i := 0; i < e.questionIndex && i < len(e.pack); i++ {
		done += len(e.pack[i].Steps)
	}
	if e.pending != nil && e.pending.Kind == Advance {
		done++
	}
	if e.result != nil {
		done = total
	}
	pct := float64(done) / float64(total) * 100
	return min(max(pct, 0), 100)
}

// Title is the label shown above the game: the question label, or for a
// pack "<label> (<n>/<size>)".
func (e *Engine) Title() string {
	p, ok := e.origin.Pack()
	if !ok {
		return e.origin.Label()
	}
	n := min(e.questionIndex+1, len(e.pack))
	return fmt.Sprintf("%s (%d/%d)", p.Label, n, len(e.pack))
}

// Question returns the (sub-)question currently being played.
func (e *Engine) Question() (content.Question, bool) {
	qs := e.origin.Questions()
	if e.questionIndex >= len(qs) {
		return content.Question{}, false
	}
	return qs[e.questionIndex], true
}

// Selected returns the highlighted answer index, or -1.
func (e *Engine) Selected() int { return e.selected }

// SelectedCorrect reports whether the highlighted answer is correct.
func (e *Engine) SelectedCorrect() bool {
	step, ok := e.Current()
	if !ok || e.selected == noSelection {
		return false
	}
	return step.Answers[e.selected].IsCorrect
}

// Feedback returns the explanation of a highlighted wrong answer.
func (e *Engine) Feedback() string {
	step, ok := e.Current()
	if !ok || e.selected == noSelection || step.Answers[e.selected].IsCorrect {
		return ""
	}
	return step.Answers[e.selected].Explanation
}

func (e *Engine) QuestionIndex() int { return e.questionIndex }
func (e *Engine) StepIndex() int     { return e.stepIndex }

// StepCount returns the number of steps in the current step game.
func (e *Engine) StepCount() int {
	if e.questionIndex >= len(e.pack) {
		return 0
	}
	return len(e.pack[e.questionIndex].Steps)
}

// SolvedSteps returns the step results collected so far.
func (e *Engine) SolvedSteps() []string {
	return append([]string(nil), e.solved...)
}

// Pending reports whether a transition is waiting to be resolved.
func (e *Engine) Pending() bool { return e.pending != nil }

// Result returns the completion result once the pack is finished.
func (e *Engine) Result() *content.GameResult { return e.result }
