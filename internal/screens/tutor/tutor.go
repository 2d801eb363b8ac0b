// Package tutor is the terminal front end of a session. It renders the
// session's current screen, turns key presses into session events and runs
// the session's effects as bubbletea commands.
package tutor

import (
	"context"
	"fmt"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/goat/internal/router"
	"github.com/abhisek/goat/internal/screen"
	"github.com/abhisek/goat/internal/session"
	"github.com/abhisek/goat/internal/ui/components"
	"github.com/abhisek/goat/internal/ui/layout"
	"github.com/abhisek/goat/internal/ui/theme"
)

// eventMsg carries a session event into the update loop.
type eventMsg struct {
	ev session.Event
}

// settledMsg ends the blank frame shown after a screen change.
type settledMsg struct {
	seq int
}

// Options configures the screen.
type Options struct {
	// Settle is how long a blank frame is shown between two screens.
	Settle time.Duration
	// Stats builds the screen pushed by the STATS menu entry. When nil the
	// entry is hidden.
	Stats func() screen.Screen
}

// Screen drives one session.
type Screen struct {
	ctx  context.Context
	sess *session.Session
	opts Options

	width, height int

	shown     session.Screen
	settling  bool
	settleSeq int

	spinner spinner.Model
	retry   components.Button

	// Home.
	menu     components.Menu
	input    components.TextInput
	mode     session.Mode
	inputErr string

	// Selection and curriculum lists.
	cursor int

	// Game and mastery quiz.
	answers components.AnswerList
	stepKey [2]int

	solution viewport.Model

	// Topic flow.
	intake   textarea.Model
	answer   components.TextInput
	attempts int
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.StatusProvider = (*Screen)(nil)

// New creates a screen for sess. Effects run under ctx.
func New(ctx context.Context, sess *session.Session, opts Options) *Screen {
	s := &Screen{
		ctx:   ctx,
		sess:  sess,
		opts:  opts,
		shown: sess.Screen(),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.ArcadeCyan)),
		),
		input:    components.NewTextInput("Type your homework, or @path/to/photo.jpg", 0),
		answer:   components.NewTextInput("Your answer", 0),
		solution: viewport.New(viewport.WithWidth(60), viewport.WithHeight(10)),
	}
	s.retry = components.NewButton("Try again", func() tea.Cmd {
		return emit(session.DismissError{})
	})
	s.intake = textarea.New()
	s.intake.Placeholder = "What part of math is giving you trouble?"
	s.intake.ShowLineNumbers = false
	s.intake.SetHeight(4)
	s.buildMenu()
	return s
}

func (s *Screen) buildMenu() {
	items := []components.MenuItem{
		{Label: "PLAY GAME", Action: func() tea.Cmd { return s.submitHomework(session.ModeGame) }},
		{Label: "SHOW SOLUTION", Action: func() tea.Cmd { return s.submitHomework(session.ModeSolution) }},
		{Label: "MASTER A TOPIC", Action: func() tea.Cmd { return s.dispatch(session.StartTopic{}) }},
	}
	if s.opts.Stats != nil {
		items = append(items, components.MenuItem{Label: "STATS", Action: func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: s.opts.Stats()} }
		}})
	}
	items = append(items, components.MenuItem{Label: "EXIT", Action: func() tea.Cmd { return tea.Quit }})
	s.menu = components.NewMenu(items...)
}

func (s *Screen) Init() tea.Cmd {
	return tea.Batch(s.spinner.Tick, s.input.Init())
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return s, s.dispatch(msg.ev)

	case settledMsg:
		if msg.seq == s.settleSeq {
			s.settling = false
		}
		return s, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.WindowSizeMsg:
		s.resize(msg.Width, msg.Height)
		return s, nil

	case tea.KeyMsg:
		return s, s.handleKey(msg)
	}

	// Cursor blinks and the like go to whichever input has focus.
	return s, s.updateInputs(msg)
}

// dispatch applies ev to the session and returns the command that performs
// its effect.
func (s *Screen) dispatch(ev session.Event) tea.Cmd {
	eff := s.sess.Handle(ev)
	return tea.Batch(s.perform(eff), s.sync())
}

// perform runs eff off the update loop and feeds its result back as an
// eventMsg. Delayed effects ride on tea.Tick.
func (s *Screen) perform(eff *session.Effect) tea.Cmd {
	if eff == nil {
		return nil
	}
	ctx := s.ctx
	run := func() tea.Msg { return eventMsg{ev: eff.Run(ctx)} }
	if eff.After > 0 {
		return tea.Tick(eff.After, func(time.Time) tea.Msg { return run() })
	}
	return run
}

func emit(ev session.Event) tea.Cmd {
	return func() tea.Msg { return eventMsg{ev: ev} }
}

// sync brings the widgets in line with the session after it changed.
func (s *Screen) sync() tea.Cmd {
	var cmd tea.Cmd
	cur := s.sess.Screen()
	if cur != s.shown {
		s.shown = cur
		cmd = s.enter(cur)
		if s.opts.Settle > 0 {
			s.settling = true
			s.settleSeq++
			seq := s.settleSeq
			cmd = tea.Batch(cmd, tea.Tick(s.opts.Settle, func(time.Time) tea.Msg {
				return settledMsg{seq: seq}
			}))
		}
	}

	if g := s.sess.Game(); g != nil {
		key := [2]int{g.QuestionIndex(), g.StepIndex()}
		if key != s.stepKey {
			s.stepKey = key
			s.answers.Cursor = 0
		}
	}
	if cur == session.ScreenTopicLesson && s.sess.Attempts() != s.attempts {
		s.attempts = s.sess.Attempts()
		s.answer.Reset()
	}
	return cmd
}

// enter prepares the widgets of a screen the session just moved to.
func (s *Screen) enter(cur session.Screen) tea.Cmd {
	s.cursor = 0
	switch cur {
	case session.ScreenHome:
		s.inputErr = ""
		s.input.Reset()
		s.menu.Selected = 0
		return s.input.Init()
	case session.ScreenGame, session.ScreenTopicQuiz:
		s.stepKey = [2]int{-1, -1}
	case session.ScreenSolution:
		s.solution.SetContent(s.sess.Solution())
		s.solution.GotoTop()
	case session.ScreenTopicIntake:
		s.intake.Reset()
		return s.intake.Focus()
	case session.ScreenTopicLesson:
		s.attempts = 0
		s.answer.Reset()
		return s.answer.Init()
	}
	return nil
}

func (s *Screen) resize(w, h int) {
	s.width, s.height = w, h
	cw := components.ContentWidth(w)
	s.input.SetWidth(cw - 4)
	s.answer.SetWidth(cw - 4)
	s.intake.SetWidth(cw - 4)
	s.solution.SetWidth(cw)
	s.solution.SetHeight(max(layout.ContentHeight(h)-8, 3))
}

func (s *Screen) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch s.sess.Screen() {
	case session.ScreenHome:
		s.input, cmd = s.input.Update(msg)
	case session.ScreenTopicIntake:
		s.intake, cmd = s.intake.Update(msg)
	case session.ScreenTopicLesson:
		s.answer, cmd = s.answer.Update(msg)
	}
	return cmd
}

func (s *Screen) handleKey(msg tea.KeyMsg) tea.Cmd {
	if s.sess.ShowErrorView() {
		if msg.String() == "esc" {
			return s.dispatch(session.DismissError{})
		}
		var cmd tea.Cmd
		s.retry, cmd = s.retry.Update(msg)
		return cmd
	}

	switch s.sess.Screen() {
	case session.ScreenHome:
		return s.homeKey(msg)
	case session.ScreenSelecting:
		return s.selectKey(msg)
	case session.ScreenGame, session.ScreenTopicQuiz:
		return s.gameKey(msg)
	case session.ScreenComplete:
		return s.completeKey(msg)
	case session.ScreenSolution:
		return s.solutionKey(msg)
	case session.ScreenTopicIntake:
		return s.intakeKey(msg)
	case session.ScreenTopicCurriculum:
		return s.curriculumKey(msg)
	case session.ScreenTopicLesson:
		return s.lessonKey(msg)
	}
	if msg.String() == "esc" {
		return s.dispatch(session.Back{})
	}
	return nil
}

func (s *Screen) View(width, height int) string {
	if s.settling {
		return ""
	}
	if s.sess.ShowErrorView() {
		return s.errorView(width, height)
	}

	var body string
	switch s.sess.Screen() {
	case session.ScreenHome:
		return s.homeView(width, height)
	case session.ScreenLoading:
		body = s.loadingView()
	case session.ScreenSelecting:
		body = s.selectView(width)
	case session.ScreenGenerating:
		body = s.generatingView()
	case session.ScreenGame, session.ScreenTopicQuiz:
		body = s.gameView(width)
	case session.ScreenComplete:
		body = s.completeView(width)
	case session.ScreenSolution:
		body = s.solutionView(width)
	case session.ScreenTopicIntake:
		body = s.intakeView(width)
	case session.ScreenTopicCurriculum:
		body = s.curriculumView(width)
	case session.ScreenTopicLesson:
		body = s.lessonView(width)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

func (s *Screen) errorView(width, height int) string {
	cw := components.ContentWidth(width)
	msg := lipgloss.NewStyle().
		Foreground(theme.Error).
		Bold(true).
		Width(cw - 6).
		Align(lipgloss.Center).
		Render(s.sess.ErrorMessage())
	card := components.ArcadeCard(msg+"\n\n"+s.retry.View(), cw)
	return components.CabinetFrame(card, width, height)
}

func (s *Screen) Title() string {
	if s.sess.ShowErrorView() {
		return "Oops"
	}
	switch s.sess.Screen() {
	case session.ScreenLoading:
		if s.mode == session.ModeSolution {
			return "Solving"
		}
		return "Reading Homework"
	case session.ScreenSelecting:
		return "Choose a Question"
	case session.ScreenGenerating:
		return "Building Game"
	case session.ScreenGame, session.ScreenTopicQuiz:
		if g := s.sess.Game(); g != nil {
			return g.Title()
		}
	case session.ScreenComplete:
		return "Well Done!"
	case session.ScreenSolution:
		return "Solution"
	case session.ScreenTopicIntake:
		return "Master a Topic"
	case session.ScreenTopicCurriculum:
		return "Curriculum"
	case session.ScreenTopicLesson:
		return s.sess.Objective().Title
	}
	return "Home"
}

func (s *Screen) Status() string {
	if n := s.sess.Completed().Len(); n > 0 {
		return fmt.Sprintf("✓ %d solved", n)
	}
	return ""
}

func (s *Screen) KeyHints() []layout.KeyHint {
	quit := layout.KeyHint{Key: "Ctrl+C", Description: "Quit"}
	back := layout.KeyHint{Key: "Esc", Description: "Back"}
	if s.sess.ShowErrorView() {
		return []layout.KeyHint{{Key: "Enter", Description: "Try again"}, quit}
	}
	switch s.sess.Screen() {
	case session.ScreenHome:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "Enter", Description: "Go"},
			quit,
		}
	case session.ScreenSelecting, session.ScreenTopicCurriculum:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			back, quit,
		}
	case session.ScreenGame, session.ScreenTopicQuiz:
		return []layout.KeyHint{
			{Key: "1-9", Description: "Answer"},
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Submit"},
			back,
		}
	case session.ScreenComplete:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Continue"},
			{Key: "H", Description: "Home"},
			quit,
		}
	case session.ScreenSolution:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Scroll"},
			back, quit,
		}
	case session.ScreenTopicIntake, session.ScreenTopicLesson:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			back, quit,
		}
	}
	return []layout.KeyHint{back, quit}
}

// loadingLine renders the spinner next to text.
func (s *Screen) loadingLine(text string) string {
	return s.spinner.View() + " " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(text)
}

// inlineError renders the session's error below a screen's content.
func (s *Screen) inlineError(width int) string {
	msg := s.sess.ErrorMessage()
	if msg == "" {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(theme.Error).
		Width(width).
		Render(msg)
}
