package game

import (
	"testing"
	"time"

	"github.com/abhisek/goat/internal/content"
)

func step(q, result string, correct int, n int) content.Step {
	s := content.Step{Question: q, StepResult: result}
	for i := range n {
		s.Answers = append(s.Answers, content.Answer{
			Text:        string(rune('A' + i)),
			IsCorrect:   i == correct,
			Explanation: "not quite",
		})
	}
	return s
}

func twoByTwo() (content.GamePack, content.Item) {
	pack := content.GamePack{
		{KeySkill: "common denominators", Steps: []content.Step{
			step("LCD of 2 and 4?", "4", 0, 3),
			step("Convert 1/2", "2/4 + 1/4", 1, 3),
		}},
		{KeySkill: "subtracting fractions", Steps: []content.Step{
			step("LCD of 4 and 8?", "8", 2, 3),
			step("Subtract", "5/8", 0, 2),
		}},
	}
	origin := content.Grouped(content.Pack{ID: "p1", Label: "Fractions Pack", SubQuestions: []content.Question{
		{ID: "p1a", Label: "a", Text: "1/2 + 1/4"},
		{ID: "p1b", Label: "b", Text: "3/4 - 1/8"},
	}})
	return pack, origin
}

func playCorrect(t *testing.T, e *Engine) *content.GameResult {
	t.Helper()
	s, ok := e.Current()
	if !ok {
		t.Fatal("no current step")
	}
	for i, a := range s.Answers {
		if a.IsCorrect {
			tr, ok := e.Submit(i)
			if !ok || tr.Kind != Advance {
				t.Fatalf("Submit(%d) = %+v, %v", i, tr, ok)
			}
			return e.Resolve(tr)
		}
	}
	t.Fatal("step has no correct answer")
	return nil
}

func TestEngine_CorrectAnswerAdvancesAfterDelay(t *testing.T) {
	pack, origin := twoByTwo()
	e := New(pack, origin, DefaultConfig())

	tr, ok := e.Submit(0)
	if !ok {
		t.Fatal("expected submit to be accepted")
	}
	if tr.Kind != Advance || tr.Delay != time.Second {
		t.Fatalf("unexpected transition %+v", tr)
	}
	if e.Selected() != 0 || !e.SelectedCorrect() {
		t.Fatal("answer should be highlighted as correct")
	}
	if e.StepIndex() != 0 {
		t.Fatal("step must not advance before the transition resolves")
	}

	if res := e.Resolve(tr); res != nil {
		t.Fatal("pack is not complete yet")
	}
	if e.StepIndex() != 1 || e.Selected() != -1 {
		t.Fatalf("expected step 1 with no selection, got step %d sel %d", e.StepIndex(), e.Selected())
	}
	if got := e.SolvedSteps(); len(got) != 1 || got[0] != "4" {
		t.Fatalf("SolvedSteps() = %v", got)
	}
}

func TestEngine_IncorrectAnswerRetries(t *testing.T) {
	pack, origin := twoByTwo()
	e := New(pack, origin, DefaultConfig())

	tr, ok := e.Submit(2)
	if !ok || tr.Kind != Retry || tr.Delay != 500*time.Millisecond {
		t.Fatalf("unexpected transition %+v ok=%v", tr, ok)
	}
	if e.Feedback() != "not quite" {
		t.Fatalf("Feedback() = %q", e.Feedback())
	}

	e.Resolve(tr)
	if e.Selected() != -1 || e.StepIndex() != 0 || e.QuestionIndex() != 0 {
		t.Fatal("retry must clear the selection and stay on the step")
	}
	if len(e.SolvedSteps()) != 0 {
		t.Fatal("wrong answers must not record a step result")
	}
	if e.Feedback() != "" {
		t.Fatal("feedback should clear with the selection")
	}
}

func TestEngine_SubmitIgnoredWhileSelected(t *testing.T) {
	pack, origin := twoByTwo()
	e := New(pack, origin, DefaultConfig())

	first, _ := e.Submit(1)
	if _, ok := e.Submit(0); ok {
		t.Fatal("second submit during feedback must be ignored")
	}
	if e.Selected() != 1 {
		t.Fatal("selection must not change")
	}
	e.Resolve(first)
	if _, ok := e.Submit(0); !ok {
		t.Fatal("submit should be accepted after retry")
	}
}

func TestEngine_SubmitOutOfRange(t *testing.T) {
	pack, origin := twoByTwo()
	e := New(pack, origin, DefaultConfig())
	for _, i := range []int{-1, 3, 99} {
		if _, ok := e.Submit(i); ok {
			t.Fatalf("Submit(%d) should be rejected", i)
		}
	}
}

func TestEngine_StaleTransitionsIgnored(t *testing.T) {
	pack, origin := twoByTwo()
	e := New(pack, origin, DefaultConfig())

	tr, _ := e.Submit(0)
	e.Cancel()
	if res := e.Resolve(tr); res != nil || e.StepIndex() != 0 {
		t.Fatal("cancelled transition must not advance")
	}

	tr, _ = e.Submit(0)
	e.Resolve(tr)
	e.Resolve(tr)
	if e.StepIndex() != 1 || e.QuestionIndex() != 0 {
		t.Fatalf("double resolve advanced twice: q%d s%d", e.QuestionIndex(), e.StepIndex())
	}
}

func TestEngine_CompletesPackWithResult(t *testing.T) {
	pack, origin := twoByTwo()
	e := New(pack, origin, DefaultConfig())

	if e.Title() != "Fractions Pack (1/2)" {
		t.Fatalf("Title() = %q", e.Title())
	}

	var res *content.GameResult
	for i := 0; i < 4; i++ {
		if i == 2 {
			if e.QuestionIndex() != 1 || e.StepIndex() != 0 {
				t.Fatalf("expected second game, got q%d s%d", e.QuestionIndex(), e.StepIndex())
			}
			if e.Title() != "Fractions Pack (2/2)" {
				t.Fatalf("Title() = %q", e.Title())
			}
			q, _ := e.Question()
			if q.ID != "p1b" {
				t.Fatalf("Question() = %+v", q)
			}
		}
		res = playCorrect(t, e)
	}

	if res == nil {
		t.Fatal("expected a result after the final step")
	}
	if res.KeySkill != "subtracting fractions" {
		t.Fatalf("KeySkill = %q", res.KeySkill)
	}
	want := []string{"4", "2/4 + 1/4", "8", "5/8"}
	if len(res.SolvedSteps) != len(want) {
		t.Fatalf("SolvedSteps = %v", res.SolvedSteps)
	}
	for i := range want {
		if res.SolvedSteps[i] != want[i] {
			t.Fatalf("SolvedSteps = %v, want %v", res.SolvedSteps, want)
		}
	}
	if e.Ready() {
		t.Fatal("finished engine has no current step")
	}
	if _, ok := e.Submit(0); ok {
		t.Fatal("submit after completion must be ignored")
	}
	if e.Progress() != 100 {
		t.Fatalf("Progress() = %v", e.Progress())
	}
}

func TestEngine_ProgressIsMonotonicAndHitsHundredOnLastAnswer(t *testing.T) {
	pack, origin := twoByTwo()
	e := New(pack, origin, DefaultConfig())

	last := -1.0
	check := func(label string) {
		p := e.Progress()
		if p < last {
			t.Fatalf("%s: progress went backwards %v -> %v", label, last, p)
		}
		last = p
	}

	check("start")
	if e.Progress() != 0 {
		t.Fatalf("start progress = %v", e.Progress())
	}

	for i := 0; i < 4; i++ {
		s, _ := e.Current()
		for j, a := range s.Answers {
			if !a.IsCorrect {
				wrong, _ := e.Submit(j)
				check("wrong pending")
				e.Resolve(wrong)
				check("wrong resolved")
				break
			}
		}

		for j, a := range s.Answers {
			if a.IsCorrect {
				tr, _ := e.Submit(j)
				check("correct pending")
				if i == 3 && e.Progress() != 100 {
					t.Fatalf("final accepted answer should read 100, got %v", e.Progress())
				}
				if i < 3 && e.Progress() >= 100 {
					t.Fatalf("progress hit 100 early at step %d", i)
				}
				e.Resolve(tr)
				check("correct resolved")
				break
			}
		}
	}
}

func TestEngine_EmptyPack(t *testing.T) {
	e := New(nil, content.Single(content.Question{ID: "q1", Label: "Question 1"}), DefaultConfig())
	if e.Ready() {
		t.Fatal("empty pack has nothing to play")
	}
	if e.Progress() != 0 {
		t.Fatalf("Progress() = %v", e.Progress())
	}
	if _, ok := e.Submit(0); ok {
		t.Fatal("submit must be ignored")
	}
	if e.Title() != "Question 1" {
		t.Fatalf("Title() = %q", e.Title())
	}
}

func TestEngine_ToleratesMalformedSteps(t *testing.T) {
	pack := content.GamePack{
		{Steps: []content.Step{{Question: "none right", Answers: []content.Answer{{Text: "a"}, {Text: "b"}}}}},
		{},
		{KeySkill: "tail", Steps: []content.Step{{Question: "two right", Answers: []content.Answer{
			{Text: "a", IsCorrect: true}, {Text: "b", IsCorrect: true},
		}}}},
	}
	origin := content.Single(content.Question{ID: "q", Label: "Q"})
	e := New(pack, origin, DefaultConfig())

	for i := range 2 {
		tr, ok := e.Submit(i)
		if !ok || tr.Kind != Retry {
			t.Fatalf("zero-correct step: answer %d should retry, got %+v", i, tr)
		}
		e.Resolve(tr)
	}

	// Jump ahead as the only way past an unwinnable step.
	e.questionIndex = 1
	e.skipEmptyGames()
	if e.QuestionIndex() != 2 {
		t.Fatalf("empty game should be skipped, at %d", e.QuestionIndex())
	}

	tr, ok := e.Submit(1)
	if !ok || tr.Kind != Advance {
		t.Fatalf("any correct answer should advance, got %+v", tr)
	}
	if res := e.Resolve(tr); res == nil || res.KeySkill != "tail" {
		t.Fatalf("expected completion, got %+v", res)
	}
}

func TestEngine_SingleQuestionTitle(t *testing.T) {
	pack := content.GamePack{{Steps: []content.Step{step("x", "", 0, 2)}}}
	e := New(pack, content.Single(content.Question{ID: "q7", Label: "Question 7"}), Config{})
	if e.Title() != "Question 7" {
		t.Fatalf("Title() = %q", e.Title())
	}
	tr, _ := e.Submit(0)
	if tr.Delay != 0 {
		t.Fatal("delays come from config")
	}
	res := e.Resolve(tr)
	if res == nil || len(res.SolvedSteps) != 0 {
		t.Fatalf("empty step results are not recorded: %+v", res)
	}
}
