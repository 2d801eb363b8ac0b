package content

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDecodeItems_DiscriminatesPacks(t *testing.T) {
	raw := []byte(`{"questions":[
		{"id":"q1","label":"Question 1","text":"2+2?"},
		{"id":"p1","label":"Fractions Pack","subQuestions":[
			{"id":"p1a","label":"a","text":"1/2+1/4"},
			{"id":"p1b","label":"b","text":"3/4-1/8"}
		]},
		{"id":"q2","label":"Question 2","text":"5x3","subQuestions":[]}
	]}`)

	items, err := DecodeItems(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].IsPack() || items[2].IsPack() {
		t.Fatal("bare questions (and empty subQuestions) must decode as Single")
	}
	if !items[1].IsPack() {
		t.Fatal("item with subQuestions must decode as Grouped")
	}

	qs := items[1].Questions()
	if len(qs) != 2 || qs[0].ID != "p1a" || qs[1].ID != "p1b" {
		t.Fatalf("pack questions out of order: %+v", qs)
	}
	if items[1].DisplayTitle() != "Fractions" {
		t.Fatalf("DisplayTitle() = %q", items[1].DisplayTitle())
	}
	if got := items[0].Questions(); len(got) != 1 || got[0].Text != "2+2?" {
		t.Fatalf("single item should play itself, got %+v", got)
	}
}

func TestDecodeItems_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not JSON", `nope`},
		{"missing key", `{"items":[]}`},
		{"not an array", `{"questions":"q1"}`},
		{"null", `{"questions":null}`},
		{"empty", `{"questions":[]}`},
		{"wrong item shape", `{"questions":[["q1"]]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeItems([]byte(tt.raw))
			if !errors.Is(err, ErrMalformedContent) {
				t.Fatalf("expected ErrMalformedContent, got %v", err)
			}
			var me *MalformedError
			if !errors.As(err, &me) || me.Field == "" {
				t.Fatalf("expected *MalformedError naming a field, got %#v", err)
			}
		})
	}
}

func TestDecodeItems_KeepsTextlessItems(t *testing.T) {
	raw := []byte(`{"questions":[
		{"id":"q1","label":"Question 1","text":"2+2?"},
		{"id":"q2","label":"Question 2","text":""},
		{"id":"p1","label":"P","subQuestions":[{"id":"a","label":"a","text":" "}]}
	]}`)

	items, err := DecodeItems(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if err := ValidateQuestions(items[0].Questions()); err != nil {
		t.Fatalf("q1 should be playable: %v", err)
	}
	for _, i := range []int{1, 2} {
		if err := ValidateQuestions(items[i].Questions()); !errors.Is(err, ErrMalformedContent) {
			t.Fatalf("item %d: expected ErrMalformedContent, got %v", i, err)
		}
	}
}

func TestItem_MarshalRoundTripKeepsShape(t *testing.T) {
	items := []Item{
		Single(Question{ID: "q1", Label: "Q1", Text: "1+1"}),
		Grouped(Pack{ID: "p1", Label: "P", SubQuestions: []Question{{ID: "a", Label: "a", Text: "x"}}}),
	}
	b, err := json.Marshal(map[string]any{"questions": items})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back, err := DecodeItems(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back[0].IsPack() || !back[1].IsPack() {
		t.Fatalf("variants lost: %s", b)
	}
}

func TestZeroItem(t *testing.T) {
	var it Item
	if it.ID() != "" || it.Label() != "" || it.Questions() != nil || it.IsPack() {
		t.Fatal("zero item should be empty")
	}
	if _, ok := it.Question(); ok {
		t.Fatal("zero item holds no question")
	}
}

func TestValidateStepGame(t *testing.T) {
	one := []Answer{{Text: "4", IsCorrect: true}, {Text: "5"}}
	none := []Answer{{Text: "4"}, {Text: "5"}}
	two := []Answer{{Text: "4", IsCorrect: true}, {Text: "four", IsCorrect: true}}

	tests := []struct {
		name    string
		game    StepGame
		wantErr bool
	}{
		{"valid", StepGame{Steps: []Step{{Question: "2+2", Answers: one}}, KeySkill: "adding"}, false},
		{"no steps", StepGame{KeySkill: "x"}, true},
		{"no answers", StepGame{Steps: []Step{{Question: "2+2"}}}, true},
		{"zero correct", StepGame{Steps: []Step{{Question: "2+2", Answers: none}}}, true},
		{"two correct", StepGame{Steps: []Step{{Question: "2+2", Answers: one}, {Question: "?", Answers: two}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStepGame(tt.game)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateStepGame() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrMalformedContent) {
				t.Fatalf("expected malformed content, got %v", err)
			}
		})
	}
}

func TestValidateCurriculumLessonEvaluation(t *testing.T) {
	if err := ValidateCurriculum(Curriculum{{ID: "step_1", Title: "A"}, {ID: "step_1", Title: "B"}}); err == nil {
		t.Fatal("duplicate ids must be rejected")
	}
	if err := ValidateCurriculum(nil); err == nil {
		t.Fatal("empty curriculum must be rejected")
	}
	if err := ValidateCurriculum(Curriculum{{ID: "step_1", Title: "A"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateLesson(Lesson{Lesson: "Fractions are parts.", Challenge: ""}); err == nil {
		t.Fatal("lesson without challenge must be rejected")
	}
	if err := ValidateEvaluation(Evaluation{IsCorrect: false, Feedback: "close"}); err == nil {
		t.Fatal("wrong answer without a new challenge must be rejected")
	}
	if err := ValidateEvaluation(Evaluation{IsCorrect: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestIDSet_UnionIsImmutable(t *testing.T) {
	a := NewIDSet("q1")
	b := a.Union("q2", "q3")

	if a.Len() != 1 || a.Has("q2") {
		t.Fatal("Union must not modify the receiver")
	}
	if b.Len() != 3 || !b.Has("q1") || !b.Has("q3") {
		t.Fatalf("unexpected union %v", b.Sorted())
	}
	if c := b.Union("q1"); c.Len() != 3 {
		t.Fatal("re-adding an id must not grow the set")
	}
	var zero IDSet
	if zero.Has("x") || zero.Len() != 0 {
		t.Fatal("zero set should be empty and usable")
	}
}

func TestIDSet_CoversAndItemCompleted(t *testing.T) {
	pack := Grouped(Pack{ID: "p1", SubQuestions: []Question{{ID: "a"}, {ID: "b"}}})
	single := Single(Question{ID: "q1"})

	s := NewIDSet("a")
	if s.ItemCompleted(pack) {
		t.Fatal("pack is only complete when every sub-question is solved")
	}
	s = s.Union("b")
	if !s.ItemCompleted(pack) {
		t.Fatal("pack should be complete")
	}
	if s.ItemCompleted(single) {
		t.Fatal("q1 not solved yet")
	}
	if s.Covers(nil) {
		t.Fatal("empty list is never covered")
	}
}

func TestGamePackTotalSteps(t *testing.T) {
	gp := GamePack{
		{Steps: make([]Step, 2)},
		{Steps: make([]Step, 3)},
		{},
	}
	if gp.TotalSteps() != 5 {
		t.Fatalf("TotalSteps() = %d", gp.TotalSteps())
	}
}
