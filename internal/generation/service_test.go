package generation

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhisek/goat/internal/content"
	"github.com/abhisek/goat/internal/llm"
)

func validStepGameJSON() json.RawMessage {
	return json.RawMessage(`{
		"steps": [
			{"question": "What is the first step to isolate x?", "stepResult": "2x = -4", "answers": [
				{"text": "Add 3 to both sides", "isCorrect": true, "explanation": ""},
				{"text": "Subtract 3 from both sides", "isCorrect": false, "explanation": "That makes -10."}
			]},
			{"question": "Now what?", "stepResult": "x = -2", "answers": [
				{"text": "Divide both sides by 2", "isCorrect": true, "explanation": ""},
				{"text": "Multiply both sides by 2", "isCorrect": false, "explanation": "That gives 4x."}
			]}
		],
		"keySkill": "solving linear equations"
	}`)
}

func TestService_Questions(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage("```json\n" + `{"questions":[
		{"id":"q1","label":"Question 1","text":"Solve 2x - 3 = -7","subQuestions":[]},
		{"id":"q2_pack","label":"Question 2 Pack","text":"","subQuestions":[
			{"id":"q2_1","label":"2.1","text":"Define a prime"},
			{"id":"q2_2","label":"2.2","text":"List primes below 10"}
		]}
	]}` + "\n```")})
	svc := NewService(mock, DefaultConfig())

	items, err := svc.Questions(t.Context(), Homework{Text: "Solve 2x - 3 = -7 ..."})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 || items[0].IsPack() || !items[1].IsPack() {
		t.Fatalf("unexpected items: %+v", items)
	}
	if len(items[1].Questions()) != 2 {
		t.Fatal("pack should keep both sub-questions")
	}

	req := mock.Calls[0]
	if req.Schema != QuestionsSchema {
		t.Error("expected the questions schema")
	}
	if !strings.Contains(req.Messages[0].Content, "Solve 2x - 3 = -7") {
		t.Errorf("homework text missing from prompt: %q", req.Messages[0].Content)
	}
	if len(req.Messages[0].Images) != 0 {
		t.Error("text homework must not attach images")
	}
}

func TestService_QuestionsAttachesImage(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"questions":[{"id":"q1","label":"Q1","text":"x","subQuestions":[]}]}`)})
	svc := NewService(mock, DefaultConfig())

	img := &llm.Image{MIMEType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}
	if _, err := svc.Questions(t.Context(), Homework{Image: img}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	msg := mock.Calls[0].Messages[0]
	if len(msg.Images) != 1 || msg.Images[0].MIMEType != "image/png" {
		t.Fatalf("expected image on the message, got %+v", msg.Images)
	}
	if msg.Content != "Here is the homework image:" {
		t.Errorf("unexpected prompt %q", msg.Content)
	}
}

func TestService_QuestionsMalformed(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"questions":{}}`)})
	svc := NewService(mock, DefaultConfig())

	_, err := svc.Questions(t.Context(), Homework{Text: "x"})
	if !errors.Is(err, content.ErrMalformedContent) {
		t.Fatalf("expected malformed content, got %v", err)
	}
}

func TestService_EmptyHomeworkNeverCallsProvider(t *testing.T) {
	mock := llm.NewMockProvider()
	svc := NewService(mock, DefaultConfig())

	if _, err := svc.Questions(t.Context(), Homework{Text: "   "}); !errors.Is(err, ErrEmptyHomework) {
		t.Fatalf("expected ErrEmptyHomework, got %v", err)
	}
	if _, err := svc.Solution(t.Context(), Homework{}); !errors.Is(err, ErrEmptyHomework) {
		t.Fatalf("expected ErrEmptyHomework, got %v", err)
	}
	if mock.CallCount() != 0 {
		t.Fatalf("expected no provider calls, got %d", mock.CallCount())
	}
}

func TestService_Solution(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage("Question 1\nAdd 3 to both sides...\n")})
	svc := NewService(mock, DefaultConfig())

	text, err := svc.Solution(t.Context(), Homework{Text: "Solve 2x - 3 = -7"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Question 1\nAdd 3 to both sides..." {
		t.Errorf("unexpected solution %q", text)
	}
	if mock.Calls[0].Schema != nil {
		t.Error("solutions are plain text")
	}
}

func TestService_StepGame(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validStepGameJSON()})
	svc := NewService(mock, DefaultConfig())

	game, err := svc.StepGame(t.Context(), content.Question{ID: "q1", Label: "Question 1", Text: "Solve 2x - 3 = -7"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(game.Steps) != 2 || game.KeySkill != "solving linear equations" {
		t.Fatalf("unexpected game: %+v", game)
	}
	if game.Steps[0].Answers[1].Explanation != "That makes -10." {
		t.Error("explanations should survive decoding")
	}
	if !strings.Contains(mock.Calls[0].Messages[0].Content, `"Solve 2x - 3 = -7"`) {
		t.Errorf("question text missing from prompt: %q", mock.Calls[0].Messages[0].Content)
	}
}

func TestService_StepGameRejectsTwoCorrect(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"steps":[{"question":"2+2","stepResult":"","answers":[
		{"text":"4","isCorrect":true,"explanation":""},
		{"text":"four","isCorrect":true,"explanation":""}
	]}],"keySkill":"adding"}`)})
	svc := NewService(mock, DefaultConfig())

	_, err := svc.StepGame(t.Context(), content.Question{ID: "q1", Label: "Q1", Text: "2+2"})
	var me *content.MalformedError
	if !errors.As(err, &me) || !strings.Contains(me.Field, "steps[0]") {
		t.Fatalf("expected malformed steps[0], got %v", err)
	}
}

func TestService_StepGameProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{}})
	svc := NewService(mock, DefaultConfig())

	_, err := svc.StepGame(t.Context(), content.Question{ID: "q1", Label: "Q1", Text: "2+2"})
	var rl *llm.ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected wrapped rate limit error, got %v", err)
	}
}

func TestService_MasteryQuiz(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validStepGameJSON()})
	svc := NewService(mock, DefaultConfig())

	c := content.Curriculum{{ID: "step_1", Title: "Know what a fraction is"}, {ID: "step_2", Title: "Add like fractions"}}
	if _, err := svc.MasteryQuiz(t.Context(), c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	prompt := mock.Calls[0].Messages[0].Content
	if !strings.Contains(prompt, "1. Know what a fraction is") || !strings.Contains(prompt, "2. Add like fractions") {
		t.Errorf("objectives missing from prompt: %q", prompt)
	}
	if mock.Calls[0].Schema != StepGameSchema {
		t.Error("the mastery quiz is a step game")
	}
}

func TestService_Curriculum(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		wantLen int
		wantErr bool
	}{
		{"three objectives", `{"curriculum":[{"id":"step_1","title":"A"},{"id":"step_2","title":"B"},{"id":"step_3","title":"C"}]}`, 3, false},
		{"duplicate ids", `{"curriculum":[{"id":"step_1","title":"A"},{"id":"step_1","title":"B"}]}`, 0, true},
		{"empty", `{"curriculum":[]}`, 0, true},
		{"not json", `sorry`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(tt.reply)})
			svc := NewService(mock, DefaultConfig())

			c, err := svc.Curriculum(t.Context(), "fractions confuse me")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Curriculum() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(c) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(c), tt.wantLen)
			}
		})
	}
}

func TestService_LessonVisuals(t *testing.T) {
	tests := []struct {
		name     string
		visual   string
		wantType string
		wantData string
	}{
		{"none", `{"type":"none","data":""}`, "", ""},
		{"latex", `{"type":"latex_expression","data":"\\frac{1}{2}"}`, content.VisualLatex, `{"latex":"\\frac{1}{2}"}`},
		{"html", `{"type":"html_expression","data":"<b>3</b>/4"}`, content.VisualHTML, `{"html":"<b>3</b>/4"}`},
		{"chart", `{"type":"chartjs","data":"{\"type\":\"bar\"}"}`, content.VisualChart, `{"type":"bar"}`},
		{"bad chart", `{"type":"chartjs","data":"not json"}`, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := `{"lesson":"A *fraction* is a part of a whole.","visual":` + tt.visual + `,"challenge":"What is 1/2 of 4?"}`
			mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(reply)})
			svc := NewService(mock, DefaultConfig())

			l, err := svc.Lesson(t.Context(), "Know what a fraction is")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantType == "" {
				if l.Visual != nil {
					t.Fatalf("expected no visual, got %+v", l.Visual)
				}
				return
			}
			if l.Visual == nil || l.Visual.Type != tt.wantType || string(l.Visual.Data) != tt.wantData {
				t.Fatalf("visual = %+v (data %s)", l.Visual, l.Visual.Data)
			}
		})
	}
}

func TestService_Evaluate(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`{"isCorrect":true,"feedback":"","newChallenge":"","visual":{"type":"none","data":""}}`)},
		llm.MockResponse{Content: json.RawMessage(`{"isCorrect":false,"feedback":"Almost!","newChallenge":"What is 1/3 of 6?","visual":{"type":"none","data":""}}`)},
		llm.MockResponse{Content: json.RawMessage(`{"isCorrect":false,"feedback":"Almost!","newChallenge":"","visual":{"type":"none","data":""}}`)},
	)
	svc := NewService(mock, DefaultConfig())
	in := EvaluationInput{ObjectiveTitle: "Fractions", Challenge: "What is 1/2 of 4?", UserAnswer: "2"}

	ev, err := svc.Evaluate(t.Context(), in)
	if err != nil || !ev.IsCorrect {
		t.Fatalf("expected correct, got %+v, %v", ev, err)
	}

	ev, err = svc.Evaluate(t.Context(), in)
	if err != nil || ev.IsCorrect || ev.NewChallenge != "What is 1/3 of 6?" || ev.Feedback != "Almost!" {
		t.Fatalf("unexpected evaluation %+v, %v", ev, err)
	}

	if _, err := svc.Evaluate(t.Context(), in); !errors.Is(err, content.ErrMalformedContent) {
		t.Fatalf("a wrong answer without a new challenge is malformed, got %v", err)
	}

	if !strings.Contains(mock.Calls[0].Messages[0].Content, `Student's answer: "2"`) {
		t.Errorf("answer missing from prompt: %q", mock.Calls[0].Messages[0].Content)
	}
}

func TestService_RecordsPurpose(t *testing.T) {
	var purposes []string
	rec := &purposeProvider{inner: llm.NewMockProvider(llm.MockResponse{Content: validStepGameJSON()}), seen: &purposes}
	svc := NewService(rec, DefaultConfig())

	if _, err := svc.StepGame(t.Context(), content.Question{ID: "q", Label: "Q", Text: "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(purposes) != 1 || purposes[0] != PurposeStepGame {
		t.Fatalf("purposes = %v", purposes)
	}
}

func TestParseInput(t *testing.T) {
	dir := t.TempDir()
	png := filepath.Join(dir, "page.png")
	// Minimal PNG signature is enough for content sniffing.
	if err := os.WriteFile(png, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), 0o644); err != nil {
		t.Fatal(err)
	}
	txt := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txt, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	hw, err := ParseInput("  2 + 2 = ?  ")
	if err != nil || hw.Text != "2 + 2 = ?" || hw.Image != nil || hw.InputType() != "text" {
		t.Fatalf("plain text: %+v, %v", hw, err)
	}

	hw, err = ParseInput("@" + png + " only question 3")
	if err != nil {
		t.Fatalf("image input: %v", err)
	}
	if hw.Image == nil || hw.Image.MIMEType != "image/png" || hw.Text != "only question 3" || hw.ImageName != "page.png" {
		t.Fatalf("unexpected homework %+v", hw)
	}
	if hw.InputType() != "image" || hw.Empty() {
		t.Fatal("image homework is not empty")
	}

	if _, err := ParseInput("@" + txt); !errors.Is(err, ErrUnsupportedImage) {
		t.Fatalf("expected ErrUnsupportedImage, got %v", err)
	}
	if _, err := ParseInput("@" + filepath.Join(dir, "missing.jpg")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if hw, _ := ParseInput(""); !hw.Empty() {
		t.Fatal("blank input is empty")
	}
}

type purposeProvider struct {
	inner llm.Provider
	seen  *[]string
}

func (p *purposeProvider) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	*p.seen = append(*p.seen, llm.CallFrom(ctx).Purpose)
	return p.inner.Generate(ctx, req)
}

func (p *purposeProvider) ModelID() string { return p.inner.ModelID() }
