// Package generation implements the AI collaborators of a tutoring session:
// homework parsing, worked solutions, step games, curricula, lessons and
// answer evaluation. Every structured reply is checked against the content
// model before it is handed back.
package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/goat/internal/content"
	"github.com/abhisek/goat/internal/llm"
)

// LLM call purposes, recorded with every request event.
const (
	PurposeQuestions   = "questions"
	PurposeSolution    = "solution"
	PurposeStepGame    = "step-game"
	PurposeCurriculum  = "curriculum"
	PurposeLesson      = "lesson"
	PurposeEvaluation  = "evaluation"
	PurposeMasteryQuiz = "mastery-quiz"
)

// ErrEmptyHomework is returned when Homework carries neither text nor image.
var ErrEmptyHomework = errors.New("homework has no text or image")

// EvaluationInput is a learner's answer to a lesson challenge.
type EvaluationInput struct {
	ObjectiveTitle string
	Challenge      string
	UserAnswer     string
}

// Service generates tutoring content with an LLM provider. It is safe for
// concurrent use.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates a generation service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// Questions extracts the questions and packs from a piece of homework.
func (s *Service) Questions(ctx context.Context, hw Homework) ([]content.Item, error) {
	if hw.Empty() {
		return nil, ErrEmptyHomework
	}
	resp, err := s.generate(ctx, PurposeQuestions, llm.Request{
		System:    questionsSystemPrompt,
		Messages:  []llm.Message{hw.message(buildQuestionsUserMessage(hw))},
		Schema:    QuestionsSchema,
		MaxTokens: s.cfg.QuestionsMaxTokens,
	})
	if err != nil {
		return nil, err
	}
	return content.DecodeItems(llm.StripCodeFence(resp.Content))
}

// Solution writes a plain-text worked solution for the homework.
func (s *Service) Solution(ctx context.Context, hw Homework) (string, error) {
	if hw.Empty() {
		return "", ErrEmptyHomework
	}
	resp, err := s.generate(ctx, PurposeSolution, llm.Request{
		System:      solutionSystemPrompt,
		Messages:    []llm.Message{hw.message(buildQuestionsUserMessage(hw))},
		MaxTokens:   s.cfg.SolutionMaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", content.Malformed("solutionText", "empty")
	}
	return text, nil
}

// StepGame breaks one question into a multiple-choice step game.
func (s *Service) StepGame(ctx context.Context, q content.Question) (content.StepGame, error) {
	if strings.TrimSpace(q.Text) == "" {
		return content.StepGame{}, content.Malformed(fmt.Sprintf("question %q", q.Label), "empty text")
	}
	return s.stepGame(ctx, PurposeStepGame, buildStepGameUserMessage(q.Text))
}

// MasteryQuiz writes a final quiz over every objective of a curriculum.
func (s *Service) MasteryQuiz(ctx context.Context, c content.Curriculum) (content.StepGame, error) {
	if len(c) == 0 {
		return content.StepGame{}, content.Malformed("curriculum", "empty")
	}
	return s.stepGame(ctx, PurposeMasteryQuiz, buildMasteryQuizUserMessage(c))
}

func (s *Service) stepGame(ctx context.Context, purpose, prompt string) (content.StepGame, error) {
	resp, err := s.generate(ctx, purpose, llm.Request{
		System:      stepGameSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Schema:      StepGameSchema,
		MaxTokens:   s.cfg.StepGameMaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return content.StepGame{}, err
	}

	var game content.StepGame
	if err := decode(resp.Content, &game); err != nil {
		return content.StepGame{}, err
	}
	if err := content.ValidateStepGame(game); err != nil {
		return content.StepGame{}, err
	}
	return game, nil
}

// Curriculum turns a learner's pain point into ordered objectives.
func (s *Service) Curriculum(ctx context.Context, painPoint string) (content.Curriculum, error) {
	painPoint = strings.TrimSpace(painPoint)
	if painPoint == "" {
		return nil, content.Malformed("painPoint", "empty")
	}
	resp, err := s.generate(ctx, PurposeCurriculum, llm.Request{
		System:      curriculumSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: fmt.Sprintf("My pain point is: %q", painPoint)}},
		Schema:      CurriculumSchema,
		MaxTokens:   s.cfg.CurriculumMaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, err
	}

	var out struct {
		Curriculum content.Curriculum `json:"curriculum"`
	}
	if err := decode(resp.Content, &out); err != nil {
		return nil, err
	}
	if err := content.ValidateCurriculum(out.Curriculum); err != nil {
		return nil, err
	}
	return out.Curriculum, nil
}

// wireVisual is the flattened visual the schemas ask for.
type wireVisual struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// toVisual converts a wire visual to the opaque VisualSpec handed to screens.
// LaTeX and HTML become {"latex": ...} and {"html": ...}; a chart config
// must itself be a JSON object. Anything else is dropped.
func (v *wireVisual) toVisual() *content.VisualSpec {
	if v == nil || strings.TrimSpace(v.Data) == "" {
		return nil
	}
	var data []byte
	switch v.Type {
	case content.VisualLatex:
		data = textVisual("latex", v.Data)
	case content.VisualHTML:
		data = textVisual("html", v.Data)
	case content.VisualChart:
		raw := llm.StripCodeFence(json.RawMessage(v.Data))
		var obj map[string]any
		if json.Unmarshal(raw, &obj) != nil {
			return nil
		}
		data = raw
	default:
		return nil
	}
	return &content.VisualSpec{Type: v.Type, Data: data}
}

func textVisual(key, value string) json.RawMessage {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(map[string]string{key: value})
	return bytes.TrimSpace(buf.Bytes())
}

// Lesson writes the lesson, visual and challenge for one objective.
func (s *Service) Lesson(ctx context.Context, objectiveTitle string) (content.Lesson, error) {
	resp, err := s.generate(ctx, PurposeLesson, llm.Request{
		System:      lessonSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: fmt.Sprintf("The learning objective is: %q", objectiveTitle)}},
		Schema:      LessonSchema,
		MaxTokens:   s.cfg.LessonMaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return content.Lesson{}, err
	}

	var out struct {
		Lesson    string      `json:"lesson"`
		Visual    *wireVisual `json:"visual"`
		Challenge string      `json:"challenge"`
	}
	if err := decode(resp.Content, &out); err != nil {
		return content.Lesson{}, err
	}
	l := content.Lesson{Lesson: out.Lesson, Visual: out.Visual.toVisual(), Challenge: out.Challenge}
	if err := content.ValidateLesson(l); err != nil {
		return content.Lesson{}, err
	}
	return l, nil
}

// Evaluate judges a free-text answer to a lesson challenge.
func (s *Service) Evaluate(ctx context.Context, in EvaluationInput) (content.Evaluation, error) {
	resp, err := s.generate(ctx, PurposeEvaluation, llm.Request{
		System:    evaluationSystemPrompt,
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: buildEvaluationUserMessage(in)}},
		Schema:    EvaluationSchema,
		MaxTokens: s.cfg.EvaluateMaxTokens,
	})
	if err != nil {
		return content.Evaluation{}, err
	}

	var out struct {
		IsCorrect    bool        `json:"isCorrect"`
		Feedback     string      `json:"feedback"`
		NewChallenge string      `json:"newChallenge"`
		Visual       *wireVisual `json:"visual"`
	}
	if err := decode(resp.Content, &out); err != nil {
		return content.Evaluation{}, err
	}
	ev := content.Evaluation{IsCorrect: out.IsCorrect}
	if !out.IsCorrect {
		ev.Feedback = out.Feedback
		ev.NewChallenge = out.NewChallenge
		ev.Visual = out.Visual.toVisual()
	}
	if err := content.ValidateEvaluation(ev); err != nil {
		return content.Evaluation{}, err
	}
	return ev, nil
}

func (s *Service) generate(ctx context.Context, purpose string, req llm.Request) (*llm.Response, error) {
	resp, err := s.provider.Generate(llm.WithPurpose(ctx, purpose), req)
	if err != nil {
		return nil, fmt.Errorf("%s generation: %w", purpose, err)
	}
	return resp, nil
}

func decode(raw json.RawMessage, v any) error {
	if err := json.Unmarshal(llm.StripCodeFence(raw), v); err != nil {
		return content.Malformed("response", err.Error())
	}
	return nil
}
