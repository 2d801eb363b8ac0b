// Package content holds the data shapes that flow between the generation
// services, the game engine and the session: questions, packs, step games
// and curricula.
package content

import "encoding/json"

// Question is one homework problem as extracted by the generation service.
type Question struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Pack groups ordered sub-questions that are practised as a unit.
type Pack struct {
	ID           string     `json:"id"`
	Label        string     `json:"label"`
	SubQuestions []Question `json:"subQuestions"`
}

// Answer is one multiple-choice option of a Step.
type Answer struct {
	Text        string `json:"text"`
	IsCorrect   bool   `json:"isCorrect"`
	Explanation string `json:"explanation,omitempty"`
}

// Step is one move towards solving a question.
type Step struct {
	Question string `json:"question"`

	// StepResult is the state of the problem after this step, shown in the
	// solved path. Optional.
	StepResult string   `json:"stepResult,omitempty"`
	Answers    []Answer `json:"answers"`
}

// CorrectCount returns how many answers are marked correct.
func (s Step) CorrectCount() int {
	n := 0
	for _, a := range s.Answers {
		if a.IsCorrect {
			n++
		}
	}
	return n
}

// StepGame is the playable breakdown of a single question.
type StepGame struct {
	Steps    []Step `json:"steps"`
	KeySkill string `json:"keySkill"`
}

// GamePack is the ordered set of step games for one playthrough, index
// aligned with the questions of the selected item.
type GamePack []StepGame

// TotalSteps sums the step counts of every game in the pack.
func (p GamePack) TotalSteps() int {
	n := 0
	for _, g := range p {
		n += len(g.Steps)
	}
	return n
}

// Objective is one unit of a generated curriculum.
type Objective struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Curriculum is an ordered list of objectives, normally 3 to 5.
type Curriculum []Objective

// IDs returns the objective ids in order.
func (c Curriculum) IDs() []string {
	ids := make([]string, len(c))
	for i, o := range c {
		ids[i] = o.ID
	}
	return ids
}

// Find returns the objective with the given id.
func (c Curriculum) Find(id string) (Objective, bool) {
	for _, o := range c {
		if o.ID == id {
			return o, true
		}
	}
	return Objective{}, false
}

// Visual kinds produced by the lesson service.
const (
	VisualLatex = "latex_expression"
	VisualChart = "chartjs"
	VisualHTML  = "html_expression"
)

// VisualSpec is an illustration attached to a lesson or challenge. Data is
// passed through untouched to whatever renders it.
type VisualSpec struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Lesson is the teaching content for one objective.
type Lesson struct {
	Lesson    string      `json:"lesson"`
	Visual    *VisualSpec `json:"visual,omitempty"`
	Challenge string      `json:"challenge"`
}

// Evaluation is the verdict on a learner's free-text answer. When the answer
// is wrong, Feedback and NewChallenge are set and Visual may be.
type Evaluation struct {
	IsCorrect    bool        `json:"isCorrect"`
	Feedback     string      `json:"feedback,omitempty"`
	NewChallenge string      `json:"newChallenge,omitempty"`
	Visual       *VisualSpec `json:"visual,omitempty"`
}

// GameResult is what a finished playthrough reports.
type GameResult struct {
	KeySkill    string   `json:"keySkill"`
	SolvedSteps []string `json:"solvedSteps"`
}
