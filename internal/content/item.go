package content

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Item is either a single Question or a grouped Pack. The zero Item is
// neither and reports an empty ID.
type Item struct {
	question *Question
	pack     *Pack
}

// Single wraps a bare question.
func Single(q Question) Item { return Item{question: &q} }

// Grouped wraps a pack.
func Grouped(p Pack) Item { return Item{pack: &p} }

// IsPack reports whether the item is a Pack.
func (it Item) IsPack() bool { return it.pack != nil }

// Pack returns the wrapped pack.
func (it Item) Pack() (Pack, bool) {
	if it.pack == nil {
		return Pack{}, false
	}
	return *it.pack, true
}

// Question returns the wrapped question.
func (it Item) Question() (Question, bool) {
	if it.question == nil {
		return Question{}, false
	}
	return *it.question, true
}

func (it Item) ID() string {
	switch {
	case it.pack != nil:
		return it.pack.ID
	case it.question != nil:
		return it.question.ID
	}
	return ""
}

func (it Item) Label() string {
	switch {
	case it.pack != nil:
		return it.pack.Label
	case it.question != nil:
		return it.question.Label
	}
	return ""
}

// Questions returns the questions to play for this item: the sub-questions
// of a pack, or the question itself.
func (it Item) Questions() []Question {
	switch {
	case it.pack != nil:
		return append([]Question(nil), it.pack.SubQuestions...)
	case it.question != nil:
		return []Question{*it.question}
	}
	return nil
}

// DisplayTitle is the label shown on the selection screen. Packs drop a
// trailing " Pack" since the screen already marks them as packs.
func (it Item) DisplayTitle() string {
	if it.pack != nil {
		return strings.TrimSuffix(it.pack.Label, " Pack")
	}
	return it.Label()
}

// rawItem is the wire shape: a question, or a pack when subQuestions is
// present and non-empty.
type rawItem struct {
	ID           string     `json:"id"`
	Label        string     `json:"label"`
	Text         string     `json:"text"`
	SubQuestions []Question `json:"subQuestions"`
}

func (it *Item) UnmarshalJSON(b []byte) error {
	var raw rawItem
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if len(raw.SubQuestions) > 0 {
		*it = Grouped(Pack{ID: raw.ID, Label: raw.Label, SubQuestions: raw.SubQuestions})
		return nil
	}
	*it = Single(Question{ID: raw.ID, Label: raw.Label, Text: raw.Text})
	return nil
}

func (it Item) MarshalJSON() ([]byte, error) {
	switch {
	case it.pack != nil:
		return json.Marshal(it.pack)
	case it.question != nil:
		return json.Marshal(it.question)
	}
	return []byte("null"), nil
}

// DecodeItems parses a generation reply of the form {"questions": [...]}.
// A missing, non-array or empty "questions" value is malformed content.
func DecodeItems(raw []byte) ([]Item, error) {
	var envelope struct {
		Questions json.RawMessage `json:"questions"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, Malformed("questions", fmt.Sprintf("not a JSON object: %v", err))
	}
	if len(envelope.Questions) == 0 || envelope.Questions[0] != '[' {
		return nil, Malformed("questions", "missing or not an array")
	}

	var items []Item
	if err := json.Unmarshal(envelope.Questions, &items); err != nil {
		return nil, Malformed("questions", err.Error())
	}
	if err := ValidateItems(items); err != nil {
		return nil, err
	}
	return items, nil
}
