package generation

import "github.com/abhisek/goat/internal/llm"

// Every property is listed as required and objects are closed so the same
// schema works with OpenAI strict mode and Gemini response schemas. Optional
// values are sent as empty strings or empty arrays instead.

var questionProps = map[string]any{
	"id": map[string]any{
		"type":        "string",
		"description": "Stable id such as q1 or q2_1",
	},
	"label": map[string]any{
		"type":        "string",
		"description": "Display label such as Question 1 or 2.1",
	},
	"text": map[string]any{
		"type":        "string",
		"description": "Full question text",
	},
}

// QuestionsSchema is the shape of the homework parse: a list of questions
// and packs. A pack has an empty text and a non-empty subQuestions list.
var QuestionsSchema = &llm.Schema{
	Name:        "homework-questions",
	Description: "Questions and grouped question packs found in a piece of homework",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":    questionProps["id"],
						"label": questionProps["label"],
						"text":  questionProps["text"],
						"subQuestions": map[string]any{
							"type":        "array",
							"description": "Ordered sub-questions when this item is a pack, otherwise empty",
							"items": map[string]any{
								"type":                 "object",
								"properties":           questionProps,
								"required":             []any{"id", "label", "text"},
								"additionalProperties": false,
							},
						},
					},
					"required":             []any{"id", "label", "text", "subQuestions"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

// StepGameSchema is the shape of a step-by-step game for one question.
var StepGameSchema = &llm.Schema{
	Name:        "step-game",
	Description: "A question broken into multiple-choice solving steps",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"steps": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "What the learner must decide at this step",
						},
						"stepResult": map[string]any{
							"type":        "string",
							"description": "State of the problem after the correct action, or empty",
						},
						"answers": map[string]any{
							"type":     "array",
							"minItems": 2,
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"text":      map[string]any{"type": "string"},
									"isCorrect": map[string]any{"type": "boolean"},
									"explanation": map[string]any{
										"type":        "string",
										"description": "Why a wrong answer is wrong, empty for the correct one",
									},
								},
								"required":             []any{"text", "isCorrect", "explanation"},
								"additionalProperties": false,
							},
						},
					},
					"required":             []any{"question", "stepResult", "answers"},
					"additionalProperties": false,
				},
			},
			"keySkill": map[string]any{
				"type":        "string",
				"description": "The main skill practised, in a few words",
			},
		},
		"required":             []any{"steps", "keySkill"},
		"additionalProperties": false,
	},
}

// CurriculumSchema is the shape of a generated curriculum.
var CurriculumSchema = &llm.Schema{
	Name:        "curriculum",
	Description: "An ordered list of 3 to 5 learning objectives",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"curriculum": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id": map[string]any{
							"type":        "string",
							"description": "step_1, step_2, ...",
						},
						"title": map[string]any{
							"type":        "string",
							"description": "Concise learning goal",
						},
					},
					"required":             []any{"id", "title"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"curriculum"},
		"additionalProperties": false,
	},
}

var visualSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"type": map[string]any{
			"type": "string",
			"enum": []any{"none", "latex_expression", "chartjs", "html_expression"},
		},
		"data": map[string]any{
			"type":        "string",
			"description": "LaTeX source, an HTML snippet, or a Chart.js config as a JSON string. Empty when type is none",
		},
	},
	"required":             []any{"type", "data"},
	"additionalProperties": false,
}

// LessonSchema is the shape of a lesson for one objective.
var LessonSchema = &llm.Schema{
	Name:        "lesson",
	Description: "A short lesson with an optional visual and a challenge question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"lesson": map[string]any{
				"type":        "string",
				"description": "Lesson text in very short paragraphs, key terms in *asterisks*",
			},
			"visual": visualSchema,
			"challenge": map[string]any{
				"type":        "string",
				"description": "One question checking the objective",
			},
		},
		"required":             []any{"lesson", "visual", "challenge"},
		"additionalProperties": false,
	},
}

// EvaluationSchema is the shape of an answer judgement.
var EvaluationSchema = &llm.Schema{
	Name:        "evaluation",
	Description: "Whether a learner's answer is correct, with feedback and a new challenge if not",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"isCorrect": map[string]any{"type": "boolean"},
			"feedback": map[string]any{
				"type":        "string",
				"description": "Gentle feedback on a wrong answer, empty when correct",
			},
			"newChallenge": map[string]any{
				"type":        "string",
				"description": "A slightly different question on the same skill, empty when correct",
			},
			"visual": visualSchema,
		},
		"required":             []any{"isCorrect", "feedback", "newChallenge", "visual"},
		"additionalProperties": false,
	},
}
