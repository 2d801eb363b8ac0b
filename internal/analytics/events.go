package analytics

// Event names tracked by the tutor.
const (
	EventSessionStart       = "session_start"
	EventSessionEnd         = "session_end"
	EventCoreActionTaken    = "core_action_taken"
	EventQuestionsProcessed = "questions_processed"
	EventGameComplete       = "game_complete"
	EventPlayAgainClicked   = "play_again_clicked"

	EventTopicStarted        = "topic_started"
	EventCurriculumGenerated = "curriculum_generated"
	EventObjectiveMastered   = "objective_mastered"
	EventMasteryQuizReady    = "mastery_quiz_ready"
)

// Values of the core_action_taken properties.
const (
	ActionGame     = "game"
	ActionSolution = "solution"

	InputText  = "text"
	InputImage = "image"
)

// Event is a single analytics notification.
type Event struct {
	Name       string         `json:"eventName"`
	Properties map[string]any `json:"properties"`
}
