package analytics

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/goat/internal/store"
)

// Metrics summarises tracked events.
type Metrics struct {
	SessionStarts         int     `json:"sessionStarts"`
	GameStarts            int     `json:"gameStarts"`
	SolutionRequests      int     `json:"solutionRequests"`
	ImageUploads          int     `json:"imageUploads"`
	TextInputs            int     `json:"textInputs"`
	GamesCompleted        int     `json:"gamesCompleted"`
	PlayAgainClicks       int     `json:"playAgainClicks"`
	TopicsStarted         int     `json:"topicsStarted"`
	ObjectivesMastered    int     `json:"objectivesMastered"`
	AvgSessionTimeSeconds float64 `json:"avgSessionTimeSeconds"`
}

// Summarize computes metrics from stored events. The average session time
// divides the total of session_end lengths by the number of session starts.
func Summarize(events []store.AnalyticsEvent) Metrics {
	var (
		m         Metrics
		totalSecs float64
	)
	for _, e := range events {
		switch e.Name {
		case EventSessionStart:
			m.SessionStarts++
		case EventSessionEnd:
			var p struct {
				Seconds float64 `json:"session_length_seconds"`
			}
			if json.Unmarshal(e.Properties, &p) == nil && p.Seconds > 0 {
				totalSecs += p.Seconds
			}
		case EventCoreActionTaken:
			var p struct {
				Action    string `json:"action"`
				InputType string `json:"input_type"`
			}
			if json.Unmarshal(e.Properties, &p) != nil {
				continue
			}
			switch p.Action {
			case ActionGame:
				m.GameStarts++
			case ActionSolution:
				m.SolutionRequests++
			}
			switch p.InputType {
			case InputImage:
				m.ImageUploads++
			case InputText:
				m.TextInputs++
			}
		case EventGameComplete:
			m.GamesCompleted++
		case EventPlayAgainClicked:
			m.PlayAgainClicks++
		case EventTopicStarted:
			m.TopicsStarted++
		case EventObjectiveMastered:
			m.ObjectivesMastered++
		}
	}
	if m.SessionStarts > 0 {
		m.AvgSessionTimeSeconds = totalSecs / float64(m.SessionStarts)
	}
	return m
}

// Load queries every stored event and summarises it.
func Load(ctx context.Context, repo store.EventRepo) (Metrics, error) {
	events, err := repo.QueryAnalyticsEvents(ctx, store.QueryOpts{})
	if err != nil {
		return Metrics{}, fmt.Errorf("load analytics events: %w", err)
	}
	return Summarize(events), nil
}
