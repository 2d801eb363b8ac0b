package store

import (
	"context"
	"encoding/json"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
	Name   string    // analytics event name filter

	Purpose    string // LLM purpose filter
	FailedOnly bool   // only failed LLM requests
}

// AnalyticsEventData is a single fire-and-forget product event.
type AnalyticsEventData struct {
	SessionID  string
	Name       string
	Properties map[string]any
	Timestamp  time.Time // zero means now
}

// AnalyticsEvent is a stored AnalyticsEventData.
type AnalyticsEvent struct {
	ID         int
	Sequence   int64
	Timestamp  time.Time
	SessionID  string
	Name       string
	Properties json.RawMessage
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	RequestID    string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLMRequestEventData.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates LLM calls grouped by purpose or model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to events.
type EventRepo interface {
	AppendAnalyticsEvent(ctx context.Context, data AnalyticsEventData) error
	QueryAnalyticsEvents(ctx context.Context, opts QueryOpts) ([]AnalyticsEvent, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)
	// GetLLMEvent returns nil when no event has the id.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}
