package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	analyticsEventsTable = "analytics_events"
	llmRequestsTable     = "llm_request_events"
)

// Every event table starts with the same id, sequence and timestamp
// columns. The sequence is global across tables.
func eventTable(name string) *schema.Table {
	return schema.NewTable(name).
		AddPrimary(&schema.Column{Name: "id", Type: field.TypeInt, Increment: true}).
		AddColumn(&schema.Column{Name: "sequence", Type: field.TypeInt64, Unique: true}).
		AddColumn(&schema.Column{Name: "timestamp", Type: field.TypeTime})
}

var (
	AnalyticsEventsTable = eventTable(analyticsEventsTable).
				AddColumn(&schema.Column{Name: "session_id", Type: field.TypeString, Default: ""}).
				AddColumn(&schema.Column{Name: "event_name", Type: field.TypeString}).
				AddColumn(&schema.Column{Name: "properties", Type: field.TypeString, Size: 1 << 16, Default: "{}"}).
				AddIndex("analyticsevent_event_name", false, []string{"event_name"}).
				AddIndex("analyticsevent_timestamp", false, []string{"timestamp"})

	LLMRequestEventsTable = eventTable(llmRequestsTable).
				AddColumn(&schema.Column{Name: "provider", Type: field.TypeString}).
				AddColumn(&schema.Column{Name: "model", Type: field.TypeString}).
				AddColumn(&schema.Column{Name: "purpose", Type: field.TypeString}).
				AddColumn(&schema.Column{Name: "request_id", Type: field.TypeString, Default: ""}).
				AddColumn(&schema.Column{Name: "input_tokens", Type: field.TypeInt, Default: 0}).
				AddColumn(&schema.Column{Name: "output_tokens", Type: field.TypeInt, Default: 0}).
				AddColumn(&schema.Column{Name: "latency_ms", Type: field.TypeInt64, Default: 0}).
				AddColumn(&schema.Column{Name: "success", Type: field.TypeBool}).
				AddColumn(&schema.Column{Name: "error_message", Type: field.TypeString, Default: ""}).
				AddColumn(&schema.Column{Name: "request_body", Type: field.TypeString, Size: 1 << 20, Default: ""}).
				AddColumn(&schema.Column{Name: "response_body", Type: field.TypeString, Size: 1 << 20, Default: ""}).
				AddIndex("llmrequestevent_purpose", false, []string{"purpose"}).
				AddIndex("llmrequestevent_success", false, []string{"success"})

	// Tables lists everything Open migrates.
	Tables = []*schema.Table{AnalyticsEventsTable, LLMRequestEventsTable}
)
