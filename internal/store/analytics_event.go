package store

import (
	"context"
	"encoding/json"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendAnalyticsEvent(ctx context.Context, data AnalyticsEventData) error {
	if data.Name == "" {
		return fmt.Errorf("analytics event name is required")
	}
	props := data.Properties
	if props == nil {
		props = map[string]any{}
	}
	raw, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("marshal properties for %s: %w", data.Name, err)
	}

	err = r.insert(ctx, analyticsEventsTable, data.Timestamp,
		[]string{"session_id", "event_name", "properties"},
		[]any{data.SessionID, data.Name, string(raw)})
	if err != nil {
		return fmt.Errorf("save analytics event %s: %w", data.Name, err)
	}
	return nil
}

func (r *eventRepo) QueryAnalyticsEvents(ctx context.Context, opts QueryOpts) ([]AnalyticsEvent, error) {
	s := builder().
		Select("id", "sequence", "timestamp", "session_id", "event_name", "properties").
		From(entsql.Table(analyticsEventsTable))
	if opts.Name != "" {
		s.Where(entsql.EQ("event_name", opts.Name))
	}
	q, args := applyQueryOpts(s, opts).Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("query analytics events: %w", err)
	}
	defer rows.Close()

	var out []AnalyticsEvent
	for rows.Next() {
		var (
			e     AnalyticsEvent
			props string
		)
		if err := rows.Scan(&e.ID, &e.Sequence, &e.Timestamp, &e.SessionID, &e.Name, &props); err != nil {
			return nil, fmt.Errorf("scan analytics event: %w", err)
		}
		e.Properties = json.RawMessage(props)
		out = append(out, e)
	}
	return out, rows.Err()
}
