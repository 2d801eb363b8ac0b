package stats

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/goat/internal/analytics"
	"github.com/abhisek/goat/internal/router"
	"github.com/abhisek/goat/internal/store"
)

// fakeRepo serves canned analytics events.
type fakeRepo struct {
	events []store.AnalyticsEvent
	err    error
}

func (f *fakeRepo) AppendAnalyticsEvent(context.Context, store.AnalyticsEventData) error {
	return nil
}
func (f *fakeRepo) QueryAnalyticsEvents(_ context.Context, opts store.QueryOpts) ([]store.AnalyticsEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	if opts.Limit > 0 && opts.Limit < len(f.events) {
		return f.events[:opts.Limit], nil
	}
	return f.events, nil
}
func (f *fakeRepo) AppendLLMRequest(context.Context, store.LLMRequestEventData) error { return nil }
func (f *fakeRepo) QueryLLMEvents(context.Context, store.QueryOpts) ([]store.LLMRequestEvent, error) {
	return nil, nil
}
func (f *fakeRepo) GetLLMEvent(context.Context, int) (*store.LLMRequestEvent, error) { return nil, nil }
func (f *fakeRepo) LLMUsageByPurpose(context.Context) ([]store.LLMUsage, error)     { return nil, nil }
func (f *fakeRepo) LLMUsageByModel(context.Context) ([]store.LLMUsage, error)       { return nil, nil }

func event(name, props string) store.AnalyticsEvent {
	return store.AnalyticsEvent{Name: name, Timestamp: time.Now(), Properties: json.RawMessage(props)}
}

func TestStatsScreenShowsMetrics(t *testing.T) {
	repo := &fakeRepo{events: []store.AnalyticsEvent{
		event(analytics.EventSessionEnd, `{"session_length_seconds":90}`),
		event(analytics.EventCoreActionTaken, `{"action":"game","input_type":"text"}`),
		event(analytics.EventSessionStart, `{}`),
	}}
	s := New(repo)
	msg := s.Init()()
	s.Update(msg)

	v := s.View(100, 40)
	for _, want := range []string{"Sessions", "1:30", analytics.EventCoreActionTaken} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q:\n%s", want, v)
		}
	}
}

func TestStatsScreenExpandsEvent(t *testing.T) {
	repo := &fakeRepo{events: []store.AnalyticsEvent{
		event(analytics.EventGameComplete, `{"question_id":"q7"}`),
	}}
	s := New(repo)
	s.Update(s.Init()())

	if strings.Contains(s.View(100, 40), "q7") {
		t.Fatal("properties shown before expanding")
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !strings.Contains(s.View(100, 40), "q7") {
		t.Fatal("properties not shown after expanding")
	}
}

func TestStatsScreenError(t *testing.T) {
	s := New(&fakeRepo{err: errors.New("disk gone")})
	s.Update(s.Init()())
	if v := s.View(100, 40); !strings.Contains(v, "disk gone") {
		t.Errorf("error not shown:\n%s", v)
	}
}

func TestStatsScreenEscPops(t *testing.T) {
	s := New(&fakeRepo{})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Fatal("esc should pop the screen")
	}
}
