package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abhisek/goat/internal/store"
)

// StoreSink appends events to the local event store.
type StoreSink struct {
	repo store.EventRepo
}

func NewStoreSink(repo store.EventRepo) *StoreSink {
	return &StoreSink{repo: repo}
}

func (s *StoreSink) Name() string { return "store" }

func (s *StoreSink) Send(ctx context.Context, sessionID string, at time.Time, ev Event) error {
	return s.repo.AppendAnalyticsEvent(ctx, store.AnalyticsEventData{
		SessionID:  sessionID,
		Name:       ev.Name,
		Properties: ev.Properties,
		Timestamp:  at,
	})
}

// HTTPSink posts {eventName, properties} to a remote track-event endpoint,
// such as the one served by `goat serve`.
type HTTPSink struct {
	url    string
	client *http.Client
}

func NewHTTPSink(url string, client *http.Client) *HTTPSink {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPSink{url: url, client: client}
}

func (s *HTTPSink) Name() string { return "http" }

func (s *HTTPSink) Send(ctx context.Context, sessionID string, _ time.Time, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-ID", sessionID)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("track event %s: unexpected status %s", ev.Name, resp.Status)
	}
	return nil
}

// RedisSink appends events to a capped Redis stream.
type RedisSink struct {
	client *redis.Client
	stream string
	maxLen int64
}

// RedisOptions configures NewRedisSink.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Stream   string
	MaxLen   int64
}

// NewRedisSink connects to Redis and verifies the connection.
func NewRedisSink(ctx context.Context, opts RedisOptions) (*RedisSink, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", opts.Addr, err)
	}

	if opts.MaxLen <= 0 {
		opts.MaxLen = 10000
	}
	return &RedisSink{client: client, stream: opts.Stream, maxLen: opts.MaxLen}, nil
}

func (s *RedisSink) Name() string { return "redis" }

func (s *RedisSink) Send(ctx context.Context, sessionID string, at time.Time, ev Event) error {
	values, err := streamValues(sessionID, at, ev)
	if err != nil {
		return err
	}
	return s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: s.maxLen,
		Approx: true,
		Values: values,
	}).Err()
}

// Close closes the Redis connection.
func (s *RedisSink) Close() error {
	return s.client.Close()
}

func streamValues(sessionID string, at time.Time, ev Event) (map[string]any, error) {
	props, err := json.Marshal(ev.Properties)
	if err != nil {
		return nil, fmt.Errorf("marshal properties: %w", err)
	}
	return map[string]any{
		"event":      ev.Name,
		"session_id": sessionID,
		"properties": string(props),
		"ts":         at.UTC().Format(time.RFC3339Nano),
	}, nil
}
