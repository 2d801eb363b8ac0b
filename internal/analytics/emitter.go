// Package analytics delivers fire-and-forget product events to one or more
// sinks without ever blocking the caller.
package analytics

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// Sink receives events from the emitter's worker goroutine.
type Sink interface {
	Send(ctx context.Context, sessionID string, at time.Time, ev Event) error
	Name() string
}

// Tracker is the part of the emitter the session depends on.
type Tracker interface {
	Track(name string, props map[string]any)
}

// Config holds emitter settings.
type Config struct {
	// Buffer is the number of events queued before new ones are dropped.
	Buffer int
	// SendTimeout bounds each delivery to a single sink.
	SendTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{Buffer: 256, SendTimeout: 5 * time.Second}
}

type queued struct {
	at time.Time
	ev Event
}

// Emitter queues events and delivers them to its sinks on a background
// worker. Track never blocks; delivery failures are logged and dropped.
type Emitter struct {
	sessionID string
	sinks     []Sink
	cfg       Config

	mu     sync.RWMutex
	closed bool
	queue  chan queued
	done   chan struct{}

	dropped atomic.Int64
	now     func() time.Time
}

// New starts an emitter for one session.
func New(sessionID string, cfg Config, sinks ...Sink) *Emitter {
	if cfg.Buffer <= 0 {
		cfg.Buffer = DefaultConfig().Buffer
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = DefaultConfig().SendTimeout
	}
	e := &Emitter{
		sessionID: sessionID,
		sinks:     sinks,
		cfg:       cfg,
		queue:     make(chan queued, cfg.Buffer),
		done:      make(chan struct{}),
		now:       time.Now,
	}
	go e.run()
	return e
}

// SessionID returns the id stamped on every event.
func (e *Emitter) SessionID() string { return e.sessionID }

// Track queues an event. It is safe to call from any goroutine and after
// Close, when the event is dropped.
func (e *Emitter) Track(name string, props map[string]any) {
	if props == nil {
		props = map[string]any{}
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		e.dropped.Add(1)
		return
	}
	select {
	case e.queue <- queued{at: e.now(), ev: Event{Name: name, Properties: props}}:
	default:
		e.dropped.Add(1)
		log.Printf("analytics: queue full, dropped %s", name)
	}
}

// Dropped returns how many events were discarded.
func (e *Emitter) Dropped() int64 { return e.dropped.Load() }

// Close stops accepting events and waits for queued ones to be delivered,
// or for ctx to end, whichever comes first.
func (e *Emitter) Close(ctx context.Context) error {
	e.mu.Lock()
	if !e.closed {
		e.closed = true
		close(e.queue)
	}
	e.mu.Unlock()

	select {
	case <-e.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Emitter) run() {
	defer close(e.done)
	for q := range e.queue {
		for _, s := range e.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), e.cfg.SendTimeout)
			if err := s.Send(ctx, e.sessionID, q.at, q.ev); err != nil {
				log.Printf("analytics: %s sink: send %s: %v", s.Name(), q.ev.Name, err)
			}
			cancel()
		}
	}
}

// Discard is a Tracker that drops everything.
type Discard struct{}

func (Discard) Track(string, map[string]any) {}
