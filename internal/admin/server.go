// Package admin serves the analytics ingest and dashboard API behind
// `goat serve`.
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/abhisek/goat/internal/analytics"
	"github.com/abhisek/goat/internal/store"
)

const (
	defaultEventLimit = 100
	maxEventLimit     = 1000
	requestTimeout    = 5 * time.Second
)

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	repo   store.EventRepo
	tracer trace.Tracer
}

// NewServer creates an admin server over the event store.
func NewServer(repo store.EventRepo) *Server {
	return &Server{
		repo:   repo,
		tracer: otel.Tracer("github.com/abhisek/goat/internal/admin"),
	}
}

// Routes sets up all HTTP routes.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(s.traceRequests)

	r.Route("/api", func(r chi.Router) {
		r.Post("/track-event", s.TrackEvent)
		r.Get("/metrics", s.Metrics)
		r.Get("/events", s.Events)
	})
	r.Get("/healthz", s.Health)

	return r
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type trackEventRequest struct {
	EventName  string         `json:"eventName"`
	Properties map[string]any `json:"properties"`
}

// TrackEvent handles POST /api/track-event. The session id is taken from
// the X-Session-ID header when present.
func (s *Server) TrackEvent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req trackEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.EventName == "" {
		respondError(w, http.StatusBadRequest, "Event name is required")
		return
	}

	err := s.repo.AppendAnalyticsEvent(ctx, store.AnalyticsEventData{
		SessionID:  r.Header.Get("X-Session-ID"),
		Name:       req.EventName,
		Properties: req.Properties,
	})
	if err != nil {
		log.Printf("admin: track event %s: %v", req.EventName, err)
		respondError(w, http.StatusInternalServerError, "failed to record event")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Metrics handles GET /api/metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	m, err := analytics.Load(ctx, s.repo)
	if err != nil {
		log.Printf("admin: metrics: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load metrics")
		return
	}
	respondJSON(w, http.StatusOK, m)
}

type eventResponse struct {
	ID         int             `json:"id"`
	Sequence   int64           `json:"sequence"`
	CreatedAt  time.Time       `json:"createdAt"`
	SessionID  string          `json:"sessionId,omitempty"`
	EventName  string          `json:"eventName"`
	Properties json.RawMessage `json:"properties"`
}

// Events handles GET /api/events?limit=&name=, newest first.
func (s *Server) Events(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	limit := defaultEventLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxEventLimit)
	}

	events, err := s.repo.QueryAnalyticsEvents(ctx, store.QueryOpts{
		Limit: limit,
		Name:  r.URL.Query().Get("name"),
	})
	if err != nil {
		log.Printf("admin: events: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load events")
		return
	}

	out := make([]eventResponse, len(events))
	for i, e := range events {
		out[i] = eventResponse{
			ID:         e.ID,
			Sequence:   e.Sequence,
			CreatedAt:  e.Timestamp,
			SessionID:  e.SessionID,
			EventName:  e.Name,
			Properties: e.Properties,
		}
	}
	respondJSON(w, http.StatusOK, out)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("admin: encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) traceRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := s.tracer.Start(r.Context(), r.Method+" "+r.URL.Path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.target", r.URL.Path),
			),
		)
		defer span.End()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))
		span.SetAttributes(attribute.Int("http.status_code", ww.Status()))
	})
}

// ListenAndServe serves handler on addr until ctx is cancelled, then shuts
// down gracefully.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
