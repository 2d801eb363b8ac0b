package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abhisek/goat/internal/analytics"
	"github.com/abhisek/goat/internal/app"
	"github.com/abhisek/goat/internal/config"
	"github.com/abhisek/goat/internal/generation"
	"github.com/abhisek/goat/internal/llm"
	"github.com/abhisek/goat/internal/screen"
	"github.com/abhisek/goat/internal/screens/stats"
	"github.com/abhisek/goat/internal/screens/tutor"
	"github.com/abhisek/goat/internal/session"
	"github.com/abhisek/goat/internal/store"
	"github.com/abhisek/goat/internal/telemetry"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so the standard logger goes to a file or
	// nowhere.
	if cfg.DebugLog != "" {
		f, err := tea.LogToFile(cfg.DebugLog, "goat")
		if err != nil {
			return fmt.Errorf("open debug log: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	shutdown, err := telemetry.Setup(ctx, cfg.OTelEndpoint, "goat", version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: tracing disabled: %v\n", err)
	} else {
		defer shutdown(context.Background())
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()
	eventRepo := st.EventRepo()

	provider, err := llm.NewProviderFromEnv(ctx, eventRepo)
	if err != nil {
		return fmt.Errorf("LLM provider not configured: %w", err)
	}

	emitter, closeSinks := newEmitter(ctx, cfg, eventRepo)
	defer closeSinks()
	defer closeEmitter(emitter)

	sess := session.New(generation.NewService(provider, generation.DefaultConfig()), emitter, cfg.Session())
	sess.Start()
	defer sess.End()

	root := tutor.New(ctx, sess, tutor.Options{
		Settle: cfg.SettleDelay,
		Stats:  func() screen.Screen { return stats.New(eventRepo) },
	})
	return app.Run(root)
}

// newEmitter starts an analytics emitter for a new session. Events always go
// to the local store; the HTTP and Redis sinks are added when configured.
// The returned func releases the sinks and must run after the emitter is
// closed.
func newEmitter(ctx context.Context, cfg config.Config, repo store.EventRepo) (*analytics.Emitter, func()) {
	sinks := []analytics.Sink{analytics.NewStoreSink(repo)}
	closeSinks := func() {}

	if cfg.Analytics.URL != "" {
		sinks = append(sinks, analytics.NewHTTPSink(cfg.Analytics.URL, &http.Client{Timeout: 10 * time.Second}))
	}
	if r := cfg.Analytics.Redis; r.Addr != "" {
		sink, err := analytics.NewRedisSink(ctx, analytics.RedisOptions{
			Addr:     r.Addr,
			Password: r.Password,
			DB:       r.DB,
			Stream:   r.Stream,
		})
		if err != nil {
			log.Printf("analytics: redis sink disabled: %v", err)
		} else {
			sinks = append(sinks, sink)
			closeSinks = func() { _ = sink.Close() }
		}
	}

	return analytics.New(uuid.NewString(), analytics.DefaultConfig(), sinks...), closeSinks
}

func closeEmitter(e *analytics.Emitter) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Close(ctx); err != nil {
		log.Printf("analytics: %d events undelivered: %v", e.Dropped(), err)
	}
}
