package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/goat/internal/analytics"
	"github.com/abhisek/goat/internal/config"
	"github.com/abhisek/goat/internal/generation"
	"github.com/abhisek/goat/internal/llm"
	"github.com/abhisek/goat/internal/session"
)

var solveCmd = &cobra.Command{
	Use:   "solve [homework text]",
	Short: "Print a worked solution for a piece of homework",
	Long: `Print a step-by-step worked solution without starting the game.

Pass the homework as text, as a photo with --image, or both.`,
	RunE: runSolve,
}

func init() {
	solveCmd.Flags().String("image", "", "Path to a photo of the homework (PNG, JPEG, WebP or GIF)")
}

func runSolve(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	hw := generation.Homework{Text: strings.TrimSpace(strings.Join(args, " "))}
	if path, _ := cmd.Flags().GetString("image"); path != "" {
		img, err := generation.LoadImage(path)
		if err != nil {
			return err
		}
		hw.Image = img
	}
	if hw.Empty() {
		return errors.New(session.UserMessage(session.ErrNoInput))
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	provider, err := llm.NewProviderFromEnv(ctx, st.EventRepo())
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}

	emitter, closeSinks := newEmitter(ctx, cfg, st.EventRepo())
	defer closeSinks()
	defer closeEmitter(emitter)
	emitter.Track(analytics.EventCoreActionTaken, map[string]any{
		"action":     analytics.ActionSolution,
		"input_type": hw.InputType(),
	})

	if cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.RequestTimeout)
		defer cancel()
	}

	fmt.Fprintln(os.Stderr, "Working out a solution...")
	text, err := generation.NewService(provider, generation.DefaultConfig()).Solution(ctx, hw)
	if err != nil {
		log.Printf("solve: %v", err)
		return errors.New(session.UserMessage(&session.CollaboratorError{Op: session.OpSolution, Err: err}))
	}
	fmt.Println(text)
	return nil
}
