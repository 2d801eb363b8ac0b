package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/abhisek/goat/internal/content"
	"github.com/abhisek/goat/internal/game"
	"github.com/abhisek/goat/internal/generation"
	"github.com/abhisek/goat/internal/llm"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview <question>",
	Short: "Preview the step game generated for a question (no database)",
	Long: `Generate the step game for one question and play it at the prompt.

Nothing is stored and no analytics are tracked.
Useful for evaluating step quality and testing prompt changes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPreview,
}

func runPreview(cmd *cobra.Command, args []string) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	q := content.Question{ID: "preview", Label: "Preview", Text: text}
	if err := content.ValidateQuestions([]content.Question{q}); err != nil {
		return err
	}

	// No EventRepo, so LLM requests are not logged.
	ctx := cmd.Context()
	provider, err := llm.NewProviderFromEnv(ctx, nil)
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}

	fmt.Println("Generating steps...")
	sg, err := generation.NewService(provider, generation.DefaultConfig()).StepGame(ctx, q)
	if err != nil {
		return fmt.Errorf("generate step game: %w", err)
	}

	fmt.Printf("Key skill: %s (%d steps)\n\n", sg.KeySkill, len(sg.Steps))

	eng := game.New(content.GamePack{sg}, content.Single(q), game.Config{})
	scanner := bufio.NewScanner(os.Stdin)
	var wrong int

	for {
		step, ok := eng.Current()
		if !ok {
			break
		}

		// Display step.
		fmt.Printf("── Step %d/%d ──\n", eng.StepIndex()+1, eng.StepCount())
		fmt.Println(step.Question)
		for i, a := range step.Answers {
			fmt.Printf("  %d) %s\n", i+1, a.Text)
		}

		// Read answer.
		fmt.Print("\nYour answer: ")
		if !scanner.Scan() {
			fmt.Println("\n(input closed)")
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err != nil {
			fmt.Println("Enter the number of an answer.")
			continue
		}

		t, ok := eng.Submit(n - 1)
		if !ok {
			fmt.Println("Enter the number of an answer.")
			continue
		}
		if t.Kind == game.Retry {
			wrong++
			fmt.Print("\033[31m✗ Not quite.\033[0m ")
			if fb := eng.Feedback(); fb != "" {
				fmt.Print(fb)
			}
			fmt.Println()
		} else {
			fmt.Println("\033[32m✓ Correct!\033[0m")
			if step.StepResult != "" {
				fmt.Println("  " + step.StepResult)
			}
		}
		fmt.Println()

		if res := eng.Resolve(t); res != nil {
			break
		}
	}

	// Summary.
	fmt.Printf("── Solved with %d wrong answer(s) ──\n", wrong)
	for i, s := range eng.SolvedSteps() {
		fmt.Printf("%d. %s\n", i+1, s)
	}
	return nil
}
