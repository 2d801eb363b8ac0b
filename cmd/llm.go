package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abhisek/goat/internal/llm"
	"github.com/abhisek/goat/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded LLM requests",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := store.QueryOpts{}
		opts.Limit, _ = cmd.Flags().GetInt("limit")
		opts.Purpose, _ = cmd.Flags().GetString("purpose")
		opts.FailedOnly, _ = cmd.Flags().GetBool("failed")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No LLM requests recorded.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTIME\tPURPOSE\tMODEL\tTOKENS\tMS\tOK")
		for _, e := range events {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d/%d\t%d\t%s\n",
				e.ID,
				e.Timestamp.Local().Format("01-02 15:04:05"),
				e.Purpose,
				truncate(e.Model, 28),
				e.InputTokens, e.OutputTokens,
				e.LatencyMs,
				mark(e.Success))
		}
		return w.Flush()
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full request and response of one LLM call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q", args[0])
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("no LLM request with ID %d", id)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(e)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "ID\t%d\n", e.ID)
		fmt.Fprintf(w, "Time\t%s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(w, "Provider\t%s (%s)\n", e.Provider, e.Model)
		fmt.Fprintf(w, "Purpose\t%s\n", e.Purpose)
		fmt.Fprintf(w, "Request ID\t%s\n", e.RequestID)
		fmt.Fprintf(w, "Tokens\t%d in / %d out\n", e.InputTokens, e.OutputTokens)
		fmt.Fprintf(w, "Latency\t%dms\n", e.LatencyMs)
		fmt.Fprintf(w, "Result\t%s %s\n", mark(e.Success), e.ErrorMessage)
		if err := w.Flush(); err != nil {
			return err
		}

		printSection("Request", e.RequestBody)
		printSection("Response", e.ResponseBody)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage by purpose and estimated cost by model",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		byPurpose, err := s.EventRepo().LLMUsageByPurpose(cmd.Context())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(byPurpose) == 0 {
			fmt.Println("No LLM usage recorded yet.")
			return nil
		}
		byModel, err := s.EventRepo().LLMUsageByModel(cmd.Context())
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}

		printUsage(byPurpose)
		fmt.Println()
		printCost(byModel)
		return nil
	},
}

func printUsage(rows []store.LLMUsage) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "PURPOSE\tCALLS\tINPUT\tOUTPUT\tAVG MS\t")

	var calls, in, out int
	for _, u := range rows {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t\n", u.Purpose, u.Calls, u.InputTokens, u.OutputTokens, u.AvgLatencyMs)
		calls += u.Calls
		in += u.InputTokens
		out += u.OutputTokens
	}
	fmt.Fprintf(w, "total\t%d\t%d\t%d\t\t\n", calls, in, out)
	w.Flush()
}

// printCost prices each model's usage. Models missing from the price table
// are listed separately and left out of the total.
func printCost(rows []store.LLMUsage) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "MODEL\tCALLS\tCOST (USD)\t")

	var total float64
	var unpriced []string
	for _, u := range rows {
		cost := llm.LookupCost(u.Model)
		if cost == nil {
			unpriced = append(unpriced, u.Model)
			fmt.Fprintf(w, "%s\t%d\t?\t\n", truncate(u.Model, 32), u.Calls)
			continue
		}
		c := cost.Cost(u.InputTokens, u.OutputTokens)
		total += c
		fmt.Fprintf(w, "%s\t%d\t%s\t\n", truncate(u.Model, 32), u.Calls, formatCost(c))
	}
	fmt.Fprintf(w, "total\t\t%s\t\n", formatCost(total))
	w.Flush()

	if len(unpriced) > 0 {
		fmt.Printf("\nNo pricing for: %s\n", strings.Join(unpriced, ", "))
	}
}

func printSection(title, body string) {
	fmt.Printf("\n── %s %s\n", title, strings.Repeat("─", max(0, 56-len(title))))
	if body == "" {
		body = "(not captured)"
	}
	fmt.Println(body)
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show one purpose (e.g. questions, step-game, lesson)")
	llmListCmd.Flags().Bool("failed", false, "Only show failed requests")
	llmViewCmd.Flags().Bool("json", false, "Print the stored event as JSON")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
