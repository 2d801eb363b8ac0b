package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/goat/internal/analytics"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show usage metrics from tracked events",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		m, err := analytics.Load(cmd.Context(), s.EventRepo())
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(m)
		}

		fmt.Println("Usage")
		fmt.Println(strings.Repeat("─", 40))
		rows := []struct {
			label string
			value any
		}{
			{"Sessions", m.SessionStarts},
			{"Games started", m.GameStarts},
			{"Games completed", m.GamesCompleted},
			{"Play again clicks", m.PlayAgainClicks},
			{"Solutions requested", m.SolutionRequests},
			{"Photo uploads", m.ImageUploads},
			{"Typed homework", m.TextInputs},
			{"Topics started", m.TopicsStarted},
			{"Objectives mastered", m.ObjectivesMastered},
			{"Avg session (s)", fmt.Sprintf("%.1f", m.AvgSessionTimeSeconds)},
		}
		for _, r := range rows {
			fmt.Printf("%-22s  %v\n", r.label, r.value)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Bool("json", false, "Print the metrics as JSON")
}
