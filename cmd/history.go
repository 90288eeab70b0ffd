package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/heliofetch/heliofetch/internal/config"
	"github.com/heliofetch/heliofetch/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded fetch runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		store, err := history.Open(filepath.Join(config.GetStateDir(), "heliofetch.db"))
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.ListRuns(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No recorded runs.")
			return nil
		}

		for _, r := range runs {
			fmt.Printf("%s  %s\n", r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.ID)
			fmt.Printf("    %s to %s  wavelength %d  cadence %s\n",
				r.StartDate, r.EndDate, r.Wavelength, r.Cadence)
			fmt.Printf("    %d files: %d succeeded (%d skipped), %d failed  in %v\n",
				r.Total, r.Succeeded, r.Skipped, r.Failed, r.Elapsed.Round(roundTo))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "l", 20, "Maximum number of runs to list")
	rootCmd.AddCommand(historyCmd)
}
