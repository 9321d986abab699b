package cmd

import (
	"fmt"

	"github.com/abhisek/jurusan/internal/store"
	"github.com/abhisek/jurusan/internal/ui/report"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect past consultations",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent consultations",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		requester, _ := cmd.Flags().GetString("requester")

		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		records, err := s.ConsultationRepo().Query(cmd.Context(), requester, store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query consultations: %w", err)
		}
		report.History(cmd.OutOrStdout(), records)
		return nil
	},
}

var historyViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View the full derivation of a consultation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id int
		if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		rec, err := s.ConsultationRepo().Get(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get consultation: %w", err)
		}
		if rec == nil {
			return fmt.Errorf("consultation %d not found", id)
		}
		report.Record(cmd.OutOrStdout(), rec)
		return nil
	},
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", 20, "Number of consultations to show")
	historyListCmd.Flags().StringP("requester", "r", "", "Only show consultations by this requester")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyViewCmd)
}
