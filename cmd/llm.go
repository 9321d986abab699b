package cmd

import (
	"fmt"

	"github.com/abhisek/jurusan/internal/store"
	"github.com/abhisek/jurusan/internal/ui/report"
	"github.com/spf13/cobra"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect LLM request/response events",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		opts := store.QueryOpts{Limit: limit}
		if purpose != "" {
			opts.Limit = 0
		}
		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if purpose != "" {
			events = filterPurpose(events, purpose, limit)
		}

		report.LLMEvents(cmd.OutOrStdout(), events)
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View full request/response for an LLM event",
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

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}

		report.LLMEvent(cmd.OutOrStdout(), e)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated LLM token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		byModel, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}

		report.LLMUsage(cmd.OutOrStdout(), byPurpose, byModel)
		return nil
	},
}

var llmProvidersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Show the configured LLM provider and model",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if cfg.Path != "" {
			fmt.Fprintf(out, "Config:    %s\n", cfg.Path)
		}
		fmt.Fprintf(out, "Provider:  %s\n", cfg.LLM.Provider)
		fmt.Fprintf(out, "Model:     %s\n", cfg.LLM.Model())
		fmt.Fprintf(out, "API key:   %v\n", cfg.LLM.HasAPIKey())
		fmt.Fprintf(out, "Timeout:   %s\n", cfg.LLM.Timeout)
		fmt.Fprintf(out, "Attempts:  %d\n", cfg.LLM.Retry.MaxAttempts)
		if err := cfg.LLM.Validate(); err != nil {
			fmt.Fprintf(out, "Status:    %v\n", err)
		} else {
			fmt.Fprintln(out, "Status:    ready")
		}
		return nil
	},
}

// filterPurpose keeps up to limit events with the given purpose; limit <= 0
// keeps all.
func filterPurpose(events []store.LLMEventRecord, purpose string, limit int) []store.LLMEventRecord {
	var kept []store.LLMEventRecord
	for _, e := range events {
		if e.Purpose != purpose {
			continue
		}
		if limit > 0 && len(kept) == limit {
			break
		}
		kept = append(kept, e)
	}
	return kept
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. consultation-explanation)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
	llmCmd.AddCommand(llmProvidersCmd)
}
