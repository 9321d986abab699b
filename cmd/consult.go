package cmd

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"

	"github.com/abhisek/jurusan/internal/consult"
	"github.com/abhisek/jurusan/internal/inference"
	"github.com/abhisek/jurusan/internal/knowledge"
	"github.com/abhisek/jurusan/internal/llm"
	"github.com/abhisek/jurusan/internal/ui/report"
	"github.com/spf13/cobra"
)

var consultCmd = &cobra.Command{
	Use:   "consult",
	Short: "Recommend a major from a student's answers",
	Long: "Run a consultation. Answers come from a YAML/JSON file (--answers, \"-\" for stdin)\n" +
		"and/or repeated --answer <code>=<answer> flags, where an answer is a number in\n" +
		"[0, 1] or a label from `jurusan questions`. Flags override the file.",
	Example: `  jurusan consult --answer 1=yakin --answer 2=0.8 --answer 3=tidak ...
  jurusan consult --answers jawaban.yaml --requester budi --explain`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		s, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		missing, _ := cmd.Flags().GetString("missing")
		if err := cfg.SetMissingEvidence(missing); err != nil {
			return err
		}
		selector, _ := cmd.Flags().GetString("selector")
		if err := cfg.SetSelector(selector); err != nil {
			return err
		}

		ev, err := readEvidence(cmd)
		if err != nil {
			return err
		}

		explain, _ := cmd.Flags().GetBool("explain")
		var opts []consult.Option
		if explain {
			provider, _ := cmd.Flags().GetString("provider")
			if err := cfg.SetProvider(provider); err != nil {
				return err
			}
			if model, _ := cmd.Flags().GetString("model"); model != "" {
				cfg.LLM.SetModel(model)
			}
			p, err := llm.NewProvider(ctx, cfg.LLM, s.EventRepo())
			if err != nil {
				fmt.Fprintln(os.Stderr, "warning: LLM provider not configured:", err)
				fmt.Fprintln(os.Stderr, "warning: the explanation will be skipped.")
				explain = false
			} else {
				opts = append(opts, consult.WithNarrator(consult.NewNarrator(p, consult.DefaultNarratorConfig())))
			}
		}

		svc := consult.NewService(s.KnowledgeRepo(), s.ConsultationRepo(), cfg.Inference, opts...)
		requester, _ := cmd.Flags().GetString("requester")
		out, err := svc.Consult(ctx, consult.Request{
			Requester: requester,
			Evidence:  ev,
			Explain:   explain,
		})
		if err != nil {
			var missingErr *inference.ErrMissingEvidence
			if errors.As(err, &missingErr) {
				return fmt.Errorf("%w (answer every statement, or use --missing zero)", err)
			}
			return err
		}

		details, _ := cmd.Flags().GetBool("details")
		report.Outcome(cmd.OutOrStdout(), out, details)
		return nil
	},
}

// readEvidence merges the --answers document with --answer flags.
func readEvidence(cmd *cobra.Command) (inference.Evidence, error) {
	ev := make(inference.Evidence)

	if path, _ := cmd.Flags().GetString("answers"); path != "" {
		fromFile, err := decodeEvidenceFile(cmd, path)
		if err != nil {
			return nil, err
		}
		maps.Copy(ev, fromFile)
	}

	pairs, _ := cmd.Flags().GetStringArray("answer")
	fromFlags, err := knowledge.ParseAssignments(pairs)
	if err != nil {
		return nil, err
	}
	maps.Copy(ev, fromFlags)

	if len(ev) == 0 {
		return nil, errors.New("no answers given: use --answers or --answer (see `jurusan questions`)")
	}
	return ev, nil
}

func decodeEvidenceFile(cmd *cobra.Command, path string) (inference.Evidence, error) {
	format := knowledge.FormatFromPath(path)
	if f, _ := cmd.Flags().GetString("format"); f != "" {
		var err error
		if format, err = knowledge.ParseFormat(f); err != nil {
			return nil, err
		}
	}

	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open answers: %w", err)
		}
		defer f.Close()
		r = f
	}

	ev, err := knowledge.DecodeEvidence(r, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ev, nil
}

func init() {
	consultCmd.Flags().StringP("answers", "f", "", "YAML or JSON file mapping statement codes to answers (\"-\" for stdin)")
	consultCmd.Flags().String("format", "", "Answers file format: yaml or json (default: from extension)")
	consultCmd.Flags().StringArrayP("answer", "a", nil, "Answer as <code>=<answer>; repeatable")
	consultCmd.Flags().StringP("requester", "r", consult.DefaultRequester, "Name recorded with the consultation")
	consultCmd.Flags().String("missing", "", "Unanswered statements: fail or zero (default from config)")
	consultCmd.Flags().String("selector", "", "Top-major selection: strict or legacy (default from config)")
	consultCmd.Flags().BoolP("details", "d", false, "Show per-rule values for every major")
	consultCmd.Flags().BoolP("explain", "e", false, "Ask the LLM for a short explanation of the result")
	consultCmd.Flags().String("provider", "", "LLM provider for --explain (anthropic, openai, gemini, openrouter, mock)")
	consultCmd.Flags().String("model", "", "LLM model for --explain")
}
