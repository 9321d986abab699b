package cmd

import (
	"github.com/abhisek/jurusan/internal/consult"
	"github.com/abhisek/jurusan/internal/ui/report"
	"github.com/spf13/cobra"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "List the statements a student answers and the answer scale",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		svc := consult.NewService(s.KnowledgeRepo(), s.ConsultationRepo(), cfg.Inference)
		symptoms, err := svc.Questions(cmd.Context())
		if err != nil {
			return err
		}
		report.Questions(cmd.OutOrStdout(), symptoms)
		return nil
	},
}
