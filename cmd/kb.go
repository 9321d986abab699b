package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/abhisek/jurusan/internal/consult"
	"github.com/abhisek/jurusan/internal/knowledge"
	"github.com/abhisek/jurusan/internal/store"
	"github.com/abhisek/jurusan/internal/ui/report"
	"github.com/spf13/cobra"
)

var kbCmd = &cobra.Command{
	Use:   "kb",
	Short: "Manage the knowledge base of statements, majors, and rules",
}

var kbShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored knowledge base",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openKnowledge(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		kb, err := s.KnowledgeRepo().Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("load knowledge base: %w", err)
		}
		report.KnowledgeBase(cmd.OutOrStdout(), kb)
		return nil
	},
}

var kbExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write the stored knowledge base as YAML or JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		format, err := documentFormat(cmd, path)
		if err != nil {
			return err
		}

		s, err := openKnowledge(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		kb, err := s.KnowledgeRepo().Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("load knowledge base: %w", err)
		}

		var w io.Writer = cmd.OutOrStdout()
		if path != "" && path != "-" {
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create %s: %w", path, err)
			}
			defer f.Close()
			w = f
		}
		if err := knowledge.Encode(w, knowledge.FromKnowledgeBase(kb), format); err != nil {
			return fmt.Errorf("encode knowledge base: %w", err)
		}
		return nil
	},
}

var kbImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the stored knowledge base with a YAML or JSON document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := readDocument(cmd, args[0])
		if err != nil {
			return err
		}

		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.KnowledgeRepo().Replace(cmd.Context(), doc.KnowledgeBase()); err != nil {
			return fmt.Errorf("import knowledge base: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d statements and %d majors (version %s).\n",
			len(doc.Symptoms), len(doc.Majors), doc.Version)
		return nil
	},
}

var kbValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a knowledge-base document without importing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := readDocument(cmd, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d statements, %d majors)\n",
			args[0], len(doc.Symptoms), len(doc.Majors))
		return nil
	},
}

var kbResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the built-in knowledge base",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		doc := knowledge.Default()
		if err := s.KnowledgeRepo().Replace(cmd.Context(), doc.KnowledgeBase()); err != nil {
			return fmt.Errorf("restore knowledge base: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Built-in knowledge base restored.")
		return nil
	},
}

// openKnowledge opens the store and installs the built-in knowledge base
// if none is stored yet.
func openKnowledge(cmd *cobra.Command) (*store.Store, error) {
	s, cfg, err := openStore(cmd)
	if err != nil {
		return nil, err
	}
	svc := consult.NewService(s.KnowledgeRepo(), s.ConsultationRepo(), cfg.Inference)
	if _, err := svc.EnsureKnowledge(cmd.Context()); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// readDocument decodes and validates a knowledge-base document.
func readDocument(cmd *cobra.Command, path string) (*knowledge.Document, error) {
	format, err := documentFormat(cmd, path)
	if err != nil {
		return nil, err
	}

	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	doc, err := knowledge.Decode(r, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := knowledge.Validate(doc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func documentFormat(cmd *cobra.Command, path string) (knowledge.Format, error) {
	if f, _ := cmd.Flags().GetString("format"); f != "" {
		return knowledge.ParseFormat(f)
	}
	return knowledge.FormatFromPath(path), nil
}

func init() {
	for _, c := range []*cobra.Command{kbExportCmd, kbImportCmd, kbValidateCmd} {
		c.Flags().String("format", "", "Document format: yaml or json (default: from extension, else yaml)")
	}

	kbCmd.AddCommand(kbShowCmd)
	kbCmd.AddCommand(kbExportCmd)
	kbCmd.AddCommand(kbImportCmd)
	kbCmd.AddCommand(kbValidateCmd)
	kbCmd.AddCommand(kbResetCmd)
}
