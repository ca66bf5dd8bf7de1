package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/mineworks/paperminer/internal/model"
)

var analyzeMode string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <pdf-path | url | text-path>",
	Short: "Run a one-shot analysis and print the result",
	Long: "Ingests a single source through the analysis pipeline: a PDF file, " +
		"an http(s) URL, or a plain-text file (legal document mode only).",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initAnalysis(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		source := args[0]
		rec, err := ingest(cmd, env, source)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rec.Response())
	},
}

func ingest(cmd *cobra.Command, env *analysisEnv, source string) (*model.AnalysisRecord, error) {
	ctx := cmd.Context()

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return env.Pipeline.FromWeb(ctx, source)
	}

	if strings.EqualFold(filepath.Ext(source), ".pdf") {
		mode, err := model.ParseMode(analyzeMode, model.ModeScientificPaper)
		if err != nil {
			return nil, err
		}
		f, err := os.Open(source)
		if err != nil {
			return nil, eris.Wrapf(err, "open %s", source)
		}
		defer f.Close()
		return env.Pipeline.FromPDF(ctx, filepath.Base(source), f, mode)
	}

	text, err := os.ReadFile(source)
	if err != nil {
		return nil, eris.Wrapf(err, "read %s", source)
	}
	mode, err := model.ParseMode(analyzeMode, model.ModeLegalDocument)
	if err != nil {
		return nil, err
	}
	return env.Pipeline.FromText(ctx, string(text), mode)
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeMode, "mode", "", "analysis mode (scientific_paper, document, legal_document, web)")
	rootCmd.AddCommand(analyzeCmd)
}
