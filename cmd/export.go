package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mineworks/paperminer/internal/report"
	"github.com/mineworks/paperminer/internal/store"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <record-id>",
	Short: "Export a stored analysis as a PDF report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		rec, err := st.Get(ctx, args[0])
		if err != nil {
			return err
		}
		if rec == nil {
			return eris.Errorf("record %s not found", args[0])
		}

		renderer := report.New(cfg.Anthropic.Model)
		pdfBytes, err := renderer.Render(rec)
		if err != nil {
			return err
		}

		out := exportOut
		if out == "" {
			out = report.Filename(rec)
		}
		if err := os.WriteFile(out, pdfBytes, 0o644); err != nil {
			return eris.Wrapf(err, "write %s", out)
		}

		zap.L().Info("report exported",
			zap.String("id", rec.ID),
			zap.String("path", out),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (default derived from the record title)")
	rootCmd.AddCommand(exportCmd)
}
