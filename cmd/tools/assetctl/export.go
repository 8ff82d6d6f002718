package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"asset-tracking-api/internal/config"
	"asset-tracking-api/internal/sheets"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		outPath string
		model   string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every asset to an .xlsx workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if model == "" {
				model = a.cfg.DataModel
			}
			if outPath == "" {
				outPath = sheets.FileName("asset-tracking", time.Now())
			}

			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("create %s: %w", outPath, err)
			}
			defer f.Close()

			ctx := cmd.Context()
			var rows int
			switch model {
			case config.DataModelRecords:
				assets, err := a.store.ListAssets(ctx)
				if err != nil {
					return err
				}
				rows = len(assets)
				err = sheets.ExportAssets(f, assets)
				if err != nil {
					return err
				}
			case config.DataModelEntries:
				groups, err := a.store.ListAssetGroups(ctx)
				if err != nil {
					return err
				}
				for _, g := range groups {
					rows += len(g.Entries)
				}
				if err := sheets.ExportEntries(f, groups); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown model %q, want %s or %s", model, config.DataModelRecords, config.DataModelEntries)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d %s to %s\n", rows, model, outPath)
			return f.Close()
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "output path (default asset-tracking-<timestamp>.xlsx)")
	cmd.Flags().StringVar(&model, "model", "", "records or entries (default DATA_MODEL)")

	return cmd
}
