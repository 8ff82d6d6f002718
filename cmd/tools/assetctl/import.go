package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"asset-tracking-api/internal/sheets"
)

func newImportCmd(a *app) *cobra.Command {
	var (
		filePath    string
		mappingPath string
		dryRun      bool
		maxErrors   int
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Create asset records from an .xlsx workbook",
		Long: `Read one sheet of an .xlsx workbook and create an asset record per row.

Header cells are matched to asset fields through a YAML mapping of aliases.
Without --mapping the built-in aliases are used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mapping, err := sheets.LoadMapping(mappingPath)
			if err != nil {
				return err
			}

			f, err := os.Open(filePath)
			if err != nil {
				return fmt.Errorf("open %s: %w", filePath, err)
			}
			defer f.Close()

			if _, err := a.store.Migrate(cmd.Context()); err != nil {
				return err
			}

			sum, err := sheets.ImportAssets(cmd.Context(), a.store, f, sheets.ImportOptions{
				Mapping:   mapping,
				DryRun:    dryRun,
				MaxErrors: maxErrors,
			})

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "sheet=%s inserted=%d skipped=%d errors=%d dry_run=%t\n",
				sum.Sheet, sum.Inserted, sum.Skipped, sum.Errors, sum.DryRun)
			for _, e := range sum.Samples {
				fmt.Fprintf(out, "  row %d: %s\n", e.Row, e.Message)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "", "path to the .xlsx workbook")
	cmd.Flags().StringVar(&mappingPath, "mapping", "", "YAML header mapping (optional)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate rows without writing")
	cmd.Flags().IntVar(&maxErrors, "max-errors", 50, "abort after this many row errors")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
