package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/smartsite-ai/sitectl/internal/dataset"
	"github.com/smartsite-ai/sitectl/internal/output"
)

func newValidateCmd(a *app) *cobra.Command {
	var writePath string

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a progress spreadsheet",
		Long: `Check that a spreadsheet has the required columns and that every row
has a non-empty activity and group and non-negative numeric quantities.

Exits 1 on the first problem found. With --write, a valid sheet is also
saved as CSV with canonical English headers.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, baseDir, err := a.loadConfig()
			if err != nil {
				return err
			}
			path := datasetPath(args, cfg, baseDir)

			ds, err := dataset.Load(path)
			if err != nil {
				var schemaErr *dataset.SchemaError
				if errors.As(err, &schemaErr) {
					for _, col := range schemaErr.Missing {
						cmd.Printf("  %s missing column %q\n", output.Checkmark(false), col)
					}
				}
				return NewExitError(1, path+": "+err.Error())
			}

			cmd.Printf("%s %s is valid\n", output.Checkmark(true), path)
			cmd.Printf("  Dialect: %s\n", ds.Dialect())
			cmd.Printf("  Rows:    %d\n", ds.Len())
			cmd.Printf("  Groups:  %d\n", len(ds.Groups()))
			if extras := ds.ExtraColumns(); len(extras) > 0 {
				cmd.Printf("  Extra:   %v\n", extras)
			}

			if writePath != "" {
				if err := ds.Save(writePath); err != nil {
					return err
				}
				cmd.Printf("%s Wrote %s\n", output.Color("✓", output.Green), writePath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&writePath, "write", "", "save the validated sheet as canonical CSV")

	return cmd
}
