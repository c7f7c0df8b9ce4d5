package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/smartsite-ai/sitectl/internal/output"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		outPath string
		groups  bool
		group   string
	)

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export the dataset with a progress column",
		Long: `Write the dataset back as CSV with a Progress_Pct column appended.

Items with zero planned quantity get an empty Progress_Pct cell.
With --groups, write the per-group summary instead.
With --group NAME, export only that group's activities.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, _, err := a.loadReport(cmd, args, group, nil)
			if err != nil {
				return err
			}

			write := rep.Export
			if groups {
				write = rep.ExportGroups
			}

			if outPath == "" || outPath == "-" {
				return write(cmd.OutOrStdout())
			}

			if err := writeFile(outPath, write); err != nil {
				return err
			}
			cmd.Printf("%s Wrote %s\n", output.Color("✓", output.Green), outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&groups, "groups", false, "export the per-group summary")
	cmd.Flags().StringVar(&group, "group", "", "export a single group")

	return cmd
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
