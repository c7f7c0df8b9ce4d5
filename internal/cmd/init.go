package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/smartsite-ai/sitectl/internal/config"
	"github.com/smartsite-ai/sitectl/internal/output"
)

const sampleDataset = `Actividad,Grupo,Unidad,Cantidad_Total,Cantidad_Ejecutada
Excavación,Cimentación,m3,100,30
Zapatas,Cimentación,m3,50,20
Columnas,Estructura,ml,200,150
Instalación eléctrica,Instalaciones,pto,80,0
`

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize sitectl in the current directory",
		Long: `Create a config file and a sample progress spreadsheet.

  .sitectl/
  └── config.yaml     # Configuration
  progress.csv        # Sample dataset (Spanish headers)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
			return initProject(cmd, cwd, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing files")

	return cmd
}

func initProject(cmd *cobra.Command, dir string, force bool) error {
	configFile := filepath.Join(dir, ".sitectl", "config.yaml")
	datasetFile := filepath.Join(dir, "progress.csv")

	if !force {
		var existing []string
		for _, p := range []string{configFile, datasetFile} {
			if _, err := os.Stat(p); err == nil {
				existing = append(existing, p)
			}
		}
		if len(existing) > 0 {
			cmd.Printf("%s The following already exist:\n", output.Color("Warning:", output.Yellow))
			for _, p := range existing {
				cmd.Printf("  %s\n", p)
			}
			cmd.Printf("\n%s\n", output.Color("Use --force to overwrite", output.Dim))
			return NewExitError(1, "project already initialized")
		}
	}

	cmd.Printf("Initializing sitectl in %s\n\n", dir)

	cfg := config.DefaultConfig()
	cfg.Groups["Cimentación"] = "Foundations"
	if err := cfg.Save(configFile); err != nil {
		return err
	}
	cmd.Printf("  %s Created %s\n", output.Color("✓", output.Green), configFile)

	if err := os.WriteFile(datasetFile, []byte(sampleDataset), 0644); err != nil {
		return fmt.Errorf("failed to create progress.csv: %w", err)
	}
	cmd.Printf("  %s Created %s\n", output.Color("✓", output.Green), datasetFile)

	cmd.Println()
	cmd.Println("Next: run 'sitectl report -v'")
	return nil
}
