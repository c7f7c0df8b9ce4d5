package cmd

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/smartsite-ai/sitectl/internal/config"
	"github.com/smartsite-ai/sitectl/internal/output"
)

func newConfigCmd(a *app) *cobra.Command {
	var (
		validate bool
		format   string
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or validate sitectl configuration",
		Long: `Display the effective configuration after merging defaults, the config
file, SITECTL_* environment variables and flags.

Examples:
    sitectl config                     # Show current config
    sitectl config --validate          # Check config and dataset path
    sitectl config --format yaml       # Output as YAML`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, baseDir, err := a.loadConfig()
			if err != nil {
				return err
			}
			if validate {
				return validateConfig(cmd, cfg, baseDir, a.cfgFile)
			}

			switch format {
			case "json":
				return writeJSON(cmd, cfg)
			case "yaml":
				data, err := yaml.Marshal(cfg)
				if err != nil {
					return fmt.Errorf("failed to marshal config: %w", err)
				}
				cmd.Print(string(data))
				return nil
			case "terminal", "":
				displayConfig(cmd, cfg, baseDir, a.cfgFile)
				return nil
			default:
				return fmt.Errorf("unknown format %q: use terminal, yaml or json", format)
			}
		},
	}

	cmd.Flags().BoolVar(&validate, "validate", false, "validate configuration and check paths")
	cmd.Flags().StringVar(&format, "format", "terminal", "output format: terminal, yaml, json")

	return cmd
}

// configSource names the file the config came from.
func configSource(baseDir, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if path, err := config.FindConfig(baseDir); err == nil {
		return path
	}
	return ""
}

func validateConfig(cmd *cobra.Command, cfg *config.Config, baseDir, explicit string) error {
	cmd.Println(output.Header("Configuration Validation", reportWidth))
	cmd.Println()

	var problems, warnings []string

	if path := configSource(baseDir, explicit); path == "" {
		warnings = append(warnings, "Config file not found (using defaults)")
	} else {
		cmd.Printf("  %s Config file: %s\n", output.Color("[PASS]", output.Green), path)
	}

	datasetPath := cfg.DatasetPath(baseDir)
	if _, err := os.Stat(datasetPath); os.IsNotExist(err) {
		problems = append(problems, fmt.Sprintf("Dataset not found: %s", datasetPath))
	} else {
		cmd.Printf("  %s Dataset: %s\n", output.Color("[PASS]", output.Green), datasetPath)
	}

	if cfg.Schedule.ElapsedDays > 0 && !cfg.Schedule.HasSchedule() {
		warnings = append(warnings, "schedule.elapsed_days is set without schedule.planned_days")
	}

	cmd.Println()
	for _, p := range problems {
		cmd.Printf("  %s %s\n", output.Color("[FAIL]", output.Red), p)
	}
	for _, w := range warnings {
		cmd.Printf("  %s %s\n", output.Color("[WARN]", output.Yellow), w)
	}
	cmd.Println()

	switch {
	case len(problems) > 0:
		cmd.Printf("Status: %s\n", output.Color("INVALID", output.Red))
		return NewExitError(1, "configuration validation failed")
	case len(warnings) > 0:
		cmd.Printf("Status: %s\n", output.Color("VALID (with warnings)", output.Yellow))
	default:
		cmd.Printf("Status: %s\n", output.Color("VALID", output.Green))
	}
	return nil
}

func displayConfig(cmd *cobra.Command, cfg *config.Config, baseDir, explicit string) {
	cmd.Println(output.Header("sitectl Configuration", reportWidth))
	cmd.Println()

	path := configSource(baseDir, explicit)
	if path == "" {
		path = "(defaults)"
	}

	cmd.Println("Paths:")
	cmd.Printf("  Config file: %s\n", path)
	cmd.Printf("  Dataset:     %s\n", cfg.DatasetPath(baseDir))
	cmd.Println()

	cmd.Println("Progress:")
	cmd.Printf("  Alert threshold: %s\n", output.FormatPercent(cfg.Alert.Threshold))
	cmd.Printf("  Weighted means:  %v\n", cfg.Aggregation.Weighted)
	cmd.Println()

	cmd.Println("Schedule:")
	if cfg.Schedule.HasSchedule() {
		cmd.Printf("  Elapsed/planned: %g/%g days\n", cfg.Schedule.ElapsedDays, cfg.Schedule.PlannedDays)
	} else {
		cmd.Println("  (not configured)")
	}
	cmd.Printf("  Critical margin: %g points\n", cfg.Schedule.CriticalMargin)
	cmd.Println()

	cmd.Println("Server:")
	cmd.Printf("  Address:     %s\n", cfg.Server.Addr)
	cmd.Printf("  Max upload:  %d bytes\n", cfg.Server.MaxUploadBytes)
	cmd.Printf("  Max reports: %d\n", cfg.Server.MaxReports)

	if len(cfg.Groups) > 0 {
		cmd.Println()
		cmd.Println("Groups:")
		for _, name := range sortedKeys(cfg.Groups) {
			cmd.Printf("  %s: %s\n", name, cfg.Groups[name])
		}
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
