// Package cmd provides the CLI commands for sitectl.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/smartsite-ai/sitectl/internal/config"
	"github.com/smartsite-ai/sitectl/internal/dataset"
	"github.com/smartsite-ai/sitectl/internal/ingest"
	"github.com/smartsite-ai/sitectl/internal/logging"
	"github.com/smartsite-ai/sitectl/internal/output"
	"github.com/smartsite-ai/sitectl/internal/report"
)

var (
	// Version is set at build time via ldflags.
	Version = "dev"
	// Commit is set at build time via ldflags.
	Commit = "none"
	// Date is set at build time via ldflags.
	Date = "unknown"
)

// app holds global flag values and state shared by subcommands.
type app struct {
	cfgFile   string
	noColor   bool
	logLevel  string
	threshold float64

	v      *viper.Viper
	logger *zap.Logger
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{
		v:      config.NewViper(),
		logger: zap.NewNop(),
	}

	rootCmd := &cobra.Command{
		Use:   "sitectl",
		Short: "Construction progress aggregation toolkit",
		Long: `sitectl turns a site progress spreadsheet into a progress report.

It validates the sheet, computes per-activity progress, averages it per
work area and for the whole site, flags areas below the alert threshold,
and compares physical progress with the schedule.

Spreadsheets may be CSV, XLSX or XLS, with English or Spanish headers.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: .sitectl/config.yaml or sitectl.yaml)")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")
	flags.StringVar(&a.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flags.Float64Var(&a.threshold, "threshold", 50, "alert threshold in percent")

	_ = a.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = a.v.BindPFlag(config.KeyThreshold, flags.Lookup("threshold"))

	rootCmd.AddCommand(
		newVersionCmd(),
		newReportCmd(a),
		newAlertsCmd(a),
		newScheduleCmd(a),
		newExportCmd(a),
		newValidateCmd(a),
		newConfigCmd(a),
		newInitCmd(),
		newServeCmd(a),
	)

	return rootCmd
}

// Execute runs the CLI. It is called by main.main().
func Execute() error {
	return NewRootCmd().Execute()
}

// setup applies color settings and builds the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.noColor {
		output.DisableColor()
	}

	// The logger level comes from flag, env or config file, in that order.
	level := a.logLevel
	development := false
	if cfg, _, err := a.loadConfig(); err == nil {
		level = cfg.Log.Level
		development = cfg.Log.Development
	}

	logger, err := logging.New(level, development)
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

// loadConfig loads the config file (from --config or discovered upward from
// the working directory) and applies environment and flag overrides.
// It returns the directory relative paths in the config resolve against.
func (a *app) loadConfig() (*config.Config, string, error) {
	var (
		cfg     *config.Config
		baseDir string
		err     error
	)

	if a.cfgFile != "" {
		cfg, err = config.Load(a.cfgFile)
		if err != nil {
			return nil, "", err
		}
		abs, err := filepath.Abs(a.cfgFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to resolve config path: %w", err)
		}
		baseDir = config.ProjectRoot(abs)
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, "", fmt.Errorf("failed to get working directory: %w", err)
		}
		baseDir = cwd
		if path, findErr := config.FindConfig(cwd); findErr == nil {
			baseDir = config.ProjectRoot(path)
			cfg, err = config.Load(path)
		} else {
			cfg = config.DefaultConfig()
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
	}

	if err := config.ApplyOverrides(cfg, a.v); err != nil {
		return nil, "", err
	}
	return cfg, baseDir, nil
}

// datasetPath returns the file argument, or the configured dataset.
func datasetPath(args []string, cfg *config.Config, baseDir string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return cfg.DatasetPath(baseDir)
}

// reportOptions derives build options from config. sched overrides the
// configured schedule when non-nil.
func reportOptions(cfg *config.Config, sched *report.Schedule) report.Options {
	opts := report.Options{
		Threshold:      cfg.Alert.Threshold,
		Weighted:       cfg.Aggregation.Weighted,
		CriticalMargin: cfg.Schedule.CriticalMargin,
		Schedule:       sched,
	}
	if opts.Schedule == nil && cfg.Schedule.HasSchedule() {
		opts.Schedule = &report.Schedule{
			ElapsedDays: cfg.Schedule.ElapsedDays,
			PlannedDays: cfg.Schedule.PlannedDays,
		}
	}
	return opts
}

// buildReport reads the dataset file and runs the full progress pass.
// A non-empty group restricts the pass to that group's activities.
func (a *app) buildReport(ctx context.Context, path, group string, opts report.Options) (*report.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}

	upload := report.Upload{Name: filepath.Base(path), Data: data}
	table, err := ingest.ReadBytes(data, upload.Name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	ds, err := dataset.FromTable(table)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	ds.SetPath(path)

	if group != "" {
		filtered := ds.Filter(dataset.FilterOptions{Group: group})
		if filtered.Len() == 0 {
			return nil, fmt.Errorf("group %q not found; groups: %s", group, strings.Join(ds.Groups(), ", "))
		}
		ds = filtered
	}

	rep, err := report.NewBuilder().BuildDataset(ctx, ds, upload.Info(), report.Digest(data), opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	a.logger.Debug("report built",
		zap.String("dataset", ds.Path()),
		zap.String("group", group),
		zap.Float64("size_kb", rep.Source.SizeKB()),
		zap.Int("items", len(rep.Items)),
		zap.Int("groups", len(rep.Summary.Groups)),
	)
	for _, w := range rep.Summary.Warnings {
		a.logger.Warn("zero total quantity",
			zap.Int("row", w.Row),
			zap.String("activity", w.Activity),
			zap.String("group", w.Group),
		)
	}
	return rep, nil
}

// loadReport combines config loading, path resolution and the build.
func (a *app) loadReport(cmd *cobra.Command, args []string, group string, sched *report.Schedule) (*report.Report, *config.Config, error) {
	cfg, baseDir, err := a.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	rep, err := a.buildReport(cmd.Context(), datasetPath(args, cfg, baseDir), group, reportOptions(cfg, sched))
	if err != nil {
		return nil, nil, err
	}
	return rep, cfg, nil
}
