package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/smartsite-ai/sitectl/internal/config"
	"github.com/smartsite-ai/sitectl/internal/dataset"
	"github.com/smartsite-ai/sitectl/internal/output"
	"github.com/smartsite-ai/sitectl/internal/progress"
	"github.com/smartsite-ai/sitectl/internal/report"
)

const reportWidth = 80

func newReportCmd(a *app) *cobra.Command {
	var (
		verbosity int
		asJSON    bool
		weighted  bool
		group     string
	)

	cmd := &cobra.Command{
		Use:   "report [file]",
		Short: "Show site progress",
		Long: `Compute progress for every activity and summarize it per group.

Verbosity levels:
  (none)  Global average and alert summary
  -v      Per-group means
  -vv     Group ranking and alerts
  -vvv    Every activity

With --group, only that group's activities are read.
The dataset defaults to sitectl.dataset from the config file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("weighted") {
				a.v.Set(config.KeyWeighted, weighted)
			}

			rep, cfg, err := a.loadReport(cmd, args, group, nil)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, rep)
			}

			displayReport(cmd, rep, cfg, verbosity)
			if group != "" {
				displayGroupFocus(cmd, rep, cfg, group)
			}
			return nil
		},
	}

	cmd.Flags().CountVarP(&verbosity, "verbose", "v", "increase verbosity (-v, -vv, -vvv)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output the full report as JSON")
	cmd.Flags().BoolVar(&weighted, "weighted", false, "weight means by planned quantity")
	cmd.Flags().StringVar(&group, "group", "", "report a single group")

	return cmd
}

func displayReport(cmd *cobra.Command, rep *report.Report, cfg *config.Config, verbosity int) {
	sum := rep.Summary

	cmd.Println(output.Header("Site Progress", reportWidth))
	cmd.Println()
	cmd.Printf("Dataset: %s (%.1f KB)\n", rep.Source.Name, rep.Source.SizeKB())
	cmd.Printf("Global:  %s %s\n",
		output.ProgressBar(sum.GlobalAverage, 50),
		output.FormatPercent(sum.GlobalAverage))
	cmd.Printf("Items:   %d measured, %d excluded, %d groups\n", sum.Measured, sum.Excluded, len(sum.Groups))
	if sum.Weighted {
		cmd.Println(output.Color("Means are weighted by planned quantity", output.Dim))
	}
	cmd.Println()

	displayAlertSummary(cmd, rep.Alerts)

	if rep.Schedule != nil {
		displaySchedule(cmd, *rep.Schedule)
	}

	if verbosity >= 1 {
		displayGroups(cmd, rep, cfg)
	}
	if verbosity >= 2 {
		displayRanking(cmd, sum.Ranking)
		displayAlerts(cmd, rep.Alerts)
	}
	if verbosity >= 3 {
		displayItems(cmd, rep.Items)
	}

	displayWarnings(cmd, sum)
}

func displayAlertSummary(cmd *cobra.Command, res progress.AlertResult) {
	switch res.State() {
	case progress.ResultNotEvaluated:
		cmd.Println(output.Color("No groups to evaluate", output.Dim))
	case progress.ResultAllClear:
		cmd.Printf("%s All groups at or above %s\n", output.Checkmark(true), output.FormatPercent(res.Threshold))
	default:
		critical := 0
		for _, al := range res.Alerts {
			if al.Severity == progress.SeverityCritical {
				critical++
			}
		}
		cmd.Printf("%s %d group(s) below %s (%d critical)\n",
			output.Checkmark(false), len(res.Alerts), output.FormatPercent(res.Threshold), critical)
	}
	cmd.Println()
}

func displaySchedule(cmd *cobra.Command, sv progress.ScheduleVariance) {
	status := string(sv.Status)
	cmd.Printf("Schedule: %s physical vs %s expected (%s) %s\n",
		output.FormatPercent(sv.PhysicalPct),
		output.FormatPercent(sv.ExpectedPct),
		output.FormatDelta(sv.Variance),
		output.Color(status, output.ScheduleColor(status)))
	cmd.Println()
}

func displayGroups(cmd *cobra.Command, rep *report.Report, cfg *config.Config) {
	cmd.Println(output.SubHeader("Groups", reportWidth))

	table := output.NewTable("Group", "Mean", "Items", "Excluded", "State").AlignRight(1, 2, 3)
	for _, g := range rep.Summary.Groups {
		state := string(progress.StateOf(g.Mean, rep.Alerts.Threshold))
		table.AddRow(
			output.Truncate(cfg.GroupDescription(g.Group), 36),
			output.FormatPercent(g.Mean),
			strconv.Itoa(g.Items),
			strconv.Itoa(g.Excluded),
			output.StateIcon(state)+" "+state,
		)
	}
	table.SetFooter(
		"Global",
		output.FormatPercent(rep.Summary.GlobalAverage),
		strconv.Itoa(rep.Summary.Measured),
		strconv.Itoa(rep.Summary.Excluded),
	)
	cmd.Print(table.Render())

	for _, name := range rep.Summary.Unmeasured {
		cmd.Printf("%s %s has no planned quantities\n", output.Color("○", output.Dim), name)
	}
	cmd.Println()
}

func displayGroupFocus(cmd *cobra.Command, rep *report.Report, cfg *config.Config, name string) {
	g, ok := rep.Summary.Group(name)
	if !ok {
		cmd.Printf("%s %s has no planned quantities\n", output.Color("○", output.Dim), name)
		return
	}
	state := string(progress.StateOf(g.Mean, rep.Alerts.Threshold))
	cmd.Printf("Group:   %s %s %s %s\n",
		cfg.GroupDescription(g.Group),
		output.ProgressBar(g.Mean, 30),
		output.FormatPercent(g.Mean),
		output.StateIcon(state)+" "+state)
}

func displayRanking(cmd *cobra.Command, ranking []progress.GroupSummary) {
	cmd.Println(output.SubHeader("Ranking", reportWidth))
	for i, g := range ranking {
		cmd.Printf("%3d. %s %s %s\n",
			i+1,
			output.PadRight(output.Truncate(g.Group, 30), 30),
			output.ProgressBar(g.Mean, 20),
			output.PadLeft(output.FormatPercent(g.Mean), 8))
	}
	cmd.Println()
}

func displayAlerts(cmd *cobra.Command, res progress.AlertResult) {
	if len(res.Alerts) == 0 {
		return
	}
	cmd.Println(output.SubHeader("Alerts", reportWidth))
	for _, al := range res.Alerts {
		sev := string(al.Severity)
		cmd.Printf("%s %s %s\n",
			output.SeverityIcon(sev),
			output.Color(output.PadRight(sev, 8), output.SeverityColor(sev)),
			al.Message)
	}
	cmd.Println()
}

func displayItems(cmd *cobra.Command, items []progress.ItemProgress) {
	cmd.Println(output.SubHeader("Activities", reportWidth))

	table := output.NewTable("Row", "Activity", "Group", "Unit", "Total", "Executed", "Progress").AlignRight(0, 4, 5, 6)
	for _, ip := range items {
		pct := "n/a"
		if ip.Defined {
			pct = output.FormatPercent(ip.Pct)
		}
		table.AddRow(
			strconv.Itoa(ip.Item.Row),
			output.Truncate(ip.Item.Activity, 28),
			output.Truncate(ip.Item.Group, 16),
			ip.Item.Unit,
			dataset.FormatQuantity(ip.Item.TotalQuantity),
			dataset.FormatQuantity(ip.Item.ExecutedQuantity),
			pct,
		)
	}
	cmd.Print(table.Render())
	cmd.Println()
}

func displayWarnings(cmd *cobra.Command, sum progress.Summary) {
	for _, w := range sum.Warnings {
		cmd.Printf("%s %s\n", output.Color("Warning:", output.Yellow), w.Error())
	}
}

// writeJSON writes v as indented JSON to the command output.
func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
