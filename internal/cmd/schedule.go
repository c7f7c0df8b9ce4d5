package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smartsite-ai/sitectl/internal/config"
	"github.com/smartsite-ai/sitectl/internal/progress"
	"github.com/smartsite-ai/sitectl/internal/report"
)

func newScheduleCmd(a *app) *cobra.Command {
	var (
		elapsed float64
		planned float64
		margin  float64
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "schedule [file]",
		Short: "Compare physical progress with the schedule",
		Long: `Compare the global average with the progress implied by elapsed time.

Expected progress is elapsed/planned days. The delay is CRITICAL when
physical progress trails expected by more than the critical margin.

Exit codes:
  0  On schedule
  1  Mild delay
  2  Critical delay`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("margin") {
				a.v.Set(config.KeyCriticalMargin, margin)
			}

			var sched *report.Schedule
			if cmd.Flags().Changed("elapsed") || cmd.Flags().Changed("planned") {
				cfg, _, err := a.loadConfig()
				if err != nil {
					return err
				}
				sched = &report.Schedule{ElapsedDays: cfg.Schedule.ElapsedDays, PlannedDays: cfg.Schedule.PlannedDays}
				if cmd.Flags().Changed("elapsed") {
					sched.ElapsedDays = elapsed
				}
				if cmd.Flags().Changed("planned") {
					sched.PlannedDays = planned
				}
			}

			rep, _, err := a.loadReport(cmd, args, "", sched)
			if err != nil {
				return err
			}
			if rep.Schedule == nil {
				return fmt.Errorf("no schedule: pass --planned and --elapsed or set schedule.planned_days")
			}

			if asJSON {
				if err := writeJSON(cmd, rep.Schedule); err != nil {
					return err
				}
			} else {
				displaySchedule(cmd, *rep.Schedule)
			}

			return scheduleExit(*rep.Schedule)
		},
	}

	cmd.Flags().Float64Var(&elapsed, "elapsed", 0, "elapsed days since start")
	cmd.Flags().Float64Var(&planned, "planned", 0, "planned project duration in days")
	cmd.Flags().Float64Var(&margin, "margin", progress.DefaultCriticalMargin, "critical delay margin in percentage points")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")

	return cmd
}

func scheduleExit(sv progress.ScheduleVariance) error {
	switch sv.Status {
	case progress.CriticalDelay:
		return NewExitError(2, fmt.Sprintf("critical delay: %.2f points behind schedule", -sv.Variance))
	case progress.MildDelay:
		return NewExitError(1, fmt.Sprintf("mild delay: %.2f points behind schedule", -sv.Variance))
	default:
		return nil
	}
}
