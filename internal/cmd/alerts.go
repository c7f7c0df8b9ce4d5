package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smartsite-ai/sitectl/internal/progress"
)

func newAlertsCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "alerts [file]",
		Short: "Check groups against the alert threshold",
		Long: `List every group whose mean progress is below the alert threshold.

A group is CRITICAL when its mean is below half the threshold.

Exit codes:
  0  All groups at or above the threshold (or nothing to evaluate)
  1  Warnings present
  2  Critical alerts present

Use --json for machine-readable output in CI pipelines.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, _, err := a.loadReport(cmd, args, "", nil)
			if err != nil {
				return err
			}
			res := rep.Alerts

			if asJSON {
				if err := writeJSON(cmd, alertsJSON{
					State:       res.State(),
					AlertResult: res,
				}); err != nil {
					return err
				}
			} else {
				displayAlertSummary(cmd, res)
				displayAlerts(cmd, res)
			}

			return alertsExit(res)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")

	return cmd
}

type alertsJSON struct {
	State progress.ResultState `json:"state"`
	progress.AlertResult
}

// alertsExit maps an alert result to the process exit code.
func alertsExit(res progress.AlertResult) error {
	switch {
	case res.HasCritical():
		return NewExitError(2, fmt.Sprintf("%d group(s) below threshold, critical alerts present", len(res.Alerts)))
	case len(res.Alerts) > 0:
		return NewExitError(1, fmt.Sprintf("%d group(s) below threshold", len(res.Alerts)))
	default:
		return nil
	}
}
