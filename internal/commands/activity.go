package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ytget/toolboard/internal/activity"
	"github.com/ytget/toolboard/internal/config"
)

func addActivity(topLevel *cobra.Command, e *env) {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Draw the job application heatmap.",
		Example: `
toolboardctl activity
toolboardctl activity --days 30
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctl, err := e.controller()
			if err != nil {
				return err
			}
			days := min(max(e.cfg.ActivityDays, config.MinActivityDays), config.MaxActivityDays)
			r, err := ctl.JobActivity(cmd.Context(), days)
			if err != nil {
				return fmt.Errorf("job activity: %w", err)
			}
			h := activity.Build(r)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d applications in the last %d days\n", h.Total, days)
			return h.WriteText(out)
		},
	}
	cmd.Flags().Int("days", 0, "Number of trailing days to show.")
	_ = e.v.BindPFlag(config.KeyActivityDays, cmd.Flags().Lookup("days"))

	topLevel.AddCommand(cmd)
}
