package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/lifedash/questlog/internal/analytics"
)

func StatsCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "stats GOAL_ID",
		Short: "Show streaks, pacing, badges and a bucketed history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseGoalID(args[0])
			if err != nil {
				return err
			}
			m := analytics.Mode(strings.ToUpper(mode))
			if !m.Valid() {
				return fmt.Errorf("invalid mode %q, want daily, weekly or monthly", mode)
			}

			sess, _, err := openSession(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			goal, ok := sess.Goal(id)
			if !ok {
				return fmt.Errorf("goal %d not found", id)
			}

			out := cmd.OutOrStdout()
			streak := sess.StreakInfo(id)
			fmt.Fprintf(out, "%s [%s]\n", goal.DisplayName(), goal.RpgStat)
			fmt.Fprintf(out, "Progress:   %s (%d%%)\n", progressLabel(goal), analytics.Percent(goal.CurrentValue, goal.Target()))
			fmt.Fprintf(out, "Streak:     %d days (best %d)\n", streak.Streak, streak.BestStreak)
			fmt.Fprintf(out, "Completion: %d%%\n", streak.CompletionRate)
			if p := sess.Pacing(id, time.Now()); p != nil {
				fmt.Fprintf(out, "Pacing:     %s, next check-in %s\n", paceLabel(p), p.NextCheckIn.Format("Mon Jan 2 15:04"))
			}
			if badges := sess.Unlocked(id); len(badges) > 0 {
				fmt.Fprintf(out, "Badges:     %s\n", strings.Join(badges, ", "))
			}

			rollups := sess.Rollups(id)
			fmt.Fprintf(out, "Total:      %s\n", formatNumber(rollups.Daily.Total))
			fmt.Fprintf(out, "Best:       %s day, %s week, %s month\n",
				formatNumber(rollups.Daily.Max), formatNumber(rollups.Weekly.Max), formatNumber(rollups.Monthly.Max))

			series := sess.BucketedSeries(id, m)
			if len(series) == 0 {
				fmt.Fprintln(out, "\nNo history yet")
				return nil
			}
			fmt.Fprintln(out)
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, p := range series {
				fmt.Fprintf(w, "%s\t%s\n", p.Label, formatNumber(p.Value))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "daily", "bucket size: daily, weekly or monthly")
	return cmd
}
