package cmd

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lifedash/questlog/internal/analytics"
	"github.com/lifedash/questlog/internal/progress"
)

func ProgressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Log progress",
	}

	cmd.AddCommand(setProgressCmd())
	return cmd
}

func setProgressCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "set GOAL_ID VALUE",
		Short: "Set the absolute value for a day (today by default)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseGoalID(args[0])
			if err != nil {
				return err
			}
			value, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid value %q", args[1])
			}

			sess, _, err := openSession(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			sess.OnTransition(func(op progress.Operation) {
				slog.Debug("progress write", "state", op.State, "goal_id", op.GoalID, "date", op.Date, "value", op.Value, "delta", op.Delta)
			})

			res, err := sess.ReconcileProgress(cmd.Context(), id, date, value)
			if err != nil {
				if progress.IsRecoverable(err) {
					return fmt.Errorf("progress was not saved, nothing changed: %w", err)
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s on %s: %s\n", res.Goal.DisplayName(), res.Entry.Date, formatNumber(res.Entry.Value))
			if res.Op.Saved != res.Op.Value {
				fmt.Fprintf(out, "Server stored %s instead of %s\n", formatNumber(res.Op.Saved), formatNumber(res.Op.Value))
			}
			fmt.Fprintf(out, "Progress: %s (%d%%)\n", progressLabel(res.Goal), analytics.Percent(res.Goal.CurrentValue, res.Goal.Target()))

			sess.TrackUnlocks()
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "day to set, YYYY-MM-DD")
	return cmd
}
