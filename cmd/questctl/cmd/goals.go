package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/lifedash/questlog/internal/analytics"
	"github.com/lifedash/questlog/internal/model"
)

func GoalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "List goals with progress, streak and pacing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listGoals(cmd)
		},
	}

	cmd.AddCommand(addGoalCmd())
	cmd.AddCommand(removeGoalCmd())
	return cmd
}

func listGoals(cmd *cobra.Command) error {
	sess, _, err := openSession(cmd.Context(), cmd)
	if err != nil {
		return err
	}

	goals := sess.Goals()
	if len(goals) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No goals yet. Add one with: questctl goals add")
		return nil
	}

	now := time.Now()
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTAT\tPERIOD\tPROGRESS\tPCT\tSTREAK\tPACE")
	for _, g := range goals {
		streak := sess.StreakInfo(g.ID)
		pace := "-"
		if p := sess.Pacing(g.ID, now); p != nil {
			pace = paceLabel(p)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d%%\t%d (best %d)\t%s\n",
			g.ID, g.DisplayName(), g.RpgStat, g.Period, progressLabel(g),
			analytics.Percent(g.CurrentValue, g.Target()),
			streak.Streak, streak.BestStreak, pace)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if nudge := sess.UpcomingNudge(); nudge != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%s is %d%% away from %s\n", nudge.GoalName, nudge.Gap, nudge.Tier.Label)
	}
	return nil
}

func paceLabel(p *analytics.Pacing) string {
	if p.Ahead {
		return fmt.Sprintf("ahead +%d", p.Delta)
	}
	return fmt.Sprintf("behind %d", p.Delta)
}

func addGoalCmd() *cobra.Command {
	var payload model.GoalPayload
	var activityType, period, stat string
	var days float64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload.ActivityType = model.ActivityType(strings.ToUpper(activityType))
			payload.Period = model.Period(strings.ToUpper(period))
			payload.RpgStat = model.RpgStat(strings.ToUpper(stat))
			if cmd.Flags().Changed("days") {
				payload.CustomPeriodDays = &days
			}

			sess, _, err := openSession(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			goal, err := sess.CreateGoal(cmd.Context(), payload)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created goal %d: %s (%s, %s)\n", goal.ID, goal.DisplayName(), goal.Period, progressLabel(*goal))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&payload.Name, "name", "", "goal name")
	flags.StringVar(&activityType, "type", string(model.ActivityCustom), "activity type, e.g. STUDY, GYM or any custom tag")
	flags.StringVar(&period, "period", string(model.PeriodWeekly), "DAILY, WEEKLY, MONTHLY, QUARTERLY or CUSTOM")
	flags.Float64Var(&payload.TargetValue, "target", 0, "target value for the period")
	flags.StringVar(&payload.Unit, "unit", "", "unit label")
	flags.Float64Var(&days, "days", 0, "period length in days for CUSTOM goals")
	flags.StringVar(&stat, "stat", "", "RPG stat (defaults from the activity type)")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

func removeGoalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm GOAL_ID",
		Short: "Delete a goal and its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseGoalID(args[0])
			if err != nil {
				return err
			}

			sess, _, err := openSession(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			if err := sess.DeleteGoal(cmd.Context(), id); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted goal %d\n", id)
			return nil
		},
	}
}
