package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func RemindersCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "List goals not yet done today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			reminders := sess.Reminders(sess.Today(), limit)
			out := cmd.OutOrStdout()
			if len(reminders) == 0 {
				fmt.Fprintln(out, "All done for today")
				return nil
			}
			for _, r := range reminders {
				fmt.Fprintf(out, "[%d] %s\n", r.GoalID, r.Label)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum reminders (env REMINDER_LIMIT)")
	return cmd
}
