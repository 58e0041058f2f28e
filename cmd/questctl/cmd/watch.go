package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lifedash/questlog/internal/model"
)

func WatchCmd() *cobra.Command {
	var backlog int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the live activity feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			client := newClient(clientConfig(cmd))
			out := cmd.OutOrStdout()
			show := func(a model.Activity) {
				marker := " "
				if a.IsMilestone() {
					marker = "★"
				}
				fmt.Fprintf(out, "%s %s %-14s %s\n", a.OccurredAt.Local().Format("Jan 02 15:04"), marker, a.Type, a.Description)
			}

			if backlog > 0 {
				recent, err := client.RecentActivities(ctx, backlog)
				if err != nil {
					return err
				}
				for i := len(recent) - 1; i >= 0; i-- {
					show(recent[i])
				}
			}

			return client.Stream(ctx, show)
		},
	}

	cmd.Flags().IntVar(&backlog, "backlog", 10, "recent activities to show before following")
	return cmd
}
