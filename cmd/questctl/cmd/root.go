package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/lifedash/questlog/internal/config"
	"github.com/lifedash/questlog/internal/goalapi"
	"github.com/lifedash/questlog/internal/logger"
	"github.com/lifedash/questlog/internal/model"
	"github.com/lifedash/questlog/internal/session"
)

func RootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "questctl",
		Short:         "Track goals and progress from the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg := clientConfig(cmd)
			logger.Init(logger.Options{
				Dev:       cfg.IsDevelopment(),
				SentryDSN: cfg.SentryDSN,
				Output:    cmd.ErrOrStderr(),
			})
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("api", "", "goal service base URL (env API_BASE)")
	flags.String("token", "", "access token (env API_TOKEN)")
	flags.String("tz", "", "IANA timezone used for today (env TIMEZONE)")

	rootCmd.AddCommand(GoalsCmd())
	rootCmd.AddCommand(ProgressCmd())
	rootCmd.AddCommand(StatsCmd())
	rootCmd.AddCommand(RemindersCmd())
	rootCmd.AddCommand(WatchCmd())
	rootCmd.AddCommand(TokenCmd())
	rootCmd.AddCommand(MigrateCmd())

	return rootCmd
}

// clientConfig is the environment config with command line overrides.
func clientConfig(cmd *cobra.Command) *config.ClientConfig {
	cfg := config.LoadClient()
	if v, _ := cmd.Flags().GetString("api"); v != "" {
		cfg.APIBase = v
	}
	if v, _ := cmd.Flags().GetString("token"); v != "" {
		cfg.APIToken = v
	}
	if v, _ := cmd.Flags().GetString("tz"); v != "" {
		cfg.Timezone = v
	}
	return cfg
}

func newClient(cfg *config.ClientConfig) *goalapi.Client {
	return goalapi.New(goalapi.Config{
		BaseURL: cfg.APIBase,
		Token:   cfg.APIToken,
		Timeout: cfg.APITimeout,
	})
}

// openSession starts a session with every goal and history loaded. Badges
// the goals already hold are recorded silently, so only new unlocks reach
// the feed.
func openSession(ctx context.Context, cmd *cobra.Command) (*session.Session, *goalapi.Client, error) {
	cfg := clientConfig(cmd)

	loc := time.Local
	if cfg.Timezone != "" {
		l, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
		}
		loc = l
	}

	client := newClient(cfg)
	feed := &remoteFeed{client: client, out: cmd.OutOrStdout(), muted: true}

	sess := session.New(client, session.Config{
		Feed:            feed,
		Location:        loc,
		LoadConcurrency: cfg.LoadConcurrency,
		ReminderLimit:   cfg.ReminderLimit,
	})

	report, err := sess.Init(ctx)
	if err != nil {
		return nil, nil, err
	}
	for goalID, loadErr := range report.Failed {
		slog.Warn("history unavailable", "goal_id", goalID, "error", loadErr)
	}

	sess.TrackUnlocks()
	feed.muted = false

	return sess, client, nil
}

func parseGoalID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid goal id %q", raw)
	}
	return id, nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func progressLabel(g model.Goal) string {
	label := formatNumber(g.CurrentValue) + "/" + formatNumber(g.Target())
	if g.Unit != "" {
		label += " " + g.Unit
	}
	return label
}
