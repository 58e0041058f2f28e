package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/lifedash/questlog/internal/goalapi"
	"github.com/lifedash/questlog/internal/model"
)

// remoteFeed prints unlocked milestones and records them on the server so
// they show up in the activity feed.
type remoteFeed struct {
	client *goalapi.Client
	out    io.Writer
	muted  bool
}

func (f *remoteFeed) Publish(a model.Activity) {
	if f.muted {
		return
	}
	fmt.Fprintf(f.out, "★ %s\n", a.Description)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := f.client.RecordActivity(ctx, a); err != nil {
		slog.Warn("failed to record milestone", "error", err, "description", a.Description)
	}
}
