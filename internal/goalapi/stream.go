package goalapi

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lifedash/questlog/internal/model"
)

// Stream subscribes to the live activity feed and calls fn for every
// activity until ctx is done or the server closes the stream. A clean
// shutdown through ctx returns nil.
func (c *Client) Stream(ctx context.Context, fn func(model.Activity)) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/activities/stream", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.stream.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("open activity stream: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return fmt.Errorf("open activity stream: %w", err)
	}

	err = readEvents(resp, func(event, data string) {
		if event != "" && event != "activity" {
			return
		}
		var a model.Activity
		if err := json.Unmarshal([]byte(data), &a); err != nil {
			slog.Warn("skipping malformed activity event", "error", err)
			return
		}
		fn(a)
	})
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

// readEvents parses a text/event-stream body. Comment lines and unknown
// fields are ignored; multi-line data is joined with newlines.
func readEvents(resp *http.Response, emit func(event, data string)) error {
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var event string
	var data []string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if len(data) > 0 {
				emit(event, strings.Join(data, "\n"))
			}
			event, data = "", nil
		case strings.HasPrefix(line, ":"):
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("read activity stream: %w", err)
	}
	return nil
}
