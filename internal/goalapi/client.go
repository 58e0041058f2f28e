// Package goalapi is the HTTP client for the goal service.
package goalapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lifedash/questlog/internal/model"
)

var ErrUnauthorized = errors.New("goal service rejected the access token")

// StatusError is a non-2xx response from the goal service.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("goal service: %s", http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("goal service: %s: %s", http.StatusText(e.StatusCode), e.Message)
}

type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client

	// stream has no timeout; the SSE connection lives as long as its context.
	stream *http.Client
}

func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    &http.Client{Timeout: cfg.Timeout},
		stream:  &http.Client{},
	}
}

func (c *Client) ListGoals(ctx context.Context) ([]model.Goal, error) {
	var goals []model.Goal
	if err := c.do(ctx, http.MethodGet, "/api/goals", nil, &goals); err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	if goals == nil {
		goals = []model.Goal{}
	}
	return goals, nil
}

func (c *Client) CreateOrUpdateGoal(ctx context.Context, payload model.GoalPayload) (*model.Goal, error) {
	var goal model.Goal
	if err := c.do(ctx, http.MethodPost, "/api/goals", payload, &goal); err != nil {
		return nil, fmt.Errorf("save goal: %w", err)
	}
	return &goal, nil
}

func (c *Client) DeleteGoal(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, goalPath(id), nil, nil); err != nil {
		return fmt.Errorf("delete goal %d: %w", id, err)
	}
	return nil
}

// FetchHistory returns the goal's recent history sorted by date ascending.
// The service replies newest first.
func (c *Client) FetchHistory(ctx context.Context, goalID int64) ([]model.HistoryEntry, error) {
	var entries []model.HistoryEntry
	if err := c.do(ctx, http.MethodGet, goalPath(goalID)+"/history", nil, &entries); err != nil {
		return nil, fmt.Errorf("fetch history for goal %d: %w", goalID, err)
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	if entries == nil {
		entries = []model.HistoryEntry{}
	}
	return entries, nil
}

// SetProgress writes the absolute value for date. An empty date lets the
// service pick its own today.
func (c *Client) SetProgress(ctx context.Context, goalID int64, value float64, date string) (*model.HistoryEntry, error) {
	q := url.Values{}
	q.Set("value", strconv.FormatFloat(value, 'f', -1, 64))
	if date != "" {
		q.Set("date", date)
	}

	var entry model.HistoryEntry
	if err := c.do(ctx, http.MethodPost, goalPath(goalID)+"/history?"+q.Encode(), nil, &entry); err != nil {
		return nil, fmt.Errorf("set progress for goal %d: %w", goalID, err)
	}
	return &entry, nil
}

// RecentActivities returns up to limit activities, newest first.
func (c *Client) RecentActivities(ctx context.Context, limit int) ([]model.Activity, error) {
	path := "/api/activities/feed"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var activities []model.Activity
	if err := c.do(ctx, http.MethodGet, path, nil, &activities); err != nil {
		return nil, fmt.Errorf("fetch activity feed: %w", err)
	}
	return activities, nil
}

// RecordActivity posts an activity to the user's feed.
func (c *Client) RecordActivity(ctx context.Context, a model.Activity) (*model.Activity, error) {
	var saved model.Activity
	if err := c.do(ctx, http.MethodPost, "/api/activities", a, &saved); err != nil {
		return nil, fmt.Errorf("record activity: %w", err)
	}
	return &saved, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	var payload struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Error == "" {
		payload.Error = strings.TrimSpace(string(raw))
	}
	slog.Debug("goal service error response", "status", resp.StatusCode, "body", payload.Error)

	return &StatusError{StatusCode: resp.StatusCode, Message: payload.Error}
}

func goalPath(id int64) string {
	return "/api/goals/" + strconv.FormatInt(id, 10)
}
