package goalapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifedash/questlog/internal/model"
	"github.com/lifedash/questlog/internal/progress"
)

var _ progress.GoalService = (*Client)(nil)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL + "/", Token: "secret"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_ListGoalsSendsBearerToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "/api/goals", r.URL.Path)
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": 1, "name": "Read", "period": "DAILY", "targetValue": 10, "currentValue": 4},
		})
	})

	goals, err := c.ListGoals(context.Background())

	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, "Read", goals[0].Name)
	assert.Equal(t, float64(10), goals[0].Target())
	assert.Equal(t, float64(4), goals[0].CurrentValue)
}

func TestClient_FetchHistoryReturnsAscendingDates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/goals/7/history", r.URL.Path)
		writeJSON(w, http.StatusOK, []model.HistoryEntry{
			{Date: "2024-05-15", Value: 3},
			{Date: "2024-05-14", Value: 0},
			{Date: "2024-05-12", Value: 1},
		})
	})

	entries, err := c.FetchHistory(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, []model.HistoryEntry{
		{Date: "2024-05-12", Value: 1},
		{Date: "2024-05-14", Value: 0},
		{Date: "2024-05-15", Value: 3},
	}, entries)
}

func TestClient_SetProgress(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/goals/3/history", r.URL.Path)
		assert.Equal(t, "2.5", r.URL.Query().Get("value"))
		assert.Equal(t, "2024-05-15", r.URL.Query().Get("date"))
		writeJSON(w, http.StatusOK, model.HistoryEntry{Date: "2024-05-15", Value: 2.5})
	})

	entry, err := c.SetProgress(context.Background(), 3, 2.5, "2024-05-15")

	require.NoError(t, err)
	assert.Equal(t, &model.HistoryEntry{Date: "2024-05-15", Value: 2.5}, entry)
}

func TestClient_SetProgressOmitsEmptyDate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("date"))
		writeJSON(w, http.StatusOK, model.HistoryEntry{Date: "2024-05-15", Value: 1})
	})

	_, err := c.SetProgress(context.Background(), 3, 1, "")
	require.NoError(t, err)
}

func TestClient_CreateGoalPostsJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var p model.GoalPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, model.PeriodWeekly, p.Period)
		writeJSON(w, http.StatusOK, model.Goal{ID: 9, Name: p.Name, Period: p.Period})
	})

	goal, err := c.CreateOrUpdateGoal(context.Background(), model.GoalPayload{Name: "Gym", Period: model.PeriodWeekly, TargetValue: 3})

	require.NoError(t, err)
	assert.Equal(t, int64(9), goal.ID)
}

func TestClient_DeleteGoal(t *testing.T) {
	var called bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/goals/4", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.DeleteGoal(context.Background(), 4))
	assert.True(t, called)
}

func TestClient_Unauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	})

	_, err := c.ListGoals(context.Background())

	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestClient_StatusErrorCarriesMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "goal not found"})
	})

	_, err := c.SetProgress(context.Background(), 1, 1, "2024-05-15")

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Equal(t, "goal not found", se.Message)
}

func TestClient_HonorsContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.FetchHistory(ctx, 1)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_Stream(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, ": connected\n\n")
		fmt.Fprint(w, "event: activity\ndata: {\"description\":\"Gold badge unlocked for Read\",\"metadata\":\"milestone\"}\n\n")
		fmt.Fprint(w, "event: ping\ndata: {}\n\n")
		fmt.Fprint(w, "event: activity\ndata: not json\n\n")
		fmt.Fprint(w, "data: {\"description\":\"Logged 2 commits\"}\n\n")
	})

	var got []model.Activity
	err := c.Stream(context.Background(), func(a model.Activity) {
		got = append(got, a)
	})

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].IsMilestone())
	assert.Equal(t, "Logged 2 commits", got[1].Description)
}

func TestClient_StreamUnauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	err := c.Stream(context.Background(), func(model.Activity) {})

	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestClient_RecordActivity(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/activities", r.URL.Path)

		var body model.Activity
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, model.MetadataMilestone, body.Metadata)

		body.ID = 11
		writeJSON(w, http.StatusCreated, body)
	})

	saved, err := c.RecordActivity(context.Background(), model.Activity{
		Type:        model.ActivityStudy,
		Description: "Gold badge unlocked for Read",
		Metadata:    model.MetadataMilestone,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(11), saved.ID)
}
