package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/lifedash/questlog/internal/ctxkeys"
	"github.com/lifedash/questlog/internal/feed"
	"github.com/lifedash/questlog/internal/model"
	"github.com/lifedash/questlog/internal/service"
)

const streamPingInterval = 25 * time.Second

type ActivityHandler struct {
	activityService *service.ActivityService
	hub             *feed.Hub
	pingInterval    time.Duration
}

func NewActivityHandler(activityService *service.ActivityService, hub *feed.Hub) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		hub:             hub,
		pingInterval:    streamPingInterval,
	}
}

func (h *ActivityHandler) Feed(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	activities, err := h.activityService.Feed(user.ID, limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if activities == nil {
		activities = []*model.Activity{}
	}

	writeJSON(w, http.StatusOK, activities)
}

func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var activity model.Activity
	if err := decodeJSON(w, r, &activity); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	saved, err := h.activityService.Record(user.ID, activity)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, saved)
}

// Stream pushes the user's new activities as server-sent events until the
// client goes away.
func (h *ActivityHandler) Stream(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	ctx := r.Context()
	events := h.hub.Subscribe(ctx, 0)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	ping := time.NewTicker(h.pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ping.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case a, ok := <-events:
			if !ok {
				return
			}
			if a.UserID != user.ID {
				continue
			}
			data, err := json.Marshal(a)
			if err != nil {
				slog.Error("failed to encode activity event", "error", err, "activity_id", a.ID)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: activity\ndata: %s\n\n", data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
