package handler

import (
	"net/http"
	"strconv"

	"github.com/lifedash/questlog/internal/ctxkeys"
	"github.com/lifedash/questlog/internal/model"
	"github.com/lifedash/questlog/internal/service"
)

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goals, err := h.goalService.Goals(user.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if goals == nil {
		goals = []*model.Goal{}
	}

	writeJSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var payload model.GoalPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	goal, err := h.goalService.Create(user, payload)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goalID, ok := goalIDParam(w, r)
	if !ok {
		return
	}

	if err := h.goalService.Delete(user.ID, goalID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// History replies newest first.
func (h *GoalHandler) History(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goalID, ok := goalIDParam(w, r)
	if !ok {
		return
	}

	entries, err := h.goalService.History(user.ID, goalID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

// SetProgress takes ?value=&date= and replies with the entry as stored.
func (h *GoalHandler) SetProgress(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goalID, ok := goalIDParam(w, r)
	if !ok {
		return
	}

	raw := r.URL.Query().Get("value")
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "value must be a number")
		return
	}

	entry, _, err := h.goalService.SetProgress(user, goalID, r.URL.Query().Get("date"), value)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func goalIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid goal id")
		return 0, false
	}
	return id, true
}
