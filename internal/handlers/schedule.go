package handlers

import (
	"net/http"

	"github.com/diewo77/go-gestion/httpx"
	"github.com/diewo77/go-gestion/internal/services"
)

// ScheduleHandler administers access schedules, keyed by user id.
type ScheduleHandler struct {
	schedules *services.ScheduleService
}

func NewScheduleHandler(schedules *services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules}
}

func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	res, err := h.schedules.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, ok := pathID(r, "userID")
	if !ok {
		badID(w)
		return
	}
	s, err := h.schedules.Get(r.Context(), uid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}

func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.ScheduleInput
	if !decode(w, r, &in) {
		return
	}
	s, err := h.schedules.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, s)
}

func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := pathID(r, "userID")
	if !ok {
		badID(w)
		return
	}
	var in services.ScheduleInput
	if !decode(w, r, &in) {
		return
	}
	s, err := h.schedules.Update(r.Context(), uid, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}

func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := pathID(r, "userID")
	if !ok {
		badID(w)
		return
	}
	if err := h.schedules.Delete(r.Context(), uid); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
