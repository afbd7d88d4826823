package handlers

import (
	"net/http"

	"github.com/diewo77/go-gestion/httpx"
	"github.com/diewo77/go-gestion/internal/services"
)

type RemiseHandler struct {
	remises *services.RemiseService
	authz   Authorizer
}

func NewRemiseHandler(remises *services.RemiseService, authz Authorizer) *RemiseHandler {
	return &RemiseHandler{remises: remises, authz: authz}
}

func (h *RemiseHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	res, err := h.remises.ListClients(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

func (h *RemiseHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badID(w)
		return
	}
	c, err := h.remises.GetClient(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *RemiseHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var in services.ClientRemiseInput
	if !decode(w, r, &in) {
		return
	}
	c, err := h.remises.CreateClient(r.Context(), in, actor(r.Context(), h.authz))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *RemiseHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badID(w)
		return
	}
	var in services.ClientRemiseInput
	if !decode(w, r, &in) {
		return
	}
	c, err := h.remises.UpdateClient(r.Context(), id, in, actor(r.Context(), h.authz))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *RemiseHandler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badID(w)
		return
	}
	if err := h.remises.DeleteClient(r.Context(), id, actor(r.Context(), h.authz)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RemiseHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badID(w)
		return
	}
	items, err := h.remises.ListItems(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *RemiseHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badID(w)
		return
	}
	var in services.ItemRemiseInput
	if !decode(w, r, &in) {
		return
	}
	it, err := h.remises.CreateItem(r.Context(), id, in, actor(r.Context(), h.authz))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, it)
}

func (h *RemiseHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badID(w)
		return
	}
	var in services.ItemRemiseInput
	if !decode(w, r, &in) {
		return
	}
	it, err := h.remises.UpdateItem(r.Context(), id, in, actor(r.Context(), h.authz))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, it)
}

func (h *RemiseHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badID(w)
		return
	}
	if err := h.remises.DeleteItem(r.Context(), id, actor(r.Context(), h.authz)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Summary totals the discounts of both systems per beneficiary.
func (h *RemiseHandler) Summary(w http.ResponseWriter, r *http.Request) {
	res, err := h.remises.Summary(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}
