package handlers

import (
	"net/http"

	"github.com/diewo77/go-gestion/httpx"
	"github.com/diewo77/go-gestion/internal/services"
)

// AdminEmployeeHandler manages employee accounts and their roles.
type AdminEmployeeHandler struct {
	employees *services.EmployeeService
	authz     Authorizer
	// invalidate drops the cached role of a user after a change.
	invalidate func(userID uint)
}

func NewAdminEmployeeHandler(employees *services.EmployeeService, authz Authorizer, invalidate func(uint)) *AdminEmployeeHandler {
	return &AdminEmployeeHandler{employees: employees, authz: authz, invalidate: invalidate}
}

func (h *AdminEmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.employees.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, users)
}

func (h *AdminEmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.EmployeeInput
	if !decode(w, r, &in) {
		return
	}
	u, err := h.employees.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, u)
}

// SetRole assigns a role: {"role": "Manager"}.
func (h *AdminEmployeeHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badID(w)
		return
	}
	var body struct {
		Role string `json:"role"`
	}
	if !decode(w, r, &body) {
		return
	}
	u, err := h.employees.SetRole(r.Context(), id, body.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if h.invalidate != nil {
		h.invalidate(id)
	}
	httpx.JSON(w, http.StatusOK, u)
}

func (h *AdminEmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badID(w)
		return
	}
	if err := h.employees.Delete(r.Context(), id, actor(r.Context(), h.authz)); err != nil {
		writeError(w, r, err)
		return
	}
	if h.invalidate != nil {
		h.invalidate(id)
	}
	w.WriteHeader(http.StatusNoContent)
}
