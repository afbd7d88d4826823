package handlers

import (
	"net/http"
	"strconv"

	"github.com/diewo77/go-gestion/httpx"
	"github.com/diewo77/go-gestion/internal/services"
)

type AuditHandler struct {
	audit *services.AuditService
}

func NewAuditHandler(audit *services.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// Logs: ?table=&op=&pk=&search=&page=&pageSize=
func (h *AuditHandler) Logs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("pageSize"))
	res, err := h.audit.List(r.Context(), services.AuditFilter{
		Table:    q.Get("table"),
		Op:       q.Get("op"),
		PK:       q.Get("pk"),
		Search:   queryFirst(q, "search", "q"),
		Page:     page,
		PageSize: size,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

func (h *AuditHandler) Tables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.audit.Tables(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tables)
}
