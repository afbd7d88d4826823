package handlers

import (
	"net/http"
	"time"

	"github.com/diewo77/go-gestion/gate"
	"github.com/diewo77/go-gestion/httpx"
	"github.com/diewo77/go-gestion/i18n"
	"github.com/diewo77/go-gestion/internal/ledger"
	"github.com/diewo77/go-gestion/internal/listing"
	"github.com/diewo77/go-gestion/internal/services"
)

type BonHandler struct {
	bons  *services.BonService
	authz Authorizer
	loc   *time.Location
}

func NewBonHandler(bons *services.BonService, authz Authorizer, loc *time.Location) *BonHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &BonHandler{bons: bons, authz: authz, loc: loc}
}

func (h *BonHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	period, err := ledger.NewPeriod(queryFirst(q, "date_from", "from"), queryFirst(q, "date_to", "to"), h.loc)
	if err != nil {
		httpx.JSONMessage(w, http.StatusBadRequest, "invalid_date", i18n.T(i18n.LangFrom(r.Context()), "invalid_date"))
		return
	}
	page, limit := listing.PageParams(q, 0)
	res, err := h.bons.List(r.Context(), services.BonFilter{
		Type:      q.Get("type"),
		Statut:    q.Get("statut"),
		ContactID: queryID(r, "contact_id"),
		Search:    queryFirst(q, "search", "q"),
		Period:    period,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

func (h *BonHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badID(w)
		return
	}
	b, err := h.bons.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

func (h *BonHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.BonInput
	if !decode(w, r, &in) {
		return
	}
	if err := h.authz.AuthorizeBon(r.Context(), gate.ActionCreate, in.Type); err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.bons.Create(r.Context(), in, actor(r.Context(), h.authz))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, b)
}

// SetStatut changes the status; the caller must be allowed to validate this bon type.
func (h *BonHandler) SetStatut(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badID(w)
		return
	}
	var body struct {
		Statut string `json:"statut"`
	}
	if !decode(w, r, &body) {
		return
	}
	b, err := h.bons.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.authz.AuthorizeBon(r.Context(), gate.ActionValidate, b.Type); err != nil {
		writeError(w, r, err)
		return
	}
	b, err = h.bons.SetStatut(r.Context(), id, body.Statut)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

func (h *BonHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badID(w)
		return
	}
	b, err := h.bons.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.authz.AuthorizeBon(r.Context(), gate.ActionDelete, b.Type); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.bons.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
