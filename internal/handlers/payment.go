package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/diewo77/go-gestion/gate"
	"github.com/diewo77/go-gestion/httpx"
	"github.com/diewo77/go-gestion/i18n"
	"github.com/diewo77/go-gestion/internal/ledger"
	"github.com/diewo77/go-gestion/internal/listing"
	"github.com/diewo77/go-gestion/internal/models"
	"github.com/diewo77/go-gestion/internal/services"
)

type PaymentHandler struct {
	payments *services.PaymentService
	authz    Authorizer
	loc      *time.Location
}

func NewPaymentHandler(payments *services.PaymentService, authz Authorizer, loc *time.Location) *PaymentHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &PaymentHandler{payments: payments, authz: authz, loc: loc}
}

// statutAllowed answers 403 when the caller may not write statut.
func (h *PaymentHandler) statutAllowed(w http.ResponseWriter, r *http.Request, action gate.Action, statut string) bool {
	if err := h.authz.AuthorizePaymentStatus(r.Context(), action, models.NormalizePaymentStatus(statut)); err != nil {
		httpx.JSONMessage(w, http.StatusForbidden, "status_not_allowed", i18n.T(i18n.LangFrom(r.Context()), "status_not_allowed"))
		return false
	}
	return true
}

// List is the caisse: ?search=&date=&mode=&statut=a,b&contact_id=&bon_id=&type=&date_from=&date_to=&sort=&dir=&page=&limit=.
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	period, err := ledger.NewPeriod(queryFirst(q, "date_from", "from"), queryFirst(q, "date_to", "to"), h.loc)
	if err != nil {
		httpx.JSONMessage(w, http.StatusBadRequest, "invalid_date", i18n.T(i18n.LangFrom(r.Context()), "invalid_date"))
		return
	}
	var statuts []string
	for _, v := range q["statut"] {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				statuts = append(statuts, s)
			}
		}
	}
	page, limit := listing.PageParams(q, 0)
	res, err := h.payments.List(r.Context(), services.PaymentFilter{
		Search:    queryFirst(q, "search", "q"),
		Date:      q.Get("date"),
		Mode:      q.Get("mode"),
		Statuts:   statuts,
		ContactID: queryID(r, "contact_id"),
		BonID:     queryID(r, "bon_id"),
		Type:      q.Get("type"),
		Period:    period,
		Sort:      q.Get("sort"),
		Dir:       q.Get("dir"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badID(w)
		return
	}
	p, err := h.payments.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.PaymentInput
	if !decode(w, r, &in) {
		return
	}
	if !h.statutAllowed(w, r, gate.ActionCreate, in.Statut) {
		return
	}
	p, err := h.payments.Create(r.Context(), in, actor(r.Context(), h.authz))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *PaymentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badID(w)
		return
	}
	var in services.PaymentInput
	if !decode(w, r, &in) {
		return
	}
	if in.Statut != "" && !h.statutAllowed(w, r, gate.ActionUpdate, in.Statut) {
		return
	}
	p, err := h.payments.Update(r.Context(), id, in, actor(r.Context(), h.authz))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *PaymentHandler) SetStatut(w http.ResponseWriter, r *http.Request) {
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
	if !h.statutAllowed(w, r, gate.ActionUpdate, body.Statut) {
		return
	}
	p, err := h.payments.SetStatut(r.Context(), id, body.Statut, actor(r.Context(), h.authz))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *PaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badID(w)
		return
	}
	if err := h.payments.Delete(r.Context(), id, actor(r.Context(), h.authz)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reorder rewrites the dates of a contact's payments in one transaction.
func (h *PaymentHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var in services.ReorderInput
	if !decode(w, r, &in) {
		return
	}
	n, err := h.payments.Reorder(r.Context(), in, actor(r.Context(), h.authz))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int{"updated": n})
}

func (h *PaymentHandler) Personnel(w http.ResponseWriter, r *http.Request) {
	names, err := h.payments.Personnel(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, names)
}
