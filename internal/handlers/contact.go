package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/diewo77/go-gestion/httpx"
	"github.com/diewo77/go-gestion/i18n"
	"github.com/diewo77/go-gestion/internal/ledger"
	"github.com/diewo77/go-gestion/internal/listing"
	"github.com/diewo77/go-gestion/internal/services"
	"github.com/diewo77/go-gestion/internal/statement"
	"github.com/diewo77/go-gestion/view"
)

type ContactHandler struct {
	contacts *services.ContactService
	company  *services.CompanyService
	loc      *time.Location
}

func NewContactHandler(contacts *services.ContactService, company *services.CompanyService, loc *time.Location) *ContactHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ContactHandler{contacts: contacts, company: company, loc: loc}
}

// List supports ?type=&search=&sort=&dir=&overdue_first=1&archived=1&page=&limit=.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, limit := listing.PageParams(q, 0)
	overdueFirst, _ := strconv.ParseBool(q.Get("overdue_first"))
	archived, _ := strconv.ParseBool(q.Get("archived"))
	res, err := h.contacts.List(r.Context(), services.ContactFilter{
		Type:            q.Get("type"),
		Search:          queryFirst(q, "search", "q"),
		Sort:            q.Get("sort"),
		Dir:             q.Get("dir"),
		OverdueFirst:    overdueFirst,
		IncludeArchived: archived,
		Page:            page,
		Limit:           limit,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

func (h *ContactHandler) Overdue(w http.ResponseWriter, r *http.Request) {
	res, err := h.contacts.Overdue(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badID(w)
		return
	}
	c, err := h.contacts.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.ContactInput
	if !decode(w, r, &in) {
		return
	}
	c, err := h.contacts.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badID(w)
		return
	}
	var in services.ContactInput
	if !decode(w, r, &in) {
		return
	}
	c, err := h.contacts.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badID(w)
		return
	}
	if err := h.contacts.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// statementFor reads ?date_from=&date_to=&search= and builds the statement of {id}.
func (h *ContactHandler) statementFor(w http.ResponseWriter, r *http.Request) (ledger.Statement, bool) {
	id, ok := pathID(r, "id")
	if !ok {
		badID(w)
		return ledger.Statement{}, false
	}
	q := r.URL.Query()
	period, err := ledger.NewPeriod(queryFirst(q, "date_from", "from"), queryFirst(q, "date_to", "to"), h.loc)
	if err != nil {
		httpx.JSONMessage(w, http.StatusBadRequest, "invalid_date", i18n.T(i18n.LangFrom(r.Context()), "invalid_date"))
		return ledger.Statement{}, false
	}
	st, err := h.contacts.Statement(r.Context(), id, ledger.Options{Period: period, Search: queryFirst(q, "search", "q")})
	if err != nil {
		writeError(w, r, err)
		return ledger.Statement{}, false
	}
	return st, true
}

// Ledger returns the statement rows with their running balance.
func (h *ContactHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	st, ok := h.statementFor(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, st)
}

// Statement renders the printable statement, as PDF with ?format=pdf.
func (h *ContactHandler) Statement(w http.ResponseWriter, r *http.Request) {
	st, ok := h.statementFor(w, r)
	if !ok {
		return
	}
	company, err := h.company.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	doc := statement.Document{
		Company:   company,
		Statement: st,
		Lang:      i18n.LangFrom(r.Context()),
		PrintedAt: time.Now().In(h.loc),
	}
	if r.URL.Query().Get("format") == "pdf" {
		pdf, err := statement.PDF(doc)
		if err != nil {
			writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=releve-%d.pdf", st.Contact.ID))
		_, _ = w.Write(pdf)
		return
	}
	err = view.Render(w, r, "statement.html", map[string]any{
		"Title":     statement.Title(doc),
		"Period":    statement.PeriodLabel(st),
		"Company":   company,
		"Statement": st,
		"PrintedAt": doc.PrintedAt,
	})
	if err != nil {
		http.Error(w, "Failed to render template: "+err.Error(), http.StatusInternalServerError)
	}
}
