package handlers

import (
	"net/http"

	"github.com/diewo77/go-gestion/httpx"
	"github.com/diewo77/go-gestion/internal/models"
	"github.com/diewo77/go-gestion/internal/services"
)

type CompanyHandler struct {
	company *services.CompanyService
}

func NewCompanyHandler(company *services.CompanyService) *CompanyHandler {
	return &CompanyHandler{company: company}
}

// Get returns the letterhead settings; empty fields when none were saved.
func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.company.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

// Update saves the company settings.
func (h *CompanyHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in models.Company
	if !decode(w, r, &in) {
		return
	}
	c, err := h.company.Update(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}
