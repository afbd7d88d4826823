package handlers

import (
	"context"
	"net/http"

	"github.com/diewo77/go-gestion/httpx"
	"github.com/diewo77/go-gestion/internal/whatsapp"
)

// Messenger is the part of the WhatsApp gateway client the handlers use.
type Messenger interface {
	Configured() bool
	Status(ctx context.Context) (map[string]any, error)
	SendText(ctx context.Context, phone, text string) (map[string]any, error)
	SendMedia(ctx context.Context, msg whatsapp.MediaMessage) (map[string]any, error)
}

type WhatsAppHandler struct {
	client Messenger
}

func NewWhatsAppHandler(client Messenger) *WhatsAppHandler {
	return &WhatsAppHandler{client: client}
}

// Status reports {configured:false} without calling out when the gateway is unset.
func (h *WhatsAppHandler) Status(w http.ResponseWriter, r *http.Request) {
	if !h.client.Configured() {
		httpx.JSON(w, http.StatusOK, map[string]any{"configured": false})
		return
	}
	res, err := h.client.Status(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"configured": true, "status": res})
}

func (h *WhatsAppHandler) SendText(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Phone string `json:"phone"`
		Text  string `json:"text"`
	}
	if !decode(w, r, &body) {
		return
	}
	res, err := h.client.SendText(r.Context(), body.Phone, body.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

func (h *WhatsAppHandler) SendMedia(w http.ResponseWriter, r *http.Request) {
	var msg whatsapp.MediaMessage
	if !decode(w, r, &msg) {
		return
	}
	res, err := h.client.SendMedia(r.Context(), msg)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}
