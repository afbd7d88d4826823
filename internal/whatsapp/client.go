// Package whatsapp talks to the WhatsApp gateway service used to send
// statements and reminders to contacts.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/diewo77/go-gestion/internal/config"
)

const statusTimeout = 8 * time.Second

var (
	ErrNotConfigured = errors.New("whatsapp gateway not configured")
	ErrInvalid       = errors.New("invalid whatsapp message")
)

// Client calls the gateway. The zero timeout falls back to 20s.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// New builds a client from configuration. Quotes around values are stripped.
func New(cfg config.WhatsAppConfig) *Client {
	cfg = cfg.Trimmed()
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		BaseURL:    cfg.BaseURL,
		APIKey:     cfg.APIKey,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Configured() bool {
	return c != nil && c.BaseURL != "" && c.APIKey != ""
}

// Error is a non-2xx answer from the gateway.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// MediaMessage sends a document or image. Either MediaURL or Base64 is required.
type MediaMessage struct {
	Phone    string `json:"phone"`
	Caption  string `json:"caption,omitempty"`
	MediaURL string `json:"mediaUrl,omitempty"`
	Filename string `json:"filename,omitempty"`
	Mimetype string `json:"mimetype,omitempty"`
	Base64   string `json:"base64,omitempty"`
}

// Status reports the gateway session state as returned by the service.
func (c *Client) Status(ctx context.Context) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, statusTimeout)
	defer cancel()
	return c.do(ctx, http.MethodGet, "/status", nil)
}

func (c *Client) SendText(ctx context.Context, phone, text string) (map[string]any, error) {
	if phone == "" {
		return nil, fmt.Errorf("%w: phone requis", ErrInvalid)
	}
	if text == "" {
		return nil, fmt.Errorf("%w: text requis", ErrInvalid)
	}
	return c.do(ctx, http.MethodPost, "/send-text", map[string]string{"phone": phone, "text": text})
}

func (c *Client) SendMedia(ctx context.Context, msg MediaMessage) (map[string]any, error) {
	if msg.Phone == "" {
		return nil, fmt.Errorf("%w: phone requis", ErrInvalid)
	}
	if msg.MediaURL == "" && msg.Base64 == "" {
		return nil, fmt.Errorf("%w: mediaUrl ou base64 requis", ErrInvalid)
	}
	return c.do(ctx, http.MethodPost, "/send-media", msg)
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (map[string]any, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", c.APIKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whatsapp %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	out := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			out = map[string]any{"raw": string(raw)}
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := fmt.Sprintf("WHTSP service error (%d)", resp.StatusCode)
		for _, k := range []string{"error", "message"} {
			if s, ok := out[k].(string); ok && s != "" {
				msg = s
				break
			}
		}
		return nil, &Error{Status: resp.StatusCode, Message: msg}
	}
	return out, nil
}
