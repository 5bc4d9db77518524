package mailfn

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/yatrafest/reghub/internal/mailer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeSender struct {
	enabled bool
	err     error
	sent    []*mailer.Message
}

func (f *fakeSender) Enabled() bool { return f.enabled }

func (f *fakeSender) Send(ctx context.Context, msg *mailer.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validRecord() map[string]any {
	return map[string]any{
		"id":             "reg-1",
		"name":           "Asha Kumar",
		"email":          "asha@ritchennai.edu.in",
		"phone":          "9876543210",
		"college":        "Rajalakshmi Institute of Technology",
		"ticket_type":    "Early Bird",
		"price":          "₹500",
		"is_rit_student": true,
	}
}

func doSend(t *testing.T, sender *fakeSender, anonKey string, auth string, body any) *httptest.ResponseRecorder {
	t.Helper()

	h := NewHandler(sender, anonKey, discardLogger())
	r := NewRouter(h, discardLogger())

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/functions/v1/send-registration-email", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSendSuccess(t *testing.T) {
	sender := &fakeSender{enabled: true}

	w := doSend(t, sender, "anon-key", "Bearer anon-key", validRecord())

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Message string `json:"message"`
		To      string `json:"to"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.To != "asha@ritchennai.edu.in" {
		t.Fatalf("to = %q", resp.To)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sender.sent))
	}
	if sender.sent[0].To != "asha@ritchennai.edu.in" {
		t.Fatalf("message addressed to %q", sender.sent[0].To)
	}
}

func TestSendDisabledBranch(t *testing.T) {
	sender := &fakeSender{enabled: false}

	w := doSend(t, sender, "", "", validRecord())

	// disabled is a success-shaped outcome with no "to" field
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := resp["to"]; ok {
		t.Fatalf("disabled branch must not claim a delivery: %v", resp)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("disabled branch must not attempt a send")
	}
}

func TestSendSMTPFailure(t *testing.T) {
	sender := &fakeSender{enabled: true, err: errors.New("535 auth rejected")}

	w := doSend(t, sender, "", "", validRecord())

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error == "" || resp.Details == "" {
		t.Fatalf("failure body should carry error and details: %s", w.Body.String())
	}
}

func TestSendMissingFields(t *testing.T) {
	sender := &fakeSender{enabled: true}

	rec := validRecord()
	delete(rec, "email")

	w := doSend(t, sender, "", "", rec)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestSendRejectsBadAnonKey(t *testing.T) {
	sender := &fakeSender{enabled: true}

	w := doSend(t, sender, "anon-key", "Bearer wrong", validRecord())

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("unauthorized call must not send")
	}
}

func TestPreflight(t *testing.T) {
	h := NewHandler(&fakeSender{enabled: true}, "anon-key", discardLogger())
	r := NewRouter(h, discardLogger())

	req := httptest.NewRequest(http.MethodOptions, "/functions/v1/send-registration-email", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow-origin = %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got != "POST, OPTIONS" {
		t.Fatalf("allow-methods = %q", got)
	}
}
