package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yatrafest/reghub/internal/domain/registration"
	"github.com/yatrafest/reghub/internal/http/handlers"
	"github.com/yatrafest/reghub/internal/utils"
)

type fakeLister struct {
	items      []registration.Registration
	nextCursor *string
	hasMore    bool
	err        error

	gotLimit   int
	gotAfterID string
}

func (f *fakeLister) ListCursor(ctx context.Context, limit int, afterCreatedAt time.Time, afterID string) ([]registration.Registration, *string, bool, error) {
	f.gotLimit = limit
	f.gotAfterID = afterID
	return f.items, f.nextCursor, f.hasMore, f.err
}

func (f *fakeLister) ListAll(ctx context.Context) ([]registration.Registration, error) {
	return f.items, f.err
}

func sampleRegistration() registration.Registration {
	return registration.Registration{
		ID:           "5c0f9a2e-7a70-4a3c-9a44-1f5a2b3c4d5e",
		Name:         "Asha Kumar",
		Email:        "asha@cse.ritchennai.edu.in",
		Phone:        "9876543210",
		College:      "rajalakshmi institute of technology",
		TicketType:   "Early Bird",
		Price:        "₹500",
		IsRITStudent: true,
		CreatedAt:    time.Date(2026, 1, 10, 9, 30, 0, 0, time.UTC),
	}
}

func newAdminRouter(repo *fakeLister) *gin.Engine {
	h := handlers.NewAdminRegistrationsHandler(repo)

	r := gin.New()
	r.GET("/admin/registrations", h.List)
	r.GET("/admin/registrations/export", h.Export)
	return r
}

func TestAdminListDefaults(t *testing.T) {
	cursor := "next-cursor"
	repo := &fakeLister{
		items:      []registration.Registration{sampleRegistration()},
		nextCursor: &cursor,
		hasMore:    true,
	}

	r := newAdminRouter(repo)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/registrations", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if repo.gotLimit != 50 {
		t.Fatalf("default limit = %d, want 50", repo.gotLimit)
	}

	var resp struct {
		Count      int    `json:"count"`
		HasMore    bool   `json:"hasMore"`
		NextCursor string `json:"nextCursor"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 1 || !resp.HasMore || resp.NextCursor != cursor {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestAdminListDecodesCursor(t *testing.T) {
	repo := &fakeLister{}
	r := newAdminRouter(repo)

	cur, err := utils.EncodeRegistrationCursor(time.Date(2026, 1, 10, 9, 30, 0, 0, time.UTC), "abc-123")
	if err != nil {
		t.Fatalf("encode cursor: %v", err)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/registrations?cursor="+cur+"&limit=10", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if repo.gotAfterID != "abc-123" {
		t.Fatalf("afterID = %q", repo.gotAfterID)
	}
	if repo.gotLimit != 10 {
		t.Fatalf("limit = %d", repo.gotLimit)
	}
}

func TestAdminListRejectsBadCursor(t *testing.T) {
	r := newAdminRouter(&fakeLister{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/registrations?cursor=%21%21not-base64", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestAdminListCapsLimit(t *testing.T) {
	repo := &fakeLister{}
	r := newAdminRouter(repo)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/registrations?limit=10000", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if repo.gotLimit != 200 {
		t.Fatalf("limit = %d, want cap of 200", repo.gotLimit)
	}
}

func TestAdminExportCSV(t *testing.T) {
	repo := &fakeLister{items: []registration.Registration{sampleRegistration()}}
	r := newAdminRouter(repo)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/registrations/export", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Fatalf("content disposition = %q", cd)
	}

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header plus one row:\n%s", len(lines), w.Body.String())
	}
	if !strings.HasPrefix(lines[0], "id,name,email") {
		t.Fatalf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "asha@cse.ritchennai.edu.in") {
		t.Fatalf("row = %q", lines[1])
	}
}
