package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yatrafest/reghub/internal/http/handlers"
	"github.com/yatrafest/reghub/internal/pricing"
)

func newTicketsRouter(now time.Time) *gin.Engine {
	deadline := time.Date(2026, 2, 15, 23, 59, 59, 0, time.UTC)
	h := handlers.NewTicketsHandler(testEvaluator(now), testPrices, deadline)

	r := gin.New()
	r.GET("/tickets", h.Catalog)
	r.GET("/tickets/quote", h.Quote)
	return r
}

func TestQuoteInstitutional(t *testing.T) {
	r := newTicketsRouter(afterDeadline())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tickets/quote?email=asha@ritchennai.edu.in&college=rit", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var quote pricing.Quote
	if err := json.Unmarshal(w.Body.Bytes(), &quote); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if quote.Tier != pricing.TierInstitutional || quote.Price != "₹500" {
		t.Fatalf("quote = %+v", quote)
	}
}

func TestQuoteGeneralEarlyBird(t *testing.T) {
	r := newTicketsRouter(beforeDeadline())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tickets/quote?email=ravi@gmail.com&college=Anna+University", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var quote pricing.Quote
	if err := json.Unmarshal(w.Body.Bytes(), &quote); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if quote.Tier != pricing.TierGeneral || quote.Price != "₹750" || !quote.EarlyBird {
		t.Fatalf("quote = %+v", quote)
	}
}

func TestQuoteRequiresValidEmail(t *testing.T) {
	r := newTicketsRouter(beforeDeadline())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tickets/quote?email=not-an-email", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestCatalogListsAllTiers(t *testing.T) {
	r := newTicketsRouter(beforeDeadline())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tickets", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Tickets []struct {
			Tier  string `json:"tier"`
			Name  string `json:"name"`
			Price string `json:"price"`
		} `json:"tickets"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Tickets) != 3 {
		t.Fatalf("got %d tiers, want 3", len(resp.Tickets))
	}
	if w.Header().Get("ETag") == "" {
		t.Fatalf("catalog should carry an ETag")
	}
}
