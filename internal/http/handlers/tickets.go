package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yatrafest/reghub/internal/domain/registration"
	"github.com/yatrafest/reghub/internal/policy"
	"github.com/yatrafest/reghub/internal/pricing"
)

type TicketsHandler struct {
	evaluator *pricing.Evaluator
	prices    pricing.Prices
	deadline  time.Time
}

func NewTicketsHandler(evaluator *pricing.Evaluator, prices pricing.Prices, deadline time.Time) *TicketsHandler {
	return &TicketsHandler{
		evaluator: evaluator,
		prices:    prices,
		deadline:  deadline,
	}
}

// Catalog lists the ticket tiers so the registration page does not need
// the prices hardcoded.
func (h *TicketsHandler) Catalog(ctx *gin.Context) {
	RespondJSONWithETag(ctx, http.StatusOK, gin.H{
		"tickets": []gin.H{
			{
				"tier":  "general",
				"name":  "Standard",
				"price": h.prices.Standard,
			},
			{
				"tier":     "general",
				"name":     "Early Bird",
				"price":    h.prices.EarlyBird,
				"deadline": h.deadline.UTC(),
			},
			{
				"tier":  "institutional",
				"name":  "RIT Student",
				"price": h.prices.Institutional,
			},
		},
	})
}

// Quote prices a prospective registrant without writing anything.
func (h *TicketsHandler) Quote(ctx *gin.Context) {
	email := policy.Normalize(ctx.Query("email"))
	college := registration.TrimCollege(ctx.Query("college"))

	if email == "" || !registration.ValidEmail(email) {
		RespondBadRequest(ctx, "a valid email query parameter is required", nil)
		return
	}

	quote := h.evaluator.Evaluate(email, college)

	ctx.JSON(http.StatusOK, quote)
}
