package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yatrafest/reghub/internal/cache"
	"github.com/yatrafest/reghub/internal/config"
)

type RegistrationCounter interface {
	Count(ctx context.Context) (int, error)
	CountByTicketType(ctx context.Context) (map[string]int, error)
}

type StatsHandler struct {
	repo  RegistrationCounter
	cache *cache.Cache
}

func NewStatsHandler(repo RegistrationCounter, c *cache.Cache) *StatsHandler {
	return &StatsHandler{repo: repo, cache: c}
}

const statsCacheKey = "stats:registrations"

// Stats is a public endpoint, so the counts are served from a short TTL
// cache rather than hitting Postgres on every page load.
func (h *StatsHandler) Stats(ctx *gin.Context) {
	if h.cache != nil {
		if v, ok := h.cache.Get(statsCacheKey); ok {
			RespondJSONWithETag(ctx, http.StatusOK, v)
			return
		}
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	total, err := h.repo.Count(cctx)
	if err != nil {
		RespondInternal(ctx, "Could not load registration stats")
		return
	}

	byTicket, err := h.repo.CountByTicketType(cctx)
	if err != nil {
		RespondInternal(ctx, "Could not load registration stats")
		return
	}

	payload := gin.H{
		"total":        total,
		"byTicketType": byTicket,
		"generatedAt":  time.Now().UTC(),
	}

	if h.cache != nil {
		h.cache.Set(statsCacheKey, payload)
	}

	RespondJSONWithETag(ctx, http.StatusOK, payload)
}
