package handlers

import (
	"context"
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yatrafest/reghub/internal/config"
	"github.com/yatrafest/reghub/internal/domain/registration"
	"github.com/yatrafest/reghub/internal/utils"
)

type RegistrationLister interface {
	ListCursor(ctx context.Context, limit int, afterCreatedAt time.Time, afterID string) (items []registration.Registration, nextCursor *string, hasMore bool, err error)
	ListAll(ctx context.Context) ([]registration.Registration, error)
}

type AdminRegistrationsHandler struct {
	repo RegistrationLister
}

func NewAdminRegistrationsHandler(repo RegistrationLister) *AdminRegistrationsHandler {
	return &AdminRegistrationsHandler{repo: repo}
}

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

func (h *AdminRegistrationsHandler) List(ctx *gin.Context) {
	limit := defaultPageLimit

	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			RespondBadRequest(ctx, "limit must be a positive integer", nil)
			return
		}
		if n > maxPageLimit {
			n = maxPageLimit
		}
		limit = n
	}

	var afterCreatedAt time.Time
	var afterID string

	if raw := ctx.Query("cursor"); raw != "" {
		cur, err := utils.DecodeRegistrationCursor(raw)
		if err != nil {
			RespondBadRequest(ctx, "invalid cursor", nil)
			return
		}
		afterCreatedAt = cur.CreatedAt
		afterID = cur.ID
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	items, nextCursor, hasMore, err := h.repo.ListCursor(cctx, limit, afterCreatedAt, afterID)
	if err != nil {
		RespondInternal(ctx, "Could not list registrations")
		return
	}

	resp := gin.H{
		"registrations": items,
		"count":         len(items),
		"hasMore":       hasMore,
	}
	if nextCursor != nil {
		resp["nextCursor"] = *nextCursor
	}

	ctx.JSON(http.StatusOK, resp)
}

// Export streams every registration as CSV for the organizing desk.
func (h *AdminRegistrationsHandler) Export(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(30 * time.Second)
	defer cancel()

	regs, err := h.repo.ListAll(cctx)
	if err != nil {
		RespondInternal(ctx, "Could not export registrations")
		return
	}

	filename := "registrations-" + time.Now().UTC().Format("20060102-150405") + ".csv"

	ctx.Header("Content-Type", "text/csv; charset=utf-8")
	ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	ctx.Status(http.StatusOK)

	w := csv.NewWriter(ctx.Writer)

	_ = w.Write([]string{"id", "name", "email", "phone", "college", "ticket_type", "price", "is_rit_student", "created_at"})

	for _, r := range regs {
		_ = w.Write([]string{
			r.ID,
			r.Name,
			r.Email,
			r.Phone,
			r.College,
			r.TicketType,
			r.Price,
			strconv.FormatBool(r.IsRITStudent),
			r.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	w.Flush()
}
