package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yatrafest/reghub/internal/config"
	"github.com/yatrafest/reghub/internal/domain/registration"
	"github.com/yatrafest/reghub/internal/policy"
	"github.com/yatrafest/reghub/internal/pricing"
)

type RegistrationStore interface {
	Create(ctx context.Context, reg registration.Registration) (registration.Registration, error)
}

// EmailGuard is an advisory duplicate check. The unique index on the
// registrations table is the arbiter; the guard only short-circuits the
// obvious repeats.
type EmailGuard interface {
	SeenRecently(ctx context.Context, email string) bool
	MarkRegistered(ctx context.Context, email string, ttl time.Duration) error
}

type ConfirmationDispatcher interface {
	Dispatch(reg registration.Registration)
}

type RegistrationHandler struct {
	repo       RegistrationStore
	guard      EmailGuard
	dispatcher ConfirmationDispatcher
	evaluator  *pricing.Evaluator
	inst       policy.Institution
}

func NewRegistrationHandler(
	repo RegistrationStore,
	guard EmailGuard,
	dispatcher ConfirmationDispatcher,
	evaluator *pricing.Evaluator,
	inst policy.Institution,
) *RegistrationHandler {
	return &RegistrationHandler{
		repo:       repo,
		guard:      guard,
		dispatcher: dispatcher,
		evaluator:  evaluator,
		inst:       inst,
	}
}

const duplicateEmailMessage = "This email is already registered for YATRA 2026."

func (h *RegistrationHandler) Register(ctx *gin.Context) {
	var req registration.CreateRegistrationRequest

	if !BindJSON(ctx, &req) {
		return
	}

	issues := req.Validate(h.inst)

	if len(issues) > 0 {
		RespondBadRequest(ctx, "Validation failed", gin.H{"fields": issues})
		return
	}

	email := policy.Normalize(req.Email)
	college := registration.TrimCollege(req.College)

	if h.guard != nil && h.guard.SeenRecently(ctx.Request.Context(), email) {
		RespondConflict(ctx, "duplicate_email", duplicateEmailMessage)
		return
	}

	quote := h.evaluator.Evaluate(email, college)
	reg := registration.NewFromCreateRequest(req, quote)

	cctx, cancel := config.WithTimeout(10 * time.Second)
	defer cancel()

	stored, err := h.repo.Create(cctx, reg)

	if err != nil {
		switch {
		case errors.Is(err, registration.ErrDuplicateEmail):
			RespondConflict(ctx, "duplicate_email", duplicateEmailMessage)
		case errors.Is(err, registration.ErrAuthorizationDenied):
			slog.ErrorContext(ctx.Request.Context(), "registration insert denied", "err", err)
			RespondError(ctx, http.StatusInternalServerError, "authorization_error",
				"Authorization error. Please refresh the page and try again.", nil)
		default:
			// the store's message stays server-side; the user gets generic copy
			slog.ErrorContext(ctx.Request.Context(), "registration insert failed", "err", err)
			RespondInternal(ctx, "Could not complete registration. Please try again.")
		}
		return
	}

	if h.guard != nil {
		// advisory only, a lost write just means one extra DB round trip
		_ = h.guard.MarkRegistered(cctx, stored.Email, 24*time.Hour)
	}

	// confirmation is fire and forget, the registration already succeeded
	if h.dispatcher != nil {
		h.dispatcher.Dispatch(stored)
	}

	ctx.JSON(http.StatusCreated, stored)
}
