package mailfn

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yatrafest/reghub/internal/domain/registration"
	"github.com/yatrafest/reghub/internal/mailer"
)

// Sender is the slice of *mailer.Mailer the handler needs; tests swap in
// a fake.
type Sender interface {
	Enabled() bool
	Send(ctx context.Context, msg *mailer.Message) error
}

// Handler is the hosted-function surface: one POST endpoint that takes a
// stored registration record and sends the confirmation email.
type Handler struct {
	sender  Sender
	anonKey string
	log     *slog.Logger
}

func NewHandler(sender Sender, anonKey string, log *slog.Logger) *Handler {
	return &Handler{
		sender:  sender,
		anonKey: anonKey,
		log:     log,
	}
}

func (h *Handler) Send(ctx *gin.Context) {
	if !h.authorized(ctx) {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing authorization"})
		return
	}

	var reg registration.Registration

	if err := ctx.ShouldBindJSON(&reg); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if reg.Email == "" || reg.Name == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: email and name"})
		return
	}

	// credentials unset => valid disabled outcome, not an error
	if !h.sender.Enabled() {
		h.log.Info("mail credentials not set, logging registration instead",
			"registration_id", reg.ID,
			"email", reg.Email,
		)
		ctx.JSON(http.StatusOK, gin.H{
			"message":      "Email service not configured. Registration logged.",
			"registration": reg,
		})
		return
	}

	msg, err := mailer.ConfirmationMessage(reg)
	if err != nil {
		h.log.Error("render confirmation failed", "registration_id", reg.ID, "err", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to send confirmation email",
			"details": err.Error(),
		})
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx.Request.Context(), 25*time.Second)
	defer cancel()

	if err := h.sender.Send(sendCtx, msg); err != nil {
		h.log.Error("smtp send failed", "registration_id", reg.ID, "email", reg.Email, "err", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to send confirmation email",
			"details": err.Error(),
		})
		return
	}

	h.log.Info("confirmation email sent", "registration_id", reg.ID, "email", reg.Email)

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Confirmation email sent successfully",
		"to":      reg.Email,
	})
}

func (h *Handler) authorized(ctx *gin.Context) bool {
	// when no key is configured the endpoint is open (local dev)
	if h.anonKey == "" {
		return true
	}
	return ctx.GetHeader("Authorization") == "Bearer "+h.anonKey
}

// CORS answers preflights permissively: the function is called straight
// from the browser as well as from the API process.
func CORS() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Header("Access-Control-Allow-Origin", "*")
		ctx.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
		ctx.Header("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")

		if ctx.Request.Method == http.MethodOptions {
			ctx.AbortWithStatus(http.StatusNoContent)
			return
		}

		ctx.Next()
	}
}
