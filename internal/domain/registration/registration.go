package registration

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/yatrafest/reghub/internal/policy"
	"github.com/yatrafest/reghub/internal/pricing"
)

// Registration is the stored record. JSON tags are snake_case because the
// record itself is the wire body of the confirmation-email trigger; the
// mail function consumes it exactly as stored.
type Registration struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	College      string    `json:"college"`
	TicketType   string    `json:"ticket_type"`
	Price        string    `json:"price"`
	IsRITStudent bool      `json:"is_rit_student"`
	CreatedAt    time.Time `json:"created_at"`
}

var (
	// the store reported a uniqueness violation on email
	ErrDuplicateEmail = errors.New("email already registered")
	// the store rejected the write on access policy grounds
	ErrAuthorizationDenied = errors.New("authorization denied")
	ErrNotFound            = errors.New("registration not found")
)

type CreateRegistrationRequest struct {
	Name       string `json:"name" binding:"required,min=2,max=50"`
	Email      string `json:"email" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	College    string `json:"college" binding:"required"`
	TicketType string `json:"ticketType"`
}

// NewFromCreateRequest builds the record from a validated request plus the
// server-computed quote. Fields are normalized here so the uniqueness
// constraint and the policy checks always see the same shape.
func NewFromCreateRequest(req CreateRegistrationRequest, quote pricing.Quote) Registration {
	ticket := req.TicketType
	if ticket == "" {
		ticket = "Early Bird"
	}

	return Registration{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        policy.Normalize(req.Email),
		Phone:        DigitsOnly(req.Phone),
		College:      TrimCollege(req.College),
		TicketType:   ticket,
		Price:        quote.Price,
		IsRITStudent: quote.Tier == pricing.TierInstitutional,
		CreatedAt:    time.Now().UTC(),
	}
}
