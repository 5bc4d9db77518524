package pricing

import (
	"time"

	"github.com/yatrafest/reghub/internal/policy"
)

type Tier string

const (
	TierInstitutional Tier = "institutional"
	TierGeneral       Tier = "general"
)

// Prices holds the formatted currency strings shown to registrants. They
// are configuration, not invariants.
type Prices struct {
	Standard      string
	EarlyBird     string
	Institutional string
}

type Quote struct {
	Tier  Tier   `json:"tier"`
	Price string `json:"price"`
	// true while the promotional window still applies to general registrants
	EarlyBird bool `json:"earlyBird"`
}

// Evaluator computes the tier and price for a registrant. It is pure: the
// clock is injected so the promotional-window cutoff can be tested against
// fixed times.
type Evaluator struct {
	inst     policy.Institution
	prices   Prices
	deadline time.Time
	now      func() time.Time
}

func NewEvaluator(inst policy.Institution, prices Prices, deadline time.Time, now func() time.Time) *Evaluator {
	if now == nil {
		now = time.Now
	}

	return &Evaluator{
		inst:     inst,
		prices:   prices,
		deadline: deadline,
		now:      now,
	}
}

// Evaluate returns the quote for a normalized (email, college) pair.
// Institutional tier requires both the college and the email to match the
// institution; the institutional price ignores the promotional window.
func (e *Evaluator) Evaluate(email, college string) Quote {
	if e.inst.MatchesEmail(email) && e.inst.MatchesCollege(college) {
		return Quote{Tier: TierInstitutional, Price: e.prices.Institutional}
	}

	if e.now().Before(e.deadline) {
		return Quote{Tier: TierGeneral, Price: e.prices.EarlyBird, EarlyBird: true}
	}

	return Quote{Tier: TierGeneral, Price: e.prices.Standard}
}
