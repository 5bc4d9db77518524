package pricing

import (
	"testing"
	"time"

	"github.com/yatrafest/reghub/internal/policy"
)

var testPrices = Prices{
	Standard:      "₹800",
	EarlyBird:     "₹750",
	Institutional: "₹500",
}

func testInstitution() policy.Institution {
	return policy.Institution{
		Name:        "rajalakshmi institute of technology",
		Aliases:     []string{"rit", "rit chennai"},
		Substrings:  []string{"rajalakshmi", "technology"},
		Domain:      "ritchennai.edu.in",
		Departments: []string{"csbs", "cse", "aiml", "aids", "bio", "cce", "mech", "vlsi"},
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestEvaluate(t *testing.T) {
	deadline := time.Date(2026, time.February, 15, 23, 59, 59, 0, time.UTC)
	beforeCutoff := deadline.Add(-24 * time.Hour)
	afterCutoff := deadline.Add(24 * time.Hour)

	tests := []struct {
		name    string
		email   string
		college string
		at      time.Time
		want    Quote
	}{
		{
			name:    "institutional before cutoff",
			email:   "asha@ritchennai.edu.in",
			college: "Rajalakshmi Institute of Technology",
			at:      beforeCutoff,
			want:    Quote{Tier: TierInstitutional, Price: "₹500"},
		},
		{
			name:    "institutional price ignores window",
			email:   "asha@cse.ritchennai.edu.in",
			college: "rit",
			at:      afterCutoff,
			want:    Quote{Tier: TierInstitutional, Price: "₹500"},
		},
		{
			name:    "institutional email alone is not enough",
			email:   "asha@ritchennai.edu.in",
			college: "Anna University",
			at:      beforeCutoff,
			want:    Quote{Tier: TierGeneral, Price: "₹750", EarlyBird: true},
		},
		{
			name:    "institutional college alone is not enough",
			email:   "asha@gmail.com",
			college: "rit chennai",
			at:      beforeCutoff,
			want:    Quote{Tier: TierGeneral, Price: "₹750", EarlyBird: true},
		},
		{
			name:    "general inside promo window",
			email:   "ravi@example.com",
			college: "Anna University",
			at:      beforeCutoff,
			want:    Quote{Tier: TierGeneral, Price: "₹750", EarlyBird: true},
		},
		{
			name:    "general after promo window",
			email:   "ravi@example.com",
			college: "Anna University",
			at:      afterCutoff,
			want:    Quote{Tier: TierGeneral, Price: "₹800"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := NewEvaluator(testInstitution(), testPrices, deadline, fixedClock(tt.at))

			got := ev.Evaluate(tt.email, tt.college)

			if got != tt.want {
				t.Fatalf("Evaluate(%q, %q) = %+v, want %+v", tt.email, tt.college, got, tt.want)
			}
		})
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	deadline := time.Date(2026, time.February, 15, 23, 59, 59, 0, time.UTC)
	ev := NewEvaluator(testInstitution(), testPrices, deadline, fixedClock(deadline.Add(-time.Hour)))

	first := ev.Evaluate("asha@ritchennai.edu.in", "rit")

	for i := 0; i < 10; i++ {
		if got := ev.Evaluate("asha@ritchennai.edu.in", "rit"); got != first {
			t.Fatalf("evaluate is not deterministic: %+v vs %+v", got, first)
		}
	}
}
