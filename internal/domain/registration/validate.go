package registration

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yatrafest/reghub/internal/policy"
)

// FieldIssue is a single field-level validation failure. The validator is
// pure and synchronous; it never touches the network.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var (
	emailShape = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	nonDigits  = regexp.MustCompile(`\D`)
	mobile     = regexp.MustCompile(`^[6-9]\d{9}$`)
)

// Validate applies the semantic rules on top of the structural binding
// tags: strict email grammar, the regional mobile numbering plan, and the
// institutional-email policy. Issues are field-scoped so the UI can attach
// them inline; the cross-field policy failure lands on the email field.
func (req CreateRegistrationRequest) Validate(inst policy.Institution) []FieldIssue {
	var issues []FieldIssue

	// characters, not bytes: non-ASCII names count per rune
	name := strings.TrimSpace(req.Name)
	if n := utf8.RuneCountInString(name); n < 2 || n > 50 {
		issues = append(issues, FieldIssue{
			Field:   "name",
			Message: "name must be between 2 and 50 characters",
		})
	}

	if !ValidEmail(req.Email) {
		issues = append(issues, FieldIssue{
			Field:   "email",
			Message: "invalid email format",
		})
	}

	if !ValidMobile(req.Phone) {
		issues = append(issues, FieldIssue{
			Field:   "phone",
			Message: "invalid mobile number",
		})
	}

	if TrimCollege(req.College) == "" {
		issues = append(issues, FieldIssue{
			Field:   "college",
			Message: "college is required",
		})
	}

	// institutional-email policy: students of the partner institution must
	// register with an institutional address
	if inst.MatchesCollege(req.College) && ValidEmail(req.Email) && !inst.MatchesEmail(req.Email) {
		issues = append(issues, FieldIssue{
			Field:   "email",
			Message: "students of this institution must use their institutional email address",
		})
	}

	return issues
}

// ValidEmail checks the strict local@domain.tld shape: the domain needs at
// least two dot-separated labels and a TLD of two or more characters.
func ValidEmail(email string) bool {
	email = strings.TrimSpace(email)

	if !emailShape.MatchString(email) {
		return false
	}

	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" {
		return false
	}

	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return false
	}

	for _, label := range labels {
		if label == "" {
			return false
		}
	}

	return len(labels[len(labels)-1]) >= 2
}

// ValidMobile strips everything non-numeric first, then requires exactly
// ten digits starting with 6, 7, 8 or 9.
func ValidMobile(phone string) bool {
	return mobile.MatchString(DigitsOnly(phone))
}

func DigitsOnly(phone string) string {
	return nonDigits.ReplaceAllString(phone, "")
}

func TrimCollege(college string) string {
	return strings.TrimSpace(college)
}
