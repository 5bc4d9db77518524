package mailer

import (
	"strings"

	"github.com/google/uuid"
)

// Message is one outbound email: a multipart/alternative MIME body with a
// plaintext part and an HTML part.
type Message struct {
	From     string
	FromName string
	To       string
	Subject  string
	Text     string
	HTML     string

	// boundary is generated lazily; unique per message
	boundary string
}

// Build renders the full DATA payload, terminated by the
// single-period line.
func (m *Message) Build() []byte {
	if m.boundary == "" {
		m.boundary = "----=_Part_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	}

	lines := []string{
		"From: " + m.FromName + " <" + m.From + ">",
		"To: " + m.To,
		"Subject: " + m.Subject,
		"MIME-Version: 1.0",
		`Content-Type: multipart/alternative; boundary="` + m.boundary + `"`,
		"",
		"--" + m.boundary,
		"Content-Type: text/plain; charset=utf-8",
		"Content-Transfer-Encoding: 7bit",
		"",
		dotStuff(m.Text),
		"",
		"--" + m.boundary,
		"Content-Type: text/html; charset=utf-8",
		"Content-Transfer-Encoding: 7bit",
		"",
		dotStuff(m.HTML),
		"",
		"--" + m.boundary + "--",
		".",
		"",
	}

	return []byte(strings.Join(lines, "\r\n"))
}

// dotStuff escapes leading periods inside the body so a content line can
// never terminate the DATA section early.
func dotStuff(body string) string {
	body = strings.ReplaceAll(body, "\n", "\r\n")
	body = strings.ReplaceAll(body, "\r\r\n", "\r\n")

	if strings.HasPrefix(body, ".") {
		body = "." + body
	}

	return strings.ReplaceAll(body, "\r\n.", "\r\n..")
}
