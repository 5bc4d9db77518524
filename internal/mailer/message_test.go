package mailer

import (
	"strings"
	"testing"

	"github.com/yatrafest/reghub/internal/domain/registration"
)

func TestMessageBuild(t *testing.T) {
	msg := testMessage()
	body := string(msg.Build())

	if !strings.HasSuffix(body, "\r\n.\r\n") {
		t.Fatalf("body must end with the single-period terminator, got %q", body[len(body)-20:])
	}
	if msg.boundary == "" {
		t.Fatalf("boundary not generated")
	}
	if strings.Count(body, "--"+msg.boundary+"\r\n") != 2 {
		t.Fatalf("expected two part separators for boundary %q", msg.boundary)
	}
	if !strings.Contains(body, "--"+msg.boundary+"--") {
		t.Fatalf("missing closing boundary")
	}
	for _, want := range []string{
		"From: YATRA 2026 <noreply@yatra2026.com>",
		"To: asha@ritchennai.edu.in",
		"MIME-Version: 1.0",
		`Content-Type: multipart/alternative; boundary="` + msg.boundary + `"`,
		"Content-Type: text/plain; charset=utf-8",
		"Content-Type: text/html; charset=utf-8",
		"plain body",
		"<p>html body</p>",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q", want)
		}
	}
}

func TestMessageBoundaryUniquePerMessage(t *testing.T) {
	a, b := testMessage(), testMessage()
	a.Build()
	b.Build()

	if a.boundary == b.boundary {
		t.Fatalf("boundary must be unique per message")
	}
}

func TestDotStuffing(t *testing.T) {
	msg := testMessage()
	msg.Text = "line one\n.\nline three"
	body := string(msg.Build())

	if strings.Contains(body, "\r\n.\r\nline three") {
		t.Fatalf("bare period line inside body would terminate DATA early")
	}
	if !strings.Contains(body, "\r\n..\r\nline three") {
		t.Fatalf("period line should be dot-stuffed, got %q", body)
	}
}

func TestConfirmationMessage(t *testing.T) {
	reg := registration.Registration{
		ID:           "7b0c8e9a-0000-0000-0000-000000000000",
		Name:         "Asha Kumar",
		Email:        "asha@ritchennai.edu.in",
		Phone:        "9876543210",
		College:      "Rajalakshmi Institute of Technology",
		TicketType:   "Early Bird",
		Price:        "₹500",
		IsRITStudent: true,
	}

	msg, err := ConfirmationMessage(reg)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if msg.To != reg.Email {
		t.Fatalf("to = %q, want %q", msg.To, reg.Email)
	}
	if msg.Subject != "YATRA 2026 - Registration Confirmation" {
		t.Fatalf("unexpected subject %q", msg.Subject)
	}
	for _, want := range []string{"Asha Kumar", "₹500", "Early Bird", "RIT Student Discount Applied"} {
		if !strings.Contains(msg.HTML, want) {
			t.Fatalf("html missing %q", want)
		}
		if !strings.Contains(msg.Text, want) {
			t.Fatalf("text missing %q", want)
		}
	}
}

func TestConfirmationMessageOmitsDiscountRowForGeneral(t *testing.T) {
	reg := registration.Registration{
		Name: "Ravi", Email: "ravi@example.com", Phone: "9876543210",
		College: "Anna University", TicketType: "Event", Price: "₹800",
	}

	msg, err := ConfirmationMessage(reg)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(msg.Text, "Discount Applied") {
		t.Fatalf("general tier must not mention the student discount")
	}
}
