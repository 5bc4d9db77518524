package mailer

import (
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/yatrafest/reghub/internal/domain/registration"
)

const confirmationSubject = "YATRA 2026 - Registration Confirmation"

var confirmationHTML = htmltemplate.Must(htmltemplate.New("confirmation_html").Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <title>YATRA 2026 Registration Confirmation</title>
  </head>
  <body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); padding: 40px 30px; text-align: center; border-radius: 10px 10px 0 0;">
      <h1 style="color: white; margin: 0; font-size: 36px;">YATRA 2026</h1>
      <p style="color: rgba(255,255,255,0.95); margin: 15px 0 0 0; font-size: 18px;">Registration Confirmation</p>
    </div>
    <div style="background: #ffffff; padding: 40px 30px; border-radius: 0 0 10px 10px;">
      <h2 style="color: #667eea; margin-top: 0;">Hello {{.Name}}!</h2>
      <p>Thank you for registering for <strong style="color: #667eea;">YATRA 2026</strong> - Rajalakshmi Institute of Technology's Cultural Festival!</p>
      <div style="background: #f9fafb; padding: 25px; border-radius: 8px; margin: 25px 0; border-left: 4px solid #667eea;">
        <h3 style="margin-top: 0;">Registration Details:</h3>
        <table style="width: 100%; border-collapse: collapse;">
          <tr><td style="padding: 10px 0; color: #666; width: 40%;">Name:</td><td style="padding: 10px 0;">{{.Name}}</td></tr>
          <tr><td style="padding: 10px 0; color: #666;">Email:</td><td style="padding: 10px 0;">{{.Email}}</td></tr>
          <tr><td style="padding: 10px 0; color: #666;">Phone:</td><td style="padding: 10px 0;">{{.Phone}}</td></tr>
          <tr><td style="padding: 10px 0; color: #666;">College:</td><td style="padding: 10px 0;">{{.College}}</td></tr>
          <tr><td style="padding: 10px 0; color: #666;">Ticket Type:</td><td style="padding: 10px 0;">{{.TicketType}}</td></tr>
          <tr><td style="padding: 10px 0; color: #666;">Price:</td><td style="padding: 10px 0; font-size: 20px; color: #667eea; font-weight: 700;">{{.Price}}</td></tr>
          {{if .IsRITStudent}}<tr><td style="padding: 10px 0; color: #666;">Student Status:</td><td style="padding: 10px 0; color: #10b981;">RIT Student Discount Applied</td></tr>{{end}}
        </table>
      </div>
      <p>We're excited to have you join us for this amazing cultural celebration!</p>
      <p>If you have any questions or need assistance, please don't hesitate to contact us.</p>
      <div style="margin-top: 40px; padding-top: 25px; border-top: 2px solid #e5e7eb; text-align: center; color: #666; font-size: 14px;">
        <p style="margin: 8px 0; font-weight: 600; color: #333;">Rajalakshmi Institute of Technology</p>
        <p style="margin: 8px 0;">YATRA 2026 Organizing Committee</p>
        <p style="margin: 8px 0; color: #999; font-size: 12px;">This is an automated confirmation email. Please do not reply.</p>
      </div>
    </div>
  </body>
</html>`))

var confirmationText = texttemplate.Must(texttemplate.New("confirmation_text").Parse(`YATRA 2026 - Registration Confirmation

Hello {{.Name}}!

Thank you for registering for YATRA 2026 - Rajalakshmi Institute of Technology's Cultural Festival!

Registration Details:
Name: {{.Name}}
Email: {{.Email}}
Phone: {{.Phone}}
College: {{.College}}
Ticket Type: {{.TicketType}}
Price: {{.Price}}
{{if .IsRITStudent}}Student Status: RIT Student Discount Applied
{{end}}
We're excited to have you join us for this amazing cultural celebration!

If you have any questions or need assistance, please don't hesitate to contact us.

---
Rajalakshmi Institute of Technology
YATRA 2026 Organizing Committee

This is an automated confirmation email. Please do not reply.`))

// ConfirmationMessage renders the registration-confirmation email for a
// stored record.
func ConfirmationMessage(reg registration.Registration) (*Message, error) {
	var html strings.Builder
	if err := confirmationHTML.Execute(&html, reg); err != nil {
		return nil, err
	}

	var text strings.Builder
	if err := confirmationText.Execute(&text, reg); err != nil {
		return nil, err
	}

	return &Message{
		FromName: "YATRA 2026",
		To:       reg.Email,
		Subject:  confirmationSubject,
		Text:     text.String(),
		HTML:     html.String(),
	}, nil
}
