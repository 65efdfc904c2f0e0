package utils

import (
	"context"
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type Mailer struct {
	client   *sendgrid.Client
	fromName string
	fromAddr string
}

func NewMailer(apiKey, fromName, fromAddr string) *Mailer {
	return &Mailer{
		client:   sendgrid.NewSendClient(apiKey),
		fromName: fromName,
		fromAddr: fromAddr,
	}
}

// SendResetEmail delivers the password-reset link. Delivery is awaited so a
// failure fails the request that triggered it.
func (m *Mailer) SendResetEmail(ctx context.Context, to, resetLink string) error {
	from := mail.NewEmail(m.fromName, m.fromAddr)
	subject := "Password Reset Request"
	recipient := mail.NewEmail("", to)

	plainTextContent := fmt.Sprintf(
		"Click the link below to reset your password. This link will expire in 1 hour.\n\n%s\n\nIf you didn't request this, please ignore this email.",
		resetLink)
	htmlContent := fmt.Sprintf(
		`<h2>Password Reset Request</h2><p>Click the link below to reset your password. This link will expire in 1 hour.</p><a href=%q>Reset Password</a><p>If you didn't request this, please ignore this email.</p>`,
		resetLink)

	message := mail.NewSingleEmail(from, subject, recipient, plainTextContent, htmlContent)
	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sending reset email: %w", err)
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf("reset email rejected with status %d: %s", response.StatusCode, response.Body)
	}

	log.Println("reset email sent to user:", to)
	return nil
}
