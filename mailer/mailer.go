// Package mailer delivers the account emails. Delivery is best-effort: a
// failed send never fails the request that triggered it.
package mailer

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/Azi77ry/personal-App/logger"
)

type Mailer interface {
	SendVerification(toEmail, username, link string) error
}

// SendGridMailer sends through the SendGrid API.
type SendGridMailer struct {
	apiKey string
	sender string
}

func NewSendGridMailer(apiKey, sender string) *SendGridMailer {
	return &SendGridMailer{apiKey: apiKey, sender: sender}
}

func (m *SendGridMailer) SendVerification(toEmail, username, link string) error {
	from := mail.NewEmail("Money & Event Manager", m.sender)
	to := mail.NewEmail(username, toEmail)
	subject := "Verify Your Email Address"

	plain := fmt.Sprintf(
		"Hello %s,\n\nPlease open the link below to verify your email address:\n%s\n\nIf you didn't create an account with us, please ignore this email.",
		username, link)
	html := fmt.Sprintf(
		"<h2>Email Verification</h2><p>Hello %s,</p><p>Please click the link below to verify your email address:</p><p><a href=%q>%s</a></p><p>If you didn't create an account with us, please ignore this email.</p>",
		username, link, link)

	message := mail.NewSingleEmail(from, subject, to, plain, html)
	client := sendgrid.NewSendClient(m.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("send verification email: status %d", response.StatusCode)
	}
	return nil
}

// NoopMailer stands in when no SendGrid key is configured; it only logs the
// link so local setups can still complete verification by hand.
type NoopMailer struct{}

func (NoopMailer) SendVerification(toEmail, _, link string) error {
	logger.Get().Info("email delivery disabled, verification link not sent",
		zap.String("email", toEmail),
		zap.String("link", link))
	return nil
}
