package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"

	"github.com/templui/ahorros/internal/model"
)

// ShareNotifier is told when someone gains access to a goal.
type ShareNotifier interface {
	ShareGranted(ctx context.Context, goal *model.Goal, grant model.ShareGrant) error
}

type EmailService struct {
	client    *resend.Client
	fromEmail string
	isDev     bool
	appURL    string
	appName   string
}

func NewEmailService(apiKey, fromEmail, appURL, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		isDev:     isDev,
		appURL:    appURL,
		appName:   appName,
	}
}

// ShareGranted emails the invitee a link to the app.
func (s *EmailService) ShareGranted(ctx context.Context, goal *model.Goal, grant model.ShareGrant) error {
	subject, body := shareInviteEmailTemplate(goal.Name, goal.OwnerEmail, grant.CanEdit, s.appURL, s.appName)
	return s.send(ctx, "share_invite", grant.Email, subject, body)
}

func (s *EmailService) send(ctx context.Context, kind, to, subject, body string) error {
	if s.isDev {
		slog.Info("email sent (dev mode)", "type", kind, "to", to, "subject", subject)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err == nil {
		slog.Info("email sent", "type", kind, "to", to)
	}
	return err
}
