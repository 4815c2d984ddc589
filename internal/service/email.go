package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"bibliotec-gateway/internal/config"
	"bibliotec-gateway/internal/logger"
)

// emailService sends loan reminder notices through SendGrid. When no API key
// is configured the sends are logged and skipped so development environments
// work without an account.
type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(cfg config.EmailConfig) EmailService {
	return &emailService{
		apiKey:    cfg.SendGridAPIKey,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
	}
}

func (s *emailService) SendDueSoonReminder(ctx context.Context, email, name, bookTitle string, dueDate time.Time) error {
	subject := fmt.Sprintf("Reminder: %s is due soon", bookTitle)
	plainText := fmt.Sprintf("Hi %s, your loan of %s is due on %s. Return or renew it to avoid fines.",
		name, bookTitle, dueDate.Format("02 Jan 2006"))
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Loan due soon</h2>
				<p>Hi %s,</p>
				<p>Your loan of <strong>%s</strong> is due on <strong>%s</strong>.</p>
				<p>Return or renew it to avoid fines.</p>
			</body>
		</html>
	`, name, bookTitle, dueDate.Format("02 Jan 2006"))

	return s.send(ctx, email, name, subject, plainText, htmlContent)
}

func (s *emailService) SendOverdueNotice(ctx context.Context, email, name, bookTitle string, overdueDays, fineAmount int) error {
	subject := fmt.Sprintf("Overdue: %s", bookTitle)
	plainText := fmt.Sprintf("Hi %s, your loan of %s is %d day(s) overdue. The current fine is %d. Please return it as soon as possible.",
		name, bookTitle, overdueDays, fineAmount)
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Overdue loan</h2>
				<p>Hi %s,</p>
				<p>Your loan of <strong>%s</strong> is <strong>%d day(s)</strong> overdue.</p>
				<p>The current fine is <strong>%d</strong>. Please return the book as soon as possible.</p>
			</body>
		</html>
	`, name, bookTitle, overdueDays, fineAmount)

	return s.send(ctx, email, name, subject, plainText, htmlContent)
}

func (s *emailService) send(ctx context.Context, to, toName, subject, plainText, htmlContent string) error {
	if s.apiKey == "" {
		logger.Info("email sending disabled, skipping", "to", to, "subject", subject)
		return nil
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}

	logger.Debug("email sent", "to", to, "subject", subject)
	return nil
}
