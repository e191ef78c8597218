package service

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"fortivault/config"
	"fortivault/pkg/logger"
)

// EmailService delivers transactional mail to submitters.
type EmailService interface {
	SendOTP(ctx context.Context, email, code, caseID string) error
	SendCaseConfirmation(ctx context.Context, email, caseID string) error
}

type resendEmailService struct {
	client *resend.Client
	from   string
	logger *logger.Logger
}

// NewEmailService creates the Resend-backed mailer. Outside production, a
// missing API key falls back to a logger-only mailer so local development
// works without a mailbox.
func NewEmailService(cfg *config.Config, log *logger.Logger) EmailService {
	if cfg.Email.ResendAPIKey == "" && !cfg.IsProduction() {
		log.Warnw("RESEND_API_KEY not configured, emails will be logged instead of sent")
		return &logEmailService{logger: log}
	}

	return &resendEmailService{
		client: resend.NewClient(cfg.Email.ResendAPIKey),
		from:   fmt.Sprintf("%s <%s>", cfg.Email.FromName, cfg.Email.FromAddress),
		logger: log,
	}
}

// SendOTP mails the verification code for a case.
func (s *resendEmailService) SendOTP(ctx context.Context, email, code, caseID string) error {
	html := fmt.Sprintf(`
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
		<h1 style="color: #1e3a8a;">Email Verification Required</h1>
		<p>Thank you for submitting your fraud report. To proceed with your case, please verify your email address.</p>
		<div style="border: 2px dashed #059669; border-radius: 8px; padding: 20px; text-align: center; margin: 20px 0;">
			<p style="color: #64748b; margin-bottom: 10px;">Your Verification Code:</p>
			<h2 style="font-size: 32px; letter-spacing: 8px; font-family: monospace; margin: 0;">%s</h2>
		</div>
		<p style="color: #64748b;"><strong>Case ID:</strong> %s<br><strong>Valid for:</strong> 10 minutes</p>
		<p style="color: #92400e;"><strong>Security Notice:</strong> Never share this code with anyone. Our team will never ask for this code via phone or email.</p>
	</div>`, code, caseID)

	return s.send(ctx, email, "Verify Your Email - Fortivault", html)
}

// SendCaseConfirmation mails the case reference after a successful submission.
func (s *resendEmailService) SendCaseConfirmation(ctx context.Context, email, caseID string) error {
	html := fmt.Sprintf(`
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
		<h1 style="color: #1e3a8a;">Fraud Report Confirmation</h1>
		<p>We have received your fraud report and it is now in our system for processing.</p>
		<div style="border: 1px solid #e2e8f0; border-radius: 8px; padding: 20px; margin: 20px 0;">
			<p style="margin: 5px 0;"><strong>Case Reference Number:</strong></p>
			<p style="font-size: 18px; font-family: monospace; color: #059669; font-weight: bold;">%s</p>
			<p style="color: #64748b; font-size: 13px;">Please save this number for your records. You'll need it if you need to follow up on your case.</p>
		</div>
		<p>Our recovery specialists will review your case within 24 hours. You'll receive updates via email as your case progresses.</p>
	</div>`, caseID)

	return s.send(ctx, email, "Fraud Report Received - Fortivault", html)
}

func (s *resendEmailService) send(ctx context.Context, to, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infow("Email dispatched", "to", to, "subject", subject, "message_id", sent.Id)
	return nil
}

// logEmailService writes mail to the log. Development-only stand-in.
type logEmailService struct {
	logger *logger.Logger
}

func (s *logEmailService) SendOTP(_ context.Context, email, code, caseID string) error {
	s.logger.Infow("Would send OTP email", "to", email, "code", code, "case_id", caseID)
	return nil
}

func (s *logEmailService) SendCaseConfirmation(_ context.Context, email, caseID string) error {
	s.logger.Infow("Would send confirmation email", "to", email, "case_id", caseID)
	return nil
}
