package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yasaga2k/explore-with-me/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendRequestDecision sends the participation decision email using the
// "request_decision" template and the given data.
func (s *emailService) SendRequestDecision(ctx context.Context, data *domain.RequestDecisionEmailData) error {
	if data == nil {
		return fmt.Errorf("request decision data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("request_decision", data)
	if err != nil {
		return fmt.Errorf("failed to render request_decision template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send request decision email: %w", err)
	}
	s.logger.InfoContext(ctx, "request decision email sent", "to", data.Email, "status", data.Status)
	return nil
}
