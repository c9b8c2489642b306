package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders a named email template with the given data
// into a subject plus HTML and plain-text bodies.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// RequestDecisionEmailData holds data for the participation decision email
// sent to a requester after the initiator moderates their request.
type RequestDecisionEmailData struct {
	Email      string
	EventTitle string
	Status     RequestStatus
}

// EmailService defines the contract for sending domain-level emails. All
// sends are best-effort; callers log failures and move on.
type EmailService interface {
	SendRequestDecision(ctx context.Context, data *RequestDecisionEmailData) error
}
