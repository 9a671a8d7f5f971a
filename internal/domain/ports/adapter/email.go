package adapter

import "context"

// SendEmailParams is one rendered message for one recipient.
type SendEmailParams struct {
	To      string
	Subject string
	HTML    string
}

// EmailSender is the port for the transactional email collaborator.
type EmailSender interface {
	Send(ctx context.Context, params SendEmailParams) error
}
