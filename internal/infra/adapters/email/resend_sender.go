// File: internal/infra/adapters/email/resend_sender.go
package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"

	"propfirm-web/internal/domain/ports/adapter"
)

var _ adapter.EmailSender = (*ResendSender)(nil)

// ResendSender delivers mail through the Resend API. Batching and pacing live
// in the use case, so this adapter only ever sends one message at a time.
type ResendSender struct {
	client *resend.Client
	from   string
	log    *zerolog.Logger
}

func NewResendSender(apiKey, from string, logger *zerolog.Logger) (*ResendSender, error) {
	if apiKey == "" || from == "" {
		return nil, errors.New("resend sender needs api key and from address")
	}
	return &ResendSender{client: resend.NewClient(apiKey), from: from, log: logger}, nil
}

func (s *ResendSender) Send(ctx context.Context, params adapter.SendEmailParams) error {
	req := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{params.To},
		Subject: params.Subject,
		Html:    params.HTML,
	}
	sent, err := s.client.Emails.SendWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("resend send: %w", err)
	}
	s.log.Debug().Str("message_id", sent.Id).Str("to", params.To).Msg("email sent")
	return nil
}
