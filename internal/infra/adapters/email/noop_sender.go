// File: internal/infra/adapters/email/noop_sender.go
package email

import (
	"context"

	"github.com/rs/zerolog"

	"propfirm-web/internal/domain/ports/adapter"
)

var _ adapter.EmailSender = (*NoopSender)(nil)

// NoopSender logs instead of sending. Used in dev mode so the console can be
// exercised without an API key.
type NoopSender struct {
	log *zerolog.Logger
}

func NewNoopSender(logger *zerolog.Logger) *NoopSender {
	return &NoopSender{log: logger}
}

func (s *NoopSender) Send(ctx context.Context, params adapter.SendEmailParams) error {
	s.log.Info().Str("to", params.To).Str("subject", params.Subject).Msg("noop email")
	return nil
}
