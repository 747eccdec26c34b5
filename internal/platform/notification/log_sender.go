package notification

import (
	"context"

	"github.com/rs/zerolog"
)

// LogSender writes notifications to the log instead of delivering them.
// It is used in development and when no gateway is configured.
type LogSender struct {
	logger zerolog.Logger
}

func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{logger: logger.With().Str("component", "notification").Logger()}
}

func (s *LogSender) log(channel NotificationType, to, subject, body string) {
	s.logger.Info().
		Str("channel", string(channel)).
		Str("to", to).
		Str("subject", subject).
		Str("body", body).
		Msg("notification not delivered: log sender")
}

func (s *LogSender) SendEmail(_ context.Context, to, subject, body string) error {
	s.log(TypeEmail, to, subject, body)
	return nil
}

func (s *LogSender) SendSMS(_ context.Context, to, body string) error {
	s.log(TypeSMS, to, "", body)
	return nil
}

func (s *LogSender) SendWhatsApp(_ context.Context, to, body string) error {
	s.log(TypeWhatsApp, to, "", body)
	return nil
}

func (s *LogSender) PlaceCall(_ context.Context, to, message string) error {
	s.log(TypeCall, to, "", message)
	return nil
}
