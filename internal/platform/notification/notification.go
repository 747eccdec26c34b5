// Package notification delivers care-team messages over voice, SMS,
// WhatsApp and email, with template rendering, in-memory history, retry
// logic, and Echo HTTP handlers for inspection.
package notification

import (
	"context"
	"time"
)

// NotificationType represents the channel used to deliver a notification.
type NotificationType string

const (
	TypeCall     NotificationType = "call"
	TypeSMS      NotificationType = "sms"
	TypeWhatsApp NotificationType = "whatsapp"
	TypeEmail    NotificationType = "email"
)

// ParseType maps a channel name to its NotificationType.
func ParseType(channel string) (NotificationType, bool) {
	switch t := NotificationType(channel); t {
	case TypeCall, TypeSMS, TypeWhatsApp, TypeEmail:
		return t, true
	}
	return "", false
}

const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"

	// StatusRetrying marks a failed notification whose retry is in flight.
	StatusRetrying = "retrying"
)

// Notification represents a single outbound notification.
type Notification struct {
	ID           string            `json:"id"`
	Type         NotificationType  `json:"type"`
	Recipient    string            `json:"recipient"`
	Subject      string            `json:"subject,omitempty"`
	Body         string            `json:"body"`
	TemplateID   string            `json:"template_id,omitempty"`
	TemplateData map[string]string `json:"template_data,omitempty"`
	Priority     string            `json:"priority"`
	Status       string            `json:"status"`
	Attempts     int               `json:"attempts"`
	CreatedAt    time.Time         `json:"created_at"`
	SentAt       *time.Time        `json:"sent_at,omitempty"`
	Error        string            `json:"error,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

type WhatsAppSender interface {
	SendWhatsApp(ctx context.Context, to, body string) error
}

// VoiceCaller places an automated call that reads message aloud.
type VoiceCaller interface {
	PlaceCall(ctx context.Context, to, message string) error
}

// Sender delivers every channel. GatewaySender and LogSender implement it.
type Sender interface {
	EmailSender
	SMSSender
	WhatsAppSender
	VoiceCaller
}
