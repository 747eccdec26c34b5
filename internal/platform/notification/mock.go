package notification

import (
	"context"
	"errors"
	"sync"
)

// SentMessage records a single delivery made through MockSender.
type SentMessage struct {
	Channel NotificationType
	To      string
	Subject string
	Body    string
}

// MockSender is a test double for Sender. FailChannels makes the listed
// channels return FailError.
type MockSender struct {
	mu           sync.Mutex
	calls        []SentMessage
	FailChannels map[NotificationType]bool
	FailError    string
}

func (m *MockSender) record(channel NotificationType, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, SentMessage{Channel: channel, To: to, Subject: subject, Body: body})
	if m.FailChannels[channel] {
		msg := m.FailError
		if msg == "" {
			msg = "mock delivery failure"
		}
		return errors.New(msg)
	}
	return nil
}

func (m *MockSender) SendEmail(_ context.Context, to, subject, body string) error {
	return m.record(TypeEmail, to, subject, body)
}

func (m *MockSender) SendSMS(_ context.Context, to, body string) error {
	return m.record(TypeSMS, to, "", body)
}

func (m *MockSender) SendWhatsApp(_ context.Context, to, body string) error {
	return m.record(TypeWhatsApp, to, "", body)
}

func (m *MockSender) PlaceCall(_ context.Context, to, message string) error {
	return m.record(TypeCall, to, "", message)
}

// Calls returns a copy of recorded deliveries.
func (m *MockSender) Calls() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMessage, len(m.calls))
	copy(out, m.calls)
	return out
}

// SetFail toggles failure for a channel.
func (m *MockSender) SetFail(channel NotificationType, fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailChannels == nil {
		m.FailChannels = make(map[NotificationType]bool)
	}
	m.FailChannels[channel] = fail
}
