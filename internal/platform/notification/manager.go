package notification

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultHistoryLimit = 10000

// NotificationManager routes notifications to the channel sender and keeps
// a bounded in-memory history for inspection and retry.
type NotificationManager struct {
	sender    Sender
	templates *TemplateEngine
	limit     int

	mu            sync.RWMutex
	notifications map[string]*Notification
	order         []string
}

// NewNotificationManager constructs a NotificationManager.
func NewNotificationManager(sender Sender, tpl *TemplateEngine) *NotificationManager {
	return &NotificationManager{
		sender:        sender,
		templates:     tpl,
		limit:         defaultHistoryLimit,
		notifications: make(map[string]*Notification),
	}
}

func (m *NotificationManager) deliver(ctx context.Context, n *Notification) error {
	switch n.Type {
	case TypeEmail:
		return m.sender.SendEmail(ctx, n.Recipient, n.Subject, n.Body)
	case TypeSMS:
		return m.sender.SendSMS(ctx, n.Recipient, n.Body)
	case TypeWhatsApp:
		return m.sender.SendWhatsApp(ctx, n.Recipient, n.Body)
	case TypeCall:
		return m.sender.PlaceCall(ctx, n.Recipient, n.Body)
	default:
		return fmt.Errorf("unsupported notification type: %s", n.Type)
	}
}

// Send dispatches a notification through its channel, assigns an ID and
// timestamps, and records the result.
func (m *NotificationManager) Send(ctx context.Context, n *Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.Recipient == "" {
		return fmt.Errorf("recipient is required")
	}
	n.CreatedAt = time.Now().UTC()
	n.Status = StatusPending

	sendErr := m.deliver(ctx, n)
	m.mu.Lock()
	n.Attempts++
	m.settle(n, sendErr)
	m.remember(n)
	m.mu.Unlock()

	return sendErr
}

// settle records the outcome of a delivery attempt. Callers hold m.mu.
func (m *NotificationManager) settle(n *Notification, err error) {
	if err != nil {
		n.Status = StatusFailed
		n.Error = err.Error()
		return
	}
	n.Status = StatusSent
	sentAt := time.Now().UTC()
	n.SentAt = &sentAt
	n.Error = ""
}

// remember stores a copy of n so callers never share the history entry.
func (m *NotificationManager) remember(n *Notification) {
	if _, ok := m.notifications[n.ID]; !ok {
		m.order = append(m.order, n.ID)
	}
	m.notifications[n.ID] = n.clone()
	for len(m.order) > m.limit {
		delete(m.notifications, m.order[0])
		m.order = m.order[1:]
	}
}

// SendFromTemplate renders a template and sends the result over channel.
func (m *NotificationManager) SendFromTemplate(ctx context.Context, templateID string, data map[string]string, channel NotificationType, recipient, priority string) (*Notification, error) {
	subject, body, err := m.templates.Render(templateID, data)
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	n := &Notification{
		Type:         channel,
		Recipient:    recipient,
		Subject:      subject,
		Body:         body,
		TemplateID:   templateID,
		TemplateData: data,
		Priority:     priority,
	}
	err = m.Send(ctx, n)
	return n, err
}

// GetNotification returns a snapshot of the notification with the given ID.
func (m *NotificationManager) GetNotification(_ context.Context, id string) (*Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.notifications[id]
	if !ok {
		return nil, fmt.Errorf("notification %q not found", id)
	}
	return n.clone(), nil
}

// ListByRecipient returns notifications for a given recipient, oldest
// first, up to limit.
func (m *NotificationManager) ListByRecipient(_ context.Context, recipient string, limit int) ([]*Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*Notification
	for _, id := range m.order {
		n := m.notifications[id]
		if n.Recipient == recipient {
			result = append(result, n.clone())
			if len(result) >= limit {
				break
			}
		}
	}
	return result, nil
}

// Retry re-sends a failed notification. Returns an error if the notification is
// not in "failed" status. The entry is marked retrying before delivery so a
// concurrent Retry of the same notification is rejected.
func (m *NotificationManager) Retry(ctx context.Context, id string) error {
	m.mu.Lock()
	n, ok := m.notifications[id]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("notification %q not found", id)
	}
	if n.Status != StatusFailed {
		status := n.Status
		m.mu.Unlock()
		return fmt.Errorf("notification %q is not in failed status (current: %s)", id, status)
	}
	n.Status = StatusRetrying
	snapshot := n.clone()
	m.mu.Unlock()

	sendErr := m.deliver(ctx, snapshot)

	m.mu.Lock()
	n.Attempts++
	m.settle(n, sendErr)
	m.mu.Unlock()

	return sendErr
}

// NotificationStats returns counts of notifications grouped by status.
func (m *NotificationManager) NotificationStats(_ context.Context) map[string]int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := make(map[string]int)
	for _, n := range m.notifications {
		stats[n.Status]++
	}
	return stats
}

func (n *Notification) clone() *Notification {
	cp := *n
	cp.TemplateData = maps.Clone(n.TemplateData)
	cp.Metadata = maps.Clone(n.Metadata)
	if n.SentAt != nil {
		sentAt := *n.SentAt
		cp.SentAt = &sentAt
	}
	return &cp
}
