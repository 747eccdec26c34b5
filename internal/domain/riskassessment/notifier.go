package riskassessment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/carebridge/riskengine/internal/platform/notification"
)

// Dispatcher sends a rendered template over one channel.
// *notification.NotificationManager satisfies it.
type Dispatcher interface {
	SendFromTemplate(ctx context.Context, templateID string, data map[string]string, channel notification.NotificationType, recipient, priority string) (*notification.Notification, error)
}

// CareTeam holds the on-call recipients. Phone receives call, SMS and
// WhatsApp; Email receives email.
type CareTeam struct {
	Phone string
	Email string
}

// AlertNotifier pages the care team for every emergency alert over the
// channels chosen by the escalation protocol.
type AlertNotifier struct {
	dispatcher Dispatcher
	team       CareTeam
}

func NewAlertNotifier(d Dispatcher, team CareTeam) *AlertNotifier {
	return &AlertNotifier{dispatcher: d, team: team}
}

func (n *AlertNotifier) TriggerImmediateActions(ctx context.Context, a *AdvancedRiskAssessment) error {
	channels := a.EscalationProtocol.NotificationChannels
	if len(channels) == 0 {
		channels = []string{ChannelSMS}
	}

	var errs []error
	for _, alert := range a.EmergencyAlerts {
		data := map[string]string{
			"severity":       string(alert.Severity),
			"condition":      alert.Condition,
			"user_id":        a.UserID,
			"assessment_id":  a.AssessmentID.String(),
			"time_to_action": strconv.Itoa(alert.TimeToAction),
			"actions":        strings.Join(alert.Actions, "; "),
			"contacts":       strings.Join(alert.ContactNumbers, ", "),
		}
		for _, ch := range channels {
			if err := ctx.Err(); err != nil {
				return errors.Join(append(errs, err)...)
			}
			typ, ok := notification.ParseType(ch)
			if !ok {
				errs = append(errs, fmt.Errorf("unknown notification channel %q", ch))
				continue
			}
			// Voice calls are reserved for alerts that act on their own.
			if typ == notification.TypeCall && !alert.Automated {
				continue
			}
			recipient, tpl := n.team.Phone, notification.TemplateEmergencyAlert
			switch typ {
			case notification.TypeEmail:
				recipient = n.team.Email
			case notification.TypeCall:
				tpl = notification.TemplateEmergencyCall
			}
			if recipient == "" {
				continue
			}
			if _, err := n.dispatcher.SendFromTemplate(ctx, tpl, data, typ, recipient, string(alert.Severity)); err != nil {
				errs = append(errs, fmt.Errorf("%s %s: %w", ch, alert.Condition, err))
			}
		}
	}
	return errors.Join(errs...)
}
