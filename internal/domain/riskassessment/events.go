package riskassessment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const EventAssessmentCompleted = "risk.assessment.completed"

// EventProducer writes a typed event under a partition key.
// *events.Producer satisfies it.
type EventProducer interface {
	Publish(ctx context.Context, eventType, key string, data any) error
}

// AssessmentCompleted is the summary consumed by scheduling and care
// management. The full assessment stays in the store.
type AssessmentCompleted struct {
	AssessmentID        uuid.UUID        `json:"assessmentId"`
	UserID              string           `json:"userId"`
	Timestamp           time.Time        `json:"timestamp"`
	CompositeLevel      CompositeLevel   `json:"compositeLevel"`
	CompositeScore      float64          `json:"compositeScore"`
	EscalationTier      EscalationTier   `json:"escalationTier"`
	EscalationLevel     EscalationLevel  `json:"escalationLevel"`
	AutomaticScheduling bool             `json:"automaticScheduling"`
	HighRiskDomains     []Domain         `json:"highRiskDomains"`
	AlertCount          int              `json:"alertCount"`
	FollowupSchedule    FollowupSchedule `json:"followupSchedule"`
}

func NewAssessmentCompleted(a *AdvancedRiskAssessment) AssessmentCompleted {
	return AssessmentCompleted{
		AssessmentID:        a.AssessmentID,
		UserID:              a.UserID,
		Timestamp:           a.Timestamp,
		CompositeLevel:      a.Composite.RiskLevel,
		CompositeScore:      a.Composite.OverallScore,
		EscalationTier:      a.Composite.EscalationTier,
		EscalationLevel:     a.EscalationProtocol.EscalationLevel,
		AutomaticScheduling: a.EscalationProtocol.AutomaticScheduling,
		HighRiskDomains:     a.Composite.HighRiskDomains,
		AlertCount:          len(a.EmergencyAlerts),
		FollowupSchedule:    a.FollowupSchedule,
	}
}

type eventPublisher struct {
	producer EventProducer
}

// NewEventPublisher publishes AssessmentCompleted keyed by user id so a
// user's events stay ordered.
func NewEventPublisher(p EventProducer) EventPublisher {
	return &eventPublisher{producer: p}
}

func (p *eventPublisher) Publish(ctx context.Context, a *AdvancedRiskAssessment) error {
	return p.producer.Publish(ctx, EventAssessmentCompleted, a.UserID, NewAssessmentCompleted(a))
}
