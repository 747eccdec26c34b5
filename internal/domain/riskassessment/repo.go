package riskassessment

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("risk assessment not found")

// AssessmentStore persists finished assessments. Storing the same
// assessment id twice is a no-op.
type AssessmentStore interface {
	Store(ctx context.Context, a *AdvancedRiskAssessment) error
}

type Repository interface {
	AssessmentStore
	GetByID(ctx context.Context, id uuid.UUID) (*AdvancedRiskAssessment, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*AdvancedRiskAssessment, int, error)
	Latest(ctx context.Context, userID string) (*AdvancedRiskAssessment, error)
}

// ActionTrigger starts the immediate actions for an assessment's emergency
// alerts, such as paging the care team.
type ActionTrigger interface {
	TriggerImmediateActions(ctx context.Context, a *AdvancedRiskAssessment) error
}

// EventPublisher announces finished assessments to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, a *AdvancedRiskAssessment) error
}
