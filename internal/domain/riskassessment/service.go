package riskassessment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const defaultCollaboratorTimeout = 5 * time.Second

// Observer receives pipeline measurements. The metrics package provides
// the Prometheus implementation.
type Observer interface {
	ObserveAssessment(tier, level string, alerts int, elapsed time.Duration)
	ObserveRejected()
	ObserveCollaboratorFailure(collaborator string)
}

type nopObserver struct{}

func (nopObserver) ObserveAssessment(string, string, int, time.Duration) {}
func (nopObserver) ObserveRejected()                                      {}
func (nopObserver) ObserveCollaboratorFailure(string)                     {}

// Outcome is the result of Service.Assess. The assessment is always
// present; collaborator failures are reported alongside it so emergency
// alerts still reach the caller when storage or notification fails.
type Outcome struct {
	Assessment *AdvancedRiskAssessment
	StoreErr   error
	TriggerErr error
	PublishErr error
}

// Err joins the collaborator failures, or returns nil.
func (o *Outcome) Err() error {
	return errors.Join(o.StoreErr, o.TriggerErr, o.PublishErr)
}

type Service struct {
	engine    *Engine
	repo      Repository
	trigger   ActionTrigger
	publisher EventPublisher
	logger    zerolog.Logger
	timeout   time.Duration
	observer  Observer
}

type ServiceOption func(*Service)

// WithCollaboratorTimeout bounds each store, trigger and publish call.
func WithCollaboratorTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithObserver(o Observer) ServiceOption {
	return func(s *Service) {
		if o != nil {
			s.observer = o
		}
	}
}

// NewService wires the engine to its collaborators. trigger and publisher
// may be nil, in which case that step is skipped.
func NewService(engine *Engine, repo Repository, trigger ActionTrigger, publisher EventPublisher, logger zerolog.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		engine:    engine,
		repo:      repo,
		trigger:   trigger,
		publisher: publisher,
		logger:    logger,
		timeout:   defaultCollaboratorTimeout,
		observer:  nopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Assess scores q, then stores, triggers and publishes concurrently. A
// validation failure is the only error; collaborator failures are carried
// in the Outcome.
func (s *Service) Assess(ctx context.Context, q *ProcessedQuestionnaire) (*Outcome, error) {
	start := time.Now()
	a, err := s.engine.Assess(q)
	if err != nil {
		if errors.Is(err, ErrInvalidQuestionnaire) {
			s.observer.ObserveRejected()
		}
		return nil, err
	}
	s.observer.ObserveAssessment(string(a.Composite.EscalationTier), string(a.Composite.RiskLevel), len(a.EmergencyAlerts), time.Since(start))

	log := s.assessmentLogger(a)
	if a.Composite.EscalationTier == TierEmergency {
		conditions := make([]string, 0, len(a.EmergencyAlerts))
		for _, alert := range a.EmergencyAlerts {
			conditions = append(conditions, alert.Condition)
		}
		log.Warn().Strs("alerts", conditions).Msg("emergency risk detected")
	} else {
		log.Info().Msg("risk assessment completed")
	}

	// Collaborators outlive a cancelled request so alerts are not dropped
	// when the client disconnects; the timeout still bounds them.
	base := context.WithoutCancel(ctx)
	out := &Outcome{Assessment: a}

	var wg sync.WaitGroup
	run := func(name string, dst *error, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cctx, cancel := context.WithTimeout(base, s.timeout)
			defer cancel()
			if err := fn(cctx); err != nil {
				*dst = fmt.Errorf("%s: %w", name, err)
				s.observer.ObserveCollaboratorFailure(name)
				log.Error().Err(err).Str("collaborator", name).Msg("collaborator failed")
			}
		}()
	}

	run("store", &out.StoreErr, func(ctx context.Context) error { return s.repo.Store(ctx, a) })
	if s.trigger != nil && len(a.EmergencyAlerts) > 0 {
		run("trigger", &out.TriggerErr, func(ctx context.Context) error { return s.trigger.TriggerImmediateActions(ctx, a) })
	}
	if s.publisher != nil {
		run("publish", &out.PublishErr, func(ctx context.Context) error { return s.publisher.Publish(ctx, a) })
	}
	wg.Wait()

	return out, nil
}

func (s *Service) assessmentLogger(a *AdvancedRiskAssessment) zerolog.Logger {
	ctx := s.logger.With().
		Str("assessment_id", a.AssessmentID.String()).
		Str("user_id", a.UserID).
		Str("tier", string(a.Composite.EscalationTier)).
		Str("composite_level", string(a.Composite.RiskLevel))
	if a.Cardiovascular != nil {
		ctx = ctx.Str(string(DomainCardiovascular), string(a.Cardiovascular.RiskLevel))
	}
	if a.Diabetes != nil {
		ctx = ctx.Str(string(DomainDiabetes), string(a.Diabetes.RiskLevel))
	}
	if a.MentalHealth != nil {
		ctx = ctx.Str(string(DomainMentalHealth), string(a.MentalHealth.RiskLevel))
	}
	if a.Respiratory != nil {
		ctx = ctx.Str(string(DomainRespiratory), string(a.Respiratory.RiskLevel))
	}
	return ctx.Logger()
}

func (s *Service) GetAssessment(ctx context.Context, id uuid.UUID) (*AdvancedRiskAssessment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*AdvancedRiskAssessment, int, error) {
	if userID == "" {
		return nil, 0, fmt.Errorf("user_id is required")
	}
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) Latest(ctx context.Context, userID string) (*AdvancedRiskAssessment, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required")
	}
	return s.repo.Latest(ctx, userID)
}
