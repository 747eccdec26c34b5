package riskassessment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Engine runs the scoring pipeline. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	rules    *Rules
	now      func() time.Time
	newID    func() (uuid.UUID, error)
	parallel bool
}

type EngineOption func(*Engine)

// WithClock overrides the assessment timestamp source.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator overrides the assessment id source. The default is UUIDv7.
func WithIDGenerator(gen func() (uuid.UUID, error)) EngineOption {
	return func(e *Engine) { e.newID = gen }
}

// WithParallelAssessors runs the four domain assessors concurrently.
func WithParallelAssessors(on bool) EngineOption {
	return func(e *Engine) { e.parallel = on }
}

func NewEngine(rules *Rules, opts ...EngineOption) *Engine {
	if rules == nil {
		rules = DefaultRules()
	}
	e := &Engine{
		rules: rules,
		now:   time.Now,
		newID: uuid.NewV7,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Rules() *Rules { return e.rules }

// Assess validates q and produces a complete assessment. The only error is
// a validation failure wrapping ErrInvalidQuestionnaire, or a failure to
// generate the assessment id.
func (e *Engine) Assess(q *ProcessedQuestionnaire) (*AdvancedRiskAssessment, error) {
	data, err := Extract(q, e.rules.Vocabulary)
	if err != nil {
		return nil, err
	}

	id, err := e.newID()
	if err != nil {
		return nil, fmt.Errorf("generate assessment id: %w", err)
	}

	risks := e.assessDomains(data)
	composite := AggregateComposite(risks, data, e.rules)

	return &AdvancedRiskAssessment{
		UserID:             data.UserID(),
		AssessmentID:       id,
		Timestamp:          e.now().UTC(),
		VocabularyVersion:  e.rules.Vocabulary.Version,
		Cardiovascular:     risks.Cardiovascular,
		Diabetes:           risks.Diabetes,
		MentalHealth:       risks.MentalHealth,
		Respiratory:        risks.Respiratory,
		Composite:          composite,
		EmergencyAlerts:    GenerateEmergencyAlerts(risks, composite, e.rules),
		Recommendations:    GenerateRecommendations(risks, composite),
		FollowupSchedule:   BuildFollowupSchedule(risks, composite, e.rules),
		EscalationProtocol: ResolveEscalation(risks, composite, e.rules),
	}, nil
}

func (e *Engine) assessDomains(data *ExtractedMedicalData) DomainRisks {
	var risks DomainRisks
	if !e.parallel {
		risks.Cardiovascular = AssessCardiovascular(data, e.rules)
		risks.Diabetes = AssessDiabetes(data, e.rules)
		risks.MentalHealth = AssessMentalHealth(data, e.rules)
		risks.Respiratory = AssessRespiratory(data, e.rules)
		return risks
	}

	// Each goroutine owns one field of risks.
	var g errgroup.Group
	g.Go(func() error {
		risks.Cardiovascular = AssessCardiovascular(data, e.rules)
		return nil
	})
	g.Go(func() error {
		risks.Diabetes = AssessDiabetes(data, e.rules)
		return nil
	})
	g.Go(func() error {
		risks.MentalHealth = AssessMentalHealth(data, e.rules)
		return nil
	})
	g.Go(func() error {
		risks.Respiratory = AssessRespiratory(data, e.rules)
		return nil
	})
	_ = g.Wait()
	return risks
}
