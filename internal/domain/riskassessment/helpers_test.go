package riskassessment

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

var (
	fixedTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	fixedID   = uuid.MustParse("0190a1b2-c3d4-7e5f-8a9b-0c1d2e3f4a5b")
)

func newTestEngine(opts ...EngineOption) *Engine {
	base := []EngineOption{
		WithClock(func() time.Time { return fixedTime }),
		WithIDGenerator(func() (uuid.UUID, error) { return fixedID, nil }),
	}
	return NewEngine(DefaultRules(), append(base, opts...)...)
}

// questionnaire builds a submission whose symptoms are given as codes.
func questionnaire(symptoms ...string) *ProcessedQuestionnaire {
	q := &ProcessedQuestionnaire{UserID: "user-1"}
	for _, s := range symptoms {
		q.ExtractedSymptoms = append(q.ExtractedSymptoms, ExtractedSymptom{Symptom: s, Severity: "high", Duration: "2 weeks"})
	}
	return q
}

func (q *ProcessedQuestionnaire) withFactors(factors ...string) *ProcessedQuestionnaire {
	for _, f := range factors {
		q.RiskFactors = append(q.RiskFactors, RiskFactor{Factor: f, Severity: "moderate"})
	}
	return q
}

func (q *ProcessedQuestionnaire) withAnswer(question, answer string) *ProcessedQuestionnaire {
	q.Responses = append(q.Responses, Response{Question: question, Answer: answer})
	return q
}

func mustExtract(t *testing.T, q *ProcessedQuestionnaire) *ExtractedMedicalData {
	t.Helper()
	d, err := Extract(q, DefaultVocabulary())
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	return d
}

func mustAssess(t *testing.T, q *ProcessedQuestionnaire) *AdvancedRiskAssessment {
	t.Helper()
	a, err := newTestEngine().Assess(q)
	if err != nil {
		t.Fatalf("assess: %v", err)
	}
	return a
}

func domainRisks(t *testing.T, q *ProcessedQuestionnaire) (DomainRisks, *ExtractedMedicalData) {
	t.Helper()
	d := mustExtract(t, q)
	rules := DefaultRules()
	return DomainRisks{
		Cardiovascular: AssessCardiovascular(d, rules),
		Diabetes:       AssessDiabetes(d, rules),
		MentalHealth:   AssessMentalHealth(d, rules),
		Respiratory:    AssessRespiratory(d, rules),
	}, d
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func approx(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
