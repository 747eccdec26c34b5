package riskassessment

import (
	"time"

	"github.com/google/uuid"
)

// -- Input --

// ProcessedQuestionnaire is produced upstream by the NLP extraction service.
type ProcessedQuestionnaire struct {
	UserID            string             `json:"userId"`
	ExtractedSymptoms []ExtractedSymptom `json:"extractedSymptoms"`
	RiskFactors       []RiskFactor       `json:"riskFactors"`
	EmergencyFlags    []string           `json:"emergencyFlags"`
	Responses         []Response         `json:"responses"`
}

type ExtractedSymptom struct {
	Symptom  string `json:"symptom"`
	Code     string `json:"code,omitempty"`
	Severity string `json:"severity"`
	Duration string `json:"duration"`
	Onset    string `json:"onset,omitempty"`
}

type RiskFactor struct {
	Factor   string `json:"factor"`
	Code     string `json:"code,omitempty"`
	Severity string `json:"severity"`
}

type Response struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Gender is the demographic sex extracted from the questionnaire.
type Gender string

const (
	GenderMale    Gender = "M"
	GenderFemale  Gender = "F"
	GenderUnknown Gender = "unknown"
)

// -- Domain risk levels --

type CardiovascularLevel string

const (
	CardioLow          CardiovascularLevel = "low"
	CardioIntermediate CardiovascularLevel = "intermediate"
	CardioHigh         CardiovascularLevel = "high"
	CardioVeryHigh     CardiovascularLevel = "very_high"
)

type DiabetesLevel string

const (
	DiabetesLow      DiabetesLevel = "low"
	DiabetesModerate DiabetesLevel = "moderate"
	DiabetesHigh     DiabetesLevel = "high"
	DiabetesCritical DiabetesLevel = "critical"
)

type MentalHealthLevel string

const (
	MentalLow      MentalHealthLevel = "low"
	MentalModerate MentalHealthLevel = "moderate"
	MentalHigh     MentalHealthLevel = "high"
	MentalSevere   MentalHealthLevel = "severe"
)

type SuicideRiskLevel string

const (
	SuicideNone     SuicideRiskLevel = "none"
	SuicideLow      SuicideRiskLevel = "low"
	SuicideModerate SuicideRiskLevel = "moderate"
	SuicideHigh     SuicideRiskLevel = "high"
	SuicideImminent SuicideRiskLevel = "imminent"
)

type RespiratoryLevel string

const (
	RespiratoryLow      RespiratoryLevel = "low"
	RespiratoryModerate RespiratoryLevel = "moderate"
	RespiratoryHigh     RespiratoryLevel = "high"
	RespiratoryCritical RespiratoryLevel = "critical"
)

type CompositeLevel string

const (
	CompositeLow      CompositeLevel = "low"
	CompositeModerate CompositeLevel = "moderate"
	CompositeHigh     CompositeLevel = "high"
	CompositeCritical CompositeLevel = "critical"
)

// Severity returns the 0-based position of the level in its ordering.
func (l CardiovascularLevel) Severity() int {
	return indexOf(string(l), string(CardioLow), string(CardioIntermediate), string(CardioHigh), string(CardioVeryHigh))
}

func (l DiabetesLevel) Severity() int {
	return indexOf(string(l), string(DiabetesLow), string(DiabetesModerate), string(DiabetesHigh), string(DiabetesCritical))
}

func (l MentalHealthLevel) Severity() int {
	return indexOf(string(l), string(MentalLow), string(MentalModerate), string(MentalHigh), string(MentalSevere))
}

func (l SuicideRiskLevel) Severity() int {
	return indexOf(string(l), string(SuicideNone), string(SuicideLow), string(SuicideModerate), string(SuicideHigh), string(SuicideImminent))
}

func (l RespiratoryLevel) Severity() int {
	return indexOf(string(l), string(RespiratoryLow), string(RespiratoryModerate), string(RespiratoryHigh), string(RespiratoryCritical))
}

func (l CompositeLevel) Severity() int {
	return indexOf(string(l), string(CompositeLow), string(CompositeModerate), string(CompositeHigh), string(CompositeCritical))
}

func indexOf(v string, ordered ...string) int {
	for i, o := range ordered {
		if o == v {
			return i
		}
	}
	return -1
}

// Domain names one of the four scored clinical domains.
type Domain string

const (
	DomainCardiovascular Domain = "cardiovascular"
	DomainDiabetes       Domain = "diabetes"
	DomainMentalHealth   Domain = "mental_health"
	DomainRespiratory    Domain = "respiratory"
)

// Emergency indicators raised by the domain assessors.
const (
	IndicatorAcuteCoronarySyndrome = "ACUTE_CORONARY_SYNDROME_SUSPECTED"
	IndicatorCardiacSyncope        = "CARDIAC_SYNCOPE_SUSPECTED"
	IndicatorDKARisk               = "DIABETIC_KETOACIDOSIS_RISK"
	IndicatorKetosis               = "KETOSIS_DETECTED"
	IndicatorSuicideImminent       = "SUICIDE_RISK_IMMINENT"
	IndicatorSevereAsthma          = "SEVERE_ASTHMA_EXACERBATION"
	IndicatorCOPDExacerbation      = "COPD_EXACERBATION"
)

// -- Cardiovascular --

type CardiovascularRisk struct {
	OverallScore        float64                `json:"overallScore"`
	RiskLevel           CardiovascularLevel    `json:"riskLevel"`
	FraminghamScore     float64                `json:"framinghamScore"`
	RiskFactors         CardiovascularFactors  `json:"riskFactors"`
	Symptoms            CardiovascularSymptoms `json:"symptoms"`
	EmergencyIndicators []string               `json:"emergencyIndicators"`
	EscalationRequired  bool                   `json:"escalationRequired"`
	TimeToEscalation    float64                `json:"timeToEscalation"`
	Recommendations     []string               `json:"recommendations"`
}

type CardiovascularFactors struct {
	Smoking         bool    `json:"smoking"`
	Diabetes        bool    `json:"diabetes"`
	Hypertension    bool    `json:"hypertension"`
	HighCholesterol bool    `json:"highCholesterol"`
	FamilyHistory   bool    `json:"familyHistory"`
	Points          float64 `json:"points"`
}

type CardiovascularSymptoms struct {
	ChestPain    bool    `json:"chestPain"`
	Dyspnea      bool    `json:"dyspnea"`
	Palpitations bool    `json:"palpitations"`
	Syncope      bool    `json:"syncope"`
	Points       float64 `json:"points"`
}

// -- Diabetes --

type DiabetesRisk struct {
	OverallScore        float64         `json:"overallScore"`
	RiskLevel           DiabetesLevel   `json:"riskLevel"`
	ClassicTriad        ClassicTriad    `json:"classicTriad"`
	AdditionalFactors   DiabetesFactors `json:"additionalFactors"`
	DKARisk             float64         `json:"dkaRisk"`
	KetosisSymptoms     []string        `json:"ketosisSymptoms"`
	EmergencyIndicators []string        `json:"emergencyIndicators"`
	EscalationRequired  bool            `json:"escalationRequired"`
	TimeToEscalation    float64         `json:"timeToEscalation"`
}

type ClassicTriad struct {
	Polydipsia    bool    `json:"polydipsia"`
	Polyphagia    bool    `json:"polyphagia"`
	Polyuria      bool    `json:"polyuria"`
	TriadScore    float64 `json:"triadScore"`
	TriadComplete bool    `json:"triadComplete"`
}

// Count returns how many of the three cardinal symptoms are present.
func (t ClassicTriad) Count() int {
	n := 0
	for _, present := range []bool{t.Polydipsia, t.Polyphagia, t.Polyuria} {
		if present {
			n++
		}
	}
	return n
}

type DiabetesFactors struct {
	WeightLoss         bool    `json:"weightLoss"`
	Fatigue            bool    `json:"fatigue"`
	BlurredVision      bool    `json:"blurredVision"`
	SlowHealing        bool    `json:"slowHealing"`
	FrequentInfections bool    `json:"frequentInfections"`
	FamilyHistory      bool    `json:"familyHistory"`
	Obesity            bool    `json:"obesity"`
	AgeOver45          bool    `json:"ageOver45"`
	AgeOver65          bool    `json:"ageOver65"`
	Points             float64 `json:"points"`
}

// -- Mental health --

type MentalHealthRisk struct {
	OverallScore        float64           `json:"overallScore"`
	RiskLevel           MentalHealthLevel `json:"riskLevel"`
	Depression          ScreeningResult   `json:"depression"`
	Anxiety             ScreeningResult   `json:"anxiety"`
	SuicideRisk         SuicideRisk       `json:"suicideRisk"`
	EmergencyIndicators []string          `json:"emergencyIndicators"`
	EscalationRequired  bool              `json:"escalationRequired"`
	TimeToEscalation    float64           `json:"timeToEscalation"`
}

// ScreeningResult is a PHQ-9 or GAD-7 style additive screen.
type ScreeningResult struct {
	Score      float64  `json:"score"`
	Severity   string   `json:"severity"`
	Indicators []string `json:"indicators"`
}

type SuicideRisk struct {
	RiskLevel             SuicideRiskLevel `json:"riskLevel"`
	Ideation              bool             `json:"ideation"`
	Plan                  bool             `json:"plan"`
	PriorAttempt          bool             `json:"priorAttempt"`
	RiskFactors           []string         `json:"riskFactors"`
	ProtectiveFactors     []string         `json:"protectiveFactors"`
	ImmediateIntervention bool             `json:"immediateIntervention"`
}

// -- Respiratory --

type RespiratoryRisk struct {
	OverallScore        float64              `json:"overallScore"`
	RiskLevel           RespiratoryLevel     `json:"riskLevel"`
	Asthma              AsthmaIndicators     `json:"asthma"`
	COPD                COPDIndicators       `json:"copd"`
	SleepApnea          SleepApneaIndicators `json:"sleepApnea"`
	EmergencyIndicators []string             `json:"emergencyIndicators"`
	EscalationRequired  bool                 `json:"escalationRequired"`
	TimeToEscalation    float64              `json:"timeToEscalation"`
}

type AsthmaIndicators struct {
	Wheeze            bool    `json:"wheeze"`
	Dyspnea           bool    `json:"dyspnea"`
	ChestTightness    bool    `json:"chestTightness"`
	Cough             bool    `json:"cough"`
	NocturnalSymptoms bool    `json:"nocturnalSymptoms"`
	ExerciseTrigger   bool    `json:"exerciseTrigger"`
	AllergenTrigger   bool    `json:"allergenTrigger"`
	PeakFlowReduction bool    `json:"peakFlowReduction"`
	CannotSpeak       bool    `json:"cannotSpeak"`
	Score             float64 `json:"score"`
}

type COPDIndicators struct {
	ChronicCough         bool    `json:"chronicCough"`
	Sputum               bool    `json:"sputum"`
	Dyspnea              bool    `json:"dyspnea"`
	SmokingHistory       bool    `json:"smokingHistory"`
	AgeOver40            bool    `json:"ageOver40"`
	OccupationalExposure bool    `json:"occupationalExposure"`
	Fever                bool    `json:"fever"`
	Score                float64 `json:"score"`
}

type SleepApneaIndicators struct {
	Snoring           bool     `json:"snoring"`
	ObservedApnea     bool     `json:"observedApnea"`
	DaytimeSleepiness bool     `json:"daytimeSleepiness"`
	Hypertension      bool     `json:"hypertension"`
	BMI               *float64 `json:"bmi,omitempty"`
	NeckCircumference *float64 `json:"neckCircumference,omitempty"`
	BerlinScore       int      `json:"berlinScore"`
	StopBangScore     int      `json:"stopBangScore"`
	Score             float64  `json:"score"`
}

// -- Composite --

// EscalationTier is the single active decision tier. Precedence is
// emergency > urgent > routine > none.
type EscalationTier string

const (
	TierEmergency EscalationTier = "emergency"
	TierUrgent    EscalationTier = "urgent"
	TierRoutine   EscalationTier = "routine"
	TierNone      EscalationTier = "none"
)

type CompositeRisk struct {
	WeightedScore             float64                `json:"weightedScore"`
	MultipleConditionsPenalty float64                `json:"multipleConditionsPenalty"`
	SynergyFactor             float64                `json:"synergyFactor"`
	DemographicAdjustments    DemographicAdjustments `json:"demographicAdjustments"`
	OverallScore              float64                `json:"overallScore"`
	RiskLevel                 CompositeLevel         `json:"riskLevel"`
	HighRiskDomains           []Domain               `json:"highRiskDomains"`
	EscalationTier            EscalationTier         `json:"escalationTier"`
	EmergencyEscalation       bool                   `json:"emergencyEscalation"`
	UrgentEscalation          bool                   `json:"urgentEscalation"`
	RoutineFollowup           bool                   `json:"routineFollowup"`
	PrioritizedConditions     []PrioritizedCondition `json:"prioritizedConditions"`
}

type DemographicAdjustments struct {
	Age    float64 `json:"age"`
	Gender float64 `json:"gender"`
}

type PrioritizedCondition struct {
	Domain           Domain  `json:"domain"`
	Condition        string  `json:"condition"`
	Emergency        bool    `json:"emergency"`
	PriorityScore    float64 `json:"priorityScore"`
	TimeToEscalation float64 `json:"timeToEscalation"`
}

// -- Outputs --

type AlertSeverity string

const (
	AlertImmediate AlertSeverity = "immediate"
	AlertCritical  AlertSeverity = "critical"
	AlertHigh      AlertSeverity = "high"
)

type EmergencyAlert struct {
	Severity       AlertSeverity `json:"severity"`
	Condition      string        `json:"condition"`
	Domain         Domain        `json:"domain"`
	TimeToAction   int           `json:"timeToAction"`
	Actions        []string      `json:"actions"`
	ContactNumbers []string      `json:"contactNumbers"`
	Automated      bool          `json:"automated"`
}

type RecommendationCategory string

const (
	CategoryImmediate  RecommendationCategory = "immediate"
	CategoryUrgent     RecommendationCategory = "urgent"
	CategoryRoutine    RecommendationCategory = "routine"
	CategoryPreventive RecommendationCategory = "preventive"
)

type ClinicalRecommendation struct {
	Category          RecommendationCategory `json:"category"`
	Domain            Domain                 `json:"domain,omitempty"`
	Recommendation    string                 `json:"recommendation"`
	EvidenceLevel     string                 `json:"evidenceLevel"`
	Timeframe         string                 `json:"timeframe"`
	Priority          int                    `json:"priority"`
	CostEffectiveness string                 `json:"costEffectiveness"`
}

type FollowupAction struct {
	Action         string   `json:"action"`
	SpecialistType string   `json:"specialistType,omitempty"`
	Urgency        string   `json:"urgency"`
	Automated      bool     `json:"automated"`
	EstimatedCost  *float64 `json:"estimatedCost,omitempty"`
}

type FollowupSchedule struct {
	Immediate    []FollowupAction `json:"immediate"`
	Within24h    []FollowupAction `json:"within24h"`
	Within1Week  []FollowupAction `json:"within1week"`
	Within1Month []FollowupAction `json:"within1month"`
	Routine      []FollowupAction `json:"routine"`
}

type EscalationLevel string

const (
	LevelEmergencyServices EscalationLevel = "emergency_services"
	LevelPhysicianReview   EscalationLevel = "physician_review"
	LevelNurseReview       EscalationLevel = "nurse_review"
	LevelAIOnly            EscalationLevel = "ai_only"
)

// Notification channels understood by the notification collaborator.
const (
	ChannelCall     = "call"
	ChannelSMS      = "sms"
	ChannelWhatsApp = "whatsapp"
	ChannelEmail    = "email"
)

type EscalationProtocol struct {
	Immediate            bool            `json:"immediate"`
	Urgent               bool            `json:"urgent"`
	TimeToEscalation     float64         `json:"timeToEscalation"`
	EscalationLevel      EscalationLevel `json:"escalationLevel"`
	NotificationChannels []string        `json:"notificationChannels"`
	AutomaticScheduling  bool            `json:"automaticScheduling"`
}

// AdvancedRiskAssessment is the aggregate produced once per questionnaire.
// It is never mutated after Engine.Assess returns it.
type AdvancedRiskAssessment struct {
	UserID             string                   `json:"userId"`
	AssessmentID       uuid.UUID                `json:"assessmentId"`
	Timestamp          time.Time                `json:"timestamp"`
	VocabularyVersion  string                   `json:"vocabularyVersion"`
	Cardiovascular     *CardiovascularRisk      `json:"cardiovascular"`
	Diabetes           *DiabetesRisk            `json:"diabetes"`
	MentalHealth       *MentalHealthRisk        `json:"mentalHealth"`
	Respiratory        *RespiratoryRisk         `json:"respiratory"`
	Composite          *CompositeRisk           `json:"composite"`
	EmergencyAlerts    []EmergencyAlert         `json:"emergencyAlerts"`
	Recommendations    []ClinicalRecommendation `json:"recommendations"`
	FollowupSchedule   FollowupSchedule         `json:"followupSchedule"`
	EscalationProtocol EscalationProtocol       `json:"escalationProtocol"`
}

// DomainRisks bundles the four assessor outputs consumed by the aggregator
// and the generators.
type DomainRisks struct {
	Cardiovascular *CardiovascularRisk
	Diabetes       *DiabetesRisk
	MentalHealth   *MentalHealthRisk
	Respiratory    *RespiratoryRisk
}
