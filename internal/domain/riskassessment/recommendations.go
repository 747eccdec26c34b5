package riskassessment

import "sort"

type recommendationRule struct {
	when func(in DomainRisks, c *CompositeRisk) bool
	rec  ClinicalRecommendation
}

func cvAt(l CardiovascularLevel) func(DomainRisks, *CompositeRisk) bool {
	return func(in DomainRisks, _ *CompositeRisk) bool {
		return in.Cardiovascular != nil && len(in.Cardiovascular.EmergencyIndicators) == 0 && in.Cardiovascular.RiskLevel == l
	}
}

func dmAt(l DiabetesLevel) func(DomainRisks, *CompositeRisk) bool {
	return func(in DomainRisks, _ *CompositeRisk) bool {
		return in.Diabetes != nil && len(in.Diabetes.EmergencyIndicators) == 0 && in.Diabetes.RiskLevel == l
	}
}

func mhAt(l MentalHealthLevel) func(DomainRisks, *CompositeRisk) bool {
	return func(in DomainRisks, _ *CompositeRisk) bool {
		return in.MentalHealth != nil && len(in.MentalHealth.EmergencyIndicators) == 0 && in.MentalHealth.RiskLevel == l
	}
}

func respAt(l RespiratoryLevel) func(DomainRisks, *CompositeRisk) bool {
	return func(in DomainRisks, _ *CompositeRisk) bool {
		return in.Respiratory != nil && len(in.Respiratory.EmergencyIndicators) == 0 && in.Respiratory.RiskLevel == l
	}
}

// recommendationRules are evaluated in order; the order is the tie-break for
// equal priorities.
var recommendationRules = []recommendationRule{
	{
		when: func(in DomainRisks, _ *CompositeRisk) bool {
			return in.MentalHealth != nil && in.MentalHealth.SuicideRisk.ImmediateIntervention
		},
		rec: ClinicalRecommendation{CategoryImmediate, DomainMentalHealth,
			"Immediate crisis intervention with a safety plan and continuous supervision",
			"A", "immediate", 100, "essential"},
	},
	{
		when: func(in DomainRisks, _ *CompositeRisk) bool {
			return in.Cardiovascular != nil && len(in.Cardiovascular.EmergencyIndicators) > 0
		},
		rec: ClinicalRecommendation{CategoryImmediate, DomainCardiovascular,
			"Emergency department evaluation with ECG within 10 minutes of arrival",
			"A", "immediate", 98, "essential"},
	},
	{
		when: func(in DomainRisks, _ *CompositeRisk) bool {
			return in.Respiratory != nil && len(in.Respiratory.EmergencyIndicators) > 0
		},
		rec: ClinicalRecommendation{CategoryImmediate, DomainRespiratory,
			"Emergency respiratory evaluation with pulse oximetry and bronchodilator therapy",
			"A", "immediate", 96, "essential"},
	},
	{
		when: func(in DomainRisks, _ *CompositeRisk) bool {
			return in.Diabetes != nil && len(in.Diabetes.EmergencyIndicators) > 0
		},
		rec: ClinicalRecommendation{CategoryImmediate, DomainDiabetes,
			"Emergency evaluation for hyperglycemic crisis with glucose, ketones and blood gas",
			"A", "immediate", 95, "essential"},
	},
	{
		when: func(in DomainRisks, _ *CompositeRisk) bool {
			return in.MentalHealth != nil && in.MentalHealth.SuicideRisk.RiskLevel == SuicideHigh
		},
		rec: ClinicalRecommendation{CategoryUrgent, DomainMentalHealth,
			"Same-day psychiatric evaluation for suicide risk",
			"A", "24 hours", 90, "high"},
	},
	{
		when: dmAt(DiabetesCritical),
		rec: ClinicalRecommendation{CategoryUrgent, DomainDiabetes,
			"Fasting glucose and HbA1c within 24 hours",
			"A", "24 hours", 85, "high"},
	},
	{
		when: cvAt(CardioVeryHigh),
		rec: ClinicalRecommendation{CategoryUrgent, DomainCardiovascular,
			"Cardiology evaluation with ECG and troponin",
			"A", "24 hours", 80, "high"},
	},
	{
		when: mhAt(MentalSevere),
		rec: ClinicalRecommendation{CategoryUrgent, DomainMentalHealth,
			"Psychiatric evaluation for severe depressive or anxiety symptoms",
			"A", "24 hours", 78, "high"},
	},
	{
		when: respAt(RespiratoryCritical),
		rec: ClinicalRecommendation{CategoryUrgent, DomainRespiratory,
			"Pulmonology evaluation with spirometry",
			"A", "24 hours", 76, "high"},
	},
	{
		when: dmAt(DiabetesHigh),
		rec: ClinicalRecommendation{CategoryUrgent, DomainDiabetes,
			"HbA1c, fasting glucose and endocrinology referral",
			"A", "1 week", 75, "high"},
	},
	{
		when: func(_ DomainRisks, c *CompositeRisk) bool { return c != nil && c.SynergyFactor > 1 },
		rec: ClinicalRecommendation{CategoryUrgent, "",
			"Integrated multidisciplinary care plan for interacting conditions",
			"B", "1 week", 72, "high"},
	},
	{
		when: cvAt(CardioHigh),
		rec: ClinicalRecommendation{CategoryUrgent, DomainCardiovascular,
			"Cardiology consultation with resting ECG and lipid panel",
			"B", "1 week", 70, "moderate"},
	},
	{
		when: mhAt(MentalHigh),
		rec: ClinicalRecommendation{CategoryUrgent, DomainMentalHealth,
			"Psychology or psychiatry referral",
			"B", "1 week", 68, "moderate"},
	},
	{
		when: respAt(RespiratoryHigh),
		rec: ClinicalRecommendation{CategoryUrgent, DomainRespiratory,
			"Pulmonology referral and spirometry",
			"B", "1 week", 66, "moderate"},
	},
	{
		when: dmAt(DiabetesModerate),
		rec: ClinicalRecommendation{CategoryRoutine, DomainDiabetes,
			"Fasting glucose screening",
			"B", "1 month", 50, "high"},
	},
	{
		when: mhAt(MentalModerate),
		rec: ClinicalRecommendation{CategoryRoutine, DomainMentalHealth,
			"Psychotherapy and repeat PHQ-9/GAD-7 screening",
			"B", "1 month", 48, "moderate"},
	},
	{
		when: cvAt(CardioIntermediate),
		rec: ClinicalRecommendation{CategoryRoutine, DomainCardiovascular,
			"Primary care review of blood pressure and lipids",
			"B", "1 month", 46, "high"},
	},
	{
		when: func(in DomainRisks, _ *CompositeRisk) bool {
			return in.Respiratory != nil && sleepApneaSuspected(in.Respiratory.SleepApnea)
		},
		rec: ClinicalRecommendation{CategoryRoutine, DomainRespiratory,
			"Polysomnography for suspected obstructive sleep apnea",
			"B", "1 month", 44, "moderate"},
	},
	{
		when: respAt(RespiratoryModerate),
		rec: ClinicalRecommendation{CategoryRoutine, DomainRespiratory,
			"Spirometry and inhaler technique review",
			"B", "1 month", 42, "moderate"},
	},
	{
		when: func(in DomainRisks, _ *CompositeRisk) bool {
			return (in.Cardiovascular != nil && in.Cardiovascular.RiskFactors.Smoking) ||
				(in.Respiratory != nil && in.Respiratory.COPD.SmokingHistory)
		},
		rec: ClinicalRecommendation{CategoryPreventive, "",
			"Smoking cessation program",
			"A", "1 month", 40, "high"},
	},
	{
		when: func(in DomainRisks, _ *CompositeRisk) bool {
			return in.Diabetes != nil && (in.Diabetes.AdditionalFactors.Obesity || in.Diabetes.AdditionalFactors.FamilyHistory)
		},
		rec: ClinicalRecommendation{CategoryPreventive, DomainDiabetes,
			"Lifestyle program for diabetes prevention",
			"A", "3 months", 38, "high"},
	},
	{
		when: func(in DomainRisks, _ *CompositeRisk) bool {
			return in.Cardiovascular != nil && in.Cardiovascular.RiskFactors.Hypertension
		},
		rec: ClinicalRecommendation{CategoryPreventive, DomainCardiovascular,
			"Home blood pressure monitoring",
			"B", "1 month", 36, "high"},
	},
}

var annualCheckup = ClinicalRecommendation{CategoryPreventive, "",
	"Annual preventive check-up", "C", "12 months", 10, "high"}

// GenerateRecommendations returns matching recommendations sorted by
// priority, highest first. Equal priorities keep rule order.
func GenerateRecommendations(in DomainRisks, c *CompositeRisk) []ClinicalRecommendation {
	return applyRecommendationRules(recommendationRules, in, c)
}

func applyRecommendationRules(rules []recommendationRule, in DomainRisks, c *CompositeRisk) []ClinicalRecommendation {
	out := []ClinicalRecommendation{}
	for _, rule := range rules {
		if rule.when(in, c) {
			out = append(out, rule.rec)
		}
	}
	if len(out) == 0 {
		out = append(out, annualCheckup)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority > out[j].Priority })
	return out
}

func sleepApneaSuspected(s SleepApneaIndicators) bool {
	return s.StopBangScore >= 5 || s.BerlinScore >= 2
}
