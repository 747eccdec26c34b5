package riskassessment

import (
	"math"
	"sort"
)

// severityHigh is the Severity() of the "high" bucket in every domain.
const severityHigh = 2

// domainView is the domain-agnostic projection of one assessor output.
type domainView struct {
	domain     Domain
	score      float64
	weight     float64
	severity   int
	level      string
	indicators []string
	escalation bool
	hours      float64
}

// views returns the present domains in fixed order: cardiovascular,
// diabetes, mental health, respiratory.
func (in DomainRisks) views(r CompositeRules) []domainView {
	var out []domainView
	if cv := in.Cardiovascular; cv != nil {
		out = append(out, domainView{DomainCardiovascular, cv.OverallScore, r.CardiovascularWeight,
			cv.RiskLevel.Severity(), string(cv.RiskLevel), cv.EmergencyIndicators, cv.EscalationRequired, cv.TimeToEscalation})
	}
	if dm := in.Diabetes; dm != nil {
		out = append(out, domainView{DomainDiabetes, dm.OverallScore, r.DiabetesWeight,
			dm.RiskLevel.Severity(), string(dm.RiskLevel), dm.EmergencyIndicators, dm.EscalationRequired, dm.TimeToEscalation})
	}
	if mh := in.MentalHealth; mh != nil {
		out = append(out, domainView{DomainMentalHealth, mh.OverallScore, r.MentalHealthWeight,
			mh.RiskLevel.Severity(), string(mh.RiskLevel), mh.EmergencyIndicators, mh.EscalationRequired, mh.TimeToEscalation})
	}
	if rs := in.Respiratory; rs != nil {
		out = append(out, domainView{DomainRespiratory, rs.OverallScore, r.RespiratoryWeight,
			rs.RiskLevel.Severity(), string(rs.RiskLevel), rs.EmergencyIndicators, rs.EscalationRequired, rs.TimeToEscalation})
	}
	return out
}

// AggregateComposite blends the domain scores and applies the multi-condition
// penalty, the synergy factor and the demographic adjustments.
func AggregateComposite(in DomainRisks, data *ExtractedMedicalData, rules *Rules) *CompositeRisk {
	r := rules.Composite
	views := in.views(r)

	var weighted float64
	highRisk := []Domain{}
	for _, v := range views {
		weighted += v.weight * v.score
		if v.severity >= severityHigh {
			highRisk = append(highRisk, v.domain)
		}
	}

	penalty := 1.0
	if k := len(highRisk); k > 1 {
		penalty = math.Pow(r.MultiConditionBase, float64(k-1))
	}

	cvSev := in.Cardiovascular.severity()
	dmSev := in.Diabetes.severity()
	mhSev := in.MentalHealth.severity()

	synergy := 1.0
	if dmSev >= severityHigh && cvSev >= severityHigh {
		synergy *= r.DiabetesCardioSynergy
	}
	if mhSev >= severityHigh && (dmSev > 0 || cvSev > 0) {
		synergy *= r.MentalHealthSynergy
	}

	demo := DemographicAdjustments{
		Age:    ageAdjustment(data, r),
		Gender: 1,
	}
	switch data.Gender() {
	case GenderMale:
		if cvSev > 0 {
			demo.Gender = r.MaleCardioFactor
		}
	case GenderFemale:
		if mhSev > 0 {
			demo.Gender = r.FemaleMentalHealthFactor
		}
	}

	score := weighted * penalty * synergy * demo.Age * demo.Gender
	level := compositeLevel(score, r)
	tier := resolveTier(views, level, in, r)

	return &CompositeRisk{
		WeightedScore:             weighted,
		MultipleConditionsPenalty: penalty,
		SynergyFactor:             synergy,
		DemographicAdjustments:    demo,
		OverallScore:              score,
		RiskLevel:                 level,
		HighRiskDomains:           highRisk,
		EscalationTier:            tier,
		EmergencyEscalation:       tier == TierEmergency,
		UrgentEscalation:          tier == TierUrgent,
		RoutineFollowup:           tier == TierRoutine,
		PrioritizedConditions:     prioritize(views),
	}
}

// severity returns 0 for a missing domain.
func (c *CardiovascularRisk) severity() int {
	if c == nil {
		return 0
	}
	return c.RiskLevel.Severity()
}

func (d *DiabetesRisk) severity() int {
	if d == nil {
		return 0
	}
	return d.RiskLevel.Severity()
}

func (m *MentalHealthRisk) severity() int {
	if m == nil {
		return 0
	}
	return m.RiskLevel.Severity()
}

// ageAdjustment is neutral when age is unknown.
func ageAdjustment(data *ExtractedMedicalData, r CompositeRules) float64 {
	age, ok := data.Age()
	switch {
	case !ok:
		return 1
	case age > r.ElderlyAge:
		return r.ElderlyFactor
	case age > r.MiddleAge:
		return r.MiddleAgeFactor
	case age < r.MinorAge:
		return r.MinorFactor
	}
	return 1
}

func compositeLevel(score float64, r CompositeRules) CompositeLevel {
	switch {
	case score >= r.CriticalAt:
		return CompositeCritical
	case score >= r.HighAt:
		return CompositeHigh
	case score >= r.ModerateAt:
		return CompositeModerate
	}
	return CompositeLow
}

// resolveTier applies the precedence emergency > urgent > routine > none.
func resolveTier(views []domainView, level CompositeLevel, in DomainRisks, r CompositeRules) EscalationTier {
	for _, v := range views {
		if len(v.indicators) > 0 {
			return TierEmergency
		}
	}
	if in.MentalHealth != nil && in.MentalHealth.SuicideRisk.ImmediateIntervention {
		return TierEmergency
	}

	if level == CompositeCritical {
		return TierUrgent
	}
	for _, v := range views {
		if v.escalation || v.hours <= r.UrgentEscalationHours {
			return TierUrgent
		}
	}

	if level != CompositeLow {
		return TierRoutine
	}
	return TierNone
}

// prioritize lists every emergency indicator, then every high-or-worse
// domain without one. Emergencies always rank first; within a group higher
// scores come first and shorter escalation windows break ties.
func prioritize(views []domainView) []PrioritizedCondition {
	out := []PrioritizedCondition{}
	for _, v := range views {
		for _, ind := range v.indicators {
			out = append(out, PrioritizedCondition{
				Domain:           v.domain,
				Condition:        ind,
				Emergency:        true,
				PriorityScore:    v.score,
				TimeToEscalation: v.hours,
			})
		}
		if len(v.indicators) == 0 && v.severity >= severityHigh {
			out = append(out, PrioritizedCondition{
				Domain:           v.domain,
				Condition:        string(v.domain) + "_risk_" + v.level,
				PriorityScore:    v.score,
				TimeToEscalation: v.hours,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Emergency != b.Emergency {
			return a.Emergency
		}
		if a.PriorityScore != b.PriorityScore {
			return a.PriorityScore > b.PriorityScore
		}
		return a.TimeToEscalation < b.TimeToEscalation
	})
	return out
}
