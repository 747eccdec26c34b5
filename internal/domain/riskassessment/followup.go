package riskassessment

var emergencySpecialist = map[string]string{
	IndicatorAcuteCoronarySyndrome: "emergency_cardiology",
	IndicatorCardiacSyncope:        "emergency_cardiology",
	IndicatorDKARisk:               "emergency_medicine",
	IndicatorKetosis:               "emergency_medicine",
	IndicatorSuicideImminent:       "emergency_psychiatry",
	IndicatorSevereAsthma:          "emergency_medicine",
	IndicatorCOPDExacerbation:      "emergency_medicine",
}

// BuildFollowupSchedule buckets follow-up actions by time horizon. It reads
// only the assessor and composite outputs.
func BuildFollowupSchedule(in DomainRisks, c *CompositeRisk, rules *Rules) FollowupSchedule {
	costs := rules.Costs
	auto := schedulesAutomatically(c.EscalationTier)
	s := FollowupSchedule{
		Immediate:    []FollowupAction{},
		Within24h:    []FollowupAction{},
		Within1Week:  []FollowupAction{},
		Within1Month: []FollowupAction{},
		Routine:      []FollowupAction{},
	}

	for _, v := range in.views(rules.Composite) {
		for _, ind := range v.indicators {
			specialist, ok := emergencySpecialist[ind]
			if !ok {
				specialist = "emergency_medicine"
			}
			s.Immediate = append(s.Immediate, FollowupAction{
				Action:         "Emergency evaluation for " + ind,
				SpecialistType: specialist,
				Urgency:        "immediate",
				Automated:      true,
				EstimatedCost:  price(costs.EmergencyVisit),
			})
		}
	}

	if cv := in.Cardiovascular; cv != nil && len(cv.EmergencyIndicators) == 0 {
		switch cv.RiskLevel {
		case CardioVeryHigh:
			s.Within24h = append(s.Within24h, scheduled("Cardiology evaluation with ECG and troponin", "cardiology", "24h", auto, costs.SpecialistConsult))
		case CardioHigh:
			s.Within1Week = append(s.Within1Week, scheduled("Cardiology consultation", "cardiology", "1week", auto, costs.SpecialistConsult))
		case CardioIntermediate:
			s.Within1Month = append(s.Within1Month, scheduled("Cardiovascular risk review", "general_practice", "1month", auto, costs.PrimaryCareVisit))
		}
	}

	if dm := in.Diabetes; dm != nil && len(dm.EmergencyIndicators) == 0 {
		switch dm.RiskLevel {
		case DiabetesCritical:
			s.Within24h = append(s.Within24h, scheduled("Fasting glucose and HbA1c", "laboratory", "24h", auto, costs.LabPanel))
		case DiabetesHigh:
			s.Within1Week = append(s.Within1Week,
				scheduled("Fasting glucose and HbA1c", "laboratory", "1week", auto, costs.LabPanel),
				scheduled("Endocrinology consultation", "endocrinology", "1week", auto, costs.SpecialistConsult),
			)
		case DiabetesModerate:
			s.Within1Month = append(s.Within1Month, scheduled("Fasting glucose screening", "laboratory", "1month", auto, costs.LabPanel))
		}
	}

	if mh := in.MentalHealth; mh != nil && !mh.SuicideRisk.ImmediateIntervention {
		switch {
		case mh.RiskLevel == MentalSevere || mh.SuicideRisk.RiskLevel == SuicideHigh:
			s.Within24h = append(s.Within24h, scheduled("Psychiatric evaluation", "psychiatry", "24h", auto, costs.SpecialistConsult))
		case mh.RiskLevel == MentalHigh:
			s.Within1Week = append(s.Within1Week, scheduled("Psychology or psychiatry consultation", "psychology", "1week", auto, costs.PsychotherapyVisit))
		case mh.RiskLevel == MentalModerate:
			s.Within1Month = append(s.Within1Month, scheduled("Psychotherapy intake", "psychology", "1month", auto, costs.PsychotherapyVisit))
		}
	}

	if rs := in.Respiratory; rs != nil {
		if len(rs.EmergencyIndicators) == 0 {
			switch rs.RiskLevel {
			case RespiratoryCritical:
				s.Within24h = append(s.Within24h, scheduled("Pulmonology evaluation", "pulmonology", "24h", auto, costs.SpecialistConsult))
			case RespiratoryHigh:
				s.Within1Week = append(s.Within1Week,
					scheduled("Pulmonology consultation", "pulmonology", "1week", auto, costs.SpecialistConsult),
					scheduled("Spirometry", "pulmonology", "1week", auto, costs.Spirometry),
				)
			case RespiratoryModerate:
				s.Within1Month = append(s.Within1Month, scheduled("Spirometry", "pulmonology", "1month", auto, costs.Spirometry))
			}
		}
		if sleepApneaSuspected(rs.SleepApnea) {
			s.Within1Month = append(s.Within1Month, scheduled("Polysomnography", "sleep_medicine", "1month", auto, costs.Polysomnography))
		}
	}

	if c.EscalationTier == TierUrgent && len(s.Within24h) == 0 {
		s.Within24h = append(s.Within24h, scheduled("Physician review of the assessment", "general_practice", "24h", auto, costs.PrimaryCareVisit))
	}

	if (in.Cardiovascular != nil && in.Cardiovascular.RiskFactors.Smoking) ||
		(in.Respiratory != nil && in.Respiratory.COPD.SmokingHistory) {
		s.Routine = append(s.Routine, FollowupAction{Action: "Smoking cessation program", Urgency: "routine"})
	}
	if c.RiskLevel == CompositeLow {
		s.Routine = append(s.Routine, FollowupAction{
			Action:         "Annual preventive check-up",
			SpecialistType: "general_practice",
			Urgency:        "routine",
			EstimatedCost:  price(costs.PrimaryCareVisit),
		})
	}
	return s
}

func scheduled(action, specialist, urgency string, automated bool, cost float64) FollowupAction {
	return FollowupAction{
		Action:         action,
		SpecialistType: specialist,
		Urgency:        urgency,
		Automated:      automated,
		EstimatedCost:  price(cost),
	}
}

func price(v float64) *float64 { return &v }

func schedulesAutomatically(t EscalationTier) bool {
	return t == TierUrgent || t == TierRoutine
}
