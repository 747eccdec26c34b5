package riskassessment

// AssessRespiratory sums the asthma, COPD and sleep apnea sub-scores.
func AssessRespiratory(data *ExtractedMedicalData, rules *Rules) *RespiratoryRisk {
	r := rules.Respiratory

	dyspnea := data.HasSymptom(SymDyspnea)
	smoking := data.HasAny(RFSmoking)
	hypertension := data.HasAny(RFHypertension)

	asthma := AsthmaIndicators{
		Wheeze:            data.HasSymptom(SymWheeze),
		Dyspnea:           dyspnea,
		ChestTightness:    data.HasSymptom(SymChestTightness),
		Cough:             data.HasSymptom(SymCough),
		NocturnalSymptoms: data.HasSymptom(SymNocturnal),
		ExerciseTrigger:   data.HasSymptom(SymExerciseTrigger),
		AllergenTrigger:   data.HasSymptom(SymAllergenTrigger),
		PeakFlowReduction: data.HasSymptom(SymPeakFlowReduced),
		CannotSpeak:       data.HasSymptom(SymCannotSpeak),
	}
	asthma.Score = sumIf(
		weighted{asthma.Wheeze, r.Wheeze},
		weighted{asthma.Dyspnea, r.Dyspnea},
		weighted{asthma.ChestTightness, r.ChestTightness},
		weighted{asthma.Cough, r.Cough},
		weighted{asthma.NocturnalSymptoms, r.Nocturnal},
		weighted{asthma.ExerciseTrigger, r.ExerciseTrigger},
		weighted{asthma.AllergenTrigger, r.AllergenTrigger},
		weighted{asthma.PeakFlowReduction, r.PeakFlow},
	)

	copd := COPDIndicators{
		ChronicCough:         data.HasSymptom(SymChronicCough),
		Sputum:               data.HasSymptom(SymSputum),
		Dyspnea:              dyspnea,
		SmokingHistory:       smoking,
		AgeOver40:            data.ageAtLeast(r.COPDAge),
		OccupationalExposure: data.HasAny(RFOccupationalExposure),
		Fever:                data.HasSymptom(SymFever),
	}
	copd.Score = sumIf(
		weighted{copd.ChronicCough, r.ChronicCough},
		weighted{copd.Sputum, r.Sputum},
		weighted{copd.Dyspnea, r.COPDDyspnea},
		weighted{copd.SmokingHistory, r.SmokingHistory},
		weighted{copd.AgeOver40, r.AgeOver40},
		weighted{copd.OccupationalExposure, r.Occupational},
	)

	apnea := assessSleepApnea(data, r, hypertension)

	score := asthma.Score + copd.Score + apnea.Score

	indicators := []string{}
	if asthma.Dyspnea && asthma.Wheeze && asthma.CannotSpeak {
		indicators = append(indicators, IndicatorSevereAsthma)
	}
	if copd.Dyspnea && copd.Sputum && copd.Fever {
		indicators = append(indicators, IndicatorCOPDExacerbation)
	}
	emergency := len(indicators) > 0

	level := respiratoryLevel(score, r)
	if emergency {
		level = RespiratoryCritical
	}

	return &RespiratoryRisk{
		OverallScore:        score,
		RiskLevel:           level,
		Asthma:              asthma,
		COPD:                copd,
		SleepApnea:          apnea,
		EmergencyIndicators: indicators,
		EscalationRequired:  emergency || level == RespiratoryCritical,
		TimeToEscalation:    respiratoryHours(level, emergency, r),
	}
}

func respiratoryHours(level RespiratoryLevel, emergency bool, r RespiratoryRules) float64 {
	switch {
	case emergency:
		return r.EmergencyHours
	case level == RespiratoryCritical:
		return r.CriticalHours
	}
	return r.DefaultHours
}

// assessSleepApnea counts the Berlin (0-5) and STOP-BANG (0-8) items.
// Unknown gender never counts as male.
func assessSleepApnea(data *ExtractedMedicalData, r RespiratoryRules, hypertension bool) SleepApneaIndicators {
	s := SleepApneaIndicators{
		Snoring:           data.HasSymptom(SymSnoring),
		ObservedApnea:     data.HasSymptom(SymObservedApnea),
		DaytimeSleepiness: data.HasSymptom(SymDaytimeSleepiness),
		Hypertension:      hypertension,
	}
	bmi, hasBMI := data.BMI()
	if hasBMI {
		s.BMI = &bmi
	}
	neck, hasNeck := data.NeckCircumference()
	if hasNeck {
		s.NeckCircumference = &neck
	}

	s.BerlinScore = count(
		s.Snoring,
		s.ObservedApnea,
		s.DaytimeSleepiness,
		s.Hypertension,
		hasBMI && bmi > r.BerlinBMI,
	)
	s.StopBangScore = count(
		s.Snoring,
		s.DaytimeSleepiness,
		s.ObservedApnea,
		s.Hypertension,
		hasBMI && bmi > r.StopBangBMI,
		data.ageOver(r.StopBangAge),
		hasNeck && neck > r.NeckCircumference,
		data.Gender() == GenderMale,
	)
	s.Score = r.StopBangWeight*float64(s.StopBangScore) + r.BerlinWeight*float64(s.BerlinScore)
	return s
}

func respiratoryLevel(score float64, r RespiratoryRules) RespiratoryLevel {
	switch {
	case score >= r.CriticalAt:
		return RespiratoryCritical
	case score >= r.HighAt:
		return RespiratoryHigh
	case score >= r.ModerateAt:
		return RespiratoryModerate
	}
	return RespiratoryLow
}

func count(flags ...bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}
