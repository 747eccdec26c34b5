package riskassessment

import "math"

// AssessDiabetes scores the classic triad plus secondary factors and derives
// an independent 0-100 DKA risk.
func AssessDiabetes(data *ExtractedMedicalData, rules *Rules) *DiabetesRisk {
	r := rules.Diabetes

	triad := ClassicTriad{
		Polydipsia: data.HasSymptom(SymPolydipsia),
		Polyphagia: data.HasSymptom(SymPolyphagia),
		Polyuria:   data.HasSymptom(SymPolyuria),
	}
	triad.TriadScore = float64(triad.Count()) * r.TriadSymptom
	triad.TriadComplete = triad.Count() == 3

	bmi, hasBMI := data.BMI()
	factors := DiabetesFactors{
		WeightLoss:         data.HasSymptom(SymWeightLoss),
		Fatigue:            data.HasSymptom(SymFatigue),
		BlurredVision:      data.HasSymptom(SymBlurredVision),
		SlowHealing:        data.HasSymptom(SymSlowHealing),
		FrequentInfections: data.HasSymptom(SymFrequentInfections),
		FamilyHistory:      data.HasAny(RFFamilyHistoryDiabetes),
		Obesity:            data.HasAny(RFObesity) || (hasBMI && bmi >= 30),
		AgeOver45:          data.ageOver(45),
		AgeOver65:          data.ageOver(65),
	}
	factors.Points = sumIf(
		weighted{factors.WeightLoss, r.WeightLoss},
		weighted{factors.Fatigue, r.Fatigue},
		weighted{factors.BlurredVision, r.BlurredVision},
		weighted{factors.SlowHealing, r.SlowHealing},
		weighted{factors.FrequentInfections, r.FrequentInfections},
		weighted{factors.FamilyHistory, r.FamilyHistory},
		weighted{factors.Obesity, r.Obesity},
		weighted{factors.AgeOver45, r.AgeOver45},
		weighted{factors.AgeOver65, r.AgeOver65},
	)

	score := triad.TriadScore + factors.Points

	ketosis := []string{}
	ketosisPoints := 0.0
	for _, k := range []struct {
		code   Code
		points float64
	}{
		{SymKetoneBreath, r.KetoneBreath},
		{SymNauseaVomiting, r.NauseaVomiting},
		{SymAbdominalPain, r.AbdominalPain},
		{SymAlteredMental, r.AlteredMental},
		{SymKussmaul, r.Kussmaul},
	} {
		if data.HasSymptom(k.code) {
			ketosis = append(ketosis, string(k.code))
			ketosisPoints += k.points
		}
	}

	dka := r.DKACompleteTriad * float64(triad.Count()) / 3
	if triad.TriadComplete && factors.WeightLoss {
		dka += r.DKATriadWithWeightLoss
	}
	dka = math.Min(dka+ketosisPoints, r.DKACap)

	indicators := []string{}
	if triad.TriadComplete && factors.WeightLoss {
		indicators = append(indicators, IndicatorDKARisk)
	}
	if data.HasSymptom(SymKetoneBreath) || data.HasSymptom(SymKetosis) {
		indicators = append(indicators, IndicatorKetosis)
	}
	emergency := len(indicators) > 0

	level := diabetesLevel(score, r)
	if emergency {
		level = DiabetesCritical
	}

	return &DiabetesRisk{
		OverallScore:        score,
		RiskLevel:           level,
		ClassicTriad:        triad,
		AdditionalFactors:   factors,
		DKARisk:             dka,
		KetosisSymptoms:     ketosis,
		EmergencyIndicators: indicators,
		EscalationRequired:  emergency || level == DiabetesCritical,
		TimeToEscalation:    diabetesHours(level, emergency, r),
	}
}

func diabetesHours(level DiabetesLevel, emergency bool, r DiabetesRules) float64 {
	switch {
	case emergency:
		return r.EmergencyHours
	case level == DiabetesCritical:
		return r.CriticalHours
	case level == DiabetesHigh:
		return r.HighHours
	}
	return r.DefaultHours
}

func diabetesLevel(score float64, r DiabetesRules) DiabetesLevel {
	switch {
	case score >= r.CriticalAt:
		return DiabetesCritical
	case score >= r.HighAt:
		return DiabetesHigh
	case score >= r.ModerateAt:
		return DiabetesModerate
	}
	return DiabetesLow
}
