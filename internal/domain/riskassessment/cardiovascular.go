package riskassessment

// AssessCardiovascular scores cardiovascular risk with a simplified
// Framingham model plus acute symptom points.
func AssessCardiovascular(data *ExtractedMedicalData, rules *Rules) *CardiovascularRisk {
	r := rules.Cardiovascular

	factors := CardiovascularFactors{
		Smoking:         data.HasAny(RFSmoking),
		Diabetes:        data.HasRiskFactor(RFDiabetes),
		Hypertension:    data.HasAny(RFHypertension),
		HighCholesterol: data.HasAny(RFHighCholesterol),
		FamilyHistory:   data.HasAny(RFFamilyHistoryCardiac),
	}
	factors.Points = sumIf(
		weighted{factors.Smoking, r.Smoking},
		weighted{factors.Diabetes, r.Diabetes},
		weighted{factors.Hypertension, r.Hypertension},
		weighted{factors.HighCholesterol, r.HighCholesterol},
		weighted{factors.FamilyHistory, r.FamilyHistory},
	)

	symptoms := CardiovascularSymptoms{
		ChestPain:    data.HasSymptom(SymChestPain),
		Dyspnea:      data.HasSymptom(SymDyspnea),
		Palpitations: data.HasSymptom(SymPalpitations),
		Syncope:      data.HasSymptom(SymSyncope),
	}
	symptoms.Points = sumIf(
		weighted{symptoms.ChestPain, r.ChestPain},
		weighted{symptoms.Dyspnea, r.Dyspnea},
		weighted{symptoms.Palpitations, r.Palpitations},
		weighted{symptoms.Syncope, r.Syncope},
	)

	framingham := framinghamAgePoints(data, r) + factors.Points
	score := framingham + symptoms.Points

	indicators := []string{}
	if symptoms.ChestPain && symptoms.Dyspnea {
		indicators = append(indicators, IndicatorAcuteCoronarySyndrome)
	}
	if symptoms.Syncope && symptoms.ChestPain {
		indicators = append(indicators, IndicatorCardiacSyncope)
	}
	emergency := len(indicators) > 0

	level := cardiovascularLevel(score, r)
	if emergency {
		level = CardioVeryHigh
	}

	return &CardiovascularRisk{
		OverallScore:        score,
		RiskLevel:           level,
		FraminghamScore:     framingham,
		RiskFactors:         factors,
		Symptoms:            symptoms,
		EmergencyIndicators: indicators,
		EscalationRequired:  emergency || level == CardioVeryHigh,
		TimeToEscalation:    cardiovascularHours(level, emergency, r),
		Recommendations:     cardiovascularAdvice(level, emergency, factors),
	}
}

func cardiovascularHours(level CardiovascularLevel, emergency bool, r CardiovascularRules) float64 {
	switch {
	case emergency:
		return r.EmergencyHours
	case level == CardioVeryHigh:
		return r.VeryHighHours
	}
	return r.DefaultHours
}

// framinghamAgePoints uses the male bands when gender is unknown.
func framinghamAgePoints(data *ExtractedMedicalData, r CardiovascularRules) float64 {
	age, ok := data.Age()
	if !ok {
		return 0
	}
	bands := r.MaleAgeBands
	if data.Gender() == GenderFemale {
		bands = r.FemaleAgeBands
	}
	for _, b := range bands {
		if age >= b.MinAge {
			return b.Points
		}
	}
	return 0
}

func cardiovascularLevel(score float64, r CardiovascularRules) CardiovascularLevel {
	switch {
	case score >= r.VeryHighAt:
		return CardioVeryHigh
	case score >= r.HighAt:
		return CardioHigh
	case score >= r.IntermediateAt:
		return CardioIntermediate
	}
	return CardioLow
}

func cardiovascularAdvice(level CardiovascularLevel, emergency bool, f CardiovascularFactors) []string {
	var out []string
	if emergency {
		out = append(out,
			"Call emergency services and do not drive to the hospital",
			"Chew 300mg aspirin if not allergic and no bleeding history",
		)
	}
	switch level {
	case CardioVeryHigh:
		out = append(out, "Cardiology evaluation with ECG and troponin")
	case CardioHigh:
		out = append(out, "Cardiology consultation within one week", "Resting ECG and lipid panel")
	case CardioIntermediate:
		out = append(out, "Primary care review of blood pressure and lipids")
	default:
		out = append(out, "Maintain regular physical activity and a balanced diet")
	}
	if f.Smoking {
		out = append(out, "Smoking cessation program")
	}
	if f.Hypertension {
		out = append(out, "Home blood pressure monitoring")
	}
	if f.HighCholesterol {
		out = append(out, "Lipid-lowering therapy review")
	}
	return out
}

type weighted struct {
	present bool
	points  float64
}

func sumIf(ws ...weighted) float64 {
	var total float64
	for _, w := range ws {
		if w.present {
			total += w.points
		}
	}
	return total
}
