package riskassessment

// AssessMentalHealth combines PHQ-9 and GAD-7 style screens with a rule-based
// suicide risk tier. Ideation with a plan is always imminent.
func AssessMentalHealth(data *ExtractedMedicalData, rules *Rules) *MentalHealthRisk {
	r := rules.MentalHealth

	depression := screen(data, r.DepressionBands, []screenItem{
		{SymSadness, r.Sadness},
		{SymAnhedonia, r.Anhedonia},
		{SymFatigue, r.Fatigue},
		{SymSleepDisturbance, r.SleepDisturbance},
		{SymAppetiteChange, r.AppetiteChange},
		{SymConcentration, r.Concentration},
		{SymGuilt, r.Guilt},
		{SymHopelessness, r.Hopelessness},
		{SymSuicidalIdeation, r.SuicidalIdeation},
	})
	anxiety := screen(data, r.AnxietyBands, []screenItem{
		{SymWorry, r.Worry},
		{SymRestlessness, r.Restlessness},
		{SymFatigue, r.AnxietyFatigue},
		{SymConcentration, r.AnxietyConcentration},
		{SymIrritability, r.Irritability},
		{SymMuscleTension, r.MuscleTension},
		{SymSleepDisturbance, r.SleepProblems},
	})

	suicide := assessSuicideRisk(data, r)

	score := depression.Score + anxiety.Score
	switch suicide.RiskLevel {
	case SuicideImminent:
		score += r.ImminentBonus
	case SuicideHigh:
		score += r.HighBonus
	case SuicideModerate:
		score += r.ModerateBonus
	}

	var level MentalHealthLevel
	switch {
	case score >= r.SevereAt || suicide.RiskLevel == SuicideImminent:
		level = MentalSevere
	case score >= r.HighAt || suicide.RiskLevel == SuicideHigh:
		level = MentalHigh
	case score >= r.ModerateAt || suicide.RiskLevel == SuicideModerate:
		level = MentalModerate
	default:
		level = MentalLow
	}

	indicators := []string{}
	if suicide.RiskLevel == SuicideImminent {
		indicators = append(indicators, IndicatorSuicideImminent)
	}

	return &MentalHealthRisk{
		OverallScore:        score,
		RiskLevel:           level,
		Depression:          depression,
		Anxiety:             anxiety,
		SuicideRisk:         suicide,
		EmergencyIndicators: indicators,
		EscalationRequired:  suicide.ImmediateIntervention || level == MentalSevere || suicide.RiskLevel == SuicideHigh,
		TimeToEscalation:    mentalHealthHours(level, suicide.ImmediateIntervention, r),
	}
}

func mentalHealthHours(level MentalHealthLevel, imminent bool, r MentalHealthRules) float64 {
	switch {
	case imminent:
		return r.ImminentHours
	case level == MentalSevere:
		return r.SevereHours
	case level == MentalHigh:
		return r.HighHours
	case level == MentalModerate:
		return r.ModerateHours
	}
	return r.LowHours
}

type screenItem struct {
	code   Code
	points float64
}

func screen(data *ExtractedMedicalData, bands []SeverityBand, items []screenItem) ScreeningResult {
	res := ScreeningResult{Indicators: []string{}}
	for _, it := range items {
		if data.HasSymptom(it.code) {
			res.Score += it.points
			res.Indicators = append(res.Indicators, string(it.code))
		}
	}
	for _, b := range bands {
		if res.Score >= b.MinScore {
			res.Severity = b.Label
			break
		}
	}
	return res
}

func assessSuicideRisk(data *ExtractedMedicalData, r MentalHealthRules) SuicideRisk {
	s := SuicideRisk{
		Ideation:          data.HasSymptom(SymSuicidalIdeation),
		Plan:              data.HasSymptom(SymSuicidePlan),
		PriorAttempt:      data.HasSymptom(SymPriorAttempt),
		RiskFactors:       []string{},
		ProtectiveFactors: []string{},
	}

	for _, c := range []Code{SymSuicidePlan, SymPriorAttempt, SymHopelessness, SymIsolation, SymSubstanceAbuse, SymPsychosis} {
		if data.HasSymptom(c) {
			s.RiskFactors = append(s.RiskFactors, string(c))
		}
	}
	for _, c := range []Code{RFFamilySupport, RFSpirituality, RFDependents} {
		if data.HasRiskFactor(c) {
			s.ProtectiveFactors = append(s.ProtectiveFactors, string(c))
		}
	}

	n := len(s.RiskFactors)
	switch {
	case s.Plan && s.Ideation:
		s.RiskLevel = SuicideImminent
		s.ImmediateIntervention = true
	case n >= r.HighRiskFactorCount || s.PriorAttempt:
		s.RiskLevel = SuicideHigh
	case n >= r.ModerateRiskFactorCount || s.Ideation:
		s.RiskLevel = SuicideModerate
	case n == 1:
		s.RiskLevel = SuicideLow
	default:
		s.RiskLevel = SuicideNone
	}
	return s
}
