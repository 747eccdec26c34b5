package riskassessment

import "testing"

func TestAssessCardiovascular_AcuteCoronarySyndrome(t *testing.T) {
	risk := AssessCardiovascular(mustExtract(t, questionnaire("dor_peito", "falta_ar")), DefaultRules())

	if risk.RiskLevel != CardioVeryHigh {
		t.Errorf("expected very_high, got %s", risk.RiskLevel)
	}
	if !containsString(risk.EmergencyIndicators, IndicatorAcuteCoronarySyndrome) {
		t.Errorf("expected ACS indicator, got %v", risk.EmergencyIndicators)
	}
	if risk.TimeToEscalation > 2 {
		t.Errorf("expected escalation within 2h, got %v", risk.TimeToEscalation)
	}
	if !risk.EscalationRequired {
		t.Error("expected escalation to be required")
	}
	if risk.OverallScore != 25 {
		t.Errorf("expected score 25, got %v", risk.OverallScore)
	}
}

func TestAssessCardiovascular_CardiacSyncope(t *testing.T) {
	risk := AssessCardiovascular(mustExtract(t, questionnaire("desmaio", "dor_peito")), DefaultRules())

	if len(risk.EmergencyIndicators) != 1 || risk.EmergencyIndicators[0] != IndicatorCardiacSyncope {
		t.Errorf("expected only the syncope indicator, got %v", risk.EmergencyIndicators)
	}
}

func TestAssessCardiovascular_FraminghamAgeBands(t *testing.T) {
	tests := []struct {
		age, gender string
		want        float64
	}{
		{"72", "masculino", 8},
		{"72", "feminino", 7},
		{"55", "masculino", 4},
		{"55", "feminino", 3},
		{"35", "masculino", 0},
		// Unknown gender uses the male bands.
		{"65", "", 6},
	}
	for _, tt := range tests {
		q := questionnaire().withAnswer("Idade", tt.age)
		if tt.gender != "" {
			q.withAnswer("Sexo", tt.gender)
		}
		risk := AssessCardiovascular(mustExtract(t, q), DefaultRules())
		if risk.FraminghamScore != tt.want {
			t.Errorf("age %s gender %q: expected %v, got %v", tt.age, tt.gender, tt.want, risk.FraminghamScore)
		}
	}
}

func TestAssessCardiovascular_LevelsAreMonotone(t *testing.T) {
	r := DefaultRules().Cardiovascular
	prev := -1
	for score := 0.0; score <= 40; score += 0.5 {
		sev := cardiovascularLevel(score, r).Severity()
		if sev < prev {
			t.Fatalf("level decreased at score %v", score)
		}
		prev = sev
	}
	if cardiovascularLevel(r.IntermediateAt, r) != CardioIntermediate {
		t.Error("threshold should be inclusive")
	}
}

func TestAssessCardiovascular_RiskFactorsOnly(t *testing.T) {
	q := questionnaire().withFactors("tabagismo", "hipertensao", "colesterol_alto")
	risk := AssessCardiovascular(mustExtract(t, q), DefaultRules())

	if risk.RiskFactors.Points != 9 {
		t.Errorf("expected 9 factor points, got %v", risk.RiskFactors.Points)
	}
	if risk.RiskLevel != CardioLow {
		t.Errorf("expected low, got %s", risk.RiskLevel)
	}
	if len(risk.EmergencyIndicators) != 0 {
		t.Errorf("expected no indicators, got %v", risk.EmergencyIndicators)
	}
	if !containsString(risk.Recommendations, "Smoking cessation program") {
		t.Errorf("expected smoking advice, got %v", risk.Recommendations)
	}
}

func TestAssessDiabetes_ClassicTriad(t *testing.T) {
	risk := AssessDiabetes(mustExtract(t, questionnaire("sede_excessiva", "fome_excessiva", "urina_frequente")), DefaultRules())

	if !risk.ClassicTriad.TriadComplete {
		t.Error("expected complete triad")
	}
	if risk.ClassicTriad.TriadScore != 60 {
		t.Errorf("expected triad score 60, got %v", risk.ClassicTriad.TriadScore)
	}
	if risk.RiskLevel != DiabetesHigh && risk.RiskLevel != DiabetesCritical {
		t.Errorf("expected high or critical, got %s", risk.RiskLevel)
	}
	if len(risk.EmergencyIndicators) != 0 {
		t.Errorf("triad alone is not an emergency, got %v", risk.EmergencyIndicators)
	}
	if risk.DKARisk != 40 {
		t.Errorf("expected DKA risk 40, got %v", risk.DKARisk)
	}
}

func TestAssessDiabetes_TriadWithWeightLossIsDKA(t *testing.T) {
	q := questionnaire("sede_excessiva", "fome_excessiva", "urina_frequente", "perda_peso", "halito_cetonico")
	risk := AssessDiabetes(mustExtract(t, q), DefaultRules())

	if !containsString(risk.EmergencyIndicators, IndicatorDKARisk) {
		t.Errorf("expected DKA indicator, got %v", risk.EmergencyIndicators)
	}
	if !containsString(risk.EmergencyIndicators, IndicatorKetosis) {
		t.Errorf("expected ketosis indicator, got %v", risk.EmergencyIndicators)
	}
	if risk.RiskLevel != DiabetesCritical {
		t.Errorf("expected critical, got %s", risk.RiskLevel)
	}
	if risk.DKARisk != 90 {
		t.Errorf("expected DKA risk 90, got %v", risk.DKARisk)
	}
	if risk.TimeToEscalation != DefaultRules().Diabetes.EmergencyHours {
		t.Errorf("expected emergency hours, got %v", risk.TimeToEscalation)
	}
}

func TestAssessDiabetes_DKARiskIsCapped(t *testing.T) {
	q := questionnaire("sede_excessiva", "fome_excessiva", "urina_frequente", "perda_peso",
		"halito_cetonico", "nausea_vomito", "dor_abdominal", "confusao_mental", "respiracao_kussmaul")
	risk := AssessDiabetes(mustExtract(t, q), DefaultRules())
	if risk.DKARisk != 100 {
		t.Errorf("expected DKA risk capped at 100, got %v", risk.DKARisk)
	}
	if len(risk.KetosisSymptoms) != 5 {
		t.Errorf("expected 5 ketosis symptoms, got %v", risk.KetosisSymptoms)
	}
}

func TestAssessDiabetes_ObesityFromBMI(t *testing.T) {
	risk := AssessDiabetes(mustExtract(t, questionnaire().withAnswer("IMC", "32")), DefaultRules())
	if !risk.AdditionalFactors.Obesity {
		t.Error("expected BMI >= 30 to count as obesity")
	}
}

func TestAssessMentalHealth_ImminentSuicideRisk(t *testing.T) {
	risk := AssessMentalHealth(mustExtract(t, questionnaire("pensamento_suicida", "plano_suicida")), DefaultRules())

	if risk.SuicideRisk.RiskLevel != SuicideImminent {
		t.Errorf("expected imminent, got %s", risk.SuicideRisk.RiskLevel)
	}
	if !risk.SuicideRisk.ImmediateIntervention {
		t.Error("expected immediate intervention")
	}
	if risk.RiskLevel != MentalSevere {
		t.Errorf("expected severe, got %s", risk.RiskLevel)
	}
	if risk.TimeToEscalation != 0 {
		t.Errorf("expected immediate escalation, got %v", risk.TimeToEscalation)
	}
	if !containsString(risk.EmergencyIndicators, IndicatorSuicideImminent) {
		t.Errorf("expected suicide indicator, got %v", risk.EmergencyIndicators)
	}
}

func TestAssessMentalHealth_SuicideTiers(t *testing.T) {
	tests := []struct {
		name     string
		symptoms []string
		want     SuicideRiskLevel
		level    MentalHealthLevel
	}{
		{"none", nil, SuicideNone, MentalLow},
		{"single risk factor", []string{"isolamento"}, SuicideLow, MentalLow},
		{"ideation only", []string{"pensamento_suicida"}, SuicideModerate, MentalModerate},
		{"prior attempt", []string{"tentativa_previa"}, SuicideHigh, MentalHigh},
		{"four risk factors", []string{"desesperanca", "isolamento", "abuso_substancias", "psicose"}, SuicideHigh, MentalHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			risk := AssessMentalHealth(mustExtract(t, questionnaire(tt.symptoms...)), DefaultRules())
			if risk.SuicideRisk.RiskLevel != tt.want {
				t.Errorf("expected suicide risk %s, got %s", tt.want, risk.SuicideRisk.RiskLevel)
			}
			if risk.RiskLevel != tt.level {
				t.Errorf("expected level %s, got %s", tt.level, risk.RiskLevel)
			}
		})
	}
}

func TestAssessMentalHealth_ScreeningBands(t *testing.T) {
	q := questionnaire("tristeza", "anedonia", "desesperanca", "preocupacao_excessiva", "inquietacao")
	risk := AssessMentalHealth(mustExtract(t, q), DefaultRules())

	if risk.Depression.Score != 9 || risk.Depression.Severity != "mild" {
		t.Errorf("unexpected depression screen: %+v", risk.Depression)
	}
	if risk.Anxiety.Score != 6 || risk.Anxiety.Severity != "mild" {
		t.Errorf("unexpected anxiety screen: %+v", risk.Anxiety)
	}
}

func TestAssessMentalHealth_ProtectiveFactors(t *testing.T) {
	q := questionnaire().withFactors("apoio_familiar", "dependentes")
	risk := AssessMentalHealth(mustExtract(t, q), DefaultRules())
	if len(risk.SuicideRisk.ProtectiveFactors) != 2 {
		t.Errorf("expected 2 protective factors, got %v", risk.SuicideRisk.ProtectiveFactors)
	}
}

func TestAssessRespiratory_SevereAsthma(t *testing.T) {
	risk := AssessRespiratory(mustExtract(t, questionnaire("falta_ar", "chiado", "nao_consegue_falar")), DefaultRules())

	if !containsString(risk.EmergencyIndicators, IndicatorSevereAsthma) {
		t.Errorf("expected severe asthma indicator, got %v", risk.EmergencyIndicators)
	}
	if risk.RiskLevel != RespiratoryCritical {
		t.Errorf("expected critical, got %s", risk.RiskLevel)
	}
}

func TestAssessRespiratory_COPDExacerbation(t *testing.T) {
	risk := AssessRespiratory(mustExtract(t, questionnaire("falta_ar", "escarro", "febre")), DefaultRules())
	if !containsString(risk.EmergencyIndicators, IndicatorCOPDExacerbation) {
		t.Errorf("expected COPD indicator, got %v", risk.EmergencyIndicators)
	}
	if risk.TimeToEscalation != DefaultRules().Respiratory.EmergencyHours {
		t.Errorf("expected emergency hours, got %v", risk.TimeToEscalation)
	}
}

func TestAssessRespiratory_SleepApneaScores(t *testing.T) {
	q := questionnaire("ronco", "apneia_observada", "sonolencia_diurna").
		withFactors("hipertensao").
		withAnswer("Idade", "55").
		withAnswer("Sexo", "masculino").
		withAnswer("IMC", "36").
		withAnswer("Circunferência do pescoço (cm)", "43")
	risk := AssessRespiratory(mustExtract(t, q), DefaultRules())

	if risk.SleepApnea.StopBangScore != 8 {
		t.Errorf("expected STOP-BANG 8, got %d", risk.SleepApnea.StopBangScore)
	}
	if risk.SleepApnea.BerlinScore != 5 {
		t.Errorf("expected Berlin 5, got %d", risk.SleepApnea.BerlinScore)
	}
	if risk.SleepApnea.Score != 29 {
		t.Errorf("expected apnea score 29, got %v", risk.SleepApnea.Score)
	}
	if risk.RiskLevel != RespiratoryHigh {
		t.Errorf("expected high, got %s", risk.RiskLevel)
	}
}

func TestAssessRespiratory_UnknownGenderIsNotMale(t *testing.T) {
	risk := AssessRespiratory(mustExtract(t, questionnaire("ronco")), DefaultRules())
	if risk.SleepApnea.StopBangScore != 1 {
		t.Errorf("expected only snoring to count, got %d", risk.SleepApnea.StopBangScore)
	}
	if risk.SleepApnea.BMI != nil {
		t.Error("expected BMI to be omitted when unknown")
	}
}

func TestTimeToEscalation_NonIncreasingWithSeverity(t *testing.T) {
	rules := DefaultRules()

	// Each slice runs from the least to the most severe outcome.
	domains := map[string][]float64{
		"cardiovascular": {
			cardiovascularHours(CardioLow, false, rules.Cardiovascular),
			cardiovascularHours(CardioIntermediate, false, rules.Cardiovascular),
			cardiovascularHours(CardioHigh, false, rules.Cardiovascular),
			cardiovascularHours(CardioVeryHigh, false, rules.Cardiovascular),
			cardiovascularHours(CardioVeryHigh, true, rules.Cardiovascular),
		},
		"diabetes": {
			diabetesHours(DiabetesLow, false, rules.Diabetes),
			diabetesHours(DiabetesModerate, false, rules.Diabetes),
			diabetesHours(DiabetesHigh, false, rules.Diabetes),
			diabetesHours(DiabetesCritical, false, rules.Diabetes),
			diabetesHours(DiabetesCritical, true, rules.Diabetes),
		},
		"mental health": {
			mentalHealthHours(MentalLow, false, rules.MentalHealth),
			mentalHealthHours(MentalModerate, false, rules.MentalHealth),
			mentalHealthHours(MentalHigh, false, rules.MentalHealth),
			mentalHealthHours(MentalSevere, false, rules.MentalHealth),
			mentalHealthHours(MentalSevere, true, rules.MentalHealth),
		},
		"respiratory": {
			respiratoryHours(RespiratoryLow, false, rules.Respiratory),
			respiratoryHours(RespiratoryModerate, false, rules.Respiratory),
			respiratoryHours(RespiratoryHigh, false, rules.Respiratory),
			respiratoryHours(RespiratoryCritical, false, rules.Respiratory),
			respiratoryHours(RespiratoryCritical, true, rules.Respiratory),
		},
	}
	for name, hours := range domains {
		t.Run(name, func(t *testing.T) {
			for i := 1; i < len(hours); i++ {
				if hours[i] > hours[i-1] {
					t.Errorf("step %d: %vh is later than the less severe %vh", i, hours[i], hours[i-1])
				}
			}
			if last := hours[len(hours)-1]; last > 2 {
				t.Errorf("emergency escalation should be within 2h, got %vh", last)
			}
		})
	}
}

func TestTimeToEscalation_AssessorsUseLevelHours(t *testing.T) {
	rules := DefaultRules()
	in, _ := domainRisks(t, questionnaire("dor_peito", "falta_ar", "pensamento_suicida", "plano_suicida"))

	if got, want := in.Cardiovascular.TimeToEscalation, cardiovascularHours(in.Cardiovascular.RiskLevel, true, rules.Cardiovascular); got != want {
		t.Errorf("cardiovascular: got %vh, want %vh", got, want)
	}
	if got, want := in.MentalHealth.TimeToEscalation, mentalHealthHours(in.MentalHealth.RiskLevel, true, rules.MentalHealth); got != want {
		t.Errorf("mental health: got %vh, want %vh", got, want)
	}
}
