package riskassessment

// Rules is the static clinical rule set. It is built once at startup by
// DefaultRules and shared read-only by every assessment; nothing in the
// pipeline writes to it.
type Rules struct {
	Vocabulary     *Vocabulary
	Cardiovascular CardiovascularRules
	Diabetes       DiabetesRules
	MentalHealth   MentalHealthRules
	Respiratory    RespiratoryRules
	Composite      CompositeRules
	Contacts       ContactNumbers
	Costs          FollowupCosts
}

// AgeBand awards Points when age >= MinAge. Bands are ordered oldest first.
type AgeBand struct {
	MinAge int
	Points float64
}

type CardiovascularRules struct {
	MaleAgeBands   []AgeBand
	FemaleAgeBands []AgeBand

	Smoking, Diabetes, Hypertension, HighCholesterol, FamilyHistory float64
	ChestPain, Dyspnea, Palpitations, Syncope                       float64

	IntermediateAt, HighAt, VeryHighAt float64

	EmergencyHours, VeryHighHours, DefaultHours float64
}

type DiabetesRules struct {
	TriadSymptom float64

	WeightLoss, Fatigue, BlurredVision, SlowHealing, FrequentInfections float64
	FamilyHistory, Obesity, AgeOver45, AgeOver65                        float64

	ModerateAt, HighAt, CriticalAt float64

	DKACompleteTriad, DKATriadWithWeightLoss, DKACap           float64
	KetoneBreath, NauseaVomiting, AbdominalPain, AlteredMental float64
	Kussmaul                                                   float64

	EmergencyHours, CriticalHours, HighHours, DefaultHours float64
}

type MentalHealthRules struct {
	// PHQ-9 style items.
	Sadness, Anhedonia, Fatigue, SleepDisturbance, AppetiteChange float64
	Concentration, Guilt, Hopelessness, SuicidalIdeation          float64

	// GAD-7 style items.
	Worry, Restlessness, AnxietyFatigue, AnxietyConcentration float64
	Irritability, MuscleTension, SleepProblems                float64

	ImminentBonus, HighBonus, ModerateBonus float64

	ModerateAt, HighAt, SevereAt float64

	HighRiskFactorCount, ModerateRiskFactorCount int

	ImminentHours, SevereHours, HighHours, ModerateHours, LowHours float64

	DepressionBands []SeverityBand
	AnxietyBands    []SeverityBand
}

// SeverityBand labels screening scores >= MinScore. Bands are ordered
// highest first.
type SeverityBand struct {
	MinScore float64
	Label    string
}

type RespiratoryRules struct {
	Wheeze, Dyspnea, ChestTightness, Cough, Nocturnal float64
	ExerciseTrigger, AllergenTrigger, PeakFlow        float64

	ChronicCough, Sputum, COPDDyspnea, SmokingHistory, AgeOver40, Occupational float64

	StopBangWeight, BerlinWeight float64

	BerlinBMI, StopBangBMI, NeckCircumference float64
	StopBangAge, COPDAge                      int

	ModerateAt, HighAt, CriticalAt float64

	EmergencyHours, CriticalHours, DefaultHours float64
}

type CompositeRules struct {
	CardiovascularWeight, DiabetesWeight, MentalHealthWeight, RespiratoryWeight float64

	MultiConditionBase float64

	DiabetesCardioSynergy, MentalHealthSynergy float64

	ElderlyAge, MiddleAge, MinorAge             int
	ElderlyFactor, MiddleAgeFactor, MinorFactor float64
	MaleCardioFactor, FemaleMentalHealthFactor  float64
	ModerateAt, HighAt, CriticalAt              float64
	UrgentEscalationHours                       float64
}

// ContactNumbers are dialled by emergency alerts.
type ContactNumbers struct {
	Emergency  string
	Fire       string
	CrisisLine string
	Poison     string
}

// FollowupCosts are indicative prices (BRL) attached to follow-up actions.
type FollowupCosts struct {
	EmergencyVisit     float64
	SpecialistConsult  float64
	LabPanel           float64
	Spirometry         float64
	Polysomnography    float64
	PrimaryCareVisit   float64
	PsychotherapyVisit float64
}

// DefaultRules returns the production rule set.
func DefaultRules() *Rules {
	return &Rules{
		Vocabulary: DefaultVocabulary(),
		Cardiovascular: CardiovascularRules{
			MaleAgeBands:    []AgeBand{{70, 8}, {60, 6}, {50, 4}, {40, 2}},
			FemaleAgeBands:  []AgeBand{{70, 7}, {60, 5}, {50, 3}, {40, 1}},
			Smoking:         4,
			Diabetes:        3,
			Hypertension:    3,
			HighCholesterol: 2,
			FamilyHistory:   2,
			ChestPain:       15,
			Dyspnea:         10,
			Palpitations:    5,
			Syncope:         20,
			IntermediateAt:  10,
			HighAt:          15,
			VeryHighAt:      20,
			EmergencyHours:  0.5,
			VeryHighHours:   2,
			DefaultHours:    12,
		},
		Diabetes: DiabetesRules{
			TriadSymptom:           20,
			WeightLoss:             15,
			Fatigue:                10,
			BlurredVision:          10,
			SlowHealing:            8,
			FrequentInfections:     8,
			FamilyHistory:          12,
			Obesity:                10,
			AgeOver45:              5,
			AgeOver65:              10,
			ModerateAt:             25,
			HighAt:                 40,
			CriticalAt:             60,
			DKACompleteTriad:       40,
			DKATriadWithWeightLoss: 30,
			DKACap:                 100,
			KetoneBreath:           20,
			NauseaVomiting:         15,
			AbdominalPain:          10,
			AlteredMental:          15,
			Kussmaul:               20,
			EmergencyHours:         2,
			CriticalHours:          12,
			HighHours:              24,
			DefaultHours:           72,
		},
		MentalHealth: MentalHealthRules{
			Sadness:                 3,
			Anhedonia:               3,
			Fatigue:                 2,
			SleepDisturbance:        2,
			AppetiteChange:          2,
			Concentration:           2,
			Guilt:                   2,
			Hopelessness:            3,
			SuicidalIdeation:        8,
			Worry:                   3,
			Restlessness:            3,
			AnxietyFatigue:          2,
			AnxietyConcentration:    3,
			Irritability:            3,
			MuscleTension:           2,
			SleepProblems:           2,
			ImminentBonus:           50,
			HighBonus:               30,
			ModerateBonus:           15,
			ModerateAt:              15,
			HighAt:                  25,
			SevereAt:                40,
			HighRiskFactorCount:     4,
			ModerateRiskFactorCount: 2,
			ImminentHours:           0,
			SevereHours:             2,
			HighHours:               12,
			ModerateHours:           48,
			LowHours:                168,
			DepressionBands: []SeverityBand{
				{20, "severe"}, {15, "moderately_severe"}, {10, "moderate"}, {5, "mild"}, {0, "minimal"},
			},
			AnxietyBands: []SeverityBand{
				{15, "severe"}, {10, "moderate"}, {5, "mild"}, {0, "minimal"},
			},
		},
		Respiratory: RespiratoryRules{
			Wheeze:            5,
			Dyspnea:           5,
			ChestTightness:    4,
			Cough:             3,
			Nocturnal:         6,
			ExerciseTrigger:   3,
			AllergenTrigger:   3,
			PeakFlow:          8,
			ChronicCough:      5,
			Sputum:            5,
			COPDDyspnea:       5,
			SmokingHistory:    10,
			AgeOver40:         3,
			Occupational:      4,
			StopBangWeight:    3,
			BerlinWeight:      1,
			BerlinBMI:         30,
			StopBangBMI:       35,
			NeckCircumference: 40,
			StopBangAge:       50,
			COPDAge:           40,
			ModerateAt:        15,
			HighAt:            25,
			CriticalAt:        40,
			EmergencyHours:    0.5,
			CriticalHours:     2,
			DefaultHours:      12,
		},
		Composite: CompositeRules{
			CardiovascularWeight:     0.30,
			DiabetesWeight:           0.25,
			MentalHealthWeight:       0.25,
			RespiratoryWeight:        0.20,
			MultiConditionBase:       1.5,
			DiabetesCardioSynergy:    1.8,
			MentalHealthSynergy:      1.4,
			ElderlyAge:               65,
			MiddleAge:                45,
			MinorAge:                 18,
			ElderlyFactor:            1.3,
			MiddleAgeFactor:          1.1,
			MinorFactor:              0.8,
			MaleCardioFactor:         1.2,
			FemaleMentalHealthFactor: 1.1,
			ModerateAt:               30,
			HighAt:                   50,
			CriticalAt:               70,
			UrgentEscalationHours:    2,
		},
		Contacts: ContactNumbers{
			Emergency:  "192",
			Fire:       "193",
			CrisisLine: "188",
			Poison:     "0800-722-6001",
		},
		Costs: FollowupCosts{
			EmergencyVisit:     0,
			SpecialistConsult:  350,
			LabPanel:           120,
			Spirometry:         180,
			Polysomnography:    900,
			PrimaryCareVisit:   150,
			PsychotherapyVisit: 200,
		},
	}
}

// WithContacts returns a copy of r using the given emergency and crisis
// numbers. Empty arguments keep the current value.
func (r *Rules) WithContacts(emergency, crisisLine string) *Rules {
	cp := *r
	if emergency != "" {
		cp.Contacts.Emergency = emergency
	}
	if crisisLine != "" {
		cp.Contacts.CrisisLine = crisisLine
	}
	return &cp
}
