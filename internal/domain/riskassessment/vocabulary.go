package riskassessment

// Code is a normalized symptom or risk-factor identifier emitted by the
// upstream extractor. Codes are the Portuguese snake_case tokens used on the
// questionnaire wire format.
type Code string

// Symptom codes.
const (
	SymChestPain          Code = "dor_peito"
	SymDyspnea            Code = "falta_ar"
	SymPalpitations       Code = "palpitacao"
	SymSyncope            Code = "desmaio"
	SymPolydipsia         Code = "sede_excessiva"
	SymPolyphagia         Code = "fome_excessiva"
	SymPolyuria           Code = "urina_frequente"
	SymWeightLoss         Code = "perda_peso"
	SymFatigue            Code = "fadiga"
	SymBlurredVision      Code = "visao_turva"
	SymSlowHealing        Code = "cicatrizacao_lenta"
	SymFrequentInfections Code = "infeccoes_frequentes"
	SymKetoneBreath       Code = "halito_cetonico"
	SymKetosis            Code = "cetose"
	SymNauseaVomiting     Code = "nausea_vomito"
	SymAbdominalPain      Code = "dor_abdominal"
	SymAlteredMental      Code = "confusao_mental"
	SymKussmaul           Code = "respiracao_kussmaul"
	SymSadness            Code = "tristeza"
	SymAnhedonia          Code = "anedonia"
	SymSleepDisturbance   Code = "disturbio_sono"
	SymAppetiteChange     Code = "alteracao_apetite"
	SymConcentration      Code = "dificuldade_concentracao"
	SymGuilt              Code = "culpa"
	SymHopelessness       Code = "desesperanca"
	SymSuicidalIdeation   Code = "pensamento_suicida"
	SymSuicidePlan        Code = "plano_suicida"
	SymPriorAttempt       Code = "tentativa_previa"
	SymIsolation          Code = "isolamento"
	SymSubstanceAbuse     Code = "abuso_substancias"
	SymPsychosis          Code = "psicose"
	SymWorry              Code = "preocupacao_excessiva"
	SymRestlessness       Code = "inquietacao"
	SymIrritability       Code = "irritabilidade"
	SymMuscleTension      Code = "tensao_muscular"
	SymWheeze             Code = "chiado"
	SymChestTightness     Code = "aperto_peito"
	SymCough              Code = "tosse"
	SymNocturnal          Code = "sintomas_noturnos"
	SymExerciseTrigger    Code = "gatilho_exercicio"
	SymAllergenTrigger    Code = "gatilho_alergeno"
	SymPeakFlowReduced    Code = "pico_fluxo_reduzido"
	SymChronicCough       Code = "tosse_cronica"
	SymSputum             Code = "escarro"
	SymFever              Code = "febre"
	SymCannotSpeak        Code = "nao_consegue_falar"
	SymSnoring            Code = "ronco"
	SymObservedApnea      Code = "apneia_observada"
	SymDaytimeSleepiness  Code = "sonolencia_diurna"
)

// Risk-factor codes.
const (
	RFSmoking               Code = "tabagismo"
	RFDiabetes              Code = "diabetes"
	RFHypertension          Code = "hipertensao"
	RFHighCholesterol       Code = "colesterol_alto"
	RFFamilyHistoryCardiac  Code = "historico_familiar_cardiaco"
	RFFamilyHistoryDiabetes Code = "historico_familiar_diabetes"
	RFObesity               Code = "obesidade"
	RFOccupationalExposure  Code = "exposicao_ocupacional"
	RFFamilySupport         Code = "apoio_familiar"
	RFSpirituality          Code = "espiritualidade"
	RFDependents            Code = "dependentes"
)

// VocabularyVersion identifies the alias table below. Bump it whenever an
// alias is added or removed so stored assessments stay explainable.
const VocabularyVersion = "pt-BR/2024.2"

// Vocabulary maps codes to the free-text aliases used by the substring
// fallback for questionnaires that predate normalized codes. Codes and
// aliases are stored folded, the same way questionnaire text is.
type Vocabulary struct {
	Version  string
	aliases  map[Code][]string
	codes    map[string]Code
	shadowed map[Code][]Code
}

// NewVocabulary folds every code and alias. shadowedBy lists, per code, the
// more specific codes whose phrases must not also count as that code, so
// "historico familiar de diabetes" is not read as diabetes.
func NewVocabulary(version string, aliases map[Code][]string, shadowedBy map[Code][]Code) *Vocabulary {
	v := &Vocabulary{
		Version:  version,
		aliases:  make(map[Code][]string, len(aliases)),
		codes:    make(map[string]Code, len(aliases)),
		shadowed: shadowedBy,
	}
	for c, list := range aliases {
		key := fold(string(c))
		v.codes[key] = c
		folded := []string{key}
		seen := map[string]bool{key: true}
		for _, a := range list {
			if a = fold(a); a != "" && !seen[a] {
				seen[a] = true
				folded = append(folded, a)
			}
		}
		v.aliases[c] = folded
	}
	return v
}

// Resolve maps a folded free-text entry that is itself a known code to that
// code.
func (v *Vocabulary) Resolve(text string) (Code, bool) {
	c, ok := v.codes[text]
	return c, ok
}

// Aliases returns the folded aliases for a code. The code itself is always
// the first alias.
func (v *Vocabulary) Aliases(c Code) []string {
	if list, ok := v.aliases[c]; ok {
		return list
	}
	return []string{fold(string(c))}
}

// ShadowedBy returns the codes whose phrases hide a match of c.
func (v *Vocabulary) ShadowedBy(c Code) []Code { return v.shadowed[c] }

// DefaultVocabulary returns the built-in pt-BR/en alias table.
func DefaultVocabulary() *Vocabulary {
	return NewVocabulary(VocabularyVersion, defaultAliases, map[Code][]Code{
		RFDiabetes: {RFFamilyHistoryDiabetes},
	})
}

var defaultAliases = map[Code][]string{
	SymChestPain:          {"dor no peito", "dor toracica", "dor_toracica", "chest pain", "chest_pain"},
	SymDyspnea:            {"falta de ar", "dispneia", "dyspnea", "shortness of breath"},
	SymPalpitations:       {"palpitac", "palpitation", "coracao acelerado"},
	SymSyncope:            {"sincope", "syncope", "fainting", "desmaiou"},
	SymPolydipsia:         {"sede excessiva", "polidipsia", "polydipsia", "excessive thirst"},
	SymPolyphagia:         {"fome excessiva", "polifagia", "polyphagia", "excessive hunger"},
	SymPolyuria:           {"urina frequente", "poliuria", "polyuria", "frequent urination"},
	SymWeightLoss:         {"perda de peso", "emagrecimento", "weight loss"},
	SymFatigue:            {"cansaco", "fatigue", "exaustao"},
	SymBlurredVision:      {"visao turva", "visao embacada", "blurred vision"},
	SymSlowHealing:        {"cicatrizacao lenta", "feridas que nao cicatrizam", "slow healing"},
	SymFrequentInfections: {"infeccoes frequentes", "frequent infections"},
	SymKetoneBreath:       {"halito cetonico", "halito de fruta", "ketone breath", "fruity breath"},
	SymKetosis:            {"ketosis", "cetonuria"},
	SymNauseaVomiting:     {"nausea", "vomito", "vomiting", "enjoo"},
	SymAbdominalPain:      {"dor abdominal", "dor na barriga", "abdominal pain"},
	SymAlteredMental:      {"confusao", "alteracao do estado mental", "altered mental", "confusion"},
	SymKussmaul:           {"kussmaul"},
	SymSadness:            {"tristeza persistente", "humor deprimido", "sadness", "depressed mood"},
	SymAnhedonia:          {"perda de interesse", "anhedonia", "falta de prazer"},
	SymSleepDisturbance:   {"insonia", "disturbio do sono", "problemas para dormir", "insomnia", "sleep disturbance"},
	SymAppetiteChange:     {"alteracao de apetite", "mudanca de apetite", "appetite change"},
	SymConcentration:      {"dificuldade de concentracao", "falta de concentracao", "poor concentration"},
	SymGuilt:              {"sentimento de culpa", "guilt"},
	SymHopelessness:       {"sem esperanca", "hopelessness", "hopeless"},
	SymSuicidalIdeation:   {"pensamento suicida", "pensamentos suicidas", "pensamento de suicidio", "pensamentos de suicidio", "ideacao suicida", "suicidal ideation", "suicidal thoughts"},
	SymSuicidePlan:        {"plano de suicidio", "plano suicida", "planos suicidas", "suicide plan"},
	SymPriorAttempt:       {"tentativa_suicidio", "tentativa de suicidio", "tentativa previa", "prior suicide attempt", "previous attempt"},
	SymIsolation:          {"isolamento social", "isolation", "social withdrawal"},
	SymSubstanceAbuse:     {"abuso de substancias", "uso de drogas", "alcoolismo", "substance abuse"},
	SymPsychosis:          {"alucinac", "delirio", "psychosis", "hallucination"},
	SymWorry:              {"preocupacao excessiva", "ansiedade", "excessive worry", "worry"},
	SymRestlessness:       {"inquietude", "agitacao", "restlessness"},
	SymIrritability:       {"irritacao", "irritability"},
	SymMuscleTension:      {"tensao muscular", "muscle tension"},
	SymWheeze:             {"sibilancia", "chiado no peito", "wheez"},
	SymChestTightness:     {"aperto no peito", "chest tightness"},
	SymCough:              {"cough"},
	SymNocturnal:          {"sintomas noturnos", "acorda a noite", "nocturnal symptoms"},
	SymExerciseTrigger:    {"piora com exercicio", "exercise induced", "exercise trigger"},
	SymAllergenTrigger:    {"alergeno", "poeira", "allergen"},
	SymPeakFlowReduced:    {"pico de fluxo", "peak flow"},
	SymChronicCough:       {"tosse cronica", "tosse persistente", "chronic cough"},
	SymSputum:             {"catarro", "expectoracao", "sputum", "phlegm"},
	SymFever:              {"fever", "temperatura alta"},
	SymCannotSpeak:        {"nao consegue falar", "dificuldade para falar", "cannot speak", "unable to speak"},
	SymSnoring:            {"ronca", "snoring"},
	SymObservedApnea:      {"apneia observada", "para de respirar dormindo", "observed apnea"},
	SymDaytimeSleepiness:  {"sonolencia", "sono durante o dia", "daytime sleepiness"},

	RFSmoking:               {"fumante", "fuma", "smoker", "smoking"},
	RFDiabetes:              {"diabetic"},
	RFHypertension:          {"pressao alta", "pressao_alta", "hypertension"},
	RFHighCholesterol:       {"colesterol", "dislipidemia", "cholesterol"},
	RFFamilyHistoryCardiac:  {"historico familiar cardiaco", "familia com doenca cardiaca", "family history of heart disease"},
	RFFamilyHistoryDiabetes: {"historico familiar de diabetes", "familia com diabetes", "family history of diabetes"},
	RFObesity:               {"obeso", "obesity", "sobrepeso grave"},
	RFOccupationalExposure:  {"exposicao ocupacional", "poeira no trabalho", "occupational exposure"},
	RFFamilySupport:         {"apoio familiar", "suporte familiar", "family support"},
	RFSpirituality:          {"religios", "spirituality"},
	RFDependents:            {"filhos", "dependents"},
}
