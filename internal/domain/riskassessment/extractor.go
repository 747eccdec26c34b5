package riskassessment

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrInvalidQuestionnaire is wrapped by every validation failure raised by
// Extract.
var ErrInvalidQuestionnaire = errors.New("invalid questionnaire")

const maxAge = 130

var validSeverities = map[string]bool{
	"low": true, "mild": true, "moderate": true, "medium": true,
	"high": true, "severe": true, "critical": true,
}

var numberPattern = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

type entry struct {
	code Code
	text string
}

// ExtractedMedicalData is a read-only lookup view over one questionnaire.
type ExtractedMedicalData struct {
	userID         string
	vocab          *Vocabulary
	symptoms       []entry
	factors        []entry
	emergencyFlags []string

	age     int
	hasAge  bool
	gender  Gender
	bmi     float64
	hasBMI  bool
	neck    float64
	hasNeck bool
}

// Extract validates q and builds the lookup view used by the assessors.
func Extract(q *ProcessedQuestionnaire, vocab *Vocabulary) (*ExtractedMedicalData, error) {
	if q == nil {
		return nil, fmt.Errorf("%w: questionnaire is required", ErrInvalidQuestionnaire)
	}
	if strings.TrimSpace(q.UserID) == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrInvalidQuestionnaire)
	}
	if vocab == nil {
		vocab = DefaultVocabulary()
	}

	d := &ExtractedMedicalData{
		userID: q.UserID,
		vocab:  vocab,
		gender: GenderUnknown,
	}

	for i, s := range q.ExtractedSymptoms {
		if strings.TrimSpace(s.Symptom) == "" && strings.TrimSpace(s.Code) == "" {
			return nil, fmt.Errorf("%w: extractedSymptoms[%d]: symptom is required", ErrInvalidQuestionnaire, i)
		}
		if err := checkSeverity(s.Severity); err != nil {
			return nil, fmt.Errorf("%w: extractedSymptoms[%d]: %v", ErrInvalidQuestionnaire, i, err)
		}
		d.symptoms = append(d.symptoms, newEntry(s.Code, s.Symptom, vocab))
	}

	for i, f := range q.RiskFactors {
		if strings.TrimSpace(f.Factor) == "" && strings.TrimSpace(f.Code) == "" {
			return nil, fmt.Errorf("%w: riskFactors[%d]: factor is required", ErrInvalidQuestionnaire, i)
		}
		if err := checkSeverity(f.Severity); err != nil {
			return nil, fmt.Errorf("%w: riskFactors[%d]: %v", ErrInvalidQuestionnaire, i, err)
		}
		d.factors = append(d.factors, newEntry(f.Code, f.Factor, vocab))
	}

	for _, flag := range q.EmergencyFlags {
		if flag = strings.TrimSpace(flag); flag != "" {
			d.emergencyFlags = append(d.emergencyFlags, flag)
		}
	}

	if err := d.readDemographics(q.Responses); err != nil {
		return nil, err
	}
	return d, nil
}

func checkSeverity(sev string) error {
	if sev == "" {
		return nil
	}
	if !validSeverities[strings.ToLower(strings.TrimSpace(sev))] {
		return fmt.Errorf("invalid severity: %s", sev)
	}
	return nil
}

// newEntry prefers the upstream code, then free text that is itself a known
// code. Anything else is kept as folded text for the alias fallback.
func newEntry(code, text string, vocab *Vocabulary) entry {
	folded := fold(text)
	if c := strings.TrimSpace(code); c != "" {
		return entry{code: Code(strings.ToLower(c)), text: folded}
	}
	if c, ok := vocab.Resolve(folded); ok {
		return entry{code: c, text: folded}
	}
	return entry{text: folded}
}

func (d *ExtractedMedicalData) readDemographics(responses []Response) error {
	var weight, height float64
	var hasWeight, hasHeight, ageSeen, genderSeen bool

	for _, r := range responses {
		words := questionWords(r.Question)
		answer := fold(r.Answer)

		switch {
		case !ageSeen && words.any("idade", "age"):
			ageSeen = true
			m := numberPattern.FindString(answer)
			if m == "" {
				return fmt.Errorf("%w: age answer %q is not a number", ErrInvalidQuestionnaire, r.Answer)
			}
			age, err := strconv.Atoi(strings.FieldsFunc(m, isDecimalSep)[0])
			if err != nil || age < 0 || age > maxAge {
				return fmt.Errorf("%w: age %q out of range", ErrInvalidQuestionnaire, r.Answer)
			}
			d.age, d.hasAge = age, true

		case !genderSeen && words.any("sexo", "gender", "sex", "genero"):
			genderSeen = true
			d.gender = parseGender(answer)

		case !d.hasBMI && words.any("imc", "bmi"):
			d.bmi, d.hasBMI = parseNumber(answer)

		case !d.hasNeck && words.any("pescoco", "neck"):
			d.neck, d.hasNeck = parseNumber(answer)

		case !hasWeight && words.any("peso", "weight"):
			weight, hasWeight = parseNumber(answer)

		case !hasHeight && words.any("altura", "height"):
			height, hasHeight = parseNumber(answer)
		}
	}

	if !d.hasBMI && hasWeight && hasHeight {
		if height > 3 {
			height /= 100
		}
		if height > 0 {
			d.bmi = weight / (height * height)
			d.hasBMI = true
		}
	}
	return nil
}

func parseGender(answer string) Gender {
	switch strings.TrimSpace(answer) {
	case "masculino", "male", "m", "homem":
		return GenderMale
	case "feminino", "female", "f", "mulher":
		return GenderFemale
	}
	return GenderUnknown
}

func parseNumber(s string) (float64, bool) {
	m := numberPattern.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.Replace(m, ",", ".", 1), 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

func isDecimalSep(r rune) bool { return r == '.' || r == ',' }

type wordSet map[string]bool

func questionWords(q string) wordSet {
	ws := wordSet{}
	for _, w := range strings.FieldsFunc(fold(q), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		ws[w] = true
	}
	return ws
}

func (ws wordSet) any(keys ...string) bool {
	for _, k := range keys {
		if ws[k] {
			return true
		}
	}
	return false
}

// fold lower-cases s, strips diacritics and collapses '_', '-' and
// whitespace runs to a single space, so "Pensamento  suicida" and
// "pensamento_suicida" fold alike and "Palpitação" matches "palpitac".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.FieldsFunc(strings.ToLower(out), isWordSeparator), " ")
}

func isWordSeparator(r rune) bool {
	return r == '_' || r == '-' || unicode.IsSpace(r)
}

// HasSymptom reports whether the questionnaire mentions the symptom. Coded
// entries match exactly; uncoded entries fall back to alias substrings.
func (d *ExtractedMedicalData) HasSymptom(c Code) bool {
	return d.matches(d.symptoms, c)
}

// HasRiskFactor is HasSymptom for the risk-factor records.
func (d *ExtractedMedicalData) HasRiskFactor(c Code) bool {
	return d.matches(d.factors, c)
}

func (d *ExtractedMedicalData) matches(entries []entry, c Code) bool {
	for _, e := range entries {
		if e.code != "" {
			if e.code == c {
				return true
			}
			continue
		}
		if containsAlias(d.unshadowed(e.text, c), d.vocab.Aliases(c)) {
			return true
		}
	}
	return false
}

// unshadowed blanks out the phrases of the codes that are more specific than
// c, so only what is left can count as c.
func (d *ExtractedMedicalData) unshadowed(text string, c Code) string {
	for _, specific := range d.vocab.ShadowedBy(c) {
		for _, alias := range d.vocab.Aliases(specific) {
			text = strings.ReplaceAll(text, alias, "|")
		}
	}
	return text
}

func containsAlias(text string, aliases []string) bool {
	for _, alias := range aliases {
		if strings.Contains(text, alias) {
			return true
		}
	}
	return false
}

// HasAny reports whether any of the codes is present as a symptom or a risk
// factor.
func (d *ExtractedMedicalData) HasAny(codes ...Code) bool {
	for _, c := range codes {
		if d.HasSymptom(c) || d.HasRiskFactor(c) {
			return true
		}
	}
	return false
}

func (d *ExtractedMedicalData) UserID() string { return d.userID }

// Age returns the patient age and whether it was answered.
func (d *ExtractedMedicalData) Age() (int, bool) { return d.age, d.hasAge }

func (d *ExtractedMedicalData) Gender() Gender { return d.gender }

func (d *ExtractedMedicalData) BMI() (float64, bool) { return d.bmi, d.hasBMI }

func (d *ExtractedMedicalData) NeckCircumference() (float64, bool) { return d.neck, d.hasNeck }

// EmergencyFlags returns the upstream flags. They are informational and never
// scored.
func (d *ExtractedMedicalData) EmergencyFlags() []string {
	out := make([]string, len(d.emergencyFlags))
	copy(out, d.emergencyFlags)
	return out
}

func (d *ExtractedMedicalData) SymptomCount() int { return len(d.symptoms) }

func (d *ExtractedMedicalData) ageAtLeast(n int) bool { return d.hasAge && d.age >= n }

func (d *ExtractedMedicalData) ageOver(n int) bool { return d.hasAge && d.age > n }
