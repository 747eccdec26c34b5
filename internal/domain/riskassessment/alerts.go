package riskassessment

import "sort"

type alertTemplate struct {
	severity  AlertSeverity
	condition string
	minutes   int
	actions   []string
	automated bool
	contacts  func(ContactNumbers) []string
}

func emergencyLine(c ContactNumbers) []string { return []string{c.Emergency} }

var alertTemplates = map[string]alertTemplate{
	IndicatorAcuteCoronarySyndrome: {
		severity:  AlertImmediate,
		condition: "Suspected acute coronary syndrome",
		minutes:   5,
		actions: []string{
			"Call emergency services now",
			"Keep the patient at rest and seated",
			"Give 300mg aspirin if not allergic",
			"Prepare to start CPR if the patient becomes unresponsive",
		},
		automated: true,
		contacts:  emergencyLine,
	},
	IndicatorCardiacSyncope: {
		severity:  AlertImmediate,
		condition: "Syncope with chest pain, possible arrhythmia",
		minutes:   10,
		actions: []string{
			"Call emergency services now",
			"Lay the patient down with legs raised",
			"Do not leave the patient alone",
		},
		automated: true,
		contacts:  emergencyLine,
	},
	IndicatorDKARisk: {
		severity:  AlertCritical,
		condition: "Diabetic ketoacidosis risk",
		minutes:   60,
		actions: []string{
			"Go to the emergency department for capillary glucose and ketones",
			"Drink water in small sips while travelling",
			"Do not exercise until evaluated",
		},
		automated: true,
		contacts:  emergencyLine,
	},
	IndicatorKetosis: {
		severity:  AlertHigh,
		condition: "Ketosis symptoms detected",
		minutes:   120,
		actions: []string{
			"Measure capillary glucose and urine ketones",
			"Seek medical care today if ketones are positive",
		},
		contacts: emergencyLine,
	},
	IndicatorSuicideImminent: {
		severity:  AlertImmediate,
		condition: "Imminent suicide risk",
		minutes:   0,
		actions: []string{
			"Connect the patient with the crisis line immediately",
			"Do not leave the patient alone",
			"Remove access to lethal means",
			"Dispatch emergency services if contact is lost",
		},
		automated: true,
		contacts: func(c ContactNumbers) []string {
			return []string{c.CrisisLine, c.Emergency}
		},
	},
	IndicatorSevereAsthma: {
		severity:  AlertImmediate,
		condition: "Severe asthma exacerbation",
		minutes:   15,
		actions: []string{
			"Use the rescue inhaler now, up to 4 puffs every 20 minutes",
			"Sit upright and call emergency services",
		},
		automated: true,
		contacts:  emergencyLine,
	},
	IndicatorCOPDExacerbation: {
		severity:  AlertCritical,
		condition: "COPD exacerbation with suspected infection",
		minutes:   60,
		actions: []string{
			"Seek emergency evaluation for oxygen saturation and chest X-ray",
			"Use the prescribed bronchodilator",
		},
		automated: true,
		contacts:  emergencyLine,
	},
}

var alertSeverityRank = map[AlertSeverity]int{
	AlertImmediate: 0,
	AlertCritical:  1,
	AlertHigh:      2,
}

// GenerateEmergencyAlerts emits at least one alert per emergency indicator.
// Indicators without a template get a generic high alert. The result is
// ordered by severity, then by time to action.
func GenerateEmergencyAlerts(in DomainRisks, _ *CompositeRisk, rules *Rules) []EmergencyAlert {
	alerts := []EmergencyAlert{}
	for _, v := range in.views(rules.Composite) {
		for _, ind := range v.indicators {
			alerts = append(alerts, buildAlert(ind, v.domain, rules.Contacts))
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		a, b := alerts[i], alerts[j]
		if alertSeverityRank[a.Severity] != alertSeverityRank[b.Severity] {
			return alertSeverityRank[a.Severity] < alertSeverityRank[b.Severity]
		}
		return a.TimeToAction < b.TimeToAction
	})
	return alerts
}

func buildAlert(indicator string, domain Domain, contacts ContactNumbers) EmergencyAlert {
	tpl, ok := alertTemplates[indicator]
	if !ok {
		return EmergencyAlert{
			Severity:       AlertHigh,
			Condition:      indicator,
			Domain:         domain,
			TimeToAction:   60,
			Actions:        []string{"Contact the care team for clinical review"},
			ContactNumbers: []string{contacts.Emergency},
		}
	}
	actions := make([]string, len(tpl.actions))
	copy(actions, tpl.actions)
	return EmergencyAlert{
		Severity:       tpl.severity,
		Condition:      tpl.condition,
		Domain:         domain,
		TimeToAction:   tpl.minutes,
		Actions:        actions,
		ContactNumbers: tpl.contacts(contacts),
		Automated:      tpl.automated,
	}
}
