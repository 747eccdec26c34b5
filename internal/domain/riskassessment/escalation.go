package riskassessment

type escalationPolicy struct {
	level    EscalationLevel
	channels []string
}

var escalationPolicies = map[EscalationTier]escalationPolicy{
	TierEmergency: {LevelEmergencyServices, []string{ChannelCall, ChannelSMS, ChannelWhatsApp}},
	TierUrgent:    {LevelPhysicianReview, []string{ChannelSMS, ChannelWhatsApp}},
	TierRoutine:   {LevelNurseReview, []string{ChannelWhatsApp, ChannelEmail}},
	TierNone:      {LevelAIOnly, []string{}},
}

// ResolveEscalation maps the composite tier to an escalation level and
// notification channels. TimeToEscalation is the shortest domain window.
func ResolveEscalation(in DomainRisks, c *CompositeRisk, rules *Rules) EscalationProtocol {
	policy, ok := escalationPolicies[c.EscalationTier]
	if !ok {
		policy = escalationPolicies[TierNone]
	}
	channels := make([]string, len(policy.channels))
	copy(channels, policy.channels)

	var hours float64
	for i, v := range in.views(rules.Composite) {
		if i == 0 || v.hours < hours {
			hours = v.hours
		}
	}

	return EscalationProtocol{
		Immediate:            c.EscalationTier == TierEmergency,
		Urgent:               c.EscalationTier == TierEmergency || c.EscalationTier == TierUrgent,
		TimeToEscalation:     hours,
		EscalationLevel:      policy.level,
		NotificationChannels: channels,
		AutomaticScheduling:  schedulesAutomatically(c.EscalationTier),
	}
}
