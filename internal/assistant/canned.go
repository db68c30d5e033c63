package assistant

import (
	"strings"

	"traffic-dashboard-backend/internal/domain"
)

// cannedRule — набор ключевых слов и ответ на них
type cannedRule struct {
	keywords []string
	reply    func() string
}

func fixed(key string) func() string {
	return func() string { return domain.ChatResponses[key] }
}

func wrapped(heading, key, footer string) func() string {
	return func() string {
		return "**" + heading + ":**\n\n" + domain.ChatResponses[key] + "\n\n" + footer
	}
}

var citizenRules = []cannedRule{
	{[]string{"congestion", "traffic", "jam"}, fixed("congestion")},
	{[]string{"route", "best way", "how to get"}, fixed("route")},
	{[]string{"predict", "forecast", "next", "later"}, fixed("prediction")},
	{[]string{"stable", "reliable", "consistent"}, fixed("stability")},
	{[]string{"peak", "busy", "rush"}, fixed("peak")},
	{[]string{"weather", "rain", "monsoon"}, fixed("weather")},
}

var authorityRules = []cannedRule{
	{[]string{"congestion", "traffic", "jam"}, wrapped("Authority Analysis", "congestion",
		"**Recommended Actions:**\n• Deploy traffic personnel to Guindy junction\n• Activate alternate route signage for OMR traffic\n• Consider signal timing adjustments at T. Nagar")},
	{[]string{"route", "best way", "diversion"}, wrapped("Route Analysis", "route",
		"**Diversion Recommendations:**\n• Direct OMR traffic to ECR via Perungudi\n• Use Inner Ring Road as primary alternate\n• Avoid Mount Road during peak hours")},
	{[]string{"predict", "forecast", "next", "expect"}, wrapped("Traffic Prediction", "prediction",
		"**Planning Recommendations:**\n• Pre-position resources at Guindy by 4:30 PM\n• Alert backup teams for OMR corridor\n• Prepare diversion routes for T. Nagar area")},
	{[]string{"cost", "economic", "fuel", "emission"}, func() string { return authorityCostReply }},
	{[]string{"stable", "reliable"}, wrapped("Reliability Analysis", "stability",
		"**Operational Guidance:**\n• Prioritize patrol presence on unstable routes\n• Monitor Guindy and OMR for sudden changes\n• ECR is most reliable for emergency diversions")},
}

const authorityCostReply = "**Economic Impact Analysis:**\n\nCurrent congestion is estimated to cause:\n• Fuel wastage: ~2,500 liters/day\n• Time loss: ~15,000 person-hours/day\n• CO2 emissions: ~5,775 kg/day\n• Economic cost: ₹4.5 lakhs/day\n\nUse the Cost Calculator for detailed analysis."

const authorityHelpReply = "I can help with traffic analysis, route recommendations, congestion predictions, and cost impact assessments. You can ask about:\n\n• Current traffic conditions and hotspots\n• Route stability and reliability\n• Traffic predictions for the next 3 hours\n• Economic and environmental impact\n• Recommended actions for traffic management"

// Canned — ответ по ключевым словам, без внешнего LLM.
// Правила проверяются по порядку, побеждает первое совпадение.
func Canned(t domain.ChatType, text string) string {
	lower := strings.ToLower(text)
	rules, fallback := citizenRules, domain.ChatResponses["default"]
	if t == domain.ChatAuthority {
		rules, fallback = authorityRules, authorityHelpReply
	}
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.reply()
			}
		}
	}
	return fallback
}
