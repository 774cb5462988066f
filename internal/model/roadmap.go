package model

// RoadmapPhase is one milestone group on the public roadmap.
type RoadmapPhase struct {
	Phase  string   `json:"phase"`
	Status string   `json:"status"`
	Items  []string `json:"items"`
}

// Done reports whether the phase has shipped.
func (p RoadmapPhase) Done() bool {
	return p.Status == "Completed"
}

// Roadmap is the product roadmap shown on /roadmap.
var Roadmap = []RoadmapPhase{
	{
		Phase:  "Phase 1: Foundation",
		Status: "Completed",
		Items: []string{
			"Core DeepResearch AI Engine development",
			"Gemini 3 Pro integration for deep reasoning",
			"Live Web Search grounding for real-time intel",
			"Responsive Dark Mode Dashboard UI",
		},
	},
	{
		Phase:  "Phase 2: Intelligence +",
		Status: "In Progress",
		Items: []string{
			"Kill Script V2 with emotional sentiment analysis",
			"One-click PDF Export for sales battlecards",
			"CRM Connectors (HubSpot, Salesforce, Pipedrive)",
			"Multi-competitor comparison matrix",
		},
	},
	{
		Phase:  "Phase 3: Automation",
		Status: "Planned (Q3 2025)",
		Items: []string{
			"Slack/Discord alerts for competitor pricing updates",
			"Developer API V1 public release",
			"White-labeled reports for agencies",
			"Collaborative Team Workspaces",
		},
	},
	{
		Phase:  "Phase 4: Predictive",
		Status: "2026 Strategy",
		Items: []string{
			"AI Market Trend Prediction algorithms",
			"Automated SWOT updates via social listening",
			"Historical messaging evolution tracking",
			"Voice-enabled Sales Coach (Live API)",
		},
	},
}
