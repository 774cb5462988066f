package intel

import "fmt"

// systemInstruction frames every deep scan.
const systemInstruction = `
You are the DeepResearch AI Strategic Engine.
Your goal is to dismantle a competitor and provide actionable intelligence across three pillars:
1. LIVE WEB CONTEXT: Use Search Grounding to find current (2025) news, pricing changes, or recent customer complaints.
2. INSTANT BATTLECARDS: A comprehensive SWOT and feature breakdown comparing the Target URL to the Home Turf URL.
3. KILL SCRIPTS: Sharp, conversational rebuttals designed to pivot from Target's perceived strengths to our actual advantages.

Analyze their messaging vs the user's company.
OUTPUT REQUIREMENTS:
1. Output MUST be a single, valid JSON object.
2. Focus on how the Target URL's strengths are weaknesses compared to the Home Turf URL.
3. Use Search Grounding extensively for current market data.
4. Be tactical, precise, and professional.
`

func deepScanPrompt(targetURL, homeURL, industry string) string {
	return fmt.Sprintf(`Execute a full competitive analysis for the %s sector.
Target: %s
Home Turf: %s

Leverage Google Search to provide up-to-the-minute intelligence from 2025. Output JSON only.`,
		industry, targetURL, homeURL)
}

func liveNewsPrompt(targetURL string) string {
	return fmt.Sprintf("Find the latest 3-5 news articles, press releases, or blog posts for the company at %s. "+
		"Focus on 2024-2025 developments. Output as JSON.", targetURL)
}

func rebuttalsPrompt(targetURL, homeURL, industry string) string {
	return fmt.Sprintf(`Generate 4 high-impact tactical rebuttals for a sales call in the %s industry.
Target Competitor: %s
Our Product: %s
Focus on specific vulnerabilities identified via live search like pricing tiers, missing integrations, or support complaints. Output as JSON.`,
		industry, targetURL, homeURL)
}
