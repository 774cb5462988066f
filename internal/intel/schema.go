package intel

import "google.golang.org/genai"

func str() *genai.Schema {
	return &genai.Schema{Type: genai.TypeString}
}

func strList() *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: str()}
}

func object(required []string, props map[string]*genai.Schema) *genai.Schema {
	return &genai.Schema{Type: genai.TypeObject, Properties: props, Required: required}
}

func list(item *genai.Schema) *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: item}
}

// deepScanSchema declares {battlecard, killScript}. Every field is required.
var deepScanSchema = object(
	[]string{"battlecard", "killScript"},
	map[string]*genai.Schema{
		"battlecard": object(
			[]string{"companyName", "tagline", "overview", "strengths", "weaknesses", "keyFeatures", "pricingModel"},
			map[string]*genai.Schema{
				"companyName": str(),
				"tagline":     str(),
				"overview":    str(),
				"strengths":   strList(),
				"weaknesses":  strList(),
				"keyFeatures": list(object(
					[]string{"feature", "description"},
					map[string]*genai.Schema{"feature": str(), "description": str()},
				)),
				"pricingModel": str(),
			},
		),
		"killScript": object(
			[]string{"openingHook", "objections", "closingQuestion"},
			map[string]*genai.Schema{
				"openingHook": str(),
				"objections": list(object(
					[]string{"prospectSaying", "yourRebuttal"},
					map[string]*genai.Schema{"prospectSaying": str(), "yourRebuttal": str()},
				)),
				"closingQuestion": str(),
			},
		),
	},
)

// liveNewsSchema declares {news: [{title, url, snippet, date?}]}.
var liveNewsSchema = object(
	[]string{"news"},
	map[string]*genai.Schema{
		"news": list(object(
			[]string{"title", "url", "snippet"},
			map[string]*genai.Schema{"title": str(), "url": str(), "snippet": str(), "date": str()},
		)),
	},
)

// rebuttalsSchema declares {rebuttals: [{objection, rebuttal, strategy}]}.
var rebuttalsSchema = object(
	[]string{"rebuttals"},
	map[string]*genai.Schema{
		"rebuttals": list(object(
			[]string{"objection", "rebuttal", "strategy"},
			map[string]*genai.Schema{"objection": str(), "rebuttal": str(), "strategy": str()},
		)),
	},
)
