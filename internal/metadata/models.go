package metadata

import "unicode/utf8"

const (
	ProviderGoogle = "google"
	ProviderGemini = "gemini"
)

// GoogleTranslatePerMillion is the Cloud Translation v2 price in USD per
// million characters.
const GoogleTranslatePerMillion = 20.0

// CharsPerToken approximates Gemini tokenisation for cost estimates.
const CharsPerToken = 4

type GeminiModel struct {
	ID               string
	Label            string
	InputPerMillion  float64
	OutputPerMillion float64
}

var GeminiModels = []GeminiModel{
	{
		ID:               "gemini-2.5-flash",
		Label:            "Gemini 2.5 Flash",
		InputPerMillion:  0.30,
		OutputPerMillion: 2.50,
	},
	{
		ID:               "gemini-3-flash-preview",
		Label:            "Gemini 3 Flash (preview)",
		InputPerMillion:  0.50,
		OutputPerMillion: 3.00,
	},
	{
		ID:               "gemini-3-pro-preview",
		Label:            "Gemini 3 Pro (preview)",
		InputPerMillion:  2.00,
		OutputPerMillion: 12.00,
	},
}

const (
	DefaultGeminiModel            = "gemini-2.5-flash"
	DefaultGeminiInputPerMillion  = 2.00
	DefaultGeminiOutputPerMillion = 12.00
)

func GeminiModelIDs() []string {
	ids := make([]string, 0, len(GeminiModels))
	for _, m := range GeminiModels {
		ids = append(ids, m.ID)
	}
	return ids
}

func GeminiPricing(modelID string) (GeminiModel, bool) {
	for _, m := range GeminiModels {
		if m.ID == modelID {
			return m, true
		}
	}
	return GeminiModel{
		ID:               "default",
		Label:            "Default Gemini",
		InputPerMillion:  DefaultGeminiInputPerMillion,
		OutputPerMillion: DefaultGeminiOutputPerMillion,
	}, false
}

// CountCharacters counts Unicode code points across texts, the unit
// Google Translate bills. Combining marks and ZWJ sequences count per rune.
func CountCharacters(texts []string) int {
	total := 0
	for _, s := range texts {
		total += utf8.RuneCountInString(s)
	}
	return total
}

// EstimateTokens approximates the token count of n characters.
func EstimateTokens(chars int) int {
	if chars <= 0 {
		return 0
	}
	tokens := chars / CharsPerToken
	if tokens == 0 {
		tokens = 1
	}
	return tokens
}

// Estimate is the advisory cost of translating a document.
type Estimate struct {
	Provider   string
	Model      string
	Characters int
	Languages  int
	USD        float64
}

// EstimateCost prices translating chars source characters into languages
// target languages. Unknown providers are priced as Google Translate.
func EstimateCost(provider, model string, chars, languages int) Estimate {
	est := Estimate{Provider: provider, Model: model, Characters: chars, Languages: languages}
	if chars <= 0 || languages <= 0 {
		return est
	}
	switch provider {
	case ProviderGemini:
		pricing, _ := GeminiPricing(model)
		tokens := float64(EstimateTokens(chars) * languages)
		est.USD = tokens/1_000_000*pricing.InputPerMillion + tokens/1_000_000*pricing.OutputPerMillion
	default:
		est.USD = float64(chars) * float64(languages) / 1_000_000 * GoogleTranslatePerMillion
	}
	return est
}
