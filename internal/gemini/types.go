package gemini

// SegmentData is one string to translate, keyed by its position in the batch.
type SegmentData struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// RequestData represents the full input JSON structure sent to Gemini.
type RequestData struct {
	Source   string        `json:"source"`
	Target   string        `json:"target"`
	Segments []SegmentData `json:"segments"`
}

// TranslatedSegment represents a single translated segment in the output JSON.
type TranslatedSegment struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// ResponseData represents the full output JSON structure expected from Gemini.
type ResponseData struct {
	Translations []TranslatedSegment `json:"translations"`
	Usage        UsageMetadata       `json:"-"` // Not part of Gemini's JSON response, filled manually
}

// UsageMetadata holds token usage information.
type UsageMetadata struct {
	PromptTokenCount     int
	CandidatesTokenCount int
	TotalTokenCount      int
}

func (u *UsageMetadata) add(other UsageMetadata) {
	u.PromptTokenCount += other.PromptTokenCount
	u.CandidatesTokenCount += other.CandidatesTokenCount
	u.TotalTokenCount += other.TotalTokenCount
}
