package gemini

import (
	"context"
	"fmt"
	"sync"

	"github.com/Safe-Deal/json-i18n-whisper/internal/apperrors"
	"github.com/Safe-Deal/json-i18n-whisper/internal/language"
)

// GetSystemPrompt generates the system prompt for one language pair.
func GetSystemPrompt(sourceName, targetName string) string {
	return fmt.Sprintf(`You are a professional %s to %s translator of software user interface strings.

1. Input Structure:
- A JSON object with 'source', 'target' and 'segments'.
- Each segment has an 'id' and a 'text' to translate.

2. Output Structure:
- A JSON object with a 'translations' field containing an array of objects.
- Each object must have 'id' (the segment id) and 'text' (the %s translation).
- Return exactly one object per input segment. Respond ONLY with the JSON object.

3. Rules:
- Keep placeholders such as {{name}}, {0}, %%s and HTML tags unchanged.
- Keep leading and trailing whitespace. An empty text stays empty.
- Write ONLY the %s translation; do not include the %s source text.`,
		sourceName, targetName, targetName, targetName, sourceName)
}

// BatchTranslator adapts a Generator to translate plain string batches.
type BatchTranslator struct {
	gen     Generator
	usage   UsageMetadata
	usageMu sync.Mutex
}

func NewBatchTranslator(gen Generator) *BatchTranslator {
	return &BatchTranslator{gen: gen}
}

// Translate sends texts in one request and returns the translations in input order.
func (t *BatchTranslator) Translate(ctx context.Context, texts []string, source, target string) ([]string, error) {
	if len(texts) == 0 {
		return []string{}, nil
	}
	t.gen.SetSystemInstruction(GetSystemPrompt(displayName(source), displayName(target)))

	req := RequestData{Source: source, Target: target, Segments: make([]SegmentData, len(texts))}
	for i, s := range texts {
		req.Segments[i] = SegmentData{ID: i + 1, Text: s}
	}

	resp, err := t.gen.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	t.usageMu.Lock()
	t.usage.add(resp.Usage)
	t.usageMu.Unlock()

	out, err := mergeResults(req.Segments, resp)
	if err != nil {
		return nil, apperrors.Validation(err)
	}
	return out, nil
}

// GetUsage returns the total token usage.
func (t *BatchTranslator) GetUsage() UsageMetadata {
	t.usageMu.Lock()
	defer t.usageMu.Unlock()
	return t.usage
}

func mergeResults(original []SegmentData, resp *ResponseData) ([]string, error) {
	expected := make(map[int]SegmentData, len(original))
	for _, s := range original {
		expected[s.ID] = s
	}

	byID := make(map[int]string, len(resp.Translations))
	for _, tr := range resp.Translations {
		if _, exists := byID[tr.ID]; exists {
			return nil, fmt.Errorf("duplicate translation ID detected in model output: %d", tr.ID)
		}
		src, ok := expected[tr.ID]
		if !ok {
			return nil, fmt.Errorf("unexpected translation ID from model: %d", tr.ID)
		}
		if tr.Text == "" && src.Text != "" {
			return nil, fmt.Errorf("empty translation for segment ID %d", tr.ID)
		}
		byID[tr.ID] = tr.Text
	}
	if len(byID) != len(original) {
		return nil, fmt.Errorf("translation count mismatch: expected %d, got %d", len(original), len(byID))
	}

	out := make([]string, len(original))
	for i, s := range original {
		out[i] = byID[s.ID]
	}
	return out, nil
}

func displayName(code string) string {
	if lang, ok := language.GetLanguage(code); ok {
		return lang.Name
	}
	return code
}
