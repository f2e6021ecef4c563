package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Safe-Deal/json-i18n-whisper/internal/apperrors"
	"github.com/google/generative-ai-go/genai"
)

func TestBatchTranslator_MergesByID(t *testing.T) {
	mock := &MockClient{Response: &ResponseData{
		Translations: []TranslatedSegment{
			{ID: 2, Text: "עולם"},
			{ID: 1, Text: "שלום"},
		},
		Usage: UsageMetadata{PromptTokenCount: 10, CandidatesTokenCount: 4, TotalTokenCount: 14},
	}}
	tr := NewBatchTranslator(mock)

	got, err := tr.Translate(context.Background(), []string{"Hello", "World"}, "en", "he")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != "שלום" || got[1] != "עולם" {
		t.Fatalf("unexpected translations: %q", got)
	}

	req := mock.LastRequest
	if req.Source != "en" || req.Target != "he" || len(req.Segments) != 2 {
		t.Fatalf("unexpected request: %+v", req)
	}
	if req.Segments[0].ID != 1 || req.Segments[1].Text != "World" {
		t.Fatalf("unexpected segments: %+v", req.Segments)
	}
	if !strings.Contains(mock.LastSystemInstruction, "English to Hebrew") {
		t.Fatalf("system prompt should name the language pair, got %q", mock.LastSystemInstruction)
	}
	if usage := tr.GetUsage(); usage.TotalTokenCount != 14 {
		t.Fatalf("expected usage to accumulate, got %+v", usage)
	}
}

func TestBatchTranslator_RejectsBadOutput(t *testing.T) {
	tests := []struct {
		name string
		resp []TranslatedSegment
	}{
		{"missing", []TranslatedSegment{{ID: 1, Text: "a"}}},
		{"duplicate", []TranslatedSegment{{ID: 1, Text: "a"}, {ID: 1, Text: "b"}}},
		{"unknown", []TranslatedSegment{{ID: 1, Text: "a"}, {ID: 7, Text: "b"}}},
		{"empty", []TranslatedSegment{{ID: 1, Text: "a"}, {ID: 2, Text: ""}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &MockClient{Response: &ResponseData{Translations: tt.resp}}
			_, err := NewBatchTranslator(mock).Translate(context.Background(), []string{"x", "y"}, "en", "fr")
			if !apperrors.Is(err, apperrors.KindValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestBatchTranslator_EmptySourceMayStayEmpty(t *testing.T) {
	mock := &MockClient{Response: &ResponseData{Translations: []TranslatedSegment{{ID: 1, Text: ""}}}}
	got, err := NewBatchTranslator(mock).Translate(context.Background(), []string{""}, "en", "fr")
	if err != nil || len(got) != 1 || got[0] != "" {
		t.Fatalf("expected empty translation, got %q, %v", got, err)
	}
}

func TestBatchTranslator_PropagatesError(t *testing.T) {
	want := apperrors.RateLimit(errors.New("429"))
	mock := &MockClient{Error: want}
	_, err := NewBatchTranslator(mock).Translate(context.Background(), []string{"x"}, "en", "fr")
	if !errors.Is(err, want) {
		t.Fatalf("expected generator error, got %v", err)
	}
}

func TestBatchTranslator_EmptyBatch(t *testing.T) {
	mock := &MockClient{Error: errors.New("must not be called")}
	got, err := NewBatchTranslator(mock).Translate(context.Background(), nil, "en", "fr")
	if err != nil || len(got) != 0 {
		t.Fatalf("expected no call for empty batch, got %q, %v", got, err)
	}
}

func TestGetSystemPrompt_UnknownCodeFallsBack(t *testing.T) {
	if name := displayName("xx-unknown"); name != "xx-unknown" {
		t.Fatalf("expected code fallback, got %q", name)
	}
}

func TestDecodeResponse(t *testing.T) {
	resp, err := decodeResponse(`{"translations":[{"id":1,"text":"a"}]}`)
	if err != nil || len(resp.Translations) != 1 {
		t.Fatalf("object form: %+v, %v", resp, err)
	}
	resp, err = decodeResponse(`[{"id":1,"text":"a"},{"id":2,"text":"b"}]`)
	if err != nil || len(resp.Translations) != 2 {
		t.Fatalf("array form: %+v, %v", resp, err)
	}
	if _, err := decodeResponse(`not json SECRET`); err == nil || strings.Contains(err.Error(), "SECRET") {
		t.Fatalf("expected safe decode error, got %v", err)
	}
}

func TestExtractResponseText(t *testing.T) {
	t.Run("NilResponse", func(t *testing.T) {
		_, err := extractResponseText(nil)
		if err == nil || err.Error() != "no response received from Gemini" {
			t.Fatalf("expected nil response error, got: %v", err)
		}
	})

	t.Run("EmptyCandidates", func(t *testing.T) {
		_, err := extractResponseText(&genai.GenerateContentResponse{})
		if err == nil || err.Error() != "no candidates returned from Gemini" {
			t.Fatalf("expected empty candidates error, got: %v", err)
		}
	})

	t.Run("SkipsNonTextParts", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{Content: nil},
				{Content: &genai.Content{Parts: []genai.Part{
					genai.Blob{MIMEType: "image/png", Data: []byte{1}},
					genai.Text(`{"translations":`),
					genai.Text(`[]}`),
				}}},
			},
		}
		text, err := extractResponseText(resp)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if text != `{"translations":[]}` {
			t.Fatalf("unexpected text: %q", text)
		}
	})

	t.Run("NoTextParts", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []genai.Part{genai.Blob{MIMEType: "image/png"}}}}},
		}
		if _, err := extractResponseText(resp); err == nil {
			t.Fatal("expected error for response without text")
		}
	})
}
