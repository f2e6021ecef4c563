package gemini

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Safe-Deal/json-i18n-whisper/internal/apperrors"
	"github.com/Safe-Deal/json-i18n-whisper/internal/httpclient"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Client handles communication with the Gemini API.
type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// Generator is the part of Client used by BatchTranslator.
type Generator interface {
	Generate(ctx context.Context, request RequestData) (*ResponseData, error)
	SetSystemInstruction(prompt string)
}

var _ Generator = (*Client)(nil)

// NewClient creates a new Gemini client.
func NewClient(ctx context.Context, apiKey string, modelName string, opts ...option.ClientOption) (*Client, error) {
	client, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, err
	}

	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0)

	return &Client{
		client: client,
		model:  model,
	}, nil
}

// Close closes the underlying genai client.
func (c *Client) Close() error {
	return c.client.Close()
}

// SetSystemInstruction sets the system prompt for the model.
func (c *Client) SetSystemInstruction(prompt string) {
	c.model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(prompt)},
	}
}

// Generate sends one request to Gemini and decodes the JSON reply.
// Each call is bounded by httpclient.DefaultTimeout.
func (c *Client) Generate(ctx context.Context, request RequestData) (*ResponseData, error) {
	ctx, cancel := context.WithTimeout(ctx, httpclient.DefaultTimeout)
	defer cancel()
	requestJSON, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.model.GenerateContent(ctx, genai.Text(string(requestJSON)))
	if err != nil {
		return nil, classifyGeminiError(err)
	}

	text, err := extractResponseText(resp)
	if err != nil {
		return nil, apperrors.Validation(err)
	}
	responseData, err := decodeResponse(text)
	if err != nil {
		return nil, apperrors.Validation(err)
	}

	if resp.UsageMetadata != nil {
		responseData.Usage = UsageMetadata{
			PromptTokenCount:     int(resp.UsageMetadata.PromptTokenCount),
			CandidatesTokenCount: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokenCount:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}

	return responseData, nil
}

// decodeResponse accepts {"translations":[...]} or a bare array.
func decodeResponse(text string) (*ResponseData, error) {
	var responseData ResponseData
	if err := json.Unmarshal([]byte(text), &responseData); err != nil {
		var transArray []TranslatedSegment
		if err2 := json.Unmarshal([]byte(text), &transArray); err2 != nil {
			// The raw text is model output derived from the source document; keep it out of the error.
			return nil, fmt.Errorf("failed to unmarshal response: %w", err)
		}
		responseData.Translations = transArray
	}
	return &responseData, nil
}

func extractResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("no response received from Gemini")
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
			continue
		}
		var combined string
		for _, part := range candidate.Content.Parts {
			text, ok := part.(genai.Text)
			if !ok {
				continue
			}
			combined += string(text)
		}
		if combined != "" {
			return combined, nil
		}
	}
	return "", fmt.Errorf("no text parts found in Gemini response")
}
