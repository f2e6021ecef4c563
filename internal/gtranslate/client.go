// Package gtranslate calls the Google Cloud Translation API (v2, "Basic").
package gtranslate

import (
	"context"
	"fmt"

	"github.com/Safe-Deal/json-i18n-whisper/internal/apperrors"
	"github.com/Safe-Deal/json-i18n-whisper/internal/httpclient"
	"google.golang.org/api/option"
	translate "google.golang.org/api/translate/v2"
)

const (
	FormatText = "text"
	FormatHTML = "html"
)

// MaxSegments is the API limit on strings per request.
const MaxSegments = 128

// Client translates batches of strings with Google Translate.
type Client struct {
	svc    *translate.Service
	format string
	model  string
}

// NewClient creates a client authenticated with apiKey. Extra options are
// applied last, so tests can point the client at another endpoint.
func NewClient(ctx context.Context, apiKey string, opts ...option.ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	base := []option.ClientOption{
		option.WithHTTPClient(httpclient.WithAPIKey(httpclient.GetDefaultClient(), apiKey)),
	}
	svc, err := translate.NewService(ctx, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create translate service: %w", err)
	}
	return &Client{svc: svc, format: FormatText}, nil
}

// SetFormat selects how the API treats input: "text" (default) or "html".
func (c *Client) SetFormat(format string) error {
	switch format {
	case "", FormatText:
		c.format = FormatText
	case FormatHTML:
		c.format = FormatHTML
	default:
		return fmt.Errorf("unsupported format %q (want %s or %s)", format, FormatText, FormatHTML)
	}
	return nil
}

// SetModel selects the translation model ("base" or "nmt"); empty lets the API decide.
func (c *Client) SetModel(model string) {
	c.model = model
}

// Translate sends texts in one request. The result has the same length and
// order as texts.
func (c *Client) Translate(ctx context.Context, texts []string, source, target string) ([]string, error) {
	if len(texts) == 0 {
		return []string{}, nil
	}
	if len(texts) > MaxSegments {
		return nil, apperrors.BadRequest(fmt.Errorf("batch of %d strings exceeds the %d per request limit", len(texts), MaxSegments))
	}

	req := &translate.TranslateTextRequest{
		Q:      texts,
		Source: source,
		Target: target,
		Format: c.format,
		Model:  c.model,
	}
	resp, err := c.svc.Translations.Translate(req).Context(ctx).Do()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, classifyError(err)
	}

	if len(resp.Translations) != len(texts) {
		return nil, apperrors.Validation(fmt.Errorf("translation count mismatch: expected %d, got %d", len(texts), len(resp.Translations)))
	}
	out := make([]string, len(texts))
	for i, tr := range resp.Translations {
		if tr == nil {
			return nil, apperrors.Validation(fmt.Errorf("missing translation at position %d", i))
		}
		out[i] = tr.TranslatedText
	}
	return out, nil
}
