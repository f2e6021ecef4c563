package pipeline

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Safe-Deal/json-i18n-whisper/internal/batcher"
	"github.com/Safe-Deal/json-i18n-whisper/internal/gtranslate"
	"github.com/Safe-Deal/json-i18n-whisper/internal/metadata"
	"github.com/Safe-Deal/json-i18n-whisper/internal/translator"
)

// Config holds everything required for one translation run.
type Config struct {
	// Languages. The input file is <InputDir>/<InputLang>.json and each
	// target is written to <OutputDir>/<lang>.json.
	InputLang   string
	TargetLangs []string

	// IO directories; empty means the working directory.
	InputDir  string
	OutputDir string

	// API configuration
	APIKey   string
	Provider string
	Model    string
	Format   string

	// Processing parameters
	BatchSize int
	QPS       float64

	// Client replaces the provider client built from APIKey/Provider.
	Client translator.Client

	// Callbacks
	// OnEstimate is called once before any API call. Returning false ends
	// the run without translating.
	OnEstimate func(metadata.Estimate) bool
	// OnProgress is called before and after every batch.
	OnProgress func(translator.Progress)
}

const (
	DefaultBatchSize = batcher.DefaultSize
	MaxBatchSize     = gtranslate.MaxSegments
)

// Language codes become file names, so only a conservative alphabet is allowed.
var codePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// Normalize fills defaults, applies safe bounds and returns any adjustments.
func (c Config) Normalize() (Config, []string) {
	var notes []string

	c.InputLang = strings.TrimSpace(c.InputLang)
	targets := make([]string, 0, len(c.TargetLangs))
	seen := make(map[string]bool, len(c.TargetLangs))
	for _, t := range c.TargetLangs {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		targets = append(targets, t)
	}
	c.TargetLangs = targets

	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = metadata.ProviderGoogle
	}
	if c.Provider == metadata.ProviderGemini && c.Model == "" {
		c.Model = metadata.DefaultGeminiModel
	}
	if c.Format == "" {
		c.Format = gtranslate.FormatText
	}

	if c.BatchSize > MaxBatchSize {
		notes = append(notes, fmt.Sprintf("batch-size clamped from %d to %d (max %d)", c.BatchSize, MaxBatchSize, MaxBatchSize))
		c.BatchSize = MaxBatchSize
	}
	return c, notes
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if !codePattern.MatchString(c.InputLang) {
		return fmt.Errorf("invalid input language code: %q", c.InputLang)
	}
	if len(c.TargetLangs) == 0 {
		return fmt.Errorf("at least one target language is required")
	}
	for _, t := range c.TargetLangs {
		if !codePattern.MatchString(t) {
			return fmt.Errorf("invalid target language code: %q", t)
		}
		if strings.EqualFold(t, c.InputLang) {
			return fmt.Errorf("target language %s is the input language", t)
		}
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batchSize must be greater than 0, got %d", c.BatchSize)
	}
	if c.QPS < 0 {
		return fmt.Errorf("qps must not be negative, got %g", c.QPS)
	}
	switch c.Provider {
	case metadata.ProviderGoogle, metadata.ProviderGemini:
	default:
		return fmt.Errorf("unsupported provider %q (want %s or %s)", c.Provider, metadata.ProviderGoogle, metadata.ProviderGemini)
	}
	switch c.Format {
	case gtranslate.FormatText, gtranslate.FormatHTML:
	default:
		return fmt.Errorf("unsupported format %q (want %s or %s)", c.Format, gtranslate.FormatText, gtranslate.FormatHTML)
	}
	if c.Client == nil && c.APIKey == "" {
		return fmt.Errorf("API key is required")
	}
	return nil
}
