package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Safe-Deal/json-i18n-whisper/internal/apperrors"
	"github.com/Safe-Deal/json-i18n-whisper/internal/batcher"
	"github.com/Safe-Deal/json-i18n-whisper/internal/diacritics"
	"github.com/Safe-Deal/json-i18n-whisper/internal/files"
	"github.com/Safe-Deal/json-i18n-whisper/internal/gemini"
	"github.com/Safe-Deal/json-i18n-whisper/internal/gtranslate"
	"github.com/Safe-Deal/json-i18n-whisper/internal/jsontree"
	"github.com/Safe-Deal/json-i18n-whisper/internal/language"
	"github.com/Safe-Deal/json-i18n-whisper/internal/logger"
	"github.com/Safe-Deal/json-i18n-whisper/internal/metadata"
	"github.com/Safe-Deal/json-i18n-whisper/internal/translator"
	"github.com/google/uuid"
)

// MaxInputBytes bounds the input document size.
const MaxInputBytes = 64 << 20

// Output describes one written target file.
type Output struct {
	Lang    string
	Path    string
	Strings int
}

// Result contains structured outputs from Run.
type Result struct {
	RunID    string
	Estimate metadata.Estimate
	// Declined is set when OnEstimate stopped the run before translation.
	Declined bool
	Outputs  []Output
	Usage    gemini.UsageMetadata
}

// InputPath returns the location of the source document for cfg.
func (c Config) InputPath() string {
	return filepath.Join(c.InputDir, c.InputLang+".json")
}

// OutputPath returns the location of the translated document for lang.
func (c Config) OutputPath(lang string) string {
	return filepath.Join(c.OutputDir, lang+".json")
}

// Run loads the input document, estimates the cost and writes one translated
// document per target language, in order. The first error ends the run;
// files already written for earlier targets are kept.
func Run(ctx context.Context, cfg Config) (Result, error) {
	var notes []string
	cfg, notes = cfg.Normalize()
	for _, note := range notes {
		logger.Warn("Config normalized", "detail", note)
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, fmt.Errorf("invalid configuration: %w", err)
	}

	runID := newRunID()
	log := logger.With("run_id", runID)
	result := Result{RunID: runID}

	warnUnknownLanguages(log, cfg)

	doc, err := loadDocument(cfg.InputPath())
	if err != nil {
		return result, err
	}
	leaves := jsontree.Flatten(doc)
	texts := jsontree.Texts(leaves)
	log.Info("Loaded input", "file", cfg.InputPath(), "strings", len(texts))

	result.Estimate = metadata.EstimateCost(cfg.Provider, cfg.Model, metadata.CountCharacters(texts), len(cfg.TargetLangs))
	log.Info("Estimated cost",
		"provider", result.Estimate.Provider,
		"characters", result.Estimate.Characters,
		"languages", result.Estimate.Languages,
		"usd", fmt.Sprintf("%.4f", result.Estimate.USD))
	if cfg.OnEstimate != nil && !cfg.OnEstimate(result.Estimate) {
		log.Info("Run declined at cost confirmation")
		result.Declined = true
		return result, nil
	}

	client := cfg.Client
	if client == nil {
		var closeClient func() error
		client, closeClient, err = newProviderClient(ctx, cfg)
		if err != nil {
			return result, err
		}
		defer closeClient()
	}
	tr, err := translator.NewTranslator(client, cfg.BatchSize, cfg.QPS)
	if err != nil {
		return result, fmt.Errorf("failed to initialize translator: %w", err)
	}
	tr.SetLogger(log)

	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return result, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	for _, lang := range cfg.TargetLangs {
		out, err := translateDocument(ctx, log, tr, cfg, doc, leaves, lang)
		result.Usage = usageOf(client)
		if err != nil {
			return result, err
		}
		result.Outputs = append(result.Outputs, out)
	}
	log.Info("Translation finished", "languages", len(result.Outputs))
	return result, nil
}

func translateDocument(ctx context.Context, log *slog.Logger, tr *translator.Translator, cfg Config, doc jsontree.Value, leaves []jsontree.Leaf, lang string) (Output, error) {
	log.Info("Translating", "source", cfg.InputLang, "target", lang,
		"strings", len(leaves), "batches", batcher.Count(len(leaves), cfg.BatchSize))

	translated, err := tr.Translate(ctx, jsontree.Texts(leaves), cfg.InputLang, lang, cfg.OnProgress)
	if err != nil {
		return Output{}, fmt.Errorf("translating to %s: %w", lang, err)
	}
	if diacritics.ShouldStrip(lang) {
		translated = diacritics.Apply(lang, translated)
		log.Debug("Stripped diacritics", "target", lang)
	}

	replacements, err := jsontree.WithTexts(leaves, translated)
	if err != nil {
		return Output{}, apperrors.Validation(fmt.Errorf("translating to %s: %w", lang, err))
	}
	rebuilt, err := jsontree.Rebuild(doc, replacements)
	if err != nil {
		return Output{}, apperrors.Validation(fmt.Errorf("translating to %s: %w", lang, err))
	}
	data, err := jsontree.Marshal(rebuilt)
	if err != nil {
		return Output{}, fmt.Errorf("encoding %s output: %w", lang, err)
	}

	path := cfg.OutputPath(lang)
	if err := files.AtomicWrite(path, data, 0o644); err != nil {
		return Output{}, fmt.Errorf("writing %s: %w", path, err)
	}
	log.Info("Written", "target", lang, "file", path)
	return Output{Lang: lang, Path: path, Strings: len(leaves)}, nil
}

func loadDocument(path string) (jsontree.Value, error) {
	data, err := files.ReadLimited(path, MaxInputBytes)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return jsontree.Value{}, apperrors.New(apperrors.KindInput, fmt.Sprintf("input file %s not found", path), err)
		}
		return jsontree.Value{}, apperrors.New(apperrors.KindInput, fmt.Sprintf("cannot read input file %s: %v", path, err), err)
	}
	doc, err := jsontree.Parse(data)
	if err != nil {
		return jsontree.Value{}, apperrors.New(apperrors.KindInput, fmt.Sprintf("input file %s is not valid JSON: %v", path, err), err)
	}
	if !doc.IsContainer() {
		return jsontree.Value{}, apperrors.New(apperrors.KindInput,
			fmt.Sprintf("input file %s must contain an object or array at the top level, got %s", path, doc.Kind()), nil)
	}
	return doc, nil
}

func newProviderClient(ctx context.Context, cfg Config) (translator.Client, func() error, error) {
	switch cfg.Provider {
	case metadata.ProviderGemini:
		if _, ok := metadata.GeminiPricing(cfg.Model); !ok {
			logger.Warn("Unknown Gemini model, cost estimate uses fallback pricing", "model", cfg.Model)
		}
		gc, err := gemini.NewClient(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		return gemini.NewBatchTranslator(gc), gc.Close, nil
	default:
		gc, err := gtranslate.NewClient(ctx, cfg.APIKey)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Google Translate client: %w", err)
		}
		if err := gc.SetFormat(cfg.Format); err != nil {
			return nil, nil, err
		}
		gc.SetModel(cfg.Model)
		return gc, func() error { return nil }, nil
	}
}

func usageOf(client translator.Client) gemini.UsageMetadata {
	if u, ok := client.(interface{ GetUsage() gemini.UsageMetadata }); ok {
		return u.GetUsage()
	}
	return gemini.UsageMetadata{}
}

func warnUnknownLanguages(log *slog.Logger, cfg Config) {
	for _, code := range append([]string{cfg.InputLang}, cfg.TargetLangs...) {
		if _, ok := language.GetLanguage(code); !ok {
			log.Warn("Unknown language code, passing it to the API as is", "lang", code)
		}
	}
}

func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
