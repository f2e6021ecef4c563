package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Safe-Deal/json-i18n-whisper/internal/apperrors"
	"github.com/Safe-Deal/json-i18n-whisper/internal/auth"
	"github.com/Safe-Deal/json-i18n-whisper/internal/cleanup"
	"github.com/Safe-Deal/json-i18n-whisper/internal/files"
	"github.com/Safe-Deal/json-i18n-whisper/internal/gtranslate"
	"github.com/Safe-Deal/json-i18n-whisper/internal/language"
	"github.com/Safe-Deal/json-i18n-whisper/internal/logger"
	"github.com/Safe-Deal/json-i18n-whisper/internal/metadata"
	"github.com/Safe-Deal/json-i18n-whisper/internal/pipeline"
	"github.com/Safe-Deal/json-i18n-whisper/internal/runconfig"
	"github.com/Safe-Deal/json-i18n-whisper/internal/translator"
	"github.com/spf13/cobra"
)

type translateOptions struct {
	inputDir    string
	outputDir   string
	configPath  string
	provider    string
	modelName   string
	format      string
	batchSize   int
	qps         float64
	yes         bool
	logFilePath string
	debug       bool
}

func addTranslateFlags(cmd *cobra.Command, opts *translateOptions) {
	cmd.Flags().StringVar(&opts.inputDir, "input-dir", "", "Directory containing <inputLang>.json (default: working directory)")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "Directory for translated files (default: working directory)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "YAML run file (default: "+runconfig.FileName+" if present)")
	cmd.Flags().StringVar(&opts.provider, "provider", metadata.ProviderGoogle, "Translation provider (google or gemini)")
	cmd.Flags().StringVar(&opts.modelName, "model", "", "Model name (google: base or nmt; gemini: "+strings.Join(metadata.GeminiModelIDs(), ", ")+")")
	cmd.Flags().StringVar(&opts.format, "format", gtranslate.FormatText, "Google Translate input format (text or html)")
	cmd.Flags().IntVar(&opts.batchSize, "batch-size", pipeline.DefaultBatchSize, fmt.Sprintf("Strings per API request (max %d)", pipeline.MaxBatchSize))
	cmd.Flags().Float64Var(&opts.qps, "qps", translator.DefaultQPS, "Maximum API requests per second (0 = unlimited)")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Skip the cost confirmation prompt")
	cmd.Flags().StringVar(&opts.logFilePath, "log-file", "", "Path to append machine-readable JSONL logs")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
}

func runTranslate(cmd *cobra.Command, args []string, opts *translateOptions) error {
	logLevel := logger.LevelInfo
	if opts.debug {
		logLevel = logger.LevelDebug
	}
	var logFileW io.Writer
	if opts.logFilePath != "" {
		f, err := files.OpenAppend(opts.logFilePath)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		cleanup.Register(f.Close)
		logFileW = f
	}
	logger.Init(logLevel, logFileW)

	cfg, explicitKey, err := buildConfig(cmd, args, opts)
	if err != nil {
		return err
	}

	key, source, err := resolveAPIKey(cfg.Provider, explicitKey)
	if err != nil {
		return err
	}
	if source == auth.SourceArgument {
		logger.Warn("API key given on the command line may be kept in shell history")
	}
	logger.Info("Using API key", "service", cfg.Provider, "source", string(source))
	cfg.APIKey = key

	errOut := cmd.ErrOrStderr()
	cfg.OnEstimate = func(est metadata.Estimate) bool {
		ok, err := newConfirmer().ConfirmCost(formatEstimate(est), opts.yes)
		if err != nil {
			logger.Error("Cost confirmation failed", "error", err)
			return false
		}
		return ok
	}
	cfg.OnProgress = func(p translator.Progress) {
		if p.State == translator.StateCompleted && p.TotalBatches > 1 {
			logger.Info("Batch completed", "target", p.Target, "batch", p.BatchIndex+1, "of", p.TotalBatches)
		}
	}

	ctx, stop := signalContext()
	defer stop()

	start := time.Now()
	result, err := runPipeline(ctx, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("translation canceled")
		}
		logger.Error("Translation failed", "error", apperrors.PublicMessage(err))
		logger.Debug("Failure detail", "detail", apperrors.Detail(err))
		if len(result.Outputs) > 0 {
			printSummary(errOut, result, time.Since(start))
		}
		return err
	}
	if result.Declined {
		fmt.Fprintln(errOut, "Aborted: no files were written.")
		return nil
	}
	printSummary(cmd.OutOrStdout(), result, time.Since(start))
	return nil
}

// buildConfig merges the run file with positional arguments and flags.
// Arguments and explicitly set flags take precedence over the run file.
func buildConfig(cmd *cobra.Command, args []string, opts *translateOptions) (pipeline.Config, string, error) {
	rf, err := loadRunFile(opts.configPath)
	if err != nil {
		return pipeline.Config{}, "", err
	}

	cfg := pipeline.Config{
		Provider:  opts.provider,
		Model:     opts.modelName,
		Format:    opts.format,
		BatchSize: opts.batchSize,
		QPS:       opts.qps,
		InputDir:  opts.inputDir,
		OutputDir: opts.outputDir,
	}
	var inputLang, targets string
	if rf != nil {
		logger.Info("Loaded run file", "file", rf.Path())
		inputLang = rf.Source
		targets = strings.Join(rf.Targets, ",")
		flags := cmd.Flags()
		if rf.Provider != "" && !flags.Changed("provider") {
			cfg.Provider = rf.Provider
		}
		if rf.Model != "" && !flags.Changed("model") {
			cfg.Model = rf.Model
		}
		if rf.Format != "" && !flags.Changed("format") {
			cfg.Format = rf.Format
		}
		if rf.BatchSize != nil && !flags.Changed("batch-size") {
			cfg.BatchSize = *rf.BatchSize
		}
		if rf.QPS != nil && !flags.Changed("qps") {
			cfg.QPS = *rf.QPS
		}
		if rf.InputDir != "" && !flags.Changed("input-dir") {
			cfg.InputDir = rf.InputDir
		}
		if rf.OutputDir != "" && !flags.Changed("output-dir") {
			cfg.OutputDir = rf.OutputDir
		}
	}

	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	if cfg.Provider != metadata.ProviderGoogle && cfg.Provider != metadata.ProviderGemini {
		return pipeline.Config{}, "", fmt.Errorf("unsupported provider %q (want %s or %s)", cfg.Provider, metadata.ProviderGoogle, metadata.ProviderGemini)
	}

	var explicitKey string
	if len(args) > 0 {
		inputLang = args[0]
	}
	if len(args) > 1 {
		targets = args[1]
	}
	if len(args) > 2 {
		explicitKey = args[2]
	}
	if strings.TrimSpace(inputLang) == "" {
		_ = cmd.Usage()
		return pipeline.Config{}, "", fmt.Errorf("input language is required")
	}
	if strings.TrimSpace(targets) == "" {
		_ = cmd.Usage()
		return pipeline.Config{}, "", fmt.Errorf("target languages are required")
	}

	code, known, err := language.Resolve(inputLang)
	if err != nil {
		return pipeline.Config{}, "", fmt.Errorf("input language: %w", err)
	}
	if !known {
		logger.Warn("Input language is not in the known list", "lang", code)
	}
	cfg.InputLang = code

	codes, unknown, err := language.ParseList(targets)
	if err != nil {
		return pipeline.Config{}, "", err
	}
	if len(unknown) > 0 {
		logger.Warn("Target languages not in the known list", "langs", strings.Join(unknown, ","))
	}
	cfg.TargetLangs = codes
	return cfg, explicitKey, nil
}

func loadRunFile(path string) (*runconfig.File, error) {
	if path != "" {
		return runconfig.Load(path)
	}
	return runconfig.LoadDefault(".")
}
