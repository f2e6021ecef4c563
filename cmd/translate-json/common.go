package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Safe-Deal/json-i18n-whisper/internal/auth"
	"github.com/Safe-Deal/json-i18n-whisper/internal/gemini"
	"github.com/Safe-Deal/json-i18n-whisper/internal/logger"
	"github.com/Safe-Deal/json-i18n-whisper/internal/metadata"
	"github.com/Safe-Deal/json-i18n-whisper/internal/pipeline"
	"github.com/Safe-Deal/json-i18n-whisper/internal/prompt"
)

// Replaced in tests.
var (
	newKeyResolver = auth.DefaultResolver
	newConfirmer   = prompt.DefaultConfirmer
	getStatus      = auth.GetStatus
	getenv         = os.Getenv
	promptForKey   = auth.PromptForAPIKey
	runPipeline    = pipeline.Run
)

// resolveAPIKey finds the key for provider, preferring an explicit argument.
func resolveAPIKey(provider, explicit string) (string, auth.Source, error) {
	key, source, err := newKeyResolver().Resolve(provider, explicit)
	if err != nil {
		return "", "", err
	}
	return key, source, nil
}

func formatEstimate(est metadata.Estimate) string {
	engine := "Google Translate"
	if est.Provider == metadata.ProviderGemini {
		engine = "Gemini " + est.Model
	}
	return fmt.Sprintf("Estimated cost: $%.4f (%d characters x %d languages, %s)",
		est.USD, est.Characters, est.Languages, engine)
}

func printSummary(w io.Writer, result pipeline.Result, duration time.Duration) {
	for _, out := range result.Outputs {
		fmt.Fprintf(w, "Wrote %s (%d strings)\n", out.Path, out.Strings)
	}
	fmt.Fprintf(w, "\n--- Execution Stats ---\n")
	fmt.Fprintf(w, "Run: %s\n", result.RunID)
	fmt.Fprintf(w, "Time: %s\n", duration.Round(time.Millisecond))
	fmt.Fprintln(w, formatEstimate(result.Estimate))
	printUsage(w, result.Usage, result.Estimate.Model)
}

func printUsage(w io.Writer, usage gemini.UsageMetadata, model string) {
	if usage.TotalTokenCount <= 0 {
		return
	}
	pricing, _ := metadata.GeminiPricing(model)
	// Thinking tokens are billed as output.
	output := usage.TotalTokenCount - usage.PromptTokenCount
	if output < usage.CandidatesTokenCount {
		output = usage.CandidatesTokenCount
	}
	cost := float64(usage.PromptTokenCount)/1_000_000*pricing.InputPerMillion +
		float64(output)/1_000_000*pricing.OutputPerMillion
	fmt.Fprintf(w, "Tokens: In=%d, Out=%d, Total=%d\n", usage.PromptTokenCount, usage.CandidatesTokenCount, usage.TotalTokenCount)
	fmt.Fprintf(w, "Actual Cost: $%.5f\n", cost)
}

func signalContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("Cancellation requested")
			cancel()
		case <-ctx.Done():
		}
	}()
	stop := func() {
		signal.Stop(sigCh)
		cancel()
	}
	return ctx, stop
}
