package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Safe-Deal/json-i18n-whisper/internal/auth"
	"github.com/Safe-Deal/json-i18n-whisper/internal/metadata"
	"github.com/Safe-Deal/json-i18n-whisper/internal/pipeline"
	"github.com/Safe-Deal/json-i18n-whisper/internal/prompt"
	"github.com/zalando/go-keyring"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

type pipelineStub struct {
	calls  int
	cfg    pipeline.Config
	result pipeline.Result
	err    error
}

// withStubs replaces key lookup, confirmation and the pipeline for one test.
func withStubs(t *testing.T, env map[string]string, answer string) *pipelineStub {
	t.Helper()
	keyring.MockInit()

	stub := &pipelineStub{}
	prevResolver, prevConfirmer, prevRun := newKeyResolver, newConfirmer, runPipeline
	newKeyResolver = func() auth.Resolver {
		return auth.Resolver{
			Getenv:        func(k string) string { return env[k] },
			IsInteractive: func() bool { return false },
		}
	}
	newConfirmer = func() prompt.Confirmer {
		return prompt.Confirmer{
			In:            strings.NewReader(answer),
			Out:           &bytes.Buffer{},
			IsInteractive: func() bool { return answer != "" },
		}
	}
	runPipeline = func(_ context.Context, cfg pipeline.Config) (pipeline.Result, error) {
		stub.calls++
		stub.cfg = cfg
		if cfg.OnEstimate != nil && !cfg.OnEstimate(metadata.Estimate{Provider: cfg.Provider, Characters: 10, Languages: len(cfg.TargetLangs)}) {
			return pipeline.Result{Declined: true}, nil
		}
		return stub.result, stub.err
	}
	t.Cleanup(func() {
		newKeyResolver, newConfirmer, runPipeline = prevResolver, prevConfirmer, prevRun
	})
	return stub
}

func TestRoot_NoArgsShowsHelp(t *testing.T) {
	stub := withStubs(t, nil, "")
	out, err := executeCommand(t)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "translate-json <inputLang> <targetLangs> [apiKey]") {
		t.Fatalf("expected usage, got %q", out)
	}
	if stub.calls != 0 {
		t.Fatal("pipeline must not run")
	}
}

func TestRoot_ArgumentErrors(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		errSub string
	}{
		{"missing targets", []string{"en"}, "target languages are required"},
		{"too many", []string{"en", "fr", "key", "extra"}, "at most 3 arguments"},
		{"bad provider", []string{"en", "fr", "--provider", "deepl"}, "unsupported provider"},
		{"bad target", []string{"en", "fr,a b"}, "invalid language code"},
		{"no key", []string{"en", "fr"}, "no API key found"},
		{"unknown flag", []string{"en", "fr", "--chunk-size", "3"}, "unknown flag"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := withStubs(t, nil, "")
			_, err := executeCommand(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.errSub) {
				t.Fatalf("expected error containing %q, got %v", tt.errSub, err)
			}
			if stub.calls != 0 {
				t.Fatal("pipeline must not run")
			}
		})
	}
}

func TestRunTranslate_BuildsConfig(t *testing.T) {
	stub := withStubs(t, nil, "")
	stub.result = pipeline.Result{
		RunID:   "run-1",
		Outputs: []pipeline.Output{{Lang: "fr", Path: "fr.json", Strings: 2}, {Lang: "de", Path: "de.json", Strings: 2}},
	}

	out, err := executeCommand(t, "EN", "fr, German ,fr", "arg-key", "--batch-size", "20", "--qps", "0", "--output-dir", "out", "-y")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg := stub.cfg
	if cfg.InputLang != "en" || strings.Join(cfg.TargetLangs, ",") != "fr,de" {
		t.Fatalf("unexpected languages: %q %v", cfg.InputLang, cfg.TargetLangs)
	}
	if cfg.APIKey != "arg-key" || cfg.Provider != metadata.ProviderGoogle {
		t.Fatalf("unexpected key/provider: %q %q", cfg.APIKey, cfg.Provider)
	}
	if cfg.BatchSize != 20 || cfg.QPS != 0 || cfg.OutputDir != "out" || cfg.Format != "text" {
		t.Fatalf("unexpected flags: %+v", cfg)
	}
	if !strings.Contains(out, "Wrote fr.json (2 strings)") || !strings.Contains(out, "Wrote de.json") {
		t.Fatalf("expected summary, got %q", out)
	}
}

func TestRunTranslate_KeyFromEnvironment(t *testing.T) {
	stub := withStubs(t, map[string]string{"GEMINI_API_KEY": "env-key"}, "")
	if _, err := executeCommand(t, "en", "ja", "--provider", "Gemini", "--yes"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stub.cfg.APIKey != "env-key" || stub.cfg.Provider != metadata.ProviderGemini {
		t.Fatalf("unexpected config: %+v", stub.cfg)
	}
}

func TestRunTranslate_RunFileAndFlagPrecedence(t *testing.T) {
	stub := withStubs(t, map[string]string{"GEMINI_API_KEY": "k"}, "")
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	content := "source: en\ntargets: [es, he]\nprovider: gemini\nmodel: gemini-3-pro-preview\nbatch_size: 7\nqps: 1\noutput_dir: locales\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := executeCommand(t, "--config", path, "--qps", "3", "--yes"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg := stub.cfg
	if cfg.InputLang != "en" || strings.Join(cfg.TargetLangs, ",") != "es,he" {
		t.Fatalf("unexpected languages: %q %v", cfg.InputLang, cfg.TargetLangs)
	}
	if cfg.Provider != metadata.ProviderGemini || cfg.Model != "gemini-3-pro-preview" || cfg.BatchSize != 7 {
		t.Fatalf("run file values not applied: %+v", cfg)
	}
	if cfg.QPS != 3 {
		t.Fatalf("explicit flag should win, got qps %g", cfg.QPS)
	}
	if cfg.OutputDir != filepath.Join(dir, "locales") {
		t.Fatalf("unexpected output dir %q", cfg.OutputDir)
	}

	if _, err := executeCommand(t, "de", "fr", "--config", path, "--yes"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stub.cfg.InputLang != "de" || strings.Join(stub.cfg.TargetLangs, ",") != "fr" {
		t.Fatalf("arguments should win over run file: %+v", stub.cfg)
	}
}

func TestRunTranslate_DeclinedConfirmation(t *testing.T) {
	withStubs(t, nil, "n\n")
	out, err := executeCommand(t, "en", "fr", "key")
	if err != nil {
		t.Fatalf("declining must not fail: %v", err)
	}
	if !strings.Contains(out, "Aborted") {
		t.Fatalf("expected abort message, got %q", out)
	}
}

func TestRunTranslate_PipelineError(t *testing.T) {
	stub := withStubs(t, nil, "")
	stub.err = errors.New("translating to fr: quota exceeded")
	_, err := executeCommand(t, "en", "fr", "key")
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("expected pipeline error, got %v", err)
	}
}

func TestFormatEstimate(t *testing.T) {
	got := formatEstimate(metadata.Estimate{Provider: metadata.ProviderGoogle, Characters: 1000, Languages: 2, USD: 0.04})
	if got != "Estimated cost: $0.0400 (1000 characters x 2 languages, Google Translate)" {
		t.Fatalf("unexpected estimate line: %q", got)
	}
	got = formatEstimate(metadata.Estimate{Provider: metadata.ProviderGemini, Model: "gemini-2.5-flash"})
	if !strings.Contains(got, "Gemini gemini-2.5-flash") {
		t.Fatalf("unexpected gemini line: %q", got)
	}
}

func TestList(t *testing.T) {
	out, err := executeCommand(t, "list")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Known Languages:", "[he]  (diacritics stripped)", "[fr]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in list output", want)
		}
	}
}
