// Package runconfig loads the optional YAML run file that declares
// defaults for a translate-json run.
package runconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is looked up in the working directory when --config is not given.
const FileName = ".translate-json.yaml"

// File is the YAML schema. Pointer fields distinguish "unset" from zero.
type File struct {
	// Source is the input language code; the input file is <source>.json.
	Source string `yaml:"source,omitempty"`
	// Targets lists the target language codes.
	Targets []string `yaml:"targets,omitempty"`
	// Provider is "google" (default) or "gemini".
	Provider string `yaml:"provider,omitempty"`
	Model    string `yaml:"model,omitempty"`
	// Format is the Google Translate input format: "text" or "html".
	Format    string   `yaml:"format,omitempty"`
	BatchSize *int     `yaml:"batch_size,omitempty"`
	QPS       *float64 `yaml:"qps,omitempty"`
	// InputDir and OutputDir are relative to the run file's directory.
	InputDir  string `yaml:"input_dir,omitempty"`
	OutputDir string `yaml:"output_dir,omitempty"`

	path string
}

// Path returns the file the configuration was loaded from.
func (f *File) Path() string { return f.path }

// Load reads and validates the run file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	f.path = path
	f.resolveDirs(filepath.Dir(path))
	return f, nil
}

// LoadDefault loads FileName from dir. It returns nil, nil when the file does not exist.
func LoadDefault(dir string) (*File, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return Load(path)
}

// Parse decodes a run file. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) validate() error {
	f.Source = strings.TrimSpace(f.Source)
	f.Provider = strings.ToLower(strings.TrimSpace(f.Provider))
	targets := f.Targets[:0]
	for _, t := range f.Targets {
		if t = strings.TrimSpace(t); t != "" {
			targets = append(targets, t)
		}
	}
	f.Targets = targets

	if f.BatchSize != nil && *f.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be greater than 0, got %d", *f.BatchSize)
	}
	if f.QPS != nil && *f.QPS < 0 {
		return fmt.Errorf("qps must not be negative, got %g", *f.QPS)
	}
	return nil
}

func (f *File) resolveDirs(base string) {
	if f.InputDir != "" && !filepath.IsAbs(f.InputDir) {
		f.InputDir = filepath.Join(base, f.InputDir)
	}
	if f.OutputDir != "" && !filepath.IsAbs(f.OutputDir) {
		f.OutputDir = filepath.Join(base, f.OutputDir)
	}
}
