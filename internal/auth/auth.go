package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
	"golang.org/x/term"
)

const serviceName = "translate-json"

// Service names accepted by this package; they match the provider names.
const (
	ServiceGoogle = "google"
	ServiceGemini = "gemini"
)

// Source tells where a resolved key came from.
type Source string

const (
	SourceArgument    Source = "argument"
	SourceKeychain    Source = "keychain"
	SourceEnvironment Source = "environment variable"
	SourcePrompt      Source = "prompt"
)

// ErrNoKey is returned when no source yields an API key.
var ErrNoKey = errors.New("no API key found")

type service struct {
	account string
	envVar  string
}

var services = map[string]service{
	ServiceGoogle: {account: "google-translate-api-key", envVar: "GOOGLE_TRANSLATE_API_KEY"},
	ServiceGemini: {account: "gemini-api-key", envVar: "GEMINI_API_KEY"},
}

func lookup(name string) (service, error) {
	s, ok := services[name]
	if !ok {
		return service{}, fmt.Errorf("unknown key service %q", name)
	}
	return s, nil
}

// EnvVar returns the environment variable consulted for service.
func EnvVar(name string) string {
	return services[name].envVar
}

// SaveKey saves the key for a service to the OS keychain.
func SaveKey(name, key string) error {
	s, err := lookup(name)
	if err != nil {
		return err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("API key is empty")
	}
	return keyring.Set(serviceName, s.account, key)
}

// DeleteKey removes the key for a service from the OS keychain.
func DeleteKey(name string) error {
	s, err := lookup(name)
	if err != nil {
		return err
	}
	return keyring.Delete(serviceName, s.account)
}

// GetStatus reports whether the keychain holds a key for service.
func GetStatus(name string) bool {
	key, _ := keychainKey(name)
	return key != ""
}

func keychainKey(name string) (string, error) {
	s, err := lookup(name)
	if err != nil {
		return "", err
	}
	key, err := keyring.Get(serviceName, s.account)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(key), nil
}

// Resolver looks up an API key: explicit argument, keychain, environment,
// then an interactive hidden prompt.
type Resolver struct {
	Getenv        func(string) string
	IsInteractive func() bool
	ReadSecret    func(prompt string) (string, error)
}

func DefaultResolver() Resolver {
	return Resolver{
		Getenv: os.Getenv,
		IsInteractive: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
		ReadSecret: PromptForAPIKey,
	}
}

func (r Resolver) Resolve(name, explicit string) (string, Source, error) {
	s, err := lookup(name)
	if err != nil {
		return "", "", err
	}
	if key := strings.TrimSpace(explicit); key != "" {
		return key, SourceArgument, nil
	}
	if key, err := keychainKey(name); err == nil && key != "" {
		return key, SourceKeychain, nil
	}
	if r.Getenv != nil {
		if key := strings.TrimSpace(r.Getenv(s.envVar)); key != "" {
			return key, SourceEnvironment, nil
		}
	}
	if r.IsInteractive != nil && r.ReadSecret != nil && r.IsInteractive() {
		key, err := r.ReadSecret(fmt.Sprintf("Enter %s API key: ", name))
		if err != nil {
			return "", "", fmt.Errorf("failed to read API key: %w", err)
		}
		if key != "" {
			return key, SourcePrompt, nil
		}
	}
	return "", "", fmt.Errorf("%w: pass it as an argument, run 'translate-json env setup', or set %s", ErrNoKey, s.envVar)
}

// PromptForAPIKey reads a key from the terminal without echoing it.
func PromptForAPIKey(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(secret)), nil
}
