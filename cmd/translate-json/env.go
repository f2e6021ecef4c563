package main

import (
	"fmt"
	"strings"

	"github.com/Safe-Deal/json-i18n-whisper/internal/auth"
	"github.com/spf13/cobra"
)

type envOptions struct {
	service string
}

func newEnvCmd() *cobra.Command {
	opts := envOptions{}
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Manage API keys in OS Keychain",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnvStatus(cmd, &opts)
		},
	}

	cmd.SetUsageTemplate(subcommandUsageTemplate)
	cmd.PersistentFlags().StringVar(&opts.service, "service", auth.ServiceGoogle, "Service to manage (google or gemini)")

	cmd.AddCommand(
		newEnvSubCmd("setup", "Save API key to keychain (prompt only)", runEnvSetup, &opts),
		newEnvSubCmd("delete", "Delete key from keychain", runEnvDelete, &opts),
		newEnvSubCmd("status", "Show key status (default if no action given)", runEnvStatus, &opts),
	)
	return cmd
}

func newEnvSubCmd(use, short string, run func(*cobra.Command, *envOptions) error, opts *envOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func (o *envOptions) validService() (string, error) {
	svc := strings.ToLower(strings.TrimSpace(o.service))
	if svc != auth.ServiceGoogle && svc != auth.ServiceGemini {
		return "", fmt.Errorf("invalid service %q: must be %q or %q", o.service, auth.ServiceGoogle, auth.ServiceGemini)
	}
	return svc, nil
}

func runEnvSetup(cmd *cobra.Command, opts *envOptions) error {
	svc, err := opts.validService()
	if err != nil {
		return err
	}
	key, err := promptForKey(fmt.Sprintf("%s API key: ", svc))
	if err != nil {
		return fmt.Errorf("error reading key: %w", err)
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("API key is required for setup")
	}
	if err := auth.SaveKey(svc, key); err != nil {
		return fmt.Errorf("error saving key: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s API key to keychain.\n", svc)
	return nil
}

func runEnvDelete(cmd *cobra.Command, opts *envOptions) error {
	svc, err := opts.validService()
	if err != nil {
		return err
	}
	if err := auth.DeleteKey(svc); err != nil {
		return fmt.Errorf("error deleting key: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s API key from keychain.\n", svc)
	return nil
}

func runEnvStatus(cmd *cobra.Command, opts *envOptions) error {
	svc, err := opts.validService()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	envVar := auth.EnvVar(svc)
	if getStatus(svc) {
		fmt.Fprintf(out, "%s API key: Found (source=Keychain)\n", svc)
		return nil
	}
	if strings.TrimSpace(getenv(envVar)) != "" {
		fmt.Fprintf(out, "%s API key: Found (source=%s)\n", svc, envVar)
		return nil
	}
	fmt.Fprintf(out, "%s API key: Not Found (keychain empty, %s not set)\n", svc, envVar)
	return nil
}
