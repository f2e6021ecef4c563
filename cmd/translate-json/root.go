package main

import (
	"fmt"
	"os"

	"github.com/Safe-Deal/json-i18n-whisper/internal/cleanup"
	"github.com/Safe-Deal/json-i18n-whisper/internal/runconfig"
	"github.com/Safe-Deal/json-i18n-whisper/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func execute() {
	cmd := newRootCmd()
	err := cmd.Execute()
	if cleanupErr := cleanup.RunAll(); cleanupErr != nil {
		fmt.Fprintln(os.Stderr, cleanupErr)
		if err == nil {
			err = cleanupErr
		}
	}
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := translateOptions{}

	cmd := &cobra.Command{
		Use:   "translate-json <inputLang> <targetLangs> [apiKey]",
		Short: "Translate the strings of a JSON document while keeping its structure",
		Long: `Reads <inputLang>.json, translates every string value into each of the
comma-separated target languages and writes one <lang>.json per target.
Keys, nesting, array order and non-string values are left untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !hasAnyFlagSet(cmd) && !defaultRunFileExists() {
				return cmd.Help()
			}
			if len(args) > 0 && isSubcommand(cmd, args[0]) {
				_ = cmd.Usage()
				return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
			}
			if len(args) > 3 {
				_ = cmd.Usage()
				return fmt.Errorf("expected at most 3 arguments, got %d", len(args))
			}
			return runTranslate(cmd, args, &opts)
		},
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
	}

	cmd.Version = version.Info()
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.SetUsageTemplate(rootUsageTemplate)

	addTranslateFlags(cmd, &opts)

	cmd.AddCommand(
		newListCmd(),
		newEnvCmd(),
	)

	cmd.InitDefaultCompletionCmd()
	for _, sub := range cmd.Commands() {
		if sub.Name() == "completion" {
			sub.SetUsageTemplate(subcommandUsageTemplate)
			break
		}
	}

	return cmd
}

func hasAnyFlagSet(cmd *cobra.Command) bool {
	changed := false
	cmd.Flags().Visit(func(_ *pflag.Flag) {
		changed = true
	})
	return changed
}

func isSubcommand(cmd *cobra.Command, name string) bool {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return true
		}
	}
	return false
}

func defaultRunFileExists() bool {
	_, err := os.Stat(runconfig.FileName)
	return err == nil
}
