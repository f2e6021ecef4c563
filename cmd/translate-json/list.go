package main

import (
	"fmt"

	"github.com/Safe-Deal/json-i18n-whisper/internal/diacritics"
	"github.com/Safe-Deal/json-i18n-whisper/internal/language"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List known language codes",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Known Languages:")
			for _, l := range language.GetSupportedLanguages() {
				note := ""
				if diacritics.ShouldStrip(l.Code) {
					note = "  (diacritics stripped)"
				}
				fmt.Fprintf(out, "  %-25s [%s]%s\n", l.Name, l.ID, note)
			}
			fmt.Fprintln(out, "\nOther codes are passed to the translation API unchanged.")
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}
