package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vidsub/internal/language"
)

func newLanguagesCommand() *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:         "languages",
		Short:       "List the subtitle languages vidsub accepts",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			langs := language.All()
			if jsonOut {
				return writeJSON(cmd, langs)
			}
			rows := make([][]string, 0, len(langs))
			for _, lang := range langs {
				rows = append(rows, []string{lang.Code, lang.Name, lang.Native})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Code", "Language", "Native"}, rows, nil))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the languages as JSON")
	return cmd
}
