package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vidsub/internal/language"
)

func newSetupCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Show what the subtitle service supports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return ctx.report(cmd, err)
			}
			logger := ctx.loggerFor(cmd)
			client := ctx.backendClient(cfg, logger)

			info, err := client.SetupInfo(cmd.Context())
			if err != nil {
				return ctx.report(cmd, err)
			}
			if jsonOut {
				return writeJSON(cmd, info)
			}

			out := cmd.OutOrStdout()
			colorize := ctx.terminal(out)
			for _, line := range renderSectionHeader("Subtitle service", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderStatusLine("Server", statusInfo, client.BaseURL(), colorize))
			fmt.Fprintln(out, renderStatusLine("Speech recognition", availabilityKind(info.SpeechRecognitionAvailable), yesNo(info.SpeechRecognitionAvailable), colorize))
			fmt.Fprintln(out, renderStatusLine("Voice detection", availabilityKind(info.VADAvailable), yesNo(info.VADAvailable), colorize))
			if info.Version != "" {
				fmt.Fprintln(out, renderStatusLine("Version", statusInfo, info.Version, colorize))
			}
			if len(info.Features) > 0 {
				fmt.Fprintln(out, renderStatusLine("Features", statusInfo, strings.Join(info.Features, ", "), colorize))
			}

			if len(info.SupportedLanguages) > 0 {
				fmt.Fprintln(out)
				rows := make([][]string, 0, len(info.SupportedLanguages))
				for _, lang := range info.SupportedLanguages {
					rows = append(rows, []string{lang.Code, lang.Name, yesNo(language.Supported(lang.Code))})
				}
				fmt.Fprintln(out, renderTable([]string{"Code", "Language", "Client"}, rows, nil))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the service capabilities as JSON")
	return cmd
}

func availabilityKind(ok bool) statusKind {
	if ok {
		return statusOK
	}
	return statusWarn
}
