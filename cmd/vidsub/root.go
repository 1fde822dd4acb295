package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	return buildRootCommand(newCommandContext(&globalFlags{}))
}

func buildRootCommand(ctx *commandContext) *cobra.Command {
	flags := ctx.flags

	rootCmd := &cobra.Command{
		Use:           "vidsub",
		Short:         "Extract subtitles from videos and YouTube links",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return ctx.report(cmd, err)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&flags.server, "server", "", "Subtitle service base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flags.locale, "locale", "", "Message language: en or ar (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log debug output to stderr")

	rootCmd.AddCommand(newFileCommand(ctx))
	rootCmd.AddCommand(newYouTubeCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newSetupCommand(ctx))
	rootCmd.AddCommand(newRenderCommand(ctx))
	rootCmd.AddCommand(newConvertCommand(ctx))
	rootCmd.AddCommand(newLanguagesCommand())
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
