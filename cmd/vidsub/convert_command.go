package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"vidsub/internal/fileutil"
	"vidsub/internal/messages"
	"vidsub/internal/services"
	"vidsub/internal/subtitles"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var (
		output string
		force  bool
	)
	cmd := &cobra.Command{
		Use:         "convert <file|->",
		Short:       "Convert a bracketed transcript to SRT",
		Long:        "Convert a transcript with [HH:MM:SS.mmm --> HH:MM:SS.mmm] cue headers to indexed SRT. SRT input is normalized. Output goes to stdout unless --output is set.",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args[0])
			if err != nil {
				return ctx.report(cmd, err)
			}
			if strings.TrimSpace(raw) == "" {
				return ctx.report(cmd, services.Wrap(services.ErrValidation, "convert", "", "", subtitles.ErrEmpty))
			}
			converted := strings.TrimRight(subtitles.ToSRT(raw), "\n") + "\n"

			target := strings.TrimSpace(output)
			if target == "" {
				fmt.Fprint(cmd.OutOrStdout(), converted)
				return nil
			}
			if filepath.Ext(target) == "" {
				target = filepath.Join(target, subtitles.SRTFilename(subtitles.NameFromVideo(args[0])))
			}
			if !force {
				if target, err = fileutil.UniquePath(target); err != nil {
					return ctx.report(cmd, err)
				}
			}
			if err := fileutil.WriteFileAtomic(target, []byte(converted), 0o644); err != nil {
				return ctx.report(cmd, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ctx.printer().T(messages.Saved, target))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination .srt file or directory")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}
