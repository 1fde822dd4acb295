package main

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"vidsub/internal/messages"
	"vidsub/internal/submission"
	"vidsub/internal/subtitles"
)

func newFileCommand(ctx *commandContext) *cobra.Command {
	flags := &jobFlags{}
	cmd := &cobra.Command{
		Use:   "file <video>",
		Short: "Upload a local video and extract its subtitles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			return ctx.runJob(cmd, flags, func(jobCtx context.Context, run *jobRun) (submission.Submission, error) {
				return run.service().SubmitFile(jobCtx, path, run.language(flags), run.view.Upload(filepath.Base(path)))
			})
		},
	}
	flags.register(cmd, true)
	return cmd
}

func newYouTubeCommand(ctx *commandContext) *cobra.Command {
	flags := &jobFlags{}
	cmd := &cobra.Command{
		Use:     "youtube <url>",
		Aliases: []string{"yt", "url"},
		Short:   "Extract subtitles from a YouTube video",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rawURL := args[0]
			return ctx.runJob(cmd, flags, func(jobCtx context.Context, run *jobRun) (submission.Submission, error) {
				if _, err := submission.ValidateURL(rawURL); err != nil {
					return submission.Submission{}, err
				}
				run.view.Note(run.printer.T(messages.SubmittingURL))
				return run.service().SubmitURL(jobCtx, rawURL, run.language(flags))
			})
		},
	}
	flags.register(cmd, true)
	return cmd
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	flags := &jobFlags{skipLock: true}
	var name string
	cmd := &cobra.Command{
		Use:   "status <task-id>",
		Short: "Follow an existing job until it finishes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := submission.ValidateTaskID(args[0])
			if err != nil {
				return ctx.report(cmd, err)
			}
			return ctx.runJob(cmd, flags, func(context.Context, *jobRun) (submission.Submission, error) {
				base := strings.TrimSpace(name)
				if base == "" {
					base = subtitles.DefaultBaseName
				}
				return submission.Submission{TaskID: taskID, BaseName: base}, nil
			})
		},
	}
	flags.register(cmd, false)
	cmd.Flags().StringVar(&name, "name", "", "Base name for the saved .srt file")
	return cmd
}
