package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"vidsub/internal/fileutil"
	"vidsub/internal/messages"
	"vidsub/internal/services"
	"vidsub/internal/session"
	"vidsub/internal/subtitles"
)

type renderPayload struct {
	Document subtitles.Document `json:"document"`
	Issues   []string           `json:"issues,omitempty"`
}

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var (
		htmlOut   bool
		jsonOut   bool
		copyAll   bool
		copyBlock int
		output    string
	)
	cmd := &cobra.Command{
		Use:         "render <file|->",
		Short:       "Display a subtitle file as blocks, HTML, or JSON",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args[0])
			if err != nil {
				return ctx.report(cmd, err)
			}
			doc, err := subtitles.Parse(raw)
			if err != nil {
				return ctx.report(cmd, services.Wrap(services.ErrValidation, "render", "parse", "", err))
			}
			issues := subtitles.Validate(doc)

			if copyAll || copyBlock > 0 {
				text, err := session.TextFor(doc, copyBlock)
				if err != nil {
					return ctx.report(cmd, err)
				}
				if err := ctx.writeClipboard(text); err != nil {
					return ctx.report(cmd, fmt.Errorf("copy to clipboard: %w", err))
				}
			}

			out := cmd.OutOrStdout()
			switch {
			case jsonOut:
				if err := writeJSON(cmd, renderPayload{Document: doc, Issues: issues}); err != nil {
					return err
				}
			case htmlOut:
				rendered, err := subtitles.RenderHTML(doc)
				if err != nil {
					return ctx.report(cmd, err)
				}
				if strings.TrimSpace(output) != "" {
					if err := fileutil.WriteFileAtomic(output, []byte(rendered), 0o644); err != nil {
						return ctx.report(cmd, err)
					}
					fmt.Fprintln(out, ctx.printer().T(messages.Saved, output))
				} else {
					fmt.Fprint(out, rendered)
				}
			default:
				colorize := ctx.terminal(out)
				writeDocument(out, doc, ctx.printer(), colorize)
				errOut := cmd.ErrOrStderr()
				for _, issue := range issues {
					fmt.Fprintln(errOut, styleLine(statusWarn, "issue: "+issue, ctx.terminal(errOut)))
				}
			}
			if copyAll || copyBlock > 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), ctx.printer().T(messages.Copied))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&htmlOut, "html", false, "Render an escaped HTML fragment")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the parsed blocks as JSON")
	cmd.Flags().BoolVar(&copyAll, "copy", false, "Copy all subtitle text to the clipboard")
	cmd.Flags().IntVar(&copyBlock, "copy-block", 0, "Copy the text of one cue (by index) to the clipboard")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write HTML to this file instead of stdout")
	return cmd
}

func (c *commandContext) writeClipboard(text string) error {
	if c.clipboard != nil {
		return c.clipboard(text)
	}
	return clipboard.WriteAll(text)
}

// readInput reads a file, or stdin for "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
