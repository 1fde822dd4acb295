// Package logging assembles the slog loggers used by the vidsub CLI.
//
// Records go to a log file under the configured log directory, in either the
// console (key=value) or JSON format, and warnings are echoed to stderr so
// they do not fight with the progress display. Context helpers tag lines with
// the task ID, submission source, and correlation ID carried on the context.
package logging
