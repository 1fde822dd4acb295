// Package main hosts the vidsub CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into submissions
// against the subtitle service: upload a local video or send a YouTube URL,
// follow the job's progress on a redrawn terminal line, then show, save, or
// copy the subtitles it produced. Offline helpers render and convert local
// subtitle files without touching the network.
//
// Keep this package lean: behavior lives in the internal packages and the
// commands here only wire configuration, logging, and output together.
package main
