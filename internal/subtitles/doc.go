// Package subtitles turns subtitle text returned by the service into display
// blocks and saveable SRT.
//
// Service output is often slightly mangled: Windows line endings, an index
// glued to its timestamp, or a block index glued to the previous cue's text.
// Normalize repairs those before Parse splits the text into blocks. Text
// that does not look like SRT is kept as a single raw body. The package also
// converts "[start --> end]" transcripts to indexed SRT and derives output
// filenames from a video path or YouTube URL.
package subtitles
