// Package submission validates user input and hands jobs to the backend.
//
// File and URL inputs are checked locally before any request is made: a
// file must exist, be a regular file within the size cap, and sniff as a
// video; a URL must point at YouTube. The language is normalized to one of
// the supported codes. Validation failures are *ValidationError values
// tagged with services.ErrValidation and carry a message key so the CLI can
// render them in the configured locale.
package submission
