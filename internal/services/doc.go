// Package services defines shared utilities consumed by the submission flow
// and the backend integration.
//
// Key responsibilities:
//   - Context helpers that stamp task IDs, submission sources, and correlation
//     identifiers for logging and request headers.
//   - Structured error markers plus the Wrap helper that let the CLI render
//     one localized message per failure category.
//
// Subpackages hold the external integrations; today that is the subtitle
// backend HTTP adapter.
package services
