// Package config loads, normalizes, and validates vidsub configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// VIDSUB_SERVER_URL. The Config type centralizes every knob the CLI needs,
// from the backend address to the poller cadence tiers.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
