// Package config loads, normalizes, and validates titrate configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TITRATE_STUDENT. The Config type centralizes the experiment labels, chart
// axes, report formatting, and storage locations the CLI needs.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
