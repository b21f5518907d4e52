// Package config loads, normalizes, and validates cuesplit configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads an optional .env file that sits next to
// the config, and honours environment fallbacks such as CUESPLIT_FFMPEG. The
// Config type centralizes every knob the split pipeline and CLI need.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical log formats, and clear validation errors.
package config
