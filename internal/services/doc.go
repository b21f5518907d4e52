// Package services defines shared utilities consumed by the split pipeline
// and its external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, pipeline stages, and track positions
//     for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent run statuses (invalid vs failed vs canceled).
//
// Use these helpers when wiring new pipeline steps so error handling and
// observability stay uniform across commands.
package services
