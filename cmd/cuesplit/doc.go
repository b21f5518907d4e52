// Package main hosts the cuesplit CLI entrypoint and command graph.
//
// The Cobra-based command tree turns a cue sheet into per-track FLAC files
// (split), previews the derived jobs (plan), follows a drop directory
// (watch), and exposes the run history and readiness checks. It centralizes
// configuration resolution and structured logging setup so subcommands can
// focus on user experience instead of wiring.
//
// Keep this package lean: parsing, planning, and extraction live in the
// internal packages and are only surfaced here.
package main
