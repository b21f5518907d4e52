// Package preflight provides readiness checks for the directories, external
// binaries, and source audio files cuesplit depends on.
//
// These checks run in two contexts:
//   - The split command calls CheckSources before extraction when source
//     probing is enabled, so a missing or truncated image fails before any
//     track is written.
//   - The CLI "cuesplit check" command uses RunAll and CheckSystemDeps to
//     display readiness.
package preflight
