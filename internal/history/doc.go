// Package history records split runs in a SQLite database so completed,
// failed, and interrupted extractions can be reviewed after the fact.
//
// Each run stores the cue sheet path, output directory, and the planned job
// list; job rows move from pending to completed or failed as the extractor
// reports progress.
package history
