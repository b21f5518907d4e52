// Package plan turns a parsed cue Document into the ordered extraction jobs
// an executor runs one at a time.
//
// Durations are computed within each source file: every track runs until the
// next track of the same file starts and the last one runs to the end of the
// image. The "track" tag counts over the whole disc. Planning is
// all-or-nothing for the document: the first track missing a title, artist
// or INDEX 01 aborts it with a *TrackError matching ErrIncompleteTrack.
package plan
