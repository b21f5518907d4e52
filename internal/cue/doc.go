// Package cue parses cue sheets into a Document: disc-level metadata plus the
// ordered source files and the tracks declared against each of them.
//
// Directives are recognized by case-sensitive prefix matching on the raw
// line, with indentation separating disc-level TITLE/PERFORMER from the
// nested track forms. Only REM GENRE, REM DATE, PERFORMER, TITLE, FILE, TRACK
// and INDEX 01 carry meaning; every other line is ignored so cue sheets with
// extra directives still parse. Structural violations surface as *ParseError
// values that match ErrMalformedCue.
//
// Load handles the file-level concerns (BOM stripping and legacy charsets)
// before handing the text to the parser.
package cue
