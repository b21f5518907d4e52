// Package logs reads back the cuesplit log file.
//
// Tail returns the last N lines (optionally only those mentioning one run id)
// together with the byte offset to resume from, and Follow polls from that
// offset until the context ends. Memory stays bounded by the requested line
// count regardless of log size.
package logs
