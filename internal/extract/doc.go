// Package extract turns planned jobs into per-track audio files.
//
// Executor is the seam between planning and the external transcoder. FFmpeg
// is the production implementation; Run drives any Executor over a job list
// strictly in order and stops at the first failure, leaving files produced
// by earlier jobs in place.
//
// LockOutputDir guards an output directory with an advisory file lock so
// two splits never write into the same place at once.
package extract
