package plan

import (
	"errors"
	"fmt"
)

// ErrIncompleteTrack marks a track that lacks a field needed to build a job.
var ErrIncompleteTrack = errors.New("incomplete track")

// TrackError names the track and the missing field.
type TrackError struct {
	Source string
	Index  int
	Field  string
}

func (e *TrackError) Error() string {
	return fmt.Sprintf("%s: track %02d in %s: missing %s", ErrIncompleteTrack, e.Index, e.Source, e.Field)
}

func (e *TrackError) Unwrap() error {
	return ErrIncompleteTrack
}
