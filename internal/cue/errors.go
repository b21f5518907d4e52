package cue

import (
	"errors"
	"fmt"
)

// ErrMalformedCue marks structural violations found while parsing.
var ErrMalformedCue = errors.New("malformed cue sheet")

// ParseError records the offending line of a malformed cue sheet.
type ParseError struct {
	Line      int
	Text      string
	Directive string
	Reason    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: line %d: %s: %s (%q)", ErrMalformedCue, e.Line, e.Directive, e.Reason, e.Text)
}

func (e *ParseError) Unwrap() error {
	return ErrMalformedCue
}
