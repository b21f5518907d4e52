package cue

import (
	"fmt"
	"strconv"
	"strings"
)

// DiscMetadata holds the disc-level tags declared before the first FILE
// directive. Empty fields were not declared.
type DiscMetadata struct {
	Genre  string `json:"genre,omitempty"`
	Date   string `json:"date,omitempty"`
	Artist string `json:"artist,omitempty"`
	Album  string `json:"album,omitempty"`
}

// Track is a single TRACK block.
type Track struct {
	Index    int          `json:"index"`
	Title    string       `json:"title,omitempty"`
	Artist   string       `json:"artist,omitempty"`
	Start    float64      `json:"start_seconds"`
	HasStart bool         `json:"has_start"`
	Timecode Timecode     `json:"timecode"`
	Disc     DiscMetadata `json:"disc"`
	Line     int          `json:"line"`
}

// SourceFile is an audio image referenced by a FILE directive together with
// the tracks declared against it.
type SourceFile struct {
	Path   string  `json:"path"`
	Type   string  `json:"type"`
	Tracks []Track `json:"tracks"`
}

// Document is the parsed form of a cue sheet.
type Document struct {
	Disc  DiscMetadata `json:"disc"`
	Files []SourceFile `json:"files"`
}

// TrackCount returns the number of tracks across all files.
func (d *Document) TrackCount() int {
	if d == nil {
		return 0
	}
	total := 0
	for _, file := range d.Files {
		total += len(file.Tracks)
	}
	return total
}

// Timecode is an MM:SS:FF cue position.
type Timecode struct {
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
	Frames  int `json:"frames"`
}

// MaxFrames bounds the frame field. Frames are read as hundredths, so any two
// digit value is accepted even though CD-DA runs at 75 frames per second.
const MaxFrames = 100

// ParseTimecode parses an MM:SS:FF value. Minutes may exceed 99; seconds must
// be below 60 and frames below 100.
func ParseTimecode(value string) (Timecode, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 3 {
		return Timecode{}, fmt.Errorf("timecode %q: expected mm:ss:ff", value)
	}
	nums := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return Timecode{}, fmt.Errorf("timecode %q: invalid field %q", value, part)
		}
		nums[i] = n
	}
	tc := Timecode{Minutes: nums[0], Seconds: nums[1], Frames: nums[2]}
	if tc.Seconds >= 60 {
		return Timecode{}, fmt.Errorf("timecode %q: seconds out of range", value)
	}
	if tc.Frames >= MaxFrames {
		return Timecode{}, fmt.Errorf("timecode %q: frames out of range", value)
	}
	return tc, nil
}

// TotalSeconds converts the timecode to seconds. Frames are read as
// hundredths of a second rather than 1/75ths, matching the splitters this tool
// replaces. Arithmetic is done in float64 so large minute counts stay positive.
func (t Timecode) TotalSeconds() float64 {
	return float64(t.Minutes)*60 + float64(t.Seconds) + float64(t.Frames)/100.0
}

func (t Timecode) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Minutes, t.Seconds, t.Frames)
}
