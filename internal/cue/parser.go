package cue

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
)

// handler applies one directive. tokens is the line split on whitespace.
type handler func(p *parser, tokens []string) error

type directive struct {
	prefix string
	name   string
	handle handler
}

// directives are tried in order; the first matching prefix wins.
var directives = []directive{
	{prefix: "REM GENRE ", name: "REM GENRE", handle: (*parser).discGenre},
	{prefix: "REM DATE ", name: "REM DATE", handle: (*parser).discDate},
	{prefix: "PERFORMER ", name: "PERFORMER", handle: (*parser).discPerformer},
	{prefix: "TITLE ", name: "TITLE", handle: (*parser).discTitle},
	{prefix: "FILE ", name: "FILE", handle: (*parser).file},
	{prefix: "  TRACK ", name: "TRACK", handle: (*parser).track},
	{prefix: "    TITLE ", name: "TITLE", handle: (*parser).trackTitle},
	{prefix: "    PERFORMER ", name: "PERFORMER", handle: (*parser).trackPerformer},
	{prefix: "    INDEX ", name: "INDEX", handle: (*parser).index},
}

type parser struct {
	baseDir string
	doc     Document

	// cursors into doc.Files and the current file's Tracks; -1 when closed.
	currentFile  int
	currentTrack int

	lineNo    int
	line      string
	directive string
}

// Parse reads a cue sheet line by line. FILE paths are resolved against
// baseDir. Nothing is returned on error.
func Parse(r io.Reader, baseDir string) (*Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read cue sheet: %w", err)
	}
	return ParseLines(lines, baseDir)
}

// ParseLines parses an in-memory cue sheet.
func ParseLines(lines []string, baseDir string) (*Document, error) {
	p := &parser{
		baseDir:      baseDir,
		currentFile:  -1,
		currentTrack: -1,
	}
	for i, raw := range lines {
		p.lineNo = i + 1
		p.line = strings.TrimRight(raw, "\r")
		if i == 0 {
			p.line = strings.TrimPrefix(p.line, "\ufeff")
		}
		for _, d := range directives {
			if !strings.HasPrefix(p.line, d.prefix) {
				continue
			}
			p.directive = d.name
			if err := d.handle(p, strings.Fields(p.line)); err != nil {
				return nil, err
			}
			break
		}
	}
	doc := p.doc
	return &doc, nil
}

func (p *parser) fail(format string, args ...any) error {
	return &ParseError{
		Line:      p.lineNo,
		Text:      p.line,
		Directive: p.directive,
		Reason:    fmt.Sprintf(format, args...),
	}
}

// headerOpen reports whether disc-level directives still apply.
func (p *parser) headerOpen() bool {
	return len(p.doc.Files) == 0
}

func (p *parser) discGenre(tokens []string) error {
	if p.headerOpen() {
		p.doc.Disc.Genre = joinValue(tokens, 2)
	}
	return nil
}

func (p *parser) discDate(tokens []string) error {
	if p.headerOpen() {
		p.doc.Disc.Date = joinValue(tokens, 2)
	}
	return nil
}

func (p *parser) discPerformer(tokens []string) error {
	if p.headerOpen() {
		p.doc.Disc.Artist = joinValue(tokens, 1)
	}
	return nil
}

func (p *parser) discTitle(tokens []string) error {
	if p.headerOpen() {
		p.doc.Disc.Album = joinValue(tokens, 1)
	}
	return nil
}

func (p *parser) file(tokens []string) error {
	if len(tokens) < 3 {
		return p.fail("expected FILE <name> <type>")
	}
	name := stripQuotes(strings.Join(tokens[1:len(tokens)-1], " "))
	if strings.TrimSpace(name) == "" {
		return p.fail("missing file name")
	}
	p.doc.Files = append(p.doc.Files, SourceFile{
		Path: p.resolve(name),
		Type: tokens[len(tokens)-1],
	})
	p.currentFile = len(p.doc.Files) - 1
	p.currentTrack = -1
	return nil
}

func (p *parser) track(tokens []string) error {
	if p.currentFile < 0 {
		return p.fail("TRACK before any FILE")
	}
	if len(tokens) < 2 {
		return p.fail("missing track number")
	}
	index, err := strconv.Atoi(tokens[1])
	if err != nil {
		return p.fail("invalid track number %q", tokens[1])
	}
	file := &p.doc.Files[p.currentFile]
	if n := len(file.Tracks); n > 0 && index <= file.Tracks[n-1].Index {
		return p.fail("track %d does not follow track %d", index, file.Tracks[n-1].Index)
	}
	disc := p.doc.Disc
	file.Tracks = append(file.Tracks, Track{
		Index:  index,
		Artist: disc.Artist,
		Disc:   disc,
		Line:   p.lineNo,
	})
	p.currentTrack = len(file.Tracks) - 1
	return nil
}

func (p *parser) openTrack() (*Track, error) {
	if p.currentFile < 0 || p.currentTrack < 0 {
		return nil, p.fail("%s outside of a TRACK block", p.directive)
	}
	return &p.doc.Files[p.currentFile].Tracks[p.currentTrack], nil
}

func (p *parser) trackTitle(tokens []string) error {
	t, err := p.openTrack()
	if err != nil {
		return err
	}
	t.Title = joinValue(tokens, 1)
	return nil
}

func (p *parser) trackPerformer(tokens []string) error {
	t, err := p.openTrack()
	if err != nil {
		return err
	}
	t.Artist = joinValue(tokens, 1)
	return nil
}

func (p *parser) index(tokens []string) error {
	// Only INDEX 01 marks the track start; pregaps and subindexes are skipped.
	if len(tokens) < 2 || tokens[1] != "01" {
		return nil
	}
	t, err := p.openTrack()
	if err != nil {
		return err
	}
	if len(tokens) < 3 {
		return p.fail("missing timecode")
	}
	if t.HasStart {
		return p.fail("duplicate INDEX 01 for track %d", t.Index)
	}
	tc, err := ParseTimecode(stripQuotes(strings.Join(tokens[2:], " ")))
	if err != nil {
		return p.fail("%v", err)
	}
	start := tc.TotalSeconds()
	if prev, ok := p.previousStart(); ok && start <= prev {
		return p.fail("track %d starts at %s, not after the previous track", t.Index, tc)
	}
	t.Timecode = tc
	t.Start = start
	t.HasStart = true
	return nil
}

// previousStart returns the start of the nearest earlier track in the current
// file that has one.
func (p *parser) previousStart() (float64, bool) {
	tracks := p.doc.Files[p.currentFile].Tracks
	for i := p.currentTrack - 1; i >= 0; i-- {
		if tracks[i].HasStart {
			return tracks[i].Start, true
		}
	}
	return 0, false
}

func (p *parser) resolve(name string) string {
	if p.baseDir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(p.baseDir, name)
}

// joinValue rejoins tokens from position skip with single spaces, so runs of
// whitespace inside a value collapse.
func joinValue(tokens []string, skip int) string {
	if len(tokens) <= skip {
		return ""
	}
	return stripQuotes(strings.Join(tokens[skip:], " "))
}

func stripQuotes(value string) string {
	return strings.ReplaceAll(value, `"`, "")
}
