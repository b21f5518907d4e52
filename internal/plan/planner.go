package plan

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"cuesplit/internal/cue"
	"cuesplit/internal/textutil"
)

// OutputExtension is appended to every generated filename.
const OutputExtension = ".flac"

// Plan derives one job per track in file-then-track order. No jobs are
// returned when any track is incomplete.
func Plan(doc *cue.Document) ([]Job, error) {
	if doc == nil {
		return nil, errors.New("plan: nil document")
	}
	total := doc.TrackCount()
	jobs := make([]Job, 0, total)
	for _, file := range doc.Files {
		fileJobs, err := planFile(file, total)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, fileJobs...)
	}
	return jobs, nil
}

func planFile(file cue.SourceFile, total int) ([]Job, error) {
	jobs := make([]Job, 0, len(file.Tracks))
	for i, track := range file.Tracks {
		if err := checkTrack(file.Path, track); err != nil {
			return nil, err
		}
		job := Job{
			SourcePath:     file.Path,
			Start:          track.Start,
			OutputFilename: OutputFilename(track),
			Tags:           Tags(track, total),
		}
		if i < len(file.Tracks)-1 {
			next := file.Tracks[i+1]
			if !next.HasStart {
				return nil, &TrackError{Source: file.Path, Index: next.Index, Field: "INDEX 01"}
			}
			duration := next.Start - track.Start
			if duration < 0 {
				return nil, fmt.Errorf("plan: track %02d in %s: next track starts %.2fs earlier", track.Index, file.Path, -duration)
			}
			job.Duration = &duration
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func checkTrack(source string, track cue.Track) error {
	switch {
	case track.Title == "":
		return &TrackError{Source: source, Index: track.Index, Field: "title"}
	case track.Artist == "":
		return &TrackError{Source: source, Index: track.Index, Field: "artist"}
	case !track.HasStart:
		return &TrackError{Source: source, Index: track.Index, Field: "INDEX 01"}
	}
	return nil
}

// Tags builds the tag map for a track. total is the number of tracks on the
// whole disc, not just the track's source file.
func Tags(track cue.Track, total int) map[string]string {
	tags := map[string]string{
		TagArtist: track.Artist,
		TagTitle:  track.Title,
		TagTrack:  strconv.Itoa(track.Index) + "/" + strconv.Itoa(total),
	}
	if track.Disc.Album != "" {
		tags[TagAlbum] = track.Disc.Album
	}
	if track.Disc.Genre != "" {
		tags[TagGenre] = track.Disc.Genre
	}
	if track.Disc.Date != "" {
		tags[TagDate] = track.Disc.Date
	}
	return tags
}

// OutputFilename returns "NN. Artist - Title.flac" with unsafe characters
// replaced by spaces. Identical artist/title pairs yield identical names.
func OutputFilename(track cue.Track) string {
	name := fmt.Sprintf("%02d. %s - %s%s", track.Index, track.Artist, track.Title, OutputExtension)
	return textutil.SanitizeFileName(name)
}

// OutputPath joins dir and the job's filename.
func (j Job) OutputPath(dir string) string {
	return filepath.Join(dir, j.OutputFilename)
}
