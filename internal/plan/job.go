package plan

// Tag keys written to every job. Genre and date appear only when the cue
// sheet declares them; album only when the disc has a TITLE.
const (
	TagArtist = "artist"
	TagTitle  = "title"
	TagAlbum  = "album"
	TagTrack  = "track"
	TagGenre  = "genre"
	TagDate   = "date"
)

// TagOrder is the order executors should emit tags in.
var TagOrder = []string{TagArtist, TagTitle, TagAlbum, TagTrack, TagGenre, TagDate}

// Job is one track extraction: seek into SourcePath at Start and copy
// Duration seconds, or to the end of the source when Duration is nil.
type Job struct {
	SourcePath     string            `json:"source_path"`
	Start          float64           `json:"start_seconds"`
	Duration       *float64          `json:"duration_seconds,omitempty"`
	OutputFilename string            `json:"output_filename"`
	Tags           map[string]string `json:"tags"`
}

// StartClock formats Start as HH:MM:SS.
func (j Job) StartClock() string {
	return FormatClock(j.Start)
}

// DurationClock formats Duration as HH:MM:SS. ok is false for open-ended jobs.
func (j Job) DurationClock() (clock string, ok bool) {
	if j.Duration == nil {
		return "", false
	}
	return FormatClock(*j.Duration), true
}

// OrderedTags returns the job's tags as key/value pairs in TagOrder.
func (j Job) OrderedTags() [][2]string {
	out := make([][2]string, 0, len(j.Tags))
	for _, key := range TagOrder {
		if value, ok := j.Tags[key]; ok {
			out = append(out, [2]string{key, value})
		}
	}
	return out
}
