package textutil

import "strings"

// fileNameReplacer maps every filesystem-unsafe character to a single space.
var fileNameReplacer = strings.NewReplacer(
	"<", " ",
	">", " ",
	":", " ",
	"\"", " ",
	"\\", " ",
	"/", " ",
	"|", " ",
	"?", " ",
	"*", " ",
)

// UnsafeFileNameChars lists the characters SanitizeFileName replaces.
const UnsafeFileNameChars = `<>:"\/|?*`

// SanitizeFileName replaces each of < > : " \ / | ? * with a space. The
// result is not trimmed and runs of spaces are kept, so names stay aligned
// with what other splitters produce for the same cue sheet.
func SanitizeFileName(name string) string {
	return fileNameReplacer.Replace(name)
}
