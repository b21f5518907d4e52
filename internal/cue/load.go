package cue

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultCharset is used for cue sheets that are not valid UTF-8. Most
// rippers that do not write UTF-8 write the Windows ANSI code page.
const DefaultCharset = "windows-1252"

var (
	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
	utf16LEBOM = []byte{0xFF, 0xFE}
	utf16BEBOM = []byte{0xFE, 0xFF}
)

// Load reads and parses the cue sheet at path. FILE entries are resolved
// relative to the cue sheet's directory. charset names the fallback encoding
// for input that is not UTF-8; empty selects DefaultCharset.
func Load(path string, charset string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cue sheet: %w", err)
	}
	text, err := Decode(data, charset)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return Parse(strings.NewReader(text), filepath.Dir(path))
}

// Decode converts raw cue sheet bytes to UTF-8 text. Byte order marks decide
// the encoding when present; otherwise valid UTF-8 is returned as-is and
// anything else is decoded with charset.
func Decode(data []byte, charset string) (string, error) {
	switch {
	case bytes.HasPrefix(data, utf8BOM):
		return string(data[len(utf8BOM):]), nil
	case bytes.HasPrefix(data, utf16LEBOM), bytes.HasPrefix(data, utf16BEBOM):
		out, _, err := transform.Bytes(unicode.BOMOverride(encoding.Nop.NewDecoder()), data)
		if err != nil {
			return "", fmt.Errorf("utf-16: %w", err)
		}
		return string(out), nil
	case utf8.Valid(data):
		return string(data), nil
	}

	enc, err := LookupCharset(charset)
	if err != nil {
		return "", err
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("charset %s: %w", charsetName(charset), err)
	}
	return string(out), nil
}

// LookupCharset resolves a charset label such as "windows-1252", "shift_jis"
// or "gbk".
func LookupCharset(name string) (encoding.Encoding, error) {
	enc, err := htmlindex.Get(charsetName(name))
	if err != nil {
		return nil, fmt.Errorf("unknown charset %q", name)
	}
	return enc, nil
}

func charsetName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultCharset
	}
	return name
}
