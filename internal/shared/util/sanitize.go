package util

import (
	"errors"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrInvalidFileName is returned for names that are empty or try to walk directories.
var ErrInvalidFileName = errors.New("invalid file name")

const maxFileNameRunes = 255

// SanitizeFileName makes an uploaded file name safe to log and to read an extension
// from. Separators become underscores, control characters are dropped and long names
// are shortened with their extension kept.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	s := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, strings.TrimSpace(name))
	if s == "" {
		return "", ErrInvalidFileName
	}
	if utf8.RuneCountInString(s) > maxFileNameRunes {
		ext := filepath.Ext(s)
		base := []rune(strings.TrimSuffix(s, ext))
		keep := maxFileNameRunes - utf8.RuneCountInString(ext)
		if keep < 1 {
			keep, ext = maxFileNameRunes, ""
			base = []rune(s)
		}
		s = string(base[:keep]) + ext
	}
	return s, nil
}
