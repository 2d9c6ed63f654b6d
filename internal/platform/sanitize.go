package platform

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// illegalFilenameChars are rejected by at least one common filesystem
var illegalFilenameChars = regexp.MustCompile(`[\\/*?:"<>|]`)

// SanitizeFilename strips filesystem-illegal characters from a title. The
// result is NFC normalized and trimmed, and sanitizing it again is a no-op.
func SanitizeFilename(title string) string {
	cleaned := illegalFilenameChars.ReplaceAllString(title, "")
	cleaned = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, cleaned)
	return norm.NFC.String(strings.TrimSpace(cleaned))
}

// FilenameForTitle returns a usable file stem for title, falling back when the
// title sanitizes to nothing
func FilenameForTitle(title, fallback string) string {
	if name := SanitizeFilename(title); name != "" {
		return name
	}
	return SanitizeFilename(fallback)
}
