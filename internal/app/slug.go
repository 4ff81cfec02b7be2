package app

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// en/em dashes are normalized to plain hyphens before the ASCII strip
	// would otherwise drop them.
	dashRunes       = strings.NewReplacer("–", "-", "—", "-")
	nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]+`)
	multipleHyphens = regexp.MustCompile(`-+`)
)

// Slugify converts a property id or name into the URL/ID-safe grouping key:
// "Shoreditch Heights – 2B" -> "shoreditch-heights-2b".
// The same form is used for route matching, so it must stay stable.
func Slugify(s string) string {
	if s == "" {
		return ""
	}
	// Decompose accented characters, then drop the combining marks along
	// with everything else outside ASCII.
	s = norm.NFKD.String(dashRunes.Replace(s))
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	s = multipleHyphens.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	return strings.ToLower(s)
}
