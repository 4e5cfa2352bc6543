package scraper

import (
	"regexp"
	"strings"
)

var (
	// (###) ###-#### with optional parens and space/dot/dash separators.
	phonePattern = regexp.MustCompile(`\(?\d{3}\)?[\s.-]?\d{3}[\s.-]\d{4}`)

	// "City, ST" — the city fragment ahead of a two-letter state code.
	cityStatePattern = regexp.MustCompile(`([A-Za-z][A-Za-z .'-]*?),\s*[A-Z]{2}\b`)

	// A street number at the start of a line, or an embedded ZIP.
	streetPattern = regexp.MustCompile(`^\d{1,5}\s+\S`)
	zipInLine     = regexp.MustCompile(`\b\d{5}(?:-\d{4})?\b`)
)

// cityFromAddress pulls the city out of a "1 Main St, Springfield, IL
// 62704" style address. Empty when no City, ST fragment is present.
func cityFromAddress(address string) string {
	match := cityStatePattern.FindStringSubmatch(address)
	if match == nil {
		return ""
	}
	// The captured fragment may span the street part too ("Main St,
	// Springfield"); the city is whatever follows the last comma.
	city := match[1]
	if idx := strings.LastIndexByte(city, ','); idx >= 0 {
		city = city[idx+1:]
	}
	return strings.TrimSpace(city)
}

func looksLikeAddress(line string) bool {
	return streetPattern.MatchString(line) || zipInLine.MatchString(line)
}
