package playlist

import (
	"strings"
)

// Entry is the stream a legacy playlist points to. Fallbacks are the other
// http entries of the same playlist, usually mirrors of the same station.
type Entry struct {
	URL       string
	Title     string
	Fallbacks []string
}

// ParseEntry extracts the stream entry of a legacy playlist body. The PLS or M3U
// strategy is chosen with the same markers Classify uses. An empty or malformed
// playlist yields false. Titles are returned as UTF-8 whatever the body encoding.
func ParseEntry(body, contentType, originatingURL string) (*Entry, bool) {
	body = toUTF8(body)
	if isPLS(originatingURL, contentType) || looksLikePLS(body) {
		return parsePLS(body)
	}
	return parseM3U(body)
}

// Parse is ParseEntry reduced to the url.
func Parse(body, contentType, originatingURL string) (string, bool) {
	e, ok := ParseEntry(body, contentType, originatingURL)
	if !ok {
		return "", false
	}
	return e.URL, true
}

// servers regularly label PLS files as audio/x-mpegurl or .m3u
func looksLikePLS(body string) bool {
	for _, line := range splitLines(body) {
		line = strings.TrimSpace(strings.TrimPrefix(line, "\ufeff"))
		if line == "" {
			continue
		}
		return strings.EqualFold(line, "[playlist]")
	}
	return false
}

func splitLines(body string) []string {
	return strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")
}
