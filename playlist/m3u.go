package playlist

import (
	"strings"
)

// parseM3U returns the first non directive line starting with http. The title comes
// from the #EXTINF line right before it, later http lines become fallbacks.
func parseM3U(body string) (*Entry, bool) {
	var chosen *Entry
	title := ""
	for _, line := range splitLines(body) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			if strings.HasPrefix(strings.ToUpper(line), "#EXTINF:") {
				title = extinfTitle(line)
			}
			continue
		}
		if strings.HasPrefix(line, "http") {
			if chosen == nil {
				chosen = &Entry{URL: line, Title: title}
			} else if line != chosen.URL {
				chosen.Fallbacks = append(chosen.Fallbacks, line)
			}
		}
		title = ""
	}
	return chosen, chosen != nil
}

// "#EXTINF:-1 tvg-name="x",Station Name" -> "Station Name"
func extinfTitle(line string) string {
	if i := strings.LastIndex(line, ","); i >= 0 {
		return strings.TrimSpace(line[i+1:])
	}
	return ""
}
