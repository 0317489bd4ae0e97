package playlist

import (
	"strings"

	"github.com/dlclark/regexp2"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var plsKey = regexp2.MustCompile(`^(File|Title)(\d*)=`, regexp2.IgnoreCase)

type plsEntry struct {
	File  string
	Title string
}

// parsePLS returns the first FileN entry, in line order, whose value starts with http.
// The remaining http entries become fallbacks in the order their index first appears.
func parsePLS(body string) (*Entry, bool) {
	entries := orderedmap.New[string, *plsEntry]()
	var chosen *Entry
	chosenIndex := ""
	for _, line := range splitLines(body) {
		// keys are matched after trimming, so indented keys count too
		line = strings.TrimSpace(line)
		m, err := plsKey.FindStringMatch(line)
		if err != nil || m == nil {
			continue
		}
		key := strings.ToLower(m.GroupByNumber(1).String())
		index := m.GroupByNumber(2).String()
		value := strings.TrimSpace(line[strings.IndexByte(line, '=')+1:])

		e, ok := entries.Get(index)
		if !ok {
			e = &plsEntry{}
			entries.Set(index, e)
		}
		switch key {
		case "file":
			if !strings.HasPrefix(e.File, "http") {
				e.File = value
			}
			if chosen == nil && strings.HasPrefix(value, "http") {
				chosen, chosenIndex = &Entry{URL: value}, index
			}
		case "title":
			e.Title = value
		}
	}
	if chosen == nil {
		return nil, false
	}
	for pair := entries.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key == chosenIndex {
			chosen.Title = pair.Value.Title
			continue
		}
		if f := pair.Value.File; strings.HasPrefix(f, "http") && f != chosen.URL {
			chosen.Fallbacks = append(chosen.Fallbacks, f)
		}
	}
	return chosen, true
}
