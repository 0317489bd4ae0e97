package playlist

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// toUTF8 returns body as UTF-8. Bodies that are not valid UTF-8 are read as
// Windows-1252, a superset of the Latin-1 most PLS and M3U files are written in.
func toUTF8(body string) string {
	if utf8.ValidString(body) {
		return body
	}
	s, err := charmap.Windows1252.NewDecoder().String(body)
	if err != nil {
		return body
	}
	return s
}
