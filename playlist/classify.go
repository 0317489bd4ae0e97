// Package playlist tells HLS manifests, legacy radio playlists and direct streams
// apart and extracts the stream url a legacy playlist points to.
//
// Precedence rule shared by Classify and Parse: HLS markers win over the generic
// "mpegurl" content type. An .m3u8 or Apple HLS resource is a terminal target for an
// HLS capable player and must never be opened up as a legacy playlist.
package playlist

import (
	"net/url"
	"path"
	"strings"

	"github.com/snowie2000/streamgate/model"
)

var (
	hlsContentTypes    = []string{"x-mpegurl", "vnd.apple.mpegurl"}
	legacyContentTypes = []string{"mpegurl", "scpls", "x-scpls"}
	plsContentTypes    = []string{"scpls", "x-scpls"}
)

// extension returns the lower cased extension of the url path, query excluded.
func extension(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	return strings.ToLower(path.Ext(p))
}

func containsAny(contentType string, markers []string) bool {
	contentType = strings.ToLower(contentType)
	for _, m := range markers {
		if strings.Contains(contentType, m) {
			return true
		}
	}
	return false
}

func IsHLS(rawURL, contentType string) bool {
	return extension(rawURL) == ".m3u8" || containsAny(contentType, hlsContentTypes)
}

func IsLegacyPlaylist(rawURL, contentType string) bool {
	if IsHLS(rawURL, contentType) {
		return false
	}
	switch extension(rawURL) {
	case ".m3u", ".pls":
		return true
	}
	return containsAny(contentType, legacyContentTypes)
}

// isPLS picks the PLS strategy for a resource already known to be a legacy playlist.
func isPLS(rawURL, contentType string) bool {
	return extension(rawURL) == ".pls" || containsAny(contentType, plsContentTypes)
}

// Classify is pure and does no I/O.
func Classify(rawURL, contentType string) model.FormatClass {
	switch {
	case IsHLS(rawURL, contentType):
		return model.HLS
	case IsLegacyPlaylist(rawURL, contentType):
		return model.LegacyPlaylist
	default:
		return model.DirectStream
	}
}
