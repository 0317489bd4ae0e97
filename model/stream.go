package model

import (
	"io"
	"net/http"
)

// FormatClass is what a fetched resource is, judged from its url and content type.
type FormatClass int

const (
	DirectStream FormatClass = iota
	HLS
	LegacyPlaylist
)

func (f FormatClass) String() string {
	switch f {
	case HLS:
		return "hls"
	case LegacyPlaylist:
		return "legacy-playlist"
	default:
		return "direct-stream"
	}
}

// LiveResponse is the response left after redirect following. Body is unread and
// must be closed exactly once by whoever ends up owning it.
type LiveResponse struct {
	FinalURL      string
	StatusCode    int
	ContentType   string
	Header        http.Header
	RedirectCount int
	Body          io.ReadCloser
}

func (r *LiveResponse) Close() error {
	if r == nil || r.Body == nil {
		return nil
	}
	return r.Body.Close()
}

// ResolutionResult is returned verbatim by stream-resolve.
type ResolutionResult struct {
	OriginalURL   string  `json:"originalUrl"`
	ResolvedURL   *string `json:"resolvedUrl"`
	ContentType   string  `json:"contentType"`
	IsPlaylist    bool    `json:"isPlaylist"`
	IsHLS         bool    `json:"isHLS"`
	RedirectCount int     `json:"redirectCount"`
	Title         string  `json:"title,omitempty"`
	Error         *string `json:"error"`
}

// HLSInfo summarises an HLS manifest.
type HLSInfo struct {
	Type     string `json:"type"` // master or media
	Variants int    `json:"variants,omitempty"`
	Segments int    `json:"segments,omitempty"`
	Live     *bool  `json:"live,omitempty"` // media playlists only
}

// CheckReport is returned by stream-check.
type CheckReport struct {
	OK           bool     `json:"ok"`
	URL          string   `json:"url"`
	FinalURL     *string  `json:"finalUrl"`
	ContentType  *string  `json:"contentType"`
	StatusCode   *int     `json:"statusCode"`
	IsPlaylist   bool     `json:"isPlaylist"`
	IsHLS        bool     `json:"isHLS"`
	ResolvedURL  *string  `json:"resolvedUrl"`
	HLS          *HLSInfo `json:"hls,omitempty"`
	Error        *string  `json:"error"`
	ResponseTime int64    `json:"responseTime"`
}
