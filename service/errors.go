package service

import (
	"context"
	"errors"
	"net"
)

var (
	ErrInvalidURL          = errors.New("invalid url")
	ErrTimedOut            = errors.New("connection timed out")
	ErrTooManyRedirects    = errors.New("too many redirects")
	ErrUpstream            = errors.New("upstream error")
	ErrPlaylistUnparseable = errors.New("could not extract stream URL from playlist")
	ErrClientGone          = errors.New("client disconnected")
)

const (
	MsgPlaylistUnresolved = "Could not extract stream URL from playlist"
	MsgPlaylistUnparsable = "Could not parse playlist file"
)

// errorKind labels err for metrics and logs.
func errorKind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrInvalidURL):
		return "invalid_url"
	case errors.Is(err, ErrTimedOut):
		return "timeout"
	case errors.Is(err, ErrTooManyRedirects):
		return "too_many_redirects"
	case errors.Is(err, ErrPlaylistUnparseable):
		return "playlist_unparseable"
	case errors.Is(err, ErrClientGone):
		return "client_gone"
	default:
		return "upstream"
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func strPtr(s string) *string {
	return &s
}
