package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/snowie2000/streamgate/model"
	"github.com/snowie2000/streamgate/playlist"
)

var errHeadRejected = errors.New("HEAD rejected by origin")

// Check probes sourceURL without transferring media. HEAD is tried first, many radio
// origins refuse it, so a GET whose body is dropped unread is the fallback.
func (r *Resolver) Check(ctx context.Context, sourceURL string) *model.CheckReport {
	start := time.Now()
	report := &model.CheckReport{URL: sourceURL}
	defer func() {
		report.ResponseTime = time.Since(start).Milliseconds()
	}()
	timeout := r.cfg.Timeouts.Check
	log := logrus.WithField("url", sourceURL)

	live, err := r.follower.Follow(ctx, sourceURL, http.MethodHead, r.cfg.MaxRedirects, timeout)
	if err == nil && (live.StatusCode == http.StatusMethodNotAllowed || live.StatusCode == http.StatusNotImplemented) {
		live.Close()
		err = fmt.Errorf("%w: %d", errHeadRejected, live.StatusCode)
	}
	if err != nil && !errors.Is(err, ErrInvalidURL) && !errors.Is(err, ErrClientGone) {
		log.WithError(err).Debugln("HEAD probe failed, retrying with GET")
		live, err = r.follower.Follow(ctx, sourceURL, http.MethodGet, r.cfg.MaxRedirects, timeout)
	}
	if err != nil {
		log.WithError(err).Warnln("check failed")
		observeResolution("check", "unknown", err)
		report.Error = strPtr(err.Error())
		return report
	}
	live.Close()

	report.OK = live.StatusCode >= 200 && live.StatusCode < 400
	report.FinalURL = strPtr(live.FinalURL)
	report.ContentType = strPtr(live.ContentType)
	report.StatusCode = &live.StatusCode

	format := playlist.Classify(live.FinalURL, live.ContentType)
	switch format {
	case model.LegacyPlaylist:
		report.IsPlaylist = true
		if target, ok := r.peekPlaylist(ctx, live.FinalURL); ok {
			report.ResolvedURL = strPtr(target)
		}
	case model.HLS:
		report.IsHLS = true
		report.HLS = r.inspectHLS(ctx, live.FinalURL)
	}
	observeResolution("check", format.String(), nil)
	return report
}

// peekPlaylist fetches and parses a legacy playlist for the report only; any failure
// just leaves the resolved url empty.
func (r *Resolver) peekPlaylist(ctx context.Context, playlistURL string) (string, bool) {
	live, err := r.follower.Follow(ctx, playlistURL, http.MethodGet, r.cfg.MaxRedirects, r.cfg.Timeouts.Check)
	if err != nil {
		logrus.WithError(err).WithField("url", playlistURL).Debugln("playlist sub-fetch failed")
		return "", false
	}
	body, err := readPlaylist(live, r.cfg.PlaylistMaxBytes, r.cfg.Timeouts.CheckPlaylistRead)
	if err != nil {
		logrus.WithError(err).WithField("url", playlistURL).Debugln("playlist sub-fetch failed")
		return "", false
	}
	return playlist.Parse(string(body), live.ContentType, live.FinalURL)
}
