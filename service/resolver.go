package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/snowie2000/streamgate/global"
	"github.com/snowie2000/streamgate/model"
	"github.com/snowie2000/streamgate/playlist"
)

const (
	defaultContentType = "audio/mpeg"
	// mirrors tried after the first playlist entry failed
	maxFallbacks = 2
)

// Resolver turns a directory stream url into the media endpoint behind it. It holds
// no per request state and is safe for concurrent use.
type Resolver struct {
	cfg      *global.Config
	follower *Follower
}

func NewResolver(cfg *global.Config, client Doer) *Resolver {
	return &Resolver{cfg: cfg, follower: NewFollower(client)}
}

// Resolve follows sourceURL to a playable target and never fails: problems are
// reported in the Error field of the result.
func (r *Resolver) Resolve(ctx context.Context, sourceURL string) *model.ResolutionResult {
	result := &model.ResolutionResult{OriginalURL: sourceURL}
	log := logrus.WithField("url", sourceURL)
	timeout := r.cfg.Timeouts.Resolve

	a, err := r.follower.Follow(ctx, sourceURL, http.MethodGet, r.cfg.MaxRedirects, timeout)
	if err != nil {
		log.WithError(err).Warnln("resolve failed")
		observeResolution("resolve", "unknown", err)
		result.Error = strPtr(err.Error())
		return result
	}
	format := playlist.Classify(a.FinalURL, a.ContentType)
	result.ResolvedURL = strPtr(a.FinalURL)
	result.ContentType = a.ContentType
	result.RedirectCount = a.RedirectCount

	switch format {
	case model.LegacyPlaylist:
		result.IsPlaylist = true
		b, entry, err := r.openEntry(ctx, a, timeout, r.cfg.Timeouts.PlaylistRead)
		if err != nil {
			log.WithError(err).Warnln("playlist not resolved")
			observeResolution("resolve", format.String(), err)
			result.Error = strPtr(MsgPlaylistUnresolved)
			return result
		}
		b.Close()
		result.ResolvedURL = strPtr(b.FinalURL)
		result.ContentType = b.ContentType
		if result.ContentType == "" {
			result.ContentType = defaultContentType
		}
		result.RedirectCount += b.RedirectCount
		result.Title = entry.Title
	default:
		// HLS and direct streams need no body inspection
		a.Close()
		result.IsHLS = format == model.HLS
	}
	log.WithFields(logrus.Fields{
		"resolved":  *result.ResolvedURL,
		"format":    format.String(),
		"redirects": result.RedirectCount,
	}).Debugln("resolved")
	observeResolution("resolve", format.String(), nil)
	return result
}

// OpenStream resolves sourceURL like Resolve but hands back the live response that
// should be relayed instead of discarding it. HLS manifests are returned as they are.
func (r *Resolver) OpenStream(ctx context.Context, sourceURL string) (*model.LiveResponse, error) {
	timeout := r.cfg.Timeouts.Proxy
	a, err := r.follower.Follow(ctx, sourceURL, http.MethodGet, r.cfg.MaxRedirects, timeout)
	if err != nil {
		observeResolution("proxy", "unknown", err)
		return nil, err
	}
	format := playlist.Classify(a.FinalURL, a.ContentType)
	if format != model.LegacyPlaylist {
		observeResolution("proxy", format.String(), nil)
		return a, nil
	}
	b, _, err := r.openEntry(ctx, a, timeout, r.cfg.Timeouts.PlaylistRead)
	observeResolution("proxy", format.String(), err)
	if err != nil {
		return nil, err
	}
	b.RedirectCount += a.RedirectCount
	return b, nil
}

// openEntry reads the legacy playlist a, which it always closes, and follows the
// stream it lists. Listed mirrors are tried when the first entry cannot be reached.
func (r *Resolver) openEntry(ctx context.Context, a *model.LiveResponse, timeout, readDeadline time.Duration) (*model.LiveResponse, *playlist.Entry, error) {
	body, err := readPlaylist(a, r.cfg.PlaylistMaxBytes, readDeadline)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrPlaylistUnparseable, err)
	}
	entry, ok := playlist.ParseEntry(string(body), a.ContentType, a.FinalURL)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrPlaylistUnparseable, a.FinalURL)
	}

	candidates := []string{entry.URL}
	if n := len(entry.Fallbacks); n > maxFallbacks {
		candidates = append(candidates, entry.Fallbacks[:maxFallbacks]...)
	} else {
		candidates = append(candidates, entry.Fallbacks...)
	}
	var lastErr error
	for i, target := range candidates {
		last := i == len(candidates)-1
		b, err := r.follower.Follow(ctx, target, http.MethodGet, r.cfg.MaxRedirects, timeout)
		if err != nil {
			if errors.Is(err, ErrClientGone) {
				return nil, entry, err
			}
			logrus.WithError(err).WithField("entry", target).Debugln("playlist entry unreachable")
			lastErr = err
			continue
		}
		if b.StatusCode >= http.StatusBadRequest && !last {
			b.Close()
			lastErr = fmt.Errorf("%w: %s answered %d", ErrUpstream, target, b.StatusCode)
			continue
		}
		if i > 0 {
			logrus.WithFields(logrus.Fields{"playlist": a.FinalURL, "entry": target}).Infoln("using playlist mirror")
		}
		return b, entry, nil
	}
	return nil, entry, lastErr
}
