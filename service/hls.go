package service

import (
	"bytes"
	"context"
	"net/http"

	"github.com/grafov/m3u8"
	"github.com/sirupsen/logrus"

	"github.com/snowie2000/streamgate/model"
)

// inspectHLS summarises the manifest at manifestURL, nil when it cannot be fetched
// or decoded.
func (r *Resolver) inspectHLS(ctx context.Context, manifestURL string) *model.HLSInfo {
	log := logrus.WithField("url", manifestURL)
	live, err := r.follower.Follow(ctx, manifestURL, http.MethodGet, r.cfg.MaxRedirects, r.cfg.Timeouts.Check)
	if err != nil {
		log.WithError(err).Debugln("manifest sub-fetch failed")
		return nil
	}
	if live.StatusCode >= http.StatusBadRequest {
		live.Close()
		return nil
	}
	body, err := readPlaylist(live, r.cfg.PlaylistMaxBytes, r.cfg.Timeouts.CheckPlaylistRead)
	if err != nil {
		log.WithError(err).Debugln("manifest sub-fetch failed")
		return nil
	}
	p, listType, err := m3u8.DecodeFrom(bytes.NewReader(body), false)
	if p == nil {
		log.WithError(err).Debugln("manifest not decodable")
		return nil
	}
	switch listType {
	case m3u8.MASTER:
		master := p.(*m3u8.MasterPlaylist)
		return &model.HLSInfo{Type: "master", Variants: len(master.Variants)}
	case m3u8.MEDIA:
		media := p.(*m3u8.MediaPlaylist)
		isLive := !media.Closed
		return &model.HLSInfo{Type: "media", Segments: int(media.Count()), Live: &isLive}
	}
	return nil
}
