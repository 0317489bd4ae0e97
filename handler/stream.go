package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/snowie2000/streamgate/global"
	"github.com/snowie2000/streamgate/service"
)

// StreamHandler serves the three stream endpoints on top of one shared Resolver.
type StreamHandler struct {
	cfg      *global.Config
	resolver *service.Resolver
}

func NewStreamHandler(cfg *global.Config, resolver *service.Resolver) *StreamHandler {
	return &StreamHandler{cfg: cfg, resolver: resolver}
}

// sourceURL answers 400 itself when the url query is missing or unusable.
func sourceURL(c *gin.Context) (string, bool) {
	src := strings.TrimSpace(c.Query("url"))
	if src == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing url parameter"})
		return "", false
	}
	if _, err := service.ValidateURL(src); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid url parameter"})
		return "", false
	}
	return src, true
}

// ProxyHandler relays the resolved stream to the caller.
func (h *StreamHandler) ProxyHandler(c *gin.Context) {
	src, ok := sourceURL(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	log := logrus.WithFields(logrus.Fields{"url": src, "client": c.ClientIP()})

	live, err := h.resolver.OpenStream(ctx, src)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientGone):
			log.Debugln("client left before the stream opened")
			c.Abort()
		case errors.Is(err, service.ErrPlaylistUnparseable):
			log.WithError(err).Warnln("proxy failed")
			c.JSON(http.StatusBadGateway, ErrorResponse{Error: service.MsgPlaylistUnparsable})
		default:
			log.WithError(err).Warnln("proxy failed")
			c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
		}
		return
	}

	contentType := live.ContentType
	if contentType == "" {
		contentType = "audio/mpeg"
	}
	c.Writer.Header().Set("Content-Type", contentType)
	c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(live.StatusCode)
	c.Writer.Flush()

	log.WithField("upstream", live.FinalURL).Infoln("relaying stream")
	// headers are gone, from here on failures can only end the response
	n, err := service.Relay(ctx, c.Writer, c.Writer.Flush, live, h.cfg.Timeouts.StreamIdle)
	entry := log.WithField("bytes", n)
	switch {
	case err == nil:
		entry.Infoln("stream ended")
	case errors.Is(err, service.ErrClientGone):
		entry.Infoln("client disconnected")
	default:
		entry.WithError(err).Warnln("stream aborted")
	}
}

// CheckHandler reports liveness without relaying media. Always 200 once the url is valid.
func (h *StreamHandler) CheckHandler(c *gin.Context) {
	src, ok := sourceURL(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.resolver.Check(c.Request.Context(), src))
}

// ResolveHandler returns resolution metadata only. Always 200 once the url is valid,
// an unresolvable stream is reported in the error field.
func (h *StreamHandler) ResolveHandler(c *gin.Context) {
	src, ok := sourceURL(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.resolver.Resolve(c.Request.Context(), src))
}
