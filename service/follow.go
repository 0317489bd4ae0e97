// follow location
package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/snowie2000/streamgate/global"
	"github.com/snowie2000/streamgate/model"
)

// Follower issues one request and walks its 3xx chain by hand, so that every hop
// gets its own deadline and the socket of the previous hop is closed before the
// next one is opened.
type Follower struct {
	client Doer
}

func NewFollower(client Doer) *Follower {
	return &Follower{client: client}
}

// ValidateURL fails with ErrInvalidURL unless raw is an absolute http(s) url.
func ValidateURL(raw string) (*url.URL, error) {
	if !global.IsValidURL(raw) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	return u, nil
}

// Follow requests rawURL with method and follows up to maxRedirects redirects, each
// hop bounded by timeout. The returned body is unread; closing it also aborts the
// underlying request.
func (f *Follower) Follow(ctx context.Context, rawURL string, method string, maxRedirects int, timeout time.Duration) (*model.LiveResponse, error) {
	current, err := ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}
	for hops := 0; ; {
		resp, cancel, err := f.open(ctx, method, current, timeout)
		if err != nil {
			upstreamErrors.WithLabelValues(errorKind(err)).Inc()
			return nil, err
		}
		loc := resp.Header.Get("Location")
		if resp.StatusCode < 300 || resp.StatusCode >= 400 || loc == "" {
			redirectHops.Observe(float64(hops))
			return &model.LiveResponse{
				FinalURL:      current.String(),
				StatusCode:    resp.StatusCode,
				ContentType:   resp.Header.Get("Content-Type"),
				Header:        resp.Header,
				RedirectCount: hops,
				Body:          &liveBody{ReadCloser: resp.Body, cancel: cancel},
			}, nil
		}

		// never hold two sockets for one logical request
		resp.Body.Close()
		cancel()

		hops++
		if hops > maxRedirects {
			err = fmt.Errorf("%w: more than %d hops starting at %s", ErrTooManyRedirects, maxRedirects, rawURL)
			upstreamErrors.WithLabelValues(errorKind(err)).Inc()
			return nil, err
		}
		next, err := current.Parse(loc)
		if err != nil || !global.IsHTTPScheme(next.Scheme) || next.Host == "" {
			err = fmt.Errorf("%w: %s redirected to unusable location %q", ErrUpstream, current, loc)
			upstreamErrors.WithLabelValues(errorKind(err)).Inc()
			return nil, err
		}
		logrus.WithFields(logrus.Fields{"from": current.String(), "to": next.String(), "status": resp.StatusCode}).Debugln("following redirect")
		current = next
	}
}

// open performs a single hop. The deadline covers connect, TLS and response headers;
// once headers are in, the body is governed by the returned cancel func only.
func (f *Follower) open(ctx context.Context, method string, u *url.URL, timeout time.Duration) (*http.Response, context.CancelFunc, error) {
	hopCtx, cancel := context.WithCancel(ctx)
	timer := time.AfterFunc(timeout, cancel)

	req, err := http.NewRequestWithContext(hopCtx, method, u.String(), nil)
	if err != nil {
		timer.Stop()
		cancel()
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", DefaultUserAgent)
	req.Header.Set("Accept", "*/*")

	resp, err := f.client.Do(req)
	fired := !timer.Stop()
	switch {
	case ctx.Err() != nil:
		global.CloseBody(resp)
		cancel()
		return nil, nil, fmt.Errorf("%w: %v", ErrClientGone, ctx.Err())
	case fired:
		global.CloseBody(resp)
		cancel()
		return nil, nil, fmt.Errorf("%w: no response from %s within %s", ErrTimedOut, u, timeout)
	case err != nil:
		cancel()
		if isTimeout(err) {
			return nil, nil, fmt.Errorf("%w: %s: %v", ErrTimedOut, u, err)
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return resp, cancel, nil
}

// liveBody tears the request down when closed, whoever closes it first.
type liveBody struct {
	io.ReadCloser
	cancel context.CancelFunc
	once   sync.Once
	err    error
}

func (b *liveBody) Close() error {
	b.once.Do(func() {
		b.err = b.ReadCloser.Close()
		b.cancel()
	})
	return b.err
}
