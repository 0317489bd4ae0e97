package service

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	freq "github.com/imroc/req/v3"

	"github.com/snowie2000/streamgate/global"
)

const (
	DefaultUserAgent string = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// impersonatingClientTimeout is the whole-request limit of the req client, body
// included. Zero disables it; per hop deadlines are enforced by Follower and a
// relayed stream ends on idle or disconnect only.
var impersonatingClientTimeout time.Duration

// Doer performs a single request without following redirects.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

func noRedirect(req *http.Request, via []*http.Request) error {
	return http.ErrUseLastResponse
}

// NewClient returns the upstream client described by cfg. With Impersonate set the
// requests carry a browser TLS fingerprint, some radio CDNs drop everything else.
func NewClient(cfg *global.Config) Doer {
	if cfg.Impersonate != "" {
		return newImpersonatingClient(cfg)
	}
	return &http.Client{
		Transport:     global.TransportWithProxy(cfg.ProxyURL, cfg.InsecureSkipVerify),
		CheckRedirect: noRedirect,
	}
}

type impersonatingClient struct {
	c *freq.Client
}

func newImpersonatingClient(cfg *global.Config) *impersonatingClient {
	client := freq.C().
		SetTimeout(impersonatingClientTimeout).
		SetRedirectPolicy(noRedirect).
		DisableAutoReadResponse()
	switch strings.ToLower(cfg.Impersonate) {
	case "safari":
		client.ImpersonateSafari()
	case "firefox":
		client.ImpersonateFirefox()
	default:
		client.ImpersonateChrome()
	}
	if cfg.InsecureSkipVerify {
		client.EnableInsecureSkipVerify()
	}
	if cfg.ProxyURL != "" {
		tr := global.TransportWithProxy(cfg.ProxyURL, cfg.InsecureSkipVerify)
		client.SetDial(func(ctx context.Context, network, addr string) (net.Conn, error) {
			return tr.DialContext(ctx, network, addr)
		})
	}
	return &impersonatingClient{c: client}
}

func (ic *impersonatingClient) Do(req *http.Request) (*http.Response, error) {
	r := ic.c.R().SetContext(req.Context())
	for key, values := range req.Header {
		if len(values) > 0 {
			r.SetHeader(key, values[0])
		}
	}
	resp, err := r.Send(req.Method, req.URL.String())
	if err != nil {
		if resp != nil && resp.Response != nil {
			global.CloseBody(resp.Response)
		}
		return nil, err
	}
	return resp.Response, nil
}
