// utils
package global

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"net/url"
	"strings"

	httpproxy "github.com/fopina/net-proxy-httpconnect/proxy"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/proxy"
)

// IsValidURL reports whether u is an absolute http(s) url.
func IsValidURL(u string) bool {
	_, err := url.ParseRequestURI(u)
	if err == nil {
		uu, err := url.Parse(u)
		return err == nil && uu.Host != "" && IsHTTPScheme(uu.Scheme)
	}
	return false
}

func IsHTTPScheme(scheme string) bool {
	return strings.EqualFold(scheme, "http") || strings.EqualFold(scheme, "https")
}

// TransportWithProxy builds the upstream transport. Keep-alives are disabled so a
// closed body always tears down its socket.
func TransportWithProxy(proxyUrl string, insecure bool) *http.Transport {
	d := &net.Dialer{
		Timeout: HttpClientTimeout,
	}
	tr := &http.Transport{
		DialContext:         d.DialContext,
		TLSHandshakeTimeout: HttpClientTimeout,
		TLSClientConfig:     &tls.Config{InsecureSkipVerify: insecure},
		DisableKeepAlives:   true,
		// radio origins answer with raw audio, never transparently decode
		DisableCompression: true,
	}
	if proxyUrl != "" {
		if u, err := url.Parse(proxyUrl); err == nil {
			if p, e := proxy.FromURL(u, d); e == nil {
				tr.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
					if cd, ok := p.(proxy.ContextDialer); ok {
						return cd.DialContext(ctx, network, addr)
					}
					return p.Dial(network, addr)
				}
			} else {
				logrus.WithField("proxy", proxyUrl).Warnln("Proxy setup error:", e)
			}
		}
	}
	return tr
}

// CloseBody closes resp.Body, nil-safe.
func CloseBody(resp *http.Response) {
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
}

func init() {
	httpproxy.RegisterSchemes()
}
