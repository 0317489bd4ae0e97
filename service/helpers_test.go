package service

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/snowie2000/streamgate/global"
)

func testConfig() *global.Config {
	cfg := global.DefaultConfig()
	cfg.Timeouts.Resolve = 2 * time.Second
	cfg.Timeouts.Proxy = 2 * time.Second
	cfg.Timeouts.Check = 2 * time.Second
	cfg.Timeouts.PlaylistRead = time.Second
	cfg.Timeouts.CheckPlaylistRead = time.Second
	cfg.Timeouts.StreamIdle = time.Second
	return cfg
}

func newTestResolver(cfg *global.Config) *Resolver {
	return NewResolver(cfg, NewClient(cfg))
}

// newOrigin serves:
//
//	/hop/N         301 to /hop/N-1, /hop/0 is audio
//	/stream.mp3    a few bytes of audio/mpeg
//	/station.pls   PLS pointing to /hop/2
//	/station.m3u   M3U pointing to /stream.mp3
//	/empty.pls     PLS without entries
//	/live.m3u8     HLS media playlist served as audio/mpegurl
//	/master.m3u8   HLS master playlist
//	/slow          headers after 3s
//	/nohead        405 on HEAD
//	/mirrors.pls   PLS whose first entry is unreachable
//	/to-station/N  N redirects ending at /station.pls
//	/ua            echoes the User-Agent header
func newOrigin(t *testing.T) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/hop/", func(w http.ResponseWriter, r *http.Request) {
		n, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/hop/"))
		if err != nil {
			http.NotFound(w, r)
			return
		}
		if n == 0 {
			w.Header().Set("Content-Type", "audio/mpeg")
			w.Write([]byte("ID3 fake audio"))
			return
		}
		// alternate relative and absolute locations
		loc := fmt.Sprintf("%d", n-1)
		if n%2 == 0 {
			loc = fmt.Sprintf("%s/hop/%d", srv.URL, n-1)
		}
		w.Header().Set("Location", loc)
		w.WriteHeader(http.StatusMovedPermanently)
	})
	mux.HandleFunc("/to-station/", func(w http.ResponseWriter, r *http.Request) {
		n, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/to-station/"))
		if err != nil {
			http.NotFound(w, r)
			return
		}
		loc := "/station.pls"
		if n > 1 {
			loc = fmt.Sprintf("/to-station/%d", n-1)
		}
		w.Header().Set("Location", loc)
		w.WriteHeader(http.StatusFound)
	})
	mux.HandleFunc("/ua", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(r.UserAgent()))
	})
	mux.HandleFunc("/stream.mp3", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("ID3 fake audio"))
	})
	mux.HandleFunc("/station.pls", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/x-scpls")
		fmt.Fprintf(w, "[playlist]\nFile1=%s/hop/2\nTitle1=Test FM\nNumberOfEntries=1\n", srv.URL)
	})
	mux.HandleFunc("/station.m3u", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpegurl")
		fmt.Fprintf(w, "#EXTM3U\n#EXTINF:-1,Station\n%s/stream.mp3\n", srv.URL)
	})
	mux.HandleFunc("/mirrors.pls", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/x-scpls")
		fmt.Fprintf(w, "[playlist]\nFile1=http://127.0.0.1:1/dead\nFile2=%s/stream.mp3\n", srv.URL)
	})
	mux.HandleFunc("/empty.pls", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/x-scpls")
		w.Write([]byte("[playlist]\nNumberOfEntries=0"))
	})
	mux.HandleFunc("/live.m3u8", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpegurl")
		w.Write([]byte("#EXTM3U\n#EXT-X-VERSION:3\n#EXT-X-TARGETDURATION:10\n#EXT-X-MEDIA-SEQUENCE:1\n#EXTINF:10.0,\nseg1.aac\n#EXTINF:10.0,\nseg2.aac\n"))
	})
	mux.HandleFunc("/master.m3u8", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.apple.mpegurl")
		w.Write([]byte("#EXTM3U\n#EXT-X-STREAM-INF:BANDWIDTH=64000\nlow.m3u8\n#EXT-X-STREAM-INF:BANDWIDTH=128000\nhigh.m3u8\n"))
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(3 * time.Second):
		case <-r.Context().Done():
		}
		w.Header().Set("Content-Type", "audio/mpeg")
	})
	mux.HandleFunc("/nohead", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "audio/aac")
		w.Write([]byte("aac"))
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}
