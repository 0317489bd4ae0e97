package service

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/snowie2000/streamgate/model"
)

// readPlaylist buffers at most limit bytes of a playlist body within deadline. The
// connection is closed afterwards whatever happened.
func readPlaylist(live *model.LiveResponse, limit int64, deadline time.Duration) ([]byte, error) {
	defer live.Close()
	timer := time.AfterFunc(deadline, func() { live.Close() })
	b, err := io.ReadAll(io.LimitReader(live.Body, limit))
	fired := !timer.Stop()
	switch {
	case err == nil:
		// a body completed right at the deadline is still complete
		return b, nil
	case fired:
		return nil, fmt.Errorf("%w: playlist %s not read within %s", ErrTimedOut, live.FinalURL, deadline)
	default:
		return nil, fmt.Errorf("%w: reading playlist %s: %v", ErrUpstream, live.FinalURL, err)
	}
}

// Relay copies live.Body to w chunk by chunk, calling flush after every write. It
// stops at end of stream, on a failed write, as soon as ctx is done, or after idle
// without a single upstream byte. The upstream connection is closed on return.
func Relay(ctx context.Context, w io.Writer, flush func(), live *model.LiveResponse, idle time.Duration) (int64, error) {
	activeRelays.Inc()
	defer activeRelays.Dec()
	defer live.Close()

	stop := context.AfterFunc(ctx, func() { live.Close() })
	defer stop()
	var idled atomic.Bool
	timer := time.AfterFunc(idle, func() {
		idled.Store(true)
		live.Close()
	})
	defer timer.Stop()

	buf := make([]byte, 32*1024)
	var written int64
	for {
		n, rerr := live.Body.Read(buf)
		if n > 0 {
			timer.Reset(idle)
			wn, werr := w.Write(buf[:n])
			written += int64(wn)
			relayedBytes.Add(float64(wn))
			if werr != nil {
				return written, fmt.Errorf("%w: %v", ErrClientGone, werr)
			}
			if flush != nil {
				flush()
			}
		}
		if rerr != nil {
			switch {
			case rerr == io.EOF:
				return written, nil
			case ctx.Err() != nil:
				return written, fmt.Errorf("%w: %v", ErrClientGone, ctx.Err())
			case idled.Load():
				return written, fmt.Errorf("%w: %s sent nothing for %s", ErrTimedOut, live.FinalURL, idle)
			default:
				return written, fmt.Errorf("%w: %v", ErrUpstream, rerr)
			}
		}
	}
}
