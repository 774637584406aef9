package middleware

import (
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"genesis/internal/adapters/http/perf"
)

// DefaultSlowRequestMs is the threshold above which a request logs at WARN.
const DefaultSlowRequestMs = 200

var (
	slowRequestMs   int64
	slowRequestOnce sync.Once
)

// slowThreshold reads GENESIS_SLOW_REQUEST_MS once and caches it.
func slowThreshold() float64 {
	slowRequestOnce.Do(func() {
		ms := DefaultSlowRequestMs
		if v := os.Getenv("GENESIS_SLOW_REQUEST_MS"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				ms = n
			}
		}
		atomic.StoreInt64(&slowRequestMs, int64(ms))
	})
	return float64(atomic.LoadInt64(&slowRequestMs))
}

var requestIDCounter uint64

// statusWriter captures the status code written by the handler.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

var statusWriterPool = sync.Pool{
	New: func() any {
		return &statusWriter{}
	},
}

func logRequest(reqID uint64, r *http.Request, status int, durationMs, threshold float64) {
	if durationMs >= threshold {
		slog.Warn("slow_request",
			"request_id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration_ms", durationMs,
		)
		return
	}
	slog.Debug("request",
		"request_id", reqID,
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"duration_ms", durationMs,
	)
}

// Timing returns middleware that logs request duration and feeds the perf
// collector (when non-nil). Static asset requests are excluded. The defer
// runs even if the handler panics, so panicking requests are still timed.
func Timing(collector *perf.Collector) func(http.Handler) http.Handler {
	threshold := slowThreshold()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/static/") {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			reqID := atomic.AddUint64(&requestIDCounter, 1)

			sw := statusWriterPool.Get().(*statusWriter)
			sw.ResponseWriter = w
			sw.status = http.StatusOK
			defer func() {
				durationMs := float64(time.Since(start).Microseconds()) / 1000.0
				logRequest(reqID, r, sw.status, durationMs, threshold)

				if collector != nil {
					collector.Record(perf.Entry{
						Kind:       perf.KindRequest,
						Path:       r.Method + " " + r.URL.Path,
						StatusCode: sw.status,
						DurationMs: durationMs,
						Timestamp:  start,
					})
				}

				sw.ResponseWriter = nil
				statusWriterPool.Put(sw)
			}()

			next.ServeHTTP(sw, r)
		})
	}
}
