package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

type requestLogKey struct{}

// requestLog collects attributes handlers attach while serving one request.
// Only the serving goroutine writes to it.
type requestLog struct {
	attrs []slog.Attr
	index map[string]int
}

func (l *requestLog) set(key, value string) {
	if i, ok := l.index[key]; ok {
		l.attrs[i] = slog.String(key, value)
		return
	}
	l.index[key] = len(l.attrs)
	l.attrs = append(l.attrs, slog.String(key, value))
}

// LoggingMiddleware writes a "request started" and a "request completed" line
// per request. The completion line carries status, duration, bytes written and
// whatever handlers attached with AddLogField or AddError; it is logged at warn
// for 4xx and error for 5xx.
func LoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := GetRequestID(r.Context())

			logger.Info("request started",
				slog.String("request_id", requestID),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("origin", r.Header.Get("Origin")),
				slog.String("remote_addr", r.RemoteAddr),
			)

			rl := &requestLog{index: map[string]int{}}
			ctx := context.WithValue(r.Context(), requestLogKey{}, rl)
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			attrs := append([]slog.Attr{
				slog.String("request_id", requestID),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
			}, rl.attrs...)

			logger.LogAttrs(ctx, levelFor(status), "request completed", attrs...)
		})
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// AddLogField attaches key=value to the current request's completion log
// line. Later values replace earlier ones for the same key. Empty values and
// requests not wrapped by LoggingMiddleware are ignored.
func AddLogField(ctx context.Context, key, value string) {
	if value == "" {
		return
	}
	if rl, ok := ctx.Value(requestLogKey{}).(*requestLog); ok {
		rl.set(key, value)
	}
}

// AddError records err under "error" on the completion log line.
func AddError(ctx context.Context, err error) {
	if err != nil {
		AddLogField(ctx, "error", err.Error())
	}
}
