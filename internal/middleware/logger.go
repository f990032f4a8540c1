package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RequestLogger emits one zerolog event per request.
func RequestLogger() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			t := time.Now()

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}

				var ev *zerolog.Event
				switch {
				case status >= 500:
					ev = log.Error()
				case status >= 400:
					ev = log.Warn()
				default:
					ev = log.Info()
				}
				ev.Int("status", status).
					Str("method", r.Method).
					Str("uri", r.RequestURI).
					Str("remote", r.RemoteAddr).
					Dur("latency", time.Since(t)).
					Int("bytes", ww.BytesWritten()).
					Str("request_id", middleware.GetReqID(r.Context())).
					Msg("http request")
			}()

			next.ServeHTTP(ww, r)
		}

		return http.HandlerFunc(fn)
	}
}
