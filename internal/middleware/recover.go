package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
)

// Recover turns a handler panic into a 500 and reports it to Sentry when
// Sentry is configured.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			hub := sentry.CurrentHub().Clone()
			hub.Scope().SetRequest(r)
			hub.Recover(rec)
			hub.Flush(2 * time.Second)

			slog.Error("panic in http handler", "panic", rec, "method", r.Method, "path", r.URL.Path)
			http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		}()

		next.ServeHTTP(w, r)
	})
}
