package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dwikikusuma/buensabor-storefront/pkg/restclient"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const (
	SessionHeader   = "X-Session-ID"
	RequestIDHeader = "X-Request-ID"
)

type sessionKey struct{}

// SessionID returns the browser session bound by Session.
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// Session binds the X-Session-ID header to the request context, minting a new
// id when the client did not send a valid one. The id is echoed back.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(SessionHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(SessionHeader, id)
		next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), id)))
	})
}

// RequestID propagates X-Request-ID to backend calls.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(restclient.WithRequestID(r.Context(), id)))
	})
}

func Logger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Duration("took", time.Since(start)),
				slog.String("request_id", restclient.RequestID(r.Context())),
			)
		})
	}
}
