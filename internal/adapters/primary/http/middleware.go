package http

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"

	"github.com/githubixx/nextpvr-go/internal/infrastructure/config"
	"github.com/githubixx/nextpvr-go/internal/infrastructure/logging"
)

type contextKey string

const userKey contextKey = "user"

// UserFromContext returns the authenticated user name, if any.
func UserFromContext(ctx context.Context) (string, bool) {
	user, ok := ctx.Value(userKey).(string)
	return user, ok
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (rw *responseWriter) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.status == 0 {
		rw.status = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{ResponseWriter: w}
			next.ServeHTTP(rw, r)

			event := logger.Info()
			// Probes and scrapes would drown everything else.
			if r.URL.Path == "/healthz" || r.URL.Path == "/metrics" {
				event = logger.Debug()
			}
			event.
				Str("method", r.Method).
				Str(logging.FieldPath, r.URL.Path).
				Str("remote", r.RemoteAddr).
				Int(logging.FieldStatus, rw.status).
				Int("size", rw.size).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}

// RecoveryMiddleware recovers from panics
func RecoveryMiddleware(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error().
						Interface("error", rec).
						Str(logging.FieldPath, r.URL.Path).
						Msg("panic recovered")
					writeError(w, http.StatusInternalServerError, "internal_error", "Internal Server Error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// AuthMiddleware handles basic authentication. Loopback and configured
// local networks are trusted.
func AuthMiddleware(cfg *config.AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			if isLoopbackRemote(r.RemoteAddr) || isLocalNet(r.RemoteAddr, cfg.LocalNets) {
				ctx := context.WithValue(r.Context(), userKey, cfg.AdminUser)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			user, pass, ok := r.BasicAuth()
			if !ok || !secureCompare(user, cfg.AdminUser) || !secureCompare(pass, cfg.AdminPass) {
				w.Header().Set("WWW-Authenticate", `Basic realm="NextPVR"`)
				writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RateLimitMiddleware limits requests per client IP with a sliding window.
func RateLimitMiddleware(cfg config.RateLimitConfig) func(http.Handler) http.Handler {
	if !cfg.Enabled {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		cfg.Requests,
		cfg.Window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(cfg.Window.Seconds())))
			writeError(w, http.StatusTooManyRequests, "rate_limit_exceeded", "Too many requests. Please try again later.")
		}),
	)
}

// SecurityHeadersMiddleware adds security headers
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("Cache-Control", "no-store")
			next.ServeHTTP(w, r)
		})
	}
}

func secureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func isLocalNet(remoteAddr string, localNets []string) bool {
	if len(localNets) == 0 {
		return false
	}

	ip := remoteIP(remoteAddr)
	if ip == nil {
		return false
	}

	for _, cidr := range localNets {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			continue
		}
		if ipNet.Contains(ip) {
			return true
		}
	}

	return false
}

func isLoopbackRemote(remoteAddr string) bool {
	ip := remoteIP(remoteAddr)
	return ip != nil && ip.IsLoopback()
}

func remoteIP(remoteAddr string) net.IP {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return nil
	}
	return net.ParseIP(host)
}
