package api

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/storekit/storefront-cloud/internal/tier"
)

// AuthMiddleware validates the Bearer key and sets the caller's identity in
// context: API key ID, tenant scope, role, and rate limit.
func AuthMiddleware(dbClient DBClient) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				WriteError(w, ErrUnauthorized, http.StatusUnauthorized, CodeUnauthorized)
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(authHeader, bearerPrefix) {
				WriteError(w, ErrUnauthorized, http.StatusUnauthorized, CodeUnauthorized)
				return
			}

			key := strings.TrimPrefix(authHeader, bearerPrefix)
			if key == "" {
				WriteError(w, ErrUnauthorized, http.StatusUnauthorized, CodeUnauthorized)
				return
			}

			apiKey, err := dbClient.GetAPIKeyByKey(r.Context(), key)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) || strings.Contains(err.Error(), "not found") {
					WriteError(w, ErrUnauthorized, http.StatusUnauthorized, CodeUnauthorized)
					return
				}
				slog.Error("failed to get API key", "error", err)
				WriteError(w, ErrInternal, http.StatusInternalServerError, CodeInternal)
				return
			}

			ctx := WithAPIKeyID(r.Context(), apiKey.ID)
			ctx = WithAPIKeyRateLimit(ctx, apiKey.RateLimitRPS)
			ctx = WithActor(ctx, tier.Actor{
				Role:          tier.Role(apiKey.Role),
				PlatformAdmin: apiKey.PlatformAdmin,
			})
			if apiKey.TenantID != nil {
				ctx = WithTenantID(ctx, *apiKey.TenantID)
			}

			// Fire-and-forget tracking on a detached context: last-used
			// bookkeeping and the daily API call counter should complete
			// even if the client disconnects.
			tenantID := apiKey.TenantID
			go func() {
				updateCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				if err := dbClient.UpdateAPIKeyLastUsed(updateCtx, apiKey.ID); err != nil {
					slog.Warn("failed to update API key last used", "error", err, "api_key_id", apiKey.ID)
				}
				if tenantID != nil {
					if err := dbClient.IncrementDailyAPICalls(updateCtx, *tenantID); err != nil {
						slog.Warn("failed to increment API call count", "error", err, "tenant_id", *tenantID)
					}
				}
			}()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// MaintenanceMiddleware rejects non-admin traffic while the platform is in
// maintenance mode. Settings lookups are best-effort: a failed read never
// blocks traffic.
func MaintenanceMiddleware(dbClient DBClient) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			settings, err := dbClient.GetPlatformSettings(r.Context())
			if err == nil && settings.MaintenanceMode && !GetActor(r.Context()).PlatformAdmin {
				WriteError(w, errors.New("platform is under maintenance"), http.StatusServiceUnavailable, CodeMaintenance)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoggingMiddleware logs requests with slog
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.statusCode,
			"duration_ms", duration.Milliseconds(),
			"remote_addr", r.RemoteAddr,
		)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code.
// It also implements http.Hijacker to support WebSocket upgrades.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack implements http.Hijacker for WebSocket support.
// It delegates to the underlying ResponseWriter if it supports hijacking.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, fmt.Errorf("underlying ResponseWriter does not support hijacking")
}

// RecoveryMiddleware recovers from panics
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("panic recovered",
					"error", err,
					"stack", string(debug.Stack()),
					"method", r.Method,
					"path", r.URL.Path,
				)

				WriteError(w, ErrInternal, http.StatusInternalServerError, CodeInternal)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
