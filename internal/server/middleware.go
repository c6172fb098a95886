// internal/server/middleware.go
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	apperrors "docgen-service/internal/common/errors"
	"docgen-service/internal/common/logger"
	"docgen-service/internal/common/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

type contextKey string

const (
	ctxKeyRequestID contextKey = "requestID"
	ctxKeyPayload   contextKey = "payload"
)

const maxBodyBytes = 10 << 20 // 10 MiB, matches the JSON body limit of the old service

// RequestID returns the request id assigned by the middleware, or "no-id".
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKeyRequestID).(string); ok {
		return id
	}
	return "no-id"
}

func payloadFromContext(ctx context.Context) map[string]interface{} {
	if p, ok := ctx.Value(ctxKeyPayload).(map[string]interface{}); ok {
		return p
	}
	return nil
}

// requestIDMiddleware tags every request with a uuid, echoed back in the
// X-Request-ID response header.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyRequestID, id)))
	})
}

// requestLogMiddleware logs mutating requests only; GETs stay quiet.
func requestLogMiddleware(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodDelete:
				log.Info("incoming request", map[string]interface{}{
					"requestId": RequestID(r.Context()),
					"method":    r.Method,
					"path":      r.URL.Path,
					"remote":    r.RemoteAddr,
				})
			}
			next.ServeHTTP(w, r)
		})
	}
}

// metricsMiddleware records per-route request counts and latency.
func metricsMiddleware(obs *observability.Observability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			obs.RecordRequest(r.Context(), route, http.StatusText(ww.Status()))
			obs.RecordRequestDuration(r.Context(), time.Since(start), route)
		})
	}
}

// authMiddleware implements body-token authentication: the caller sends
// `config.token` inside the JSON body. On success the config key is
// stripped and the remaining document is stashed in the request context
// for the handler.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Auth.Token == "" {
			s.logger.Error("API token not configured", map[string]interface{}{
				"requestId": RequestID(r.Context()),
			})
			s.writeError(w, r, apperrors.NewAuthNotConfiguredError())
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			s.writeError(w, r, apperrors.NewInvalidRequestError("failed to read request body"))
			return
		}

		payload := map[string]interface{}{}
		if len(body) > 0 {
			if err := json.Unmarshal(body, &payload); err != nil {
				s.writeError(w, r, apperrors.NewInvalidRequestError("request body is not valid JSON"))
				return
			}
		}

		provided := ""
		if cfg, ok := payload["config"].(map[string]interface{}); ok {
			provided, _ = cfg["token"].(string)
		}
		if provided == "" {
			s.logger.Warn("token missing in config.token", map[string]interface{}{
				"requestId": RequestID(r.Context()),
				"remote":    r.RemoteAddr,
			})
			s.writeError(w, r, apperrors.NewTokenMissingError())
			return
		}
		if provided != s.cfg.Auth.Token {
			s.logger.Warn("invalid token provided", map[string]interface{}{
				"requestId": RequestID(r.Context()),
				"remote":    r.RemoteAddr,
			})
			s.writeError(w, r, apperrors.NewTokenInvalidError())
			return
		}

		// Never let credentials reach the template data.
		delete(payload, "config")

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyPayload, payload)))
	})
}
