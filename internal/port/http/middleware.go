package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/staynest/booking-service/internal/domain/entity"
	"github.com/staynest/booking-service/internal/platform/logger"
	"github.com/staynest/booking-service/internal/platform/metrics"
	"github.com/staynest/booking-service/internal/service"
)

// ContextKey is a private key type for request context values.
type ContextKey string

const (
	UserIDCtxKey   = ContextKey("user_id")
	UserRoleCtxKey = ContextKey("user_role")
)

func userIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDCtxKey).(string)
	return userID
}

func isAdminFromContext(ctx context.Context) bool {
	role, _ := ctx.Value(UserRoleCtxKey).(string)
	return role == string(entity.RoleAdmin)
}

// JWTAuth validates the Bearer token, rejects banned accounts and stores the
// actor's identity in the request context.
func JWTAuth(jwtSecret string, authService service.AuthService, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				respondWithJSON(w, http.StatusUnauthorized, errorResponse{Error: "authorization token is not provided"})
				return
			}

			claims := &service.Claims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid || claims.UserID == "" {
				log.Warnf("Token validation failed: %v", err)
				respondWithJSON(w, http.StatusUnauthorized, errorResponse{Error: "token is invalid"})
				return
			}

			if _, err := authService.CheckActive(r.Context(), claims.UserID); err != nil {
				respondWithError(w, log, err)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDCtxKey, claims.UserID)
			ctx = context.WithValue(ctx, UserRoleCtxKey, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminOnly requires the authenticated actor to carry the admin role.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isAdminFromContext(r.Context()) {
			respondWithJSON(w, http.StatusForbidden, errorResponse{Error: "admin role required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequestMetrics records per-route latency and error counts on the service registry.
func RequestMetrics(metricsManager *metrics.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			pattern := chi.RouteContext(r.Context()).RoutePattern()
			if pattern == "" {
				pattern = "unmatched"
			}
			operation := r.Method + " " + pattern
			metricsManager.RequestLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
			if ww.Status() >= http.StatusBadRequest {
				metricsManager.APIErrorsTotal.WithLabelValues(operation, errorKind(ww.Status())).Inc()
			}
		})
	}
}

func errorKind(status int) string {
	if status >= http.StatusInternalServerError {
		return "server"
	}
	return "client"
}

// RequestLogger logs every request with its duration.
func RequestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Debugf("%s %s handled in %s", r.Method, r.URL.Path, time.Since(start))
		})
	}
}
