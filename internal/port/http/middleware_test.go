package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/staynest/booking-service/internal/domain/entity"
	"github.com/staynest/booking-service/internal/platform/logger"
	"github.com/staynest/booking-service/internal/platform/metrics"
	"github.com/staynest/booking-service/internal/repository"
	"github.com/staynest/booking-service/internal/service"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

type noopLogger struct{}

func (l *noopLogger) Debug(args ...interface{})                   {}
func (l *noopLogger) Debugf(template string, args ...interface{}) {}
func (l *noopLogger) Info(args ...interface{})                    {}
func (l *noopLogger) Infof(template string, args ...interface{})  {}
func (l *noopLogger) Warn(args ...interface{})                    {}
func (l *noopLogger) Warnf(template string, args ...interface{})  {}
func (l *noopLogger) Error(args ...interface{})                   {}
func (l *noopLogger) Errorf(template string, args ...interface{}) {}
func (l *noopLogger) Fatal(args ...interface{})                   {}
func (l *noopLogger) Fatalf(template string, args ...interface{}) {}
func (l *noopLogger) With(args ...interface{}) logger.Logger      { return l }

// stubAuthService implements service.AuthService; only CheckActive matters here.
type stubAuthService struct {
	service.AuthService
	checkActive func(ctx context.Context, userID string) (*entity.User, error)
}

func (s *stubAuthService) CheckActive(ctx context.Context, userID string) (*entity.User, error) {
	return s.checkActive(ctx, userID)
}

func signToken(t *testing.T, secret, userID, role string) string {
	t.Helper()
	claims := service.Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	assert.NoError(t, err)
	return token
}

func activeUserStub() *stubAuthService {
	return &stubAuthService{checkActive: func(ctx context.Context, userID string) (*entity.User, error) {
		return &entity.User{ID: userID}, nil
	}}
}

func TestJWTAuth_ValidToken(t *testing.T) {
	var gotUserID string
	var gotAdmin bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = userIDFromContext(r.Context())
		gotAdmin = isAdminFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	handler := JWTAuth(testSecret, activeUserStub(), &noopLogger{})(next)

	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "user1", string(entity.RoleUser)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user1", gotUserID)
	assert.False(t, gotAdmin)
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	handler := JWTAuth(testSecret, activeUserStub(), &noopLogger{})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not be reached")
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user/profile", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	handler := JWTAuth(testSecret, activeUserStub(), &noopLogger{})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not be reached")
		}))

	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", "user1", string(entity.RoleUser)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_BannedUser(t *testing.T) {
	banned := &stubAuthService{checkActive: func(ctx context.Context, userID string) (*entity.User, error) {
		return nil, entity.ErrBanned
	}}
	handler := JWTAuth(testSecret, banned, &noopLogger{})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not be reached")
		}))

	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "user1", string(entity.RoleUser)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminOnly(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := AdminOnly(next)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	ctx := context.WithValue(req.Context(), UserRoleCtxKey, string(entity.RoleUser))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	ctx = context.WithValue(req.Context(), UserRoleCtxKey, string(entity.RoleAdmin))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStatusFromError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{repository.ErrNotFound, http.StatusNotFound},
		{entity.ErrForbidden, http.StatusForbidden},
		{entity.ErrBanned, http.StatusForbidden},
		{entity.ErrBadCredentials, http.StatusUnauthorized},
		{entity.ErrNotVerified, http.StatusUnauthorized},
		{entity.ErrConflict, http.StatusConflict},
		{entity.ErrAlreadyReviewed, http.StatusConflict},
		{entity.ErrInvalidStatus, http.StatusBadRequest},
		{entity.ErrInvalidTransition, http.StatusBadRequest},
		{entity.ErrPreconditionFailed, http.StatusBadRequest},
		{entity.ErrInvalidInput, http.StatusBadRequest},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, statusFromError(tc.err), tc.err.Error())
	}
}

func TestRequestMetrics_CountsErrors(t *testing.T) {
	manager := metrics.NewManager("test")

	r := chi.NewRouter()
	r.Use(RequestMetrics(manager))
	r.Get("/api/listings/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Post("/api/bookings", func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusConflict, errorResponse{Error: "booking dates overlap"})
	})
	r.Get("/api/admin/stats", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/listings/listing1", nil),
		httptest.NewRequest(http.MethodPost, "/api/bookings", nil),
		httptest.NewRequest(http.MethodPost, "/api/bookings", nil),
		httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil),
	} {
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	conflicts := manager.APIErrorsTotal.WithLabelValues("POST /api/bookings", "client")
	assert.Equal(t, float64(2), testutil.ToFloat64(conflicts))

	serverErrors := manager.APIErrorsTotal.WithLabelValues("GET /api/admin/stats", "server")
	assert.Equal(t, float64(1), testutil.ToFloat64(serverErrors))

	okRoute := manager.APIErrorsTotal.WithLabelValues("GET /api/listings/{id}", "client")
	assert.Equal(t, float64(0), testutil.ToFloat64(okRoute))
}
