package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func newAuthRouter(keys map[string]string) http.Handler {
	r := chi.NewRouter()
	r.Use(APIKeyAuth(keys))
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("ok")) })
	r.Route("/v1/{tenant}", func(rt chi.Router) {
		rt.Use(RequireValidTenant)
		rt.Get("/analyses", func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("list")) })
	})
	return r
}

func do(h http.Handler, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAPIKeyAuth(t *testing.T) {
	h := newAuthRouter(map[string]string{"acme": "k-acme", "globex": "k-globex"})

	assert.Equal(t, http.StatusOK, do(h, "/health", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(h, "/v1/acme/analyses", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(h, "/v1/acme/analyses", "Bearer wrong").Code)
	assert.Equal(t, http.StatusOK, do(h, "/v1/acme/analyses", "Bearer k-acme").Code)
	assert.Equal(t, http.StatusOK, do(h, "/v1/acme/analyses", "k-acme").Code)
	assert.Equal(t, http.StatusForbidden, do(h, "/v1/acme/analyses", "Bearer k-globex").Code)
}

func TestAuthDisabledStillValidatesTenant(t *testing.T) {
	h := newAuthRouter(nil)
	assert.Equal(t, http.StatusOK, do(h, "/v1/acme/analyses", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(h, "/v1/ac%20me/analyses", "").Code)
}

func TestLoggingMiddlewareSetsRequestID(t *testing.T) {
	h := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := do(h, "/x", "")
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get(RequestIDHeader))
}
