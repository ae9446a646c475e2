package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// okHandler is a trivial protected endpoint for middleware tests.
func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestAuthenticate(t *testing.T) {
	app := newTestApplication()
	protected := app.authenticate(okHandler)

	t.Run("missing token", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/v1/books", nil)
		w := httptest.NewRecorder()

		protected(w, r)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "Access token not found.")
	})

	t.Run("malformed header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/v1/books", nil)
		r.Header.Set("Authorization", "Basic abc123")
		w := httptest.NewRecorder()

		protected(w, r)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/v1/books", nil)
		r.Header.Set("Authorization", "Bearer not-a-real-token")
		w := httptest.NewRecorder()

		protected(w, r)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid or expired access token")
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := signToken(primitive.NewObjectID(), "admin@example.com", app.config.auth.accessSecret, -time.Minute)
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/v1/books", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		protected(w, r)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("refresh token rejected as bearer", func(t *testing.T) {
		token, err := app.createRefreshToken(primitive.NewObjectID(), "admin@example.com")
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/v1/books", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		protected(w, r)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("valid token passes through", func(t *testing.T) {
		token, err := app.createAccessToken(primitive.NewObjectID(), "admin@example.com")
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/v1/books", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		protected(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRateLimit(t *testing.T) {
	app := newTestApplication()
	limited := app.rateLimit(http.HandlerFunc(okHandler))

	// Burst capacity is 4; the fifth immediate request from the same IP
	// must be rejected.
	for i := 0; i < 4; i++ {
		r := httptest.NewRequest(http.MethodGet, "/v1/books", nil)
		r.RemoteAddr = "10.0.0.1:50000"
		w := httptest.NewRecorder()

		limited.ServeHTTP(w, r)
		require.Equal(t, http.StatusOK, w.Code, "request %d should pass", i+1)
	}

	r := httptest.NewRequest(http.MethodGet, "/v1/books", nil)
	r.RemoteAddr = "10.0.0.1:50000"
	w := httptest.NewRecorder()

	limited.ServeHTTP(w, r)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// A different IP has its own bucket and is unaffected.
	r = httptest.NewRequest(http.MethodGet, "/v1/books", nil)
	r.RemoteAddr = "10.0.0.2:50000"
	w = httptest.NewRecorder()

	limited.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEnableCORS(t *testing.T) {
	app := newTestApplication()
	app.config.cors.trustedOrigins = []string{"https://club.example.com"}
	handler := app.enableCORS(http.HandlerFunc(okHandler))

	t.Run("trusted origin is echoed", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/v1/books", nil)
		r.Header.Set("Origin", "https://club.example.com")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		assert.Equal(t, "https://club.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("unknown origin gets no CORS headers", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/v1/books", nil)
		r.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight is answered directly", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodOptions, "/v1/books", nil)
		r.Header.Set("Origin", "https://club.example.com")
		r.Header.Set("Access-Control-Request-Method", http.MethodPut)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PUT")
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	})
}

func TestRecoverPanic(t *testing.T) {
	app := newTestApplication()
	handler := app.recoverPanic(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	r := httptest.NewRequest(http.MethodGet, "/v1/books", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "close", w.Header().Get("Connection"))
}
