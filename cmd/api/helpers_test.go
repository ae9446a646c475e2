package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	app := newTestApplication()
	w := httptest.NewRecorder()

	err := app.writeJSON(w, http.StatusCreated, envelope{"message": "created"}, http.Header{
		"X-Request-Id": []string{"abc"},
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "abc", w.Header().Get("X-Request-Id"))

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	assert.Equal(t, "created", decoded["message"])
}

func TestReadJSON(t *testing.T) {
	app := newTestApplication()

	type input struct {
		Title string `json:"title"`
	}

	t.Run("valid body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title": "Dune"}`))
		w := httptest.NewRecorder()

		var dst input
		err := app.readJSON(w, r, &dst)
		require.NoError(t, err)
		assert.Equal(t, "Dune", dst.Title)
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title": "Dune", "rating": 5}`))
		w := httptest.NewRecorder()

		var dst input
		err := app.readJSON(w, r, &dst)
		assert.Error(t, err)
	})

	t.Run("second JSON value is rejected", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title": "Dune"}{"title": "Hyperion"}`))
		w := httptest.NewRecorder()

		var dst input
		err := app.readJSON(w, r, &dst)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "single JSON value")
	})

	t.Run("malformed body is rejected", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title": `))
		w := httptest.NewRecorder()

		var dst input
		err := app.readJSON(w, r, &dst)
		assert.Error(t, err)
	})
}

func TestErrorResponseEnvelope(t *testing.T) {
	app := newTestApplication()

	r := httptest.NewRequest(http.MethodGet, "/v1/books/nope", nil)
	w := httptest.NewRecorder()

	app.notFoundResponse(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	assert.Equal(t, "the requested resource could not be found", decoded["error"])
}
