package data

import (
	"encoding/json"
	"testing"

	"github.com/bookclubhq/library-api/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetPasswordAndMatch(t *testing.T) {
	user := &User{Name: "Librarian", Email: "admin@example.com"}

	err := user.SetPassword("sw0rdfish")
	require.NoError(t, err)
	require.NotEmpty(t, user.PasswordHash)

	match, err := user.PasswordMatches("sw0rdfish")
	require.NoError(t, err)
	assert.True(t, match)

	match, err = user.PasswordMatches("wrong-password")
	require.NoError(t, err)
	assert.False(t, match)
}

func TestUserJSONHidesPasswordHash(t *testing.T) {
	user := &User{Name: "Librarian", Email: "admin@example.com"}
	require.NoError(t, user.SetPassword("sw0rdfish"))

	out, err := json.Marshal(user)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.NotContains(t, decoded, "password")
	assert.NotContains(t, string(out), "sw0rdfish")
}

func TestValidatePasswordPlaintext(t *testing.T) {
	t.Run("accepts minimum length", func(t *testing.T) {
		v := validator.New()
		ValidatePasswordPlaintext(v, "12345")
		assert.True(t, v.Valid())
	})

	t.Run("rejects empty", func(t *testing.T) {
		v := validator.New()
		ValidatePasswordPlaintext(v, "")
		assert.Contains(t, v.Errors, "password")
	})

	t.Run("rejects too short", func(t *testing.T) {
		v := validator.New()
		ValidatePasswordPlaintext(v, "1234")
		assert.Contains(t, v.Errors, "password")
	})
}

func TestValidateUser(t *testing.T) {
	t.Run("valid user", func(t *testing.T) {
		v := validator.New()
		ValidateUser(v, &User{Name: "Librarian", Email: "admin@example.com"})
		assert.True(t, v.Valid())
	})

	t.Run("short name", func(t *testing.T) {
		v := validator.New()
		ValidateUser(v, &User{Name: "Al", Email: "admin@example.com"})
		assert.Contains(t, v.Errors, "name")
	})

	t.Run("bad email", func(t *testing.T) {
		v := validator.New()
		ValidateUser(v, &User{Name: "Librarian", Email: "nope"})
		assert.Contains(t, v.Errors, "email")
	})
}
