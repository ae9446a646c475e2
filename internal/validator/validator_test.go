package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator(t *testing.T) {
	t.Run("new validator is valid", func(t *testing.T) {
		v := New()
		assert.True(t, v.Valid())
	})

	t.Run("check records failures only", func(t *testing.T) {
		v := New()
		v.Check(true, "title", "must be provided")
		v.Check(false, "isbn", "must be provided")

		assert.False(t, v.Valid())
		assert.Equal(t, map[string]string{"isbn": "must be provided"}, v.Errors)
	})

	t.Run("first error per field wins", func(t *testing.T) {
		v := New()
		v.AddError("email", "must be provided")
		v.AddError("email", "must be a valid email address")

		assert.Equal(t, "must be provided", v.Errors["email"])
	})
}

func TestEmailRX(t *testing.T) {
	valid := []string{"alice@example.com", "a.b-c@mail.example.co.uk"}
	invalid := []string{"", "alice", "alice@", "@example.com"}

	for _, email := range valid {
		assert.True(t, Matches(email, EmailRX), "expected %q to be valid", email)
	}
	for _, email := range invalid {
		assert.False(t, Matches(email, EmailRX), "expected %q to be invalid", email)
	}
}

func TestISBNRX(t *testing.T) {
	valid := []string{"0306406152", "978-0-306-40615-7", "9780306406157"}
	invalid := []string{"", "123", "978_0306406157", "abcdefghij", "978-0-306-40615-7-000"}

	for _, isbn := range valid {
		assert.True(t, Matches(isbn, ISBNRX), "expected %q to be valid", isbn)
	}
	for _, isbn := range invalid {
		assert.False(t, Matches(isbn, ISBNRX), "expected %q to be invalid", isbn)
	}
}
