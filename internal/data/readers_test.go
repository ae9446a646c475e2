package data

import (
	"testing"

	"github.com/bookclubhq/library-api/internal/validator"

	"github.com/stretchr/testify/assert"
)

func validReader() *Reader {
	return &Reader{
		Name:     "Jamie Reyes",
		Email:    "jamie@example.com",
		Phone:    "0771234567",
		Address:  "12 Harbor Lane",
		DOB:      "1990-04-12",
		JoinDate: "2024-01-15",
	}
}

func TestValidateReader(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Reader)
		wantField string
	}{
		{"valid reader", func(r *Reader) {}, ""},
		{"missing name", func(r *Reader) { r.Name = "" }, "name"},
		{"short name", func(r *Reader) { r.Name = "Jo" }, "name"},
		{"missing email", func(r *Reader) { r.Email = "" }, "email"},
		{"malformed email", func(r *Reader) { r.Email = "not-an-email" }, "email"},
		{"short phone", func(r *Reader) { r.Phone = "12345" }, "phone"},
		{"short address", func(r *Reader) { r.Address = "abc" }, "address"},
		{"missing dob", func(r *Reader) { r.DOB = "" }, "dob"},
		{"missing join date", func(r *Reader) { r.JoinDate = "" }, "joinDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := validReader()
			tt.mutate(reader)

			v := validator.New()
			ValidateReader(v, reader)

			if tt.wantField == "" {
				assert.True(t, v.Valid(), "unexpected errors: %v", v.Errors)
			} else {
				assert.Contains(t, v.Errors, tt.wantField)
			}
		})
	}
}
