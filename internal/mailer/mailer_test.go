package mailer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderOverdueReminder(t *testing.T) {
	data := struct {
		Name  string
		Books []struct {
			Title   string
			DueDate time.Time
		}
	}{
		Name: "Jamie Reyes",
		Books: []struct {
			Title   string
			DueDate time.Time
		}{
			{Title: "Dune", DueDate: time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)},
			{Title: "Hyperion <1>", DueDate: time.Date(2026, 7, 20, 0, 0, 0, 0, time.UTC)},
		},
	}

	subject, plainBody, htmlBody, err := render("overdue_reminder.tmpl", data)
	require.NoError(t, err)

	assert.Equal(t, "Overdue Book Reminder - Book Club", subject)

	assert.Contains(t, plainBody, "Dear Jamie Reyes,")
	assert.Contains(t, plainBody, "Dune - Due on: Jul 15, 2026")
	assert.Contains(t, plainBody, "Hyperion <1> - Due on: Jul 20, 2026")

	assert.Contains(t, htmlBody, "<strong>Dune</strong>")
	// The HTML alternative escapes user-derived values.
	assert.Contains(t, htmlBody, "Hyperion &lt;1&gt;")
	assert.NotContains(t, htmlBody, "Hyperion <1>")
}

func TestRenderOverdueNotice(t *testing.T) {
	data := struct{ Name string }{Name: "Jamie Reyes"}

	subject, plainBody, htmlBody, err := render("overdue_notice.tmpl", data)
	require.NoError(t, err)

	assert.Equal(t, "Overdue Book Reminder - Book Club", subject)
	assert.Contains(t, plainBody, "You have overdue books.")
	assert.Contains(t, htmlBody, "You have overdue books.")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := render("missing.tmpl", nil)
	assert.Error(t, err)
}
