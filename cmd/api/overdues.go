// cmd/api/overdues.go
// Overdue listing and reminder dispatch. "Overdue" is always computed from
// returned + dueDate at query time; nothing here mutates lending state.
package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/bookclubhq/library-api/internal/data"
)

// listOverduesHandler handles GET /v1/overdues.
// Returns the current overdue set joined with book and reader display fields.
func (app *applicationDependencies) listOverduesHandler(w http.ResponseWriter, r *http.Request) {
	overdue, err := app.models.Lendings.GetOverdue()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"overdues": overdue}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// notifyOverdueReaderHandler handles POST /v1/overdues/notify/:readerId.
// Sends one itemized reminder listing every overdue title with its due date.
// Responds 404 when the reader is unknown or has no email on file, and 404
// when the reader has nothing overdue.
func (app *applicationDependencies) notifyOverdueReaderHandler(w http.ResponseWriter, r *http.Request) {
	readerID, err := app.readIDParam(r, "readerId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	reader, err := app.models.Readers.Get(readerID)
	if err != nil && !errors.Is(err, data.ErrRecordNotFound) {
		app.serverErrorResponse(w, r, err)
		return
	}
	if reader == nil || reader.Email == "" {
		app.errorResponse(w, r, http.StatusNotFound, "Reader not found or missing email")
		return
	}

	overdue, err := app.models.Lendings.GetOverdueByReader(readerID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	if len(overdue) == 0 {
		app.errorResponse(w, r, http.StatusNotFound, "No overdue books found for this reader.")
		return
	}

	type overdueItem struct {
		Title   string
		DueDate time.Time
	}

	items := make([]overdueItem, 0, len(overdue))
	for _, lending := range overdue {
		item := overdueItem{Title: "Unknown", DueDate: lending.DueDate}
		if lending.Book != nil {
			item.Title = lending.Book.Title
		}
		items = append(items, item)
	}

	emailData := struct {
		Name  string
		Books []overdueItem
	}{
		Name:  reader.Name,
		Books: items,
	}

	err = app.mailer.Send(reader.Email, "overdue_reminder.tmpl", emailData)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "Overdue email sent to reader."}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// notifyAllOverdueHandler handles POST /v1/overdues/notify.
// Sends one generic reminder to every reader with at least one overdue
// lending and a known email address. Sends run sequentially and each one is
// best-effort: a failed send is logged and counted but never aborts the
// remaining sends.
func (app *applicationDependencies) notifyAllOverdueHandler(w http.ResponseWriter, r *http.Request) {
	readerIDs, err := app.models.Lendings.OverdueReaderIDs()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	readers, err := app.models.Readers.GetByIDs(readerIDs)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	sent, failed := 0, 0
	for _, reader := range readers {
		if reader.Email == "" {
			continue
		}

		emailData := struct{ Name string }{Name: reader.Name}
		err := app.mailer.Send(reader.Email, "overdue_notice.tmpl", emailData)
		if err != nil {
			failed++
			app.logger.Error("overdue reminder failed",
				"reader_id", reader.ID.Hex(),
				"error", err.Error(),
			)
			continue
		}
		sent++
	}

	err = app.writeJSON(w, http.StatusOK, envelope{
		"message": "Emails sent to all overdue readers",
		"sent":    sent,
		"failed":  failed,
	}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
