// cmd/api/lendings.go
// Handlers for the lending ledger: lend, return, and the history views.
// The cross-collection work (quantity decrement, restock) happens in the
// lending model; these handlers only translate errors to HTTP responses.
package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/bookclubhq/library-api/internal/data"
	"github.com/bookclubhq/library-api/internal/validator"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// createLendingHandler handles POST /v1/lendings.
// Responds 404 when the book does not exist and 400 when it has no copies
// left. On success the new lending is returned with 201 Created.
func (app *applicationDependencies) createLendingHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		BookID     string     `json:"bookId"`
		ReaderID   string     `json:"readerId"`
		DueDate    time.Time  `json:"dueDate"`
		ReturnDate *time.Time `json:"returnDate"` // accepted for API compatibility, ignored on create
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()

	// Malformed IDs collapse to the zero ObjectID, which ValidateLending
	// reports as missing.
	bookID, err := primitive.ObjectIDFromHex(input.BookID)
	if err != nil {
		v.AddError("bookId", "must be a valid id")
	}
	readerID, err := primitive.ObjectIDFromHex(input.ReaderID)
	if err != nil {
		v.AddError("readerId", "must be a valid id")
	}

	lending := &data.Lending{BookID: bookID, ReaderID: readerID, DueDate: input.DueDate}
	if data.ValidateLending(v, lending); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	created, err := app.models.Lendings.Lend(bookID, readerID, input.DueDate)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.errorResponse(w, r, http.StatusNotFound, "Book not found.")
		case errors.Is(err, data.ErrNoCopies):
			app.errorResponse(w, r, http.StatusBadRequest, "No available copies to lend.")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"lending": created}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// returnLendingHandler handles PUT /v1/lendings/return/:id.
// Responds 404 when the lending does not exist and 400 when it was already
// returned; a successful return also restocks the referenced book.
func (app *applicationDependencies) returnLendingHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	lending, err := app.models.Lendings.Return(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.errorResponse(w, r, http.StatusNotFound, "Lending record not found.")
		case errors.Is(err, data.ErrAlreadyReturned):
			app.errorResponse(w, r, http.StatusBadRequest, "Book already returned.")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"lending": lending}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// listLendingsHandler handles GET /v1/lendings.
// Returns every lending, most recent first, with book and reader resolved.
func (app *applicationDependencies) listLendingsHandler(w http.ResponseWriter, r *http.Request) {
	lendings, err := app.models.Lendings.GetAll()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"lendings": lendings}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// lendingsByReaderHandler handles GET /v1/lendings/reader/:readerId.
func (app *applicationDependencies) lendingsByReaderHandler(w http.ResponseWriter, r *http.Request) {
	readerID, err := app.readIDParam(r, "readerId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	lendings, err := app.models.Lendings.GetByReader(readerID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"lendings": lendings}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// lendingsByBookHandler handles GET /v1/lendings/book/:bookId.
func (app *applicationDependencies) lendingsByBookHandler(w http.ResponseWriter, r *http.Request) {
	bookID, err := app.readIDParam(r, "bookId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	lendings, err := app.models.Lendings.GetByBook(bookID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"lendings": lendings}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
