// cmd/api/readers.go
// HTTP request handlers for the readers resource. Same shape as the books
// handlers: decode, validate, hit the model, map errors, envelope the result.
package main

import (
	"errors"
	"net/http"

	"github.com/bookclubhq/library-api/internal/data"
	"github.com/bookclubhq/library-api/internal/validator"
)

// createReaderHandler handles POST /v1/readers.
func (app *applicationDependencies) createReaderHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Address  string `json:"address"`
		DOB      string `json:"dob"`
		JoinDate string `json:"joinDate"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	reader := &data.Reader{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Address:  input.Address,
		DOB:      input.DOB,
		JoinDate: input.JoinDate,
	}

	v := validator.New()
	if data.ValidateReader(v, reader); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	err = app.models.Readers.Insert(reader)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDuplicateEmail):
			v.AddError("email", "a reader with this email already exists")
			app.failedValidationResponse(w, r, v.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"reader": reader}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// showReaderHandler handles GET /v1/readers/:id.
func (app *applicationDependencies) showReaderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	reader, err := app.models.Readers.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"reader": reader}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// listReadersHandler handles GET /v1/readers.
func (app *applicationDependencies) listReadersHandler(w http.ResponseWriter, r *http.Request) {
	readers, err := app.models.Readers.GetAll()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"readers": readers}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// updateReaderHandler handles PUT /v1/readers/:id. Partial update with
// full re-validation of the merged record, like updateBookHandler.
func (app *applicationDependencies) updateReaderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Name     *string `json:"name"`
		Email    *string `json:"email"`
		Phone    *string `json:"phone"`
		Address  *string `json:"address"`
		DOB      *string `json:"dob"`
		JoinDate *string `json:"joinDate"`
	}

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	reader, err := app.models.Readers.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if input.Name != nil {
		reader.Name = *input.Name
	}
	if input.Email != nil {
		reader.Email = *input.Email
	}
	if input.Phone != nil {
		reader.Phone = *input.Phone
	}
	if input.Address != nil {
		reader.Address = *input.Address
	}
	if input.DOB != nil {
		reader.DOB = *input.DOB
	}
	if input.JoinDate != nil {
		reader.JoinDate = *input.JoinDate
	}

	v := validator.New()
	if data.ValidateReader(v, reader); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	err = app.models.Readers.Update(reader)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, data.ErrDuplicateEmail):
			v.AddError("email", "a reader with this email already exists")
			app.failedValidationResponse(w, r, v.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"reader": reader}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// deleteReaderHandler handles DELETE /v1/readers/:id. Lending records that
// reference the reader are left in place; joins resolve them as missing.
func (app *applicationDependencies) deleteReaderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.models.Readers.Delete(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "Reader successfully deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
