// cmd/api/dashboard.go
package main

import "net/http"

// dashboardHandler handles GET /v1/dashboard.
// Collection totals use fast cardinality estimates rather than exact counts,
// and recentActivity carries the 5 most recent lendings with display fields
// resolved. Pure read.
func (app *applicationDependencies) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	totalBooks, err := app.models.Books.Count()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	activeReaders, err := app.models.Readers.Count()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	lentBooks, err := app.models.Lendings.Count()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	recentActivity, err := app.models.Lendings.RecentActivity(5)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{
		"totalBooks":     totalBooks,
		"activeReaders":  activeReaders,
		"lentBooks":      lentBooks,
		"recentActivity": recentActivity,
	}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
