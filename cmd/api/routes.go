// cmd/api/routes.go
package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// routes registers all HTTP endpoints and returns the configured router wrapped
// in the recoverPanic, rateLimit and enableCORS middlewares.
//
// Middleware chain (outermost → innermost):
//
//	recoverPanic → rateLimit → enableCORS → router
//
// Every route group except auth requires a bearer token; within auth, only
// listing accounts is protected. Signup and login are open by definition,
// the refresh endpoint authenticates with the refresh cookie instead, and
// logout only clears that cookie.
func (app *applicationDependencies) routes() http.Handler {
	router := httprouter.New()

	// Override the default httprouter error handlers to return JSON responses.
	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	// Book catalog
	router.HandlerFunc(http.MethodPost, "/v1/books", app.authenticate(app.createBookHandler))
	router.HandlerFunc(http.MethodGet, "/v1/books", app.authenticate(app.listBooksHandler))
	router.HandlerFunc(http.MethodGet, "/v1/books/:id", app.authenticate(app.showBookHandler))
	router.HandlerFunc(http.MethodPut, "/v1/books/:id", app.authenticate(app.updateBookHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/books/:id", app.authenticate(app.deleteBookHandler))

	// Reader directory
	router.HandlerFunc(http.MethodPost, "/v1/readers", app.authenticate(app.createReaderHandler))
	router.HandlerFunc(http.MethodGet, "/v1/readers", app.authenticate(app.listReadersHandler))
	router.HandlerFunc(http.MethodGet, "/v1/readers/:id", app.authenticate(app.showReaderHandler))
	router.HandlerFunc(http.MethodPut, "/v1/readers/:id", app.authenticate(app.updateReaderHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/readers/:id", app.authenticate(app.deleteReaderHandler))

	// Lending ledger
	router.HandlerFunc(http.MethodPost, "/v1/lendings", app.authenticate(app.createLendingHandler))
	router.HandlerFunc(http.MethodGet, "/v1/lendings", app.authenticate(app.listLendingsHandler))
	router.HandlerFunc(http.MethodPut, "/v1/lendings/return/:id", app.authenticate(app.returnLendingHandler))
	router.HandlerFunc(http.MethodGet, "/v1/lendings/reader/:readerId", app.authenticate(app.lendingsByReaderHandler))
	router.HandlerFunc(http.MethodGet, "/v1/lendings/book/:bookId", app.authenticate(app.lendingsByBookHandler))

	// Overdue tracking and notification
	router.HandlerFunc(http.MethodGet, "/v1/overdues", app.authenticate(app.listOverduesHandler))
	router.HandlerFunc(http.MethodPost, "/v1/overdues/notify", app.authenticate(app.notifyAllOverdueHandler))
	router.HandlerFunc(http.MethodPost, "/v1/overdues/notify/:readerId", app.authenticate(app.notifyOverdueReaderHandler))

	// Dashboard
	router.HandlerFunc(http.MethodGet, "/v1/dashboard", app.authenticate(app.dashboardHandler))

	// Accounts
	router.HandlerFunc(http.MethodPost, "/v1/auth/signup", app.signupUserHandler)
	router.HandlerFunc(http.MethodPost, "/v1/auth/login", app.loginUserHandler)
	router.HandlerFunc(http.MethodPost, "/v1/auth/refresh-token", app.refreshTokenHandler)
	router.HandlerFunc(http.MethodPost, "/v1/auth/logout", app.logoutUserHandler)
	router.HandlerFunc(http.MethodGet, "/v1/auth/users", app.authenticate(app.listUsersHandler))

	// Wrap with middleware: recoverPanic is outermost so it catches panics
	// from the other middlewares and the router alike.
	return app.recoverPanic(app.rateLimit(app.enableCORS(router)))
}
