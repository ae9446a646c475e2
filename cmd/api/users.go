// cmd/api/users.go
// Account handlers: signup, login, token refresh, logout, and the user list.
// Tokens themselves are minted and verified in tokens.go.
package main

import (
	"errors"
	"net/http"

	"github.com/bookclubhq/library-api/internal/data"
	"github.com/bookclubhq/library-api/internal/validator"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// signupUserHandler handles POST /v1/auth/signup.
// Responds 400 "User already exists" when the email is taken. The created
// account is returned without its password hash.
func (app *applicationDependencies) signupUserHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := &data.User{
		Name:  input.Name,
		Email: input.Email,
	}

	v := validator.New()
	data.ValidateUser(v, user)
	data.ValidatePasswordPlaintext(v, input.Password)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	err = user.SetPassword(input.Password)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.models.Users.Insert(user)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDuplicateEmail):
			app.errorResponse(w, r, http.StatusBadRequest, "User already exists")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"user": user}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// loginUserHandler handles POST /v1/auth/login.
// On success it returns the account plus a short-lived access token in the
// body, and sets the long-lived refresh token as an HTTP-only cookie. A
// wrong email and a wrong password produce the same 401.
func (app *applicationDependencies) loginUserHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user, err := app.models.Users.GetByEmail(input.Email)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.invalidCredentialsResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	match, err := user.PasswordMatches(input.Password)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	if !match {
		app.invalidCredentialsResponse(w, r)
		return
	}

	accessToken, err := app.createAccessToken(user.ID, user.Email)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	refreshToken, err := app.createRefreshToken(user.ID, user.Email)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.setRefreshCookie(w, refreshToken)

	err = app.writeJSON(w, http.StatusOK, envelope{"user": user, "accessToken": accessToken}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// refreshTokenHandler handles POST /v1/auth/refresh-token.
// The client authenticates with the refresh cookie set at login; a valid one
// yields a fresh access token. The account is re-checked so a deleted user
// cannot keep minting access tokens from an old cookie.
func (app *applicationDependencies) refreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil {
		app.errorResponse(w, r, http.StatusUnauthorized, "Refresh token missing")
		return
	}

	claims, err := parseToken(cookie.Value, app.config.auth.refreshSecret)
	if err != nil {
		app.invalidRefreshTokenResponse(w, r)
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		app.invalidRefreshTokenResponse(w, r)
		return
	}

	user, err := app.models.Users.Get(userID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.errorResponse(w, r, http.StatusUnauthorized, "User not found")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	accessToken, err := app.createAccessToken(user.ID, user.Email)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"accessToken": accessToken}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// logoutUserHandler handles POST /v1/auth/logout.
// Revocation is client-side: the refresh cookie is overwritten with an
// expired one. Outstanding access tokens simply age out.
func (app *applicationDependencies) logoutUserHandler(w http.ResponseWriter, r *http.Request) {
	app.clearRefreshCookie(w)

	err := app.writeJSON(w, http.StatusOK, envelope{"message": "Logged out successfully"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// listUsersHandler handles GET /v1/auth/users.
// Password hashes never serialize, so the raw model structs are safe to return.
func (app *applicationDependencies) listUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := app.models.Users.GetAll()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"users": users}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
