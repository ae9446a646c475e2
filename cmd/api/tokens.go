// cmd/api/tokens.go
// JWT creation and verification for the session guard. Access tokens ride in
// the Authorization header; refresh tokens live in an HTTP-only cookie scoped
// to the refresh route. The two kinds are signed with separate secrets so one
// can never be presented as the other.
package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour

	tokenIssuer       = "bookclub-library-api"
	refreshCookieName = "refreshToken"
	refreshCookiePath = "/v1/auth/refresh-token"
)

// tokenClaims is the payload carried by both token kinds: the user ID in the
// registered Subject claim plus the account email.
type tokenClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// signToken builds an HMAC-SHA256 token for the user with the given lifetime.
// Each token gets a unique jti so two tokens minted in the same second still
// differ.
func signToken(userID primitive.ObjectID, email, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.Hex(),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// parseToken verifies the signature and registered claims of a token signed
// by signToken and returns its payload. Expiry, the issuer, and the signing
// method are all checked; the caller only needs to map errors to a response.
func parseToken(tokenString, secret string) (*tokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// createAccessToken mints a short-lived bearer token for the user.
func (app *applicationDependencies) createAccessToken(userID primitive.ObjectID, email string) (string, error) {
	return signToken(userID, email, app.config.auth.accessSecret, accessTokenTTL)
}

// createRefreshToken mints a long-lived refresh token for the user.
func (app *applicationDependencies) createRefreshToken(userID primitive.ObjectID, email string) (string, error) {
	return signToken(userID, email, app.config.auth.refreshSecret, refreshTokenTTL)
}

// setRefreshCookie attaches the refresh token to the response as an HTTP-only
// cookie. The cookie is Secure outside development and scoped to the refresh
// route so browsers never send it anywhere else.
func (app *applicationDependencies) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     refreshCookiePath,
		MaxAge:   int(refreshTokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   app.config.environment != "development",
		SameSite: http.SameSiteStrictMode,
	})
}

// clearRefreshCookie overwrites the refresh cookie with an immediately
// expiring one. The attribute set must match setRefreshCookie or browsers
// treat it as a different cookie.
func (app *applicationDependencies) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   app.config.environment != "development",
		SameSite: http.SameSiteStrictMode,
	})
}
