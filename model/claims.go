package model

import "github.com/golang-jwt/jwt/v5"

// Token type discriminator embedded in every JWT. Verification rejects a
// token whose type does not match the expected one, so an access token can
// never be replayed as a refresh token or vice versa.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// RefreshClaims is the payload of a refresh token: only the subject plus the
// registered fields. The server keeps no copy; the cookie is the only store.
type RefreshClaims struct {
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// AccessClaims additionally snapshots display name and email so that the
// fast path can build the current user without a database lookup.
type AccessClaims struct {
	TokenType   string `json:"type"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	jwt.RegisteredClaims
}
