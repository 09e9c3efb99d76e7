package model

import "time"

type User struct {
	ID           int       `json:"id"`
	DisplayName  string    `json:"display_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // The hash is not exposed in JSON responses.
	CreatedAt    time.Time `json:"created_at"`
}

// CurrentUser is the authenticated identity resolved from the auth cookies.
// On the access-token fast path it is built from the token payload alone,
// so display name and email reflect the values at token issuance time.
type CurrentUser struct {
	ID          int    `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}
