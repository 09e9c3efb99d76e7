package service

import (
	"net/http"
	"reading-list-api/config"
)

// CookieTransport maps token strings to and from the auth cookies. It is
// configured once at startup and never mutated. The refresh cookie defaults
// to SameSite=Strict since it is the higher-value credential; the access
// cookie may use a looser policy.
type CookieTransport struct {
	accessName      string
	refreshName     string
	httpOnly        bool
	secure          bool
	maxAge          int
	sameSiteAccess  http.SameSite
	sameSiteRefresh http.SameSite
}

func NewCookieTransport(cfg config.CookiesConfig) *CookieTransport {
	return &CookieTransport{
		accessName:      cfg.AccessTokenName,
		refreshName:     cfg.RefreshTokenName,
		httpOnly:        cfg.HTTPOnly,
		secure:          cfg.Secure,
		maxAge:          cfg.MaxAge,
		sameSiteAccess:  parseSameSite(cfg.SameSiteAccessToken),
		sameSiteRefresh: parseSameSite(cfg.SameSiteRefreshToken),
	}
}

// ReadAccessToken extracts the raw access token. No validation happens here.
func (t *CookieTransport) ReadAccessToken(r *http.Request) (string, bool) {
	return t.readCookie(r, t.accessName)
}

// ReadRefreshToken extracts the raw refresh token. No validation happens here.
func (t *CookieTransport) ReadRefreshToken(r *http.Request) (string, bool) {
	return t.readCookie(r, t.refreshName)
}

func (t *CookieTransport) readCookie(r *http.Request, name string) (string, bool) {
	cookie, err := r.Cookie(name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// SetAccessCookie attaches a fresh access token to the in-flight response.
// Used for silent rotation; must be called before the status is written.
func (t *CookieTransport) SetAccessCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, t.buildCookie(t.accessName, token, t.maxAge, t.sameSiteAccess))
}

// WriteLoginResponse sets both auth cookies and responds 204.
func (t *CookieTransport) WriteLoginResponse(w http.ResponseWriter, accessToken, refreshToken string) {
	t.SetAccessCookie(w, accessToken)
	http.SetCookie(w, t.buildCookie(t.refreshName, refreshToken, t.maxAge, t.sameSiteRefresh))
	w.WriteHeader(http.StatusNoContent)
}

// WriteLogoutResponse clears both auth cookies and responds 204.
func (t *CookieTransport) WriteLogoutResponse(w http.ResponseWriter) {
	t.ClearAuthCookies(w)
	w.WriteHeader(http.StatusNoContent)
}

// ClearAuthCookies deletes both cookies without writing a status, so it can
// also run as a side effect on an error response. Deletion reuses the exact
// attributes used when setting: browsers silently keep a cookie whose
// secure/samesite/path do not match on delete.
func (t *CookieTransport) ClearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, t.buildCookie(t.accessName, "", -1, t.sameSiteAccess))
	http.SetCookie(w, t.buildCookie(t.refreshName, "", -1, t.sameSiteRefresh))
}

func (t *CookieTransport) buildCookie(name, value string, maxAge int, sameSite http.SameSite) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: t.httpOnly,
		Secure:   t.secure,
		SameSite: sameSite,
	}
}

func parseSameSite(value string) http.SameSite {
	switch value {
	case "lax":
		return http.SameSiteLaxMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteStrictMode
	}
}
