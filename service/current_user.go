package service

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"reading-list-api/common"
	"reading-list-api/logger"
	"reading-list-api/model"
	"reading-list-api/repository"
)

// CurrentUserResolver turns raw cookie values into an authenticated identity.
// A valid access token resolves without any database round-trip; an expired
// or garbage access token falls back to the refresh token, which costs a
// user lookup and silently rotates the access cookie on the response.
type CurrentUserResolver struct {
	users   repository.IUserRepository
	tokens  *TokenService
	cookies *CookieTransport
}

func NewCurrentUserResolver(users repository.IUserRepository, tokens *TokenService, cookies *CookieTransport) *CurrentUserResolver {
	return &CurrentUserResolver{
		users:   users,
		tokens:  tokens,
		cookies: cookies,
	}
}

// Resolve authenticates the request from its two cookie values. The caller
// guarantees at least one of them is present. The only failure this resolver
// produces is Unauthorized; ownership checks belong to the callers.
func (s *CurrentUserResolver) Resolve(w http.ResponseWriter, accessToken, refreshToken string) (*model.CurrentUser, *common.AppError) {
	if claims, err := s.tokens.DecodeAccess(accessToken); err == nil {
		userID, err := strconv.Atoi(claims.Subject)
		if err != nil {
			return nil, common.Unauthorized("Invalid token subject", err)
		}
		return &model.CurrentUser{
			ID:          userID,
			DisplayName: claims.DisplayName,
			Email:       claims.Email,
		}, nil
	}

	claims, err := s.tokens.DecodeRefresh(refreshToken)
	if err != nil {
		return nil, common.Unauthorized("Invalid refresh token", err)
	}

	userID, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return nil, common.Unauthorized("Invalid token subject", err)
	}

	user, err := s.users.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// A deleted account can still hold a valid refresh token.
			// Clear both cookies so the browser stops sending it.
			s.cookies.ClearAuthCookies(w)
			return nil, common.Unauthorized("User not found", nil)
		}
		return nil, common.Unauthorized("Could not resolve user", err)
	}

	newAccessToken, err := s.tokens.NewAccessToken(user)
	if err != nil {
		return nil, common.Unauthorized("Could not refresh access token", err)
	}
	s.cookies.SetAccessCookie(w, newAccessToken)

	logger.Log.WithField("user_id", user.ID).Info("Access token rotated from refresh token")

	return &model.CurrentUser{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Email:       user.Email,
	}, nil
}
