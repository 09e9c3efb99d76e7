package handler

import (
	"context"
	"net/http"

	"reading-list-api/common"
	"reading-list-api/model"
	"reading-list-api/service"
)

type contextKey string

const CurrentUserKey contextKey = "currentUser"

// AuthMiddleware authenticates requests from the auth cookies. Requests with
// neither cookie fail immediately; otherwise the resolver handles the access
// fast path and the refresh fallback, including silent rotation of the
// access cookie on the response.
func AuthMiddleware(resolver *service.CurrentUserResolver, cookies *service.CookieTransport) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accessToken, hasAccess := cookies.ReadAccessToken(r)
			refreshToken, hasRefresh := cookies.ReadRefreshToken(r)
			if !hasAccess && !hasRefresh {
				common.Unauthorized("Authentication required", nil).Send(w)
				return
			}

			currentUser, appErr := resolver.Resolve(w, accessToken, refreshToken)
			if appErr != nil {
				appErr.Send(w)
				return
			}

			ctx := context.WithValue(r.Context(), CurrentUserKey, currentUser)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// currentUserFrom pulls the resolved identity out of the request context.
func currentUserFrom(r *http.Request) (*model.CurrentUser, bool) {
	currentUser, ok := r.Context().Value(CurrentUserKey).(*model.CurrentUser)
	return currentUser, ok
}
