package router

import (
	"net/http"

	"reading-list-api/handler"
	"reading-list-api/service"

	_ "reading-list-api/docs"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func NewRouter(
	authHandler *handler.AuthHandler,
	itemHandler *handler.ItemHandler,
	resolver *service.CurrentUserResolver,
	cookies *service.CookieTransport,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	mux.Handle("POST /auth/register", handler.ErrorHandlingMiddleware(authHandler.Register))
	mux.Handle("POST /auth/login", handler.ErrorHandlingMiddleware(authHandler.Login))
	mux.Handle("POST /auth/logout", handler.ErrorHandlingMiddleware(authHandler.Logout))

	authenticated := handler.AuthMiddleware(resolver, cookies)

	mux.Handle("POST /items", authenticated(handler.ErrorHandlingMiddleware(itemHandler.Create)))
	mux.Handle("GET /items", authenticated(handler.ErrorHandlingMiddleware(itemHandler.List)))
	mux.Handle("GET /items/{id}", authenticated(handler.ErrorHandlingMiddleware(itemHandler.Get)))
	mux.Handle("PATCH /items/{id}", authenticated(handler.ErrorHandlingMiddleware(itemHandler.Update)))
	mux.Handle("DELETE /items/{id}", authenticated(handler.ErrorHandlingMiddleware(itemHandler.Delete)))

	return mux
}
