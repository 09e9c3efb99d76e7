package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"reading-list-api/common"
	"reading-list-api/logger"
	"reading-list-api/model"
	"reading-list-api/service"
)

type AuthHandler struct {
	auth    *service.AuthService
	cookies *service.CookieTransport
}

func NewAuthHandler(auth *service.AuthService, cookies *service.CookieTransport) *AuthHandler {
	return &AuthHandler{auth: auth, cookies: cookies}
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates a new user account with a unique email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body model.RegisterRequest true "Registration data"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  common.AppError
// @Router       /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	logger.Log.WithField("email", req.Email).Info("Register request received")

	if _, err := h.auth.Register(&req); err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return common.BadRequest("A user with this email is already registered", nil)
		}
		return common.Internal("Could not register user", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"msg": "New user registered"})
	return nil
}

// Login godoc
// @Summary      Log in
// @Description  Verifies credentials and sets the auth cookies
// @Tags         auth
// @Accept       json
// @Param        request body model.LoginRequest true "Credentials"
// @Success      204
// @Failure      401  {object}  common.AppError
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	accessToken, refreshToken, err := h.auth.Login(&req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return common.Unauthorized("Invalid credentials (check email and password)", nil)
		}
		return common.Internal("Could not log in", err)
	}

	h.cookies.WriteLoginResponse(w, accessToken, refreshToken)
	return nil
}

// Logout godoc
// @Summary      Log out
// @Description  Clears both auth cookies; does not validate the current token
// @Tags         auth
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	h.cookies.WriteLogoutResponse(w)
	return nil
}
