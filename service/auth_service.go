package service

import (
	"database/sql"
	"errors"
	"strings"

	"reading-list-api/logger"
	"reading-list-api/model"
	"reading-list-api/repository"
)

var (
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned for both an unknown email and a wrong
	// password, so responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AuthService orchestrates registration, login and token minting.
type AuthService struct {
	users  repository.IUserRepository
	tokens *TokenService
}

func NewAuthService(users repository.IUserRepository, tokens *TokenService) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register creates a new user with a hashed password. The email pre-check
// only improves the error message; the unique constraint in storage is what
// actually guards against a concurrent duplicate.
func (s *AuthService) Register(req *model.RegisterRequest) (*model.User, error) {
	email := strings.ToLower(req.Email)

	_, err := s.users.GetUserByEmail(email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		DisplayName:  req.DisplayName,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	logger.Log.WithField("user_id", user.ID).Info("New user registered")
	return user, nil
}

// Login verifies the credentials and mints the access/refresh token pair.
func (s *AuthService) Login(req *model.LoginRequest) (accessToken, refreshToken string, err error) {
	user, err := s.users.GetUserByEmail(strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", ErrInvalidCredentials
		}
		return "", "", err
	}

	if !CheckPasswordHash(req.Password, user.PasswordHash) {
		return "", "", ErrInvalidCredentials
	}

	accessToken, err = s.tokens.NewAccessToken(user)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = s.tokens.NewRefreshToken(user.ID)
	if err != nil {
		return "", "", err
	}

	logger.Log.WithField("user_id", user.ID).Info("User logged in")
	return accessToken, refreshToken, nil
}
