package service

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"reading-list-api/logger"
	"reading-list-api/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken covers every verification failure: bad signature, expired,
// malformed, wrong token type. Collapsing them keeps the failure mode opaque
// to the caller.
var ErrInvalidToken = errors.New("invalid token")

// TokenService signs and verifies the JWTs carried in the auth cookies.
// Signing uses the RSA private key; verification needs only the public key,
// so any instance can verify tokens without holding signing material.
type TokenService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		privateKey: privateKey,
		publicKey:  publicKey,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// NewTokenServiceFromFiles loads the PEM keypair from disk. Keys are read
// once at startup and never reloaded.
func NewTokenServiceFromFiles(privateKeyPath, publicKeyPath string, accessTTL, refreshTTL time.Duration) (*TokenService, error) {
	privatePEM, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key: %w", err)
	}
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privatePEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	publicPEM, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read public key: %w", err)
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	return NewTokenService(privateKey, publicKey, accessTTL, refreshTTL), nil
}

// NewAccessToken mints an access token snapshotting the user's display name
// and email, so the fast path never has to touch the users table.
func (s *TokenService) NewAccessToken(user *model.User) (string, error) {
	claims := &model.AccessClaims{
		TokenType:        model.TokenTypeAccess,
		DisplayName:      user.DisplayName,
		Email:            user.Email,
		RegisteredClaims: newRegisteredClaims(user.ID, s.accessTTL),
	}
	return s.sign(claims)
}

// NewRefreshToken mints a refresh token carrying only the user id.
func (s *TokenService) NewRefreshToken(userID int) (string, error) {
	claims := &model.RefreshClaims{
		TokenType:        model.TokenTypeRefresh,
		RegisteredClaims: newRegisteredClaims(userID, s.refreshTTL),
	}
	return s.sign(claims)
}

// DecodeAccess verifies the token and requires the access type.
func (s *TokenService) DecodeAccess(token string) (*model.AccessClaims, error) {
	claims := &model.AccessClaims{}
	if err := s.verify(token, claims); err != nil {
		return nil, err
	}
	if claims.TokenType != model.TokenTypeAccess {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// DecodeRefresh verifies the token and requires the refresh type.
func (s *TokenService) DecodeRefresh(token string) (*model.RefreshClaims, error) {
	claims := &model.RefreshClaims{}
	if err := s.verify(token, claims); err != nil {
		return nil, err
	}
	if claims.TokenType != model.TokenTypeRefresh {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *TokenService) sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(s.privateKey)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to sign JWT")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}
	return signed, nil
}

func (s *TokenService) verify(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.publicKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

// newRegisteredClaims stamps expiry, issue time and a fresh jti. The jti
// keeps two tokens minted in the same second from sharing a signature.
func newRegisteredClaims(userID int, ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userID),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	}
}
