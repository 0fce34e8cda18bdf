package common

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionToken is a validated access token for one app installation
type SessionToken struct {
	DeviceID  string
	TokenID   string
	ExpiresAt time.Time
}

// TokenService issues and validates HMAC-signed access tokens the app
// presents on every API call
type TokenService struct {
	secretKey []byte
	lifetime  time.Duration
}

// NewTokenService creates a token service with the signing secret and the
// token lifetime
func NewTokenService(secretKey []byte, lifetime time.Duration) *TokenService {
	return &TokenService{
		secretKey: secretKey,
		lifetime:  lifetime,
	}
}

// IssueToken signs a fresh token for a device
func (s *TokenService) IssueToken(deviceID string) (string, time.Time, error) {
	tokenID := uuid.New().String()
	expiresAt := time.Now().Add(s.lifetime)

	claims := jwt.MapClaims{
		"device_id": deviceID,
		"jti":       tokenID,
		"exp":       expiresAt.Unix(),
		"iat":       time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// ValidateToken parses and verifies an access token
func (s *TokenService) ValidateToken(tokenString string) (*SessionToken, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	deviceID, ok := (*claims)["device_id"].(string)
	if !ok {
		return nil, errors.New("missing or invalid device_id claim")
	}

	tokenID, ok := (*claims)["jti"].(string)
	if !ok {
		return nil, errors.New("missing or invalid jti claim")
	}

	expFloat, ok := (*claims)["exp"].(float64)
	if !ok {
		return nil, errors.New("missing or invalid exp claim")
	}
	expiresAt := time.Unix(int64(expFloat), 0)

	if time.Now().After(expiresAt) {
		return nil, errors.New("token expired")
	}

	return &SessionToken{
		DeviceID:  deviceID,
		TokenID:   tokenID,
		ExpiresAt: expiresAt,
	}, nil
}
