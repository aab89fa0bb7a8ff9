package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers malformed, tampered and expired tokens alike.
var ErrInvalidToken = errors.New("invalid token")

const defaultTTL = 15 * time.Minute

// TokenManager issues and verifies signed bearer tokens (HS256).
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager returns a new TokenManager with the process-wide secret.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Issue returns a signed token embedding the user ID and email with a fixed expiry.
func (m *TokenManager) Issue(userID int64, email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatInt(userID, 10),
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(m.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded user ID.
func (m *TokenManager) Verify(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return 0, ErrInvalidToken
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidToken
	}
	return id, nil
}

// TTL reports the configured token lifetime.
func (m *TokenManager) TTL() time.Duration { return m.ttl }
