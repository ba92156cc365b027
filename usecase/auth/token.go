package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/cybertodo/backend/domain"
)

// TokenManager signs and verifies the session token handed to browsers
// (cookie) and API clients (bearer header). The token only carries the
// session id; authority stays with the Redis session record.
type TokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// Issue signs a token for the given session, expiring with it.
func (m *TokenManager) Issue(session *domain.Session) (string, error) {
	if session == nil {
		return "", domain.ErrInvalidPayload
	}
	claims := jwt.MapClaims{
		"sid":     session.ID,
		"user_id": session.UserID,
		"iat":     time.Now().Unix(),
		"exp":     session.ExpiresAt.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse verifies the signature and expiry and returns the session id.
func (m *TokenManager) Parse(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return "", domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", domain.ErrUnauthorized
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", domain.ErrUnauthorized
	}
	return sid, nil
}
