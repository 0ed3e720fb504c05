package auth

import (
	"errors"
	"time"

	"github.com/Ricci-ricci/backend/apperrors"
	"github.com/Ricci-ricci/backend/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the session payload carried by the auth token.
type Claims struct {
	UserID string      `json:"userId"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

func (m *TokenManager) TTL() time.Duration { return m.ttl }

func (m *TokenManager) Issue(user *models.User) (string, *Claims, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// Parse verifies the signature and expiry of token. Expired tokens yield
// a TokenExpired error; every other failure yields InvalidToken.
func (m *TokenManager) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.Wrap(apperrors.KindTokenExpired, "Token expired", err)
		}
		return nil, apperrors.Wrap(apperrors.KindInvalidToken, "Invalid token", err)
	}
	if !parsed.Valid || claims.UserID == "" {
		return nil, apperrors.InvalidToken("Invalid token")
	}
	return claims, nil
}
