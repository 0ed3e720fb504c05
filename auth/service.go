package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/Ricci-ricci/backend/apperrors"
	"github.com/Ricci-ricci/backend/metrics"
	"github.com/Ricci-ricci/backend/models"
	"github.com/Ricci-ricci/backend/store"
	log "github.com/sirupsen/logrus"
)

// Service implements registration, login, logout and session checks.
type Service struct {
	users   store.UserStore
	hasher  Hasher
	tokens  *TokenManager
	revoker Revoker
}

func NewService(users store.UserStore, hasher Hasher, tokens *TokenManager, revoker Revoker) *Service {
	if revoker == nil {
		revoker = NewMemoryRevoker()
	}
	return &Service{users: users, hasher: hasher, tokens: tokens, revoker: revoker}
}

func (s *Service) Tokens() *TokenManager { return s.tokens }

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	email = normalizeEmail(email)

	if _, err := s.users.FindUserByEmail(ctx, email); err == nil {
		return nil, apperrors.Conflict("Email already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{Name: strings.TrimSpace(name), Email: email, Password: hash, Role: models.RoleUser}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperrors.Conflict("Email already exists")
		}
		return nil, err
	}

	log.WithField("user_id", user.ID).Info("👤 User registered")
	return user, nil
}

// Login returns a signed session token for valid credentials. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.FindUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.RecordLogin(false)
			return "", nil, apperrors.InvalidCredentials("Invalid credentials")
		}
		return "", nil, err
	}
	if !s.hasher.Matches(user.Password, password) {
		metrics.RecordLogin(false)
		return "", nil, apperrors.InvalidCredentials("Invalid credentials")
	}

	token, _, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}
	metrics.RecordLogin(true)
	return token, user, nil
}

// Authenticate checks a raw token and returns its claims.
func (s *Service) Authenticate(ctx context.Context, token string) (*Claims, error) {
	if token == "" {
		return nil, apperrors.Unauthenticated("Not authenticated")
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, apperrors.InvalidToken("Invalid token")
	}
	return claims, nil
}

// Verify resolves the user behind a session token.
func (s *Service) Verify(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.Unauthenticated("User not found")
		}
		return nil, err
	}
	return user, nil
}

// Logout revokes token if it is still valid. Invalid or missing tokens
// are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil
	}
	return s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}
