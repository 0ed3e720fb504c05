package userControllers

import (
	"context"
	"errors"
	"strings"

	"github.com/Ricci-ricci/backend/apperrors"
	"github.com/Ricci-ricci/backend/auth"
	"github.com/Ricci-ricci/backend/models"
	"github.com/Ricci-ricci/backend/response"
	"github.com/Ricci-ricci/backend/store"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type UpdateUserInput struct {
	Name     *string `json:"name" binding:"omitempty,min=1"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=6"`
}

// Service manages user accounts. Responses only ever carry
// models.PublicUser.
type Service struct {
	users  store.UserStore
	hasher auth.Hasher
}

func NewService(users store.UserStore, hasher auth.Hasher) *Service {
	return &Service{users: users, hasher: hasher}
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.BadRequest("User ID is required")
	}
	return nil
}

func userNotFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.NotFound("User not found")
	}
	return err
}

func (s *Service) List(ctx context.Context) ([]models.PublicUser, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.PublicUser, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	user, err := s.users.FindUserByID(ctx, id)
	if err != nil {
		return nil, userNotFound(err)
	}
	public := user.Public()
	return &public, nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateUserInput) (*models.PublicUser, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	user, err := s.users.FindUserByID(ctx, id)
	if err != nil {
		return nil, userNotFound(err)
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email != user.Email {
			if _, err := s.users.FindUserByEmail(ctx, email); err == nil {
				return nil, apperrors.Conflict("Email already exists")
			} else if !errors.Is(err, store.ErrNotFound) {
				return nil, err
			}
			user.Email = email
		}
	}
	if in.Password != nil {
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hash
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperrors.Conflict("Email already exists")
		}
		return nil, userNotFound(err)
	}
	public := user.Public()
	return &public, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	if err := s.users.DeleteUser(ctx, id); err != nil {
		return userNotFound(err)
	}
	log.WithField("user_id", id).Info("🗑️ User deleted")
	return nil
}

// GET /api/users
func GetAllUsers(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := svc.List(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, users, "")
	}
}

// GET /api/users/:id
func GetUser(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, user, "")
	}
}

// PUT /api/users/:id
func UpdateUser(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input UpdateUserInput
		if !response.Bind(c, &input) {
			return
		}

		user, err := svc.Update(c.Request.Context(), c.Param("id"), input)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, user, "")
	}
}

// DELETE /api/users/:id
func DeleteUser(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, nil, "User deleted successfully")
	}
}
