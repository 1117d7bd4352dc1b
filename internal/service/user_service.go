package service

import (
	"context"
	"errors"
	"strings"

	"go-cdms-inventory/internal/apperror"
	"go-cdms-inventory/internal/config"
	"go-cdms-inventory/internal/model"
	"go-cdms-inventory/internal/repository"
	"go-cdms-inventory/pkg/validator"
)

// UserService holds the administrative user operations used by the admin CLI
// and startup seeding. They bypass the HTTP surface and are not audited.
type UserService interface {
	CreateUser(ctx context.Context, req *CreateUserRequest) (*model.User, error)
	ResetPassword(ctx context.Context, username, newPassword string) error
	EnsureAdmin(ctx context.Context, seed config.SeedConfig) (bool, error)
}

type CreateUserRequest struct {
	Username string `validate:"required,min=3,max=50"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8,strong_password"`
	Role     string `validate:"omitempty,role"`
}

type resetPasswordRequest struct {
	Password string `validate:"required,min=8,strong_password"`
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) CreateUser(ctx context.Context, req *CreateUserRequest) (*model.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	role, _ := model.ParseRole(req.Role)

	exists, err := s.userRepo.ExistsByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.Validation(MsgUserExists)
	}

	user := &model.User{Username: req.Username, Email: req.Email, Role: role}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, apperror.Internal(err)
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperror.Validation(MsgUserExists)
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}

func (s *userService) ResetPassword(ctx context.Context, username, newPassword string) error {
	if err := validator.Check(&resetPasswordRequest{Password: newPassword}); err != nil {
		return err
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound(MsgUserNotFound)
		}
		return apperror.Internal(err)
	}

	if err := user.SetPassword(newPassword); err != nil {
		return apperror.Internal(err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, user.Password); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

// EnsureAdmin creates the bootstrap admin when seeding is configured and no
// user with that username or email exists yet. It reports whether a user was
// created.
func (s *userService) EnsureAdmin(ctx context.Context, seed config.SeedConfig) (bool, error) {
	if !seed.Enabled() {
		return false, nil
	}

	exists, err := s.userRepo.ExistsByUsernameOrEmail(ctx, seed.AdminUsername, seed.AdminEmail)
	if err != nil {
		return false, apperror.Internal(err)
	}
	if exists {
		return false, nil
	}

	_, err = s.CreateUser(ctx, &CreateUserRequest{
		Username: seed.AdminUsername,
		Email:    seed.AdminEmail,
		Password: seed.AdminPassword,
		Role:     model.RoleAdmin.String(),
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
