package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"go-cdms-inventory/internal/apperror"
	"go-cdms-inventory/internal/model"
	"go-cdms-inventory/internal/repository"
	"go-cdms-inventory/pkg/jwt"
	"go-cdms-inventory/pkg/validator"
)

const (
	MsgTokenNotFound      = "Access token not found"
	MsgInvalidToken       = "Invalid token"
	MsgTokenExpired       = "Token expired"
	MsgUserNotFound       = "User not found"
	MsgUnauthorized       = "Unauthorized access"
	MsgInvalidCredentials = "Invalid credentials"
	MsgUserExists         = "Username or email already exists"
)

// RequestMeta carries the caller's network details for audit records.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// AuditRecorder persists audit records.
type AuditRecorder interface {
	Record(ctx context.Context, log *model.AuditLog) error
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,strong_password"`
	Role     string `json:"role" validate:"omitempty,role"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest, meta RequestMeta) (*model.User, error)
	Login(ctx context.Context, req *LoginRequest, meta RequestMeta) (*LoginResponse, error)
	Profile(ctx context.Context, userID uuid.UUID) (*model.User, error)
	Authenticate(ctx context.Context, rawToken string) (*model.User, error)
	Authorize(user *model.User, allowed ...model.Role) error
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
	audit    AuditRecorder
	log      *logrus.Logger
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager, audit AuditRecorder, log *logrus.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		audit:    audit,
		log:      log,
	}
}

func (s *authService) Register(ctx context.Context, req *RegisterRequest, meta RequestMeta) (*model.User, error) {
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

	s.recordAuthEvent(ctx, user, model.ActionRegister, model.EntityUser, meta)
	return user, nil
}

func (s *authService) Login(ctx context.Context, req *LoginRequest, meta RequestMeta) (*LoginResponse, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Unauthenticated(MsgInvalidCredentials)
		}
		return nil, apperror.Internal(err)
	}
	if !user.CheckPassword(req.Password) {
		return nil, apperror.Unauthenticated(MsgInvalidCredentials)
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Username, user.Role.String())
	if err != nil {
		return nil, apperror.Internal(err)
	}

	s.recordAuthEvent(ctx, user, model.ActionLogin, model.EntityAuth, meta)

	return &LoginResponse{Token: token, User: user.ToResponse()}, nil
}

func (s *authService) Profile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound(MsgUserNotFound)
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}

// Authenticate resolves a bearer token to a live identity.
func (s *authService) Authenticate(ctx context.Context, rawToken string) (*model.User, error) {
	if rawToken == "" {
		return nil, apperror.Unauthenticated(MsgTokenNotFound)
	}

	claims, err := s.tokens.ValidateToken(rawToken)
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return nil, apperror.Unauthenticated(MsgTokenExpired)
		}
		return nil, apperror.Unauthenticated(MsgInvalidToken)
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Unauthenticated(MsgUserNotFound)
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}

// Authorize checks the persisted role, not the role claim in the token.
func (s *authService) Authorize(user *model.User, allowed ...model.Role) error {
	if user == nil || !user.Role.Valid() || !model.RoleIn(user.Role, allowed...) {
		return apperror.Forbidden(MsgUnauthorized)
	}
	return nil
}

func (s *authService) recordAuthEvent(ctx context.Context, user *model.User, action model.AuditAction, entity string, meta RequestMeta) {
	if s.audit == nil {
		return
	}
	userID := user.ID
	err := s.audit.Record(ctx, &model.AuditLog{
		UserID:    &userID,
		Action:    action,
		Entity:    entity,
		EntityID:  user.ID.String(),
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	})
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"action":  action,
			"user_id": user.ID,
		}).Warn("audit: failed to record auth event")
	}
}
