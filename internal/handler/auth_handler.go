package handler

import (
	"go-cdms-inventory/internal/apperror"
	"go-cdms-inventory/internal/middleware"
	"go-cdms-inventory/internal/response"
	"go-cdms-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterResponse is returned on successful registration.
type RegisterResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Register creates a new user
// POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) (*response.Result, error) {
	var req service.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, errInvalidJSON
	}

	user, err := h.authService.Register(c.UserContext(), &req, requestMeta(c))
	if err != nil {
		return nil, err
	}

	return response.Created("User registered successfully", RegisterResponse{
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role.String(),
	}), nil
}

// Login handles user authentication
// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) (*response.Result, error) {
	var req service.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, errInvalidJSON
	}

	res, err := h.authService.Login(c.UserContext(), &req, requestMeta(c))
	if err != nil {
		return nil, err
	}

	return response.OK(res).WithMessage("Login successful"), nil
}

// Me returns the authenticated user
// GET /api/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) (*response.Result, error) {
	current := middleware.CurrentUser(c)
	if current == nil {
		return nil, apperror.Unauthenticated(service.MsgTokenNotFound)
	}

	user, err := h.authService.Profile(c.UserContext(), current.ID)
	if err != nil {
		return nil, err
	}
	return response.OK(user.ToResponse()), nil
}

func requestMeta(c *fiber.Ctx) service.RequestMeta {
	return service.RequestMeta{
		IPAddress: c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	}
}
