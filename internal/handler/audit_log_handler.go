package handler

import (
	"go-cdms-inventory/internal/model"
	"go-cdms-inventory/internal/response"
	"go-cdms-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuditLogHandler struct {
	service service.AuditLogService
}

func NewAuditLogHandler(s service.AuditLogService) *AuditLogHandler {
	return &AuditLogHandler{service: s}
}

// GET /api/audit-log
func (h *AuditLogHandler) List(c *fiber.Ctx) (*response.Result, error) {
	res, err := h.service.Query(c.UserContext(), service.AuditLogQuery{
		Page:      c.QueryInt("page", model.DefaultPage),
		Limit:     c.QueryInt("limit", model.DefaultLimit),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		UserID:    c.Query("user_id"),
		Action:    c.Query("action"),
		Entity:    c.Query("entity"),
		UserAgent: c.Query("user_agent"),
		Search:    c.Query("search"),
	})
	if err != nil {
		return nil, err
	}
	return response.Paged(res.Items, res.Pagination), nil
}

// GET /api/audit-log/:id
func (h *AuditLogHandler) Get(c *fiber.Ctx) (*response.Result, error) {
	log, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return nil, err
	}
	return response.OK(log), nil
}
