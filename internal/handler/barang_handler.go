package handler

import (
	"go-cdms-inventory/internal/apperror"
	"go-cdms-inventory/internal/model"
	"go-cdms-inventory/internal/repository"
	"go-cdms-inventory/internal/response"
	"go-cdms-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

var errInvalidJSON = apperror.Validation("Invalid JSON")

type BarangHandler struct {
	service service.BarangService
}

func NewBarangHandler(s service.BarangService) *BarangHandler {
	return &BarangHandler{service: s}
}

// POST /api/barang
func (h *BarangHandler) Create(c *fiber.Ctx) (*response.Result, error) {
	var req service.CreateBarangRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, errInvalidJSON
	}

	barang, err := h.service.Create(c.UserContext(), &req)
	if err != nil {
		return nil, err
	}
	return response.Created("Barang created successfully", barang), nil
}

// GET /api/barang
func (h *BarangHandler) List(c *fiber.Ctx) (*response.Result, error) {
	filter := repository.BarangFilter{
		KodeBarang: c.Query("kode_barang"),
		NamaBarang: c.Query("nama_barang"),
		HSCode:     c.Query("hs_code"),
		Kategori:   c.Query("kategori"),
	}
	page := model.NewPageRequest(c.QueryInt("page", model.DefaultPage), c.QueryInt("limit", model.DefaultLimit))

	res, err := h.service.List(c.UserContext(), filter, page)
	if err != nil {
		return nil, err
	}
	return response.Paged(res.Items, res.Pagination), nil
}

// GET /api/barang/:id
func (h *BarangHandler) Get(c *fiber.Ctx) (*response.Result, error) {
	barang, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return nil, err
	}
	return response.OK(barang), nil
}

// PUT /api/barang/:id
func (h *BarangHandler) Update(c *fiber.Ctx) (*response.Result, error) {
	var req service.UpdateBarangRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, errInvalidJSON
	}

	barang, err := h.service.Update(c.UserContext(), c.Params("id"), &req)
	if err != nil {
		return nil, err
	}
	return response.OK(barang).WithMessage("Barang updated successfully"), nil
}

// DELETE /api/barang/:id
func (h *BarangHandler) Delete(c *fiber.Ctx) (*response.Result, error) {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return nil, err
	}
	return response.Message("Barang deleted successfully"), nil
}
