package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"go-cdms-inventory/internal/apperror"
	"go-cdms-inventory/internal/model"
	"go-cdms-inventory/internal/repository"
	"go-cdms-inventory/pkg/validator"
)

const (
	MsgBarangNotFound  = "Barang not found"
	MsgKodeBarangTaken = "Kode barang already exists"
	MsgEmptyUpdate     = "At least one field must be provided"
)

// Catalog notification types pushed over the WebSocket hub.
const (
	EventBarangCreated = "barang_created"
	EventBarangUpdated = "barang_updated"
	EventBarangDeleted = "barang_deleted"
)

// Notifier receives catalog change notifications. Implementations must not block.
type Notifier interface {
	Notify(eventType string, data interface{})
}

type CreateBarangRequest struct {
	KodeBarang string `json:"kode_barang" validate:"required,max=100"`
	NamaBarang string `json:"nama_barang" validate:"required,max=255"`
	HSCode     string `json:"hs_code" validate:"required,hs_code"`
	Satuan     string `json:"satuan" validate:"required,max=50"`
	Kategori   string `json:"kategori" validate:"required,max=100"`
}

// UpdateBarangRequest holds a partial update; nil fields are left unchanged.
type UpdateBarangRequest struct {
	KodeBarang *string `json:"kode_barang" validate:"omitnil,min=1,max=100"`
	NamaBarang *string `json:"nama_barang" validate:"omitnil,min=1,max=255"`
	HSCode     *string `json:"hs_code" validate:"omitnil,hs_code"`
	Satuan     *string `json:"satuan" validate:"omitnil,min=1,max=50"`
	Kategori   *string `json:"kategori" validate:"omitnil,min=1,max=100"`
}

func (r *UpdateBarangRequest) empty() bool {
	return r.KodeBarang == nil && r.NamaBarang == nil && r.HSCode == nil && r.Satuan == nil && r.Kategori == nil
}

type BarangListResult struct {
	Items      []model.Barang
	Pagination model.Pagination
}

type BarangService interface {
	Create(ctx context.Context, req *CreateBarangRequest) (*model.Barang, error)
	List(ctx context.Context, filter repository.BarangFilter, page model.PageRequest) (*BarangListResult, error)
	Get(ctx context.Context, id string) (*model.Barang, error)
	Update(ctx context.Context, id string, req *UpdateBarangRequest) (*model.Barang, error)
	Delete(ctx context.Context, id string) error
	// Snapshot loads the current state of an item for audit pre-capture.
	Snapshot(ctx context.Context, id string) (interface{}, error)
}

type barangService struct {
	repo     repository.BarangRepository
	notifier Notifier
}

func NewBarangService(repo repository.BarangRepository, notifier Notifier) BarangService {
	return &barangService{repo: repo, notifier: notifier}
}

func (s *barangService) Create(ctx context.Context, req *CreateBarangRequest) (*model.Barang, error) {
	trim(&req.KodeBarang, &req.NamaBarang, &req.HSCode, &req.Satuan, &req.Kategori)
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	if err := s.ensureKodeAvailable(ctx, req.KodeBarang, uuid.Nil); err != nil {
		return nil, err
	}

	barang := &model.Barang{
		KodeBarang: req.KodeBarang,
		NamaBarang: req.NamaBarang,
		HSCode:     req.HSCode,
		Satuan:     req.Satuan,
		Kategori:   req.Kategori,
	}
	if err := s.repo.Create(ctx, barang); err != nil {
		return nil, translateBarangErr(err)
	}

	s.notify(EventBarangCreated, barang)
	return barang, nil
}

func (s *barangService) List(ctx context.Context, filter repository.BarangFilter, page model.PageRequest) (*BarangListResult, error) {
	items, total, err := s.repo.FindAll(ctx, filter, page)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &BarangListResult{Items: items, Pagination: page.Paginate(total)}, nil
}

func (s *barangService) Get(ctx context.Context, id string) (*model.Barang, error) {
	barangID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.NotFound(MsgBarangNotFound)
	}
	barang, err := s.repo.FindByID(ctx, barangID)
	if err != nil {
		return nil, translateBarangErr(err)
	}
	return barang, nil
}

func (s *barangService) Update(ctx context.Context, id string, req *UpdateBarangRequest) (*model.Barang, error) {
	trimPtr(req.KodeBarang, req.NamaBarang, req.HSCode, req.Satuan, req.Kategori)
	if req.empty() {
		return nil, apperror.Validation(MsgEmptyUpdate)
	}
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.KodeBarang != nil && *req.KodeBarang != existing.KodeBarang {
		if err := s.ensureKodeAvailable(ctx, *req.KodeBarang, existing.ID); err != nil {
			return nil, err
		}
		existing.KodeBarang = *req.KodeBarang
	}
	if req.NamaBarang != nil {
		existing.NamaBarang = *req.NamaBarang
	}
	if req.HSCode != nil {
		existing.HSCode = *req.HSCode
	}
	if req.Satuan != nil {
		existing.Satuan = *req.Satuan
	}
	if req.Kategori != nil {
		existing.Kategori = *req.Kategori
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, translateBarangErr(err)
	}

	s.notify(EventBarangUpdated, existing)
	return existing, nil
}

func (s *barangService) Delete(ctx context.Context, id string) error {
	barangID, err := uuid.Parse(id)
	if err != nil {
		return apperror.NotFound(MsgBarangNotFound)
	}
	if err := s.repo.Delete(ctx, barangID); err != nil {
		return translateBarangErr(err)
	}

	s.notify(EventBarangDeleted, map[string]string{"id": barangID.String()})
	return nil
}

func (s *barangService) Snapshot(ctx context.Context, id string) (interface{}, error) {
	barang, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return barang, nil
}

// ensureKodeAvailable rejects kode when another item already owns it.
func (s *barangService) ensureKodeAvailable(ctx context.Context, kode string, self uuid.UUID) error {
	found, err := s.repo.FindByKode(ctx, kode)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return apperror.Internal(err)
	case found.ID != self:
		return apperror.Conflict(MsgKodeBarangTaken)
	}
	return nil
}

func (s *barangService) notify(eventType string, data interface{}) {
	if s.notifier != nil {
		s.notifier.Notify(eventType, data)
	}
}

func translateBarangErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperror.NotFound(MsgBarangNotFound)
	case errors.Is(err, repository.ErrDuplicateKey):
		return apperror.Conflict(MsgKodeBarangTaken)
	}
	return apperror.Internal(err)
}

func trim(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

func trimPtr(fields ...*string) {
	for _, f := range fields {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}
