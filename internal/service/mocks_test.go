package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"go-cdms-inventory/internal/model"
	"go-cdms-inventory/internal/repository"
)

type mockBarangRepo struct {
	mock.Mock
}

func (m *mockBarangRepo) Create(ctx context.Context, barang *model.Barang) error {
	args := m.Called(ctx, barang)
	return args.Error(0)
}

func (m *mockBarangRepo) FindAll(ctx context.Context, filter repository.BarangFilter, page model.PageRequest) ([]model.Barang, int64, error) {
	args := m.Called(ctx, filter, page)
	items, _ := args.Get(0).([]model.Barang)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *mockBarangRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Barang, error) {
	args := m.Called(ctx, id)
	barang, _ := args.Get(0).(*model.Barang)
	return barang, args.Error(1)
}

func (m *mockBarangRepo) FindByKode(ctx context.Context, kode string) (*model.Barang, error) {
	args := m.Called(ctx, kode)
	barang, _ := args.Get(0).(*model.Barang)
	return barang, args.Error(1)
}

func (m *mockBarangRepo) Update(ctx context.Context, barang *model.Barang) error {
	args := m.Called(ctx, barang)
	return args.Error(0)
}

func (m *mockBarangRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockAuditRecorder struct {
	mock.Mock
}

func (m *mockAuditRecorder) Record(ctx context.Context, log *model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(eventType string, data interface{}) {
	m.Called(eventType, data)
}
