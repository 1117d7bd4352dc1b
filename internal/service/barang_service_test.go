package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-cdms-inventory/internal/apperror"
	"go-cdms-inventory/internal/model"
	"go-cdms-inventory/internal/repository"
)

func strPtr(s string) *string { return &s }

func validCreateRequest() *CreateBarangRequest {
	return &CreateBarangRequest{
		KodeBarang: " BR001 ",
		NamaBarang: "Widget",
		HSCode:     "123456",
		Satuan:     "pcs",
		Kategori:   "tools",
	}
}

func TestBarangServiceCreate(t *testing.T) {
	ctx := context.Background()
	repo := new(mockBarangRepo)
	notifier := new(mockNotifier)
	svc := NewBarangService(repo, notifier)

	repo.On("FindByKode", ctx, "BR001").Return(nil, repository.ErrNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*model.Barang")).Return(nil)
	notifier.On("Notify", EventBarangCreated, mock.Anything).Return()

	barang, err := svc.Create(ctx, validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, "BR001", barang.KodeBarang)

	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestBarangServiceCreateValidation(t *testing.T) {
	repo := new(mockBarangRepo)
	svc := NewBarangService(repo, nil)

	req := validCreateRequest()
	req.HSCode = "12ab"
	req.NamaBarang = "   "

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)

	appErr := apperror.From(err)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)

	fields := map[string]bool{}
	for _, f := range appErr.Fields {
		fields[f.Field] = true
	}
	assert.True(t, fields["hs_code"])
	assert.True(t, fields["nama_barang"])
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBarangServiceCreateDuplicate(t *testing.T) {
	ctx := context.Background()

	t.Run("pre-check", func(t *testing.T) {
		repo := new(mockBarangRepo)
		repo.On("FindByKode", ctx, "BR001").Return(&model.Barang{BaseModel: model.BaseModel{ID: uuid.New()}}, nil)

		_, err := NewBarangService(repo, nil).Create(ctx, validCreateRequest())
		assert.True(t, apperror.Is(err, apperror.KindConflict))
		assert.Equal(t, MsgKodeBarangTaken, apperror.From(err).Message)
		assert.Equal(t, 400, apperror.From(err).Status())
	})

	t.Run("store constraint", func(t *testing.T) {
		repo := new(mockBarangRepo)
		repo.On("FindByKode", ctx, "BR001").Return(nil, repository.ErrNotFound)
		repo.On("Create", ctx, mock.Anything).Return(repository.ErrDuplicateKey)

		_, err := NewBarangService(repo, nil).Create(ctx, validCreateRequest())
		assert.True(t, apperror.Is(err, apperror.KindConflict))
	})
}

func TestBarangServiceGetInvalidID(t *testing.T) {
	repo := new(mockBarangRepo)
	_, err := NewBarangService(repo, nil).Get(context.Background(), "not-a-uuid")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestBarangServiceUpdate(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	existing := func() *model.Barang {
		return &model.Barang{BaseModel: model.BaseModel{ID: id}, KodeBarang: "BR001", NamaBarang: "Widget", HSCode: "123456", Satuan: "pcs", Kategori: "tools"}
	}

	t.Run("empty body", func(t *testing.T) {
		repo := new(mockBarangRepo)
		_, err := NewBarangService(repo, nil).Update(ctx, id.String(), &UpdateBarangRequest{})
		require.Error(t, err)
		assert.Equal(t, MsgEmptyUpdate, apperror.From(err).Message)
	})

	t.Run("invalid field", func(t *testing.T) {
		repo := new(mockBarangRepo)
		_, err := NewBarangService(repo, nil).Update(ctx, id.String(), &UpdateBarangRequest{HSCode: strPtr("12")})
		assert.True(t, apperror.Is(err, apperror.KindValidation))
	})

	t.Run("partial update", func(t *testing.T) {
		repo := new(mockBarangRepo)
		notifier := new(mockNotifier)
		repo.On("FindByID", ctx, id).Return(existing(), nil)
		repo.On("Update", ctx, mock.AnythingOfType("*model.Barang")).Return(nil)
		notifier.On("Notify", EventBarangUpdated, mock.Anything).Return()

		updated, err := NewBarangService(repo, notifier).Update(ctx, id.String(), &UpdateBarangRequest{NamaBarang: strPtr(" Gadget ")})
		require.NoError(t, err)
		assert.Equal(t, "Gadget", updated.NamaBarang)
		assert.Equal(t, "BR001", updated.KodeBarang)
		repo.AssertNotCalled(t, "FindByKode", mock.Anything, mock.Anything)
		notifier.AssertExpectations(t)
	})

	t.Run("kode taken by another item", func(t *testing.T) {
		repo := new(mockBarangRepo)
		repo.On("FindByID", ctx, id).Return(existing(), nil)
		repo.On("FindByKode", ctx, "BR002").Return(&model.Barang{BaseModel: model.BaseModel{ID: uuid.New()}}, nil)

		_, err := NewBarangService(repo, nil).Update(ctx, id.String(), &UpdateBarangRequest{KodeBarang: strPtr("BR002")})
		assert.True(t, apperror.Is(err, apperror.KindConflict))
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("missing item", func(t *testing.T) {
		repo := new(mockBarangRepo)
		repo.On("FindByID", ctx, id).Return(nil, repository.ErrNotFound)

		_, err := NewBarangService(repo, nil).Update(ctx, id.String(), &UpdateBarangRequest{Satuan: strPtr("box")})
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
	})
}

func TestBarangServiceDelete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	repo := new(mockBarangRepo)
	notifier := new(mockNotifier)
	repo.On("Delete", ctx, id).Return(nil).Once()
	repo.On("Delete", ctx, id).Return(repository.ErrNotFound).Once()
	notifier.On("Notify", EventBarangDeleted, map[string]string{"id": id.String()}).Return().Once()

	svc := NewBarangService(repo, notifier)
	require.NoError(t, svc.Delete(ctx, id.String()))

	err := svc.Delete(ctx, id.String())
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	notifier.AssertExpectations(t)
}

func TestBarangServiceListPaginates(t *testing.T) {
	ctx := context.Background()
	repo := new(mockBarangRepo)
	page := model.NewPageRequest(3, 10)
	repo.On("FindAll", ctx, repository.BarangFilter{Kategori: "tools"}, page).Return([]model.Barang{}, int64(21), nil)

	res, err := NewBarangService(repo, nil).List(ctx, repository.BarangFilter{Kategori: "tools"}, page)
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, model.Pagination{Total: 21, Page: 3, Limit: 10, TotalPages: 3}, res.Pagination)
}

func TestBarangServiceStoreFailure(t *testing.T) {
	ctx := context.Background()
	repo := new(mockBarangRepo)
	repo.On("FindAll", ctx, mock.Anything, mock.Anything).Return(nil, int64(0), errors.New("connection refused"))

	_, err := NewBarangService(repo, nil).List(ctx, repository.BarangFilter{}, model.NewPageRequest(1, 10))
	assert.True(t, apperror.Is(err, apperror.KindInternal))
}

func TestBarangServiceUpdateRejectsBlankField(t *testing.T) {
	repo := new(mockBarangRepo)
	_, err := NewBarangService(repo, nil).Update(context.Background(), uuid.NewString(), &UpdateBarangRequest{Satuan: strPtr("   ")})
	require.Error(t, err)

	appErr := apperror.From(err)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	require.Len(t, appErr.Fields, 1)
	assert.Equal(t, "satuan", appErr.Fields[0].Field)
}

func TestBarangServiceUpdateAfterConcurrentDelete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	repo := new(mockBarangRepo)
	notifier := new(mockNotifier)
	repo.On("FindByID", ctx, id).Return(&model.Barang{BaseModel: model.BaseModel{ID: id}, KodeBarang: "BR001"}, nil)
	repo.On("Update", ctx, mock.Anything).Return(repository.ErrNotFound)

	_, err := NewBarangService(repo, notifier).Update(ctx, id.String(), &UpdateBarangRequest{Satuan: strPtr("box")})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}
