package repository

import (
	"context"

	"go-cdms-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BarangFilter holds independent substring filters; empty fields are ignored.
type BarangFilter struct {
	KodeBarang string
	NamaBarang string
	HSCode     string
	Kategori   string
}

type BarangRepository interface {
	Create(ctx context.Context, barang *model.Barang) error
	FindAll(ctx context.Context, filter BarangFilter, page model.PageRequest) ([]model.Barang, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Barang, error)
	FindByKode(ctx context.Context, kode string) (*model.Barang, error)
	Update(ctx context.Context, barang *model.Barang) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type barangRepo struct {
	db *gorm.DB
}

func NewBarangRepo(db *gorm.DB) BarangRepository {
	return &barangRepo{db}
}

func (r *barangRepo) Create(ctx context.Context, barang *model.Barang) error {
	return translate(r.db.WithContext(ctx).Create(barang).Error)
}

func (r *barangRepo) FindAll(ctx context.Context, filter BarangFilter, page model.PageRequest) ([]model.Barang, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Barang{})
	if filter.KodeBarang != "" {
		q = likeInsensitive(q, "kode_barang", filter.KodeBarang)
	}
	if filter.NamaBarang != "" {
		q = likeInsensitive(q, "nama_barang", filter.NamaBarang)
	}
	if filter.HSCode != "" {
		q = likeInsensitive(q, "hs_code", filter.HSCode)
	}
	if filter.Kategori != "" {
		q = likeInsensitive(q, "kategori", filter.Kategori)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := []model.Barang{}
	err := q.Order("created_at DESC").Order("id").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&items).Error
	return items, total, err
}

func (r *barangRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Barang, error) {
	var barang model.Barang
	if err := r.db.WithContext(ctx).First(&barang, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &barang, nil
}

func (r *barangRepo) FindByKode(ctx context.Context, kode string) (*model.Barang, error) {
	var barang model.Barang
	if err := r.db.WithContext(ctx).First(&barang, "kode_barang = ?", kode).Error; err != nil {
		return nil, translate(err)
	}
	return &barang, nil
}

// Update rewrites every column of an existing row. It never inserts: a row
// deleted since it was read yields ErrNotFound.
func (r *barangRepo) Update(ctx context.Context, barang *model.Barang) error {
	res := r.db.WithContext(ctx).Model(barang).Select("*").Omit("id", "created_at").Updates(barang)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the row permanently.
func (r *barangRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Barang{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
