package repository

import (
	"context"
	"time"

	"go-cdms-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLogFilter narrows an audit query; every set field is ANDed.
type AuditLogFilter struct {
	From      *time.Time
	To        *time.Time
	UserID    string // user id, or model.SystemActor for records without an actor
	Action    string
	Entity    string
	UserAgent string
	Search    string
}

type AuditLogRepository interface {
	Create(ctx context.Context, log *model.AuditLog) error
	FindAll(ctx context.Context, filter AuditLogFilter, page model.PageRequest) ([]model.AuditLog, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.AuditLog, error)
}

type auditLogRepo struct {
	db *gorm.DB
}

func NewAuditLogRepo(db *gorm.DB) AuditLogRepository {
	return &auditLogRepo{db}
}

func (r *auditLogRepo) Create(ctx context.Context, log *model.AuditLog) error {
	return r.db.WithContext(ctx).Omit("User").Create(log).Error
}

func preloadActor(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username", "email", "role")
}

func (r *auditLogRepo) FindAll(ctx context.Context, filter AuditLogFilter, page model.PageRequest) ([]model.AuditLog, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.AuditLog{}).
		Joins("LEFT JOIN tbl_user ON tbl_user.id = tbl_audit_log.user_id")

	if filter.From != nil {
		q = q.Where("tbl_audit_log.timestamp >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("tbl_audit_log.timestamp <= ?", *filter.To)
	}
	if filter.UserID == model.SystemActor {
		q = q.Where("tbl_audit_log.user_id IS NULL")
	} else if filter.UserID != "" {
		q = q.Where("tbl_audit_log.user_id = ?", filter.UserID)
	}
	if filter.Action != "" {
		q = q.Where("tbl_audit_log.action = ?", filter.Action)
	}
	if filter.Entity != "" {
		q = q.Where("tbl_audit_log.entity = ?", filter.Entity)
	}
	if filter.UserAgent != "" {
		q = likeInsensitive(q, "tbl_audit_log.user_agent", filter.UserAgent)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		q = q.Where(
			"(LOWER(tbl_audit_log.entity) LIKE ? OR LOWER(tbl_audit_log.action) LIKE ? OR LOWER(tbl_audit_log.ip_address) LIKE ? OR LOWER(tbl_user.username) LIKE ?)",
			pattern, pattern, pattern, pattern,
		)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	logs := []model.AuditLog{}
	err := q.Select("tbl_audit_log.*").
		Preload("User", preloadActor).
		Order("tbl_audit_log.timestamp DESC").
		Order("tbl_audit_log.id").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&logs).Error
	return logs, total, err
}

func (r *auditLogRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.AuditLog, error) {
	var log model.AuditLog
	if err := r.db.WithContext(ctx).Preload("User", preloadActor).First(&log, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &log, nil
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.User{}, &model.Barang{}, &model.AuditLog{})
}
