package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-cdms-inventory/internal/apperror"
	"go-cdms-inventory/internal/metrics"
	"go-cdms-inventory/internal/model"
	"go-cdms-inventory/internal/repository"
)

const (
	MsgAuditLogNotFound = "Audit log not found"

	dateOnly = "2006-01-02"
)

// AuditLogQuery is the raw, unparsed query accepted by Query.
type AuditLogQuery struct {
	Page      int
	Limit     int
	StartDate string
	EndDate   string
	UserID    string
	Action    string
	Entity    string
	UserAgent string
	Search    string
}

type AuditLogListResult struct {
	Items      []model.AuditLogResponse
	Pagination model.Pagination
}

type AuditLogService interface {
	Record(ctx context.Context, log *model.AuditLog) error
	Query(ctx context.Context, q AuditLogQuery) (*AuditLogListResult, error)
	GetByID(ctx context.Context, id string) (*model.AuditLogResponse, error)
}

type auditLogService struct {
	repo    repository.AuditLogRepository
	metrics *metrics.Metrics
}

func NewAuditLogService(repo repository.AuditLogRepository, m *metrics.Metrics) AuditLogService {
	return &auditLogService{repo: repo, metrics: m}
}

func (s *auditLogService) Record(ctx context.Context, log *model.AuditLog) error {
	if err := s.repo.Create(ctx, log); err != nil {
		s.metrics.AuditFailed(log.Entity, metrics.StageWrite)
		return err
	}
	s.metrics.AuditRecorded(log.Entity, string(log.Action))
	return nil
}

func (s *auditLogService) Query(ctx context.Context, q AuditLogQuery) (*AuditLogListResult, error) {
	filter, err := buildAuditFilter(q)
	if err != nil {
		return nil, err
	}
	page := model.NewPageRequest(q.Page, q.Limit)

	logs, total, err := s.repo.FindAll(ctx, filter, page)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	items := make([]model.AuditLogResponse, 0, len(logs))
	for i := range logs {
		items = append(items, logs[i].ToResponse())
	}
	return &AuditLogListResult{Items: items, Pagination: page.Paginate(total)}, nil
}

func (s *auditLogService) GetByID(ctx context.Context, id string) (*model.AuditLogResponse, error) {
	logID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.NotFound(MsgAuditLogNotFound)
	}
	log, err := s.repo.FindByID(ctx, logID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound(MsgAuditLogNotFound)
		}
		return nil, apperror.Internal(err)
	}
	resp := log.ToResponse()
	return &resp, nil
}

func buildAuditFilter(q AuditLogQuery) (repository.AuditLogFilter, error) {
	filter := repository.AuditLogFilter{
		Action:    strings.ToUpper(strings.TrimSpace(q.Action)),
		Entity:    strings.TrimSpace(q.Entity),
		UserAgent: strings.TrimSpace(q.UserAgent),
		Search:    strings.TrimSpace(q.Search),
	}

	var fields []apperror.FieldError

	if userID := strings.TrimSpace(q.UserID); userID != "" {
		if userID == model.SystemActor {
			filter.UserID = model.SystemActor
		} else if parsed, err := uuid.Parse(userID); err == nil {
			filter.UserID = parsed.String()
		} else {
			fields = append(fields, apperror.FieldError{Field: "user_id", Message: "user_id must be a UUID or \"system\""})
		}
	}

	if q.StartDate != "" {
		from, _, err := parseDate(q.StartDate)
		if err != nil {
			fields = append(fields, apperror.FieldError{Field: "start_date", Message: "start_date must be RFC3339 or YYYY-MM-DD"})
		} else {
			filter.From = &from
		}
	}
	if q.EndDate != "" {
		to, wholeDay, err := parseDate(q.EndDate)
		if err != nil {
			fields = append(fields, apperror.FieldError{Field: "end_date", Message: "end_date must be RFC3339 or YYYY-MM-DD"})
		} else {
			if wholeDay {
				to = to.Add(24*time.Hour - time.Nanosecond)
			}
			filter.To = &to
		}
	}

	if len(fields) > 0 {
		return filter, apperror.Validation("Validation failed", fields...)
	}
	return filter, nil
}

// parseDate accepts RFC3339 or a bare date, returned in UTC.
func parseDate(s string) (time.Time, bool, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), false, nil
	}
	t, err := time.Parse(dateOnly, s)
	if err != nil {
		return time.Time{}, false, err
	}
	return t.UTC(), true, nil
}
