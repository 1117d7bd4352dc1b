package middleware

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"go-cdms-inventory/internal/apperror"
	"go-cdms-inventory/internal/metrics"
	"go-cdms-inventory/internal/model"
	"go-cdms-inventory/internal/response"
	"go-cdms-inventory/internal/service"
)

// SnapshotFunc loads the persisted state of an entity by id.
type SnapshotFunc func(ctx context.Context, id string) (interface{}, error)

// AuditInterceptor records one audit entry for every successful call of a
// wrapped handler. Audit failures are logged and never reach the client.
type AuditInterceptor struct {
	recorder service.AuditRecorder
	metrics  *metrics.Metrics
	log      *logrus.Logger
}

func NewAuditInterceptor(recorder service.AuditRecorder, m *metrics.Metrics, log *logrus.Logger) *AuditInterceptor {
	return &AuditInterceptor{recorder: recorder, metrics: m, log: log}
}

// ActionForMethod maps an HTTP method to the audited action kind.
func ActionForMethod(method string) model.AuditAction {
	switch method {
	case fiber.MethodPost:
		return model.ActionCreate
	case fiber.MethodPut, fiber.MethodPatch:
		return model.ActionUpdate
	case fiber.MethodDelete:
		return model.ActionDelete
	default:
		return model.ActionRead
	}
}

// Wrap returns a handler that behaves exactly like h towards the client and,
// when h reports success, persists an audit record for entity. snapshot may be
// nil when the entity has no pre-state to capture.
func (a *AuditInterceptor) Wrap(entity string, snapshot SnapshotFunc, h response.HandlerFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		action := ActionForMethod(c.Method())
		pathID := c.Params("id")

		var before datatypes.JSON
		if snapshot != nil && pathID != "" && (action == model.ActionUpdate || action == model.ActionDelete) {
			before = a.prefetch(c.UserContext(), entity, pathID, snapshot)
		}

		res, err := h(c)
		if err != nil {
			return err
		}
		if err := response.Send(c, res); err != nil {
			return err
		}
		if !res.Succeeded() {
			return nil
		}

		entry := &model.AuditLog{
			Action:    action,
			Entity:    entity,
			IPAddress: c.IP(),
			UserAgent: c.Get(fiber.HeaderUserAgent),
		}
		if user := CurrentUser(c); user != nil {
			id := user.ID
			entry.UserID = &id
		}

		after, afterErr := encodeSnapshot(res.Body.Data)
		if afterErr != nil {
			a.log.WithError(afterErr).WithField("entity", entity).Warn("audit: encode response data")
		}
		entry.EntityID = pathID
		if entry.EntityID == "" {
			entry.EntityID = entityIDFrom(after)
		}
		if action == model.ActionUpdate {
			entry.Before = before
		}
		if action != model.ActionDelete {
			entry.After = after
		}

		a.record(c.UserContext(), entry)
		return nil
	}
}

func (a *AuditInterceptor) prefetch(ctx context.Context, entity, id string, snapshot SnapshotFunc) datatypes.JSON {
	state, err := snapshot(ctx, id)
	if err != nil {
		fields := logrus.Fields{"entity": entity, "entity_id": id}
		if apperror.Is(err, apperror.KindNotFound) {
			a.log.WithFields(fields).Debug("audit: no prior state")
			return nil
		}
		a.metrics.AuditFailed(entity, metrics.StagePrefetch)
		a.log.WithError(err).WithFields(fields).Warn("audit: prefetch failed")
		return nil
	}

	raw, err := encodeSnapshot(state)
	if err != nil {
		a.log.WithError(err).WithField("entity", entity).Warn("audit: encode prior state")
		return nil
	}
	return raw
}

func (a *AuditInterceptor) record(ctx context.Context, entry *model.AuditLog) {
	defer func() {
		if r := recover(); r != nil {
			a.metrics.AuditFailed(entry.Entity, metrics.StageWrite)
			a.log.WithField("panic", r).WithField("entity", entry.Entity).Error("audit: recorder panicked")
		}
	}()

	if err := a.recorder.Record(ctx, entry); err != nil {
		a.log.WithError(err).WithFields(logrus.Fields{
			"entity":    entry.Entity,
			"entity_id": entry.EntityID,
			"action":    entry.Action,
		}).Warn("audit: failed to record")
	}
}

func encodeSnapshot(v interface{}) (datatypes.JSON, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(raw) == "null" {
		return nil, nil
	}
	return datatypes.JSON(raw), nil
}

// entityIDFrom reads the "id" field of a JSON object, or returns "".
func entityIDFrom(raw datatypes.JSON) string {
	if len(raw) == 0 {
		return ""
	}
	var payload struct {
		ID interface{} `json:"id"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil || payload.ID == nil {
		return ""
	}
	if s, ok := payload.ID.(string); ok {
		return s
	}
	return fmt.Sprint(payload.ID)
}
