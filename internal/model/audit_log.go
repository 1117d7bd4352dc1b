package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AuditAction string

const (
	ActionCreate   AuditAction = "CREATE"
	ActionRead     AuditAction = "READ"
	ActionUpdate   AuditAction = "UPDATE"
	ActionDelete   AuditAction = "DELETE"
	ActionRegister AuditAction = "REGISTER"
	ActionLogin    AuditAction = "LOGIN"
)

const (
	// SystemActor stands in for the actor when no identity is authenticated.
	SystemActor = "system"

	EntityUser = "USER"
	EntityAuth = "AUTH"
)

// AuditLog is written once and never updated or deleted. A nil UserID means the
// action was performed by the system. Deleting a user leaves its audit history
// in place (ON DELETE NO ACTION).
type AuditLog struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey"`
	UserID    *uuid.UUID  `gorm:"type:uuid;index"`
	User      *User       `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:NO ACTION"`
	Action    AuditAction `gorm:"type:varchar(20);not null;index"`
	Entity    string      `gorm:"type:varchar(100);not null;index:idx_audit_entity"`
	EntityID  string      `gorm:"type:varchar(100);not null;default:'';index:idx_audit_entity"`
	Before    datatypes.JSON
	After     datatypes.JSON
	IPAddress string    `gorm:"type:varchar(64)"`
	UserAgent string    `gorm:"type:varchar(512);index"`
	Timestamp time.Time `gorm:"not null;index"`
}

func (AuditLog) TableName() string {
	return "tbl_audit_log"
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now().UTC()
	}
	return nil
}

// BeforeUpdate keeps persisted audit records immutable.
func (a *AuditLog) BeforeUpdate(tx *gorm.DB) error {
	return ErrAuditImmutable
}

// BeforeDelete keeps persisted audit records immutable.
func (a *AuditLog) BeforeDelete(tx *gorm.DB) error {
	return ErrAuditImmutable
}

// Actor returns the user id as text, or SystemActor.
func (a *AuditLog) Actor() string {
	if a.UserID == nil {
		return SystemActor
	}
	return a.UserID.String()
}

// AuditLogResponse is the read model returned by the audit log endpoints.
type AuditLogResponse struct {
	ID        uuid.UUID      `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	UserID    string         `json:"user_id"`
	Action    AuditAction    `json:"action"`
	Entity    string         `json:"entity"`
	EntityID  string         `json:"entity_id"`
	Before    datatypes.JSON `json:"before"`
	After     datatypes.JSON `json:"after"`
	IPAddress string         `json:"ip_address"`
	UserAgent string         `json:"user_agent"`
	User      *UserSummary   `json:"user"`
}

func (a *AuditLog) ToResponse() AuditLogResponse {
	resp := AuditLogResponse{
		ID:        a.ID,
		Timestamp: a.Timestamp,
		UserID:    a.Actor(),
		Action:    a.Action,
		Entity:    a.Entity,
		EntityID:  a.EntityID,
		Before:    a.Before,
		After:     a.After,
		IPAddress: a.IPAddress,
		UserAgent: a.UserAgent,
	}
	if a.User != nil {
		resp.User = &UserSummary{Username: a.User.Username, Email: a.User.Email, Role: a.User.Role}
	}
	return resp
}
