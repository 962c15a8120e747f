package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthAction names the account operation an AuthEvent records.
type AuthAction string

const (
	AuthActionSignup AuthAction = "signup"
	AuthActionLogin  AuthAction = "login"
	AuthActionLogout AuthAction = "logout"
	AuthActionDelete AuthAction = "delete"
)

// AuthOutcome is the result of the recorded operation.
type AuthOutcome string

const (
	AuthOutcomeSuccess AuthOutcome = "success"
	AuthOutcomeFailure AuthOutcome = "failure"
)

// AuthEvent is an append-only audit entry for signup, login, logout and
// account deletion. It never carries passwords, hashes or tokens.
type AuthEvent struct {
	ID        uuid.UUID   `json:"id" gorm:"type:char(36);primaryKey"`
	Email     string      `json:"email" gorm:"size:255;not null;index"`
	Action    AuthAction  `json:"action" gorm:"type:varchar(20);not null;index"`
	Outcome   AuthOutcome `json:"outcome" gorm:"type:varchar(20);not null"`
	Reason    string      `json:"reason,omitempty" gorm:"size:64"`
	RemoteIP  string      `json:"remote_ip,omitempty" gorm:"size:64"`
	RequestID string      `json:"request_id,omitempty" gorm:"size:64"`
	CreatedAt time.Time   `json:"created_at" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (e *AuthEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
