package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccountState represents the lifecycle state of a user account.
type AccountState string

const (
	StateActive   AccountState = "active"
	StateDisabled AccountState = "disabled"
)

// CanLogin reports whether authentication is permitted in this state.
func (s AccountState) CanLogin() bool {
	return s == StateActive
}

// CanTransitionTo reports whether the state change is allowed.
// Disablement is one-way: nothing leads out of StateDisabled.
func (s AccountState) CanTransitionTo(next AccountState) bool {
	return s == StateActive && next == StateDisabled
}

// Valid reports whether the value is a known account state.
func (s AccountState) Valid() bool {
	return s == StateActive || s == StateDisabled
}

// User represents a registered account. Disablement is a soft terminal
// state; rows are never deleted by this service.
type User struct {
	ID           uuid.UUID    `json:"id" gorm:"type:char(36);primaryKey"`
	Email        string       `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string       `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         string       `json:"role" gorm:"size:50;not null;default:'user'"`
	State        AccountState `json:"state" gorm:"type:varchar(20);not null;default:'active';index"`
	Nickname     string       `json:"nickname" gorm:"size:100"`
	Phone        string       `json:"phone,omitempty" gorm:"size:20"`
	Image        string       `json:"image,omitempty" gorm:"size:255"`
	Introduction string       `json:"introduction,omitempty" gorm:"type:text"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// BeforeCreate sets UUID and default state before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.State == "" {
		u.State = StateActive
	}
	return nil
}
