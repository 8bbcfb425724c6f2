package domain

import (
	"strings"
	"time"
)

// User is an operator account: admin, manager or agent.
type User struct {
	ID            int64
	NationalID    *string
	Name          string
	Email         string
	PasswordHash  string
	PrimaryRoleID int64
	Active        bool
	CreatedBy     *int64
	UpdatedBy     *int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NormalizeEmail case-folds an email address for storage and lookup.
// Uniqueness is enforced over the folded form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// DeletionMode reports how a user row was removed.
type DeletionMode string

const (
	DeletionHard DeletionMode = "hard"
	DeletionSoft DeletionMode = "soft"
)
