package models

import (
	"time"
)

// Account represents an authenticated identity resolved by the identity
// provider. The core only relies on id and role; profile fields are kept
// for display purposes.
type Account struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex" json:"email"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Role      string    `gorm:"default:client;index" json:"role"`
	Status    string    `gorm:"default:active" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Account
func (Account) TableName() string {
	return "accounts"
}

// Role constants
const (
	RoleClient  = "client"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

// Account status constants
const (
	AccountStatusActive   = "active"
	AccountStatusInactive = "inactive"
)

// IsManager returns true if account has manager role
func (a *Account) IsManager() bool {
	return a.Role == RoleManager
}

// IsAdmin returns true if account has admin role
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// IsPrivileged returns true for manager and admin roles
func (a *Account) IsPrivileged() bool {
	return a.Role == RoleManager || a.Role == RoleAdmin
}

// CanConfirmRequests reports whether the account may confirm or reject
// lease requests.
func (a *Account) CanConfirmRequests() bool {
	return a.IsPrivileged()
}

// CanIssueContracts reports whether the account may issue lease contracts
// from confirmed requests.
func (a *Account) CanIssueContracts() bool {
	return a.IsPrivileged()
}

// CanManageMaintenance reports whether the account may transition
// maintenance requests.
func (a *Account) CanManageMaintenance() bool {
	return a.IsPrivileged()
}

// DisplayName returns the full name when set, the username otherwise.
func (a *Account) DisplayName() string {
	if a.FullName != "" {
		return a.FullName
	}
	return a.Username
}
