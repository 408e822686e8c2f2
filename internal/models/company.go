package models

import (
	"time"
)

// Company is the legal entity party to a lease contract. A company may be
// back-linked to the account that manages it; unlinked companies are
// attached to the requester when the first contract is issued.
type Company struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"not null" json:"name"`
	LegalName     string    `json:"legal_name"`
	INN           string    `gorm:"column:inn;uniqueIndex;not null" json:"inn"`
	KPP           string    `gorm:"column:kpp" json:"kpp"`
	OGRN          string    `gorm:"column:ogrn" json:"ogrn"`
	LegalAddress  string    `gorm:"type:text" json:"legal_address"`
	ActualAddress string    `gorm:"type:text" json:"actual_address"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	Status        string    `gorm:"default:active;index" json:"status"`
	AccountID     *uint     `gorm:"index" json:"account_id"`
	CreatedAt     time.Time `json:"created_at"`

	// Associations
	Account   *Account        `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Contracts []LeaseContract `gorm:"foreignKey:CompanyID" json:"contracts,omitempty"`
}

// TableName specifies the table name for Company
func (Company) TableName() string {
	return "companies"
}

// Company status constants
const (
	CompanyStatusActive  = "active"
	CompanyStatusBlocked = "blocked"
	CompanyStatusPending = "pending"
)

// IsOwnedBy returns true if the company is linked to the given account.
func (c *Company) IsOwnedBy(accountID uint) bool {
	return c.AccountID != nil && *c.AccountID == accountID
}
