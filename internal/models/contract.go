package models

import (
	"fmt"
	"time"
)

// LeaseContract is the binding agreement materialized from a confirmed
// lease request. Created in draft by a manager, activated by the client's
// signature.
type LeaseContract struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	ContractNumber  string     `gorm:"uniqueIndex;not null" json:"contract_number"`
	CompanyID       uint       `gorm:"not null;index" json:"company_id"`
	EquipmentID     uint       `gorm:"not null;index" json:"equipment_id"`
	StartDate       time.Time  `gorm:"type:date;not null" json:"start_date"`
	EndDate         time.Time  `gorm:"type:date;not null" json:"end_date"`
	LeaseTermMonths int        `gorm:"not null" json:"lease_term_months"`
	TotalAmount     float64    `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	AdvancePayment  float64    `gorm:"type:decimal(12,2);default:0" json:"advance_payment"`
	MonthlyPayment  float64    `gorm:"type:decimal(10,2);not null" json:"monthly_payment"`
	PaymentDay      int        `gorm:"default:1" json:"payment_day"`
	Status          string     `gorm:"default:draft;index" json:"status"`
	SignedAt        *time.Time `json:"signed_at"`
	SignedByID      *uint      `gorm:"index" json:"signed_by_id"`
	CreatedByID     *uint      `gorm:"index" json:"created_by_id"`
	LeaseRequestID  *uint      `gorm:"uniqueIndex" json:"lease_request_id"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Associations
	Company      Company           `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Equipment    Equipment         `gorm:"foreignKey:EquipmentID" json:"equipment,omitempty"`
	SignedBy     *Account          `gorm:"foreignKey:SignedByID" json:"signed_by,omitempty"`
	CreatedBy    *Account          `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	LeaseRequest *LeaseRequest     `gorm:"foreignKey:LeaseRequestID" json:"lease_request,omitempty"`
	Payments     []PaymentSchedule `gorm:"foreignKey:ContractID" json:"payments,omitempty"`
}

// TableName specifies the table name for LeaseContract
func (LeaseContract) TableName() string {
	return "lease_contracts"
}

// Contract status constants
const (
	ContractStatusDraft      = "draft"
	ContractStatusActive     = "active"
	ContractStatusCompleted  = "completed"
	ContractStatusTerminated = "terminated"
)

// ContractNumberPrefix returns the number prefix for a given year,
// e.g. "LG-2026-".
func ContractNumberPrefix(year int) string {
	return fmt.Sprintf("LG-%d-", year)
}

// FormatContractNumber builds a contract number from year and sequence,
// e.g. "LG-2026-001".
func FormatContractNumber(year, seq int) string {
	return fmt.Sprintf("%s%03d", ContractNumberPrefix(year), seq)
}

// AddMonths shifts a date by the given number of months, clamping the day
// to the last day of the target month (2026-01-31 + 1 month = 2026-02-28).
func AddMonths(d time.Time, months int) time.Time {
	y, m, day := d.Date()
	m += time.Month(months)
	first := time.Date(y, m, 1, 0, 0, 0, 0, d.Location())
	last := first.AddDate(0, 1, -1).Day()
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, d.Location())
}

// MaySign returns true if the contract can be signed by the client
func (c *LeaseContract) MaySign() bool {
	return c.Status == ContractStatusDraft && c.SignedAt == nil
}

// MayComplete returns true if the contract can be completed
func (c *LeaseContract) MayComplete() bool {
	return c.Status == ContractStatusActive
}

// MayTerminate returns true if the contract can be terminated
func (c *LeaseContract) MayTerminate() bool {
	return c.Status == ContractStatusActive
}

// IsSigned returns true once the client signature has been recorded
func (c *LeaseContract) IsSigned() bool {
	return c.SignedAt != nil
}

// ComputeEndDate derives the end date from start date and term
func (c *LeaseContract) ComputeEndDate() time.Time {
	return AddMonths(c.StartDate, c.LeaseTermMonths)
}

// ComputeTotalAmount derives the total from advance and installments
func (c *LeaseContract) ComputeTotalAmount() float64 {
	return c.AdvancePayment + c.MonthlyPayment*float64(c.LeaseTermMonths)
}

// IsOwnedBy returns true if the contract's company is linked to the
// given account.
func (c *LeaseContract) IsOwnedBy(accountID uint) bool {
	return c.Company.IsOwnedBy(accountID)
}

// LeaseContractResponse is the JSON response format for contracts
type LeaseContractResponse struct {
	ID              uint                      `json:"id"`
	ContractNumber  string                    `json:"contract_number"`
	CompanyID       uint                      `json:"company_id"`
	CompanyName     string                    `json:"company_name,omitempty"`
	EquipmentID     uint                      `json:"equipment_id"`
	EquipmentName   string                    `json:"equipment_name,omitempty"`
	EquipmentModel  string                    `json:"equipment_model,omitempty"`
	StartDate       time.Time                 `json:"start_date"`
	EndDate         time.Time                 `json:"end_date"`
	LeaseTermMonths int                       `json:"lease_term_months"`
	TotalAmount     float64                   `json:"total_amount"`
	AdvancePayment  float64                   `json:"advance_payment"`
	MonthlyPayment  float64                   `json:"monthly_payment"`
	PaymentDay      int                       `json:"payment_day"`
	Status          string                    `json:"status"`
	SignedAt        *time.Time                `json:"signed_at"`
	SignedBy        string                    `json:"signed_by,omitempty"`
	CreatedBy       string                    `json:"created_by,omitempty"`
	LeaseRequestID  *uint                     `json:"lease_request_id,omitempty"`
	CreatedAt       time.Time                 `json:"created_at"`
	PaymentSchedule []PaymentScheduleResponse `json:"payment_schedule,omitempty"`
}

// ToResponse converts LeaseContract to LeaseContractResponse
func (c *LeaseContract) ToResponse() LeaseContractResponse {
	resp := LeaseContractResponse{
		ID:              c.ID,
		ContractNumber:  c.ContractNumber,
		CompanyID:       c.CompanyID,
		EquipmentID:     c.EquipmentID,
		StartDate:       c.StartDate,
		EndDate:         c.EndDate,
		LeaseTermMonths: c.LeaseTermMonths,
		TotalAmount:     c.TotalAmount,
		AdvancePayment:  c.AdvancePayment,
		MonthlyPayment:  c.MonthlyPayment,
		PaymentDay:      c.PaymentDay,
		Status:          c.Status,
		SignedAt:        c.SignedAt,
		LeaseRequestID:  c.LeaseRequestID,
		CreatedAt:       c.CreatedAt,
	}
	if c.Company.ID != 0 {
		resp.CompanyName = c.Company.Name
	}
	if c.Equipment.ID != 0 {
		resp.EquipmentName = c.Equipment.Name
		resp.EquipmentModel = c.Equipment.Model
	}
	if c.SignedBy != nil {
		resp.SignedBy = c.SignedBy.DisplayName()
	}
	if c.CreatedBy != nil {
		resp.CreatedBy = c.CreatedBy.DisplayName()
	}
	for _, p := range c.Payments {
		resp.PaymentSchedule = append(resp.PaymentSchedule, p.ToResponse())
	}
	return resp
}
