package models

import (
	"time"
)

// PaymentSchedule is one installment obligation under a lease contract.
// Entries are generated in bulk when the contract is signed; ad-hoc
// entries are appended when a payment arrives outside the schedule.
type PaymentSchedule struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	ContractID    uint       `gorm:"not null;index;uniqueIndex:idx_contract_payment_number" json:"contract_id"`
	PaymentNumber int        `gorm:"not null;uniqueIndex:idx_contract_payment_number" json:"payment_number"`
	DueDate       time.Time  `gorm:"type:date;not null;index" json:"due_date"`
	Amount        float64    `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status        string     `gorm:"default:pending;not null;index" json:"status"`
	PaidAt        *time.Time `json:"paid_at"`
	PenaltyAmount float64    `gorm:"type:decimal(10,2);default:0" json:"penalty_amount"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Associations
	Contract LeaseContract `gorm:"foreignKey:ContractID" json:"contract,omitempty"`
}

// TableName specifies the table name for PaymentSchedule
func (PaymentSchedule) TableName() string {
	return "payment_schedule"
}

// Payment status constants
const (
	PaymentStatusPending   = "pending"
	PaymentStatusPaid      = "paid"
	PaymentStatusOverdue   = "overdue"
	PaymentStatusCancelled = "cancelled"
)

// MayPay returns true if the entry can be marked paid
func (p *PaymentSchedule) MayPay() bool {
	return p.Status == PaymentStatusPending || p.Status == PaymentStatusOverdue
}

// IsOverdue returns true if the entry is unpaid and past its due date.
// Overdue state is derived at read time; a periodic sweep also persists
// it so filters and statistics see the same value.
func (p *PaymentSchedule) IsOverdue() bool {
	if p.Status == PaymentStatusOverdue {
		return true
	}
	return p.Status == PaymentStatusPending && time.Now().After(p.DueDate)
}

// EffectiveStatus returns the status with overdue derivation applied
func (p *PaymentSchedule) EffectiveStatus() string {
	if p.Status == PaymentStatusPending && p.IsOverdue() {
		return PaymentStatusOverdue
	}
	return p.Status
}

// OverdueDays returns the number of days past due, 0 when not overdue
func (p *PaymentSchedule) OverdueDays() int {
	if !p.IsOverdue() {
		return 0
	}
	return int(time.Since(p.DueDate).Hours() / 24)
}

// PaymentScheduleResponse is the JSON response format for schedule entries
type PaymentScheduleResponse struct {
	ID            uint       `json:"id"`
	ContractID    uint       `json:"contract_id"`
	PaymentNumber int        `json:"payment_number"`
	DueDate       time.Time  `json:"due_date"`
	Amount        float64    `json:"amount"`
	Status        string     `json:"status"`
	OverdueDays   int        `json:"overdue_days"`
	PaidAt        *time.Time `json:"paid_at"`
	PenaltyAmount float64    `json:"penalty_amount"`
}

// ToResponse converts PaymentSchedule to PaymentScheduleResponse
func (p *PaymentSchedule) ToResponse() PaymentScheduleResponse {
	return PaymentScheduleResponse{
		ID:            p.ID,
		ContractID:    p.ContractID,
		PaymentNumber: p.PaymentNumber,
		DueDate:       p.DueDate,
		Amount:        p.Amount,
		Status:        p.EffectiveStatus(),
		OverdueDays:   p.OverdueDays(),
		PaidAt:        p.PaidAt,
		PenaltyAmount: p.PenaltyAmount,
	}
}
