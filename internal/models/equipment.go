package models

import (
	"time"
)

// Equipment is a unit from the catalog registry. The leasing core reads
// availability and pricing but never changes equipment status; occupancy
// is inferred from requests and contracts.
type Equipment struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"not null" json:"name"`
	Model            string    `json:"model"`
	SerialNumber     string    `gorm:"index" json:"serial_number"`
	Status           string    `gorm:"default:available;index" json:"status"`
	Price            *float64  `gorm:"type:decimal(12,2)" json:"price"`
	MonthlyLeaseRate *float64  `gorm:"type:decimal(10,2)" json:"monthly_lease_rate"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName specifies the table name for Equipment
func (Equipment) TableName() string {
	return "equipment"
}

// Equipment status constants
const (
	EquipmentStatusAvailable   = "available"
	EquipmentStatusLeased      = "leased"
	EquipmentStatusMaintenance = "maintenance"
	EquipmentStatusRetired     = "retired"
)

// IsAvailable returns true if the equipment can receive lease requests
func (e *Equipment) IsAvailable() bool {
	return e.Status == EquipmentStatusAvailable
}

// MinimumMonthlyPayment returns the floor for a contract's monthly
// payment, 0 when no rate is configured.
func (e *Equipment) MinimumMonthlyPayment() float64 {
	if e.MonthlyLeaseRate != nil {
		return *e.MonthlyLeaseRate
	}
	return 0
}
