package models

import (
	"time"
)

// MaintenanceRequest is a service ticket raised by a client against
// contracted equipment, worked by a manager.
type MaintenanceRequest struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	EquipmentID  uint       `gorm:"not null;index" json:"equipment_id"`
	CompanyID    uint       `gorm:"not null;index" json:"company_id"`
	Description  string     `gorm:"type:text;not null" json:"description"`
	Urgency      string     `gorm:"default:normal" json:"urgency"`
	Status       string     `gorm:"default:new;index" json:"status"`
	AssignedToID *uint      `gorm:"index" json:"assigned_to_id"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at"`

	// Associations
	Equipment  Equipment                `gorm:"foreignKey:EquipmentID" json:"equipment,omitempty"`
	Company    Company                  `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	AssignedTo *Account                 `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	Messages   []MaintenanceChatMessage `gorm:"foreignKey:MaintenanceRequestID" json:"messages,omitempty"`
}

// TableName specifies the table name for MaintenanceRequest
func (MaintenanceRequest) TableName() string {
	return "maintenance_requests"
}

// Maintenance request status constants
const (
	MaintenanceStatusNew        = "new"
	MaintenanceStatusInProgress = "in_progress"
	MaintenanceStatusCompleted  = "completed"
	MaintenanceStatusCancelled  = "cancelled"
)

// Urgency constants
const (
	UrgencyLow      = "low"
	UrgencyNormal   = "normal"
	UrgencyHigh     = "high"
	UrgencyCritical = "critical"
)

// ValidUrgency reports whether the value belongs to the urgency enum
func ValidUrgency(u string) bool {
	switch u {
	case UrgencyLow, UrgencyNormal, UrgencyHigh, UrgencyCritical:
		return true
	}
	return false
}

// MayStart returns true if work on the request can begin
func (m *MaintenanceRequest) MayStart() bool {
	return m.Status == MaintenanceStatusNew
}

// MayComplete returns true if the request can be completed
func (m *MaintenanceRequest) MayComplete() bool {
	return m.Status == MaintenanceStatusInProgress
}

// MayCancel returns true if the request can be cancelled
func (m *MaintenanceRequest) MayCancel() bool {
	return m.Status == MaintenanceStatusNew || m.Status == MaintenanceStatusInProgress
}

// IsClosed returns true for cancelled requests; closed threads accept no
// further messages or transitions.
func (m *MaintenanceRequest) IsClosed() bool {
	return m.Status == MaintenanceStatusCancelled
}

// IsOwnedBy returns true if the request's company is linked to the account
func (m *MaintenanceRequest) IsOwnedBy(accountID uint) bool {
	return m.Company.IsOwnedBy(accountID)
}

// MaintenanceRequestResponse is the JSON response format
type MaintenanceRequestResponse struct {
	ID            uint       `json:"id"`
	EquipmentID   uint       `json:"equipment_id"`
	EquipmentName string     `json:"equipment_name,omitempty"`
	CompanyID     uint       `json:"company_id"`
	CompanyName   string     `json:"company_name,omitempty"`
	Description   string     `json:"description"`
	Urgency       string     `json:"urgency"`
	Status        string     `json:"status"`
	AssignedTo    string     `json:"assigned_to,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at"`
}

// ToResponse converts MaintenanceRequest to MaintenanceRequestResponse
func (m *MaintenanceRequest) ToResponse() MaintenanceRequestResponse {
	resp := MaintenanceRequestResponse{
		ID:          m.ID,
		EquipmentID: m.EquipmentID,
		CompanyID:   m.CompanyID,
		Description: m.Description,
		Urgency:     m.Urgency,
		Status:      m.Status,
		CreatedAt:   m.CreatedAt,
		CompletedAt: m.CompletedAt,
	}
	if m.Equipment.ID != 0 {
		resp.EquipmentName = m.Equipment.Name
	}
	if m.Company.ID != 0 {
		resp.CompanyName = m.Company.Name
	}
	if m.AssignedTo != nil {
		resp.AssignedTo = m.AssignedTo.DisplayName()
	}
	return resp
}

// Maintenance is a completed service log entry for a unit of equipment,
// written when a maintenance request is completed or recorded directly
// by a manager.
type Maintenance struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	EquipmentID         uint       `gorm:"not null;index" json:"equipment_id"`
	Type                string     `gorm:"not null" json:"type"`
	Description         string     `gorm:"type:text" json:"description"`
	Cost                *float64   `gorm:"type:decimal(10,2)" json:"cost"`
	PerformedAt         time.Time  `gorm:"type:date;not null" json:"performed_at"`
	NextMaintenanceDate *time.Time `gorm:"type:date" json:"next_maintenance_date"`
	ServiceCompany      string     `json:"service_company"`
	CreatedByID         *uint      `gorm:"index" json:"created_by_id"`
	CreatedAt           time.Time  `json:"created_at"`

	// Associations
	Equipment Equipment `gorm:"foreignKey:EquipmentID" json:"equipment,omitempty"`
	CreatedBy *Account  `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}

// TableName specifies the table name for Maintenance
func (Maintenance) TableName() string {
	return "maintenance"
}

// Maintenance type constants
const (
	MaintenanceTypeScheduled  = "scheduled"
	MaintenanceTypeRepair     = "repair"
	MaintenanceTypeInspection = "inspection"
)

// ValidMaintenanceType reports whether the value belongs to the type enum
func ValidMaintenanceType(t string) bool {
	switch t {
	case MaintenanceTypeScheduled, MaintenanceTypeRepair, MaintenanceTypeInspection:
		return true
	}
	return false
}
