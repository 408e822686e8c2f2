package models

import (
	"time"
)

// LeaseRequest is a client's non-binding expression of interest in a unit
// of equipment. Managers confirm or reject it; the owning client may
// cancel it while no contract exists.
type LeaseRequest struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	EquipmentID   uint      `gorm:"not null;index" json:"equipment_id"`
	AccountID     uint      `gorm:"not null;index" json:"account_id"`
	Status        string    `gorm:"default:pending;index" json:"status"`
	Message       string    `gorm:"type:text" json:"message"`
	ManagerNotes  string    `gorm:"type:text" json:"manager_notes"`
	ConfirmedByID *uint     `gorm:"index" json:"confirmed_by_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Associations
	Equipment   Equipment      `gorm:"foreignKey:EquipmentID" json:"equipment,omitempty"`
	Account     Account        `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	ConfirmedBy *Account       `gorm:"foreignKey:ConfirmedByID" json:"confirmed_by,omitempty"`
	Contract    *LeaseContract `gorm:"foreignKey:LeaseRequestID" json:"contract,omitempty"`
	Messages    []ChatMessage  `gorm:"foreignKey:LeaseRequestID" json:"messages,omitempty"`
}

// TableName specifies the table name for LeaseRequest
func (LeaseRequest) TableName() string {
	return "lease_requests"
}

// Lease request status constants
const (
	LeaseRequestStatusPending   = "pending"
	LeaseRequestStatusConfirmed = "confirmed"
	LeaseRequestStatusRejected  = "rejected"
	LeaseRequestStatusCancelled = "cancelled"
)

// MayConfirm returns true if the request can be confirmed
func (r *LeaseRequest) MayConfirm() bool {
	return r.Status == LeaseRequestStatusPending
}

// MayReject returns true if the request can be rejected
func (r *LeaseRequest) MayReject() bool {
	return r.Status == LeaseRequestStatusPending
}

// MayCancel returns true if the owning client can cancel the request.
// Contract existence is checked separately against storage.
func (r *LeaseRequest) MayCancel() bool {
	return r.Status == LeaseRequestStatusPending || r.Status == LeaseRequestStatusConfirmed
}

// IsOwnedBy returns true if the request belongs to the given account
func (r *LeaseRequest) IsOwnedBy(accountID uint) bool {
	return r.AccountID == accountID
}

// LeaseRequestResponse is the JSON response format for lease requests
type LeaseRequestResponse struct {
	ID             uint      `json:"id"`
	EquipmentID    uint      `json:"equipment_id"`
	EquipmentName  string    `json:"equipment_name,omitempty"`
	EquipmentModel string    `json:"equipment_model,omitempty"`
	AccountID      uint      `json:"account_id"`
	AccountName    string    `json:"account_name,omitempty"`
	Status         string    `json:"status"`
	Message        string    `json:"message"`
	ManagerNotes   string    `json:"manager_notes"`
	ConfirmedBy    string    `json:"confirmed_by,omitempty"`
	ContractID     *uint     `json:"contract_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ToResponse converts LeaseRequest to LeaseRequestResponse
func (r *LeaseRequest) ToResponse() LeaseRequestResponse {
	resp := LeaseRequestResponse{
		ID:           r.ID,
		EquipmentID:  r.EquipmentID,
		AccountID:    r.AccountID,
		Status:       r.Status,
		Message:      r.Message,
		ManagerNotes: r.ManagerNotes,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.Equipment.ID != 0 {
		resp.EquipmentName = r.Equipment.Name
		resp.EquipmentModel = r.Equipment.Model
	}
	if r.Account.ID != 0 {
		resp.AccountName = r.Account.DisplayName()
	}
	if r.ConfirmedBy != nil {
		resp.ConfirmedBy = r.ConfirmedBy.DisplayName()
	}
	if r.Contract != nil && r.Contract.ID != 0 {
		resp.ContractID = &r.Contract.ID
	}
	return resp
}
