package models

import (
	"time"
)

// Notification represents an in-app notification for an account
type Notification struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	AccountID        uint       `gorm:"not null;index" json:"account_id"`
	Title            string     `gorm:"not null" json:"title"`
	Message          string     `gorm:"not null" json:"message"`
	NotificationType *string    `gorm:"index" json:"notification_type"`
	ReadAt           *time.Time `gorm:"index" json:"read_at"`
	CreatedAt        time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Associations
	Account Account `gorm:"foreignKey:AccountID" json:"-"`
}

// TableName specifies the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}

// Notification type constants
const (
	NotificationTypeRequestConfirmed     = "lease_request_confirmed"
	NotificationTypeRequestRejected      = "lease_request_rejected"
	NotificationTypeRequestCancelled     = "lease_request_cancelled"
	NotificationTypeRequestCreated       = "lease_request_created"
	NotificationTypeContractIssued       = "contract_issued"
	NotificationTypeContractSigned       = "contract_signed"
	NotificationTypeContractClosed       = "contract_closed"
	NotificationTypePaymentRecorded      = "payment_recorded"
	NotificationTypePaymentOverdue       = "payment_overdue"
	NotificationTypeMaintenanceCreated   = "maintenance_created"
	NotificationTypeMaintenanceUpdated   = "maintenance_updated"
	NotificationTypeMaintenanceCancelled = "maintenance_cancelled"
)

// IsRead returns true if notification has been read
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}

// MarkAsRead marks the notification as read
func (n *Notification) MarkAsRead() {
	now := time.Now()
	n.ReadAt = &now
}

// NotificationResponse is the JSON response format
type NotificationResponse struct {
	ID               uint       `json:"id"`
	Title            string     `json:"title"`
	Message          string     `json:"message"`
	NotificationType *string    `json:"notification_type"`
	Read             bool       `json:"read"`
	ReadAt           *time.Time `json:"read_at"`
	CreatedAt        time.Time  `json:"created_at"`
}

// ToResponse converts Notification to NotificationResponse
func (n *Notification) ToResponse() NotificationResponse {
	return NotificationResponse{
		ID:               n.ID,
		Title:            n.Title,
		Message:          n.Message,
		NotificationType: n.NotificationType,
		Read:             n.IsRead(),
		ReadAt:           n.ReadAt,
		CreatedAt:        n.CreatedAt,
	}
}
