package models

import (
	"time"
)

// ChatMessage is a message in the thread attached to a lease request.
// Delivery to connected participants goes through the events hub; the
// row is the durable record.
type ChatMessage struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	LeaseRequestID uint      `gorm:"not null;index" json:"lease_request_id"`
	SenderID       uint      `gorm:"not null;index" json:"sender_id"`
	Text           string    `gorm:"type:text;not null" json:"text"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`

	// Associations
	Sender Account `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}

// TableName specifies the table name for ChatMessage
func (ChatMessage) TableName() string {
	return "chat_messages"
}

// MaintenanceChatMessage is a message in a maintenance request thread.
type MaintenanceChatMessage struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	MaintenanceRequestID uint      `gorm:"not null;index" json:"maintenance_request_id"`
	SenderID             uint      `gorm:"not null;index" json:"sender_id"`
	Text                 string    `gorm:"type:text;not null" json:"text"`
	CreatedAt            time.Time `gorm:"index" json:"created_at"`

	// Associations
	Sender Account `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}

// TableName specifies the table name for MaintenanceChatMessage
func (MaintenanceChatMessage) TableName() string {
	return "maintenance_chat_messages"
}

// ChatMessageResponse is the JSON response format for chat messages
type ChatMessageResponse struct {
	ID         uint      `json:"id"`
	SenderID   uint      `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToResponse converts ChatMessage to ChatMessageResponse
func (m *ChatMessage) ToResponse() ChatMessageResponse {
	return ChatMessageResponse{
		ID:         m.ID,
		SenderID:   m.SenderID,
		SenderName: m.Sender.DisplayName(),
		Text:       m.Text,
		CreatedAt:  m.CreatedAt,
	}
}

// ToResponse converts MaintenanceChatMessage to ChatMessageResponse
func (m *MaintenanceChatMessage) ToResponse() ChatMessageResponse {
	return ChatMessageResponse{
		ID:         m.ID,
		SenderID:   m.SenderID,
		SenderName: m.Sender.DisplayName(),
		Text:       m.Text,
		CreatedAt:  m.CreatedAt,
	}
}
