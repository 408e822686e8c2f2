package repository

import (
	"context"

	"github.com/leasegrow/leasegrow-api/internal/models"
	"gorm.io/gorm"
)

// ChatRepository defines the interface for chat message data access.
// Lease request threads and maintenance threads are stored separately
// but share the same access patterns.
type ChatRepository interface {
	CreateRequestMessage(ctx context.Context, message *models.ChatMessage) error
	FindRequestMessages(ctx context.Context, leaseRequestID uint, afterID uint) ([]models.ChatMessage, error)
	CreateMaintenanceMessage(ctx context.Context, message *models.MaintenanceChatMessage) error
	FindMaintenanceMessages(ctx context.Context, maintenanceRequestID uint, afterID uint) ([]models.MaintenanceChatMessage, error)
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) CreateRequestMessage(ctx context.Context, message *models.ChatMessage) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return err
	}
	// Reload the sender so the caller can build a response without a
	// second round-trip.
	return r.db.WithContext(ctx).
		Preload("Sender").
		First(message, message.ID).Error
}

func (r *chatRepository) FindRequestMessages(ctx context.Context, leaseRequestID uint, afterID uint) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	db := r.db.WithContext(ctx).
		Where("lease_request_id = ?", leaseRequestID)
	if afterID > 0 {
		db = db.Where("id > ?", afterID)
	}
	err := db.
		Preload("Sender").
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

func (r *chatRepository) CreateMaintenanceMessage(ctx context.Context, message *models.MaintenanceChatMessage) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Preload("Sender").
		First(message, message.ID).Error
}

func (r *chatRepository) FindMaintenanceMessages(ctx context.Context, maintenanceRequestID uint, afterID uint) ([]models.MaintenanceChatMessage, error) {
	var messages []models.MaintenanceChatMessage
	db := r.db.WithContext(ctx).
		Where("maintenance_request_id = ?", maintenanceRequestID)
	if afterID > 0 {
		db = db.Where("id > ?", afterID)
	}
	err := db.
		Preload("Sender").
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}
