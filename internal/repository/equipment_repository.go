package repository

import (
	"context"

	"github.com/leasegrow/leasegrow-api/internal/models"
	"gorm.io/gorm"
)

// EquipmentRepository is the read-only view over the equipment registry.
// The leasing core never writes equipment rows.
type EquipmentRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Equipment, error)
	ListAvailable(ctx context.Context) ([]models.Equipment, error)
	Count(ctx context.Context) (int64, error)
}

type equipmentRepository struct {
	db *gorm.DB
}

// NewEquipmentRepository creates a new equipment repository
func NewEquipmentRepository(db *gorm.DB) EquipmentRepository {
	return &equipmentRepository{db: db}
}

func (r *equipmentRepository) FindByID(ctx context.Context, id uint) (*models.Equipment, error) {
	var equipment models.Equipment
	err := r.db.WithContext(ctx).First(&equipment, id).Error
	if err != nil {
		return nil, err
	}
	return &equipment, nil
}

func (r *equipmentRepository) ListAvailable(ctx context.Context) ([]models.Equipment, error) {
	var equipment []models.Equipment
	err := r.db.WithContext(ctx).
		Where("status = ?", models.EquipmentStatusAvailable).
		Order("name ASC").
		Find(&equipment).Error
	return equipment, err
}

func (r *equipmentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Equipment{}).Count(&count).Error
	return count, err
}
