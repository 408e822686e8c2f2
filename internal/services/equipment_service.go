package services

import (
	"context"
	"errors"

	"github.com/leasegrow/leasegrow-api/internal/models"
	"github.com/leasegrow/leasegrow-api/internal/repository"
	"gorm.io/gorm"
)

// EquipmentService exposes the read-only equipment registry
type EquipmentService struct {
	repo repository.EquipmentRepository
}

func NewEquipmentService(repo repository.EquipmentRepository) *EquipmentService {
	return &EquipmentService{repo: repo}
}

func (s *EquipmentService) FindByID(ctx context.Context, id uint) (*models.Equipment, error) {
	equipment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return equipment, nil
}

func (s *EquipmentService) ListAvailable(ctx context.Context) ([]models.Equipment, error) {
	return s.repo.ListAvailable(ctx)
}
