package repository

import (
	"context"

	"github.com/leasegrow/leasegrow-api/internal/models"
	"gorm.io/gorm"
)

// MaintenanceRepository defines the interface for maintenance data access
type MaintenanceRepository interface {
	FindByID(ctx context.Context, id uint) (*models.MaintenanceRequest, error)
	FindByIDWithDetails(ctx context.Context, id uint) (*models.MaintenanceRequest, error)
	Create(ctx context.Context, request *models.MaintenanceRequest) error
	// UpdateStatusIf flips the request status in a single conditional
	// UPDATE and reports whether the row was still in fromStatus.
	UpdateStatusIf(ctx context.Context, id uint, fromStatus, toStatus string, set map[string]interface{}) (bool, error)
	List(ctx context.Context, query *MaintenanceQuery) ([]models.MaintenanceRequest, int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)

	CreateLogEntry(ctx context.Context, entry *models.Maintenance) error
	FindLogByEquipment(ctx context.Context, equipmentID uint) ([]models.Maintenance, error)
}

// MaintenanceQuery extends ListQuery with maintenance-specific filters
type MaintenanceQuery struct {
	*ListQuery
	AccountID    uint
	IsPrivileged bool
	Status       string
	Urgency      string
	EquipmentID  uint
}

type maintenanceRepository struct {
	db *gorm.DB
}

// NewMaintenanceRepository creates a new maintenance repository
func NewMaintenanceRepository(db *gorm.DB) MaintenanceRepository {
	return &maintenanceRepository{db: db}
}

func (r *maintenanceRepository) FindByID(ctx context.Context, id uint) (*models.MaintenanceRequest, error) {
	var request models.MaintenanceRequest
	err := r.db.WithContext(ctx).Preload("Company").First(&request, id).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *maintenanceRepository) FindByIDWithDetails(ctx context.Context, id uint) (*models.MaintenanceRequest, error) {
	var request models.MaintenanceRequest
	err := r.db.WithContext(ctx).
		Joins("Equipment").
		Joins("Company").
		Joins("AssignedTo").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC").Preload("Sender")
		}).
		First(&request, id).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *maintenanceRepository) Create(ctx context.Context, request *models.MaintenanceRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *maintenanceRepository) UpdateStatusIf(ctx context.Context, id uint, fromStatus, toStatus string, set map[string]interface{}) (bool, error) {
	updates := map[string]interface{}{"status": toStatus}
	for k, v := range set {
		updates[k] = v
	}
	res := r.db.WithContext(ctx).
		Model(&models.MaintenanceRequest{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *maintenanceRepository) List(ctx context.Context, query *MaintenanceQuery) ([]models.MaintenanceRequest, int64, error) {
	var requests []models.MaintenanceRequest
	var total int64

	db := r.db.WithContext(ctx).Model(&models.MaintenanceRequest{})

	// Clients only see tickets of companies linked to their account
	if !query.IsPrivileged && query.AccountID > 0 {
		db = db.Joins("LEFT JOIN companies ON companies.id = maintenance_requests.company_id").
			Where("companies.account_id = ?", query.AccountID)
	}

	if query.Status != "" {
		db = db.Where("maintenance_requests.status = ?", query.Status)
	}
	if query.Urgency != "" {
		db = db.Where("maintenance_requests.urgency = ?", query.Urgency)
	}
	if query.EquipmentID > 0 {
		db = db.Where("maintenance_requests.equipment_id = ?", query.EquipmentID)
	}

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Joins("LEFT JOIN equipment ON equipment.id = maintenance_requests.equipment_id").
			Where("maintenance_requests.description ILIKE ? OR equipment.name ILIKE ?", search, search)
	}

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("maintenance_requests.created_at DESC")
	}

	err := db.
		Preload("Equipment").
		Preload("Company").
		Preload("AssignedTo").
		Offset(query.Offset()).
		Limit(query.Limit()).
		Find(&requests).Error
	if err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *maintenanceRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.MaintenanceRequest{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

func (r *maintenanceRepository) CreateLogEntry(ctx context.Context, entry *models.Maintenance) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *maintenanceRepository) FindLogByEquipment(ctx context.Context, equipmentID uint) ([]models.Maintenance, error) {
	var entries []models.Maintenance
	err := r.db.WithContext(ctx).
		Where("equipment_id = ?", equipmentID).
		Order("performed_at DESC").
		Find(&entries).Error
	return entries, err
}
