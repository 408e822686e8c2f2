package repository

import (
	"context"

	"github.com/leasegrow/leasegrow-api/internal/models"
	"gorm.io/gorm"
)

// LeaseRequestRepository defines the interface for lease request data access
type LeaseRequestRepository interface {
	FindByID(ctx context.Context, id uint) (*models.LeaseRequest, error)
	FindByIDWithDetails(ctx context.Context, id uint) (*models.LeaseRequest, error)
	Create(ctx context.Context, request *models.LeaseRequest) error
	// UpdateStatusIf flips the request from one status to another
	// in a single conditional UPDATE. Returns false when the row was
	// no longer in fromStatus, i.e. another actor won the transition.
	UpdateStatusIf(ctx context.Context, id uint, fromStatus, toStatus string, set map[string]interface{}) (bool, error)
	HasPendingFor(ctx context.Context, equipmentID, accountID uint) (bool, error)
	HasContract(ctx context.Context, requestID uint) (bool, error)
	List(ctx context.Context, query *LeaseRequestQuery) ([]models.LeaseRequest, int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// LeaseRequestQuery extends ListQuery with request-specific filters
type LeaseRequestQuery struct {
	*ListQuery
	AccountID    uint
	IsPrivileged bool
	Status       string
	EquipmentID  uint
}

type leaseRequestRepository struct {
	db *gorm.DB
}

// NewLeaseRequestRepository creates a new lease request repository
func NewLeaseRequestRepository(db *gorm.DB) LeaseRequestRepository {
	return &leaseRequestRepository{db: db}
}

func (r *leaseRequestRepository) FindByID(ctx context.Context, id uint) (*models.LeaseRequest, error) {
	var request models.LeaseRequest
	err := r.db.WithContext(ctx).First(&request, id).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *leaseRequestRepository) FindByIDWithDetails(ctx context.Context, id uint) (*models.LeaseRequest, error) {
	var request models.LeaseRequest
	err := r.db.WithContext(ctx).
		Joins("Equipment").
		Joins("Account").
		Joins("ConfirmedBy").
		Preload("Contract").
		First(&request, id).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *leaseRequestRepository) Create(ctx context.Context, request *models.LeaseRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *leaseRequestRepository) UpdateStatusIf(ctx context.Context, id uint, fromStatus, toStatus string, set map[string]interface{}) (bool, error) {
	updates := map[string]interface{}{"status": toStatus}
	for k, v := range set {
		updates[k] = v
	}
	res := r.db.WithContext(ctx).
		Model(&models.LeaseRequest{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *leaseRequestRepository) HasPendingFor(ctx context.Context, equipmentID, accountID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.LeaseRequest{}).
		Where("equipment_id = ? AND account_id = ? AND status = ?",
			equipmentID, accountID, models.LeaseRequestStatusPending).
		Count(&count).Error
	return count > 0, err
}

func (r *leaseRequestRepository) HasContract(ctx context.Context, requestID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.LeaseContract{}).
		Where("lease_request_id = ?", requestID).
		Count(&count).Error
	return count > 0, err
}

func (r *leaseRequestRepository) List(ctx context.Context, query *LeaseRequestQuery) ([]models.LeaseRequest, int64, error) {
	var requests []models.LeaseRequest
	var total int64

	db := r.db.WithContext(ctx).Model(&models.LeaseRequest{})

	// Clients only see their own requests
	if !query.IsPrivileged && query.AccountID > 0 {
		db = db.Where("lease_requests.account_id = ?", query.AccountID)
	}

	if query.Status != "" {
		db = db.Where("lease_requests.status = ?", query.Status)
	}
	if query.EquipmentID > 0 {
		db = db.Where("lease_requests.equipment_id = ?", query.EquipmentID)
	}

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Joins("LEFT JOIN equipment ON equipment.id = lease_requests.equipment_id").
			Joins("LEFT JOIN accounts ON accounts.id = lease_requests.account_id").
			Where("equipment.name ILIKE ? OR equipment.model ILIKE ? OR accounts.full_name ILIKE ?",
				search, search, search)
	}

	// Count on a separate session so Count() does not alter the main query
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
		db = db.Order("lease_requests.created_at DESC")
	}

	err := db.
		Preload("Equipment").
		Preload("Account").
		Offset(query.Offset()).
		Limit(query.Limit()).
		Find(&requests).Error
	if err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *leaseRequestRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.LeaseRequest{}).
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
