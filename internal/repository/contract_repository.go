package repository

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/leasegrow/leasegrow-api/internal/models"
	"gorm.io/gorm"
)

// contractNumberLockClass namespaces the advisory lock used while
// allocating contract numbers. The second lock key is the year, so
// issuance in different years never serializes against each other.
const contractNumberLockClass = 4821

// ContractRepository defines the interface for lease contract data access
type ContractRepository interface {
	FindByID(ctx context.Context, id uint) (*models.LeaseContract, error)
	FindByIDWithDetails(ctx context.Context, id uint) (*models.LeaseContract, error)
	FindByCompany(ctx context.Context, companyID uint) ([]models.LeaseContract, error)
	// Issue creates the contract inside a transaction, allocating the
	// next sequential contract number for its start year under an
	// advisory lock.
	Issue(ctx context.Context, contract *models.LeaseContract) error
	// MarkSigned applies the signing updates and inserts the payment
	// schedule in one transaction, only while the contract is still an
	// unsigned draft. Returns false when another signer won; the loser's
	// entries are not stored.
	MarkSigned(ctx context.Context, id uint, updates map[string]interface{}, entries []models.PaymentSchedule) (bool, error)
	// UpdateStatusIf flips the contract status in a single conditional
	// UPDATE and reports whether the row was still in fromStatus.
	UpdateStatusIf(ctx context.Context, id uint, fromStatus, toStatus string, set map[string]interface{}) (bool, error)
	List(ctx context.Context, query *ContractQuery) ([]models.LeaseContract, int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	SumTotalAmount(ctx context.Context, statuses ...string) (float64, error)
}

// ContractQuery extends ListQuery with contract-specific filters
type ContractQuery struct {
	*ListQuery
	AccountID    uint
	IsPrivileged bool
	Status       string
	CompanyID    uint
}

type contractRepository struct {
	db *gorm.DB
}

// NewContractRepository creates a new contract repository
func NewContractRepository(db *gorm.DB) ContractRepository {
	return &contractRepository{db: db}
}

func (r *contractRepository) FindByID(ctx context.Context, id uint) (*models.LeaseContract, error) {
	var contract models.LeaseContract
	err := r.db.WithContext(ctx).Preload("Company").First(&contract, id).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) FindByIDWithDetails(ctx context.Context, id uint) (*models.LeaseContract, error) {
	var contract models.LeaseContract
	// Company, Equipment and the signer accounts come in one query via
	// Joins; the payment schedule is one-to-many so it stays a Preload.
	err := r.db.WithContext(ctx).
		Joins("Company").
		Joins("Equipment").
		Joins("SignedBy").
		Joins("CreatedBy").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_number ASC")
		}).
		First(&contract, id).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) FindByCompany(ctx context.Context, companyID uint) ([]models.LeaseContract, error) {
	var contracts []models.LeaseContract
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Preload("Equipment").
		Order("created_at DESC").
		Find(&contracts).Error
	return contracts, err
}

func (r *contractRepository) Issue(ctx context.Context, contract *models.LeaseContract) error {
	year := contract.StartDate.Year()
	if year == 0 {
		year = time.Now().Year()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Serialize number allocation per year. The lock is released
		// at commit, so the scan below always sees the latest number.
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?, ?)", contractNumberLockClass, year).Error; err != nil {
			return err
		}
		seq, err := nextContractSeq(tx, year)
		if err != nil {
			return err
		}
		contract.ContractNumber = models.FormatContractNumber(year, seq)
		return tx.Create(contract).Error
	})
}

// nextContractSeq scans the highest existing number for the year's
// prefix and returns the next sequence. Must run under the advisory
// lock in Issue.
func nextContractSeq(tx *gorm.DB, year int) (int, error) {
	prefix := models.ContractNumberPrefix(year)
	var last string
	err := tx.Model(&models.LeaseContract{}).
		Select("contract_number").
		Where("contract_number LIKE ?", prefix+"%").
		Order("contract_number DESC").
		Limit(1).
		Scan(&last).Error
	if err != nil {
		return 0, err
	}
	if last == "" {
		return 1, nil
	}
	seq, err := strconv.Atoi(strings.TrimPrefix(last, prefix))
	if err != nil {
		// Malformed legacy number, restart counting after it
		return 1, nil
	}
	return seq + 1, nil
}

func (r *contractRepository) MarkSigned(ctx context.Context, id uint, updates map[string]interface{}, entries []models.PaymentSchedule) (bool, error) {
	won := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.LeaseContract{}).
			Where("id = ? AND status = ? AND signed_at IS NULL", id, models.ContractStatusDraft).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		won = true
		if len(entries) == 0 {
			return nil
		}
		return tx.Create(&entries).Error
	})
	if err != nil {
		return false, err
	}
	return won, nil
}

func (r *contractRepository) UpdateStatusIf(ctx context.Context, id uint, fromStatus, toStatus string, set map[string]interface{}) (bool, error) {
	updates := map[string]interface{}{"status": toStatus}
	for k, v := range set {
		updates[k] = v
	}
	res := r.db.WithContext(ctx).
		Model(&models.LeaseContract{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *contractRepository) List(ctx context.Context, query *ContractQuery) ([]models.LeaseContract, int64, error) {
	var contracts []models.LeaseContract
	var total int64

	db := r.db.WithContext(ctx).Model(&models.LeaseContract{})

	// Clients only see contracts of companies linked to their account
	if !query.IsPrivileged && query.AccountID > 0 {
		db = db.Joins("LEFT JOIN companies ON companies.id = lease_contracts.company_id").
			Where("companies.account_id = ?", query.AccountID)
	}

	if query.Status != "" {
		db = db.Where("lease_contracts.status = ?", query.Status)
	}
	if query.CompanyID > 0 {
		db = db.Where("lease_contracts.company_id = ?", query.CompanyID)
	}

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Joins("LEFT JOIN equipment ON equipment.id = lease_contracts.equipment_id").
			Where("lease_contracts.contract_number ILIKE ? OR equipment.name ILIKE ?", search, search)
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
		db = db.Order("lease_contracts.created_at DESC")
	}

	err := db.
		Preload("Company").
		Preload("Equipment").
		Offset(query.Offset()).
		Limit(query.Limit()).
		Find(&contracts).Error
	if err != nil {
		return nil, 0, err
	}

	return contracts, total, nil
}

func (r *contractRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.LeaseContract{}).
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

func (r *contractRepository) SumTotalAmount(ctx context.Context, statuses ...string) (float64, error) {
	var total float64
	db := r.db.WithContext(ctx).Model(&models.LeaseContract{})
	if len(statuses) > 0 {
		db = db.Where("status IN ?", statuses)
	}
	err := db.Select("COALESCE(SUM(total_amount), 0)").Scan(&total).Error
	return total, err
}
