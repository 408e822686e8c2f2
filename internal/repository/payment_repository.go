package repository

import (
	"context"
	"time"

	"github.com/leasegrow/leasegrow-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PaymentRepository defines the interface for payment schedule data access
type PaymentRepository interface {
	FindByID(ctx context.Context, id uint) (*models.PaymentSchedule, error)
	FindByContract(ctx context.Context, contractID uint) ([]models.PaymentSchedule, error)
	// CreateBatch inserts a generated schedule in one statement.
	CreateBatch(ctx context.Context, entries []models.PaymentSchedule) error
	// MarkPaid records payment only while the entry is still payable.
	// Returns false when it was already paid or cancelled.
	MarkPaid(ctx context.Context, id uint, paidAt time.Time) (bool, error)
	CancelPending(ctx context.Context, contractID uint) (int64, error)
	// MarkOverdueBatch flips pending entries past their due date to
	// overdue and returns the affected rows for notification fan-out.
	MarkOverdueBatch(ctx context.Context, asOf time.Time) ([]models.PaymentSchedule, error)
	CountUnpaid(ctx context.Context, contractID uint) (int64, error)
	MaxPaymentNumber(ctx context.Context, contractID uint) (int, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	SumPaid(ctx context.Context) (float64, error)
	SumOverdue(ctx context.Context, asOf time.Time) (float64, error)
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) FindByID(ctx context.Context, id uint) (*models.PaymentSchedule, error) {
	var entry models.PaymentSchedule
	err := r.db.WithContext(ctx).Preload("Contract.Company").First(&entry, id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *paymentRepository) FindByContract(ctx context.Context, contractID uint) ([]models.PaymentSchedule, error) {
	var entries []models.PaymentSchedule
	err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("payment_number ASC").
		Find(&entries).Error
	return entries, err
}

func (r *paymentRepository) CreateBatch(ctx context.Context, entries []models.PaymentSchedule) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}

func (r *paymentRepository) MarkPaid(ctx context.Context, id uint, paidAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.PaymentSchedule{}).
		Where("id = ? AND status IN ?", id, []string{models.PaymentStatusPending, models.PaymentStatusOverdue}).
		Updates(map[string]interface{}{
			"status":  models.PaymentStatusPaid,
			"paid_at": paidAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *paymentRepository) CancelPending(ctx context.Context, contractID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.PaymentSchedule{}).
		Where("contract_id = ? AND status IN ?", contractID,
			[]string{models.PaymentStatusPending, models.PaymentStatusOverdue}).
		Update("status", models.PaymentStatusCancelled)
	return res.RowsAffected, res.Error
}

func (r *paymentRepository) MarkOverdueBatch(ctx context.Context, asOf time.Time) ([]models.PaymentSchedule, error) {
	var flipped []models.PaymentSchedule
	err := r.db.WithContext(ctx).
		Model(&models.PaymentSchedule{}).
		Clauses(clause.Returning{}).
		Where("status = ? AND due_date < ?", models.PaymentStatusPending, asOf).
		Update("status", models.PaymentStatusOverdue).
		Scan(&flipped).Error
	return flipped, err
}

func (r *paymentRepository) CountUnpaid(ctx context.Context, contractID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PaymentSchedule{}).
		Where("contract_id = ? AND status IN ?", contractID,
			[]string{models.PaymentStatusPending, models.PaymentStatusOverdue}).
		Count(&count).Error
	return count, err
}

func (r *paymentRepository) MaxPaymentNumber(ctx context.Context, contractID uint) (int, error) {
	var n int
	err := r.db.WithContext(ctx).
		Model(&models.PaymentSchedule{}).
		Select("COALESCE(MAX(payment_number), 0)").
		Where("contract_id = ?", contractID).
		Scan(&n).Error
	return n, err
}

func (r *paymentRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.PaymentSchedule{}).
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

func (r *paymentRepository) SumPaid(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.PaymentSchedule{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ?", models.PaymentStatusPaid).
		Scan(&total).Error
	return total, err
}

func (r *paymentRepository) SumOverdue(ctx context.Context, asOf time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.PaymentSchedule{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ? OR (status = ? AND due_date < ?)",
			models.PaymentStatusOverdue, models.PaymentStatusPending, asOf).
		Scan(&total).Error
	return total, err
}
