package repository

import (
	"context"
	"errors"

	"github.com/leasegrow/leasegrow-api/internal/models"
	"gorm.io/gorm"
)

// CompanyRepository defines data access for companies
type CompanyRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Company, error)
	FindByAccount(ctx context.Context, accountID uint) (*models.Company, error)
	LinkToAccount(ctx context.Context, companyID, accountID uint) error
	Count(ctx context.Context) (int64, error)
}

type companyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) FindByID(ctx context.Context, id uint) (*models.Company, error) {
	var company models.Company
	err := r.db.WithContext(ctx).First(&company, id).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// FindByAccount returns the company linked to the account, nil when the
// account has none.
func (r *companyRepository) FindByAccount(ctx context.Context, accountID uint) (*models.Company, error) {
	var company models.Company
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		First(&company).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// LinkToAccount back-links a company to an account. Only unlinked
// companies are touched so an existing link is never overwritten.
func (r *companyRepository) LinkToAccount(ctx context.Context, companyID, accountID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Company{}).
		Where("id = ? AND account_id IS NULL", companyID).
		Update("account_id", accountID).Error
}


func (r *companyRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Company{}).Count(&count).Error
	return count, err
}
