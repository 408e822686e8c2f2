package repository

import (
	"context"

	"github.com/leasegrow/leasegrow-api/internal/models"
	"gorm.io/gorm"
)

// AccountRepository defines data access for accounts. Accounts are
// written by the external identity provider; the core only reads them
// for display names, role checks and manager fan-out.
type AccountRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Account, error)
	FindManagers(ctx context.Context) ([]models.Account, error)
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) FindByID(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).First(&account, id).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) FindManagers(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	err := r.db.WithContext(ctx).
		Where("role IN ? AND status = ?", []string{models.RoleManager, models.RoleAdmin}, models.AccountStatusActive).
		Find(&accounts).Error
	return accounts, err
}
