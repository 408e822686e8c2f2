package database

import (
	"fmt"

	"github.com/leasegrow/leasegrow-api/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema and the indexes the lifecycle
// invariants rely on.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Account{},
		&models.Company{},
		&models.Equipment{},
		&models.LeaseRequest{},
		&models.LeaseContract{},
		&models.PaymentSchedule{},
		&models.MaintenanceRequest{},
		&models.Maintenance{},
		&models.ChatMessage{},
		&models.MaintenanceChatMessage{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}

	// One pending request per client per unit of equipment. Partial
	// indexes are not expressible in gorm tags, so raw SQL.
	err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_lease_requests_pending
		ON lease_requests (equipment_id, account_id)
		WHERE status = 'pending'`).Error
	if err != nil {
		return fmt.Errorf("failed to create pending request index: %w", err)
	}

	return nil
}
