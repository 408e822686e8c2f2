package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Account      AccountRepository
	Company      CompanyRepository
	Equipment    EquipmentRepository
	LeaseRequest LeaseRequestRepository
	Contract     ContractRepository
	Payment      PaymentRepository
	Maintenance  MaintenanceRepository
	Chat         ChatRepository
	Notification NotificationRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Account:      NewAccountRepository(db),
		Company:      NewCompanyRepository(db),
		Equipment:    NewEquipmentRepository(db),
		LeaseRequest: NewLeaseRequestRepository(db),
		Contract:     NewContractRepository(db),
		Payment:      NewPaymentRepository(db),
		Maintenance:  NewMaintenanceRepository(db),
		Chat:         NewChatRepository(db),
		Notification: NewNotificationRepository(db),
	}
}
