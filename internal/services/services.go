package services

import (
	"github.com/leasegrow/leasegrow-api/internal/events"
	"github.com/leasegrow/leasegrow-api/internal/jobs"
	"github.com/leasegrow/leasegrow-api/internal/repository"
)

// Services holds all service instances
type Services struct {
	Equipment    *EquipmentService
	LeaseRequest *LeaseRequestService
	Contract     *ContractService
	Payment      *PaymentService
	Maintenance  *MaintenanceService
	Chat         *ChatService
	Notification *NotificationService
	Statistics   *StatisticsService
	Export       *ExportService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, publisher events.Publisher) *Services {
	notificationSvc := NewNotificationService(repos.Notification, repos.Account)
	statisticsSvc := NewStatisticsService(repos.Equipment, repos.Company, repos.LeaseRequest, repos.Contract, repos.Payment, repos.Maintenance)

	return &Services{
		Equipment:    NewEquipmentService(repos.Equipment),
		LeaseRequest: NewLeaseRequestService(repos.LeaseRequest, repos.Equipment, repos.Company, repos.Account, notificationSvc, publisher, worker),
		Contract:     NewContractService(repos.Contract, repos.LeaseRequest, repos.Company, repos.Payment, repos.Account, notificationSvc, publisher, worker),
		Payment:      NewPaymentService(repos.Payment, repos.Contract, repos.Account, notificationSvc, publisher, worker),
		Maintenance:  NewMaintenanceService(repos.Maintenance, repos.Contract, repos.Equipment, repos.Account, notificationSvc, publisher, worker),
		Chat:         NewChatService(repos.Chat, repos.LeaseRequest, repos.Maintenance, repos.Account, publisher),
		Notification: notificationSvc,
		Statistics:   statisticsSvc,
		Export:       NewExportService(statisticsSvc),
	}
}
