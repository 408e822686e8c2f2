package services

import (
	"context"
	"testing"

	"github.com/leasegrow/leasegrow-api/internal/events"
	"github.com/leasegrow/leasegrow-api/internal/jobs"
	"github.com/leasegrow/leasegrow-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func newMaintenanceService(repo *mockMaintenanceRepository, contractRepo *mockContractRepository, equipmentRepo *mockEquipmentRepository) (*MaintenanceService, *mockPublisher, *jobs.Worker) {
	publisher := &mockPublisher{}
	worker := jobs.NewWorker(1)
	service := NewMaintenanceService(repo, contractRepo, equipmentRepo, testAccounts(),
		newTestNotificationService(), publisher, worker)
	return service, publisher, worker
}

// leasedContractRepo serves an active contract owned by account 7
func leasedContractRepo() *mockContractRepository {
	return &mockContractRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.LeaseContract, error) {
			ownerID := uint(7)
			return &models.LeaseContract{
				ID:          id,
				CompanyID:   3,
				EquipmentID: 5,
				Status:      models.ContractStatusActive,
				Company:     models.Company{ID: 3, AccountID: &ownerID},
			}, nil
		},
	}
}

func TestCreateMaintenanceRequest(t *testing.T) {
	repo := &mockMaintenanceRepository{
		mockCreate: func(ctx context.Context, request *models.MaintenanceRequest) error {
			request.ID = 41
			return nil
		},
	}
	equipmentRepo := &mockEquipmentRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Equipment, error) {
			return availableEquipment(), nil
		},
	}
	service, publisher, worker := newMaintenanceService(repo, leasedContractRepo(), equipmentRepo)
	defer worker.Shutdown()

	request, err := service.Create(context.Background(), 7, 21, "Не заводится двигатель", models.UrgencyHigh)
	assert.NoError(t, err)
	assert.Equal(t, uint(41), request.ID)
	assert.Equal(t, models.MaintenanceStatusNew, request.Status)
	assert.Equal(t, models.UrgencyHigh, request.Urgency)
	assert.Equal(t, uint(3), request.CompanyID)
	assert.Equal(t, uint(5), request.EquipmentID)
	assert.Contains(t, publisher.kinds(), events.KindMaintenanceCreated)
}

func TestCreateMaintenanceRequestDefaultsUrgency(t *testing.T) {
	repo := &mockMaintenanceRepository{
		mockCreate: func(ctx context.Context, request *models.MaintenanceRequest) error { return nil },
	}
	equipmentRepo := &mockEquipmentRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Equipment, error) {
			return availableEquipment(), nil
		},
	}
	service, _, worker := newMaintenanceService(repo, leasedContractRepo(), equipmentRepo)
	defer worker.Shutdown()

	request, err := service.Create(context.Background(), 7, 21, "Течёт гидравлика", "")
	assert.NoError(t, err)
	assert.Equal(t, models.UrgencyNormal, request.Urgency)
}

func TestCreateMaintenanceRequestInvalidUrgency(t *testing.T) {
	service, _, worker := newMaintenanceService(&mockMaintenanceRepository{}, &mockContractRepository{}, &mockEquipmentRepository{})
	defer worker.Shutdown()

	_, err := service.Create(context.Background(), 7, 21, "x", "urgent")
	assert.ErrorIs(t, err, ErrInvalidUrgency)
}

func TestCreateMaintenanceRequestEmptyDescription(t *testing.T) {
	// A whitespace-only description is rejected before anything is loaded
	service, _, worker := newMaintenanceService(&mockMaintenanceRepository{}, &mockContractRepository{}, &mockEquipmentRepository{})
	defer worker.Shutdown()

	_, err := service.Create(context.Background(), 7, 21, "   ", models.UrgencyLow)
	assert.ErrorIs(t, err, ErrDescriptionRequired)
}

func TestCreateMaintenanceRequestNotOwner(t *testing.T) {
	// Account 9 has no claim on the contract's company
	service, _, worker := newMaintenanceService(&mockMaintenanceRepository{}, leasedContractRepo(), &mockEquipmentRepository{})
	defer worker.Shutdown()

	_, err := service.Create(context.Background(), 9, 21, "чужой договор", models.UrgencyLow)
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestCreateMaintenanceRequestByManager(t *testing.T) {
	// Privileged accounts may file tickets for any contract
	repo := &mockMaintenanceRepository{
		mockCreate: func(ctx context.Context, request *models.MaintenanceRequest) error { return nil },
	}
	equipmentRepo := &mockEquipmentRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Equipment, error) {
			return availableEquipment(), nil
		},
	}
	service, _, worker := newMaintenanceService(repo, leasedContractRepo(), equipmentRepo)
	defer worker.Shutdown()

	request, err := service.Create(context.Background(), 2, 21, "Плановый осмотр", models.UrgencyLow)
	assert.NoError(t, err)
	assert.Equal(t, uint(3), request.CompanyID)
}

func TestStartMaintenance(t *testing.T) {
	repo := &mockMaintenanceRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.MaintenanceRequest, error) {
			return &models.MaintenanceRequest{ID: id, Status: models.MaintenanceStatusNew}, nil
		},
		mockUpdateStatusIf: func(ctx context.Context, id uint, fromStatus, toStatus string, set map[string]interface{}) (bool, error) {
			assert.Equal(t, models.MaintenanceStatusNew, fromStatus)
			assert.Equal(t, models.MaintenanceStatusInProgress, toStatus)
			return true, nil
		},
	}
	service, publisher, worker := newMaintenanceService(repo, &mockContractRepository{}, &mockEquipmentRepository{})
	defer worker.Shutdown()

	request, err := service.Start(context.Background(), 41, 2)
	assert.NoError(t, err)
	assert.Equal(t, models.MaintenanceStatusInProgress, request.Status)
	assert.Equal(t, uint(2), *request.AssignedToID)
	assert.Contains(t, publisher.kinds(), events.KindMaintenanceTransition)
}

func TestStartMaintenanceByClient(t *testing.T) {
	service, _, worker := newMaintenanceService(&mockMaintenanceRepository{}, &mockContractRepository{}, &mockEquipmentRepository{})
	defer worker.Shutdown()

	_, err := service.Start(context.Background(), 41, 7)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestStartCancelledMaintenance(t *testing.T) {
	// A cancelled ticket is closed for good, not merely in a wrong state
	repo := &mockMaintenanceRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.MaintenanceRequest, error) {
			return &models.MaintenanceRequest{ID: id, Status: models.MaintenanceStatusCancelled}, nil
		},
	}
	service, _, worker := newMaintenanceService(repo, &mockContractRepository{}, &mockEquipmentRepository{})
	defer worker.Shutdown()

	_, err := service.Start(context.Background(), 41, 2)
	assert.ErrorIs(t, err, ErrRequestClosed)
}

func TestCompleteMaintenanceWritesLogEntry(t *testing.T) {
	var logged *models.Maintenance
	repo := &mockMaintenanceRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.MaintenanceRequest, error) {
			return &models.MaintenanceRequest{
				ID: id, EquipmentID: 5, Description: "Замена фильтров",
				Status: models.MaintenanceStatusInProgress,
			}, nil
		},
		mockUpdateStatusIf: func(ctx context.Context, id uint, fromStatus, toStatus string, set map[string]interface{}) (bool, error) {
			return true, nil
		},
		mockCreateLogEntry: func(ctx context.Context, entry *models.Maintenance) error {
			logged = entry
			return nil
		},
	}
	service, _, worker := newMaintenanceService(repo, &mockContractRepository{}, &mockEquipmentRepository{})
	defer worker.Shutdown()

	request, err := service.Complete(context.Background(), 41, 2)
	assert.NoError(t, err)
	assert.Equal(t, models.MaintenanceStatusCompleted, request.Status)
	assert.NotNil(t, request.CompletedAt)

	assert.NotNil(t, logged)
	assert.Equal(t, uint(5), logged.EquipmentID)
	assert.Equal(t, models.MaintenanceTypeRepair, logged.Type)
	assert.Equal(t, uint(2), *logged.CreatedByID)
}

func TestCompleteMaintenanceFromNew(t *testing.T) {
	repo := &mockMaintenanceRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.MaintenanceRequest, error) {
			return &models.MaintenanceRequest{ID: id, Status: models.MaintenanceStatusNew}, nil
		},
	}
	service, _, worker := newMaintenanceService(repo, &mockContractRepository{}, &mockEquipmentRepository{})
	defer worker.Shutdown()

	_, err := service.Complete(context.Background(), 41, 2)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCompleteCancelledMaintenance(t *testing.T) {
	repo := &mockMaintenanceRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.MaintenanceRequest, error) {
			return &models.MaintenanceRequest{ID: id, Status: models.MaintenanceStatusCancelled}, nil
		},
	}
	service, _, worker := newMaintenanceService(repo, &mockContractRepository{}, &mockEquipmentRepository{})
	defer worker.Shutdown()

	_, err := service.Complete(context.Background(), 41, 2)
	assert.ErrorIs(t, err, ErrRequestClosed)
}

func TestCancelMaintenance(t *testing.T) {
	repo := &mockMaintenanceRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.MaintenanceRequest, error) {
			return &models.MaintenanceRequest{ID: id, Status: models.MaintenanceStatusInProgress}, nil
		},
		mockUpdateStatusIf: func(ctx context.Context, id uint, fromStatus, toStatus string, set map[string]interface{}) (bool, error) {
			assert.Equal(t, models.MaintenanceStatusInProgress, fromStatus)
			assert.Equal(t, models.MaintenanceStatusCancelled, toStatus)
			return true, nil
		},
	}
	service, _, worker := newMaintenanceService(repo, &mockContractRepository{}, &mockEquipmentRepository{})
	defer worker.Shutdown()

	request, err := service.Cancel(context.Background(), 41, 2)
	assert.NoError(t, err)
	assert.Equal(t, models.MaintenanceStatusCancelled, request.Status)
}

func TestCancelCancelledMaintenance(t *testing.T) {
	repo := &mockMaintenanceRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.MaintenanceRequest, error) {
			return &models.MaintenanceRequest{ID: id, Status: models.MaintenanceStatusCancelled}, nil
		},
	}
	service, _, worker := newMaintenanceService(repo, &mockContractRepository{}, &mockEquipmentRepository{})
	defer worker.Shutdown()

	_, err := service.Cancel(context.Background(), 41, 2)
	assert.ErrorIs(t, err, ErrRequestClosed)
}

func TestRecordLogEntryValidatesType(t *testing.T) {
	service, _, worker := newMaintenanceService(&mockMaintenanceRepository{}, &mockContractRepository{}, &mockEquipmentRepository{})
	defer worker.Shutdown()

	err := service.RecordLogEntry(context.Background(), &models.Maintenance{Type: "overhaul"})
	assert.ErrorIs(t, err, ErrInvalidMaintenanceType)
}

func TestRecordLogEntryDefaultsPerformedAt(t *testing.T) {
	var logged *models.Maintenance
	repo := &mockMaintenanceRepository{
		mockCreateLogEntry: func(ctx context.Context, entry *models.Maintenance) error {
			logged = entry
			return nil
		},
	}
	service, _, worker := newMaintenanceService(repo, &mockContractRepository{}, &mockEquipmentRepository{})
	defer worker.Shutdown()

	err := service.RecordLogEntry(context.Background(), &models.Maintenance{
		EquipmentID: 5,
		Type:        models.MaintenanceTypeInspection,
	})
	assert.NoError(t, err)
	assert.False(t, logged.PerformedAt.IsZero())
}
