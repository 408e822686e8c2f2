package services

import (
	"context"
	"testing"

	"github.com/leasegrow/leasegrow-api/internal/events"
	"github.com/leasegrow/leasegrow-api/internal/jobs"
	"github.com/leasegrow/leasegrow-api/internal/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func availableEquipment() *models.Equipment {
	return &models.Equipment{ID: 5, Name: "Экскаватор JCB", Status: models.EquipmentStatusAvailable}
}

// clientCompanyRepo links a company to account 7 and nobody else
func clientCompanyRepo() *mockCompanyRepository {
	return &mockCompanyRepository{
		mockFindByAccount: func(ctx context.Context, accountID uint) (*models.Company, error) {
			if accountID == 7 {
				ownerID := uint(7)
				return &models.Company{ID: 3, Name: "ООО Стройтех", AccountID: &ownerID}, nil
			}
			return nil, nil
		},
	}
}

func newLeaseRequestService(repo *mockLeaseRequestRepository, equipmentRepo *mockEquipmentRepository) (*LeaseRequestService, *mockPublisher, *jobs.Worker) {
	publisher := &mockPublisher{}
	worker := jobs.NewWorker(1)
	service := NewLeaseRequestService(repo, equipmentRepo, clientCompanyRepo(), testAccounts(),
		newTestNotificationService(), publisher, worker)
	return service, publisher, worker
}

func TestCreateLeaseRequest(t *testing.T) {
	repo := &mockLeaseRequestRepository{
		mockCreate: func(ctx context.Context, request *models.LeaseRequest) error {
			request.ID = 11
			return nil
		},
	}
	equipmentRepo := &mockEquipmentRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Equipment, error) {
			return availableEquipment(), nil
		},
	}
	service, publisher, worker := newLeaseRequestService(repo, equipmentRepo)
	defer worker.Shutdown()

	request, err := service.Create(context.Background(), 7, 5, "Нужна на полгода")
	assert.NoError(t, err)
	assert.Equal(t, uint(11), request.ID)
	assert.Equal(t, models.LeaseRequestStatusPending, request.Status)
	assert.Equal(t, uint(7), request.AccountID)
	assert.Contains(t, publisher.kinds(), events.KindRequestCreated)
}

func TestCreateLeaseRequestUnavailableEquipment(t *testing.T) {
	equipmentRepo := &mockEquipmentRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Equipment, error) {
			return &models.Equipment{ID: 5, Status: models.EquipmentStatusMaintenance}, nil
		},
	}
	service, _, worker := newLeaseRequestService(&mockLeaseRequestRepository{}, equipmentRepo)
	defer worker.Shutdown()

	_, err := service.Create(context.Background(), 7, 5, "")
	assert.ErrorIs(t, err, ErrEquipmentUnavailable)
}

func TestCreateLeaseRequestDuplicatePending(t *testing.T) {
	repo := &mockLeaseRequestRepository{
		mockHasPendingFor: func(ctx context.Context, equipmentID, accountID uint) (bool, error) {
			return true, nil
		},
	}
	equipmentRepo := &mockEquipmentRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Equipment, error) {
			return availableEquipment(), nil
		},
	}
	service, _, worker := newLeaseRequestService(repo, equipmentRepo)
	defer worker.Shutdown()

	_, err := service.Create(context.Background(), 7, 5, "")
	assert.ErrorIs(t, err, ErrDuplicatePendingRequest)
}

func TestCreateLeaseRequestDuplicateRace(t *testing.T) {
	// Pre-check passes but the partial unique index rejects the insert
	repo := &mockLeaseRequestRepository{
		mockCreate: func(ctx context.Context, request *models.LeaseRequest) error {
			return gorm.ErrDuplicatedKey
		},
	}
	equipmentRepo := &mockEquipmentRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Equipment, error) {
			return availableEquipment(), nil
		},
	}
	service, _, worker := newLeaseRequestService(repo, equipmentRepo)
	defer worker.Shutdown()

	_, err := service.Create(context.Background(), 7, 5, "")
	assert.ErrorIs(t, err, ErrDuplicatePendingRequest)
}

func TestCreateLeaseRequestWithoutCompany(t *testing.T) {
	// Account 9 is a client with no linked company
	service, _, worker := newLeaseRequestService(&mockLeaseRequestRepository{}, &mockEquipmentRepository{})
	defer worker.Shutdown()

	_, err := service.Create(context.Background(), 9, 5, "")
	assert.ErrorIs(t, err, ErrCompanyRequired)
}

func TestCreateLeaseRequestPrivilegedWithoutCompany(t *testing.T) {
	// Managers are exempt from the company requirement
	repo := &mockLeaseRequestRepository{
		mockCreate: func(ctx context.Context, request *models.LeaseRequest) error {
			request.ID = 12
			return nil
		},
	}
	equipmentRepo := &mockEquipmentRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Equipment, error) {
			return availableEquipment(), nil
		},
	}
	service, _, worker := newLeaseRequestService(repo, equipmentRepo)
	defer worker.Shutdown()

	request, err := service.Create(context.Background(), 2, 5, "")
	assert.NoError(t, err)
	assert.Equal(t, uint(12), request.ID)
}

func TestConfirmLeaseRequest(t *testing.T) {
	repo := &mockLeaseRequestRepository{
		mockFindByIDWithDetails: func(ctx context.Context, id uint) (*models.LeaseRequest, error) {
			return &models.LeaseRequest{ID: id, AccountID: 7, Status: models.LeaseRequestStatusPending}, nil
		},
		mockUpdateStatusIf: func(ctx context.Context, id uint, fromStatus, toStatus string, set map[string]interface{}) (bool, error) {
			assert.Equal(t, models.LeaseRequestStatusPending, fromStatus)
			assert.Equal(t, models.LeaseRequestStatusConfirmed, toStatus)
			return true, nil
		},
	}
	service, publisher, worker := newLeaseRequestService(repo, &mockEquipmentRepository{})
	defer worker.Shutdown()

	request, err := service.Confirm(context.Background(), 11, 2, "одобрено")
	assert.NoError(t, err)
	assert.Equal(t, models.LeaseRequestStatusConfirmed, request.Status)
	assert.Equal(t, uint(2), *request.ConfirmedByID)
	assert.Contains(t, publisher.kinds(), events.KindRequestConfirmed)
}

func TestConfirmLeaseRequestNotPending(t *testing.T) {
	repo := &mockLeaseRequestRepository{
		mockFindByIDWithDetails: func(ctx context.Context, id uint) (*models.LeaseRequest, error) {
			return &models.LeaseRequest{ID: id, Status: models.LeaseRequestStatusRejected}, nil
		},
	}
	service, _, worker := newLeaseRequestService(repo, &mockEquipmentRepository{})
	defer worker.Shutdown()

	_, err := service.Confirm(context.Background(), 11, 2, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestConfirmLeaseRequestLostRace(t *testing.T) {
	// Locally pending, but another manager flipped the row first
	repo := &mockLeaseRequestRepository{
		mockFindByIDWithDetails: func(ctx context.Context, id uint) (*models.LeaseRequest, error) {
			return &models.LeaseRequest{ID: id, Status: models.LeaseRequestStatusPending}, nil
		},
		mockUpdateStatusIf: func(ctx context.Context, id uint, fromStatus, toStatus string, set map[string]interface{}) (bool, error) {
			return false, nil
		},
	}
	service, _, worker := newLeaseRequestService(repo, &mockEquipmentRepository{})
	defer worker.Shutdown()

	_, err := service.Confirm(context.Background(), 11, 2, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestConfirmLeaseRequestByClient(t *testing.T) {
	// Only privileged accounts may decide requests
	service, _, worker := newLeaseRequestService(&mockLeaseRequestRepository{}, &mockEquipmentRepository{})
	defer worker.Shutdown()

	_, err := service.Confirm(context.Background(), 11, 7, "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = service.Reject(context.Background(), 11, 9, "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRejectLeaseRequest(t *testing.T) {
	repo := &mockLeaseRequestRepository{
		mockFindByIDWithDetails: func(ctx context.Context, id uint) (*models.LeaseRequest, error) {
			return &models.LeaseRequest{ID: id, AccountID: 7, Status: models.LeaseRequestStatusPending}, nil
		},
		mockUpdateStatusIf: func(ctx context.Context, id uint, fromStatus, toStatus string, set map[string]interface{}) (bool, error) {
			assert.Equal(t, models.LeaseRequestStatusRejected, toStatus)
			return true, nil
		},
	}
	service, publisher, worker := newLeaseRequestService(repo, &mockEquipmentRepository{})
	defer worker.Shutdown()

	request, err := service.Reject(context.Background(), 11, 2, "нет в наличии")
	assert.NoError(t, err)
	assert.Equal(t, models.LeaseRequestStatusRejected, request.Status)
	assert.Equal(t, "нет в наличии", request.ManagerNotes)
	assert.Contains(t, publisher.kinds(), events.KindRequestRejected)
}

func TestCancelLeaseRequest(t *testing.T) {
	// Cancelling a confirmed request is legal while no contract exists
	repo := &mockLeaseRequestRepository{
		mockFindByIDWithDetails: func(ctx context.Context, id uint) (*models.LeaseRequest, error) {
			return &models.LeaseRequest{ID: id, AccountID: 7, Status: models.LeaseRequestStatusConfirmed}, nil
		},
		mockUpdateStatusIf: func(ctx context.Context, id uint, fromStatus, toStatus string, set map[string]interface{}) (bool, error) {
			assert.Equal(t, models.LeaseRequestStatusConfirmed, fromStatus)
			assert.Equal(t, models.LeaseRequestStatusCancelled, toStatus)
			return true, nil
		},
	}
	service, publisher, worker := newLeaseRequestService(repo, &mockEquipmentRepository{})
	defer worker.Shutdown()

	request, err := service.Cancel(context.Background(), 11, 7)
	assert.NoError(t, err)
	assert.Equal(t, models.LeaseRequestStatusCancelled, request.Status)
	assert.Contains(t, publisher.kinds(), events.KindRequestCancelled)
}

func TestCancelLeaseRequestNotOwner(t *testing.T) {
	repo := &mockLeaseRequestRepository{
		mockFindByIDWithDetails: func(ctx context.Context, id uint) (*models.LeaseRequest, error) {
			return &models.LeaseRequest{ID: id, AccountID: 7, Status: models.LeaseRequestStatusPending}, nil
		},
	}
	service, _, worker := newLeaseRequestService(repo, &mockEquipmentRepository{})
	defer worker.Shutdown()

	_, err := service.Cancel(context.Background(), 11, 8)
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestCancelLeaseRequestWithContract(t *testing.T) {
	// Any contract, draft included, blocks cancellation
	repo := &mockLeaseRequestRepository{
		mockFindByIDWithDetails: func(ctx context.Context, id uint) (*models.LeaseRequest, error) {
			return &models.LeaseRequest{ID: id, AccountID: 7, Status: models.LeaseRequestStatusConfirmed}, nil
		},
		mockHasContract: func(ctx context.Context, requestID uint) (bool, error) {
			return true, nil
		},
	}
	service, _, worker := newLeaseRequestService(repo, &mockEquipmentRepository{})
	defer worker.Shutdown()

	_, err := service.Cancel(context.Background(), 11, 7)
	assert.ErrorIs(t, err, ErrAlreadyContracted)
}

func TestCancelLeaseRequestTerminalState(t *testing.T) {
	repo := &mockLeaseRequestRepository{
		mockFindByIDWithDetails: func(ctx context.Context, id uint) (*models.LeaseRequest, error) {
			return &models.LeaseRequest{ID: id, AccountID: 7, Status: models.LeaseRequestStatusRejected}, nil
		},
	}
	service, _, worker := newLeaseRequestService(repo, &mockEquipmentRepository{})
	defer worker.Shutdown()

	_, err := service.Cancel(context.Background(), 11, 7)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
