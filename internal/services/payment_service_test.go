package services

import (
	"context"
	"testing"
	"time"

	"github.com/leasegrow/leasegrow-api/internal/events"
	"github.com/leasegrow/leasegrow-api/internal/jobs"
	"github.com/leasegrow/leasegrow-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func newPaymentService(repo *mockPaymentRepository, contractRepo *mockContractRepository) (*PaymentService, *mockPublisher, *jobs.Worker) {
	publisher := &mockPublisher{}
	worker := jobs.NewWorker(1)
	service := NewPaymentService(repo, contractRepo, testAccounts(), newTestNotificationService(), publisher, worker)
	return service, publisher, worker
}

func activeContract(id uint) *models.LeaseContract {
	requestID := uint(11)
	accountID := uint(7)
	return &models.LeaseContract{
		ID:             id,
		ContractNumber: "LG-2026-001",
		Status:         models.ContractStatusActive,
		Company:        models.Company{ID: 3, AccountID: &accountID},
		LeaseRequestID: &requestID,
	}
}

func TestRecordPayment(t *testing.T) {
	repo := &mockPaymentRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.PaymentSchedule, error) {
			return &models.PaymentSchedule{
				ID: id, ContractID: 21, PaymentNumber: 2, Amount: 2500,
				Status:   models.PaymentStatusPending,
				Contract: *activeContract(21),
			}, nil
		},
		mockMarkPaid: func(ctx context.Context, id uint, paidAt time.Time) (bool, error) {
			return true, nil
		},
	}
	service, publisher, worker := newPaymentService(repo, &mockContractRepository{})
	defer worker.Shutdown()

	entry, err := service.RecordPayment(context.Background(), 31, 7)
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, entry.Status)
	assert.NotNil(t, entry.PaidAt)
	assert.Contains(t, publisher.kinds(), events.KindPaymentRecorded)
}

func TestRecordPaymentAlreadyPaid(t *testing.T) {
	// A second recorder loses the conditional update
	repo := &mockPaymentRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.PaymentSchedule, error) {
			return &models.PaymentSchedule{
				ID: id, ContractID: 21,
				Status:   models.PaymentStatusPending,
				Contract: *activeContract(21),
			}, nil
		},
		mockMarkPaid: func(ctx context.Context, id uint, paidAt time.Time) (bool, error) {
			return false, nil
		},
	}
	service, _, worker := newPaymentService(repo, &mockContractRepository{})
	defer worker.Shutdown()

	_, err := service.RecordPayment(context.Background(), 31, 2)
	assert.ErrorIs(t, err, ErrAlreadyPaid)
}

func TestRecordPaymentNotOwner(t *testing.T) {
	// Account 9 neither owns the contract's company nor is privileged
	repo := &mockPaymentRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.PaymentSchedule, error) {
			return &models.PaymentSchedule{
				ID: id, ContractID: 21,
				Status:   models.PaymentStatusPending,
				Contract: *activeContract(21),
			}, nil
		},
	}
	service, _, worker := newPaymentService(repo, &mockContractRepository{})
	defer worker.Shutdown()

	_, err := service.RecordPayment(context.Background(), 31, 9)
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestRecordOutsideScheduleNotOwner(t *testing.T) {
	contractRepo := &mockContractRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.LeaseContract, error) {
			return activeContract(id), nil
		},
	}
	service, _, worker := newPaymentService(&mockPaymentRepository{}, contractRepo)
	defer worker.Shutdown()

	_, err := service.RecordOutsideSchedule(context.Background(), 21, 9, 500)
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestRecordOutsideSchedule(t *testing.T) {
	var created models.PaymentSchedule
	contractRepo := &mockContractRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.LeaseContract, error) {
			return activeContract(id), nil
		},
	}
	repo := &mockPaymentRepository{
		mockMaxPaymentNumber: func(ctx context.Context, contractID uint) (int, error) {
			return 13, nil
		},
		mockCreateBatch: func(ctx context.Context, entries []models.PaymentSchedule) error {
			created = entries[0]
			return nil
		},
	}
	service, publisher, worker := newPaymentService(repo, contractRepo)
	defer worker.Shutdown()

	entry, err := service.RecordOutsideSchedule(context.Background(), 21, 2, 1200)
	assert.NoError(t, err)
	assert.Equal(t, 14, entry.PaymentNumber)
	assert.Equal(t, models.PaymentStatusPaid, entry.Status)
	assert.Equal(t, 1200.0, created.Amount)
	assert.Contains(t, publisher.kinds(), events.KindPaymentRecorded)
}

func TestRecordOutsideScheduleValidation(t *testing.T) {
	contractRepo := &mockContractRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.LeaseContract, error) {
			contract := activeContract(id)
			contract.Status = models.ContractStatusDraft
			return contract, nil
		},
	}
	service, _, worker := newPaymentService(&mockPaymentRepository{}, contractRepo)
	defer worker.Shutdown()

	_, err := service.RecordOutsideSchedule(context.Background(), 21, 7, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = service.RecordOutsideSchedule(context.Background(), 21, 7, -10)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	// Only active contracts accept payments
	_, err = service.RecordOutsideSchedule(context.Background(), 21, 7, 500)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCheckOverduePayments(t *testing.T) {
	repo := &mockPaymentRepository{
		mockMarkOverdueBatch: func(ctx context.Context, asOf time.Time) ([]models.PaymentSchedule, error) {
			return []models.PaymentSchedule{
				{ID: 31, ContractID: 21, PaymentNumber: 2, Status: models.PaymentStatusOverdue},
				{ID: 32, ContractID: 21, PaymentNumber: 3, Status: models.PaymentStatusOverdue},
			}, nil
		},
	}
	contractRepo := &mockContractRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.LeaseContract, error) {
			return activeContract(id), nil
		},
	}
	service, publisher, worker := newPaymentService(repo, contractRepo)
	defer worker.Shutdown()

	err := service.CheckOverduePayments(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []string{events.KindPaymentOverdue, events.KindPaymentOverdue}, publisher.kinds())
}

func TestCheckOverduePaymentsNothingToFlip(t *testing.T) {
	repo := &mockPaymentRepository{
		mockMarkOverdueBatch: func(ctx context.Context, asOf time.Time) ([]models.PaymentSchedule, error) {
			return nil, nil
		},
	}
	service, publisher, worker := newPaymentService(repo, &mockContractRepository{})
	defer worker.Shutdown()

	assert.NoError(t, service.CheckOverduePayments(context.Background()))
	assert.Empty(t, publisher.kinds())
}
