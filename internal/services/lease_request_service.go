package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/leasegrow/leasegrow-api/internal/events"
	"github.com/leasegrow/leasegrow-api/internal/jobs"
	"github.com/leasegrow/leasegrow-api/internal/models"
	"github.com/leasegrow/leasegrow-api/internal/repository"
	"github.com/leasegrow/leasegrow-api/internal/statemachine"
	"gorm.io/gorm"
)

type LeaseRequestService struct {
	repo            repository.LeaseRequestRepository
	equipmentRepo   repository.EquipmentRepository
	companyRepo     repository.CompanyRepository
	accountRepo     repository.AccountRepository
	notificationSvc *NotificationService
	publisher       events.Publisher
	worker          *jobs.Worker
}

func NewLeaseRequestService(
	repo repository.LeaseRequestRepository,
	equipmentRepo repository.EquipmentRepository,
	companyRepo repository.CompanyRepository,
	accountRepo repository.AccountRepository,
	notificationSvc *NotificationService,
	publisher events.Publisher,
	worker *jobs.Worker,
) *LeaseRequestService {
	return &LeaseRequestService{
		repo:            repo,
		equipmentRepo:   equipmentRepo,
		companyRepo:     companyRepo,
		accountRepo:     accountRepo,
		notificationSvc: notificationSvc,
		publisher:       publisher,
		worker:          worker,
	}
}

// FindByID gets a lease request by ID
func (s *LeaseRequestService) FindByID(ctx context.Context, id uint) (*models.LeaseRequest, error) {
	request, err := s.repo.FindByIDWithDetails(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return request, nil
}

func (s *LeaseRequestService) List(ctx context.Context, query *repository.LeaseRequestQuery) ([]models.LeaseRequest, int64, error) {
	return s.repo.List(ctx, query)
}

// Create registers a new pending request for a unit of equipment.
// Clients must have a linked company before requesting; managers and
// admins are exempt. A client holds at most one pending request per
// unit; the partial unique index backs this up under concurrent
// submissions.
func (s *LeaseRequestService) Create(ctx context.Context, accountID, equipmentID uint, message string) (*models.LeaseRequest, error) {
	actor, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !actor.IsPrivileged() {
		company, err := s.companyRepo.FindByAccount(ctx, accountID)
		if err != nil {
			return nil, err
		}
		if company == nil {
			return nil, ErrCompanyRequired
		}
	}

	equipment, err := s.equipmentRepo.FindByID(ctx, equipmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !equipment.IsAvailable() {
		return nil, ErrEquipmentUnavailable
	}

	// Fast pre-check; the index catches the race
	exists, err := s.repo.HasPendingFor(ctx, equipmentID, accountID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicatePendingRequest
	}

	request := &models.LeaseRequest{
		EquipmentID: equipmentID,
		AccountID:   accountID,
		Status:      models.LeaseRequestStatusPending,
		Message:     message,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicatePendingRequest
		}
		return nil, err
	}

	s.publish(ctx, request.ID, events.KindRequestCreated, map[string]any{
		"equipment_id": equipmentID,
		"account_id":   accountID,
	})

	// Notify managers asynchronously
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyManagers(ctx,
			"Новая заявка на лизинг",
			fmt.Sprintf("Поступила заявка №%d на технику «%s»", request.ID, equipment.Name),
			models.NotificationTypeRequestCreated)
	})

	return request, nil
}

// Confirm transitions a pending request to confirmed. The status flip is
// a conditional update, so of two concurrent managers exactly one wins.
func (s *LeaseRequestService) Confirm(ctx context.Context, id, managerID uint, notes string) (*models.LeaseRequest, error) {
	if err := s.requireConfirmer(ctx, managerID); err != nil {
		return nil, err
	}

	request, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rfsm := statemachine.NewLeaseRequestFSM(request)
	if err := rfsm.Confirm(ctx); err != nil {
		return nil, ErrInvalidTransition
	}

	ok, err := s.repo.UpdateStatusIf(ctx, id,
		models.LeaseRequestStatusPending, models.LeaseRequestStatusConfirmed,
		map[string]interface{}{
			"confirmed_by_id": managerID,
			"manager_notes":   notes,
		})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidTransition
	}
	request.ConfirmedByID = &managerID
	request.ManagerNotes = notes

	s.publish(ctx, id, events.KindRequestConfirmed, map[string]any{
		"manager_id": managerID,
	})

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyAccount(ctx, request.AccountID,
			"Заявка подтверждена",
			fmt.Sprintf("Ваша заявка №%d по технике «%s» подтверждена", request.ID, request.Equipment.Name),
			models.NotificationTypeRequestConfirmed)
	})

	return request, nil
}

// Reject transitions a pending request to rejected
func (s *LeaseRequestService) Reject(ctx context.Context, id, managerID uint, notes string) (*models.LeaseRequest, error) {
	if err := s.requireConfirmer(ctx, managerID); err != nil {
		return nil, err
	}

	request, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rfsm := statemachine.NewLeaseRequestFSM(request)
	if err := rfsm.Reject(ctx); err != nil {
		return nil, ErrInvalidTransition
	}

	ok, err := s.repo.UpdateStatusIf(ctx, id,
		models.LeaseRequestStatusPending, models.LeaseRequestStatusRejected,
		map[string]interface{}{
			"confirmed_by_id": managerID,
			"manager_notes":   notes,
		})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidTransition
	}
	request.ConfirmedByID = &managerID
	request.ManagerNotes = notes

	s.publish(ctx, id, events.KindRequestRejected, map[string]any{
		"manager_id": managerID,
	})

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyAccount(ctx, request.AccountID,
			"Заявка отклонена",
			fmt.Sprintf("Ваша заявка №%d по технике «%s» отклонена", request.ID, request.Equipment.Name),
			models.NotificationTypeRequestRejected)
	})

	return request, nil
}

// Cancel lets the owning client withdraw a request while no contract
// exists for it. Any contract, signed or draft, blocks cancellation.
func (s *LeaseRequestService) Cancel(ctx context.Context, id, accountID uint) (*models.LeaseRequest, error) {
	request, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !request.IsOwnedBy(accountID) {
		return nil, ErrNotOwner
	}

	hasContract, err := s.repo.HasContract(ctx, id)
	if err != nil {
		return nil, err
	}
	if hasContract {
		return nil, ErrAlreadyContracted
	}

	fromStatus := request.Status
	rfsm := statemachine.NewLeaseRequestFSM(request)
	if err := rfsm.Cancel(ctx); err != nil {
		return nil, ErrInvalidTransition
	}

	ok, err := s.repo.UpdateStatusIf(ctx, id,
		fromStatus, models.LeaseRequestStatusCancelled, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the race against a confirm, reject or contract issuance
		return nil, ErrInvalidTransition
	}

	s.publish(ctx, id, events.KindRequestCancelled, map[string]any{
		"account_id": accountID,
	})

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyManagers(ctx,
			"Заявка отменена",
			fmt.Sprintf("Клиент отменил заявку №%d по технике «%s»", request.ID, request.Equipment.Name),
			models.NotificationTypeRequestCancelled)
	})

	return request, nil
}

func (s *LeaseRequestService) requireConfirmer(ctx context.Context, accountID uint) error {
	actor, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !actor.CanConfirmRequests() {
		return ErrUnauthorized
	}
	return nil
}

func (s *LeaseRequestService) publish(ctx context.Context, requestID uint, kind string, payload map[string]any) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ctx, events.RequestTopic(requestID), events.NewEvent(kind, requestID, payload))
}
