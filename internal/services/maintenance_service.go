package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/leasegrow/leasegrow-api/internal/events"
	"github.com/leasegrow/leasegrow-api/internal/jobs"
	"github.com/leasegrow/leasegrow-api/internal/models"
	"github.com/leasegrow/leasegrow-api/internal/repository"
	"github.com/leasegrow/leasegrow-api/internal/statemachine"
	"gorm.io/gorm"
)

type MaintenanceService struct {
	repo            repository.MaintenanceRepository
	contractRepo    repository.ContractRepository
	equipmentRepo   repository.EquipmentRepository
	accountRepo     repository.AccountRepository
	notificationSvc *NotificationService
	publisher       events.Publisher
	worker          *jobs.Worker
}

func NewMaintenanceService(
	repo repository.MaintenanceRepository,
	contractRepo repository.ContractRepository,
	equipmentRepo repository.EquipmentRepository,
	accountRepo repository.AccountRepository,
	notificationSvc *NotificationService,
	publisher events.Publisher,
	worker *jobs.Worker,
) *MaintenanceService {
	return &MaintenanceService{
		repo:            repo,
		contractRepo:    contractRepo,
		equipmentRepo:   equipmentRepo,
		accountRepo:     accountRepo,
		notificationSvc: notificationSvc,
		publisher:       publisher,
		worker:          worker,
	}
}

// FindByID gets a maintenance request with its associations
func (s *MaintenanceService) FindByID(ctx context.Context, id uint) (*models.MaintenanceRequest, error) {
	request, err := s.repo.FindByIDWithDetails(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return request, nil
}

func (s *MaintenanceService) List(ctx context.Context, query *repository.MaintenanceQuery) ([]models.MaintenanceRequest, int64, error) {
	return s.repo.List(ctx, query)
}

// Create opens a service ticket against the equipment of a lease
// contract. Only the contract's company owner or a privileged account
// may file one; the equipment and the company both come from the
// contract.
func (s *MaintenanceService) Create(ctx context.Context, accountID, contractID uint, description, urgency string) (*models.MaintenanceRequest, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}
	if urgency == "" {
		urgency = models.UrgencyNormal
	}
	if !models.ValidUrgency(urgency) {
		return nil, ErrInvalidUrgency
	}

	contract, err := s.contractRepo.FindByID(ctx, contractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	actor, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !actor.IsPrivileged() && !contract.IsOwnedBy(accountID) {
		return nil, ErrNotOwner
	}

	equipment, err := s.equipmentRepo.FindByID(ctx, contract.EquipmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	request := &models.MaintenanceRequest{
		EquipmentID: contract.EquipmentID,
		CompanyID:   contract.CompanyID,
		Description: description,
		Urgency:     urgency,
		Status:      models.MaintenanceStatusNew,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, err
	}

	s.publish(ctx, request.ID, events.KindMaintenanceCreated, map[string]any{
		"contract_id":  contractID,
		"equipment_id": contract.EquipmentID,
		"urgency":      urgency,
	})

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyManagers(ctx,
			"Новая заявка на обслуживание",
			fmt.Sprintf("Заявка №%d на обслуживание техники «%s», срочность: %s", request.ID, equipment.Name, urgency),
			models.NotificationTypeMaintenanceCreated)
	})

	return request, nil
}

// Start moves a new ticket to in_progress and assigns the acting manager
func (s *MaintenanceService) Start(ctx context.Context, id, managerID uint) (*models.MaintenanceRequest, error) {
	if err := s.requireMaintainer(ctx, managerID); err != nil {
		return nil, err
	}

	request, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.IsClosed() {
		return nil, ErrRequestClosed
	}

	mfsm := statemachine.NewMaintenanceFSM(request)
	if err := mfsm.Start(ctx); err != nil {
		return nil, ErrInvalidTransition
	}

	ok, err := s.repo.UpdateStatusIf(ctx, id,
		models.MaintenanceStatusNew, models.MaintenanceStatusInProgress,
		map[string]interface{}{"assigned_to_id": managerID})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidTransition
	}
	request.AssignedToID = &managerID

	s.notifyTransition(ctx, request, "в работе")
	return request, nil
}

// Complete closes an in_progress ticket and writes a service log entry
// for the equipment
func (s *MaintenanceService) Complete(ctx context.Context, id, managerID uint) (*models.MaintenanceRequest, error) {
	if err := s.requireMaintainer(ctx, managerID); err != nil {
		return nil, err
	}

	request, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.IsClosed() {
		return nil, ErrRequestClosed
	}

	mfsm := statemachine.NewMaintenanceFSM(request)
	if err := mfsm.Complete(ctx); err != nil {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	ok, err := s.repo.UpdateStatusIf(ctx, id,
		models.MaintenanceStatusInProgress, models.MaintenanceStatusCompleted,
		map[string]interface{}{"completed_at": now})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidTransition
	}
	request.CompletedAt = &now

	entry := &models.Maintenance{
		EquipmentID: request.EquipmentID,
		Type:        models.MaintenanceTypeRepair,
		Description: request.Description,
		PerformedAt: now,
		CreatedByID: &managerID,
	}
	if err := s.repo.CreateLogEntry(ctx, entry); err != nil {
		return nil, err
	}

	s.notifyTransition(ctx, request, "выполнена")
	return request, nil
}

// Cancel closes a ticket without work. Cancelled threads accept no
// further messages.
func (s *MaintenanceService) Cancel(ctx context.Context, id, managerID uint) (*models.MaintenanceRequest, error) {
	if err := s.requireMaintainer(ctx, managerID); err != nil {
		return nil, err
	}

	request, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.IsClosed() {
		return nil, ErrRequestClosed
	}

	fromStatus := request.Status
	mfsm := statemachine.NewMaintenanceFSM(request)
	if err := mfsm.Cancel(ctx); err != nil {
		return nil, ErrInvalidTransition
	}

	ok, err := s.repo.UpdateStatusIf(ctx, id,
		fromStatus, models.MaintenanceStatusCancelled, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidTransition
	}

	s.publish(ctx, id, events.KindMaintenanceTransition, map[string]any{
		"status": models.MaintenanceStatusCancelled,
	})

	if ownerID := request.Company.AccountID; ownerID != nil {
		accountID := *ownerID
		requestID := request.ID
		s.worker.EnqueueAsync(func(ctx context.Context) error {
			return s.notificationSvc.NotifyAccount(ctx, accountID,
				"Заявка на обслуживание отменена",
				fmt.Sprintf("Заявка на обслуживание №%d отменена", requestID),
				models.NotificationTypeMaintenanceCancelled)
		})
	}

	return request, nil
}

// RecordLogEntry writes a standalone service log entry for a unit of
// equipment, outside the ticket flow
func (s *MaintenanceService) RecordLogEntry(ctx context.Context, entry *models.Maintenance) error {
	if !models.ValidMaintenanceType(entry.Type) {
		return ErrInvalidMaintenanceType
	}
	if entry.PerformedAt.IsZero() {
		entry.PerformedAt = time.Now()
	}
	return s.repo.CreateLogEntry(ctx, entry)
}

// ServiceLog returns the maintenance history of a unit of equipment
func (s *MaintenanceService) ServiceLog(ctx context.Context, equipmentID uint) ([]models.Maintenance, error) {
	return s.repo.FindLogByEquipment(ctx, equipmentID)
}

func (s *MaintenanceService) requireMaintainer(ctx context.Context, accountID uint) error {
	actor, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !actor.CanManageMaintenance() {
		return ErrUnauthorized
	}
	return nil
}

func (s *MaintenanceService) notifyTransition(ctx context.Context, request *models.MaintenanceRequest, verb string) {
	s.publish(ctx, request.ID, events.KindMaintenanceTransition, map[string]any{
		"status": request.Status,
	})

	ownerID := request.Company.AccountID
	if ownerID == nil {
		return
	}
	accountID := *ownerID
	requestID := request.ID
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyAccount(ctx, accountID,
			"Заявка на обслуживание обновлена",
			fmt.Sprintf("Заявка на обслуживание №%d: %s", requestID, verb),
			models.NotificationTypeMaintenanceUpdated)
	})
}

func (s *MaintenanceService) publish(ctx context.Context, requestID uint, kind string, payload map[string]any) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ctx, events.MaintenanceTopic(requestID), events.NewEvent(kind, requestID, payload))
}
