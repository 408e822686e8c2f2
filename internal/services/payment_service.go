package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leasegrow/leasegrow-api/internal/events"
	"github.com/leasegrow/leasegrow-api/internal/jobs"
	"github.com/leasegrow/leasegrow-api/internal/models"
	"github.com/leasegrow/leasegrow-api/internal/repository"
	"github.com/leasegrow/leasegrow-api/pkg/logger"
	"gorm.io/gorm"
)

type PaymentService struct {
	repo            repository.PaymentRepository
	contractRepo    repository.ContractRepository
	accountRepo     repository.AccountRepository
	notificationSvc *NotificationService
	publisher       events.Publisher
	worker          *jobs.Worker
}

func NewPaymentService(
	repo repository.PaymentRepository,
	contractRepo repository.ContractRepository,
	accountRepo repository.AccountRepository,
	notificationSvc *NotificationService,
	publisher events.Publisher,
	worker *jobs.Worker,
) *PaymentService {
	return &PaymentService{
		repo:            repo,
		contractRepo:    contractRepo,
		accountRepo:     accountRepo,
		notificationSvc: notificationSvc,
		publisher:       publisher,
		worker:          worker,
	}
}

// FindByContract returns the schedule of a contract ordered by number
func (s *PaymentService) FindByContract(ctx context.Context, contractID uint) ([]models.PaymentSchedule, error) {
	return s.repo.FindByContract(ctx, contractID)
}

// RecordPayment marks a schedule entry paid on behalf of the acting
// account, which must own the contract's company or be privileged. The
// claim is a conditional update; a second recorder of the same entry
// gets ErrAlreadyPaid.
func (s *PaymentService) RecordPayment(ctx context.Context, paymentID, actorID uint) (*models.PaymentSchedule, error) {
	entry, err := s.repo.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.requireContractAccess(ctx, &entry.Contract, actorID); err != nil {
		return nil, err
	}

	now := time.Now()
	won, err := s.repo.MarkPaid(ctx, paymentID, now)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, ErrAlreadyPaid
	}
	entry.Status = models.PaymentStatusPaid
	entry.PaidAt = &now

	s.publishForContract(ctx, &entry.Contract, events.KindPaymentRecorded, map[string]any{
		"payment_id":     entry.ID,
		"payment_number": entry.PaymentNumber,
		"amount":         entry.Amount,
	})

	if ownerID := entry.Contract.Company.AccountID; ownerID != nil {
		accountID := *ownerID
		number := entry.PaymentNumber
		contractNumber := entry.Contract.ContractNumber
		s.worker.EnqueueAsync(func(ctx context.Context) error {
			return s.notificationSvc.NotifyAccount(ctx, accountID,
				"Платёж зачтён",
				fmt.Sprintf("Платёж №%d по договору %s зачтён", number, contractNumber),
				models.NotificationTypePaymentRecorded)
		})
	}

	return entry, nil
}

// RecordOutsideSchedule appends a paid entry for money that arrived
// outside the generated plan, numbered after the last existing entry.
// The acting account must own the contract's company or be privileged.
func (s *PaymentService) RecordOutsideSchedule(ctx context.Context, contractID, actorID uint, amount float64) (*models.PaymentSchedule, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	contract, err := s.contractRepo.FindByID(ctx, contractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.requireContractAccess(ctx, contract, actorID); err != nil {
		return nil, err
	}
	if contract.Status != models.ContractStatusActive {
		return nil, ErrInvalidTransition
	}

	last, err := s.repo.MaxPaymentNumber(ctx, contractID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	entry := &models.PaymentSchedule{
		ContractID:    contractID,
		PaymentNumber: last + 1,
		DueDate:       now,
		Amount:        amount,
		Status:        models.PaymentStatusPaid,
		PaidAt:        &now,
	}
	if err := s.repo.CreateBatch(ctx, []models.PaymentSchedule{*entry}); err != nil {
		return nil, err
	}

	s.publishForContract(ctx, contract, events.KindPaymentRecorded, map[string]any{
		"payment_number": entry.PaymentNumber,
		"amount":         amount,
	})

	return entry, nil
}

// CheckOverduePayments flips pending entries past their due date to
// overdue and notifies the owning clients. Runs on a schedule; the
// effective status shown to readers is derived regardless, so a missed
// run never shows a stale pending entry.
func (s *PaymentService) CheckOverduePayments(ctx context.Context) error {
	flipped, err := s.repo.MarkOverdueBatch(ctx, time.Now())
	if err != nil {
		return err
	}
	if len(flipped) == 0 {
		return nil
	}

	logger.Info("marked overdue payments", "count", len(flipped))

	for _, entry := range flipped {
		contract, err := s.contractRepo.FindByID(ctx, entry.ContractID)
		if err != nil {
			logger.Error("failed to load contract for overdue payment",
				"payment_id", entry.ID, "error", err)
			continue
		}

		s.publishForContract(ctx, contract, events.KindPaymentOverdue, map[string]any{
			"payment_id":     entry.ID,
			"payment_number": entry.PaymentNumber,
		})

		if ownerID := contract.Company.AccountID; ownerID != nil {
			if err := s.notificationSvc.NotifyAccount(ctx, *ownerID,
				"Просрочен платёж",
				fmt.Sprintf("Платёж №%d по договору %s просрочен", entry.PaymentNumber, contract.ContractNumber),
				models.NotificationTypePaymentOverdue); err != nil {
				logger.Error("failed to notify about overdue payment",
					"payment_id", entry.ID, "error", err)
			}
		}
	}

	return nil
}

func (s *PaymentService) requireContractAccess(ctx context.Context, contract *models.LeaseContract, actorID uint) error {
	actor, err := s.accountRepo.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !actor.IsPrivileged() && !contract.IsOwnedBy(actorID) {
		return ErrNotOwner
	}
	return nil
}

func (s *PaymentService) publishForContract(ctx context.Context, contract *models.LeaseContract, kind string, payload map[string]any) {
	if s.publisher == nil || contract.LeaseRequestID == nil {
		return
	}
	s.publisher.Publish(ctx, events.RequestTopic(*contract.LeaseRequestID),
		events.NewEvent(kind, contract.ID, payload))
}
