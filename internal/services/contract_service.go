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
	"github.com/leasegrow/leasegrow-api/internal/statemachine"
	"gorm.io/gorm"
)

// IssueContractInput carries the terms a manager sets when drafting a
// contract from a confirmed lease request. CompanyID selects the lessee
// company explicitly; left zero, the requester's linked company is used.
type IssueContractInput struct {
	LeaseRequestID  uint
	CompanyID       uint
	StartDate       time.Time
	LeaseTermMonths int
	MonthlyPayment  float64
	AdvancePayment  float64
	PaymentDay      int
}

type ContractService struct {
	repo            repository.ContractRepository
	requestRepo     repository.LeaseRequestRepository
	companyRepo     repository.CompanyRepository
	paymentRepo     repository.PaymentRepository
	accountRepo     repository.AccountRepository
	notificationSvc *NotificationService
	publisher       events.Publisher
	worker          *jobs.Worker
	paymentSchedule *PaymentScheduleService
}

func NewContractService(
	repo repository.ContractRepository,
	requestRepo repository.LeaseRequestRepository,
	companyRepo repository.CompanyRepository,
	paymentRepo repository.PaymentRepository,
	accountRepo repository.AccountRepository,
	notificationSvc *NotificationService,
	publisher events.Publisher,
	worker *jobs.Worker,
) *ContractService {
	return &ContractService{
		repo:            repo,
		requestRepo:     requestRepo,
		companyRepo:     companyRepo,
		paymentRepo:     paymentRepo,
		accountRepo:     accountRepo,
		notificationSvc: notificationSvc,
		publisher:       publisher,
		worker:          worker,
		paymentSchedule: NewPaymentScheduleService(),
	}
}

// FindByID gets a contract by ID
func (s *ContractService) FindByID(ctx context.Context, id uint) (*models.LeaseContract, error) {
	contract, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return contract, nil
}

// FindByIDWithDetails gets a contract with all nested associations preloaded
func (s *ContractService) FindByIDWithDetails(ctx context.Context, id uint) (*models.LeaseContract, error) {
	contract, err := s.repo.FindByIDWithDetails(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return contract, nil
}

func (s *ContractService) List(ctx context.Context, query *repository.ContractQuery) ([]models.LeaseContract, int64, error) {
	return s.repo.List(ctx, query)
}

// Issue drafts a contract from a confirmed lease request. The lessee is
// the company named in the input, or the requester's linked company when
// none is named; a company without an account link gets bound to the
// requester on first issue. The monthly payment must not fall below the
// equipment's minimum rate. At most one contract per request ever
// exists, enforced by the unique index on lease_request_id.
func (s *ContractService) Issue(ctx context.Context, managerID uint, input IssueContractInput) (*models.LeaseContract, error) {
	actor, err := s.accountRepo.FindByID(ctx, managerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !actor.CanIssueContracts() {
		return nil, ErrUnauthorized
	}

	request, err := s.requestRepo.FindByIDWithDetails(ctx, input.LeaseRequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if request.Status != models.LeaseRequestStatusConfirmed {
		return nil, ErrRequestNotConfirmed
	}

	company, err := s.resolveCompany(ctx, input.CompanyID, request.AccountID)
	if err != nil {
		return nil, err
	}

	if input.LeaseTermMonths < 1 || input.LeaseTermMonths > 120 {
		return nil, ErrInvalidTerm
	}
	if input.MonthlyPayment <= 0 || input.AdvancePayment < 0 {
		return nil, ErrInvalidAmount
	}
	if input.MonthlyPayment < request.Equipment.MinimumMonthlyPayment() {
		return nil, ErrBelowMinimumRate
	}

	requestID := input.LeaseRequestID
	contract := &models.LeaseContract{
		CompanyID:       company.ID,
		EquipmentID:     request.EquipmentID,
		StartDate:       input.StartDate,
		LeaseTermMonths: input.LeaseTermMonths,
		MonthlyPayment:  input.MonthlyPayment,
		AdvancePayment:  input.AdvancePayment,
		PaymentDay:      input.PaymentDay,
		Status:          models.ContractStatusDraft,
		CreatedByID:     &managerID,
		LeaseRequestID:  &requestID,
	}
	contract.EndDate = contract.ComputeEndDate()
	contract.TotalAmount = contract.ComputeTotalAmount()

	if err := s.repo.Issue(ctx, contract); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrContractAlreadyExists
		}
		return nil, err
	}

	s.publish(ctx, requestID, events.KindContractIssued, map[string]any{
		"contract_id":     contract.ID,
		"contract_number": contract.ContractNumber,
	})

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyAccount(ctx, request.AccountID,
			"Договор подготовлен",
			fmt.Sprintf("По вашей заявке №%d подготовлен договор %s. Договор ожидает подписания.", requestID, contract.ContractNumber),
			models.NotificationTypeContractIssued)
	})

	return contract, nil
}

// resolveCompany picks the lessee for a new contract. An explicit
// companyID wins over the requester's linked company. An explicitly
// named company without an account link gets bound to the requester so
// the client can sign and track the contract.
func (s *ContractService) resolveCompany(ctx context.Context, companyID, requesterID uint) (*models.Company, error) {
	if companyID == 0 {
		company, err := s.companyRepo.FindByAccount(ctx, requesterID)
		if err != nil {
			return nil, err
		}
		if company == nil {
			return nil, ErrCompanyRequired
		}
		return company, nil
	}

	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if company.AccountID == nil {
		if err := s.companyRepo.LinkToAccount(ctx, company.ID, requesterID); err != nil {
			return nil, err
		}
		owner := requesterID
		company.AccountID = &owner
	}
	return company, nil
}

// Sign records the client's signature and activates the contract. The
// signature claim is a conditional update, so of two concurrent signers
// exactly one wins and only the winner's payment schedule is stored.
func (s *ContractService) Sign(ctx context.Context, id, accountID uint) (*models.LeaseContract, error) {
	contract, err := s.FindByIDWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if !contract.IsOwnedBy(accountID) {
		return nil, ErrNotOwner
	}
	if contract.IsSigned() {
		return nil, ErrAlreadySigned
	}

	cfsm := statemachine.NewContractFSM(contract)
	if err := cfsm.Sign(ctx); err != nil {
		return nil, ErrInvalidTransition
	}

	entries, err := s.paymentSchedule.GenerateSchedule(ctx, contract)
	if err != nil {
		return nil, err
	}

	// The signature claim and the schedule insert commit together; a
	// failure on either side leaves the contract unsigned and
	// retryable.
	now := time.Now()
	won, err := s.repo.MarkSigned(ctx, id, map[string]interface{}{
		"status":       models.ContractStatusActive,
		"signed_at":    now,
		"signed_by_id": accountID,
	}, entries)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, ErrAlreadySigned
	}
	contract.SignedAt = &now
	contract.SignedByID = &accountID
	contract.Payments = entries

	if contract.LeaseRequestID != nil {
		s.publish(ctx, *contract.LeaseRequestID, events.KindContractSigned, map[string]any{
			"contract_id": contract.ID,
		})
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyManagers(ctx,
			"Договор подписан",
			fmt.Sprintf("Клиент подписал договор %s", contract.ContractNumber),
			models.NotificationTypeContractSigned)
	})

	return contract, nil
}

// Complete closes an active contract once every installment is settled
func (s *ContractService) Complete(ctx context.Context, id uint) (*models.LeaseContract, error) {
	contract, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	cfsm := statemachine.NewContractFSM(contract)
	if err := cfsm.Complete(ctx); err != nil {
		return nil, ErrInvalidTransition
	}

	unpaid, err := s.paymentRepo.CountUnpaid(ctx, id)
	if err != nil {
		return nil, err
	}
	if unpaid > 0 {
		return nil, ErrUnpaidInstallments
	}

	ok, err := s.repo.UpdateStatusIf(ctx, id,
		models.ContractStatusActive, models.ContractStatusCompleted, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidTransition
	}

	s.notifyClosed(ctx, contract, "завершён")
	return contract, nil
}

// Terminate ends an active contract early. Remaining pending
// installments are cancelled.
func (s *ContractService) Terminate(ctx context.Context, id uint) (*models.LeaseContract, error) {
	contract, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	cfsm := statemachine.NewContractFSM(contract)
	if err := cfsm.Terminate(ctx); err != nil {
		return nil, ErrInvalidTransition
	}

	ok, err := s.repo.UpdateStatusIf(ctx, id,
		models.ContractStatusActive, models.ContractStatusTerminated, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidTransition
	}

	if _, err := s.paymentRepo.CancelPending(ctx, id); err != nil {
		return nil, err
	}

	s.notifyClosed(ctx, contract, "расторгнут")
	return contract, nil
}

func (s *ContractService) notifyClosed(ctx context.Context, contract *models.LeaseContract, verb string) {
	kind := events.KindContractCompleted
	if contract.Status == models.ContractStatusTerminated {
		kind = events.KindContractTerminated
	}
	if contract.LeaseRequestID != nil {
		s.publish(ctx, *contract.LeaseRequestID, kind, map[string]any{
			"contract_id": contract.ID,
		})
	}

	accountID := contract.Company.AccountID
	if accountID == nil {
		return
	}
	ownerID := *accountID
	number := contract.ContractNumber
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyAccount(ctx, ownerID,
			"Договор закрыт",
			fmt.Sprintf("Договор %s %s", number, verb),
			models.NotificationTypeContractClosed)
	})
}

func (s *ContractService) publish(ctx context.Context, requestID uint, kind string, payload map[string]any) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ctx, events.RequestTopic(requestID), events.NewEvent(kind, requestID, payload))
}
