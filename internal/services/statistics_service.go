package services

import (
	"context"
	"time"

	"github.com/leasegrow/leasegrow-api/internal/models"
	"github.com/leasegrow/leasegrow-api/internal/repository"
)

type StatisticsService struct {
	equipmentRepo   repository.EquipmentRepository
	companyRepo     repository.CompanyRepository
	requestRepo     repository.LeaseRequestRepository
	contractRepo    repository.ContractRepository
	paymentRepo     repository.PaymentRepository
	maintenanceRepo repository.MaintenanceRepository
}

func NewStatisticsService(
	equipmentRepo repository.EquipmentRepository,
	companyRepo repository.CompanyRepository,
	requestRepo repository.LeaseRequestRepository,
	contractRepo repository.ContractRepository,
	paymentRepo repository.PaymentRepository,
	maintenanceRepo repository.MaintenanceRepository,
) *StatisticsService {
	return &StatisticsService{
		equipmentRepo:   equipmentRepo,
		companyRepo:     companyRepo,
		requestRepo:     requestRepo,
		contractRepo:    contractRepo,
		paymentRepo:     paymentRepo,
		maintenanceRepo: maintenanceRepo,
	}
}

// Overview gathers the aggregate counters across the whole marketplace
func (s *StatisticsService) Overview(ctx context.Context) (*models.StatisticsOverview, error) {
	overview := &models.StatisticsOverview{GeneratedAt: time.Now()}

	var err error
	if overview.TotalEquipment, err = s.equipmentRepo.Count(ctx); err != nil {
		return nil, err
	}
	if overview.ActiveCompanies, err = s.companyRepo.Count(ctx); err != nil {
		return nil, err
	}
	if overview.RequestsByStatus, err = s.requestRepo.CountByStatus(ctx); err != nil {
		return nil, err
	}
	if overview.ContractsByStatus, err = s.contractRepo.CountByStatus(ctx); err != nil {
		return nil, err
	}
	if overview.PaymentsByStatus, err = s.paymentRepo.CountByStatus(ctx); err != nil {
		return nil, err
	}
	if overview.MaintenanceByStatus, err = s.maintenanceRepo.CountByStatus(ctx); err != nil {
		return nil, err
	}

	overview.ActiveContracts = overview.ContractsByStatus[models.ContractStatusActive]

	if overview.TotalContractValue, err = s.contractRepo.SumTotalAmount(ctx,
		models.ContractStatusActive, models.ContractStatusCompleted); err != nil {
		return nil, err
	}
	if overview.TotalPaid, err = s.paymentRepo.SumPaid(ctx); err != nil {
		return nil, err
	}
	if overview.TotalOverdue, err = s.paymentRepo.SumOverdue(ctx, time.Now()); err != nil {
		return nil, err
	}

	return overview, nil
}
