package services

import (
	"context"
	"fmt"
	"time"

	"github.com/leasegrow/leasegrow-api/internal/models"
)

// PaymentScheduleService handles payment schedule generation
type PaymentScheduleService struct{}

// NewPaymentScheduleService creates a new payment schedule service
func NewPaymentScheduleService() *PaymentScheduleService {
	return &PaymentScheduleService{}
}

// GenerateSchedule creates the installment plan for a signed contract.
// When the contract carries an advance payment it becomes entry 1, due
// on the start date; monthly installments follow on the contract's
// payment day, with the day clamped in short months.
func (s *PaymentScheduleService) GenerateSchedule(ctx context.Context, contract *models.LeaseContract) ([]models.PaymentSchedule, error) {
	if contract.MonthlyPayment <= 0 {
		return nil, fmt.Errorf("monthly payment is required")
	}
	if contract.LeaseTermMonths <= 0 {
		return nil, fmt.Errorf("lease term is required")
	}
	if contract.AdvancePayment < 0 {
		return nil, fmt.Errorf("advance payment cannot be negative")
	}

	var entries []models.PaymentSchedule
	number := 1

	// 1. Advance payment, due when the lease starts
	if contract.AdvancePayment > 0 {
		entries = append(entries, models.PaymentSchedule{
			ContractID:    contract.ID,
			PaymentNumber: number,
			DueDate:       contract.StartDate,
			Amount:        contract.AdvancePayment,
			Status:        models.PaymentStatusPending,
		})
		number++
	}

	// 2. Monthly installments. The first is due on the payment day of
	// the month after the start date.
	paymentDay := contract.PaymentDay
	if paymentDay < 1 || paymentDay > 31 {
		paymentDay = 1
	}
	anchor := firstOfMonth(contract.StartDate)
	for i := 1; i <= contract.LeaseTermMonths; i++ {
		month := models.AddMonths(anchor, i)
		entries = append(entries, models.PaymentSchedule{
			ContractID:    contract.ID,
			PaymentNumber: number,
			DueDate:       clampToMonth(month, paymentDay),
			Amount:        contract.MonthlyPayment,
			Status:        models.PaymentStatusPending,
		})
		number++
	}

	return entries, nil
}

// firstOfMonth truncates a date to the first day of its month
func firstOfMonth(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
}

// clampToMonth places day within the month of d, clamping to its last day
func clampToMonth(d time.Time, day int) time.Time {
	last := firstOfMonth(d).AddDate(0, 1, -1).Day()
	if day > last {
		day = last
	}
	return time.Date(d.Year(), d.Month(), day, 0, 0, 0, 0, d.Location())
}
