package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		months   int
		expected time.Time
	}{
		{
			name:     "Simple Shift",
			start:    date(2026, time.March, 15),
			months:   1,
			expected: date(2026, time.April, 15),
		},
		{
			name:     "Clamp To February",
			start:    date(2026, time.January, 31),
			months:   1,
			expected: date(2026, time.February, 28),
		},
		{
			name:     "Clamp To Leap February",
			start:    date(2028, time.January, 31),
			months:   1,
			expected: date(2028, time.February, 29),
		},
		{
			name:     "Clamp To Thirty Day Month",
			start:    date(2026, time.March, 31),
			months:   1,
			expected: date(2026, time.April, 30),
		},
		{
			name:     "Year Rollover",
			start:    date(2026, time.November, 15),
			months:   3,
			expected: date(2027, time.February, 15),
		},
		{
			name:     "Full Term",
			start:    date(2026, time.January, 10),
			months:   24,
			expected: date(2028, time.January, 10),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AddMonths(tt.start, tt.months))
		})
	}
}

func TestFormatContractNumber(t *testing.T) {
	assert.Equal(t, "LG-2026-001", FormatContractNumber(2026, 1))
	assert.Equal(t, "LG-2026-042", FormatContractNumber(2026, 42))
	assert.Equal(t, "LG-2027-1000", FormatContractNumber(2027, 1000))
	assert.Equal(t, "LG-2026-", ContractNumberPrefix(2026))
}

func TestContractArithmetic(t *testing.T) {
	contract := &LeaseContract{
		StartDate:       date(2026, time.January, 31),
		LeaseTermMonths: 12,
		MonthlyPayment:  2500,
		AdvancePayment:  10000,
	}

	assert.Equal(t, 40000.0, contract.ComputeTotalAmount())
	assert.Equal(t, date(2027, time.January, 31), contract.ComputeEndDate())
}

func TestContractSigningGuards(t *testing.T) {
	now := time.Now()

	draft := &LeaseContract{Status: ContractStatusDraft}
	assert.True(t, draft.MaySign())
	assert.False(t, draft.IsSigned())

	signed := &LeaseContract{Status: ContractStatusDraft, SignedAt: &now}
	assert.False(t, signed.MaySign())
	assert.True(t, signed.IsSigned())

	active := &LeaseContract{Status: ContractStatusActive, SignedAt: &now}
	assert.False(t, active.MaySign())
	assert.True(t, active.MayComplete())
	assert.True(t, active.MayTerminate())

	completed := &LeaseContract{Status: ContractStatusCompleted, SignedAt: &now}
	assert.False(t, completed.MayComplete())
	assert.False(t, completed.MayTerminate())
}

func TestContractOwnership(t *testing.T) {
	accountID := uint(7)
	contract := &LeaseContract{
		Company: Company{ID: 3, AccountID: &accountID},
	}

	assert.True(t, contract.IsOwnedBy(7))
	assert.False(t, contract.IsOwnedBy(8))

	orphan := &LeaseContract{Company: Company{ID: 4}}
	assert.False(t, orphan.IsOwnedBy(7))
}
