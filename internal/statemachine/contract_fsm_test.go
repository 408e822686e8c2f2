package statemachine

import (
	"context"
	"testing"

	"github.com/leasegrow/leasegrow-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestContractFSMSign(t *testing.T) {
	contract := &models.LeaseContract{Status: models.ContractStatusDraft}
	machine := NewContractFSM(contract)

	assert.NoError(t, machine.Sign(context.Background()))
	assert.Equal(t, models.ContractStatusActive, contract.Status)

	// Signing an active contract is illegal
	assert.Error(t, machine.Sign(context.Background()))
}

func TestContractFSMCompleteAndTerminate(t *testing.T) {
	contract := &models.LeaseContract{Status: models.ContractStatusActive}
	machine := NewContractFSM(contract)

	assert.NoError(t, machine.Complete(context.Background()))
	assert.Equal(t, models.ContractStatusCompleted, contract.Status)
	assert.Error(t, machine.Terminate(context.Background()))

	contract = &models.LeaseContract{Status: models.ContractStatusActive}
	machine = NewContractFSM(contract)

	assert.NoError(t, machine.Terminate(context.Background()))
	assert.Equal(t, models.ContractStatusTerminated, contract.Status)
	assert.Error(t, machine.Complete(context.Background()))
}

func TestContractFSMDraftIsNotClosable(t *testing.T) {
	machine := NewContractFSM(&models.LeaseContract{Status: models.ContractStatusDraft})
	assert.Error(t, machine.Complete(context.Background()))
	assert.Error(t, machine.Terminate(context.Background()))
	assert.Equal(t, models.ContractStatusDraft, machine.Current())
}
