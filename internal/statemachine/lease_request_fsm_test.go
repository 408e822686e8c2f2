package statemachine

import (
	"context"
	"testing"

	"github.com/leasegrow/leasegrow-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestLeaseRequestFSMConfirm(t *testing.T) {
	request := &models.LeaseRequest{Status: models.LeaseRequestStatusPending}
	machine := NewLeaseRequestFSM(request)

	err := machine.Confirm(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, models.LeaseRequestStatusConfirmed, request.Status)
	assert.Equal(t, models.LeaseRequestStatusConfirmed, machine.Current())

	// Confirming twice is illegal
	err = machine.Confirm(context.Background())
	assert.Error(t, err)
}

func TestLeaseRequestFSMReject(t *testing.T) {
	request := &models.LeaseRequest{Status: models.LeaseRequestStatusPending}
	machine := NewLeaseRequestFSM(request)

	assert.NoError(t, machine.Reject(context.Background()))
	assert.Equal(t, models.LeaseRequestStatusRejected, request.Status)

	// A rejected request is terminal
	assert.Error(t, machine.Confirm(context.Background()))
	assert.Error(t, machine.Cancel(context.Background()))
}

func TestLeaseRequestFSMCancel(t *testing.T) {
	// Cancel is legal from pending and from confirmed
	for _, status := range []string{
		models.LeaseRequestStatusPending,
		models.LeaseRequestStatusConfirmed,
	} {
		request := &models.LeaseRequest{Status: status}
		machine := NewLeaseRequestFSM(request)
		assert.NoError(t, machine.Cancel(context.Background()))
		assert.Equal(t, models.LeaseRequestStatusCancelled, request.Status)
	}

	// But not from terminal states
	for _, status := range []string{
		models.LeaseRequestStatusRejected,
		models.LeaseRequestStatusCancelled,
	} {
		request := &models.LeaseRequest{Status: status}
		machine := NewLeaseRequestFSM(request)
		assert.Error(t, machine.Cancel(context.Background()))
		assert.Equal(t, status, request.Status)
	}
}

func TestLeaseRequestFSMCan(t *testing.T) {
	pending := NewLeaseRequestFSM(&models.LeaseRequest{Status: models.LeaseRequestStatusPending})
	assert.True(t, pending.Can("confirm"))
	assert.True(t, pending.Can("reject"))
	assert.True(t, pending.Can("cancel"))

	confirmed := NewLeaseRequestFSM(&models.LeaseRequest{Status: models.LeaseRequestStatusConfirmed})
	assert.False(t, confirmed.Can("confirm"))
	assert.False(t, confirmed.Can("reject"))
	assert.True(t, confirmed.Can("cancel"))
}
