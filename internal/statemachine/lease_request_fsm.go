package statemachine

import (
	"context"
	"fmt"

	"github.com/leasegrow/leasegrow-api/internal/models"
	"github.com/looplab/fsm"
)

// LeaseRequestFSM wraps a lease request with its state machine
type LeaseRequestFSM struct {
	request *models.LeaseRequest
	fsm     *fsm.FSM
}

// NewLeaseRequestFSM creates a new lease request state machine
func NewLeaseRequestFSM(request *models.LeaseRequest) *LeaseRequestFSM {
	lrfsm := &LeaseRequestFSM{
		request: request,
	}

	lrfsm.fsm = fsm.NewFSM(
		request.Status,
		fsm.Events{
			// pending → confirmed
			{Name: "confirm", Src: []string{models.LeaseRequestStatusPending}, Dst: models.LeaseRequestStatusConfirmed},

			// pending → rejected
			{Name: "reject", Src: []string{models.LeaseRequestStatusPending}, Dst: models.LeaseRequestStatusRejected},

			// pending/confirmed → cancelled
			{Name: "cancel", Src: []string{models.LeaseRequestStatusPending, models.LeaseRequestStatusConfirmed}, Dst: models.LeaseRequestStatusCancelled},
		},
		fsm.Callbacks{},
	)

	return lrfsm
}

// Confirm transitions the request to confirmed state
func (l *LeaseRequestFSM) Confirm(ctx context.Context) error {
	if !l.request.MayConfirm() {
		return fmt.Errorf("lease request cannot be confirmed in current state: %s", l.request.Status)
	}

	if err := l.fsm.Event(ctx, "confirm"); err != nil {
		return fmt.Errorf("failed to confirm lease request: %w", err)
	}

	l.request.Status = l.fsm.Current()
	return nil
}

// Reject transitions the request to rejected state
func (l *LeaseRequestFSM) Reject(ctx context.Context) error {
	if !l.request.MayReject() {
		return fmt.Errorf("lease request cannot be rejected in current state: %s", l.request.Status)
	}

	if err := l.fsm.Event(ctx, "reject"); err != nil {
		return fmt.Errorf("failed to reject lease request: %w", err)
	}

	l.request.Status = l.fsm.Current()
	return nil
}

// Cancel transitions the request to cancelled state
func (l *LeaseRequestFSM) Cancel(ctx context.Context) error {
	if !l.request.MayCancel() {
		return fmt.Errorf("lease request cannot be cancelled in current state: %s", l.request.Status)
	}

	if err := l.fsm.Event(ctx, "cancel"); err != nil {
		return fmt.Errorf("failed to cancel lease request: %w", err)
	}

	l.request.Status = l.fsm.Current()
	return nil
}

// Current returns the current state
func (l *LeaseRequestFSM) Current() string {
	return l.fsm.Current()
}

// Can checks if a transition is possible
func (l *LeaseRequestFSM) Can(event string) bool {
	return l.fsm.Can(event)
}
