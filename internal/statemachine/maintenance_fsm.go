package statemachine

import (
	"context"
	"fmt"

	"github.com/leasegrow/leasegrow-api/internal/models"
	"github.com/looplab/fsm"
)

// MaintenanceFSM wraps a maintenance request with its state machine
type MaintenanceFSM struct {
	request *models.MaintenanceRequest
	fsm     *fsm.FSM
}

// NewMaintenanceFSM creates a new maintenance request state machine
func NewMaintenanceFSM(request *models.MaintenanceRequest) *MaintenanceFSM {
	mfsm := &MaintenanceFSM{
		request: request,
	}

	mfsm.fsm = fsm.NewFSM(
		request.Status,
		fsm.Events{
			// new → in_progress (manager picks the ticket up)
			{Name: "start", Src: []string{models.MaintenanceStatusNew}, Dst: models.MaintenanceStatusInProgress},

			// in_progress → completed
			{Name: "complete", Src: []string{models.MaintenanceStatusInProgress}, Dst: models.MaintenanceStatusCompleted},

			// new/in_progress → cancelled
			{Name: "cancel", Src: []string{models.MaintenanceStatusNew, models.MaintenanceStatusInProgress}, Dst: models.MaintenanceStatusCancelled},
		},
		fsm.Callbacks{},
	)

	return mfsm
}

// Start transitions the request to in_progress state
func (m *MaintenanceFSM) Start(ctx context.Context) error {
	if !m.request.MayStart() {
		return fmt.Errorf("maintenance request cannot be started in current state: %s", m.request.Status)
	}

	if err := m.fsm.Event(ctx, "start"); err != nil {
		return fmt.Errorf("failed to start maintenance request: %w", err)
	}

	m.request.Status = m.fsm.Current()
	return nil
}

// Complete transitions the request to completed state
func (m *MaintenanceFSM) Complete(ctx context.Context) error {
	if !m.request.MayComplete() {
		return fmt.Errorf("maintenance request cannot be completed in current state: %s", m.request.Status)
	}

	if err := m.fsm.Event(ctx, "complete"); err != nil {
		return fmt.Errorf("failed to complete maintenance request: %w", err)
	}

	m.request.Status = m.fsm.Current()
	return nil
}

// Cancel transitions the request to cancelled state
func (m *MaintenanceFSM) Cancel(ctx context.Context) error {
	if !m.request.MayCancel() {
		return fmt.Errorf("maintenance request cannot be cancelled in current state: %s", m.request.Status)
	}

	if err := m.fsm.Event(ctx, "cancel"); err != nil {
		return fmt.Errorf("failed to cancel maintenance request: %w", err)
	}

	m.request.Status = m.fsm.Current()
	return nil
}

// Current returns the current state
func (m *MaintenanceFSM) Current() string {
	return m.fsm.Current()
}

// Can checks if a transition is possible
func (m *MaintenanceFSM) Can(event string) bool {
	return m.fsm.Can(event)
}
