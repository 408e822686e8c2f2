package statemachine

import (
	"context"
	"fmt"

	"github.com/leasegrow/leasegrow-api/internal/models"
	"github.com/looplab/fsm"
)

// ContractFSM wraps a lease contract with its state machine
type ContractFSM struct {
	contract *models.LeaseContract
	fsm      *fsm.FSM
}

// NewContractFSM creates a new contract state machine
func NewContractFSM(contract *models.LeaseContract) *ContractFSM {
	cfsm := &ContractFSM{
		contract: contract,
	}

	cfsm.fsm = fsm.NewFSM(
		contract.Status,
		fsm.Events{
			// draft → active (client signature)
			{Name: "sign", Src: []string{models.ContractStatusDraft}, Dst: models.ContractStatusActive},

			// active → completed
			{Name: "complete", Src: []string{models.ContractStatusActive}, Dst: models.ContractStatusCompleted},

			// active → terminated
			{Name: "terminate", Src: []string{models.ContractStatusActive}, Dst: models.ContractStatusTerminated},
		},
		fsm.Callbacks{},
	)

	return cfsm
}

// Sign transitions the contract to active state
func (c *ContractFSM) Sign(ctx context.Context) error {
	if !c.contract.MaySign() {
		return fmt.Errorf("contract cannot be signed in current state: %s", c.contract.Status)
	}

	if err := c.fsm.Event(ctx, "sign"); err != nil {
		return fmt.Errorf("failed to sign contract: %w", err)
	}

	c.contract.Status = c.fsm.Current()
	return nil
}

// Complete transitions the contract to completed state
func (c *ContractFSM) Complete(ctx context.Context) error {
	if !c.contract.MayComplete() {
		return fmt.Errorf("contract cannot be completed in current state: %s", c.contract.Status)
	}

	if err := c.fsm.Event(ctx, "complete"); err != nil {
		return fmt.Errorf("failed to complete contract: %w", err)
	}

	c.contract.Status = c.fsm.Current()
	return nil
}

// Terminate transitions the contract to terminated state
func (c *ContractFSM) Terminate(ctx context.Context) error {
	if !c.contract.MayTerminate() {
		return fmt.Errorf("contract cannot be terminated in current state: %s", c.contract.Status)
	}

	if err := c.fsm.Event(ctx, "terminate"); err != nil {
		return fmt.Errorf("failed to terminate contract: %w", err)
	}

	c.contract.Status = c.fsm.Current()
	return nil
}

// Current returns the current state
func (c *ContractFSM) Current() string {
	return c.fsm.Current()
}

// Can checks if a transition is possible
func (c *ContractFSM) Can(event string) bool {
	return c.fsm.Can(event)
}
