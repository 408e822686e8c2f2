package events

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event is a structured notification about a lifecycle transition or a
// chat message, published to a topic. Delivery is fire-and-forget,
// at-most-once; state transitions never depend on it.
type Event struct {
	ID         string         `json:"id"`
	Kind       string         `json:"kind"`
	EntityID   uint           `json:"entity_id"`
	Payload    map[string]any `json:"payload,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// Event kind constants
const (
	KindRequestCreated        = "lease_request.created"
	KindRequestConfirmed      = "lease_request.confirmed"
	KindRequestRejected       = "lease_request.rejected"
	KindRequestCancelled      = "lease_request.cancelled"
	KindContractIssued        = "contract.issued"
	KindContractSigned        = "contract.signed"
	KindContractCompleted     = "contract.completed"
	KindContractTerminated    = "contract.terminated"
	KindPaymentRecorded       = "payment.recorded"
	KindPaymentOverdue        = "payment.overdue"
	KindMaintenanceCreated    = "maintenance.created"
	KindMaintenanceTransition = "maintenance.transition"
	KindChatMessage           = "chat.message"
)

// NewEvent builds an event with a fresh id and timestamp
func NewEvent(kind string, entityID uint, payload map[string]any) Event {
	return Event{
		ID:         uuid.NewString(),
		Kind:       kind,
		EntityID:   entityID,
		Payload:    payload,
		OccurredAt: time.Now(),
	}
}

// RequestTopic returns the topic for a lease request thread
func RequestTopic(requestID uint) string {
	return fmt.Sprintf("lease_request.%d", requestID)
}

// MaintenanceTopic returns the topic for a maintenance request thread
func MaintenanceTopic(requestID uint) string {
	return fmt.Sprintf("maintenance_request.%d", requestID)
}

// Publisher is the boundary the core pushes transition and chat events
// through. The in-process Hub implements it; a real deployment may swap
// in a websocket fan-out or a message broker.
type Publisher interface {
	Publish(ctx context.Context, topic string, event Event)
}
