package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leasegrow/leasegrow-api/internal/events"
	"github.com/leasegrow/leasegrow-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health       *HealthHandler
	Equipment    *EquipmentHandler
	LeaseRequest *LeaseRequestHandler
	Contract     *ContractHandler
	Payment      *PaymentHandler
	Maintenance  *MaintenanceHandler
	Chat         *ChatHandler
	Notification *NotificationHandler
	Statistics   *StatisticsHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services, hub *events.Hub) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(),
		Equipment:    NewEquipmentHandler(svcs.Equipment, svcs.Maintenance),
		LeaseRequest: NewLeaseRequestHandler(svcs.LeaseRequest),
		Contract:     NewContractHandler(svcs.Contract, svcs.Payment),
		Payment:      NewPaymentHandler(svcs.Payment),
		Maintenance:  NewMaintenanceHandler(svcs.Maintenance),
		Chat:         NewChatHandler(svcs.Chat, hub),
		Notification: NewNotificationHandler(svcs.Notification),
		Statistics:   NewStatisticsHandler(svcs.Statistics, svcs.Export),
	}
}

// HealthHandler serves liveness checks
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// @Summary Health Check
// @Description Returns service health status
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError maps service errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrNotOwner),
		errors.Is(err, services.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrDuplicatePendingRequest),
		errors.Is(err, services.ErrContractAlreadyExists),
		errors.Is(err, services.ErrAlreadyContracted),
		errors.Is(err, services.ErrAlreadySigned),
		errors.Is(err, services.ErrAlreadyPaid),
		errors.Is(err, services.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, services.ErrEquipmentUnavailable),
		errors.Is(err, services.ErrCompanyRequired),
		errors.Is(err, services.ErrBelowMinimumRate),
		errors.Is(err, services.ErrInvalidTerm),
		errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidUrgency),
		errors.Is(err, services.ErrInvalidMaintenanceType),
		errors.Is(err, services.ErrRequestNotConfirmed),
		errors.Is(err, services.ErrUnpaidInstallments),
		errors.Is(err, services.ErrRequestClosed),
		errors.Is(err, services.ErrEmptyMessage):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
