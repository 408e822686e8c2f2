package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/leasegrow/leasegrow-api/internal/middleware"
	"github.com/leasegrow/leasegrow-api/internal/services"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

type outsideScheduleInput struct {
	ContractID uint    `json:"contract_id" binding:"required"`
	Amount     float64 `json:"amount" binding:"required"`
}

// @Summary Record Payment
// @Description Mark a scheduled installment as paid (contract owner or manager)
// @Tags Payments
// @Produce json
// @Param payment_id path int true "Payment ID"
// @Success 200 {object} models.PaymentScheduleResponse
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /payments/{payment_id}/record [post]
func (h *PaymentHandler) Record(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("payment_id"), 10, 32)

	payment, err := h.paymentService.RecordPayment(c.Request.Context(), uint(id), middleware.GetAccountID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": payment.ToResponse()})
}

// @Summary Record Outside-Schedule Payment
// @Description Record an extra payment outside the schedule for an active contract (contract owner or manager)
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body outsideScheduleInput true "Payment Data"
// @Success 201 {object} models.PaymentScheduleResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /payments/outside_schedule [post]
func (h *PaymentHandler) RecordOutsideSchedule(c *gin.Context) {
	var input outsideScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.paymentService.RecordOutsideSchedule(c.Request.Context(), input.ContractID, middleware.GetAccountID(c), input.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"payment": payment.ToResponse()})
}
