package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/leasegrow/leasegrow-api/internal/middleware"
	"github.com/leasegrow/leasegrow-api/internal/models"
	"github.com/leasegrow/leasegrow-api/internal/repository"
	"github.com/leasegrow/leasegrow-api/internal/services"
)

type MaintenanceHandler struct {
	maintenanceService *services.MaintenanceService
}

func NewMaintenanceHandler(maintenanceService *services.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{maintenanceService: maintenanceService}
}

type createMaintenanceInput struct {
	ContractID  uint   `json:"contract_id" binding:"required"`
	Description string `json:"description" binding:"required"`
	Urgency     string `json:"urgency"`
}

type logEntryInput struct {
	EquipmentID         uint     `json:"equipment_id" binding:"required"`
	Type                string   `json:"type" binding:"required"`
	Description         string   `json:"description" binding:"required"`
	Cost                *float64 `json:"cost"`
	PerformedAt         string   `json:"performed_at"`
	NextMaintenanceDate string   `json:"next_maintenance_date"`
	ServiceCompany      string   `json:"service_company"`
}

// @Summary List Maintenance Requests
// @Description Get a paginated list of maintenance requests (own for clients, all for managers)
// @Tags Maintenance
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Param urgency query string false "Filter by urgency"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /maintenance_requests [get]
func (h *MaintenanceHandler) Index(c *gin.Context) {
	query := &repository.MaintenanceQuery{ListQuery: repository.NewListQuery()}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.Status = c.Query("status")
	query.Urgency = c.Query("urgency")
	if equipmentID, err := strconv.ParseUint(c.Query("equipment_id"), 10, 32); err == nil {
		query.EquipmentID = uint(equipmentID)
	}
	query.AccountID = middleware.GetAccountID(c)
	query.IsPrivileged = middleware.IsPrivileged(c)

	requests, total, err := h.maintenanceService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for _, request := range requests {
		responses = append(responses, request.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"maintenance_requests": responses,
		"pagination": gin.H{
			"page":     query.Page,
			"per_page": query.PerPage,
			"total":    total,
		},
	})
}

// @Summary Get Maintenance Request
// @Description Get a maintenance request by ID
// @Tags Maintenance
// @Produce json
// @Param request_id path int true "Maintenance Request ID"
// @Success 200 {object} models.MaintenanceRequestResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /maintenance_requests/{request_id} [get]
func (h *MaintenanceHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("request_id"), 10, 32)
	request, err := h.maintenanceService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	if !middleware.IsPrivileged(c) && !request.IsOwnedBy(middleware.GetAccountID(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": services.ErrNotOwner.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"maintenance_request": request.ToResponse()})
}

// @Summary Create Maintenance Request
// @Description Report a problem with the equipment of one of your lease contracts
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param request body createMaintenanceInput true "Request Data"
// @Success 201 {object} models.MaintenanceRequestResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /maintenance_requests [post]
func (h *MaintenanceHandler) Create(c *gin.Context) {
	var input createMaintenanceInput
	if err := BindNestedOrFlat(c, "maintenance_request", &input); err != nil || input.ContractID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Не указан договор"})
		return
	}

	request, err := h.maintenanceService.Create(c.Request.Context(),
		middleware.GetAccountID(c), input.ContractID, input.Description, input.Urgency)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"maintenance_request": request.ToResponse()})
}

// @Summary Start Maintenance
// @Description Take a new maintenance request into work (manager only)
// @Tags Maintenance
// @Produce json
// @Param request_id path int true "Maintenance Request ID"
// @Success 200 {object} models.MaintenanceRequestResponse
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /maintenance_requests/{request_id}/start [post]
func (h *MaintenanceHandler) Start(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("request_id"), 10, 32)

	request, err := h.maintenanceService.Start(c.Request.Context(), uint(id), middleware.GetAccountID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"maintenance_request": request.ToResponse()})
}

// @Summary Complete Maintenance
// @Description Complete an in-progress maintenance request (manager only)
// @Tags Maintenance
// @Produce json
// @Param request_id path int true "Maintenance Request ID"
// @Success 200 {object} models.MaintenanceRequestResponse
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /maintenance_requests/{request_id}/complete [post]
func (h *MaintenanceHandler) Complete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("request_id"), 10, 32)

	request, err := h.maintenanceService.Complete(c.Request.Context(), uint(id), middleware.GetAccountID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"maintenance_request": request.ToResponse()})
}

// @Summary Cancel Maintenance
// @Description Cancel a maintenance request that is not yet completed (manager only)
// @Tags Maintenance
// @Produce json
// @Param request_id path int true "Maintenance Request ID"
// @Success 200 {object} models.MaintenanceRequestResponse
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /maintenance_requests/{request_id}/cancel [post]
func (h *MaintenanceHandler) Cancel(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("request_id"), 10, 32)

	request, err := h.maintenanceService.Cancel(c.Request.Context(), uint(id), middleware.GetAccountID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"maintenance_request": request.ToResponse()})
}

// @Summary Record Service Log Entry
// @Description Record a maintenance log entry for a unit of equipment (manager only)
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param request body logEntryInput true "Log Entry Data"
// @Success 201 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /maintenance_log [post]
func (h *MaintenanceHandler) RecordLogEntry(c *gin.Context) {
	var input logEntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	accountID := middleware.GetAccountID(c)
	entry := &models.Maintenance{
		EquipmentID:    input.EquipmentID,
		Type:           input.Type,
		Description:    input.Description,
		Cost:           input.Cost,
		ServiceCompany: input.ServiceCompany,
		CreatedByID:    &accountID,
	}
	if input.PerformedAt != "" {
		performedAt, err := time.Parse("2006-01-02", input.PerformedAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат даты, ожидается ГГГГ-ММ-ДД"})
			return
		}
		entry.PerformedAt = performedAt
	}
	if input.NextMaintenanceDate != "" {
		next, err := time.Parse("2006-01-02", input.NextMaintenanceDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат даты, ожидается ГГГГ-ММ-ДД"})
			return
		}
		entry.NextMaintenanceDate = &next
	}

	if err := h.maintenanceService.RecordLogEntry(c.Request.Context(), entry); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Запись в журнал обслуживания добавлена"})
}
