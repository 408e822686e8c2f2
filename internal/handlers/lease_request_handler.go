package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/leasegrow/leasegrow-api/internal/middleware"
	"github.com/leasegrow/leasegrow-api/internal/repository"
	"github.com/leasegrow/leasegrow-api/internal/services"
)

type LeaseRequestHandler struct {
	requestService *services.LeaseRequestService
}

func NewLeaseRequestHandler(requestService *services.LeaseRequestService) *LeaseRequestHandler {
	return &LeaseRequestHandler{requestService: requestService}
}

type createLeaseRequestInput struct {
	EquipmentID uint   `json:"equipment_id" binding:"required"`
	Message     string `json:"message"`
}

type managerNotesInput struct {
	Notes string `json:"notes"`
}

// @Summary List Lease Requests
// @Description Get a paginated list of lease requests (own for clients, all for managers)
// @Tags LeaseRequests
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Param search_term query string false "Search term"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /lease_requests [get]
func (h *LeaseRequestHandler) Index(c *gin.Context) {
	query := &repository.LeaseRequestQuery{ListQuery: repository.NewListQuery()}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.Status = c.Query("status")
	if equipmentID, err := strconv.ParseUint(c.Query("equipment_id"), 10, 32); err == nil {
		query.EquipmentID = uint(equipmentID)
	}
	query.AccountID = middleware.GetAccountID(c)
	query.IsPrivileged = middleware.IsPrivileged(c)

	requests, total, err := h.requestService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for _, request := range requests {
		responses = append(responses, request.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"lease_requests": responses,
		"pagination": gin.H{
			"page":     query.Page,
			"per_page": query.PerPage,
			"total":    total,
		},
	})
}

// @Summary Get Lease Request
// @Description Get a lease request by ID
// @Tags LeaseRequests
// @Produce json
// @Param request_id path int true "Lease Request ID"
// @Success 200 {object} models.LeaseRequestResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /lease_requests/{request_id} [get]
func (h *LeaseRequestHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("request_id"), 10, 32)
	request, err := h.requestService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	if !middleware.IsPrivileged(c) && !request.IsOwnedBy(middleware.GetAccountID(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": services.ErrNotOwner.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"lease_request": request.ToResponse()})
}

// @Summary Create Lease Request
// @Description Submit a new lease request for a unit of equipment
// @Tags LeaseRequests
// @Accept json
// @Produce json
// @Param request body createLeaseRequestInput true "Request Data"
// @Success 201 {object} models.LeaseRequestResponse
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /lease_requests [post]
func (h *LeaseRequestHandler) Create(c *gin.Context) {
	var input createLeaseRequestInput
	if err := BindNestedOrFlat(c, "lease_request", &input); err != nil || input.EquipmentID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Не указано оборудование"})
		return
	}

	request, err := h.requestService.Create(c.Request.Context(),
		middleware.GetAccountID(c), input.EquipmentID, input.Message)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"lease_request": request.ToResponse()})
}

// @Summary Confirm Lease Request
// @Description Confirm a pending lease request (manager only)
// @Tags LeaseRequests
// @Accept json
// @Produce json
// @Param request_id path int true "Lease Request ID"
// @Param request body managerNotesInput false "Manager Notes"
// @Success 200 {object} models.LeaseRequestResponse
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /lease_requests/{request_id}/confirm [post]
func (h *LeaseRequestHandler) Confirm(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("request_id"), 10, 32)
	var input managerNotesInput
	_ = c.ShouldBindJSON(&input)

	request, err := h.requestService.Confirm(c.Request.Context(),
		uint(id), middleware.GetAccountID(c), input.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"lease_request": request.ToResponse()})
}

// @Summary Reject Lease Request
// @Description Reject a pending lease request (manager only)
// @Tags LeaseRequests
// @Accept json
// @Produce json
// @Param request_id path int true "Lease Request ID"
// @Param request body managerNotesInput false "Manager Notes"
// @Success 200 {object} models.LeaseRequestResponse
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /lease_requests/{request_id}/reject [post]
func (h *LeaseRequestHandler) Reject(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("request_id"), 10, 32)
	var input managerNotesInput
	_ = c.ShouldBindJSON(&input)

	request, err := h.requestService.Reject(c.Request.Context(),
		uint(id), middleware.GetAccountID(c), input.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"lease_request": request.ToResponse()})
}

// @Summary Cancel Lease Request
// @Description Cancel an own lease request while no contract exists for it
// @Tags LeaseRequests
// @Produce json
// @Param request_id path int true "Lease Request ID"
// @Success 200 {object} models.LeaseRequestResponse
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /lease_requests/{request_id}/cancel [post]
func (h *LeaseRequestHandler) Cancel(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("request_id"), 10, 32)

	request, err := h.requestService.Cancel(c.Request.Context(),
		uint(id), middleware.GetAccountID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"lease_request": request.ToResponse()})
}
