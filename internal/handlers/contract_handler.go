package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/leasegrow/leasegrow-api/internal/middleware"
	"github.com/leasegrow/leasegrow-api/internal/repository"
	"github.com/leasegrow/leasegrow-api/internal/services"
)

type ContractHandler struct {
	contractService *services.ContractService
	paymentService  *services.PaymentService
}

func NewContractHandler(contractService *services.ContractService, paymentService *services.PaymentService) *ContractHandler {
	return &ContractHandler{
		contractService: contractService,
		paymentService:  paymentService,
	}
}

type issueContractInput struct {
	LeaseRequestID  uint    `json:"lease_request_id" binding:"required"`
	CompanyID       uint    `json:"company_id"`
	StartDate       string  `json:"start_date" binding:"required"`
	LeaseTermMonths int     `json:"lease_term_months" binding:"required"`
	MonthlyPayment  float64 `json:"monthly_payment" binding:"required"`
	AdvancePayment  float64 `json:"advance_payment"`
	PaymentDay      int     `json:"payment_day"`
}

// @Summary List Contracts
// @Description Get a paginated list of lease contracts (own for clients, all for managers)
// @Tags Contracts
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Param search_term query string false "Search term"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /contracts [get]
func (h *ContractHandler) Index(c *gin.Context) {
	query := &repository.ContractQuery{ListQuery: repository.NewListQuery()}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.Status = c.Query("status")
	if companyID, err := strconv.ParseUint(c.Query("company_id"), 10, 32); err == nil {
		query.CompanyID = uint(companyID)
	}
	query.AccountID = middleware.GetAccountID(c)
	query.IsPrivileged = middleware.IsPrivileged(c)

	contracts, total, err := h.contractService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for _, contract := range contracts {
		responses = append(responses, contract.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"contracts": responses,
		"pagination": gin.H{
			"page":     query.Page,
			"per_page": query.PerPage,
			"total":    total,
		},
	})
}

// @Summary Get Contract
// @Description Get a lease contract with its payment schedule
// @Tags Contracts
// @Produce json
// @Param contract_id path int true "Contract ID"
// @Success 200 {object} models.LeaseContractResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{contract_id} [get]
func (h *ContractHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("contract_id"), 10, 32)
	contract, err := h.contractService.FindByIDWithDetails(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	if !middleware.IsPrivileged(c) && !contract.IsOwnedBy(middleware.GetAccountID(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": services.ErrNotOwner.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"contract": contract.ToResponse()})
}

// @Summary Issue Contract
// @Description Issue a draft contract for a confirmed lease request (manager only)
// @Tags Contracts
// @Accept json
// @Produce json
// @Param request body issueContractInput true "Contract Terms"
// @Success 201 {object} models.LeaseContractResponse
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /contracts [post]
func (h *ContractHandler) Create(c *gin.Context) {
	var input issueContractInput
	if err := BindNestedOrFlat(c, "contract", &input); err != nil || input.LeaseRequestID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Не указана заявка на лизинг"})
		return
	}

	startDate, err := time.Parse("2006-01-02", input.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат даты начала, ожидается ГГГГ-ММ-ДД"})
		return
	}

	contract, err := h.contractService.Issue(c.Request.Context(),
		middleware.GetAccountID(c), services.IssueContractInput{
			LeaseRequestID:  input.LeaseRequestID,
			CompanyID:       input.CompanyID,
			StartDate:       startDate,
			LeaseTermMonths: input.LeaseTermMonths,
			MonthlyPayment:  input.MonthlyPayment,
			AdvancePayment:  input.AdvancePayment,
			PaymentDay:      input.PaymentDay,
		})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"contract": contract.ToResponse()})
}

// @Summary Sign Contract
// @Description Sign a draft contract as the owning client, activating it and generating the payment schedule
// @Tags Contracts
// @Produce json
// @Param contract_id path int true "Contract ID"
// @Success 200 {object} models.LeaseContractResponse
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{contract_id}/sign [post]
func (h *ContractHandler) Sign(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("contract_id"), 10, 32)

	contract, err := h.contractService.Sign(c.Request.Context(), uint(id), middleware.GetAccountID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contract": contract.ToResponse()})
}

// @Summary Complete Contract
// @Description Complete an active contract once all installments are paid (manager only)
// @Tags Contracts
// @Produce json
// @Param contract_id path int true "Contract ID"
// @Success 200 {object} models.LeaseContractResponse
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{contract_id}/complete [post]
func (h *ContractHandler) Complete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("contract_id"), 10, 32)

	contract, err := h.contractService.Complete(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contract": contract.ToResponse()})
}

// @Summary Terminate Contract
// @Description Terminate an active contract early, cancelling unpaid installments (manager only)
// @Tags Contracts
// @Produce json
// @Param contract_id path int true "Contract ID"
// @Success 200 {object} models.LeaseContractResponse
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{contract_id}/terminate [post]
func (h *ContractHandler) Terminate(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("contract_id"), 10, 32)

	contract, err := h.contractService.Terminate(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contract": contract.ToResponse()})
}

// @Summary Contract Payment Schedule
// @Description Get the payment schedule entries of a contract
// @Tags Contracts
// @Produce json
// @Param contract_id path int true "Contract ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{contract_id}/payments [get]
func (h *ContractHandler) Payments(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("contract_id"), 10, 32)
	contract, err := h.contractService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	if !middleware.IsPrivileged(c) && !contract.IsOwnedBy(middleware.GetAccountID(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": services.ErrNotOwner.Error()})
		return
	}

	payments, err := h.paymentService.FindByContract(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for _, payment := range payments {
		responses = append(responses, payment.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"payments": responses})
}
