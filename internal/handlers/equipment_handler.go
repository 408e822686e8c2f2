package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/leasegrow/leasegrow-api/internal/services"
)

type EquipmentHandler struct {
	equipmentService   *services.EquipmentService
	maintenanceService *services.MaintenanceService
}

func NewEquipmentHandler(equipmentService *services.EquipmentService, maintenanceService *services.MaintenanceService) *EquipmentHandler {
	return &EquipmentHandler{equipmentService: equipmentService, maintenanceService: maintenanceService}
}

// @Summary List Available Equipment
// @Description Get the catalog of equipment currently available for leasing
// @Tags Equipment
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /equipment [get]
func (h *EquipmentHandler) Index(c *gin.Context) {
	equipment, err := h.equipmentService.ListAvailable(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"equipment": equipment})
}

// @Summary Get Equipment
// @Description Get a unit of equipment by ID
// @Tags Equipment
// @Produce json
// @Param equipment_id path int true "Equipment ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /equipment/{equipment_id} [get]
func (h *EquipmentHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("equipment_id"), 10, 32)
	equipment, err := h.equipmentService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"equipment": equipment})
}

// @Summary Equipment Service Log
// @Description Get the maintenance history of a unit of equipment
// @Tags Equipment
// @Produce json
// @Param equipment_id path int true "Equipment ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /equipment/{equipment_id}/service_log [get]
func (h *EquipmentHandler) ServiceLog(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("equipment_id"), 10, 32)
	entries, err := h.maintenanceService.ServiceLog(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"service_log": entries})
}
