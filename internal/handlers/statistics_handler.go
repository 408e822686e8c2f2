package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leasegrow/leasegrow-api/internal/services"
)

type StatisticsHandler struct {
	statisticsService *services.StatisticsService
	exportService     *services.ExportService
}

func NewStatisticsHandler(statisticsService *services.StatisticsService, exportService *services.ExportService) *StatisticsHandler {
	return &StatisticsHandler{
		statisticsService: statisticsService,
		exportService:     exportService,
	}
}

// @Summary Statistics Overview
// @Description Get aggregated marketplace figures: counts by status, contract value, paid and overdue totals (manager only)
// @Tags Statistics
// @Produce json
// @Success 200 {object} models.StatisticsOverview
// @Security BearerAuth
// @Router /statistics [get]
func (h *StatisticsHandler) Overview(c *gin.Context) {
	overview, err := h.statisticsService.Overview(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"statistics": overview})
}

// @Summary Export Statistics Report
// @Description Download the statistics overview as csv, xlsx or pdf (manager only)
// @Tags Statistics
// @Produce application/octet-stream
// @Param format query string false "Report format" Enums(csv, xlsx, pdf) default(csv)
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /statistics/export [get]
func (h *StatisticsHandler) Export(c *gin.Context) {
	overview, err := h.statisticsService.Overview(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var (
		data        []byte
		filename    string
		contentType string
	)
	switch c.DefaultQuery("format", "csv") {
	case "csv":
		data, filename, err = h.exportService.ExportCSV(c.Request.Context(), overview)
		contentType = "text/csv"
	case "xlsx":
		data, filename, err = h.exportService.ExportXLSX(c.Request.Context(), overview)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "pdf":
		data, filename, err = h.exportService.ExportPDF(c.Request.Context(), overview)
		contentType = "application/pdf"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неизвестный формат отчёта"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, contentType, data)
}
