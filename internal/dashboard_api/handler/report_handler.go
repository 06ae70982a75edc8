package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/collections-workflow/internal/dashboard_api/service"
)

// ReportHandler serves dashboard counters and portfolio KPIs
type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) Stats(c *gin.Context) {
	RespondOK(c, h.reportService.BasicStats(c.Request.Context()))
}

func (h *ReportHandler) Portfolio(c *gin.Context) {
	RespondOK(c, h.reportService.Portfolio(c.Request.Context()))
}
