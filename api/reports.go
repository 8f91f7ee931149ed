package api

import (
	"net/http"

	"github.com/Domenick1991/skybook/internal/service/reports"
	"github.com/gin-gonic/gin"
)

type ReportsHandler struct {
	service reports.ReportUseCase
}

func NewReportsHandler(service reports.ReportUseCase) *ReportsHandler {
	return &ReportsHandler{service: service}
}

func (h *ReportsHandler) Register(router *gin.RouterGroup) {
	router.GET("/reports", h.reports)
}

func (h *ReportsHandler) reports(c *gin.Context) {
	r, err := h.service.Reports(c.Request.Context())
	page := gin.H{}
	if r != nil {
		page["top_flights"] = r.TopFlights
		page["capacity_over_average"] = r.CapacityOverAvg
		page["bags_by_gate"] = r.BagsByGate
	}
	if err != nil {
		renderError(c, err, page)
		return
	}
	page["messages"] = messages(currentSession(c))
	c.JSON(http.StatusOK, page)
}
