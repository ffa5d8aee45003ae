package controllers

import (
	"net/http"

	"salonbook-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type DashboardController struct {
	dashboard *services.DashboardService
	log       zerolog.Logger
}

func NewDashboardController(dashboard *services.DashboardService, log zerolog.Logger) *DashboardController {
	return &DashboardController{dashboard: dashboard, log: log}
}

func (dc *DashboardController) GetDashboardOverview(c *gin.Context) {
	overview, err := dc.dashboard.Overview(c.Request.Context())
	if err != nil {
		respondError(c, dc.log, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}
