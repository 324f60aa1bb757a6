package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/kokum-coast/database"
	"github.com/yeremiapane/kokum-coast/services"
)

type AdminController struct {
	Analytics *services.AnalyticsService
}

func NewAdminController(store database.Store) *AdminController {
	return &AdminController{Analytics: services.NewAnalyticsService(store)}
}

// GetAnalytics returns the top five items by quantity and the order
// count per day for the last week.
func (ac *AdminController) GetAnalytics(c *gin.Context) {
	report, err := ac.Analytics.Report(c.Request.Context())
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
