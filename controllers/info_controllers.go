package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/kokum-coast/database"
	"github.com/yeremiapane/kokum-coast/utils"
)

type InfoController struct {
	Store database.Store
}

func NewInfoController(store database.Store) *InfoController {
	return &InfoController{Store: store}
}

// RestaurantInfo is the static metadata served by /api/info.
var RestaurantInfo = gin.H{
	"name":    "Kokum & Coast – Coastal Maharashtra, Reimagined",
	"address": "Shop No. 12, Colaba Causeway, Colaba, Mumbai 400005",
	"phone":   "+91-22-4000-1234",
	"email":   "hello@kokumandcoast.in",
	"hours": gin.H{
		"mon": "11:00–23:00",
		"tue": "11:00–23:00",
		"wed": "11:00–23:00",
		"thu": "11:00–23:00",
		"fri": "11:00–23:30",
		"sat": "09:00–23:30",
		"sun": "09:00–22:30",
	},
	"socials": gin.H{
		"instagram": "https://instagram.com/kokumandcoast",
		"facebook":  "https://facebook.com/kokumandcoast",
		"twitter":   "https://twitter.com/kokumandcoast",
	},
}

func (ic *InfoController) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Kokum & Coast API running"})
}

func (ic *InfoController) GetInfo(c *gin.Context) {
	c.JSON(http.StatusOK, RestaurantInfo)
}

// Health pings the store and lists its collections.
func (ic *InfoController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := ic.Store.Ping(ctx); err != nil {
		utils.ErrorLogger.WithError(err).Error("health check: store ping failed")
		utils.RespondError(c, http.StatusServiceUnavailable, utils.NewStoreFailure(err))
		return
	}

	names, err := ic.Store.CollectionNames(ctx)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"database":    ic.Store.Name(),
		"collections": names,
	})
}
