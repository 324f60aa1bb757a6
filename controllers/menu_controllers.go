package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/yeremiapane/kokum-coast/database"
	"github.com/yeremiapane/kokum-coast/models"
	"github.com/yeremiapane/kokum-coast/services"
	"github.com/yeremiapane/kokum-coast/utils"
)

// Upload limit for menu spreadsheets.
const maxImportBytes = 5 << 20

type MenuController struct {
	Store    database.Store
	Seeder   *services.SeedService
	Importer *services.MenuImportService
	now      func() time.Time
}

func NewMenuController(store database.Store) *MenuController {
	return &MenuController{
		Store:    store,
		Seeder:   services.NewSeedService(store),
		Importer: services.NewMenuImportService(store),
		now:      time.Now,
	}
}

// GetAllMenus lists menu items by name, optionally for one category.
func (mc *MenuController) GetAllMenus(c *gin.Context) {
	filter := bson.M{}
	if category := c.Query("category"); category != "" {
		filter["category"] = category
	}

	ctx := c.Request.Context()
	cur, err := mc.Store.Collection(models.MenuCollection).Find(ctx, filter, database.FindOptions{
		Sort: bson.D{{Key: "name", Value: 1}},
	})
	if err != nil {
		respondStoreError(c, err)
		return
	}
	docs, err := database.DecodeAll(ctx, cur)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.SerializeDocs(docs))
}

// CreateMenu (admin)
func (mc *MenuController) CreateMenu(c *gin.Context) {
	var item models.MenuItem
	if !bindJSON(c, &item) {
		return
	}
	item.Prepare(mc.now())

	id, err := mc.Store.Collection(models.MenuCollection).InsertOne(c.Request.Context(), &item)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// DeleteMenu (admin). Orders that reference the item are left alone.
func (mc *MenuController) DeleteMenu(c *gin.Context) {
	filter, ok := idFilter(c)
	if !ok {
		return
	}
	deleted, err := mc.Store.Collection(models.MenuCollection).DeleteOne(c.Request.Context(), filter)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	if deleted == 0 {
		utils.RespondAppError(c, utils.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// SeedMenu (admin) inserts the sample menu into an empty collection.
func (mc *MenuController) SeedMenu(c *gin.Context) {
	res, err := mc.Seeder.SeedMenu(c.Request.Context())
	if err != nil {
		respondStoreError(c, err)
		return
	}
	if res.AlreadySeeded {
		c.JSON(http.StatusOK, gin.H{"message": "Menu already seeded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"inserted": res.Inserted})
}

// ImportMenu (admin) bulk-creates menu items from an xlsx upload.
func (mc *MenuController) ImportMenu(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.RespondAppError(c, &utils.ValidationError{Fields: []utils.FieldError{{
			Field: "file", Rule: "required", Message: "an xlsx file is required",
		}}})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		utils.RespondAppError(c, utils.ErrBadRequest)
		return
	}
	defer file.Close()

	inserted, err := mc.Importer.Import(c.Request.Context(), file)
	if err != nil {
		var sf *utils.StoreFailure
		if errors.As(err, &sf) {
			utils.InfoLogger.Printf("Menu import stopped after %d rows", inserted)
		}
		utils.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inserted": inserted})
}
