package controllers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/yeremiapane/kokum-coast/database"
	"github.com/yeremiapane/kokum-coast/utils"
)

const defaultListLimit = 100

// bindJSON decodes and validates the request body.
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		utils.RespondAppError(c, utils.NewValidationError(err, ""))
		return false
	}
	return true
}

// idFilter reads the :id path parameter. A malformed id cannot match any
// document, so it is answered like a missing one.
func idFilter(c *gin.Context) (bson.M, bool) {
	filter, err := database.IDFilter(c.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrInvalidID) {
			utils.RespondAppError(c, utils.ErrNotFound)
		} else {
			utils.RespondAppError(c, err)
		}
		return nil, false
	}
	return filter, true
}

// listLimit reads ?limit=, which must be a positive integer.
func listLimit(c *gin.Context) (int64, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return defaultListLimit, true
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 1 {
		utils.RespondAppError(c, &utils.ValidationError{Fields: []utils.FieldError{{
			Field:   "limit",
			Rule:    "min",
			Message: fmt.Sprintf("must be a positive integer, got %q", raw),
		}}})
		return 0, false
	}
	return n, true
}

func respondStoreError(c *gin.Context, err error) {
	utils.RespondAppError(c, utils.NewStoreFailure(err))
}
