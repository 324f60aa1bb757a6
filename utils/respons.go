package utils

import (
	"errors"

	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status  bool         `json:"status"`
	Message string       `json:"message"`
	Data    interface{}  `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// RespondError writes err as the message of a failed response without
// aborting the chain.
func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    nil,
	})
}

// RespondAppError picks the status from the error taxonomy, attaches
// field details for validation failures and logs store failures in full.
func RespondAppError(c *gin.Context, err error) {
	code := StatusFor(err)
	resp := JSONResponse{Status: false, Message: err.Error()}

	var verr *ValidationError
	if errors.As(err, &verr) {
		resp.Message = ErrValidation.Error()
		resp.Errors = verr.Fields
	}

	var sf *StoreFailure
	if errors.As(err, &sf) {
		ErrorLogger.WithError(sf.Err).
			WithField("path", c.Request.URL.Path).
			Error("store operation failed")
	}

	c.AbortWithStatusJSON(code, resp)
}
