package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/nextgen-hub/studenthub/internal"
	"github.com/nextgen-hub/studenthub/internal/response"
)

func HandleError(c *gin.Context, logger internal.Logger, err error, status int, msg string) {
	requestID := c.GetString("request_id")
	if status >= 500 {
		logger.Errorf("[request_id=%s] %s: %v", requestID, msg, err)
	} else {
		logger.Warnf("[request_id=%s] %s: %v", requestID, msg, err)
	}
	var resp response.APIResponse
	switch status {
	case 400:
		resp = response.BadRequest(msg + ": " + err.Error())
	case 404:
		resp = response.NotFound(msg + ": " + err.Error())
	case 409:
		resp = response.Conflict(msg + ": " + err.Error())
	case 500:
		resp = response.InternalError(msg + ": " + err.Error())
	default:
		resp = response.NewAppError(status, msg+": "+err.Error())
	}
	c.JSON(status, resp)
}

// HandleServiceError is HandleError with the status derived from err.
func HandleServiceError(c *gin.Context, logger internal.Logger, err error, msg string) {
	HandleError(c, logger, err, statusFor(err), msg)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, internal.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, internal.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, internal.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func HandleSuccess(c *gin.Context, logger internal.Logger, data interface{}, meta map[string]any) {
	requestID := c.GetString("request_id")
	logger.Infof("[request_id=%s] Success", requestID)
	c.JSON(http.StatusOK, response.Success(data, meta))
}

func HandleCreated(c *gin.Context, logger internal.Logger, data interface{}, meta map[string]any) {
	requestID := c.GetString("request_id")
	logger.Infof("[request_id=%s] Created", requestID)
	c.JSON(http.StatusCreated, response.Success(data, meta))
}
