package utils

import (
	"errors"
	"net/http"

	"zapdash/internal/api/dto/common"
	"zapdash/internal/api/validation"
	"zapdash/internal/logging"
	"zapdash/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// HandleAPIError maps an error to the uniform error envelope. Service
// sentinel errors carry their own descriptive message and status; anything
// else falls back to the handler-provided code and message, with details
// exposed only outside release mode.
func HandleAPIError(c *gin.Context, err error, defaultCode common.ErrorCode, defaultMessage string) {
	var bindingErrs validator.ValidationErrors
	if errors.As(err, &bindingErrs) {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(
			common.ErrCodeValidation, defaultMessage, validation.FormatValidationError(bindingErrs)))
		return
	}

	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.ErrCodeValidation, err.Error(), nil))
		return
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, common.NewErrorResponse(common.ErrCodeForbidden, err.Error(), nil))
		return
	case errors.Is(err, service.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, common.NewErrorResponse(common.ErrCodeNotFound, err.Error(), nil))
		return
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, common.NewErrorResponse(common.ErrCodeConflict, err.Error(), nil))
		return
	case errors.Is(err, service.ErrTokenMissing):
		// Data-integrity failure: surfaced verbatim so the operator knows to
		// recreate the connection.
		c.JSON(http.StatusConflict, common.NewErrorResponse(common.ErrCodeConflict, err.Error(), nil))
		return
	}

	status := statusForCode(defaultCode)
	logging.GetGlobalLogger().LogHTTPError(
		c.Request.Method,
		c.Request.URL.Path,
		c.ClientIP(),
		status,
		defaultMessage,
		err,
	)

	var details interface{}
	if gin.Mode() != gin.ReleaseMode && err != nil {
		details = err.Error()
	}

	c.JSON(status, common.NewErrorResponse(defaultCode, defaultMessage, details))
}

func statusForCode(code common.ErrorCode) int {
	switch code {
	case common.ErrCodeValidation, common.ErrCodeBadRequest:
		return http.StatusBadRequest
	case common.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case common.ErrCodeForbidden:
		return http.StatusForbidden
	case common.ErrCodeNotFound:
		return http.StatusNotFound
	case common.ErrCodeTooManyRequests:
		return http.StatusTooManyRequests
	case common.ErrCodeGateway:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
