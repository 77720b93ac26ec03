package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusdesk/campusdesk/internal/shared/constants"
	"github.com/campusdesk/campusdesk/internal/shared/errors"
)

// APIResponse is the envelope every JSON endpoint answers with.
type APIResponse struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Message string     `json:"message,omitempty"`
}

type ErrorInfo struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data any) {
	c.JSON(statusCode, APIResponse{Success: true, Data: data, Message: message})
}

func CreatedResponse(c *gin.Context, data any, message ...string) {
	resp := APIResponse{Success: true, Data: data, Message: "Resource created successfully"}
	if len(message) > 0 {
		resp.Message = message[0]
	}
	c.JSON(http.StatusCreated, resp)
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Error:   &ErrorInfo{Type: "error", Message: message},
	})
}

// ErrorResponseWithError maps an *errors.AppError to its status code. Any
// other error is reported as an opaque internal error.
func ErrorResponseWithError(c *gin.Context, err error) {
	if err != nil {
		// picked up by the request logger
		_ = c.Error(err)
	}
	appErr := errors.GetAppError(err)
	if appErr == nil {
		c.JSON(http.StatusInternalServerError, APIResponse{
			Success: false,
			Error: &ErrorInfo{
				Type:    string(errors.ErrorTypeInternal),
				Message: constants.ErrMsgInternalServerError,
			},
		})
		return
	}

	info := &ErrorInfo{
		Type:    string(appErr.Type),
		Message: appErr.Message,
		Field:   appErr.Field,
		Details: appErr.Details,
	}
	// internal details stay in the logs
	if appErr.Type == errors.ErrorTypeInternal {
		info.Details = ""
	}
	c.JSON(appErr.Code, APIResponse{Success: false, Error: info})
}

func NoContentResponse(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
