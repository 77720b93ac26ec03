package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campusdesk/campusdesk/internal/shared/errors"
)

// ParseIDParam parses a positive numeric path parameter. entityName is used
// in the error message ("ticket", "attachment").
func ParseIDParam(c *gin.Context, paramName, entityName string) (uint, error) {
	raw := c.Param(paramName)
	if raw == "" {
		return 0, errors.NewFieldValidationError(paramName, entityName+" ID is required")
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, errors.NewFieldValidationError(paramName, "invalid "+entityName+" ID")
	}
	return uint(n), nil
}
