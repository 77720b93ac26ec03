package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusdesk/campusdesk/internal/shared/errors"
)

type sampleRequest struct {
	Subject  string `json:"subject" validate:"required,max=10"`
	Category string `json:"category" validate:"omitempty,max=5"`
}

func TestValidateStruct(t *testing.T) {
	assert.NoError(t, ValidateStruct(sampleRequest{Subject: "hello"}))

	err := ValidateStruct(sampleRequest{})
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
	assert.Equal(t, "subject", appErr.Field)
	assert.Equal(t, "subject is required", appErr.Message)

	err = ValidateStruct(sampleRequest{Subject: "ok", Category: "toolong"})
	appErr = errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "category", appErr.Field)
	assert.Contains(t, appErr.Message, "at most 5 characters")
}
