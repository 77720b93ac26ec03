package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campusdesk/campusdesk/internal/shared/constants"
)

func TestValidatePagination(t *testing.T) {
	tests := []struct {
		name         string
		page         int
		pageSize     int
		wantPage     int
		wantPageSize int
	}{
		{"unchanged", 2, 20, 2, 20},
		{"zero page", 0, 20, constants.DefaultPage, 20},
		{"negative page size", 1, -1, 1, constants.DefaultPageSize},
		{"page size capped", 1, 500, 1, constants.MaxPageSize},
		{"page size at max", 1, constants.MaxPageSize, 1, constants.MaxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidatePagination(tt.page, tt.pageSize)
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantPageSize, got.PageSize)
		})
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		name     string
		total    int64
		pageSize int
		want     int
	}{
		{"empty", 0, 10, 1},
		{"exact division", 30, 10, 3},
		{"with remainder", 25, 10, 3},
		{"single page", 5, 10, 1},
		{"zero page size", 10, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TotalPages(tt.total, tt.pageSize))
		})
	}
}
