package valueobjects

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Category is a free-form tag chosen by the requester.
type Category string

const (
	DefaultCategory   Category = "general"
	MaxCategoryLength          = 50
)

func (c Category) String() string {
	return string(c)
}

// NewCategory trims s and falls back to DefaultCategory when nothing is left.
func NewCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultCategory, nil
	}
	if utf8.RuneCountInString(s) > MaxCategoryLength {
		return "", fmt.Errorf("category exceeds maximum length of %d characters", MaxCategoryLength)
	}
	return Category(s), nil
}
