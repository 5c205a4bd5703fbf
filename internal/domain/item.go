package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxItemNameLen        = 200
	MaxItemDescriptionLen = 1000
)

var (
	// ErrItemNotFound covers both a missing item and an item owned by
	// someone else.
	ErrItemNotFound = errors.New("item not found")
	ErrValidation   = errors.New("validation failed")
)

type Item struct {
	ID            int64
	Name          string
	Description   string
	CreatedBy     int64
	CreatedByName string
	CreatedAt     time.Time
	UpdatedAt     *time.Time // nil until the first update
}

// ValidateItemFields checks name and description limits. Lengths are
// counted in runes.
func ValidateItemFields(name, description string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if utf8.RuneCountInString(name) > MaxItemNameLen {
		return fmt.Errorf("%w: name must be at most %d characters", ErrValidation, MaxItemNameLen)
	}
	if utf8.RuneCountInString(description) > MaxItemDescriptionLen {
		return fmt.Errorf("%w: description must be at most %d characters", ErrValidation, MaxItemDescriptionLen)
	}
	return nil
}
