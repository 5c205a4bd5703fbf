package domain_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/ErlanBelekov/item-tracker/internal/domain"
)

func TestValidateItemFields(t *testing.T) {
	tests := []struct {
		name        string
		itemName    string
		description string
		wantErr     bool
	}{
		{"valid", "Book", "", false},
		{"max lengths", strings.Repeat("a", 200), strings.Repeat("b", 1000), false},
		{"multibyte at limit", strings.Repeat("é", 200), "", false},
		{"empty name", "", "desc", true},
		{"blank name", "   ", "", true},
		{"name too long", strings.Repeat("a", 201), "", true},
		{"description too long", "Book", strings.Repeat("b", 1001), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := domain.ValidateItemFields(tc.itemName, tc.description)
			if tc.wantErr {
				if !errors.Is(err, domain.ErrValidation) {
					t.Fatalf("want ErrValidation, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
