package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-manager/internal/domain"
)

func TestCategoryValidator_CleanCategoryDraft(t *testing.T) {
	cv := NewCategoryValidator(nil)

	tests := []struct {
		name      string
		draft     domain.CategoryDraft
		wantField string
	}{
		{"valid", domain.CategoryDraft{Name: "Health", Color: domain.ColorRed, Icon: domain.IconHeart}, ""},
		{"blank name", domain.CategoryDraft{Name: " ", Color: domain.ColorRed, Icon: domain.IconHeart}, "name"},
		{"long name", domain.CategoryDraft{Name: strings.Repeat("n", 51), Color: domain.ColorRed, Icon: domain.IconHeart}, "name"},
		{"unknown color", domain.CategoryDraft{Name: "x", Color: "teal", Icon: domain.IconHeart}, "color"},
		{"unknown icon", domain.CategoryDraft{Name: "x", Color: domain.ColorRed, Icon: "Star"}, "icon"},
		{"missing color", domain.CategoryDraft{Name: "x", Icon: domain.IconHeart}, "color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleaned, err := cv.CleanCategoryDraft(tt.draft)
			if tt.wantField == "" {
				require.NoError(t, err)
				assert.Equal(t, strings.TrimSpace(tt.draft.Name), cleaned.Name)
				return
			}

			require.Error(t, err)
			ve := err.(*ValidationError)
			assert.NotEmpty(t, ve.GetFieldErrors(tt.wantField), "errors: %v", ve.Errors)
		})
	}
}

func TestCategoryValidator_ValidateCategoryID(t *testing.T) {
	cv := NewCategoryValidator(nil)

	assert.NoError(t, cv.ValidateCategoryID("1"))
	assert.Error(t, cv.ValidateCategoryID(""))
}
