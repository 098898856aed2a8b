// Copyright (c) 2026 Folioworks. All rights reserved.

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folioworks/folio/internal/platform/apperr"
	"github.com/folioworks/folio/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		hasError bool
	}{
		{"non-empty passes", "My Project", false},
		{"empty fails", "", true},
		{"whitespace only fails", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			err := v.Required("title", tt.value).Err()
			if tt.hasError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

/*
TestValidator_Slug tests the slug format rule.
*/
func TestValidator_Slug(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		hasError bool
	}{
		{"simple slug", "react", false},
		{"hyphenated slug", "open-road-films", false},
		{"digits allowed", "vue-3", false},
		{"uppercase rejected", "React", true},
		{"leading hyphen rejected", "-react", true},
		{"trailing hyphen rejected", "react-", true},
		{"spaces rejected", "ui ux", true},
		{"empty rejected", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			err := v.Slug("slug", tt.value).Err()
			if tt.hasError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

/*
TestValidator_OneOf tests enumeration membership.
*/
func TestValidator_OneOf(t *testing.T) {
	sections := []string{"experience", "projects", "education", "awards", "skills", "other"}

	v := &validate.Validator{}
	assert.NoError(t, v.OneOf("section", "education", sections...).Err())

	v = &validate.Validator{}
	assert.Error(t, v.OneOf("section", "hobbies", sections...).Err())
}

/*
TestValidator_Chaining verifies that all failures are collected, not just the first.
*/
func TestValidator_Chaining(t *testing.T) {
	v := &validate.Validator{}
	err := v.
		Required("title", "").
		Slug("slug", "Not A Slug").
		MinLen("startDate", "20", 4).
		Err()

	require.Error(t, err)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Len(t, appErr.Details, 3)
}

/*
TestValidator_CleanChain verifies that a fully valid chain produces no error.
*/
func TestValidator_CleanChain(t *testing.T) {
	v := &validate.Validator{}
	err := v.
		Required("title", "Corsair Store").
		Slug("slug", "corsair-store").
		MaxLen("summary", "short summary", 500).
		Err()

	assert.NoError(t, err)
	assert.False(t, v.HasErrors())
}
