// Copyright (c) 2026 Folioworks. All rights reserved.

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/folioworks/folio/pkg/slug"
)

/*
TestFrom verifies the slug transformation pipeline across typical catalog names.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple lowercase", "react", "react"},
		{"mixed case", "UI/UX Design", "ui-ux-design"},
		{"diacritics stripped", "Café Société", "cafe-societe"},
		{"punctuation collapsed", "Jobskie, LLC", "jobskie-llc"},
		{"whitespace runs", "Open   Road   Films", "open-road-films"},
		{"leading and trailing separators", "  --React--  ", "react"},
		{"digits preserved", "Vue 3", "vue-3"},
		{"already a slug", "solo-leveling", "solo-leveling"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}

/*
TestFrom_Fallback verifies that fully-stripped input never yields an empty slug.
*/
func TestFrom_Fallback(t *testing.T) {
	for _, input := range []string{"", "   ", "!!!", "---", "???!"} {
		assert.Equal(t, slug.Fallback, slug.From(input), "input %q", input)
	}
}

/*
TestFrom_Deterministic verifies that From is a pure function.
*/
func TestFrom_Deterministic(t *testing.T) {
	first := slug.From("Los Angeles Philharmonic Association")
	second := slug.From("Los Angeles Philharmonic Association")
	assert.Equal(t, first, second)
	assert.Equal(t, "los-angeles-philharmonic-association", first)
}
