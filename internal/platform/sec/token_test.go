// Copyright (c) 2026 Folioworks. All rights reserved.

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/folioworks/folio/internal/platform/sec"
)

/*
TestTokenGuard_Verify exercises match, mismatch, and the locked-down edge cases.
*/
func TestTokenGuard_Verify(t *testing.T) {
	tests := []struct {
		name      string
		expected  string
		presented string
		want      bool
	}{
		{"exact match", "s3cret-token", "s3cret-token", true},
		{"wrong token", "s3cret-token", "guess", false},
		{"same length mismatch", "s3cret-token", "s3cret-tokeX", false},
		{"empty presented", "s3cret-token", "", false},
		{"empty expected locks the gate", "", "anything", false},
		{"both empty still locked", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guard := sec.NewTokenGuard(tt.expected)
			assert.Equal(t, tt.want, guard.Verify(tt.presented))
		})
	}
}
