// Copyright (c) 2026 Folioworks. All rights reserved.

package optional_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folioworks/folio/pkg/optional"
)

type patchShape struct {
	Title  optional.Field[string]   `json:"title"`
	Tags   optional.Field[[]string] `json:"tags"`
	Order  optional.Field[int]      `json:"order"`
	Hidden optional.Field[bool]     `json:"hidden"`
}

/*
TestField_Absent verifies that untouched fields report as not set.
*/
func TestField_Absent(t *testing.T) {
	var p patchShape
	require.NoError(t, json.Unmarshal([]byte(`{}`), &p))

	assert.False(t, p.Title.IsSet())
	assert.False(t, p.Tags.IsSet())
	assert.False(t, p.Order.IsSet())
}

/*
TestField_ExplicitNull verifies that null marks the field present with a zero value.
*/
func TestField_ExplicitNull(t *testing.T) {
	var p patchShape
	require.NoError(t, json.Unmarshal([]byte(`{"title": null, "tags": null}`), &p))

	assert.True(t, p.Title.IsSet())
	assert.Empty(t, p.Title.Value())

	assert.True(t, p.Tags.IsSet())
	assert.Nil(t, p.Tags.Value())
}

/*
TestField_Value verifies normal value decoding.
*/
func TestField_Value(t *testing.T) {
	var p patchShape
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Folio","tags":[],"order":3,"hidden":true}`), &p))

	assert.True(t, p.Title.IsSet())
	assert.Equal(t, "Folio", p.Title.Value())

	// empty list is present and empty, distinct from null/absent
	assert.True(t, p.Tags.IsSet())
	assert.NotNil(t, p.Tags.Value())
	assert.Len(t, p.Tags.Value(), 0)

	assert.Equal(t, 3, p.Order.Value())
	assert.True(t, p.Hidden.Value())
}

/*
TestField_Of verifies programmatic construction.
*/
func TestField_Of(t *testing.T) {
	f := optional.Of([]string{"a"})
	assert.True(t, f.IsSet())
	assert.Equal(t, []string{"a"}, f.Value())

	var zero optional.Field[string]
	assert.False(t, zero.IsSet())
}
